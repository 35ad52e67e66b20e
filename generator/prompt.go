package generator

import (
	"fmt"
	"strings"

	"devpost/model"
)

const titlePlaceholder = "Title: <title>"

// outputContract is the exact layout Parse expects back.
var outputContract = strings.Join([]string{
	titlePlaceholder,
	"Tags: [tag1, tag2, ...]",
	Delimiter,
	"<markdown content>",
}, "\n")

var writingRequirements = []string{
	"Write in markdown style using proper headers, code blocks, lists, and bold/italic where appropriate.",
	"Include examples, code snippets, or diagrams if applicable.",
	"Make the article informative and actionable, not just theoretical.",
	"Avoid including any commentary or explanation outside the specified format.",
}

func writeRequirements(sb *strings.Builder) {
	sb.WriteString("Requirements:\n")
	for _, r := range writingRequirements {
		sb.WriteString(fmt.Sprintf("- %s\n", r))
	}
}

// BuildSummaryPrompt asks for a short summary of one article. The body is cut
// to bodyLimit runes; bodyLimit <= 0 keeps it whole.
func BuildSummaryPrompt(a model.Article, bodyLimit int) string {
	var sb strings.Builder
	sb.WriteString("Summarize the following blog post in 4-5 lines.\n")
	sb.WriteString("Include its core topic, style, target audience, and why it likely performed well.\n\n")
	sb.WriteString(fmt.Sprintf("Title: %s\n", a.Title))
	sb.WriteString(fmt.Sprintf("Tags: %s\n", strings.Join(a.AllTags(), ", ")))
	sb.WriteString(fmt.Sprintf("Description: %s\n\n", a.Description))
	sb.WriteString("Content:\n")
	sb.WriteString(truncate(a.BodyMarkdown, bodyLimit))
	sb.WriteString("\n")
	return sb.String()
}

// BuildDraftPrompt 根据历史摘要生成新文章的提示词。
func BuildDraftPrompt(summaries string) string {
	var sb strings.Builder
	sb.WriteString("You are a blogging assistant. Based on the following summaries of previous successful DEV.to posts:\n\n")
	sb.WriteString(summaries)
	sb.WriteString("\n\nAnalyze common themes, styles, and gaps. Then:\n")
	sb.WriteString("1. Propose a new high-performing topic.\n")
	sb.WriteString("2. Generate a long and detailed markdown article in this exact format:\n\n")
	sb.WriteString(outputContract)
	sb.WriteString("\n\n")
	writeRequirements(&sb)
	sb.WriteString("\nONLY return the blog post in the format above.\n")
	return sb.String()
}

// BuildTweakPrompt 在原摘要后追加用户的修改意见，再走一次生成。
func BuildTweakPrompt(summaries, instruction string) string {
	merged := summaries + fmt.Sprintf("\n\nUser wants this edited: %s\nNow generate again.", strings.TrimSpace(instruction))
	return BuildDraftPrompt(merged)
}

// BuildRedoPrompt discards the summaries and writes from a user topic only.
func BuildRedoPrompt(topic string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Write a DEV.to blog post from scratch on this topic: %s.\n\n", strings.TrimSpace(topic)))
	sb.WriteString("Respond using ONLY the following format:\n")
	sb.WriteString(outputContract)
	sb.WriteString("\n\n")
	writeRequirements(&sb)
	return sb.String()
}

func BuildAnalysisPrompt(post, summaries string) string {
	var sb strings.Builder
	sb.WriteString("You are an expert content analyst. Review the following newly generated blog post:\n\n")
	sb.WriteString(post)
	sb.WriteString("\n\nCompare it with the following summaries of previous posts:\n\n")
	sb.WriteString(summaries)
	sb.WriteString("\n\n")
	sb.WriteString("1. Does this new post introduce a significantly different topic, or is it too similar to previous ones?\n")
	sb.WriteString("2. Justify why this post might attract high public interest and engagement.\n")
	sb.WriteString("3. Mention what makes the content fresh, useful, or timely compared to past content.\n")
	return sb.String()
}

func BuildFactCheckPrompt(post string) string {
	var sb strings.Builder
	sb.WriteString("Please fact-check the following blog post for technical and factual accuracy. ")
	sb.WriteString("Highlight any inconsistencies, misleading claims, or incorrect assumptions. ")
	sb.WriteString("If it is correct, say \"All facts check out.\"\n\n")
	sb.WriteString("Post:\n")
	sb.WriteString(post)
	sb.WriteString("\n")
	return sb.String()
}

func BuildImagePrompt(post string) string {
	var sb strings.Builder
	sb.WriteString("Based on the blog post content below, suggest 2-3 suitable themes or keywords ")
	sb.WriteString("that can be used to search for high-quality background or hero images for this post.\n\n")
	sb.WriteString("Post:\n")
	sb.WriteString(post)
	sb.WriteString("\n\nOnly return a list like: [\"keyword1\", \"keyword2\", \"keyword3\"]\n")
	return sb.String()
}

func truncate(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}
