package generator

import "time"

// Models 每个步骤使用的模型，相互独立。
type Models struct {
	Reasoning  string
	Generation string
	Validation string
	Image      string
}

// Draft is one parsed generation pass: header fields plus the markdown body.
type Draft struct {
	TitleLine string
	Title     string
	Tags      []string
	Markdown  string
	Raw       string
}

// Review holds the advisory passes; nothing in it is acted on.
type Review struct {
	Analysis      string
	FactCheck     string
	ImageKeywords string
}

// Turn 记录一次生成（首稿、修改或重写）。
type Turn struct {
	Kind      string
	Input     string
	Draft     Draft
	Err       error
	CreatedAt time.Time
}

const (
	TurnInitial = "initial"
	TurnTweak   = "tweak"
	TurnRedo    = "redo"
)
