package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Storage writes the run's flat-file artifacts under Dir. Every write fully
// replaces the previous content.
type Storage struct {
	Dir string
}

func New(dir string) *Storage {
	if dir == "" {
		dir = "."
	}
	return &Storage{Dir: dir}
}

// Path resolves name against Dir unless it is already absolute.
func (s *Storage) Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.Dir, name)
}

// SaveFile writes content via a temp file and rename, so readers never see a
// half-written artifact.
func (s *Storage) SaveFile(name string, content []byte) error {
	path := s.Path(name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("error saving file: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("error saving file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return fmt.Errorf("error saving file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("error saving file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("error saving file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("error saving file: %w", err)
	}
	return nil
}

// SaveJSON writes v indented by two spaces. Output is deterministic for equal input.
func (s *Storage) SaveJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding %s: %w", name, err)
	}
	return s.SaveFile(name, data)
}

func (s *Storage) ReadFile(name string) ([]byte, error) {
	data, err := os.ReadFile(s.Path(name))
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	return data, nil
}

func (s *Storage) HasFile(name string) bool {
	_, err := os.Stat(s.Path(name))
	return err == nil
}
