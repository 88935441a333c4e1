package convert

import (
	"context"
	"fmt"
	"os"
	"unicode/utf8"
)

// TextConverter passes plain text files through unchanged
type TextConverter struct{}

func NewTextConverter() *TextConverter {
	return &TextConverter{}
}

func (t *TextConverter) Name() string { return "Text" }

func (t *TextConverter) SupportedExtensions() []string {
	return []string{".txt", ".text", ".md", ".markdown"}
}

func (t *TextConverter) Convert(_ context.Context, path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	if !utf8.Valid(raw) {
		return "", fmt.Errorf("%s is not valid UTF-8 text", path)
	}
	return string(raw), nil
}
