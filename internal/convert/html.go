package convert

import (
	"context"
	"fmt"
	"os"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// HTMLConverter converts HTML documents to Markdown using html-to-markdown
type HTMLConverter struct{}

func NewHTMLConverter() *HTMLConverter {
	return &HTMLConverter{}
}

func (h *HTMLConverter) Name() string { return "HTML" }

func (h *HTMLConverter) SupportedExtensions() []string {
	return []string{".html", ".htm", ".xhtml"}
}

func (h *HTMLConverter) Convert(ctx context.Context, path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	markdown, err := htmltomarkdown.ConvertString(string(raw))
	if err != nil {
		return "", fmt.Errorf("converting HTML to markdown: %w", err)
	}
	return markdown, nil
}
