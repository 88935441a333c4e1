package convert

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// ErrNoText indicates a PDF whose pages carry no extractable text,
// such as a scanned document.
var ErrNoText = errors.New("pdf contains no extractable text")

// PDFConverter validates a PDF with pdfcpu and extracts the text of each
// page. Layout and images are dropped; each page becomes one Markdown section.
type PDFConverter struct{}

func NewPDFConverter() *PDFConverter {
	return &PDFConverter{}
}

func (p *PDFConverter) Name() string { return "PDF" }

func (p *PDFConverter) SupportedExtensions() []string {
	return []string{".pdf"}
}

func (p *PDFConverter) Convert(ctx context.Context, path string) (string, error) {
	cfg := model.NewDefaultConfiguration()
	cfg.ValidationMode = model.ValidationRelaxed

	if err := api.ValidateFile(path, cfg); err != nil {
		return "", fmt.Errorf("invalid pdf: %w", err)
	}

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening pdf: %w", err)
	}
	defer f.Close()

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("reading text of page %d: %w", i, err)
		}

		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "## Page %d\n\n%s", i, text)
	}

	if sb.Len() == 0 {
		return "", ErrNoText
	}
	return sb.String(), nil
}
