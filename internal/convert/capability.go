package convert

import (
	"context"
	"fmt"
	"strings"

	"github.com/datallboy/pagefetch/internal/domain"
)

// Capability turns the file at path into plain text
type Capability interface {
	Convert(ctx context.Context, path string) (string, error)
	Name() string
}

// Converter is a Capability bound to a set of file extensions
type Converter interface {
	Capability
	// SupportedExtensions returns lowercase extensions including the leading dot
	SupportedExtensions() []string
}

// Registry dispatches to a Converter by file extension
type Registry struct {
	byExt map[string]Converter
	names []string
}

func NewRegistry(converters ...Converter) *Registry {
	r := &Registry{byExt: make(map[string]Converter)}
	for _, c := range converters {
		r.Register(c)
	}
	return r
}

// NewDefaultRegistry wires the HTML, PDF and plain text converters
func NewDefaultRegistry() *Registry {
	return NewRegistry(NewHTMLConverter(), NewPDFConverter(), NewTextConverter())
}

// Register adds c, replacing any converter already bound to its extensions
func (r *Registry) Register(c Converter) {
	for _, ext := range c.SupportedExtensions() {
		r.byExt[strings.ToLower(ext)] = c
	}
	r.names = append(r.names, c.Name())
}

func (r *Registry) Name() string {
	return strings.Join(r.names, ", ")
}

func (r *Registry) Lookup(path string) (Converter, bool) {
	c, ok := r.byExt[strings.ToLower(domain.Ext(path))]
	return c, ok
}

func (r *Registry) Convert(ctx context.Context, path string) (string, error) {
	c, ok := r.Lookup(path)
	if !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, domain.Ext(path))
	}
	return c.Convert(ctx, path)
}
