package convert

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/datallboy/pagefetch/internal/domain"
)

const MarkdownExtension = ".md"

// Stage writes the text produced by a Capability next to the artifact.
// A nil Capability means conversion is unavailable.
type Stage struct {
	Capability Capability
}

func NewStage(c Capability) *Stage {
	return &Stage{Capability: c}
}

// Available reports whether a conversion capability is configured
func (s *Stage) Available() bool {
	return s != nil && s.Capability != nil
}

func (s *Stage) Name() string {
	if !s.Available() {
		return ""
	}
	return s.Capability.Name()
}

// DerivedPath replaces the artifact extension with .md
func DerivedPath(artifactPath string) string {
	return strings.TrimSuffix(artifactPath, domain.Ext(artifactPath)) + MarkdownExtension
}

// Run converts a normalized artifact and returns the derived Markdown artifact.
// The input artifact is never modified. When it already is a .md file there is
// nothing to derive and the stage reports StageConversionSkipped.
func (s *Stage) Run(ctx context.Context, a domain.Artifact) (out domain.Artifact, err error) {
	if !s.Available() {
		return domain.Artifact{Path: a.Path, Stage: domain.StageConversionSkipped}, nil
	}

	target := DerivedPath(a.Path)
	if target == a.Path {
		return domain.Artifact{Path: a.Path, Stage: domain.StageConversionSkipped}, nil
	}

	defer func() {
		if r := recover(); r != nil {
			out = domain.Artifact{}
			err = &domain.Error{Kind: domain.KindUnknown, Op: "unexpected conversion failure", Path: a.Path, Err: fmt.Errorf("%v", r)}
		}
	}()

	text, err := s.Capability.Convert(ctx, a.Path)
	if err != nil {
		return domain.Artifact{}, &domain.Error{Kind: domain.KindConversion, Op: "error converting to markdown", Path: a.Path, Err: err}
	}

	if err := os.WriteFile(target, []byte(text), 0644); err != nil {
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			return domain.Artifact{}, &domain.Error{Kind: domain.KindFilesystem, Op: "could not create or write markdown file", Path: target, Err: err}
		}
		return domain.Artifact{}, &domain.Error{Kind: domain.KindUnknown, Op: "unexpected conversion failure", Path: target, Err: err}
	}

	return domain.Artifact{Path: target, Stage: domain.StageConverted}, nil
}
