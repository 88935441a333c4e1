package processor

import (
	"errors"
	"io/fs"
	"os"

	"github.com/datallboy/pagefetch/internal/domain"
)

const DefaultExtension = ".html"

// Normalizer guarantees a fetched artifact carries a file extension
type Normalizer struct {
	DefaultExt string
}

func NewNormalizer(defaultExt string) *Normalizer {
	if defaultExt == "" {
		defaultExt = DefaultExtension
	}
	return &Normalizer{DefaultExt: defaultExt}
}

// Normalize renames an extensionless artifact to <path><DefaultExt>.
// Anything already at the target path is removed first without warning.
func (n *Normalizer) Normalize(a domain.Artifact) (domain.Artifact, error) {
	if a.Ext() != "" {
		return domain.Artifact{Path: a.Path, Stage: domain.StageNormalized}, nil
	}

	target := a.Path + n.DefaultExt

	if err := os.Remove(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return domain.Artifact{}, &domain.Error{Kind: domain.KindFilesystem, Op: "could not rename file", Path: target, Err: err}
	}

	if err := os.Rename(a.Path, target); err != nil {
		return domain.Artifact{}, &domain.Error{Kind: domain.KindFilesystem, Op: "could not rename file", Path: a.Path, Err: err}
	}

	return domain.Artifact{Path: target, Stage: domain.StageNormalized}, nil
}
