package domain

import (
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"time"
)

type ArtifactStage string

const (
	StageFetched           ArtifactStage = "fetched"
	StageNormalized        ArtifactStage = "normalized"
	StageConverted         ArtifactStage = "converted"
	StageConversionSkipped ArtifactStage = "conversion_skipped"
)

// Workspace is the per-run output directory
type Workspace struct {
	Dir       string
	CreatedAt time.Time
}

// Artifact is the downloaded file at a given pipeline stage
type Artifact struct {
	Path  string
	Stage ArtifactStage
}

func (a Artifact) Ext() string {
	return Ext(a.Path)
}

// Ext returns the extension of the last path element. Leading dots do not
// start an extension, so ".profile" has none and ".profile.html" has ".html".
func Ext(p string) string {
	return filepath.Ext(strings.TrimLeft(filepath.Base(p), "."))
}

type DownloadRequest struct {
	URL  string
	Dest string
}

// NewDownloadRequest trims rawURL and derives the destination file inside dir.
func NewDownloadRequest(rawURL, dir, placeholder string) (DownloadRequest, error) {
	u := strings.TrimSpace(rawURL)
	if u == "" {
		return DownloadRequest{}, &Error{Kind: KindInvalidRequest, Op: "parse url", Err: ErrEmptyURL}
	}

	name, err := FileNameFromURL(u, placeholder)
	if err != nil {
		return DownloadRequest{}, &Error{Kind: KindInvalidRequest, Op: "parse url", Err: err}
	}

	return DownloadRequest{URL: u, Dest: filepath.Join(dir, name)}, nil
}

// FileNameFromURL returns the final segment of the URL path, or placeholder
// when the path is empty or root.
func FileNameFromURL(rawURL, placeholder string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}

	p := parsed.Path
	if p == "" || strings.HasSuffix(p, "/") {
		return placeholder, nil
	}

	base := path.Base(p)
	if base == "." || base == "/" || base == ".." {
		return placeholder, nil
	}
	return base, nil
}
