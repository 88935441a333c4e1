package workspace

import (
	"os"
	"path/filepath"
	"time"

	"github.com/datallboy/pagefetch/internal/domain"
)

const (
	DefaultPrefix   = "download_"
	TimestampLayout = "20060102_150405"

	dirPermissions = 0755
)

// Allocator creates one timestamp-named directory per run.
// Two runs within the same second share a directory.
type Allocator struct {
	BaseDir string
	Prefix  string
	Clock   func() time.Time
}

func NewAllocator(baseDir, prefix string) *Allocator {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Allocator{BaseDir: baseDir, Prefix: prefix, Clock: time.Now}
}

// Name returns the directory name for the given instant
func (a *Allocator) Name(t time.Time) string {
	return a.Prefix + t.Format(TimestampLayout)
}

// Allocate creates the workspace directory, succeeding if it already exists.
func (a *Allocator) Allocate() (domain.Workspace, error) {
	now := time.Now
	if a.Clock != nil {
		now = a.Clock
	}
	t := now()

	dir := filepath.Join(a.BaseDir, a.Name(t))
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return domain.Workspace{}, &domain.Error{Kind: domain.KindFilesystem, Op: "create folder", Path: dir, Err: err}
	}

	return domain.Workspace{Dir: dir, CreatedAt: t}, nil
}
