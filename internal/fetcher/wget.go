package fetcher

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os/exec"
	"strings"

	"github.com/datallboy/pagefetch/internal/domain"
)

// Fetcher downloads a request into its destination path
type Fetcher interface {
	Fetch(ctx context.Context, req domain.DownloadRequest) (domain.Artifact, error)
}

// maxOutputTail caps how much tool output is kept on a failed download
const maxOutputTail = 4 << 10

// Wget runs a wget-compatible binary as a child process
type Wget struct {
	BinaryPath string
}

func NewWget(binaryPath string) *Wget {
	return &Wget{BinaryPath: binaryPath}
}

// Fetch blocks until the tool exits. A partial file is left in place on failure.
func (w *Wget) Fetch(ctx context.Context, req domain.DownloadRequest) (domain.Artifact, error) {
	// wget -O <dest> -- <url>
	// -O = write to this file, truncating it if it exists
	// -- = end of options, so a URL starting with '-' is never read as a flag
	cmd := exec.CommandContext(ctx, w.BinaryPath, "-O", req.Dest, "--", req.URL)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return domain.Artifact{}, classify(err, req, outputTail(output))
	}

	return domain.Artifact{Path: req.Dest, Stage: domain.StageFetched}, nil
}

func classify(err error, req domain.DownloadRequest, output string) error {
	var exitErr *exec.ExitError
	switch {
	case errors.As(err, &exitErr):
		return &domain.Error{
			Kind:   domain.KindDownload,
			Op:     "download",
			Path:   req.URL,
			Code:   exitErr.ExitCode(),
			Output: output,
			Err:    err,
		}
	case errors.Is(err, exec.ErrNotFound), errors.Is(err, fs.ErrNotExist), errors.Is(err, fs.ErrPermission):
		return &domain.Error{Kind: domain.KindExecution, Op: "run download tool", Err: err}
	default:
		return &domain.Error{Kind: domain.KindUnknown, Op: "run download tool", Err: err}
	}
}

// outputTail keeps the last maxOutputTail bytes of the tool output.
// wget reports the failure reason at the end.
func outputTail(output []byte) string {
	if len(output) > maxOutputTail {
		output = output[len(output)-maxOutputTail:]
		// drop the partial first line
		if i := bytes.IndexByte(output, '\n'); i >= 0 {
			output = output[i+1:]
		}
	}
	return strings.ToValidUTF8(strings.TrimSpace(string(output)), "")
}
