package fetcher

import (
	"context"
	"os"
	"strings"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/datallboy/pagefetch/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTool creates a shell script standing in for wget. It receives
// "-O <dest> -- <url>" as $1 $2 $3 $4.
func writeTool(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script tools are not supported on windows")
	}

	path := filepath.Join(t.TempDir(), "wget")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0755))
	return path
}

func TestFetch_Success(t *testing.T) {
	tool := writeTool(t, `[ "$1" = "-O" ] || exit 9
[ "$3" = "--" ] || exit 9
printf '%s' "$4" > "$2"
`)
	dest := filepath.Join(t.TempDir(), "report")

	a, err := NewWget(tool).Fetch(context.Background(), domain.DownloadRequest{URL: "https://example.com/report", Dest: dest})
	require.NoError(t, err)

	assert.Equal(t, dest, a.Path)
	assert.Equal(t, domain.StageFetched, a.Stage)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/report", string(data))
}

func TestFetch_OverwritesExisting(t *testing.T) {
	tool := writeTool(t, `printf 'new' > "$2"
`)
	dest := filepath.Join(t.TempDir(), "file.pdf")
	require.NoError(t, os.WriteFile(dest, []byte("old contents"), 0644))

	_, err := NewWget(tool).Fetch(context.Background(), domain.DownloadRequest{URL: "https://example.com/file.pdf", Dest: dest})
	require.NoError(t, err)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestFetch_NonZeroExit(t *testing.T) {
	tool := writeTool(t, `printf 'partial' > "$2"
echo "ERROR 404: Not Found." >&2
exit 8
`)
	dest := filepath.Join(t.TempDir(), "file.pdf")

	_, err := NewWget(tool).Fetch(context.Background(), domain.DownloadRequest{URL: "https://example.com/file.pdf", Dest: dest})
	require.Error(t, err)

	var de *domain.Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, domain.KindDownload, de.Kind)
	assert.Equal(t, 8, de.Code)
	assert.Contains(t, de.Output, "404")

	// partial output is left for the caller to inspect
	assert.FileExists(t, dest)
}

func TestFetch_MissingBinary(t *testing.T) {
	tool := filepath.Join(t.TempDir(), "does-not-exist")

	_, err := NewWget(tool).Fetch(context.Background(), domain.DownloadRequest{URL: "https://example.com", Dest: filepath.Join(t.TempDir(), "index")})
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindExecution))
}

func TestFetch_NotExecutable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not enforced on windows")
	}
	tool := filepath.Join(t.TempDir(), "wget")
	require.NoError(t, os.WriteFile(tool, []byte("#!/bin/sh\n"), 0644))

	_, err := NewWget(tool).Fetch(context.Background(), domain.DownloadRequest{URL: "https://example.com", Dest: filepath.Join(t.TempDir(), "index")})
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindExecution))
}

func TestFetch_DashURLIsNotAnOption(t *testing.T) {
	// a tool that treats any argument after -O <dest> other than "--" as an option
	tool := writeTool(t, `[ "$3" = "--" ] || { echo "unexpected option $3"; exit 2; }
printf '%s' "$4" > "$2"
`)
	dest := filepath.Join(t.TempDir(), "index")

	a, err := NewWget(tool).Fetch(context.Background(), domain.DownloadRequest{URL: "--version", Dest: dest})
	require.NoError(t, err)

	data, err := os.ReadFile(a.Path)
	require.NoError(t, err)
	assert.Equal(t, "--version", string(data))
}

func TestFetch_OutputIsTruncatedToTail(t *testing.T) {
	tool := writeTool(t, `i=0
while [ $i -lt 2000 ]; do echo "progress line $i ........"; i=$((i+1)); done
echo "ERROR 500: Internal Server Error."
exit 8
`)

	_, err := NewWget(tool).Fetch(context.Background(), domain.DownloadRequest{URL: "https://example.com/x", Dest: filepath.Join(t.TempDir(), "x")})

	var de *domain.Error
	require.ErrorAs(t, err, &de)
	assert.LessOrEqual(t, len(de.Output), maxOutputTail)
	assert.True(t, strings.HasSuffix(de.Output, "ERROR 500: Internal Server Error."))
	assert.NotContains(t, de.Output, "progress line 0 ")
}

func TestOutputTail(t *testing.T) {
	assert.Equal(t, "short", outputTail([]byte("  short\n")))

	long := strings.Repeat("x", maxOutputTail) + "\nlast line\n"
	assert.Equal(t, "last line", outputTail([]byte(long)))
}
