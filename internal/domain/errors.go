package domain

import (
	"errors"
	"fmt"
)

// ErrEmptyURL indicates the caller supplied a blank URL
var ErrEmptyURL = errors.New("url is empty")

// ErrUnsupportedFormat indicates no converter handles the artifact extension
var ErrUnsupportedFormat = errors.New("unsupported format")

type ErrorKind string

const (
	KindFilesystem     ErrorKind = "filesystem_error"
	KindToolNotFound   ErrorKind = "tool_not_found"
	KindExecution      ErrorKind = "execution_error"
	KindDownload       ErrorKind = "download_error"
	KindConversion     ErrorKind = "conversion_error"
	KindUnknown        ErrorKind = "unknown_error"
	KindInvalidRequest ErrorKind = "invalid_request"
)

// Error is the failure type every pipeline stage returns.
// Code and Output are only populated for download failures.
type Error struct {
	Kind   ErrorKind
	Op     string
	Path   string
	Code   int
	Output string
	Err    error
}

func (e *Error) Error() string {
	msg := e.Op
	if e.Path != "" {
		msg = fmt.Sprintf("%s %s", msg, e.Path)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind of the first *Error in the chain, or KindUnknown.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindUnknown
}

func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}
