package platform

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/datallboy/pagefetch/internal/domain"
)

const (
	DefaultToolName     = "wget"
	DefaultFallbackTool = "wget.exe"
)

// ErrToolNotFound indicates neither PATH nor the working directory had the tool
var ErrToolNotFound = errors.New("download tool not found")

// Resolver locates the external download executable.
// PATH is searched first, then a fixed file in the working directory.
type Resolver struct {
	Name     string
	Fallback string
	WorkDir  string
	LookPath func(string) (string, error)
}

func NewResolver(name, fallback string) *Resolver {
	if name == "" {
		name = DefaultToolName
	}
	if fallback == "" {
		fallback = DefaultFallbackTool
	}
	return &Resolver{Name: name, Fallback: fallback, LookPath: exec.LookPath}
}

// Resolve returns the first usable tool path
func (r *Resolver) Resolve() (string, error) {
	lookPath := r.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}

	if path, err := lookPath(r.Name); err == nil {
		return path, nil
	}

	dir := r.WorkDir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", notFound(r.Name, r.Fallback, err)
		}
		dir = wd
	}

	local := filepath.Join(dir, r.Fallback)
	if info, err := os.Stat(local); err == nil && info.Mode().IsRegular() {
		return local, nil
	}

	return "", notFound(r.Name, r.Fallback, ErrToolNotFound)
}

func notFound(name, fallback string, err error) error {
	return &domain.Error{
		Kind: domain.KindToolNotFound,
		Op:   fmt.Sprintf("could not find '%s' in PATH or '%s' in the current folder", name, fallback),
		Err:  err,
	}
}

// ValidateDependencies writes a short report on the download tool and
// converter, returning an error only when the tool is missing.
func ValidateDependencies(w io.Writer, r *Resolver, converterName string) error {
	path, err := r.Resolve()
	if err != nil {
		fmt.Fprintf(w, "Tool: %s not found\n", r.Name)
	} else {
		fmt.Fprintf(w, "Tool: %s (%s)\n", r.Name, path)
	}

	if converterName == "" {
		fmt.Fprintln(w, "Info: conversion disabled. Markdown output will be skipped.")
	} else {
		fmt.Fprintf(w, "Converter: %s\n", converterName)
	}

	return err
}
