package io

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	pkgerr "github.com/matzehuels/png2svg/pkg/errors"
)

// Discover returns the files to convert for path. exts must be normalised
// (lower case, leading dot).
func Discover(path string, exts []string) ([]string, error) {
	if err := pkgerr.ValidatePath(path); err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, pkgerr.New(pkgerr.ErrCodeFileNotFound, "path does not exist: %s", path)
	}
	if err != nil {
		return nil, pkgerr.Wrap(pkgerr.ErrCodeInvalidPath, err, "stat %s", path)
	}

	if !info.IsDir() {
		if err := pkgerr.ValidateExtension(path, exts); err != nil {
			return nil, err
		}
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, pkgerr.Wrap(pkgerr.ErrCodeInvalidPath, err, "read directory %s", path)
	}

	var files []string
	for _, e := range entries {
		if !hasExtension(e.Name(), exts) {
			continue
		}
		full := filepath.Join(path, e.Name())
		// Stat follows symlinks; dangling links and directories are skipped.
		fi, err := os.Stat(full)
		if err != nil || !fi.Mode().IsRegular() {
			continue
		}
		files = append(files, full)
	}
	return files, nil
}

func hasExtension(name string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}
