package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// NormalizeExtension lower-cases ext and makes sure it starts with a dot.
func NormalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// ValidateExtensions normalises a list of raster extensions and rejects
// empty, malformed or output-clashing entries.
//
// Rules:
//   - At least one extension
//   - Each extension is a dot followed by letters or digits only
//   - ".svg" is rejected since outputs would overwrite inputs
func ValidateExtensions(exts []string) ([]string, error) {
	if len(exts) == 0 {
		return nil, New(ErrCodeInvalidConfig, "at least one input extension is required")
	}
	out := make([]string, 0, len(exts))
	seen := make(map[string]bool, len(exts))
	for _, raw := range exts {
		ext := NormalizeExtension(raw)
		if len(ext) < 2 {
			return nil, New(ErrCodeInvalidConfig, "empty input extension")
		}
		for _, r := range ext[1:] {
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
				return nil, New(ErrCodeInvalidConfig, "invalid input extension: %q", raw)
			}
		}
		if ext == ".svg" {
			return nil, New(ErrCodeInvalidConfig, "input extension cannot be .svg")
		}
		if !seen[ext] {
			seen[ext] = true
			out = append(out, ext)
		}
	}
	return out, nil
}

// ValidateExtension checks that path carries one of the allowed extensions
// (compared case-insensitively). exts must already be normalised.
func ValidateExtension(path string, exts []string) error {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range exts {
		if ext == e {
			return nil
		}
	}
	return New(ErrCodeInvalidExtension, "%s is not a %s file", filepath.Base(path), strings.Join(exts, "/"))
}

// ValidatePath validates a user-supplied file path.
//
// Validation rules:
//   - Path cannot be empty
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}
	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid control characters")
		}
	}
	return nil
}
