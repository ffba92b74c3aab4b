package io

import (
	"os"
	"path/filepath"
	"strings"

	pkgerr "github.com/matzehuels/png2svg/pkg/errors"
)

// SVGExt is the extension given to converted files.
const SVGExt = ".svg"

// OutputPath returns the sibling SVG path for a raster input:
// "art/logo.png" becomes "art/logo.svg".
func OutputPath(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + SVGExt
}

// ExportSVG writes data to path atomically with mode 0644.
func ExportSVG(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".png2svg-*")
	if err != nil {
		return pkgerr.Wrap(pkgerr.ErrCodeWrite, err, "write %s", path)
	}
	name := tmp.Name()

	_, err = tmp.Write(data)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Chmod(name, 0644)
	}
	if err == nil {
		err = os.Rename(name, path)
	}
	if err != nil {
		_ = os.Remove(name)
		return pkgerr.Wrap(pkgerr.ErrCodeWrite, err, "write %s", path)
	}
	return nil
}
