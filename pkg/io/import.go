package io

import (
	"errors"
	"image"
	"io"
	"io/fs"
	"os"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // Register WebP format decoder

	pkgerr "github.com/matzehuels/png2svg/pkg/errors"
)

// ReadImage decodes an image from r. ReadImage does not close r.
func ReadImage(r io.Reader) (image.Image, error) {
	img, err := imaging.Decode(r)
	if err != nil {
		return nil, pkgerr.Wrap(pkgerr.ErrCodeDecode, err, "decode image")
	}
	return img, nil
}

// ImportImage opens and decodes the image at path.
func ImportImage(path string) (image.Image, error) {
	return ImportImageLimit(path, 0)
}

// ImportImageLimit is ImportImage with a [CheckSize] limit applied before
// the pixels are decoded.
func ImportImageLimit(path string, maxPixels int64) (image.Image, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, pkgerr.Wrap(pkgerr.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, pkgerr.Wrap(pkgerr.ErrCodeDecode, err, "open %s", path)
	}
	defer f.Close()

	if maxPixels > 0 {
		if _, err := CheckSize(f, maxPixels); err != nil {
			return nil, err
		}
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return nil, pkgerr.Wrap(pkgerr.ErrCodeDecode, err, "rewind %s", path)
		}
	}
	img, err := imaging.Decode(f)
	if err != nil {
		return nil, pkgerr.Wrap(pkgerr.ErrCodeDecode, err, "decode %s", path)
	}
	return img, nil
}

// CheckSize decodes only the image header from r and rejects images with more
// than maxPixels pixels, so oversized inputs fail before any pixel buffer is
// allocated. A maxPixels of zero or less disables the limit.
func CheckSize(r io.Reader, maxPixels int64) (image.Config, error) {
	cfg, _, err := image.DecodeConfig(r)
	if err != nil {
		return image.Config{}, pkgerr.Wrap(pkgerr.ErrCodeDecode, err, "decode image header")
	}
	if maxPixels > 0 {
		if n := int64(cfg.Width) * int64(cfg.Height); n > maxPixels {
			return cfg, pkgerr.New(pkgerr.ErrCodeTooLarge,
				"image is %dx%d (%d pixels), limit is %d", cfg.Width, cfg.Height, n, maxPixels)
		}
	}
	return cfg, nil
}
