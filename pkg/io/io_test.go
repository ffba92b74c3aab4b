package io

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	pkgerr "github.com/matzehuels/png2svg/pkg/errors"
)

var pngOnly = []string{".png"}

// writePNG encodes a small two-colour image at path.
func writePNG(t *testing.T, path string) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.SetNRGBA(0, 0, color.NRGBA{255, 0, 0, 255})
	img.SetNRGBA(1, 1, color.NRGBA{0, 0, 255, 100})

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestImportImage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.png")
	writePNG(t, path)

	img, err := ImportImage(path)
	if err != nil {
		t.Fatalf("ImportImage() error: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 2 || b.Dy() != 2 {
		t.Errorf("bounds = %v, want 2x2", b)
	}
	_, _, _, a := img.At(1, 0).RGBA()
	if a != 0 {
		t.Errorf("pixel (1,0) alpha = %d, want 0", a)
	}
}

func TestImportImageErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := ImportImage(filepath.Join(dir, "missing.png"))
	if !pkgerr.Is(err, pkgerr.ErrCodeFileNotFound) {
		t.Errorf("missing file: got %v, want FILE_NOT_FOUND", err)
	}

	bad := filepath.Join(dir, "bad.png")
	if err := os.WriteFile(bad, []byte("not an image"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err = ImportImage(bad)
	if !pkgerr.Is(err, pkgerr.ErrCodeDecode) {
		t.Errorf("corrupt file: got %v, want DECODE_FAILED", err)
	}
}

func TestReadImage(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 3, 1))); err != nil {
		t.Fatal(err)
	}
	img, err := ReadImage(&buf)
	if err != nil {
		t.Fatalf("ReadImage() error: %v", err)
	}
	if img.Bounds().Dx() != 3 {
		t.Errorf("width = %d, want 3", img.Bounds().Dx())
	}

	if _, err := ReadImage(strings.NewReader("garbage")); !pkgerr.Is(err, pkgerr.ErrCodeDecode) {
		t.Errorf("garbage: got %v, want DECODE_FAILED", err)
	}
}

func TestImportImageLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.png")
	writePNG(t, path) // 2x2

	img, err := ImportImageLimit(path, 4)
	if err != nil {
		t.Fatalf("ImportImageLimit() error: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 2 || b.Dy() != 2 {
		t.Errorf("bounds = %v, want 2x2", b)
	}
	if _, err := ImportImageLimit(path, 3); !pkgerr.Is(err, pkgerr.ErrCodeTooLarge) {
		t.Errorf("got %v, want INPUT_TOO_LARGE", err)
	}
}

func TestCheckSize(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatal(err)
	}
	data := buf.Bytes()

	tests := []struct {
		name      string
		data      []byte
		maxPixels int64
		code      pkgerr.Code
	}{
		{"under limit", data, 17, ""},
		{"at limit", data, 16, ""},
		{"no limit", data, 0, ""},
		{"over limit", data, 15, pkgerr.ErrCodeTooLarge},
		{"garbage", []byte("garbage"), 0, pkgerr.ErrCodeDecode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := CheckSize(bytes.NewReader(tt.data), tt.maxPixels)
			if tt.code == "" {
				if err != nil {
					t.Fatalf("CheckSize() error: %v", err)
				}
				if cfg.Width != 4 || cfg.Height != 4 {
					t.Errorf("config = %dx%d, want 4x4", cfg.Width, cfg.Height)
				}
				return
			}
			if !pkgerr.Is(err, tt.code) {
				t.Errorf("got %v, want %s", err, tt.code)
			}
		})
	}
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.png", "a.PNG", "c.jpg", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.png"), 0755); err != nil {
		t.Fatal(err)
	}

	t.Run("directory", func(t *testing.T) {
		got, err := Discover(dir, pngOnly)
		if err != nil {
			t.Fatalf("Discover() error: %v", err)
		}
		want := []string{filepath.Join(dir, "a.PNG"), filepath.Join(dir, "b.png")}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Discover() = %v, want %v", got, want)
		}
	})

	t.Run("directory with extra extensions", func(t *testing.T) {
		got, err := Discover(dir, []string{".png", ".jpg"})
		if err != nil {
			t.Fatalf("Discover() error: %v", err)
		}
		if len(got) != 3 {
			t.Errorf("Discover() = %v, want 3 files", got)
		}
	})

	t.Run("single file", func(t *testing.T) {
		path := filepath.Join(dir, "b.png")
		got, err := Discover(path, pngOnly)
		if err != nil {
			t.Fatalf("Discover() error: %v", err)
		}
		if !reflect.DeepEqual(got, []string{path}) {
			t.Errorf("Discover() = %v", got)
		}
	})

	t.Run("wrong extension", func(t *testing.T) {
		_, err := Discover(filepath.Join(dir, "c.jpg"), pngOnly)
		if !pkgerr.Is(err, pkgerr.ErrCodeInvalidExtension) {
			t.Errorf("got %v, want INVALID_EXTENSION", err)
		}
	})

	t.Run("missing path", func(t *testing.T) {
		_, err := Discover(filepath.Join(dir, "nope"), pngOnly)
		if !pkgerr.Is(err, pkgerr.ErrCodeFileNotFound) {
			t.Errorf("got %v, want FILE_NOT_FOUND", err)
		}
	})

	t.Run("symlinks are followed", func(t *testing.T) {
		linkDir := t.TempDir()
		if err := os.Symlink(filepath.Join(dir, "b.png"), filepath.Join(linkDir, "link.png")); err != nil {
			t.Skipf("symlinks unsupported: %v", err)
		}
		if err := os.Symlink(filepath.Join(dir, "missing.png"), filepath.Join(linkDir, "dangling.png")); err != nil {
			t.Fatal(err)
		}
		if err := os.Symlink(filepath.Join(dir, "sub.png"), filepath.Join(linkDir, "dirlink.png")); err != nil {
			t.Fatal(err)
		}

		got, err := Discover(linkDir, pngOnly)
		if err != nil {
			t.Fatalf("Discover() error: %v", err)
		}
		want := []string{filepath.Join(linkDir, "link.png")}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Discover() = %v, want %v", got, want)
		}
	})

	t.Run("empty directory", func(t *testing.T) {
		got, err := Discover(t.TempDir(), pngOnly)
		if err != nil || len(got) != 0 {
			t.Errorf("Discover() = %v, %v; want no files", got, err)
		}
	})
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"logo.png", "logo.svg"},
		{"art/Logo.PNG", "art/Logo.svg"},
		{"a.b.png", "a.b.svg"},
		{"noext", "noext.svg"},
	}
	for _, tt := range tests {
		if got := OutputPath(tt.input); got != tt.want {
			t.Errorf("OutputPath(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestExportSVG(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.svg")

	if err := ExportSVG(path, []byte("<svg/>")); err != nil {
		t.Fatalf("ExportSVG() error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "<svg/>" {
		t.Fatalf("read back %q, %v", data, err)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("temporary files left behind: %v", entries)
	}

	err = ExportSVG(filepath.Join(dir, "missing", "out.svg"), []byte("x"))
	if !pkgerr.Is(err, pkgerr.ErrCodeWrite) {
		t.Errorf("got %v, want WRITE_FAILED", err)
	}
}
