package vectorize

import (
	"image"

	"github.com/disintegration/imaging"
)

// Color is an 8-bit RGBA colour with straight (non-premultiplied) alpha.
// Two colours are equal only when all four channels match.
type Color struct {
	R, G, B, A uint8
}

// Transparent reports whether the colour is fully transparent.
func (c Color) Transparent() bool { return c.A == 0 }

// Point is a coordinate on the pixel grid or on the corner lattice.
type Point struct {
	X, Y int
}

// Add returns p translated by d.
func (p Point) Add(d Point) Point { return Point{p.X + d.X, p.Y + d.Y} }

// Sub returns the offset from q to p.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// PixelGrid is a read-only width×height grid of colours.
// At is only called with 0 <= x < width and 0 <= y < height.
type PixelGrid interface {
	Size() (width, height int)
	At(x, y int) Color
}

// ImageGrid is a PixelGrid backed by an 8-bit NRGBA image anchored at (0,0).
type ImageGrid struct {
	img *image.NRGBA
}

// FromImage adapts a decoded image to a PixelGrid.
//
// The image is copied into non-premultiplied 8-bit RGBA with its origin moved
// to (0,0), so sub-images and 16-bit or paletted sources all behave the same.
func FromImage(img image.Image) *ImageGrid {
	if nrgba, ok := img.(*image.NRGBA); ok && nrgba.Rect.Min == (image.Point{}) {
		return &ImageGrid{img: nrgba}
	}
	return &ImageGrid{img: imaging.Clone(img)}
}

// Size returns the grid dimensions.
func (g *ImageGrid) Size() (int, int) {
	b := g.img.Bounds()
	return b.Dx(), b.Dy()
}

// At returns the colour of pixel (x, y).
func (g *ImageGrid) At(x, y int) Color {
	i := g.img.PixOffset(x, y)
	p := g.img.Pix[i : i+4 : i+4]
	return Color{R: p[0], G: p[1], B: p[2], A: p[3]}
}

// Grid is a PixelGrid held as rows of colours, indexed [y][x].
// It is mostly useful for building small grids by hand.
type Grid [][]Color

// Size returns the grid dimensions. Rows are assumed to be equally long.
func (g Grid) Size() (int, int) {
	if len(g) == 0 {
		return 0, 0
	}
	return len(g[0]), len(g)
}

// At returns the colour of pixel (x, y).
func (g Grid) At(x, y int) Color { return g[y][x] }

var (
	_ PixelGrid = (*ImageGrid)(nil)
	_ PixelGrid = Grid(nil)
)
