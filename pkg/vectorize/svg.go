package vectorize

import (
	"bufio"
	"bytes"
	"io"
	"strconv"
)

const svgHeader = `<?xml version="1.0" encoding="UTF-8" standalone="no"?>
<!DOCTYPE svg PUBLIC "-//W3C//DTD SVG 1.1//EN" 
  "http://www.w3.org/Graphics/SVG/1.1/DTD/svg11.dtd">
`

// Shape is one region ready for output: its colour, its pixel count and the
// contours tracing its boundary.
type Shape struct {
	Color    Color
	Pixels   int
	Contours []Contour
}

// Area returns the signed area enclosed by all contours. For a traced region
// this equals its pixel count.
func (s Shape) Area() int {
	area := 0
	for _, c := range s.Contours {
		area += c.Area()
	}
	return area
}

// Vertices returns the number of points across all contours.
func (s Shape) Vertices() int {
	n := 0
	for _, c := range s.Contours {
		n += len(c)
	}
	return n
}

// WriteSVG writes an SVG 1.1 document of the given canvas size with one path
// per shape. Shapes without contours are skipped.
func WriteSVG(w io.Writer, width, height int, shapes []Shape) error {
	bw := bufio.NewWriter(w)

	bw.WriteString(svgHeader)
	bw.WriteString(`<svg width="`)
	bw.WriteString(strconv.Itoa(width))
	bw.WriteString(`" height="`)
	bw.WriteString(strconv.Itoa(height))
	bw.WriteString("\"\n     xmlns=\"http://www.w3.org/2000/svg\" version=\"1.1\">\n")

	var num []byte
	for _, s := range shapes {
		if len(s.Contours) == 0 {
			continue
		}
		bw.WriteString(` <path d="`)
		for _, c := range s.Contours {
			if len(c) == 0 {
				continue
			}
			for i, p := range c {
				if i == 0 {
					bw.WriteString(" M ")
				} else {
					bw.WriteString(" L ")
				}
				num = strconv.AppendInt(num[:0], int64(p.X), 10)
				num = append(num, ',')
				num = strconv.AppendInt(num, int64(p.Y), 10)
				bw.Write(num)
			}
			bw.WriteString(" Z")
		}
		bw.WriteString(`" style="`)
		bw.WriteString(fillStyle(s.Color))
		bw.WriteString("\" />\n")
	}

	bw.WriteString("</svg>\n")
	return bw.Flush()
}

// RenderSVG is WriteSVG into a byte slice.
func RenderSVG(width, height int, shapes []Shape) []byte {
	var buf bytes.Buffer
	_ = WriteSVG(&buf, width, height, shapes) // bytes.Buffer writes never fail
	return buf.Bytes()
}

// fillStyle formats the style attribute for a region colour. The opacity is
// alpha/255 in single precision, printed in its shortest form ("1",
// "0.5019608").
func fillStyle(c Color) string {
	b := make([]byte, 0, 64)
	b = append(b, "fill:rgb("...)
	b = strconv.AppendUint(b, uint64(c.R), 10)
	b = append(b, ',')
	b = strconv.AppendUint(b, uint64(c.G), 10)
	b = append(b, ',')
	b = strconv.AppendUint(b, uint64(c.B), 10)
	b = append(b, "); fill-opacity:"...)
	b = strconv.AppendFloat(b, float64(float32(c.A)/255), 'f', -1, 32)
	b = append(b, "; stroke:none;"...)
	return string(b)
}
