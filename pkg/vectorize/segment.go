package vectorize

// Region is a maximal 4-connected set of pixels sharing one exact colour.
// Pixels are listed in the order the flood fill reached them; the first one is
// the pixel that seeded the fill.
type Region struct {
	Color  Color
	Pixels []Point
}

// neighbours are the 4-adjacency offsets in fill order.
var neighbours = [4]Point{{1, 0}, {0, 1}, {-1, 0}, {0, -1}}

// Segment partitions the non-transparent pixels of g into regions.
//
// The grid is scanned column by column (x outer, y inner). Every unvisited
// opaque pixel seeds a breadth-first fill over same-coloured 4-neighbours, so
// every pixel with alpha > 0 ends up in exactly one region. Regions are
// returned in discovery order; several regions may share a colour.
func Segment(g PixelGrid) []Region {
	w, h := g.Size()
	if w <= 0 || h <= 0 {
		return nil
	}

	visited := make([]bool, w*h)
	var regions []Region
	var queue []Point

	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			if visited[y*w+x] {
				continue
			}
			c := g.At(x, y)
			if c.Transparent() {
				continue
			}

			visited[y*w+x] = true
			queue = append(queue[:0], Point{x, y})
			var pixels []Point

			for head := 0; head < len(queue); head++ {
				here := queue[head]
				for _, d := range neighbours {
					n := here.Add(d)
					if n.X < 0 || n.X >= w || n.Y < 0 || n.Y >= h {
						continue
					}
					if visited[n.Y*w+n.X] || g.At(n.X, n.Y) != c {
						continue
					}
					visited[n.Y*w+n.X] = true
					queue = append(queue, n)
				}
				pixels = append(pixels, here)
			}

			regions = append(regions, Region{Color: c, Pixels: pixels})
		}
	}
	return regions
}
