package vectorize

// Options control how contours are traced.
type Options struct {
	// KeepEveryPoint retains every lattice point along straight runs instead
	// of keeping corners only. The resulting polygons are identical.
	KeepEveryPoint bool
}

// Stats summarises one conversion.
type Stats struct {
	Width, Height int
	Regions       int
	Edges         int
	Contours      int
	Vertices      int
}

// Result is the output of Vectorize.
type Result struct {
	SVG    []byte
	Shapes []Shape
	Stats  Stats
}

// Trace segments g and traces every region into contours. Shapes are in
// region discovery order.
func Trace(g PixelGrid, opts Options) []Shape {
	shapes, _ := trace(g, opts)
	return shapes
}

func trace(g PixelGrid, opts Options) ([]Shape, int) {
	regions := Segment(g)
	shapes := make([]Shape, 0, len(regions))
	edges := 0
	for _, r := range regions {
		boundary := Boundary(r)
		edges += len(boundary)
		shapes = append(shapes, Shape{
			Color:    r.Color,
			Pixels:   len(r.Pixels),
			Contours: Join(boundary, opts.KeepEveryPoint),
		})
	}
	return shapes, edges
}

// Vectorize converts g into an SVG document. It never fails: empty and fully
// transparent grids produce a document with no paths.
func Vectorize(g PixelGrid, opts Options) *Result {
	w, h := g.Size()
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	shapes, edges := trace(g, opts)

	stats := Stats{Width: w, Height: h, Regions: len(shapes), Edges: edges}
	for _, s := range shapes {
		stats.Contours += len(s.Contours)
		stats.Vertices += s.Vertices()
	}

	return &Result{
		SVG:    RenderSVG(w, h, shapes),
		Shapes: shapes,
		Stats:  stats,
	}
}
