package vectorize

// Edge is a directed unit segment on the corner lattice.
type Edge struct {
	From, To Point
}

// Dir returns the unit step from From to To.
func (e Edge) Dir() Point { return e.To.Sub(e.From) }

// side maps a neighbour direction to the pixel edge facing it. The four
// entries wind counter-clockwise on screen around the pixel square.
type side struct {
	neighbour Point
	from, to  Point
}

var sides = [4]side{
	{neighbour: Point{-1, 0}, from: Point{0, 0}, to: Point{0, 1}}, // left, downward
	{neighbour: Point{0, 1}, from: Point{0, 1}, to: Point{1, 1}},  // bottom, rightward
	{neighbour: Point{1, 0}, from: Point{1, 1}, to: Point{1, 0}},  // right, upward
	{neighbour: Point{0, -1}, from: Point{1, 0}, to: Point{0, 0}}, // top, leftward
}

// Boundary returns the edges separating r from every cell that is not one of
// its members: pixels of other regions (same colour or not), transparent
// pixels and the outside of the grid alike.
//
// Edges are listed in extraction order, pixel by pixel, which keeps contour
// tracing reproducible.
func Boundary(r Region) []Edge {
	members := make(map[Point]struct{}, len(r.Pixels))
	for _, p := range r.Pixels {
		members[p] = struct{}{}
	}

	var edges []Edge
	for _, p := range r.Pixels {
		for _, s := range sides {
			if _, ok := members[p.Add(s.neighbour)]; ok {
				continue
			}
			edges = append(edges, Edge{From: p.Add(s.from), To: p.Add(s.to)})
		}
	}
	return edges
}
