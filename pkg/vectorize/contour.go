package vectorize

// Contour is a closed loop of corner-lattice points. The closing point is
// implicit: the last point connects back to the first.
type Contour []Point

// joinOrder is the fixed priority in which continuations are tried when
// walking edges: south, east, north, west. It is also the only tie-breaker at
// lattice points where a region's boundary touches itself diagonally.
var joinOrder = [4]Point{{0, 1}, {1, 0}, {0, -1}, {-1, 0}}

// Join walks a region's edges into closed contours, consuming every edge
// exactly once.
//
// Each contour is seeded with the first unconsumed edge in the given order and
// grown by repeatedly taking the first outgoing edge in joinOrder from the
// current end point, until the loop closes. Unless keepEveryPoint is set,
// consecutive steps in the same direction are merged so only the corners of
// each loop remain.
func Join(edges []Edge, keepEveryPoint bool) []Contour {
	remaining := make(map[Edge]struct{}, len(edges))
	for _, e := range edges {
		remaining[e] = struct{}{}
	}

	var contours []Contour
	next := 0
	for len(remaining) > 0 {
		for {
			if _, ok := remaining[edges[next]]; ok {
				break
			}
			next++
		}
		seed := edges[next]
		delete(remaining, seed)

		pts := []Point{seed.From, seed.To}
		last := seed.Dir()
		for {
			cur := pts[len(pts)-1]
			found := false
			for _, d := range joinOrder {
				e := Edge{From: cur, To: cur.Add(d)}
				if _, ok := remaining[e]; !ok {
					continue
				}
				delete(remaining, e)
				if !keepEveryPoint && d == last {
					pts = pts[:len(pts)-1]
				}
				pts = append(pts, e.To)
				last = d
				found = true
				break
			}
			if !found || pts[len(pts)-1] == pts[0] {
				break
			}
		}

		if len(pts) > 1 && pts[len(pts)-1] == pts[0] {
			pts = pts[:len(pts)-1]
			if !keepEveryPoint {
				pts = dropCollinearStart(pts)
			}
		}
		contours = append(contours, Contour(pts))
	}
	return contours
}

// dropCollinearStart removes the first point of a closed loop when it sits in
// the middle of a straight run, which happens when the seed edge was not at a
// corner.
func dropCollinearStart(pts []Point) []Point {
	n := len(pts)
	if n < 3 {
		return pts
	}
	if unit(pts[0].Sub(pts[n-1])) == unit(pts[1].Sub(pts[0])) {
		return pts[1:]
	}
	return pts
}

func unit(p Point) Point {
	return Point{sign(p.X), sign(p.Y)}
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// Area returns the shoelace area of the loop, positive for counter-clockwise
// (outer) loops and negative for holes, in screen orientation.
func (c Contour) Area() int {
	sum := 0
	for i, p := range c {
		q := c[(i+1)%len(c)]
		sum += p.X*q.Y - q.X*p.Y
	}
	return -sum / 2
}
