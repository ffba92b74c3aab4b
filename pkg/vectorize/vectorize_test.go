package vectorize

import (
	"image"
	"image/color"
	"math/rand"
	"reflect"
	"strings"
	"testing"
)

var (
	red   = Color{255, 0, 0, 255}
	green = Color{0, 255, 0, 255}
	blue  = Color{0, 0, 255, 128}
	none  = Color{}
)

// randomGrid builds a reproducible grid over a small palette so that regions
// of every shape, holes and diagonal touches all show up.
func randomGrid(seed int64, w, h int, palette []Color) Grid {
	rng := rand.New(rand.NewSource(seed))
	g := make(Grid, h)
	for y := range g {
		g[y] = make([]Color, w)
		for x := range g[y] {
			g[y][x] = palette[rng.Intn(len(palette))]
		}
	}
	return g
}

func TestVectorizeSinglePixel(t *testing.T) {
	res := Vectorize(Grid{{red}}, Options{})

	want := svgHeader +
		"<svg width=\"1\" height=\"1\"\n     xmlns=\"http://www.w3.org/2000/svg\" version=\"1.1\">\n" +
		` <path d=" M 0,0 L 0,1 L 1,1 L 1,0 Z" style="fill:rgb(255,0,0); fill-opacity:1; stroke:none;" />` + "\n" +
		"</svg>\n"
	if got := string(res.SVG); got != want {
		t.Errorf("SVG mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}

	if res.Stats.Regions != 1 || res.Stats.Contours != 1 || res.Stats.Vertices != 4 || res.Stats.Edges != 4 {
		t.Errorf("Stats = %+v", res.Stats)
	}
}

func TestVectorizeSinglePixelInLargerGrid(t *testing.T) {
	g := Grid{
		{none, none, none},
		{none, blue, none},
	}
	shapes := Trace(g, Options{})
	if len(shapes) != 1 {
		t.Fatalf("got %d shapes, want 1", len(shapes))
	}
	want := []Contour{{{1, 1}, {1, 2}, {2, 2}, {2, 1}}}
	if !reflect.DeepEqual(shapes[0].Contours, want) {
		t.Errorf("Contours = %v, want %v", shapes[0].Contours, want)
	}
	if !strings.Contains(string(Vectorize(g, Options{}).SVG), "fill:rgb(0,0,255); fill-opacity:0.5019608; stroke:none;") {
		t.Error("expected translucent blue fill style")
	}
}

func TestVectorizeEmpty(t *testing.T) {
	tests := []struct {
		name   string
		grid   PixelGrid
		width  int
		height int
	}{
		{"nil grid", Grid(nil), 0, 0},
		{"zero width", Grid{{}, {}}, 0, 2},
		{"fully transparent", Grid{{none, none}, {none, none}}, 2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Vectorize(tt.grid, Options{})
			got := string(res.SVG)
			if strings.Contains(got, "<path") {
				t.Errorf("expected no paths, got:\n%s", got)
			}
			if !strings.HasPrefix(got, svgHeader) || !strings.HasSuffix(got, ">\n</svg>\n") {
				t.Errorf("malformed document:\n%s", got)
			}
			if res.Stats.Width != tt.width || res.Stats.Height != tt.height {
				t.Errorf("size = %dx%d, want %dx%d", res.Stats.Width, res.Stats.Height, tt.width, tt.height)
			}
		})
	}
}

func TestCollinearCollapse(t *testing.T) {
	g := Grid{{red, red}}

	got := Trace(g, Options{})[0].Contours
	want := []Contour{{{0, 0}, {0, 1}, {2, 1}, {2, 0}}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("collapsed = %v, want %v", got, want)
	}

	got = Trace(g, Options{KeepEveryPoint: true})[0].Contours
	want = []Contour{{{0, 0}, {0, 1}, {1, 1}, {2, 1}, {2, 0}, {1, 0}}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("kept = %v, want %v", got, want)
	}
}

func TestLongRunCollapse(t *testing.T) {
	g := Grid{{red, red, red, red, red}}
	got := Trace(g, Options{})[0].Contours
	want := []Contour{{{0, 0}, {0, 1}, {5, 1}, {5, 0}}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Contours = %v, want %v", got, want)
	}
}

func TestHole(t *testing.T) {
	g := Grid{
		{red, red, red},
		{red, green, red},
		{red, red, red},
	}
	shapes := Trace(g, Options{})
	if len(shapes) != 2 {
		t.Fatalf("got %d shapes, want 2", len(shapes))
	}

	ring := shapes[0]
	if ring.Color != red || ring.Pixels != 8 {
		t.Fatalf("first shape = %v with %d pixels, want red ring", ring.Color, ring.Pixels)
	}
	if len(ring.Contours) != 2 {
		t.Fatalf("ring has %d contours, want 2", len(ring.Contours))
	}
	areas := []int{ring.Contours[0].Area(), ring.Contours[1].Area()}
	if areas[0]+areas[1] != 8 || (areas[0] != 9 && areas[1] != 9) {
		t.Errorf("contour areas = %v, want outer 9 and hole -1", areas)
	}
	if shapes[1].Area() != 1 {
		t.Errorf("centre area = %d, want 1", shapes[1].Area())
	}
}

func TestSameColorDisjointRegions(t *testing.T) {
	g := Grid{{red, green, red}}
	shapes := Trace(g, Options{})
	if len(shapes) != 3 {
		t.Fatalf("got %d shapes, want 3", len(shapes))
	}
	if shapes[0].Color != red || shapes[2].Color != red {
		t.Error("expected two separate red regions")
	}
	if strings.Count(string(Vectorize(g, Options{}).SVG), "<path") != 3 {
		t.Error("expected one path per region")
	}
}

func TestCheckerboard(t *testing.T) {
	g := Grid{
		{red, green},
		{green, red},
	}
	first := Vectorize(g, Options{})
	if first.Stats.Regions != 4 {
		t.Fatalf("Regions = %d, want 4", first.Stats.Regions)
	}
	for i, s := range first.Shapes {
		if len(s.Contours) != 1 || s.Area() != 1 || len(s.Contours[0]) != 4 {
			t.Errorf("shape %d = %v, want one unit square", i, s.Contours)
		}
	}
	for i := 0; i < 5; i++ {
		if again := Vectorize(g, Options{}); string(again.SVG) != string(first.SVG) {
			t.Fatal("checkerboard output is not deterministic")
		}
	}
}

func TestDiagonalSelfTouch(t *testing.T) {
	// The hole at (1,1) and the notch at (2,2) meet at corner (2,2), which
	// then has four incident edges of the red region.
	g := Grid{
		{red, red, red},
		{red, none, red},
		{red, red, none},
	}
	shapes := Trace(g, Options{})
	if len(shapes) != 1 {
		t.Fatalf("got %d shapes, want 1", len(shapes))
	}
	if area := shapes[0].Area(); area != 7 {
		t.Errorf("Area = %d, want 7", area)
	}
	checkEdgeConsumption(t, Segment(g)[0])

	again := Trace(g, Options{})
	if !reflect.DeepEqual(shapes, again) {
		t.Error("trace is not deterministic")
	}
}

func TestJoinPriorityAtSharedCorner(t *testing.T) {
	tests := []struct {
		name string
		grid Grid
		want []Contour
	}{
		{
			// At (2,2) both east and west continue the outer loop; east wins
			// and the hole is traced separately.
			name: "hole meets notch",
			grid: Grid{
				{red, red, red},
				{red, none, red},
				{red, red, none},
			},
			want: []Contour{
				{{0, 0}, {0, 3}, {2, 3}, {2, 2}, {3, 2}, {3, 0}},
				{{1, 1}, {2, 1}, {2, 2}, {1, 2}},
			},
		},
		{
			// At (1,1) east is taken before west, so the walk goes around the
			// hole and comes back through (1,1) as one pinched loop.
			name: "pinched loop",
			grid: Grid{
				{none, red, red},
				{red, none, red},
				{red, red, red},
			},
			want: []Contour{
				{{0, 1}, {0, 3}, {3, 3}, {3, 0}, {1, 0}, {1, 1}, {2, 1}, {2, 2}, {1, 2}, {1, 1}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shapes := Trace(tt.grid, Options{})
			if len(shapes) != 1 {
				t.Fatalf("got %d shapes, want 1", len(shapes))
			}
			if got := shapes[0].Contours; !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Contours = %v, want %v", got, tt.want)
			}
			if area := shapes[0].Area(); area != 7 {
				t.Errorf("Area = %d, want 7", area)
			}
		})
	}

	t.Run("pinched loop keeps every point", func(t *testing.T) {
		g := Grid{
			{none, red, red},
			{red, none, red},
			{red, red, red},
		}
		shapes := Trace(g, Options{KeepEveryPoint: true})
		if len(shapes) != 1 || len(shapes[0].Contours) != 1 {
			t.Fatalf("got %v, want one shape with one contour", shapes)
		}
		if n := len(shapes[0].Contours[0]); n != 16 {
			t.Errorf("points = %d, want 16", n)
		}
	})
}

func TestPartition(t *testing.T) {
	palette := []Color{red, green, blue, none}
	for seed := int64(1); seed <= 20; seed++ {
		g := randomGrid(seed, 9, 7, palette)
		w, h := g.Size()
		owner := make(map[Point]int)

		for i, r := range Segment(g) {
			for _, p := range r.Pixels {
				if prev, ok := owner[p]; ok {
					t.Fatalf("seed %d: pixel %v in regions %d and %d", seed, p, prev, i)
				}
				owner[p] = i
				if g.At(p.X, p.Y) != r.Color {
					t.Fatalf("seed %d: pixel %v colour differs from region colour", seed, p)
				}
			}
		}

		for x := 0; x < w; x++ {
			for y := 0; y < h; y++ {
				_, ok := owner[Point{x, y}]
				if opaque := !g.At(x, y).Transparent(); ok != opaque {
					t.Fatalf("seed %d: pixel (%d,%d) owned=%v opaque=%v", seed, x, y, ok, opaque)
				}
			}
		}
	}
}

func TestRegionsAreConnected(t *testing.T) {
	g := randomGrid(7, 12, 12, []Color{red, green})
	for _, r := range Segment(g) {
		members := make(map[Point]bool, len(r.Pixels))
		for _, p := range r.Pixels {
			members[p] = true
		}
		seen := map[Point]bool{r.Pixels[0]: true}
		stack := []Point{r.Pixels[0]}
		for len(stack) > 0 {
			p := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, d := range neighbours {
				n := p.Add(d)
				if members[n] && !seen[n] {
					seen[n] = true
					stack = append(stack, n)
				}
			}
		}
		if len(seen) != len(r.Pixels) {
			t.Fatalf("region at %v is not 4-connected", r.Pixels[0])
		}
	}
}

func TestAreaConservation(t *testing.T) {
	palette := []Color{red, green, blue, none}
	for seed := int64(1); seed <= 20; seed++ {
		g := randomGrid(seed, 10, 8, palette)
		for _, keep := range []bool{false, true} {
			for _, s := range Trace(g, Options{KeepEveryPoint: keep}) {
				if s.Area() != s.Pixels {
					t.Fatalf("seed %d keep=%v: area %d != pixels %d", seed, keep, s.Area(), s.Pixels)
				}
			}
		}
	}
}

func TestEdgeConsumption(t *testing.T) {
	palette := []Color{red, green, none}
	for seed := int64(1); seed <= 20; seed++ {
		for _, r := range Segment(randomGrid(seed, 8, 8, palette)) {
			checkEdgeConsumption(t, r)
		}
	}
}

// checkEdgeConsumption verifies that in keep-every-point mode the contours of
// r step along every boundary edge exactly once.
func checkEdgeConsumption(t *testing.T, r Region) {
	t.Helper()
	edges := Boundary(r)
	want := make(map[Edge]bool, len(edges))
	for _, e := range edges {
		want[e] = true
	}

	used := make(map[Edge]bool)
	for _, c := range Join(edges, true) {
		for i, p := range c {
			e := Edge{From: p, To: c[(i+1)%len(c)]}
			if !want[e] {
				t.Fatalf("contour step %v is not a boundary edge", e)
			}
			if used[e] {
				t.Fatalf("edge %v consumed twice", e)
			}
			used[e] = true
		}
	}
	if len(used) != len(want) {
		t.Fatalf("consumed %d edges, want %d", len(used), len(want))
	}
}

func TestCollapseIdempotence(t *testing.T) {
	g := randomGrid(3, 10, 10, []Color{red, green, none})
	collapsed := Trace(g, Options{})
	kept := Trace(g, Options{KeepEveryPoint: true})
	if len(collapsed) != len(kept) {
		t.Fatalf("shape count differs: %d vs %d", len(collapsed), len(kept))
	}
	for i := range collapsed {
		if collapsed[i].Area() != kept[i].Area() {
			t.Errorf("shape %d: area %d vs %d", i, collapsed[i].Area(), kept[i].Area())
		}
		if collapsed[i].Vertices() > kept[i].Vertices() {
			t.Errorf("shape %d: collapsed has more vertices than kept", i)
		}
		if !sameOutline(collapsed[i].Contours, kept[i].Contours) {
			t.Errorf("shape %d: outlines differ", i)
		}
	}
}

// sameOutline reports whether two contour lists cover the same unit edges.
func sameOutline(a, b []Contour) bool {
	return reflect.DeepEqual(unitEdges(a), unitEdges(b))
}

func unitEdges(contours []Contour) map[Edge]bool {
	out := make(map[Edge]bool)
	for _, c := range contours {
		for i, p := range c {
			q := c[(i+1)%len(c)]
			step := unit(q.Sub(p))
			for cur := p; cur != q; cur = cur.Add(step) {
				out[Edge{From: cur, To: cur.Add(step)}] = true
			}
		}
	}
	return out
}

func TestColorSwapInvariance(t *testing.T) {
	g := randomGrid(11, 9, 9, []Color{red, green, none})
	swapped := make(Grid, len(g))
	for y, row := range g {
		swapped[y] = make([]Color, len(row))
		for x, c := range row {
			switch c {
			case red:
				swapped[y][x] = green
			case green:
				swapped[y][x] = red
			default:
				swapped[y][x] = c
			}
		}
	}

	a, b := Trace(g, Options{}), Trace(swapped, Options{})
	if len(a) != len(b) {
		t.Fatalf("shape count differs: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if !reflect.DeepEqual(a[i].Contours, b[i].Contours) {
			t.Errorf("shape %d geometry changed", i)
		}
		if (a[i].Color == red) != (b[i].Color == green) {
			t.Errorf("shape %d colour not swapped: %v vs %v", i, a[i].Color, b[i].Color)
		}
	}
}

func TestFillStyle(t *testing.T) {
	tests := []struct {
		c    Color
		want string
	}{
		{Color{255, 0, 0, 255}, "fill:rgb(255,0,0); fill-opacity:1; stroke:none;"},
		{Color{1, 2, 3, 128}, "fill:rgb(1,2,3); fill-opacity:0.5019608; stroke:none;"},
		{Color{0, 0, 0, 1}, "fill:rgb(0,0,0); fill-opacity:0.003921569; stroke:none;"},
	}
	for _, tt := range tests {
		if got := fillStyle(tt.c); got != tt.want {
			t.Errorf("fillStyle(%v) = %q, want %q", tt.c, got, tt.want)
		}
	}
}

func TestWriteSVGSkipsEmptyShapes(t *testing.T) {
	out := string(RenderSVG(4, 3, []Shape{
		{Color: red},
		{Color: green, Contours: []Contour{{{0, 0}, {0, 2}, {1, 2}, {1, 0}}, {{3, 0}, {3, 1}, {4, 1}, {4, 0}}}},
	}))
	if strings.Count(out, "<path") != 1 {
		t.Fatalf("expected one path:\n%s", out)
	}
	if !strings.Contains(out, `d=" M 0,0 L 0,2 L 1,2 L 1,0 Z M 3,0 L 3,1 L 4,1 L 4,0 Z"`) {
		t.Errorf("sub-paths not concatenated:\n%s", out)
	}
	if !strings.Contains(out, `<svg width="4" height="3"`) {
		t.Errorf("missing canvas size:\n%s", out)
	}
}

func TestFromImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(5, 5, 8, 7))
	img.SetNRGBA(5, 5, color.NRGBA{10, 20, 30, 40})
	img.SetNRGBA(7, 6, color.NRGBA{1, 2, 3, 255})

	g := FromImage(img)
	if w, h := g.Size(); w != 3 || h != 2 {
		t.Fatalf("Size = %dx%d, want 3x2", w, h)
	}
	if got := g.At(0, 0); got != (Color{10, 20, 30, 40}) {
		t.Errorf("At(0,0) = %v", got)
	}
	if got := g.At(2, 1); got != (Color{1, 2, 3, 255}) {
		t.Errorf("At(2,1) = %v", got)
	}
	if got := g.At(1, 0); !got.Transparent() {
		t.Errorf("At(1,0) = %v, want transparent", got)
	}
}

func TestFromImageOpaqueRGBA(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.RGBA{200, 100, 50, 255})

	res := Vectorize(FromImage(img), Options{})
	if res.Stats.Regions != 1 {
		t.Fatalf("Regions = %d, want 1", res.Stats.Regions)
	}
	if !strings.Contains(string(res.SVG), "fill:rgb(200,100,50); fill-opacity:1;") {
		t.Errorf("unexpected fill:\n%s", res.SVG)
	}
}
