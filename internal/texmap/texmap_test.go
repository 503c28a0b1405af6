package texmap

import (
	"fmt"
	"image"
	"image/color"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/olivier-w/squishy/internal/geom"
)

func absDiff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}

func near(a, b r2.Vec) bool {
	return r2.Norm(r2.Sub(a, b)) < 1e-9
}

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

type recorder struct {
	ops []string
}

func (r *recorder) Save()                               { r.ops = append(r.ops, "save") }
func (r *recorder) Restore()                            { r.ops = append(r.ops, "restore") }
func (r *recorder) Transform(Affine)                    { r.ops = append(r.ops, "transform") }
func (r *recorder) Clip(poly []r2.Vec)                  { r.ops = append(r.ops, fmt.Sprintf("clip%d", len(poly))) }
func (r *recorder) DrawImage(img image.Image, _ r2.Box) { r.ops = append(r.ops, "draw") }

func TestSolveAffineMapsVertices(t *testing.T) {
	tex := [3]r2.Vec{{X: 50, Y: 50}, {X: 50, Y: 100}, {X: 100, Y: 50}}
	scr := [3]r2.Vec{{X: 310, Y: 205}, {X: 302, Y: 290}, {X: 377, Y: 199}}
	m, ok := SolveAffine(tex, scr)
	if !ok {
		t.Fatal("expected solvable triangle")
	}
	for i := range 3 {
		if got := m.Apply(tex[i]); !near(got, scr[i]) {
			t.Fatalf("vertex %d: expected %v, got %v", i, scr[i], got)
		}
	}
}

func TestSolveAffineDegenerate(t *testing.T) {
	tex := [3]r2.Vec{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}}
	scr := [3]r2.Vec{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}}
	if _, ok := SolveAffine(tex, scr); ok {
		t.Fatal("expected collinear texture triangle to be rejected")
	}
}

func TestAffineInvertAndMul(t *testing.T) {
	m := Translate(r2.Vec{X: 3, Y: -2}).Mul(Affine{A: 2, B: 0.5, C: -1, D: 1.5})
	inv, ok := m.Invert()
	if !ok {
		t.Fatal("expected invertible transform")
	}
	p := r2.Vec{X: 7, Y: 11}
	if got := inv.Apply(m.Apply(p)); !near(got, p) {
		t.Fatalf("expected round trip to %v, got %v", p, got)
	}
	// Mul applies the right operand first.
	got := Translate(r2.Vec{X: 1}).Mul(Scale(2, 2)).Apply(r2.Vec{X: 1, Y: 1})
	if !near(got, r2.Vec{X: 3, Y: 2}) {
		t.Fatalf("expected (3,2), got %v", got)
	}
	if _, ok := (Affine{}).Invert(); ok {
		t.Fatal("expected zero transform to be singular")
	}
}

func TestFanSegmentsIndicesAndTexture(t *testing.T) {
	ring := geom.Circle(r2.Vec{X: 40, Y: 30}, 10, 8)
	segs := FanSegments(nil, ring, 200, 100)
	if len(segs) != 4 {
		t.Fatalf("expected 4 segments, got %d", len(segs))
	}
	pairs := [][2]int{{0, 2}, {2, 4}, {4, 6}, {6, 0}}
	for i, seg := range segs {
		if !near(seg.Screen[0], geom.Centroid(ring)) {
			t.Fatalf("segment %d: expected centroid anchor, got %v", i, seg.Screen[0])
		}
		if seg.Screen[1] != ring[pairs[i][0]] || seg.Screen[2] != ring[pairs[i][1]] {
			t.Fatalf("segment %d: wrong ring vertices", i)
		}
		if seg.Texture[0] != (r2.Vec{X: 100, Y: 50}) {
			t.Fatalf("segment %d: expected texture centre, got %v", i, seg.Texture[0])
		}
	}
	if !near(segs[0].Texture[1], r2.Vec{X: 100, Y: 100}) {
		t.Fatalf("expected first sector to start at bottom centre, got %v", segs[0].Texture[1])
	}
	if !near(segs[0].Texture[2], r2.Vec{X: 200, Y: 50}) {
		t.Fatalf("expected first sector to end at right centre, got %v", segs[0].Texture[2])
	}
	if !near(segs[3].Texture[2], segs[0].Texture[1]) {
		t.Fatal("expected sectors to close the circle")
	}
}

func TestMapperIssuesSaveClipTransformDrawRestore(t *testing.T) {
	rec := &recorder{}
	var mp Mapper
	ring := geom.Circle(r2.Vec{}, 10, 8)

	drawn := mp.Draw(rec, solid(4, 4, color.NRGBA{A: 255}), ring)

	if drawn != 4 {
		t.Fatalf("expected 4 segments drawn, got %d", drawn)
	}
	want := []string{"save", "clip3", "transform", "draw", "restore"}
	if len(rec.ops) != 4*len(want) {
		t.Fatalf("expected %d ops, got %d: %v", 4*len(want), len(rec.ops), rec.ops)
	}
	for i, op := range rec.ops {
		if op != want[i%len(want)] {
			t.Fatalf("op %d: expected %s, got %s", i, want[i%len(want)], op)
		}
	}
}

func TestMapperSkipsUnloadedTexture(t *testing.T) {
	rec := &recorder{}
	var mp Mapper
	if drawn := mp.Draw(rec, nil, geom.Circle(r2.Vec{}, 10, 8)); drawn != 0 {
		t.Fatalf("expected nothing drawn, got %d", drawn)
	}
	if len(rec.ops) != 0 {
		t.Fatalf("expected no surface ops, got %v", rec.ops)
	}
}

func TestCanvasClipLimitsDrawing(t *testing.T) {
	c := NewCanvas(20, 20)
	c.Fill(color.RGBA{A: 255})
	red := solid(20, 20, color.NRGBA{R: 255, A: 255})

	c.Save()
	c.Clip([]r2.Vec{{X: 0, Y: 0}, {X: 20, Y: 0}, {X: 0, Y: 20}})
	c.DrawImage(red, ImageBox(red))
	c.Restore()

	if got := c.Image().RGBAAt(2, 2); got.R != 255 {
		t.Fatalf("expected red inside the clip, got %v", got)
	}
	if got := c.Image().RGBAAt(17, 17); got.R != 0 {
		t.Fatalf("expected black outside the clip, got %v", got)
	}

	// Restore dropped the clip.
	c.DrawImage(red, ImageBox(red))
	if got := c.Image().RGBAAt(17, 17); got.R != 255 {
		t.Fatalf("expected clip to be restored away, got %v", got)
	}
}

func TestCanvasNestedClipsIntersect(t *testing.T) {
	c := NewCanvas(20, 20)
	c.Fill(color.RGBA{A: 255})
	red := solid(20, 20, color.NRGBA{R: 255, A: 255})

	c.Save()
	c.Clip([]r2.Vec{{X: 0, Y: 0}, {X: 12, Y: 0}, {X: 12, Y: 20}, {X: 0, Y: 20}})
	c.Save()
	c.Clip([]r2.Vec{{X: 8, Y: 0}, {X: 20, Y: 0}, {X: 20, Y: 20}, {X: 8, Y: 20}})
	c.DrawImage(red, ImageBox(red))
	c.Restore()
	c.Restore()

	for _, tt := range []struct {
		x    int
		want uint8
	}{{4, 0}, {10, 255}, {16, 0}} {
		if got := c.Image().RGBAAt(tt.x, 10).R; got != tt.want {
			t.Fatalf("expected red %d at x=%d, got %d", tt.want, tt.x, got)
		}
	}

	c.Clip([]r2.Vec{{X: 30, Y: 30}, {X: 40, Y: 30}, {X: 40, Y: 40}})
	c.Fill(color.RGBA{A: 255})
	c.DrawImage(red, ImageBox(red))
	if got := c.Image().RGBAAt(10, 10).R; got != 0 {
		t.Fatalf("expected off-canvas clip to draw nothing, got %d", got)
	}
}

func TestCanvasCopyFromAndFill(t *testing.T) {
	c := NewCanvas(4, 4)
	c.Fill(color.RGBA{G: 9, A: 255})
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	src.SetRGBA(1, 1, color.RGBA{R: 7, A: 255})
	c.CopyFrom(src)
	if got := c.Image().RGBAAt(1, 1); got != (color.RGBA{R: 7, A: 255}) {
		t.Fatalf("expected copied pixel, got %v", got)
	}
	if got := c.Image().RGBAAt(3, 3); got != (color.RGBA{G: 9, A: 255}) {
		t.Fatalf("expected fill outside the copy, got %v", got)
	}
}

func TestCanvasTransformScalesImage(t *testing.T) {
	c := NewCanvas(10, 10)
	tex := solid(2, 2, color.NRGBA{G: 255, A: 255})
	c.Transform(Scale(2, 2))
	c.DrawImage(tex, ImageBox(tex))

	if got := c.Image().RGBAAt(3, 3); got.G != 255 {
		t.Fatalf("expected scaled texture at (3,3), got %v", got)
	}
	if got := c.Image().RGBAAt(4, 4); got.G != 0 {
		t.Fatalf("expected nothing past the scaled texture, got %v", got)
	}
}

func TestCanvasBlendsTranslucentSource(t *testing.T) {
	c := NewCanvas(1, 1)
	c.Fill(color.RGBA{B: 200, A: 255})
	tex := solid(1, 1, color.NRGBA{R: 255, A: 0})
	c.DrawImage(tex, ImageBox(tex))
	if got := c.Image().RGBAAt(0, 0); got != (color.RGBA{B: 200, A: 255}) {
		t.Fatalf("expected transparent source to leave pixel, got %v", got)
	}
	half := solid(1, 1, color.NRGBA{R: 255, A: 128})
	c.DrawImage(half, ImageBox(half))
	got := c.Image().RGBAAt(0, 0)
	if absDiff(got.R, 128) > 1 || absDiff(got.B, 100) > 1 || got.A != 255 {
		t.Fatalf("expected half blend, got %v", got)
	}
}

func TestMapperCoversRingInterior(t *testing.T) {
	c := NewCanvas(100, 100)
	c.Fill(color.RGBA{A: 255})
	ring := geom.Circle(r2.Vec{X: 50, Y: 50}, 30, 40)
	var mp Mapper

	mp.Draw(c, solid(64, 64, color.NRGBA{R: 255, G: 255, B: 255, A: 255}), ring)

	for _, p := range []image.Point{{55, 55}, {50, 25}, {70, 60}, {32, 45}} {
		if got := c.Image().RGBAAt(p.X, p.Y); got.R != 255 {
			t.Fatalf("expected %v inside the ring painted, got %v", p, got)
		}
	}
	if got := c.Image().RGBAAt(2, 2); got.R != 0 {
		t.Fatalf("expected corner untouched, got %v", got)
	}
	if len(mp.Segments()) != 20 {
		t.Fatalf("expected 20 segments, got %d", len(mp.Segments()))
	}
}
