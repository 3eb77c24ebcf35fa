package processor

import (
	"image"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// runPad is the transparent border around offscreen text so glyph bearings
// survive resampling.
const runPad = 2

type runKey struct {
	text string
	size float64
	fill Fill
}

// textRun is a run of text rasterised once into its own image, used when a
// run is rotated or condensed.
type textRun struct {
	img *image.RGBA
}

// composer executes a Plan onto an RGBA canvas.
type composer struct {
	dst      *image.RGBA
	faces    *faceSet
	rotation float64
	runs     map[runKey]*textRun
}

func compose(dst *image.RGBA, plan *Plan, faces *faceSet) error {
	c := &composer{
		dst:      dst,
		faces:    faces,
		rotation: plan.Rotation,
		runs:     make(map[runKey]*textRun),
	}
	for _, op := range plan.Ops {
		switch op := op.(type) {
		case Rect:
			c.fillRect(op)
		case Text:
			if err := c.drawText(op); err != nil {
				return err
			}
		}
	}
	return nil
}

// point maps plan coordinates to canvas coordinates.
func (c *composer) point(x, y float64) (float32, float32) {
	if c.rotation == 0 {
		return float32(x), float32(y)
	}
	sin, cos := math.Sincos(c.rotation)
	return float32(x*cos - y*sin), float32(x*sin + y*cos)
}

func (c *composer) fillRect(r Rect) {
	b := c.dst.Bounds()
	x0, y0, x1, y1 := r.X, r.Y, r.X+r.W, r.Y+r.H
	if c.rotation == 0 {
		x0, y0 = math.Max(x0, 0), math.Max(y0, 0)
		x1, y1 = math.Min(x1, float64(b.Dx())), math.Min(y1, float64(b.Dy()))
		if x1 <= x0 || y1 <= y0 {
			return
		}
	}

	z := vector.NewRasterizer(b.Dx(), b.Dy())
	z.DrawOp = draw.Over
	z.MoveTo(c.point(x0, y0))
	z.LineTo(c.point(x1, y0))
	z.LineTo(c.point(x1, y1))
	z.LineTo(c.point(x0, y1))
	z.ClosePath()
	z.Draw(c.dst, b, image.NewUniform(r.Fill.NRGBA()), image.Point{})
}

func (c *composer) drawText(t Text) error {
	face, err := c.faces.face(t.Size)
	if err != nil {
		return err
	}

	scale := 1.0
	if t.MaxWidth > 0 {
		if width := c.faces.Measure(t.Text, t.Size); width > t.MaxWidth {
			scale = t.MaxWidth / width
		}
	}

	if c.rotation == 0 && scale == 1 {
		d := font.Drawer{
			Dst:  c.dst,
			Src:  image.NewUniform(t.Fill.NRGBA()),
			Face: face,
			Dot:  fixed.Point26_6{X: toFixed(t.X), Y: toFixed(t.Y) + face.Metrics().Ascent},
		}
		d.DrawString(t.Text)
		return nil
	}

	run := c.run(t, face)
	sin, cos := math.Sincos(c.rotation)
	ox := t.X - scale*runPad
	oy := t.Y - runPad
	m := f64.Aff3{
		cos * scale, -sin, cos*ox - sin*oy,
		sin * scale, cos, sin*ox + cos*oy,
	}
	draw.ApproxBiLinear.Transform(c.dst, m, run.img, run.img.Bounds(), draw.Over, nil)
	return nil
}

func (c *composer) run(t Text, face font.Face) *textRun {
	key := runKey{text: t.Text, size: t.Size, fill: t.Fill}
	if run, ok := c.runs[key]; ok {
		return run
	}

	metrics := face.Metrics()
	width := font.MeasureString(face, t.Text).Ceil() + runPad*2
	height := (metrics.Ascent + metrics.Descent).Ceil() + runPad*2
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(t.Fill.NRGBA()),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(runPad), Y: fixed.I(runPad) + metrics.Ascent},
	}
	d.DrawString(t.Text)

	run := &textRun{img: img}
	c.runs[key] = run
	return run
}
