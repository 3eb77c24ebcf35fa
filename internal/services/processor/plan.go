package processor

import (
	"image/color"
	"math"
)

// Fill is a straight (non-premultiplied) colour with a fractional alpha.
type Fill struct {
	R, G, B uint8
	A       float64
}

func (f Fill) NRGBA() color.NRGBA {
	a := math.Round(math.Max(0, math.Min(1, f.A)) * 255)
	return color.NRGBA{R: f.R, G: f.G, B: f.B, A: uint8(a)}
}

var (
	fillWhite   = Fill{255, 255, 255, 1}
	fillShadow  = Fill{12, 12, 12, 0.7}
	fillDivider = Fill{0xf1, 0xcc, 0x48, 1}
)

// Op is a single drawing instruction of a Plan.
type Op interface {
	op()
}

// Rect fills an axis-aligned rectangle.
type Rect struct {
	X, Y, W, H float64
	Fill       Fill
}

// Text draws a run of text whose line top is at Y. A positive MaxWidth
// condenses the run horizontally when it measures wider.
type Text struct {
	Text     string
	X, Y     float64
	Size     float64
	Fill     Fill
	MaxWidth float64
}

func (Rect) op() {}
func (Text) op() {}

// Plan is the ordered list of drawing instructions for one image. Rotation,
// in radians, is applied about the image origin to every op.
type Plan struct {
	Width     int
	Height    int
	Direction Direction
	Rotation  float64
	Ops       []Op
}

func (p *Plan) add(ops ...Op) {
	p.Ops = append(p.Ops, ops...)
}

func (p *Plan) Rects() []Rect {
	var rects []Rect
	for _, op := range p.Ops {
		if r, ok := op.(Rect); ok {
			rects = append(rects, r)
		}
	}
	return rects
}

func (p *Plan) Texts() []Text {
	var texts []Text
	for _, op := range p.Ops {
		if t, ok := op.(Text); ok {
			texts = append(texts, t)
		}
	}
	return texts
}

// Offset is a displacement in pixels.
type Offset struct {
	X, Y float64
}

// shadowText draws text twice: a shadow copy displaced by off, then the
// foreground copy at (x, y).
func shadowText(s string, x, y, size float64, off Offset, shadow, fg Fill) []Op {
	return []Op{
		Text{Text: s, X: x + off.X, Y: y + off.Y, Size: size, Fill: shadow},
		Text{Text: s, X: x, Y: y, Size: size, Fill: fg},
	}
}
