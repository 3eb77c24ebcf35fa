package processor

import (
	"fmt"
	"math"
)

const (
	coverAngle    = 30 * math.Pi / 180
	maxCoverTiles = 2000000
)

// Measurer reports the advance width of text drawn at a font size in pixels.
type Measurer interface {
	Measure(text string, size float64) float64
}

// Layout computes the drawing instructions of a watermark on a width x height
// image. It has no side effects; box sizes depend only on m.
func Layout(width, height int, style Style, m Measurer) (*Plan, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if err := style.Validate(); err != nil {
		return nil, err
	}

	plan := &Plan{Width: width, Height: height, Direction: style.Direction}
	sizes := NewSizes(width, height)
	stamp := style.stamp()

	switch {
	case style.Direction == DirectionCover:
		if err := layoutCover(plan, sizes, style, stamp, m); err != nil {
			return nil, err
		}
	case style.Direction == DirectionCenter:
		layoutCenter(plan, sizes, style, stamp, m)
	case style.Direction.IsCorner():
		if err := layoutCorner(plan, sizes, style, stamp, m); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidDirection, style.Direction)
	}

	return plan, nil
}

// rotatedExtent returns the size of the bounding box of a width x height
// canvas rotated by angle.
func rotatedExtent(width, height, angle float64) (float64, float64) {
	sin, cos := math.Sincos(angle)
	return width*cos + height*sin, height*cos + width*sin
}

func layoutCover(plan *Plan, sizes Sizes, style Style, stamp Stamp, m Measurer) error {
	width, height := float64(plan.Width), float64(plan.Height)
	gapX, gapY, fontSize := sizes.Small, sizes.Large, sizes.Small

	label := style.Text + " " + stamp.Date
	labelWidth := m.Measure(label, fontSize)
	rotatedWidth, rotatedHeight := rotatedExtent(width, height, coverAngle)
	fill := Fill{88, 88, 88, style.Alpha()}

	// sin*width <= rotatedHeight, so no row starts left of -labelWidth.
	rows := math.Floor((rotatedHeight+math.Sin(coverAngle)*width)/(gapY+fontSize)) + 1
	perRow := math.Floor((rotatedWidth+labelWidth)/(gapX+labelWidth)) + 1
	if rows*perRow > maxCoverTiles {
		return fmt.Errorf("%w: %dx%d", ErrTooManyTiles, plan.Width, plan.Height)
	}

	plan.Rotation = coverAngle
	for y := -math.Sin(coverAngle) * width; y < rotatedHeight; y += gapY + fontSize {
		for x := (y / rotatedHeight) * labelWidth; x < rotatedWidth; x += gapX + labelWidth {
			plan.add(Text{Text: label, X: x, Y: y, Size: fontSize, Fill: fill})
		}
	}
	return nil
}

func layoutCenter(plan *Plan, sizes Sizes, style Style, stamp Stamp, m Measurer) {
	width, height := float64(plan.Width), float64(plan.Height)

	line := style.Text
	if style.HasTime {
		clockWidth := m.Measure(stamp.Clock, sizes.Huge)
		plan.add(shadowText(stamp.Clock,
			width*0.5-clockWidth/2, height*0.6-sizes.Huge/2, sizes.Huge,
			Offset{sizes.Hair, sizes.Hair}, fillShadow, fillWhite)...)
		line = fmt.Sprintf("%s %s | %s", stamp.Date, stamp.Day, style.Text)
	}

	lineSize := sizes.Huge * 0.3
	lineWidth := m.Measure(line, lineSize)
	plan.add(shadowText(line,
		width*0.5-lineWidth/2, height*0.8-sizes.Large/2, lineSize,
		Offset{sizes.Hair / 2, sizes.Hair / 3}, fillShadow, fillWhite)...)
}

func layoutCorner(plan *Plan, sizes Sizes, style Style, stamp Stamp, m Measurer) error {
	width, height := float64(plan.Width), float64(plan.Height)
	ax, ay, err := style.Direction.anchor(width, height)
	if err != nil {
		return err
	}

	margin := sizes.Margin
	textWidth := m.Measure(style.Text, sizes.Small)
	maxTextWidth := width - margin*2

	if !style.HasTime {
		// The text-only panel keeps a fixed half alpha whatever the opacity.
		bgWidth := textWidth + margin*2
		bgHeight := sizes.Small + margin*2
		ox, oy := ax.offset(bgWidth), ay.offset(bgHeight)
		plan.add(
			Rect{X: ox, Y: oy, W: bgWidth, H: bgHeight, Fill: Fill{0, 0, 0, 0.5}},
			Text{Text: style.Text, X: ox + margin, Y: oy + bgHeight - sizes.Small - margin, Size: sizes.Small, Fill: fillWhite, MaxWidth: maxTextWidth},
		)
		return nil
	}

	clockWidth := m.Measure(stamp.Clock, sizes.Large)
	dateWidth := m.Measure(stamp.Date, sizes.Small)

	bgWidth := math.Max(
		clockWidth+sizes.Gap+sizes.Hair+sizes.Gap+dateWidth+margin*2,
		textWidth+margin*2,
	)
	bgHeight := sizes.Small + sizes.Large + margin*2
	ox, oy := ax.offset(bgWidth), ay.offset(bgHeight)
	bottom := oy + bgHeight
	dateX := ox + margin + clockWidth + sizes.Gap + sizes.Hair + sizes.Gap

	plan.add(
		Rect{X: ox, Y: oy, W: bgWidth, H: bgHeight, Fill: Fill{0, 0, 0, style.Alpha()}},
		Text{Text: style.Text, X: ox + margin, Y: bottom - sizes.Small - margin, Size: sizes.Small, Fill: fillWhite, MaxWidth: maxTextWidth},
		Text{Text: stamp.Clock, X: ox + margin, Y: bottom - sizes.Small - sizes.Gap - sizes.Large - margin - sizes.Hair, Size: sizes.Large, Fill: fillWhite},
		Rect{X: ox + margin + clockWidth + sizes.Gap, Y: bottom - sizes.Small - sizes.Large - margin, W: sizes.Hair, H: sizes.Large - sizes.Hair, Fill: fillDivider},
		Text{Text: stamp.Date, X: dateX, Y: bottom - sizes.Small - sizes.Gap - sizes.Large - margin + sizes.Gap + sizes.Hair, Size: sizes.Small, Fill: fillWhite},
		Text{Text: stamp.Day, X: dateX, Y: bottom - sizes.Small - sizes.Gap - margin - sizes.Small - sizes.Hair - sizes.Hair, Size: sizes.Small, Fill: fillWhite},
	)
	return nil
}
