package processor

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"
)

// halfEm measures every rune as half the font size wide.
type halfEm struct{}

func (halfEm) Measure(text string, size float64) float64 {
	return float64(len([]rune(text))) * size * 0.5
}

const epsilon = 1e-9

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func wednesday() time.Time {
	return time.Date(2024, time.January, 10, 9, 5, 0, 0, time.UTC)
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		input   string
		want    Direction
		wantErr bool
	}{
		{input: "cover", want: DirectionCover},
		{input: "center", want: DirectionCenter},
		{input: "leftTop", want: DirectionLeftTop},
		{input: "leftBottom", want: DirectionLeftBottom},
		{input: "rightTop", want: DirectionRightTop},
		{input: "rightBottom", want: DirectionRightBottom},
		{input: "LeftTop", wantErr: true},
		{input: "top-left", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDirection(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidDirection) {
					t.Fatalf("ParseDirection(%q) error = %v, want ErrInvalidDirection", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDirection(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseDirection(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if got.String() != tt.input {
				t.Errorf("String() = %q, want %q", got.String(), tt.input)
			}
		})
	}
}

func TestLayoutRejectsInvalidInput(t *testing.T) {
	valid := Style{Text: "hello", Direction: DirectionCenter, Opacity: 16}

	tests := []struct {
		name   string
		width  int
		height int
		mutate func(*Style)
		want   error
	}{
		{name: "zero width", width: 0, height: 10, want: ErrInvalidDimensions},
		{name: "negative height", width: 10, height: -1, want: ErrInvalidDimensions},
		{name: "empty text", width: 10, height: 10, mutate: func(s *Style) { s.Text = "" }, want: ErrEmptyText},
		{name: "unknown direction", width: 10, height: 10, mutate: func(s *Style) { s.Direction = Direction(42) }, want: ErrInvalidDirection},
		{name: "zero direction", width: 10, height: 10, mutate: func(s *Style) { s.Direction = 0 }, want: ErrInvalidDirection},
		{name: "opacity above 100", width: 10, height: 10, mutate: func(s *Style) { s.Opacity = 101 }, want: ErrInvalidOpacity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			style := valid
			if tt.mutate != nil {
				tt.mutate(&style)
			}
			plan, err := Layout(tt.width, tt.height, style, halfEm{})
			if !errors.Is(err, tt.want) {
				t.Fatalf("Layout error = %v, want %v", err, tt.want)
			}
			if plan != nil {
				t.Errorf("expected nil plan on error")
			}
		})
	}
}

func TestCornerAnchors(t *testing.T) {
	const width, height = 1000, 800
	s := NewSizes(width, height)
	m := halfEm{}
	stamp := NewStamp(wednesday())

	bgWidth := math.Max(
		m.Measure(stamp.Clock, s.Large)+s.Gap+s.Hair+s.Gap+m.Measure(stamp.Date, s.Small)+2*s.Margin,
		m.Measure("hello", s.Small)+2*s.Margin,
	)
	bgHeight := s.Small + s.Large + 2*s.Margin

	tests := []struct {
		direction Direction
		x, y      float64
	}{
		{DirectionLeftTop, 0, 0},
		{DirectionRightTop, width - bgWidth, 0},
		{DirectionLeftBottom, 0, height - bgHeight},
		{DirectionRightBottom, width - bgWidth, height - bgHeight},
	}

	for _, tt := range tests {
		t.Run(tt.direction.String(), func(t *testing.T) {
			plan, err := Layout(width, height, Style{
				Text: "hello", Time: wednesday(), HasTime: true, Direction: tt.direction, Opacity: 16,
			}, m)
			if err != nil {
				t.Fatalf("Layout error: %v", err)
			}
			rects := plan.Rects()
			if len(rects) != 2 {
				t.Fatalf("got %d rects, want background and divider", len(rects))
			}
			bg := rects[0]
			if !near(bg.X, tt.x) || !near(bg.Y, tt.y) {
				t.Errorf("background at (%.3f, %.3f), want (%.3f, %.3f)", bg.X, bg.Y, tt.x, tt.y)
			}
			if !near(bg.W, bgWidth) || !near(bg.H, bgHeight) {
				t.Errorf("background size %.3fx%.3f, want %.3fx%.3f", bg.W, bg.H, bgWidth, bgHeight)
			}
		})
	}
}

func TestCornerRightBottomNumbers(t *testing.T) {
	plan, err := Layout(1000, 800, Style{
		Text: "hello", Time: wednesday(), HasTime: true, Direction: DirectionRightBottom, Opacity: 16,
	}, halfEm{})
	if err != nil {
		t.Fatalf("Layout error: %v", err)
	}

	// clock 5 runes at 80px, date 10 runes at 24px, margin 12
	bg := plan.Rects()[0]
	if !near(bg.W, 200+12+4+12+120+24) || !near(bg.H, 24+80+24) {
		t.Fatalf("background size %.3fx%.3f, want 372x128", bg.W, bg.H)
	}
	if !near(bg.X, 1000-372) || !near(bg.Y, 800-128) {
		t.Errorf("background at (%.3f, %.3f), want (628, 672)", bg.X, bg.Y)
	}
	if bg.Fill.A != 0.16 {
		t.Errorf("background alpha = %v, want 0.16", bg.Fill.A)
	}

	divider := plan.Rects()[1]
	if divider.Fill != fillDivider {
		t.Errorf("divider fill = %+v, want %+v", divider.Fill, fillDivider)
	}
	if !near(divider.X, 628+12+200+12) || !near(divider.W, 4) || !near(divider.H, 76) {
		t.Errorf("divider = %+v", divider)
	}

	texts := plan.Texts()
	want := []string{"hello", "09:05", "2024-01-10", "星期三"}
	if len(texts) != len(want) {
		t.Fatalf("got %d texts, want %d", len(texts), len(want))
	}
	for i, w := range want {
		if texts[i].Text != w {
			t.Errorf("text %d = %q, want %q", i, texts[i].Text, w)
		}
	}
	if !near(texts[0].MaxWidth, 1000-24) {
		t.Errorf("label max width = %.3f, want 976", texts[0].MaxWidth)
	}
}

func TestCornerRightBottomPositions(t *testing.T) {
	plan, err := Layout(1000, 800, Style{
		Text: "hello", Time: wednesday(), HasTime: true, Direction: DirectionRightBottom, Opacity: 16,
	}, halfEm{})
	if err != nil {
		t.Fatalf("Layout error: %v", err)
	}

	// vmin 800: large 80, small 24, gap 12, hair 4, margin 12; panel bottom 800
	divider := plan.Rects()[1]
	if !near(divider.Y, 800-24-80-12) {
		t.Errorf("divider y = %.3f, want 684", divider.Y)
	}

	texts := plan.Texts()
	if len(texts) != 4 {
		t.Fatalf("got %d texts, want 4", len(texts))
	}
	tests := []struct {
		name string
		got  Text
		x, y float64
		size float64
	}{
		{"label", texts[0], 640, 800 - 24 - 12, 24},
		{"clock", texts[1], 640, 800 - 24 - 12 - 80 - 12 - 4, 80},
		{"date", texts[2], 640 + 200 + 12 + 4 + 12, 800 - 24 - 12 - 80 - 12 + 12 + 4, 24},
		{"day", texts[3], 640 + 200 + 12 + 4 + 12, 800 - 24 - 12 - 12 - 24 - 4 - 4, 24},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !near(tt.got.X, tt.x) || !near(tt.got.Y, tt.y) {
				t.Errorf("%s at (%.3f, %.3f), want (%.3f, %.3f)", tt.got.Text, tt.got.X, tt.got.Y, tt.x, tt.y)
			}
			if !near(tt.got.Size, tt.size) {
				t.Errorf("%s size = %.3f, want %.3f", tt.got.Text, tt.got.Size, tt.size)
			}
		})
	}
}

func TestCornerWithoutTimeUsesFixedAlpha(t *testing.T) {
	for _, opacity := range []int{0, 16, 100} {
		plan, err := Layout(1000, 800, Style{Text: "hello", Direction: DirectionLeftBottom, Opacity: opacity}, halfEm{})
		if err != nil {
			t.Fatalf("Layout error: %v", err)
		}
		rects := plan.Rects()
		if len(rects) != 1 {
			t.Fatalf("got %d rects, want 1", len(rects))
		}
		bg := rects[0]
		if bg.Fill.A != 0.5 {
			t.Errorf("opacity %d: background alpha = %v, want 0.5", opacity, bg.Fill.A)
		}
		if !near(bg.W, 60+24) || !near(bg.H, 24+24) {
			t.Errorf("background size %.3fx%.3f, want 84x48", bg.W, bg.H)
		}
		if !near(bg.Y, 800-48) || bg.X != 0 {
			t.Errorf("background at (%.3f, %.3f), want (0, 752)", bg.X, bg.Y)
		}
		if texts := plan.Texts(); len(texts) != 1 || texts[0].Text != "hello" {
			t.Errorf("texts = %+v, want only the label", texts)
		}
	}
}

func TestCenterWithoutTime(t *testing.T) {
	plan, err := Layout(1000, 800, Style{Text: "hello", Direction: DirectionCenter, Opacity: 16}, halfEm{})
	if err != nil {
		t.Fatalf("Layout error: %v", err)
	}
	texts := plan.Texts()
	if len(texts) != 2 {
		t.Fatalf("got %d texts, want shadow and foreground", len(texts))
	}
	for _, text := range texts {
		if text.Text != "hello" {
			t.Errorf("text = %q, want the label alone", text.Text)
		}
	}

	shadow, fg := texts[0], texts[1]
	if shadow.Fill != fillShadow || fg.Fill != fillWhite {
		t.Errorf("fills = %+v / %+v", shadow.Fill, fg.Fill)
	}
	// line size 0.3*128, so 5 runes measure 96
	if !near(fg.X, 500-48) || !near(fg.Y, 640-40) {
		t.Errorf("foreground at (%.3f, %.3f), want (452, 600)", fg.X, fg.Y)
	}
	if !near(shadow.X-fg.X, 2) || !near(shadow.Y-fg.Y, 4.0/3) {
		t.Errorf("shadow offset (%.3f, %.3f), want (2, 1.333)", shadow.X-fg.X, shadow.Y-fg.Y)
	}
	if len(plan.Rects()) != 0 {
		t.Errorf("center layout must not draw rectangles")
	}
}

func TestCenterWithTime(t *testing.T) {
	plan, err := Layout(1000, 800, Style{
		Text: "hello", Time: wednesday(), HasTime: true, Direction: DirectionCenter, Opacity: 16,
	}, halfEm{})
	if err != nil {
		t.Fatalf("Layout error: %v", err)
	}
	texts := plan.Texts()
	if len(texts) != 4 {
		t.Fatalf("got %d texts, want 4", len(texts))
	}

	clock := texts[1]
	if clock.Text != "09:05" || !near(clock.Size, 128) {
		t.Errorf("clock = %+v", clock)
	}
	if !near(clock.X, 500-160) || !near(clock.Y, 480-64) {
		t.Errorf("clock at (%.3f, %.3f), want (340, 416)", clock.X, clock.Y)
	}
	if !near(texts[0].X-clock.X, 4) || !near(texts[0].Y-clock.Y, 4) {
		t.Errorf("clock shadow offset wrong: %+v", texts[0])
	}

	if got, want := texts[3].Text, "2024-01-10 星期三 | hello"; got != want {
		t.Errorf("line = %q, want %q", got, want)
	}
}

func TestCoverTiles(t *testing.T) {
	const width, height = 1000, 800
	plan, err := Layout(width, height, Style{Text: "hello", Direction: DirectionCover, Opacity: 16}, halfEm{})
	if err != nil {
		t.Fatalf("Layout error: %v", err)
	}
	if !near(plan.Rotation, math.Pi/6) {
		t.Errorf("rotation = %v, want pi/6", plan.Rotation)
	}

	rotatedWidth, rotatedHeight := rotatedExtent(width, height, coverAngle)
	texts := plan.Texts()
	if len(texts) == 0 {
		t.Fatal("cover layout produced no tiles")
	}
	for _, tile := range texts {
		if tile.Text != "hello " {
			t.Fatalf("tile text = %q, want label with trailing space", tile.Text)
		}
		if tile.Fill != (Fill{88, 88, 88, 0.16}) {
			t.Fatalf("tile fill = %+v", tile.Fill)
		}
		if tile.X < -rotatedWidth || tile.X >= rotatedWidth || tile.Y < -rotatedHeight || tile.Y >= rotatedHeight {
			t.Fatalf("tile at (%.2f, %.2f) outside rotated extent %.2fx%.2f", tile.X, tile.Y, rotatedWidth, rotatedHeight)
		}
	}

	first := texts[0]
	if !near(first.Y, -0.5*width) {
		t.Errorf("first row at y=%.3f, want %.3f", first.Y, -0.5*width)
	}
	labelWidth := halfEm{}.Measure("hello ", 24)
	if !near(first.X, first.Y/rotatedHeight*labelWidth) {
		t.Errorf("first row start x=%.3f does not follow the stagger", first.X)
	}
}

func TestCoverLabelIncludesDate(t *testing.T) {
	plan, err := Layout(300, 200, Style{
		Text: "hello", Time: wednesday(), HasTime: true, Direction: DirectionCover, Opacity: 50,
	}, halfEm{})
	if err != nil {
		t.Fatalf("Layout error: %v", err)
	}
	if got := plan.Texts()[0].Text; got != "hello 2024-01-10" {
		t.Errorf("tile text = %q", got)
	}
}

func TestCoverLayoutIsDeterministic(t *testing.T) {
	style := Style{Text: "watermark", Direction: DirectionCover, Opacity: 16}
	a, err := Layout(640, 480, style, halfEm{})
	if err != nil {
		t.Fatalf("Layout error: %v", err)
	}
	b, _ := Layout(640, 480, style, halfEm{})
	if len(a.Ops) != len(b.Ops) {
		t.Fatalf("tile count differs: %d vs %d", len(a.Ops), len(b.Ops))
	}
	for i := range a.Ops {
		if a.Ops[i] != b.Ops[i] {
			t.Fatalf("op %d differs: %+v vs %+v", i, a.Ops[i], b.Ops[i])
		}
	}
}

func TestCoverAcceptsPanoramas(t *testing.T) {
	for _, size := range [][2]int{{6000, 400}, {10000, 200}, {400, 6000}} {
		plan, err := Layout(size[0], size[1], Style{Text: "ok", Direction: DirectionCover, Opacity: 16}, halfEm{})
		if err != nil {
			t.Fatalf("%dx%d: Layout error: %v", size[0], size[1], err)
		}
		if len(plan.Ops) == 0 {
			t.Errorf("%dx%d: no tiles", size[0], size[1])
		}
	}
}

func TestCoverRejectsExtremeAspectRatio(t *testing.T) {
	_, err := Layout(1, 5000, Style{Text: "x", Direction: DirectionCover, Opacity: 16}, halfEm{})
	if !errors.Is(err, ErrTooManyTiles) {
		t.Fatalf("Layout error = %v, want ErrTooManyTiles", err)
	}
}

func TestOpacityAlpha(t *testing.T) {
	s := Style{Opacity: 16}
	if s.Alpha() != 0.16 {
		t.Errorf("Alpha() = %v, want 0.16", s.Alpha())
	}
	if got := (Fill{A: 0.5}).NRGBA().A; got != 128 {
		t.Errorf("NRGBA alpha = %d, want 128", got)
	}
	if got := (Fill{A: 1.5}).NRGBA().A; got != 255 {
		t.Errorf("NRGBA alpha clamps to %d, want 255", got)
	}
}

func TestSizes(t *testing.T) {
	s := NewSizes(1000, 800)
	checks := map[string][2]float64{
		"vmin":   {s.VMin, 800},
		"huge":   {s.Huge, 128},
		"large":  {s.Large, 80},
		"small":  {s.Small, 24},
		"gap":    {s.Gap, 12},
		"hair":   {s.Hair, 4},
		"margin": {s.Margin, 12},
	}
	for name, v := range checks {
		if math.Abs(v[0]-v[1]) > epsilon*1000 {
			t.Errorf("%s = %v, want %v", name, v[0], v[1])
		}
	}
	if !strings.Contains(DirectionRightBottom.String(), "right") {
		t.Errorf("unexpected name %q", DirectionRightBottom)
	}
}
