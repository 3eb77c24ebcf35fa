package processor

import (
	"fmt"
	"time"
)

// Style carries the caller-controlled watermark parameters.
type Style struct {
	Text      string
	Time      time.Time
	HasTime   bool // false suppresses date, clock and weekday
	Direction Direction
	Opacity   int // percent
}

// Alpha converts the opacity percentage to a fill alpha.
func (s Style) Alpha() float64 {
	return float64(s.Opacity) / 100
}

func (s Style) Validate() error {
	if s.Text == "" {
		return ErrEmptyText
	}
	if !s.Direction.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidDirection, s.Direction)
	}
	if s.Opacity < 0 || s.Opacity > 100 {
		return fmt.Errorf("%w: %d", ErrInvalidOpacity, s.Opacity)
	}
	return nil
}

func (s Style) stamp() Stamp {
	if !s.HasTime {
		return Stamp{}
	}
	return NewStamp(s.Time)
}
