package processor

import "math"

// Sizes holds the proportional measurements of one image. Every value is a
// fraction of vmin, the shorter image side.
type Sizes struct {
	VMin   float64
	Huge   float64 // large clock text
	Large  float64
	Small  float64
	Gap    float64
	Hair   float64
	Margin float64
}

func NewSizes(width, height int) Sizes {
	vmin := math.Min(float64(width), float64(height))
	return Sizes{
		VMin:   vmin,
		Huge:   vmin * 0.16,
		Large:  vmin * 0.1,
		Small:  vmin * 0.03,
		Gap:    vmin * 0.015,
		Hair:   vmin * 0.005,
		Margin: vmin * 0.015,
	}
}
