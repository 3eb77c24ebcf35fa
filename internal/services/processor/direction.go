package processor

import "fmt"

// Direction selects one of the watermark layout modes.
type Direction int

const (
	DirectionCover Direction = iota + 1
	DirectionCenter
	DirectionLeftTop
	DirectionLeftBottom
	DirectionRightTop
	DirectionRightBottom
)

var directionNames = map[Direction]string{
	DirectionCover:       "cover",
	DirectionCenter:      "center",
	DirectionLeftTop:     "leftTop",
	DirectionLeftBottom:  "leftBottom",
	DirectionRightTop:    "rightTop",
	DirectionRightBottom: "rightBottom",
}

// ParseDirection maps the wire name of a direction to its value.
func ParseDirection(s string) (Direction, error) {
	for d, name := range directionNames {
		if name == s {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}

func (d Direction) String() string {
	if name, ok := directionNames[d]; ok {
		return name
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

func (d Direction) Valid() bool {
	_, ok := directionNames[d]
	return ok
}

// IsCorner reports whether d anchors a background panel to an image corner.
func (d Direction) IsCorner() bool {
	switch d {
	case DirectionLeftTop, DirectionLeftBottom, DirectionRightTop, DirectionRightBottom:
		return true
	}
	return false
}

// axis is the multiplier/addition pair of one coordinate of a corner anchor:
// offset = multiple*panelSize + addition.
type axis struct {
	multiple float64
	addition float64
}

func (a axis) offset(size float64) float64 {
	return a.multiple*size + a.addition
}

// anchor returns the x and y rules placing a panel in the corner named by d.
func (d Direction) anchor(width, height float64) (x, y axis, err error) {
	switch d {
	case DirectionLeftTop:
		return axis{0, 0}, axis{0, 0}, nil
	case DirectionRightTop:
		return axis{-1, width}, axis{0, 0}, nil
	case DirectionLeftBottom:
		return axis{0, 0}, axis{-1, height}, nil
	case DirectionRightBottom:
		return axis{-1, width}, axis{-1, height}, nil
	}
	return axis{}, axis{}, fmt.Errorf("%w: %s is not a corner", ErrInvalidDirection, d)
}
