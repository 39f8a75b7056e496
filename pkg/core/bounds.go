package core

import "fmt"

// Bounds represents an element's screen-absolute rectangle.
type Bounds struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
}

// NewBounds creates normalized bounds: negative edges are clamped to zero and
// inverted edges collapse to an empty rectangle.
func NewBounds(left, top, right, bottom int) Bounds {
	b := Bounds{Left: left, Top: top, Right: right, Bottom: bottom}
	return b.Normalize()
}

// Normalize returns a copy satisfying right >= left, bottom >= top, all >= 0.
func (b Bounds) Normalize() Bounds {
	if b.Left < 0 {
		b.Left = 0
	}
	if b.Top < 0 {
		b.Top = 0
	}
	if b.Right < b.Left {
		b.Right = b.Left
	}
	if b.Bottom < b.Top {
		b.Bottom = b.Top
	}
	return b
}

// Width returns right - left.
func (b Bounds) Width() int {
	return b.Right - b.Left
}

// Height returns bottom - top.
func (b Bounds) Height() int {
	return b.Bottom - b.Top
}

// Area returns width * height. Never cached.
func (b Bounds) Area() int {
	return b.Width() * b.Height()
}

// Center returns the exact center point of the bounds.
func (b Bounds) Center() (float64, float64) {
	return float64(b.Left+b.Right) / 2, float64(b.Top+b.Bottom) / 2
}

// Contains checks if a point is within the bounds
func (b Bounds) Contains(x, y int) bool {
	return x >= b.Left && x < b.Right && y >= b.Top && y < b.Bottom
}

// IsEmpty returns true if the rectangle has no area.
func (b Bounds) IsEmpty() bool {
	return b.Width() <= 0 || b.Height() <= 0
}

// Key returns the "left,top,right,bottom" form used to deduplicate
// actions on the same screen location.
func (b Bounds) Key() string {
	return fmt.Sprintf("%d,%d,%d,%d", b.Left, b.Top, b.Right, b.Bottom)
}

// String returns the Android "[l,t][r,b]" notation.
func (b Bounds) String() string {
	return fmt.Sprintf("[%d,%d][%d,%d]", b.Left, b.Top, b.Right, b.Bottom)
}
