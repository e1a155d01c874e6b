package types

// Viewport is the visible window onto the laid-out document.
type Viewport struct {
	Top    int // first visible line
	Left   int // first visible column
	Width  int
	Height int
}

// Contains reports whether a document point is on screen.
func (v Viewport) Contains(p Point) bool {
	if v.Height <= 0 || v.Width <= 0 {
		return true
	}
	return p.Y >= v.Top && p.Y < v.Top+v.Height && p.X >= v.Left && p.X < v.Left+v.Width
}

// ScrollTo returns v moved the minimum amount so that p is visible,
// keeping scrollOff lines of context above and below when possible.
func (v Viewport) ScrollTo(p Point, scrollOff int) Viewport {
	if v.Height <= 0 || v.Width <= 0 {
		return v
	}
	if scrollOff*2 >= v.Height {
		scrollOff = (v.Height - 1) / 2
	}
	if p.Y < v.Top+scrollOff {
		v.Top = p.Y - scrollOff
	} else if p.Y >= v.Top+v.Height-scrollOff {
		v.Top = p.Y - v.Height + scrollOff + 1
	}
	if v.Top < 0 {
		v.Top = 0
	}
	if p.X < v.Left {
		v.Left = p.X
	} else if p.X >= v.Left+v.Width {
		v.Left = p.X - v.Width + 1
	}
	return v
}

// ToScreen converts a document point to viewport-relative coordinates.
func (v Viewport) ToScreen(p Point) Point {
	return Point{X: p.X - v.Left, Y: p.Y - v.Top}
}

// FromScreen converts viewport-relative coordinates to a document point.
func (v Viewport) FromScreen(p Point) Point {
	return Point{X: p.X + v.Left, Y: p.Y + v.Top}
}
