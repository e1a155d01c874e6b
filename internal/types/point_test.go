package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSelectionOrders(t *testing.T) {
	s := NewSelection(Point{X: 4, Y: 2}, Point{X: 9, Y: 1})
	assert.Equal(t, Point{X: 9, Y: 1}, s.Start)
	assert.Equal(t, Point{X: 4, Y: 2}, s.End)
	assert.False(t, s.Collapsed())
	assert.True(t, NewSelection(Point{1, 1}, Point{1, 1}).Collapsed())
}

func TestViewportScrollTo(t *testing.T) {
	v := Viewport{Top: 0, Width: 10, Height: 5}

	tests := []struct {
		name string
		p    Point
		top  int
		left int
	}{
		{"visible", Point{X: 2, Y: 2}, 0, 0},
		{"below", Point{X: 0, Y: 7}, 3, 0},
		{"right", Point{X: 14, Y: 0}, 0, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := v.ScrollTo(tt.p, 0)
			assert.Equal(t, tt.top, got.Top)
			assert.Equal(t, tt.left, got.Left)
			assert.True(t, got.Contains(tt.p))
		})
	}
}

func TestViewportScreenRoundTrip(t *testing.T) {
	v := Viewport{Top: 3, Left: 2, Width: 10, Height: 5}
	p := Point{X: 5, Y: 6}
	assert.Equal(t, Point{X: 3, Y: 3}, v.ToScreen(p))
	assert.Equal(t, p, v.FromScreen(v.ToScreen(p)))
}
