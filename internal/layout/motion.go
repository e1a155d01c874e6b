package layout

import (
	"strings"
	"unicode"

	"github.com/bethropolis/composer/internal/types"
	"github.com/rivo/uniseg"
)

func (l *Layout) clampLine(y int) int {
	return l.lineWithStops(y)
}

func (l *Layout) lineBounds(y int) (int, int) {
	stops := l.Lines[y].Stops
	return stops[0].X, stops[len(stops)-1].X
}

// Left moves one grapheme back, wrapping to the end of the previous line.
func (l *Layout) Left(pt types.Point) types.Point {
	y := l.clampLine(pt.Y)
	if y < 0 {
		return pt
	}
	best := -1
	for _, s := range l.Lines[y].Stops {
		if s.X < pt.X && s.X > best {
			best = s.X
		}
	}
	if best >= 0 {
		return types.Point{X: best, Y: y}
	}
	for py := y - 1; py >= 0; py-- {
		if len(l.Lines[py].Stops) > 0 {
			_, end := l.lineBounds(py)
			return types.Point{X: end, Y: py}
		}
	}
	start, _ := l.lineBounds(y)
	return types.Point{X: start, Y: y}
}

// Right moves one grapheme forward, wrapping to the start of the next line.
func (l *Layout) Right(pt types.Point) types.Point {
	y := l.clampLine(pt.Y)
	if y < 0 {
		return pt
	}
	best := -1
	for _, s := range l.Lines[y].Stops {
		if s.X > pt.X && (best < 0 || s.X < best) {
			best = s.X
		}
	}
	if best >= 0 {
		return types.Point{X: best, Y: y}
	}
	for ny := y + 1; ny < len(l.Lines); ny++ {
		if len(l.Lines[ny].Stops) > 0 {
			start, _ := l.lineBounds(ny)
			return types.Point{X: start, Y: ny}
		}
	}
	_, end := l.lineBounds(y)
	return types.Point{X: end, Y: y}
}

// Up moves to the previous line keeping the column where possible.
func (l *Layout) Up(pt types.Point) types.Point {
	for y := pt.Y - 1; y >= 0; y-- {
		if y < len(l.Lines) && len(l.Lines[y].Stops) > 0 {
			return types.Point{X: l.nearestX(y, pt.X), Y: y}
		}
	}
	return pt
}

// Down moves to the next line keeping the column where possible.
func (l *Layout) Down(pt types.Point) types.Point {
	for y := pt.Y + 1; y < len(l.Lines); y++ {
		if len(l.Lines[y].Stops) > 0 {
			return types.Point{X: l.nearestX(y, pt.X), Y: y}
		}
	}
	return pt
}

// LineStart returns the first caret point of the line.
func (l *Layout) LineStart(pt types.Point) types.Point {
	y := l.clampLine(pt.Y)
	if y < 0 {
		return pt
	}
	start, _ := l.lineBounds(y)
	return types.Point{X: start, Y: y}
}

// LineEnd returns the last caret point of the line.
func (l *Layout) LineEnd(pt types.Point) types.Point {
	y := l.clampLine(pt.Y)
	if y < 0 {
		return pt
	}
	_, end := l.lineBounds(y)
	return types.Point{X: end, Y: y}
}

// words returns the start and end columns of the words on line y.
func (l *Layout) words(y int) (starts, ends []int) {
	line := &l.Lines[y]
	var sb strings.Builder
	offsets := make([]int, 0, len(line.Cells))
	for _, c := range line.Cells {
		offsets = append(offsets, sb.Len())
		sb.WriteString(c.Text)
	}
	s := sb.String()

	colAt := func(byteOff int) int {
		for i, off := range offsets {
			if off >= byteOff {
				return line.Cells[i].X
			}
		}
		return line.End()
	}

	state := -1
	pos := 0
	for rest := s; len(rest) > 0; {
		var word string
		word, rest, state = uniseg.FirstWordInString(rest, state)
		if isWord(word) {
			starts = append(starts, colAt(pos))
			ends = append(ends, colAt(pos+len(word)))
		}
		pos += len(word)
	}
	return starts, ends
}

func isWord(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// WordLeft moves to the start of the current or previous word.
func (l *Layout) WordLeft(pt types.Point) types.Point {
	y := l.clampLine(pt.Y)
	if y < 0 {
		return pt
	}
	starts, _ := l.words(y)
	best := -1
	for _, x := range starts {
		if x < pt.X {
			best = x
		}
	}
	if best >= 0 {
		return types.Point{X: best, Y: y}
	}
	start, _ := l.lineBounds(y)
	if pt.X > start {
		return types.Point{X: start, Y: y}
	}
	return l.Left(types.Point{X: start, Y: y})
}

// WordRight moves to the end of the current or next word.
func (l *Layout) WordRight(pt types.Point) types.Point {
	y := l.clampLine(pt.Y)
	if y < 0 {
		return pt
	}
	_, ends := l.words(y)
	for _, x := range ends {
		if x > pt.X {
			return types.Point{X: x, Y: y}
		}
	}
	_, end := l.lineBounds(y)
	if pt.X < end {
		return types.Point{X: end, Y: y}
	}
	return l.Right(types.Point{X: end, Y: y})
}
