package history

import (
	"github.com/bethropolis/composer/internal/logger"
)

// DefaultSize is the number of live events kept when no size is configured.
const DefaultSize = 30

// Store is the linear event list. events[0] is the Start sentinel and
// cursor indexes the most recently applied event; everything after the
// cursor can be redone.
type Store struct {
	events []*Event
	cursor int
	size   int
}

// NewStore creates a store that keeps at most size live events.
func NewStore(size int) *Store {
	if size <= 0 {
		size = DefaultSize
	}
	s := &Store{size: size}
	s.Clear()
	return s
}

// Clear drops every event and leaves only the sentinel.
func (s *Store) Clear() {
	s.events = []*Event{{Type: Start}}
	s.cursor = 0
}

// Size returns the cap on live events.
func (s *Store) Size() int {
	return s.size
}

// Len counts the events after the sentinel, undoable or not.
func (s *Store) Len() int {
	return len(s.events) - 1
}

// Events returns the live events, oldest first.
func (s *Store) Events() []*Event {
	out := make([]*Event, len(s.events)-1)
	copy(out, s.events[1:])
	return out
}

// Cursor returns the index of the current event, 0 meaning the sentinel.
func (s *Store) Cursor() int {
	return s.cursor
}

// Current returns the most recently applied event, or nil at the sentinel.
func (s *Store) Current() *Event {
	if s.cursor == 0 {
		return nil
	}
	return s.events[s.cursor]
}

// CanUndo reports whether the cursor is past the sentinel.
func (s *Store) CanUndo() bool {
	return s.cursor > 0
}

// CanRedo reports whether events follow the cursor.
func (s *Store) CanRedo() bool {
	return s.cursor < len(s.events)-1
}

// TruncateRedo forgets every event after the cursor.
func (s *Store) TruncateRedo() {
	for i := s.cursor + 1; i < len(s.events); i++ {
		s.events[i] = nil
	}
	s.events = s.events[:s.cursor+1]
}

// Insert drops the redo branch, appends ev as the current event and
// evicts the oldest groups while the store is over its size.
func (s *Store) Insert(ev *Event) {
	s.TruncateRedo()
	s.events = append(s.events, ev)
	s.cursor = len(s.events) - 1

	for s.Len() > s.size {
		end := s.groupEnd(1)
		if end < 0 || end >= s.cursor {
			// the oldest group is still open or reaches the new event
			break
		}
		logger.DebugTagf("history", "store: evicting %d event(s) from %v", end, s.events[1])
		s.events = append(s.events[:1], s.events[end+1:]...)
		s.cursor -= end
	}
}

// RemoveCurrent pops the current event, discarding the redo branch.
func (s *Store) RemoveCurrent() *Event {
	if s.cursor == 0 {
		return nil
	}
	ev := s.events[s.cursor]
	s.events = s.events[:s.cursor]
	s.cursor--
	return ev
}

func (s *Store) at(i int) *Event {
	if i < 0 || i >= len(s.events) {
		return nil
	}
	return s.events[i]
}

// isOpenMarker reports whether the ReplaceAll marker at i opens a group.
// Markers always come in open/close pairs, so parity decides.
func (s *Store) isOpenMarker(i int) bool {
	n := 0
	for j := 1; j <= i; j++ {
		if s.events[j].Type == ReplaceAll {
			n++
		}
	}
	return n%2 == 1
}

// unitEnd returns the last index of the unit starting at i: the event
// itself, or a whole replace-all run. It is -1 when the run is unclosed.
func (s *Store) unitEnd(i int) int {
	if s.events[i].Type != ReplaceAll {
		return i
	}
	for j := i + 1; j < len(s.events); j++ {
		if s.events[j].Type == ReplaceAll {
			return j
		}
	}
	return -1
}

// groupEnd returns the last index of the atomic group starting at i:
// units chained by And glue. It is -1 when the group is still open.
func (s *Store) groupEnd(i int) int {
	if s.events[i].Type == And {
		return i
	}
	end := s.unitEnd(i)
	for end >= 0 && end+1 < len(s.events) && s.events[end+1].Type == And {
		if end+2 >= len(s.events) {
			return -1
		}
		end = s.unitEnd(end + 2)
	}
	return end
}
