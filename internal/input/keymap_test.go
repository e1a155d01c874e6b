package input

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
)

func TestProcessEvent(t *testing.T) {
	p := NewInputProcessor()
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want ActionEvent
	}{
		{"rune", tcell.NewEventKey(tcell.KeyRune, ':', tcell.ModNone), ActionEvent{Action: ActionInsertRune, Rune: ':'}},
		{"shifted rune", tcell.NewEventKey(tcell.KeyRune, 'A', tcell.ModShift), ActionEvent{Action: ActionInsertRune, Rune: 'A'}},
		{"alt rune", tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModAlt), ActionEvent{Action: ActionUnknown}},
		{"left", tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone), ActionEvent{Action: ActionMoveLeft}},
		{"shift left", tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModShift), ActionEvent{Action: ActionMoveLeft, Extend: true}},
		{"ctrl shift right", tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModCtrl|tcell.ModShift), ActionEvent{Action: ActionMoveWordRight, Extend: true}},
		{"enter", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), ActionEvent{Action: ActionInsertNewLine}},
		{"undo", tcell.NewEventKey(tcell.KeyCtrlZ, 0, tcell.ModCtrl), ActionEvent{Action: ActionUndo}},
		{"leader", tcell.NewEventKey(LeaderKey, 0, tcell.ModCtrl), ActionEvent{Action: ActionLeader}},
		{"unmapped", tcell.NewEventKey(tcell.KeyF12, 0, tcell.ModNone), ActionEvent{Action: ActionUnknown}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.ProcessEvent(tt.ev))
		})
	}
}

func TestProcessLeader(t *testing.T) {
	p := NewInputProcessor()
	assert.Equal(t, ActionItalic, p.ProcessLeader(tcell.NewEventKey(tcell.KeyRune, 'i', tcell.ModNone)).Action)
	assert.Equal(t, ActionBlockH2, p.ProcessLeader(tcell.NewEventKey(tcell.KeyRune, '2', tcell.ModNone)).Action)
	assert.Equal(t, ActionUnknown, p.ProcessLeader(tcell.NewEventKey(tcell.KeyRune, 'z', tcell.ModNone)).Action)
	assert.Equal(t, ActionUnknown, p.ProcessLeader(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone)).Action)
}
