package modehandler

import (
	"testing"
	"time"

	"github.com/bethropolis/composer/internal/commands"
	"github.com/bethropolis/composer/internal/core"
	"github.com/bethropolis/composer/internal/event"
	"github.com/bethropolis/composer/internal/input"
	"github.com/bethropolis/composer/internal/statusbar"
	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	mh       *ModeHandler
	editor   *core.Editor
	registry *commands.Registry
	status   *statusbar.StatusBar
	events   *event.Manager
	quit     chan struct{}
	modified bool
}

func newFixture(t *testing.T, src string) *fixture {
	t.Helper()
	f := &fixture{
		editor:   core.NewEditor(core.DefaultOptions()),
		registry: commands.NewRegistry(),
		status:   statusbar.New(statusbar.DefaultConfig()),
		events:   event.NewManager(),
		quit:     make(chan struct{}),
	}
	require.NoError(t, f.editor.LoadHTML(src, "test"))
	f.mh = New(Config{
		Editor:         f.editor,
		InputProcessor: input.NewInputProcessor(),
		EventManager:   f.events,
		StatusBar:      f.status,
		Commands:       f.registry,
		QuitSignal:     f.quit,
		IsModified:     func() bool { return f.modified },
		LeaderTimeout:  time.Minute,
	})
	return f
}

func (f *fixture) key(k tcell.Key, mod tcell.ModMask) {
	f.mh.HandleKeyEvent(tcell.NewEventKey(k, 0, mod))
}

func (f *fixture) typeText(s string) {
	for _, r := range s {
		f.mh.HandleKeyEvent(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
	}
}

func (f *fixture) quitClosed() bool {
	select {
	case <-f.quit:
		return true
	default:
		return false
	}
}

func TestTypingEditsDocument(t *testing.T) {
	f := newFixture(t, "<p>world</p>")
	f.typeText("Hi ")
	assert.Contains(t, f.editor.BodyHTML(), "Hi world")

	f.key(tcell.KeyBackspace2, tcell.ModNone)
	assert.Contains(t, f.editor.BodyHTML(), "Hiworld")

	f.key(tcell.KeyCtrlZ, tcell.ModCtrl)
	assert.Contains(t, f.editor.BodyHTML(), "Hi world")
}

func TestCommandMode(t *testing.T) {
	f := newFixture(t, "<p>text</p>")
	var got []string
	require.NoError(t, f.registry.Register("echo", func(args []string) error {
		got = args
		return nil
	}))

	f.key(tcell.KeyCtrlO, tcell.ModCtrl)
	assert.Equal(t, ModeCommand, f.mh.GetCurrentMode())
	f.typeText("echo a b")
	assert.Equal(t, ":echo a b", f.mh.Prompt())
	f.key(tcell.KeyEnter, tcell.ModNone)

	assert.Equal(t, ModeNormal, f.mh.GetCurrentMode())
	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, "<p>text</p>", f.editor.BodyHTML())
}

func TestUnknownCommand(t *testing.T) {
	f := newFixture(t, "<p>text</p>")
	f.key(tcell.KeyCtrlO, tcell.ModCtrl)
	f.typeText("nope")
	f.key(tcell.KeyEnter, tcell.ModNone)
	assert.Equal(t, "Unknown command: nope", f.status.Message())
}

func TestLeaderBold(t *testing.T) {
	f := newFixture(t, "<p>Hello</p>")
	f.key(tcell.KeyCtrlA, tcell.ModCtrl)

	f.key(input.LeaderKey, tcell.ModCtrl)
	assert.True(t, f.mh.LeaderPending())
	f.typeText("b")

	assert.False(t, f.mh.LeaderPending())
	assert.Equal(t, "<p><b>Hello</b></p>", f.editor.BodyHTML())
}

func TestFindMode(t *testing.T) {
	f := newFixture(t, "<p>one two one</p>")
	f.key(tcell.KeyCtrlF, tcell.ModCtrl)
	f.typeText("one")
	assert.Len(t, f.editor.Highlights(), 2)

	f.key(tcell.KeyEnter, tcell.ModNone)
	assert.Equal(t, ModeNormal, f.mh.GetCurrentMode())
	assert.True(t, f.editor.HasSelection())
	first := f.editor.Selection()

	f.key(tcell.KeyF3, tcell.ModNone)
	assert.NotEqual(t, first, f.editor.Selection())
}

func TestQuitConfirmsUnsavedChanges(t *testing.T) {
	f := newFixture(t, "<p>x</p>")
	f.modified = true

	f.key(tcell.KeyEscape, tcell.ModNone)
	assert.False(t, f.quitClosed())
	assert.Contains(t, f.status.Message(), "Unsaved changes")

	f.key(tcell.KeyEscape, tcell.ModNone)
	assert.True(t, f.quitClosed())

	// A second quit must not panic on the closed channel.
	f.key(tcell.KeyCtrlQ, tcell.ModCtrl)
}

func TestPasteInFindMode(t *testing.T) {
	f := newFixture(t, "<p>abc abc</p>")
	f.key(tcell.KeyCtrlF, tcell.ModCtrl)
	f.mh.HandlePaste("abc")
	assert.Equal(t, "/abc", f.mh.Prompt())
	assert.Len(t, f.editor.Highlights(), 2)
}

func TestConsumedKeyIsNotHandled(t *testing.T) {
	f := newFixture(t, "<p>x</p>")
	f.events.Subscribe(event.TypeKeyPressed, func(e event.Event) bool {
		return e.Data.(event.KeyPressedData).KeyEvent.Rune() == 'q'
	})
	f.typeText("qa")
	assert.Equal(t, "<p>ax</p>", f.editor.BodyHTML())
}
