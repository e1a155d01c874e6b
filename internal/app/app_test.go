package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bethropolis/composer/internal/config"
	"github.com/bethropolis/composer/internal/store"
	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, html string, drafts store.Store) (*App, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	cfg := config.NewDefaultConfig()
	cfg.Drafts.AutosaveInterval = 0
	cfg.Mail.From = "me@example.com"

	a, err := NewAppWithScreen(cfg, Document{Name: "test", HTML: html}, drafts, screen)
	require.NoError(t, err)
	screen.SetSize(40, 10)
	a.editor.SetViewSize(40, 10)
	t.Cleanup(func() {
		a.pluginManager.ShutdownPlugins()
		a.tuiManager.Close()
	})
	return a, screen
}

func row(screen tcell.SimulationScreen, y int) string {
	cells, w, _ := screen.GetContents()
	var sb strings.Builder
	for x := 0; x < w; x++ {
		if c := cells[y*w+x]; len(c.Runes) > 0 {
			sb.WriteRune(c.Runes[0])
		}
	}
	return strings.TrimRight(sb.String(), " ")
}

func key(k tcell.Key, r rune) *tcell.EventKey {
	return tcell.NewEventKey(k, r, tcell.ModNone)
}

func TestTypingMarksModified(t *testing.T) {
	a, _ := newTestApp(t, "<p>Hello</p>", nil)
	assert.False(t, a.IsModified())

	assert.True(t, a.handleEvent(key(tcell.KeyRune, 'X')))
	assert.True(t, a.IsModified())
	assert.Equal(t, "<p>XHello</p>", a.editor.BodyHTML())
}

func TestDrawDocumentAndSource(t *testing.T) {
	a, screen := newTestApp(t, "<p>Hello</p>", nil)
	a.drawEditor()
	assert.Equal(t, "Hello", row(screen, 0))
	assert.Contains(t, row(screen, 9), "test")

	a.handleEvent(key(tcell.KeyF2, 0))
	require.True(t, a.sourceView)
	a.drawEditor()
	assert.Contains(t, row(screen, 0), "<p>")

	a.handleEvent(key(tcell.KeyEscape, 0))
	assert.False(t, a.sourceView)
}

func TestBracketedPaste(t *testing.T) {
	a, _ := newTestApp(t, "<p></p>", nil)
	a.handleEvent(tcell.NewEventPaste(true))
	for _, r := range "ab" {
		a.handleEvent(key(tcell.KeyRune, r))
	}
	a.handleEvent(key(tcell.KeyEnter, 0))
	a.handleEvent(key(tcell.KeyRune, 'c'))
	a.handleEvent(tcell.NewEventPaste(false))

	text := a.editor.Text()
	assert.Contains(t, text, "ab")
	assert.Contains(t, text, "c")
	assert.True(t, a.IsModified())
}

func TestSaveAndOpenDraft(t *testing.T) {
	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "drafts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	a, _ := newTestApp(t, "<p>First line</p>", s)
	a.handleEvent(key(tcell.KeyRune, '!'))
	d, err := a.SaveDraft()
	require.NoError(t, err)
	assert.False(t, a.IsModified())
	assert.Equal(t, "!First line", d.Subject)

	again, err := a.SaveDraft()
	require.NoError(t, err)
	assert.Equal(t, d.ID, again.ID)

	require.NoError(t, a.commands.Execute("new"))
	assert.Equal(t, "", strings.TrimSpace(a.editor.Text()))
	require.NoError(t, a.commands.Execute("open"))
	assert.Equal(t, "<p>!First line</p>", a.editor.BodyHTML())
	assert.Equal(t, d.ID, a.doc.DraftID)
}

func TestOpenRefusesUnsavedChanges(t *testing.T) {
	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "drafts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	a, _ := newTestApp(t, "<p>x</p>", s)
	a.handleEvent(key(tcell.KeyRune, 'y'))
	assert.Error(t, a.commands.Execute("open"))
}

func TestExport(t *testing.T) {
	a, _ := newTestApp(t, "<p>Body <b>bold</b></p>", nil)
	require.NoError(t, a.commands.Execute("subject Greetings"))

	path := filepath.Join(t.TempDir(), "out.eml")
	require.NoError(t, a.commands.Execute("export "+path+" you@example.com"))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(raw)
	assert.Contains(t, out, "Subject: Greetings")
	assert.Contains(t, out, "you@example.com")
	assert.Contains(t, out, "text/html")
	assert.Contains(t, out, "<b>bold</b>")
}

func TestPostRunsOnLoop(t *testing.T) {
	a, _ := newTestApp(t, "<p>x</p>", nil)
	ran := false
	assert.True(t, a.handleEvent(tcell.NewEventInterrupt(func() { ran = true })))
	assert.True(t, ran)
}
