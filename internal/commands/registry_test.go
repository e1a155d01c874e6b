package commands

import (
	"fmt"
	"testing"

	"github.com/bethropolis/composer/internal/core"
	"github.com/bethropolis/composer/internal/theme"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	var got []string
	require.NoError(t, r.Register("echo", func(args []string) error {
		got = args
		return nil
	}))
	assert.Error(t, r.Register("echo", func([]string) error { return nil }))
	assert.Error(t, r.Register("", func([]string) error { return nil }))

	require.NoError(t, r.Execute("  echo a  b "))
	assert.Equal(t, []string{"a", "b"}, got)
	assert.NoError(t, r.Execute("   "))

	err := r.Execute("nope 1")
	assert.ErrorIs(t, err, ErrUnknownCommand)
	assert.Contains(t, err.Error(), "nope")
	assert.Equal(t, []string{"echo"}, r.Names())
}

type recorder struct {
	messages []string
}

func (r *recorder) status(format string, args ...interface{}) {
	r.messages = append(r.messages, fmt.Sprintf(format, args...))
}

func editorRegistry(t *testing.T, src string) (*Registry, *core.Editor, *recorder) {
	t.Helper()
	e := core.NewEditor(core.DefaultOptions())
	require.NoError(t, e.LoadHTML(src, "test"))
	r := NewRegistry()
	rec := &recorder{}
	RegisterEditorCommands(r, e, rec.status)
	return r, e, rec
}

func TestEditorCommands(t *testing.T) {
	r, e, rec := editorRegistry(t, "<p>Hello</p>")

	require.NoError(t, r.Execute("selectall"))
	require.NoError(t, r.Execute("bold"))
	assert.Equal(t, "<p><b>Hello</b></p>", e.BodyHTML())
	require.NoError(t, r.Execute("bold off"))
	assert.Equal(t, "<p>Hello</p>", e.BodyHTML())
	assert.Error(t, r.Execute("bold maybe"))

	require.NoError(t, r.Execute("undo"))
	require.NoError(t, r.Execute("undo"))
	require.NoError(t, r.Execute("undo"))
	assert.Equal(t, []string{"Nothing to undo"}, rec.messages)
	require.NoError(t, r.Execute("redo"))
	assert.Equal(t, "<p><b>Hello</b></p>", e.BodyHTML())
}

func TestEditorCommandArguments(t *testing.T) {
	r, e, _ := editorRegistry(t, "<p>Hello</p>")

	assert.ErrorContains(t, r.Execute("size"), "expected 1 numbers")
	assert.ErrorContains(t, r.Execute("size big"), "invalid number")
	assert.ErrorIs(t, r.Execute("size 9"), core.ErrUnsupported)
	assert.ErrorContains(t, r.Execute("block sideways"), "unknown block format")
	assert.ErrorContains(t, r.Execute("replace x"), "nothing selected")
	assert.ErrorContains(t, r.Execute("table 2"), "expected 2 numbers")

	require.NoError(t, r.Execute("block h2"))
	assert.Equal(t, "<h2>Hello</h2>", e.BodyHTML())
}

func TestTableCommandResizes(t *testing.T) {
	r, e, _ := editorRegistry(t, "<p>Hello</p>")
	require.NoError(t, r.Execute("table 2 2"))
	// the caret moves into the first cell
	rows, cols, ok := e.TableSize()
	require.True(t, ok)
	assert.Equal(t, [2]int{2, 2}, [2]int{rows, cols})

	require.NoError(t, r.Execute("table 3 3"))
	rows, cols, _ = e.TableSize()
	assert.Equal(t, [2]int{3, 3}, [2]int{rows, cols})
}

func TestFindAndReplaceAllCommands(t *testing.T) {
	r, e, rec := editorRegistry(t, "<p>a cat, a Cat</p>")

	require.NoError(t, r.Execute("find cat"))
	assert.Equal(t, "2 matches for 'cat'", rec.messages[len(rec.messages)-1])
	require.NoError(t, r.Execute("find -c dog"))
	assert.Equal(t, "Pattern not found: dog", rec.messages[len(rec.messages)-1])
	assert.ErrorContains(t, r.Execute("find -r"), "usage")

	require.NoError(t, r.Execute("replaceall -c cat dog"))
	assert.Equal(t, "<p>a dog, a Cat</p>", e.BodyHTML())
	assert.Equal(t, "Replaced 1 occurrences", rec.messages[len(rec.messages)-1])
}

func TestLinkAndPageCommands(t *testing.T) {
	r, e, rec := editorRegistry(t, "<p>site</p>")
	require.NoError(t, r.Execute("selectall"))
	require.NoError(t, r.Execute("link https://example.com"))
	assert.Equal(t, `<p><a href="https://example.com">site</a></p>`, e.BodyHTML())

	require.NoError(t, r.Execute("link"))
	assert.Equal(t, "Link: https://example.com", rec.messages[len(rec.messages)-1])
	require.NoError(t, r.Execute("unlink"))
	assert.Equal(t, "<p>site</p>", e.BodyHTML())

	require.NoError(t, r.Execute("page text=#000000"))
	require.NoError(t, r.Execute("page"))
	assert.Equal(t, "Page: text=#000000", rec.messages[len(rec.messages)-1])
}

func TestReadOnlyCommand(t *testing.T) {
	r, e, _ := editorRegistry(t, "<p>x</p>")
	require.NoError(t, r.Execute("readonly on"))
	assert.True(t, e.ReadOnly())
	assert.ErrorIs(t, r.Execute("bold"), core.ErrReadOnly)
	require.NoError(t, r.Execute("readonly"))
	assert.False(t, e.ReadOnly())
}

type themeAPI struct {
	recorder
	current *theme.Theme
}

func (a *themeAPI) SetTheme(name string) error {
	if name != "Composer Dark" {
		return fmt.Errorf("no theme %s", name)
	}
	a.current = &theme.ComposerDark
	return nil
}

func (a *themeAPI) GetTheme() *theme.Theme { return a.current }
func (a *themeAPI) ListThemes() []string   { return []string{"Composer Dark"} }
func (a *themeAPI) SetStatusMessage(format string, args ...interface{}) {
	a.status(format, args...)
}

func TestThemeCommands(t *testing.T) {
	r := NewRegistry()
	api := &themeAPI{current: &theme.ComposerDark}
	RegisterThemeCommands(r, api)

	require.NoError(t, r.Execute("theme"))
	assert.Equal(t, "Current theme: Composer Dark", api.messages[0])
	assert.ErrorContains(t, r.Execute("theme Neon"), "Available: Composer Dark")
	require.NoError(t, r.Execute("theme Composer Dark"))
	require.NoError(t, r.Execute("themes"))
	assert.Equal(t, "Available themes: Composer Dark", api.messages[len(api.messages)-1])
}
