package core

import (
	"strings"
	"testing"

	"github.com/bethropolis/composer/internal/core/find"
	"github.com/bethropolis/composer/internal/core/history"
	"github.com/bethropolis/composer/internal/event"
	"github.com/bethropolis/composer/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func newTestEditor(t *testing.T, src string) *Editor {
	t.Helper()
	e := NewEditor(DefaultOptions())
	require.NoError(t, e.LoadHTML(src, "test"))
	return e
}

func pt(x, y int) types.Point {
	return types.Point{X: x, Y: y}
}

func selectRange(e *Editor, from, to types.Point) {
	e.MoveTo(from, false)
	e.MoveTo(to, true)
}

// checkReversible runs op and checks that undo restores the document
// exactly and redo brings the edit back.
func checkReversible(t *testing.T, e *Editor, op func() error) (before, after string) {
	t.Helper()
	before = e.BodyHTML()
	require.NoError(t, op())
	after = e.BodyHTML()
	require.NotEqual(t, before, after, "edit changed nothing")

	require.True(t, e.Undo())
	assert.Equal(t, before, e.BodyHTML(), "undo")
	require.True(t, e.Redo())
	assert.Equal(t, after, e.BodyHTML(), "redo")
	assert.False(t, e.Redo())

	require.True(t, e.Undo())
	assert.Equal(t, before, e.BodyHTML(), "second undo")
	return before, after
}

func TestBoldScenario(t *testing.T) {
	e := newTestEditor(t, "<p>Hello</p>")
	selectRange(e, pt(0, 0), pt(5, 0))
	require.NoError(t, e.SetBold(true))
	assert.Equal(t, "<p><b>Hello</b></p>", e.BodyHTML())
	assert.True(t, e.IsBold())

	require.True(t, e.Undo())
	assert.Equal(t, "<p>Hello</p>", e.BodyHTML())
	assert.False(t, e.CanUndo())
	assert.False(t, e.Undo())

	require.True(t, e.Redo())
	assert.Equal(t, "<p><b>Hello</b></p>", e.BodyHTML())
	assert.Equal(t, types.NewSelection(pt(0, 0), pt(5, 0)), e.Selection())
}

func TestTypeBoldUndoScenario(t *testing.T) {
	e := newTestEditor(t, "")
	empty := e.BodyHTML()
	for _, r := range "Hello" {
		require.NoError(t, e.InsertText(string(r)))
	}
	e.SelectAll()
	require.NoError(t, e.SetBold(true))
	bold := e.BodyHTML()
	assert.Contains(t, bold, "<b>Hello</b>")

	require.True(t, e.Undo())
	assert.False(t, e.IsBold())
	assert.Equal(t, "Hello", e.SelectedText())
	require.True(t, e.Undo())
	assert.Equal(t, empty, e.BodyHTML())
	assert.False(t, e.Undo())
	assert.Equal(t, empty, e.BodyHTML())

	require.True(t, e.Redo())
	require.True(t, e.Redo())
	assert.Equal(t, bold, e.BodyHTML())
	assert.False(t, e.Redo())
}

func TestDashCoalescingScenario(t *testing.T) {
	e := newTestEditor(t, "")
	empty := e.BodyHTML()
	for _, r := range "a-b" {
		require.NoError(t, e.InsertText(string(r)))
	}
	assert.Equal(t, 2, e.GetHistoryManager().Store().Len())
	assert.Equal(t, "a-b", e.Text())

	require.True(t, e.Undo())
	assert.Equal(t, "a", e.Text())
	assert.True(t, e.CanUndo())
	require.True(t, e.Undo())
	assert.Equal(t, empty, e.BodyHTML())
}

func TestTypingRuns(t *testing.T) {
	e := newTestEditor(t, "")
	empty := e.BodyHTML()
	for _, r := range "ab cd" {
		require.NoError(t, e.InsertText(string(r)))
	}
	assert.Equal(t, 2, e.GetHistoryManager().Store().Len())

	require.True(t, e.Undo())
	assert.Equal(t, "ab", strings.TrimSpace(e.Text()))
	require.True(t, e.Undo())
	assert.Equal(t, empty, e.BodyHTML())
	require.True(t, e.Redo())
	require.True(t, e.Redo())
	assert.Equal(t, "ab cd", e.Text())
}

func TestTypingRunBreaksOnCaretJump(t *testing.T) {
	e := newTestEditor(t, "")
	for _, r := range "ab" {
		require.NoError(t, e.InsertText(string(r)))
	}
	e.Move(MoveLeft, false)
	require.NoError(t, e.InsertText("x"))
	assert.Equal(t, "axb", e.Text())
	assert.Equal(t, 2, e.GetHistoryManager().Store().Len())

	require.True(t, e.Undo())
	assert.Equal(t, "ab", e.Text())
}

func TestHistoryCap(t *testing.T) {
	opts := DefaultOptions()
	opts.HistorySize = 3
	e := NewEditor(opts)
	require.NoError(t, e.LoadHTML("<p>x</p>", "test"))
	e.Move(MoveDocEnd, false)
	for _, s := range []string{"ab", "cd", "ef", "gh", "ij"} {
		require.NoError(t, e.InsertText(s))
	}
	assert.Equal(t, 3, e.GetHistoryManager().Store().Len())

	n := 0
	for e.Undo() {
		n++
	}
	assert.Equal(t, 3, n)
	assert.Equal(t, "xabcd", e.Text())
}

func TestReversibleEdits(t *testing.T) {
	long := strings.TrimSpace(strings.Repeat("word ", 30))
	tests := []struct {
		name string
		src  string
		from types.Point
		to   types.Point
		op   func(e *Editor) error
	}{
		{"italic", "<p>Hello world</p>", pt(0, 0), pt(5, 0), func(e *Editor) error { return e.SetItalic(true) }},
		{"underline", "<p>Hello world</p>", pt(6, 0), pt(11, 0), func(e *Editor) error { return e.SetUnderline(true) }},
		{"strikethrough", "<p>Hello world</p>", pt(2, 0), pt(8, 0), func(e *Editor) error { return e.SetStrikethrough(true) }},
		{"monospace", "<p>Hello world</p>", pt(0, 0), pt(11, 0), func(e *Editor) error { return e.SetMonospace(true) }},
		{"unbold", "<p><b>Hello</b> world</p>", pt(1, 0), pt(3, 0), func(e *Editor) error { return e.SetBold(false) }},
		{"font size", "<p>Hello world</p>", pt(0, 0), pt(5, 0), func(e *Editor) error { return e.SetFontSize(5) }},
		{"font color", "<p>Hello world</p>", pt(0, 0), pt(5, 0), func(e *Editor) error { return e.SetFontColor("#ff0000") }},
		{"alignment", "<p>Hello</p><p>world</p>", pt(0, 0), pt(2, 1), func(e *Editor) error { return e.SetAlignment(types.AlignCenter) }},
		{"heading", "<p>Hello</p>", pt(1, 0), pt(1, 0), func(e *Editor) error { return e.SetBlockFormat(types.BlockH1) }},
		{"bullet list", "<p>one</p><p>two</p>", pt(0, 0), pt(1, 1), func(e *Editor) error { return e.SetBlockFormat(types.BlockBulletList) }},
		{"indent", "<p>Hello</p>", pt(0, 0), pt(0, 0), func(e *Editor) error { return e.Indent() }},
		{"unindent", `<div class="-x-evo-indented"><p>Hello</p></div>`, pt(0, 0), pt(0, 0), func(e *Editor) error { return e.Unindent() }},
		{"wrap", "<p>" + long + "</p>", pt(0, 0), pt(0, 0), func(e *Editor) error { return e.WrapLines() }},
		{"type", "<p>Hello</p>", pt(5, 0), pt(5, 0), func(e *Editor) error { return e.InsertText(" there") }},
		{"type over selection", "<p>Hello world</p>", pt(0, 0), pt(5, 0), func(e *Editor) error { return e.InsertText("Bye") }},
		{"return", "<p>Hello</p>", pt(2, 0), pt(2, 0), func(e *Editor) error { return e.InsertReturn() }},
		{"backspace", "<p>Hello</p>", pt(5, 0), pt(5, 0), func(e *Editor) error { return e.DeleteBackward(false) }},
		{"word backspace", "<p>Hello world</p>", pt(11, 0), pt(11, 0), func(e *Editor) error { return e.DeleteBackward(true) }},
		{"delete", "<p>Hello</p>", pt(0, 0), pt(0, 0), func(e *Editor) error { return e.DeleteForward(false) }},
		{"join paragraphs", "<p>Hello</p><p>world</p>", pt(0, 1), pt(0, 1), func(e *Editor) error { return e.DeleteBackward(false) }},
		{"join forward", "<p>Hello</p><p>world</p>", pt(5, 0), pt(5, 0), func(e *Editor) error { return e.DeleteForward(false) }},
		{"delete across blocks", "<p>Hello</p><p>big</p><p>world</p>", pt(2, 0), pt(3, 2), func(e *Editor) error { return e.DeleteSelection() }},
		{"paste", "<p>Hello</p>", pt(5, 0), pt(5, 0), func(e *Editor) error { return e.Paste("<b>bold</b> text") }},
		{"paste blocks", "<p>Hello</p>", pt(2, 0), pt(2, 0), func(e *Editor) error { return e.Paste("<p>one</p><p>two</p>") }},
		{"paste as text", "<p>Hello</p>", pt(5, 0), pt(5, 0), func(e *Editor) error { return e.PasteAsText("a <b>\nb") }},
		{"paste quoted", "<p>Hello</p>", pt(5, 0), pt(5, 0), func(e *Editor) error { return e.PasteQuoted("q1\nq2") }},
		{"insert html", "<p>Hello</p>", pt(0, 0), pt(0, 0), func(e *Editor) error { return e.InsertHTML("<i>hi</i>") }},
		{"image", "<p>Hello</p>", pt(5, 0), pt(5, 0), func(e *Editor) error { return e.InsertImage("cid:logo", "logo") }},
		{"smiley", "<p>Hello</p>", pt(5, 0), pt(5, 0), func(e *Editor) error { return e.InsertSmiley(":-)") }},
		{"link", "<p>Hello world</p>", pt(6, 0), pt(11, 0), func(e *Editor) error { return e.EditLink("https://example.com", "") }},
		{"remove link", `<p>go <a href="https://example.com">there</a></p>`, pt(4, 0), pt(4, 0), func(e *Editor) error { return e.RemoveLink() }},
		{"rule", "<p>Hello</p>", pt(2, 0), pt(2, 0), func(e *Editor) error { return e.InsertHRule() }},
		{"table", "<p>Hello</p>", pt(5, 0), pt(5, 0), func(e *Editor) error { return e.InsertTable(2, 3) }},
		{"replace", "<p>Hello world</p>", pt(6, 0), pt(11, 0), func(e *Editor) error { return e.Replace("there") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEditor(t, tt.src)
			selectRange(e, tt.from, tt.to)
			checkReversible(t, e, func() error { return tt.op(e) })
		})
	}
}

func TestCitationSplitScenario(t *testing.T) {
	e := newTestEditor(t, `<blockquote type="cite"><p>abcd</p></blockquote>`)
	e.Move(MoveDocStart, false)
	e.Move(MoveRight, false)
	e.Move(MoveRight, false)

	_, after := checkReversible(t, e, e.InsertReturn)
	assert.Equal(t, 2, strings.Count(after, "<blockquote"))
	assert.Contains(t, after, "ab")
	assert.Contains(t, after, "cd")

	require.True(t, e.Redo())
	// the caret sits in the unquoted paragraph between the halves
	require.NoError(t, e.InsertText("x"))
	lines := strings.Split(e.Text(), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "x", lines[1])
}

func TestNestedCitationSplit(t *testing.T) {
	e := newTestEditor(t, `<blockquote type="cite"><p>one</p><blockquote type="cite"><p>abcd</p></blockquote></blockquote>`)
	e.Move(MoveDocEnd, false)
	e.Move(MoveLeft, false)
	e.Move(MoveLeft, false)

	before, after := checkReversible(t, e, e.InsertReturn)
	assert.Equal(t, 2, strings.Count(before, "<blockquote"))
	assert.Equal(t, 4, strings.Count(after, "<blockquote"))
	assert.Contains(t, after, "ab")
	assert.Contains(t, after, "cd")

	require.True(t, e.Redo())
	require.NoError(t, e.InsertText("x"))
	lines := strings.Split(e.Text(), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "x", lines[2])
}

func TestBlockFormatUndoKeepsTags(t *testing.T) {
	tests := []struct {
		name string
		src  string
		at   types.Point
		f    types.BlockFormat
	}{
		{"heading", "<p>one</p>", pt(1, 0), types.BlockH3},
		{"paragraph", "<h2>one</h2><p>two</p>", pt(1, 0), types.BlockParagraph},
		{"list after list", "<ul><li>a</li></ul><p>b</p>", pt(0, 1), types.BlockBulletList},
		{"out of list", "<p>x</p><ol><li>a</li><li>b</li><li>c</li></ol>", pt(0, 2), types.BlockH1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEditor(t, tt.src)
			selectRange(e, tt.at, tt.at)
			checkReversible(t, e, func() error { return e.SetBlockFormat(tt.f) })
		})
	}
}

func TestUnquote(t *testing.T) {
	e := newTestEditor(t, `<blockquote type="cite"><p>one</p><p>two</p></blockquote>`)
	e.Move(MoveDocStart, false)
	_, after := checkReversible(t, e, e.Unquote)
	assert.True(t, strings.HasPrefix(after, "<p>one</p>"), after)
}

func TestTableDialogScenario(t *testing.T) {
	e := newTestEditor(t, `<table border="1"><tbody><tr><td>a</td><td>b</td></tr><tr><td>c</td><td>d</td></tr></tbody></table>`)
	e.Move(MoveDocStart, false)
	rows, cols, ok := e.TableSize()
	require.True(t, ok)
	assert.Equal(t, [2]int{2, 2}, [2]int{rows, cols})

	before, after := checkReversible(t, e, func() error { return e.EditTable(3, 3) })
	assert.Equal(t, 4, strings.Count(before, "<td"))
	assert.Equal(t, 9, strings.Count(after, "<td"))

	require.True(t, e.Redo())
	rows, cols, _ = e.TableSize()
	assert.Equal(t, [2]int{3, 3}, [2]int{rows, cols})
}

func TestTableCellTyping(t *testing.T) {
	e := newTestEditor(t, `<table><tbody><tr><td>a</td></tr></tbody></table>`)
	e.Move(MoveDocEnd, false)
	checkReversible(t, e, func() error { return e.InsertText("b") })
}

func TestEditPage(t *testing.T) {
	e := newTestEditor(t, "<p>Hello</p>")
	require.NoError(t, e.EditPage(html.Attribute{Key: "bgcolor", Val: "#ffffff"}))
	assert.Contains(t, e.PageAttributes(), html.Attribute{Key: "bgcolor", Val: "#ffffff"})

	require.True(t, e.Undo())
	assert.NotContains(t, e.HTML(), "bgcolor")
	require.True(t, e.Redo())
	assert.Contains(t, e.HTML(), `bgcolor="#ffffff"`)
}

func TestReplaceAllIsOneStep(t *testing.T) {
	e := newTestEditor(t, "<p>cat and cat</p><p>Cat</p>")
	before := e.BodyHTML()
	n, err := e.ReplaceAll("cat", "dog", find.Options{})
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, "<p>dog and dog</p><p>dog</p>", e.BodyHTML())

	require.True(t, e.Undo())
	assert.Equal(t, before, e.BodyHTML())
	assert.False(t, e.CanUndo())
	require.True(t, e.Redo())
	assert.Equal(t, "<p>dog and dog</p><p>dog</p>", e.BodyHTML())
}

func TestReplaceAllCaseSensitive(t *testing.T) {
	e := newTestEditor(t, "<p>cat Cat</p>")
	n, err := e.ReplaceAll("cat", "dog", find.Options{CaseSensitive: true})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "<p>dog Cat</p>", e.BodyHTML())
}

func TestNewEditDropsRedo(t *testing.T) {
	e := newTestEditor(t, "<p>Hello</p>")
	e.Move(MoveDocEnd, false)
	require.NoError(t, e.InsertText("!"))
	require.True(t, e.Undo())
	require.True(t, e.CanRedo())

	require.NoError(t, e.InsertText("?"))
	assert.False(t, e.CanRedo())
	assert.Equal(t, "<p>Hello?</p>", e.BodyHTML())
}

func TestUndoSequence(t *testing.T) {
	e := newTestEditor(t, "<p>Hello</p>")
	orig := e.BodyHTML()
	e.Move(MoveDocEnd, false)
	require.NoError(t, e.InsertText(" big"))
	require.NoError(t, e.InsertReturn())
	require.NoError(t, e.InsertText("world"))
	e.SelectAll()
	require.NoError(t, e.SetItalic(true))
	final := e.BodyHTML()

	for e.Undo() {
	}
	assert.Equal(t, orig, e.BodyHTML())
	for e.Redo() {
	}
	assert.Equal(t, final, e.BodyHTML())
}

func TestUndoPastDanglingGlue(t *testing.T) {
	e := newTestEditor(t, "<p>Hello</p>")
	orig := e.BodyHTML()
	e.Move(MoveDocEnd, false)
	require.NoError(t, e.InsertText(" there"))
	sel := e.Selection()
	e.GetHistoryManager().InsertHistoryEvent(history.NewEvent(history.And, sel, sel, nil))

	require.True(t, e.Undo())
	assert.Equal(t, orig, e.BodyHTML())
	assert.False(t, e.CanUndo())
}

func TestDashMergesWithNextCharacter(t *testing.T) {
	e := newTestEditor(t, "<p>a</p>")
	e.Move(MoveDocEnd, false)
	require.NoError(t, e.InsertText("-"))
	require.NoError(t, e.InsertText(">"))
	assert.Equal(t, 1, e.GetHistoryManager().Store().Len())

	require.True(t, e.Undo())
	assert.Equal(t, "<p>a</p>", e.BodyHTML())
}

func TestMagicSmiley(t *testing.T) {
	e := newTestEditor(t, "<p>hi </p>")
	e.Move(MoveDocEnd, false)
	for _, r := range ":-)" {
		require.NoError(t, e.InsertText(string(r)))
	}
	assert.Contains(t, e.BodyHTML(), `data-smiley=":-)"`)
	assert.Contains(t, e.BodyHTML(), "🙂")

	require.True(t, e.Undo())
	assert.NotContains(t, e.BodyHTML(), "data-smiley")
	assert.Contains(t, e.BodyHTML(), "hi :-)")
}

func TestMagicLinks(t *testing.T) {
	e := newTestEditor(t, "<p>see</p>")
	e.Move(MoveDocEnd, false)
	require.NoError(t, e.InsertText(" www.example.com"))
	assert.NotContains(t, e.BodyHTML(), "<a ")

	require.NoError(t, e.InsertText(" "))
	assert.Contains(t, e.BodyHTML(), `<a href="http://www.example.com">www.example.com</a>`)
}

func TestReadOnlyRefusesEdits(t *testing.T) {
	e := newTestEditor(t, "<p>Hello</p>")
	e.SetReadOnly(true)
	assert.ErrorIs(t, e.InsertText("x"), ErrReadOnly)
	assert.ErrorIs(t, e.SetBold(true), ErrReadOnly)
	assert.Equal(t, "<p>Hello</p>", e.BodyHTML())
	assert.False(t, e.Undo())
}

func TestLoadClearsHistory(t *testing.T) {
	e := newTestEditor(t, "<p>Hello</p>")
	e.Move(MoveDocEnd, false)
	require.NoError(t, e.InsertText("!"))
	require.True(t, e.CanUndo())

	require.NoError(t, e.LoadHTML("<p>other</p>", "next"))
	assert.False(t, e.CanUndo())
	assert.Equal(t, pt(0, 0), e.Caret())
}

func TestEventsDispatched(t *testing.T) {
	e := newTestEditor(t, "<p>Hello</p>")
	em := event.NewManager()
	e.SetEventManager(em)

	var commands []string
	var canUndo []bool
	em.Subscribe(event.TypeDocumentModified, func(ev event.Event) bool {
		commands = append(commands, ev.Data.(event.DocumentModifiedData).Command)
		return false
	})
	em.Subscribe(event.TypeCanUndoChanged, func(ev event.Event) bool {
		canUndo = append(canUndo, ev.Data.(event.PropertyChangedData).Value)
		return false
	})

	e.Move(MoveDocEnd, false)
	require.NoError(t, e.InsertText("!"))
	require.True(t, e.Undo())
	assert.Equal(t, []string{"insert-text", "undo"}, commands)
	assert.Equal(t, []bool{true, false}, canUndo)

	require.True(t, e.Redo())
	assert.Equal(t, []string{"insert-text", "undo", "redo"}, commands)
	assert.Equal(t, []bool{true, false, true}, canUndo)
}

func TestFind(t *testing.T) {
	e := newTestEditor(t, "<p>one two</p><p>two three</p>")
	assert.Equal(t, 2, e.HighlightMatches("two", find.Options{}))
	assert.Len(t, e.Highlights(), 2)

	found, err := e.Find("two", find.Options{})
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, types.NewSelection(pt(4, 0), pt(7, 0)), e.Selection())

	require.True(t, e.FindNext(true))
	assert.Equal(t, types.NewSelection(pt(0, 1), pt(3, 1)), e.Selection())
	require.True(t, e.FindNext(false))
	assert.Equal(t, types.NewSelection(pt(4, 0), pt(7, 0)), e.Selection())

	_, err = e.Find("(", find.Options{Regex: true})
	assert.Error(t, err)

	e.ClearHighlights()
	assert.Empty(t, e.Highlights())
}

func TestClipboardRoundTrip(t *testing.T) {
	e := newTestEditor(t, "<p>Hello <b>bold</b> world</p>")
	ok, err := e.Copy()
	require.NoError(t, err)
	assert.False(t, ok)

	selectRange(e, pt(6, 0), pt(10, 0))
	ok, err = e.Cut()
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotContains(t, e.BodyHTML(), "bold")
	text, _ := e.GetClipboardManager().Register()
	assert.Equal(t, "bold", text)

	e.Move(MoveDocEnd, false)
	ok, err = e.PasteClipboard()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, e.BodyHTML(), "<b>bold</b>")
	assert.True(t, strings.HasSuffix(e.Text(), "bold"))
}

func TestSelectionAndMotion(t *testing.T) {
	e := newTestEditor(t, "<p>one two</p><p>three</p>")
	e.Move(MoveWordRight, true)
	assert.True(t, e.HasSelection())
	assert.Equal(t, "one", strings.TrimSpace(e.SelectedText()))

	e.ClearSelection()
	assert.False(t, e.HasSelection())

	e.Move(MoveDown, false)
	assert.Equal(t, 1, e.Caret().Y)
	e.Move(MoveDocEnd, false)
	assert.Equal(t, pt(5, 1), e.Caret())

	e.SelectAll()
	assert.Equal(t, "one two\nthree", e.SelectedText())
}

func TestViewportFollowsCaret(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 40; i++ {
		sb.WriteString("<p>line</p>")
	}
	e := newTestEditor(t, sb.String())
	e.SetViewSize(20, 11)
	assert.Equal(t, 10, e.Viewport().Height)

	e.Move(MoveDocEnd, false)
	v := e.Viewport()
	assert.True(t, v.Top <= 39 && 39 < v.Top+v.Height, "caret line off screen: %+v", v)
}
