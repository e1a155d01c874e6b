// Package core is the composer's editing surface: the owned document, the
// selection, the viewport and every command that records history.
package core

import (
	"errors"
	"fmt"

	"github.com/bethropolis/composer/internal/config"
	"github.com/bethropolis/composer/internal/core/clipboard"
	"github.com/bethropolis/composer/internal/core/find"
	"github.com/bethropolis/composer/internal/core/highlight"
	"github.com/bethropolis/composer/internal/core/history"
	"github.com/bethropolis/composer/internal/core/selection"
	"github.com/bethropolis/composer/internal/dom"
	"github.com/bethropolis/composer/internal/event"
	"github.com/bethropolis/composer/internal/layout"
	"github.com/bethropolis/composer/internal/logger"
	"github.com/bethropolis/composer/internal/types"
	"golang.org/x/net/html"
)

var (
	// ErrReadOnly is returned by editing commands on a read-only editor.
	ErrReadOnly = errors.New("core: editor is read-only")
	// ErrNoSelection is returned when the selection cannot be resolved.
	ErrNoSelection = errors.New("core: selection cannot be resolved")
	// ErrUnsupported is returned for edits the document shape does not allow.
	ErrUnsupported = errors.New("core: edit not supported here")
)

// Options are the editor settings taken from the configuration.
type Options struct {
	HistorySize     int
	WrapWidth       int
	ScrollOff       int
	MagicLinks      bool
	MagicSmileys    bool
	SystemClipboard bool
}

// DefaultOptions returns the settings used without a config file.
func DefaultOptions() Options {
	return Options{
		HistorySize:     config.DefaultHistorySize,
		WrapWidth:       config.DefaultWrapWidth,
		ScrollOff:       config.DefaultScrollOff,
		MagicLinks:      true,
		MagicSmileys:    true,
		SystemClipboard: false,
	}
}

// OptionsFromConfig maps the [editor] and [history] sections to Options.
func OptionsFromConfig(cfg *config.Config) Options {
	opts := DefaultOptions()
	if cfg == nil {
		return opts
	}
	opts.HistorySize = cfg.History.Size
	opts.WrapWidth = cfg.Editor.WrapWidth
	opts.ScrollOff = cfg.Editor.ScrollOff
	opts.MagicLinks = cfg.Editor.MagicLinks
	opts.MagicSmileys = cfg.Editor.MagicSmileys
	opts.SystemClipboard = cfg.Editor.SystemClipboard
	return opts
}

// Editor owns the document and its selection.
type Editor struct {
	doc  *html.Node
	body *html.Node
	lay  *layout.Layout

	view      types.Viewport
	scrollOff int
	opts      Options
	readOnly  bool

	eventManager     *event.Manager
	selectionManager *selection.Manager
	historyManager   *history.Manager
	findManager      *find.Manager
	clipboardManager *clipboard.Manager
	highlightManager *highlight.Manager
}

// NewEditor creates an editor holding an empty document.
func NewEditor(opts Options) *Editor {
	if opts.WrapWidth <= 0 {
		opts.WrapWidth = config.DefaultWrapWidth
	}
	e := &Editor{
		opts:      opts,
		scrollOff: opts.ScrollOff,
	}
	e.selectionManager = selection.NewManager(e)
	e.historyManager = history.NewManager(e, opts.HistorySize)
	e.findManager = find.NewManager(e)
	e.clipboardManager = clipboard.NewManager(e, opts.SystemClipboard)
	e.highlightManager = highlight.NewManager(e)

	e.doc = dom.NewDocument()
	e.body = dom.Body(e.doc)
	e.Changed()
	e.selectionManager.Collapse(e.lay.Start())
	return e
}

// SetEventManager sets the event manager for dispatching events
func (e *Editor) SetEventManager(mgr *event.Manager) {
	e.eventManager = mgr
}

// GetEventManager returns the event bus, possibly nil.
func (e *Editor) GetEventManager() *event.Manager {
	return e.eventManager
}

// GetHistoryManager returns the undo/redo manager.
func (e *Editor) GetHistoryManager() *history.Manager {
	return e.historyManager
}

// GetFindManager returns the find manager.
func (e *Editor) GetFindManager() *find.Manager {
	return e.findManager
}

// GetHighlightManager returns the source view highlighter.
func (e *Editor) GetHighlightManager() *highlight.Manager {
	return e.highlightManager
}

// Options returns the editor settings.
func (e *Editor) Options() Options {
	return e.opts
}

// SetReadOnly toggles whether editing commands are refused.
func (e *Editor) SetReadOnly(ro bool) {
	e.readOnly = ro
}

// ReadOnly reports whether editing commands are refused.
func (e *Editor) ReadOnly() bool {
	return e.readOnly
}

func (e *Editor) editable() error {
	if e.readOnly {
		return ErrReadOnly
	}
	return nil
}

// Document returns the whole document node.
func (e *Editor) Document() *html.Node {
	return e.doc
}

// Body returns the body element.
func (e *Editor) Body() *html.Node {
	return e.body
}

// Layout returns the current layout.
func (e *Editor) Layout() *layout.Layout {
	return e.lay
}

// Viewport returns the visible window.
func (e *Editor) Viewport() types.Viewport {
	return e.view
}

// SetViewport moves the visible window.
func (e *Editor) SetViewport(v types.Viewport) {
	e.view = v
}

// ScrollOff returns the number of context lines kept around the caret.
func (e *Editor) ScrollOff() int {
	return e.scrollOff
}

// SetViewSize updates the viewport size. Called on resize or before drawing.
func (e *Editor) SetViewSize(width, height int) {
	e.view.Width = width
	if height > config.StatusBarHeight {
		e.view.Height = height - config.StatusBarHeight
	} else {
		e.view.Height = 0
	}
	e.scrollOff = e.opts.ScrollOff
	if e.scrollOff*2 >= e.view.Height && e.view.Height > 0 {
		e.scrollOff = (e.view.Height - 1) / 2
	}
	e.ScrollToCaret()
}

// ScrollToCaret moves the viewport so that the caret is visible.
func (e *Editor) ScrollToCaret() {
	e.view = e.view.ScrollTo(e.selectionManager.Head(), e.scrollOff)
}

// Selection returns the current selection as points.
func (e *Editor) Selection() types.SelectionState {
	return e.selectionManager.State()
}

// Caret returns the point where the caret is drawn.
func (e *Editor) Caret() types.Point {
	return e.selectionManager.Head()
}

// HasSelection reports whether the selection is not a caret.
func (e *Editor) HasSelection() bool {
	return e.selectionManager.HasSelection()
}

// RestoreSelection installs st and resolves it against the document.
func (e *Editor) RestoreSelection(st types.SelectionState) (dom.Range, bool) {
	return e.selectionManager.Restore(st)
}

// Changed normalizes the document and rebuilds the layout.
func (e *Editor) Changed() {
	dom.Normalize(e.body)
	e.lay = layout.Build(e.body)
	if e.highlightManager != nil {
		e.highlightManager.Invalidate()
	}
}

// LoadHTML replaces the document and forgets the history.
func (e *Editor) LoadHTML(src, source string) error {
	doc, err := dom.Parse(src)
	if err != nil {
		return fmt.Errorf("loading %s: %w", source, err)
	}
	e.doc = doc
	e.body = dom.Body(doc)
	e.Changed()
	e.view.Top, e.view.Left = 0, 0
	e.selectionManager.Collapse(e.lay.Start())
	e.findManager.ClearHighlights()
	e.historyManager.CleanHistory()

	logger.DebugTagf("core", "loaded document from %s (%d lines)", source, len(e.lay.Lines))
	if e.eventManager != nil {
		e.eventManager.Dispatch(event.TypeDocumentLoaded, event.DocumentLoadedData{Source: source})
	}
	return nil
}

// HTML serializes the whole document.
func (e *Editor) HTML() string {
	return dom.Render(e.doc)
}

// BodyHTML serializes the content of the body.
func (e *Editor) BodyHTML() string {
	return dom.InnerHTML(e.body)
}

// SourceHTML renders the body for the source view, one block per line.
func (e *Editor) SourceHTML() string {
	return dom.Pretty(e.body)
}

// Text renders the document as plain text the way it is laid out.
func (e *Editor) Text() string {
	return e.lay.String()
}

// modified announces that a command changed the document.
// Commands replayed by undo or redo stay quiet; Undo and Redo announce
// the change once themselves.
func (e *Editor) modified(command string) {
	logger.DebugTagf("core", "%s: selection now %v", command, e.Selection())
	if e.eventManager != nil && !e.replaying() {
		e.eventManager.Dispatch(event.TypeDocumentModified, event.DocumentModifiedData{Command: command})
	}
}

// record adds an event ending at the current selection.
func (e *Editor) record(t history.Type, before types.SelectionState, data history.Data) *history.Event {
	ev := history.NewEvent(t, before, e.Selection(), data)
	e.historyManager.InsertHistoryEvent(ev)
	return ev
}

// replaying reports whether history is driving the current command.
func (e *Editor) replaying() bool {
	return e.historyManager.OperationInProgress()
}
