// Package app wires the editor, the terminal UI, plugins and the draft
// store into the running composer.
package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/bethropolis/composer/internal/commands"
	"github.com/bethropolis/composer/internal/config"
	"github.com/bethropolis/composer/internal/core"
	"github.com/bethropolis/composer/internal/event"
	"github.com/bethropolis/composer/internal/highlighter"
	"github.com/bethropolis/composer/internal/highlighter/lang"
	"github.com/bethropolis/composer/internal/input"
	"github.com/bethropolis/composer/internal/logger"
	"github.com/bethropolis/composer/internal/mail"
	"github.com/bethropolis/composer/internal/modehandler"
	"github.com/bethropolis/composer/internal/plugin"
	"github.com/bethropolis/composer/internal/statusbar"
	"github.com/bethropolis/composer/internal/store"
	"github.com/bethropolis/composer/internal/theme"
	"github.com/bethropolis/composer/internal/tui"
	"github.com/bethropolis/composer/internal/types"
	"github.com/gdamore/tcell/v2"
	"golang.org/x/net/html"
)

// Document is the message the composer opens with.
type Document struct {
	Name     string // shown in the status bar
	HTML     string
	Subject  string
	To       []string
	DraftID  string // set when the document came from the draft store
	ReadOnly bool
}

// App encapsulates the core components and main loop of the composer.
type App struct {
	cfg           *config.Config
	tuiManager    *tui.TUI
	editor        *core.Editor
	statusBar     *statusbar.StatusBar
	eventManager  *event.Manager
	pluginManager *plugin.Manager
	modeHandler   *modehandler.ModeHandler
	commands      *commands.Registry
	themeManager  *theme.Manager
	editorAPI     *appEditorAPI
	drafts        store.Store

	doc      Document
	modified bool

	sourceView bool
	sourceTop  int

	mouseDown bool
	pasting   bool
	pasteBuf  strings.Builder

	quit chan struct{}
}

// NewApp creates the composer on the terminal.
func NewApp(cfg *config.Config, doc Document, drafts store.Store) (*App, error) {
	tuiManager, err := tui.New()
	if err != nil {
		return nil, fmt.Errorf("TUI initialization failed: %w", err)
	}
	a, err := newApp(cfg, doc, drafts, tuiManager)
	if err != nil {
		tuiManager.Close()
		return nil, err
	}
	return a, nil
}

// NewAppWithScreen creates the composer on an existing screen.
func NewAppWithScreen(cfg *config.Config, doc Document, drafts store.Store, screen tcell.Screen) (*App, error) {
	tuiManager, err := tui.NewWithScreen(screen)
	if err != nil {
		return nil, fmt.Errorf("TUI initialization failed: %w", err)
	}
	return newApp(cfg, doc, drafts, tuiManager)
}

func newApp(cfg *config.Config, doc Document, drafts store.Store, tuiManager *tui.TUI) (*App, error) {
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}
	editor := core.NewEditor(core.OptionsFromConfig(cfg))
	eventManager := event.NewManager()
	editor.SetEventManager(eventManager)
	editor.SetReadOnly(doc.ReadOnly)

	highlighter.RegisterLanguages()
	editor.GetHighlightManager().SetHighlighter(highlighter.NewHighlighter(), lang.GetByName("html"))

	themesDir := ""
	if dir, err := config.Dir(); err == nil {
		themesDir = filepath.Join(dir, config.ThemesDirName)
	}
	themeManager := theme.NewManager(themesDir)
	if cfg.Editor.Theme != "" {
		if err := themeManager.SetTheme(cfg.Editor.Theme); err != nil {
			logger.Warnf("App: %v, using %s", err, themeManager.Current().Name)
		}
	}

	a := &App{
		cfg:           cfg,
		tuiManager:    tuiManager,
		editor:        editor,
		statusBar:     statusbar.New(statusbar.Config{MessageTimeout: config.MessageTimeout}),
		eventManager:  eventManager,
		pluginManager: plugin.NewManager(),
		commands:      commands.NewRegistry(),
		themeManager:  themeManager,
		drafts:        drafts,
		doc:           doc,
		quit:          make(chan struct{}),
	}
	a.editorAPI = newEditorAPI(a)

	a.modeHandler = modehandler.New(modehandler.Config{
		Editor:         editor,
		InputProcessor: input.NewInputProcessor(),
		EventManager:   eventManager,
		StatusBar:      a.statusBar,
		Commands:       a.commands,
		QuitSignal:     a.quit,
		IsModified:     func() bool { return a.modified },
		SaveDraft: func() error {
			_, err := a.SaveDraft()
			return err
		},
		ToggleSource:  a.toggleSource,
		RequestRedraw: a.requestRedraw,
		LeaderTimeout: config.LeaderTimeout,
	})

	a.subscribeEvents()

	if doc.HTML != "" {
		if err := editor.LoadHTML(doc.HTML, doc.Name); err != nil {
			return nil, err
		}
	}
	a.modified = false

	commands.RegisterEditorCommands(a.commands, editor, a.SetStatusMessage)
	commands.RegisterThemeCommands(a.commands, a.editorAPI)
	a.registerAppCommands()

	if err := registerPlugins(a.pluginManager, cfg); err != nil {
		logger.Warnf("App: %v", err)
	}
	a.pluginManager.InitializePlugins(a.editorAPI)

	width, height := tuiManager.Size()
	editor.SetViewSize(width, height)
	return a, nil
}

// Run starts the main loop and returns when the user quits.
func (a *App) Run() error {
	defer a.tuiManager.Close()
	defer a.pluginManager.ShutdownPlugins()

	a.eventManager.Dispatch(event.TypeAppReady, event.AppReadyData{})
	a.statusBar.SetTemporaryMessage("Ctrl+O command | Ctrl+K leader | Ctrl+S save draft | Esc quit")
	a.drawEditor()

	for {
		ev := a.tuiManager.PollEvent()
		if ev == nil {
			return nil
		}
		redraw := a.handleEvent(ev)

		select {
		case <-a.quit:
			a.eventManager.Dispatch(event.TypeAppQuit, event.AppQuitData{})
			if a.modified {
				logger.Warnf("Exited with unsaved changes.")
			}
			logger.Infof("Exiting composer.")
			return nil
		default:
		}
		if redraw {
			a.drawEditor()
		}
	}
}

// handleEvent processes one terminal event and reports whether the screen
// must be redrawn.
func (a *App) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.tuiManager.GetScreen().Sync()
		w, h := a.tuiManager.Size()
		a.editor.SetViewSize(w, h)
		return true

	case *tcell.EventPaste:
		if ev.Start() {
			a.pasting = true
			a.pasteBuf.Reset()
			return false
		}
		a.pasting = false
		return a.modeHandler.HandlePaste(a.pasteBuf.String())

	case *tcell.EventKey:
		if a.pasting {
			a.collectPaste(ev)
			return false
		}
		if a.sourceView {
			return a.handleSourceKey(ev)
		}
		return a.modeHandler.HandleKeyEvent(ev)

	case *tcell.EventMouse:
		return a.handleMouse(ev)

	case *tcell.EventInterrupt:
		if fn, ok := ev.Data().(func()); ok && fn != nil {
			fn()
		}
		return true
	}
	return false
}

func (a *App) collectPaste(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyRune:
		a.pasteBuf.WriteRune(ev.Rune())
	case tcell.KeyEnter, tcell.KeyLF:
		a.pasteBuf.WriteByte('\n')
	case tcell.KeyTab:
		a.pasteBuf.WriteByte('\t')
	}
}

func (a *App) handleMouse(ev *tcell.EventMouse) bool {
	if a.sourceView {
		switch ev.Buttons() {
		case tcell.WheelUp:
			a.scrollSource(-3)
		case tcell.WheelDown:
			a.scrollSource(3)
		default:
			return false
		}
		return true
	}

	x, y := ev.Position()
	view := a.editor.Viewport()
	switch btn := ev.Buttons(); {
	case btn&tcell.Button1 != 0:
		if y >= view.Height {
			return false
		}
		p := view.FromScreen(types.Point{X: x, Y: y})
		a.editor.MoveTo(p, a.mouseDown || ev.Modifiers()&tcell.ModShift != 0)
		a.mouseDown = true
	case btn&tcell.WheelUp != 0:
		a.scrollDocument(-3)
		a.mouseDown = false
	case btn&tcell.WheelDown != 0:
		a.scrollDocument(3)
		a.mouseDown = false
	default:
		a.mouseDown = false
		return false
	}
	return true
}

func (a *App) scrollDocument(delta int) {
	v := a.editor.Viewport()
	v.Top += delta
	if max := len(a.editor.Layout().Lines) - 1; v.Top > max {
		v.Top = max
	}
	if v.Top < 0 {
		v.Top = 0
	}
	a.editor.SetViewport(v)
}

func (a *App) toggleSource() {
	a.sourceView = !a.sourceView
	a.sourceTop = 0
	if a.sourceView {
		a.statusBar.SetTemporaryMessage("HTML source (read-only), F2 or Esc to return")
	}
}

func (a *App) handleSourceKey(ev *tcell.EventKey) bool {
	_, h := a.tuiManager.Size()
	page := h - config.StatusBarHeight
	switch ev.Key() {
	case tcell.KeyF2, tcell.KeyEscape:
		a.toggleSource()
	case tcell.KeyUp:
		a.scrollSource(-1)
	case tcell.KeyDown:
		a.scrollSource(1)
	case tcell.KeyPgUp:
		a.scrollSource(-page)
	case tcell.KeyPgDn:
		a.scrollSource(page)
	case tcell.KeyHome:
		a.sourceTop = 0
	case tcell.KeyCtrlQ:
		return a.modeHandler.HandleKeyEvent(ev)
	default:
		return false
	}
	return true
}

func (a *App) scrollSource(delta int) {
	a.sourceTop += delta
	if max := len(a.editor.GetHighlightManager().Lines()) - 1; a.sourceTop > max {
		a.sourceTop = max
	}
	if a.sourceTop < 0 {
		a.sourceTop = 0
	}
}

// IsModified reports changes since the document was loaded or saved.
func (a *App) IsModified() bool {
	return a.modified
}

// Editor returns the composer's editor.
func (a *App) Editor() *core.Editor {
	return a.editor
}

// subject is the draft subject: the configured one, or the first line of
// the text.
func (a *App) subject() string {
	if a.doc.Subject != "" {
		return a.doc.Subject
	}
	first, _, _ := strings.Cut(strings.TrimSpace(a.editor.Text()), "\n")
	first = strings.TrimLeft(first, "> ")
	if r := []rune(first); len(r) > 60 {
		first = string(r[:60])
	}
	return first
}

// SaveDraft writes the document to the draft store, reusing the draft id
// of earlier saves.
func (a *App) SaveDraft() (*store.Draft, error) {
	if a.drafts == nil {
		return nil, fmt.Errorf("no draft store configured")
	}
	d := &store.Draft{
		ID:      a.doc.DraftID,
		Subject: a.subject(),
		HTML:    a.editor.BodyHTML(),
		Text:    a.editor.Text(),
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.drafts.SaveDraft(ctx, d); err != nil {
		return nil, err
	}
	a.doc.DraftID = d.ID
	a.eventManager.Dispatch(event.TypeDraftSaved, event.DraftSavedData{ID: d.ID})
	return d, nil
}

// BuildMessage turns the editor's document into a message ready to be
// written out.
func BuildMessage(e *core.Editor, cfg *config.Config, subject string, to []string) *mail.Message {
	msg := &mail.Message{
		To:      to,
		Subject: subject,
		Date:    time.Now(),
		Text:    e.Text(),
	}
	if cfg != nil {
		msg.From = cfg.Mail.From
		if cfg.Editor.HTMLMode {
			msg.HTML = e.HTML()
		}
	}
	return msg
}

// TextToHTML converts plain text to one paragraph per line.
func TextToHTML(text string) string {
	var sb strings.Builder
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			sb.WriteString("<p><br></p>")
			continue
		}
		sb.WriteString("<p>")
		sb.WriteString(html.EscapeString(line))
		sb.WriteString("</p>")
	}
	return sb.String()
}
