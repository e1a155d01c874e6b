// Package modehandler turns decoded key actions into editor operations,
// switching between normal typing, the command line and incremental find.
package modehandler

import (
	"sync"
	"time"

	"github.com/bethropolis/composer/internal/commands"
	"github.com/bethropolis/composer/internal/core"
	"github.com/bethropolis/composer/internal/core/find"
	"github.com/bethropolis/composer/internal/event"
	"github.com/bethropolis/composer/internal/input"
	"github.com/bethropolis/composer/internal/logger"
	"github.com/bethropolis/composer/internal/statusbar"
	"github.com/gdamore/tcell/v2"
)

// InputMode defines the different states for user input.
type InputMode int

const (
	ModeNormal InputMode = iota
	ModeCommand
	ModeFind
)

func (m InputMode) String() string {
	switch m {
	case ModeCommand:
		return "COMMAND"
	case ModeFind:
		return "FIND"
	}
	return ""
}

// ModeHandler manages input modes, command execution and related state.
type ModeHandler struct {
	editor         *core.Editor
	inputProcessor *input.InputProcessor
	eventManager   *event.Manager
	statusBar      *statusbar.StatusBar
	commands       *commands.Registry
	quitSignal     chan<- struct{}
	quitOnce       sync.Once

	isModified    func() bool
	saveDraft     func() error
	toggleSource  func()
	requestRedraw func()

	currentMode      InputMode
	cmdBuffer        []rune
	findBuffer       []rune
	findOpts         find.Options
	forceQuitPending bool

	leaderMu      sync.Mutex
	leaderWaiting bool
	leaderTimer   *time.Timer
	leaderTimeout time.Duration
}

// Config holds dependencies for the ModeHandler.
type Config struct {
	Editor         *core.Editor
	InputProcessor *input.InputProcessor
	EventManager   *event.Manager
	StatusBar      *statusbar.StatusBar
	Commands       *commands.Registry
	QuitSignal     chan<- struct{}

	// IsModified reports unsaved changes; quitting then needs confirmation.
	IsModified func() bool
	// SaveDraft stores the document in the draft store.
	SaveDraft func() error
	// ToggleSource switches between the document and its HTML source.
	ToggleSource func()
	// RequestRedraw is called from the leader timer goroutine.
	RequestRedraw func()
	LeaderTimeout time.Duration
}

// New creates a new ModeHandler.
func New(cfg Config) *ModeHandler {
	if cfg.Editor == nil || cfg.InputProcessor == nil || cfg.EventManager == nil ||
		cfg.StatusBar == nil || cfg.Commands == nil || cfg.QuitSignal == nil {
		panic("modehandler.New: missing required dependencies in Config")
	}
	mh := &ModeHandler{
		editor:         cfg.Editor,
		inputProcessor: cfg.InputProcessor,
		eventManager:   cfg.EventManager,
		statusBar:      cfg.StatusBar,
		commands:       cfg.Commands,
		quitSignal:     cfg.QuitSignal,
		isModified:     cfg.IsModified,
		saveDraft:      cfg.SaveDraft,
		toggleSource:   cfg.ToggleSource,
		requestRedraw:  cfg.RequestRedraw,
		leaderTimeout:  cfg.LeaderTimeout,
		currentMode:    ModeNormal,
	}
	if mh.isModified == nil {
		mh.isModified = func() bool { return false }
	}
	if mh.requestRedraw == nil {
		mh.requestRedraw = func() {}
	}
	if mh.leaderTimeout <= 0 {
		mh.leaderTimeout = 1500 * time.Millisecond
	}
	return mh
}

// HandleKeyEvent decides what to do based on current mode and key event.
// It reports whether the screen needs a redraw. A key consumed by a
// TypeKeyPressed subscriber is not handled further.
func (mh *ModeHandler) HandleKeyEvent(ev *tcell.EventKey) bool {
	if mh.eventManager.Dispatch(event.TypeKeyPressed, event.KeyPressedData{KeyEvent: ev}) {
		return true
	}

	if mh.takeLeader() {
		actionEvent := mh.inputProcessor.ProcessLeader(ev)
		if actionEvent.Action == input.ActionUnknown {
			mh.statusBar.SetTemporaryMessage("No leader binding for %s", ev.Name())
			return true
		}
		return mh.handleActionNormal(actionEvent)
	}

	actionEvent := mh.inputProcessor.ProcessEvent(ev)
	switch mh.currentMode {
	case ModeNormal:
		return mh.handleActionNormal(actionEvent)
	case ModeCommand:
		return mh.handleActionCommand(actionEvent)
	case ModeFind:
		return mh.handleActionFind(actionEvent)
	default:
		logger.Warnf("ModeHandler: unknown input mode %d", mh.currentMode)
		return false
	}
}

// HandlePaste inserts text delivered by a bracketed paste.
func (mh *ModeHandler) HandlePaste(text string) bool {
	switch mh.currentMode {
	case ModeCommand:
		mh.cmdBuffer = append(mh.cmdBuffer, []rune(text)...)
		return true
	case ModeFind:
		mh.findBuffer = append(mh.findBuffer, []rune(text)...)
		mh.updateIncrementalFind()
		return true
	}
	if err := mh.editor.PasteAsText(text); err != nil {
		mh.statusBar.SetTemporaryMessage("Paste failed: %v", err)
	}
	return true
}

// GetCurrentMode returns the current input mode.
func (mh *ModeHandler) GetCurrentMode() InputMode {
	return mh.currentMode
}

// Prompt returns the command or find line being typed, or "".
func (mh *ModeHandler) Prompt() string {
	switch mh.currentMode {
	case ModeCommand:
		return ":" + string(mh.cmdBuffer)
	case ModeFind:
		return "/" + string(mh.findBuffer)
	}
	return ""
}

// LeaderPending reports whether the leader key is waiting for its second key.
func (mh *ModeHandler) LeaderPending() bool {
	mh.leaderMu.Lock()
	defer mh.leaderMu.Unlock()
	return mh.leaderWaiting
}

func (mh *ModeHandler) quit() {
	mh.quitOnce.Do(func() { close(mh.quitSignal) })
}
