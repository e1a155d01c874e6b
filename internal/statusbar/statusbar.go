// Package statusbar draws the composer's bottom line: document state,
// caret, formatting at the caret and temporary messages.
package statusbar

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bethropolis/composer/internal/theme"
	"github.com/bethropolis/composer/internal/types"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"
)

// Config defines the behaviour of the status bar.
type Config struct {
	MessageTimeout time.Duration
}

// DefaultConfig provides sensible defaults.
func DefaultConfig() Config {
	return Config{MessageTimeout: 4 * time.Second}
}

// Format is the formatting at the caret, shown on the right.
type Format struct {
	Bold, Italic, Underline, Strike, Mono bool
	Block                                 string
	Align                                 string
	Size                                  int
}

func (f Format) String() string {
	var sb strings.Builder
	flag := func(on bool, c byte) {
		if on {
			sb.WriteByte(c)
		} else {
			sb.WriteByte('-')
		}
	}
	flag(f.Bold, 'B')
	flag(f.Italic, 'I')
	flag(f.Underline, 'U')
	flag(f.Strike, 'S')
	flag(f.Mono, 'M')
	fmt.Fprintf(&sb, " %s %s", f.Block, f.Align)
	if f.Size != 0 {
		fmt.Fprintf(&sb, " size %d", f.Size)
	}
	return sb.String()
}

// StatusBar is the UI component for the status line.
type StatusBar struct {
	config Config
	mu     sync.RWMutex

	name       string
	caret      types.Point
	isModified bool
	readOnly   bool
	editorMode string
	format     Format
	canUndo    bool
	canRedo    bool

	tempMessage     string
	tempMessageTime time.Time
}

// New creates a status bar.
func New(config Config) *StatusBar {
	return &StatusBar{config: config}
}

// SetDocumentInfo updates the document name and state flags.
func (sb *StatusBar) SetDocumentInfo(name string, modified, readOnly bool) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.name = name
	sb.isModified = modified
	sb.readOnly = readOnly
}

// SetCaretInfo updates the caret position shown.
func (sb *StatusBar) SetCaretInfo(p types.Point) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.caret = p
}

// SetEditorMode updates the displayed input mode.
func (sb *StatusBar) SetEditorMode(mode string) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.editorMode = mode
}

// SetFormat updates the formatting shown for the caret.
func (sb *StatusBar) SetFormat(f Format) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.format = f
}

// SetHistoryInfo updates the undo and redo indicators.
func (sb *StatusBar) SetHistoryInfo(canUndo, canRedo bool) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.canUndo = canUndo
	sb.canRedo = canRedo
}

// SetTemporaryMessage displays a message for the configured duration.
func (sb *StatusBar) SetTemporaryMessage(format string, args ...interface{}) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.tempMessage = fmt.Sprintf(format, args...)
	sb.tempMessageTime = time.Now()
}

// ResetTemporaryMessage clears the temporary message.
func (sb *StatusBar) ResetTemporaryMessage() {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.tempMessage = ""
	sb.tempMessageTime = time.Time{}
}

// Message returns the active temporary message, if any.
func (sb *StatusBar) Message() string {
	sb.mu.RLock()
	defer sb.mu.RUnlock()
	if sb.tempMessageTime.IsZero() || time.Since(sb.tempMessageTime) > sb.config.MessageTimeout {
		return ""
	}
	return sb.tempMessage
}

// Text builds the default status line as left and right parts.
func (sb *StatusBar) Text() (left, right string) {
	sb.mu.RLock()
	defer sb.mu.RUnlock()

	name := sb.name
	if name == "" {
		name = "[New Message]"
	}
	var flags []string
	if sb.isModified {
		flags = append(flags, "[Modified]")
	}
	if sb.readOnly {
		flags = append(flags, "[RO]")
	}
	left = name
	if len(flags) > 0 {
		left += " " + strings.Join(flags, " ")
	}
	left += fmt.Sprintf(" -- Line: %d, Col: %d", sb.caret.Y+1, sb.caret.X+1)
	if sb.editorMode != "" {
		left += " -- " + sb.editorMode
	}

	hist := ""
	if sb.canUndo {
		hist += "u"
	}
	if sb.canRedo {
		hist += "r"
	}
	right = sb.format.String()
	if hist != "" {
		right = "[" + hist + "] " + right
	}
	return left, right
}

// Draw renders the status bar on the last screen line.
func (sb *StatusBar) Draw(screen tcell.Screen, width, height int, th *theme.Theme) {
	if height <= 0 || width <= 0 {
		return
	}
	if th == nil {
		th = theme.GetCurrentTheme()
	}
	y := height - 1

	msg := sb.Message()
	style := th.GetStyle("StatusBar")
	var left, right string
	switch {
	case msg != "" && (msg[0] == '/' || msg[0] == ':'):
		style = th.GetStyle("StatusBarFind")
		left = msg
	case msg != "":
		style = th.GetStyle("StatusBarMessage")
		left = msg
	default:
		left, right = sb.Text()
	}

	for x := 0; x < width; x++ {
		screen.SetContent(x, y, ' ', nil, style)
	}
	end := drawText(screen, 0, y, width, left, style)

	if right != "" {
		rw := uniseg.StringWidth(right)
		if x := width - rw; x > end+1 {
			drawText(screen, x, y, width, right, th.GetStyle("StatusBarFormat"))
		}
	}
}

// drawText draws text from x and returns the column after it.
func drawText(screen tcell.Screen, x, y, width int, text string, style tcell.Style) int {
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		w := gr.Width()
		if x+w > width {
			break
		}
		runes := gr.Runes()
		screen.SetContent(x, y, runes[0], runes[1:], style)
		x += w
	}
	return x
}
