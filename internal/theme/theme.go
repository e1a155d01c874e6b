// Package theme maps style names to tcell styles for the document view,
// the HTML source view and the status bar.
package theme

import (
	"strings"

	"github.com/bethropolis/composer/internal/logger"
	"github.com/gdamore/tcell/v2"
)

// Theme is a named set of styles.
type Theme struct {
	Name   string
	IsDark bool
	Styles map[string]tcell.Style
}

// GetStyle returns the style for name, falling back to the part before the
// first dot and then to "Default".
func (t *Theme) GetStyle(name string) tcell.Style {
	if style, ok := t.Styles[name]; ok {
		return style
	}

	if dotIndex := strings.Index(name, "."); dotIndex != -1 {
		if style, ok := t.Styles[name[:dotIndex]]; ok {
			return style
		}
	}

	if defStyle, ok := t.Styles["Default"]; ok {
		if name != "Default" {
			logger.DebugTagf("theme", "Theme '%s': Style '%s' not found, falling back to 'Default'", t.Name, name)
		}
		return defStyle
	}

	logger.Warnf("Theme '%s': Style '%s' and 'Default' style not found, using tcell default.", t.Name, name)
	return tcell.StyleDefault
}

// ComposerDark is the built-in theme.
var ComposerDark Theme

func init() {
	background := tcell.NewHexColor(0x2a2f38)
	foreground := tcell.NewHexColor(0xc5cdd9)
	muted := tcell.NewHexColor(0x5c6370)
	orange := tcell.NewHexColor(0xd19a66)
	yellow := tcell.NewHexColor(0xe5c07b)
	green := tcell.NewHexColor(0x98c379)
	cyan := tcell.NewHexColor(0x56b6c2)
	blue := tcell.NewHexColor(0x61afef)
	magenta := tcell.NewHexColor(0xc678dd)
	red := tcell.NewHexColor(0xe06c75)

	base := tcell.StyleDefault.Background(tcell.ColorReset).Foreground(foreground)

	ComposerDark = Theme{
		Name:   "Composer Dark",
		IsDark: true,
		Styles: map[string]tcell.Style{
			// UI
			"Default":           base,
			"Selection":         base.Reverse(true),
			"SearchHighlight":   tcell.StyleDefault.Background(tcell.ColorOrange).Foreground(tcell.ColorBlack),
			"StatusBar":         tcell.StyleDefault.Background(background).Foreground(foreground),
			"StatusBarModified": tcell.StyleDefault.Background(background).Foreground(yellow),
			"StatusBarMessage":  tcell.StyleDefault.Background(background).Foreground(foreground).Bold(true),
			"StatusBarFind":     tcell.StyleDefault.Background(background).Foreground(green).Bold(true),
			"StatusBarFormat":   tcell.StyleDefault.Background(background).Foreground(cyan),

			// Document
			"Prefix":    base.Foreground(muted),
			"Quote":     base.Foreground(green),
			"Quote.2":   base.Foreground(cyan),
			"Quote.3":   base.Foreground(magenta),
			"Link":      base.Foreground(blue).Underline(true),
			"Heading":   base.Foreground(yellow).Bold(true),
			"Pre":       base.Foreground(orange),
			"Monospace": base.Foreground(orange),
			"Smiley":    base,
			"Image":     base.Foreground(magenta),
			"Rule":      base.Foreground(muted),
			"Cell":      base,

			// HTML source view
			"tag":                 base.Foreground(blue).Bold(true),
			"attribute":           base.Foreground(yellow),
			"string":              base.Foreground(green),
			"comment":             base.Foreground(muted).Italic(true),
			"constant":            base.Foreground(orange),
			"error":               base.Foreground(red).Bold(true),
			"operator":            base.Foreground(foreground),
			"punctuation":         base.Foreground(muted),
			"punctuation.bracket": base.Foreground(muted),
		},
	}

	CurrentTheme = &ComposerDark
}

// CurrentTheme is the active theme for code that has no manager at hand.
var CurrentTheme *Theme

// GetCurrentTheme returns the active theme.
func GetCurrentTheme() *Theme {
	if CurrentTheme == nil {
		CurrentTheme = &ComposerDark
	}
	return CurrentTheme
}

// SetCurrentTheme makes theme the active one.
func SetCurrentTheme(theme *Theme) {
	if theme != nil {
		CurrentTheme = theme
		logger.Infof("Theme switched to: %s", theme.Name)
	}
}
