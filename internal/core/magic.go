package core

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/bethropolis/composer/internal/core/history"
	"github.com/bethropolis/composer/internal/dom"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// smiley is a text code and the emoji that replaces it.
type smiley struct {
	code  string
	emoji string
}

// smileys is ordered so that longer codes are tried first.
var smileys = []smiley{
	{":-)", "🙂"},
	{";-)", "😉"},
	{":-(", "🙁"},
	{":-D", "😀"},
	{":-P", "😛"},
	{":-O", "😮"},
	{":)", "🙂"},
	{"<3", "❤️"},
}

// SmileyFor returns the emoji for a smiley code.
func SmileyFor(code string) (string, bool) {
	for _, s := range smileys {
		if s.code == code {
			return s.emoji, true
		}
	}
	return "", false
}

func newSmiley(code, emoji string) *html.Node {
	span := dom.NewElement(atom.Span,
		html.Attribute{Key: "class", Val: dom.ClassSmileyWrapper},
		html.Attribute{Key: dom.AttrSmiley, Val: code},
	)
	span.AppendChild(dom.NewText(emoji))
	return span
}

func isSpace(r rune) bool {
	return unicode.IsSpace(r) || r == ' '
}

// magicSmiley turns a smiley code just typed before the caret into an
// emoji and records the replacement.
func (e *Editor) magicSmiley() {
	if !e.opts.MagicSmileys {
		return
	}
	r, err := e.selectedRange()
	if err != nil || !r.Collapsed() {
		return
	}
	t := dom.NodeBefore(r.Start)
	if !dom.IsText(t) || dom.Closest(t, func(n *html.Node) bool { return dom.IsElement(n, atom.A, atom.Pre) }) != nil {
		return
	}
	off := dom.NodeLen(t)
	if r.Start.Node == t {
		off = r.Start.Offset
	}
	typed := string([]rune(t.Data)[:off])

	for _, s := range smileys {
		if !strings.HasSuffix(typed, s.code) {
			continue
		}
		prefix := strings.TrimSuffix(typed, s.code)
		if last := []rune(strings.TrimRight(prefix, dom.ZWSP)); len(last) > 0 && !isSpace(last[len(last)-1]) {
			return
		}

		before := e.Selection()
		dom.SplitText(t, off)
		t.Data = prefix
		span := newSmiley(s.code, s.emoji)
		m := dom.NewMarker(dom.StartMarkerID)
		dom.InsertAfter(t, span)
		dom.InsertAfter(span, m)
		e.settle(m, nil)

		e.record(history.Smiley, before, &history.FragmentData{
			Fragment: dom.NewFragment(dom.Clone(span)),
			Magic:    true,
			Text:     s.code,
		})
		e.modified("smiley")
		return
	}
}

var linkPattern = regexp.MustCompile(`(?:https?://|www\.|mailto:)[^\s<>"]+`)

// linkify wraps the complete links in leaf's text into anchors. A link
// ending the block counts as complete only when atEnd is set.
func (e *Editor) linkify(leaf *html.Node, atEnd bool) {
	if leaf == nil || dom.IsElement(leaf, atom.Pre) {
		return
	}
	texts := dom.FindAll(leaf, func(n *html.Node) bool {
		return dom.IsText(n) && dom.Closest(n, func(a *html.Node) bool { return dom.IsElement(a, atom.A) }) == nil
	})
	for _, t := range texts {
		linkifyText(t, atEnd && dom.NextInOrder(leaf, t, true) == nil)
	}
}

func linkifyText(t *html.Node, atEnd bool) {
	data := t.Data
	matches := linkPattern.FindAllStringIndex(data, -1)
	for i := len(matches) - 1; i >= 0; i-- {
		lo, hi := matches[i][0], matches[i][1]
		if lo > 0 && !isSpace(lastRune(data[:lo])) {
			continue
		}
		if hi == len(data) && !atEnd {
			continue
		}
		url := strings.TrimRight(data[lo:hi], ".,;:!?)'")
		if url == "" || strings.HasSuffix(url, "://") || url == "www." || url == "mailto:" {
			continue
		}
		start := utf8.RuneCountInString(data[:lo])
		end := start + utf8.RuneCountInString(url)

		href := url
		if strings.HasPrefix(url, "www.") {
			href = "http://" + url
		}
		dom.SplitText(t, end)
		mid := dom.SplitText(t, start)
		dom.Wrap(mid, dom.NewElement(atom.A, html.Attribute{Key: "href", Val: href}))
	}
}

func lastRune(s string) rune {
	r := []rune(s)
	if len(r) == 0 {
		return 0
	}
	return r[len(r)-1]
}

// PostProcess turns the links typed into the caret's paragraph into
// anchors.
func (e *Editor) PostProcess() {
	if !e.opts.MagicLinks {
		return
	}
	_, leaf, err := e.caretLeaf()
	if err != nil {
		return
	}
	e.linkify(leaf, false)
	e.Changed()
}
