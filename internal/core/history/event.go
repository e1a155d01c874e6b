// Package history records reversible composer edits and replays them.
package history

import (
	"fmt"

	"github.com/bethropolis/composer/internal/dom"
	"github.com/bethropolis/composer/internal/types"
	"github.com/google/uuid"
	"golang.org/x/net/html"
)

// Type tags a history event.
type Type int

const (
	Start Type = iota // sentinel at the bottom of the store
	And               // glue: the events around it undo and redo together
	Bold
	Italic
	Underline
	Strikethrough
	Monospace
	FontSize
	Alignment
	BlockFormat
	FontColor
	Indent
	Wrap
	Delete
	Input
	Paste
	PasteAsText
	PasteQuoted
	InsertHTML
	CitationSplit
	Image
	Smiley
	RemoveLink
	LinkDialog
	ImageDialog
	TableDialog
	HRuleDialog
	PageDialog
	TableInput
	Unquote
	Replace
	ReplaceAll
)

var typeNames = [...]string{
	Start:         "start",
	And:           "and",
	Bold:          "bold",
	Italic:        "italic",
	Underline:     "underline",
	Strikethrough: "strikethrough",
	Monospace:     "monospace",
	FontSize:      "font-size",
	Alignment:     "alignment",
	BlockFormat:   "block-format",
	FontColor:     "font-color",
	Indent:        "indent",
	Wrap:          "wrap",
	Delete:        "delete",
	Input:         "input",
	Paste:         "paste",
	PasteAsText:   "paste-as-text",
	PasteQuoted:   "paste-quoted",
	InsertHTML:    "insert-html",
	CitationSplit: "citation-split",
	Image:         "image",
	Smiley:        "smiley",
	RemoveLink:    "remove-link",
	LinkDialog:    "link-dialog",
	ImageDialog:   "image-dialog",
	TableDialog:   "table-dialog",
	HRuleDialog:   "hrule-dialog",
	PageDialog:    "page-dialog",
	TableInput:    "table-input",
	Unquote:       "unquote",
	Replace:       "replace",
	ReplaceAll:    "replace-all",
}

func (t Type) String() string {
	if t >= 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("type(%d)", int(t))
}

// Data is the payload of an event. Exactly one concrete type fits each
// event Type; see Event.Valid.
type Data interface {
	isData()
}

// FragmentData carries detached content that was removed or inserted.
type FragmentData struct {
	Fragment *html.Node // a document node holding the content

	// Region locates the structure a multi-block edit replaced. When set,
	// Fragment holds the region's nodes as they were before the edit.
	Region *dom.Region

	DeleteKey    bool // Delete rather than Backspace
	Control      bool // whole-word deletion
	Concatenated bool // two blocks were joined
	Return       bool // the input was a paragraph break
	Magic        bool // smiley produced by text replacement
	Text         string
}

// StringData carries old and new text.
type StringData struct {
	From string
	To   string
}

// StyleData carries old and new style values.
type StyleData struct {
	From int
	To   int
}

// DOMData carries whole-element clones from before and after an edit.
// A nil From means the edit created the element.
type DOMData struct {
	From   *html.Node
	To     *html.Node
	Region *dom.Region
	Split  bool // the element was inserted by splitting a block
}

func (*FragmentData) isData() {}
func (*StringData) isData()   {}
func (*StyleData) isData()    {}
func (*DOMData) isData()      {}

// Event is one reversible edit.
type Event struct {
	ID     uuid.UUID
	Type   Type
	Before types.SelectionState
	After  types.SelectionState
	Data   Data
}

// NewEvent creates an event with a fresh id.
func NewEvent(t Type, before, after types.SelectionState, data Data) *Event {
	return &Event{ID: uuid.New(), Type: t, Before: before, After: after, Data: data}
}

func (e *Event) String() string {
	return fmt.Sprintf("%s[%s] %v -> %v", e.Type, e.ID.String()[:8], e.Before, e.After)
}

// Valid reports whether the payload matches the event type.
func (e *Event) Valid() bool {
	switch e.Type {
	case Start, And:
		return e.Data == nil
	case Bold, Italic, Underline, Strikethrough, Monospace,
		FontSize, Alignment, Indent, Wrap:
		_, ok := e.Data.(*StyleData)
		return ok
	case FontColor, Paste, PasteAsText, PasteQuoted, InsertHTML, Replace, ReplaceAll:
		_, ok := e.Data.(*StringData)
		return ok
	case Delete, Input, CitationSplit, Image, Smiley, RemoveLink:
		_, ok := e.Data.(*FragmentData)
		return ok
	case LinkDialog, ImageDialog, TableDialog, HRuleDialog, PageDialog, TableInput, Unquote, BlockFormat:
		_, ok := e.Data.(*DOMData)
		return ok
	}
	return false
}

// Fragment returns the fragment payload, or an empty one.
func (e *Event) Fragment() *FragmentData {
	if d, ok := e.Data.(*FragmentData); ok {
		return d
	}
	return &FragmentData{}
}

// Strings returns the string payload, or an empty one.
func (e *Event) Strings() *StringData {
	if d, ok := e.Data.(*StringData); ok {
		return d
	}
	return &StringData{}
}

// Style returns the style payload, or an empty one.
func (e *Event) Style() *StyleData {
	if d, ok := e.Data.(*StyleData); ok {
		return d
	}
	return &StyleData{}
}

// DOM returns the element payload, or an empty one.
func (e *Event) DOM() *DOMData {
	if d, ok := e.Data.(*DOMData); ok {
		return d
	}
	return &DOMData{}
}
