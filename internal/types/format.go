package types

import "golang.org/x/net/html/atom"

// Alignment is a paragraph's horizontal alignment.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

var alignNames = []string{"left", "center", "right"}

func (a Alignment) String() string {
	if a >= 0 && int(a) < len(alignNames) {
		return alignNames[a]
	}
	return "left"
}

// ParseAlignment maps an align attribute value to an Alignment.
func ParseAlignment(s string) Alignment {
	for i, n := range alignNames {
		if n == s {
			return Alignment(i)
		}
	}
	return AlignLeft
}

// BlockFormat is the kind of a paragraph.
type BlockFormat int

const (
	BlockParagraph BlockFormat = iota
	BlockPre
	BlockAddress
	BlockH1
	BlockH2
	BlockH3
	BlockH4
	BlockH5
	BlockH6
	BlockBulletList
	BlockNumberedList
)

var blockNames = []string{
	"paragraph", "pre", "address", "h1", "h2", "h3", "h4", "h5", "h6", "bullet-list", "numbered-list",
}

var blockTags = []atom.Atom{
	atom.Div, atom.Pre, atom.Address, atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6, atom.Ul, atom.Ol,
}

func (f BlockFormat) String() string {
	if f >= 0 && int(f) < len(blockNames) {
		return blockNames[f]
	}
	return "paragraph"
}

// Tag is the element that carries the format: the block itself, or the
// list element for list formats.
func (f BlockFormat) Tag() atom.Atom {
	if f >= 0 && int(f) < len(blockTags) {
		return blockTags[f]
	}
	return atom.Div
}

// IsList reports whether f makes list items.
func (f BlockFormat) IsList() bool {
	return f == BlockBulletList || f == BlockNumberedList
}

// ParseBlockFormat maps a format name to a BlockFormat.
func ParseBlockFormat(s string) (BlockFormat, bool) {
	for i, n := range blockNames {
		if n == s {
			return BlockFormat(i), true
		}
	}
	return BlockParagraph, false
}

// FormatOfTag maps a block tag to its format. p counts as a paragraph.
func FormatOfTag(a atom.Atom) BlockFormat {
	if a == atom.P {
		return BlockParagraph
	}
	for i, t := range blockTags {
		if t == a {
			return BlockFormat(i)
		}
	}
	return BlockParagraph
}
