package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bethropolis/composer/internal/core"
	"github.com/bethropolis/composer/internal/core/find"
	"github.com/bethropolis/composer/internal/types"
	"golang.org/x/net/html"
)

// StatusFunc reports a short message to the user.
type StatusFunc func(format string, args ...interface{})

func toggle(args []string, current bool) (bool, error) {
	if len(args) == 0 {
		return !current, nil
	}
	switch args[0] {
	case "on", "true", "1":
		return true, nil
	case "off", "false", "0":
		return false, nil
	}
	return false, fmt.Errorf("expected on or off, got %q", args[0])
}

func inline(set func(bool) error, is func() bool) Func {
	return func(args []string) error {
		on, err := toggle(args, is())
		if err != nil {
			return err
		}
		return set(on)
	}
}

func noArgs(fn func() error) Func {
	return func([]string) error { return fn() }
}

func intArgs(args []string, n int) ([]int, error) {
	if len(args) != n {
		return nil, fmt.Errorf("expected %d numbers, got %d arguments", n, len(args))
	}
	out := make([]int, n)
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", a, err)
		}
		out[i] = v
	}
	return out, nil
}

// attrArgs parses key=value pairs. A bare key clears the attribute.
func attrArgs(args []string) []html.Attribute {
	attrs := make([]html.Attribute, 0, len(args))
	for _, a := range args {
		k, v, _ := strings.Cut(a, "=")
		attrs = append(attrs, html.Attribute{Key: k, Val: v})
	}
	return attrs
}

// findArgs strips the -r (regex) and -c (case sensitive) flags.
func findArgs(args []string) ([]string, find.Options) {
	var opts find.Options
	rest := args[:0:0]
	for _, a := range args {
		switch a {
		case "-r":
			opts.Regex = true
		case "-c":
			opts.CaseSensitive = true
		default:
			rest = append(rest, a)
		}
	}
	return rest, opts
}

// RegisterEditorCommands registers the formatting, insertion and history
// commands that drive e.
func RegisterEditorCommands(r *Registry, e *core.Editor, status StatusFunc) {
	if status == nil {
		status = func(string, ...interface{}) {}
	}

	register(r, "undo", func([]string) error {
		if !e.Undo() {
			status("Nothing to undo")
		}
		return nil
	})
	register(r, "redo", func([]string) error {
		if !e.Redo() {
			status("Nothing to redo")
		}
		return nil
	})

	register(r, "bold", inline(e.SetBold, e.IsBold))
	register(r, "italic", inline(e.SetItalic, e.IsItalic))
	register(r, "underline", inline(e.SetUnderline, e.IsUnderline))
	register(r, "strike", inline(e.SetStrikethrough, e.IsStrikethrough))
	register(r, "mono", inline(e.SetMonospace, e.IsMonospace))

	register(r, "size", func(args []string) error {
		v, err := intArgs(args, 1)
		if err != nil {
			return err
		}
		return e.SetFontSize(v[0])
	})
	register(r, "color", func(args []string) error {
		if len(args) != 1 {
			return fmt.Errorf("usage: color #rrggbb")
		}
		return e.SetFontColor(args[0])
	})
	register(r, "align", func(args []string) error {
		if len(args) != 1 {
			return fmt.Errorf("usage: align left|center|right")
		}
		return e.SetAlignment(types.ParseAlignment(args[0]))
	})
	register(r, "block", func(args []string) error {
		if len(args) != 1 {
			return fmt.Errorf("usage: block paragraph|pre|address|h1..h6|bullet-list|numbered-list")
		}
		f, ok := types.ParseBlockFormat(args[0])
		if !ok {
			return fmt.Errorf("unknown block format %q", args[0])
		}
		return e.SetBlockFormat(f)
	})
	register(r, "indent", noArgs(e.Indent))
	register(r, "unindent", noArgs(e.Unindent))
	register(r, "wrap", noArgs(e.WrapLines))
	register(r, "unwrap", noArgs(e.UnwrapLines))
	register(r, "unquote", noArgs(e.Unquote))

	register(r, "link", func(args []string) error {
		if len(args) == 0 {
			if href, ok := e.Link(); ok {
				status("Link: %s", href)
				return nil
			}
			return fmt.Errorf("usage: link URL [text]")
		}
		return e.EditLink(args[0], strings.Join(args[1:], " "))
	})
	register(r, "unlink", noArgs(e.RemoveLink))
	register(r, "image", func(args []string) error {
		if len(args) == 0 {
			return fmt.Errorf("usage: image SRC [alt]")
		}
		return e.InsertImage(args[0], strings.Join(args[1:], " "))
	})
	register(r, "image-attr", func(args []string) error {
		return e.EditImage(attrArgs(args)...)
	})
	register(r, "smiley", func(args []string) error {
		if len(args) != 1 {
			return fmt.Errorf("usage: smiley CODE")
		}
		return e.InsertSmiley(args[0])
	})
	register(r, "table", func(args []string) error {
		v, err := intArgs(args, 2)
		if err != nil {
			return err
		}
		if _, _, inTable := e.TableSize(); inTable {
			return e.EditTable(v[0], v[1])
		}
		return e.InsertTable(v[0], v[1])
	})
	register(r, "hrule", func(args []string) error {
		if len(args) == 0 {
			return e.InsertHRule()
		}
		return e.EditHRule(attrArgs(args)...)
	})
	register(r, "page", func(args []string) error {
		if len(args) == 0 {
			var parts []string
			for _, a := range e.PageAttributes() {
				parts = append(parts, a.Key+"="+a.Val)
			}
			status("Page: %s", strings.Join(parts, " "))
			return nil
		}
		return e.EditPage(attrArgs(args)...)
	})
	register(r, "html", func(args []string) error {
		return e.InsertHTML(strings.Join(args, " "))
	})
	register(r, "quote", func(args []string) error {
		return e.PasteQuoted(strings.Join(args, " "))
	})

	register(r, "find", func(args []string) error {
		rest, opts := findArgs(args)
		if len(rest) == 0 {
			return fmt.Errorf("usage: find [-r] [-c] TERM")
		}
		term := strings.Join(rest, " ")
		n := e.HighlightMatches(term, opts)
		found, err := e.Find(term, opts)
		if err != nil {
			return err
		}
		if !found {
			status("Pattern not found: %s", term)
			return nil
		}
		status("%d matches for '%s'", n, term)
		return nil
	})
	register(r, "replace", func(args []string) error {
		if !e.HasSelection() {
			return fmt.Errorf("nothing selected to replace")
		}
		return e.Replace(strings.Join(args, " "))
	})
	register(r, "replaceall", func(args []string) error {
		rest, opts := findArgs(args)
		if len(rest) == 0 {
			return fmt.Errorf("usage: replaceall [-r] [-c] TERM [TEXT]")
		}
		n, err := e.ReplaceAll(rest[0], strings.Join(rest[1:], " "), opts)
		if err != nil {
			return err
		}
		status("Replaced %d occurrences", n)
		return nil
	})
	register(r, "selectall", func([]string) error {
		e.SelectAll()
		return nil
	})
	register(r, "readonly", func(args []string) error {
		on, err := toggle(args, e.ReadOnly())
		if err != nil {
			return err
		}
		e.SetReadOnly(on)
		status("Read-only: %v", on)
		return nil
	})
}
