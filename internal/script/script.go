// Package script runs editing sessions described in YAML against an
// editor, for batch conversion and regression tests.
package script

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bethropolis/composer/internal/commands"
	"github.com/bethropolis/composer/internal/core"
	"github.com/bethropolis/composer/internal/logger"
	"github.com/bethropolis/composer/internal/types"
	"gopkg.in/yaml.v3"
)

// Script is an initial document and the steps applied to it.
type Script struct {
	Name  string `yaml:"name"`
	HTML  string `yaml:"html"`
	Steps []Step `yaml:"steps"`
}

// Range selects from one point to another.
type Range struct {
	From types.Point `yaml:"from"`
	To   types.Point `yaml:"to"`
}

// Step is one action or check. Exactly one field is set.
type Step struct {
	Type        *string      `yaml:"type,omitempty"`
	Key         string       `yaml:"key,omitempty"`
	Move        string       `yaml:"move,omitempty"`
	Extend      bool         `yaml:"extend,omitempty"`
	Run         string       `yaml:"run,omitempty"`
	Paste       *string      `yaml:"paste,omitempty"`
	PasteText   *string      `yaml:"paste_text,omitempty"`
	PasteQuoted *string      `yaml:"paste_quoted,omitempty"`
	Select      *Range       `yaml:"select,omitempty"`
	Caret       *types.Point `yaml:"caret,omitempty"`
	ExpectHTML  *string      `yaml:"expect_html,omitempty"`
	ExpectText  *string      `yaml:"expect_text,omitempty"`
}

// ErrExpectation is wrapped by failed expect_html and expect_text steps.
var ErrExpectation = errors.New("expectation failed")

// Load decodes a script. Unknown fields are errors.
func Load(r io.Reader) (*Script, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var s Script
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("decoding script: %w", err)
	}
	for i, st := range s.Steps {
		if n := st.actions(); n != 1 {
			return nil, fmt.Errorf("step %d: expected exactly one action, got %d", i+1, n)
		}
	}
	return &s, nil
}

// LoadFile reads a script from path.
func LoadFile(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	s, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func (st Step) actions() int {
	n := 0
	for _, set := range []bool{
		st.Type != nil, st.Key != "", st.Move != "", st.Run != "",
		st.Paste != nil, st.PasteText != nil, st.PasteQuoted != nil,
		st.Select != nil, st.Caret != nil, st.ExpectHTML != nil, st.ExpectText != nil,
	} {
		if set {
			n++
		}
	}
	return n
}

// Run loads the script's document into e, unless HTML is empty, and
// applies every step. The error names the failing step.
func (s *Script) Run(e *core.Editor) error {
	if s.HTML != "" {
		if err := e.LoadHTML(s.HTML, "script"); err != nil {
			return err
		}
	}
	reg := commands.NewRegistry()
	commands.RegisterEditorCommands(reg, e, func(format string, args ...interface{}) {
		logger.InfoTagf("script", format, args...)
	})

	for i, st := range s.Steps {
		if err := st.apply(e, reg); err != nil {
			return fmt.Errorf("%s: step %d: %w", s.Name, i+1, err)
		}
	}
	return nil
}

var keys = map[string]func(e *core.Editor) error{
	"return":         (*core.Editor).InsertReturn,
	"backspace":      func(e *core.Editor) error { return e.DeleteBackward(false) },
	"delete":         func(e *core.Editor) error { return e.DeleteForward(false) },
	"word-backspace": func(e *core.Editor) error { return e.DeleteBackward(true) },
	"word-delete":    func(e *core.Editor) error { return e.DeleteForward(true) },
	"tab":            func(e *core.Editor) error { return e.InsertText("\t") },
	"undo": func(e *core.Editor) error {
		e.Undo()
		return nil
	},
	"redo": func(e *core.Editor) error {
		e.Redo()
		return nil
	},
	"select-all": func(e *core.Editor) error {
		e.SelectAll()
		return nil
	},
	"copy": func(e *core.Editor) error {
		_, err := e.Copy()
		return err
	},
	"cut": func(e *core.Editor) error {
		_, err := e.Cut()
		return err
	},
	"paste": func(e *core.Editor) error {
		_, err := e.PasteClipboard()
		return err
	},
}

func (st Step) apply(e *core.Editor, reg *commands.Registry) error {
	switch {
	case st.Type != nil:
		for _, r := range *st.Type {
			if r == ' ' {
				e.PostProcess()
			}
			if err := e.InsertText(string(r)); err != nil {
				return err
			}
		}
		return nil
	case st.Key != "":
		fn, ok := keys[st.Key]
		if !ok {
			return fmt.Errorf("unknown key %q", st.Key)
		}
		if st.Key == "return" {
			e.PostProcess()
		}
		return fn(e)
	case st.Move != "":
		m, ok := core.ParseMotion(st.Move)
		if !ok {
			return fmt.Errorf("unknown motion %q", st.Move)
		}
		e.Move(m, st.Extend)
		return nil
	case st.Run != "":
		return reg.Execute(st.Run)
	case st.Paste != nil:
		return e.Paste(*st.Paste)
	case st.PasteText != nil:
		return e.PasteAsText(*st.PasteText)
	case st.PasteQuoted != nil:
		return e.PasteQuoted(*st.PasteQuoted)
	case st.Select != nil:
		e.MoveTo(st.Select.From, false)
		e.MoveTo(st.Select.To, true)
		return nil
	case st.Caret != nil:
		e.MoveTo(*st.Caret, false)
		return nil
	case st.ExpectHTML != nil:
		if got := e.BodyHTML(); got != *st.ExpectHTML {
			return fmt.Errorf("%w: html\n got: %s\nwant: %s", ErrExpectation, got, *st.ExpectHTML)
		}
		return nil
	case st.ExpectText != nil:
		got := strings.TrimRight(e.Text(), "\n")
		want := strings.TrimRight(*st.ExpectText, "\n")
		if got != want {
			return fmt.Errorf("%w: text\n got: %q\nwant: %q", ErrExpectation, got, want)
		}
		return nil
	}
	return fmt.Errorf("empty step")
}
