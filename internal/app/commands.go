package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/bethropolis/composer/internal/logger"
	"github.com/bethropolis/composer/internal/mail"
	"github.com/bethropolis/composer/internal/store"
)

// registerAppCommands registers the commands that need more than the
// editor: drafts, export and the source view.
func (a *App) registerAppCommands() {
	register := func(name string, fn func(args []string) error) {
		if err := a.commands.Register(name, fn); err != nil {
			logger.Warnf("Failed to register ':%s' command: %v", name, err)
		}
	}

	register("open", a.cmdOpenDraft)
	register("delete-draft", a.cmdDeleteDraft)
	register("new", func(args []string) error {
		if a.modified && !force(args) {
			return fmt.Errorf("unsaved changes (use :new -f)")
		}
		a.doc = Document{}
		return a.editor.LoadHTML("", "")
	})
	register("export", a.cmdExport)
	register("subject", func(args []string) error {
		if len(args) == 0 {
			a.SetStatusMessage("Subject: %s", a.subject())
			return nil
		}
		a.doc.Subject = strings.Join(args, " ")
		return nil
	})
	register("source", func([]string) error {
		a.toggleSource()
		return nil
	})
}

func force(args []string) bool {
	for _, arg := range args {
		if arg == "-f" {
			return true
		}
	}
	return false
}

// cmdOpenDraft replaces the document with a stored draft, the latest one
// when no id is given.
func (a *App) cmdOpenDraft(args []string) error {
	if a.drafts == nil {
		return fmt.Errorf("no draft store configured")
	}
	if a.modified && !force(args) {
		return fmt.Errorf("unsaved changes (use :open -f)")
	}
	var id string
	for _, arg := range args {
		if arg != "-f" {
			id = arg
		}
	}

	ctx := context.Background()
	var (
		d   *store.Draft
		err error
	)
	if id == "" {
		d, err = a.drafts.LatestDraft(ctx)
	} else {
		d, err = a.drafts.GetDraft(ctx, id)
	}
	if errors.Is(err, store.ErrDraftNotFound) {
		return fmt.Errorf("no such draft")
	}
	if err != nil {
		return err
	}

	if err := a.editor.LoadHTML(d.HTML, "draft"); err != nil {
		return err
	}
	a.doc = Document{Name: "draft", Subject: d.Subject, DraftID: d.ID}
	a.SetStatusMessage("Opened draft %q", d.Subject)
	return nil
}

func (a *App) cmdDeleteDraft(args []string) error {
	if a.drafts == nil {
		return fmt.Errorf("no draft store configured")
	}
	id := a.doc.DraftID
	if len(args) > 0 {
		id = args[0]
	}
	if id == "" {
		return fmt.Errorf("usage: delete-draft [ID]")
	}
	if err := a.drafts.DeleteDraft(context.Background(), id); err != nil {
		return err
	}
	if id == a.doc.DraftID {
		a.doc.DraftID = ""
	}
	a.SetStatusMessage("Deleted draft %s", id)
	return nil
}

// cmdExport writes the document as a MIME message: export PATH [TO...].
func (a *App) cmdExport(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: export PATH [TO...]")
	}
	to := append(append([]string(nil), a.doc.To...), args[1:]...)
	msg := BuildMessage(a.editor, a.cfg, a.subject(), to)

	f, err := os.Create(args[0])
	if err != nil {
		return err
	}
	if err := mail.Write(f, msg); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	a.SetStatusMessage("Exported to %s", args[0])
	return nil
}
