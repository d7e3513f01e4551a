package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/notekeeper/internal/client/models"
)

// New reads Markdown content and stores it as a new note.
func (a *App) New(ctx context.Context, args []string) error {
	var explicit *int64
	if len(args) > 0 {
		id, err := oneID(args, "new [code]")
		if err != nil {
			return a.report(err)
		}
		explicit = &id
	}

	content, err := GetMultiline(a.reader, "Write your note in Markdown", a.prompts)
	if err != nil {
		return a.report(err)
	}

	n, err := a.notes.Create(ctx, content, explicit)
	if err != nil {
		return a.report(err)
	}
	if n == nil {
		fmt.Fprintln(a.out, "Empty note, nothing saved")
		return nil
	}
	fmt.Fprintf(a.out, "Saved note %d: %s\n", n.ID, n.TitleText)
	return nil
}

func (a *App) Edit(ctx context.Context, args []string) error {
	id, err := oneID(args, "edit <code>")
	if err != nil {
		return a.report(err)
	}

	current, err := a.notes.Get(ctx, id)
	if err != nil {
		return a.report(err)
	}
	fmt.Fprintln(a.prompts, current.Content)

	content, err := GetMultiline(a.reader, "Write the new content", a.prompts)
	if err != nil {
		return a.report(err)
	}

	n, err := a.notes.Update(ctx, id, content)
	if err != nil {
		return a.report(err)
	}
	if n == nil {
		fmt.Fprintln(a.out, "Nothing changed")
		return nil
	}
	fmt.Fprintf(a.out, "Updated note %d: %s\n", n.ID, n.TitleText)
	return nil
}

func (a *App) Show(ctx context.Context, args []string) error {
	id, err := oneID(args, "show <code>")
	if err != nil {
		return a.report(err)
	}
	n, err := a.notes.Get(ctx, id)
	if err != nil {
		return a.report(err)
	}
	a.printNote(n)
	return nil
}

func (a *App) List(ctx context.Context, args []string) error {
	var field models.SortField
	if len(args) > 0 {
		f, err := models.ParseSortField(args[0])
		if err != nil {
			return a.report(err)
		}
		field = f
	}

	list, err := a.notes.List(ctx, field)
	if err != nil {
		return a.report(err)
	}
	a.printList(list)
	return nil
}

func (a *App) Sort(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return a.report(errors.New("usage: sort title|date|content"))
	}
	field, err := models.ParseSortField(args[0])
	if err != nil {
		return a.report(err)
	}
	if err := a.notes.SetSortOrder(ctx, field); err != nil {
		return a.report(err)
	}
	fmt.Fprintf(a.out, "Notes are now sorted by %s\n", field)
	return nil
}

func (a *App) Search(ctx context.Context, args []string) error {
	list, err := a.notes.Search(ctx, strings.Join(args, " "))
	if err != nil {
		return a.report(err)
	}
	a.printList(list)
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return a.report(errors.New("usage: delete <code>..."))
	}
	ids, err := parseIDs(args)
	if err != nil {
		return a.report(err)
	}

	confirm, err := a.notes.ConfirmDelete(ctx)
	if err != nil {
		a.log.Warn(ctx, "failed to read delete preference", "error", err)
	}
	if confirm {
		ok, err := Confirm(a.reader, fmt.Sprintf("Delete %d note(s)?", len(ids)), a.prompts)
		if err != nil {
			return a.report(err)
		}
		if !ok {
			fmt.Fprintln(a.out, "Cancelled")
			return nil
		}
	}

	if err := a.notes.Delete(ctx, ids...); err != nil {
		return a.report(err)
	}
	fmt.Fprintf(a.out, "Deleted %d note(s)\n", len(ids))
	return nil
}

func (a *App) Confirm(ctx context.Context, args []string) error {
	if len(args) != 1 || (args[0] != "on" && args[0] != "off") {
		return a.report(errors.New("usage: confirm on|off"))
	}
	if err := a.notes.SetConfirmDelete(ctx, args[0] == "on"); err != nil {
		return a.report(err)
	}
	fmt.Fprintf(a.out, "Delete confirmation %s\n", args[0])
	return nil
}
