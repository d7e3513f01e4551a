package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// Export saves notes as a JSON bundle. "export all" saves every note.
func (a *App) Export(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return a.report(errors.New("usage: export <code>...|all"))
	}

	var ids []int64
	if len(args) == 1 && args[0] == "all" {
		list, err := a.notes.List(ctx, "")
		if err != nil {
			return a.report(err)
		}
		for _, n := range list {
			ids = append(ids, n.ID)
		}
	} else {
		var err error
		if ids, err = parseIDs(args); err != nil {
			return a.report(err)
		}
	}

	location, err := a.bundle.Export(ctx, ids...)
	if err != nil {
		return a.report(err)
	}
	fmt.Fprintf(a.out, "Exported to %s\n", location)
	return nil
}

func (a *App) Import(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return a.report(errors.New("usage: import <file>"))
	}

	f, err := os.Open(args[0])
	if err != nil {
		return a.report(err)
	}
	defer f.Close()

	n, err := a.bundle.Import(ctx, f)
	if err != nil {
		if n > 0 {
			fmt.Fprintf(a.out, "Imported %d note(s) before the error\n", n)
		}
		return a.report(err)
	}
	fmt.Fprintf(a.out, "Imported %d note(s)\n", n)
	return nil
}
