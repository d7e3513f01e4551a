package cli

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/notekeeper/internal/client/models"
	"github.com/dmitrijs2005/notekeeper/internal/client/services"
)

func (a *App) printNote(n *models.Note) {
	fmt.Fprintf(a.out, "#%d  %s\n", n.ID, n.TitleText)
	fmt.Fprintf(a.out, "Saved: %s\n", n.DateString)
	if n.Shared {
		fmt.Fprintf(a.out, "Shared: %s\n", a.share.ShareLink(n.ID))
	}
	fmt.Fprintln(a.out, strings.Repeat("-", 40))
	fmt.Fprintln(a.out, n.Content)
}

func (a *App) printList(list []models.Note) {
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No notes")
		return
	}
	for _, n := range list {
		fmt.Fprintln(a.out, n.Overview())
	}
}

// parseIDs parses note codes; "all" is not accepted here.
func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := services.ParseReference(arg)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", arg, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func oneID(args []string, usage string) (int64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("usage: %s", usage)
	}
	ids, err := parseIDs(args)
	if err != nil {
		return 0, err
	}
	return ids[0], nil
}
