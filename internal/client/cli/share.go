package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/notekeeper/internal/client/models"
	"github.com/dmitrijs2005/notekeeper/internal/client/services"
)

func (a *App) printChallenge(ch *models.Challenge) {
	until := ch.Expiry.Local().Format("15:04:05")
	fmt.Fprintf(a.out, "Captcha: %s (valid until %s)\n", ch.Code, until)
}

func (a *App) printShared(n *models.Note) {
	fmt.Fprintf(a.out, "Shared note %d\nLink: %s\n", n.ID, a.share.ShareLink(n.ID))
}

// Share starts sharing a note. Already shared notes only print their link.
func (a *App) Share(ctx context.Context, args []string) error {
	id, err := oneID(args, "share <code>")
	if err != nil {
		return a.report(err)
	}

	res, err := a.share.Begin(ctx, id)
	if res == nil || !res.AlreadyShared {
		a.track(err)
	}
	if err != nil {
		return a.report(err)
	}
	if res.AlreadyShared {
		a.printShared(res.Note)
		return nil
	}

	a.printChallenge(res.Challenge)
	return a.Submit(ctx, nil)
}

// Submit asks for the captcha answer and shares the active note. It can be
// repeated while the captcha is valid.
func (a *App) Submit(ctx context.Context, _ []string) error {
	response, err := GetSimpleText(a.reader, "Type the captcha", a.prompts)
	if err != nil {
		return a.report(err)
	}

	n, err := a.share.Submit(ctx, response)
	a.track(err)
	if err != nil {
		return a.report(err)
	}
	a.printShared(n)
	return nil
}

// Publish writes a new note and shares it in one go. If sharing fails the
// note is not kept.
func (a *App) Publish(ctx context.Context, _ []string) error {
	content, err := GetMultiline(a.reader, "Write your note in Markdown", a.prompts)
	if err != nil {
		return a.report(err)
	}
	if strings.TrimSpace(content) == "" {
		fmt.Fprintln(a.out, "Empty note, nothing shared")
		return nil
	}

	code, err := GetSimpleText(a.reader, "Note code, 6 to 9 digits (empty for a random one)", a.prompts)
	if err != nil {
		return a.report(err)
	}
	var explicit *int64
	if code != "" {
		id, err := services.ParseReference(code)
		if err != nil {
			return a.report(err)
		}
		explicit = &id
	}

	ch, err := a.share.RequestChallenge(ctx)
	a.track(err)
	if err != nil {
		return a.report(err)
	}
	a.printChallenge(ch)

	response, err := GetSimpleText(a.reader, "Type the captcha", a.prompts)
	if err != nil {
		return a.report(err)
	}

	n, err := a.share.CreateAndShare(ctx, content, explicit, response)
	a.track(err)
	if err != nil {
		return a.report(err)
	}
	a.printShared(n)
	return nil
}

// Open shows a note by code or share link, fetching it from the sharing
// service when it is not stored locally.
func (a *App) Open(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return a.report(errors.New("usage: open <code|address>"))
	}
	if strings.Contains(args[0], "://") {
		return a.openURL(ctx, args[0])
	}

	n, src, err := a.retrieval.ResolveCode(ctx, args[0])
	if src == services.SourceRemote {
		a.track(err)
	}
	if err != nil {
		return a.report(err)
	}
	a.printNote(n)
	return nil
}

func (a *App) openURL(ctx context.Context, raw string) error {
	n, cleaned, err := a.retrieval.ResolveURL(ctx, raw)
	if err != nil {
		a.track(err)
		return a.report(err)
	}
	a.log.Debug(ctx, "reference consumed", "address", cleaned)
	if n == nil {
		fmt.Fprintln(a.out, "The address does not reference a note")
		return nil
	}
	a.printNote(n)
	return nil
}
