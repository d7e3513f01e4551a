package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dmitrijs2005/notekeeper/internal/client/client"
	"github.com/dmitrijs2005/notekeeper/internal/client/config"
	"github.com/dmitrijs2005/notekeeper/internal/client/repositories/notes"
	"github.com/dmitrijs2005/notekeeper/internal/client/repositories/settings"
	"github.com/dmitrijs2005/notekeeper/internal/client/services"
	"github.com/dmitrijs2005/notekeeper/internal/client/sinks"
	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/logging"
)

type Mode string

const (
	ModeUnknown Mode = ""
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config    *config.Config
	db        *sql.DB
	notes     *services.NoteService
	share     *services.ShareService
	retrieval *services.RetrievalService
	bundle    *services.BundleService
	log       logging.Logger

	reader  *bufio.Reader
	out     io.Writer
	prompts io.Writer

	Mode      Mode
	noteCount int
}

// NewApp opens the local store and wires the services. The returned App
// owns the database; call Close when done.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	db, err := client.OpenDatabase(ctx, c.DatabasePath)
	if err != nil {
		return nil, err
	}

	dates, err := c.DateFormat()
	if err != nil {
		log.Warn(ctx, "unknown time zone, using UTC", "zone", c.TimeZone, "error", err)
	}

	sink, err := newSink(ctx, c)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	api := client.NewHTTPClient(c.ServerURL, c.RequestTimeout, log)

	prompts := io.Writer(os.Stdout)
	if !interactive() {
		prompts = io.Discard
	}

	return newApp(ctx, c, db, api, sink, dates, log, os.Stdin, os.Stdout, prompts), nil
}

func newSink(ctx context.Context, c *config.Config) (services.Sink, error) {
	if s3cfg, ok := c.S3(); ok {
		return sinks.NewS3Sink(ctx, s3cfg)
	}
	return sinks.NewFileSink(c.ExportDir), nil
}

func newApp(ctx context.Context, c *config.Config, db *sql.DB, api client.Client, sink services.Sink,
	dates services.DateFormat, log logging.Logger, in io.Reader, out, prompts io.Writer) *App {

	repo := notes.NewSQLiteRepository(db)
	session := services.NewSession(c.ChallengeCooldown, nil)

	a := &App{
		config:  c,
		db:      db,
		log:     log,
		reader:  bufio.NewReader(in),
		out:     out,
		prompts: prompts,
	}

	a.notes = services.NewNoteService(repo, settings.NewSQLiteRepository(db), session, dates, log)
	a.share = services.NewShareService(api, repo, a.notes, session, c.PublicURL, log)
	a.retrieval = services.NewRetrievalService(api, repo, log)
	a.bundle = services.NewBundleService(repo, sink, log)

	a.notes.SetObserver(a)
	a.retrieval.SetObserver(a)
	a.bundle.SetObserver(a)

	a.NotesChanged(ctx)
	return a
}

// NotesChanged refreshes the note count shown in the prompt.
func (a *App) NotesChanged(ctx context.Context) {
	list, err := a.notes.List(ctx, "")
	if err != nil {
		a.log.Warn(ctx, "failed to refresh note list", "error", err)
		return
	}
	a.noteCount = len(list)
}

func (a *App) Close() error {
	return a.db.Close()
}

func (a *App) setMode(mode Mode) {
	if a.Mode != mode {
		a.Mode = mode
		a.log.Info(context.Background(), "connectivity changed", "mode", string(mode))
	}
}

func (a *App) getStatus() string {
	s := fmt.Sprintf("%d notes", a.noteCount)
	if a.Mode != ModeUnknown {
		s = string(a.Mode) + ", " + s
	}
	return fmt.Sprintf("(%s)", s)
}

// Run resolves startURL when it is not empty, then blocks in the REPL
// until the user exits or ctx is canceled.
func (a *App) Run(ctx context.Context, startURL string) {
	fmt.Fprintln(a.prompts, "Welcome to notekeeper (type 'help' for commands)")

	if startURL != "" {
		_ = a.openURL(ctx, startURL)
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}

// track updates the connectivity mode from the outcome of a call to the
// sharing service.
func (a *App) track(err error) {
	switch {
	case err == nil:
		a.setMode(ModeOnline)
	case errors.Is(err, client.ErrUnavailable):
		a.setMode(ModeOffline)
	default:
		var apiErr *client.APIError
		if errors.As(err, &apiErr) {
			a.setMode(ModeOnline)
		}
	}
}

// report prints err for the user and returns it.
func (a *App) report(err error) error {
	var apiErr *client.APIError
	switch {
	case errors.As(err, &apiErr):
		fmt.Fprintf(a.out, "Error: %s\n", apiErr.Message)
	case errors.Is(err, client.ErrUnavailable):
		fmt.Fprintln(a.out, "Error: the sharing service cannot be reached, try again later")
	case errors.Is(err, common.ErrorNotFound):
		fmt.Fprintln(a.out, "Error: note not found")
	default:
		fmt.Fprintf(a.out, "Error: %v\n", err)
	}
	return err
}

// StartURL returns the first positional argument, the address the client
// was opened with. Every flag of the client takes a value, so a flag
// written as "-x value" hides the following token.
func StartURL(args []string) string {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if strings.HasPrefix(arg, "-") {
			if !strings.Contains(arg, "=") {
				i++
			}
			continue
		}
		return arg
	}
	return ""
}
