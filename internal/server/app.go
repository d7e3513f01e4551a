// Package server initializes and runs the note sharing server. It opens
// and migrates the database, wires the captcha store and note service, and
// serves the HTTP API until the context is canceled.
package server

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/notekeeper/internal/logging"
	"github.com/dmitrijs2005/notekeeper/internal/server/captcha"
	"github.com/dmitrijs2005/notekeeper/internal/server/config"
	"github.com/dmitrijs2005/notekeeper/internal/server/httpapi"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/notekeeper/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *httpapi.HTTPServer
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	db, err := repomanager.OpenDatabase(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	m := repomanager.NewPostgresRepositoryManager()
	if err := m.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return newApp(c, logger, db, m)
}

func newApp(c *config.Config, logger logging.Logger, db *sql.DB, m repomanager.RepositoryManager) (*App, error) {
	store, err := captcha.NewStore(c.CaptchaTTL, c.CaptchaLength, nil)
	if err != nil {
		return nil, err
	}

	notes := services.NewNoteService(db, m, store, logger)
	srv := httpapi.NewHTTPServer(c.Address, logger, notes, c.ShutdownTimeout)

	return &App{config: c, logger: logger, db: db, server: srv}, nil
}

// Run blocks until ctx is canceled or the server fails, then closes the
// database.
func (app *App) Run(ctx context.Context) error {
	app.logger.Info(ctx, "Starting app...")
	defer app.db.Close()

	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		return err
	}

	app.logger.Info(ctx, "Stopped")
	return nil
}
