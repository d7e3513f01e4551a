// Package httpapi exposes the sharing service over HTTP/JSON.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/logging"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
)

// maxNoteBytes limits the size of a submitted note body.
const maxNoteBytes = 1 << 20

// NoteService is the business logic behind the API.
type NoteService interface {
	Challenge(ctx context.Context) (*models.Challenge, error)
	Share(ctx context.Context, note *models.Note, captcha string) (*models.Note, error)
	Get(ctx context.Context, id int64) (*models.Note, error)
}

type HTTPServer struct {
	address         string
	notes           NoteService
	logger          logging.Logger
	shutdownTimeout time.Duration
}

func NewHTTPServer(address string, l logging.Logger, notes NoteService, shutdownTimeout time.Duration) *HTTPServer {
	return &HTTPServer{
		address:         address,
		notes:           notes,
		logger:          l.With("module", "http_server"),
		shutdownTimeout: shutdownTimeout,
	}
}

// Routes returns the API handler with request logging applied.
func (s *HTTPServer) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/notes/verification-code", s.GetChallenge)
	mux.HandleFunc("POST /api/notes/{$}", s.ShareNote)
	mux.HandleFunc("POST /api/notes", s.ShareNote)
	mux.HandleFunc("GET /api/notes/{id}", s.GetNote)
	return s.requestLogger(mux)
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.serve(ctx, listen)
}

func (s *HTTPServer) serve(ctx context.Context, listen net.Listener) error {
	srv := &http.Server{
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	done := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		done <- srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-done
}
