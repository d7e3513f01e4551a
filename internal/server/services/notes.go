// Package services contains server-side business logic. NoteService issues
// captchas and stores the notes submitted with a valid one.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/dbx"
	"github.com/dmitrijs2005/notekeeper/internal/logging"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/repomanager"
)

// allocationAttempts bounds the search for a free id when the client
// leaves the id to the server.
const allocationAttempts = 16

// Captchas issues and redeems verification codes.
type Captchas interface {
	Issue() (*models.Challenge, error)
	Consume(code string) (undo func(), err error)
}

type NoteService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	captchas    Captchas
	nextID      func() int64
	now         func() time.Time
	log         logging.Logger
}

func randomID() int64 {
	return common.MinNoteID + rand.Int64N(common.MaxNoteID-common.MinNoteID+1)
}

func NewNoteService(db *sql.DB, m repomanager.RepositoryManager, captchas Captchas, log logging.Logger) *NoteService {
	return &NoteService{
		db:          db,
		repomanager: m,
		captchas:    captchas,
		nextID:      randomID,
		now:         time.Now,
		log:         log,
	}
}

func (s *NoteService) Challenge(ctx context.Context) (*models.Challenge, error) {
	ch, err := s.captchas.Issue()
	if err != nil {
		s.log.Error(ctx, "captcha issue failed", "error", err)
		return nil, common.ErrorInternal
	}
	return ch, nil
}

// Share stores note after redeeming captcha. A zero id is replaced by a
// free random one. When the note cannot be stored the captcha stays valid.
func (s *NoteService) Share(ctx context.Context, note *models.Note, captcha string) (*models.Note, error) {
	if strings.TrimSpace(note.Content) == "" {
		return nil, common.ErrEmptyNote
	}
	if note.ID != 0 && (note.ID < common.MinNoteID || note.ID > common.MaxNoteID) {
		return nil, common.ErrInvalidReference
	}

	undo, err := s.captchas.Consume(captcha)
	if err != nil {
		return nil, err
	}

	stored := *note
	stored.Shared = true
	if stored.ISODate.IsZero() {
		stored.ISODate = s.now().UTC()
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Notes(tx)
		if stored.ID == 0 {
			id, err := s.allocate(ctx, tx)
			if err != nil {
				return err
			}
			stored.ID = id
		}
		return repo.Insert(ctx, &stored)
	})
	if err != nil {
		undo()
		if !errors.Is(err, common.ErrAlreadyExists) {
			s.log.Error(ctx, "storing shared note failed", "id", stored.ID, "error", err)
		}
		return nil, err
	}

	s.log.Info(ctx, "note shared", "id", stored.ID)
	return &stored, nil
}

func (s *NoteService) allocate(ctx context.Context, tx dbx.DBTX) (int64, error) {
	repo := s.repomanager.Notes(tx)
	for range allocationAttempts {
		id := s.nextID()
		exists, err := repo.Exists(ctx, id)
		if err != nil {
			return 0, err
		}
		if !exists {
			return id, nil
		}
	}
	return 0, fmt.Errorf("no free id after %d attempts: %w", allocationAttempts, common.ErrorInternal)
}

func (s *NoteService) Get(ctx context.Context, id int64) (*models.Note, error) {
	return s.repomanager.Notes(s.db).Get(ctx, id)
}
