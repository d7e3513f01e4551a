package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/client/markdown"
	"github.com/dmitrijs2005/notekeeper/internal/client/models"
	"github.com/dmitrijs2005/notekeeper/internal/client/repositories/notes"
	"github.com/dmitrijs2005/notekeeper/internal/client/repositories/settings"
	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/logging"
)

// DefaultDateLayout renders dateString as hour:minute day/month/year.
const DefaultDateLayout = "15:04 02/01/2006"

// DateFormat controls how dateString is rendered.
type DateFormat struct {
	Location *time.Location
	Layout   string
}

func (f DateFormat) format(t time.Time) string {
	loc := f.Location
	if loc == nil {
		loc = time.UTC
	}
	layout := f.Layout
	if layout == "" {
		layout = DefaultDateLayout
	}
	return t.In(loc).Format(layout)
}

// NoteService creates, edits and lists notes in the local store.
type NoteService struct {
	repo     notes.Repository
	prefs    settings.Repository
	session  *Session
	deriver  *markdown.Deriver
	ids      IDGenerator
	observer Observer
	dates    DateFormat
	now      func() time.Time
	log      logging.Logger
}

func NewNoteService(repo notes.Repository, prefs settings.Repository, session *Session, dates DateFormat, log logging.Logger) *NoteService {
	return &NoteService{
		repo:     repo,
		prefs:    prefs,
		session:  session,
		deriver:  markdown.NewDeriver(),
		ids:      RandomIDs(),
		observer: nopObserver{},
		dates:    dates,
		now:      time.Now,
		log:      log,
	}
}

// SetObserver registers the list view to refresh after changes.
func (s *NoteService) SetObserver(o Observer) {
	if o == nil {
		o = nopObserver{}
	}
	s.observer = o
}

func (s *NoteService) build(id int64, content string, d markdown.Derived, shared bool) *models.Note {
	now := s.now()
	return &models.Note{
		ID:         id,
		TitleText:  d.Title,
		Content:    content,
		PlainText:  d.PlainText,
		DateString: s.dates.format(now),
		ISODate:    now.UTC(),
		Shared:     shared,
	}
}

// Create stores a new unshared note. When explicitID is nil a random id is
// drawn. An occupied id fails with common.ErrAlreadyExists and is not
// retried. Content without visible text is not stored and yields (nil, nil).
func (s *NoteService) Create(ctx context.Context, content string, explicitID *int64) (*models.Note, error) {
	d := s.deriver.Derive(content)
	if d.Empty() {
		s.log.Debug(ctx, "empty note not saved")
		return nil, nil
	}

	var id int64
	if explicitID != nil {
		id = *explicitID
		if !ValidID(id) {
			return nil, common.ErrInvalidReference
		}
	} else {
		id = s.ids.NextID()
	}

	n := s.build(id, content, d, false)
	if err := s.repo.Insert(ctx, n); err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, fmt.Errorf("note %d: %w", id, err)
		}
		return nil, fmt.Errorf("error saving note: %w", err)
	}

	s.session.SetActive(id)
	s.observer.NotesChanged(ctx)
	s.log.Info(ctx, "note created", "id", id)
	return n, nil
}

// Update re-derives the note from content keeping its id and shared flag.
// A missing id is logged and ignored, as is content without visible text.
func (s *NoteService) Update(ctx context.Context, id int64, content string) (*models.Note, error) {
	existing, err := s.repo.Get(ctx, id)
	if errors.Is(err, common.ErrorNotFound) {
		s.log.Warn(ctx, "update of unknown note ignored", "id", id)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error retrieving note: %w", err)
	}

	d := s.deriver.Derive(content)
	if d.Empty() {
		s.log.Debug(ctx, "empty note not saved", "id", id)
		return nil, nil
	}

	n := s.build(existing.ID, content, d, existing.Shared)
	if _, err := s.repo.Put(ctx, n); err != nil {
		return nil, fmt.Errorf("error saving note: %w", err)
	}

	s.observer.NotesChanged(ctx)
	return n, nil
}

func (s *NoteService) Get(ctx context.Context, id int64) (*models.Note, error) {
	n, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("note %d: %w", id, err)
	}
	return n, nil
}

// List returns all notes ordered by field, or by the saved preference when
// field is empty.
func (s *NoteService) List(ctx context.Context, field models.SortField) ([]models.Note, error) {
	if field == "" {
		var err error
		if field, err = s.SortOrder(ctx); err != nil {
			return nil, err
		}
	}
	list, err := s.repo.ListSortedBy(ctx, field)
	if err != nil {
		return nil, fmt.Errorf("error listing notes: %w", err)
	}
	return list, nil
}

// Search returns the notes whose title or plain text contains query,
// ignoring case, in the saved sort order.
func (s *NoteService) Search(ctx context.Context, query string) ([]models.Note, error) {
	list, err := s.List(ctx, "")
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return list, nil
	}

	result := make([]models.Note, 0, len(list))
	for _, n := range list {
		if strings.Contains(strings.ToLower(n.TitleText), q) || strings.Contains(strings.ToLower(n.PlainText), q) {
			result = append(result, n)
		}
	}
	return result, nil
}

// Delete removes one or more notes. Several ids are removed atomically.
func (s *NoteService) Delete(ctx context.Context, ids ...int64) error {
	var err error
	switch len(ids) {
	case 0:
		return nil
	case 1:
		err = s.repo.Delete(ctx, ids[0])
	default:
		err = s.repo.DeleteMany(ctx, ids)
	}
	if err != nil {
		return fmt.Errorf("error deleting notes: %w", err)
	}

	for _, id := range ids {
		s.session.clearActive(id)
	}
	s.observer.NotesChanged(ctx)
	return nil
}

func (s *NoteService) SortOrder(ctx context.Context) (models.SortField, error) {
	v, err := s.prefs.Get(ctx, settings.KeySortOrder)
	if err != nil {
		return "", err
	}
	field, err := models.ParseSortField(string(v))
	if err != nil {
		s.log.Warn(ctx, "ignoring stored sort order", "value", string(v))
		return models.SortByTitle, nil
	}
	return field, nil
}

func (s *NoteService) SetSortOrder(ctx context.Context, field models.SortField) error {
	return s.prefs.Set(ctx, settings.KeySortOrder, []byte(field))
}

// ConfirmDelete reports whether deletions must be confirmed. Defaults to true.
func (s *NoteService) ConfirmDelete(ctx context.Context) (bool, error) {
	v, err := s.prefs.Get(ctx, settings.KeyConfirmDelete)
	if err != nil {
		return true, err
	}
	if v == nil {
		return true, nil
	}
	b, err := strconv.ParseBool(string(v))
	if err != nil {
		return true, nil
	}
	return b, nil
}

func (s *NoteService) SetConfirmDelete(ctx context.Context, confirm bool) error {
	return s.prefs.Set(ctx, settings.KeyConfirmDelete, []byte(strconv.FormatBool(confirm)))
}
