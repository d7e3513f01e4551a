package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/notekeeper/internal/client/client"
	"github.com/dmitrijs2005/notekeeper/internal/client/models"
	"github.com/dmitrijs2005/notekeeper/internal/client/repositories/notes"
	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/logging"
)

var referencePattern = regexp.MustCompile(`^\d{6,9}$`)

// ParseReference validates a note code typed by the user.
func ParseReference(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if !referencePattern.MatchString(s) {
		return 0, common.ErrInvalidReference
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, common.ErrInvalidReference
	}
	return id, nil
}

// ConsumeReference removes the note parameter from u and returns its value.
// ok is false when u carries no such parameter. The parameter is removed
// even when it is malformed.
func ConsumeReference(u *url.URL) (id int64, ok bool, err error) {
	q := u.Query()
	if !q.Has(common.NoteQueryParam) {
		return 0, false, nil
	}
	raw := q.Get(common.NoteQueryParam)
	q.Del(common.NoteQueryParam)
	u.RawQuery = q.Encode()

	id, err = ParseReference(raw)
	if err != nil {
		return 0, true, err
	}
	return id, true, nil
}

// Source tells where a resolved note came from.
type Source int

const (
	SourceLocal Source = iota
	SourceRemote
)

func (s Source) String() string {
	if s == SourceRemote {
		return "remote"
	}
	return "local"
}

// RetrievalService opens notes by reference.
type RetrievalService struct {
	client   client.Client
	repo     notes.Repository
	observer Observer
	log      logging.Logger
}

func NewRetrievalService(c client.Client, repo notes.Repository, log logging.Logger) *RetrievalService {
	return &RetrievalService{client: c, repo: repo, observer: nopObserver{}, log: log}
}

func (s *RetrievalService) SetObserver(o Observer) {
	if o == nil {
		o = nopObserver{}
	}
	s.observer = o
}

// Resolve returns the local note with id, or fetches it from the sharing
// service and stores it. When the fetch fails nothing is stored.
func (s *RetrievalService) Resolve(ctx context.Context, id int64) (*models.Note, Source, error) {
	n, err := s.repo.Get(ctx, id)
	if err == nil {
		return n, SourceLocal, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, SourceLocal, fmt.Errorf("error retrieving note: %w", err)
	}

	remote, err := s.client.GetNote(ctx, id)
	if err != nil {
		s.log.Warn(ctx, "remote note lookup failed", "id", id, "error", err)
		return nil, SourceRemote, fmt.Errorf("note %d: %w", id, err)
	}

	switch {
	case remote.ID == 0:
		return nil, SourceRemote, fmt.Errorf("note %d: empty response: %w", id, common.ErrorNotFound)
	case remote.ID != id:
		s.log.Warn(ctx, "service returned a different note", "id", id, "got", remote.ID)
		return nil, SourceRemote, fmt.Errorf("note %d: service returned note %d: %w", id, remote.ID, common.ErrorInternal)
	}

	if _, err := s.repo.Put(ctx, remote); err != nil {
		return nil, SourceRemote, fmt.Errorf("error saving note: %w", err)
	}
	s.observer.NotesChanged(ctx)
	s.log.Info(ctx, "note fetched", "id", remote.ID)
	return remote, SourceRemote, nil
}

// ResolveCode parses a user-entered code and resolves it.
func (s *RetrievalService) ResolveCode(ctx context.Context, code string) (*models.Note, Source, error) {
	id, err := ParseReference(code)
	if err != nil {
		return nil, SourceLocal, err
	}
	return s.Resolve(ctx, id)
}

// ResolveURL resolves the note referenced by rawURL. The returned address
// has the reference removed, so opening it again does not repeat the
// lookup. A URL without reference yields a nil note.
func (s *RetrievalService) ResolveURL(ctx context.Context, rawURL string) (*models.Note, string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, rawURL, fmt.Errorf("invalid address: %w", err)
	}

	id, ok, err := ConsumeReference(u)
	cleaned := u.String()
	if !ok {
		return nil, cleaned, nil
	}
	if err != nil {
		return nil, cleaned, err
	}

	n, _, err := s.Resolve(ctx, id)
	return n, cleaned, err
}
