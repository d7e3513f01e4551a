package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/notekeeper/internal/client/client"
	"github.com/dmitrijs2005/notekeeper/internal/client/models"
	"github.com/dmitrijs2005/notekeeper/internal/client/repositories/notes"
	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/logging"
)

// ShareResult is the outcome of starting a share.
type ShareResult struct {
	Note *models.Note
	// AlreadyShared is set when no challenge was requested because the
	// note is shared already.
	AlreadyShared bool
	Challenge     *models.Challenge
}

// ShareService publishes notes to the sharing service behind a captcha.
type ShareService struct {
	client    client.Client
	repo      notes.Repository
	notes     *NoteService
	session   *Session
	publicURL string
	log       logging.Logger
}

// NewShareService wires the sharing flow. publicURL is the address share
// links point to; the note id is appended as a query parameter.
func NewShareService(c client.Client, repo notes.Repository, noteService *NoteService, session *Session, publicURL string, log logging.Logger) *ShareService {
	return &ShareService{
		client:    c,
		repo:      repo,
		notes:     noteService,
		session:   session,
		publicURL: publicURL,
		log:       log,
	}
}

func (s *ShareService) Session() *Session { return s.session }

// RequestChallenge fetches a new captcha and caches it in the session.
// While a request is outstanding, and for the cooldown after it, further
// calls fail with common.ErrCooldown without touching the network.
func (s *ShareService) RequestChallenge(ctx context.Context) (*models.Challenge, error) {
	if err := s.session.beginChallengeRequest(); err != nil {
		return nil, err
	}

	ch, err := s.client.GetChallenge(ctx)
	s.session.endChallengeRequest(ch, err)
	if err != nil {
		s.log.Warn(ctx, "captcha request failed", "error", err)
		return nil, fmt.Errorf("error requesting captcha: %w", err)
	}
	return ch, nil
}

// Begin makes id the active note. A note that is shared already is
// returned as is; otherwise a challenge is requested for it.
func (s *ShareService) Begin(ctx context.Context, id int64) (*ShareResult, error) {
	n, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("note %d: %w", id, err)
	}
	s.session.SetActive(id)

	if n.Shared {
		return &ShareResult{Note: n, AlreadyShared: true}, nil
	}

	ch, err := s.RequestChallenge(ctx)
	if err != nil {
		return nil, err
	}
	return &ShareResult{Note: n, Challenge: ch}, nil
}

// Submit shares the active note using response as the captcha answer and
// replaces the local copy with the one returned by the service.
func (s *ShareService) Submit(ctx context.Context, response string) (*models.Note, error) {
	if err := s.session.Validate(response); err != nil {
		return nil, err
	}

	id, ok := s.session.ActiveID()
	if !ok {
		return nil, fmt.Errorf("no note selected: %w", common.ErrorNotFound)
	}

	key, err := s.session.acquireSubmission(id)
	if err != nil {
		return nil, err
	}

	n, err := s.repo.Get(ctx, id)
	if err != nil {
		err = fmt.Errorf("note %d: %w", id, err)
		s.session.releaseSubmission(key, err)
		return nil, err
	}

	shared, err := s.submit(ctx, n, response)
	s.session.releaseSubmission(key, err)
	return shared, err
}

// CreateAndShare stores content as a new note and shares it in one step.
// If the service rejects the note, or cannot be reached, the new local
// note is deleted again.
func (s *ShareService) CreateAndShare(ctx context.Context, content string, explicitID *int64, response string) (*models.Note, error) {
	if err := s.session.Validate(response); err != nil {
		return nil, err
	}

	key, err := s.session.acquireSubmission(0)
	if err != nil {
		return nil, err
	}

	draft, err := s.notes.Create(ctx, content, explicitID)
	if err == nil && draft == nil {
		err = common.ErrEmptyNote
	}
	if err != nil {
		s.session.releaseSubmission(key, err)
		return nil, err
	}

	shared, err := s.submit(ctx, draft, response)
	if err != nil {
		if derr := s.notes.Delete(ctx, draft.ID); derr != nil {
			s.log.Error(ctx, "failed to remove unshared draft", "id", draft.ID, "error", derr)
		}
	}
	s.session.releaseSubmission(key, err)
	return shared, err
}

func (s *ShareService) submit(ctx context.Context, n *models.Note, response string) (*models.Note, error) {
	shared, err := s.client.ShareNote(ctx, n, response)
	if err != nil {
		s.log.Warn(ctx, "share rejected", "id", n.ID, "error", err)
		return nil, fmt.Errorf("error sharing note: %w", err)
	}

	if !ValidID(shared.ID) {
		return nil, fmt.Errorf("error sharing note: service confirmed invalid id %d", shared.ID)
	}
	if shared.ID != n.ID {
		s.log.Warn(ctx, "service reassigned note id", "draft", n.ID, "id", shared.ID)
	}

	// The canonical copy takes the draft's place, also under a new id.
	if err := s.repo.Replace(ctx, n.ID, shared); err != nil {
		return nil, fmt.Errorf("error saving shared note: %w", err)
	}
	s.session.SetActive(shared.ID)
	s.notes.observer.NotesChanged(ctx)
	s.log.Info(ctx, "note shared", "id", shared.ID)
	return shared, nil
}

// ShareLink returns the address under which id can be opened.
func (s *ShareService) ShareLink(id int64) string {
	u, err := url.Parse(s.publicURL)
	if err != nil {
		return s.publicURL + "?" + common.NoteQueryParam + "=" + strconv.FormatInt(id, 10)
	}
	q := u.Query()
	q.Set(common.NoteQueryParam, strconv.FormatInt(id, 10))
	u.RawQuery = q.Encode()
	return u.String()
}
