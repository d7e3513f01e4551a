package services

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/client/client"
	"github.com/dmitrijs2005/notekeeper/internal/client/models"
	"github.com/dmitrijs2005/notekeeper/internal/client/repositories/notes"
	"github.com/dmitrijs2005/notekeeper/internal/client/repositories/settings"
	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/logging"
	"github.com/dmitrijs2005/notekeeper/internal/timex"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 10, 15, 8, 30, 0, 0, time.UTC)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type seqIDs struct {
	ids   []int64
	calls int
}

func (s *seqIDs) NextID() int64 {
	id := s.ids[s.calls%len(s.ids)]
	s.calls++
	return id
}

// fakeClient is an in-memory sharing service. Shared notes are stored in
// remote and returned with shared=true.
type fakeClient struct {
	client.Client

	mu             sync.Mutex
	challenge      models.Challenge
	challengeErr   error
	shareErr       error
	getErr         error
	shareHook      func()
	assignID       func(int64) int64
	remote         map[int64]models.Note
	challengeCalls int
	shareCalls     int
	getCalls       int
	lastCaptcha    string
}

func newFakeClient() *fakeClient {
	return &fakeClient{remote: map[int64]models.Note{}}
}

func (f *fakeClient) GetChallenge(ctx context.Context) (*models.Challenge, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.challengeCalls++
	if f.challengeErr != nil {
		return nil, f.challengeErr
	}
	ch := f.challenge
	return &ch, nil
}

func (f *fakeClient) ShareNote(ctx context.Context, n *models.Note, captcha string) (*models.Note, error) {
	f.mu.Lock()
	f.shareCalls++
	f.lastCaptcha = captcha
	hook := f.shareHook
	f.mu.Unlock()

	if hook != nil {
		hook()
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.shareErr != nil {
		return nil, f.shareErr
	}
	out := *n
	out.Shared = true
	out.DateString = "server"
	if f.assignID != nil {
		out.ID = f.assignID(n.ID)
	}
	f.remote[out.ID] = out
	return &out, nil
}

func (f *fakeClient) GetNote(ctx context.Context, id int64) (*models.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	if f.getErr != nil {
		return nil, f.getErr
	}
	n, ok := f.remote[id]
	if !ok {
		return nil, &client.APIError{StatusCode: 404, Message: "note not found"}
	}
	return &n, nil
}

func (f *fakeClient) calls() (challenge, share, get int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.challengeCalls, f.shareCalls, f.getCalls
}

type memSink struct {
	name string
	data []byte
	err  error
}

func (m *memSink) Save(ctx context.Context, name string, data []byte) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.name, m.data = name, data
	return "mem://" + name, nil
}

type env struct {
	db        *sql.DB
	repo      *notes.SQLiteRepository
	clock     *fakeClock
	client    *fakeClient
	session   *Session
	sink      *memSink
	notes     *NoteService
	share     *ShareService
	retrieval *RetrievalService
	bundle    *BundleService
	changes   int
}

func newEnv(t *testing.T) *env {
	t.Helper()

	db, err := client.OpenDatabase(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	e := &env{
		db:     db,
		repo:   notes.NewSQLiteRepository(db),
		clock:  &fakeClock{t: t0},
		client: newFakeClient(),
		sink:   &memSink{},
	}
	e.client.challenge = models.Challenge{Code: "ab12cd", Expiry: timex.UnixMillis{Time: t0.Add(120 * time.Second)}}

	log := logging.Discard()
	e.session = NewSession(DefaultCooldown, e.clock.Now)
	e.notes = NewNoteService(e.repo, settings.NewSQLiteRepository(db), e.session, DateFormat{Location: time.UTC}, log)
	e.notes.now = e.clock.Now

	observer := ObserverFunc(func(context.Context) { e.changes++ })
	e.notes.SetObserver(observer)

	e.share = NewShareService(e.client, e.repo, e.notes, e.session, "http://127.0.0.1:8080/", log)
	e.retrieval = NewRetrievalService(e.client, e.repo, log)
	e.retrieval.SetObserver(observer)
	e.bundle = NewBundleService(e.repo, e.sink, log)
	e.bundle.SetObserver(observer)
	return e
}

func (e *env) count(t *testing.T) int {
	t.Helper()
	var n int
	require.NoError(t, e.db.QueryRow(`SELECT COUNT(*) FROM notes`).Scan(&n))
	return n
}

func (e *env) get(t *testing.T, id int64) *models.Note {
	t.Helper()
	n, err := e.repo.Get(context.Background(), id)
	if errors.Is(err, common.ErrorNotFound) {
		return nil
	}
	require.NoError(t, err)
	return n
}

func ptr[T any](v T) *T { return &v }
