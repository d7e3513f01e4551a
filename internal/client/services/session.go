package services

import (
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/client/models"
	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/google/uuid"
)

// DefaultCooldown separates two challenge requests.
const DefaultCooldown = 5 * time.Second

// State is the phase of the current sharing attempt.
type State int

const (
	StateIdle State = iota
	StateChallengeRequested
	StateChallengeReady
	StateSubmitting
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateChallengeRequested:
		return "challenge requested"
	case StateChallengeReady:
		return "challenge ready"
	case StateSubmitting:
		return "submitting"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Session holds the in-memory sharing state of one client process: the
// cached challenge, the note being shared, the challenge cooldown and the
// set of submissions in flight. A Session is safe for concurrent use.
type Session struct {
	mu  sync.Mutex
	now func() time.Time

	cooldown      time.Duration
	requesting    bool
	cooldownUntil time.Time

	challenge *models.Challenge
	activeID  int64
	state     State

	inFlight map[uuid.UUID]int64
}

// NewSession returns an idle session. A non-positive cooldown selects
// DefaultCooldown; a nil now selects time.Now.
func NewSession(cooldown time.Duration, now func() time.Time) *Session {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	if now == nil {
		now = time.Now
	}
	return &Session{
		now:      now,
		cooldown: cooldown,
		inFlight: make(map[uuid.UUID]int64),
	}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// ActiveID returns the note the sharing flow operates on.
func (s *Session) ActiveID() (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID, s.activeID != 0
}

func (s *Session) SetActive(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeID = id
}

func (s *Session) clearActive(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.activeID == id {
		s.activeID = 0
	}
}

// Challenge returns a copy of the cached challenge.
func (s *Session) Challenge() (models.Challenge, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.challenge == nil {
		return models.Challenge{}, false
	}
	return *s.challenge, true
}

// beginChallengeRequest takes the cooldown latch. It fails while a request
// is outstanding and until the cooldown after the last one has elapsed.
func (s *Session) beginChallengeRequest() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.requesting || s.now().Before(s.cooldownUntil) {
		return common.ErrCooldown
	}
	s.requesting = true
	s.state = StateChallengeRequested
	return nil
}

func (s *Session) endChallengeRequest(ch *models.Challenge, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.requesting = false
	s.cooldownUntil = s.now().Add(s.cooldown)
	if err != nil {
		s.state = StateFailed
		return
	}
	s.challenge = ch
	s.state = StateChallengeReady
}

// Validate checks response against the cached challenge. Failures leave the
// challenge in place so the user can try again until it expires.
func (s *Session) Validate(response string) error {
	response = strings.TrimSpace(response)
	if response == "" {
		return common.ErrCaptchaRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.challenge == nil {
		return common.ErrNoChallenge
	}
	if !strings.EqualFold(response, s.challenge.Code) {
		return common.ErrCaptchaMismatch
	}
	if s.challenge.Expired(s.now()) {
		return common.ErrCaptchaExpired
	}
	return nil
}

// acquireSubmission registers a submission for id and returns its
// correlation id. Only one submission may be in flight at a time.
func (s *Session) acquireSubmission(id int64) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.inFlight) > 0 {
		return uuid.Nil, common.ErrSubmissionInFlight
	}
	key := uuid.New()
	s.inFlight[key] = id
	s.state = StateSubmitting
	return key, nil
}

// releaseSubmission ends the submission identified by key. A successful
// submission consumes the challenge.
func (s *Session) releaseSubmission(key uuid.UUID, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.inFlight, key)
	if err != nil {
		s.state = StateFailed
		return
	}
	s.challenge = nil
	s.state = StateSucceeded
}

// InFlight reports the number of submissions awaiting a response.
func (s *Session) InFlight() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.inFlight)
}
