// Package captcha issues short-lived verification codes. Only keyed
// digests of the issued codes are kept, so a memory dump does not reveal
// codes that are still valid.
package captcha

import (
	"crypto/rand"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"github.com/dmitrijs2005/notekeeper/internal/timex"
	"golang.org/x/crypto/blake2b"
)

type digest [blake2b.Size256]byte

// Store holds outstanding codes until they are used or expire. Codes are
// compared case-insensitively and each code is accepted once.
type Store struct {
	mu     sync.Mutex
	key    []byte
	ttl    time.Duration
	length int
	now    func() time.Time
	codes  map[digest]time.Time
}

// newCode is a seam for tests.
var newCode = common.RandomCode

// NewStore returns an empty store issuing codes of the given length that
// stay valid for ttl. A nil now selects time.Now.
func NewStore(ttl time.Duration, length int, now func() time.Time) (*Store, error) {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("captcha key: %w", err)
	}
	if now == nil {
		now = time.Now
	}
	return &Store{
		key:    key,
		ttl:    ttl,
		length: length,
		now:    now,
		codes:  make(map[digest]time.Time),
	}, nil
}

func (s *Store) digest(code string) digest {
	h, _ := blake2b.New256(s.key)
	h.Write([]byte(strings.ToLower(strings.TrimSpace(code))))
	var d digest
	copy(d[:], h.Sum(nil))
	return d
}

// Issue creates a new code. Expired codes are dropped on the way.
func (s *Store) Issue() (*models.Challenge, error) {
	code, err := newCode(s.length)
	if err != nil {
		return nil, fmt.Errorf("captcha code: %w", err)
	}

	now := s.now()
	expiry := now.Add(s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	for d, exp := range s.codes {
		if !now.Before(exp) {
			delete(s.codes, d)
		}
	}
	s.codes[s.digest(code)] = expiry

	return &models.Challenge{Code: code, Expiry: timex.UnixMillis{Time: expiry}}, nil
}

// Consume accepts code once. The returned undo puts the code back, for
// callers that fail after consuming it.
func (s *Store) Consume(code string) (undo func(), err error) {
	if strings.TrimSpace(code) == "" {
		return nil, common.ErrCaptchaRequired
	}

	d := s.digest(code)
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	expiry, ok := s.codes[d]
	if !ok {
		return nil, common.ErrCaptchaMismatch
	}
	delete(s.codes, d)
	if !now.Before(expiry) {
		return nil, common.ErrCaptchaExpired
	}

	return func() {
		s.mu.Lock()
		s.codes[d] = expiry
		s.mu.Unlock()
	}, nil
}

// Len returns the number of outstanding codes, expired ones included.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.codes)
}
