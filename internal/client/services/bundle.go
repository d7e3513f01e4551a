package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/notekeeper/internal/client/models"
	"github.com/dmitrijs2005/notekeeper/internal/client/repositories/notes"
	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/logging"
)

// Sink receives exported bundles. Save returns where the bundle ended up.
type Sink interface {
	Save(ctx context.Context, name string, data []byte) (string, error)
}

// BundleService exports notes as a JSON array and imports such arrays.
type BundleService struct {
	repo     notes.Repository
	sink     Sink
	observer Observer
	log      logging.Logger
}

func NewBundleService(repo notes.Repository, sink Sink, log logging.Logger) *BundleService {
	return &BundleService{repo: repo, sink: sink, observer: nopObserver{}, log: log}
}

func (s *BundleService) SetObserver(o Observer) {
	if o == nil {
		o = nopObserver{}
	}
	s.observer = o
}

// BundleName is the file name of an export: the note title for a single
// note, a generic name carrying the count otherwise.
func BundleName(list []models.Note) string {
	if len(list) == 1 {
		return safeFileName(list[0].TitleText) + ".json"
	}
	return fmt.Sprintf("backup-notes[length=%d].json", len(list))
}

func safeFileName(s string) string {
	s = strings.Map(func(r rune) rune {
		if r < 0x20 || strings.ContainsRune(`/\:*?"<>|`, r) {
			return '_'
		}
		return r
	}, strings.TrimSpace(s))
	if s == "" || s == "." || s == ".." {
		return "note"
	}
	return s
}

// Encode serialises notes the way Export writes them.
func Encode(list []models.Note) ([]byte, error) {
	if list == nil {
		list = []models.Note{}
	}
	return json.MarshalIndent(list, "", "  ")
}

// Export writes the notes with the given ids to the sink. Unknown ids are
// skipped; if none is left common.ErrNothingToExport is returned.
func (s *BundleService) Export(ctx context.Context, ids ...int64) (string, error) {
	list, err := s.repo.GetMany(ctx, ids)
	if err != nil {
		return "", fmt.Errorf("error retrieving notes: %w", err)
	}
	if len(list) == 0 {
		return "", common.ErrNothingToExport
	}

	data, err := Encode(list)
	if err != nil {
		return "", fmt.Errorf("error encoding notes: %w", err)
	}

	location, err := s.sink.Save(ctx, BundleName(list), data)
	if err != nil {
		return "", fmt.Errorf("error saving bundle: %w", err)
	}
	s.log.Info(ctx, "notes exported", "count", len(list), "location", location)
	return location, nil
}

// Import upserts every note of a JSON array read from r, replacing local
// notes with the same id. The first malformed element stops the import;
// notes before it stay stored. The number of stored notes is returned.
func (s *BundleService) Import(ctx context.Context, r io.Reader) (int, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", common.ErrImportFormat, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return 0, common.ErrImportFormat
	}

	count := 0
	defer func() {
		if count > 0 {
			s.observer.NotesChanged(ctx)
		}
	}()

	for dec.More() {
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return count, fmt.Errorf("%w: element %d: %v", common.ErrImportFormat, count, err)
		}
		if !bytes.HasPrefix(bytes.TrimSpace(raw), []byte("{")) {
			return count, fmt.Errorf("%w: element %d is not an object", common.ErrImportFormat, count)
		}

		var n models.Note
		if err := json.Unmarshal(raw, &n); err != nil {
			return count, fmt.Errorf("%w: element %d: %v", common.ErrImportFormat, count, err)
		}
		if n.ID < 0 || (n.ID != 0 && !ValidID(n.ID)) {
			return count, fmt.Errorf("%w: element %d has invalid id %d", common.ErrImportFormat, count, n.ID)
		}
		if _, err := s.repo.Put(ctx, &n); err != nil {
			return count, fmt.Errorf("error saving note %d: %w", n.ID, err)
		}
		count++
	}

	if _, err := dec.Token(); err != nil {
		return count, fmt.Errorf("%w: %v", common.ErrImportFormat, err)
	}

	s.log.Info(ctx, "notes imported", "count", count)
	return count, nil
}
