package scores

import (
	"context"
	"fmt"
	"sync"

	"github.com/vovakirdan/space-dodger/internal/prefs"
)

// HistoryKey is the preference key holding the run set.
const HistoryKey = "history"

// HistoryStore keeps every run as a member of a string set in the
// preferences. Identical runs (same name, score and location) collapse into
// one member.
type HistoryStore struct {
	mu    sync.Mutex
	prefs *prefs.Prefs
	limit int
}

// NewHistoryStore creates a store over p. Load returns at most limit entries.
func NewHistoryStore(p *prefs.Prefs, limit int) *HistoryStore {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &HistoryStore{prefs: p, limit: limit}
}

// Record adds the run to the set and saves the preferences.
func (s *HistoryStore) Record(_ context.Context, e Entry) error {
	if err := Validate(e); err != nil {
		return err
	}
	if !e.HasLocation {
		e.Lat, e.Lng = 0, 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	set := s.prefs.GetStringSet(HistoryKey)
	set = append(set, FormatEntry(e))
	s.prefs.PutStringSet(HistoryKey, set)
	if err := s.prefs.Save(); err != nil {
		return fmt.Errorf("scores: cannot save history: %w", err)
	}
	return nil
}

// Load returns the best runs.
func (s *HistoryStore) Load(_ context.Context) ([]Entry, error) {
	return TopN(s.all(), s.limit), nil
}

// History returns every stored run in insertion order.
func (s *HistoryStore) History(_ context.Context) ([]Entry, error) {
	return s.all(), nil
}

func (s *HistoryStore) all() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	set := s.prefs.GetStringSet(HistoryKey)
	out := make([]Entry, 0, len(set))
	for _, member := range set {
		out = append(out, ParseEntry(member))
	}
	return out
}

var _ Store = (*HistoryStore)(nil)

var _ HistoryLoader = (*HistoryStore)(nil)
