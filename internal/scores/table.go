package scores

import (
	"context"
	"fmt"
	"sync"

	"github.com/vovakirdan/space-dodger/internal/prefs"
)

// TableStore keeps only the best runs as indexed preference keys:
// name_i, score_i, lat_i, lng_i for i < count.
type TableStore struct {
	mu    sync.Mutex
	prefs *prefs.Prefs
	limit int
}

// NewTableStore creates a store over p that retains limit entries.
func NewTableStore(p *prefs.Prefs, limit int) *TableStore {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &TableStore{prefs: p, limit: limit}
}

// Record inserts the run and trims the table to the best entries.
func (s *TableStore) Record(_ context.Context, e Entry) error {
	if err := Validate(e); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.readLocked()
	top := TopN(append(prev, e), s.limit)

	for i, entry := range top {
		s.prefs.PutString(key("name", i), entry.Name)
		s.prefs.PutInt(key("score", i), entry.Score)
		if entry.HasLocation {
			s.prefs.PutFloat(key("lat", i), entry.Lat)
			s.prefs.PutFloat(key("lng", i), entry.Lng)
		} else {
			s.prefs.Remove(key("lat", i))
			s.prefs.Remove(key("lng", i))
		}
	}
	for i := len(top); i < len(prev); i++ {
		for _, field := range []string{"name", "score", "lat", "lng"} {
			s.prefs.Remove(key(field, i))
		}
	}
	s.prefs.PutInt("count", len(top))

	if err := s.prefs.Save(); err != nil {
		return fmt.Errorf("scores: cannot save table: %w", err)
	}
	return nil
}

// Load returns the stored table, best first.
func (s *TableStore) Load(_ context.Context) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return TopN(s.readLocked(), s.limit), nil
}

func (s *TableStore) readLocked() []Entry {
	count := s.prefs.GetInt("count", 0)
	count = max(0, min(count, s.limit))

	out := make([]Entry, 0, count)
	for i := 0; i < count; i++ {
		e := Entry{
			Name:  s.prefs.GetString(key("name", i), ""),
			Score: s.prefs.GetInt(key("score", i), 0),
			Lat:   s.prefs.GetFloat(key("lat", i), 0),
			Lng:   s.prefs.GetFloat(key("lng", i), 0),
		}
		e.HasLocation = e.Lat != 0 || e.Lng != 0
		out = append(out, e)
	}
	return out
}

func key(field string, i int) string {
	return fmt.Sprintf("%s_%d", field, i)
}

var _ Store = (*TableStore)(nil)
