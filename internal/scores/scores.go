// Package scores defines high-score entries, their ranking and the
// preference-backed stores. The SQLite store lives in internal/storage.
package scores

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// DefaultLimit is the number of entries shown on the score list.
const DefaultLimit = 10

// ErrNoName is returned when a run is recorded without a player name.
var ErrNoName = errors.New("scores: player name required")

// Entry is one finished run.
type Entry struct {
	Name        string
	Score       int
	Mode        string
	Lat         float64
	Lng         float64
	HasLocation bool
	CreatedAt   time.Time
}

// Store persists finished runs. Load returns the top entries, best first.
type Store interface {
	Record(ctx context.Context, e Entry) error
	Load(ctx context.Context) ([]Entry, error)
}

// HistoryLoader is implemented by stores that keep every run, not only the
// best ones.
type HistoryLoader interface {
	History(ctx context.Context) ([]Entry, error)
}

// Validate checks an entry before it is recorded.
func Validate(e Entry) error {
	if strings.TrimSpace(e.Name) == "" {
		return ErrNoName
	}
	return nil
}

// TopN returns at most n entries sorted by score descending. Equal scores
// keep their input order. n <= 0 returns all entries. The input is not
// modified.
func TopN(entries []Entry, n int) []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Located returns the entries that carry a usable location. A latitude of
// exactly zero counts as "no fix".
func Located(entries []Entry) []Entry {
	var out []Entry
	for _, e := range entries {
		if e.HasLocation && e.Lat != 0 {
			out = append(out, e)
		}
	}
	return out
}

const sep = "|"

// FormatEntry encodes an entry as name|score|lat|lng.
func FormatEntry(e Entry) string {
	name := strings.ReplaceAll(e.Name, sep, "/")
	return strings.Join([]string{
		name,
		strconv.Itoa(e.Score),
		strconv.FormatFloat(e.Lat, 'f', -1, 64),
		strconv.FormatFloat(e.Lng, 'f', -1, 64),
	}, sep)
}

// ParseEntry decodes name|score|lat|lng. Missing or malformed fields take
// zero values; it never fails.
func ParseEntry(s string) Entry {
	parts := strings.Split(s, sep)
	field := func(i int) string {
		if i < len(parts) {
			return strings.TrimSpace(parts[i])
		}
		return ""
	}

	e := Entry{Name: field(0)}
	e.Score, _ = strconv.Atoi(field(1))
	if lat, err := strconv.ParseFloat(field(2), 64); err == nil {
		e.Lat = lat
	}
	if lng, err := strconv.ParseFloat(field(3), 64); err == nil {
		e.Lng = lng
	}
	e.HasLocation = e.Lat != 0 || e.Lng != 0
	return e
}

// FormatLocation renders coordinates for tables.
func FormatLocation(e Entry) string {
	if !e.HasLocation {
		return "-"
	}
	return fmt.Sprintf("%.2f, %.2f", e.Lat, e.Lng)
}
