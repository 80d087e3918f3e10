package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/space-dodger/internal/config"
	"github.com/vovakirdan/space-dodger/internal/prefs"
	"github.com/vovakirdan/space-dodger/internal/scores"
	"github.com/vovakirdan/space-dodger/internal/storage"
)

func withFlags(t *testing.T, set func()) {
	t.Helper()
	saved := []string{flagStore, flagDBPath, flagLayout, flagDifficulty, flagConfig}
	t.Cleanup(func() {
		flagStore, flagDBPath, flagLayout, flagDifficulty, flagConfig = saved[0], saved[1], saved[2], saved[3], saved[4]
	})
	set()
}

func TestOpenStoreBackends(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := config.DefaultConfig()

	tests := []struct {
		backend string
		check   func(scores.Store) bool
	}{
		{"sqlite", func(s scores.Store) bool { _, ok := s.(*storage.Store); return ok }},
		{"history", func(s scores.Store) bool { _, ok := s.(*scores.HistoryStore); return ok }},
		{"table", func(s scores.Store) bool { _, ok := s.(*scores.TableStore); return ok }},
	}

	for _, tc := range tests {
		t.Run(tc.backend, func(t *testing.T) {
			withFlags(t, func() {
				flagStore = tc.backend
				flagDBPath = filepath.Join(tmpDir, tc.backend+".db")
			})

			store, closeStore, err := openStore(cfg, prefs.New())
			if err != nil {
				t.Fatalf("openStore: %v", err)
			}
			defer closeStore()

			if !tc.check(store) {
				t.Fatalf("unexpected store type %T", store)
			}
			if err := store.Record(context.Background(), scores.Entry{Name: "Ada", Score: 10}); err != nil {
				t.Fatalf("Record: %v", err)
			}
		})
	}
}

func TestOpenStoreUnknownBackend(t *testing.T) {
	withFlags(t, func() { flagStore = "redis" })

	if _, _, err := openStore(config.DefaultConfig(), prefs.New()); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestLoadConfigFlags(t *testing.T) {
	tests := []struct {
		name       string
		layout     string
		difficulty string
		wantErr    bool
		check      func(config.DodgerConfig) bool
	}{
		{"defaults", "", "", false, func(c config.DodgerConfig) bool { return c.Grid.Cols == 5 }},
		{"compact", "compact", "", false, func(c config.DodgerConfig) bool { return c.Grid.Cols == 3 }},
		{"fixed", "", "fixed", false, func(c config.DodgerConfig) bool { return !c.Ramp.Enabled }},
		{"unknown layout", "huge", "", true, nil},
		{"unknown difficulty", "", "insane", true, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			withFlags(t, func() {
				flagConfig = ""
				flagLayout = tc.layout
				flagDifficulty = tc.difficulty
			})

			cfg, err := loadConfig()
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("loadConfig: %v", err)
			}
			if !tc.check(cfg) {
				t.Errorf("unexpected config %+v", cfg)
			}
		})
	}
}
