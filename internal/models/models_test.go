package models

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/judgeLC/VupPlaylist-sub000/internal/shared"
)

func TestSong(t *testing.T) {
	t.Run("Validate", func(t *testing.T) {
		tests := []struct {
			name    string
			song    Song
			wantErr bool
		}{
			{"valid song", Song{Title: "晴天", Artist: "周杰伦"}, false},
			{"title only", Song{Title: "晴天"}, false},
			{"missing title", Song{Artist: "周杰伦"}, true},
			{"whitespace title", Song{Title: "   "}, true},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				err := tt.song.Validate()
				if tt.wantErr && err == nil {
					t.Error("expected validation error")
				}
				if !tt.wantErr && err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				if tt.wantErr && !errors.Is(err, shared.ErrValidation) {
					t.Errorf("expected ErrValidation, got %v", err)
				}
			})
		}
	})

	t.Run("JSON field names", func(t *testing.T) {
		song := Song{ID: 1700000000000, Title: "晴天", AddedDate: "2026-01-02T03:04:05Z"}
		data, err := json.Marshal(song)
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}
		out := string(data)
		for _, field := range []string{`"id"`, `"title"`, `"artist"`, `"genre"`, `"note"`, `"addedDate"`} {
			if !strings.Contains(out, field) {
				t.Errorf("JSON missing field %s, got: %s", field, out)
			}
		}
	})
}

func TestGenre(t *testing.T) {
	t.Run("Validate", func(t *testing.T) {
		if err := (Genre{ID: "pop", Name: "流行"}).Validate(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if err := (Genre{Name: "流行"}).Validate(); err == nil {
			t.Error("expected error for missing id")
		}
		if err := (Genre{ID: "pop", Name: " "}).Validate(); err == nil {
			t.Error("expected error for blank name")
		}
	})

	t.Run("NewCustomGenreID", func(t *testing.T) {
		now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		id := NewCustomGenreID(now)
		if id != "custom_1772366400000" {
			t.Errorf("unexpected custom genre id: %s", id)
		}
	})
}

func TestSettings(t *testing.T) {
	t.Run("Validate accepts light and dark", func(t *testing.T) {
		for _, theme := range []string{"light", "dark"} {
			if err := (Settings{Theme: theme}).Validate(); err != nil {
				t.Errorf("theme %q should be valid: %v", theme, err)
			}
		}
	})

	t.Run("Validate rejects unknown theme", func(t *testing.T) {
		err := Settings{Theme: "solarized"}.Validate()
		if !errors.Is(err, shared.ErrValidation) {
			t.Errorf("expected ErrValidation, got %v", err)
		}
	})
}

func TestMetadata(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	meta := Stamp(now)

	if meta.Version != "1.0" {
		t.Errorf("expected version 1.0, got %s", meta.Version)
	}
	if meta.LastModified != "2026-01-02T03:04:05Z" {
		t.Errorf("unexpected lastModified: %s", meta.LastModified)
	}
}

func TestSnapshot(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		var nilSnap *Snapshot
		if !nilSnap.Empty() {
			t.Error("nil snapshot should be empty")
		}
		if !(&Snapshot{}).Empty() {
			t.Error("zero snapshot should be empty")
		}
		if (&Snapshot{Songs: []Song{{Title: "x"}}}).Empty() {
			t.Error("snapshot with songs should not be empty")
		}
		settings := DefaultSettings()
		if (&Snapshot{Settings: &settings}).Empty() {
			t.Error("snapshot with settings should not be empty")
		}
	})
}

func TestDefaults(t *testing.T) {
	t.Run("genres are built-in with unique ids", func(t *testing.T) {
		genres := DefaultGenres()
		if len(genres) != 5 {
			t.Fatalf("expected 5 default genres, got %d", len(genres))
		}
		seen := map[string]bool{}
		for _, g := range genres {
			if !g.BuiltIn {
				t.Errorf("genre %s should be built-in", g.ID)
			}
			if seen[g.ID] {
				t.Errorf("duplicate genre id %s", g.ID)
			}
			seen[g.ID] = true
		}
	})

	t.Run("settings default to light theme", func(t *testing.T) {
		settings := DefaultSettings()
		if settings.Theme != "light" {
			t.Errorf("expected light theme, got %s", settings.Theme)
		}
		if settings.CommandPrefix != "点歌" {
			t.Errorf("unexpected command prefix: %s", settings.CommandPrefix)
		}
	})

	t.Run("profile has a website title", func(t *testing.T) {
		profile := DefaultProfile()
		if profile.WebsiteTitle == "" {
			t.Error("default profile should have a website title")
		}
	})
}
