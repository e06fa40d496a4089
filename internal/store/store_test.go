package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/judgeLC/VupPlaylist-sub000/internal/models"
	"github.com/judgeLC/VupPlaylist-sub000/internal/shared"
	tu "github.com/judgeLC/VupPlaylist-sub000/internal/testing"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	logger := shared.NewLogger(nil)
	return NewStore(filepath.Join(dir, "data"), filepath.Join(dir, "data.js"), logger), dir
}

func TestStoreInit(t *testing.T) {
	st, dir := newTestStore(t)

	if err := st.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	for _, name := range []string{"songs.json", "profile.json", "settings.json"} {
		tu.AssertFileExists(t, filepath.Join(dir, "data", name))
	}
	tu.AssertFileExists(t, filepath.Join(dir, "data.js"))
}

func TestReadSongs(t *testing.T) {
	t.Run("missing file yields defaults and persists them", func(t *testing.T) {
		st, dir := newTestStore(t)

		songs, genres := st.ReadSongs()
		if len(songs) != 0 {
			t.Errorf("expected empty song list, got %d", len(songs))
		}
		if len(genres) != 5 {
			t.Errorf("expected default genres, got %d", len(genres))
		}

		// defaults were written back, second read comes from disk
		tu.AssertFileExists(t, filepath.Join(dir, "data", "songs.json"))
		songs2, genres2 := st.ReadSongs()
		if len(songs2) != 0 || len(genres2) != 5 {
			t.Errorf("re-read mismatch: %d songs, %d genres", len(songs2), len(genres2))
		}
	})

	t.Run("corrupt file yields defaults", func(t *testing.T) {
		st, dir := newTestStore(t)
		if err := st.Init(); err != nil {
			t.Fatalf("Init failed: %v", err)
		}
		tu.MustWriteFile(t, filepath.Join(dir, "data", "songs.json"), "{not json")

		songs, genres := st.ReadSongs()
		if len(songs) != 0 {
			t.Errorf("expected empty song list after corruption, got %d", len(songs))
		}
		if len(genres) != 5 {
			t.Errorf("expected default genres after corruption, got %d", len(genres))
		}
	})

	t.Run("round-trips written songs", func(t *testing.T) {
		st, _ := newTestStore(t)
		want := []models.Song{{ID: 1, Title: "赤伶", Artist: "HITA", Genre: "guofeng", AddedDate: "2026-01-02T03:04:05Z"}}

		if ok := st.WriteSongs(want, models.DefaultGenres()); !ok {
			t.Fatal("WriteSongs reported failure")
		}

		got, _ := st.ReadSongs()
		if len(got) != 1 || got[0].Title != "赤伶" || got[0].ID != 1 {
			t.Errorf("unexpected songs after round-trip: %+v", got)
		}
	})
}

func TestReadProfile(t *testing.T) {
	st, _ := newTestStore(t)

	t.Run("defaults when missing", func(t *testing.T) {
		profile := st.ReadProfile()
		if profile.WebsiteTitle != "歌单" {
			t.Errorf("unexpected default title: %s", profile.WebsiteTitle)
		}
	})

	t.Run("round-trip", func(t *testing.T) {
		want := models.Profile{WebsiteTitle: "小鱼的歌单", VtuberName: "小鱼", LiveRoomURL: "https://live.example.com/123"}
		if ok := st.WriteProfile(want); !ok {
			t.Fatal("WriteProfile reported failure")
		}
		got := st.ReadProfile()
		if got != want {
			t.Errorf("profile mismatch: got %+v", got)
		}
	})
}

func TestReadSettings(t *testing.T) {
	st, _ := newTestStore(t)

	t.Run("defaults when missing", func(t *testing.T) {
		settings := st.ReadSettings()
		if settings.Theme != "light" {
			t.Errorf("unexpected default theme: %s", settings.Theme)
		}
	})

	t.Run("round-trip", func(t *testing.T) {
		want := models.Settings{Theme: "dark", CommandPrefix: "点歌", CommandSuffix: "谢谢"}
		if ok := st.WriteSettings(want); !ok {
			t.Fatal("WriteSettings reported failure")
		}
		got := st.ReadSettings()
		if got != want {
			t.Errorf("settings mismatch: got %+v", got)
		}
	})
}

func TestWriteStampsMetadata(t *testing.T) {
	st, dir := newTestStore(t)

	if ok := st.WriteSongs([]models.Song{}, models.DefaultGenres()); !ok {
		t.Fatal("WriteSongs reported failure")
	}

	raw := tu.MustReadFile(t, filepath.Join(dir, "data", "songs.json"))
	var doc songsDocument
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("songs.json is not valid JSON: %v", err)
	}
	if doc.Metadata.Version != "1.0" {
		t.Errorf("expected metadata version 1.0, got %s", doc.Metadata.Version)
	}
	if doc.Metadata.LastModified == "" {
		t.Error("expected lastModified to be stamped")
	}
}

func TestWriteFailureLeavesOldFile(t *testing.T) {
	st, dir := newTestStore(t)
	if ok := st.WriteSongs([]models.Song{{ID: 1, Title: "keep"}}, models.DefaultGenres()); !ok {
		t.Fatal("initial write failed")
	}

	// Make the data directory read-only so the temp file cannot be created.
	dataDir := filepath.Join(dir, "data")
	if err := os.Chmod(dataDir, 0555); err != nil {
		t.Fatalf("chmod failed: %v", err)
	}
	defer os.Chmod(dataDir, 0755)

	if ok := st.WriteSongs([]models.Song{{ID: 2, Title: "lost"}}, models.DefaultGenres()); ok {
		t.Skip("filesystem permits writes despite read-only directory")
	}

	os.Chmod(dataDir, 0755)
	songs, _ := st.ReadSongs()
	if len(songs) != 1 || songs[0].Title != "keep" {
		t.Errorf("old data not preserved after failed write: %+v", songs)
	}
}

func TestSnapshotJS(t *testing.T) {
	t.Run("regenerated after every write", func(t *testing.T) {
		st, dir := newTestStore(t)

		if ok := st.WriteSongs([]models.Song{{ID: 1, Title: "晴天"}}, models.DefaultGenres()); !ok {
			t.Fatal("WriteSongs reported failure")
		}

		content := tu.MustReadFile(t, filepath.Join(dir, "data.js"))
		if !strings.Contains(content, "window.officialData = ") {
			t.Error("data.js missing window.officialData assignment")
		}
		if !strings.Contains(content, "晴天") {
			t.Error("data.js missing written song")
		}
		if !strings.HasSuffix(strings.TrimSpace(content), ";") {
			t.Error("data.js should end with a semicolon")
		}
	})

	t.Run("disabled with empty path", func(t *testing.T) {
		dir := t.TempDir()
		st := NewStore(filepath.Join(dir, "data"), "", shared.NewLogger(nil))

		if ok := st.WriteSongs([]models.Song{}, models.DefaultGenres()); !ok {
			t.Fatal("WriteSongs reported failure")
		}
		if _, err := os.Stat(filepath.Join(dir, "data.js")); !os.IsNotExist(err) {
			t.Error("data.js should not exist when snapshot path is empty")
		}
	})
}

func TestParseSnapshotJS(t *testing.T) {
	t.Run("parses generated snapshot", func(t *testing.T) {
		st, dir := newTestStore(t)
		if ok := st.WriteSongs([]models.Song{{ID: 7, Title: "snapshot song"}}, models.DefaultGenres()); !ok {
			t.Fatal("WriteSongs reported failure")
		}

		raw := tu.MustReadFile(t, filepath.Join(dir, "data.js"))
		payload, err := ParseSnapshotJS([]byte(raw))
		if err != nil {
			t.Fatalf("ParseSnapshotJS failed: %v", err)
		}

		var songs []models.Song
		if err := json.Unmarshal(payload["songs"], &songs); err != nil {
			t.Fatalf("failed to decode songs payload: %v", err)
		}
		if len(songs) != 1 || songs[0].ID != 7 {
			t.Errorf("unexpected songs payload: %+v", songs)
		}
	})

	t.Run("rejects input without an object", func(t *testing.T) {
		if _, err := ParseSnapshotJS([]byte("window.officialData = null;")); err == nil {
			t.Error("expected error for snapshot without object")
		}
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		if _, err := ParseSnapshotJS([]byte("window.officialData = {broken;")); err == nil {
			t.Error("expected error for malformed snapshot")
		}
	})
}

func TestStoreSnapshot(t *testing.T) {
	st, _ := newTestStore(t)
	if err := st.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	snap := st.Snapshot()
	if snap.Empty() {
		t.Error("snapshot of an initialized store should not be empty")
	}
	if snap.Profile == nil || snap.Settings == nil {
		t.Fatal("snapshot missing profile or settings")
	}
	if snap.Settings.Theme != "light" {
		t.Errorf("unexpected theme: %s", snap.Settings.Theme)
	}
}
