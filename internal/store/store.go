// Package store implements the JSON file persistence layer for the playlist site.
//
// Three resources live under the data directory, each independently versioned:
//
//	data/songs.json    {songs, genres, metadata}
//	data/profile.json  {profile, metadata}
//	data/settings.json {settings, metadata}
//
// Reads never fail upward: an absent or unparsable file yields hard-coded
// defaults, persisted back best-effort. Writes are whole-file replaces done
// atomically (temp file + rename), stamp metadata.lastModified, and report
// success as a bool; a false return means the change is not durable and the
// caller should warn or retry. After every successful write the static
// snapshot (data.js) is regenerated.
package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/judgeLC/VupPlaylist-sub000/internal/models"
)

const (
	songsFile    = "songs.json"
	profileFile  = "profile.json"
	settingsFile = "settings.json"
)

// songsDocument is the on-disk shape of songs.json.
type songsDocument struct {
	Songs    []models.Song   `json:"songs"`
	Genres   []models.Genre  `json:"genres"`
	Metadata models.Metadata `json:"metadata"`
}

// profileDocument is the on-disk shape of profile.json.
type profileDocument struct {
	Profile  models.Profile  `json:"profile"`
	Metadata models.Metadata `json:"metadata"`
}

// settingsDocument is the on-disk shape of settings.json.
type settingsDocument struct {
	Settings models.Settings `json:"settings"`
	Metadata models.Metadata `json:"metadata"`
}

// Store reads and writes the three JSON resources under a data directory.
type Store struct {
	dir          string
	snapshotPath string
	logger       *log.Logger
	now          func() time.Time
}

// NewStore creates a Store rooted at dir.
//
// snapshotPath is where the generated data.js static snapshot is written;
// an empty path disables snapshot generation.
func NewStore(dir, snapshotPath string, logger *log.Logger) *Store {
	return &Store{
		dir:          dir,
		snapshotPath: snapshotPath,
		logger:       logger,
		now:          time.Now,
	}
}

// Init ensures the data directory and all three resource files exist,
// installing defaults where files are missing.
func (s *Store) Init() error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return err
	}
	s.ReadSongs()
	s.ReadProfile()
	s.ReadSettings()
	return nil
}

// ReadSongs returns the persisted song and genre lists.
//
// A missing or corrupt songs.json yields an empty song list and the built-in
// genres; the defaults are persisted back best-effort so the next read is clean.
func (s *Store) ReadSongs() ([]models.Song, []models.Genre) {
	var doc songsDocument
	if err := s.readJSON(songsFile, &doc); err != nil {
		s.logger.Warn("songs file unreadable, installing defaults", "error", err)
		doc = songsDocument{Songs: []models.Song{}, Genres: models.DefaultGenres()}
		s.WriteSongs(doc.Songs, doc.Genres)
		return doc.Songs, doc.Genres
	}
	if doc.Genres == nil {
		doc.Genres = models.DefaultGenres()
	}
	if doc.Songs == nil {
		doc.Songs = []models.Song{}
	}
	return doc.Songs, doc.Genres
}

// WriteSongs persists the song and genre lists, stamping fresh metadata.
func (s *Store) WriteSongs(songs []models.Song, genres []models.Genre) bool {
	doc := songsDocument{Songs: songs, Genres: genres, Metadata: models.Stamp(s.now())}
	return s.writeJSON(songsFile, doc)
}

// ReadProfile returns the persisted profile, falling back to defaults.
func (s *Store) ReadProfile() models.Profile {
	var doc profileDocument
	if err := s.readJSON(profileFile, &doc); err != nil {
		s.logger.Warn("profile file unreadable, installing defaults", "error", err)
		doc.Profile = models.DefaultProfile()
		s.WriteProfile(doc.Profile)
	}
	return doc.Profile
}

// WriteProfile persists the profile record, stamping fresh metadata.
func (s *Store) WriteProfile(p models.Profile) bool {
	doc := profileDocument{Profile: p, Metadata: models.Stamp(s.now())}
	return s.writeJSON(profileFile, doc)
}

// ReadSettings returns the persisted settings, falling back to defaults.
func (s *Store) ReadSettings() models.Settings {
	var doc settingsDocument
	if err := s.readJSON(settingsFile, &doc); err != nil {
		s.logger.Warn("settings file unreadable, installing defaults", "error", err)
		doc.Settings = models.DefaultSettings()
		s.WriteSettings(doc.Settings)
	}
	if doc.Settings.Theme == "" {
		doc.Settings = models.DefaultSettings()
	}
	return doc.Settings
}

// WriteSettings persists the settings record, stamping fresh metadata.
func (s *Store) WriteSettings(st models.Settings) bool {
	doc := settingsDocument{Settings: st, Metadata: models.Stamp(s.now())}
	return s.writeJSON(settingsFile, doc)
}

// Snapshot returns a full point-in-time copy of all three resources.
func (s *Store) Snapshot() *models.Snapshot {
	songs, genres := s.ReadSongs()
	profile := s.ReadProfile()
	settings := s.ReadSettings()
	return &models.Snapshot{Songs: songs, Genres: genres, Profile: &profile, Settings: &settings}
}

func (s *Store) readJSON(name string, v any) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// writeJSON atomically replaces the named file and regenerates the static
// snapshot. I/O failures are logged and reported as false, never panicked.
func (s *Store) writeJSON(name string, v any) bool {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		s.logger.Error("failed to encode resource", "file", name, "error", err)
		return false
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		s.logger.Error("failed to create data directory", "dir", s.dir, "error", err)
		return false
	}

	path := filepath.Join(s.dir, name)
	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		s.logger.Error("failed to create temp file", "file", name, "error", err)
		return false
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		s.logger.Error("failed to write temp file", "file", name, "error", err)
		return false
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		s.logger.Error("failed to close temp file", "file", name, "error", err)
		return false
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		s.logger.Error("failed to replace resource file", "file", name, "error", err)
		return false
	}

	if err := s.writeSnapshotJS(); err != nil {
		// Snapshot is a fallback copy; the authoritative write already landed.
		s.logger.Warn("failed to refresh static snapshot", "error", err)
	}

	return true
}
