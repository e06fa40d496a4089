package store

import (
	"fmt"
	"time"

	"github.com/judgeLC/VupPlaylist-sub000/internal/models"
	"github.com/judgeLC/VupPlaylist-sub000/internal/shared"
)

// Song collection operations are pure functions of (current collection, args):
// they return a new slice and never mutate their input, so a failed write can
// keep serving the pre-mutation state.

// NewSongID derives a song id from now, regenerating until it collides with
// no id in songs.
func NewSongID(songs []models.Song, now time.Time) int64 {
	id := now.UnixMilli()
	for hasSongID(songs, id) {
		id++
	}
	return id
}

func hasSongID(songs []models.Song, id int64) bool {
	for _, s := range songs {
		if s.ID == id {
			return true
		}
	}
	return false
}

// AddSong appends song to the collection with a generated id and addedDate.
func AddSong(songs []models.Song, song models.Song, now time.Time) ([]models.Song, models.Song, error) {
	if err := song.Validate(); err != nil {
		return songs, models.Song{}, err
	}

	song.ID = NewSongID(songs, now)
	if song.AddedDate == "" {
		song.AddedDate = now.Format(models.TimeFormat)
	}

	next := make([]models.Song, len(songs), len(songs)+1)
	copy(next, songs)
	return append(next, song), song, nil
}

// UpdateSong replaces the song with the given id, preserving id and addedDate.
func UpdateSong(songs []models.Song, id int64, song models.Song) ([]models.Song, models.Song, error) {
	if err := song.Validate(); err != nil {
		return songs, models.Song{}, err
	}

	next := make([]models.Song, len(songs))
	copy(next, songs)
	for i := range next {
		if next[i].ID == id {
			song.ID = id
			song.AddedDate = next[i].AddedDate
			next[i] = song
			return next, song, nil
		}
	}
	return songs, models.Song{}, fmt.Errorf("%w: song %d", shared.ErrNotFound, id)
}

// RemoveSong deletes the song with the given id.
func RemoveSong(songs []models.Song, id int64) ([]models.Song, error) {
	for i, s := range songs {
		if s.ID == id {
			next := make([]models.Song, 0, len(songs)-1)
			next = append(next, songs[:i]...)
			next = append(next, songs[i+1:]...)
			return next, nil
		}
	}
	return songs, fmt.Errorf("%w: song %d", shared.ErrNotFound, id)
}

// BatchSetField sets one field on every song whose id appears in ids.
//
// Supported fields are genre, note and artist. Ids with no matching song are
// skipped, not errors; an unknown field rejects the whole batch.
func BatchSetField(songs []models.Song, ids []int64, field, value string) ([]models.Song, int, error) {
	switch field {
	case "genre", "note", "artist":
	default:
		return songs, 0, fmt.Errorf("%w: unknown batch field %q", shared.ErrInvalidArgument, field)
	}

	wanted := make(map[int64]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}

	next := make([]models.Song, len(songs))
	copy(next, songs)
	updated := 0
	for i := range next {
		if !wanted[next[i].ID] {
			continue
		}
		switch field {
		case "genre":
			next[i].Genre = value
		case "note":
			next[i].Note = value
		case "artist":
			next[i].Artist = value
		}
		updated++
	}
	return next, updated, nil
}

// BatchDelete removes every song whose id appears in ids.
func BatchDelete(songs []models.Song, ids []int64) ([]models.Song, int) {
	wanted := make(map[int64]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}

	next := make([]models.Song, 0, len(songs))
	removed := 0
	for _, s := range songs {
		if wanted[s.ID] {
			removed++
			continue
		}
		next = append(next, s)
	}
	return next, removed
}

// ValidateGenres checks that ids and names are unique across the list.
//
// Name uniqueness is a case-sensitive exact match and applies to custom
// genres; built-in entries are trusted as-is.
func ValidateGenres(genres []models.Genre) error {
	ids := make(map[string]bool, len(genres))
	names := make(map[string]bool, len(genres))
	for _, g := range genres {
		if err := g.Validate(); err != nil {
			return err
		}
		if ids[g.ID] {
			return fmt.Errorf("%w: duplicate genre id %q", shared.ErrValidation, g.ID)
		}
		ids[g.ID] = true
		if g.BuiltIn {
			continue
		}
		if names[g.Name] {
			return fmt.Errorf("%w: duplicate genre name %q", shared.ErrValidation, g.Name)
		}
		names[g.Name] = true
	}
	return nil
}
