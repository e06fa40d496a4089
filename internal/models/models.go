package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/judgeLC/VupPlaylist-sub000/internal/shared"
)

// TimeFormat is the wire format for addedDate and lastModified values.
const TimeFormat = time.RFC3339

// Song is one entry on the public song request list.
//
// Genre holds a [Genre] id, never a display name; an id with no matching
// genre is rendered as the raw string (deleting a genre does not cascade).
type Song struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Artist    string `json:"artist"`
	Genre     string `json:"genre"`
	Note      string `json:"note"`
	AddedDate string `json:"addedDate"`
}

// Validate checks that the song has the minimum required fields.
func (s Song) Validate() error {
	if strings.TrimSpace(s.Title) == "" {
		return fmt.Errorf("%w: song title is required", shared.ErrValidation)
	}
	return nil
}

// Genre is a category tag referenced by songs.
//
// Built-in genres use short slug ids; custom genres use ids of the form
// custom_<epoch-ms>. Names must be unique (exact match) among custom genres.
type Genre struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	BuiltIn bool   `json:"builtIn"`
}

// Validate checks that the genre has an id and a name.
func (g Genre) Validate() error {
	if g.ID == "" || strings.TrimSpace(g.Name) == "" {
		return fmt.Errorf("%w: genre id and name are required", shared.ErrValidation)
	}
	return nil
}

// NewCustomGenreID returns a fresh custom genre id derived from now.
func NewCustomGenreID(now time.Time) string {
	return fmt.Sprintf("custom_%d", now.UnixMilli())
}

// Profile is the single streamer profile record, replaced in place on update.
type Profile struct {
	WebsiteTitle   string `json:"websiteTitle"`
	VtuberName     string `json:"vtuberName"`
	VtuberUID      string `json:"vtuberUid"`
	VtuberBirthday string `json:"vtuberBirthday"`
	LiveRoomURL    string `json:"liveRoomUrl"`
	VtuberDesc     string `json:"vtuberDesc"`
	Avatar         string `json:"avatar"`
	Background     string `json:"background"`
}

// Settings holds site-wide display settings, replaced in place on update.
type Settings struct {
	Theme         string `json:"theme"`
	CommandPrefix string `json:"commandPrefix"`
	CommandSuffix string `json:"commandSuffix"`
}

// Validate checks that the theme is one of the supported values.
func (s Settings) Validate() error {
	if s.Theme != "light" && s.Theme != "dark" {
		return fmt.Errorf("%w: theme must be \"light\" or \"dark\"", shared.ErrValidation)
	}
	return nil
}

// Metadata is stamped onto every persisted resource on write.
//
// lastModified is display/debugging information only; writes never perform
// an optimistic-concurrency check against it (last writer wins).
type Metadata struct {
	Version      string `json:"version"`
	LastModified string `json:"lastModified"`
}

// Stamp returns metadata for a write happening at now.
func Stamp(now time.Time) Metadata {
	return Metadata{Version: "1.0", LastModified: now.Format(TimeFormat)}
}

// Snapshot is a full point-in-time copy of all resources from one data source.
type Snapshot struct {
	Songs    []Song    `json:"songs"`
	Genres   []Genre   `json:"genres"`
	Profile  *Profile  `json:"profile"`
	Settings *Settings `json:"settings"`
}

// Empty reports whether the snapshot carries no usable data.
//
// Source precedence during reconciliation stops at the first non-empty
// snapshot, so a source that answered with nothing must not win.
func (s *Snapshot) Empty() bool {
	if s == nil {
		return true
	}
	return len(s.Songs) == 0 && len(s.Genres) == 0 && s.Profile == nil && s.Settings == nil
}

// DefaultGenres returns the built-in genre set.
func DefaultGenres() []Genre {
	return []Genre{
		{ID: "pop", Name: "流行", BuiltIn: true},
		{ID: "guofeng", Name: "古风", BuiltIn: true},
		{ID: "japanese", Name: "日语", BuiltIn: true},
		{ID: "english", Name: "英语", BuiltIn: true},
		{ID: "other", Name: "其他", BuiltIn: true},
	}
}

// DefaultProfile returns the profile installed on first start.
func DefaultProfile() Profile {
	return Profile{
		WebsiteTitle: "歌单",
		VtuberName:   "虚拟主播",
		VtuberDesc:   "欢迎来到我的直播间点歌~",
	}
}

// DefaultSettings returns the settings installed on first start.
func DefaultSettings() Settings {
	return Settings{
		Theme:         "light",
		CommandPrefix: "点歌",
		CommandSuffix: "",
	}
}
