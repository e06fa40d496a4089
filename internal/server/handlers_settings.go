package server

import (
	"encoding/json"
	"net/http"

	"github.com/judgeLC/VupPlaylist-sub000/internal/models"
	"github.com/judgeLC/VupPlaylist-sub000/internal/store"
)

func (a *API) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	ok(w, "", a.store.ReadProfile())
}

func (a *API) handlePutProfile(w http.ResponseWriter, r *http.Request) {
	var profile models.Profile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !a.store.WriteProfile(profile) {
		fail(w, http.StatusInternalServerError, "failed to persist profile")
		return
	}

	a.hub.Broadcast(Event{Type: EventProfileUpdated})
	ok(w, "资料已更新", profile)
}

func (a *API) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	ok(w, "", map[string]models.Settings{"settings": a.store.ReadSettings()})
}

// handlePutSettings updates settings field-by-field: absent fields keep
// their current value, so a theme-only PUT does not clobber the command
// prefix.
func (a *API) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Theme         *string `json:"theme"`
		CommandPrefix *string `json:"commandPrefix"`
		CommandSuffix *string `json:"commandSuffix"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	settings := a.store.ReadSettings()
	themeChanged := false
	if body.Theme != nil && *body.Theme != settings.Theme {
		settings.Theme = *body.Theme
		themeChanged = true
	}
	if body.CommandPrefix != nil {
		settings.CommandPrefix = *body.CommandPrefix
	}
	if body.CommandSuffix != nil {
		settings.CommandSuffix = *body.CommandSuffix
	}

	if err := settings.Validate(); err != nil {
		a.failStore(w, err)
		return
	}
	if !a.store.WriteSettings(settings) {
		fail(w, http.StatusInternalServerError, "failed to persist settings")
		return
	}

	a.hub.Broadcast(Event{Type: EventSettingsUpdated})
	if themeChanged {
		// Theme gets its own event so display contexts can restyle without
		// re-pulling the full settings payload.
		a.hub.Broadcast(Event{Type: EventThemeUpdated, Data: map[string]string{"theme": settings.Theme}})
	}
	ok(w, "设置已更新", settings)
}

func (a *API) handleListGenres(w http.ResponseWriter, r *http.Request) {
	_, genres := a.store.ReadSongs()
	ok(w, "", genres)
}

// handlePutGenres replaces the genre list.
//
// Songs referencing a removed genre are left untouched; the display layer
// falls back to rendering the raw id.
func (a *API) handlePutGenres(w http.ResponseWriter, r *http.Request) {
	var genres []models.Genre
	if err := json.NewDecoder(r.Body).Decode(&genres); err != nil {
		fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := store.ValidateGenres(genres); err != nil {
		a.failStore(w, err)
		return
	}

	songs, _ := a.store.ReadSongs()
	if !a.store.WriteSongs(songs, genres) {
		fail(w, http.StatusInternalServerError, "failed to persist genres")
		return
	}

	a.hub.Broadcast(Event{Type: EventGenreUpdated})
	ok(w, "分类已更新", genres)
}

// handleUpdateData replaces profile and songs wholesale (import path).
//
// A failed import must leave the previous data intact, so the song list is
// written first and restored if the profile write fails afterwards.
func (a *API) handleUpdateData(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Profile *models.Profile `json:"profile"`
		Songs   []models.Song   `json:"songs"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	prevSongs, genres := a.store.ReadSongs()
	if body.Songs != nil {
		if !a.store.WriteSongs(body.Songs, genres) {
			fail(w, http.StatusInternalServerError, "failed to persist songs")
			return
		}
	}
	if body.Profile != nil {
		if !a.store.WriteProfile(*body.Profile) {
			if body.Songs != nil {
				a.store.WriteSongs(prevSongs, genres)
			}
			fail(w, http.StatusInternalServerError, "failed to persist profile")
			return
		}
	}

	a.hub.Broadcast(Event{Type: EventDataUpdated})
	a.hub.Broadcast(Event{Type: EventProfileUpdated})
	ok(w, "数据已导入", nil)
}
