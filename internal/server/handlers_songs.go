package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/judgeLC/VupPlaylist-sub000/internal/models"
	"github.com/judgeLC/VupPlaylist-sub000/internal/shared"
	"github.com/judgeLC/VupPlaylist-sub000/internal/store"
)

func (a *API) handleListSongs(w http.ResponseWriter, r *http.Request) {
	songs, _ := a.store.ReadSongs()
	ok(w, "", songs)
}

func (a *API) handleAddSong(w http.ResponseWriter, r *http.Request) {
	var song models.Song
	if err := json.NewDecoder(r.Body).Decode(&song); err != nil {
		fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	songs, genres := a.store.ReadSongs()
	next, added, err := store.AddSong(songs, song, time.Now())
	if err != nil {
		a.failStore(w, err)
		return
	}
	if !a.store.WriteSongs(next, genres) {
		fail(w, http.StatusInternalServerError, "failed to persist songs")
		return
	}

	a.hub.Broadcast(Event{Type: EventDataUpdated})
	ok(w, "歌曲已添加", added)
}

func (a *API) handleUpdateSong(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		fail(w, http.StatusBadRequest, "invalid song id")
		return
	}

	var song models.Song
	if err := json.NewDecoder(r.Body).Decode(&song); err != nil {
		fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	songs, genres := a.store.ReadSongs()
	next, updated, err := store.UpdateSong(songs, id, song)
	if err != nil {
		a.failStore(w, err)
		return
	}
	if !a.store.WriteSongs(next, genres) {
		fail(w, http.StatusInternalServerError, "failed to persist songs")
		return
	}

	a.hub.Broadcast(Event{Type: EventDataUpdated})
	ok(w, "歌曲已更新", updated)
}

func (a *API) handleDeleteSong(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		fail(w, http.StatusBadRequest, "invalid song id")
		return
	}

	songs, genres := a.store.ReadSongs()
	next, err := store.RemoveSong(songs, id)
	if err != nil {
		a.failStore(w, err)
		return
	}
	if !a.store.WriteSongs(next, genres) {
		fail(w, http.StatusInternalServerError, "failed to persist songs")
		return
	}

	a.hub.Broadcast(Event{Type: EventDataUpdated})
	ok(w, "歌曲已删除", nil)
}

// handleBatchSongs applies one operation to many songs at once.
//
// Body: {"action": "setField"|"delete", "ids": [...], "field": ..., "value": ...}
func (a *API) handleBatchSongs(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Action string  `json:"action"`
		IDs    []int64 `json:"ids"`
		Field  string  `json:"field"`
		Value  string  `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(body.IDs) == 0 {
		fail(w, http.StatusBadRequest, "ids are required")
		return
	}

	songs, genres := a.store.ReadSongs()

	var next []models.Song
	var affected int
	switch body.Action {
	case "setField":
		var err error
		next, affected, err = store.BatchSetField(songs, body.IDs, body.Field, body.Value)
		if err != nil {
			a.failStore(w, err)
			return
		}
	case "delete":
		next, affected = store.BatchDelete(songs, body.IDs)
	default:
		fail(w, http.StatusBadRequest, "unknown batch action")
		return
	}

	if !a.store.WriteSongs(next, genres) {
		fail(w, http.StatusInternalServerError, "failed to persist songs")
		return
	}

	a.hub.Broadcast(Event{Type: EventDataUpdated})
	ok(w, "", map[string]int{"affected": affected})
}

// failStore maps store-layer errors onto envelope responses.
func (a *API) failStore(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		fail(w, http.StatusNotFound, err.Error())
	case errors.Is(err, shared.ErrValidation), errors.Is(err, shared.ErrInvalidArgument):
		fail(w, http.StatusBadRequest, err.Error())
	default:
		a.logger.Error("store handler failure", "error", err)
		fail(w, http.StatusInternalServerError, "internal server error")
	}
}
