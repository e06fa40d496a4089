package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/judgeLC/VupPlaylist-sub000/internal/client"
	"github.com/judgeLC/VupPlaylist-sub000/internal/models"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgAuthChecked MsgKind = iota
	MsgLoggedIn
	MsgPasswordSet
	MsgSongsFetched
	MsgSongAdded
	MsgSongDeleted
	MsgLoggedOut
)

type flowResult struct {
	state client.FlowState
	err   error
}

// authCheckedMsg is the constructor for [MsgAuthChecked]
func authCheckedMsg(state client.FlowState, err error) Msg {
	return Msg{kind: MsgAuthChecked, data: flowResult{state, err}}
}

// loggedInMsg is the constructor for [MsgLoggedIn]
func loggedInMsg(state client.FlowState, err error) Msg {
	return Msg{kind: MsgLoggedIn, data: flowResult{state, err}}
}

// passwordSetMsg is the constructor for [MsgPasswordSet]
func passwordSetMsg(state client.FlowState, err error) Msg {
	return Msg{kind: MsgPasswordSet, data: flowResult{state, err}}
}

// songsFetchedMsg is the constructor for [MsgSongsFetched]
func songsFetchedMsg(songs []models.Song, err error) Msg {
	return Msg{
		kind: MsgSongsFetched,
		data: struct {
			songs []models.Song
			err   error
		}{songs, err},
	}
}

// songAddedMsg is the constructor for [MsgSongAdded]
func songAddedMsg(song *models.Song, err error) Msg {
	return Msg{
		kind: MsgSongAdded,
		data: struct {
			song *models.Song
			err  error
		}{song, err},
	}
}

// songDeletedMsg is the constructor for [MsgSongDeleted]
func songDeletedMsg(id int64, err error) Msg {
	return Msg{
		kind: MsgSongDeleted,
		data: struct {
			id  int64
			err error
		}{id, err},
	}
}

// loggedOutMsg is the constructor for [MsgLoggedOut]
func loggedOutMsg() Msg {
	return Msg{kind: MsgLoggedOut}
}
