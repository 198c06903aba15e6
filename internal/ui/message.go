package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mixtape-labs/mixtape/internal/models"
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
	MsgSongsLoaded MsgKind = iota
	MsgLikesLoaded
)

// songsLoadedMsg is the constructor for [MsgSongsLoaded]
func songsLoadedMsg(songs []*models.Song, err error) Msg {
	return Msg{
		kind: MsgSongsLoaded,
		data: struct {
			songs []*models.Song
			err   error
		}{songs, err},
	}
}

// likesLoadedMsg is the constructor for [MsgLikesLoaded]
func likesLoadedMsg(likes []*models.Like, err error) Msg {
	return Msg{
		kind: MsgLikesLoaded,
		data: struct {
			likes []*models.Like
			err   error
		}{likes, err},
	}
}
