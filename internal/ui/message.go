package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/learndash/internal/models"
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
	MsgFavoriteToggled MsgKind = iota
	MsgVideoViewed
)

type favoriteToggled struct {
	id       int
	favorite bool
}

type videoViewed struct {
	video models.Video
	err   error
}

// favoriteToggledMsg is the constructor for [MsgFavoriteToggled]
func favoriteToggledMsg(id int, favorite bool) Msg {
	return Msg{kind: MsgFavoriteToggled, data: favoriteToggled{id, favorite}}
}

// videoViewedMsg is the constructor for [MsgVideoViewed]
func videoViewedMsg(video models.Video, err error) Msg {
	return Msg{kind: MsgVideoViewed, data: videoViewed{video, err}}
}
