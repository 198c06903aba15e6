package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/mixtape-labs/mixtape/internal/models"
)

var (
	_ list.Item = songItem{}
	_ list.Item = likeItem{}
)

// songItem wraps [models.Song] to implement [list.Item].
type songItem struct {
	song *models.Song
}

func (i songItem) FilterValue() string { return i.song.Title }
func (i songItem) Title() string       { return i.song.Title }
func (i songItem) Description() string {
	return fmt.Sprintf("%s • popularity %d", i.song.Artist, i.song.Popularity)
}

// likeItem wraps [models.Like] to implement [list.Item].
type likeItem struct {
	like *models.Like
}

func (i likeItem) FilterValue() string { return i.like.Title }
func (i likeItem) Title() string       { return i.like.Title }
func (i likeItem) Description() string {
	return fmt.Sprintf("%s • liked %s", i.like.Artist, i.like.CreatedAt.Format("2006-01-02"))
}
