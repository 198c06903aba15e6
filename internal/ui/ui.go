package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mixtape-labs/mixtape/internal/library"
	"github.com/mixtape-labs/mixtape/internal/models"
	"github.com/mixtape-labs/mixtape/internal/shared"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	SongListView ViewState = iota
	LikeListView
	DetailView
)

// Model represents the TUI application state.
type Model struct {
	library *library.Library
	userID  string
	view    ViewState
	prev    ViewState
	width   int
	height  int
	songs   list.Model
	likes   list.Model
	detail  string
	err     error
	help    help.Model
	keys    keyMap
}

// NewModel creates a new TUI model over the given library. userID is
// optional; when set, the likes view becomes available.
func NewModel(lib *library.Library, userID string) *Model {
	songs := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	songs.Title = "Songs"
	songs.SetShowHelp(false)

	likes := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	likes.Title = "Likes"
	likes.SetShowHelp(false)

	return &Model{
		library: lib,
		userID:  userID,
		view:    SongListView,
		songs:   songs,
		likes:   likes,
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// Init loads the stored songs and, when a user is set, their likes.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.loadSongs()}
	if m.userID != "" {
		cmds = append(cmds, m.loadLikes())
	}
	return tea.Batch(cmds...)
}

func (m *Model) loadSongs() tea.Cmd {
	return func() tea.Msg {
		songs, err := m.library.ListSongs()
		return songsLoadedMsg(songs, err)
	}
}

func (m *Model) loadLikes() tea.Cmd {
	return func() tea.Msg {
		likes, err := m.library.ListLikes(m.userID)
		if errors.Is(err, shared.ErrLikeNotFound) {
			return likesLoadedMsg(nil, nil)
		}
		return likesLoadedMsg(likes, err)
	}
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.songs.SetSize(msg.Width-4, msg.Height-8)
		m.likes.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)

	case Msg:
		return m.handleMsg(msg)
	}

	return m, nil
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.quit) {
		return m, tea.Quit
	}

	switch m.view {
	case DetailView:
		if key.Matches(msg, m.keys.back) {
			m.view = m.prev
		}
		return m, nil

	case SongListView:
		if key.Matches(msg, m.keys.tab) && m.userID != "" {
			m.view = LikeListView
			return m, nil
		}
		if key.Matches(msg, m.keys.enter) {
			if item, ok := m.songs.SelectedItem().(songItem); ok {
				m.showDetail(songDetail(item.song))
			}
			return m, nil
		}

		var cmd tea.Cmd
		m.songs, cmd = m.songs.Update(msg)
		return m, cmd

	case LikeListView:
		if key.Matches(msg, m.keys.tab) {
			m.view = SongListView
			return m, nil
		}
		if key.Matches(msg, m.keys.enter) {
			if item, ok := m.likes.SelectedItem().(likeItem); ok {
				m.showDetail(likeDetail(item.like))
			}
			return m, nil
		}

		var cmd tea.Cmd
		m.likes, cmd = m.likes.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgSongsLoaded:
		data := msg.data.(struct {
			songs []*models.Song
			err   error
		})
		if data.err != nil {
			m.err = data.err
			return m, nil
		}

		items := make([]list.Item, 0, len(data.songs))
		for _, song := range data.songs {
			items = append(items, songItem{song: song})
		}
		m.songs.SetItems(items)

	case MsgLikesLoaded:
		data := msg.data.(struct {
			likes []*models.Like
			err   error
		})
		if data.err != nil {
			m.err = data.err
			return m, nil
		}

		items := make([]list.Item, 0, len(data.likes))
		for _, like := range data.likes {
			items = append(items, likeItem{like: like})
		}
		m.likes.SetItems(items)
	}

	return m, nil
}

func (m *Model) showDetail(detail string) {
	m.prev = m.view
	m.detail = detail
	m.view = DetailView
}

// View renders the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v", m.err)) + "\n" + m.helpView()
	}

	switch m.view {
	case DetailView:
		return m.detail + "\n" + styles.help.Render("esc to go back")
	case LikeListView:
		return m.likes.View() + "\n" + m.helpView()
	default:
		return m.songs.View() + "\n" + m.helpView()
	}
}

func (m *Model) helpView() string {
	return m.help.View(m.keys)
}

func songDetail(song *models.Song) string {
	var b strings.Builder

	b.WriteString(styles.title.Render(song.Title) + "\n")
	b.WriteString(fmt.Sprintf("Artist: %s\n", song.Artist))
	b.WriteString(fmt.Sprintf("Popularity: %d\n", song.Popularity))
	b.WriteString(fmt.Sprintf("Catalog ID: %s\n", song.SpotifyID))
	if song.PreviewURL != "" {
		b.WriteString(fmt.Sprintf("Preview: %s\n", song.PreviewURL))
	}
	if song.ArtURL != "" {
		b.WriteString(fmt.Sprintf("Artwork: %s\n", song.ArtURL))
	}
	b.WriteString(fmt.Sprintf("Added: %s\n", song.CreatedAt.Format("2006-01-02 15:04")))

	return b.String()
}

func likeDetail(like *models.Like) string {
	var b strings.Builder

	b.WriteString(styles.title.Render(like.Title) + "\n")
	b.WriteString(fmt.Sprintf("Artist: %s\n", like.Artist))
	b.WriteString(fmt.Sprintf("Popularity: %d\n", like.Popularity))
	b.WriteString(fmt.Sprintf("Catalog ID: %s\n", like.SpotifyID))
	b.WriteString(styles.ok.Render(fmt.Sprintf("Liked: %s", like.CreatedAt.Format("2006-01-02 15:04"))) + "\n")

	return b.String()
}

// Run starts the TUI program and blocks until it exits.
func Run(lib *library.Library, userID string) error {
	program := tea.NewProgram(NewModel(lib, userID), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run browser: %w", err)
	}
	return nil
}
