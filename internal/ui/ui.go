package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/learndash/internal/catalog"
	"github.com/desertthunder/learndash/internal/models"
	"github.com/desertthunder/learndash/internal/session"
	"github.com/desertthunder/learndash/internal/shared"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	BrowseView ViewState = iota
	FavoritesView
	DetailView
)

// Model represents the TUI application state.
type Model struct {
	ctx        context.Context
	view       ViewState
	returnView ViewState
	catalog    *catalog.Catalog
	session    *session.Manager
	user       models.PublicUser
	categories []string
	category   int
	search     textinput.Model
	videos     list.Model
	detail     *models.Video
	status     string
	err        error
	width      int
	height     int
	help       help.Model
	keys       keyMap
}

// NewModel creates a dashboard for user over cat. Favorites are read and written through mgr.
func NewModel(ctx context.Context, cat *catalog.Catalog, mgr *session.Manager, user models.PublicUser) *Model {
	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "Search videos"

	videos := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	videos.SetFilteringEnabled(false)
	videos.SetShowHelp(false)
	videos.DisableQuitKeybindings()

	m := &Model{
		ctx:        ctx,
		view:       BrowseView,
		catalog:    cat,
		session:    mgr,
		user:       user,
		categories: cat.Categories(),
		search:     search,
		videos:     videos,
		help:       help.New(),
		keys:       newKeyMap(),
	}
	m.refresh()
	return m
}

// Query returns the current search text.
func (m *Model) Query() string {
	return m.search.Value()
}

// Category returns the selected category filter.
func (m *Model) Category() string {
	return m.categories[m.category]
}

// State returns the current view.
func (m *Model) State() ViewState {
	return m.view
}

// Visible returns the videos currently listed.
func (m *Model) Visible() []models.Video {
	items := m.videos.Items()
	out := make([]models.Video, 0, len(items))
	for _, it := range items {
		if v, ok := it.(videoItem); ok {
			out = append(out, v.video)
		}
	}
	return out
}

func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.videos.SetSize(msg.Width-4, msg.Height-10)
		m.search.Width = msg.Width - 8
		return m, nil

	case tea.KeyMsg:
		if m.search.Focused() {
			return m.handleSearchKeys(msg)
		}
		if m.view == DetailView {
			return m.handleDetailKeys(msg)
		}
		return m.handleListKeys(msg)

	case Msg:
		return m.handleMsg(msg)
	}

	var cmd tea.Cmd
	m.videos, cmd = m.videos.Update(msg)
	return m, cmd
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgFavoriteToggled:
		data := msg.data.(favoriteToggled)
		if data.favorite {
			m.status = "Added to favorites"
		} else {
			m.status = "Removed from favorites"
		}
		m.refresh()

	case MsgVideoViewed:
		data := msg.data.(videoViewed)
		if data.err != nil {
			m.err = data.err
			return m, nil
		}
		m.err = nil
		m.detail = &data.video
		if m.view != DetailView {
			m.returnView = m.view
		}
		m.view = DetailView
		m.status = ""
	}
	return m, nil
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc, tea.KeyEnter:
		m.search.Blur()
		return m, nil
	case tea.KeyTab:
		m.nextCategory()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.refresh()
	return m, cmd
}

func (m *Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.search):
		m.view = BrowseView
		m.status = ""
		m.refresh()
		return m, m.search.Focus()

	case key.Matches(msg, m.keys.category):
		m.nextCategory()
		return m, nil

	case key.Matches(msg, m.keys.favorite):
		if v, ok := m.selected(); ok {
			return m, m.toggleFavorite(v.ID)
		}
		return m, nil

	case key.Matches(msg, m.keys.favorites):
		if m.view == FavoritesView {
			m.view = BrowseView
		} else {
			m.view = FavoritesView
		}
		m.status = ""
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.enter):
		if v, ok := m.selected(); ok {
			return m, m.openVideo(v.ID)
		}
		return m, nil

	case key.Matches(msg, m.keys.back):
		if m.view == FavoritesView {
			m.view = BrowseView
			m.refresh()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.videos, cmd = m.videos.Update(msg)
	return m, cmd
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = m.returnView
		m.detail = nil
		m.refresh()
	case key.Matches(msg, m.keys.favorite):
		if m.detail != nil {
			return m, m.toggleFavorite(m.detail.ID)
		}
	}
	return m, nil
}

func (m *Model) nextCategory() {
	m.category = (m.category + 1) % len(m.categories)
	if m.view == FavoritesView {
		m.view = BrowseView
	}
	m.refresh()
}

// refresh rebuilds the list from the catalog for the current view, query and category.
func (m *Model) refresh() {
	favorites := m.session.Favorites()

	var videos []models.Video
	if m.view == FavoritesView {
		videos = m.catalog.Favorites(favorites)
		m.videos.Title = fmt.Sprintf("Favorites (%d)", len(videos))
	} else {
		videos = m.catalog.Search(m.Query(), m.Category())
		m.videos.Title = fmt.Sprintf("Videos • %s (%d)", m.Category(), len(videos))
	}

	items := make([]list.Item, len(videos))
	for i, v := range videos {
		items[i] = videoItem{video: v, favorite: favorites.Has(v.ID)}
	}
	m.videos.SetItems(items)
	if m.videos.Index() >= len(items) {
		m.videos.ResetSelected()
	}
}

func (m *Model) selected() (models.Video, bool) {
	item, ok := m.videos.SelectedItem().(videoItem)
	if !ok {
		return models.Video{}, false
	}
	return item.video, true
}

func (m *Model) toggleFavorite(id int) tea.Cmd {
	return func() tea.Msg {
		return favoriteToggledMsg(id, m.session.ToggleFavorite(m.ctx, id))
	}
}

func (m *Model) openVideo(id int) tea.Cmd {
	return func() tea.Msg {
		video, err := m.catalog.RecordView(id, m.user.Identifier)
		return videoViewedMsg(video, err)
	}
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	header := styles.title.Render(fmt.Sprintf("LearnDash • %s (%s)", m.user.DisplayName, m.user.Role))

	if m.err != nil {
		return fmt.Sprintf("%s\n%s", header, styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err)))
	}

	if m.view == DetailView && m.detail != nil {
		return fmt.Sprintf("%s\n%s", header, m.renderDetail())
	}
	return fmt.Sprintf("%s\n%s", header, m.renderList())
}

func (m *Model) renderCategories() string {
	parts := make([]string, len(m.categories))
	for i, c := range m.categories {
		if i == m.category {
			parts[i] = styles.selected.Render(c)
		} else {
			parts[i] = c
		}
	}
	return strings.Join(parts, "  ")
}

func (m *Model) renderList() string {
	var b strings.Builder

	b.WriteString(m.search.View())
	b.WriteString("\n")
	b.WriteString(m.renderCategories())
	b.WriteString("\n\n")

	if len(m.videos.Items()) == 0 {
		if m.view == FavoritesView {
			b.WriteString(styles.warn.Render("No favorites yet. Press f on a video to save it."))
		} else {
			b.WriteString(styles.warn.Render(fmt.Sprintf("No videos found for %q.", m.Query())))
		}
	} else {
		b.WriteString(m.videos.View())
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(styles.ok.Render(m.status))
	}

	b.WriteString("\n\n")
	b.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()))
	return b.String()
}

func (m *Model) renderDetail() string {
	v := m.detail

	favorite := "♡ Not in favorites"
	if m.session.IsFavorite(v.ID) {
		favorite = styles.ok.Render("♥ In favorites")
	}

	info := fmt.Sprintf(
		"%s\n\n%s\n\nInstructor: %s\nDuration: %s\nCategory: %s\nViews: %s\nRating: %s %.1f\n%s\n\n%s\n%s",
		styles.title.Render(v.Title),
		v.Description,
		v.Instructor,
		v.Duration,
		v.Category,
		shared.FormatCount(v.Views),
		shared.FormatStars(v.Rating),
		v.Rating,
		favorite,
		styles.help.Render(catalog.ShareText(*v)),
		v.VideoURL,
	)

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.favorite, m.keys.back, m.keys.quit})
	if m.status != "" {
		return fmt.Sprintf("%s\n\n%s\n\n%s", info, styles.ok.Render(m.status), helpView)
	}
	return fmt.Sprintf("%s\n\n%s", info, helpView)
}

// Run starts the dashboard program and blocks until it exits.
func Run(ctx context.Context, m *Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
