package web

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/desertthunder/learndash/internal/auth"
	"github.com/desertthunder/learndash/internal/models"
	"github.com/desertthunder/learndash/internal/shared"
	"github.com/desertthunder/learndash/internal/storage"
)

// SectionFavorites is the ?section= value that lists favorites instead of search results.
const SectionFavorites = "favorites"

// viewer resolves the user a dashboard or API request is made for.
//
// It returns an error wrapping [shared.ErrInvalidToken] or [shared.ErrTokenExpired] for a rejected
// handoff token, and [shared.ErrNotAuthenticated] when nothing identifies the viewer and guests are off.
func (a *App) viewer(w http.ResponseWriter, r *http.Request) (models.PublicUser, error) {
	if token := handoffToken(r); token != "" {
		user, err := a.signer.Verify(token)
		if err != nil {
			return models.PublicUser{}, err
		}
		return user, nil
	}

	if c, err := r.Cookie(SessionCookie); err == nil {
		if user, ok := a.sessionUser(c.Value); ok {
			return user, nil
		}
	}

	store := storage.Profile(a.backend, a.profileID(w, r))
	token, ok, err := storage.LoadSession(r.Context(), store)
	if err != nil {
		a.logger.Warn("could not read stored session", "error", err)
	}
	if ok {
		if user, err := a.signer.Verify(token); err == nil {
			return user, nil
		}
	}

	if a.cfg.Auth.AllowGuest {
		return auth.GuestUser(), nil
	}
	return models.PublicUser{}, shared.ErrNotAuthenticated
}

func (a *App) sessionUser(id string) (models.PublicUser, bool) {
	sess, err := a.sessions.GetActive(id)
	if err != nil {
		return models.PublicUser{}, false
	}

	cred, err := a.credentials.GetByUsername(sess.Username())
	if err != nil {
		a.logger.Warn("session refers to a missing credential", "username", sess.Username(), "error", err)
		return models.PublicUser{}, false
	}
	return cred.Public(), true
}

func handoffToken(r *http.Request) string {
	if token := r.URL.Query().Get("user"); token != "" {
		return token
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}

func rejected(err error) bool {
	return errors.Is(err, shared.ErrInvalidToken) || errors.Is(err, shared.ErrTokenExpired)
}

// videoCard is a video as the dashboard shows it.
type videoCard struct {
	models.Video
	Favorite bool `json:"favorite"`
}

type dashboardPage struct {
	User       models.PublicUser
	Initials   string
	Query      string
	Category   string
	Section    string
	Categories []string
	Videos     []videoCard
	Favorites  int
	Empty      string
}

func (a *App) handleDashboard(w http.ResponseWriter, r *http.Request) {
	user, err := a.viewer(w, r)
	if rejected(err) {
		a.logger.Warn("rejected handoff", "error", err)
		http.Error(w, "Invalid or expired login link", http.StatusUnauthorized)
		return
	}
	if err != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	m := a.manager(w, r, nil)
	favorites := m.Favorites()

	query := r.URL.Query()
	page := dashboardPage{
		User:       user,
		Initials:   user.Initials(),
		Query:      query.Get("q"),
		Category:   categoryParam(r),
		Section:    query.Get("section"),
		Categories: a.catalog.Categories(),
		Favorites:  len(favorites),
	}

	var videos []models.Video
	if page.Section == SectionFavorites {
		videos = a.catalog.Favorites(favorites)
		page.Empty = "No favorites yet. Click the heart on a video to save it."
	} else {
		videos = a.catalog.Search(page.Query, page.Category)
		page.Empty = fmt.Sprintf("No videos found for %q.", page.Query)
	}
	page.Videos = cards(videos, favorites)

	a.render(w, http.StatusOK, "dashboard.html", page)
}

func categoryParam(r *http.Request) string {
	if c := r.URL.Query().Get("category"); c != "" {
		return c
	}
	return models.CategoryAll
}

func cards(videos []models.Video, favorites models.FavoriteSet) []videoCard {
	out := make([]videoCard, len(videos))
	for i, v := range videos {
		out[i] = videoCard{Video: v, Favorite: favorites.Has(v.ID)}
	}
	return out
}
