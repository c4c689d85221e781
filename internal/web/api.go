package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/desertthunder/learndash/internal/catalog"
	"github.com/desertthunder/learndash/internal/models"
	"github.com/desertthunder/learndash/internal/shared"
)

type videosResponse struct {
	Videos []videoCard `json:"videos"`
	Count  int         `json:"count"`
}

type videoResponse struct {
	Video videoCard `json:"video"`
	Share string    `json:"share"`
}

type favoriteResponse struct {
	ID       int  `json:"id"`
	Favorite bool `json:"favorite"`
}

type profileResponse struct {
	User     models.PublicUser `json:"user"`
	Initials string            `json:"initials"`
}

func (a *App) handleVideos(w http.ResponseWriter, r *http.Request) {
	m := a.manager(w, r, nil)
	videos := a.catalog.Search(r.URL.Query().Get("q"), categoryParam(r))

	a.writeJSON(w, http.StatusOK, videosResponse{Videos: cards(videos, m.Favorites()), Count: len(videos)})
}

// handleVideo returns one video and counts a view for the current viewer.
func (a *App) handleVideo(w http.ResponseWriter, r *http.Request) {
	id, ok := a.videoID(w, r)
	if !ok {
		return
	}

	label := "guest"
	user, err := a.viewer(w, r)
	if rejected(err) {
		a.writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	if err == nil {
		label = user.Identifier
	}

	video, err := a.catalog.RecordView(id, label)
	if errors.Is(err, shared.ErrVideoNotFound) {
		a.writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		a.logger.Error("could not record view", "video", id, "error", err)
		a.writeError(w, http.StatusInternalServerError, "could not load video")
		return
	}

	m := a.manager(w, r, nil)
	a.writeJSON(w, http.StatusOK, videoResponse{
		Video: videoCard{Video: video, Favorite: m.IsFavorite(id)},
		Share: catalog.ShareText(video),
	})
}

func (a *App) handleCategories(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, map[string][]string{"categories": a.catalog.Categories()})
}

func (a *App) handleFavorites(w http.ResponseWriter, r *http.Request) {
	m := a.manager(w, r, nil)
	favorites := m.Favorites()
	videos := a.catalog.Favorites(favorites)

	a.writeJSON(w, http.StatusOK, videosResponse{Videos: cards(videos, favorites), Count: len(videos)})
}

// handleToggleFavorite flips the favorite flag of a catalog video for the request's profile.
func (a *App) handleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	id, ok := a.videoID(w, r)
	if !ok {
		return
	}
	if _, err := a.catalog.Get(id); err != nil {
		a.writeError(w, http.StatusNotFound, err.Error())
		return
	}

	m := a.manager(w, r, nil)
	a.writeJSON(w, http.StatusOK, favoriteResponse{ID: id, Favorite: m.ToggleFavorite(r.Context(), id)})
}

func (a *App) handleProfile(w http.ResponseWriter, r *http.Request) {
	user, err := a.viewer(w, r)
	if err != nil {
		a.writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	a.writeJSON(w, http.StatusOK, profileResponse{User: user, Initials: user.Initials()})
}

func (a *App) videoID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id < 1 {
		a.writeError(w, http.StatusBadRequest, "invalid video id "+strconv.Quote(r.PathValue("id")))
		return 0, false
	}
	return id, true
}
