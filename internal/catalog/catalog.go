package catalog

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/learndash/internal/models"
	"github.com/desertthunder/learndash/internal/shared"
)

// Filter returns the items whose title, description or instructor contains query (ignoring case)
// and whose category equals category, or every category when it is [models.CategoryAll].
//
// The result is a new slice in source order. items is never modified.
func Filter(items []models.Video, query, category string) []models.Video {
	needle := strings.ToLower(query)
	out := make([]models.Video, 0, len(items))

	for _, v := range items {
		if category != models.CategoryAll && v.Category != category {
			continue
		}
		if strings.Contains(strings.ToLower(v.Title), needle) ||
			strings.Contains(strings.ToLower(v.Description), needle) ||
			strings.Contains(strings.ToLower(v.Instructor), needle) {
			out = append(out, v)
		}
	}
	return out
}

// Favorites returns the items whose ids are in ids, in source order.
func Favorites(items []models.Video, ids models.FavoriteSet) []models.Video {
	out := make([]models.Video, 0, len(ids))
	for _, v := range items {
		if ids.Has(v.ID) {
			out = append(out, v)
		}
	}
	return out
}

// Categories lists [models.CategoryAll] followed by each distinct category of items in first-seen order.
func Categories(items []models.Video) []string {
	cats := []string{models.CategoryAll}
	for _, v := range items {
		if !slices.Contains(cats, v.Category) {
			cats = append(cats, v.Category)
		}
	}
	return cats
}

// ShareText is the message offered when a video is shared.
func ShareText(v models.Video) string {
	return fmt.Sprintf("Check out this learning video: %s", v.Title)
}

// Catalog is the in-memory video list served to dashboards. View counts are the only mutable state.
type Catalog struct {
	mu     sync.RWMutex
	videos []models.Video
	logger *log.Logger
}

// New creates a [Catalog] over a copy of videos. With no videos it holds [SeedVideos].
func New(logger *log.Logger, videos ...models.Video) *Catalog {
	if len(videos) == 0 {
		videos = SeedVideos()
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Catalog{videos: slices.Clone(videos), logger: logger}
}

// All returns a snapshot of every video.
func (c *Catalog) All() []models.Video {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.videos)
}

// Search runs [Filter] over a snapshot of the catalog.
func (c *Catalog) Search(query, category string) []models.Video {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Filter(c.videos, query, category)
}

// Favorites runs [Favorites] over a snapshot of the catalog.
func (c *Catalog) Favorites(ids models.FavoriteSet) []models.Video {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Favorites(c.videos, ids)
}

// Categories runs [Categories] over the catalog.
func (c *Catalog) Categories() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Categories(c.videos)
}

// Get returns the video with id.
func (c *Catalog) Get(id int) (models.Video, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, v := range c.videos {
		if v.ID == id {
			return v, nil
		}
	}
	return models.Video{}, fmt.Errorf("%w: %d", shared.ErrVideoNotFound, id)
}

// RecordView increments the view count of video id and logs who watched it.
func (c *Catalog) RecordView(id int, viewer string) (models.Video, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.videos {
		if c.videos[i].ID == id {
			c.videos[i].Views++
			c.logger.Info("video viewed", "video", id, "viewer", viewer, "views", c.videos[i].Views)
			return c.videos[i], nil
		}
	}
	return models.Video{}, fmt.Errorf("%w: %d", shared.ErrVideoNotFound, id)
}
