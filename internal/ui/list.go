package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/learndash/internal/models"
	"github.com/desertthunder/learndash/internal/shared"
)

var _ list.Item = videoItem{}

// videoItem wraps [models.Video] to implement [list.Item].
type videoItem struct {
	video    models.Video
	favorite bool
}

func (i videoItem) FilterValue() string { return i.video.Title }

func (i videoItem) Title() string {
	if i.favorite {
		return "♥ " + i.video.Title
	}
	return i.video.Title
}

func (i videoItem) Description() string {
	return fmt.Sprintf("%s • %s • %s views • %s",
		i.video.Instructor, i.video.Duration, shared.FormatCount(i.video.Views), shared.FormatStars(i.video.Rating))
}
