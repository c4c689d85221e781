package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/desertthunder/learndash/internal/catalog"
	"github.com/desertthunder/learndash/internal/formatter"
	"github.com/desertthunder/learndash/internal/models"
	"github.com/desertthunder/learndash/internal/shared"
	"github.com/urfave/cli/v3"
)

func parseVideoID(s string) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("%w: video id", shared.ErrMissingArgument)
	}
	id, err := strconv.Atoi(s)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%w: video id %q", shared.ErrInvalidArgument, s)
	}
	return id, nil
}

func (r *Runner) writeVideos(videos []models.Video, favorites models.FavoriteSet) {
	for i, v := range videos {
		marker := ""
		if favorites.Has(v.ID) {
			marker = " ♥"
		}
		r.writePlain("%d. %s %s%s\n", i+1, v.Thumbnail, v.Title, marker)
		r.writePlain("   %s • %s • %s views • %s\n", v.Instructor, v.Duration, shared.FormatCount(v.Views), shared.FormatStars(v.Rating))
		r.writePlain("   ID: %d  Category: %s\n", v.ID, v.Category)
	}
}

// CatalogSearch lists the videos matching the query within a category.
func (r *Runner) CatalogSearch(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	category := cmd.String("category")

	videos := r.catalog.Search(query, category)
	if cmd.Bool("json") {
		return r.writeJSON(videos, cmd.Bool("pretty"))
	}

	if len(videos) == 0 {
		return r.writePlain("No videos found for %q in %s.\n", query, category)
	}

	mgr, _, err := r.manager(ctx)
	if err != nil {
		return err
	}

	r.writePlain("Found %d videos:\n\n", len(videos))
	r.writeVideos(videos, mgr.Favorites())
	return nil
}

// CatalogShow prints one video and records a view for the current user.
func (r *Runner) CatalogShow(ctx context.Context, cmd *cli.Command) error {
	id, err := parseVideoID(cmd.StringArg("id"))
	if err != nil {
		return err
	}

	mgr, store, err := r.manager(ctx)
	if err != nil {
		return err
	}

	viewer := "guest"
	if user, err := r.currentUser(ctx, store); err == nil {
		viewer = user.Identifier
	}

	video, err := r.catalog.RecordView(id, viewer)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(video, cmd.Bool("pretty"))
	}

	r.writePlainHeader(video.Thumbnail + " " + video.Title)
	r.writePlain("%s\n\n", video.Description)
	r.writePlain("Instructor: %s\n", video.Instructor)
	r.writePlain("Duration:   %s\n", video.Duration)
	r.writePlain("Category:   %s\n", video.Category)
	r.writePlain("Views:      %s\n", shared.FormatCount(video.Views))
	r.writePlain("Rating:     %s %.1f\n", shared.FormatStars(video.Rating), video.Rating)
	if mgr.IsFavorite(video.ID) {
		r.writePlain("♥ In favorites\n")
	}
	r.writePlainln("%s", catalog.ShareText(video))
	return nil
}

// CatalogCategories lists the category filters in catalog order.
func (r *Runner) CatalogCategories(ctx context.Context, cmd *cli.Command) error {
	for _, c := range r.catalog.Categories() {
		r.writePlain("%s\n", c)
	}
	return nil
}

// CatalogExport writes the filtered listing, or the favorites, in the requested format.
func (r *Runner) CatalogExport(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	mgr, _, err := r.manager(ctx)
	if err != nil {
		return err
	}
	favorites := mgr.Favorites()

	export := &formatter.CatalogExport{
		Title:     cmd.String("title"),
		Query:     cmd.String("query"),
		Category:  cmd.String("category"),
		Favorites: favorites,
	}

	if cmd.Bool("favorites") {
		export.Videos = r.catalog.Favorites(favorites)
		export.Query = ""
		export.Category = models.CategoryAll
	} else {
		export.Videos = r.catalog.Search(export.Query, export.Category)
	}

	if export.Title == "" {
		export.Title = exportTitle(export, cmd.Bool("favorites"))
	}

	output := cmd.String("output")
	r.logger.Info("exporting catalog", "format", format, "videos", len(export.Videos), "output", output)

	if output == "-" {
		data, err := formatter.Render(export, format)
		if err != nil {
			return err
		}
		_, err = r.output.Write(data)
		return err
	}

	switch format {
	case formatter.FormatCSV:
		result, err := formatter.WriteCSVExport(export, output)
		if err != nil {
			return err
		}
		r.writePlain("✓ Exported %d videos\n", len(export.Videos))
		r.writePlain("  %s\n  %s\n", result.VideosFile, result.MetadataFile)
		return nil
	case formatter.FormatMarkdown:
		path, err := formatter.WriteMarkdownExport(export, output)
		if err != nil {
			return err
		}
		return r.writePlain("✓ Exported %d videos to %s\n", len(export.Videos), path)
	case formatter.FormatText:
		path, err := formatter.WriteTextExport(export, output)
		if err != nil {
			return err
		}
		return r.writePlain("✓ Exported %d videos to %s\n", len(export.Videos), path)
	default:
		data, err := formatter.Render(export, format)
		if err != nil {
			return err
		}
		if output == "" {
			output = export.Slug() + ".json"
		}
		if err := os.WriteFile(output, data, 0644); err != nil {
			return fmt.Errorf("failed to write JSON file: %w", err)
		}
		return r.writePlain("✓ Exported %d videos to %s\n", len(export.Videos), output)
	}
}

func exportTitle(export *formatter.CatalogExport, favorites bool) string {
	if favorites {
		return "Favorite Videos"
	}
	category := export.Category
	if category == "" || category == models.CategoryAll {
		category = "All"
	} else {
		category = strings.ToUpper(category[:1]) + category[1:]
	}
	return category + " Videos"
}

// FavoritesList prints the favorite videos in catalog order.
func (r *Runner) FavoritesList(ctx context.Context, cmd *cli.Command) error {
	mgr, _, err := r.manager(ctx)
	if err != nil {
		return err
	}

	favorites := mgr.Favorites()
	videos := r.catalog.Favorites(favorites)
	if cmd.Bool("json") {
		return r.writeJSON(videos, cmd.Bool("pretty"))
	}

	if len(videos) == 0 {
		return r.writePlain("No favorites yet. Add one with: learndash favorites toggle <id>\n")
	}

	r.writePlain("Favorites (%d):\n\n", len(videos))
	r.writeVideos(videos, favorites)
	return nil
}

// FavoritesToggle adds or removes a catalog video from the profile's favorites.
func (r *Runner) FavoritesToggle(ctx context.Context, cmd *cli.Command) error {
	id, err := parseVideoID(cmd.StringArg("id"))
	if err != nil {
		return err
	}

	video, err := r.catalog.Get(id)
	if err != nil {
		return err
	}

	mgr, _, err := r.manager(ctx)
	if err != nil {
		return err
	}

	if mgr.ToggleFavorite(ctx, id) {
		return r.writePlain("♥ Added %q to favorites\n", video.Title)
	}
	return r.writePlain("♡ Removed %q from favorites\n", video.Title)
}
