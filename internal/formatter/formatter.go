// package formatter provides functions to export catalog listings to various formats (CSV, Markdown, plain text, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/desertthunder/learndash/internal/models"
	"github.com/desertthunder/learndash/internal/shared"
)

// Format names an export format accepted by [Render].
type Format string

const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "md"
	FormatText     Format = "txt"
	FormatJSON     Format = "json"
)

// ParseFormat accepts a format name or its common aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "csv":
		return FormatCSV, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "txt", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidFlag, s)
}

// CatalogExport is a titled list of videos together with the filter that produced it.
type CatalogExport struct {
	Title     string
	Query     string
	Category  string
	Videos    []models.Video
	Favorites models.FavoriteSet
}

// Metadata describes an export without its videos.
type Metadata struct {
	Title      string    `json:"title"`
	Query      string    `json:"query,omitempty"`
	Category   string    `json:"category"`
	Count      int       `json:"count"`
	Favorites  []int     `json:"favorites"`
	ExportedAt time.Time `json:"exported_at"`
}

// Metadata returns the export's [Metadata] stamped with now.
func (e *CatalogExport) Metadata(now time.Time) Metadata {
	favorites := []int{}
	for _, v := range e.Videos {
		if e.Favorites.Has(v.ID) {
			favorites = append(favorites, v.ID)
		}
	}
	return Metadata{
		Title:      e.Title,
		Query:      e.Query,
		Category:   e.Category,
		Count:      len(e.Videos),
		Favorites:  favorites,
		ExportedAt: now.UTC(),
	}
}

// Slug returns the title lower-cased with runs of other characters replaced by a dash, or "videos" when empty.
func (e *CatalogExport) Slug() string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(e.Title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
		} else if !dash && b.Len() > 0 {
			b.WriteRune('-')
			dash = true
		}
	}

	slug := strings.TrimSuffix(b.String(), "-")
	if slug == "" {
		return "videos"
	}
	return slug
}

func (e *CatalogExport) filter() string {
	category := e.Category
	if category == "" {
		category = models.CategoryAll
	}
	if e.Query == "" {
		return fmt.Sprintf("category %s", category)
	}
	return fmt.Sprintf("%q in category %s", e.Query, category)
}

// ExportToCSV converts a CatalogExport to CSV format with columns: ID, Title, Category, Instructor, Duration, Views, Rating, Favorite, URL
func ExportToCSV(export *CatalogExport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Category", "Instructor", "Duration", "Views", "Rating", "Favorite", "URL"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, v := range export.Videos {
		record := []string{
			strconv.Itoa(v.ID),
			v.Title,
			v.Category,
			v.Instructor,
			v.Duration,
			strconv.Itoa(v.Views),
			strconv.FormatFloat(v.Rating, 'f', 1, 64),
			strconv.FormatBool(export.Favorites.Has(v.ID)),
			v.VideoURL,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a CatalogExport to Markdown, one numbered entry per video with its description quoted below.
func ExportToMarkdown(export *CatalogExport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", export.Title))
	buf.WriteString(fmt.Sprintf("**Filter**: %s\n", export.filter()))
	buf.WriteString(fmt.Sprintf("**Videos**: %d\n\n", len(export.Videos)))

	buf.WriteString("## Videos\n\n")
	for i, v := range export.Videos {
		favorite := ""
		if export.Favorites.Has(v.ID) {
			favorite = " ♥"
		}
		buf.WriteString(fmt.Sprintf("%d. %s **%s**%s - %s [%s] · %s views · %s %.1f\n",
			i+1, v.Thumbnail, v.Title, favorite, v.Instructor, v.Duration,
			shared.FormatCount(v.Views), shared.FormatStars(v.Rating), v.Rating))
		if v.Description != "" {
			buf.WriteString(fmt.Sprintf("   > %s\n", v.Description))
		}
	}

	return buf.Bytes(), nil
}

// ExportToText converts a CatalogExport to plain text format
func ExportToText(export *CatalogExport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("%s\n", export.Title))
	buf.WriteString(fmt.Sprintf("Filter: %s\n", export.filter()))
	buf.WriteString(fmt.Sprintf("Videos: %d\n\n", len(export.Videos)))

	for i, v := range export.Videos {
		marker := ""
		if export.Favorites.Has(v.ID) {
			marker = " *"
		}
		buf.WriteString(fmt.Sprintf("%d. %s - %s (%s)%s\n", i+1, v.Title, v.Instructor, v.Duration, marker))
	}

	return buf.Bytes(), nil
}

type jsonExport struct {
	Metadata
	Videos []models.Video `json:"videos"`
}

// ExportToJSON renders the export metadata and its videos as indented JSON.
func ExportToJSON(export *CatalogExport) ([]byte, error) {
	videos := export.Videos
	if videos == nil {
		videos = []models.Video{}
	}
	data, err := json.MarshalIndent(jsonExport{Metadata: export.Metadata(time.Now()), Videos: videos}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal export: %w", err)
	}
	return data, nil
}

// ToMetadataJSON generates a JSON representation of export metadata (without videos)
func ToMetadataJSON(export *CatalogExport) ([]byte, error) {
	data, err := json.MarshalIndent(export.Metadata(time.Now()), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata: %w", err)
	}
	return data, nil
}

// Render converts export to format.
func Render(export *CatalogExport, format Format) ([]byte, error) {
	switch format {
	case FormatCSV:
		return ExportToCSV(export)
	case FormatMarkdown:
		return ExportToMarkdown(export)
	case FormatText:
		return ExportToText(export)
	case FormatJSON:
		return ExportToJSON(export)
	}
	return nil, fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidFlag, format)
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	VideosFile   string
	MetadataFile string
}

// WriteCSVExport exports a listing to CSV format with accompanying metadata JSON file.
//
// Defaults to the export slug as the base filename & creates {base}_videos.csv and {base}_metadata.json
func WriteCSVExport(export *CatalogExport, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = export.Slug()
	}

	csvData, err := ExportToCSV(export)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	videosFile := baseFilepath + "_videos.csv"
	if err := os.WriteFile(videosFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	metadataJSON, err := ToMetadataJSON(export)
	if err != nil {
		return nil, fmt.Errorf("failed to generate metadata JSON: %w", err)
	}

	metadataFile := baseFilepath + "_metadata.json"
	if err := os.WriteFile(metadataFile, metadataJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write metadata file: %w", err)
	}

	return &CSVExportResult{
		VideosFile:   videosFile,
		MetadataFile: metadataFile,
	}, nil
}

// WriteMarkdownExport exports a listing to {dir}/README.md, creating the directory.
//
// Directory name defaults to the export slug.
func WriteMarkdownExport(export *CatalogExport, outputDir string) (string, error) {
	if outputDir == "" {
		outputDir = export.Slug()
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	mdData, err := ExportToMarkdown(export)
	if err != nil {
		return "", fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := filepath.Join(outputDir, "README.md")
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return "", fmt.Errorf("failed to write Markdown file: %w", err)
	}

	return mdFile, nil
}

// WriteTextExport exports a listing to plain text format.
//
// Defaults to {slug}_videos.txt as the filename.
func WriteTextExport(export *CatalogExport, path string) (string, error) {
	if path == "" {
		path = fmt.Sprintf("%s_videos.txt", export.Slug())
	}

	textData, err := ExportToText(export)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(path, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return path, nil
}
