package formatter

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/learndash/internal/models"
	"github.com/desertthunder/learndash/internal/shared"
	th "github.com/desertthunder/learndash/internal/testing"
)

func testExport() *CatalogExport {
	return &CatalogExport{
		Title:    "Programming Videos",
		Query:    "basics",
		Category: models.CategoryProgramming,
		Videos: []models.Video{
			{
				ID:          1,
				Title:       "JavaScript Fundamentals",
				Description: "Learn the basics of JavaScript programming.",
				Category:    models.CategoryProgramming,
				Duration:    "15:30",
				Thumbnail:   "🟨",
				VideoURL:    "/placeholder.mp4",
				Instructor:  "John Smith",
				Views:       1250,
				Rating:      4.8,
			},
			{
				ID:         7,
				Title:      "Node.js Backend Development",
				Category:   models.CategoryProgramming,
				Duration:   "32:10",
				Thumbnail:  "🟩",
				VideoURL:   "/placeholder.mp4",
				Instructor: "David Kim",
				Views:      1340,
				Rating:     4.6,
			},
		},
		Favorites: models.NewFavoriteSet(7),
	}
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(testExport())
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		if len(lines) != 3 {
			t.Fatalf("expected header and 2 rows, got %d lines", len(lines))
		}
		if lines[0] != "ID,Title,Category,Instructor,Duration,Views,Rating,Favorite,URL" {
			t.Errorf("CSV missing headers, got: %s", lines[0])
		}
		if lines[1] != "1,JavaScript Fundamentals,programming,John Smith,15:30,1250,4.8,false,/placeholder.mp4" {
			t.Errorf("unexpected first row: %s", lines[1])
		}
		if !strings.HasSuffix(lines[2], ",true,/placeholder.mp4") {
			t.Errorf("expected favorite flag on second row: %s", lines[2])
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown(testExport())
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}

		output := string(data)

		tests := []string{
			"# Programming Videos",
			`**Filter**: "basics" in category programming`,
			"**Videos**: 2",
			"## Videos",
			"1. 🟨 **JavaScript Fundamentals** - John Smith [15:30] · 1.2K views · ★★★★☆ 4.8",
			"   > Learn the basics of JavaScript programming.",
			"2. 🟩 **Node.js Backend Development** ♥ - David Kim [32:10]",
		}
		for _, want := range tests {
			if !strings.Contains(output, want) {
				t.Errorf("Markdown missing %q, got: %s", want, output)
			}
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		export := testExport()
		export.Query = ""

		data, err := ExportToText(export)
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "Filter: category programming") {
			t.Errorf("Text missing filter, got: %s", output)
		}
		if !strings.Contains(output, "1. JavaScript Fundamentals - John Smith (15:30)\n") {
			t.Errorf("Text missing video 1")
		}
		if !strings.Contains(output, "2. Node.js Backend Development - David Kim (32:10) *") {
			t.Errorf("Text missing favorite marker")
		}
	})

	t.Run("ExportToJSON", func(t *testing.T) {
		data, err := ExportToJSON(testExport())
		if err != nil {
			t.Fatalf("ExportToJSON failed: %v", err)
		}

		var out struct {
			Title     string         `json:"title"`
			Count     int            `json:"count"`
			Favorites []int          `json:"favorites"`
			Videos    []models.Video `json:"videos"`
		}
		if err := json.Unmarshal(data, &out); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if out.Title != "Programming Videos" || out.Count != 2 || len(out.Videos) != 2 {
			t.Errorf("unexpected export %+v", out)
		}
		if len(out.Favorites) != 1 || out.Favorites[0] != 7 {
			t.Errorf("expected favorites [7], got %v", out.Favorites)
		}
	})

	t.Run("empty export", func(t *testing.T) {
		data, err := ExportToJSON(&CatalogExport{Title: "Nothing"})
		if err != nil {
			t.Fatalf("ExportToJSON failed: %v", err)
		}
		if !strings.Contains(string(data), `"videos": []`) {
			t.Errorf("expected empty videos array, got %s", data)
		}
	})
}

func TestMetadata(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	meta := testExport().Metadata(now)

	if meta.Count != 2 || meta.Category != "programming" || meta.Query != "basics" {
		t.Errorf("unexpected metadata %+v", meta)
	}
	if !meta.ExportedAt.Equal(now) {
		t.Errorf("expected exported_at %v, got %v", now, meta.ExportedAt)
	}
}

func TestSlug(t *testing.T) {
	tests := []struct {
		title    string
		expected string
	}{
		{title: "Programming Videos", expected: "programming-videos"},
		{title: "  Favorites: Design!  ", expected: "favorites-design"},
		{title: "", expected: "videos"},
		{title: "***", expected: "videos"},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			if got := (&CatalogExport{Title: tt.title}).Slug(); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected Format
		wantErr  bool
	}{
		{input: "csv", expected: FormatCSV},
		{input: "Markdown", expected: FormatMarkdown},
		{input: "md", expected: FormatMarkdown},
		{input: "text", expected: FormatText},
		{input: "json", expected: FormatJSON},
		{input: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				if !errors.Is(err, shared.ErrInvalidFlag) {
					t.Errorf("expected ErrInvalidFlag, got %v", err)
				}
				return
			}
			if err != nil || got != tt.expected {
				t.Errorf("expected %q, got %q (%v)", tt.expected, got, err)
			}
		})
	}

	if _, err := Render(testExport(), Format("xml")); !errors.Is(err, shared.ErrInvalidFlag) {
		t.Errorf("Render with unknown format should fail, got %v", err)
	}
}

func TestWriters(t *testing.T) {
	t.Run("WriteCSVExport", func(t *testing.T) {
		t.Run("WithDefaultPath", func(t *testing.T) {
			tempDir := t.TempDir()
			originalDir := th.MustGetwd(t)
			th.MustChdir(t, tempDir)
			defer th.MustChdir(t, originalDir)

			result, err := WriteCSVExport(testExport(), "")
			if err != nil {
				t.Fatalf("WriteCSVExport failed: %v", err)
			}

			if result.VideosFile != "programming-videos_videos.csv" {
				t.Errorf("Expected 'programming-videos_videos.csv', got '%s'", result.VideosFile)
			}
			if result.MetadataFile != "programming-videos_metadata.json" {
				t.Errorf("Expected 'programming-videos_metadata.json', got '%s'", result.MetadataFile)
			}

			th.AssertFileExists(t, result.VideosFile)
			th.AssertFileExists(t, result.MetadataFile)

			if content := th.MustReadFile(t, result.MetadataFile); !strings.Contains(content, `"title": "Programming Videos"`) {
				t.Errorf("Metadata JSON missing title, got %s", content)
			}
		})

		t.Run("WithCustomPath", func(t *testing.T) {
			base := filepath.Join(t.TempDir(), "custom")

			result, err := WriteCSVExport(testExport(), base)
			if err != nil {
				t.Fatalf("WriteCSVExport failed: %v", err)
			}
			if result.VideosFile != base+"_videos.csv" {
				t.Errorf("unexpected videos file %s", result.VideosFile)
			}
			th.AssertFileExists(t, result.VideosFile)
		})

		t.Run("UnwritablePath", func(t *testing.T) {
			base := filepath.Join(t.TempDir(), "missing", "dir", "out")
			if _, err := WriteCSVExport(testExport(), base); err == nil {
				t.Error("expected error writing into a missing directory")
			}
		})
	})

	t.Run("WriteMarkdownExport", func(t *testing.T) {
		tempDir := t.TempDir()
		originalDir := th.MustGetwd(t)
		th.MustChdir(t, tempDir)
		defer th.MustChdir(t, originalDir)

		path, err := WriteMarkdownExport(testExport(), "")
		if err != nil {
			t.Fatalf("WriteMarkdownExport failed: %v", err)
		}

		th.AssertDirExists(t, "programming-videos")
		if path != filepath.Join("programming-videos", "README.md") {
			t.Errorf("unexpected path %s", path)
		}
		if content := th.MustReadFile(t, path); !strings.Contains(content, "# Programming Videos") {
			t.Errorf("Markdown missing title")
		}
	})

	t.Run("WriteTextExport", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "list.txt")

		got, err := WriteTextExport(testExport(), path)
		if err != nil {
			t.Fatalf("WriteTextExport failed: %v", err)
		}
		if got != path {
			t.Errorf("expected %s, got %s", path, got)
		}
		if content := th.MustReadFile(t, path); !strings.Contains(content, "Videos: 2") {
			t.Errorf("Text missing count")
		}
	})
}
