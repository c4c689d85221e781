package catalog

import (
	"bytes"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/desertthunder/learndash/internal/models"
	"github.com/desertthunder/learndash/internal/shared"
)

func ids(videos []models.Video) []int {
	out := make([]int, len(videos))
	for i, v := range videos {
		out[i] = v.ID
	}
	return out
}

func TestFilter(t *testing.T) {
	items := SeedVideos()

	tt := []struct {
		name     string
		query    string
		category string
		want     []int
	}{
		{name: "identity", query: "", category: models.CategoryAll, want: []int{1, 2, 3, 4, 5, 6, 7, 8}},
		{name: "title ignores case", query: "REACT", category: models.CategoryAll, want: []int{2}},
		{name: "instructor", query: "mike", category: models.CategoryAll, want: []int{3}},
		{name: "description", query: "express", category: models.CategoryAll, want: []int{7}},
		{name: "category only", query: "", category: models.CategoryDesign, want: []int{3, 8}},
		{name: "query and category", query: "master", category: models.CategoryProgramming, want: []int{2, 4}},
		{name: "category excludes match", query: "react", category: models.CategoryDesign, want: []int{}},
		{name: "unknown category", query: "", category: "cooking", want: []int{}},
		{name: "no match", query: "kubernetes", category: models.CategoryAll, want: []int{}},
		{name: "query is not trimmed", query: " react", category: models.CategoryAll, want: []int{}},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			got := ids(Filter(items, tc.query, tc.category))
			if !slices.Equal(got, tc.want) {
				t.Errorf("Filter(%q, %q) = %v, want %v", tc.query, tc.category, got, tc.want)
			}
		})
	}

	t.Run("does not mutate source", func(t *testing.T) {
		src := SeedVideos()
		before := slices.Clone(src)

		out := Filter(src, "", models.CategoryAll)
		out[0].Title = "changed"

		if !slices.Equal(src, before) {
			t.Error("Filter result aliases the source slice")
		}
	})

	t.Run("subset of input", func(t *testing.T) {
		for _, q := range []string{"a", "e", "design", "ing"} {
			for _, v := range Filter(items, q, models.CategoryAll) {
				if !slices.Contains(items, v) {
					t.Errorf("result %d not in input", v.ID)
				}
			}
		}
	})
}

func TestFavorites(t *testing.T) {
	got := ids(Favorites(SeedVideos(), models.NewFavoriteSet(8, 2, 99)))
	if !slices.Equal(got, []int{2, 8}) {
		t.Errorf("expected [2 8], got %v", got)
	}
}

func TestCategories(t *testing.T) {
	want := []string{"all", "programming", "design", "business", "language"}
	if got := Categories(SeedVideos()); !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestCatalog(t *testing.T) {
	t.Run("Get", func(t *testing.T) {
		c := New(nil)

		v, err := c.Get(6)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if v.Title != "Spanish Conversation Practice" {
			t.Errorf("unexpected video %q", v.Title)
		}

		if _, err := c.Get(42); !errors.Is(err, shared.ErrVideoNotFound) {
			t.Errorf("expected ErrVideoNotFound, got %v", err)
		}
	})

	t.Run("RecordView", func(t *testing.T) {
		var buf bytes.Buffer
		c := New(shared.NewLogger(&buf))

		v, err := c.RecordView(1, "admin")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if v.Views != 1251 {
			t.Errorf("expected 1251 views, got %d", v.Views)
		}

		again, _ := c.Get(1)
		if again.Views != 1251 {
			t.Errorf("view count not stored, got %d", again.Views)
		}

		if !strings.Contains(buf.String(), "viewer=admin") {
			t.Errorf("expected viewer in log output, got %q", buf.String())
		}

		if _, err := c.RecordView(0, "admin"); !errors.Is(err, shared.ErrVideoNotFound) {
			t.Errorf("expected ErrVideoNotFound, got %v", err)
		}
	})

	t.Run("snapshots are independent", func(t *testing.T) {
		c := New(nil)
		all := c.All()
		all[0].Views = 0

		v, _ := c.Get(1)
		if v.Views == 0 {
			t.Error("mutating All() result leaked into the catalog")
		}
	})

	t.Run("Search", func(t *testing.T) {
		c := New(nil)
		if got := ids(c.Search("photo", models.CategoryAll)); !slices.Equal(got, []int{8}) {
			t.Errorf("expected [8], got %v", got)
		}
	})

	t.Run("ShareText", func(t *testing.T) {
		v, _ := New(nil).Get(4)
		if ShareText(v) != "Check out this learning video: CSS Grid and Flexbox" {
			t.Errorf("unexpected share text %q", ShareText(v))
		}
	})
}
