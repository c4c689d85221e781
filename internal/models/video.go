package models

// Category values used by the catalog. [CategoryAll] is the filter sentinel, never a video's category.
const (
	CategoryAll         = "all"
	CategoryProgramming = "programming"
	CategoryDesign      = "design"
	CategoryBusiness    = "business"
	CategoryLanguage    = "language"
)

// Video is one catalog entry shown on the dashboard.
type Video struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Duration    string  `json:"duration"`
	Thumbnail   string  `json:"thumbnail"`
	VideoURL    string  `json:"videoUrl"`
	Instructor  string  `json:"instructor"`
	Views       int     `json:"views"`
	Rating      float64 `json:"rating"`
}
