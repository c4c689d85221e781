package catalog

import "github.com/desertthunder/learndash/internal/models"

const placeholderURL = "/placeholder.mp4"

// SeedVideos returns the demo catalog.
func SeedVideos() []models.Video {
	return []models.Video{
		{
			ID:          1,
			Title:       "JavaScript Fundamentals",
			Description: "Learn the basics of JavaScript programming including variables, functions, and control structures.",
			Category:    models.CategoryProgramming,
			Duration:    "45:30",
			Thumbnail:   "🟨",
			VideoURL:    placeholderURL,
			Instructor:  "John Smith",
			Views:       1250,
			Rating:      4.8,
		},
		{
			ID:          2,
			Title:       "React Components Deep Dive",
			Description: "Master React components, props, state management, and lifecycle methods.",
			Category:    models.CategoryProgramming,
			Duration:    "1:12:45",
			Thumbnail:   "⚛️",
			VideoURL:    placeholderURL,
			Instructor:  "Sarah Johnson",
			Views:       890,
			Rating:      4.9,
		},
		{
			ID:          3,
			Title:       "UI/UX Design Principles",
			Description: "Understand the core principles of user interface and user experience design.",
			Category:    models.CategoryDesign,
			Duration:    "38:20",
			Thumbnail:   "🎨",
			VideoURL:    placeholderURL,
			Instructor:  "Mike Chen",
			Views:       2100,
			Rating:      4.7,
		},
		{
			ID:          4,
			Title:       "CSS Grid and Flexbox",
			Description: "Master modern CSS layout techniques with Grid and Flexbox.",
			Category:    models.CategoryProgramming,
			Duration:    "52:15",
			Thumbnail:   "📐",
			VideoURL:    placeholderURL,
			Instructor:  "Emily Davis",
			Views:       1680,
			Rating:      4.6,
		},
		{
			ID:          5,
			Title:       "Business Strategy Basics",
			Description: "Learn fundamental business strategy concepts and frameworks.",
			Category:    models.CategoryBusiness,
			Duration:    "1:05:30",
			Thumbnail:   "📊",
			VideoURL:    placeholderURL,
			Instructor:  "Robert Wilson",
			Views:       750,
			Rating:      4.5,
		},
		{
			ID:          6,
			Title:       "Spanish Conversation Practice",
			Description: "Practice Spanish conversation skills with real-world scenarios.",
			Category:    models.CategoryLanguage,
			Duration:    "35:45",
			Thumbnail:   "🗣️",
			VideoURL:    placeholderURL,
			Instructor:  "Maria Rodriguez",
			Views:       920,
			Rating:      4.8,
		},
		{
			ID:          7,
			Title:       "Node.js Backend Development",
			Description: "Build scalable backend applications with Node.js and Express.",
			Category:    models.CategoryProgramming,
			Duration:    "1:25:10",
			Thumbnail:   "🟢",
			VideoURL:    placeholderURL,
			Instructor:  "David Kim",
			Views:       1340,
			Rating:      4.7,
		},
		{
			ID:          8,
			Title:       "Photoshop for Beginners",
			Description: "Learn essential Photoshop tools and techniques for photo editing.",
			Category:    models.CategoryDesign,
			Duration:    "48:55",
			Thumbnail:   "🖼️",
			VideoURL:    placeholderURL,
			Instructor:  "Lisa Thompson",
			Views:       1890,
			Rating:      4.6,
		},
	}
}
