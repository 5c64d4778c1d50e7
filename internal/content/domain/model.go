package domain

import "time"

// Project is a portfolio entry shown in the gallery and on its own detail page.
type Project struct {
	ID           string    `json:"id"`
	Slug         string    `json:"slug"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	RoomType     string    `json:"room_type"`
	Style        string    `json:"style"`
	Location     string    `json:"location"`
	Area         string    `json:"area"`
	Year         int       `json:"year,omitempty"`
	Duration     string    `json:"duration"`
	CoverImage   string    `json:"cover_image"`
	Images       []string  `json:"images"`
	Features     []string  `json:"features"`
	Featured     bool      `json:"featured"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Service struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Icon         string    `json:"icon"`
	Image        string    `json:"image"`
	Features     []string  `json:"features"`
	Deliverables []string  `json:"deliverables"`
	PriceRange   string    `json:"price_range"`
	Featured     bool      `json:"featured"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Testimonial struct {
	ID           string    `json:"id"`
	ClientName   string    `json:"client_name"`
	ClientRole   string    `json:"client_role"`
	Location     string    `json:"location"`
	Quote        string    `json:"quote"`
	Rating       int       `json:"rating"`
	Image        string    `json:"image"`
	ProjectSlug  string    `json:"project_slug,omitempty"`
	Featured     bool      `json:"featured"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ProcessStep is one stage of the design process timeline.
type ProcessStep struct {
	ID           string    `json:"id"`
	StepNumber   int       `json:"step_number"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Icon         string    `json:"icon"`
	Duration     string    `json:"duration"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Video struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	VideoURL     string    `json:"video_url"`
	Thumbnail    string    `json:"thumbnail"`
	Category     string    `json:"category"`
	Featured     bool      `json:"featured"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
