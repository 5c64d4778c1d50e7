package domain

import (
	"regexp"
	"time"
)

// Document is a schema-less content section body. Sections differ in shape on
// purpose; nothing here assumes fields beyond "object of named values".
type Document map[string]any

// ContentSection is one editable region of the public site.
type ContentSection struct {
	SectionKey string    `json:"section_key"`
	Content    Document  `json:"content"`
	UpdatedAt  time.Time `json:"updated_at"`
}

const (
	SectionHero    = "hero"
	SectionAbout   = "about"
	SectionContact = "contact"
	SectionFooter  = "footer"
	SectionStats   = "stats"
)

var sectionKeyRe = regexp.MustCompile(`^[a-z][a-z0-9_-]{0,63}$`)

// ValidSectionKey reports whether key can name a section row.
func ValidSectionKey(key string) bool {
	return sectionKeyRe.MatchString(key)
}

// DefaultSection returns the built-in document used when a section has never
// been published. Unknown keys get an empty document.
func DefaultSection(key string) Document {
	switch key {
	case SectionHero:
		return Document{
			"title":            "Designing spaces that feel like you",
			"subtitle":         "Residential and commercial interiors, from concept to handover.",
			"cta_text":         "Book a consultation",
			"cta_link":         "/contact",
			"background_image": "",
		}
	case SectionAbout:
		return Document{
			"title":       "About the studio",
			"description": "",
			"mission":     "",
			"vision":      "",
			"image":       "",
			"values":      []any{},
		}
	case SectionContact:
		return Document{
			"phone":    "",
			"email":    "",
			"whatsapp": "",
			"address":  "",
			"hours":    "",
		}
	case SectionFooter:
		return Document{
			"tagline":   "",
			"copyright": "",
			"social":    map[string]any{},
		}
	case SectionStats:
		return Document{
			"projects_completed": 0,
			"happy_clients":      0,
			"years_experience":   0,
			"awards":             0,
		}
	}
	return Document{}
}
