package models

import (
	"strings"
	"time"
)

const (
	MaxTitleLen       = 100
	MaxDescriptionLen = 2000
	MaxTechs          = 10
	MaxImages         = 10
)

// Project represents a portfolio entry: title, description, tech list,
// links and image gallery. Instances live in the project cache and are
// only ever replaced wholesale, never mutated field by field.
type Project struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	TitleEN        string    `json:"title_en,omitempty"`
	DescriptionEN  string    `json:"description_en,omitempty"`
	Techs          []string  `json:"techs"`
	RepoURL        string    `json:"repo_url,omitempty"`
	LiveURL        string    `json:"live_url,omitempty"`
	Images         []string  `json:"images"`
	MainImageIndex int       `json:"main_image_index"`
	CreatedAt      time.Time `json:"created_at"`
}

// Normalize brings a server-decoded record into a consistent shape:
// techs trimmed and non-empty, main image index within bounds. The
// backend does not enforce the index bound, so it is never trusted.
func (p *Project) Normalize() {
	p.Techs = NormalizeTechs(p.Techs)
	p.MainImageIndex = ClampMainIndex(p.MainImageIndex, len(p.Images))
}

// MainImage returns the URL of the designated display image, re-clamping
// the index on read. Empty string when the gallery is empty.
func (p *Project) MainImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[ClampMainIndex(p.MainImageIndex, len(p.Images))]
}

// Localized returns the title and description for a display language,
// falling back to the default-language fields when no variant exists.
func (p *Project) Localized(lang string) (title, description string) {
	title, description = p.Title, p.Description
	if lang == "en" {
		if p.TitleEN != "" {
			title = p.TitleEN
		}
		if p.DescriptionEN != "" {
			description = p.DescriptionEN
		}
	}
	return title, description
}

// ClampMainIndex forces an image index into [0, n): 0 for an empty
// gallery, 0 for anything out of range.
func ClampMainIndex(idx, n int) int {
	if n == 0 || idx < 0 || idx >= n {
		return 0
	}
	return idx
}

// NormalizeTechs trims every entry and drops the empty ones, keeping order.
func NormalizeTechs(techs []string) []string {
	out := make([]string, 0, len(techs))
	for _, t := range techs {
		t = strings.TrimSpace(t)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// SplitTechs converts the legacy comma-delimited techs input into an
// ordered slice. This is the only place the delimited form is accepted;
// everything downstream works with the slice.
func SplitTechs(s string) []string {
	return NormalizeTechs(strings.Split(s, ","))
}

// ProjectInput carries the fields the client sends on create. The server
// assigns id and created_at.
type ProjectInput struct {
	Title          string   `json:"title" validate:"required,max=100"`
	Description    string   `json:"description" validate:"required,max=2000"`
	TitleEN        string   `json:"title_en,omitempty" validate:"max=100"`
	DescriptionEN  string   `json:"description_en,omitempty" validate:"max=2000"`
	Techs          []string `json:"techs" validate:"required,min=1,max=10,dive,required"`
	RepoURL        string   `json:"repo_url"`
	LiveURL        string   `json:"live_url"`
	Images         []string `json:"images" validate:"max=10"`
	MainImageIndex int      `json:"main_image_index"`
}

// ProjectPatch is a partial update: nil means "leave unchanged".
type ProjectPatch struct {
	Title          *string   `json:"title,omitempty"`
	Description    *string   `json:"description,omitempty"`
	TitleEN        *string   `json:"title_en,omitempty"`
	DescriptionEN  *string   `json:"description_en,omitempty"`
	Techs          *[]string `json:"techs,omitempty"`
	RepoURL        *string   `json:"repo_url,omitempty"`
	LiveURL        *string   `json:"live_url,omitempty"`
	Images         *[]string `json:"images,omitempty"`
	MainImageIndex *int      `json:"main_image_index,omitempty"`
}

// IsEmpty reports whether the patch carries no field at all.
func (p ProjectPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil &&
		p.TitleEN == nil && p.DescriptionEN == nil &&
		p.Techs == nil && p.RepoURL == nil && p.LiveURL == nil &&
		p.Images == nil && p.MainImageIndex == nil
}
