package domain

import (
	"strings"
	"time"
)

// Project is a tracked construction-works record.
// It is storage-agnostic and shared by the repository, report and HTTP layers.
type Project struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Location      string    `json:"location"`
	Area          float64   `json:"area"`
	Progress      float64   `json:"progress"`
	Description   string    `json:"description"`
	CurrentStatus string    `json:"current_status,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	ImageURL      string    `json:"image_url,omitempty"`
	PDFURL        string    `json:"pdf_url,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	OwnerUserID   string    `json:"owner_user_id"`
}

// NewProject carries the fields an actor supplies when registering a project.
// Identifier, timestamps and owner are assigned by the store.
type NewProject struct {
	Name          string  `json:"name"`
	Location      string  `json:"location"`
	Area          float64 `json:"area"`
	Progress      float64 `json:"progress"`
	Description   string  `json:"description"`
	CurrentStatus string  `json:"current_status"`
	Notes         string  `json:"notes"`
	ImageURL      string  `json:"image_url"`
	PDFURL        string  `json:"pdf_url"`
}

// ProjectPatch is a partial update. Nil fields are left untouched.
type ProjectPatch struct {
	Name          *string  `json:"name,omitempty"`
	Location      *string  `json:"location,omitempty"`
	Area          *float64 `json:"area,omitempty"`
	Progress      *float64 `json:"progress,omitempty"`
	Description   *string  `json:"description,omitempty"`
	CurrentStatus *string  `json:"current_status,omitempty"`
	Notes         *string  `json:"notes,omitempty"`
	ImageURL      *string  `json:"image_url,omitempty"`
	PDFURL        *string  `json:"pdf_url,omitempty"`
}

// Normalize trims surrounding whitespace from the text fields.
func (n *NewProject) Normalize() {
	n.Name = strings.TrimSpace(n.Name)
	n.Location = strings.TrimSpace(n.Location)
	n.Description = strings.TrimSpace(n.Description)
	n.CurrentStatus = strings.TrimSpace(n.CurrentStatus)
	n.Notes = strings.TrimSpace(n.Notes)
	n.ImageURL = strings.TrimSpace(n.ImageURL)
	n.PDFURL = strings.TrimSpace(n.PDFURL)
}

// Validate enforces the project invariants on a new record.
func (n NewProject) Validate() error {
	if strings.TrimSpace(n.Name) == "" {
		return &ValidationError{Field: "name", Message: "name is required"}
	}
	if strings.TrimSpace(n.Location) == "" {
		return &ValidationError{Field: "location", Message: "location is required"}
	}
	if err := validateArea(n.Area); err != nil {
		return err
	}
	if err := validateProgress(n.Progress); err != nil {
		return err
	}
	if strings.TrimSpace(n.Description) == "" {
		return &ValidationError{Field: "description", Message: "description is required"}
	}
	return nil
}

// IsEmpty reports whether the patch carries no field at all.
func (p ProjectPatch) IsEmpty() bool {
	return p.Name == nil && p.Location == nil && p.Area == nil && p.Progress == nil &&
		p.Description == nil && p.CurrentStatus == nil && p.Notes == nil &&
		p.ImageURL == nil && p.PDFURL == nil
}

// Normalize trims surrounding whitespace from the supplied text fields.
func (p *ProjectPatch) Normalize() {
	for _, s := range []*string{p.Name, p.Location, p.Description, p.CurrentStatus, p.Notes, p.ImageURL, p.PDFURL} {
		if s != nil {
			*s = strings.TrimSpace(*s)
		}
	}
}

// Validate checks the supplied fields against the same invariants as NewProject.
func (p ProjectPatch) Validate() error {
	if p.IsEmpty() {
		return ErrEmptyPatch
	}
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return &ValidationError{Field: "name", Message: "name must not be empty"}
	}
	if p.Location != nil && strings.TrimSpace(*p.Location) == "" {
		return &ValidationError{Field: "location", Message: "location must not be empty"}
	}
	if p.Area != nil {
		if err := validateArea(*p.Area); err != nil {
			return err
		}
	}
	if p.Progress != nil {
		if err := validateProgress(*p.Progress); err != nil {
			return err
		}
	}
	if p.Description != nil && strings.TrimSpace(*p.Description) == "" {
		return &ValidationError{Field: "description", Message: "description must not be empty"}
	}
	return nil
}

// Apply returns a copy of pr with the patch's fields written over it.
func (p ProjectPatch) Apply(pr Project) Project {
	if p.Name != nil {
		pr.Name = *p.Name
	}
	if p.Location != nil {
		pr.Location = *p.Location
	}
	if p.Area != nil {
		pr.Area = *p.Area
	}
	if p.Progress != nil {
		pr.Progress = *p.Progress
	}
	if p.Description != nil {
		pr.Description = *p.Description
	}
	if p.CurrentStatus != nil {
		pr.CurrentStatus = *p.CurrentStatus
	}
	if p.Notes != nil {
		pr.Notes = *p.Notes
	}
	if p.ImageURL != nil {
		pr.ImageURL = *p.ImageURL
	}
	if p.PDFURL != nil {
		pr.PDFURL = *p.PDFURL
	}
	return pr
}

func validateArea(area float64) error {
	if !(area > 0) {
		return &ValidationError{Field: "area", Message: "area must be a positive number"}
	}
	return nil
}

func validateProgress(progress float64) error {
	if !(progress >= 0 && progress <= 100) {
		return &ValidationError{Field: "progress", Message: "progress must be between 0 and 100"}
	}
	return nil
}
