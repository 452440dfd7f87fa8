package repository

import (
	"database/sql"
	"time"

	"github.com/cerroazul/gestao-obras/internal/projects/domain"
)

// Row is the wire shape of one record in the projects table.
type Row struct {
	ID            string         `db:"id"`
	Name          string         `db:"name"`
	Location      string         `db:"location"`
	Area          float64        `db:"area"`
	Progress      float64        `db:"progress"`
	Description   string         `db:"description"`
	CurrentStatus sql.NullString `db:"current_status"`
	Notes         sql.NullString `db:"notes"`
	ImageURL      sql.NullString `db:"image_url"`
	PDFURL        sql.NullString `db:"pdf_url"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
	UserID        string         `db:"user_id"`
}

// Assignment is one column written by a partial update.
type Assignment struct {
	Column string
	Value  any
}

// FromRow converts a stored row into a project record. NULL optionals become "".
func FromRow(r Row) domain.Project {
	return domain.Project{
		ID:            r.ID,
		Name:          r.Name,
		Location:      r.Location,
		Area:          r.Area,
		Progress:      r.Progress,
		Description:   r.Description,
		CurrentStatus: r.CurrentStatus.String,
		Notes:         r.Notes.String,
		ImageURL:      r.ImageURL.String,
		PDFURL:        r.PDFURL.String,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
		OwnerUserID:   r.UserID,
	}
}

// ToRow converts a new record into an insertable row owned by actorID.
// Identifier and timestamps are left for the store to assign.
func ToRow(n domain.NewProject, actorID string) Row {
	return Row{
		Name:          n.Name,
		Location:      n.Location,
		Area:          n.Area,
		Progress:      n.Progress,
		Description:   n.Description,
		CurrentStatus: nullable(n.CurrentStatus),
		Notes:         nullable(n.Notes),
		ImageURL:      nullable(n.ImageURL),
		PDFURL:        nullable(n.PDFURL),
		UserID:        actorID,
	}
}

// PatchAssignments lists the columns a patch writes, in a fixed column order.
func PatchAssignments(p domain.ProjectPatch) []Assignment {
	var out []Assignment
	if p.Name != nil {
		out = append(out, Assignment{"name", *p.Name})
	}
	if p.Location != nil {
		out = append(out, Assignment{"location", *p.Location})
	}
	if p.Area != nil {
		out = append(out, Assignment{"area", *p.Area})
	}
	if p.Progress != nil {
		out = append(out, Assignment{"progress", *p.Progress})
	}
	if p.Description != nil {
		out = append(out, Assignment{"description", *p.Description})
	}
	if p.CurrentStatus != nil {
		out = append(out, Assignment{"current_status", nullable(*p.CurrentStatus)})
	}
	if p.Notes != nil {
		out = append(out, Assignment{"notes", nullable(*p.Notes)})
	}
	if p.ImageURL != nil {
		out = append(out, Assignment{"image_url", nullable(*p.ImageURL)})
	}
	if p.PDFURL != nil {
		out = append(out, Assignment{"pdf_url", nullable(*p.PDFURL)})
	}
	return out
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
