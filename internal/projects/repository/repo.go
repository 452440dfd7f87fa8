package repository

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	authdomain "github.com/cerroazul/gestao-obras/internal/auth/domain"
	"github.com/cerroazul/gestao-obras/internal/projects/domain"
)

// ProjectRepository owns the in-memory snapshot of the projects table.
//
// Every successful mutation is followed by a full reload from the store; the
// snapshot is never patched incrementally. Reads are served from the last
// successful snapshot and never touch the network.
type ProjectRepository struct {
	store  Store
	logger *zap.Logger

	mu         sync.RWMutex
	projects   []domain.Project
	selectedID string

	// gen numbers refreshes in start order; applied is the newest one swapped in.
	gen     atomic.Uint64
	applied uint64
}

// NewProjectRepository creates an empty repository. Call Refresh to load it.
func NewProjectRepository(store Store, logger *zap.Logger) *ProjectRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProjectRepository{
		store:    store,
		logger:   logger,
		projects: []domain.Project{},
	}
}

// List returns a copy of the cached snapshot, most recently created first.
func (r *ProjectRepository) List() []domain.Project {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return clone(r.projects)
}

// Refresh reloads every row from the store and replaces the snapshot.
// On failure the previous snapshot is kept and a *domain.RemoteReadError is returned.
// A refresh that finishes after a later-started one has been applied discards
// its rows, so the snapshot never goes back to an older read.
func (r *ProjectRepository) Refresh(ctx context.Context) error {
	gen := r.gen.Add(1)
	rows, err := r.store.SelectAll(ctx)
	if err != nil {
		return &domain.RemoteReadError{Op: "select projects", Err: err}
	}

	next := make([]domain.Project, 0, len(rows))
	for _, row := range rows {
		next = append(next, FromRow(row))
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if gen < r.applied {
		return nil
	}
	r.applied = gen
	r.projects = next
	if r.selectedID != "" && indexOf(next, r.selectedID) < 0 {
		r.selectedID = ""
	}
	return nil
}

// Add inserts a new project owned by the session's actor and reloads the snapshot.
// It returns the stored record when the reload succeeded, otherwise the
// inserted values with the assigned id.
func (r *ProjectRepository) Add(ctx context.Context, sess authdomain.Session, data domain.NewProject) (domain.Project, error) {
	if !sess.CanWrite() {
		return domain.Project{}, domain.ErrAuthRequired
	}

	row := ToRow(data, sess.Actor.UserID)
	id, err := r.store.Insert(ctx, row)
	if err != nil {
		return domain.Project{}, &domain.RemoteWriteError{Op: "insert project", Err: err}
	}

	r.refreshAfterWrite(ctx, "insert", id)

	if p, ok := r.Get(id); ok {
		return p, nil
	}
	row.ID = id
	return FromRow(row), nil
}

// Update writes the supplied fields of the project with the given id and
// reloads the snapshot. domain.ErrNotFound is returned when the store matched
// no row.
func (r *ProjectRepository) Update(ctx context.Context, sess authdomain.Session, id string, patch domain.ProjectPatch) (domain.Project, error) {
	if !sess.CanWrite() {
		return domain.Project{}, domain.ErrAuthRequired
	}

	set := PatchAssignments(patch)
	if len(set) == 0 {
		return domain.Project{}, domain.ErrEmptyPatch
	}

	affected, err := r.store.Update(ctx, id, set)
	if err != nil {
		return domain.Project{}, &domain.RemoteWriteError{Op: "update project", Err: err}
	}

	r.refreshAfterWrite(ctx, "update", id)

	if affected == 0 {
		return domain.Project{}, domain.ErrNotFound
	}
	if p, ok := r.Get(id); ok {
		return p, nil
	}
	return domain.Project{ID: id}, nil
}

// Delete removes the project with the given id, reloads the snapshot and
// clears the selection if it pointed at that project.
func (r *ProjectRepository) Delete(ctx context.Context, sess authdomain.Session, id string) error {
	if !sess.CanWrite() {
		return domain.ErrAuthRequired
	}

	affected, err := r.store.Delete(ctx, id)
	if err != nil {
		return &domain.RemoteWriteError{Op: "delete project", Err: err}
	}

	r.mu.Lock()
	if r.selectedID == id {
		r.selectedID = ""
	}
	r.mu.Unlock()

	r.refreshAfterWrite(ctx, "delete", id)

	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Search matches query case-insensitively against name or location.
// A blank query returns the whole snapshot.
func (r *ProjectRepository) Search(query string) []domain.Project {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q := strings.TrimSpace(query)
	if q == "" {
		return clone(r.projects)
	}

	q = strings.ToLower(q)
	out := make([]domain.Project, 0)
	for _, p := range r.projects {
		if strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.Location), q) {
			out = append(out, p)
		}
	}
	return out
}

// Get looks id up in the snapshot. The bool is false when it is absent.
func (r *ProjectRepository) Get(id string) (domain.Project, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i := indexOf(r.projects, id); i >= 0 {
		return r.projects[i], true
	}
	return domain.Project{}, false
}

// Select marks a cached project as the one shown in the detail view.
func (r *ProjectRepository) Select(id string) (domain.Project, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := indexOf(r.projects, id)
	if i < 0 {
		return domain.Project{}, false
	}
	r.selectedID = id
	return r.projects[i], true
}

// Selected returns the currently selected project, if any.
func (r *ProjectRepository) Selected() (domain.Project, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.selectedID == "" {
		return domain.Project{}, false
	}
	if i := indexOf(r.projects, r.selectedID); i >= 0 {
		return r.projects[i], true
	}
	return domain.Project{}, false
}

// ClearSelection empties the detail view.
func (r *ProjectRepository) ClearSelection() {
	r.mu.Lock()
	r.selectedID = ""
	r.mu.Unlock()
}

// refreshAfterWrite reloads after a successful write. A failed reload does not
// undo the write; it is logged and the last good snapshot stays in place.
func (r *ProjectRepository) refreshAfterWrite(ctx context.Context, op, id string) {
	if err := r.Refresh(ctx); err != nil {
		r.logger.Error("refresh after write failed",
			zap.String("operation", op),
			zap.String("project_id", id),
			zap.Error(err),
		)
	}
}

func indexOf(projects []domain.Project, id string) int {
	for i := range projects {
		if projects[i].ID == id {
			return i
		}
	}
	return -1
}

func clone(projects []domain.Project) []domain.Project {
	out := make([]domain.Project, len(projects))
	copy(out, projects)
	return out
}
