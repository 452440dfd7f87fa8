package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	authdomain "github.com/cerroazul/gestao-obras/internal/auth/domain"
	"github.com/cerroazul/gestao-obras/internal/logging"
	"github.com/cerroazul/gestao-obras/internal/projects/domain"
	"github.com/cerroazul/gestao-obras/internal/projects/repository"
)

// ProjectService validates input before it reaches the repository and logs
// remote store failures at the operation boundary.
type ProjectService struct {
	repo   *repository.ProjectRepository
	logger *zap.Logger
}

// NewProjectService creates a new project service
func NewProjectService(repo *repository.ProjectRepository, logger *zap.Logger) *ProjectService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProjectService{
		repo:   repo,
		logger: logger,
	}
}

// Refresh reloads the snapshot from the store
func (s *ProjectService) Refresh(ctx context.Context) error {
	if err := s.repo.Refresh(ctx); err != nil {
		s.log(ctx).Error("refresh projects failed", zap.Error(err))
		return err
	}
	return nil
}

// List returns the cached projects
func (s *ProjectService) List() []domain.Project {
	return s.repo.List()
}

// Search filters the cached projects by name or location
func (s *ProjectService) Search(query string) []domain.Project {
	return s.repo.Search(query)
}

// Get returns a cached project
func (s *ProjectService) Get(id string) (domain.Project, bool) {
	return s.repo.Get(id)
}

// Create validates and registers a new project
func (s *ProjectService) Create(ctx context.Context, sess authdomain.Session, data domain.NewProject) (domain.Project, error) {
	if !sess.CanWrite() {
		return domain.Project{}, domain.ErrAuthRequired
	}
	data.Normalize()
	if err := data.Validate(); err != nil {
		return domain.Project{}, err
	}

	p, err := s.repo.Add(ctx, sess, data)
	if err != nil {
		s.logFailure(ctx, "create", "", err)
		return domain.Project{}, err
	}
	s.log(ctx).Info("project created", zap.String("project_id", p.ID), zap.String("actor", sess.Actor.Username))
	return p, nil
}

// Update validates and applies a partial update
func (s *ProjectService) Update(ctx context.Context, sess authdomain.Session, id string, patch domain.ProjectPatch) (domain.Project, error) {
	if !sess.CanWrite() {
		return domain.Project{}, domain.ErrAuthRequired
	}
	if !validID(id) {
		return domain.Project{}, domain.ErrNotFound
	}
	patch.Normalize()
	if err := patch.Validate(); err != nil {
		return domain.Project{}, err
	}

	p, err := s.repo.Update(ctx, sess, id, patch)
	if err != nil {
		s.logFailure(ctx, "update", id, err)
		return domain.Project{}, err
	}
	s.log(ctx).Info("project updated", zap.String("project_id", id), zap.String("actor", sess.Actor.Username))
	return p, nil
}

// Delete removes a project
func (s *ProjectService) Delete(ctx context.Context, sess authdomain.Session, id string) error {
	if !sess.CanWrite() {
		return domain.ErrAuthRequired
	}
	if !validID(id) {
		return domain.ErrNotFound
	}
	if err := s.repo.Delete(ctx, sess, id); err != nil {
		s.logFailure(ctx, "delete", id, err)
		return err
	}
	s.log(ctx).Info("project deleted", zap.String("project_id", id), zap.String("actor", sess.Actor.Username))
	return nil
}

// Select marks a project for the detail view
func (s *ProjectService) Select(id string) (domain.Project, bool) {
	return s.repo.Select(id)
}

// Selected returns the project in the detail view
func (s *ProjectService) Selected() (domain.Project, bool) {
	return s.repo.Selected()
}

// ClearSelection empties the detail view
func (s *ProjectService) ClearSelection() {
	s.repo.ClearSelection()
}

// validID reports whether id can name a row. Ids are Postgres uuids, so
// anything else cannot match and must not reach the store.
func validID(id string) bool {
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

func (s *ProjectService) logFailure(ctx context.Context, op, id string, err error) {
	var (
		wErr *domain.RemoteWriteError
		rErr *domain.RemoteReadError
	)
	if errors.As(err, &wErr) || errors.As(err, &rErr) {
		s.log(ctx).Error("project store call failed",
			zap.String("operation", op),
			zap.String("project_id", id),
			zap.Error(err),
		)
	}
}

func (s *ProjectService) log(ctx context.Context) *zap.Logger {
	return logging.FromContext(ctx, s.logger)
}
