package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	authdomain "github.com/cerroazul/gestao-obras/internal/auth/domain"
	"github.com/cerroazul/gestao-obras/internal/projects/domain"
	"github.com/cerroazul/gestao-obras/internal/projects/repository"
)

// stubStore accepts inserts and serves them back from SelectAll.
type stubStore struct {
	writes    int
	rows      []repository.Row
	insertErr error
	selectErr error
}

func (s *stubStore) SelectAll(context.Context) ([]repository.Row, error) {
	if s.selectErr != nil {
		return nil, s.selectErr
	}
	return s.rows, nil
}

func (s *stubStore) Insert(_ context.Context, row repository.Row) (string, error) {
	if s.insertErr != nil {
		return "", s.insertErr
	}
	row.ID = "id-1"
	s.rows = append([]repository.Row{row}, s.rows...)
	return row.ID, nil
}

func (s *stubStore) Update(context.Context, string, []repository.Assignment) (int64, error) {
	s.writes++
	return 1, nil
}

func (s *stubStore) Delete(context.Context, string) (int64, error) {
	s.writes++
	return 1, nil
}

var admin = authdomain.NewSession(authdomain.Actor{UserID: "user-1", Username: "admjoao"})

func setupService(store *stubStore) (*ProjectService, *observer.ObservedLogs) {
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)
	repo := repository.NewProjectRepository(store, logger)
	return NewProjectService(repo, logger), logs
}

func TestProjectService_Create(t *testing.T) {
	svc, logs := setupService(&stubStore{})

	p, err := svc.Create(context.Background(), admin, domain.NewProject{
		Name:        "  Ponte Nova ",
		Location:    "Centro",
		Area:        120,
		Progress:    10,
		Description: "Construção de ponte",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ponte Nova", p.Name)
	assert.Len(t, svc.List(), 1)
	assert.Equal(t, 1, logs.FilterMessage("project created").Len())
}

func TestProjectService_CreateValidation(t *testing.T) {
	store := &stubStore{}
	svc, _ := setupService(store)

	_, err := svc.Create(context.Background(), admin, domain.NewProject{Name: "x", Location: "y", Area: 0, Progress: 5, Description: "z"})
	var vErr *domain.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "area", vErr.Field)
	assert.Empty(t, store.rows)
}

func TestProjectService_AuthBeforeValidation(t *testing.T) {
	svc, _ := setupService(&stubStore{})

	_, err := svc.Create(context.Background(), authdomain.Anonymous(), domain.NewProject{})
	assert.ErrorIs(t, err, domain.ErrAuthRequired)

	_, err = svc.Update(context.Background(), authdomain.Anonymous(), "id-1", domain.ProjectPatch{})
	assert.ErrorIs(t, err, domain.ErrAuthRequired)

	assert.ErrorIs(t, svc.Delete(context.Background(), authdomain.Anonymous(), "id-1"), domain.ErrAuthRequired)
}

func TestProjectService_LogsRemoteFailures(t *testing.T) {
	svc, logs := setupService(&stubStore{insertErr: errors.New("connection refused")})

	_, err := svc.Create(context.Background(), admin, domain.NewProject{Name: "x", Location: "y", Area: 1, Progress: 5, Description: "z"})
	var wErr *domain.RemoteWriteError
	require.True(t, errors.As(err, &wErr))
	assert.Equal(t, 1, logs.FilterMessage("project store call failed").Len())
}

func TestProjectService_RefreshFailure(t *testing.T) {
	svc, logs := setupService(&stubStore{selectErr: errors.New("timeout")})

	err := svc.Refresh(context.Background())
	var rErr *domain.RemoteReadError
	require.True(t, errors.As(err, &rErr))
	assert.Equal(t, 1, logs.FilterMessage("refresh projects failed").Len())
	assert.Empty(t, svc.List())
}

func TestProjectService_MalformedIDIsNotFound(t *testing.T) {
	store := &stubStore{}
	svc, _ := setupService(store)
	name := "Praça"

	for _, id := range []string{"not-a-uuid", "abc", "", "urn:uuid:3f0e4b2a-7c1d-4e5f-9a8b-1c2d3e4f5a6b"} {
		_, err := svc.Update(context.Background(), admin, id, domain.ProjectPatch{Name: &name})
		assert.ErrorIs(t, err, domain.ErrNotFound, id)
		assert.ErrorIs(t, svc.Delete(context.Background(), admin, id), domain.ErrNotFound, id)
	}
	assert.Zero(t, store.writes)

	// session is checked before the id
	assert.ErrorIs(t, svc.Delete(context.Background(), authdomain.Anonymous(), "abc"), domain.ErrAuthRequired)

	assert.NoError(t, svc.Delete(context.Background(), admin, "3f0e4b2a-7c1d-4e5f-9a8b-1c2d3e4f5a6b"))
	assert.Equal(t, 1, store.writes)
}
