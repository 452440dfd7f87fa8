package bootstrap

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cerroazul/gestao-obras/config"
	"github.com/cerroazul/gestao-obras/internal/api/http/middleware"
	authrepo "github.com/cerroazul/gestao-obras/internal/auth/repository"
	authservice "github.com/cerroazul/gestao-obras/internal/auth/service"
	"github.com/cerroazul/gestao-obras/internal/projects/repository"
	projectservice "github.com/cerroazul/gestao-obras/internal/projects/service"
)

type emptyStore struct {
	rows []repository.Row
}

func (s *emptyStore) SelectAll(context.Context) ([]repository.Row, error) { return s.rows, nil }

func (s *emptyStore) Insert(_ context.Context, row repository.Row) (string, error) {
	row.ID = "5d2c7f10-aa01-4e2b-9c3d-4e5f6a7b8c9d"
	s.rows = append([]repository.Row{row}, s.rows...)
	return row.ID, nil
}

func (s *emptyStore) Update(context.Context, string, []repository.Assignment) (int64, error) {
	return 0, nil
}

func (s *emptyStore) Delete(context.Context, string) (int64, error) { return 0, nil }

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	client, err := OpenRedis(context.Background(), config.RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	sessions := authrepo.NewRedisSessionRepository(client, 0)
	authSvc := authservice.NewAuthService("admjoao", "adm", "user-1", sessions)
	projects := projectservice.NewProjectService(repository.NewProjectRepository(&emptyStore{}, nil), nil)

	return BuildRouter(RouterDeps{
		ServiceName: "gestao-obras",
		Version:     "test",
		CORSOrigins: []string{"http://localhost:5173"},
		RateLimiter: middleware.NewRateLimiter(0, 0),
		Sessions:    sessions,
		Auth:        authSvc,
		Projects:    projects,
	})
}

func call(r *gin.Engine, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestBuildRouter_EndToEnd(t *testing.T) {
	r := newTestRouter(t)

	rr := call(r, http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"sessions":"up"`)
	assert.NotEmpty(t, rr.Header().Get("X-Request-Id"))

	rr = call(r, http.MethodPost, "/api/v1/projects", `{"name":"Ponte Nova","location":"Centro","area":120,"progress":10,"description":"Ponte"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = call(r, http.MethodPost, "/api/v1/auth/login", `{"username":"admjoao","password":"adm"}`, "")
	require.Equal(t, http.StatusOK, rr.Code)
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &login))

	rr = call(r, http.MethodPost, "/api/v1/projects", `{"name":"Ponte Nova","location":"Centro","area":120,"progress":10,"description":"Ponte"}`, login.Token)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = call(r, http.MethodGet, "/api/v1/projects/5d2c7f10-aa01-4e2b-9c3d-4e5f6a7b8c9d/report", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "DOC-aa01")

	rr = call(r, http.MethodGet, "/api/v1/projects/5d2c7f10-aa01-4e2b-9c3d-4e5f6a7b8c9d/report.pdf", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestBuildRouter_AttachmentsDisabledWithoutStore(t *testing.T) {
	r := newTestRouter(t)
	rr := call(r, http.MethodPost, "/api/v1/attachments", "", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestOpenRedis_Disabled(t *testing.T) {
	client, err := OpenRedis(context.Background(), config.RedisConfig{})
	require.NoError(t, err)
	assert.Nil(t, client)
}
