package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cerroazul/gestao-obras/internal/auth"
	authdomain "github.com/cerroazul/gestao-obras/internal/auth/domain"
	authrepo "github.com/cerroazul/gestao-obras/internal/auth/repository"
	authservice "github.com/cerroazul/gestao-obras/internal/auth/service"
	"github.com/cerroazul/gestao-obras/internal/projects/repository"
	"github.com/cerroazul/gestao-obras/internal/projects/service"
	"github.com/cerroazul/gestao-obras/internal/report"
)

// memStore is a minimal Store keeping rows newest first.
type memStore struct {
	writes  int
	rows    []repository.Row
	seq     int
	readErr error
}

func (m *memStore) SelectAll(context.Context) ([]repository.Row, error) {
	if m.readErr != nil {
		return nil, m.readErr
	}
	out := make([]repository.Row, len(m.rows))
	copy(out, m.rows)
	return out, nil
}

func (m *memStore) Insert(_ context.Context, row repository.Row) (string, error) {
	m.seq++
	row.ID = fmt.Sprintf("4b6d8e21-%04d-4c3b-8a9d-0e1f2a3b4c5d", m.seq)
	row.CreatedAt = time.Date(2024, 1, 1, 0, 0, m.seq, 0, time.UTC)
	row.UpdatedAt = row.CreatedAt
	m.rows = append([]repository.Row{row}, m.rows...)
	return row.ID, nil
}

func (m *memStore) Update(_ context.Context, id string, set []repository.Assignment) (int64, error) {
	m.writes++
	for i := range m.rows {
		if m.rows[i].ID != id {
			continue
		}
		for _, a := range set {
			switch a.Column {
			case "name":
				m.rows[i].Name = a.Value.(string)
			case "progress":
				m.rows[i].Progress = a.Value.(float64)
			}
		}
		return 1, nil
	}
	return 0, nil
}

func (m *memStore) Delete(_ context.Context, id string) (int64, error) {
	m.writes++
	for i := range m.rows {
		if m.rows[i].ID == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

type fakePrinter struct {
	err error
	got []byte
}

func (f *fakePrinter) PrintPDF(_ context.Context, html []byte) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.got = html
	return []byte("%PDF-1.4"), nil
}

type testServer struct {
	router  *gin.Engine
	store   *memStore
	printer *fakePrinter
	token   string
}

func setupServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := &memStore{}
	svc := service.NewProjectService(repository.NewProjectRepository(store, nil), nil)
	require.NoError(t, svc.Refresh(context.Background()))

	authSvc := authservice.NewAuthService("admjoao", "adm", "user-1", authrepo.NewMemorySessionRepository())
	token, _, err := authSvc.Login(context.Background(), authdomain.Credentials{Username: "admjoao", Password: "adm"})
	require.NoError(t, err)

	printer := &fakePrinter{}
	h := New(svc, printer)
	h.now = func() time.Time { return time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC) }

	r := gin.New()
	api := r.Group("/api/v1")
	api.Use(auth.WithSession(authSvc, nil))
	h.Register(api.Group("/projects"))
	h.RegisterSelection(api.Group("/selection"))

	return &testServer{router: r, store: store, printer: printer, token: token}
}

func (s *testServer) do(method, path, body string, authed bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

type projectBody struct {
	OK      bool   `json:"ok"`
	Error   string `json:"error"`
	Field   string `json:"field"`
	Project *struct {
		ID       string  `json:"id"`
		Name     string  `json:"name"`
		Progress float64 `json:"progress"`
	} `json:"project"`
	Projects []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"projects"`
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) projectBody {
	t.Helper()
	var out projectBody
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	return out
}

const ponteJSON = `{"name":"Ponte Nova","location":"Centro","area":120,"progress":10,"description":"Construção de ponte"}`

func (s *testServer) create(t *testing.T, body string) string {
	t.Helper()
	rr := s.do(http.MethodPost, "/api/v1/projects", body, true)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return decode(t, rr).Project.ID
}

func TestCreateAndList(t *testing.T) {
	s := setupServer(t)

	id := s.create(t, ponteJSON)
	assert.NotEmpty(t, id)
	s.create(t, `{"name":"Creche","location":"Bairro Alto","area":300,"progress":0,"description":"Creche nova"}`)

	rr := s.do(http.MethodGet, "/api/v1/projects", "", false)
	require.Equal(t, http.StatusOK, rr.Code)
	body := decode(t, rr)
	require.Len(t, body.Projects, 2)
	assert.Equal(t, "Creche", body.Projects[0].Name)

	rr = s.do(http.MethodGet, "/api/v1/projects?q=PONTE", "", false)
	body = decode(t, rr)
	require.Len(t, body.Projects, 1)
	assert.Equal(t, id, body.Projects[0].ID)

	rr = s.do(http.MethodGet, "/api/v1/projects/"+id, "", false)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Ponte Nova", decode(t, rr).Project.Name)
}

func TestMutationsRequireSession(t *testing.T) {
	s := setupServer(t)
	id := s.create(t, ponteJSON)

	rr := s.do(http.MethodPost, "/api/v1/projects", ponteJSON, false)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = s.do(http.MethodPatch, "/api/v1/projects/"+id, `{"progress":50}`, false)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = s.do(http.MethodDelete, "/api/v1/projects/"+id, "", false)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	assert.Len(t, s.store.rows, 1)
}

func TestCreateValidation(t *testing.T) {
	s := setupServer(t)

	rr := s.do(http.MethodPost, "/api/v1/projects", `{"name":"x","location":"y","area":10,"progress":120,"description":"z"}`, true)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	body := decode(t, rr)
	assert.False(t, body.OK)
	assert.Equal(t, "progress", body.Field)

	rr = s.do(http.MethodPost, "/api/v1/projects", `{"name":`, true)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Empty(t, s.store.rows)
}

func TestUpdateAndDelete(t *testing.T) {
	s := setupServer(t)
	id := s.create(t, ponteJSON)

	rr := s.do(http.MethodPatch, "/api/v1/projects/"+id, `{"progress":73}`, true)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, 73.0, decode(t, rr).Project.Progress)

	rr = s.do(http.MethodPatch, "/api/v1/projects/"+id, `{}`, true)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = s.do(http.MethodPatch, "/api/v1/projects/missing", `{"name":"x"}`, true)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = s.do(http.MethodDelete, "/api/v1/projects/"+id, "", true)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = s.do(http.MethodGet, "/api/v1/projects/"+id, "", false)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = s.do(http.MethodDelete, "/api/v1/projects/"+id, "", true)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestMalformedIDReturnsNotFound(t *testing.T) {
	s := setupServer(t)
	s.create(t, ponteJSON)

	rr := s.do(http.MethodPatch, "/api/v1/projects/not-a-uuid", `{"name":"x"}`, true)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.False(t, decode(t, rr).OK)

	rr = s.do(http.MethodDelete, "/api/v1/projects/not-a-uuid", "", true)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = s.do(http.MethodGet, "/api/v1/projects/not-a-uuid", "", false)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	assert.Zero(t, s.store.writes)
	assert.Len(t, s.store.rows, 1)
}

func TestRefreshFailure(t *testing.T) {
	s := setupServer(t)
	s.create(t, ponteJSON)
	s.store.readErr = errors.New("connection reset")

	rr := s.do(http.MethodPost, "/api/v1/projects/refresh", "", false)
	assert.Equal(t, http.StatusBadGateway, rr.Code)

	rr = s.do(http.MethodGet, "/api/v1/projects", "", false)
	assert.Len(t, decode(t, rr).Projects, 1)
}

func TestSelection(t *testing.T) {
	s := setupServer(t)
	id := s.create(t, ponteJSON)

	rr := s.do(http.MethodGet, "/api/v1/selection", "", false)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Nil(t, decode(t, rr).Project)

	rr = s.do(http.MethodPut, "/api/v1/selection", `{"id":"missing"}`, false)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = s.do(http.MethodPut, "/api/v1/selection", fmt.Sprintf(`{"id":%q}`, id), false)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = s.do(http.MethodGet, "/api/v1/selection", "", false)
	require.NotNil(t, decode(t, rr).Project)

	s.do(http.MethodDelete, "/api/v1/projects/"+id, "", true)
	rr = s.do(http.MethodGet, "/api/v1/selection", "", false)
	assert.Nil(t, decode(t, rr).Project)
}

func TestReportHTML(t *testing.T) {
	s := setupServer(t)
	id := s.create(t, ponteJSON)

	rr := s.do(http.MethodGet, "/api/v1/projects/"+id+"/report", "", false)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rr.Body.String(), "Documento Nº: DOC-0001")
	assert.Contains(t, rr.Body.String(), "Data de Emissão: 01/04/2024")

	rr = s.do(http.MethodGet, "/api/v1/projects/missing/report", "", false)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestReportPDF(t *testing.T) {
	s := setupServer(t)
	id := s.create(t, ponteJSON)

	rr := s.do(http.MethodGet, "/api/v1/projects/"+id+"/report.pdf", "", false)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/pdf", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "DOC-0001.pdf")
	assert.Equal(t, "%PDF-1.4", rr.Body.String())
	assert.Contains(t, string(s.printer.got), "Ponte Nova")

	s.printer.err = fmt.Errorf("%w: no chrome", report.ErrPopupBlocked)
	rr = s.do(http.MethodGet, "/api/v1/projects/"+id+"/report.pdf", "", false)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Equal(t, popupBlockedMessage, decode(t, rr).Error)
}
