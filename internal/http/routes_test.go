package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ibmec/pict-api/internal/adapters/identityrules"
	"github.com/ibmec/pict-api/internal/adapters/localfs"
	"github.com/ibmec/pict-api/internal/core"
	domainauth "github.com/ibmec/pict-api/internal/domain/auth"
	"github.com/ibmec/pict-api/internal/domain/model"
	"github.com/ibmec/pict-api/internal/mocks"
	mockauth "github.com/ibmec/pict-api/internal/mocks/auth"
	"github.com/ibmec/pict-api/internal/service"
	"github.com/ibmec/pict-api/internal/sessiontoken"
)

const testSecret = "router-test-secret"

type routerFixture struct {
	handler    http.Handler
	tokens     *sessiontoken.Service
	students   *mocks.MockStudentRepository
	advisors   *mocks.MockAdvisorRepository
	projects   *mocks.MockProjectRepository
	documents  *mocks.MockDocumentRepository
	activities *mocks.MockActivityRepository
	uploadsDir string
}

func newRouterFixture(t *testing.T) routerFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	dir := t.TempDir()
	uploadsDir := filepath.Join(dir, "uploads")
	settings, err := localfs.NewSettingsStore(filepath.Join(dir, "data"))
	require.NoError(t, err)
	files, err := localfs.NewFileStore(uploadsDir, 1<<20)
	require.NoError(t, err)

	tokens, err := sessiontoken.New(sessiontoken.Options{Secret: testSecret, TTL: 24 * time.Hour, Issuer: "pict-api"})
	require.NoError(t, err)

	f := routerFixture{
		tokens:     tokens,
		students:   mocks.NewMockStudentRepository(ctrl),
		advisors:   mocks.NewMockAdvisorRepository(ctrl),
		projects:   mocks.NewMockProjectRepository(ctrl),
		documents:  mocks.NewMockDocumentRepository(ctrl),
		activities: mocks.NewMockActivityRepository(ctrl),
		uploadsDir: uploadsDir,
	}
	comments := mocks.NewMockCommentRepository(ctrl)
	admins := mocks.NewMockAdminRepository(ctrl)

	roles := identityrules.Table{
		AdminIdentifier: "202302129633",
		AdminDomain:     "ibmec.edu.br",
		AdvisorDomain:   "professores.ibmec.edu.br",
	}
	auth := service.NewAuthService(service.AuthServiceOptions{
		Provider:    mockauth.NewMockAuthProvider(),
		States:      mockauth.NewMemoryStateStore(),
		Identities:  service.NewIdentityService(service.IdentityServiceOptions{Students: f.students, Advisors: f.advisors, Roles: roles}),
		Tokens:      tokens,
		FrontendURL: "http://localhost:3000",
	})

	f.handler = NewRouter(RouterServices{
		Auth:     auth,
		Projects: service.NewProjectService(service.ProjectServiceOptions{Projects: f.projects, Advisors: f.advisors, Settings: settings}),
		Documents: service.NewDocumentService(service.DocumentServiceOptions{
			Projects:   f.projects,
			Documents:  f.documents,
			Comments:   comments,
			Activities: f.activities,
			Files:      files,
		}),
		Activities:     service.NewActivityService(service.ActivityServiceOptions{Projects: f.projects, Activities: f.activities}),
		Profiles:       service.NewProfileService(service.ProfileServiceOptions{Students: f.students, Advisors: f.advisors, Admins: admins}),
		Settings:       service.NewSettingsService(service.SettingsServiceOptions{Store: settings, Files: files}),
		APIPrefix:      "/api/v1",
		AllowedOrigins: []string{"http://localhost:3000"},
		UploadsDir:     uploadsDir,
		MaxUploadBytes: 1 << 20,
		Version:        "test",
	})
	return f
}

func (f routerFixture) token(t *testing.T, s domainauth.Subject) string {
	t.Helper()
	tok, err := f.tokens.Issue(s)
	require.NoError(t, err)
	return tok
}

func (f routerFixture) do(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)
	return w
}

func testStudent() domainauth.StudentSubject {
	return domainauth.StudentSubject{
		SubjectBase: domainauth.SubjectBase{UserID: 1, Email: "ana@ibmec.edu.br", Name: "Ana"},
		Matricula:   "ANA",
	}
}

func testAdvisor() domainauth.AdvisorSubject {
	return domainauth.AdvisorSubject{
		SubjectBase: domainauth.SubjectBase{UserID: 2, Email: "joao@professores.ibmec.edu.br", Name: "João"},
		Codigo:      "JOAO",
	}
}

func testAdmin() domainauth.AdminSubject {
	return domainauth.AdminSubject{
		AdvisorSubject: domainauth.AdvisorSubject{
			SubjectBase: domainauth.SubjectBase{UserID: 3, Email: "202302129633@ibmec.edu.br"},
			Codigo:      "2023021296",
		},
		StudentID: 4,
	}
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestRouter_Health(t *testing.T) {
	t.Parallel()
	f := newRouterFixture(t)

	w := f.do(httptest.NewRequest(http.MethodGet, "/health", nil), "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "online", body["status"])
	assert.Equal(t, "test", body["version"])

	w = f.do(httptest.NewRequest(http.MethodHead, "/healthz", nil), "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_NotFound(t *testing.T) {
	t.Parallel()
	f := newRouterFixture(t)

	w := f.do(httptest.NewRequest(http.MethodGet, "/api/v1/nada", nil), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not_found", decodeBody(t, w)["error"])
}

func TestRouter_TokenGates(t *testing.T) {
	t.Parallel()
	f := newRouterFixture(t)

	expiredIssuer, err := sessiontoken.New(sessiontoken.Options{
		Secret: testSecret,
		TTL:    24 * time.Hour,
		Now:    func() time.Time { return time.Now().Add(-25 * time.Hour) },
	})
	require.NoError(t, err)
	expired, err := expiredIssuer.Issue(testStudent())
	require.NoError(t, err)

	otherKey, err := sessiontoken.New(sessiontoken.Options{Secret: "other-secret"})
	require.NoError(t, err)
	forged, err := otherKey.Issue(testStudent())
	require.NoError(t, err)

	tests := []struct {
		name  string
		path  string
		token string
		want  int
	}{
		{"missing token", "/api/v1/projetos/meus-projetos", "", http.StatusUnauthorized},
		{"expired token", "/api/v1/projetos/meus-projetos", expired, http.StatusUnauthorized},
		{"wrong signature", "/api/v1/projetos/meus-projetos", forged, http.StatusUnauthorized},
		{"student on advisor route", "/api/v1/projetos/pendentes", f.token(t, testStudent()), http.StatusForbidden},
		{"admin on advisor-only route", "/api/v1/projetos/pendentes", f.token(t, testAdmin()), http.StatusForbidden},
		{"advisor on admin route", "/api/v1/projetos/todos-pendentes", f.token(t, testAdvisor()), http.StatusForbidden},
		{"advisor on student route", "/api/v1/projetos/meus-projetos", f.token(t, testAdvisor()), http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.do(httptest.NewRequest(http.MethodGet, tt.path, nil), tt.token)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestRouter_AdvisorListing(t *testing.T) {
	t.Parallel()
	f := newRouterFixture(t)

	f.projects.EXPECT().List(gomock.Any(), model.ProjectFilter{OrientadorID: 2, Status: model.ProjectStatusPending}).
		Return([]model.ProjectListing{{Project: model.Project{ID: 8, Titulo: "Crédito"}, AlunoNome: "Ana"}}, nil)

	w := f.do(httptest.NewRequest(http.MethodGet, "/api/v1/projetos/pendentes", nil), f.token(t, testAdvisor()))
	require.Equal(t, http.StatusOK, w.Code)

	var listing []model.ProjectListing
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listing))
	require.Len(t, listing, 1)
	assert.Equal(t, int64(8), listing[0].ID)
	assert.Equal(t, "Ana", listing[0].AlunoNome)
}

func TestRouter_AdminListing_EmptyIsArray(t *testing.T) {
	t.Parallel()
	f := newRouterFixture(t)

	f.projects.EXPECT().List(gomock.Any(), model.ProjectFilter{Status: model.ProjectStatusActive}).Return(nil, nil)

	w := f.do(httptest.NewRequest(http.MethodGet, "/api/v1/projetos/todos-ativos", nil), f.token(t, testAdmin()))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestRouter_Approve_BadID(t *testing.T) {
	t.Parallel()
	f := newRouterFixture(t)

	w := f.do(httptest.NewRequest(http.MethodPost, "/api/v1/projetos/aprovar/abc", nil), f.token(t, testAdvisor()))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "validation", decodeBody(t, w)["error"])
}

func TestRouter_EnrollmentWindow(t *testing.T) {
	t.Parallel()
	f := newRouterFixture(t)

	w := f.do(httptest.NewRequest(http.MethodGet, "/api/v1/projetos/inscricao-periodo", nil), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeBody(t, w)["aberto"])

	w = f.do(httptest.NewRequest(http.MethodPost, "/api/v1/projetos/fechar-inscricao", nil), f.token(t, testStudent()))
	require.Equal(t, http.StatusForbidden, w.Code)

	w = f.do(httptest.NewRequest(http.MethodPost, "/api/v1/projetos/fechar-inscricao", nil), f.token(t, testAdmin()))
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, false, body["aberto"])
	assert.Equal(t, false, body["periodo_aberto"])

	req := httptest.NewRequest(http.MethodPost, "/api/v1/projetos/cadastrar",
		strings.NewReader(`{"titulo":"Crédito","descricao":"x","orientador_id":2}`))
	req.Header.Set("Content-Type", "application/json")
	w = f.do(req, f.token(t, testStudent()))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "O período de inscrições está encerrado", decodeBody(t, w)["message"])
}

func TestRouter_CreateProject(t *testing.T) {
	t.Parallel()
	f := newRouterFixture(t)

	f.advisors.EXPECT().GetByID(gomock.Any(), int64(2)).Return(&model.Advisor{ID: 2}, nil)
	f.projects.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, in model.NewProject) (*model.Project, error) {
		assert.Equal(t, int64(1), in.AlunoID)
		assert.Equal(t, "Crédito", in.Titulo)
		return &model.Project{ID: 50, Codigo: in.Codigo, Status: model.ProjectStatusPending}, nil
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/projetos/cadastrar",
		strings.NewReader(`{"titulo":"Crédito","descricao":"x","orientador_id":2}`))
	w := f.do(req, f.token(t, testStudent()))

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.Equal(t, "Projeto cadastrado com sucesso", body["message"])
	assert.EqualValues(t, 50, body["projeto_id"])
}

func TestRouter_InvalidJSON(t *testing.T) {
	t.Parallel()
	f := newRouterFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/projetos/cadastrar", strings.NewReader(`{"titulo":`))
	w := f.do(req, f.token(t, testStudent()))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_json", decodeBody(t, w)["error"])
}

func TestRouter_LoginFlow(t *testing.T) {
	t.Parallel()
	f := newRouterFixture(t)

	w := f.do(httptest.NewRequest(http.MethodGet, "/api/v1/auth/microsoft-login", nil), "")
	require.Equal(t, http.StatusFound, w.Code)
	loc, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	state := loc.Query().Get("state")
	require.NotEmpty(t, state)

	f.students.EXPECT().GetByEmail(gomock.Any(), "mock.aluno@ibmec.edu.br").
		Return(&model.Student{ID: 42, Email: "mock.aluno@ibmec.edu.br", Nome: "Mock", Matricula: "MOCK"}, nil)

	w = f.do(httptest.NewRequest(http.MethodGet, "/api/v1/auth/callback?code=abc&state="+url.QueryEscape(state), nil), "")
	require.Equal(t, http.StatusFound, w.Code, w.Body.String())
	redirect, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "/aluno/dashboard", redirect.Path)
	token := redirect.Query().Get("token")
	require.NotEmpty(t, token)

	// The token works against /auth/me, which hides the upstream credential.
	w = f.do(httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil), token)
	require.Equal(t, http.StatusOK, w.Code)
	me := decodeBody(t, w)
	assert.EqualValues(t, 42, me["user_id"])
	assert.Equal(t, "aluno", me["user_type"])
	assert.NotContains(t, me, "microsoft_token")

	// Replaying the state fails.
	w = f.do(httptest.NewRequest(http.MethodGet, "/api/v1/auth/callback?code=abc&state="+url.QueryEscape(state), nil), "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_state", decodeBody(t, w)["error"])
}

func TestRouter_CallbackErrors(t *testing.T) {
	t.Parallel()
	f := newRouterFixture(t)

	w := f.do(httptest.NewRequest(http.MethodGet, "/api/v1/auth/callback?code=abc&state=forged", nil), "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_state", decodeBody(t, w)["error"])

	w = f.do(httptest.NewRequest(http.MethodGet, "/api/v1/auth/callback?error=access_denied", nil), "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "upstream_auth", decodeBody(t, w)["error"])
}

func TestRouter_CallbackAlias(t *testing.T) {
	t.Parallel()
	f := newRouterFixture(t)

	w := f.do(httptest.NewRequest(http.MethodGet, "/auth/callback?code=a&state=b", nil), "")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/api/v1/auth/callback?code=a&state=b", w.Header().Get("Location"))
}

func TestRouter_Logout(t *testing.T) {
	t.Parallel()
	f := newRouterFixture(t)

	w := f.do(httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil), "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Logout realizado com sucesso", decodeBody(t, w)["message"])
}

func TestRouter_UploadAndServe(t *testing.T) {
	t.Parallel()
	f := newRouterFixture(t)

	f.projects.EXPECT().GetByID(gomock.Any(), int64(10)).Return(&model.Project{ID: 10, AlunoID: 1, OrientadorID: 2}, nil)
	f.activities.EXPECT().Count(gomock.Any(), core.ActivityKey{ProjetoID: 10, AlunoID: 1, ProfessorID: 2}).Return(int64(1), nil)
	var stored string
	f.documents.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, in model.NewDocument) (*model.Document, error) {
		stored = in.CaminhoArquivo
		assert.Equal(t, "relatorio.pdf", in.NomeArquivo)
		assert.Equal(t, "versão 1", in.ComentarioAluno)
		return &model.Document{ID: 5, ProjetoID: 10, NomeArquivo: in.NomeArquivo, CaminhoArquivo: in.CaminhoArquivo}, nil
	})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("arquivo", "relatorio.pdf")
	require.NoError(t, err)
	_, err = io.WriteString(fw, "%PDF-1.4")
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("comentario", "versão 1"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documentos/upload/10", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := f.do(req, f.token(t, testStudent()))

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.EqualValues(t, 5, decodeBody(t, w)["documento_id"])
	require.NotEmpty(t, stored)

	onDisk, err := os.ReadFile(filepath.Join(f.uploadsDir, filepath.FromSlash(stored)))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(onDisk))

	w = f.do(httptest.NewRequest(http.MethodGet, "/uploads/"+stored, nil), "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "%PDF-1.4", w.Body.String())

	w = f.do(httptest.NewRequest(http.MethodGet, "/uploads/projeto_10/", nil), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_UploadMissingFile(t *testing.T) {
	t.Parallel()
	f := newRouterFixture(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("comentario", "sem arquivo"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documentos/upload/10", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := f.do(req, f.token(t, testStudent()))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "validation", decodeBody(t, w)["error"])
}

func TestRouter_CORSPreflight(t *testing.T) {
	t.Parallel()
	f := newRouterFixture(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/projetos/cadastrar", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Authorization, Content-Type")
	w := f.do(req, "")

	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodOptions, "/api/v1/projetos/cadastrar", nil)
	req.Header.Set("Origin", "http://evil.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w = f.do(req, "")
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
