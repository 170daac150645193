package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/darkClaw921/main-site-templats/internal/database"
	"github.com/darkClaw921/main-site-templats/internal/handlers"
	"github.com/darkClaw921/main-site-templats/internal/middleware"
	"github.com/darkClaw921/main-site-templats/internal/models"
	"github.com/darkClaw921/main-site-templats/internal/services"
	"github.com/darkClaw921/main-site-templats/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testPassword = "s3cret"
	testSecret   = "test-secret-key-for-jwt-signing-must-be-long-enough"
)

type stubGenerator struct {
	configured bool
	err        error
}

func (g stubGenerator) Configured() bool { return g.configured }

func (g stubGenerator) GenerateProjectDraft(context.Context, string) (*models.ProjectDraft, error) {
	if g.err != nil {
		return nil, g.err
	}
	return &models.ProjectDraft{
		Title:     "Generated CRM",
		Industry:  "Retail",
		Results:   []string{"+20% sales"},
		TechStack: map[string]string{"Backend": "Go"},
	}, nil
}

func (g stubGenerator) GenerateTweakDraft(context.Context, string) (*models.TweakDraft, error) {
	if g.err != nil {
		return nil, g.err
	}
	return &models.TweakDraft{Title: "Generated tweak", Category: models.CategoryUI}, nil
}

type stubDescriber struct{ ok bool }

func (d stubDescriber) Describe(context.Context, string) (string, bool) {
	return "Description: tool", d.ok
}

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return errors.New("connection refused") }

const storeFailure = `pq: relation "projects" does not exist at 10.0.0.5:5432`

// brokenStore fails every list call with a driver error.
type brokenStore struct {
	*database.MemoryStore
}

func (brokenStore) ListProjects(context.Context) ([]models.Project, error) {
	return nil, errors.New(storeFailure)
}

func (brokenStore) ListTweaks(context.Context) ([]models.Tweak, error) {
	return nil, errors.New(storeFailure)
}

type testApp struct {
	router *gin.Engine
	repo   *database.MemoryStore
	static string
	token  string
}

type appOption func(*handlers.Deps)

func withGenerator(g services.Generator, d services.RepositoryDescriber) appOption {
	return func(deps *handlers.Deps) {
		deps.Drafts = services.NewDraftService(g, d, deps.Logger)
	}
}

func withBrokenStore() appOption {
	return func(deps *handlers.Deps) {
		store := brokenStore{database.NewMemoryStore()}
		deps.Projects = services.NewProjectService(store, deps.Images, deps.Logger)
		deps.Tweaks = services.NewTweakService(store, deps.Logger)
	}
}

func newTestApp(t *testing.T, opts ...appOption) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	static := t.TempDir()
	images, err := storage.NewLocalStore(static, filepath.Join(static, "uploads"))
	require.NoError(t, err)
	auth, err := middleware.NewAdminAuth(testPassword, testSecret, time.Hour, false, logger)
	require.NoError(t, err)
	token, err := auth.Login(testPassword)
	require.NoError(t, err)

	repo := database.NewMemoryStore()
	deps := handlers.Deps{
		Projects:    services.NewProjectService(repo, images, logger),
		Tweaks:      services.NewTweakService(repo, logger),
		Drafts:      services.NewDraftService(stubGenerator{}, stubDescriber{}, logger),
		Auth:        auth,
		Images:      images,
		DB:          repo,
		StaticDir:   static,
		CORSOrigins: []string{"*"},
		Logger:      logger,
	}
	for _, opt := range opts {
		opt(&deps)
	}

	router, err := handlers.NewRouter(deps)
	require.NoError(t, err)
	return &testApp{router: router, repo: repo, static: static, token: token}
}

func (a *testApp) do(req *http.Request, admin bool) *httptest.ResponseRecorder {
	if admin {
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: a.token})
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) get(path string, admin bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	return a.do(req, admin)
}

func (a *testApp) postForm(path string, values url.Values, admin bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return a.do(req, admin)
}

func (a *testApp) postMultipart(t *testing.T, path string, values url.Values, files map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for key, vals := range values {
		for _, v := range vals {
			require.NoError(t, w.WriteField(key, v))
		}
	}
	for name, content := range files {
		part, err := w.CreateFormFile("images", name)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return a.do(req, true)
}

func projectValues() url.Values {
	return url.Values{
		"title":             {"Shop CRM"},
		"industry":          {"Retail"},
		"results":           {"+20% sales\n\nFaster checkout"},
		"timeline":          {"3 months"},
		"budget":            {"$10k"},
		"benefits":          {"Less manual work"},
		"tech_stack_keys":   {"Backend", "", "Frontend"},
		"tech_stack_values": {"Go", "ignored", "React"},
	}
}

func seedProject(t *testing.T, a *testApp, images ...string) *models.Project {
	t.Helper()
	p, err := a.repo.CreateProject(context.Background(), models.Project{
		Title:     "Seeded",
		Industry:  "Finance",
		Results:   models.Results{"Done"},
		Timeline:  "1 month",
		Budget:    "$1k",
		Benefits:  "Speed",
		TechStack: models.TechStack{"Database": "PostgreSQL"},
		Images:    images,
	})
	require.NoError(t, err)
	return p
}

func writeStatic(t *testing.T, a *testApp, rel string) {
	t.Helper()
	full := filepath.Join(a.static, filepath.FromSlash(rel))
	require.NoError(t, os.WriteFile(full, []byte("img"), 0o644))
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)
	w := app.get("/health", false)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","database":"ok"}`, w.Body.String())
}

func TestHealth_DatabaseDown(t *testing.T) {
	app := newTestApp(t, func(d *handlers.Deps) { d.DB = failingPinger{} })
	w := app.get("/health", false)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "unavailable")
}

func TestIndex_RendersProjectsAndTweaks(t *testing.T) {
	app := newTestApp(t)
	seedProject(t, app, "uploads/a.png")
	_, err := app.repo.CreateTweak(context.Background(), models.Tweak{
		Title:       "Faster search",
		Description: "Added an index",
		Category:    models.CategoryOptimization,
	})
	require.NoError(t, err)

	w := app.get("/", false)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Seeded")
	assert.Contains(t, body, "/static/uploads/a.png")
	assert.Contains(t, body, "/static/icons/database.svg")
	assert.Contains(t, body, "Faster search")
	assert.Contains(t, body, "Optimization")
	assert.NotContains(t, body, "Log out")
}

func TestAPIProjects(t *testing.T) {
	app := newTestApp(t)
	seedProject(t, app)

	w := app.get("/api/projects", false)
	require.Equal(t, http.StatusOK, w.Code)

	var got []models.ProjectResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Seeded", got[0].Title)
	assert.Equal(t, []string{}, got[0].Images)
	assert.Nil(t, got[0].GithubURL)
}

func TestAPI_StoreFailureHidesDetail(t *testing.T) {
	app := newTestApp(t, withBrokenStore())

	for path, msg := range map[string]string{
		"/api/projects": "failed to list projects",
		"/api/tweaks":   "failed to list tweaks",
	} {
		w := app.get(path, false)
		assert.Equal(t, http.StatusInternalServerError, w.Code, path)

		var got map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got), path)
		assert.Equal(t, map[string]any{"error": msg}, got, path)
		assert.NotContains(t, w.Body.String(), "10.0.0.5", path)
		assert.NotContains(t, w.Body.String(), "relation", path)
	}
}

func TestAPITweaks_Empty(t *testing.T) {
	app := newTestApp(t)
	w := app.get("/api/tweaks", false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
}

func TestLogin(t *testing.T) {
	app := newTestApp(t)

	w := app.postForm("/admin/login", url.Values{"password": {"wrong"}}, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid password")

	w = app.postForm("/admin/login", url.Values{}, false)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.postForm("/admin/login", url.Values{"password": {testPassword}}, false)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin/dashboard", w.Header().Get("Location"))
	assert.Contains(t, w.Header().Get("Set-Cookie"), middleware.SessionCookie+"=")
}

func TestLoginPage_RedirectsWhenLoggedIn(t *testing.T) {
	app := newTestApp(t)

	assert.Equal(t, http.StatusOK, app.get("/admin/login", false).Code)

	w := app.get("/admin/login", true)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin/dashboard", w.Header().Get("Location"))
}

func TestLogout(t *testing.T) {
	app := newTestApp(t)
	w := app.get("/admin/logout", true)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, middleware.LoginPath, w.Header().Get("Location"))
	assert.Contains(t, w.Header().Get("Set-Cookie"), "Max-Age=0")
}

func TestAdmin_RequiresSession(t *testing.T) {
	app := newTestApp(t)

	w := app.get("/admin/dashboard", false)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, middleware.LoginPath, w.Header().Get("Location"))

	w = app.postForm("/admin/projects", projectValues(), false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	list, err := app.repo.ListProjects(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestDashboard(t *testing.T) {
	app := newTestApp(t)
	p := seedProject(t, app)

	w := app.get("/admin/dashboard", true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Seeded")
	assert.Contains(t, w.Body.String(), "/admin/projects/"+itoa(p.ID)+"/edit")
}

func TestCreateProject_WithImage(t *testing.T) {
	app := newTestApp(t)

	w := app.postMultipart(t, "/admin/projects", projectValues(), map[string]string{"shot.png": "png-bytes"})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin/dashboard", w.Header().Get("Location"))

	list, err := app.repo.ListProjects(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	p := list[0]
	assert.Equal(t, "Shop CRM", p.Title)
	assert.Equal(t, models.Results{"+20% sales", "Faster checkout"}, p.Results)
	assert.Equal(t, models.TechStack{"Backend": "Go", "Frontend": "React"}, p.TechStack)
	require.Len(t, p.Images, 1)
	assert.True(t, strings.HasPrefix(p.Images[0], "uploads/"))
	assert.True(t, strings.HasSuffix(p.Images[0], "_shot.png"))

	data, err := os.ReadFile(filepath.Join(app.static, filepath.FromSlash(p.Images[0])))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

func TestCreateProject_InvalidRerendersForm(t *testing.T) {
	app := newTestApp(t)

	values := projectValues()
	values.Set("title", "  ")
	w := app.postMultipart(t, "/admin/projects", values, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "is required")
	assert.Contains(t, body, `value="Retail"`)

	list, err := app.repo.ListProjects(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestEditProject(t *testing.T) {
	app := newTestApp(t)
	p := seedProject(t, app, "uploads/a.png")

	w := app.get("/admin/projects/"+itoa(p.ID)+"/edit", true)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `value="Seeded"`)
	assert.Contains(t, body, `value="PostgreSQL"`)
	assert.Contains(t, body, `name="existing_images" value="uploads/a.png"`)

	assert.Equal(t, http.StatusNotFound, app.get("/admin/projects/999/edit", true).Code)
	assert.Equal(t, http.StatusNotFound, app.get("/admin/projects/abc/edit", true).Code)
}

func TestUpdateProject_DropsUncheckedImages(t *testing.T) {
	app := newTestApp(t)
	writeStatic(t, app, "uploads/keep.png")
	writeStatic(t, app, "uploads/drop.png")
	p := seedProject(t, app, "uploads/keep.png", "uploads/drop.png")

	values := projectValues()
	values.Set("title", "Renamed")
	values.Set("existing_images", "uploads/keep.png")
	w := app.postMultipart(t, "/admin/projects/"+itoa(p.ID), values, nil)
	require.Equal(t, http.StatusFound, w.Code)

	got, err := app.repo.GetProject(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)
	assert.Equal(t, models.Images{"uploads/keep.png"}, got.Images)

	_, err = os.Stat(filepath.Join(app.static, "uploads", "keep.png"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(app.static, "uploads", "drop.png"))
	assert.True(t, os.IsNotExist(err))
}

func TestUpdateProject_Missing(t *testing.T) {
	app := newTestApp(t)
	w := app.postMultipart(t, "/admin/projects/77", projectValues(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteProject(t *testing.T) {
	app := newTestApp(t)
	writeStatic(t, app, "uploads/a.png")
	p := seedProject(t, app, "uploads/a.png", "uploads/missing.png")

	w := app.postForm("/admin/projects/"+itoa(p.ID)+"/delete", nil, true)
	require.Equal(t, http.StatusFound, w.Code)

	_, err := app.repo.GetProject(context.Background(), p.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
	_, err = os.Stat(filepath.Join(app.static, "uploads", "a.png"))
	assert.True(t, os.IsNotExist(err))

	w = app.postForm("/admin/projects/"+itoa(p.ID)+"/delete", nil, true)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGenerateProject_NotConfigured(t *testing.T) {
	app := newTestApp(t)

	w := app.postForm("/admin/projects/generate", url.Values{"description": {"a CRM"}}, true)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "OPENAI_KEY")
}

func TestGenerateProject_PrefillsForm(t *testing.T) {
	app := newTestApp(t, withGenerator(stubGenerator{configured: true}, stubDescriber{ok: true}))

	w := app.postForm("/admin/projects/generate", url.Values{"description": {"a CRM"}}, true)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `value="Generated CRM"`)
	assert.Contains(t, body, "Draft generated")

	list, err := app.repo.ListProjects(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestGenerateProject_BlankDescription(t *testing.T) {
	app := newTestApp(t, withGenerator(stubGenerator{configured: true}, stubDescriber{ok: true}))

	w := app.postForm("/admin/projects/generate", url.Values{"description": {"  "}}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "is required")
}

func TestGenerateProjectFromGitHub(t *testing.T) {
	app := newTestApp(t, withGenerator(stubGenerator{configured: true}, stubDescriber{ok: true}))

	w := app.postForm("/admin/projects/generate-from-github", url.Values{"github_url": {"https://github.com/a/b"}}, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `value="https://github.com/a/b"`)
	assert.Contains(t, w.Body.String(), `value="Generated CRM"`)
}

func TestGenerateProjectFromGitHub_Unavailable(t *testing.T) {
	app := newTestApp(t, withGenerator(stubGenerator{configured: true}, stubDescriber{ok: false}))

	w := app.postForm("/admin/projects/generate-from-github", url.Values{"github_url": {"https://github.com/a/b"}}, true)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "could not read repository information")
}

func TestGenerateTweak_UpstreamError(t *testing.T) {
	upstream := &models.ExternalServiceError{Service: "openai", Err: errors.New("rate limited")}
	app := newTestApp(t, withGenerator(stubGenerator{configured: true, err: upstream}, stubDescriber{}))

	w := app.postForm("/admin/tweaks/generate", url.Values{"description": {"fixed a bug"}}, true)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "Draft generation failed, try again.")
	assert.NotContains(t, w.Body.String(), "rate limited")
}

func TestGenerateTweak_PrefillsForm(t *testing.T) {
	app := newTestApp(t, withGenerator(stubGenerator{configured: true}, stubDescriber{}))

	w := app.postForm("/admin/tweaks/generate", url.Values{"description": {"polished buttons"}}, true)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `value="Generated tweak"`)
	assert.Contains(t, body, `<option value="ui" selected>`)
}

func TestTweakLifecycle(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	w := app.postForm("/admin/tweaks", url.Values{
		"title":        {"Fix login"},
		"description":  {"Session expired early"},
		"category":     {"bug_fix"},
		"project_name": {"  "},
		"time_spent":   {"2h"},
	}, true)
	require.Equal(t, http.StatusFound, w.Code)

	list, err := app.repo.ListTweaks(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	tw := list[0]
	assert.False(t, tw.ProjectName.Valid)
	assert.Equal(t, "2h", tw.TimeSpent.String)

	w = app.get("/admin/tweaks/"+itoa(tw.ID)+"/edit", true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `<option value="bug_fix" selected>`)

	w = app.postForm("/admin/tweaks/"+itoa(tw.ID), url.Values{
		"title":       {"Fix login"},
		"description": {"Session expired early"},
		"category":    {"feature"},
	}, true)
	require.Equal(t, http.StatusFound, w.Code)
	got, err := app.repo.GetTweak(ctx, tw.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CategoryFeature, got.Category)
	assert.False(t, got.TimeSpent.Valid)

	w = app.postForm("/admin/tweaks/"+itoa(tw.ID)+"/delete", nil, true)
	require.Equal(t, http.StatusFound, w.Code)
	_, err = app.repo.GetTweak(ctx, tw.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestCreateTweak_UnknownCategory(t *testing.T) {
	app := newTestApp(t)

	w := app.postForm("/admin/tweaks", url.Values{
		"title":       {"Chore"},
		"description": {"Bumped deps"},
		"category":    {"chore"},
	}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `value="Chore"`)

	list, err := app.repo.ListTweaks(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestUpdateTweak_Missing(t *testing.T) {
	app := newTestApp(t)
	w := app.postForm("/admin/tweaks/5", url.Values{
		"title":       {"x"},
		"description": {"y"},
		"category":    {"other"},
	}, true)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGenerate_MalformedForm(t *testing.T) {
	app := newTestApp(t, withGenerator(stubGenerator{configured: true}, stubDescriber{ok: true}))

	for _, path := range []string{
		"/admin/projects/generate",
		"/admin/projects/generate-from-github",
		"/admin/tweaks/generate",
	} {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader("description=%zz&github_url=%zz"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := app.do(req, true)

		assert.Equal(t, http.StatusBadRequest, w.Code, path)
		assert.Contains(t, w.Body.String(), "Malformed form submission.", path)
		assert.NotContains(t, w.Body.String(), "is required", path)
	}
}
