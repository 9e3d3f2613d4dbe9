package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"viewsync/internal/catalog"
	"viewsync/internal/preference"
	"viewsync/internal/repository/memory"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T) (*Server, *memory.PreferenceRepository) {
	t.Helper()

	repo := memory.NewPreferenceRepository()
	prefs := preference.NewClient(repo)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = prefs.Close(ctx)
	})

	srv := New(Options{
		Prefs:     prefs,
		Catalog:   catalog.Builtin(),
		Namespace: "dashboard",
	})
	return srv, repo
}

func do(t *testing.T, srv *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestPreferences_CRUD(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/v1/preferences/theme", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, srv, http.MethodPut, "/v1/preferences/theme", `{"name":"nord"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, srv, http.MethodGet, "/v1/preferences/theme", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got preferenceResp
	decode(t, rec, &got)
	assert.Equal(t, "theme", got.Name)
	assert.JSONEq(t, `{"name":"nord"}`, string(got.Value))

	rec = do(t, srv, http.MethodGet, "/v1/preferences", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Preferences []preferenceResp `json:"preferences"`
		Count       int              `json:"count"`
	}
	decode(t, rec, &list)
	assert.Equal(t, 1, list.Count)
	assert.NotEmpty(t, list.Preferences[0].Revision)

	rec = do(t, srv, http.MethodDelete, "/v1/preferences/theme", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, srv, http.MethodDelete, "/v1/preferences/theme", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPreferences_PutNullClears(t *testing.T) {
	srv, repo := newTestServer(t)
	require.NoError(t, repo.Set(context.Background(), "theme", json.RawMessage(`"dark"`)))

	rec := do(t, srv, http.MethodPut, "/v1/preferences/theme", `null`)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, srv, http.MethodGet, "/v1/preferences/theme", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPreferences_PutRejectsBadInput(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv, http.MethodPut, "/v1/preferences/theme", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, srv, http.MethodPut, "/v1/preferences/dashboard-dataviews-view-sites", `{"type":"carousel"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(t, srv, http.MethodPut, "/v1/preferences/dashboard-dataviews-view-sites", `{"type":"grid"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPreferences_ListQueryValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/v1/preferences?limit=-1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, srv, http.MethodGet, "/v1/preferences?offset=x", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPreferences_ListOffsetWithoutLimit(t *testing.T) {
	srv, repo := newTestServer(t)
	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, repo.Set(context.Background(), name, json.RawMessage(`1`)))
	}

	rec := do(t, srv, http.MethodGet, "/v1/preferences?offset=1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Preferences []struct {
			Name string `json:"name"`
		} `json:"preferences"`
		Count int `json:"count"`
	}
	decode(t, rec, &body)
	require.Equal(t, 2, body.Count)
	assert.Equal(t, "b", body.Preferences[0].Name)
}

func TestNew_LogsRejectedTrustedProxies(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	prefs := preference.NewClient(memory.NewPreferenceRepository())
	t.Cleanup(func() { _ = prefs.Close(context.Background()) })
	srv := New(Options{
		Prefs:          prefs,
		Catalog:        catalog.Builtin(),
		Namespace:      "dashboard",
		Logger:         zap.New(core),
		TrustedProxies: []string{"not-an-address"},
	})

	entries := logs.FilterMessage("failed to set trusted proxies").All()
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].ContextMap()["proxies"], "not-an-address")

	rec := do(t, srv, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestViews_List(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/v1/views", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Views []struct {
			Slug       string `json:"slug"`
			Preference string `json:"preference"`
		} `json:"views"`
	}
	decode(t, rec, &body)
	require.NotEmpty(t, body.Views)
	for _, v := range body.Views {
		assert.Equal(t, "dashboard-dataviews-view-"+v.Slug, v.Preference)
	}
}

func TestViews_GetDefault(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/v1/views/sites?page=3&search=blog", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got viewResp
	decode(t, rec, &got)
	assert.Equal(t, 3, got.View.Page)
	assert.Equal(t, "blog", got.View.Search)
	assert.False(t, got.CanReset)
	assert.Equal(t, "page=3&search=blog", got.Query)
}

func TestViews_UnknownSlug(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/v1/views/stes", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "sites")
}

func TestViews_UpdateAndReset(t *testing.T) {
	srv, repo := newTestServer(t)

	rec := do(t, srv, http.MethodPut, "/v1/views/sites?page=2&tab=mine",
		`{"type":"list","sort":{"field":"name","direction":"asc"},"page":1,"search":"shop"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got viewResp
	decode(t, rec, &got)
	assert.Equal(t, "search=shop&tab=mine", got.Query)
	assert.True(t, got.CanReset)

	rec = do(t, srv, http.MethodGet, "/v1/views/sites", "")
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &got)
	assert.EqualValues(t, "list", got.View.Type)
	assert.Equal(t, "", got.View.Search, "search is never persisted")

	rec = do(t, srv, http.MethodDelete, "/v1/views/sites", "")
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &got)
	assert.False(t, got.CanReset)

	rec = do(t, srv, http.MethodDelete, "/v1/views/sites", "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	assert.Eventually(t, func() bool {
		_, err := repo.Get(context.Background(), "dashboard-dataviews-view-sites")
		return err != nil
	}, time.Second, 10*time.Millisecond)
}

func TestViews_UpdateRejectsInvalid(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv, http.MethodPut, "/v1/views/sites", `{"type":"kanban"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(t, srv, http.MethodPut, "/v1/views/sites", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRun_ShutsDownOnCancel(t *testing.T) {
	srv, _ := newTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestMetrics_CountsRequests(t *testing.T) {
	srv, _ := newTestServer(t)

	do(t, srv, http.MethodGet, "/v1/views/sites", "")
	do(t, srv, http.MethodGet, "/v1/views/sites", "")

	rec := do(t, srv, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(),
		`viewsync_http_requests_total{method="GET",route="/v1/views/:slug",status="200"} 2`)
}
