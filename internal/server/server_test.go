package server

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/matzehuels/scrapbook/internal/config"
	"github.com/matzehuels/scrapbook/pkg/board"
	"github.com/matzehuels/scrapbook/pkg/cache"
	"github.com/matzehuels/scrapbook/pkg/core/render"
	"github.com/matzehuels/scrapbook/pkg/errors"
	"github.com/matzehuels/scrapbook/pkg/observability"
	"github.com/matzehuels/scrapbook/pkg/pipeline"
)

func newTestServer(t *testing.T, mutate ...func(*config.Config)) http.Handler {
	t.Helper()
	cfg := config.Default()
	cfg.Server.RateLimit = 0
	for _, m := range mutate {
		m(cfg)
	}
	store, err := board.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return New(cfg, pipeline.NewRunner(cache.NewInstrumented(c), nil, nil), store, nil).Handler()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, path, nil)
	} else {
		r = httptest.NewRequest(method, path, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return v
}

func wantError(t *testing.T, w *httptest.ResponseRecorder, status int, code errors.Code) {
	t.Helper()
	if w.Code != status {
		t.Errorf("status = %d, want %d (body %s)", w.Code, status, w.Body.String())
	}
	body := decodeBody[errorBody](t, w)
	if body.Error.Code != code {
		t.Errorf("code = %s, want %s", body.Error.Code, code)
	}
	if body.Error.Message == "" {
		t.Error("error message is empty")
	}
}

const threeItems = `[
	{"id":"dune","type":"book","title":"Dune"},
	{"id":"blue","type":"album"},
	{"id":"alien","type":"movie"}
]`

func TestHealth(t *testing.T) {
	h := newTestServer(t)
	w := do(t, h, "GET", "/healthz", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %s", w.Body.String())
	}
	if w.Header().Get(headerRequestID) == "" {
		t.Error("missing request id header")
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	h := newTestServer(t)
	r := httptest.NewRequest("GET", "/healthz", nil)
	r.Header.Set(headerRequestID, "abc-123")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if got := w.Header().Get(headerRequestID); got != "abc-123" {
		t.Errorf("request id = %q", got)
	}
}

func TestLayout(t *testing.T) {
	h := newTestServer(t)
	body := `{"items":` + threeItems + `,"columns":2,"width":800,"height":600,"gap":0}`

	w := do(t, h, "POST", "/api/v1/layout", body)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if got := w.Header().Get(headerCache); got != "miss" {
		t.Errorf("X-Cache = %q, want miss", got)
	}
	view := decodeBody[render.View](t, w)
	if len(view.Rows) != 2 || len(view.Tiles()) != 3 {
		t.Errorf("rows = %d tiles = %d", len(view.Rows), len(view.Tiles()))
	}
	if view.Gap != 0 {
		t.Errorf("explicit zero gap lost: %v", view.Gap)
	}

	again := do(t, h, "POST", "/api/v1/layout", body)
	if got := again.Header().Get(headerCache); got != "hit" {
		t.Errorf("second X-Cache = %q, want hit", got)
	}
}

func TestLayoutSVG(t *testing.T) {
	h := newTestServer(t)
	w := do(t, h, "POST", "/api/v1/layout", `{"items":`+threeItems+`,"format":"svg","captions":true}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("<svg")) {
		t.Errorf("body = %.40q", w.Body.String())
	}
}

func TestLayoutErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		code   errors.Code
	}{
		{"bad json", `{"items":`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"columns", `{"items":[],"columns":9}`, http.StatusBadRequest, errors.ErrCodeInvalidColumns},
		{"min rows", `{"items":[],"min_rows":7}`, http.StatusBadRequest, errors.ErrCodeInvalidMinRows},
		{"policy", `{"items":[],"policy":"masonry"}`, http.StatusBadRequest, errors.ErrCodeInvalidPolicy},
		{"format", `{"items":[],"format":"gif"}`, http.StatusBadRequest, errors.ErrCodeInvalidFormat},
		{"negative gap", `{"items":[],"gap":-1}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"duplicate", `{"items":[{"id":"a"},{"id":"a"}]}`, http.StatusConflict, errors.ErrCodeDuplicateItem},
		{"ratio", `{"items":[{"id":"a","aspect_ratio":-1}]}`, http.StatusBadRequest, errors.ErrCodeInvalidRatio},
	}
	h := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wantError(t, do(t, h, "POST", "/api/v1/layout", tt.body), tt.status, tt.code)
		})
	}
}

func TestBoardLifecycle(t *testing.T) {
	h := newTestServer(t)

	w := do(t, h, "POST", "/api/v1/boards", `{"title":"Shelf","columns":3,"items":`+threeItems+`}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", w.Code, w.Body.String())
	}
	b := decodeBody[board.Board](t, w)
	if b.Columns != 3 || !slices.Equal(b.IDs(), []string{"dune", "blue", "alien"}) {
		t.Fatalf("created board = %+v", b)
	}
	base := "/api/v1/boards/" + b.ID

	// Reorder moves alien to the front.
	w = do(t, h, "POST", base+"/reorder", `{"source_id":"alien","target_id":"dune"}`)
	resp := decodeBody[reorderResponse](t, w)
	if !resp.Changed || !slices.Equal(resp.Board.IDs(), []string{"alien", "dune", "blue"}) {
		t.Errorf("reorder = %v %v", resp.Changed, resp.Board.IDs())
	}

	// Dropping on itself or on an unknown id is a no-op.
	for _, body := range []string{
		`{"source_id":"dune","target_id":"dune"}`,
		`{"source_id":"dune","target_id":"nope"}`,
	} {
		w = do(t, h, "POST", base+"/reorder", body)
		resp = decodeBody[reorderResponse](t, w)
		if w.Code != http.StatusOK || resp.Changed {
			t.Errorf("%s: status %d changed %v", body, w.Code, resp.Changed)
		}
	}
	wantError(t, do(t, h, "POST", base+"/reorder", `{"source_id":"dune"}`), http.StatusBadRequest, errors.ErrCodeInvalidInput)

	// Settings.
	wantError(t, do(t, h, "PATCH", base+"/settings", `{"columns":9}`), http.StatusBadRequest, errors.ErrCodeInvalidColumns)
	w = do(t, h, "PATCH", base+"/settings", `{"policy":"chimney","min_rows":3}`)
	b = decodeBody[board.Board](t, w)
	if b.Policy != "chimney" || b.MinRows != 3 || b.Columns != 3 {
		t.Errorf("settings = %d/%d/%s", b.Columns, b.MinRows, b.Policy)
	}

	// Items.
	w = do(t, h, "POST", base+"/items", `{"id":"zelda","type":"game"}`)
	if w.Code != http.StatusCreated {
		t.Errorf("add item status = %d", w.Code)
	}
	wantError(t, do(t, h, "POST", base+"/items", `{"id":"zelda"}`), http.StatusConflict, errors.ErrCodeDuplicateItem)
	w = do(t, h, "DELETE", base+"/items/blue", "")
	b = decodeBody[board.Board](t, w)
	if !slices.Equal(b.IDs(), []string{"alien", "dune", "zelda"}) {
		t.Errorf("after remove IDs() = %v", b.IDs())
	}
	wantError(t, do(t, h, "DELETE", base+"/items/blue", ""), http.StatusNotFound, errors.ErrCodeItemNotFound)

	// Layout of the stored board.
	w = do(t, h, "GET", base+"/layout?width=900&height=600&gap=8", "")
	if w.Code != http.StatusOK {
		t.Fatalf("layout status = %d, body %s", w.Code, w.Body.String())
	}
	view := decodeBody[render.View](t, w)
	if view.Policy != "chimney" || len(view.Tiles()) != 3 {
		t.Errorf("layout policy %s tiles %d", view.Policy, len(view.Tiles()))
	}
	wantError(t, do(t, h, "GET", base+"/layout?width=wide", ""), http.StatusBadRequest, errors.ErrCodeInvalidInput)
	wantError(t, do(t, h, "GET", base+"/layout?format=gif", ""), http.StatusBadRequest, errors.ErrCodeInvalidFormat)

	// List, delete, gone.
	w = do(t, h, "GET", "/api/v1/boards", "")
	list := decodeBody[struct{ Boards []board.Board }](t, w)
	if len(list.Boards) != 1 {
		t.Errorf("list = %d boards", len(list.Boards))
	}
	if w = do(t, h, "DELETE", base, ""); w.Code != http.StatusNoContent {
		t.Errorf("delete status = %d", w.Code)
	}
	wantError(t, do(t, h, "GET", base, ""), http.StatusNotFound, errors.ErrCodeBoardNotFound)
	wantError(t, do(t, h, "POST", base+"/reorder", `{"source_id":"a","target_id":"b"}`), http.StatusNotFound, errors.ErrCodeBoardNotFound)
}

func TestPutBoard(t *testing.T) {
	h := newTestServer(t)

	w := do(t, h, "PUT", "/api/v1/boards/my-shelf", `{"title":"Mine","columns":2,"min_rows":1,"policy":"fixed-row-height","items":[{"id":"a"}]}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("first PUT status = %d, body %s", w.Code, w.Body.String())
	}
	created := decodeBody[board.Board](t, w)

	w = do(t, h, "PUT", "/api/v1/boards/my-shelf", `{"title":"Renamed","columns":2,"min_rows":1,"policy":"fixed-row-height","items":[]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("second PUT status = %d", w.Code)
	}
	updated := decodeBody[board.Board](t, w)
	if updated.ID != "my-shelf" || updated.Title != "Renamed" || len(updated.Items) != 0 {
		t.Errorf("updated = %+v", updated)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Error("PUT should keep CreatedAt")
	}

	wantError(t, do(t, h, "PUT", "/api/v1/boards/x", `{"columns":0,"min_rows":1,"policy":"chimney"}`), http.StatusBadRequest, errors.ErrCodeInvalidColumns)
}

func TestUnknownRoute(t *testing.T) {
	wantError(t, do(t, newTestServer(t), "GET", "/api/v2/nothing", ""), http.StatusNotFound, errors.ErrCodeNotFound)
}

func TestRateLimit(t *testing.T) {
	h := newTestServer(t, func(c *config.Config) { c.Server.RateLimit = 2 })
	for i := 0; i < 2; i++ {
		if w := do(t, h, "GET", "/api/v1/boards", ""); w.Code != http.StatusOK {
			t.Fatalf("request %d status = %d", i, w.Code)
		}
	}
	w := do(t, h, "GET", "/api/v1/boards", "")
	wantError(t, w, http.StatusTooManyRequests, errors.ErrCodeRateLimited)

	// Health checks are not limited.
	if w := do(t, h, "GET", "/healthz", ""); w.Code != http.StatusOK {
		t.Errorf("healthz status = %d", w.Code)
	}
}

func TestMetrics(t *testing.T) {
	RegisterMetrics()
	t.Cleanup(observability.Reset)

	h := newTestServer(t)
	do(t, h, "POST", "/api/v1/layout", `{"items":`+threeItems+`}`)

	w := do(t, h, "GET", "/metrics", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	for _, name := range []string{
		"scrapbook_http_requests_total",
		"scrapbook_layout_total",
		"scrapbook_cache_operations_total",
	} {
		if !strings.Contains(w.Body.String(), name) {
			t.Errorf("metrics missing %s", name)
		}
	}
}
