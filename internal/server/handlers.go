package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/scrapbook/pkg/board"
	"github.com/matzehuels/scrapbook/pkg/buildinfo"
	"github.com/matzehuels/scrapbook/pkg/core/media"
	"github.com/matzehuels/scrapbook/pkg/core/reorder"
	"github.com/matzehuels/scrapbook/pkg/errors"
	"github.com/matzehuels/scrapbook/pkg/pipeline"
)

// headerCache reports whether the layout came from cache ("hit" or "miss").
const headerCache = "X-Cache"

var contentTypes = map[string]string{
	pipeline.FormatJSON: "application/json",
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
}

func errNotFound(path string) error {
	return errors.New(errors.ErrCodeNotFound, "no route for %s", path)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Get(),
		"time":   time.Now().UTC(),
	})
}

// =============================================================================
// Ad-hoc layout
// =============================================================================

// layoutRequest packs a list of items without storing them.
type layoutRequest struct {
	Items    []media.Item `json:"items" validate:"max=1000"`
	Columns  int          `json:"columns" validate:"omitempty,min=1,max=8"`
	MinRows  int          `json:"min_rows" validate:"omitempty,min=1,max=6"`
	Policy   string       `json:"policy" validate:"omitempty,oneof=fixed-row-height chimney"`
	Width    float64      `json:"width" validate:"gte=0"`
	Height   float64      `json:"height" validate:"gte=0"`
	Gap      *float64     `json:"gap" validate:"omitempty,gte=0"`
	Align    string       `json:"align" validate:"omitempty,oneof=start center"`
	Format   string       `json:"format" validate:"omitempty,oneof=json svg png pdf"`
	Captions bool         `json:"captions"`
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	opts := s.grid.Options()
	if req.Columns != 0 {
		opts.Columns = req.Columns
	}
	if req.MinRows != 0 {
		opts.MinRows = req.MinRows
	}
	if req.Policy != "" {
		opts.Policy = req.Policy
	}
	if req.Width != 0 {
		opts.Width = req.Width
	}
	if req.Height != 0 {
		opts.Height = req.Height
	}
	if req.Gap != nil {
		opts.Gap = *req.Gap
	}
	if req.Align != "" {
		opts.Align = req.Align
	}
	opts.Captions = opts.Captions || req.Captions

	s.respondLayout(w, r, req.Items, opts, req.Format)
}

// respondLayout runs the pipeline and writes the view or an artifact.
func (s *Server) respondLayout(w http.ResponseWriter, r *http.Request, items []media.Item, opts pipeline.Options, format string) {
	if format == "" {
		format = pipeline.FormatJSON
	}

	view, hit, err := s.runner.LayoutWithCacheInfo(r.Context(), items, opts)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set(headerCache, cacheStatus(hit))

	if format == pipeline.FormatJSON {
		writeJSON(w, http.StatusOK, view)
		return
	}

	opts.Formats = []string{format}
	artifacts, err := s.runner.Render(r.Context(), view, opts)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifacts[format])
}

func cacheStatus(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}

// =============================================================================
// Boards
// =============================================================================

type createBoardRequest struct {
	Title   string       `json:"title" validate:"max=200"`
	Columns int          `json:"columns" validate:"omitempty,min=1,max=8"`
	MinRows int          `json:"min_rows" validate:"omitempty,min=1,max=6"`
	Policy  string       `json:"policy" validate:"omitempty,oneof=fixed-row-height chimney"`
	Items   []media.Item `json:"items" validate:"max=1000"`
}

type settingsRequest struct {
	Columns *int    `json:"columns" validate:"omitempty,min=1,max=8"`
	MinRows *int    `json:"min_rows" validate:"omitempty,min=1,max=6"`
	Policy  *string `json:"policy" validate:"omitempty,oneof=fixed-row-height chimney"`
}

type reorderResponse struct {
	Changed bool         `json:"changed"`
	Board   *board.Board `json:"board"`
}

func (s *Server) handleListBoards(w http.ResponseWriter, r *http.Request) {
	boards, err := s.store.List(r.Context())
	if err != nil {
		writeError(w, r, errors.Wrap(errors.ErrCodeStore, err, "list boards"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"boards": boards})
}

func (s *Server) handleCreateBoard(w http.ResponseWriter, r *http.Request) {
	var req createBoardRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	b := board.New(req.Title)
	if req.Columns != 0 {
		b.Columns = req.Columns
	}
	if req.MinRows != 0 {
		b.MinRows = req.MinRows
	}
	if req.Policy != "" {
		if err := b.SetPolicy(req.Policy); err != nil {
			writeError(w, r, err)
			return
		}
	}
	for _, it := range req.Items {
		if err := b.Add(it); err != nil {
			writeError(w, r, err)
			return
		}
	}

	if err := s.store.Put(r.Context(), b); err != nil {
		writeError(w, r, storeError(err))
		return
	}
	w.Header().Set("Location", "/api/v1/boards/"+b.ID)
	writeJSON(w, http.StatusCreated, b)
}

func (s *Server) handleGetBoard(w http.ResponseWriter, r *http.Request) {
	b, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, storeError(err))
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// handlePutBoard replaces a board's title, settings and items. The id comes
// from the URL and an existing board keeps its creation time.
func (s *Server) handlePutBoard(w http.ResponseWriter, r *http.Request) {
	var b board.Board
	if err := decode(w, r, &b); err != nil {
		writeError(w, r, err)
		return
	}
	b.ID = chi.URLParam(r, "id")
	if b.Items == nil {
		b.Items = []media.Item{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	status := http.StatusOK
	now := time.Now().UTC()
	if old, err := s.store.Get(r.Context(), b.ID); err == nil {
		b.CreatedAt = old.CreatedAt
	} else if errors.Is(err, errors.ErrCodeBoardNotFound) {
		b.CreatedAt = now
		status = http.StatusCreated
	} else {
		writeError(w, r, storeError(err))
		return
	}
	b.UpdatedAt = now

	if err := b.Validate(); err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.store.Put(r.Context(), &b); err != nil {
		writeError(w, r, storeError(err))
		return
	}
	writeJSON(w, status, &b)
}

func (s *Server) handleDeleteBoard(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, storeError(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	s.mutate(w, r, http.StatusOK, func(b *board.Board) (any, error) {
		if req.Columns != nil {
			if err := b.SetColumns(*req.Columns); err != nil {
				return nil, err
			}
		}
		if req.MinRows != nil {
			if err := b.SetMinRows(*req.MinRows); err != nil {
				return nil, err
			}
		}
		if req.Policy != nil {
			if err := b.SetPolicy(*req.Policy); err != nil {
				return nil, err
			}
		}
		return b, nil
	})
}

func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	var it media.Item
	if err := decode(w, r, &it); err != nil {
		writeError(w, r, err)
		return
	}
	s.mutate(w, r, http.StatusCreated, func(b *board.Board) (any, error) {
		if err := b.Add(it); err != nil {
			return nil, err
		}
		return b, nil
	})
}

func (s *Server) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemID")
	s.mutate(w, r, http.StatusOK, func(b *board.Board) (any, error) {
		if err := b.Remove(itemID); err != nil {
			return nil, err
		}
		return b, nil
	})
}

// handleReorder replays a completed drag through the gesture controller and
// applies the resulting intent. Unknown or equal ids leave the board as is.
func (s *Server) handleReorder(w http.ResponseWriter, r *http.Request) {
	var req reorder.Intent
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	s.mutate(w, r, http.StatusOK, func(b *board.Board) (any, error) {
		changed := false
		ctrl := reorder.NewController(func(in reorder.Intent) {
			changed = b.Apply(in)
		}, reorder.WithContext(r.Context()), reorder.WithLayout(b.Layout()))
		ctrl.OnDragStart(req.SourceID)
		ctrl.OnDragOver(req.TargetID)
		ctrl.OnDragEnd()
		return reorderResponse{Changed: changed, Board: b}, nil
	})
}

// mutate loads a board, applies fn and stores the result.
func (s *Server) mutate(w http.ResponseWriter, r *http.Request, status int, fn func(*board.Board) (any, error)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, storeError(err))
		return
	}
	resp, err := fn(b)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.store.Put(r.Context(), b); err != nil {
		writeError(w, r, storeError(err))
		return
	}
	writeJSON(w, status, resp)
}

// handleBoardLayout packs a stored board for a container given in the query:
// width, height, gap, align, captions and format.
func (s *Server) handleBoardLayout(w http.ResponseWriter, r *http.Request) {
	b, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, storeError(err))
		return
	}

	opts := s.grid.Options()
	opts.Columns = b.Columns
	opts.MinRows = b.MinRows
	opts.Policy = string(b.Policy)

	q := r.URL.Query()
	for name, dst := range map[string]*float64{"width": &opts.Width, "height": &opts.Height, "gap": &opts.Gap} {
		if v := q.Get(name); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil || f < 0 {
				writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "%s must be a non-negative number, got %q", name, v))
				return
			}
			*dst = f
		}
	}
	if v := q.Get("align"); v != "" {
		opts.Align = v
	}
	if v := q.Get("captions"); v != "" {
		opts.Captions, _ = strconv.ParseBool(v)
	}

	format := strings.ToLower(q.Get("format"))
	if format != "" {
		if err := pipeline.ValidateFormat(format); err != nil {
			writeError(w, r, err)
			return
		}
	}
	s.respondLayout(w, r, b.Items, opts, format)
}

// storeError gives uncoded store failures the STORE_ERROR code.
func storeError(err error) error {
	if errors.GetCode(err) != "" {
		return err
	}
	return errors.Wrap(errors.ErrCodeStore, err, "board store")
}
