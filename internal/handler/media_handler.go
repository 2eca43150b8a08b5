package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/appdotbuilder/next-watch-recommender/internal/models"

	"github.com/go-chi/chi/v5"
)

type Media interface {
	Get(ctx context.Context, id string) (*models.MediaItem, error)
	Popular(ctx context.Context, kind models.MediaKind, page, pageSize int) (*models.MediaPage, error)
	Search(ctx context.Context, query string, kind models.MediaKind) ([]models.MediaItem, error)
	Genres(ctx context.Context, kind models.MediaKind) ([]models.Genre, error)
}

type MediaHandler struct {
	svc Media
}

func NewMediaHandler(s Media) *MediaHandler { return &MediaHandler{svc: s} }

// @Summary Get media item
// @Tags media
// @Produce json
// @Param id path string true "media item id"
// @Success 200 {object} models.MediaItem
// @Failure 404 {object} errorBody
// @Router /media/{id} [get]
func (h *MediaHandler) Get(w http.ResponseWriter, r *http.Request) {
	m, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// @Summary Popular media (paginated)
// @Tags media
// @Produce json
// @Param kind query string false "movie|show"
// @Param page query int false "page, from 1"
// @Param pageSize query int false "page size (default 20, max 100)"
// @Success 200 {object} models.MediaPage
// @Router /media/popular [get]
func (h *MediaHandler) Popular(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("pageSize"))

	p, err := h.svc.Popular(r.Context(), models.MediaKind(q.Get("kind")), page, pageSize)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// @Summary Search the external catalog
// @Description Hits are stored in the local catalog and cached.
// @Tags media
// @Produce json
// @Param q query string true "query"
// @Param kind query string false "movie|show"
// @Success 200 {array} models.MediaItem
// @Failure 503 {object} errorBody
// @Router /media/search [get]
func (h *MediaHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, err := h.svc.Search(r.Context(), q.Get("q"), models.MediaKind(q.Get("kind")))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// @Summary Genre list
// @Tags media
// @Produce json
// @Param kind query string false "movie|show (default movie)"
// @Success 200 {array} models.Genre
// @Router /media/genres [get]
func (h *MediaHandler) Genres(w http.ResponseWriter, r *http.Request) {
	kind := models.MediaKind(r.URL.Query().Get("kind"))
	if kind == "" {
		kind = models.KindMovie
	}
	gs, err := h.svc.Genres(r.Context(), kind)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, gs)
}
