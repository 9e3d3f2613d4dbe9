package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"viewsync/internal/catalog"
	"viewsync/internal/domain"
	"viewsync/internal/persistentview"
	"viewsync/internal/preference"
	"viewsync/internal/query"
	"viewsync/internal/repository"
)

const maxBodyBytes = 64 << 10

type Handler struct {
	Prefs     *preference.Client
	Catalog   *catalog.Catalog
	Namespace string
	Logger    *zap.Logger
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/preferences", h.listPreferences)
	rg.GET("/preferences/:name", h.getPreference)
	rg.PUT("/preferences/:name", h.putPreference)
	rg.DELETE("/preferences/:name", h.deletePreference)

	rg.GET("/views", h.listViews)
	rg.GET("/views/:slug", h.getView)
	rg.PUT("/views/:slug", h.updateView)
	rg.DELETE("/views/:slug", h.resetView)
}

type preferenceResp struct {
	Name      string          `json:"name"`
	Value     json.RawMessage `json:"value"`
	Revision  string          `json:"revision,omitempty"`
	UpdatedAt string          `json:"updated_at,omitempty"`
}

func (h *Handler) listPreferences(c *gin.Context) {
	filter := repository.PreferenceFilter{
		Prefix:      c.Query("prefix"),
		SearchQuery: c.Query("q"),
		SortBy:      c.Query("sort"),
		SortOrder:   c.Query("order"),
	}
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		filter.Limit = n
	}
	if v := c.Query("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "offset must be a non-negative integer"})
			return
		}
		filter.Offset = n
	}

	prefs, err := h.Prefs.Repository().List(c.Request.Context(), filter)
	if err != nil {
		h.Logger.Error("list preferences failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}

	items := make([]preferenceResp, 0, len(prefs))
	for _, p := range prefs {
		items = append(items, preferenceResp{
			Name:      p.Name,
			Value:     p.Value,
			Revision:  p.Revision,
			UpdatedAt: p.UpdatedAt.UTC().Format(timeFormat),
		})
	}
	c.JSON(http.StatusOK, gin.H{"preferences": items, "count": len(items)})
}

func (h *Handler) getPreference(c *gin.Context) {
	name := c.Param("name")

	value, err := h.Prefs.Fetch(c.Request.Context(), name)
	if err != nil {
		h.Logger.Error("fetch preference failed", zap.String("name", name), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "fetch failed"})
		return
	}
	if value == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "preference not found"})
		return
	}

	c.JSON(http.StatusOK, preferenceResp{Name: name, Value: value})
}

func (h *Handler) putPreference(c *gin.Context) {
	name := c.Param("name")
	if err := domain.ValidatePreferenceName(name); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
	if err != nil {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "body too large"})
		return
	}
	if !json.Valid(body) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	var value json.RawMessage = body
	if strings.TrimSpace(string(body)) == "null" {
		value = nil
	} else if _, _, isView := preference.ParseName(name); isView {
		if _, err := domain.DecodePersistedView(body); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
	}

	if err := h.Prefs.Store(c.Request.Context(), name, value); err != nil {
		h.Logger.Error("store preference failed", zap.String("name", name), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}

	if value == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, preferenceResp{Name: name, Value: value})
}

func (h *Handler) deletePreference(c *gin.Context) {
	name := c.Param("name")

	value, err := h.Prefs.Fetch(c.Request.Context(), name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "fetch failed"})
		return
	}
	if value == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "preference not found"})
		return
	}

	if err := h.Prefs.Store(c.Request.Context(), name, nil); err != nil {
		h.Logger.Error("delete preference failed", zap.String("name", name), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listViews(c *gin.Context) {
	type viewEntry struct {
		Slug         string   `json:"slug"`
		Title        string   `json:"title,omitempty"`
		Preference   string   `json:"preference"`
		FilterFields []string `json:"filter_fields,omitempty"`
	}

	slugs := h.Catalog.Slugs()
	views := make([]viewEntry, 0, len(slugs))
	for _, slug := range slugs {
		entry, err := h.Catalog.Get(slug)
		if err != nil {
			continue
		}
		name, _ := preference.Name(h.Namespace, slug)
		views = append(views, viewEntry{
			Slug:         slug,
			Title:        entry.Title,
			Preference:   name,
			FilterFields: entry.FilterFields,
		})
	}
	c.JSON(http.StatusOK, gin.H{"views": views})
}

type viewResp struct {
	View     domain.View `json:"view"`
	Query    string      `json:"query"`
	CanReset bool        `json:"can_reset"`
}

// bind builds the persistent view for the request, bound to the request's
// own query string.
func (h *Handler) bind(c *gin.Context) (*persistentview.PersistentView, *query.Router, bool) {
	slug := c.Param("slug")

	entry, err := h.Catalog.Get(slug)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return nil, nil, false
	}

	router := query.NewRouter(c.Request.URL.Path, query.FromValues(c.Request.URL.Query()))

	pv, err := persistentview.New(persistentview.Options{
		Slug:         slug,
		Namespace:    h.Namespace,
		DefaultView:  entry.DefaultView,
		Location:     router,
		FilterFields: entry.FilterFields,
		Preferences:  h.Prefs,
		Logger:       h.Logger,
	})
	if err != nil {
		h.Logger.Error("bind view failed", zap.String("slug", slug), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "view unavailable"})
		return nil, nil, false
	}

	return pv, router, true
}

func (h *Handler) respondView(c *gin.Context, pv *persistentview.PersistentView, router *query.Router) {
	state, err := pv.State(c.Request.Context())
	if err != nil {
		h.Logger.Error("compute view failed", zap.String("slug", pv.Slug()), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "preference fetch failed"})
		return
	}

	c.JSON(http.StatusOK, viewResp{
		View:     state.View,
		Query:    router.CurrentParams().Encode(),
		CanReset: state.Reset != nil,
	})
}

func (h *Handler) getView(c *gin.Context) {
	pv, router, ok := h.bind(c)
	if !ok {
		return
	}
	h.respondView(c, pv, router)
}

func (h *Handler) updateView(c *gin.Context) {
	pv, router, ok := h.bind(c)
	if !ok {
		return
	}

	var newView domain.View
	if err := c.ShouldBindJSON(&newView); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	if err := pv.UpdateView(c.Request.Context(), newView); err != nil {
		if errors.Is(err, domain.ErrInvalidView) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		h.Logger.Error("update view failed", zap.String("slug", pv.Slug()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}

	h.respondView(c, pv, router)
}

func (h *Handler) resetView(c *gin.Context) {
	pv, router, ok := h.bind(c)
	if !ok {
		return
	}

	if err := pv.ResetView(c.Request.Context()); err != nil {
		if errors.Is(err, persistentview.ErrNothingToReset) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		h.Logger.Error("reset view failed", zap.String("slug", pv.Slug()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "reset failed"})
		return
	}

	h.respondView(c, pv, router)
}
