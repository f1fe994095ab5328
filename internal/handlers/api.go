package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mdblog/internal/services"
)

// PageviewObserver is told whether each reported pageview was counted.
type PageviewObserver interface {
	ObservePageview(counted bool)
}

type APIHandler struct {
	postService *services.PostService
	views       *services.ViewCounter
	observer    PageviewObserver
}

// NewAPIHandler builds the JSON API. observer may be nil.
func NewAPIHandler(postService *services.PostService, views *services.ViewCounter, observer PageviewObserver) *APIHandler {
	return &APIHandler{
		postService: postService,
		views:       views,
		observer:    observer,
	}
}

type pageviewRequest struct {
	Path string `json:"path" binding:"required"`
}

type postSummary struct {
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Date        string   `json:"date"`
	Description string   `json:"description,omitempty"`
	ExternalURL string   `json:"external_url,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Views       int64    `json:"views"`
}

// Pageview records a view reported by the browser. Paths that do not name a
// loaded post are accepted and ignored.
func (h *APIHandler) Pageview(c *gin.Context) {
	var req pageviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	counted := h.views.RecordPageview(req.Path)
	if h.observer != nil {
		h.observer.ObservePageview(counted)
	}
	c.Status(http.StatusNoContent)
}

// ListPosts returns every loaded post with its current view count.
func (h *APIHandler) ListPosts(c *gin.Context) {
	all := h.postService.All()
	out := make([]postSummary, 0, len(all))
	for _, p := range all {
		out = append(out, postSummary{
			Slug:        p.Slug,
			Title:       p.Title,
			Date:        p.ISOTimestamp,
			Description: p.Description,
			ExternalURL: p.ExternalURL,
			Tags:        p.Tags,
			Views:       h.views.Count(p.Slug),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"posts": out,
		"total": len(out),
	})
}

// Stats returns a snapshot of all view counts.
func (h *APIHandler) Stats(c *gin.Context) {
	views := h.views.Snapshot()
	var total int64
	for _, n := range views {
		total += n
	}
	c.JSON(http.StatusOK, gin.H{
		"views": views,
		"total": total,
	})
}

func (h *APIHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"posts":  h.postService.Count(),
	})
}
