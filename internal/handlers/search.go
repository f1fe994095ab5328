package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"mdblog/internal/services"
	"mdblog/internal/utils"
)

type SearchHandler struct {
	postService *services.PostService
	pageSize    int
}

func NewSearchHandler(postService *services.PostService, pageSize int) *SearchHandler {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &SearchHandler{postService: postService, pageSize: pageSize}
}

func (h *SearchHandler) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.Redirect(http.StatusFound, "/")
		return
	}

	page := parsePage(c)
	posts, total := h.postService.SearchPostsPage(query, page, h.pageSize)

	pagination := utils.GeneratePagination(page, utils.TotalPages(total, h.pageSize))
	if pagination != nil {
		pagination.Query = query
	}

	render(c, http.StatusOK, "search.html", gin.H{
		"posts":      posts,
		"query":      query,
		"total":      total,
		"Pagination": pagination,
	})
}
