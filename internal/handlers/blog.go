package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"mdblog/internal/constants"
	"mdblog/internal/logger"
	"mdblog/internal/services"
	"mdblog/internal/utils"
)

type BlogHandler struct {
	postService *services.PostService
	views       *services.ViewCounter
	pageSize    int
	log         logger.Logger
}

func NewBlogHandler(postService *services.PostService, views *services.ViewCounter, pageSize int, log logger.Logger) *BlogHandler {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &BlogHandler{
		postService: postService,
		views:       views,
		pageSize:    pageSize,
		log:         log,
	}
}

func (h *BlogHandler) Index(c *gin.Context) {
	view := h.resolveView(c)

	header := c.Writer.Header()
	header.Add("Link", `</static/css/style.css>; rel=preload; as=style`)
	header.Add("Link", `</static/js/main.js>; rel=preload; as=script`)

	page := parsePage(c)
	totalPages := utils.TotalPages(h.postService.Count(), h.pageSize)
	page = utils.ClampPage(page, totalPages)
	posts, _ := h.postService.GetPostsPage(page, h.pageSize)

	templateName := "index.html"
	if view == constants.ViewCards {
		templateName = "index_cards.html"
	}

	render(c, http.StatusOK, templateName, gin.H{
		"posts":      posts,
		"Pagination": utils.GeneratePagination(page, totalPages),
		"View":       view,
		"is_index":   true,
	})
}

// resolveView picks the list or cards layout: the query parameter wins, then
// the session, then a guess from the User-Agent. The choice is stored back
// into the session.
func (h *BlogHandler) resolveView(c *gin.Context) string {
	session := sessions.Default(c)

	view := c.Query("view")
	if view == "" {
		if v, ok := session.Get(constants.SessionKeyView).(string); ok {
			view = v
		}
	}
	if view == "" {
		ua := strings.ToLower(c.Request.UserAgent())
		if strings.Contains(ua, "mobile") || strings.Contains(ua, "android") || strings.Contains(ua, "iphone") {
			view = constants.ViewCards
		}
	}
	if view != constants.ViewCards {
		view = constants.ViewList
	}

	if session.Get(constants.SessionKeyView) != view {
		session.Set(constants.SessionKeyView, view)
		if err := session.Save(); err != nil {
			h.log.Warn("Failed to save session", logger.Error(err))
		}
	}
	return view
}

func (h *BlogHandler) ShowPost(c *gin.Context) {
	slug := c.Param("slug")

	post, err := h.postService.GetPostBySlug(slug)
	if err != nil {
		h.NotFound(c)
		return
	}

	h.views.Increment(post.Slug)

	render(c, http.StatusOK, "post.html", gin.H{
		"post":  post,
		"views": h.views.Count(post.Slug),
	})
}

func (h *BlogHandler) NotFound(c *gin.Context) {
	render(c, http.StatusNotFound, "404.html", gin.H{})
}

func parsePage(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
