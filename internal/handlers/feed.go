package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/feeds"

	"mdblog/internal/config"
	"mdblog/internal/services"
)

// feedSize is the number of posts in the RSS feed.
const feedSize = 20

type FeedHandler struct {
	postService *services.PostService
	site        config.SiteConfig
}

func NewFeedHandler(postService *services.PostService, site config.SiteConfig) *FeedHandler {
	return &FeedHandler{postService: postService, site: site}
}

// Feed serves an RSS 2.0 document of the newest posts. Link posts point at
// their external article; the guid is always the local permalink.
func (h *FeedHandler) Feed(c *gin.Context) {
	base := h.baseURL(c)
	posts := h.postService.Recent(feedSize)

	feed := &feeds.Feed{
		Title:       h.site.Title,
		Link:        &feeds.Link{Href: base + "/"},
		Description: h.site.Description,
		Items:       make([]*feeds.Item, 0, len(posts)),
	}
	if h.site.Author != "" {
		feed.Author = &feeds.Author{Name: h.site.Author}
	}
	if len(posts) > 0 {
		feed.Updated = posts[0].Date
	}

	for _, p := range posts {
		permalink := base + services.PostPathPrefix + p.Slug
		link := permalink
		if p.IsLinkPost() {
			link = p.ExternalURL
		}
		item := &feeds.Item{
			Title:       p.Title,
			Link:        &feeds.Link{Href: link},
			Id:          permalink,
			Description: p.Excerpt,
			Created:     p.Date,
		}
		if h.site.Author != "" {
			item.Author = &feeds.Author{Name: h.site.Author}
		}
		feed.Items = append(feed.Items, item)
	}

	// Item has no category field, so tags are set on the RSS projection.
	rss := (&feeds.Rss{Feed: feed}).RssFeed()
	for i, p := range posts {
		if len(p.Tags) > 0 {
			rss.Items[i].Category = strings.Join(p.Tags, ", ")
		}
	}

	out, err := feeds.ToXML(rss)
	if err != nil {
		_ = c.Error(err)
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Data(http.StatusOK, "application/rss+xml; charset=utf-8", []byte(out))
}

// baseURL prefers the configured site URL and falls back to the request host.
func (h *FeedHandler) baseURL(c *gin.Context) string {
	if h.site.BaseURL != "" {
		return strings.TrimRight(h.site.BaseURL, "/")
	}
	scheme := "http"
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host
}
