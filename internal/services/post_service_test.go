package services

import (
	"fmt"
	"html/template"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mdblog/internal/models"
)

func samplePosts(n int) []models.Post {
	posts := make([]models.Post, n)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range posts {
		posts[i] = models.Post{
			Slug:    fmt.Sprintf("post-%d", i),
			Title:   fmt.Sprintf("Post %d", i),
			Date:    base.AddDate(0, 0, -i),
			Content: template.HTML(fmt.Sprintf("<p>body number %d</p>", i)),
		}
	}
	return posts
}

func TestPostService_Lookup(t *testing.T) {
	s := NewPostService(samplePosts(3))

	assert.True(t, s.Exists("post-1"))
	assert.False(t, s.Exists("post-9"))

	p, err := s.GetPostBySlug("post-2")
	require.NoError(t, err)
	assert.Equal(t, "Post 2", p.Title)

	_, err = s.GetPostBySlug("../etc/passwd")
	assert.ErrorIs(t, err, ErrPostNotFound)
	assert.Equal(t, 3, s.Count())
	assert.Len(t, s.Recent(10), 3)
	assert.Len(t, s.Recent(2), 2)
}

func TestPostService_GetPostsPage(t *testing.T) {
	s := NewPostService(samplePosts(25))

	page, total := s.GetPostsPage(1, 10)
	assert.Equal(t, 25, total)
	require.Len(t, page, 10)
	assert.Equal(t, "post-0", page[0].Slug)

	page, _ = s.GetPostsPage(3, 10)
	require.Len(t, page, 5)
	assert.Equal(t, "post-20", page[0].Slug)

	page, _ = s.GetPostsPage(4, 10)
	assert.Empty(t, page)
	page, _ = s.GetPostsPage(0, 10)
	assert.Empty(t, page)
}

func TestPostService_Search(t *testing.T) {
	posts := samplePosts(3)
	posts[1].Title = "Markdown frontmatter"
	posts[2].Tags = []string{"markdown"}
	posts[2].Content = "<p>Some <strong>body</strong> text</p>"
	s := NewPostService(posts)

	results, total := s.SearchPostsPage("markdown", 1, 10)
	assert.Equal(t, 2, total)
	require.Len(t, results, 2)
	assert.Equal(t, "post-1", results[0].Slug)
	assert.Equal(t, "post-2", results[1].Slug)

	results, total = s.SearchPostsPage("strong", 1, 10)
	assert.Zero(t, total)
	assert.Empty(t, results)

	results, _ = s.SearchPostsPage("number 0", 1, 10)
	require.Len(t, results, 1)
	assert.Equal(t, "post-0", results[0].Slug)
}
