package services

import (
	"errors"

	"mdblog/internal/models"
	"mdblog/internal/search"
)

// ErrPostNotFound is returned for slugs that were not loaded at startup.
var ErrPostNotFound = errors.New("post not found")

// Search weights for the different parts of a post.
const (
	titleWeight = 5
	metaWeight  = 3
	bodyWeight  = 1
)

// PostService exposes the immutable post collection produced at startup.
// All methods are read-only and safe for concurrent use.
type PostService struct {
	posts  []models.Post
	bySlug map[string]int
	index  *search.Index
}

// NewPostService takes ownership of posts, which must already be sorted.
func NewPostService(posts []models.Post) *PostService {
	s := &PostService{
		posts:  posts,
		bySlug: make(map[string]int, len(posts)),
		index:  search.New(),
	}
	for i := range posts {
		p := &posts[i]
		s.bySlug[p.Slug] = i
		s.index.Add(i, p.Title, titleWeight)
		s.index.Add(i, p.Description, metaWeight)
		for _, tag := range p.Tags {
			s.index.Add(i, tag, metaWeight)
		}
		s.index.Add(i, stripTags(string(p.Content)), bodyWeight)
	}
	return s
}

// Exists reports whether slug names a loaded post.
func (s *PostService) Exists(slug string) bool {
	_, ok := s.bySlug[slug]
	return ok
}

func (s *PostService) GetPostBySlug(slug string) (*models.Post, error) {
	i, ok := s.bySlug[slug]
	if !ok {
		return nil, ErrPostNotFound
	}
	return &s.posts[i], nil
}

// All returns every post, newest first. Callers must not modify the slice.
func (s *PostService) All() []models.Post {
	return s.posts
}

func (s *PostService) Count() int {
	return len(s.posts)
}

// Recent returns at most n of the newest posts.
func (s *PostService) Recent(n int) []models.Post {
	if n > len(s.posts) {
		n = len(s.posts)
	}
	return s.posts[:n]
}

// GetPostsPage returns one page of posts and the total number of posts.
// Pages are 1-based; out of range pages are empty.
func (s *PostService) GetPostsPage(page, pageSize int) ([]models.Post, int) {
	return paginate(s.posts, page, pageSize), len(s.posts)
}

// SearchPostsPage returns one page of posts matching query, best match
// first, and the total number of matches.
func (s *PostService) SearchPostsPage(query string, page, pageSize int) ([]models.Post, int) {
	ids := s.index.Search(query)
	matches := make([]models.Post, len(ids))
	for i, id := range ids {
		matches[i] = s.posts[id]
	}
	return paginate(matches, page, pageSize), len(matches)
}

func paginate(posts []models.Post, page, pageSize int) []models.Post {
	if page < 1 || pageSize < 1 {
		return nil
	}
	start := (page - 1) * pageSize
	if start >= len(posts) {
		return nil
	}
	end := min(start+pageSize, len(posts))
	return posts[start:end]
}

// stripTags drops HTML tags so only text is indexed.
func stripTags(html string) string {
	out := make([]rune, 0, len(html))
	inTag := false
	for _, r := range html {
		switch {
		case r == '<':
			inTag = true
			out = append(out, ' ')
		case r == '>':
			inTag = false
		case !inTag:
			out = append(out, r)
		}
	}
	return string(out)
}
