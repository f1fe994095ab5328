package services

import (
	"strings"
	"sync"

	"mdblog/internal/models"
)

// PostPathPrefix is the URL prefix under which posts are served.
const PostPathPrefix = "/post/"

// SlugChecker tells the counter which slugs are real posts.
type SlugChecker interface {
	Exists(slug string) bool
}

// ViewCounter is the in-memory pageview table. Counts only ever grow and
// only slugs accepted by the SlugChecker are stored. Every method holds the
// lock for at most one pass over the distinct slugs.
type ViewCounter struct {
	known  SlugChecker
	mu     sync.Mutex
	counts map[string]int64
}

func NewViewCounter(known SlugChecker) *ViewCounter {
	return &ViewCounter{
		known:  known,
		counts: make(map[string]int64),
	}
}

// Increment records one view of slug. Unknown slugs are ignored.
func (v *ViewCounter) Increment(slug string) {
	if !v.known.Exists(slug) {
		return
	}
	v.mu.Lock()
	v.counts[slug]++
	v.mu.Unlock()
}

// RecordPageview increments the post addressed by path, a request path such
// as "/post/hello-world". It reports whether path named a known post.
func (v *ViewCounter) RecordPageview(path string) bool {
	slug, ok := SlugFromPath(path)
	if !ok || !v.known.Exists(slug) {
		return false
	}
	v.Increment(slug)
	return true
}

// Count returns the current count of slug.
func (v *ViewCounter) Count(slug string) int64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.counts[slug]
}

// Snapshot returns a copy of all counts. Increments that returned before the
// call are included.
func (v *ViewCounter) Snapshot() map[string]int64 {
	v.mu.Lock()
	defer v.mu.Unlock()

	out := make(map[string]int64, len(v.counts))
	for slug, n := range v.counts {
		out[slug] = n
	}
	return out
}

// Restore adds persisted counts to the table and returns how many records
// were applied. Records for slugs that are no longer loaded are left out.
func (v *ViewCounter) Restore(records []models.PostHit) int {
	v.mu.Lock()
	defer v.mu.Unlock()

	restored := 0
	for _, rec := range records {
		if rec.Hits <= 0 || !v.known.Exists(rec.PostSlug) {
			continue
		}
		v.counts[rec.PostSlug] += rec.Hits
		restored++
	}
	return restored
}

// SlugFromPath extracts the slug from a post URL path. Query strings,
// fragments and a trailing slash are ignored.
func SlugFromPath(path string) (string, bool) {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	rest, ok := strings.CutPrefix(path, PostPathPrefix)
	if !ok {
		return "", false
	}
	rest = strings.TrimSuffix(rest, "/")
	if rest == "" || strings.Contains(rest, "/") {
		return "", false
	}
	return rest, true
}
