package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"mdblog/internal/models"
)

type slugSet map[string]bool

func (s slugSet) Exists(slug string) bool { return s[slug] }

func TestViewCounter_ConcurrentIncrements(t *testing.T) {
	counter := NewViewCounter(slugSet{"a": true, "b": true})

	const workers, perWorker = 16, 500
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				counter.Increment("a")
				if w%2 == 0 {
					counter.Increment("b")
				}
				if i%50 == 0 {
					_ = counter.Snapshot()
				}
			}
		}(w)
	}
	wg.Wait()

	snap := counter.Snapshot()
	assert.EqualValues(t, workers*perWorker, snap["a"])
	assert.EqualValues(t, workers/2*perWorker, snap["b"])
}

func TestViewCounter_UnknownSlugNeverStored(t *testing.T) {
	counter := NewViewCounter(slugSet{"a": true})

	counter.Increment("ghost")
	counter.Increment("")
	assert.False(t, counter.RecordPageview("/post/ghost"))
	assert.False(t, counter.RecordPageview("/wp-admin.php"))

	snap := counter.Snapshot()
	assert.NotContains(t, snap, "ghost")
	assert.Empty(t, snap)
	assert.Zero(t, counter.Count("ghost"))
}

func TestViewCounter_SnapshotIsACopy(t *testing.T) {
	counter := NewViewCounter(slugSet{"a": true})
	counter.Increment("a")

	snap := counter.Snapshot()
	snap["a"] = 100
	snap["b"] = 1

	assert.EqualValues(t, 1, counter.Count("a"))
	assert.NotContains(t, counter.Snapshot(), "b")
}

func TestViewCounter_Restore(t *testing.T) {
	counter := NewViewCounter(slugSet{"a": true, "b": true})
	counter.Increment("a")

	n := counter.Restore([]models.PostHit{
		{PostSlug: "a", Hits: 3},
		{PostSlug: "b", Hits: 5},
		{PostSlug: "deleted-post", Hits: 9},
		{PostSlug: "b", Hits: -1},
	})
	assert.Equal(t, 2, n)
	assert.Equal(t, map[string]int64{"a": 4, "b": 5}, counter.Snapshot())
}

func TestViewCounter_RecordPageview(t *testing.T) {
	counter := NewViewCounter(slugSet{"hello": true})

	assert.True(t, counter.RecordPageview("/post/hello"))
	assert.True(t, counter.RecordPageview("/post/hello/?utm=x"))
	assert.EqualValues(t, 2, counter.Count("hello"))
}

func TestSlugFromPath(t *testing.T) {
	cases := map[string]string{
		"/post/hello":         "hello",
		"/post/hello/":        "hello",
		"/post/hello?ref=rss": "hello",
		"/post/hello#top":     "hello",
	}
	for in, want := range cases {
		got, ok := SlugFromPath(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	for _, in := range []string{"", "/", "/post/", "/posts/hello", "/post/a/b", "post/hello"} {
		_, ok := SlugFromPath(in)
		assert.False(t, ok, in)
	}
}
