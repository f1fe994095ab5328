package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveFlush(t *testing.T) {
	m := New()

	m.ObserveFlush(3, 1, 5*time.Millisecond)
	m.ObserveFlush(2, 0, time.Millisecond)

	assert.InDelta(t, 2, testutil.ToFloat64(m.FlushesTotal), 0)
	assert.InDelta(t, 5, testutil.ToFloat64(m.FlushRecordsTotal.WithLabelValues("written")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.FlushRecordsTotal.WithLabelValues("failed")), 0)
}

func TestObservePageviewAndRestore(t *testing.T) {
	m := New()

	m.ObservePageview(true)
	m.ObservePageview(false)
	m.ObservePageview(false)
	m.ObserveRestore(7)

	assert.InDelta(t, 1, testutil.ToFloat64(m.PageviewsTotal.WithLabelValues(PageviewCounted)), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.PageviewsTotal.WithLabelValues(PageviewIgnored)), 0)
	assert.InDelta(t, 7, testutil.ToFloat64(m.RestoredRecords), 0)
}

func TestMiddleware_UsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/post/:slug", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/post/a", "/post/b", "/missing"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.InDelta(t, 2, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/post/:slug", "200")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "unmatched", "404")), 0)
}

func TestHandler(t *testing.T) {
	m := New()
	m.PostsLoaded.Set(4)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "mdblog_content_posts_loaded 4")
	assert.Contains(t, w.Body.String(), "go_goroutines")
}
