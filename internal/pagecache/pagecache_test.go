package pagecache

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheServesStaleBodyUntilClear(t *testing.T) {
	cache := New(16, time.Minute)

	counter := 0
	handler := cache.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		counter++
		fmt.Fprintf(w, "rendered %d", counter)
	}))

	get := func() string {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		return rec.Body.String()
	}

	first := get()
	assert.Equal(t, "rendered 1", first)

	// Данные "изменились" (counter растет), но кэш отдает прежнее тело
	second := get()
	assert.Equal(t, first, second)

	cache.Clear()

	third := get()
	assert.NotEqual(t, first, third)
	assert.Equal(t, "rendered 2", third)
}

func TestCacheKeyIncludesQuery(t *testing.T) {
	cache := New(16, time.Minute)

	handler := cache.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "page %s", r.URL.Query().Get("page"))
	}))

	rec1 := httptest.NewRecorder()
	handler.ServeHTTP(rec1, httptest.NewRequest(http.MethodGet, "/?page=1", nil))
	rec2 := httptest.NewRecorder()
	handler.ServeHTTP(rec2, httptest.NewRequest(http.MethodGet, "/?page=2", nil))

	assert.Equal(t, "page 1", rec1.Body.String())
	assert.Equal(t, "page 2", rec2.Body.String())
}

func TestCacheIgnoresPostRequests(t *testing.T) {
	cache := New(16, time.Minute)

	counter := 0
	handler := cache.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		counter++
		fmt.Fprintf(w, "%d", counter)
	}))

	post := func() string {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
		return rec.Body.String()
	}

	assert.Equal(t, "1", post())
	assert.Equal(t, "2", post())
}

func TestCacheExpiresByTTL(t *testing.T) {
	cache := New(16, 50*time.Millisecond)

	counter := 0
	handler := cache.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		counter++
		fmt.Fprintf(w, "%d", counter)
	}))

	get := func() string {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		return rec.Body.String()
	}

	assert.Equal(t, "1", get())
	assert.Equal(t, "1", get())

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, "2", get())
}
