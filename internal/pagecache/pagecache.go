package pagecache

import (
	"bytes"
	"net/http"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

type cachedPage struct {
	status      int
	contentType string
	body        []byte
}

// Cache — кэш целых страниц. Отдает ранее отрендеренное тело как есть,
// пока не истечет TTL или не вызовут Clear. Мутации данных кэш не сбрасывают.
type Cache struct {
	lru *expirable.LRU[string, cachedPage]
}

func New(size int, ttl time.Duration) *Cache {
	return &Cache{
		lru: expirable.NewLRU[string, cachedPage](size, nil, ttl),
	}
}

// Middleware кэширует успешные GET-ответы по полному URL запроса
func (c *Cache) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			next.ServeHTTP(w, r)
			return
		}

		key := r.URL.RequestURI()
		if page, ok := c.lru.Get(key); ok {
			w.Header().Set("Content-Type", page.contentType)
			w.WriteHeader(page.status)
			w.Write(page.body)
			return
		}

		rec := &recorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		if rec.status == http.StatusOK {
			c.lru.Add(key, cachedPage{
				status:      rec.status,
				contentType: rec.Header().Get("Content-Type"),
				body:        rec.buf.Bytes(),
			})
		}
	})
}

// Clear полностью сбрасывает кэш
func (c *Cache) Clear() {
	c.lru.Purge()
}

// recorder пишет ответ клиенту и одновременно копит его копию для кэша
type recorder struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (r *recorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *recorder) Write(p []byte) (int, error) {
	r.buf.Write(p)
	return r.ResponseWriter.Write(p)
}
