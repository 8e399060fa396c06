package middleware

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	defaultHTTPCacheTTL     = 15 * time.Second
	defaultHTTPCacheMaxBody = 1 << 20 // 1 MiB
)

// HTTPCacheOptions tunes the in-process GET response cache.
type HTTPCacheOptions struct {
	TTL          time.Duration
	SkipPaths    []string
	MaxBodyBytes int
}

type cachedResponse struct {
	status      int
	contentType string
	body        []byte
	expires     time.Time
}

type cacheBodyWriter struct {
	gin.ResponseWriter
	body         []byte
	maxBodyBytes int
	overflow     bool
}

func (w *cacheBodyWriter) Write(data []byte) (int, error) {
	w.capture(data)
	return w.ResponseWriter.Write(data)
}

func (w *cacheBodyWriter) WriteString(s string) (int, error) {
	w.capture([]byte(s))
	return w.ResponseWriter.WriteString(s)
}

func (w *cacheBodyWriter) capture(data []byte) {
	if w.maxBodyBytes <= 0 || w.overflow || len(data) == 0 {
		return
	}
	remaining := w.maxBodyBytes - len(w.body)
	if remaining <= 0 {
		w.overflow = true
		return
	}
	if len(data) > remaining {
		w.body = append(w.body, data[:remaining]...)
		w.overflow = true
		return
	}
	w.body = append(w.body, data...)
}

// HTTPCache returns a middleware that serves repeated GET requests from a
// short-lived in-process cache. Responses are keyed by path and query string,
// so it belongs on read-only proxy routes only. Clients bypass the cache by
// appending a timestamp query parameter.
func HTTPCache(opts HTTPCacheOptions) gin.HandlerFunc {
	if opts.TTL <= 0 {
		opts.TTL = defaultHTTPCacheTTL
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultHTTPCacheMaxBody
	}

	var (
		mu      sync.RWMutex
		entries = make(map[string]cachedResponse)
	)

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet ||
			shouldSkipCachePath(c.Request.URL.Path, opts.SkipPaths) ||
			hasBypassTimestamp(c) {
			c.Next()
			return
		}

		key := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			key += "?" + raw
		}

		now := time.Now()

		mu.RLock()
		entry, hit := entries[key]
		mu.RUnlock()
		if hit && now.Before(entry.expires) {
			c.Header("X-Cache", "hit")
			c.Data(entry.status, entry.contentType, entry.body)
			c.Abort()
			return
		}

		writer := &cacheBodyWriter{
			ResponseWriter: c.Writer,
			maxBodyBytes:   opts.MaxBodyBytes,
		}
		c.Writer = writer
		c.Next()

		status := writer.Status()
		if !isCacheableResponse(status, writer.Header()) || writer.overflow {
			return
		}

		mu.Lock()
		for k, e := range entries {
			if now.After(e.expires) {
				delete(entries, k)
			}
		}
		entries[key] = cachedResponse{
			status:      status,
			contentType: writer.Header().Get("Content-Type"),
			body:        writer.body,
			expires:     now.Add(opts.TTL),
		}
		mu.Unlock()
	}
}

func shouldSkipCachePath(path string, patterns []string) bool {
	for _, pattern := range patterns {
		p := strings.TrimSpace(pattern)
		if p == "" {
			continue
		}
		if strings.HasSuffix(p, "*") {
			if strings.HasPrefix(path, strings.TrimSuffix(p, "*")) {
				return true
			}
			continue
		}
		if path == p {
			return true
		}
	}
	return false
}

func hasBypassTimestamp(c *gin.Context) bool {
	query := c.Request.URL.Query()
	for _, key := range []string{"ts", "timestamp", "_t", "t"} {
		if strings.TrimSpace(query.Get(key)) != "" {
			return true
		}
	}
	return false
}

func isCacheableResponse(status int, headers http.Header) bool {
	if status != http.StatusOK {
		return false
	}
	cacheControl := strings.ToLower(headers.Get("Cache-Control"))
	return !strings.Contains(cacheControl, "no-cache") &&
		!strings.Contains(cacheControl, "no-store") &&
		!strings.Contains(cacheControl, "private")
}
