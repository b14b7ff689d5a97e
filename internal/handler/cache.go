package handler

import (
	"bytes"
	"encoding/gob"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Shivanand-hulikatti/workshop-hub/internal/cache"
	"github.com/Shivanand-hulikatti/workshop-hub/internal/metrics"
)

type cachedBody struct {
	Status int
	Header map[string][]string
	Body   []byte
}

// ResponseCache serves repeated GETs from store. Only 2xx responses are
// stored, and only when no invalidation ran while the handler was
// building them. Cache failures fall through to the handler.
func ResponseCache(store cache.Store, ttl time.Duration, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}
			key := cache.ResponseKey(r.URL.Path, r.URL.RawQuery)

			if b, ok, err := store.Get(r.Context(), key); err != nil {
				log.Warn("cache get", zap.String("key", key), zap.Error(err))
			} else if ok {
				var hit cachedBody
				if err := gob.NewDecoder(bytes.NewReader(b)).Decode(&hit); err == nil {
					metrics.RecordCacheLookup(true)
					for k, vals := range hit.Header {
						w.Header()[k] = vals
					}
					w.Header().Set("X-Cache", "HIT")
					w.WriteHeader(hit.Status)
					_, _ = w.Write(hit.Body)
					return
				}
			}
			metrics.RecordCacheLookup(false)

			gen, err := store.Generation(r.Context())
			if err != nil {
				log.Warn("cache generation", zap.Error(err))
				w.Header().Set("X-Cache", "MISS")
				next.ServeHTTP(w, r)
				return
			}

			var buf bytes.Buffer
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			ww.Tee(&buf)
			w.Header().Set("X-Cache", "MISS")
			next.ServeHTTP(ww, r)

			status := statusOf(ww)
			if status < 200 || status >= 300 {
				return
			}
			header := w.Header().Clone()
			header.Del("X-Cache")
			var enc bytes.Buffer
			if err := gob.NewEncoder(&enc).Encode(cachedBody{Status: status, Header: header, Body: buf.Bytes()}); err != nil {
				log.Warn("cache encode", zap.Error(err))
				return
			}
			stored, err := store.SetIfGeneration(r.Context(), key, enc.Bytes(), ttl, gen)
			if err != nil {
				log.Warn("cache set", zap.String("key", key), zap.Error(err))
			} else if !stored {
				log.Debug("cache set skipped after invalidation", zap.String("key", key))
			}
		})
	}
}

// InvalidateCache drops every cached response after a write request and
// advances the cache generation, so reads already in flight do not store
// what they saw before the write.
func InvalidateCache(store cache.Store, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)
			if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodOptions {
				return
			}
			if err := store.DeletePrefix(r.Context(), cache.ResponsePrefix); err != nil {
				log.Warn("cache invalidate", zap.Error(err))
			}
		})
	}
}
