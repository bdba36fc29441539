// Package server serves an output directory over HTTP for local browsing:
// the index page is rendered from manifest.json on each request, and
// transcripts and media are served as static files with range support so
// the viewer's media element can seek.
package server

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sonnes/kikitori/manifest"
	htmlrender "github.com/sonnes/kikitori/render/html"
)

// Server serves one output directory.
type Server struct {
	// Dir is the output directory to serve.
	Dir string
	// AllowedOrigins lists origins allowed cross-origin access; empty
	// allows any.
	AllowedOrigins []string
}

// Handler returns the HTTP handler for s.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(requestLogger)
	r.Use(cors.Handler(corsOptions(s.AllowedOrigins)))

	r.Get("/", s.index)
	r.Handle("/*", http.FileServer(http.Dir(s.Dir)))
	return r
}

func (s *Server) index(w http.ResponseWriter, req *http.Request) {
	m, err := manifest.Load(s.Dir)
	if err != nil {
		log.Error("read manifest", "err", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	m.Prune(s.Dir)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := htmlrender.New().RenderIndex(w, m.Entries); err != nil {
		log.Error("render index", "err", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func corsOptions(origins []string) cors.Options {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Range"},
		ExposedHeaders: []string{"Content-Length", "Content-Range", "Accept-Ranges"},
		MaxAge:         300,
	}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.Debug("request", "method", r.Method, "path", r.URL.Path, "status", ww.Status(), "took", time.Since(start))
	})
}
