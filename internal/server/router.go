package server

import (
	"io/fs"
	"net/http"
	"time"

	"movvify/internal/utils/logging"
	"movvify/web"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Router returns the HTTP handler for every route.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	// --- Static Frontend ---
	r.Handle("/*", StaticHandler())

	// --- Download Routes ---
	r.Route("/download", func(r chi.Router) {
		r.Post("/", s.handleDownload)
		r.Get("/download-video", s.handleDownload)
		r.Post("/playlist-info", s.handlePlaylistInfo)
		r.Get("/progress", s.handleProgress)
		r.Get("/file/{filename}", s.handleFile)
	})

	return r
}

// StaticHandler serves the embedded web UI.
func StaticHandler() http.Handler {
	sub, err := fs.Sub(web.Static, "static")
	if err != nil {
		panic("embedded web UI missing: " + err.Error())
	}
	return http.FileServer(http.FS(sub))
}

// requestLogger writes one zerolog line per request, tagged with chi's request ID.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		defer func() {
			l := logging.Logger()
			l.Info().
				Str("request_id", middleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("elapsed", time.Since(start)).
				Msg("request")
		}()

		next.ServeHTTP(ww, r)
	})
}
