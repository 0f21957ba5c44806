// Package server exposes download sessions over HTTP.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"movvify/internal/blocking"
	"movvify/internal/domain/consts"
	"movvify/internal/models"
	"movvify/internal/progress"
	"movvify/internal/utils/logging"
)

const shutdownTimeout = 10 * time.Second

// Downloader runs download sessions.
type Downloader interface {
	Download(ctx context.Context, req models.DownloadRequest) (models.OutputFile, error)
	Playlist(ctx context.Context, url string) (models.PlaylistInfo, error)
	StreamProgress(ctx context.Context, req models.DownloadRequest, emit progress.Emitter) (progress.Event, error)
}

// Files resolves and cleans up served output files.
type Files interface {
	ResolveServed(name string) (string, error)
	ScheduleDelete(path string, delay time.Duration) *time.Timer
}

// Server holds the dependencies shared by every handler.
type Server struct {
	dl           Downloader
	files        Files
	blocks       *blocking.Tracker
	cleanupDelay time.Duration
}

// New returns a server. blocks may be nil, in which case no Retry-After is sent.
func New(dl Downloader, files Files, blocks *blocking.Tracker, cleanupDelay time.Duration) *Server {
	if cleanupDelay <= 0 {
		cleanupDelay = consts.CleanupDelay
	}
	return &Server{
		dl:           dl,
		files:        files,
		blocks:       blocks,
		cleanupDelay: cleanupDelay,
	}
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
//
// Request contexts derive from ctx, so in-flight tool processes are killed on shutdown.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	logging.S("%s web server running on http://localhost%s", consts.ProgramName, addr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logging.I("Shutting down web server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
