package server

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"time"

	"movvify/internal/downloads"
	"movvify/internal/models"
	"movvify/internal/progress"
	"movvify/internal/utils/logging"
	"movvify/internal/validation"

	"github.com/go-chi/chi/v5"
)

// playlistResponse is the playlist-info reply. PlaylistInfo is nil on failure.
type playlistResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
	*models.PlaylistInfo
}

// handleDownload downloads a video to completion and sends it as an attachment.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	form, err := readForm(w, r)
	if err != nil {
		logging.D(1, "Rejected download request: %v", err)
		http.Error(w, msgInvalidURL, http.StatusBadRequest)
		return
	}

	req, err := validation.ValidateDownloadRequest(form.URL, form.Quality, form.Title)
	if err != nil {
		logging.D(1, "Rejected download request: %v", err)
		http.Error(w, msgInvalidURL, http.StatusBadRequest)
		return
	}

	out, err := s.dl.Download(r.Context(), req)
	if err != nil {
		s.writeDownloadError(w, req.URL, err)
		return
	}
	s.sendFile(w, r, out.Path, out.Filename)
}

// handlePlaylistInfo lists the items of a playlist.
func (s *Server) handlePlaylistInfo(w http.ResponseWriter, r *http.Request) {
	form, err := readForm(w, r)
	var playlistURL string
	if err == nil {
		var u *url.URL
		if u, err = validation.ValidatePlaylistURL(form.URL); err == nil {
			playlistURL = u.String()
		}
	}
	if err != nil {
		logging.D(1, "Rejected playlist request: %v", err)
		writeJSON(w, http.StatusBadRequest, playlistResponse{Message: msgInvalidPlaylist})
		return
	}

	info, err := s.dl.Playlist(r.Context(), playlistURL)
	if err != nil {
		msg := msgPlaylistFailed
		switch {
		case errors.Is(err, downloads.ErrParse):
			msg = msgPlaylistParse
		case errors.Is(err, downloads.ErrUpstreamBlocked):
			s.noteBlocked(w, playlistURL)
		}
		writeJSON(w, http.StatusInternalServerError, playlistResponse{Message: msg})
		return
	}

	writeJSON(w, http.StatusOK, playlistResponse{OK: true, PlaylistInfo: &info})
}

// handleProgress runs a download while streaming progress as server-sent events.
//
// Input errors are reported as 400 before the stream opens. Once open, the
// stream carries percent events and ends with exactly one terminal event.
func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req, err := validation.ValidateDownloadRequest(q.Get("url"), q.Get("quality"), q.Get("title"))
	if err != nil {
		logging.D(1, "Rejected progress request: %v", err)
		http.Error(w, msgInvalidURL, http.StatusBadRequest)
		return
	}

	if s.blocks != nil {
		if blocked, _, remaining := s.blocks.IsBlocked(req.URL); blocked {
			logging.W("Starting %q while upstream is still cooling down (%v left)", req.URL, remaining.Round(time.Second))
		}
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ctx := r.Context()
	emit := func(ev progress.Event) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := io.WriteString(w, ev.String()); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	}

	ev, err := s.dl.StreamProgress(ctx, req, emit)
	if err != nil {
		return
	}
	if ev.Kind == progress.KindRateLimited {
		s.noteBlocked(nil, req.URL)
	}
}

// handleFile sends a file produced by a progress session, then deletes it.
func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	name := fileParam(r, chi.URLParam(r, "filename"))

	path, err := s.files.ResolveServed(name)
	if err != nil {
		logging.D(1, "Refused to serve %q: %v", name, err)
		http.Error(w, msgFileNotFound, http.StatusNotFound)
		return
	}
	s.sendFile(w, r, path, name)
}
