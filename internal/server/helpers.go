package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"mime"
	"net/http"
	"net/url"
	"os"
	"strconv"

	"movvify/internal/downloads"
	"movvify/internal/utils/logging"
)

const maxBodyBytes = 1 << 20

// Plain-text hints returned to clients. Raw tool output never leaves the server.
const (
	msgInvalidURL      = "Please enter a valid YouTube URL."
	msgInvalidPlaylist = "Please enter a valid playlist URL."
	msgRateLimited     = "YouTube rate limit detected. Please wait a few minutes and try again, or update your cookies file."
	msgDownloadFailed  = "Download failed. Please check your link or try again."
	msgPlaylistFailed  = "Failed to fetch playlist info."
	msgPlaylistParse   = "Error parsing playlist data."
	msgFileNotFound    = "File not found."
)

// downloadForm is the user input accepted by the download routes.
type downloadForm struct {
	URL     string `json:"url"`
	Quality string `json:"quality"`
	Title   string `json:"title"`
}

// readForm reads user input from a JSON body, a form body or the query string.
func readForm(w http.ResponseWriter, r *http.Request) (downloadForm, error) {
	var f downloadForm

	if r.Method == http.MethodPost && isJSON(r) {
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err := dec.Decode(&f); err != nil {
			return f, fmt.Errorf("failed to decode JSON body: %w", err)
		}
		return f, nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		return f, fmt.Errorf("failed to parse form: %w", err)
	}
	f.URL = r.FormValue("url")
	f.Quality = r.FormValue("quality")
	f.Title = r.FormValue("title")
	return f, nil
}

func isJSON(r *http.Request) bool {
	ct, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && ct == "application/json"
}

// writeDownloadError maps a failed download onto a status and a plain-text hint.
func (s *Server) writeDownloadError(w http.ResponseWriter, url string, err error) {
	if errors.Is(err, downloads.ErrUpstreamBlocked) {
		s.noteBlocked(w, url)
		http.Error(w, msgRateLimited, http.StatusTooManyRequests)
		return
	}
	http.Error(w, msgDownloadFailed, http.StatusInternalServerError)
}

// noteBlocked records an upstream block for url and, when w is non-nil, sets
// Retry-After to the cooldown left.
func (s *Server) noteBlocked(w http.ResponseWriter, url string) {
	if s.blocks == nil {
		return
	}
	remaining := s.blocks.Block(url)
	if w != nil && remaining > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(remaining.Seconds()))))
	}
}

// sendFile streams a finished file as an attachment, then schedules its deletion
// whether or not the transfer completed.
func (s *Server) sendFile(w http.ResponseWriter, r *http.Request, path, name string) {
	defer s.files.ScheduleDelete(path, s.cleanupDelay)

	f, err := os.Open(path)
	if err != nil {
		logging.E("Failed to open %q for sending: %v", path, err)
		http.Error(w, msgFileNotFound, http.StatusNotFound)
		return
	}
	defer func() {
		if err := f.Close(); err != nil {
			logging.E("Failed to close file %q: %v", path, err)
		}
	}()

	info, err := f.Stat()
	if err != nil {
		logging.E("Failed to stat %q: %v", path, err)
		http.Error(w, msgDownloadFailed, http.StatusInternalServerError)
		return
	}

	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": name})
	if disposition == "" {
		disposition = "attachment"
	}
	w.Header().Set("Content-Disposition", disposition)
	http.ServeContent(w, r, name, info.ModTime(), f)
	logging.I("Sent %q to client", name)
}

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.E("Failed to encode JSON response: %v", err)
	}
}

// fileParam returns the decoded filename route parameter. chi matches on the
// raw path when one is set, leaving the parameter escaped.
func fileParam(r *http.Request, raw string) string {
	if r.URL.RawPath == "" {
		return raw
	}
	if name, err := url.PathUnescape(raw); err == nil {
		return name
	}
	return raw
}
