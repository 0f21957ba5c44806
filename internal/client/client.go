package client

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"movvify/internal/domain/consts"
	"movvify/internal/file"
	"movvify/internal/models"
	"movvify/internal/progress"
	"movvify/internal/utils/logging"

	"github.com/dustin/go-humanize"
)

// ErrDownloadFailed is returned when the server reports a failed download.
var ErrDownloadFailed = errors.New("download failed on server")

// errStream marks progress channel failures that warrant the synchronous fallback.
var errStream = errors.New("progress stream failed")

// Client talks to a movvify server and saves finished files locally.
type Client struct {
	BaseURL    string
	HTTP       *http.Client
	OutputDir  string
	OnProgress func(percent float64)

	files *file.Resolver
}

// NewClient returns a client for the server at baseURL saving into outputDir.
func NewClient(baseURL, outputDir string) *Client {
	return &Client{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		HTTP:      &http.Client{},
		OutputDir: outputDir,
		files:     file.NewResolver(outputDir, nil),
	}
}

// PlaylistInfo lists a playlist through the server.
func (c *Client) PlaylistInfo(ctx context.Context, playlistURL string) (models.PlaylistInfo, error) {
	body, err := json.Marshal(map[string]string{"url": playlistURL})
	if err != nil {
		return models.PlaylistInfo{}, err
	}

	res, err := c.do(ctx, http.MethodPost, "/download/playlist-info", body)
	if err != nil {
		return models.PlaylistInfo{}, err
	}
	defer res.Body.Close()

	var reply struct {
		OK      bool   `json:"ok"`
		Message string `json:"message"`
		models.PlaylistInfo
	}
	if err := json.NewDecoder(res.Body).Decode(&reply); err != nil {
		return models.PlaylistInfo{}, fmt.Errorf("failed to decode playlist reply (status %d): %w", res.StatusCode, err)
	}
	if !reply.OK {
		return models.PlaylistInfo{}, fmt.Errorf("server refused playlist (status %d): %s", res.StatusCode, reply.Message)
	}
	return reply.PlaylistInfo, nil
}

// FetchItem downloads one item synchronously and saves it under OutputDir.
func (c *Client) FetchItem(ctx context.Context, item models.PlaylistItem, quality models.Quality) (string, error) {
	body, err := json.Marshal(map[string]string{
		"url":     item.URL,
		"quality": string(quality),
		"title":   item.Title,
	})
	if err != nil {
		return "", err
	}

	res, err := c.do(ctx, http.MethodPost, "/download", body)
	if err != nil {
		return "", err
	}
	return c.save(res, item.Title)
}

// DownloadSingle downloads one video while reporting progress, falling back to
// the synchronous route if the progress channel fails.
func (c *Client) DownloadSingle(ctx context.Context, videoURL string, quality models.Quality) (string, error) {
	q := url.Values{"url": {videoURL}, "quality": {string(quality)}}

	name, err := c.streamProgress(ctx, q)
	switch {
	case err == nil:
		res, err := c.do(ctx, http.MethodGet, "/download/file/"+url.PathEscape(name), nil)
		if err != nil {
			return "", err
		}
		return c.save(res, "")

	case errors.Is(err, errStream) && ctx.Err() == nil:
		logging.W("Progress unavailable (%v), downloading directly", err)
		res, err := c.do(ctx, http.MethodGet, "/download/download-video?"+q.Encode(), nil)
		if err != nil {
			return "", err
		}
		return c.save(res, "")

	default:
		return "", err
	}
}

// streamProgress consumes the progress channel until its terminal event and
// returns the finished filename.
func (c *Client) streamProgress(ctx context.Context, q url.Values) (string, error) {
	res, err := c.do(ctx, http.MethodGet, "/download/progress?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", errStream, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d: %s", errStream, res.StatusCode, readHint(res.Body))
	}

	sc := bufio.NewScanner(res.Body)
	for sc.Scan() {
		data, ok := strings.CutPrefix(sc.Text(), "data:")
		if !ok {
			continue
		}

		ev, err := progress.ParsePayload(data)
		if err != nil {
			logging.D(1, "Ignoring progress frame: %v", err)
			continue
		}

		switch ev.Kind {
		case progress.KindPercent:
			if c.OnProgress != nil {
				c.OnProgress(ev.Percent)
			}
		case progress.KindDone:
			return ev.Filename, nil
		case progress.KindRateLimited:
			return "", ErrRateLimited
		default:
			return "", ErrDownloadFailed
		}
	}

	if err := sc.Err(); err != nil {
		return "", fmt.Errorf("%w: %w", errStream, err)
	}
	return "", fmt.Errorf("%w: stream ended without a result", errStream)
}

// save writes a successful download response to a fresh path under OutputDir.
func (c *Client) save(res *http.Response, title string) (string, error) {
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusTooManyRequests:
		return "", ErrRateLimited
	case res.StatusCode != http.StatusOK:
		return "", fmt.Errorf("%w: status %d: %s", ErrDownloadFailed, res.StatusCode, readHint(res.Body))
	}

	path, err := c.files.EnsureUniqueFilepath(filepath.Join(c.OutputDir, localName(res, title)))
	if err != nil {
		return "", err
	}
	defer c.files.Release(path)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %q: %w", path, err)
	}

	n, err := io.Copy(f, res.Body)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to save %q: %w", path, err)
	}

	logging.S("Saved %q (%s)", path, humanize.Bytes(uint64(n)))
	return path, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, r)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.HTTP.Do(req)
}

// localName picks the saved filename: the server's attachment name, else the title.
func localName(res *http.Response, title string) string {
	if _, params, err := mime.ParseMediaType(res.Header.Get("Content-Disposition")); err == nil {
		if name := filepath.Base(params["filename"]); name != "." && name != ".." && name != "/" {
			return name
		}
	}
	if title == "" {
		title = consts.DefaultTitle
	}
	return file.SanitizeTitle(title) + consts.OutputExt
}

func readHint(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 512))
	return strings.TrimSpace(string(b))
}
