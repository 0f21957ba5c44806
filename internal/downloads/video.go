package downloads

import (
	"context"
	"fmt"
	"os"
	"strings"

	"movvify/internal/command/builder"
	"movvify/internal/models"
	"movvify/internal/utils/logging"
)

// Download fetches one video to completion and returns the finished file.
//
// On failure the partial output is removed and the error wraps ErrUpstreamBlocked
// or ErrToolFailed.
func (s *Service) Download(ctx context.Context, req models.DownloadRequest) (models.OutputFile, error) {
	out := s.output(ctx, req)
	args := builder.VideoArgs(s.Cookies.Resolve(), req.Quality, out.Path, req.URL, false)

	logging.I("Starting download of %q (quality %s) to %q", req.URL, req.Quality, out.Filename)
	if _, err := s.Runner.Run(ctx, s.Options.DownloadTimeout, args...); err != nil {
		s.Files.RemovePartial(out.Path)
		return models.OutputFile{}, classify(req.URL, err)
	}

	if _, err := os.Stat(out.Path); err != nil {
		s.Files.RemovePartial(out.Path)
		logging.E("Tool reported success for %q but output %q is missing: %v", req.URL, out.Path, err)
		return models.OutputFile{}, fmt.Errorf("%w: output %q missing", ErrToolFailed, out.Filename)
	}

	logging.S("Downloaded %q to %q", req.URL, out.Filename)
	return out, nil
}

// FetchTitle asks the tool for the video title without downloading it.
func (s *Service) FetchTitle(ctx context.Context, url string) (string, error) {
	args := builder.TitleArgs(s.Cookies.Resolve(), url)

	res, err := s.Runner.Run(ctx, s.Options.MetadataTimeout, args...)
	if err != nil {
		return "", classify(url, err)
	}

	for _, line := range strings.Split(res.Stdout, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			logging.D(1, "Fetched title %q for %q", line, url)
			return line, nil
		}
	}
	return "", fmt.Errorf("%w: empty title for %q", ErrParse, url)
}
