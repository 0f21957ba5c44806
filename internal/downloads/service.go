// Package downloads runs download sessions: one tool invocation per request,
// from output naming to cleanup of partial files.
package downloads

import (
	"context"
	"time"

	"movvify/internal/command/execute"
	"movvify/internal/domain/consts"
	"movvify/internal/file"
	"movvify/internal/models"
	"movvify/internal/utils/logging"
)

// Options holds per-invocation timeouts.
type Options struct {
	MetadataTimeout time.Duration
	PlaylistTimeout time.Duration
	DownloadTimeout time.Duration
}

// DefaultOptions provides sensible defaults.
var DefaultOptions = Options{
	MetadataTimeout: consts.MetadataTimeout,
	PlaylistTimeout: consts.PlaylistTimeout,
	DownloadTimeout: consts.DownloadTimeout,
}

// Credentials picks the cookie source for each invocation.
type Credentials interface {
	Resolve() models.CredentialArgs
}

// Service owns the tool runner and the output files it produces.
type Service struct {
	Runner  *execute.Runner
	Cookies Credentials
	Files   *file.Resolver
	Options Options
}

// NewService returns a service writing into dir. Titles are fetched through the
// service itself.
func NewService(runner *execute.Runner, cookies Credentials, dir string, opts Options) *Service {
	s := &Service{
		Runner:  runner,
		Cookies: cookies,
		Options: opts,
	}
	s.Files = file.NewResolver(dir, s)
	return s
}

// output reserves the output file for a request, falling back to a
// timestamp-based name if the filesystem gets in the way.
func (s *Service) output(ctx context.Context, req models.DownloadRequest) models.OutputFile {
	out, err := s.Files.Prepare(ctx, req.URL, req.TitleHint)
	if err != nil {
		out = s.Files.FallbackOutput()
		logging.E("Could not name output for %q, using %q: %v", req.URL, out.Filename, err)
	}
	return out
}
