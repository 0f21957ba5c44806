package downloads

import (
	"context"

	"movvify/internal/command/builder"
	"movvify/internal/domain/consts"
	"movvify/internal/models"
	"movvify/internal/progress"
	"movvify/internal/utils/logging"
)

// StreamProgress runs one download while relaying progress events through emit.
//
// Exactly one terminal event is emitted unless emit itself fails, which kills the
// tool. Output is kept only when the done event reached the client; its deletion
// is then left to whoever serves the file, with a late sweep in case nobody does.
func (s *Service) StreamProgress(ctx context.Context, req models.DownloadRequest, emit progress.Emitter) (progress.Event, error) {
	out := s.output(ctx, req)
	args := builder.VideoArgs(s.Cookies.Resolve(), req.Quality, out.Path, req.URL, true)

	if s.Options.DownloadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Options.DownloadTimeout)
		defer cancel()
	}

	logging.I("Starting streamed download of %q (quality %s) to %q", req.URL, req.Quality, out.Filename)
	proc, err := s.Runner.Start(ctx, args...)
	if err != nil {
		logging.E("Could not start streamed download of %q: %v", req.URL, err)
		s.Files.RemovePartial(out.Path)
		ev := progress.Failed()
		return ev, emit(ev)
	}

	ev, err := progress.Relay(proc, out.Filename, emit)
	if ev.Kind != progress.KindDone || err != nil {
		s.Files.RemovePartial(out.Path)
	}

	switch {
	case err != nil:
		logging.W("Client for %q went away, download stopped: %v", req.URL, err)
	case ev.Kind == progress.KindDone:
		logging.S("Streamed download of %q finished as %q", req.URL, out.Filename)
		s.Files.ScheduleDelete(out.Path, consts.UnclaimedFileTTL)
	case ev.Kind == progress.KindRateLimited:
		logging.W("Upstream blocked streamed download of %q", req.URL)
	}
	return ev, err
}
