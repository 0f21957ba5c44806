package progress

import (
	"movvify/internal/blocking"
	"movvify/internal/command/execute"
	"movvify/internal/utils/logging"
)

// Source is a running tool invocation producing ordered output chunks.
type Source interface {
	Chunks() <-chan execute.Chunk
	Wait() error
	Kill()
}

// Emitter delivers one event to the client. An error means the client is gone.
type Emitter func(Event) error

// Relay is the single coordinating loop for one download: it turns src output into
// percent events and finishes with exactly one terminal event.
//
// Bot detection on stderr emits RateLimited and kills the process, so no later
// output is relayed. A clean exit emits 100 then Done(filename); any other exit
// emits Failed. The returned event is the terminal event chosen; the returned
// error is non-nil only if emitting failed, in which case the process is killed.
func Relay(src Source, filename string, emit Emitter) (Event, error) {
	for c := range src.Chunks() {
		if c.Stream == execute.Stderr {
			logging.W("yt-dlp: %s", c.Text)

			if blocking.IsBotDetection(c.Text) {
				stop(src)
				ev := RateLimited()
				return ev, emit(ev)
			}
		}

		if pct, ok := ParsePercent(c.Text); ok {
			if err := emit(Percent(pct)); err != nil {
				stop(src)
				return Failed(), err
			}
		}
	}

	if err := src.Wait(); err != nil {
		logging.E("Download of %q failed: %v", filename, err)
		ev := Failed()
		return ev, emit(ev)
	}

	if err := emit(Percent(100)); err != nil {
		return Failed(), err
	}
	ev := Done(filename)
	return ev, emit(ev)
}

// stop kills the process and waits for it, discarding remaining output.
func stop(src Source) {
	src.Kill()
	for range src.Chunks() {
	}
	if err := src.Wait(); err != nil {
		logging.D(1, "Stopped process exited with: %v", err)
	}
}
