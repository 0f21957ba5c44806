package progress

import (
	"errors"
	"reflect"
	"sync"
	"testing"

	"movvify/internal/command/execute"
)

func TestParsePercent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in     string
		want   float64
		wantOK bool
	}{
		{"[download]  42.5% of 10.00MiB", 42.5, true},
		{"[download]   3.4% of   64.00MiB at    1.23MiB/s ETA 00:50", 3.4, true},
		{"[download] 100% of   64.00MiB in 00:01", 100, true},
		{"[download] Destination: movvify_video.f137.mp4", 0, false},
		{"[youtube] Extracting URL: https://youtu.be/abc", 0, false},
		{"42.5%", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParsePercent(tt.in)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("ParsePercent(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestPayloadRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ev      Event
		payload string
	}{
		{Percent(42.5), "42.5"},
		{Percent(100), "100"},
		{Done("movvify_a (1).mp4"), "done:movvify_a (1).mp4"},
		{Failed(), "error"},
		{RateLimited(), "error:rate_limit"},
	}

	for _, tt := range tests {
		if got := tt.ev.Payload(); got != tt.payload {
			t.Errorf("Payload() = %q, want %q", got, tt.payload)
		}
		back, err := ParsePayload(tt.payload)
		if err != nil {
			t.Fatalf("ParsePayload(%q) error: %v", tt.payload, err)
		}
		if back != tt.ev {
			t.Errorf("ParsePayload(%q) = %+v, want %+v", tt.payload, back, tt.ev)
		}
	}

	if Percent(10).String() != "data: 10\n\n" {
		t.Fatalf("SSE framing = %q", Percent(10).String())
	}
	if _, err := ParsePayload("garbage"); !errors.Is(err, ErrBadPayload) {
		t.Fatalf("ParsePayload(garbage) = %v, want ErrBadPayload", err)
	}
}

// fakeSource replays scripted chunks, then exits with waitErr.
type fakeSource struct {
	ch      chan execute.Chunk
	waitErr error

	mu     sync.Mutex
	killed bool
}

func newFakeSource(chunks []execute.Chunk, waitErr error) *fakeSource {
	ch := make(chan execute.Chunk, len(chunks))
	for _, c := range chunks {
		ch <- c
	}
	close(ch)
	return &fakeSource{ch: ch, waitErr: waitErr}
}

func (f *fakeSource) Chunks() <-chan execute.Chunk { return f.ch }
func (f *fakeSource) Wait() error                  { return f.waitErr }
func (f *fakeSource) Kill() {
	f.mu.Lock()
	f.killed = true
	f.mu.Unlock()
}

func out(s string) execute.Chunk  { return execute.Chunk{Stream: execute.Stdout, Text: s} }
func errc(s string) execute.Chunk { return execute.Chunk{Stream: execute.Stderr, Text: s} }

// recorder collects emitted events.
type recorder struct{ events []Event }

func (r *recorder) emit(e Event) error {
	r.events = append(r.events, e)
	return nil
}

func TestRelay_Success(t *testing.T) {
	t.Parallel()

	src := newFakeSource([]execute.Chunk{
		out("[youtube] Extracting URL"),
		out("[download]  10.0% of 5MiB"),
		errc("[download]  55.0% of 5MiB"),
		out("[download]  99.9% of 5MiB"),
	}, nil)

	var rec recorder
	term, err := Relay(src, "movvify_song.mp4", rec.emit)
	if err != nil {
		t.Fatalf("Relay() unexpected error: %v", err)
	}

	want := []Event{Percent(10), Percent(55), Percent(99.9), Percent(100), Done("movvify_song.mp4")}
	if !reflect.DeepEqual(rec.events, want) {
		t.Fatalf("events = %+v, want %+v", rec.events, want)
	}
	if term != Done("movvify_song.mp4") {
		t.Fatalf("terminal = %+v", term)
	}
}

func TestRelay_BotDetection(t *testing.T) {
	t.Parallel()

	src := newFakeSource([]execute.Chunk{
		out("[download]  5.0% of 5MiB"),
		errc("ERROR: [youtube] abc: Sign in to confirm you're not a bot"),
		out("[download]  50.0% of 5MiB"),
		out("[download]  90.0% of 5MiB"),
	}, errors.New("exit status 1"))

	var rec recorder
	term, err := Relay(src, "movvify_x.mp4", rec.emit)
	if err != nil {
		t.Fatalf("Relay() unexpected error: %v", err)
	}

	want := []Event{Percent(5), RateLimited()}
	if !reflect.DeepEqual(rec.events, want) {
		t.Fatalf("events = %+v, want %+v", rec.events, want)
	}
	if term.Kind != KindRateLimited {
		t.Fatalf("terminal = %+v", term)
	}
	if !src.killed {
		t.Fatalf("process not killed after bot detection")
	}
}

func TestRelay_Failure(t *testing.T) {
	t.Parallel()

	src := newFakeSource([]execute.Chunk{
		out("[download]  20.0% of 5MiB"),
		errc("ERROR: unable to download video data: HTTP Error 403"),
	}, errors.New("exit status 1"))

	var rec recorder
	term, _ := Relay(src, "movvify_x.mp4", rec.emit)

	want := []Event{Percent(20), Failed()}
	if !reflect.DeepEqual(rec.events, want) {
		t.Fatalf("events = %+v, want %+v", rec.events, want)
	}
	if term.Kind != KindError {
		t.Fatalf("terminal = %+v", term)
	}
}

func TestRelay_ClientGone(t *testing.T) {
	t.Parallel()

	src := newFakeSource([]execute.Chunk{
		out("[download]  20.0% of 5MiB"),
		out("[download]  40.0% of 5MiB"),
	}, nil)

	gone := errors.New("client disconnected")
	var calls int
	_, err := Relay(src, "movvify_x.mp4", func(Event) error {
		calls++
		return gone
	})

	if !errors.Is(err, gone) {
		t.Fatalf("Relay() error = %v, want client error", err)
	}
	if calls != 1 {
		t.Fatalf("emit called %d times after client left, want 1", calls)
	}
	if !src.killed {
		t.Fatalf("process not killed after client left")
	}
}
