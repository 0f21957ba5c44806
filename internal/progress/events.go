package progress

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Kind is the type of a progress event.
type Kind int

const (
	KindPercent Kind = iota
	KindDone
	KindError
	KindRateLimited
)

// Wire payloads.
const (
	payloadDone        = "done:"
	payloadError       = "error"
	payloadRateLimited = "error:rate_limit"
)

// ErrBadPayload is returned for payloads that are not a known event.
var ErrBadPayload = errors.New("unrecognized progress payload")

// Event is one message on the push-progress channel.
type Event struct {
	Kind     Kind
	Percent  float64
	Filename string
}

// Percent returns a percentage event.
func Percent(p float64) Event { return Event{Kind: KindPercent, Percent: p} }

// Done returns the success terminal event.
func Done(filename string) Event { return Event{Kind: KindDone, Filename: filename} }

// Failed returns the generic failure terminal event.
func Failed() Event { return Event{Kind: KindError} }

// RateLimited returns the upstream-block terminal event.
func RateLimited() Event { return Event{Kind: KindRateLimited} }

// Terminal reports whether the event ends the stream.
func (e Event) Terminal() bool {
	return e.Kind != KindPercent
}

// Payload encodes the event for the wire.
func (e Event) Payload() string {
	switch e.Kind {
	case KindDone:
		return payloadDone + e.Filename
	case KindError:
		return payloadError
	case KindRateLimited:
		return payloadRateLimited
	default:
		return strconv.FormatFloat(e.Percent, 'f', -1, 64)
	}
}

// String returns the event as a server-sent-events frame.
func (e Event) String() string {
	return "data: " + e.Payload() + "\n\n"
}

// ParsePayload decodes a wire payload back into an event.
func ParsePayload(s string) (Event, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == payloadRateLimited:
		return RateLimited(), nil
	case s == payloadError || strings.HasPrefix(s, payloadError+":"):
		return Failed(), nil
	case strings.HasPrefix(s, payloadDone):
		name := strings.TrimPrefix(s, payloadDone)
		if name == "" {
			return Event{}, fmt.Errorf("%w: done without filename", ErrBadPayload)
		}
		return Done(name), nil
	}

	pct, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Event{}, fmt.Errorf("%w: %q", ErrBadPayload, s)
	}
	return Percent(pct), nil
}
