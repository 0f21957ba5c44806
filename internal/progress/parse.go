// Package progress turns external tool output into push-channel events.
package progress

import (
	"strconv"

	"movvify/internal/domain/regex"
)

// ParsePercent extracts a download percentage from one chunk of output.
//
// Values are clamped to [0,100]. They are not guaranteed to increase:
// the tool reprints progress on retries and for each merged stream.
func ParsePercent(text string) (float64, bool) {
	m := regex.ProgressCompile().FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}

	pct, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	switch {
	case pct < 0:
		pct = 0
	case pct > 100:
		pct = 100
	}
	return pct, true
}
