package logging

import "github.com/rs/zerolog"

// level is the current debug level (0-5). Debug messages above it are dropped.
var level int

func setLevel(l int) {
	switch {
	case l < 0:
		l = 0
	case l > 5:
		l = 5
	}
	level = l

	if l > 0 {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// D logs a debug message if l is within the configured debug level.
func D(l int, format string, args ...any) {
	mu.RLock()
	lvl := level
	mu.RUnlock()

	if l > lvl {
		return
	}
	lg := Logger()
	lg.Debug().Int("lvl", l).Msgf(format, args...)
}
