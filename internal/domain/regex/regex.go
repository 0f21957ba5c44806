// Package regex compiles and caches various regex expressions.
package regex

import (
	"regexp"
	"sync"
)

var (
	progressOnce, extraSpacesOnce, invalidCharsOnce sync.Once

	progress     *regexp.Regexp
	extraSpaces  *regexp.Regexp
	invalidChars *regexp.Regexp
)

// ProgressCompile compiles regex for yt-dlp download percentage lines.
func ProgressCompile() *regexp.Regexp {
	progressOnce.Do(func() {
		progress = regexp.MustCompile(`\[download\]\s+(\d+(?:\.\d+)?)%`)
	})
	return progress
}

// ExtraSpacesCompile compiles regex for extra spaces.
func ExtraSpacesCompile() *regexp.Regexp {
	extraSpacesOnce.Do(func() {
		extraSpaces = regexp.MustCompile(`\s+`)
	})
	return extraSpaces
}

// InvalidCharsCompile compiles regex for characters illegal in filenames.
func InvalidCharsCompile() *regexp.Regexp {
	invalidCharsOnce.Do(func() {
		invalidChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1F\x7F]`)
	})
	return invalidChars
}
