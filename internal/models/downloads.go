package models

import "strings"

// Quality is a requested height tier, or "best".
type Quality string

// QualityBest selects the broadest fallback chain.
const QualityBest Quality = "best"

// Heights are the recognized height tiers.
var Heights = []Quality{"144", "240", "360", "480", "720", "1080", "1440", "2160"}

// ParseQuality normalizes user input ("720", "720p", "BEST") into a Quality.
// Unrecognized input becomes QualityBest.
func ParseQuality(s string) Quality {
	s = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "p")
	for _, h := range Heights {
		if string(h) == s {
			return h
		}
	}
	return QualityBest
}

// IsHeight reports whether q is a numeric height tier.
func (q Quality) IsHeight() bool {
	for _, h := range Heights {
		if h == q {
			return true
		}
	}
	return false
}

// DownloadRequest is a validated request for a single media download.
type DownloadRequest struct {
	URL       string
	Quality   Quality
	TitleHint string
}

// OutputFile is the destination for a single download.
type OutputFile struct {
	Path     string
	Filename string
}
