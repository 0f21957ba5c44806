package validation

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"movvify/internal/models"

	"golang.org/x/net/publicsuffix"
)

var (
	// ErrInvalidURL is returned for missing, malformed or unsupported URLs.
	ErrInvalidURL = errors.New("please enter a valid YouTube URL")
	// ErrNotPlaylist is returned when a playlist URL carries no list parameter.
	ErrNotPlaylist = errors.New("please enter a valid playlist URL")
)

// SupportedHosts are the registrable domains (eTLD+1) downloads are accepted from.
var SupportedHosts = []string{"youtube.com", "youtu.be"}

// ValidateVideoURL checks the URL references a supported video host.
//
// A missing scheme is treated as https.
func ValidateVideoURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("%w: no URL entered", ErrInvalidURL)
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}

	host := strings.ToLower(u.Hostname())
	if host == "" {
		return nil, fmt.Errorf("%w: no host in %q", ErrInvalidURL, raw)
	}

	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if !slices.Contains(SupportedHosts, domain) {
		return nil, fmt.Errorf("%w: host %q is not supported", ErrInvalidURL, host)
	}
	return u, nil
}

// ValidatePlaylistURL checks the URL is a supported URL carrying a playlist marker.
func ValidatePlaylistURL(raw string) (*url.URL, error) {
	u, err := ValidateVideoURL(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotPlaylist, err)
	}
	if u.Query().Get("list") == "" {
		return nil, fmt.Errorf("%w: no list parameter in %q", ErrNotPlaylist, raw)
	}
	return u, nil
}

// ValidateDownloadRequest validates raw user input into a DownloadRequest.
func ValidateDownloadRequest(rawURL, quality, title string) (models.DownloadRequest, error) {
	u, err := ValidateVideoURL(rawURL)
	if err != nil {
		return models.DownloadRequest{}, err
	}
	return models.DownloadRequest{
		URL:       u.String(),
		Quality:   models.ParseQuality(quality),
		TitleHint: strings.TrimSpace(title),
	}, nil
}
