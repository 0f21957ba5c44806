// Package auth decides which session cookies the external tool should use.
package auth

import (
	"os"
	"time"

	"movvify/internal/domain/consts"
	"movvify/internal/models"
	"movvify/internal/utils/logging"
)

// BrowserProbe reports how many usable cookies a browser holds for a domain.
type BrowserProbe interface {
	CountCookies(browser, domain string) (int, error)
}

// CookieResolver picks between a local cookie file and a live browser profile.
type CookieResolver struct {
	CookieFile string
	Browser    string
	MinSize    int64
	MaxAge     time.Duration

	// Probe, if set, is consulted on browser fallback for diagnostics only.
	Probe       BrowserProbe
	ProbeDomain string

	now func() time.Time
}

// NewCookieResolver returns a resolver with the default freshness window.
func NewCookieResolver(cookieFile, browser string) *CookieResolver {
	if browser == "" {
		browser = consts.DefaultBrowser
	}
	return &CookieResolver{
		CookieFile:  cookieFile,
		Browser:     browser,
		MinSize:     consts.CookieFileMinBytes,
		MaxAge:      consts.CookieFileMaxAge * time.Hour,
		ProbeDomain: "youtube.com",
		now:         time.Now,
	}
}

// Resolve returns the cookie arguments for one invocation. It never fails:
// a missing, small or stale cookie file falls back to the browser store.
func (r *CookieResolver) Resolve() models.CredentialArgs {
	if r.fileUsable() {
		logging.D(2, "Using cookie file %q", r.CookieFile)
		return models.CredentialArgs{Mode: models.CookieModeFile, Source: r.CookieFile}
	}

	logging.D(2, "Cookie file %q unusable, falling back to browser %q", r.CookieFile, r.Browser)
	r.probe()
	return models.CredentialArgs{Mode: models.CookieModeBrowser, Source: r.Browser}
}

// fileUsable checks the cookie file exists, is large enough and fresh enough.
func (r *CookieResolver) fileUsable() bool {
	if r.CookieFile == "" {
		return false
	}

	info, err := os.Stat(r.CookieFile)
	if err != nil {
		return false
	}
	if info.IsDir() || info.Size() <= r.MinSize {
		logging.D(3, "Cookie file %q too small (%d bytes)", r.CookieFile, info.Size())
		return false
	}

	now := time.Now
	if r.now != nil {
		now = r.now
	}
	if age := now().Sub(info.ModTime()); age >= r.MaxAge {
		logging.D(3, "Cookie file %q is stale (age %v)", r.CookieFile, age.Round(time.Minute))
		return false
	}
	return true
}

// probe logs a warning if the fallback browser holds no cookies for the video host.
func (r *CookieResolver) probe() {
	if r.Probe == nil {
		return
	}
	n, err := r.Probe.CountCookies(r.Browser, r.ProbeDomain)
	if err != nil {
		logging.W("Could not read %s cookie stores: %v", r.Browser, err)
		return
	}
	if n == 0 {
		logging.W("No %s cookies found in %s, requests will be unauthenticated", r.ProbeDomain, r.Browser)
		return
	}
	logging.D(1, "Found %d %s cookies in %s", n, r.ProbeDomain, r.Browser)
}
