// Package blocking recognizes upstream bot detection and remembers blocked hosts.
package blocking

import (
	"net/url"
	"strings"
	"sync"
	"time"

	"movvify/internal/utils/logging"

	"golang.org/x/net/publicsuffix"
)

// botPhrases are lowercase substrings the upstream site prints when it blocks automated traffic.
var botPhrases = []string{
	"sign in to confirm",
	"not a bot",
	"bot detection",
	"please sign in",
}

// IsBotDetection reports whether tool error output indicates an upstream bot block.
func IsBotDetection(stderr string) bool {
	if stderr == "" {
		return false
	}
	lower := strings.ToLower(stderr)
	for _, p := range botPhrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// Tracker remembers when each domain last blocked us. In-memory only.
type Tracker struct {
	mu       sync.RWMutex
	blocked  map[string]time.Time
	cooldown time.Duration
	now      func() time.Time
}

// NewTracker returns a tracker whose blocks expire after cooldown.
func NewTracker(cooldown time.Duration) *Tracker {
	return &Tracker{
		blocked:  make(map[string]time.Time),
		cooldown: cooldown,
		now:      time.Now,
	}
}

// Block records a bot-detection block for the URL's domain and returns the
// cooldown left. A block still in force keeps its original start, so repeated
// blocks count down to the same unlock time.
func (t *Tracker) Block(rawURL string) time.Duration {
	domain := domainOf(rawURL)
	now := t.now()

	t.mu.Lock()
	blockedAt, exists := t.blocked[domain]
	if !exists || !now.Before(blockedAt.Add(t.cooldown)) {
		blockedAt = now
		t.blocked[domain] = blockedAt
	}
	t.mu.Unlock()

	remaining := blockedAt.Add(t.cooldown).Sub(now)
	if blockedAt.Equal(now) {
		logging.W("Blocked by %q due to bot detection, cooling down for %v", domain, t.cooldown)
	} else {
		logging.W("Blocked again by %q, %v of cooldown left", domain, remaining)
	}
	return remaining
}

// IsBlocked reports whether the URL's domain is still cooling down after a block.
func (t *Tracker) IsBlocked(rawURL string) (isBlocked bool, blockedAt time.Time, remaining time.Duration) {
	domain := domainOf(rawURL)

	t.mu.RLock()
	blockedAt, exists := t.blocked[domain]
	t.mu.RUnlock()

	if !exists {
		return false, time.Time{}, 0
	}

	unlockTime := blockedAt.Add(t.cooldown)
	now := t.now()
	if !now.Before(unlockTime) {
		// Timeout expired, not blocked anymore.
		t.mu.Lock()
		if t.blocked[domain].Equal(blockedAt) {
			delete(t.blocked, domain)
		}
		t.mu.Unlock()
		return false, blockedAt, 0
	}
	return true, blockedAt, unlockTime.Sub(now)
}

// domainOf extracts the URL's host normalized to eTLD+1.
func domainOf(rawURL string) string {
	host := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Hostname() != "" {
		host = u.Hostname()
	}
	return normalizeDomain(host)
}

// normalizeDomain extracts the base domain (eTLD+1) for consistent blocking.
func normalizeDomain(domain string) string {
	domain = strings.ToLower(strings.TrimSpace(domain))
	if etld1, err := publicsuffix.EffectiveTLDPlusOne(domain); err == nil {
		return etld1
	}
	return domain
}
