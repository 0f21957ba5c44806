// Package builder assembles argument lists for the external fetch tool.
//
// Every builder returns a discrete argument slice and terminates options with
// "--" before the target URL, so user content can never be read as a flag.
package builder

import (
	"movvify/internal/domain/command"
	"movvify/internal/models"
)

// CookieArgs returns the cookie source flag for the resolved credentials.
func CookieArgs(c models.CredentialArgs) []string {
	if c.Source == "" {
		return nil
	}
	switch c.Mode {
	case models.CookieModeFile:
		return []string{command.CookiePath, c.Source}
	default:
		return []string{command.CookiesFromBrowser, c.Source}
	}
}

// AntiDetectionArgs returns the fixed browser-like request options.
func AntiDetectionArgs() []string {
	return []string{
		command.UserAgent, command.DesktopUA,
		command.ExtractorArgs, command.PlayerClient,
		command.ThrottledRate, command.ThrottleCap,
	}
}

// baseArgs are the credential and anti-detection arguments every invocation carries.
func baseArgs(c models.CredentialArgs, capacity int) []string {
	args := make([]string, 0, capacity)
	args = append(args, CookieArgs(c)...)
	args = append(args, AntiDetectionArgs()...)
	return args
}
