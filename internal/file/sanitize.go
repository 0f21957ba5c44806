// Package file owns the lifecycle of download output files: naming, reservation,
// serving lookups and cleanup.
package file

import (
	"strings"
	"unicode/utf8"

	"movvify/internal/domain/consts"
	"movvify/internal/domain/regex"

	"golang.org/x/text/unicode/norm"
)

// SanitizeTitle makes a title safe for use in a filename. It never returns "".
func SanitizeTitle(title string) string {
	s := norm.NFKC.String(title)
	s = regex.InvalidCharsCompile().ReplaceAllString(s, "")
	s = regex.ExtraSpacesCompile().ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)

	if utf8.RuneCountInString(s) > consts.MaxTitleRunes {
		s = strings.TrimSpace(string([]rune(s)[:consts.MaxTitleRunes]))
	}
	if s == "" {
		return consts.DefaultTitle
	}
	return s
}
