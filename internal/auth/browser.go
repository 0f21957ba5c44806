package auth

import (
	"fmt"
	"strings"

	"movvify/internal/utils/logging"

	"github.com/browserutils/kooky"
	_ "github.com/browserutils/kooky/browser/all"
)

// KookyProbe counts cookies in local browser stores using kooky.
type KookyProbe struct{}

// CountCookies counts valid cookies for domain across every store belonging to browser.
func (KookyProbe) CountCookies(browser, domain string) (int, error) {
	stores := kooky.FindAllCookieStores()

	var (
		count   int
		matched bool
	)
	for _, store := range stores {
		if !strings.EqualFold(store.Browser(), browser) {
			continue
		}
		matched = true

		cookies, err := store.ReadCookies(kooky.Valid, kooky.DomainHasSuffix(domain))
		if err != nil {
			logging.D(2, "Failed to read cookies from %s store %q: %v", store.Browser(), store.FilePath(), err)
			continue
		}
		count += len(cookies)
	}

	if !matched {
		return 0, fmt.Errorf("no cookie store found for browser %q", browser)
	}
	return count, nil
}
