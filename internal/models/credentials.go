package models

// CookieMode says where the external tool reads session cookies from.
type CookieMode int

const (
	CookieModeFile CookieMode = iota
	CookieModeBrowser
)

// CredentialArgs selects exactly one cookie source for an invocation.
type CredentialArgs struct {
	Mode CookieMode
	// Source is the cookie file path or the browser name, depending on Mode.
	Source string
}
