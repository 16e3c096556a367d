// Package classify decides whether the host's default input handling will
// already interpret raw typed text correctly (URL, domain-like string or
// known shortcut), in which case the selection controller must step aside.
package classify

import (
	"net/url"
	"strings"
	"unicode"

	"golang.org/x/net/publicsuffix"
)

// ShortcutChecker is the keyword classifier's synchronous contract.
type ShortcutChecker interface {
	IsShortcut(token string) bool
}

// Classifier applies the URL → domain → shortcut decision chain.
type Classifier struct {
	shortcuts ShortcutChecker
}

// New creates a classifier backed by the given shortcut checker.
func New(shortcuts ShortcutChecker) *Classifier {
	return &Classifier{shortcuts: shortcuts}
}

// HostWillHandle reports whether default handling already owns raw.
// First match wins: absolute URI, then registrable domain, then a leading
// known-shortcut token. Parse failures fall through to the next check.
func (c *Classifier) HostWillHandle(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false
	}

	if !containsSpace(raw) {
		if isAbsoluteURI(raw) {
			return true
		}
		if hasBaseDomain(raw) {
			return true
		}
	}

	token := raw
	if i := strings.IndexFunc(raw, unicode.IsSpace); i >= 0 {
		token = raw[:i]
	}
	return c.shortcuts != nil && c.shortcuts.IsShortcut(token)
}

func containsSpace(s string) bool {
	return strings.IndexFunc(s, unicode.IsSpace) >= 0
}

// isAbsoluteURI accepts only parses with an explicit scheme; url.Parse
// succeeds on nearly anything, so a bare word must not count.
func isAbsoluteURI(s string) bool {
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" {
		return false
	}
	return u.Host != "" || u.Opaque != ""
}

// hasBaseDomain extracts the host-like part of s and asks the public
// suffix list for a registrable base domain, so "site.com/page" counts
// while "weather" does not.
func hasBaseDomain(s string) bool {
	host := s
	if i := strings.IndexAny(host, "/?#"); i >= 0 {
		host = host[:i]
	}
	if i := strings.LastIndex(host, "@"); i >= 0 {
		host = host[i+1:]
	}
	if i := strings.IndexByte(host, ':'); i >= 0 {
		host = host[:i]
	}
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	if host == "" || !strings.Contains(host, ".") {
		return false
	}
	// The default "*" rule makes any unlisted TLD a public suffix, which
	// would classify "version-2.final" as navigable. Require a listed
	// suffix: ICANN-managed, or a private one with its own label depth
	// like "github.io".
	suffix, icann := publicsuffix.PublicSuffix(host)
	if !icann && !strings.Contains(suffix, ".") {
		return false
	}
	return len(host) > len(suffix)
}
