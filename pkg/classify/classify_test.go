package classify

import "testing"

type staticShortcuts map[string]bool

func (s staticShortcuts) IsShortcut(token string) bool { return s[token] }

func TestHostWillHandle(t *testing.T) {
	shortcuts := staticShortcuts{"weather": true, "@ddg": true}
	c := New(shortcuts)

	cases := []struct {
		raw  string
		want bool
	}{
		// Absolute URIs.
		{"http://example.com", true},
		{"https://example.com/path?q=1", true},
		{"ftp://files.example.com", true},
		{"mailto:someone@example.com", true},
		{"about:blank", true},

		// Domain-like input without a scheme.
		{"example.com", true},
		{"example.com/page", true},
		{"www.example.co.uk", true},
		{"example.com:8080/path", true},
		{"user@example.com/inbox", true},
		{"Example.COM.", true},

		// Not domains.
		{"weather", true}, // known shortcut
		{"maps", false},   // not a shortcut
		{"localhost", false},
		{"version-2.final", false},
		{"cats", false},
		{"", false},
		{"   ", false},

		// Multi-word input: only a leading shortcut token qualifies.
		{"weather tomorrow", true},
		{"tomorrow weather", false},
		{"@ddg privacy search", true},
		{"cats and dogs", false},
		{"example.com is a site", false},
	}
	for _, tc := range cases {
		if got := c.HostWillHandle(tc.raw); got != tc.want {
			t.Errorf("HostWillHandle(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestHostWillHandleNilShortcuts(t *testing.T) {
	c := New(nil)
	if c.HostWillHandle("weather") {
		t.Error("answered true with no shortcut checker wired")
	}
	if !c.HostWillHandle("example.com") {
		t.Error("domain check must not depend on the shortcut checker")
	}
}

func TestIsAbsoluteURI(t *testing.T) {
	cases := []struct {
		raw  string
		want bool
	}{
		{"http://example.com", true},
		{"mailto:user@example.com", true},
		{"example.com", false},
		{"cats", false},
		{"//example.com", false}, // scheme-relative, no scheme
		{"http://", false},       // scheme with empty host
	}
	for _, tc := range cases {
		if got := isAbsoluteURI(tc.raw); got != tc.want {
			t.Errorf("isAbsoluteURI(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestHasBaseDomain(t *testing.T) {
	cases := []struct {
		raw  string
		want bool
	}{
		{"example.com", true},
		{"sub.example.com/page#frag", true},
		{"example.co.uk", true},
		{"user:pass@example.com", true},
		{"example.com:443", true},
		{"weather", false},
		{"a.b", false}, // "b" is not a public suffix
		{".", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := hasBaseDomain(tc.raw); got != tc.want {
			t.Errorf("hasBaseDomain(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}
