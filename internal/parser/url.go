package parser

import (
	"net/url"
	"strings"
)

var skippedSchemes = []string{"javascript:", "mailto:", "tel:", "data:"}

// ResolveURL resolves href against base and returns an absolute http(s)
// URL without its fragment. Anchors and non-navigational schemes are
// rejected.
func ResolveURL(base, href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return "", false
	}
	lower := strings.ToLower(href)
	for _, scheme := range skippedSchemes {
		if strings.HasPrefix(lower, scheme) {
			return "", false
		}
	}

	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	if !ref.IsAbs() {
		b, err := url.Parse(base)
		if err != nil || !b.IsAbs() {
			return "", false
		}
		ref = b.ResolveReference(ref)
	}

	if ref.Scheme != "http" && ref.Scheme != "https" {
		return "", false
	}
	if ref.Host == "" {
		return "", false
	}
	ref.Host = strings.ToLower(ref.Host)
	ref.Fragment = ""
	ref.RawFragment = ""
	return ref.String(), true
}

// isPDFLink reports whether href points at a PDF, allowing a query string.
func isPDFLink(href string) bool {
	h := strings.ToLower(strings.TrimSpace(href))
	if i := strings.IndexAny(h, "#"); i >= 0 {
		h = h[:i]
	}
	return strings.HasSuffix(h, ".pdf") || strings.Contains(h, ".pdf?")
}
