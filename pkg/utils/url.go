package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strings"
)

// HashURL creates a SHA256 hash of a URL string, used for consistent, safe
// Redis keys.
func HashURL(rawURL string) string {
	h := sha256.New()
	h.Write([]byte(rawURL))
	return hex.EncodeToString(h.Sum(nil))
}

// AbsoluteURL resolves an href found on a page against the category's base
// URL. Already-absolute hrefs pass through unchanged; unparseable input
// falls back to plain concatenation so a mangled link is still traceable.
func AbsoluteURL(base, href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return base + href
	}
	ref, err := url.Parse(href)
	if err != nil {
		if !strings.HasPrefix(href, "/") {
			return base + "/" + href
		}
		return base + href
	}
	return baseURL.ResolveReference(ref).String()
}
