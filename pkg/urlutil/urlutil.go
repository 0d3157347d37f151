// Package urlutil repairs and resolves the URL fragments found in scraped pages.
package urlutil

import (
	"net/url"
	"strings"
)

// RepairURL turns a URL fragment taken from a page into a complete URL.
//
// JS-escaped slashes and the &#58; entity are undone, a fully percent-encoded
// URL is decoded once, protocol-relative URLs get the page scheme and
// root-relative paths get the scheme and host of streamBase (or pageURL when
// streamBase is empty). Anything else is returned as-is.
func RepairURL(raw, pageURL, streamBase string) string {
	u := strings.ReplaceAll(raw, `\/`, "/")
	u = strings.ReplaceAll(u, "&#58;", ":")

	if !strings.Contains(u, "://") {
		if dec, err := url.PathUnescape(u); err == nil && strings.Contains(dec, "://") {
			u = dec
		}
	}

	switch {
	case strings.HasPrefix(u, "//"):
		scheme := "https"
		if p, err := url.Parse(pageURL); err == nil && p.Scheme != "" {
			scheme = p.Scheme
		}
		return scheme + ":" + u
	case strings.HasPrefix(u, "/"):
		base := pageURL
		if streamBase != "" {
			base = streamBase
		}
		if sh := SchemeHost(base); sh != "" {
			return sh + u
		}
		return u
	}
	return u
}

// SchemeHost extracts scheme://host from a URL. It returns "" when the URL
// has no scheme or host.
func SchemeHost(urlStr string) string {
	parsed, err := url.Parse(urlStr)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return ""
	}
	return parsed.Scheme + "://" + parsed.Host
}

// Host returns the lower-cased host of a URL, without port.
func Host(urlStr string) string {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return ""
	}
	return strings.ToLower(parsed.Hostname())
}

// HostMatches reports whether host is netloc or one of its subdomains. A
// netloc carrying a port is compared against hostPort instead.
func HostMatches(host, hostPort, netloc string) bool {
	netloc = strings.ToLower(netloc)
	if strings.Contains(netloc, ":") {
		return strings.ToLower(hostPort) == netloc
	}
	host = strings.ToLower(host)
	return host == netloc || strings.HasSuffix(host, "."+netloc)
}

// ResolveURL resolves ref against base. Absolute references are returned
// unchanged so their encoding is preserved.
func ResolveURL(ref, base string) string {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}
