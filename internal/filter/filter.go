// Package filter decides which discovered URLs are worth following.
package filter

import (
	"net/url"
	"strings"

	"github.com/bugmaschine/generic/pkg/urlutil"
)

// Reason names the check that rejected a URL.
type Reason string

const (
	Accepted        Reason = ""
	RejectInvalid   Reason = "invalid"
	RejectScheme    Reason = "scheme"
	RejectWhitelist Reason = "whitelist"
	RejectNetloc    Reason = "netloc"
	RejectPath      Reason = "path"
	RejectSuffix    Reason = "suffix"
	RejectAds       Reason = "ads"
)

// Rule blacklists every path below PathPrefix on Netloc and its subdomains.
type Rule struct {
	Netloc     string
	PathPrefix string
}

// Options holds the user supplied additions to the builtin tables.
type Options struct {
	BlacklistNetloc []string
	BlacklistPath   []string
	WhitelistNetloc []string
}

// Policy is the compiled set of rules for one resolution. It is read-only
// after New and safe for concurrent use.
type Policy struct {
	netlocs   []string
	paths     []Rule
	suffixes  []string
	whitelist []string
}

// New builds a Policy from the builtin tables and the user options.
func New(opts Options) *Policy {
	netlocs := BuiltinNetlocs()
	for _, n := range opts.BlacklistNetloc {
		if n = strings.TrimSpace(n); n != "" {
			netlocs = append(netlocs, strings.ToLower(n))
		}
	}

	var whitelist []string
	for _, n := range opts.WhitelistNetloc {
		if n = strings.TrimSpace(n); n != "" {
			whitelist = append(whitelist, strings.ToLower(n))
		}
	}

	return &Policy{
		netlocs:   netlocs,
		paths:     MergePathList(BuiltinPaths(), opts.BlacklistPath),
		suffixes:  BuiltinSuffixes(),
		whitelist: whitelist,
	}
}

// MergePathList appends user rules given as "host/path" or
// "scheme://host/path" to rules.
func MergePathList(rules []Rule, user []string) []Rule {
	for _, entry := range user {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if !strings.Contains(entry, "://") {
			entry = "http://" + entry
		}
		u, err := url.Parse(entry)
		if err != nil || u.Host == "" {
			continue
		}
		rules = append(rules, Rule{Netloc: strings.ToLower(u.Host), PathPrefix: u.Path})
	}
	return rules
}

// CompareURLPath reports whether u falls under one of the path rules.
func CompareURLPath(u *url.URL, rules []Rule) bool {
	for _, r := range rules {
		if urlutil.HostMatches(u.Hostname(), u.Host, r.Netloc) && strings.HasPrefix(u.Path, r.PathPrefix) {
			return true
		}
	}
	return false
}

// Check returns Accepted and true when rawURL may be fetched, or the reason
// it was rejected.
func (p *Policy) Check(rawURL string) (Reason, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return RejectInvalid, false
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return RejectScheme, false
	}
	if u.Host == "" {
		return RejectInvalid, false
	}

	if len(p.whitelist) > 0 && !p.matchesAny(u, p.whitelist) {
		return RejectWhitelist, false
	}
	if p.matchesAny(u, p.netlocs) {
		return RejectNetloc, false
	}
	if CompareURLPath(u, p.paths) {
		return RejectPath, false
	}

	path := strings.ToLower(u.Path)
	for _, s := range p.suffixes {
		if strings.HasSuffix(path, s) {
			return RejectSuffix, false
		}
	}
	if adsPathRe.MatchString(path) {
		return RejectAds, false
	}

	return Accepted, true
}

// Accept is Check without the reason.
func (p *Policy) Accept(rawURL string) bool {
	_, ok := p.Check(rawURL)
	return ok
}

func (p *Policy) matchesAny(u *url.URL, netlocs []string) bool {
	for _, n := range netlocs {
		if urlutil.HostMatches(u.Hostname(), u.Host, n) {
			return true
		}
	}
	return false
}
