package filter

import (
	"net/url"
	"testing"
)

func TestCompareURLPath(t *testing.T) {
	rules := []Rule{
		{"example.com", "/_livetvpreview/"},
		{"foo.bar", "/plugins"},
	}

	tests := []struct {
		input    string
		expected bool
	}{
		{"https://www.foo.bar/plugins/123.html", true},
		{"https://foo.bar/plugins", true},
		{"https://example.com/123.html", false},
		{"https://other.org/plugins/123.html", false},
		{"https://notfoo.bar/plugins", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			u, err := url.Parse(tt.input)
			if err != nil {
				t.Fatal(err)
			}
			if got := CompareURLPath(u, rules); got != tt.expected {
				t.Errorf("\nInput:    %s\nExpected: %v\nGot:      %v", tt.input, tt.expected, got)
			}
		})
	}
}

func TestMergePathList(t *testing.T) {
	rules := []Rule{
		{"example.com", "/_livetvpreview/"},
		{"foo.bar", "/plugins"},
	}
	merged := MergePathList(rules, []string{
		"example.com/plugins",
		"http://example.com/myplugins",
		"",
	})

	want := []Rule{
		{"example.com", "/plugins"},
		{"example.com", "/myplugins"},
	}
	for _, w := range want {
		found := false
		for _, r := range merged {
			if r == w {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected %+v in merged rules %+v", w, merged)
		}
	}
	if len(merged) != 4 {
		t.Errorf("expected 4 rules, got %d", len(merged))
	}
	if len(rules) != 2 || rules[0].PathPrefix != "/_livetvpreview/" {
		t.Errorf("input rules were modified: %+v", rules)
	}
}

func TestAdsPath(t *testing.T) {
	paths := []string{
		"/ad.php",
		"/ad20.php",
		"/ad5.php",
		"/ads.htm",
		"/ads.html",
		"/ads/ads300x250.php",
		"/ads468x60.htm",
		"/ads468x60.html",
		"/static/ads.htm",
		"/random/ads.htm",
		"/static/ads.html",
		"/static/ads/300x250_1217n.htm",
		"/static/ads/300x250_1217n.html/static/ads/468x60.htm",
		"/static/ads/468x60.html",
		"/static/ads468x60.htm",
		"/static/ads468x60.html",
	}
	for _, p := range paths {
		if !adsPathRe.MatchString(p) {
			t.Errorf("expected ads path match for %s", p)
		}
	}

	clean := []string{"/default/iframe", "/downloads.html", "/head.php", "/embed/ads-free.html", "/live/index.m3u8"}
	for _, p := range clean {
		if adsPathRe.MatchString(p) {
			t.Errorf("unexpected ads path match for %s", p)
		}
	}
}

func TestPolicyCheck(t *testing.T) {
	p := New(Options{
		BlacklistNetloc: []string{"blocked.example"},
		BlacklistPath:   []string{"example.org/private"},
	})

	tests := []struct {
		input  string
		reason Reason
	}{
		{"http://mocked/default/iframe", Accepted},
		{"https://example.com/live/index.m3u8", Accepted},
		{"about:blank", RejectScheme},
		{"javascript:false", RejectScheme},
		{"http://about:blank", RejectInvalid},
		{"https://javascript:false", RejectInvalid},
		{"https://127.0.0.1", RejectNetloc},
		{"https://adfox.ru", RejectNetloc},
		{"https://googletagmanager.com", RejectNetloc},
		{"https://cdn.blocked.example/x", RejectNetloc},
		{"http://expressen.se/_livetvpreview/123.html", RejectPath},
		{"https://facebook.com/plugins123", RejectPath},
		{"https://vesti.ru/native_widget.html", RejectPath},
		{"https://example.org/private/a.html", RejectPath},
		{"https://example.com/test.gif", RejectSuffix},
		{"https://example.com/test.JPG", RejectSuffix},
		{"https://example.com/test.vtt", RejectSuffix},
		{"https://example.com/test/chat.html", RejectSuffix},
		{"https://example.com/test/chat", RejectSuffix},
		{"https://example.com/1/ads.htm", RejectAds},
		{"https://example.com/static/ads/468x60.html", RejectAds},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			reason, ok := p.Check(tt.input)
			if reason != tt.reason || ok != (tt.reason == Accepted) {
				t.Errorf("\nInput:    %s\nExpected: %q\nGot:      %q (ok=%v)", tt.input, tt.reason, reason, ok)
			}
		})
	}
}

func TestPolicyWhitelist(t *testing.T) {
	p := New(Options{WhitelistNetloc: []string{"mocked"}})

	if !p.Accept("http://mocked/default/iframe") {
		t.Error("whitelisted host was rejected")
	}
	if reason, _ := p.Check("https://example.com/video.m3u8"); reason != RejectWhitelist {
		t.Errorf("expected whitelist rejection, got %q", reason)
	}
	if reason, _ := p.Check("https://127.0.0.1"); reason != RejectWhitelist {
		t.Errorf("expected whitelist rejection before netloc, got %q", reason)
	}
}
