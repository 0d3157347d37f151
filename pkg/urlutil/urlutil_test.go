package urlutil

import "testing"

func TestRepairURL(t *testing.T) {
	const pageURL = "https://example.com/test/index.html"

	tests := []struct {
		name       string
		raw        string
		streamBase string
		expected   string
	}{
		{"escaped slashes", `\/\/example.com/true1`, "", "https://example.com/true1"},
		{"colon entity http", "http&#58;//example.com/true2", "", "http://example.com/true2"},
		{"colon entity https", "https&#58;//example.com/true3", "", "https://example.com/true3"},
		{"root relative", "/true4_no_base/123.html", "", "https://example.com/true4_no_base/123.html"},
		{"protocol relative", "//example.com/true5", "", "https://example.com/true5"},
		{"absolute", "https://example.com/true6", "", "https://example.com/true6"},
		{"root relative with stream base", "/true7_base/123.html", "http://new.example.com/", "http://new.example.com/true7_base/123.html"},
		{
			"percent encoded",
			"https%3A%2F%2Fabc.streamlock.net%2Flive%2Fsmil%3Alive.smil%2Fplaylist.m3u8",
			"",
			"https://abc.streamlock.net/live/smil:live.smil/playlist.m3u8",
		},
		{"escaped absolute", `https:\/\/live.example.com\/live\/playlist.m3u8`, "", "https://live.example.com/live/playlist.m3u8"},
		{"encoded query kept", "https://example.com/a.m3u8?t=a%2Fb", "", "https://example.com/a.m3u8?t=a%2Fb"},
		{"document relative untouched", "local.m3u8?local", "", "local.m3u8?local"},
		{"other scheme untouched", "javascript:false", "", "javascript:false"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RepairURL(tt.raw, pageURL, tt.streamBase)
			if got != tt.expected {
				t.Errorf("\nInput:    %q\nExpected: %q\nGot:      %q", tt.raw, tt.expected, got)
			}
		})
	}
}

func TestRepairURLIdempotent(t *testing.T) {
	inputs := []string{
		`\/\/example.com/a`,
		"/b/c.m3u8",
		"https%3A%2F%2Fexample.com%2Fd.mp4",
	}
	for _, in := range inputs {
		once := RepairURL(in, "http://page.example/", "")
		twice := RepairURL(once, "http://page.example/", "")
		if once != twice {
			t.Errorf("RepairURL not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestHostMatches(t *testing.T) {
	tests := []struct {
		host     string
		hostPort string
		netloc   string
		expected bool
	}{
		{"foo.bar", "foo.bar", "foo.bar", true},
		{"www.foo.bar", "www.foo.bar", "foo.bar", true},
		{"notfoo.bar", "notfoo.bar", "foo.bar", false},
		{"Example.COM", "Example.COM", "example.com", true},
		{"mocked", "mocked:8080", "mocked:8080", true},
		{"mocked", "mocked:9090", "mocked:8080", false},
	}

	for _, tt := range tests {
		if got := HostMatches(tt.host, tt.hostPort, tt.netloc); got != tt.expected {
			t.Errorf("HostMatches(%q, %q, %q) = %v, expected %v", tt.host, tt.hostPort, tt.netloc, got, tt.expected)
		}
	}
}

func TestResolveURL(t *testing.T) {
	tests := []struct {
		name     string
		ref      string
		base     string
		expected string
	}{
		{"absolute", "https://cdn.example.com/a.m3u8", "http://mocked/playlist/master.m3u8", "https://cdn.example.com/a.m3u8"},
		{"sibling", "chunks_640.m3u8", "http://mocked/playlist/master.m3u8", "http://mocked/playlist/chunks_640.m3u8"},
		{"root", "/hls/low.m3u8", "http://mocked/playlist/master.m3u8", "http://mocked/hls/low.m3u8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveURL(tt.ref, tt.base); got != tt.expected {
				t.Errorf("\nExpected: %q\nGot:      %q", tt.expected, got)
			}
		})
	}
}

func TestSchemeHost(t *testing.T) {
	if got := SchemeHost("https://example.com:8443/x?y"); got != "https://example.com:8443" {
		t.Errorf("unexpected scheme host %q", got)
	}
	if got := SchemeHost("/relative"); got != "" {
		t.Errorf("expected empty scheme host, got %q", got)
	}
}
