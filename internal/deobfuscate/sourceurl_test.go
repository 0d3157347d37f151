package deobfuscate

import (
	"regexp"
	"testing"
)

func TestUnpackSourceURL(t *testing.T) {
	tests := []struct {
		name     string
		pattern  *regexp.Regexp
		input    string
		expected string
	}{
		{
			name:    "atob",
			pattern: SourceURLWindowAtob,
			input: `
            var player = new Clappr.Player(
            player.attachTo(playerElement);
            player.load({source: window.atob('aHR0cHM6Ly9leGFtcGxlLmNvbQ=='), mimeType: 'application/vnd.apple.mpegurl'});
            `,
			expected: `
            var player = new Clappr.Player(
            player.attachTo(playerElement);
            player.load({source: 'https://example.com', mimeType: 'application/vnd.apple.mpegurl'});
            `,
		},
		{
			name:    "atob2",
			pattern: SourceURLWindowAtob,
			input: `
            var player = new Clappr.Player(
            player.attachTo(playerElement);
            player.load({source: window.atob("aHR0cHM6Ly9leGFtcGxlLmNvbQ=="), mimeType: "application/vnd.apple.mpegurl"});
            `,
			expected: `
            var player = new Clappr.Player(
            player.attachTo(playerElement);
            player.load({source: "https://example.com", mimeType: "application/vnd.apple.mpegurl"});
            `,
		},
		{
			name:    "atob3",
			pattern: SourceURLVarAtob,
			input: `
            var xurl=atob('aHR0cHM6Ly9leGFtcGxlLmNvbQ==');
            player=new Clappr.Player
            `,
			expected: `
            var xurl='https://example.com';
            player=new Clappr.Player
            `,
		},
		{
			name:    "atob_fail",
			pattern: SourceURLVarAtob,
			input: `
            var xurl=atob('xxx=');
            player=new Clappr.Player
            `,
			expected: `
            var xurl='INVALID unpack_source_url';
            player=new Clappr.Player
            `,
		},
		{
			name:    "atob4",
			pattern: SourceURLAtob,
			input: `
            var player = new Clappr.Player({
            source: atob('aHR0cHM6Ly9leGFtcGxlLmNvbQ=='),
            `,
			expected: `
            var player = new Clappr.Player({
            source: 'https://example.com',
            `,
		},
		{
			name:     "every occurrence",
			pattern:  SourceURLAtob,
			input:    "a={source: atob('aHR0cHM6Ly9hLmNvbQ==')};b={source:atob(\"aHR0cHM6Ly9iLmNvbQ==\")}",
			expected: "a={source: 'https://a.com'};b={source:\"https://b.com\"}",
		},
		{
			name:     "not utf-8",
			pattern:  SourceURLAtob,
			input:    "source: atob('/w==')",
			expected: "source: 'INVALID unpack_source_url'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UnpackSourceURL(tt.input, tt.pattern); got != tt.expected {
				t.Errorf("\nExpected: %q\nGot:      %q", tt.expected, got)
			}
		})
	}
}

func TestUnpackSourceURLs(t *testing.T) {
	input := "var u=atob('aHR0cHM6Ly9leGFtcGxlLmNvbQ==');"
	expected := "var u='https://example.com';"
	if got := UnpackSourceURLs(input); got != expected {
		t.Errorf("\nExpected: %q\nGot:      %q", expected, got)
	}

	plain := "player.load({source: src})"
	if got := UnpackSourceURLs(plain); got != plain {
		t.Errorf("unexpected rewrite: %q", got)
	}
}
