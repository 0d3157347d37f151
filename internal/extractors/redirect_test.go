package extractors

import "testing"

func TestWindowLocation(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{
			input: `
                    <script type="text/javascript">
                    window.location.href = 'https://www.youtube.com/embed/aqz-KE-bpKQ';
                    </script>`,
			expected: "https://www.youtube.com/embed/aqz-KE-bpKQ",
		},
		{
			input: `
                    <script type="text/javascript">
                    window.location.href = "https://www.youtube.com/watch?v=aqz-KE-bpKQ";
                    </script>`,
			expected: "https://www.youtube.com/watch?v=aqz-KE-bpKQ",
		},
		{
			input:    `<script>window.location.href='http://mocked/default/iframe2'</script>`,
			expected: "http://mocked/default/iframe2",
		},
	}

	for _, tt := range tests {
		got, ok := WindowLocation(Document{Text: tt.input})
		if !ok || got != tt.expected {
			t.Errorf("\nInput:    %s\nExpected: %q\nGot:      %q (ok=%v)", tt.input, tt.expected, got, ok)
		}
	}

	if got, ok := WindowLocation(Document{Text: "<html><body><h1>ABC</h1><p>123</p></body></html>"}); ok {
		t.Errorf("unexpected redirect %q", got)
	}
}

func TestExtractAll(t *testing.T) {
	doc := Document{
		PageURL: "http://mocked/live",
		Text: `<iframe src="http://mocked/default/iframe"></iframe>
<iframe src="http://mocked/default/iframe"></iframe>
<video src="/media/clip_720p.mp4"></video>
<script>var hls = "https:\/\/cdn.example.com\/live\/index.m3u8";</script>`,
	}

	got, err := ExtractAll(doc)
	if err != nil {
		t.Fatal(err)
	}
	if n := len(got[TagIframe]); n != 1 {
		t.Errorf("expected 1 deduplicated iframe, got %d", n)
	}
	if n := len(got[TagMedia]); n != 1 {
		t.Fatalf("expected 1 media candidate, got %d", n)
	}
	if u := got[TagMedia][0].Normalize(); u != "http://mocked/media/clip_720p.mp4" {
		t.Errorf("unexpected media url %q", u)
	}
	if n := len(got[TagPlaylist]); n != 1 {
		t.Fatalf("expected 1 playlist candidate, got %d", n)
	}
	if u := got[TagPlaylist][0].Normalize(); u != "https://cdn.example.com/live/index.m3u8" {
		t.Errorf("unexpected playlist url %q", u)
	}
	if len(got[TagRedirect]) != 0 {
		t.Errorf("unexpected redirect %+v", got[TagRedirect])
	}
}

func TestMediaExt(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"http://mocked/playlist/index.m3u8", ".m3u8"},
		{"http://mocked/music.MP3", ".mp3"},
		{"http://mocked/video_2000.mp4?token=1", ".mp4"},
		{"https://example.com/livestream?url=/live/24.m3u8", ".m3u8"},
		{"https://example.com/page.html", ""},
	}
	for _, tt := range tests {
		if got := MediaExt(tt.input); got != tt.expected {
			t.Errorf("MediaExt(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}

func TestLookup(t *testing.T) {
	all, err := Lookup(nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != len(GetExtractors()) {
		t.Errorf("expected every registered extractor, got %d", len(all))
	}

	exts, err := Lookup([]string{"Playlist", " redirect"})
	if err != nil {
		t.Fatal(err)
	}
	if len(exts) != 2 || exts[0].Name() != "playlist" || exts[1].Name() != "redirect" {
		t.Errorf("unexpected extractors %v", exts)
	}

	if _, err := Lookup([]string{"voe"}); err == nil {
		t.Error("expected an error for an unknown extractor")
	}
}

func TestExtractWith(t *testing.T) {
	doc := Document{
		PageURL: "http://mocked/live",
		Text:    `<iframe src="http://mocked/frame"></iframe><video src="http://mocked/a.mp4"></video>`,
	}

	got, err := ExtractWith(doc, []Extractor{GetExtractorByName("iframe")})
	if err != nil {
		t.Fatal(err)
	}
	if len(got[TagIframe]) != 1 || len(got[TagMedia]) != 0 {
		t.Errorf("expected only iframe candidates, got %v", got)
	}
}
