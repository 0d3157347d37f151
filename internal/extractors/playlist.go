package extractors

import (
	"net/url"
	"path"
	"strings"

	"github.com/dlclark/regexp2"
)

// playlistRe finds .m3u8, .mp3 and .mp4 URLs inside quoted attribute or JS
// string values, including JSON-escaped quotes. File names that are only
// display text are skipped: title and alt attributes, "title", "label" and
// "alt" keys, and the content of title meta tags.
var playlistRe = func() *regexp2.Regexp {
	re := regexp2.MustCompile(
		`(?:["'=]|&quot;)(?<url>`+
			`(?<!title\s*=\s*["'])`+
			`(?<!["'](?:title|label|alt)["']\s*:\s*["'])`+
			`(?<!\balt\s*=\s*["'])`+
			`(?<!title["'][^<>]*?\bcontent\s*=\s*["'])`+
			`[^"'<>\s;{}]+\.(?:m3u8|mp3|mp4)(?:\?[^"'<>\s\\{}]+)?)`+
			`(?:\\?["']|\s|>|\\&quot;)`+
			`(?!\s*(?:property|name)\s*=\s*["'][\w:]*title["'])`,
		regexp2.Singleline)
	re.MatchTimeout = matchTimeout
	return re
}()

type Playlist struct{}

func init() {
	Register(&Playlist{})
}

func (p *Playlist) Name() string {
	return "playlist"
}

func (p *Playlist) Extract(doc Document) ([]Candidate, error) {
	urls, err := findAllNamed(playlistRe, doc.Text, "url")
	if err != nil {
		return nil, err
	}
	cands := make([]Candidate, 0, len(urls))
	for _, u := range urls {
		cands = append(cands, Candidate{Raw: u, Tag: playlistTag(u), Doc: doc})
	}
	return cands, nil
}

// Playlists returns the manifest and media file URLs found in doc.
func Playlists(doc Document) ([]Candidate, error) {
	return (&Playlist{}).Extract(doc)
}

// MediaExt returns ".m3u8", ".mp3" or ".mp4" for a media URL. The path
// extension wins; otherwise the first one mentioned anywhere in the URL is
// used, which covers manifests passed as query parameters.
func MediaExt(rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil {
		switch ext := strings.ToLower(path.Ext(u.Path)); ext {
		case ".m3u8", ".mp3", ".mp4":
			return ext
		}
	}

	lower := strings.ToLower(rawURL)
	best, bestIdx := "", -1
	for _, ext := range []string{".m3u8", ".mp3", ".mp4"} {
		if i := strings.Index(lower, ext); i >= 0 && (bestIdx < 0 || i < bestIdx) {
			best, bestIdx = ext, i
		}
	}
	return best
}

func playlistTag(rawURL string) Tag {
	if MediaExt(rawURL) == ".m3u8" {
		return TagPlaylist
	}
	return TagMedia
}
