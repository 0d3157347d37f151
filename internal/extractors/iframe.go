package extractors

import (
	"time"

	"github.com/dlclark/regexp2"
)

const matchTimeout = 5 * time.Second

// A src value must start with a scheme (possibly written as "&#58;") or a
// slash. This drops empty, relative and template values.
const urlStart = `(?:[a-z][a-z0-9+.\-]*(?::|&#58;)|/)`

// iframeRe tolerates any attribute order, all three quoting styles and the
// '<ifr' + 'ame' split used to hide frames from naive scanners.
var iframeRe = func() *regexp2.Regexp {
	re := regexp2.MustCompile(
		`<ifr(?:["']\s*\+\s*["'])?ame\b[^<>]*?\ssrc\s*=\s*(?<q>["']?)\s*`+
			`(?<url>`+urlStart+`[^"'\s<>]+)\s*\k<q>`,
		regexp2.IgnoreCase|regexp2.Singleline)
	re.MatchTimeout = matchTimeout
	return re
}()

type Iframe struct{}

func init() {
	Register(&Iframe{})
}

func (i *Iframe) Name() string {
	return "iframe"
}

func (i *Iframe) Extract(doc Document) ([]Candidate, error) {
	urls, err := findAllNamed(iframeRe, doc.Text, "url")
	if err != nil {
		return nil, err
	}
	cands := make([]Candidate, 0, len(urls))
	for _, u := range urls {
		cands = append(cands, Candidate{Raw: u, Tag: TagIframe, Doc: doc})
	}
	return cands, nil
}

// Iframes returns the frame sources found in doc, in document order.
func Iframes(doc Document) ([]Candidate, error) {
	return (&Iframe{}).Extract(doc)
}

func findAllNamed(re *regexp2.Regexp, text, group string) ([]string, error) {
	var out []string
	m, err := re.FindStringMatch(text)
	for m != nil && err == nil {
		if g := m.GroupByName(group); g != nil && g.Length > 0 {
			out = append(out, g.String())
		}
		m, err = re.FindNextMatch(m)
	}
	return out, err
}
