// Package extractors finds frame, playlist and redirect URLs in page text.
package extractors

import (
	"fmt"
	"strings"

	"github.com/bugmaschine/generic/pkg/urlutil"
)

// Tag tells the resolver what a candidate URL points at.
type Tag int

const (
	TagIframe Tag = iota + 1
	TagPlaylist
	TagMedia
	TagRedirect
)

func (t Tag) String() string {
	switch t {
	case TagIframe:
		return "iframe"
	case TagPlaylist:
		return "playlist"
	case TagMedia:
		return "media"
	case TagRedirect:
		return "redirect"
	default:
		return fmt.Sprintf("Tag(%d)", int(t))
	}
}

// Document is the decoded text of one fetched page.
type Document struct {
	Text       string
	PageURL    string
	StreamBase string
}

// Candidate is a URL fragment found in a Document, before repair.
type Candidate struct {
	Raw string
	Tag Tag
	Doc Document
}

// Normalize returns the repaired absolute URL of the candidate.
func (c Candidate) Normalize() string {
	return urlutil.RepairURL(c.Raw, c.Doc.PageURL, c.Doc.StreamBase)
}

// Extractor finds candidates of one kind in a document.
type Extractor interface {
	Name() string
	Extract(doc Document) ([]Candidate, error)
}

var registry []Extractor

func Register(e Extractor) {
	registry = append(registry, e)
}

func GetExtractors() []Extractor {
	return registry
}

func GetExtractorByName(name string) Extractor {
	for _, e := range registry {
		if strings.EqualFold(e.Name(), name) {
			return e
		}
	}
	return nil
}

// Lookup returns the registered extractors with the given names, or all of
// them when names is empty.
func Lookup(names []string) ([]Extractor, error) {
	if len(names) == 0 {
		return GetExtractors(), nil
	}
	exts := make([]Extractor, 0, len(names))
	for _, name := range names {
		e := GetExtractorByName(strings.TrimSpace(name))
		if e == nil {
			return nil, fmt.Errorf("unknown extractor %q", name)
		}
		exts = append(exts, e)
	}
	return exts, nil
}

// ExtractAll runs every registered extractor over doc, see ExtractWith.
func ExtractAll(doc Document) (map[Tag][]Candidate, error) {
	return ExtractWith(doc, GetExtractors())
}

// ExtractWith runs exts over doc and groups the results by tag. Duplicate raw
// URLs within a tag are dropped, first one wins.
func ExtractWith(doc Document, exts []Extractor) (map[Tag][]Candidate, error) {
	out := make(map[Tag][]Candidate)
	seen := make(map[Tag]map[string]bool)
	for _, e := range exts {
		cands, err := e.Extract(doc)
		if err != nil {
			return out, fmt.Errorf("%s extractor: %w", e.Name(), err)
		}
		for _, c := range cands {
			if seen[c.Tag] == nil {
				seen[c.Tag] = make(map[string]bool)
			}
			if seen[c.Tag][c.Raw] {
				continue
			}
			seen[c.Tag][c.Raw] = true
			out[c.Tag] = append(out[c.Tag], c)
		}
	}
	return out, nil
}
