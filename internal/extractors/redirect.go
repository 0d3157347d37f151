package extractors

import "regexp"

var windowLocationRe = regexp.MustCompile(`window\.location\.href\s*=\s*(?:'([^']+)'|"([^"]+)")\s*;?`)

// Redirect picks up a script driven window.location.href assignment.
type Redirect struct{}

func init() {
	Register(&Redirect{})
}

func (r *Redirect) Name() string {
	return "redirect"
}

func (r *Redirect) Extract(doc Document) ([]Candidate, error) {
	u, ok := WindowLocation(doc)
	if !ok {
		return nil, nil
	}
	return []Candidate{{Raw: u, Tag: TagRedirect, Doc: doc}}, nil
}

// WindowLocation returns the first window.location.href target in doc.
func WindowLocation(doc Document) (string, bool) {
	m := windowLocationRe.FindStringSubmatch(doc.Text)
	if m == nil {
		return "", false
	}
	if m[1] != "" {
		return m[1], true
	}
	return m[2], true
}
