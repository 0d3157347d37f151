package resolver

import (
	"sort"
	"sync"
)

// StreamType is the kind of a resolved stream.
type StreamType string

const (
	StreamHLS        StreamType = "hls"
	StreamHLSVariant StreamType = "hlsvariant"
	StreamMP3        StreamType = "mp3"
	StreamMP4        StreamType = "mp4"
)

// Stream is one playable location found by the resolver.
type Stream struct {
	Type StreamType `json:"type"`
	Name string     `json:"name"`
	URL  string     `json:"url"`
}

// StreamKey identifies a stream within a result.
type StreamKey struct {
	Type StreamType
	Name string
}

func (s Stream) Key() StreamKey {
	return StreamKey{Type: s.Type, Name: s.Name}
}

// Result is what a resolution found.
type Result struct {
	Title   string
	Streams map[StreamKey]Stream
}

// Sorted returns the streams ordered by type, then name.
func (r *Result) Sorted() []Stream {
	out := make([]Stream, 0, len(r.Streams))
	for _, s := range r.Streams {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Type != out[j].Type {
			return out[i].Type < out[j].Type
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Names returns the stream names, sorted.
func (r *Result) Names() []string {
	names := make([]string, 0, len(r.Streams))
	for k := range r.Streams {
		names = append(names, k.Name)
	}
	sort.Strings(names)
	return names
}

// crawlState is shared by all branches of one Resolve call.
type crawlState struct {
	mu      sync.Mutex
	visited map[string]bool
	streams map[StreamKey]Stream
	title   string
}

func newCrawlState() *crawlState {
	return &crawlState{
		visited: make(map[string]bool),
		streams: make(map[StreamKey]Stream),
	}
}

// markVisited records u and reports whether it was new.
func (s *crawlState) markVisited(u string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.visited[u] {
		return false
	}
	s.visited[u] = true
	return true
}

func (s *crawlState) addStream(st Stream) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.streams[st.Key()] = st
}

func (s *crawlState) setTitle(t string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.title == "" {
		s.title = t
	}
}

func (s *crawlState) result() *Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	streams := make(map[StreamKey]Stream, len(s.streams))
	for k, v := range s.streams {
		streams[k] = v
	}
	return &Result{Title: s.title, Streams: streams}
}
