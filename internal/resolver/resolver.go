// Package resolver crawls a page and the frames it embeds until it finds
// playable stream URLs.
package resolver

import (
	"context"
	"log/slog"
	"time"

	"github.com/bugmaschine/generic/internal/deobfuscate"
	"github.com/bugmaschine/generic/internal/extractors"
	"github.com/bugmaschine/generic/internal/filter"
	"github.com/bugmaschine/generic/internal/metrics"
	"github.com/bugmaschine/generic/pkg/fetch"
	"github.com/bugmaschine/generic/pkg/urlutil"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultMaxDepth    = 8
	DefaultConcurrency = 4
)

// Fetcher returns the text of a page or manifest.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (string, error)
}

// FetcherFunc adapts a function to a Fetcher.
type FetcherFunc func(ctx context.Context, rawURL string) (string, error)

func (f FetcherFunc) Fetch(ctx context.Context, rawURL string) (string, error) {
	return f(ctx, rawURL)
}

// Sink receives every stream of a finished resolution once.
type Sink interface {
	AddStream(s Stream)
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(s Stream)

func (f SinkFunc) AddStream(s Stream) { f(s) }

// Config tunes a Resolver. Zero values select the defaults.
type Config struct {
	Policy       *filter.Policy
	MaxDepth     int
	Concurrency  int
	DecodeRounds int
	// Extractors run on every page, nil selects all registered ones.
	Extractors []extractors.Extractor
	Logger     *slog.Logger
	Metrics    *metrics.Recorder
	Sink       Sink
	// OnPage is called before each page fetch.
	OnPage func(pageURL string, depth int)
}

type Resolver struct {
	fetcher Fetcher
	cfg     Config
	decoder *deobfuscate.Decoder
	log     *slog.Logger
}

func New(fetcher Fetcher, cfg Config) *Resolver {
	if cfg.Policy == nil {
		cfg.Policy = filter.New(filter.Options{})
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultMaxDepth
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	if cfg.Extractors == nil {
		cfg.Extractors = extractors.GetExtractors()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	log := cfg.Logger.With("component", "resolver")

	return &Resolver{
		fetcher: fetcher,
		cfg:     cfg,
		decoder: deobfuscate.NewDecoder(cfg.DecodeRounds, log),
		log:     log,
	}
}

// task is one page waiting to be crawled.
type task struct {
	URL        string
	StreamBase string
	Referer    string
	Depth      int
}

// Resolve crawls pageURL and returns the streams found. Pages that fail to
// load end their own branch; only a failure of pageURL itself is returned.
func (r *Resolver) Resolve(ctx context.Context, pageURL string) (*Result, error) {
	st := newCrawlState()
	st.markVisited(pageURL)

	level := []task{{URL: pageURL}}
	for len(level) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		children := make([][]task, len(level))
		errs := make([]error, len(level))

		var g errgroup.Group
		g.SetLimit(r.cfg.Concurrency)
		for i, t := range level {
			g.Go(func() error {
				children[i], errs[i] = r.crawl(ctx, st, t)
				return nil
			})
		}
		g.Wait()

		if level[0].Depth == 0 && errs[0] != nil {
			return nil, errs[0]
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var next []task
		for _, c := range children {
			next = append(next, c...)
		}
		level = next
	}

	res := st.result()
	if res.Title == "" {
		res.Title = pageURL
	}
	if r.cfg.Sink != nil {
		for _, s := range res.Sorted() {
			r.cfg.Sink.AddStream(s)
		}
	}
	r.log.Info("Resolved", "url", pageURL, "streams", len(res.Streams))
	return res, nil
}

// crawl handles a single page and returns the pages to visit next.
func (r *Resolver) crawl(ctx context.Context, st *crawlState, t task) ([]task, error) {
	if r.cfg.OnPage != nil {
		r.cfg.OnPage(t.URL, t.Depth)
	}
	log := r.log.With("url", t.URL, "depth", t.Depth)

	text, err := r.fetch(fetch.WithReferer(ctx, t.Referer), t.URL)
	if err != nil {
		log.Warn("Failed to fetch page", "error", err)
		return nil, err
	}

	decoded, rounds := r.decoder.Decode(text)
	r.cfg.Metrics.DecodeRounds(rounds)

	doc := extractors.Document{Text: decoded, PageURL: t.URL, StreamBase: t.StreamBase}
	if t.Depth == 0 {
		st.setTitle(extractors.Title(doc))
	}

	cands, err := extractors.ExtractWith(doc, r.cfg.Extractors)
	if err != nil {
		// keep whatever was found before the failing extractor
		log.Warn("Extraction incomplete", "error", err)
	}

	var media []extractors.Candidate
	media = append(media, cands[extractors.TagPlaylist]...)
	media = append(media, cands[extractors.TagMedia]...)
	if n := r.resolveMedia(ctx, st, t, media); n > 0 {
		log.Debug("Resolved page", "candidates", n)
		return nil, nil
	}

	if t.Depth >= r.cfg.MaxDepth {
		log.Debug("Max depth reached")
		return nil, nil
	}

	if redirects := cands[extractors.TagRedirect]; len(redirects) > 0 {
		u := redirects[0].Normalize()
		if r.accept(log, u) && st.markVisited(u) {
			log.Debug("Following window.location", "target", u)
			return []task{{URL: u, StreamBase: t.StreamBase, Referer: t.URL, Depth: t.Depth + 1}}, nil
		}
	}

	var next []task
	pageHost := urlutil.Host(t.URL)
	for _, c := range cands[extractors.TagIframe] {
		u := c.Normalize()
		if !r.accept(log, u) || !st.markVisited(u) {
			continue
		}
		base := t.StreamBase
		if urlutil.Host(u) != pageHost {
			base = u
		}
		next = append(next, task{URL: u, StreamBase: base, Referer: t.URL, Depth: t.Depth + 1})
	}
	if len(next) > 0 {
		log.Debug("Following iframes", "count", len(next))
	}
	return next, nil
}

// resolveMedia classifies the playlist and media candidates that pass the
// filter and returns how many did. Candidates another branch already took
// still count, so a page sharing a manifest with its sibling is resolved too.
func (r *Resolver) resolveMedia(ctx context.Context, st *crawlState, t task, cands []extractors.Candidate) int {
	accepted := 0
	for _, c := range cands {
		u := c.Normalize()
		if !r.accept(r.log, u) {
			continue
		}
		accepted++
		if !st.markVisited(u) {
			continue
		}
		streams, err := r.streamsFor(ctx, u, t.URL)
		if err != nil {
			r.log.Warn("Skipping stream", "url", u, "error", err)
			continue
		}
		for _, s := range streams {
			st.addStream(s)
			r.cfg.Metrics.StreamFound(string(s.Type))
		}
	}
	return accepted
}

func (r *Resolver) accept(log *slog.Logger, u string) bool {
	reason, ok := r.cfg.Policy.Check(u)
	if !ok {
		log.Debug("Rejected candidate", "candidate", u, "reason", reason)
		r.cfg.Metrics.CandidateRejected(string(reason))
	}
	return ok
}

func (r *Resolver) fetch(ctx context.Context, u string) (string, error) {
	start := time.Now()
	text, err := r.fetcher.Fetch(ctx, u)
	r.cfg.Metrics.PageFetched(time.Since(start), err)
	if err != nil {
		return "", &PageUnreachableError{URL: u, Err: err}
	}
	return text, nil
}
