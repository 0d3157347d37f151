package resolver

import (
	"context"
	"fmt"
	"strings"

	"github.com/bugmaschine/generic/internal/extractors"
	"github.com/bugmaschine/generic/pkg/fetch"
	"github.com/bugmaschine/generic/pkg/urlutil"
	"github.com/grafov/m3u8"
)

// streamsFor turns one accepted playlist or media URL into streams. Only HLS
// manifests are fetched; mp3 and mp4 files are named from their URL.
func (r *Resolver) streamsFor(ctx context.Context, mediaURL, referer string) ([]Stream, error) {
	switch extractors.MediaExt(mediaURL) {
	case ".m3u8":
		return r.hlsStreams(ctx, mediaURL, referer)
	case ".mp3":
		return []Stream{{Type: StreamMP3, Name: "vod", URL: mediaURL}}, nil
	case ".mp4":
		name := "vod"
		if q, ok := extractors.ClassifyBitrate(mediaURL); ok {
			name = q.Name()
		}
		return []Stream{{Type: StreamMP4, Name: name, URL: mediaURL}}, nil
	default:
		return nil, nil
	}
}

func (r *Resolver) hlsStreams(ctx context.Context, manifestURL, referer string) ([]Stream, error) {
	body, err := r.fetch(fetch.WithReferer(ctx, referer), manifestURL)
	if err != nil {
		return nil, err
	}

	p, listType, err := m3u8.DecodeFrom(strings.NewReader(body), false)
	if err != nil {
		r.log.Debug("Manifest did not parse, keeping it as a live stream", "url", manifestURL, "error", err)
		return []Stream{{Type: StreamHLS, Name: "live", URL: manifestURL}}, nil
	}

	if listType == m3u8.MASTER {
		master := p.(*m3u8.MasterPlaylist)
		var streams []Stream
		for i, v := range master.Variants {
			if v == nil || v.URI == "" {
				continue
			}
			streams = append(streams, Stream{
				Type: StreamHLSVariant,
				Name: variantName(v, i),
				URL:  urlutil.ResolveURL(v.URI, manifestURL),
			})
		}
		if len(streams) > 0 {
			return streams, nil
		}
	}

	return []Stream{{Type: StreamHLS, Name: "live", URL: manifestURL}}, nil
}

func variantName(v *m3u8.Variant, i int) string {
	if v.Bandwidth > 0 {
		return fmt.Sprintf("%dk", v.Bandwidth/1000)
	}
	if v.Resolution != "" {
		if _, h, ok := strings.Cut(v.Resolution, "x"); ok {
			return h + "p"
		}
	}
	return fmt.Sprintf("variant%d", i)
}
