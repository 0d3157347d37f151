package extractors

import "regexp"

var (
	resolutionRe = regexp.MustCompile(`[._/\-](\d{1,4}p)(?:\.h26[45])?\.mp[34](?:$|\?)`)
	bitrateRe    = regexp.MustCompile(`[._/\-](\d{1,4})k?\.mp[34](?:$|\?)`)
)

// Quality is the resolution or bitrate token of an HTTP media file name.
type Quality struct {
	Resolution string // e.g. "360p"
	Bitrate    string // kbit/s, e.g. "2000"
}

// Name is the stream name derived from the quality, "360p" or "2000k".
func (q Quality) Name() string {
	if q.Resolution != "" {
		return q.Resolution
	}
	return q.Bitrate + "k"
}

// ClassifyBitrate reads the quality from a media URL such as video_2000.mp4,
// video.5500k.mp4 or 240p.h264.mp4. A resolution token wins over a bitrate.
func ClassifyBitrate(rawURL string) (Quality, bool) {
	if m := resolutionRe.FindStringSubmatch(rawURL); m != nil {
		return Quality{Resolution: m[1]}, true
	}
	if m := bitrateRe.FindStringSubmatch(rawURL); m != nil {
		return Quality{Bitrate: m[1]}, true
	}
	return Quality{}, false
}
