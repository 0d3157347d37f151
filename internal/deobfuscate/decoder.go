package deobfuscate

import "log/slog"

// DefaultMaxRounds bounds how often the passes are re-applied to a page.
const DefaultMaxRounds = 5

// Pass is a single text transformation applied while decoding a page.
type Pass interface {
	Name() string
	Apply(text string) (string, error)
}

// PassFunc adapts a plain function to a Pass.
type PassFunc struct {
	PassName string
	Fn       func(string) string
}

func (p PassFunc) Name() string { return p.PassName }

func (p PassFunc) Apply(text string) (string, error) { return p.Fn(text), nil }

type packerPass struct {
	packer Packer
}

func (packerPass) Name() string { return "packer" }

func (p packerPass) Apply(text string) (string, error) {
	if !p.packer.Detect(text) {
		return text, nil
	}
	out := UnpackPacker(text)
	if out == text {
		// report why the detected call did not decode
		if _, err := p.packer.Parse(text); err != nil {
			return text, err
		}
	}
	return out, nil
}

// DefaultPasses returns the packer, base64 source URL and unescape passes in
// the order they are applied.
func DefaultPasses() []Pass {
	return []Pass{
		packerPass{},
		PassFunc{PassName: "source-url", Fn: UnpackSourceURLs},
		PassFunc{PassName: "unescape", Fn: UnpackUnescape},
	}
}

// Decoder runs the passes over a page until the text stops changing.
type Decoder struct {
	passes    []Pass
	maxRounds int
	log       *slog.Logger
}

// NewDecoder returns a Decoder with the default passes. maxRounds <= 0 uses
// DefaultMaxRounds.
func NewDecoder(maxRounds int, log *slog.Logger) *Decoder {
	if maxRounds <= 0 {
		maxRounds = DefaultMaxRounds
	}
	if log == nil {
		log = slog.Default()
	}
	return &Decoder{
		passes:    DefaultPasses(),
		maxRounds: maxRounds,
		log:       log,
	}
}

// Decode returns the decoded text and the number of rounds that changed it.
// A failing pass is skipped for that round.
func (d *Decoder) Decode(text string) (string, int) {
	rounds := 0
	for rounds < d.maxRounds {
		changed := false
		for _, p := range d.passes {
			out, err := p.Apply(text)
			if err != nil {
				d.log.Debug("Decode pass failed", "pass", p.Name(), "error", err)
				continue
			}
			if out != text {
				d.log.Debug("Decode pass applied", "pass", p.Name(), "round", rounds+1)
				text = out
				changed = true
			}
		}
		if !changed {
			break
		}
		rounds++
	}
	return text, rounds
}
