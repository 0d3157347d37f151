package deobfuscate

import (
	"regexp"
	"strconv"
	"strings"
)

const packerHead = `eval\s*\(\s*function\s*\(\s*p\s*,\s*a\s*,\s*c\s*,\s*k\s*,\s*e\s*,\s*(?:r|d)`

var (
	packerDetectRe = regexp.MustCompile(packerHead)

	// Matches one complete packer call, from the eval head up to the closing
	// parentheses after the split('|') symbol table.
	packerCallRe = regexp.MustCompile(`(?s)` + packerHead +
		`\s*\).*?\}\s*\(\s*'(.*?)'\s*,\s*(\d+)\s*,\s*(\d+)\s*,\s*'(.*?)'\s*\.split\(\s*'\|'\s*\)` +
		`(?:\s*,\s*[^,()]*\s*,\s*\{\s*\}\s*)?\s*\)\s*\)`)

	payloadUnescaper = strings.NewReplacer(`\\`, `\`, `\'`, `'`)
)

// PackedPayload is the argument list of one packer call.
type PackedPayload struct {
	Payload string
	Radix   int
	Count   int
	Symbols []string
}

// Packer decodes the eval(function(p,a,c,k,e,r) family of JS packers.
type Packer struct{}

// Detect reports whether text contains a packer head.
func (Packer) Detect(text string) bool {
	return packerDetectRe.MatchString(text)
}

// Parse extracts the payload, radix, count and symbol table of the first
// packer call in text.
func (Packer) Parse(text string) (*PackedPayload, error) {
	calls := findCalls(text)
	if len(calls) == 0 {
		return nil, newUnpackingError("no packer call found")
	}
	return callPayload(text, calls[0])
}

// Unpack decodes the first packer call found in text.
func (p Packer) Unpack(text string) (string, error) {
	pp, err := p.Parse(text)
	if err != nil {
		return "", err
	}
	return Substitute(pp.Payload, pp.Radix, pp.Symbols), nil
}

func parseCall(payload, radix, count, symtab string) (*PackedPayload, error) {
	r, err := strconv.Atoi(radix)
	if err != nil {
		return nil, wrapUnpackingError("bad radix", err)
	}
	c, err := strconv.Atoi(count)
	if err != nil {
		return nil, wrapUnpackingError("bad symbol count", err)
	}

	symbols := strings.Split(symtab, "|")
	if len(symbols) != c {
		return nil, newUnpackingError("symbol table has " + strconv.Itoa(len(symbols)) +
			" entries, expected " + strconv.Itoa(c))
	}

	return &PackedPayload{
		Payload: payloadUnescaper.Replace(payload),
		Radix:   r,
		Count:   c,
		Symbols: symbols,
	}, nil
}

// Substitute replaces every whole-word occurrence of each index, encoded in
// radix, with the matching symbol. Indices are walked from the highest down so
// a longer token is never shadowed by a shorter one. Empty symbols keep the
// token as-is.
func Substitute(payload string, radix int, symbols []string) string {
	for i := len(symbols) - 1; i >= 0; i-- {
		if symbols[i] == "" {
			continue
		}
		payload = replaceWord(payload, EncodeBaseN(i, radix), symbols[i])
	}
	return payload
}

// EncodeBaseN encodes num with the 0-9a-zA-Z alphabet. Bases outside 2..62
// fall back to decimal.
func EncodeBaseN(num int, base int) string {
	const table = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	if base < 2 || base > len(table) {
		return strconv.Itoa(num)
	}
	if num == 0 {
		return string(table[0])
	}

	var res []byte
	for n := num; n > 0; n /= base {
		res = append([]byte{table[n%base]}, res...)
	}
	return string(res)
}

// UnpackPacker replaces every packer call in document by its decoded text.
// Calls that fail to decode are left untouched.
func UnpackPacker(document string) string {
	calls := findCalls(document)
	if len(calls) == 0 {
		return document
	}

	var b strings.Builder
	last := 0
	for _, loc := range calls {
		pp, err := callPayload(document, loc)
		if err != nil {
			continue
		}
		b.WriteString(document[last:loc[0]])
		b.WriteString(Substitute(pp.Payload, pp.Radix, pp.Symbols))
		last = loc[1]
	}
	b.WriteString(document[last:])
	return b.String()
}

// findCalls returns the submatch indices of every complete packer call in
// text. A call ends before the next packer head, so an unterminated head
// never spans the text up to a later call.
func findCalls(text string) [][]int {
	heads := packerDetectRe.FindAllStringIndex(text, -1)

	var calls [][]int
	for i, h := range heads {
		end := len(text)
		if i+1 < len(heads) {
			end = heads[i+1][0]
		}
		loc := packerCallRe.FindStringSubmatchIndex(text[h[0]:end])
		if loc == nil || loc[0] != 0 {
			continue
		}
		for j := range loc {
			if loc[j] >= 0 {
				loc[j] += h[0]
			}
		}
		calls = append(calls, loc)
	}
	return calls
}

func callPayload(text string, loc []int) (*PackedPayload, error) {
	return parseCall(text[loc[2]:loc[3]], text[loc[4]:loc[5]], text[loc[6]:loc[7]], text[loc[8]:loc[9]])
}

func replaceWord(s, word, repl string) string {
	if word == "" || !strings.Contains(s, word) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for {
		i := strings.Index(s, word)
		if i < 0 {
			b.WriteString(s)
			return b.String()
		}
		end := i + len(word)
		if (i > 0 && isWordByte(s[i-1])) || (end < len(s) && isWordByte(s[end])) {
			b.WriteString(s[:i+1])
			s = s[i+1:]
			continue
		}
		b.WriteString(s[:i])
		b.WriteString(repl)
		s = s[end:]
	}
}

func isWordByte(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}
