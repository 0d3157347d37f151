package deobfuscate

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

const maxUnescapePasses = 8

var unescapeRe = regexp.MustCompile(`(?s)(?:<script[^>]*>\s*)?(?:<!--\s*)?` +
	`document\.write\(\s*unescape\(\s*(?:"([^"]*)"|'([^']*)')\s*\)\s*\)\s*;?` +
	`(?:\s*//\s*-->)?(?:\s*</script>)?`)

// UnpackUnescape replaces document.write(unescape(...)) blocks, including a
// wrapping script tag and HTML comment, with the decoded string. Decoded text
// that itself contains such a block is decoded again.
func UnpackUnescape(text string) string {
	for i := 0; i < maxUnescapePasses; i++ {
		out := unescapeRe.ReplaceAllStringFunc(text, func(block string) string {
			m := unescapeRe.FindStringSubmatch(block)
			if m[1] != "" {
				return PercentDecode(m[1])
			}
			return PercentDecode(m[2])
		})
		if out == text {
			break
		}
		text = out
	}
	return text
}

// PercentDecode decodes %XX byte escapes and %uXXXX code units the way the
// JS unescape builtin does. Malformed escapes are kept verbatim.
func PercentDecode(s string) string {
	if !strings.Contains(s, "%") {
		return s
	}

	var (
		b   strings.Builder
		raw []byte
	)
	flush := func() {
		for len(raw) > 0 {
			r, size := utf8.DecodeRune(raw)
			if r == utf8.RuneError && size <= 1 {
				r = rune(raw[0])
				size = 1
			}
			b.WriteRune(r)
			raw = raw[size:]
		}
	}

	for i := 0; i < len(s); {
		if s[i] == '%' {
			if i+6 <= len(s) && (s[i+1] == 'u' || s[i+1] == 'U') {
				if n, err := strconv.ParseUint(s[i+2:i+6], 16, 32); err == nil {
					flush()
					b.WriteRune(rune(n))
					i += 6
					continue
				}
			}
			if i+3 <= len(s) {
				if n, err := strconv.ParseUint(s[i+1:i+3], 16, 8); err == nil {
					raw = append(raw, byte(n))
					i += 3
					continue
				}
			}
		}
		flush()
		b.WriteByte(s[i])
		i++
	}
	flush()
	return b.String()
}
