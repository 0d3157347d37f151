package deobfuscate

import (
	"encoding/base64"
	"regexp"
	"strings"
	"unicode/utf8"
)

// InvalidSourceURL replaces a base64 literal that does not decode to text.
const InvalidSourceURL = "INVALID unpack_source_url"

const atobArg = `\(\s*(?:"([^"]*)"|'([^']*)')\s*\)`

// Patterns for the base64 source URL families. Group 1 is the kept prefix,
// groups 2 and 3 are the double and single quoted literal.
var (
	SourceURLWindowAtob = regexp.MustCompile(`(source:\s*)window\.atob` + atobArg)
	SourceURLVarAtob    = regexp.MustCompile(`(var\s+[\w$]+\s*=\s*)atob` + atobArg)
	SourceURLAtob       = regexp.MustCompile(`(source:\s*)atob` + atobArg)
)

var sourceURLPatterns = []*regexp.Regexp{
	SourceURLWindowAtob,
	SourceURLVarAtob,
	SourceURLAtob,
}

// UnpackSourceURL rewrites every match of pattern into a plain string literal
// holding the decoded URL, keeping the quote style of the call.
func UnpackSourceURL(text string, pattern *regexp.Regexp) string {
	matches := pattern.FindAllStringSubmatchIndex(text, -1)
	if matches == nil {
		return text
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		b.WriteString(text[last:m[0]])
		b.WriteString(text[m[2]:m[3]])
		if m[4] >= 0 {
			b.WriteString(`"` + decodeAtob(text[m[4]:m[5]]) + `"`)
		} else {
			b.WriteString(`'` + decodeAtob(text[m[6]:m[7]]) + `'`)
		}
		last = m[1]
	}
	b.WriteString(text[last:])
	return b.String()
}

// UnpackSourceURLs applies the first family that matches text.
func UnpackSourceURLs(text string) string {
	for _, re := range sourceURLPatterns {
		if re.MatchString(text) {
			return UnpackSourceURL(text, re)
		}
	}
	return text
}

func decodeAtob(literal string) string {
	b, err := base64.StdEncoding.Strict().DecodeString(literal)
	if err != nil || !utf8.Valid(b) {
		return InvalidSourceURL
	}
	return string(b)
}
