package sanitize

import (
	"regexp"
	"strings"
)

var fenceMarker = regexp.MustCompile("```[A-Za-z0-9_+-]*")

// SanitizeContent cleans a free-text field that has already been parsed out
// of a JSON document: fence markers and backticks are removed and literal
// "\n" and "\\" sequences left behind by double escaping are unescaped.
func SanitizeContent(text string) string {
	s := fenceMarker.ReplaceAllString(text, "")
	s = strings.ReplaceAll(s, "`", "")
	s = strings.ReplaceAll(s, `\n`, "\n")
	s = strings.ReplaceAll(s, `\\`, `\`)
	return strings.TrimSpace(s)
}

// CleanCode strips a surrounding markdown fence from a code sample and trims
// blank lines at either end.
func CleanCode(code string) string {
	s := strings.TrimSpace(code)
	if strings.HasPrefix(s, "```") {
		if nl := strings.IndexByte(s, '\n'); nl >= 0 {
			s = s[nl+1:]
		} else {
			s = s[3:]
		}
	}
	s = strings.TrimSuffix(strings.TrimRight(s, " \t\r\n"), "```")
	return strings.Trim(s, "\r\n")
}
