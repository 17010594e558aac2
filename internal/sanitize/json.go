// Package sanitize recovers structured data from noisy model output.
//
// Model replies routinely wrap JSON in markdown fences, surround it with
// prose, embed raw newlines and control characters inside string values,
// emit invalid backslash escapes and leave trailing commas. SanitizeJSON
// repairs those defects in two passes and never fails: when nothing can be
// recovered the input is returned unchanged so the caller's parser reports
// the error.
package sanitize

import (
	"encoding/json"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// fencedBlock matches a markdown code fence and captures its body.
var fencedBlock = regexp.MustCompile("(?s)```[A-Za-z0-9_-]*[ \t]*\\r?\\n?(.*?)```")

// SanitizeJSON returns a best-effort repaired JSON document extracted from
// raw. Already valid input is returned trimmed and otherwise untouched.
func SanitizeJSON(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed != "" && json.Valid([]byte(trimmed)) {
		return trimmed
	}

	// A fence marker inside a string value can cut the fenced body short,
	// so the whole reply is tried as well.
	candidates := []string{stripFences(raw)}
	if candidates[0] != raw {
		candidates = append(candidates, raw)
	}
	for _, pass := range []func(string) (string, bool){standardPass, aggressivePass} {
		for _, c := range candidates {
			if out, ok := pass(c); ok {
				return out
			}
		}
	}
	return raw
}

func standardPass(s string) (string, bool) {
	s = extractSpan(s)
	s = cleanStrings(s)
	s = stripTrailingCommas(s)
	return s, json.Valid([]byte(s))
}

// aggressivePass additionally removes comments and quotes bare object keys.
func aggressivePass(s string) (string, bool) {
	s = stripComments(s)
	s = extractSpan(s)
	s = quoteBareKeys(s)
	s = cleanStrings(s)
	s = stripTrailingCommas(s)
	s = extractSpan(s)
	return s, json.Valid([]byte(s))
}

// stripFences removes a fence wrapping the whole reply, or else returns the
// body of the first fenced block holding a JSON object or array. Text without
// fences is returned unchanged.
func stripFences(s string) string {
	t := strings.TrimSpace(s)
	if strings.HasPrefix(t, "```") {
		if nl := strings.IndexByte(t, '\n'); nl >= 0 {
			t = t[nl+1:]
		} else {
			t = strings.TrimLeftFunc(t[3:], unicode.IsLetter)
		}
		t = strings.TrimSuffix(strings.TrimSpace(t), "```")
		return strings.TrimSpace(t)
	}

	for _, m := range fencedBlock.FindAllStringSubmatch(s, -1) {
		body := strings.TrimSpace(m[1])
		if strings.HasPrefix(body, "{") || strings.HasPrefix(body, "[") {
			return body
		}
	}
	return s
}

// extractSpan returns the text between the first opening bracket and the
// last closing bracket.
func extractSpan(s string) string {
	start := strings.IndexAny(s, "{[")
	end := strings.LastIndexAny(s, "}]")
	if start < 0 || end < start {
		return strings.TrimSpace(s)
	}
	return s[start : end+1]
}

func isControl(r rune) bool {
	return r < 0x20 || (r >= 0x7f && r <= 0x9f)
}

func isEscape(b byte) bool {
	switch b {
	case '"', '\\', '/', 'b', 'f', 'n', 'r', 't', 'u':
		return true
	}
	return false
}

func isHex(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

// validEscapeAt reports whether s[i] begins a legal JSON escape sequence.
func validEscapeAt(s string, i int) bool {
	if i+1 >= len(s) || !isEscape(s[i+1]) {
		return false
	}
	if s[i+1] != 'u' {
		return true
	}
	if i+6 > len(s) {
		return false
	}
	for j := i + 2; j < i+6; j++ {
		if !isHex(s[j]) {
			return false
		}
	}
	return true
}

// cleanStrings walks the document once, tracking string boundaries.
// Outside strings control characters become spaces. Inside strings newlines
// and tabs collapse to a space, other control characters are dropped and
// stray backslashes are doubled.
func cleanStrings(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 16)

	inString := false
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			i++
			continue
		}

		if !inString {
			switch {
			case r == '"':
				inString = true
				b.WriteRune(r)
			case r == '\n' || r == '\r' || r == '\t':
				b.WriteRune(r)
			case isControl(r):
				b.WriteByte(' ')
			default:
				b.WriteRune(r)
			}
			i += size
			continue
		}

		switch {
		case r == '\\':
			if validEscapeAt(s, i) {
				b.WriteString(s[i : i+2])
				i += 2
				continue
			}
			b.WriteString(`\\`)
		case r == '"':
			inString = false
			b.WriteRune(r)
		case r == '\n' || r == '\t':
			b.WriteByte(' ')
		case isControl(r):
			// dropped
		default:
			b.WriteRune(r)
		}
		i += size
	}
	return b.String()
}

// stripTrailingCommas removes commas that directly precede a closing
// bracket, ignoring string contents.
func stripTrailingCommas(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	inString, escaped := false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			b.WriteByte(c)
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		if c == '"' {
			inString = true
			b.WriteByte(c)
			continue
		}
		if c == ',' {
			j := i + 1
			for j < len(s) && isSpace(s[j]) {
				j++
			}
			if j < len(s) && (s[j] == '}' || s[j] == ']') {
				continue
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}

// stripComments removes // line comments and /* */ block comments that
// appear outside string values.
func stripComments(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	inString, escaped := false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			b.WriteByte(c)
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch {
		case c == '"':
			inString = true
			b.WriteByte(c)
		case c == '/' && i+1 < len(s) && s[i+1] == '/':
			for i < len(s) && s[i] != '\n' {
				i++
			}
			if i < len(s) {
				b.WriteByte('\n')
			}
		case c == '/' && i+1 < len(s) && s[i+1] == '*':
			end := strings.Index(s[i+2:], "*/")
			if end < 0 {
				return b.String()
			}
			i += end + 3
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// quoteBareKeys wraps unquoted object keys in double quotes. A bare key is an
// identifier that follows '{' or ',' and precedes ':'.
func quoteBareKeys(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 32)

	inString, escaped := false, false
	var prev byte // last significant byte outside strings
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			b.WriteByte(c)
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
				prev = '"'
			}
			continue
		}
		if c == '"' {
			inString = true
			b.WriteByte(c)
			continue
		}
		if (prev == '{' || prev == ',') && isIdentStart(c) {
			j := i
			for j < len(s) && isIdentPart(s[j]) {
				j++
			}
			k := j
			for k < len(s) && isSpace(s[k]) {
				k++
			}
			if k < len(s) && s[k] == ':' {
				b.WriteByte('"')
				b.WriteString(s[i:j])
				b.WriteByte('"')
				prev = '"'
				i = j - 1
				continue
			}
		}
		b.WriteByte(c)
		if !isSpace(c) {
			prev = c
		}
	}
	return b.String()
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\n' || c == '\r' || c == '\t'
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || c == '-' || (c >= '0' && c <= '9')
}
