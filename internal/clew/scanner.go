package clew

import (
	"bufio"
	"bytes"
	"strings"
)

// commentMarkers gives the line-comment prefix, block-comment delimiters,
// and string delimiters per language family.
type commentMarkers struct {
	line         string
	blockOpen    string
	blockClose   string
	stringDelims []byte
}

// testMarkersByLanguage lists per-language tokens whose appearance starts a
// test-only region; every line from the first marker onward is tagged so
// confidence scoring can discount matches inside tests.
var testMarkersByLanguage = map[string][]string{
	"go":         {"func Test", "func Benchmark"},
	"python":     {"def test_", "class Test"},
	"rust":       {"#[test]", "#[cfg(test)]"},
	"typescript": {"describe(", "it(", "test("},
	"javascript": {"describe(", "it(", "test("},
	"java":       {"@Test"},
	"zig":        {"test \""},
}

var markersByLanguage = map[string]commentMarkers{
	"typescript": {line: "//", blockOpen: "/*", blockClose: "*/", stringDelims: []byte{'"', '\'', '`'}},
	"javascript": {line: "//", blockOpen: "/*", blockClose: "*/", stringDelims: []byte{'"', '\'', '`'}},
	"go":         {line: "//", blockOpen: "/*", blockClose: "*/", stringDelims: []byte{'"', '`'}},
	"rust":       {line: "//", blockOpen: "/*", blockClose: "*/", stringDelims: []byte{'"'}},
	"c":          {line: "//", blockOpen: "/*", blockClose: "*/", stringDelims: []byte{'"', '\''}},
	"cpp":        {line: "//", blockOpen: "/*", blockClose: "*/", stringDelims: []byte{'"', '\''}},
	"java":       {line: "//", blockOpen: "/*", blockClose: "*/", stringDelims: []byte{'"', '\''}},
	"zig":        {line: "//", stringDelims: []byte{'"'}},
	"python":     {line: "#", stringDelims: []byte{'"', '\''}},
}

// ScannedToken is one token position the fallback scanner emits. Unlike the
// tree-sitter path, a "token" here is simply a whitespace-delimited run of
// the source line — patterns match on substring containment, so token
// boundaries only need to be coarse enough to produce a useful Position.
type ScannedToken struct {
	Text string
	Pos  Position
}

// Scan splits source into per-line tokens, tracking block-comment state so
// confidence scoring can discount matches inside comments and strings. This
// is the always-available fallback path, used when no tree-sitter grammar
// exists for language or when parsing fails.
func Scan(source []byte, language string) []ScannedToken {
	markers := markersByLanguage[language]
	testMarkers := testMarkersByLanguage[language]
	inBlockComment := false
	inTestRegion := false
	var tokens []ScannedToken

	scanner := bufio.NewScanner(bytes.NewReader(source))
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		inComment := inBlockComment
		if markers.blockOpen != "" {
			if strings.Contains(trimmed, markers.blockOpen) {
				inComment = true
			}
			if strings.Contains(trimmed, markers.blockClose) {
				inBlockComment = false
			} else if inComment {
				inBlockComment = true
			}
		}
		if markers.line != "" && strings.HasPrefix(trimmed, markers.line) {
			inComment = true
		}

		inString := looksLikeBareStringLine(trimmed, markers.stringDelims)

		if !inTestRegion {
			for _, m := range testMarkers {
				if strings.Contains(trimmed, m) {
					inTestRegion = true
					break
				}
			}
		}

		tokens = append(tokens, ScannedToken{
			Text: line,
			Pos: Position{
				Line:      lineNum,
				EndLine:   lineNum,
				InComment: inComment,
				InString:  inString,
				InTest:    inTestRegion,
			},
		})
	}
	return tokens
}

// looksLikeBareStringLine is a coarse heuristic: a line consisting mostly of
// a quoted literal (module-level constant assignment, etc.) is treated as
// "in a string" for confidence-reduction purposes. This intentionally does
// not attempt full string-literal parsing — the scanner path is a fallback,
// not a lexer.
func looksLikeBareStringLine(trimmed string, delims []byte) bool {
	if trimmed == "" {
		return false
	}
	for _, d := range delims {
		idx := strings.IndexByte(trimmed, d)
		if idx >= 0 && strings.Count(trimmed, string(d)) >= 2 {
			return true
		}
	}
	return false
}
