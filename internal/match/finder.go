package match

import (
	"regexp"
	"unicode"
	"unicode/utf8"

	"github.com/unkn0wn-root/findterm/internal/buffer"
	"github.com/unkn0wn-root/findterm/internal/errdef"
)

// Query describes one search over a buffer. A nil Scope searches the whole
// buffer; otherwise matches must fall entirely inside the scope.
type Query struct {
	SearchString string
	IsRegex      bool
	MatchCase    bool
	WholeWord    bool
	Scope        *buffer.Range
}

// Finder locates query matches in a buffer. Matching is line-oriented:
// regex patterns are applied per line, so ^ and $ bind to line boundaries
// and a pattern never spans lines.
type Finder struct {
	buf *buffer.Buffer
}

func NewFinder(buf *buffer.Buffer) *Finder {
	return &Finder{buf: buf}
}

// Matches returns every match for q in buffer order. An empty search string
// yields no matches. Pattern compile faults surface as a CodePattern error;
// callers that treat bad patterns as "no matches" can discard the ranges.
func (f *Finder) Matches(q Query) ([]buffer.Range, error) {
	if q.SearchString == "" {
		return nil, nil
	}

	var rx *regexp.Regexp
	if q.IsRegex {
		compiled, err := compilePattern(q)
		if err != nil {
			return nil, err
		}
		rx = compiled
	}

	startLine, endLine := 1, f.buf.LineCount()
	if q.Scope != nil {
		startLine, endLine = q.Scope.Start.Line, q.Scope.End.Line
		if startLine < 1 {
			startLine = 1
		}
		if endLine > f.buf.LineCount() {
			endLine = f.buf.LineCount()
		}
	}

	var matches []buffer.Range
	for line := startLine; line <= endLine; line++ {
		content := f.buf.LineContent(line)
		var spans []span
		if q.IsRegex {
			spans = regexSpans(rx, content)
		} else {
			spans = literalSpans(content, q.SearchString, q.MatchCase)
		}
		for _, sp := range spans {
			if q.WholeWord && !wholeWordSpan(content, sp) {
				continue
			}
			m := buffer.NewRange(line, sp.start+1, line, sp.end+1)
			if q.Scope != nil && !insideScope(m, *q.Scope) {
				continue
			}
			matches = append(matches, m)
		}
	}
	return matches, nil
}

// ExpandReplacement computes the replacement text for one match. In literal
// mode the pattern is returned verbatim, whitespace included. In regex mode
// the pattern is expanded against the match with Go template semantics
// ($1, ${name}), so capture groups from the matched text carry over.
func (f *Finder) ExpandReplacement(q Query, m buffer.Range, replacePattern string) (string, error) {
	if !q.IsRegex {
		return replacePattern, nil
	}
	rx, err := compilePattern(q)
	if err != nil {
		return "", err
	}

	content := f.buf.LineContent(m.Start.Line)
	startByte := byteOffset(content, m.Start.Column-1)
	endByte := byteOffset(content, m.End.Column-1)
	for _, idx := range rx.FindAllStringSubmatchIndex(content, -1) {
		if idx[0] != startByte || idx[1] != endByte {
			continue
		}
		return string(rx.ExpandString(nil, replacePattern, content, idx)), nil
	}
	return "", errdef.New(errdef.CodePattern, "match at %d:%d no longer found on line", m.Start.Line, m.Start.Column)
}

type span struct {
	start int // rune offset, inclusive
	end   int // rune offset, exclusive
}

func compilePattern(q Query) (*regexp.Regexp, error) {
	pattern := q.SearchString
	if !q.MatchCase {
		pattern = "(?i)" + pattern
	}
	rx, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errdef.Wrap(errdef.CodePattern, err, "compile search pattern")
	}
	return rx, nil
}

// regexSpans keeps empty matches so anchors like ^ still produce an
// insertion point.
func regexSpans(rx *regexp.Regexp, content string) []span {
	indices := rx.FindAllStringIndex(content, -1)
	if len(indices) == 0 {
		return nil
	}
	spans := make([]span, 0, len(indices))
	for _, idx := range indices {
		spans = append(spans, span{
			start: utf8.RuneCountInString(content[:idx[0]]),
			end:   utf8.RuneCountInString(content[:idx[1]]),
		})
	}
	return spans
}

func literalSpans(content, pattern string, matchCase bool) []span {
	patternRunes := []rune(pattern)
	contentRunes := []rune(content)
	plen := len(patternRunes)
	if plen == 0 || len(contentRunes) < plen {
		return nil
	}
	var spans []span
	for i := 0; i <= len(contentRunes)-plen; i++ {
		matched := true
		for j := 0; j < plen; j++ {
			a, b := contentRunes[i+j], patternRunes[j]
			if !matchCase {
				a, b = unicode.ToLower(a), unicode.ToLower(b)
			}
			if a != b {
				matched = false
				break
			}
		}
		if matched {
			spans = append(spans, span{start: i, end: i + plen})
			// Non-overlapping, like regexp: resume after the match.
			i += plen - 1
		}
	}
	return spans
}

func wholeWordSpan(content string, sp span) bool {
	if sp.start == sp.end {
		return true
	}
	runes := []rune(content)
	if sp.start > 0 && isWordRune(runes[sp.start-1]) {
		return false
	}
	if sp.end < len(runes) && isWordRune(runes[sp.end]) {
		return false
	}
	return true
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func insideScope(m, scope buffer.Range) bool {
	return scope.Start.BeforeOrEqual(m.Start) && m.End.BeforeOrEqual(scope.End)
}

func byteOffset(content string, runeOffset int) int {
	if runeOffset <= 0 {
		return 0
	}
	seen := 0
	for i := range content {
		if seen == runeOffset {
			return i
		}
		seen++
	}
	return len(content)
}
