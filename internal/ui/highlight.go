package ui

import (
	"github.com/rivo/uniseg"

	"github.com/unkn0wn-root/findterm/internal/buffer"
	"github.com/unkn0wn-root/findterm/internal/theme"
)

// span is a highlight region on a single line, in 0-based rune offsets
// with an exclusive end.
type span struct {
	start   int
	end     int
	current bool
}

// lineSpans projects the match ranges that sit on the given line. Matches
// never cross lines, so a range either belongs to the line or not.
func lineSpans(matches []buffer.Range, current buffer.Range, line int) []span {
	var spans []span
	for _, m := range matches {
		if m.Start.Line != line {
			continue
		}
		spans = append(spans, span{
			start:   m.Start.Column - 1,
			end:     m.End.Column - 1,
			current: m == current,
		})
	}
	return spans
}

// renderLine styles the match spans inside one line of text. Offsets are
// rune based to stay aligned with buffer columns.
func renderLine(content string, spans []span, th theme.Theme) string {
	if len(spans) == 0 {
		return content
	}

	runes := []rune(content)
	var out []string
	cursor := 0
	for _, sp := range spans {
		start, end := sp.start, sp.end
		if start > len(runes) {
			start = len(runes)
		}
		if end > len(runes) {
			end = len(runes)
		}
		if start < cursor {
			start = cursor
		}
		if end < start {
			end = start
		}
		out = append(out, string(runes[cursor:start]))

		style := th.MatchOther
		if sp.current {
			style = th.MatchCurrent
		}
		segment := string(runes[start:end])
		if segment == "" && sp.current {
			// Zero width match; mark the insertion point.
			segment = " "
		}
		out = append(out, style.Render(segment))
		cursor = end
	}
	out = append(out, string(runes[cursor:]))

	var b []byte
	for _, part := range out {
		b = append(b, part...)
	}
	return string(b)
}

// truncateGraphemes caps a string at max grapheme clusters, appending an
// ellipsis when it had to cut. Grapheme aware so emoji and combining
// marks never split.
func truncateGraphemes(s string, max int) string {
	if max <= 0 || uniseg.GraphemeClusterCount(s) <= max {
		return s
	}
	g := uniseg.NewGraphemes(s)
	var b []byte
	n := 0
	for g.Next() && n < max-1 {
		b = append(b, g.Bytes()...)
		n++
	}
	return string(b) + "…"
}
