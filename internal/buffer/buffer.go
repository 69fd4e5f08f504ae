package buffer

import (
	"sort"
	"strings"

	"github.com/unkn0wn-root/findterm/internal/errdef"
)

// Position addresses a spot between characters. Lines and columns are
// 1-based; column N sits before the N-th rune of the line.
type Position struct {
	Line   int
	Column int
}

func (p Position) Before(o Position) bool {
	if p.Line != o.Line {
		return p.Line < o.Line
	}
	return p.Column < o.Column
}

func (p Position) BeforeOrEqual(o Position) bool {
	return p == o || p.Before(o)
}

// Range spans from Start (inclusive) to End (exclusive column).
type Range struct {
	Start Position
	End   Position
}

func NewRange(startLine, startCol, endLine, endCol int) Range {
	return Range{
		Start: Position{Line: startLine, Column: startCol},
		End:   Position{Line: endLine, Column: endCol},
	}
}

func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

func (r Range) ContainsPosition(p Position) bool {
	return r.Start.BeforeOrEqual(p) && p.BeforeOrEqual(r.End)
}

// Edit replaces the text covered by Range with Text. An empty Range is a
// pure insertion.
type Edit struct {
	Range Range
	Text  string
}

// Buffer is an in-memory line-oriented text model. It is not safe for
// concurrent use; callers own the event loop.
type Buffer struct {
	lines   []string
	version int
	undo    []undoState
}

type undoState struct {
	lines   []string
	version int
}

func New(text string) *Buffer {
	return &Buffer{lines: strings.Split(text, "\n"), version: 1}
}

func (b *Buffer) Value() string {
	return strings.Join(b.lines, "\n")
}

func (b *Buffer) LineCount() int {
	return len(b.lines)
}

// LineContent returns the given 1-based line, or "" when out of range.
func (b *Buffer) LineContent(line int) string {
	if line < 1 || line > len(b.lines) {
		return ""
	}
	return b.lines[line-1]
}

// Version increments on every successful edit batch so callers can detect
// stale ranges captured before an intervening change.
func (b *Buffer) Version() int {
	return b.version
}

func (b *Buffer) FullRange() Range {
	last := len(b.lines)
	return NewRange(1, 1, last, lineLen(b.lines[last-1])+1)
}

// TextInRange extracts the text covered by r, clamped to the buffer.
func (b *Buffer) TextInRange(r Range) string {
	r = b.clamp(r)
	if r.IsEmpty() {
		return ""
	}
	if r.Start.Line == r.End.Line {
		runes := []rune(b.lines[r.Start.Line-1])
		return string(runes[r.Start.Column-1 : r.End.Column-1])
	}
	var sb strings.Builder
	first := []rune(b.lines[r.Start.Line-1])
	sb.WriteString(string(first[r.Start.Column-1:]))
	for line := r.Start.Line + 1; line < r.End.Line; line++ {
		sb.WriteString("\n")
		sb.WriteString(b.lines[line-1])
	}
	sb.WriteString("\n")
	last := []rune(b.lines[r.End.Line-1])
	sb.WriteString(string(last[:r.End.Column-1]))
	return sb.String()
}

// ValidateRange reports whether r addresses real buffer content.
func (b *Buffer) ValidateRange(r Range) error {
	if err := b.validatePosition(r.Start); err != nil {
		return err
	}
	if err := b.validatePosition(r.End); err != nil {
		return err
	}
	if r.End.Before(r.Start) {
		return errdef.New(errdef.CodeBuffer, "range end %v before start %v", r.End, r.Start)
	}
	return nil
}

func (b *Buffer) validatePosition(p Position) error {
	if p.Line < 1 || p.Line > len(b.lines) {
		return errdef.New(errdef.CodeBuffer, "line %d outside buffer of %d lines", p.Line, len(b.lines))
	}
	if p.Column < 1 || p.Column > lineLen(b.lines[p.Line-1])+1 {
		return errdef.New(errdef.CodeBuffer, "column %d outside line %d", p.Column, p.Line)
	}
	return nil
}

// ApplyEdits applies all edits as one atomic batch: every range is validated
// and checked for overlap before any text changes, so a bad edit leaves the
// buffer untouched. Bumps the version on success.
func (b *Buffer) ApplyEdits(edits []Edit) error {
	if len(edits) == 0 {
		return nil
	}
	for _, e := range edits {
		if err := b.ValidateRange(e.Range); err != nil {
			return err
		}
	}

	ordered := make([]Edit, len(edits))
	copy(ordered, edits)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[j].Range.Start.Before(ordered[i].Range.Start)
	})
	for i := 1; i < len(ordered); i++ {
		// ordered is descending by start; the later edit must end at or
		// before the earlier edit starts.
		if ordered[i-1].Range.Start.Before(ordered[i].Range.End) {
			return errdef.New(errdef.CodeBuffer, "overlapping edits")
		}
	}

	for _, e := range ordered {
		b.replaceRange(e.Range, e.Text)
	}
	b.version++
	return nil
}

func (b *Buffer) replaceRange(r Range, text string) {
	startRunes := []rune(b.lines[r.Start.Line-1])
	endRunes := []rune(b.lines[r.End.Line-1])
	prefix := string(startRunes[:r.Start.Column-1])
	suffix := string(endRunes[r.End.Column-1:])

	segments := strings.Split(text, "\n")
	segments[0] = prefix + segments[0]
	segments[len(segments)-1] += suffix

	replaced := make([]string, 0, len(b.lines)-(r.End.Line-r.Start.Line+1)+len(segments))
	replaced = append(replaced, b.lines[:r.Start.Line-1]...)
	replaced = append(replaced, segments...)
	replaced = append(replaced, b.lines[r.End.Line:]...)
	b.lines = replaced
}

// PushUndoStop snapshots the current content as an undo boundary.
func (b *Buffer) PushUndoStop() {
	lines := make([]string, len(b.lines))
	copy(lines, b.lines)
	b.undo = append(b.undo, undoState{lines: lines, version: b.version})
}

// Undo restores the most recent undo stop and reports whether one existed.
// Restoring still advances the version: the content changed.
func (b *Buffer) Undo() bool {
	if len(b.undo) == 0 {
		return false
	}
	top := b.undo[len(b.undo)-1]
	b.undo = b.undo[:len(b.undo)-1]
	b.lines = top.lines
	b.version++
	return true
}

func (b *Buffer) clamp(r Range) Range {
	r.Start = b.clampPosition(r.Start)
	r.End = b.clampPosition(r.End)
	if r.End.Before(r.Start) {
		r.End = r.Start
	}
	return r
}

func (b *Buffer) clampPosition(p Position) Position {
	if p.Line < 1 {
		return Position{Line: 1, Column: 1}
	}
	if p.Line > len(b.lines) {
		last := len(b.lines)
		return Position{Line: last, Column: lineLen(b.lines[last-1]) + 1}
	}
	if p.Column < 1 {
		p.Column = 1
	}
	if max := lineLen(b.lines[p.Line-1]) + 1; p.Column > max {
		p.Column = max
	}
	return p
}

func lineLen(line string) int {
	return len([]rune(line))
}
