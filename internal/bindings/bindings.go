package bindings

import (
	"fmt"
	"strings"
)

// ActionID names a user-facing action. The string form doubles as the
// config key when shortcuts become overridable.
type ActionID string

type definition struct {
	id         ActionID
	repeatable bool
	defaults   [][]string
}

func def(id ActionID, repeatable bool, specs ...string) definition {
	seqs := make([][]string, 0, len(specs))
	for _, spec := range specs {
		seqs = append(seqs, mustSequence(spec))
	}
	return definition{id: id, repeatable: repeatable, defaults: seqs}
}

func mustSequence(spec string) []string {
	seq, err := parseSequence(spec)
	if err != nil {
		panic(fmt.Sprintf("invalid default shortcut %q: %v", spec, err))
	}
	return seq
}

// parseSequence splits a space separated shortcut spec ("g y") into the
// key presses that trigger it. Individual chords keep their "+" form.
func parseSequence(spec string) ([]string, error) {
	fields := strings.Fields(spec)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty shortcut")
	}
	for _, field := range fields {
		if strings.HasPrefix(field, "+") || strings.HasSuffix(field, "+") {
			return nil, fmt.Errorf("malformed chord %q", field)
		}
	}
	return fields, nil
}

// KnownActions returns the action identifiers in declaration order.
func KnownActions() []ActionID {
	ids := make([]ActionID, 0, len(definitions))
	for _, d := range definitions {
		ids = append(ids, d.id)
	}
	return ids
}

// Repeatable reports whether holding the shortcut should keep firing the
// action.
func Repeatable(id ActionID) bool {
	d, ok := definitionLookup[id]
	return ok && d.repeatable
}

// DefaultSequences returns the built-in shortcuts for an action.
func DefaultSequences(id ActionID) [][]string {
	d, ok := definitionLookup[id]
	if !ok {
		return nil
	}
	seqs := make([][]string, len(d.defaults))
	for i, seq := range d.defaults {
		seqs[i] = append([]string(nil), seq...)
	}
	return seqs
}

// Matcher resolves incoming key presses against the shortcut table. It
// buffers multi-key sequences, so feeding "g" then "y" fires the action
// bound to "g y".
type Matcher struct {
	exact    map[string]ActionID
	prefixes map[string]struct{}
	pending  []string
}

func NewMatcher() *Matcher {
	m := &Matcher{
		exact:    make(map[string]ActionID),
		prefixes: make(map[string]struct{}),
	}
	for _, d := range definitions {
		for _, seq := range d.defaults {
			m.exact[strings.Join(seq, " ")] = d.id
			for i := 1; i < len(seq); i++ {
				m.prefixes[strings.Join(seq[:i], " ")] = struct{}{}
			}
		}
	}
	return m
}

// Feed consumes one key press. It returns the resolved action when a
// sequence completes, and handled=true whenever the key was part of a
// known sequence (so the caller does not forward it elsewhere).
func (m *Matcher) Feed(key string) (ActionID, bool) {
	candidate := append(m.pending, key)
	joined := strings.Join(candidate, " ")

	if id, ok := m.exact[joined]; ok {
		m.pending = nil
		return id, true
	}
	if _, ok := m.prefixes[joined]; ok {
		m.pending = candidate
		return "", true
	}
	if len(m.pending) > 0 {
		// A dangling prefix absorbs the key that broke it.
		m.pending = nil
		return "", true
	}
	return "", false
}

// Reset drops any buffered sequence prefix.
func (m *Matcher) Reset() {
	m.pending = nil
}
