package findstate

import "github.com/unkn0wn-root/findterm/internal/buffer"

// Update is a partial state mutation: nil fields are left untouched.
// SearchScope has an explicit presence flag because nil is a meaningful
// value (scope cleared).
type Update struct {
	SearchString  *string
	ReplaceString *string
	IsRegex       *bool
	MatchCase     *bool
	WholeWord     *bool

	SearchScope    *buffer.Range
	SetSearchScope bool

	MatchesPosition *int
	MatchesCount    *int
}

// Change names the fields a state mutation actually touched, plus whether
// the mutation should drive the cursor to a match.
type Change struct {
	SearchString  bool
	ReplaceString bool
	IsRegex       bool
	MatchCase     bool
	WholeWord     bool
	SearchScope   bool
	Matches       bool

	MoveCursor bool
}

func (c Change) Any() bool {
	return c.SearchString || c.ReplaceString || c.IsRegex || c.MatchCase ||
		c.WholeWord || c.SearchScope || c.Matches
}

// QueryChanged reports whether the effective search query differs, i.e. a
// re-search is needed.
func (c Change) QueryChanged() bool {
	return c.SearchString || c.IsRegex || c.MatchCase || c.WholeWord || c.SearchScope
}

// State is the observable value object behind one find session. Listeners
// are scoped to the instance; notification happens synchronously inside
// Change, so side effects complete before Change returns.
type State struct {
	searchString  string
	replaceString string
	isRegex       bool
	matchCase     bool
	wholeWord     bool
	searchScope   *buffer.Range

	matchesPosition int
	matchesCount    int

	nextListener int
	listeners    map[int]func(Change)
}

func New() *State {
	return &State{listeners: make(map[int]func(Change))}
}

func (s *State) SearchString() string  { return s.searchString }
func (s *State) ReplaceString() string { return s.replaceString }
func (s *State) IsRegex() bool         { return s.isRegex }
func (s *State) MatchCase() bool       { return s.matchCase }
func (s *State) WholeWord() bool       { return s.wholeWord }
func (s *State) MatchesPosition() int  { return s.matchesPosition }
func (s *State) MatchesCount() int     { return s.matchesCount }

// SearchScope returns a copy so callers cannot mutate shared state.
func (s *State) SearchScope() *buffer.Range {
	if s.searchScope == nil {
		return nil
	}
	scope := *s.searchScope
	return &scope
}

// OnChange registers a listener and returns its unsubscribe func.
func (s *State) OnChange(fn func(Change)) func() {
	id := s.nextListener
	s.nextListener++
	s.listeners[id] = fn
	return func() {
		delete(s.listeners, id)
	}
}

// Change applies the partial update, computes which fields differ, and
// notifies listeners only when at least one field actually changed.
func (s *State) Change(u Update, moveCursor bool) {
	var c Change
	c.MoveCursor = moveCursor

	if u.SearchString != nil && *u.SearchString != s.searchString {
		s.searchString = *u.SearchString
		c.SearchString = true
	}
	if u.ReplaceString != nil && *u.ReplaceString != s.replaceString {
		s.replaceString = *u.ReplaceString
		c.ReplaceString = true
	}
	if u.IsRegex != nil && *u.IsRegex != s.isRegex {
		s.isRegex = *u.IsRegex
		c.IsRegex = true
	}
	if u.MatchCase != nil && *u.MatchCase != s.matchCase {
		s.matchCase = *u.MatchCase
		c.MatchCase = true
	}
	if u.WholeWord != nil && *u.WholeWord != s.wholeWord {
		s.wholeWord = *u.WholeWord
		c.WholeWord = true
	}
	if u.SetSearchScope && !scopesEqual(s.searchScope, u.SearchScope) {
		if u.SearchScope == nil {
			s.searchScope = nil
		} else {
			scope := *u.SearchScope
			s.searchScope = &scope
		}
		c.SearchScope = true
	}
	if u.MatchesPosition != nil && *u.MatchesPosition != s.matchesPosition {
		s.matchesPosition = *u.MatchesPosition
		c.Matches = true
	}
	if u.MatchesCount != nil && *u.MatchesCount != s.matchesCount {
		s.matchesCount = *u.MatchesCount
		c.Matches = true
	}

	if !c.Any() {
		return
	}
	for _, fn := range s.listeners {
		fn(c)
	}
}

func scopesEqual(a, b *buffer.Range) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
