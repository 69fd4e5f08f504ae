package find

import (
	"context"
	"log"
	"strings"
	"sync"

	udiff "github.com/aymanbagabas/go-udiff"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/unkn0wn-root/findterm/internal/buffer"
	"github.com/unkn0wn-root/findterm/internal/findstate"
	"github.com/unkn0wn-root/findterm/internal/history"
	"github.com/unkn0wn-root/findterm/internal/match"
	"github.com/unkn0wn-root/findterm/internal/storage"
)

// Storage keys for the persisted option flags.
const (
	KeyIsRegex   = "editor.isRegex"
	KeyMatchCase = "editor.matchCase"
	KeyWholeWord = "editor.wholeWord"
)

// Options wires a Controller to its collaborators. Buffer, Selection and
// Widget are required; History defaults to an unbounded in-memory
// navigator, Commit to the delayed scheduler, Storage to an in-memory
// store.
type Options struct {
	Buffer    *buffer.Buffer
	Selection SelectionHost
	Widget    Widget
	Storage   storage.Store
	History   *history.Navigator
	Commit    CommitScheduler
	Tracer    trace.Tracer
}

// Controller orchestrates the find session: it owns the observable state,
// re-searches on every relevant change, drives the selection to matches,
// and commits search terms to history on a debounce.
//
// All mutation is funneled through the state's Change operation; the
// controller reacts inside the synchronous notification, so selection side
// effects complete before the triggering call returns. The history commit
// is the only deferred step. Public methods are safe to call from the
// event loop and from the commit timer.
type Controller struct {
	mu sync.Mutex

	state   *findstate.State
	buf     *buffer.Buffer
	finder  *match.Finder
	sel     SelectionHost
	widget  Widget
	store   storage.Store
	history *history.Navigator
	commit  CommitScheduler
	tracer  trace.Tracer

	started       bool
	disposed      bool
	navigating    bool // state change originates from history navigation
	commitPending bool
	sessionID     string

	unsubscribe func()
}

func NewController(opts Options) *Controller {
	c := &Controller{
		state:   findstate.New(),
		buf:     opts.Buffer,
		finder:  match.NewFinder(opts.Buffer),
		sel:     opts.Selection,
		widget:  opts.Widget,
		store:   opts.Storage,
		history: opts.History,
		commit:  opts.Commit,
		tracer:  opts.Tracer,
	}
	if c.store == nil {
		c.store = storage.NewMemStore()
	}
	if c.history == nil {
		c.history = history.NewNavigator(0)
	}
	if c.commit == nil {
		c.commit = NewDelayedScheduler(DefaultCommitDelay)
	}

	// Seed option flags from storage before subscribing so restoring them
	// does not count as a user change.
	isRegex := c.store.GetBool(KeyIsRegex, false)
	matchCase := c.store.GetBool(KeyMatchCase, false)
	wholeWord := c.store.GetBool(KeyWholeWord, false)
	c.state.Change(findstate.Update{
		IsRegex:   &isRegex,
		MatchCase: &matchCase,
		WholeWord: &wholeWord,
	}, false)

	c.unsubscribe = c.state.OnChange(c.onStateChange)
	return c
}

// State exposes the find state for read access (widget rendering).
func (c *Controller) State() *findstate.State {
	return c.state
}

// Started reports whether a find session is active.
func (c *Controller) Started() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.started
}

// Start opens a find session. When the selection holds a single-line text
// and seeding is requested, that text becomes the search string; otherwise
// the previous term is kept.
func (c *Controller) Start(opts StartOptions) {
	c.run(func() {
		if c.disposed {
			return
		}
		if !c.started {
			c.sessionID = uuid.NewString()
		}
		c.started = true

		if opts.SeedSearchStringFromSelection {
			sel := c.sel.Selection()
			if !sel.IsEmpty() {
				if text := c.buf.TextInRange(sel); text != "" && !strings.Contains(text, "\n") {
					c.state.Change(findstate.Update{SearchString: &text}, false)
				}
			}
		}

		c.widget.Show(WidgetOptions{RevealReplace: opts.ForceRevealReplace, Animate: opts.Animate})
		if opts.Focus != NoFocusChange {
			c.widget.Focus(opts.Focus)
		}
	})
}

// CloseFindWidget ends the session: the search scope is always cleared,
// the widget hidden. Safe to call when already closed.
func (c *Controller) CloseFindWidget() {
	c.run(func() {
		c.state.Change(findstate.Update{SetSearchScope: true}, false)
		if !c.started {
			return
		}
		c.started = false
		c.widget.Hide()
	})
}

// SetSearchString updates the query as a user edit: it re-searches and
// schedules a debounced history commit.
func (c *Controller) SetSearchString(value string) {
	c.run(func() {
		c.state.Change(findstate.Update{SearchString: &value}, true)
	})
}

// SetReplaceString updates the replacement text.
func (c *Controller) SetReplaceString(value string) {
	c.run(func() {
		c.state.Change(findstate.Update{ReplaceString: &value}, false)
	})
}

// SetSearchScope restricts matching to a sub-region; nil widens back to the
// whole buffer.
func (c *Controller) SetSearchScope(scope *buffer.Range) {
	c.run(func() {
		c.state.Change(findstate.Update{SearchScope: scope, SetSearchScope: true}, false)
	})
}

func (c *Controller) ToggleRegex() {
	c.toggleOption(KeyIsRegex, func(next bool) findstate.Update {
		return findstate.Update{IsRegex: &next}
	}, func() bool { return c.state.IsRegex() })
}

func (c *Controller) ToggleCaseSensitive() {
	c.toggleOption(KeyMatchCase, func(next bool) findstate.Update {
		return findstate.Update{MatchCase: &next}
	}, func() bool { return c.state.MatchCase() })
}

func (c *Controller) ToggleWholeWords() {
	c.toggleOption(KeyWholeWord, func(next bool) findstate.Update {
		return findstate.Update{WholeWord: &next}
	}, func() bool { return c.state.WholeWord() })
}

func (c *Controller) toggleOption(key string, update func(bool) findstate.Update, current func() bool) {
	c.run(func() {
		next := !current()
		c.state.Change(update(next), false)
		if err := c.store.SetBool(key, next); err != nil {
			log.Printf("findterm: persist %s: %v", key, err)
		}
	})
}

// MoveToNextMatch selects the next match after the cursor, wrapping
// cyclically. When the selection already sits on a match the controller
// advances by index, so two matches on one line alternate and an empty
// match (regex `^`) is never reselected.
func (c *Controller) MoveToNextMatch() {
	c.run(func() {
		matches := c.search("find.next")
		if len(matches) == 0 {
			return
		}
		c.moveToNext(matches, c.sel.Selection())
	})
}

// MoveToPrevMatch selects the previous match before the cursor, wrapping
// to the last match from the top.
func (c *Controller) MoveToPrevMatch() {
	c.run(func() {
		matches := c.search("find.prev")
		if len(matches) == 0 {
			return
		}
		sel := c.sel.Selection()
		if i := indexOfMatch(matches, sel); i >= 0 {
			c.selectMatch(matches, (i+len(matches)-1)%len(matches))
			return
		}

		chosen := -1
		for i := len(matches) - 1; i >= 0; i-- {
			if matches[i].Start.Before(sel.Start) {
				chosen = i
				break
			}
		}
		if chosen < 0 {
			chosen = len(matches) - 1
		}
		c.selectMatch(matches, chosen)
	})
}

// Replace substitutes the match under the selection and advances to the
// next one. When the selection is not on a match (including after any
// intervening buffer edit), the call degrades to a find-next: matches are
// recomputed from current content, so a stale range can never be edited.
func (c *Controller) Replace() {
	c.run(func() {
		_, span := c.startSpan("find.replace")
		defer span.End()

		matches := c.search("")
		if len(matches) == 0 {
			return
		}
		sel := c.sel.Selection()
		idx := indexOfMatch(matches, sel)
		if idx < 0 {
			c.moveToNext(matches, sel)
			return
		}

		m := matches[idx]
		replacement, err := c.finder.ExpandReplacement(c.query(), m, c.state.ReplaceString())
		if err != nil {
			return
		}

		c.buf.PushUndoStop()
		if err := c.buf.ApplyEdits([]buffer.Edit{{Range: m, Text: replacement}}); err != nil {
			return
		}

		end := endOfInserted(m.Start, replacement)
		c.sel.SetSelection(buffer.Range{Start: end, End: end})

		remaining := c.search("")
		if len(remaining) == 0 {
			return
		}
		c.moveToNext(remaining, c.sel.Selection())
	})
}

// ReplaceAll substitutes every match in one atomic edit batch. The cursor
// stays where it was.
func (c *Controller) ReplaceAll() {
	c.run(func() {
		_, span := c.startSpan("find.replaceAll")
		defer span.End()

		matches := c.search("")
		if len(matches) == 0 {
			return
		}
		edits, err := c.replacementEdits(matches)
		if err != nil {
			return
		}
		c.buf.PushUndoStop()
		if err := c.buf.ApplyEdits(edits); err != nil {
			return
		}
		c.search("")
	})
}

// ReplaceAllPreview renders the would-be result of ReplaceAll as a unified
// diff without touching the buffer.
func (c *Controller) ReplaceAllPreview() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	matches, err := c.finder.Matches(c.query())
	if err != nil || len(matches) == 0 {
		return "", err
	}
	edits, err := c.replacementEdits(matches)
	if err != nil {
		return "", err
	}

	scratch := buffer.New(c.buf.Value())
	if err := scratch.ApplyEdits(edits); err != nil {
		return "", err
	}
	return udiff.Unified("current", "replaced", c.buf.Value(), scratch.Value()), nil
}

// SelectAllMatches turns every match into a selection.
func (c *Controller) SelectAllMatches() {
	c.run(func() {
		matches := c.search("find.selectAll")
		if len(matches) == 0 {
			return
		}
		c.sel.SetSelections(matches)
	})
}

// CurrentMatchText returns the text under the selection when it sits on a
// match.
func (c *Controller) CurrentMatchText() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	matches, err := c.finder.Matches(c.query())
	if err != nil {
		return ""
	}
	if indexOfMatch(matches, c.sel.Selection()) < 0 {
		return ""
	}
	return c.buf.TextInRange(c.sel.Selection())
}

// ShowPreviousFindTerm swaps the search string for the previous history
// entry. Navigation never commits to history.
func (c *Controller) ShowPreviousFindTerm() {
	c.run(func() {
		term, ok := c.history.Previous()
		if !ok {
			return
		}
		c.navigating = true
		c.state.Change(findstate.Update{SearchString: &term}, true)
		c.navigating = false
	})
}

// ShowNextFindTerm swaps the search string for the next history entry.
func (c *Controller) ShowNextFindTerm() {
	c.run(func() {
		term, ok := c.history.Next()
		if !ok {
			return
		}
		c.navigating = true
		c.state.Change(findstate.Update{SearchString: &term}, true)
		c.navigating = false
	})
}

// History exposes the term navigator (read access for the widget).
func (c *Controller) History() *history.Navigator {
	return c.history
}

// Dispose cancels any pending history commit and detaches from the state.
// Idempotent; a commit firing after Dispose is a no-op.
func (c *Controller) Dispose() {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	c.disposed = true
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
	c.mu.Unlock()
	c.commit.Cancel()
}

// run executes fn under the controller lock, then performs any history
// commit scheduling requested during fn outside the lock so an immediate
// scheduler cannot deadlock.
func (c *Controller) run(fn func()) {
	c.mu.Lock()
	fn()
	pending := c.commitPending
	c.commitPending = false
	disposed := c.disposed
	c.mu.Unlock()

	if pending && !disposed {
		c.commit.Schedule(c.commitHistory)
	}
}

// commitHistory appends the search string as of fire time, so a burst of
// edits commits only the final value.
func (c *Controller) commitHistory() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disposed {
		return
	}
	term := c.state.SearchString()
	if term == "" {
		return
	}
	if err := c.history.Add(term); err != nil {
		log.Printf("findterm: commit history: %v", err)
	}
}

// onStateChange runs synchronously inside state.Change while the
// controller lock is held.
func (c *Controller) onStateChange(ch findstate.Change) {
	if ch.SearchString && !c.navigating {
		c.commitPending = true
	}
	if !ch.QueryChanged() {
		return
	}

	matches := c.search("find.search")
	if !ch.MoveCursor || len(matches) == 0 {
		return
	}

	// Land on the match containing the cursor, or the first one after it.
	cursor := c.sel.Selection().Start
	chosen := -1
	for i, m := range matches {
		if cursor.Before(m.End) || cursor == m.Start {
			chosen = i
			break
		}
	}
	if chosen < 0 {
		chosen = 0
	}
	c.selectMatch(matches, chosen)
}

func (c *Controller) query() match.Query {
	return match.Query{
		SearchString: c.state.SearchString(),
		IsRegex:      c.state.IsRegex(),
		MatchCase:    c.state.MatchCase(),
		WholeWord:    c.state.WholeWord(),
		Scope:        c.state.SearchScope(),
	}
}

// search recomputes matches and publishes the derived count. A malformed
// pattern is absorbed into zero matches.
func (c *Controller) search(spanName string) []buffer.Range {
	if spanName != "" {
		_, span := c.startSpan(spanName)
		defer span.End()
	}

	matches, err := c.finder.Matches(c.query())
	if err != nil {
		matches = nil
	}

	count := len(matches)
	pos := 0
	if i := indexOfMatch(matches, c.sel.Selection()); i >= 0 {
		pos = i + 1
	}
	c.state.Change(findstate.Update{MatchesCount: &count, MatchesPosition: &pos}, false)
	return matches
}

func (c *Controller) moveToNext(matches []buffer.Range, sel buffer.Range) {
	if i := indexOfMatch(matches, sel); i >= 0 {
		c.selectMatch(matches, (i+1)%len(matches))
		return
	}
	chosen := -1
	for i, m := range matches {
		if !m.Start.Before(sel.Start) {
			chosen = i
			break
		}
	}
	if chosen < 0 {
		chosen = 0
	}
	c.selectMatch(matches, chosen)
}

func (c *Controller) selectMatch(matches []buffer.Range, idx int) {
	m := matches[idx]
	c.sel.SetSelection(m)
	c.sel.Reveal(m)

	count := len(matches)
	pos := idx + 1
	c.state.Change(findstate.Update{MatchesCount: &count, MatchesPosition: &pos}, false)
}

func (c *Controller) replacementEdits(matches []buffer.Range) ([]buffer.Edit, error) {
	q := c.query()
	replace := c.state.ReplaceString()
	edits := make([]buffer.Edit, 0, len(matches))
	for _, m := range matches {
		text, err := c.finder.ExpandReplacement(q, m, replace)
		if err != nil {
			return nil, err
		}
		edits = append(edits, buffer.Edit{Range: m, Text: text})
	}
	return edits, nil
}

func (c *Controller) startSpan(name string) (context.Context, trace.Span) {
	if c.tracer == nil {
		return context.Background(), trace.SpanFromContext(context.Background())
	}
	return c.tracer.Start(context.Background(), name, trace.WithAttributes(
		attribute.String("find.session", c.sessionID),
		attribute.Bool("find.regex", c.state.IsRegex()),
		attribute.Int("find.query_len", len(c.state.SearchString())),
	))
}

func indexOfMatch(matches []buffer.Range, sel buffer.Range) int {
	for i, m := range matches {
		if m == sel {
			return i
		}
	}
	return -1
}

// endOfInserted computes where text ends when inserted at start.
func endOfInserted(start buffer.Position, text string) buffer.Position {
	segments := strings.Split(text, "\n")
	if len(segments) == 1 {
		return buffer.Position{Line: start.Line, Column: start.Column + len([]rune(text))}
	}
	last := segments[len(segments)-1]
	return buffer.Position{
		Line:   start.Line + len(segments) - 1,
		Column: len([]rune(last)) + 1,
	}
}
