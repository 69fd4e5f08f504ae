package find

import (
	"strings"
	"testing"
	"time"

	"github.com/unkn0wn-root/findterm/internal/buffer"
	"github.com/unkn0wn-root/findterm/internal/findstate"
	"github.com/unkn0wn-root/findterm/internal/storage"
)

type fakeSelection struct {
	selections []buffer.Range
	revealed   []buffer.Range
}

func newFakeSelection() *fakeSelection {
	return &fakeSelection{selections: []buffer.Range{{}}}
}

func (s *fakeSelection) Selection() buffer.Range {
	return s.selections[0]
}

func (s *fakeSelection) SetSelection(r buffer.Range) {
	s.selections = []buffer.Range{r}
}

func (s *fakeSelection) Selections() []buffer.Range {
	return s.selections
}

func (s *fakeSelection) SetSelections(rs []buffer.Range) {
	s.selections = rs
}

func (s *fakeSelection) Reveal(r buffer.Range) {
	s.revealed = append(s.revealed, r)
}

func (s *fakeSelection) moveCursor(line, col int) {
	pos := buffer.Position{Line: line, Column: col}
	s.selections = []buffer.Range{{Start: pos, End: pos}}
}

type fakeWidget struct {
	visible bool
	focused FocusAction
	shows   int
	hides   int
}

func (w *fakeWidget) Show(WidgetOptions)   { w.visible = true; w.shows++ }
func (w *fakeWidget) Hide()                { w.visible = false; w.hides++ }
func (w *fakeWidget) Focus(fa FocusAction) { w.focused = fa }

type fixture struct {
	buf    *buffer.Buffer
	sel    *fakeSelection
	widget *fakeWidget
	store  storage.Store
	ctrl   *Controller
}

func newFixture(t *testing.T, text string, opts Options) *fixture {
	t.Helper()
	f := &fixture{
		buf:    buffer.New(text),
		sel:    newFakeSelection(),
		widget: &fakeWidget{},
	}
	f.sel.moveCursor(1, 1)
	opts.Buffer = f.buf
	opts.Selection = f.sel
	opts.Widget = f.widget
	if opts.Storage == nil {
		opts.Storage = storage.NewMemStore()
	}
	if opts.Commit == nil {
		opts.Commit = ImmediateScheduler{}
	}
	f.store = opts.Storage
	f.ctrl = NewController(opts)
	t.Cleanup(f.ctrl.Dispose)
	return f
}

func TestStartSeedsSearchStringFromSelection(t *testing.T) {
	f := newFixture(t, "pick this word", Options{})
	f.sel.SetSelection(buffer.NewRange(1, 6, 1, 10))

	f.ctrl.Start(StartOptions{SeedSearchStringFromSelection: true, Focus: FocusSearchInput})
	if got := f.ctrl.State().SearchString(); got != "this" {
		t.Fatalf("expected seeded search string, got %q", got)
	}
	if !f.widget.visible {
		t.Fatal("expected widget shown")
	}
	if f.widget.focused != FocusSearchInput {
		t.Fatal("expected search input focused")
	}
}

func TestStartKeepsPriorTermWithoutSeed(t *testing.T) {
	f := newFixture(t, "text", Options{})
	f.ctrl.SetSearchString("prior")

	f.ctrl.Start(StartOptions{})
	if got := f.ctrl.State().SearchString(); got != "prior" {
		t.Fatalf("expected prior term kept, got %q", got)
	}
}

func TestCloseAlwaysClearsScope(t *testing.T) {
	f := newFixture(t, "a\nb\nc", Options{})
	f.ctrl.Start(StartOptions{})
	scope := buffer.NewRange(1, 1, 2, 2)
	f.ctrl.SetSearchScope(&scope)
	if f.ctrl.State().SearchScope() == nil {
		t.Fatal("scope not set")
	}

	f.ctrl.CloseFindWidget()
	if f.ctrl.State().SearchScope() != nil {
		t.Fatal("close must clear the scope")
	}
	if f.widget.visible {
		t.Fatal("close must hide the widget")
	}

	// Idempotent, and still clears a scope set while closed.
	f.ctrl.SetSearchScope(&scope)
	f.ctrl.CloseFindWidget()
	if f.ctrl.State().SearchScope() != nil {
		t.Fatal("close on a closed controller must still clear the scope")
	}
	if f.widget.hides != 1 {
		t.Fatalf("expected a single hide, got %d", f.widget.hides)
	}
}

func TestNextMatchAlternatesOnSingleLine(t *testing.T) {
	f := newFixture(t, "import nls = require('vs/nls');", Options{})
	f.sel.moveCursor(1, 9)
	f.ctrl.SetSearchString("nls")

	// SetSearchString lands on the match containing the cursor.
	if got := f.sel.Selection(); got != buffer.NewRange(1, 8, 1, 11) {
		t.Fatalf("expected initial match [8,11), got %v", got)
	}

	f.ctrl.MoveToNextMatch()
	if got := f.sel.Selection(); got != buffer.NewRange(1, 26, 1, 29) {
		t.Fatalf("expected second match [26,29), got %v", got)
	}
	f.ctrl.MoveToNextMatch()
	if got := f.sel.Selection(); got != buffer.NewRange(1, 8, 1, 11) {
		t.Fatalf("expected wrap back to [8,11), got %v", got)
	}
	f.ctrl.MoveToNextMatch()
	if got := f.sel.Selection(); got != buffer.NewRange(1, 26, 1, 29) {
		t.Fatalf("expected strict alternation, got %v", got)
	}
}

func TestNextFromBareCursorBetweenMatches(t *testing.T) {
	f := newFixture(t, "import nls = require('vs/nls');", Options{})
	f.ctrl.SetSearchString("zzz") // no matches; selection untouched
	f.sel.moveCursor(1, 9)

	f.ctrl.SetSearchString("nls")
	f.sel.moveCursor(1, 12) // past the first match, before the second
	f.ctrl.MoveToNextMatch()
	if got := f.sel.Selection(); got != buffer.NewRange(1, 26, 1, 29) {
		t.Fatalf("expected [26,29), got %v", got)
	}
}

func TestPrevMatchCyclesBackwards(t *testing.T) {
	f := newFixture(t, "import nls = require('vs/nls');", Options{})
	f.sel.moveCursor(1, 9)
	f.ctrl.SetSearchString("nls")

	f.ctrl.MoveToPrevMatch()
	if got := f.sel.Selection(); got != buffer.NewRange(1, 26, 1, 29) {
		t.Fatalf("expected wrap to last match, got %v", got)
	}
	f.ctrl.MoveToPrevMatch()
	if got := f.sel.Selection(); got != buffer.NewRange(1, 8, 1, 11) {
		t.Fatalf("expected first match, got %v", got)
	}
}

func TestNextMatchCyclesThroughEmptyMatches(t *testing.T) {
	f := newFixture(t, "\nline2\nline3", Options{})
	f.ctrl.ToggleRegex()
	f.ctrl.SetSearchString("^")

	if got := f.sel.Selection(); got != buffer.NewRange(1, 1, 1, 1) {
		t.Fatalf("expected caret match on line 1, got %v", got)
	}

	f.ctrl.MoveToNextMatch()
	if got := f.sel.Selection(); got != buffer.NewRange(2, 1, 2, 1) {
		t.Fatalf("expected advance to line 2, got %v", got)
	}
	f.ctrl.MoveToNextMatch()
	if got := f.sel.Selection(); got != buffer.NewRange(3, 1, 3, 1) {
		t.Fatalf("expected advance to line 3, got %v", got)
	}
	f.ctrl.MoveToNextMatch()
	if got := f.sel.Selection(); got != buffer.NewRange(1, 1, 1, 1) {
		t.Fatalf("expected wrap to line 1, got %v", got)
	}

	f.ctrl.MoveToPrevMatch()
	if got := f.sel.Selection(); got != buffer.NewRange(3, 1, 3, 1) {
		t.Fatalf("expected prev to wrap to line 3, got %v", got)
	}
}

func TestNoMatchLeavesSelectionAndReportsZero(t *testing.T) {
	f := newFixture(t, "nothing here", Options{})
	f.sel.moveCursor(1, 5)
	f.ctrl.SetSearchString("absent")
	f.ctrl.MoveToNextMatch()

	cursor := buffer.Position{Line: 1, Column: 5}
	if got := f.sel.Selection(); got != (buffer.Range{Start: cursor, End: cursor}) {
		t.Fatalf("selection must stay put on no match, got %v", got)
	}
	if got := f.ctrl.State().MatchesCount(); got != 0 {
		t.Fatalf("expected zero matches, got %d", got)
	}
}

func TestMalformedRegexBehavesAsNoMatch(t *testing.T) {
	f := newFixture(t, "content (here)", Options{})
	f.ctrl.ToggleRegex()
	f.ctrl.SetSearchString("(")
	f.ctrl.MoveToNextMatch()

	if got := f.ctrl.State().MatchesCount(); got != 0 {
		t.Fatalf("malformed regex must report zero matches, got %d", got)
	}
}

func TestToggleRegexPersistsAndReloads(t *testing.T) {
	store := storage.NewMemStore()
	f := newFixture(t, "text", Options{Storage: store})

	f.ctrl.ToggleRegex()
	if !f.ctrl.State().IsRegex() {
		t.Fatal("toggle must flip the flag")
	}
	if !store.GetBool(KeyIsRegex, false) {
		t.Fatal("toggle must persist the flag")
	}

	reloaded := newFixture(t, "text", Options{Storage: store})
	if !reloaded.ctrl.State().IsRegex() {
		t.Fatal("a fresh controller must seed isRegex from storage")
	}

	f.ctrl.ToggleRegex()
	if store.GetBool(KeyIsRegex, true) {
		t.Fatal("second toggle must persist false")
	}
}

func TestTogglesCoverAllOptions(t *testing.T) {
	store := storage.NewMemStore()
	f := newFixture(t, "text", Options{Storage: store})

	f.ctrl.ToggleCaseSensitive()
	f.ctrl.ToggleWholeWords()
	if !store.GetBool(KeyMatchCase, false) || !store.GetBool(KeyWholeWord, false) {
		t.Fatal("all option toggles must persist")
	}
}

func TestReplaceCollapsesWhitespaceExactly(t *testing.T) {
	f := newFixture(t, "HRESULT OnAmbientPropertyChange(DISPID   dispid);", Options{})
	f.ctrl.ToggleRegex()
	f.ctrl.SetSearchString(`\b\s{3}\b`)
	f.ctrl.SetReplaceString(" ")

	f.ctrl.MoveToNextMatch()
	f.ctrl.Replace()

	want := "HRESULT OnAmbientPropertyChange(DISPID dispid);"
	if got := f.buf.Value(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestReplaceCaretAnchorInsertsPerLine(t *testing.T) {
	f := newFixture(t, "\nline2\nline3", Options{})
	f.ctrl.ToggleRegex()
	f.ctrl.SetSearchString("^")
	f.ctrl.SetReplaceString("x")

	// Put the cursor on the second line's anchor match.
	f.sel.SetSelection(buffer.NewRange(2, 1, 2, 1))
	f.ctrl.Replace()

	if got := f.buf.Value(); got != "\nxline2\nline3" {
		t.Fatalf("expected pure insertion on line 2, got %q", got)
	}
}

func TestReplaceExpandsCaptureGroups(t *testing.T) {
	f := newFixture(t, "name: value", Options{})
	f.ctrl.ToggleRegex()
	f.ctrl.SetSearchString(`(\w+): (\w+)`)
	f.ctrl.SetReplaceString("$2: $1")

	f.ctrl.MoveToNextMatch()
	f.ctrl.Replace()

	if got := f.buf.Value(); got != "value: name" {
		t.Fatalf("expected swapped groups, got %q", got)
	}
}

func TestReplaceOnStaleSelectionIsNoOpThenResearch(t *testing.T) {
	f := newFixture(t, "alpha beta alpha", Options{})
	f.ctrl.SetSearchString("alpha")
	f.ctrl.SetReplaceString("gamma")
	f.ctrl.MoveToNextMatch()

	// An external edit shifts the text under the captured selection.
	if err := f.buf.ApplyEdits([]buffer.Edit{{Range: buffer.NewRange(1, 1, 1, 1), Text: "zz "}}); err != nil {
		t.Fatalf("external edit: %v", err)
	}

	before := f.buf.Value()
	f.ctrl.Replace()
	if got := f.buf.Value(); got != before {
		t.Fatalf("stale replace must not edit, got %q", got)
	}
	// The selection moved to a real match instead.
	if got := f.buf.TextInRange(f.sel.Selection()); got != "alpha" {
		t.Fatalf("expected re-search to land on a match, got %q", got)
	}
}

func TestReplaceAdvancesToNextMatch(t *testing.T) {
	f := newFixture(t, "foo foo foo", Options{})
	f.ctrl.SetSearchString("foo")
	f.ctrl.SetReplaceString("bar")

	f.ctrl.Replace()
	if got := f.buf.Value(); got != "bar foo foo" {
		t.Fatalf("unexpected buffer %q", got)
	}
	if got := f.buf.TextInRange(f.sel.Selection()); got != "foo" {
		t.Fatalf("expected selection on next match, got %q", got)
	}

	f.ctrl.Replace()
	if got := f.buf.Value(); got != "bar bar foo" {
		t.Fatalf("unexpected buffer %q", got)
	}
}

func TestReplaceAllIsSingleAtomicBatch(t *testing.T) {
	f := newFixture(t, "foo foo\nfoo", Options{})
	f.ctrl.SetSearchString("foo")
	f.ctrl.SetReplaceString("bar")

	version := f.buf.Version()
	f.ctrl.ReplaceAll()
	if got := f.buf.Value(); got != "bar bar\nbar" {
		t.Fatalf("unexpected buffer %q", got)
	}
	if f.buf.Version() != version+1 {
		t.Fatalf("replace all must be one edit batch, version went %d -> %d", version, f.buf.Version())
	}
	if got := f.ctrl.State().MatchesCount(); got != 0 {
		t.Fatalf("expected zero matches after replace all, got %d", got)
	}
}

func TestReplaceAllWithSelfOverlappingTerm(t *testing.T) {
	f := newFixture(t, "aaa", Options{})
	f.ctrl.SetSearchString("aa")
	f.ctrl.SetReplaceString("b")

	if got := f.ctrl.State().MatchesCount(); got != 1 {
		t.Fatalf("expected 1 match for %q in %q, got %d", "aa", "aaa", got)
	}

	f.ctrl.ReplaceAll()
	if got := f.buf.Value(); got != "ba" {
		t.Fatalf("expected %q after replace all, got %q", "ba", got)
	}
}

func TestReplaceAllPreviewLeavesBufferIntact(t *testing.T) {
	f := newFixture(t, "foo foo", Options{})
	f.ctrl.SetSearchString("foo")
	f.ctrl.SetReplaceString("bar")

	diff, err := f.ctrl.ReplaceAllPreview()
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if !strings.Contains(diff, "bar bar") {
		t.Fatalf("diff missing replacement: %q", diff)
	}
	if got := f.buf.Value(); got != "foo foo" {
		t.Fatalf("preview must not edit the buffer, got %q", got)
	}
}

func TestSelectAllMatches(t *testing.T) {
	f := newFixture(t, "a b a b a", Options{})
	f.ctrl.SetSearchString("a")
	f.ctrl.SelectAllMatches()

	if got := len(f.sel.Selections()); got != 3 {
		t.Fatalf("expected 3 selections, got %d", got)
	}
}

func TestImmediateCommitRecordsEveryDistinctTerm(t *testing.T) {
	f := newFixture(t, "text", Options{Commit: ImmediateScheduler{}})
	f.ctrl.SetSearchString("one")
	f.ctrl.SetSearchString("two")

	entries := f.ctrl.History().Entries()
	if len(entries) != 2 || entries[0] != "one" || entries[1] != "two" {
		t.Fatalf("unexpected history %v", entries)
	}
}

func TestDebouncedCommitCoalesces(t *testing.T) {
	f := newFixture(t, "text", Options{Commit: NewDelayedScheduler(20 * time.Millisecond)})

	f.ctrl.SetSearchString("1")
	f.ctrl.SetSearchString("12")
	f.ctrl.SetSearchString("123")

	deadline := time.Now().Add(2 * time.Second)
	for f.ctrl.History().Len() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	entries := f.ctrl.History().Entries()
	if len(entries) != 1 || entries[0] != "123" {
		t.Fatalf("burst must commit only the final value, got %v", entries)
	}
}

func TestHistoryNavigationNeverCommits(t *testing.T) {
	f := newFixture(t, "text", Options{})
	f.ctrl.SetSearchString("one")
	f.ctrl.SetSearchString("two")

	before := f.ctrl.History().Len()
	f.ctrl.ShowPreviousFindTerm()
	if got := f.ctrl.State().SearchString(); got != "two" {
		t.Fatalf("expected newest term first, got %q", got)
	}
	f.ctrl.ShowPreviousFindTerm()
	if got := f.ctrl.State().SearchString(); got != "one" {
		t.Fatalf("expected older term, got %q", got)
	}
	f.ctrl.ShowNextFindTerm()
	if got := f.ctrl.State().SearchString(); got != "two" {
		t.Fatalf("expected newer term, got %q", got)
	}
	if f.ctrl.History().Len() != before {
		t.Fatalf("navigation must not grow history: %d -> %d", before, f.ctrl.History().Len())
	}
}

func TestDisposeCancelsPendingCommit(t *testing.T) {
	f := newFixture(t, "text", Options{Commit: NewDelayedScheduler(30 * time.Millisecond)})
	f.ctrl.SetSearchString("doomed")
	f.ctrl.Dispose()

	time.Sleep(80 * time.Millisecond)
	if got := f.ctrl.History().Len(); got != 0 {
		t.Fatalf("dispose must cancel the pending commit, history has %d entries", got)
	}

	f.ctrl.Dispose() // idempotent
}

func TestScopeLimitsNavigation(t *testing.T) {
	f := newFixture(t, "hit\nhit\nhit", Options{})
	f.ctrl.Start(StartOptions{})
	scope := buffer.NewRange(2, 1, 2, 4)
	f.ctrl.SetSearchScope(&scope)
	f.ctrl.SetSearchString("hit")

	f.ctrl.MoveToNextMatch()
	if got := f.sel.Selection(); got != buffer.NewRange(2, 1, 2, 4) {
		t.Fatalf("expected the scoped match, got %v", got)
	}
	f.ctrl.MoveToNextMatch()
	if got := f.sel.Selection(); got != buffer.NewRange(2, 1, 2, 4) {
		t.Fatalf("a single scoped match must cycle onto itself, got %v", got)
	}
	if got := f.ctrl.State().MatchesCount(); got != 1 {
		t.Fatalf("expected one scoped match, got %d", got)
	}
}

func TestSelectionMoveIsSynchronous(t *testing.T) {
	f := newFixture(t, "needle in text", Options{})
	moved := false
	f.ctrl.State().OnChange(func(c findstate.Change) {
		if c.Matches {
			moved = true
		}
	})
	f.ctrl.SetSearchString("needle")
	if !moved {
		t.Fatal("match info must be published before SetSearchString returns")
	}
	if got := f.buf.TextInRange(f.sel.Selection()); got != "needle" {
		t.Fatalf("selection must move synchronously, got %q", got)
	}
}
