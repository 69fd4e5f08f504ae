package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/unkn0wn-root/findterm/internal/bindings"
	"github.com/unkn0wn-root/findterm/internal/buffer"
	"github.com/unkn0wn-root/findterm/internal/find"
	"github.com/unkn0wn-root/findterm/internal/history"
	"github.com/unkn0wn-root/findterm/internal/storage"
	"github.com/unkn0wn-root/findterm/internal/theme"
)

const sampleText = "foo bar foo\nsecond line\nfoo again"

func newTestModel(t *testing.T, content string) *Model {
	t.Helper()
	m := NewModel(Config{
		InitialContent: content,
		Theme:          theme.DarkTheme(),
		Storage:        storage.NewMemStore(),
		History:        history.NewNavigator(0),
		Commit:         find.ImmediateScheduler{},
	})
	t.Cleanup(m.Close)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return m
}

func keyRunes(m *Model, s string) {
	for _, r := range s {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestOpenFindShowsWidgetAndFocusesSearch(t *testing.T) {
	m := newTestModel(t, sampleText)

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlF})

	if !m.widget.Visible() {
		t.Fatalf("widget should be visible after ctrl+f")
	}
	if !m.widget.SearchFocused() {
		t.Fatalf("search input should be focused")
	}
}

func TestOpenFindSeedsFromSelection(t *testing.T) {
	m := newTestModel(t, sampleText)
	m.SetSelection(buffer.NewRange(1, 5, 1, 8))

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlF})

	if got := m.ctrl.State().SearchString(); got != "bar" {
		t.Fatalf("seeded search string = %q, want %q", got, "bar")
	}
	if got := m.widget.search.Value(); got != "bar" {
		t.Fatalf("search input = %q, want %q", got, "bar")
	}
}

func TestTypingSearchesAndSelectsFirstMatch(t *testing.T) {
	m := newTestModel(t, sampleText)

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlF})
	keyRunes(m, "foo")

	st := m.ctrl.State()
	if st.MatchesCount() != 3 {
		t.Fatalf("matches count = %d, want 3", st.MatchesCount())
	}
	if got, want := m.Selection(), buffer.NewRange(1, 1, 1, 4); got != want {
		t.Fatalf("selection = %+v, want %+v", got, want)
	}
}

func TestEnterAdvancesToNextMatch(t *testing.T) {
	m := newTestModel(t, sampleText)

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlF})
	keyRunes(m, "foo")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if got, want := m.Selection(), buffer.NewRange(1, 9, 1, 12); got != want {
		t.Fatalf("selection = %+v, want %+v", got, want)
	}
	if pos := m.ctrl.State().MatchesPosition(); pos != 2 {
		t.Fatalf("matches position = %d, want 2", pos)
	}
}

func TestEscClosesWidget(t *testing.T) {
	m := newTestModel(t, sampleText)

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlF})
	keyRunes(m, "foo")
	m.Update(tea.KeyMsg{Type: tea.KeyEscape})

	if m.widget.Visible() {
		t.Fatalf("widget should hide on esc")
	}
	if m.ctrl.State().SearchScope() != nil {
		t.Fatalf("scope should clear on close")
	}
}

func TestReplaceFromWidget(t *testing.T) {
	m := newTestModel(t, sampleText)

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlH})
	keyRunes(m, "foo")
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if !m.widget.ReplaceFocused() {
		t.Fatalf("tab should focus replace input")
	}
	keyRunes(m, "qux")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if got := m.buf.LineContent(1); got != "qux bar foo" {
		t.Fatalf("line 1 = %q after replace", got)
	}
}

func TestAltTogglesRegexFromWidget(t *testing.T) {
	m := newTestModel(t, sampleText)

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlF})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}, Alt: true})

	if !m.ctrl.State().IsRegex() {
		t.Fatalf("alt+r should enable regex")
	}
}

func TestHistoryNavigationFromSearchInput(t *testing.T) {
	m := newTestModel(t, sampleText)

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlF})
	keyRunes(m, "bar")
	m.Update(tea.KeyMsg{Type: tea.KeyEscape})

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlF})
	m.Update(tea.KeyMsg{Type: tea.KeyUp})

	if got := m.widget.search.Value(); got != "bar" {
		t.Fatalf("up should recall %q, got %q", "bar", got)
	}
}

func TestCursorKeysMoveWhenWidgetHidden(t *testing.T) {
	m := newTestModel(t, sampleText)

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m.Update(tea.KeyMsg{Type: tea.KeyRight})

	if got, want := m.Selection().Start, (buffer.Position{Line: 2, Column: 2}); got != want {
		t.Fatalf("cursor = %+v, want %+v", got, want)
	}
}

func TestToggleScopeNeedsSelection(t *testing.T) {
	m := newTestModel(t, sampleText)

	m.applyAction(bindings.ActionToggleInSelection)
	if m.ctrl.State().SearchScope() != nil {
		t.Fatalf("bare cursor must not set a scope")
	}

	m.SetSelection(buffer.NewRange(1, 1, 1, 12))
	m.applyAction(bindings.ActionToggleInSelection)
	if m.ctrl.State().SearchScope() == nil {
		t.Fatalf("selection should set the scope")
	}

	m.applyAction(bindings.ActionToggleInSelection)
	if m.ctrl.State().SearchScope() != nil {
		t.Fatalf("second toggle should clear the scope")
	}
}

func TestPreviewOverlayShowsAndDismisses(t *testing.T) {
	m := newTestModel(t, sampleText)

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlF})
	keyRunes(m, "foo")
	m.applyAction(bindings.ActionPreviewReplaceAll)

	if m.preview == "" {
		t.Fatalf("preview diff should be captured")
	}
	if !strings.Contains(m.View(), "Replace preview") {
		t.Fatalf("preview overlay should render")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEscape})
	if m.preview != "" {
		t.Fatalf("esc should dismiss the preview")
	}
}

func TestRevealScrollsMatchIntoView(t *testing.T) {
	lines := make([]string, 100)
	for i := range lines {
		lines[i] = "filler"
	}
	lines[80] = "needle"
	m := newTestModel(t, strings.Join(lines, "\n"))

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlF})
	keyRunes(m, "needle")

	if m.scroll == 0 {
		t.Fatalf("matching line 81 should scroll into view")
	}
	top := m.scroll + 1
	if top > 81 || 81 >= top+m.editorHeight() {
		t.Fatalf("line 81 not visible with scroll %d height %d", m.scroll, m.editorHeight())
	}
}

func TestQuitAction(t *testing.T) {
	m := newTestModel(t, sampleText)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlQ})
	if cmd == nil {
		t.Fatalf("ctrl+q should quit")
	}
}
