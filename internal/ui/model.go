package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/unkn0wn-root/findterm/internal/bindings"
	"github.com/unkn0wn-root/findterm/internal/buffer"
	"github.com/unkn0wn-root/findterm/internal/find"
	"github.com/unkn0wn-root/findterm/internal/history"
	"github.com/unkn0wn-root/findterm/internal/match"
	"github.com/unkn0wn-root/findterm/internal/storage"
	"github.com/unkn0wn-root/findterm/internal/theme"

	"go.opentelemetry.io/otel/trace"
)

type Config struct {
	InitialContent string
	Theme          theme.Theme
	Storage        storage.Store
	History        *history.Navigator
	Commit         find.CommitScheduler
	Tracer         trace.Tracer
}

// Model hosts the demo editor pane plus the find widget. It is the
// controller's SelectionHost: it owns the cursor and scrolls matches into
// view.
type Model struct {
	theme   theme.Theme
	buf     *buffer.Buffer
	finder  *match.Finder
	ctrl    *find.Controller
	widget  *FindWidget
	matcher *bindings.Matcher

	sels   []buffer.Range
	scroll int
	width  int
	height int

	status  statusMsg
	preview string
}

func NewModel(cfg Config) *Model {
	buf := buffer.New(cfg.InitialContent)
	widget := NewFindWidget(cfg.Theme)

	m := &Model{
		theme:   cfg.Theme,
		buf:     buf,
		finder:  match.NewFinder(buf),
		widget:  widget,
		matcher: bindings.NewMatcher(),
		sels:    []buffer.Range{buffer.NewRange(1, 1, 1, 1)},
	}

	m.ctrl = find.NewController(find.Options{
		Buffer:    buf,
		Selection: m,
		Widget:    widget,
		Storage:   cfg.Storage,
		History:   cfg.History,
		Commit:    cfg.Commit,
		Tracer:    cfg.Tracer,
	})
	widget.Bind(m.ctrl)
	return m
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Close() {
	m.widget.Close()
	m.ctrl.Dispose()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.widget.SetWidth(msg.Width)
		return m, nil
	case statusMsg:
		m.status = msg
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if m.preview != "" {
		if key == "esc" || key == "q" {
			m.preview = ""
		}
		return m, nil
	}

	if m.widget.Visible() && m.widget.Focused() {
		return m.handleWidgetKey(msg, key)
	}

	if cursorKey(key) {
		m.moveCursor(key)
		return m, nil
	}
	if id, handled := m.matcher.Feed(key); handled {
		if id != "" {
			return m.applyAction(id)
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) handleWidgetKey(msg tea.KeyMsg, key string) (tea.Model, tea.Cmd) {
	switch key {
	case "esc":
		m.ctrl.CloseFindWidget()
		return m, nil
	case "enter":
		if m.widget.ReplaceFocused() {
			m.ctrl.Replace()
		} else {
			m.ctrl.MoveToNextMatch()
		}
		return m, nil
	case "shift+enter":
		m.ctrl.MoveToPrevMatch()
		return m, nil
	case "tab", "shift+tab":
		m.widget.CycleFocus()
		return m, nil
	case "up":
		if m.widget.SearchFocused() {
			m.ctrl.ShowPreviousFindTerm()
			return m, nil
		}
	case "down":
		if m.widget.SearchFocused() {
			m.ctrl.ShowNextFindTerm()
			return m, nil
		}
	}

	if id, handled := m.matcher.Feed(key); handled {
		if id != "" {
			return m.applyAction(id)
		}
		return m, nil
	}
	return m, m.widget.HandleKey(msg)
}

func (m *Model) applyAction(id bindings.ActionID) (tea.Model, tea.Cmd) {
	switch id {
	case bindings.ActionOpenFind:
		m.ctrl.Start(find.StartOptions{
			SeedSearchStringFromSelection: true,
			Focus:                         find.FocusSearchInput,
		})
	case bindings.ActionOpenReplace:
		m.ctrl.Start(find.StartOptions{
			ForceRevealReplace:            true,
			SeedSearchStringFromSelection: true,
			Focus:                         find.FocusSearchInput,
		})
	case bindings.ActionNextMatch:
		m.ctrl.MoveToNextMatch()
	case bindings.ActionPrevMatch:
		m.ctrl.MoveToPrevMatch()
	case bindings.ActionToggleRegex:
		m.ctrl.ToggleRegex()
	case bindings.ActionToggleCase:
		m.ctrl.ToggleCaseSensitive()
	case bindings.ActionToggleWholeWord:
		m.ctrl.ToggleWholeWords()
	case bindings.ActionToggleInSelection:
		m.toggleSearchScope()
	case bindings.ActionReplaceOne:
		m.ctrl.Replace()
	case bindings.ActionReplaceAll:
		m.ctrl.ReplaceAll()
		m.status = statusMsg{text: "Replaced all occurrences", level: statusSuccess}
	case bindings.ActionPreviewReplaceAll:
		diff, err := m.ctrl.ReplaceAllPreview()
		if err != nil {
			m.status = statusMsg{text: err.Error(), level: statusError}
			break
		}
		if diff == "" {
			m.status = statusMsg{text: "Nothing to replace", level: statusInfo}
			break
		}
		m.preview = diff
	case bindings.ActionSelectAllMatches:
		m.ctrl.SelectAllMatches()
	case bindings.ActionHistoryPrev:
		m.ctrl.ShowPreviousFindTerm()
	case bindings.ActionHistoryNext:
		m.ctrl.ShowNextFindTerm()
	case bindings.ActionCopyMatch:
		m.status = m.copyCurrentMatch()
	case bindings.ActionCloseFind:
		m.ctrl.CloseFindWidget()
	case bindings.ActionUndo:
		if m.buf.Undo() {
			m.clampSelections()
			m.status = statusMsg{text: "Undone", level: statusInfo}
		}
	case bindings.ActionQuitApp:
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) toggleSearchScope() {
	if m.ctrl.State().SearchScope() != nil {
		m.ctrl.SetSearchScope(nil)
		m.status = statusMsg{text: "Searching whole buffer", level: statusInfo}
		return
	}
	sel := m.Selection()
	if sel.IsEmpty() {
		m.status = statusMsg{text: "Select a region first", level: statusWarn}
		return
	}
	m.ctrl.SetSearchScope(&sel)
	m.status = statusMsg{text: "Searching in selection", level: statusInfo}
}

func cursorKey(key string) bool {
	switch key {
	case "up", "down", "left", "right", "home", "end", "pgup", "pgdown":
		return true
	}
	return false
}

func (m *Model) moveCursor(key string) {
	pos := m.Selection().Start
	switch key {
	case "up":
		pos.Line--
	case "down":
		pos.Line++
	case "left":
		pos.Column--
	case "right":
		pos.Column++
	case "home":
		pos.Column = 1
	case "end":
		pos.Column = len([]rune(m.buf.LineContent(pos.Line))) + 1
	case "pgup":
		pos.Line -= m.editorHeight()
	case "pgdown":
		pos.Line += m.editorHeight()
	}
	pos = m.clampPosition(pos)
	m.SetSelection(buffer.Range{Start: pos, End: pos})
	m.Reveal(buffer.Range{Start: pos, End: pos})
}

func (m *Model) clampPosition(p buffer.Position) buffer.Position {
	if p.Line < 1 {
		p.Line = 1
	}
	if p.Line > m.buf.LineCount() {
		p.Line = m.buf.LineCount()
	}
	max := len([]rune(m.buf.LineContent(p.Line))) + 1
	if p.Column < 1 {
		p.Column = 1
	}
	if p.Column > max {
		p.Column = max
	}
	return p
}

func (m *Model) clampSelections() {
	for i, sel := range m.sels {
		m.sels[i] = buffer.Range{
			Start: m.clampPosition(sel.Start),
			End:   m.clampPosition(sel.End),
		}
	}
}

// find.SelectionHost implementation.

func (m *Model) Selection() buffer.Range {
	if len(m.sels) == 0 {
		return buffer.NewRange(1, 1, 1, 1)
	}
	return m.sels[0]
}

func (m *Model) SetSelection(r buffer.Range) {
	m.sels = []buffer.Range{r}
}

func (m *Model) Selections() []buffer.Range {
	return append([]buffer.Range(nil), m.sels...)
}

func (m *Model) SetSelections(rs []buffer.Range) {
	if len(rs) == 0 {
		return
	}
	m.sels = append([]buffer.Range(nil), rs...)
}

func (m *Model) Reveal(r buffer.Range) {
	line := r.Start.Line - 1
	visible := m.editorHeight()
	if visible <= 0 {
		return
	}
	if line < m.scroll {
		m.scroll = line
	}
	if line >= m.scroll+visible {
		m.scroll = line - visible + 1
	}
}

func (m *Model) Controller() *find.Controller { return m.ctrl }
