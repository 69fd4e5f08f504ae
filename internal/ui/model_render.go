package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"github.com/unkn0wn-root/findterm/internal/buffer"
	"github.com/unkn0wn-root/findterm/internal/match"
)

const statusTextLimit = 80

func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.preview != "" {
		return m.renderPreview()
	}

	var b strings.Builder
	if m.widget.Visible() {
		b.WriteString(m.widget.View())
		b.WriteString("\n")
	}
	b.WriteString(m.renderEditor())
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	return b.String()
}

func (m *Model) editorHeight() int {
	h := m.height - 2
	if m.widget.Visible() {
		widgetRows := 3
		if m.widget.showReplace {
			widgetRows = 4
		}
		h -= widgetRows
	}
	if h < 1 {
		h = 1
	}
	return h
}

func (m *Model) renderEditor() string {
	matches := m.currentMatches()
	sel := m.Selection()

	gutterWidth := len(fmt.Sprintf("%d", m.buf.LineCount()))
	visible := m.editorHeight()

	var rows []string
	for i := 0; i < visible; i++ {
		line := m.scroll + i + 1
		if line > m.buf.LineCount() {
			rows = append(rows, "")
			continue
		}
		num := gutterPad(fmt.Sprintf("%d", line), gutterWidth)
		gutter := m.theme.EditorLineNumber.Render(num + " ")

		content := m.buf.LineContent(line)
		spans := lineSpans(matches, sel, line)
		rendered := renderLine(content, spans, m.theme)
		if line == sel.Start.Line && len(spans) == 0 {
			rendered = m.theme.EditorCursorLine.Render(rendered)
		}
		rows = append(rows, ansi.Truncate(gutter+rendered, m.width-4, "…"))
	}

	pane := strings.Join(rows, "\n")
	return m.theme.EditorFrame.
		Width(m.width - 2).
		Render(pane)
}

func (m *Model) renderStatus() string {
	left := m.theme.StatusBarKey.Render("ctrl+f") +
		m.theme.StatusBarValue.Render(" find  ") +
		m.theme.StatusBarKey.Render("ctrl+h") +
		m.theme.StatusBarValue.Render(" replace  ") +
		m.theme.StatusBarKey.Render("ctrl+q") +
		m.theme.StatusBarValue.Render(" quit")

	text := truncateGraphemes(m.status.text, statusTextLimit)
	var right string
	switch m.status.level {
	case statusError:
		right = m.theme.Error.Render(text)
	case statusWarn:
		right = m.theme.Notification.Render(text)
	case statusSuccess:
		right = m.theme.Success.Render(text)
	default:
		right = m.theme.StatusBarValue.Render(text)
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return m.theme.StatusBar.Render(left + strings.Repeat(" ", gap) + right)
}

func (m *Model) renderPreview() string {
	title := m.theme.WidgetTitle.Render("Replace preview")
	hint := m.theme.StatusBarValue.Render("esc to dismiss")
	body := m.preview

	maxLines := m.height - 4
	if maxLines > 0 {
		lines := strings.Split(body, "\n")
		if len(lines) > maxLines {
			lines = lines[:maxLines]
			lines = append(lines, fmt.Sprintf("… %d more lines", len(strings.Split(body, "\n"))-maxLines))
		}
		body = strings.Join(lines, "\n")
	}

	frame := m.theme.WidgetFrameFocused.Padding(0, 1).Width(m.width - 2)
	return frame.Render(title + "\n" + body + "\n" + hint)
}

// currentMatches recomputes the visible match set from live state. Render
// time recompute keeps highlights honest after buffer edits.
func (m *Model) currentMatches() []buffer.Range {
	if !m.ctrl.Started() {
		return nil
	}
	st := m.ctrl.State()
	if st.SearchString() == "" {
		return nil
	}
	q := match.Query{
		SearchString: st.SearchString(),
		IsRegex:      st.IsRegex(),
		MatchCase:    st.MatchCase(),
		WholeWord:    st.WholeWord(),
		Scope:        st.SearchScope(),
	}
	matches, err := m.finder.Matches(q)
	if err != nil {
		return nil
	}
	return matches
}

func gutterPad(s string, width int) string {
	pad := width - runewidth.StringWidth(s)
	if pad <= 0 {
		return s
	}
	return strings.Repeat(" ", pad) + s
}
