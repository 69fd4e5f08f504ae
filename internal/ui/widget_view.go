package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const widgetInputWidth = 32

func (w *FindWidget) View() string {
	if !w.visible {
		return ""
	}

	th := w.theme
	frame := th.WidgetFrame
	if w.Focused() {
		frame = th.WidgetFrameFocused
	}

	searchLabel := th.InputLabel
	replaceLabel := th.InputLabel
	if w.SearchFocused() {
		searchLabel = th.InputLabelFocused
	}
	if w.ReplaceFocused() {
		replaceLabel = th.InputLabelFocused
	}

	w.search.Width = widgetInputWidth
	w.replace.Width = widgetInputWidth

	counter := w.counterText()
	counterStyle := th.MatchCounter
	if counter == "No results" {
		counterStyle = th.MatchCounterEmpty
	}

	searchRow := lipgloss.JoinHorizontal(
		lipgloss.Center,
		searchLabel.Render("Find    "),
		w.search.View(),
		" ",
		counterStyle.Render(counter),
		" ",
		w.badges(),
	)

	rows := []string{searchRow}
	if w.showReplace {
		rows = append(rows, lipgloss.JoinHorizontal(
			lipgloss.Center,
			replaceLabel.Render("Replace "),
			w.replace.View(),
		))
	}

	body := strings.Join(rows, "\n")
	rendered := frame.Padding(0, 1).Render(body)
	if w.width > 0 {
		rendered = lipgloss.NewStyle().MaxWidth(w.width).Render(rendered)
	}
	return rendered
}

func (w *FindWidget) badges() string {
	if w.ctrl == nil {
		return ""
	}
	st := w.ctrl.State()
	badge := w.theme.OptionBadge

	pick := func(on bool, label string) string {
		if on {
			return badge.Active.Render(label)
		}
		return badge.Inactive.Render(label)
	}

	parts := []string{
		pick(st.IsRegex(), ".*"),
		pick(st.MatchCase(), "Aa"),
		pick(st.WholeWord(), `\b`),
		pick(st.SearchScope() != nil, "[]"),
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, parts...)
}
