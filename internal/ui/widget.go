package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/unkn0wn-root/findterm/internal/find"
	"github.com/unkn0wn-root/findterm/internal/findstate"
	"github.com/unkn0wn-root/findterm/internal/theme"
)

type widgetFocus int

const (
	widgetFocusNone widgetFocus = iota
	widgetFocusSearch
	widgetFocusReplace
)

// FindWidget is the find/replace bar. It satisfies find.Widget, so the
// controller can show, hide and focus it without knowing how it renders.
type FindWidget struct {
	theme theme.Theme

	search  textinput.Model
	replace textinput.Model

	ctrl  *find.Controller
	unsub func()

	visible     bool
	showReplace bool
	focus       widgetFocus
	width       int
}

func NewFindWidget(th theme.Theme) *FindWidget {
	search := textinput.New()
	search.Placeholder = "find"
	search.CharLimit = 0
	search.Prompt = ""
	search.SetCursor(0)
	search.Blur()

	replace := textinput.New()
	replace.Placeholder = "replace"
	replace.CharLimit = 0
	replace.Prompt = ""
	replace.SetCursor(0)
	replace.Blur()

	return &FindWidget{
		theme:   th,
		search:  search,
		replace: replace,
	}
}

// Bind attaches the controller after construction and mirrors state
// changes into the inputs, so history navigation and selection seeding
// show up without the widget polling.
func (w *FindWidget) Bind(ctrl *find.Controller) {
	w.ctrl = ctrl
	w.unsub = ctrl.State().OnChange(func(ch findstate.Change) {
		if ch.SearchString && ctrl.State().SearchString() != w.search.Value() {
			w.search.SetValue(ctrl.State().SearchString())
			w.search.CursorEnd()
		}
		if ch.ReplaceString && ctrl.State().ReplaceString() != w.replace.Value() {
			w.replace.SetValue(ctrl.State().ReplaceString())
			w.replace.CursorEnd()
		}
	})
}

func (w *FindWidget) Close() {
	if w.unsub != nil {
		w.unsub()
		w.unsub = nil
	}
}

func (w *FindWidget) Show(opts find.WidgetOptions) {
	w.visible = true
	if opts.RevealReplace {
		w.showReplace = true
	}
}

func (w *FindWidget) Hide() {
	w.visible = false
	w.showReplace = false
	w.setFocus(widgetFocusNone)
}

func (w *FindWidget) Focus(action find.FocusAction) {
	switch action {
	case find.FocusSearchInput:
		w.setFocus(widgetFocusSearch)
	case find.FocusReplaceInput:
		w.showReplace = true
		w.setFocus(widgetFocusReplace)
	}
}

func (w *FindWidget) Visible() bool      { return w.visible }
func (w *FindWidget) Focused() bool      { return w.focus != widgetFocusNone }
func (w *FindWidget) SetWidth(width int) { w.width = width }

func (w *FindWidget) SearchFocused() bool  { return w.focus == widgetFocusSearch }
func (w *FindWidget) ReplaceFocused() bool { return w.focus == widgetFocusReplace }

// CycleFocus moves between the search and replace inputs. With the
// replace row hidden it stays on search.
func (w *FindWidget) CycleFocus() {
	if !w.showReplace || w.focus == widgetFocusReplace {
		w.setFocus(widgetFocusSearch)
		return
	}
	w.setFocus(widgetFocusReplace)
}

func (w *FindWidget) setFocus(f widgetFocus) {
	w.focus = f
	if f == widgetFocusSearch {
		w.search.Focus()
	} else {
		w.search.Blur()
	}
	if f == widgetFocusReplace {
		w.replace.Focus()
	} else {
		w.replace.Blur()
	}
}

// HandleKey routes a key press into the focused input and pushes the new
// value into the controller.
func (w *FindWidget) HandleKey(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	switch w.focus {
	case widgetFocusSearch:
		w.search, cmd = w.search.Update(msg)
		if w.ctrl != nil {
			w.ctrl.SetSearchString(w.search.Value())
		}
	case widgetFocusReplace:
		w.replace, cmd = w.replace.Update(msg)
		if w.ctrl != nil {
			w.ctrl.SetReplaceString(w.replace.Value())
		}
	}
	return cmd
}

func (w *FindWidget) counterText() string {
	if w.ctrl == nil {
		return ""
	}
	st := w.ctrl.State()
	if st.SearchString() == "" {
		return ""
	}
	if st.MatchesCount() == 0 {
		return "No results"
	}
	return fmt.Sprintf("%d/%d", st.MatchesPosition(), st.MatchesCount())
}
