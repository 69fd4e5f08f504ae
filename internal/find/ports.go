package find

import "github.com/unkn0wn-root/findterm/internal/buffer"

// FocusAction says where keyboard focus should land when the find widget
// opens. Closed set; the zero value changes nothing.
type FocusAction int

const (
	NoFocusChange FocusAction = iota
	FocusSearchInput
	FocusReplaceInput
)

// StartOptions configures one Start call.
type StartOptions struct {
	ForceRevealReplace            bool
	SeedSearchStringFromSelection bool
	Focus                         FocusAction
	Animate                       bool
}

// WidgetOptions is passed through to the widget on Show.
type WidgetOptions struct {
	RevealReplace bool
	Animate       bool
}

// SelectionHost is the editor surface the controller drives: it owns the
// cursor/selection and can scroll a range into view. Selections are
// buffer ranges; an empty range is a bare cursor.
type SelectionHost interface {
	Selection() buffer.Range
	SetSelection(buffer.Range)
	Selections() []buffer.Range
	SetSelections([]buffer.Range)
	Reveal(buffer.Range)
}

// Widget is the find bar's visibility/focus surface. The controller holds
// no opinion on rendering.
type Widget interface {
	Show(WidgetOptions)
	Hide()
	Focus(FocusAction)
}
