package theme

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

type BadgeStyle struct {
	Active   lipgloss.Style
	Inactive lipgloss.Style
}

type Theme struct {
	EditorFrame        lipgloss.Style
	EditorLineNumber   lipgloss.Style
	EditorCursorLine   lipgloss.Style
	WidgetFrame        lipgloss.Style
	WidgetFrameFocused lipgloss.Style
	WidgetTitle        lipgloss.Style
	InputLabel         lipgloss.Style
	InputLabelFocused  lipgloss.Style
	MatchCounter       lipgloss.Style
	MatchCounterEmpty  lipgloss.Style
	MatchCurrent       lipgloss.Style
	MatchOther         lipgloss.Style
	ScopeMarker        lipgloss.Style
	OptionBadge        BadgeStyle
	StatusBar          lipgloss.Style
	StatusBarKey       lipgloss.Style
	StatusBarValue     lipgloss.Style
	Notification       lipgloss.Style
	Error              lipgloss.Style
	Success            lipgloss.Style
}

func DefaultTheme() Theme {
	if !termenv.HasDarkBackground() {
		return LightTheme()
	}
	return DarkTheme()
}

func DarkTheme() Theme {
	accent := lipgloss.Color("#7D56F4")
	base := lipgloss.NewStyle().Foreground(lipgloss.Color("#dcd7ff"))

	return Theme{
		EditorFrame:        base.Copy().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#403B59")),
		EditorLineNumber:   lipgloss.NewStyle().Foreground(lipgloss.Color("#5E5A72")),
		EditorCursorLine:   lipgloss.NewStyle().Background(lipgloss.Color("#2C2640")),
		WidgetFrame:        base.Copy().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#5E5A72")),
		WidgetFrameFocused: base.Copy().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(accent),
		WidgetTitle:        lipgloss.NewStyle().Foreground(accent).Bold(true),
		InputLabel:         lipgloss.NewStyle().Foreground(lipgloss.Color("#A6A1BB")),
		InputLabelFocused:  lipgloss.NewStyle().Foreground(lipgloss.Color("#E5E1FF")).Bold(true),
		MatchCounter:       lipgloss.NewStyle().Foreground(lipgloss.Color("#6EF17E")),
		MatchCounterEmpty:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6E6E")),
		MatchCurrent: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#1A1020")).
			Background(lipgloss.Color("#FBC859")).
			Bold(true),
		MatchOther: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F5F2FF")).
			Background(lipgloss.Color("#4A4168")),
		ScopeMarker: lipgloss.NewStyle().Foreground(lipgloss.Color("#15AABF")),
		OptionBadge: BadgeStyle{
			Active: lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FDFBFF")).
				Background(accent).
				Bold(true).
				Padding(0, 1),
			Inactive: lipgloss.NewStyle().
				Foreground(lipgloss.Color("#5E5A72")).
				Padding(0, 1),
		},
		StatusBar:      lipgloss.NewStyle().Foreground(lipgloss.Color("#A6A1BB")).Padding(0, 1),
		StatusBarKey:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FF8B39")).Bold(true),
		StatusBarValue: lipgloss.NewStyle().Foreground(lipgloss.Color("#EAEAEA")),
		Notification:   lipgloss.NewStyle().Foreground(lipgloss.Color("#E0DEF4")).Background(lipgloss.Color("#433C59")).Padding(0, 1),
		Error:          lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6E6E")),
		Success:        lipgloss.NewStyle().Foreground(lipgloss.Color("#6EF17E")),
	}
}

func LightTheme() Theme {
	accent := lipgloss.Color("#5A32C9")
	base := lipgloss.NewStyle().Foreground(lipgloss.Color("#2B2540"))

	return Theme{
		EditorFrame:        base.Copy().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#C9C4DE")),
		EditorLineNumber:   lipgloss.NewStyle().Foreground(lipgloss.Color("#9A93B5")),
		EditorCursorLine:   lipgloss.NewStyle().Background(lipgloss.Color("#ECE8F8")),
		WidgetFrame:        base.Copy().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#9A93B5")),
		WidgetFrameFocused: base.Copy().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(accent),
		WidgetTitle:        lipgloss.NewStyle().Foreground(accent).Bold(true),
		InputLabel:         lipgloss.NewStyle().Foreground(lipgloss.Color("#6B6587")),
		InputLabelFocused:  lipgloss.NewStyle().Foreground(lipgloss.Color("#2B2540")).Bold(true),
		MatchCounter:       lipgloss.NewStyle().Foreground(lipgloss.Color("#1D7A3A")),
		MatchCounterEmpty:  lipgloss.NewStyle().Foreground(lipgloss.Color("#C22F2F")),
		MatchCurrent: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#1A1020")).
			Background(lipgloss.Color("#FFD46A")).
			Bold(true),
		MatchOther: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#2B2540")).
			Background(lipgloss.Color("#D9D2F0")),
		ScopeMarker: lipgloss.NewStyle().Foreground(lipgloss.Color("#0E7D8C")),
		OptionBadge: BadgeStyle{
			Active: lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FDFBFF")).
				Background(accent).
				Bold(true).
				Padding(0, 1),
			Inactive: lipgloss.NewStyle().
				Foreground(lipgloss.Color("#9A93B5")).
				Padding(0, 1),
		},
		StatusBar:      lipgloss.NewStyle().Foreground(lipgloss.Color("#6B6587")).Padding(0, 1),
		StatusBarKey:   lipgloss.NewStyle().Foreground(lipgloss.Color("#C2551B")).Bold(true),
		StatusBarValue: lipgloss.NewStyle().Foreground(lipgloss.Color("#2B2540")),
		Notification:   lipgloss.NewStyle().Foreground(lipgloss.Color("#2B2540")).Background(lipgloss.Color("#E4DFF5")).Padding(0, 1),
		Error:          lipgloss.NewStyle().Foreground(lipgloss.Color("#C22F2F")),
		Success:        lipgloss.NewStyle().Foreground(lipgloss.Color("#1D7A3A")),
	}
}

// ForName maps a settings theme name to a palette. Unknown names get the
// background-adaptive default.
func ForName(name string) Theme {
	switch name {
	case "dark":
		return DarkTheme()
	case "light":
		return LightTheme()
	default:
		return DefaultTheme()
	}
}
