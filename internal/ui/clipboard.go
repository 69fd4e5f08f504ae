package ui

import (
	"github.com/atotto/clipboard"
)

// copyCurrentMatch puts the selected match text on the system clipboard.
func (m *Model) copyCurrentMatch() statusMsg {
	text := m.ctrl.CurrentMatchText()
	if text == "" {
		return statusMsg{text: "No match selected", level: statusWarn}
	}
	if err := clipboard.WriteAll(text); err != nil {
		return statusMsg{text: "Clipboard unavailable", level: statusWarn}
	}
	return statusMsg{text: "Match copied", level: statusInfo}
}
