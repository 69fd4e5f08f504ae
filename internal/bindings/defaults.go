package bindings

var (
	// Action identifiers exposed via KnownActions for docs/config validation.
	ActionOpenFind          ActionID = "open_find"
	ActionOpenReplace       ActionID = "open_replace"
	ActionNextMatch         ActionID = "next_match"
	ActionPrevMatch         ActionID = "prev_match"
	ActionToggleRegex       ActionID = "toggle_regex"
	ActionToggleCase        ActionID = "toggle_case"
	ActionToggleWholeWord   ActionID = "toggle_whole_word"
	ActionToggleInSelection ActionID = "toggle_in_selection"
	ActionReplaceOne        ActionID = "replace_one"
	ActionReplaceAll        ActionID = "replace_all"
	ActionPreviewReplaceAll ActionID = "preview_replace_all"
	ActionSelectAllMatches  ActionID = "select_all_matches"
	ActionHistoryPrev       ActionID = "history_prev"
	ActionHistoryNext       ActionID = "history_next"
	ActionCopyMatch         ActionID = "copy_match"
	ActionCloseFind         ActionID = "close_find"
	ActionUndo              ActionID = "undo"
	ActionQuitApp           ActionID = "quit_app"
)

var definitions = []definition{
	def(ActionOpenFind, false, "ctrl+f"),
	def(ActionOpenReplace, false, "ctrl+h", "ctrl+r"),
	def(ActionNextMatch, true, "f3", "ctrl+g"),
	def(ActionPrevMatch, true, "shift+f3", "ctrl+shift+g"),
	def(ActionToggleRegex, false, "alt+r"),
	def(ActionToggleCase, false, "alt+c"),
	def(ActionToggleWholeWord, false, "alt+w"),
	def(ActionToggleInSelection, false, "alt+l"),
	def(ActionReplaceOne, false, "ctrl+shift+h"),
	def(ActionReplaceAll, false, "ctrl+alt+enter"),
	def(ActionPreviewReplaceAll, false, "ctrl+alt+p"),
	def(ActionSelectAllMatches, false, "alt+enter"),
	def(ActionHistoryPrev, true, "up"),
	def(ActionHistoryNext, true, "down"),
	def(ActionCopyMatch, false, "ctrl+shift+c"),
	def(ActionCloseFind, false, "esc"),
	def(ActionUndo, false, "ctrl+z"),
	def(ActionQuitApp, false, "ctrl+q", "ctrl+d"),
}

var definitionLookup = func() map[ActionID]definition {
	lookup := make(map[ActionID]definition, len(definitions))
	for _, def := range definitions {
		lookup[def.id] = def
	}
	return lookup
}()
