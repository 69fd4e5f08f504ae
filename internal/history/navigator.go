package history

const defaultLimit = 100

// Navigator is a bounded recency list of search terms with a movable read
// cursor. Entries run oldest to newest and stay unique: re-adding a term
// relocates it to the newest slot. Past capacity the oldest entry is
// evicted. Not safe for concurrent use.
type Navigator struct {
	entries []string
	cursor  int // len(entries) means "off the newest end"
	limit   int
	store   *Store
}

func NewNavigator(limit int) *Navigator {
	if limit <= 0 {
		limit = defaultLimit
	}
	return &Navigator{limit: limit}
}

// NewPersistentNavigator restores entries from the store and writes back on
// every Add. A missing history file starts empty.
func NewPersistentNavigator(store *Store, limit int) (*Navigator, error) {
	n := NewNavigator(limit)
	n.store = store

	terms, err := store.Load()
	if err != nil {
		return n, err
	}
	for _, term := range terms {
		n.insert(term)
	}
	n.cursor = len(n.entries)
	return n, nil
}

// Add records value as the most recent term and parks the cursor past the
// newest end. Empty values are ignored.
func (n *Navigator) Add(value string) error {
	if value == "" {
		return nil
	}
	n.insert(value)
	n.cursor = len(n.entries)

	if n.store == nil {
		return nil
	}
	return n.store.Save(n.Entries())
}

func (n *Navigator) insert(value string) {
	for i, existing := range n.entries {
		if existing == value {
			n.entries = append(n.entries[:i], n.entries[i+1:]...)
			break
		}
	}
	n.entries = append(n.entries, value)
	if len(n.entries) > n.limit {
		n.entries = n.entries[len(n.entries)-n.limit:]
	}
}

// First moves the cursor to the oldest entry.
func (n *Navigator) First() (string, bool) {
	if len(n.entries) == 0 {
		return "", false
	}
	n.cursor = 0
	return n.entries[0], true
}

// Last moves the cursor to the newest entry.
func (n *Navigator) Last() (string, bool) {
	if len(n.entries) == 0 {
		return "", false
	}
	n.cursor = len(n.entries) - 1
	return n.entries[n.cursor], true
}

// Previous steps toward the oldest entry. From the parked position it lands
// on the newest entry; at the oldest it stays put.
func (n *Navigator) Previous() (string, bool) {
	if len(n.entries) == 0 {
		return "", false
	}
	if n.cursor > 0 {
		n.cursor--
	}
	return n.entries[n.cursor], true
}

// Next steps toward the newest entry. Stepping past the newest parks the
// cursor off the end and reports no value.
func (n *Navigator) Next() (string, bool) {
	if len(n.entries) == 0 {
		return "", false
	}
	if n.cursor >= len(n.entries)-1 {
		n.cursor = len(n.entries)
		return "", false
	}
	n.cursor++
	return n.entries[n.cursor], true
}

// Current reads the cursor without moving it.
func (n *Navigator) Current() (string, bool) {
	if n.cursor < 0 || n.cursor >= len(n.entries) {
		return "", false
	}
	return n.entries[n.cursor], true
}

// ResetCursor parks the cursor past the newest entry.
func (n *Navigator) ResetCursor() {
	n.cursor = len(n.entries)
}

func (n *Navigator) Len() int {
	return len(n.entries)
}

// Entries returns a copy so callers cannot mutate internal state.
func (n *Navigator) Entries() []string {
	copies := make([]string, len(n.entries))
	copy(copies, n.entries)
	return copies
}
