package tracker

// Package tracker holds the seen-author bookkeeping.

// Tracker records which account IDs have already been welcomed. Implementations
// are not safe for concurrent use; the bot runs a single pass at a time.
type Tracker interface {
	// Seen reports whether the account has already been welcomed.
	Seen(accountID string) bool
	// Mark records the account as welcomed.
	Mark(accountID string)
	// Len returns the number of accounts marked so far.
	Len() int
}

// Memory is an in-process Tracker. State lives for the process lifetime only;
// a restart re-welcomes anyone present in the next fetch window.
type Memory struct {
	ids map[string]struct{}
}

// NewMemory returns an empty in-memory tracker.
func NewMemory() *Memory {
	return &Memory{ids: make(map[string]struct{})}
}

func (m *Memory) Seen(accountID string) bool {
	_, ok := m.ids[accountID]
	return ok
}

func (m *Memory) Mark(accountID string) {
	if accountID == "" {
		return
	}
	m.ids[accountID] = struct{}{}
}

func (m *Memory) Len() int { return len(m.ids) }
