package history

import "sync"

// MemStore keeps entries in memory for tests.
type MemStore struct {
	mu      sync.Mutex
	Entries []Entry
	Err     error
}

func (m *MemStore) Save(e Entry) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries = append(m.Entries, e)
	return nil
}

func (m *MemStore) Recent(n int) ([]Entry, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if n <= 0 || n > len(m.Entries) {
		n = len(m.Entries)
	}
	out := make([]Entry, 0, n)
	for i := len(m.Entries) - 1; i >= len(m.Entries)-n; i-- {
		out = append(out, m.Entries[i])
	}
	return out, nil
}

func (m *MemStore) Close() error { return nil }
