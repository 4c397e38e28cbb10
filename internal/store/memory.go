package store

import "sync"

// Memory is a process-lifetime Provider used when no database path is
// configured. Data does not survive a restart, so the feed cache degrades to
// its memory tier only and the social graph rebuilds on first refresh.
type Memory struct {
	mu         sync.Mutex
	namespaces map[string]*memNamespace
}

func NewMemory() *Memory {
	return &Memory{namespaces: make(map[string]*memNamespace)}
}

func (m *Memory) Namespace(name string) Store {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ns, ok := m.namespaces[name]; ok {
		return ns
	}
	ns := &memNamespace{items: make(map[string][]byte)}
	m.namespaces[name] = ns
	return ns
}

func (m *Memory) Close() error { return nil }

type memNamespace struct {
	mu    sync.RWMutex
	items map[string][]byte
}

func (n *memNamespace) Set(key string, value []byte) error {
	n.mu.Lock()
	n.items[key] = append([]byte(nil), value...)
	n.mu.Unlock()
	return nil
}

func (n *memNamespace) Get(key string) ([]byte, bool, error) {
	n.mu.RLock()
	v, ok := n.items[key]
	n.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (n *memNamespace) Remove(key string) error {
	n.mu.Lock()
	delete(n.items, key)
	n.mu.Unlock()
	return nil
}
