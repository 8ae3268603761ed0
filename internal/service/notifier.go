package service

import (
	"sync"

	"github.com/phrazzld/courier/internal/ledger"
)

// Notifier fans resolved ledger entries out to watchers of their request ID.
// Register it on the ledger with ledger.WithObserver.
type Notifier struct {
	mu       sync.Mutex
	nextID   uint64
	watchers map[string]map[uint64]chan ledger.Entry
}

var _ ledger.Observer = (*Notifier)(nil)

// NewNotifier creates an empty Notifier.
func NewNotifier() *Notifier {
	return &Notifier{watchers: make(map[string]map[uint64]chan ledger.Entry)}
}

// Watch returns a channel that receives the next resolution of requestID,
// and a cancel function that must be called once the caller is done.
// The channel is buffered; at most one entry is delivered.
func (n *Notifier) Watch(requestID string) (<-chan ledger.Entry, func()) {
	ch := make(chan ledger.Entry, 1)

	n.mu.Lock()
	n.nextID++
	id := n.nextID
	if n.watchers[requestID] == nil {
		n.watchers[requestID] = make(map[uint64]chan ledger.Entry)
	}
	n.watchers[requestID][id] = ch
	n.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			n.mu.Lock()
			defer n.mu.Unlock()
			n.remove(requestID, id)
		})
	}
	return ch, cancel
}

// EntryResolved implements ledger.Observer.
func (n *Notifier) EntryResolved(entry ledger.Entry) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for id, ch := range n.watchers[entry.RequestID] {
		select {
		case ch <- entry:
		default:
		}
		n.remove(entry.RequestID, id)
	}
}

// Watchers reports how many watchers are waiting on requestID.
func (n *Notifier) Watchers(requestID string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.watchers[requestID])
}

// remove must be called with mu held.
func (n *Notifier) remove(requestID string, id uint64) {
	set := n.watchers[requestID]
	delete(set, id)
	if len(set) == 0 {
		delete(n.watchers, requestID)
	}
}
