package services

import "sync"

// ClientLocker serializes mutations per client so a balance or status read
// never observes a half-applied renewal or payment. The subscription and
// payment services share one instance.
type ClientLocker struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

// NewClientLocker creates an empty per-client lock table.
func NewClientLocker() *ClientLocker {
	return &ClientLocker{locks: make(map[int64]*sync.Mutex)}
}

// Lock acquires the mutex for the given client and returns its unlock func.
func (l *ClientLocker) Lock(clientID int64) func() {
	l.mu.Lock()
	m, ok := l.locks[clientID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[clientID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// LockPair acquires two client mutexes in a stable order to avoid deadlock
// when a mutation spans two clients (e.g. moving a payment).
func (l *ClientLocker) LockPair(a, b int64) func() {
	if a == b {
		return l.Lock(a)
	}
	if a > b {
		a, b = b, a
	}
	unlockA := l.Lock(a)
	unlockB := l.Lock(b)
	return func() {
		unlockB()
		unlockA()
	}
}
