package transfer

import "sync"

// Locker provides the serialization guarantee for a transfer between two accounts.
// Lock blocks until the guarantee is held and returns the function releasing it.
type Locker interface {
	Lock(fromID, toID string) (unlock func())
}

// GlobalLocker serializes every transfer behind one mutex.
type GlobalLocker struct {
	mu sync.Mutex
}

func NewGlobalLocker() *GlobalLocker {
	return &GlobalLocker{}
}

func (l *GlobalLocker) Lock(fromID, toID string) func() {
	l.mu.Lock()
	return l.mu.Unlock
}

// AccountLocker holds one mutex per account. Both locks of a transfer are taken
// in ascending id order so two transfers over the same pair cannot deadlock.
type AccountLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewAccountLocker() *AccountLocker {
	return &AccountLocker{locks: make(map[string]*sync.Mutex)}
}

func (l *AccountLocker) Lock(fromID, toID string) func() {
	first, second := fromID, toID
	if second < first {
		first, second = second, first
	}

	a := l.lockFor(first)
	a.Lock()
	if first == second {
		return a.Unlock
	}

	b := l.lockFor(second)
	b.Lock()
	return func() {
		b.Unlock()
		a.Unlock()
	}
}

// lockFor returns the mutex of id, creating it on first use.
// Accounts are never deleted, so entries are never evicted.
func (l *AccountLocker) lockFor(id string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	m, ok := l.locks[id]
	if !ok {
		m = &sync.Mutex{}
		l.locks[id] = m
	}
	return m
}

// NewLocker returns the locker named by strategy: "account" or "global" (the default).
func NewLocker(strategy string) Locker {
	if strategy == LockingAccount {
		return NewAccountLocker()
	}
	return NewGlobalLocker()
}
