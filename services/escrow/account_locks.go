package escrow

import "sync"

// accountLocks hands out one mutex per company account so balance
// increments and decrements serialize per account while different
// accounts proceed in parallel.
type accountLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newAccountLocks() *accountLocks {
	return &accountLocks{
		locks: make(map[string]*sync.Mutex),
	}
}

func (l *accountLocks) forCompany(companyID string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	lock, ok := l.locks[companyID]
	if !ok {
		lock = new(sync.Mutex)
		l.locks[companyID] = lock
	}
	return lock
}

// frozenAccounts tracks accounts halted after a consistency violation.
// Once frozen, every further mutation on that account is refused until an
// operator intervenes.
type frozenAccounts struct {
	mu     sync.RWMutex
	frozen map[string]bool
}

func newFrozenAccounts() *frozenAccounts {
	return &frozenAccounts{
		frozen: make(map[string]bool),
	}
}

func (f *frozenAccounts) Freeze(companyID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frozen[companyID] = true
}

func (f *frozenAccounts) IsFrozen(companyID string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.frozen[companyID]
}
