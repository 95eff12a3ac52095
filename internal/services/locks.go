package services

import (
	"sort"
	"sync"

	"timesheet/internal/domain"
)

type dayKey struct {
	userID int64
	date   domain.Date
}

type dayLock struct {
	mu   sync.Mutex
	refs int
}

// dayLocks serialises writes to the same (user, day) within the process.
// Entries are dropped once nobody holds or waits for them.
type dayLocks struct {
	mu    sync.Mutex
	locks map[dayKey]*dayLock
}

func newDayLocks() *dayLocks {
	return &dayLocks{locks: make(map[dayKey]*dayLock)}
}

// Lock acquires the locks for every given day of the user, in date order,
// and returns the function releasing them.
func (l *dayLocks) Lock(userID int64, dates ...domain.Date) func() {
	keys := make([]dayKey, 0, len(dates))
	seen := make(map[domain.Date]bool, len(dates))
	for _, d := range dates {
		if !seen[d] {
			seen[d] = true
			keys = append(keys, dayKey{userID: userID, date: d})
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].date.Before(keys[j].date) })

	held := make([]*dayLock, 0, len(keys))
	for _, k := range keys {
		lock := l.acquire(k)
		lock.mu.Lock()
		held = append(held, lock)
	}

	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].mu.Unlock()
			l.release(keys[i], held[i])
		}
	}
}

func (l *dayLocks) acquire(k dayKey) *dayLock {
	l.mu.Lock()
	defer l.mu.Unlock()

	lock, ok := l.locks[k]
	if !ok {
		lock = &dayLock{}
		l.locks[k] = lock
	}
	lock.refs++
	return lock
}

func (l *dayLocks) release(k dayKey, lock *dayLock) {
	l.mu.Lock()
	defer l.mu.Unlock()

	lock.refs--
	if lock.refs == 0 {
		delete(l.locks, k)
	}
}

func (l *dayLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
