package services

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"timesheet/internal/domain"
)

func TestDayLocks_SerialisesSameDay(t *testing.T) {
	locks := newDayLocks()
	day := domain.MustParseDate("2024-03-04")

	var mu sync.Mutex
	inside, maxInside := 0, 0

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.Lock(1, day)
			defer unlock()

			mu.Lock()
			inside++
			if inside > maxInside {
				maxInside = inside
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			inside--
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxInside)
	assert.Equal(t, 0, locks.size(), "released locks are dropped")
}

func TestDayLocks_IndependentKeys(t *testing.T) {
	locks := newDayLocks()
	monday := domain.MustParseDate("2024-03-04")

	unlockA := locks.Lock(1, monday)
	defer unlockA()

	done := make(chan struct{})
	go func() {
		// another day and another user must not wait on the held lock
		locks.Lock(1, monday.AddDays(1))()
		locks.Lock(2, monday)()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on an unrelated key blocked")
	}
}

func TestDayLocks_MultipleDatesNoDeadlock(t *testing.T) {
	locks := newDayLocks()
	a := domain.MustParseDate("2024-03-04")
	b := domain.MustParseDate("2024-03-05")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			locks.Lock(1, a, b)()
		}()
		go func() {
			defer wg.Done()
			locks.Lock(1, b, a)()
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("opposite lock orders deadlocked")
	}
	assert.Equal(t, 0, locks.size())
}

func TestDayLocks_DuplicateDates(t *testing.T) {
	locks := newDayLocks()
	day := domain.MustParseDate("2024-03-04")

	unlock := locks.Lock(1, day, day)
	assert.Equal(t, 1, locks.size())
	unlock()
	assert.Equal(t, 0, locks.size())
}
