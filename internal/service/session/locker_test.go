package session

import (
	"sync"
	"testing"
	"time"
)

func TestLocker_SerializesSameUser(t *testing.T) {
	l := NewLocker()

	var mu sync.Mutex
	active, maxActive := 0, 0

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := l.Lock("u-1")
			defer unlock()

			mu.Lock()
			active++
			if active > maxActive {
				maxActive = active
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			active--
			mu.Unlock()
		}()
	}
	wg.Wait()

	if maxActive != 1 {
		t.Errorf("expected turns of one user to run one at a time, saw %d concurrently", maxActive)
	}
}

func TestLocker_DistinctUsersDoNotBlock(t *testing.T) {
	l := NewLocker()

	unlockA := l.Lock("u-a")
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlock := l.Lock("u-b")
		unlock()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock for a different user blocked")
	}
}

func TestLocker_ReleasesEntries(t *testing.T) {
	l := NewLocker()

	unlock := l.Lock("u-1")
	unlock()

	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.locks) != 0 {
		t.Errorf("expected lock entries to be released, got %d", len(l.locks))
	}
}
