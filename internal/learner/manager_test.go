package learner

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/ashureev/markup-labs/internal/catalog"
)

func testFactory(t *testing.T) Factory {
	t.Helper()
	cat, err := catalog.Default()
	if err != nil {
		t.Fatal(err)
	}
	return NewFactory(Options{Catalog: cat})
}

func TestManager_GetCreatesOnce(t *testing.T) {
	m := NewManager(testFactory(t))
	defer m.CloseAll()

	a, err := m.Get("anon_1", "tab-1")
	if err != nil {
		t.Fatal(err)
	}
	b, _ := m.Get("anon_1", "tab-1")
	if a != b {
		t.Error("Get() should return the existing session")
	}
	c, _ := m.Get("anon_1", "tab-2")
	if c == a {
		t.Error("different tabs should get different sessions")
	}
	if m.Len() != 2 {
		t.Errorf("Len() = %d, want 2", m.Len())
	}
	if m.Lookup("anon_2", "tab-1") != nil {
		t.Error("Lookup() should not create sessions")
	}
}

func TestManager_FactoryError(t *testing.T) {
	boom := errors.New("boom")
	m := NewManager(func(string, string) (*Session, error) { return nil, boom })
	if _, err := m.Get("anon_1", "tab-1"); !errors.Is(err, boom) {
		t.Errorf("Get() error = %v, want boom", err)
	}
	if m.Len() != 0 {
		t.Error("failed sessions must not be stored")
	}
}

func TestManager_EvictAndCloseUser(t *testing.T) {
	m := NewManager(testFactory(t))

	s, _ := m.Get("anon_1", "tab-1")
	closed := false
	s.AttachPeer("peer-1", &fakePeer{}, func() { closed = true })
	m.Get("anon_1", "tab-2")
	m.Get("anon_2", "tab-1")

	if !m.Evict("anon_1", "tab-1") || !closed {
		t.Error("Evict() should close the session's peer")
	}
	if m.Evict("anon_1", "tab-1") {
		t.Error("second Evict() should report false")
	}
	if n := m.CloseUser("anon_1"); n != 1 {
		t.Errorf("CloseUser() = %d, want 1", n)
	}
	if m.Len() != 1 || m.Lookup("anon_2", "tab-1") == nil {
		t.Errorf("remaining sessions = %d", m.Len())
	}
	m.CloseAll()
	if m.Len() != 0 {
		t.Error("CloseAll() should remove every session")
	}
}

func TestManager_EvictIdle(t *testing.T) {
	m := NewManager(testFactory(t))
	m.Get("anon_1", "tab-1")

	if n := m.EvictIdle(time.Hour); n != 0 {
		t.Errorf("EvictIdle(1h) = %d, want 0", n)
	}
	if n := m.EvictIdle(0); n != 1 {
		t.Errorf("EvictIdle(0) = %d, want 1", n)
	}
}

func TestManager_ConcurrentGet(t *testing.T) {
	m := NewManager(testFactory(t))
	defer m.CloseAll()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := m.Get("anon_1", "tab-"+strconv.Itoa(i%4)); err != nil {
				t.Error(err)
			}
		}(i)
	}
	wg.Wait()
	if m.Len() != 4 {
		t.Errorf("Len() = %d, want 4", m.Len())
	}
}

type fakePruner struct {
	mu     sync.Mutex
	cutoff time.Time
	calls  int
}

func (p *fakePruner) PruneEvents(_ context.Context, cutoff time.Time) (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cutoff = cutoff
	p.calls++
	return 3, nil
}

func TestSweep(t *testing.T) {
	m := NewManager(testFactory(t))
	m.Get("anon_1", "tab-1")
	pruner := &fakePruner{}

	before := time.Now()
	sweep(context.Background(), m, pruner, SweepConfig{TTL: 0, Retention: 24 * time.Hour})

	if m.Len() != 0 {
		t.Error("sweep should evict idle sessions")
	}
	if pruner.calls != 1 {
		t.Fatalf("PruneEvents called %d times, want 1", pruner.calls)
	}
	if pruner.cutoff.After(before.Add(-24 * time.Hour).Add(time.Second)) {
		t.Errorf("cutoff = %v, want about 24h ago", pruner.cutoff)
	}

	sweep(context.Background(), m, pruner, SweepConfig{TTL: time.Hour})
	if pruner.calls != 1 {
		t.Error("zero retention must not prune")
	}
}

func TestStartSweeper(t *testing.T) {
	m := NewManager(testFactory(t))
	m.Get("anon_1", "tab-1")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	StartSweeper(ctx, m, nil, SweepConfig{Interval: 5 * time.Millisecond, TTL: time.Nanosecond})

	deadline := time.Now().Add(2 * time.Second)
	for m.Len() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("sweeper did not evict the idle session")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
