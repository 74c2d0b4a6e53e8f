package player

import (
	"sync"
	"testing"
)

func TestRegistryGetOrCreateReturnsSameInstance(t *testing.T) {
	reg := NewRegistry(&fakeNode{}, nil)

	a := reg.GetOrCreate("g1")
	b := reg.GetOrCreate("g1")
	if a != b {
		t.Fatal("GetOrCreate returned a second player for the same guild")
	}
	if reg.GetOrCreate("g2") == a {
		t.Fatal("distinct guilds share a player")
	}
	if got := reg.Count(); got != 2 {
		t.Fatalf("Count() = %d, want 2", got)
	}
}

func TestRegistryGetWithoutCreate(t *testing.T) {
	reg := NewRegistry(&fakeNode{}, nil)

	if reg.Get("g1") != nil {
		t.Fatal("Get created a player")
	}
	reg.GetOrCreate("g1")
	if reg.Get("g1") == nil {
		t.Fatal("Get missed an existing player")
	}
}

func TestRegistryRemove(t *testing.T) {
	reg := NewRegistry(&fakeNode{}, nil)
	reg.GetOrCreate("g1")

	reg.Remove("g1")
	if reg.Get("g1") != nil {
		t.Fatal("player survived Remove")
	}
	reg.Remove("g1") // no-op on absent guild
	if got := reg.Count(); got != 0 {
		t.Fatalf("Count() = %d, want 0", got)
	}
}

func TestRegistryConcurrentGetOrCreate(t *testing.T) {
	reg := NewRegistry(&fakeNode{}, nil)

	const workers = 50
	players := make([]*Player, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			players[i] = reg.GetOrCreate("g1")
		}(i)
	}
	wg.Wait()

	for i := 1; i < workers; i++ {
		if players[i] != players[0] {
			t.Fatal("concurrent GetOrCreate produced distinct players")
		}
	}
	if got := reg.Count(); got != 1 {
		t.Fatalf("Count() = %d, want 1", got)
	}
}
