package cart

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/wichananm65/pharmachain-portal/internal/session"
)

func TestStore_PersistsAcceptedMutationsOnly(t *testing.T) {
	ctx := context.Background()
	repo := session.NewInMemoryRepository()
	st := NewService(repo).For("s1")

	if _, err := st.AddOrIncrement(ctx, product("m1", 100, 10)); err != nil {
		t.Fatalf("add: %v", err)
	}
	var stored []Line
	if err := session.GetJSON(ctx, repo, "s1", session.KeyCart, &stored); err != nil {
		t.Fatalf("expected persisted cart: %v", err)
	}
	if len(stored) != 1 || stored[0].Quantity != 10 {
		t.Fatalf("unexpected stored cart %+v", stored)
	}

	// a rejected change writes nothing
	_ = repo.Put(ctx, "s1", session.KeyCart, []byte(`[{"id":"m1","quantity":10,"minQuantity":10,"stock":100,"price":"45"}]`))
	lines, err := st.SetQuantity(ctx, "m1", 3)
	if err != nil || lines[0].Quantity != 10 {
		t.Fatalf("expected unchanged line, got %+v err %v", lines, err)
	}
}

func TestStore_ConcurrentAddsAreSerialized(t *testing.T) {
	ctx := context.Background()
	svc := NewService(session.NewInMemoryRepository())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.For("s1").AddOrIncrement(ctx, product("m1", 1000, 5))
		}()
	}
	wg.Wait()

	lines, _ := svc.For("s1").Lines(ctx)
	if len(lines) != 1 || lines[0].Quantity != 100 {
		t.Fatalf("expected quantity 100 after 20 adds, got %+v", lines)
	}
}

func TestStore_LocksArePerSession(t *testing.T) {
	ctx := context.Background()
	repo := session.NewInMemoryRepository()
	svc := NewService(repo)
	if _, err := svc.For("s1").AddOrIncrement(ctx, product("m1", 100, 10)); err != nil {
		t.Fatalf("seed: %v", err)
	}

	unlock := svc.lock("s1")

	// another session is not held up by s1
	done := make(chan error, 1)
	go func() {
		_, err := svc.For("s2").AddOrIncrement(ctx, product("m1", 100, 10))
		done <- err
	}()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("s2 add: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("s2 was blocked by the s1 lock")
	}

	// clearing s1 waits for the holder and takes extra keys with it
	_ = repo.Put(ctx, "s1", session.KeyShippingInfo, []byte(`{}`))
	cleared := make(chan error, 1)
	go func() { cleared <- svc.For("s1").Clear(ctx, session.KeyShippingInfo) }()
	select {
	case <-cleared:
		t.Fatalf("clear must wait for the s1 lock")
	case <-time.After(20 * time.Millisecond):
	}
	unlock()
	if err := <-cleared; err != nil {
		t.Fatalf("clear: %v", err)
	}
	for _, key := range []string{session.KeyCart, session.KeyShippingInfo} {
		if _, err := repo.Get(ctx, "s1", key); err != session.ErrNotFound {
			t.Fatalf("expected %s removed, got %v", key, err)
		}
	}

	svc.mu.Lock()
	left := len(svc.locks)
	svc.mu.Unlock()
	if left != 0 {
		t.Fatalf("expected idle locks to be released, %d left", left)
	}
}
