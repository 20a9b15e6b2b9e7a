package reminder

import (
	"context"
	"errors"
	"testing"

	"wellbot/internal/storage"
	logx "wellbot/pkg/logx"
)

type brokenReadStore struct {
	storage.Store
}

func (brokenReadStore) Get(ctx context.Context, key string) (string, bool, error) {
	return "", false, errors.New("io error")
}

func TestFlagGetNeverFails(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := NewFlagStore(brokenReadStore{storage.NewMemory()}, logx.Nop())

	// A broken read is the safe default: unset.
	if f.Get(ctx) {
		t.Fatal("read failure must read as false")
	}

	// Once the in-memory tier is set, the broken backing store no
	// longer matters for this process.
	f.Set(ctx, true)
	if !f.Get(ctx) {
		t.Fatal("in-memory tier must be authoritative after Set")
	}
}

func TestFlagPersistsAcrossInstances(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := storage.NewMemory()

	a := NewFlagStore(store, logx.Nop())
	a.Set(ctx, true)

	b := NewFlagStore(store, logx.Nop())
	if !b.Get(ctx) {
		t.Fatal("persisted tier must survive a new instance")
	}

	b.Set(ctx, false)
	if NewFlagStore(store, logx.Nop()).Get(ctx) {
		t.Fatal("reset must clear the persisted tier")
	}
}

func TestFlagStoredValueFormat(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := storage.NewMemory()

	f := NewFlagStore(store, logx.Nop())
	f.Set(ctx, true)

	v, ok, err := store.Get(ctx, "defaults_scheduled")
	if err != nil || !ok || v != "1" {
		t.Fatalf("stored flag = %q ok=%v err=%v, want \"1\"", v, ok, err)
	}

	// Anything other than "1" reads as unset.
	if err := store.Set(ctx, "defaults_scheduled", "yes"); err != nil {
		t.Fatal(err)
	}
	g := NewFlagStore(store, logx.Nop())
	if g.Get(ctx) {
		t.Fatal(`only the literal "1" means scheduled`)
	}
}
