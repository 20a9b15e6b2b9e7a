package reminder

import (
	"context"
	"sync"

	"wellbot/internal/storage"
	logx "wellbot/pkg/logx"
)

// defaultsFlagKey holds "1" in durable storage once the default bundle
// has been registered for this install.
const defaultsFlagKey = "defaults_scheduled"

// FlagStore is the two-tier defaults flag: an in-memory copy that is
// authoritative for the current process, and a persisted copy that
// survives restarts.
//
// Get never fails: a storage read error reads as false, which only
// risks re-running default scheduling, itself idempotent per entry.
// Set persists best-effort: a write failure is logged, the in-memory
// copy keeps protecting the rest of the process lifetime, and the
// condition is observable only as defaults being re-attempted on the
// next cold start.
type FlagStore struct {
	store storage.Store
	log   logx.Logger

	mu  sync.Mutex
	mem bool
}

func NewFlagStore(store storage.Store, log logx.Logger) *FlagStore {
	if store == nil {
		store = storage.NewMemory()
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	return &FlagStore{store: store, log: log}
}

func (f *FlagStore) Get(ctx context.Context) bool {
	f.mu.Lock()
	mem := f.mem
	f.mu.Unlock()
	if mem {
		return true
	}

	v, ok, err := f.store.Get(ctx, defaultsFlagKey)
	if err != nil {
		f.log.Warn("defaults flag read failed, treating as unset", logx.Err(err))
		return false
	}
	return ok && v == "1"
}

func (f *FlagStore) Set(ctx context.Context, v bool) {
	// The in-memory copy flips first so concurrent callers in this
	// process are blocked before the slow persistence write.
	f.mu.Lock()
	f.mem = v
	f.mu.Unlock()

	var err error
	if v {
		err = f.store.Set(ctx, defaultsFlagKey, "1")
	} else {
		err = f.store.Delete(ctx, defaultsFlagKey)
	}
	if err != nil {
		f.log.Warn("defaults flag persistence degraded", logx.Bool("value", v), logx.Err(err))
	}
}
