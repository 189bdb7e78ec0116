package testutil

import (
	"context"
	"errors"
	"sync"

	"github.com/yukikurage/applicant-tracking-api/internal/storage"
)

var ErrInjected = errors.New("injected storage failure")

// FlakyStore is an in-memory blob store whose writes and deletes can be made to fail.
type FlakyStore struct {
	*storage.MemoryStore

	mu         sync.Mutex
	FailPut    bool
	FailDelete bool
	Puts       int
	Deletes    int
	// AfterPut runs once a write has been stored.
	AfterPut func()
}

func NewFlakyStore() *FlakyStore {
	return &FlakyStore{MemoryStore: storage.NewMemoryStore()}
}

func (f *FlakyStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	f.mu.Lock()
	f.Puts++
	fail := f.FailPut
	after := f.AfterPut
	f.mu.Unlock()
	if fail {
		return ErrInjected
	}
	if err := f.MemoryStore.Put(ctx, key, data, contentType); err != nil {
		return err
	}
	if after != nil {
		after()
	}
	return nil
}

func (f *FlakyStore) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	f.Deletes++
	fail := f.FailDelete
	f.mu.Unlock()
	if fail {
		return ErrInjected
	}
	return f.MemoryStore.Delete(ctx, key)
}
