package repository

import (
	"context"
	"slices"
	"sync"
)

// MemoryKV хранит значения в памяти процесса.
type MemoryKV struct {
	mu sync.RWMutex
	m  map[string][]byte
}

// NewMemoryKV создаёт пустое хранилище в памяти.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{m: map[string][]byte{}}
}

func (r *MemoryKV) Get(_ context.Context, key string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.m[key]
	if !ok {
		return nil, ErrNotFound
	}
	return slices.Clone(v), nil
}

func (r *MemoryKV) Put(_ context.Context, key string, value []byte) error {
	r.mu.Lock()
	r.m[key] = slices.Clone(value)
	r.mu.Unlock()
	return nil
}

func (r *MemoryKV) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	delete(r.m, key)
	r.mu.Unlock()
	return nil
}

func (r *MemoryKV) Close() error { return nil }
