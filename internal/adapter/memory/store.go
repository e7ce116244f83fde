// Package memory is an in-process key-value store. It loses its contents on
// restart and optionally enforces a byte quota, like browser local storage.
package memory

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
)

// ErrQuotaExceeded is returned by Set when the write would exceed the quota.
var ErrQuotaExceeded = errors.New("memory: storage quota exceeded")

// Store is a mutex-guarded map.
type Store struct {
	mu    sync.RWMutex
	data  map[string]string
	quota int
	used  int
}

// New creates a Store. quotaBytes <= 0 means unlimited.
func New(quotaBytes int) *Store {
	return &Store{
		data:  make(map[string]string),
		quota: quotaBytes,
	}
}

func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delta := len(key) + len(value)
	if old, ok := s.data[key]; ok {
		delta -= len(key) + len(old)
	}
	if s.quota > 0 && s.used+delta > s.quota {
		return ErrQuotaExceeded
	}

	s.data[key] = value
	s.used += delta
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.data[key]; ok {
		s.used -= len(key) + len(old)
		delete(s.data, key)
	}
	return nil
}

// Keys returns every key starting with prefix, sorted.
func (s *Store) Keys(_ context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return keys, nil
}

func (s *Store) Ping(context.Context) error { return nil }

// Used reports the bytes currently stored.
func (s *Store) Used() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.used
}
