// Package assetstore persists each wallet's collection of registered assets
// in a key-value store. Persistence is best-effort: every failure is logged
// and swallowed, and the caller's in-memory state stays authoritative.
package assetstore

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/heartmarshall/mintmind/internal/domain"
)

// KeyPrefix namespaces asset collections by wallet address.
const KeyPrefix = "mintmind_ip_assets_"

type kvStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// Store reads and writes asset collections.
type Store struct {
	kv  kvStore
	log *slog.Logger
}

// New creates a Store over kv.
func New(kv kvStore, logger *slog.Logger) *Store {
	return &Store{
		kv:  kv,
		log: logger.With("service", "assetstore"),
	}
}

// Key returns the storage key for address.
func Key(address string) string {
	return KeyPrefix + strings.ToLower(address)
}

// Save overwrites the whole collection stored for address.
func (s *Store) Save(ctx context.Context, address string, assets []domain.IPAsset) {
	if address == "" {
		s.logFailure(ctx, "save", address, fmt.Errorf("empty address"))
		return
	}
	if assets == nil {
		assets = []domain.IPAsset{}
	}

	data, err := json.Marshal(assets)
	if err != nil {
		s.logFailure(ctx, "save", address, err)
		return
	}
	if err := s.kv.Set(ctx, Key(address), string(data)); err != nil {
		s.logFailure(ctx, "save", address, err)
	}
}

// Load returns the collection stored for address, newest first. Missing or
// unreadable data yields an empty collection.
func (s *Store) Load(ctx context.Context, address string) []domain.IPAsset {
	if address == "" {
		return []domain.IPAsset{}
	}

	raw, ok, err := s.kv.Get(ctx, Key(address))
	if err != nil {
		s.logFailure(ctx, "load", address, err)
		return []domain.IPAsset{}
	}
	if !ok || raw == "" {
		return []domain.IPAsset{}
	}

	var assets []domain.IPAsset
	if err := json.Unmarshal([]byte(raw), &assets); err != nil {
		s.logFailure(ctx, "load", address, err)
		return []domain.IPAsset{}
	}
	if assets == nil {
		return []domain.IPAsset{}
	}
	return assets
}

// Clear removes the collection stored for address.
func (s *Store) Clear(ctx context.Context, address string) {
	if err := s.kv.Delete(ctx, Key(address)); err != nil {
		s.logFailure(ctx, "clear", address, err)
	}
}

// ListAddresses returns every address with a stored collection, sorted.
func (s *Store) ListAddresses(ctx context.Context) []string {
	keys, err := s.kv.Keys(ctx, KeyPrefix)
	if err != nil {
		s.logFailure(ctx, "list addresses", "", err)
		return []string{}
	}

	addresses := make([]string, 0, len(keys))
	for _, k := range keys {
		if addr := strings.TrimPrefix(k, KeyPrefix); addr != "" && addr != k {
			addresses = append(addresses, addr)
		}
	}
	slices.Sort(addresses)
	return slices.Compact(addresses)
}

// TotalAssetCount sums the collection sizes of every address.
func (s *Store) TotalAssetCount(ctx context.Context) int {
	total := 0
	for _, addr := range s.ListAddresses(ctx) {
		total += len(s.Load(ctx, addr))
	}
	return total
}

// ExportAll returns every stored collection keyed by address.
func (s *Store) ExportAll(ctx context.Context) map[string][]domain.IPAsset {
	out := make(map[string][]domain.IPAsset)
	for _, addr := range s.ListAddresses(ctx) {
		out[addr] = s.Load(ctx, addr)
	}
	return out
}

func (s *Store) logFailure(ctx context.Context, op, address string, err error) {
	s.log.ErrorContext(ctx, "asset persistence",
		slog.String("op", op),
		slog.String("address", strings.ToLower(address)),
		slog.String("error", fmt.Errorf("%w: %w", domain.ErrPersistenceFailed, err).Error()),
	)
}
