// Package store implements the keyed local stores: one domain record per
// persisted slot, loaded with seed fallback and re-persisted after every
// mutation. Business rules live in the service package; stores only keep
// records and their slots in sync.
package store

import (
	"errors"
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/tmakarios/bookden/internal/errs"
	"github.com/tmakarios/bookden/internal/kv"
)

// Slot names in the medium. Each key is independent and schema-free.
const (
	KeyFavorites   = "favorites"
	KeyBooksRead   = "books_read"
	KeyCollections = "collections"
	KeyListings    = "listings"
	KeyRatings     = "ratings"
	KeyBooks       = "books"
)

var codec = jsoniter.ConfigCompatibleWithStandardLibrary

// Slot synchronizes one record with one key in the medium.
type Slot[T any] struct {
	medium kv.Medium
	key    string
	seed   func() T
	check  func(T) bool // nil: any decoded value passes
	log    *zap.Logger
}

// NewSlot binds key in medium to records of type T. seed produces the
// default record for an absent or corrupt slot; check, when non-nil, is
// the shape test a decoded value must pass.
func NewSlot[T any](medium kv.Medium, key string, seed func() T, check func(T) bool, log *zap.Logger) *Slot[T] {
	if log == nil {
		log = zap.NewNop()
	}
	return &Slot[T]{medium: medium, key: key, seed: seed, check: check, log: log}
}

// Load reads the slot. An absent slot yields the seed with a nil error.
// An unreadable or wrong-shaped value also yields the seed, but with an
// error wrapping errs.ErrCorruptRecord so a supervisor can observe the
// recovery; the returned record is always usable.
func (s *Slot[T]) Load() (T, error) {
	b, err := s.medium.Get(s.key)
	if errors.Is(err, kv.ErrNoValue) {
		return s.seed(), nil
	}
	if err != nil {
		s.log.Warn("slot read failed, seeding default", zap.String("key", s.key), zap.Error(err))
		return s.seed(), fmt.Errorf("load %s: %w: %w", s.key, errs.ErrCorruptRecord, err)
	}
	var v T
	if err := codec.Unmarshal(b, &v); err != nil {
		s.log.Warn("slot held malformed value, seeding default", zap.String("key", s.key), zap.Error(err))
		return s.seed(), fmt.Errorf("load %s: %w: %w", s.key, errs.ErrCorruptRecord, err)
	}
	if s.check != nil && !s.check(v) {
		s.log.Warn("slot failed shape check, seeding default", zap.String("key", s.key))
		return s.seed(), fmt.Errorf("load %s: %w", s.key, errs.ErrCorruptRecord)
	}
	return v, nil
}

// Persist serializes the record into the slot. Failure leaves the old
// persisted value in place; the caller's in-memory record stays
// authoritative for the session.
func (s *Slot[T]) Persist(v T) error {
	b, err := codec.Marshal(v)
	if err != nil {
		return fmt.Errorf("persist %s: %w", s.key, err)
	}
	if err := s.medium.Put(s.key, b); err != nil {
		return fmt.Errorf("persist %s: %w", s.key, err)
	}
	return nil
}
