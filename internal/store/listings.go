package store

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/tmakarios/bookden/internal/errs"
	"github.com/tmakarios/bookden/internal/ids"
	"github.com/tmakarios/bookden/internal/kv"
	"github.com/tmakarios/bookden/internal/model"
)

// ListingStore keeps the books-for-sale list synchronized with its slot.
// It persists records as-is; lifecycle rules (status monotonicity,
// removal only while available) are the market service's concern.
type ListingStore struct {
	mu    sync.RWMutex
	slot  *Slot[[]model.Listing]
	items []model.Listing
	ids   ids.Source
	log   *zap.Logger
}

// NewListings opens the books-for-sale slot. src assigns ids to new
// listings.
func NewListings(medium kv.Medium, src ids.Source, log *zap.Logger) *ListingStore {
	if log == nil {
		log = zap.NewNop()
	}
	slot := NewSlot(medium, KeyListings,
		func() []model.Listing { return []model.Listing{} },
		nil,
		log,
	)
	items, _ := slot.Load()
	for i := range items {
		items[i].Book = nil // denormalized embeds are rebuilt at read time
	}
	return &ListingStore{slot: slot, items: items, ids: src, log: log}
}

// Add assigns an id, appends the listing, and persists the new list.
func (l *ListingStore) Add(lst model.Listing) (model.Listing, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	lst.ID = l.ids.Next()
	lst.Book = nil
	if lst.Status == "" {
		lst.Status = model.StatusAvailable
	}
	l.items = append(l.items, lst)
	return lst, l.persistLocked()
}

// List returns a copy of every listing.
func (l *ListingStore) List() []model.Listing {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]model.Listing, len(l.items))
	copy(out, l.items)
	return out
}

// Get returns the listing with the given id.
func (l *ListingStore) Get(id int64) (model.Listing, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, lst := range l.items {
		if lst.ID == id {
			return lst, nil
		}
	}
	return model.Listing{}, fmt.Errorf("listing %d: %w", id, errs.ErrNotFound)
}

// Replace swaps the stored record with the same id and persists.
func (l *ListingStore) Replace(lst model.Listing) (model.Listing, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.items {
		if l.items[i].ID == lst.ID {
			lst.Book = nil
			l.items[i] = lst
			return lst, l.persistLocked()
		}
	}
	return model.Listing{}, fmt.Errorf("listing %d: %w", lst.ID, errs.ErrNotFound)
}

// Remove deletes the listing and persists the filtered list.
func (l *ListingStore) Remove(id int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	next := l.items[:0]
	found := false
	for _, lst := range l.items {
		if lst.ID == id {
			found = true
			continue
		}
		next = append(next, lst)
	}
	if !found {
		return fmt.Errorf("listing %d: %w", id, errs.ErrNotFound)
	}
	l.items = next
	return l.persistLocked()
}

func (l *ListingStore) persistLocked() error {
	if err := l.slot.Persist(l.items); err != nil {
		l.log.Warn("persist failed, keeping in-memory state", zap.Error(err))
		return err
	}
	return nil
}
