package store

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/tmakarios/bookden/internal/errs"
	"github.com/tmakarios/bookden/internal/ids"
	"github.com/tmakarios/bookden/internal/kv"
	"github.com/tmakarios/bookden/internal/model"
)

// CollectionStore keeps the user's collection list synchronized with its
// slot. The serialized count field is derived from len(BookIDs) on every
// write and ignored on load, so the two can never drift.
type CollectionStore struct {
	mu     sync.RWMutex
	slot   *Slot[[]model.Collection]
	items  []model.Collection
	userID string
	ids    ids.Source
	log    *zap.Logger
}

// NewCollections opens the collections slot for userID. src assigns ids
// to new collections.
func NewCollections(medium kv.Medium, userID string, src ids.Source, log *zap.Logger) *CollectionStore {
	if log == nil {
		log = zap.NewNop()
	}
	slot := NewSlot(medium, KeyCollections,
		func() []model.Collection { return []model.Collection{} },
		nil,
		log,
	)
	items, _ := slot.Load()
	for i := range items {
		items[i].Count = len(items[i].BookIDs) // never trust the stored count
	}
	return &CollectionStore{slot: slot, items: items, userID: userID, ids: src, log: log}
}

// Create adds a named collection and persists the new list.
func (c *CollectionStore) Create(name, color, description string) (model.Collection, error) {
	if name == "" {
		return model.Collection{}, errors.New("validation: empty collection name")
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	col := model.Collection{
		ID:          c.ids.Next(),
		UserID:      c.userID,
		Name:        name,
		Color:       color,
		Description: description,
		BookIDs:     []int64{},
	}
	c.items = append(c.items, col)
	return col, c.persistLocked()
}

// List returns a copy of every collection with derived counts.
func (c *CollectionStore) List() []model.Collection {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]model.Collection, len(c.items))
	for i, col := range c.items {
		out[i] = c.copyLocked(col)
	}
	return out
}

// Get returns the collection with the given id.
func (c *CollectionStore) Get(id int64) (model.Collection, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, col := range c.items {
		if col.ID == id {
			return c.copyLocked(col), nil
		}
	}
	return model.Collection{}, fmt.Errorf("collection %d: %w", id, errs.ErrNotFound)
}

// Rename changes the collection's name.
func (c *CollectionStore) Rename(id int64, name string) (model.Collection, error) {
	if name == "" {
		return model.Collection{}, errors.New("validation: empty collection name")
	}
	return c.update(id, func(col *model.Collection) { col.Name = name })
}

// Recolor changes the collection's color tag.
func (c *CollectionStore) Recolor(id int64, color string) (model.Collection, error) {
	return c.update(id, func(col *model.Collection) { col.Color = color })
}

// SetDescription replaces the collection's description.
func (c *CollectionStore) SetDescription(id int64, description string) (model.Collection, error) {
	return c.update(id, func(col *model.Collection) { col.Description = description })
}

// AddBook adds bookID to the collection; adding a member again is a
// no-op.
func (c *CollectionStore) AddBook(id, bookID int64) (model.Collection, error) {
	return c.update(id, func(col *model.Collection) {
		for _, b := range col.BookIDs {
			if b == bookID {
				return
			}
		}
		col.BookIDs = append(col.BookIDs, bookID)
	})
}

// RemoveBook removes bookID from the collection; removing a non-member
// is a no-op.
func (c *CollectionStore) RemoveBook(id, bookID int64) (model.Collection, error) {
	return c.update(id, func(col *model.Collection) {
		next := col.BookIDs[:0]
		for _, b := range col.BookIDs {
			if b != bookID {
				next = append(next, b)
			}
		}
		col.BookIDs = next
	})
}

// Contains reports whether the collection holds bookID.
func (c *CollectionStore) Contains(id, bookID int64) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, col := range c.items {
		if col.ID == id {
			for _, b := range col.BookIDs {
				if b == bookID {
					return true
				}
			}
			return false
		}
	}
	return false
}

// Delete removes the collection and persists the filtered list.
func (c *CollectionStore) Delete(id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	next := c.items[:0]
	found := false
	for _, col := range c.items {
		if col.ID == id {
			found = true
			continue
		}
		next = append(next, col)
	}
	if !found {
		return fmt.Errorf("collection %d: %w", id, errs.ErrNotFound)
	}
	c.items = next
	return c.persistLocked()
}

func (c *CollectionStore) update(id int64, fn func(*model.Collection)) (model.Collection, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].ID == id {
			fn(&c.items[i])
			return c.copyLocked(c.items[i]), c.persistLocked()
		}
	}
	return model.Collection{}, fmt.Errorf("collection %d: %w", id, errs.ErrNotFound)
}

// persistLocked writes the whole list with derived counts. A failure is
// logged and returned; the in-memory list stays authoritative for the
// session either way.
func (c *CollectionStore) persistLocked() error {
	for i := range c.items {
		c.items[i].Count = len(c.items[i].BookIDs)
	}
	if err := c.slot.Persist(c.items); err != nil {
		c.log.Warn("persist failed, keeping in-memory state", zap.Error(err))
		return err
	}
	return nil
}

func (c *CollectionStore) copyLocked(col model.Collection) model.Collection {
	booksCopy := make([]int64, len(col.BookIDs))
	copy(booksCopy, col.BookIDs)
	col.BookIDs = booksCopy
	col.Count = len(booksCopy)
	return col
}
