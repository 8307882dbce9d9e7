package store

import (
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/tmakarios/bookden/internal/kv"
	"github.com/tmakarios/bookden/internal/model"
)

// MarkStore keeps one per-user set of book ids synchronized with its
// slot. Favorites and books-read are the two instantiations; they share
// no state, only this implementation.
type MarkStore struct {
	mu   sync.RWMutex
	slot *Slot[model.BookSet]
	set  model.BookSet
	log  *zap.Logger
}

func newMarkStore(medium kv.Medium, key, userID string, log *zap.Logger) *MarkStore {
	if log == nil {
		log = zap.NewNop()
	}
	slot := NewSlot(medium, key,
		func() model.BookSet { return model.BookSet{UserID: userID, BookIDs: []int64{}} },
		func(s model.BookSet) bool { return s.BookIDs != nil },
		log,
	)
	set, _ := slot.Load() // corrupt slots are logged by the slot and replaced by the seed
	return &MarkStore{slot: slot, set: set, log: log}
}

// NewFavorites opens the favorites slot for userID.
func NewFavorites(medium kv.Medium, userID string, log *zap.Logger) *MarkStore {
	return newMarkStore(medium, KeyFavorites, userID, log)
}

// NewBooksRead opens the books-read slot for userID.
func NewBooksRead(medium kv.Medium, userID string, log *zap.Logger) *MarkStore {
	return newMarkStore(medium, KeyBooksRead, userID, log)
}

// Toggle flips membership of bookID and persists the new record. It
// returns whether the book is marked after the toggle. A persist failure
// is logged and returned; the in-memory record has already advanced, so
// the session keeps the new state either way.
func (m *MarkStore) Toggle(bookID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := make([]int64, 0, len(m.set.BookIDs)+1)
	marked := true
	for _, id := range m.set.BookIDs {
		if id == bookID {
			marked = false
			continue
		}
		next = append(next, id)
	}
	if marked {
		next = append(next, bookID)
	}
	m.set.BookIDs = next

	if err := m.slot.Persist(m.set); err != nil {
		m.log.Warn("persist failed, keeping in-memory state", zap.Error(err))
		return marked, err
	}
	return marked, nil
}

// Contains reports whether bookID is marked.
func (m *MarkStore) Contains(bookID int64) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.set.Contains(bookID)
}

// Count returns the number of marked books.
func (m *MarkStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.set.BookIDs)
}

// List returns the marked book ids, sorted, as a copy.
func (m *MarkStore) List() []int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]int64, len(m.set.BookIDs))
	copy(out, m.set.BookIDs)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
