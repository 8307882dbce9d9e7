package store

import (
	"sync"

	"go.uber.org/zap"

	"github.com/tmakarios/bookden/internal/ids"
	"github.com/tmakarios/bookden/internal/kv"
	"github.com/tmakarios/bookden/internal/model"
)

// RatingStore keeps the user-ratings slot: one record per (user, book)
// pair. Range checks happen at the service boundary; the store only
// guarantees pair uniqueness and persistence.
type RatingStore struct {
	mu    sync.RWMutex
	slot  *Slot[[]model.UserRating]
	items []model.UserRating
	ids   ids.Source
	log   *zap.Logger
}

// NewRatings opens the user-ratings slot.
func NewRatings(medium kv.Medium, src ids.Source, log *zap.Logger) *RatingStore {
	if log == nil {
		log = zap.NewNop()
	}
	slot := NewSlot(medium, KeyRatings,
		func() []model.UserRating { return []model.UserRating{} },
		nil,
		log,
	)
	items, _ := slot.Load()
	return &RatingStore{slot: slot, items: items, ids: src, log: log}
}

// Set upserts the (userID, bookID) rating and persists.
func (r *RatingStore) Set(userID string, bookID int64, rating int) (model.UserRating, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].UserID == userID && r.items[i].BookID == bookID {
			r.items[i].Rating = rating
			return r.items[i], r.persistLocked()
		}
	}
	rec := model.UserRating{ID: r.ids.Next(), UserID: userID, BookID: bookID, Rating: rating}
	r.items = append(r.items, rec)
	return rec, r.persistLocked()
}

// Get returns the user's rating for a book, ok=false when unrated.
func (r *RatingStore) Get(userID string, bookID int64) (int, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, it := range r.items {
		if it.UserID == userID && it.BookID == bookID {
			return it.Rating, true
		}
	}
	return 0, false
}

// ForBook returns every rating submitted for bookID.
func (r *RatingStore) ForBook(bookID int64) []int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []int
	for _, it := range r.items {
		if it.BookID == bookID {
			out = append(out, it.Rating)
		}
	}
	return out
}

// List returns a copy of every rating record.
func (r *RatingStore) List() []model.UserRating {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.UserRating, len(r.items))
	copy(out, r.items)
	return out
}

func (r *RatingStore) persistLocked() error {
	if err := r.slot.Persist(r.items); err != nil {
		r.log.Warn("persist failed, keeping in-memory state", zap.Error(err))
		return err
	}
	return nil
}
