package service

import "github.com/tmakarios/bookden/internal/model"

// Shelf is the tagged variant behind the library's sidebar: built-in
// groupings and user collections are distinct types, and consumers
// type-switch instead of sniffing record shapes or magic id strings.
type Shelf interface {
	shelf()
}

// StandardShelf is a built-in grouping derived from a mark store. It has
// no stored record of its own; the membership comes from the favorites
// or books-read slot at read time.
type StandardShelf struct {
	Slug    string
	Name    string
	BookIDs []int64
}

func (StandardShelf) shelf() {}

// Count returns the derived membership size.
func (s StandardShelf) Count() int { return len(s.BookIDs) }

// UserShelf wraps a user-created collection record.
type UserShelf struct {
	Collection model.Collection
}

func (UserShelf) shelf() {}

// MarkList is the read view of a mark store.
type MarkList interface {
	List() []int64
}

// CollectionLister is the read view of the collection store.
type CollectionLister interface {
	List() []model.Collection
}

// ShelfService assembles the combined shelf list.
type ShelfService struct {
	favs  MarkList
	read  MarkList
	colls CollectionLister
}

// NewShelfService constructs ShelfService with required dependencies.
func NewShelfService(favs, read MarkList, colls CollectionLister) *ShelfService {
	return &ShelfService{favs: favs, read: read, colls: colls}
}

// Shelves returns the standard shelves followed by user collections.
func (s *ShelfService) Shelves() []Shelf {
	out := []Shelf{
		StandardShelf{Slug: "favorites", Name: "Favorites", BookIDs: s.favs.List()},
		StandardShelf{Slug: "books-read", Name: "Books Read", BookIDs: s.read.List()},
	}
	for _, c := range s.colls.List() {
		out = append(out, UserShelf{Collection: c})
	}
	return out
}
