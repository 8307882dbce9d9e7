// Package catalog holds the immutable book reference dataset. The list
// is seeded in-process and cached through the books slot so other
// sessions sharing the medium see the same ids.
package catalog

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/tmakarios/bookden/internal/errs"
	"github.com/tmakarios/bookden/internal/kv"
	"github.com/tmakarios/bookden/internal/model"
	"github.com/tmakarios/bookden/internal/store"
)

// Catalog is a read-only view over the seeded book list.
type Catalog struct {
	books []model.Book
	byID  map[int64]int
}

// New loads the cached catalog from the books slot, seeding and
// persisting the built-in list when the slot is absent or corrupt.
func New(medium kv.Medium, log *zap.Logger) *Catalog {
	slot := store.NewSlot(medium, store.KeyBooks,
		Seed,
		func(bs []model.Book) bool { return len(bs) > 0 },
		log,
	)
	books, _ := slot.Load()
	// write the cache back so a fresh or recovered slot holds the seed;
	// failures only cost the next session a re-seed
	_ = slot.Persist(books)
	c := &Catalog{books: books, byID: make(map[int64]int, len(books))}
	for i, b := range books {
		c.byID[b.ID] = i
	}
	return c
}

// List returns a copy of the full catalog.
func (c *Catalog) List() []model.Book {
	out := make([]model.Book, len(c.books))
	copy(out, c.books)
	return out
}

// ByID returns the book with the given id. Consumers treat ErrNotFound
// as "omit from view", never as a hard failure.
func (c *Catalog) ByID(id int64) (model.Book, error) {
	i, ok := c.byID[id]
	if !ok {
		return model.Book{}, fmt.Errorf("book %d: %w", id, errs.ErrNotFound)
	}
	return c.books[i], nil
}

// Len returns the catalog size.
func (c *Catalog) Len() int { return len(c.books) }

// Seed returns the built-in reference list.
func Seed() []model.Book {
	return []model.Book{
		{ID: 1, Title: "The Name of the Wind", Author: "Patrick Rothfuss", Genre: "Fantasy", Year: 2007, Publisher: "DAW Books", Pages: 662, Language: "English", ISBN13: "9780756404079", Rating: 4.5, Description: "Kvothe recounts how a gifted child became the most notorious wizard his world has ever seen."},
		{ID: 2, Title: "Project Hail Mary", Author: "Andy Weir", Genre: "Science Fiction", Year: 2021, Publisher: "Ballantine Books", Pages: 476, Language: "English", ISBN13: "9780593135204", Rating: 4.6, Description: "A lone astronaut wakes up with no memory and the survival of Earth on his shoulders."},
		{ID: 3, Title: "The Remains of the Day", Author: "Kazuo Ishiguro", Genre: "Literary Fiction", Year: 1989, Publisher: "Faber and Faber", Pages: 258, Language: "English", ISBN13: "9780571154913", Rating: 4.2, Description: "An English butler looks back on decades of service and missed chances."},
		{ID: 4, Title: "Educated", Author: "Tara Westover", Genre: "Memoir", Year: 2018, Publisher: "Random House", Pages: 334, Language: "English", ISBN13: "9780399590504", Rating: 4.4, Description: "A woman raised off the grid in Idaho fights her way to a Cambridge PhD."},
		{ID: 5, Title: "Piranesi", Author: "Susanna Clarke", Genre: "Fantasy", Year: 2020, Publisher: "Bloomsbury", Pages: 245, Language: "English", ISBN13: "9781635575637", Rating: 4.3, Description: "A man lives alone in an infinite house of halls and statues, until evidence of another appears."},
		{ID: 6, Title: "Thinking, Fast and Slow", Author: "Daniel Kahneman", Genre: "Psychology", Year: 2011, Publisher: "Farrar, Straus and Giroux", Pages: 499, Language: "English", ISBN13: "9780374275631", Rating: 4.1, Description: "Two systems drive the way we think, and knowing them changes how we decide."},
		{ID: 7, Title: "The Left Hand of Darkness", Author: "Ursula K. Le Guin", Genre: "Science Fiction", Year: 1969, Publisher: "Ace Books", Pages: 304, Language: "English", ISBN13: "9780441478125", Rating: 4.2, Description: "An envoy to a planet of ambisexual humans must win trust across a glacial world."},
		{ID: 8, Title: "Circe", Author: "Madeline Miller", Genre: "Mythology", Year: 2018, Publisher: "Little, Brown", Pages: 393, Language: "English", ISBN13: "9780316556347", Rating: 4.4, Description: "The witch of Aiaia tells her own story, from scorned nymph to power in her own right."},
		{ID: 9, Title: "The Pragmatic Programmer", Author: "Andrew Hunt", Genre: "Technology", Year: 1999, Publisher: "Addison-Wesley", Pages: 352, Language: "English", ISBN13: "9780201616224", Rating: 4.3, Description: "Journeyman-to-master advice on the craft of software."},
		{ID: 10, Title: "A Gentleman in Moscow", Author: "Amor Towles", Genre: "Historical Fiction", Year: 2016, Publisher: "Viking", Pages: 462, Language: "English", ISBN13: "9780670026197", Rating: 4.4, Description: "A count sentenced to house arrest in a grand hotel builds a life within its walls."},
		{ID: 11, Title: "Kafka on the Shore", Author: "Haruki Murakami", Genre: "Magical Realism", Year: 2002, Publisher: "Shinchosha", Pages: 505, Language: "English", ISBN13: "9781400079278", Rating: 4.1, Description: "A runaway boy and an old man who talks to cats converge on a small private library."},
		{ID: 12, Title: "The Warmth of Other Suns", Author: "Isabel Wilkerson", Genre: "History", Year: 2010, Publisher: "Random House", Pages: 622, Language: "English", ISBN13: "9780679444329", Rating: 4.6, Description: "The epic story of the Great Migration told through three lives."},
	}
}
