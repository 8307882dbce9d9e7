// Package service contains the application services: rating aggregation,
// the books-for-sale lifecycle, and the mock messaging ledger.
package service

import (
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"

	"github.com/tmakarios/bookden/internal/model"
)

// RatingWeight is the number of prior votes the static baseline stands
// for when blending in user ratings.
const RatingWeight = 10

// Aggregate blends a book's baseline with user ratings. Inputs outside
// [1,5] are no-rating markers and excluded; an empty set returns the
// baseline unchanged. The result is rounded to one decimal place and is
// recomputed on every call, never cached.
func Aggregate(baseline float64, ratings []int) float64 {
	sum := baseline * RatingWeight
	count := RatingWeight
	counted := 0
	for _, r := range ratings {
		if r < 1 || r > 5 {
			continue
		}
		sum += float64(r)
		count++
		counted++
	}
	if counted == 0 {
		return baseline
	}
	return math.Round(sum/float64(count)*10) / 10
}

// BookLookup resolves catalog books by id.
type BookLookup interface {
	ByID(id int64) (model.Book, error)
}

// RatingRecords is the slice of the rating store the service needs.
type RatingRecords interface {
	Set(userID string, bookID int64, rating int) (model.UserRating, error)
	Get(userID string, bookID int64) (int, bool)
	ForBook(bookID int64) []int
}

// MarkSet is a read-only membership view (books-read).
type MarkSet interface {
	Contains(bookID int64) bool
}

// RatingService exposes displayed ratings and rating submission.
type RatingService interface {
	// DisplayRating returns the blended rating for a book.
	DisplayRating(bookID int64) (float64, error)
	// SetRating records the user's 1..5 rating for a book.
	SetRating(userID string, bookID int64, rating int) (model.UserRating, error)
	// UserRating returns the user's own rating, ok=false when unrated.
	UserRating(userID string, bookID int64) (int, bool)
	// HasRead reports whether the user finished the book: explicit
	// books-read membership or a nonzero rating, either counts.
	HasRead(userID string, bookID int64) bool
}

type RatingServiceImpl struct {
	books    BookLookup
	ratings  RatingRecords
	read     MarkSet
	validate *validator.Validate
}

// NewRatingService constructs RatingService with required dependencies.
func NewRatingService(books BookLookup, ratings RatingRecords, read MarkSet) *RatingServiceImpl {
	return &RatingServiceImpl{
		books:    books,
		ratings:  ratings,
		read:     read,
		validate: validator.New(),
	}
}

// DisplayRating recomputes the blended rating from current inputs.
func (s *RatingServiceImpl) DisplayRating(bookID int64) (float64, error) {
	b, err := s.books.ByID(bookID)
	if err != nil {
		return 0, err
	}
	return Aggregate(b.Rating, s.ratings.ForBook(bookID)), nil
}

type setRatingRequest struct {
	UserID string `validate:"required"`
	BookID int64  `validate:"required"`
	Rating int    `validate:"min=1,max=5"`
}

// SetRating validates input at the boundary and upserts the record.
func (s *RatingServiceImpl) SetRating(userID string, bookID int64, rating int) (model.UserRating, error) {
	req := setRatingRequest{UserID: userID, BookID: bookID, Rating: rating}
	if err := s.validate.Struct(req); err != nil {
		return model.UserRating{}, fmt.Errorf("validation: %w", err)
	}
	if _, err := s.books.ByID(bookID); err != nil {
		return model.UserRating{}, err
	}
	return s.ratings.Set(userID, bookID, rating)
}

// UserRating returns the caller's own rating for a book.
func (s *RatingServiceImpl) UserRating(userID string, bookID int64) (int, bool) {
	return s.ratings.Get(userID, bookID)
}

// HasRead reports completion via books-read membership or rating proxy.
func (s *RatingServiceImpl) HasRead(userID string, bookID int64) bool {
	if s.read != nil && s.read.Contains(bookID) {
		return true
	}
	r, ok := s.ratings.Get(userID, bookID)
	return ok && r > 0
}
