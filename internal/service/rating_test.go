package service

import (
	"fmt"
	"testing"

	"github.com/tmakarios/bookden/internal/errs"
	"github.com/tmakarios/bookden/internal/model"
)

type fakeBooks struct {
	books map[int64]model.Book
}

func (f *fakeBooks) ByID(id int64) (model.Book, error) {
	b, ok := f.books[id]
	if !ok {
		return model.Book{}, fmt.Errorf("book %d: %w", id, errs.ErrNotFound)
	}
	return b, nil
}

type fakeRatings struct {
	setUser string
	setBook int64
	setVal  int
	byPair  map[string]int
	byBook  map[int64][]int
}

func (f *fakeRatings) Set(userID string, bookID int64, rating int) (model.UserRating, error) {
	f.setUser, f.setBook, f.setVal = userID, bookID, rating
	return model.UserRating{ID: 1, UserID: userID, BookID: bookID, Rating: rating}, nil
}
func (f *fakeRatings) Get(userID string, bookID int64) (int, bool) {
	r, ok := f.byPair[fmt.Sprintf("%s/%d", userID, bookID)]
	return r, ok
}
func (f *fakeRatings) ForBook(bookID int64) []int { return f.byBook[bookID] }

type fakeMarks struct{ ids map[int64]bool }

func (f *fakeMarks) Contains(bookID int64) bool { return f.ids[bookID] }

func TestAggregate(t *testing.T) {
	tests := []struct {
		name     string
		baseline float64
		ratings  []int
		want     float64
	}{
		{"no ratings returns baseline", 4.4, nil, 4.4},
		{"documented example", 4.4, []int{5, 5}, 4.5},
		{"zero is no-rating, excluded", 4.4, []int{0, 0}, 4.4},
		{"out of range excluded", 3.0, []int{6, -1, 4}, 3.1},
		{"all ones pulls down", 4.0, []int{1, 1, 1, 1, 1}, 3.0},
		{"stays within bounds at floor", 1.0, []int{1, 1, 1}, 1.0},
		{"stays within bounds at ceiling", 5.0, []int{5, 5, 5}, 5.0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Aggregate(tc.baseline, tc.ratings)
			if got != tc.want {
				t.Fatalf("Aggregate(%v, %v) = %v, want %v", tc.baseline, tc.ratings, got, tc.want)
			}
			if got < 1 || got > 5 {
				t.Fatalf("result %v escaped [1,5]", got)
			}
		})
	}
}

func TestRatingService_DisplayRating(t *testing.T) {
	books := &fakeBooks{books: map[int64]model.Book{3: {ID: 3, Rating: 4.4}}}
	ratings := &fakeRatings{byBook: map[int64][]int{3: {5, 5}}}
	s := NewRatingService(books, ratings, &fakeMarks{})

	got, err := s.DisplayRating(3)
	if err != nil {
		t.Fatal(err)
	}
	if got != 4.5 {
		t.Fatalf("DisplayRating = %v, want 4.5", got)
	}

	if _, err := s.DisplayRating(99); err == nil {
		t.Fatal("want error for unknown book")
	}
}

func TestRatingService_SetRating_Validation(t *testing.T) {
	books := &fakeBooks{books: map[int64]model.Book{3: {ID: 3, Rating: 4.0}}}
	ratings := &fakeRatings{}
	s := NewRatingService(books, ratings, &fakeMarks{})

	for _, bad := range []int{0, -1, 6} {
		if _, err := s.SetRating("u1", 3, bad); err == nil {
			t.Fatalf("rating %d should be rejected", bad)
		}
	}
	if ratings.setVal != 0 {
		t.Fatal("store should not be called on invalid input")
	}

	if _, err := s.SetRating("", 3, 4); err == nil {
		t.Fatal("empty user should be rejected")
	}
	if _, err := s.SetRating("u1", 99, 4); err == nil {
		t.Fatal("unknown book should be rejected")
	}

	rec, err := s.SetRating("u1", 3, 4)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Rating != 4 || ratings.setUser != "u1" || ratings.setBook != 3 {
		t.Fatalf("unexpected record %+v", rec)
	}
}

func TestRatingService_HasRead(t *testing.T) {
	books := &fakeBooks{books: map[int64]model.Book{1: {ID: 1}}}
	ratings := &fakeRatings{byPair: map[string]int{"u1/1": 4}}
	marks := &fakeMarks{ids: map[int64]bool{2: true}}
	s := NewRatingService(books, ratings, marks)

	if !s.HasRead("u1", 1) {
		t.Fatal("nonzero rating should count as read")
	}
	if !s.HasRead("u1", 2) {
		t.Fatal("books-read membership should count as read")
	}
	if s.HasRead("u1", 3) {
		t.Fatal("unmarked, unrated book should not count as read")
	}
}
