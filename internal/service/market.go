package service

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/tmakarios/bookden/internal/errs"
	"github.com/tmakarios/bookden/internal/model"
)

// ListingRecords is the slice of the listing store the market needs.
type ListingRecords interface {
	Add(model.Listing) (model.Listing, error)
	List() []model.Listing
	Get(id int64) (model.Listing, error)
	Replace(model.Listing) (model.Listing, error)
	Remove(id int64) error
}

// CreateListingRequest carries validated input for a new listing.
type CreateListingRequest struct {
	SellerID  string          `validate:"required"`
	BookID    int64           `validate:"required"`
	Price     float64         `validate:"required,gt=0"`
	Currency  string          `validate:"required,len=3,alpha"`
	Condition model.Condition `validate:"required"`
	Location  string
	Distance  float64 `validate:"gte=0"`
}

// MarketService owns the books-for-sale lifecycle. Status monotonicity
// (available → sold → picked, never backward) is enforced here, at the
// service boundary; the store persists whatever it is handed.
type MarketService interface {
	// CreateListing validates input and records a new available listing.
	CreateListing(req CreateListingRequest) (model.Listing, error)
	// RemoveListing deletes a listing, permitted only while available
	// and only by its seller.
	RemoveListing(id int64, sellerID string) error
	// Transition advances the status one step forward. A same-status
	// request is a no-op returning the current record.
	Transition(id int64, to model.ListingStatus) (model.Listing, error)
	// Get returns one listing with its catalog book denormalized in.
	Get(id int64) (model.Listing, error)
	// ListOpen returns available listings, book embeds resolved.
	ListOpen() []model.Listing
	// ListBySeller returns the seller's listings in any status.
	ListBySeller(sellerID string) []model.Listing
}

type MarketServiceImpl struct {
	listings ListingRecords
	books    BookLookup
	validate *validator.Validate
}

// NewMarketService constructs MarketService with required dependencies.
func NewMarketService(listings ListingRecords, books BookLookup) *MarketServiceImpl {
	return &MarketServiceImpl{listings: listings, books: books, validate: validator.New()}
}

// CreateListing validates the request and stores a new listing.
func (s *MarketServiceImpl) CreateListing(req CreateListingRequest) (model.Listing, error) {
	if err := s.validate.Struct(req); err != nil {
		return model.Listing{}, fmt.Errorf("validation: %w", err)
	}
	if !req.Condition.Valid() {
		return model.Listing{}, fmt.Errorf("validation: unknown condition %q", req.Condition)
	}
	if _, err := s.books.ByID(req.BookID); err != nil {
		return model.Listing{}, err
	}
	lst, err := s.listings.Add(model.Listing{
		SellerID:  req.SellerID,
		BookID:    req.BookID,
		Price:     req.Price,
		Currency:  req.Currency,
		Condition: req.Condition,
		Location:  req.Location,
		Distance:  req.Distance,
		Status:    model.StatusAvailable,
	})
	if err != nil {
		return lst, err
	}
	return s.embed(lst), nil
}

// RemoveListing deletes the listing while it is still open.
func (s *MarketServiceImpl) RemoveListing(id int64, sellerID string) error {
	lst, err := s.listings.Get(id)
	if err != nil {
		return err
	}
	if lst.SellerID != sellerID {
		return fmt.Errorf("validation: listing %d not owned by %s", id, sellerID)
	}
	if lst.Status != model.StatusAvailable {
		return fmt.Errorf("listing %d: %w", id, errs.ErrListingNotAvailable)
	}
	return s.listings.Remove(id)
}

// Transition advances available → sold → picked, one step at a time.
func (s *MarketServiceImpl) Transition(id int64, to model.ListingStatus) (model.Listing, error) {
	if !to.Valid() {
		return model.Listing{}, fmt.Errorf("validation: unknown status %q", to)
	}
	lst, err := s.listings.Get(id)
	if err != nil {
		return model.Listing{}, err
	}
	if to == lst.Status {
		return s.embed(lst), nil // no-op
	}
	if lst.Status == model.StatusPicked {
		return model.Listing{}, fmt.Errorf("listing %d: %w", id, errs.ErrStatusFinal)
	}
	ok := (lst.Status == model.StatusAvailable && to == model.StatusSold) ||
		(lst.Status == model.StatusSold && to == model.StatusPicked)
	if !ok {
		return model.Listing{}, fmt.Errorf("listing %d: %s -> %s: %w", id, lst.Status, to, errs.ErrBadTransition)
	}
	lst.Status = to
	lst, err = s.listings.Replace(lst)
	if err != nil {
		return lst, err
	}
	return s.embed(lst), nil
}

// Get returns one listing with the catalog book resolved.
func (s *MarketServiceImpl) Get(id int64) (model.Listing, error) {
	lst, err := s.listings.Get(id)
	if err != nil {
		return model.Listing{}, err
	}
	return s.embed(lst), nil
}

// ListOpen returns every available listing.
func (s *MarketServiceImpl) ListOpen() []model.Listing {
	var out []model.Listing
	for _, lst := range s.listings.List() {
		if lst.Status == model.StatusAvailable {
			out = append(out, s.embed(lst))
		}
	}
	return out
}

// ListBySeller returns the seller's listings in any status.
func (s *MarketServiceImpl) ListBySeller(sellerID string) []model.Listing {
	var out []model.Listing
	for _, lst := range s.listings.List() {
		if lst.SellerID == sellerID {
			out = append(out, s.embed(lst))
		}
	}
	return out
}

// embed resolves the denormalized book at read time. An unknown book id
// omits the embed rather than failing the read.
func (s *MarketServiceImpl) embed(lst model.Listing) model.Listing {
	if b, err := s.books.ByID(lst.BookID); err == nil {
		lst.Book = &b
	}
	return lst
}
