// Package model defines domain entities used by services and stores.
package model

import "time"

// Book is one entry of the immutable reference catalog. Rating is the
// static baseline blended with user ratings at read time; books are never
// mutated after seeding.
type Book struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	CoverURL    string  `json:"coverUrl,omitempty"`
	Genre       string  `json:"genre,omitempty"`
	Year        int     `json:"year,omitempty"`
	Description string  `json:"description,omitempty"`
	ISBN10      string  `json:"isbn10,omitempty"`
	ISBN13      string  `json:"isbn13,omitempty"`
	Publisher   string  `json:"publisher,omitempty"`
	Pages       int     `json:"pages,omitempty"`
	Language    string  `json:"language,omitempty"`
	Rating      float64 `json:"rating"` // baseline, [1,5]
}

// BookSet is the persisted record behind the favorites and books-read
// slots: one per user, unordered membership, no duplicates.
type BookSet struct {
	UserID  string  `json:"userId"`
	BookIDs []int64 `json:"bookIds"`
}

// Contains reports membership of bookID.
func (s *BookSet) Contains(bookID int64) bool {
	for _, id := range s.BookIDs {
		if id == bookID {
			return true
		}
	}
	return false
}

// Collection is a user-created named grouping of books. Count is kept in
// the serialized record for slot compatibility but is always derived from
// len(BookIDs) on write and ignored on load.
type Collection struct {
	ID          int64   `json:"id"`
	UserID      string  `json:"userId"`
	Name        string  `json:"name"`
	Color       string  `json:"color"`
	Description string  `json:"description,omitempty"`
	BookIDs     []int64 `json:"bookIds"`
	Count       int     `json:"count"`
}

// Condition grades a used book offered for sale.
type Condition string

const (
	ConditionNew      Condition = "New"
	ConditionLikeNew  Condition = "Like New"
	ConditionVeryGood Condition = "Very Good"
	ConditionGood     Condition = "Good"
	ConditionFair     Condition = "Fair"
	ConditionPoor     Condition = "Poor"
	ConditionExcel    Condition = "Excellent"
)

// Conditions lists every accepted grade, for validation and help output.
var Conditions = []Condition{
	ConditionNew, ConditionLikeNew, ConditionVeryGood,
	ConditionGood, ConditionFair, ConditionPoor, ConditionExcel,
}

// Valid reports whether c is a known grade.
func (c Condition) Valid() bool {
	for _, k := range Conditions {
		if c == k {
			return true
		}
	}
	return false
}

// ListingStatus is the forward-only sale state of a listing.
type ListingStatus string

const (
	StatusAvailable ListingStatus = "available"
	StatusSold      ListingStatus = "sold"
	StatusPicked    ListingStatus = "picked" // terminal
)

// Valid reports whether s is a known status.
func (s ListingStatus) Valid() bool {
	return s == StatusAvailable || s == StatusSold || s == StatusPicked
}

// Listing links a seller to a book offered for sale. Book is a
// denormalized read-time convenience rebuilt from the catalog; it is
// never the source of truth and may be nil when the catalog no longer
// knows the id.
type Listing struct {
	ID        int64         `json:"id"`
	SellerID  string        `json:"sellerId"`
	BookID    int64         `json:"bookId"`
	Price     float64       `json:"price"`
	Currency  string        `json:"currency"`
	Condition Condition     `json:"condition"`
	Location  string        `json:"location,omitempty"`
	Distance  float64       `json:"distance,omitempty"`
	Status    ListingStatus `json:"status"`
	Book      *Book         `json:"book,omitempty"`
}

// UserRating holds one user's 1..5 rating of one book. A rating of zero
// means "no rating" and is never stored.
type UserRating struct {
	ID     int64  `json:"id"`
	UserID string `json:"userId"`
	BookID int64  `json:"bookId"`
	Rating int    `json:"rating"`
}

// MessageType distinguishes user text from synthetic ledger entries.
type MessageType string

const (
	MessageText          MessageType = "text"
	MessageStatusUpdate  MessageType = "status_update"
	MessageRatingRequest MessageType = "rating_request"
)

// Message is one entry in a conversation.
type Message struct {
	ID       string      `json:"id"`
	SenderID string      `json:"senderId"`
	Type     MessageType `json:"type"`
	Content  string      `json:"content"`
	Seen     bool        `json:"seen"`
	SentAt   time.Time   `json:"sentAt"`
}

// Conversation links exactly two users around one listing. LastMessage
// and LastMessageAt are denormalized for list views; UnreadCount is
// recomputed on every mutation, never trusted from storage.
type Conversation struct {
	ID            int64     `json:"id"`
	BuyerID       string    `json:"buyerId"`
	SellerID      string    `json:"sellerId"`
	ListingID     int64     `json:"listingId"`
	BookID        int64     `json:"bookId"`
	Messages      []Message `json:"messages"`
	LastMessage   string    `json:"lastMessage"`
	LastMessageAt time.Time `json:"lastMessageAt"`
	UnreadCount   int       `json:"unreadCount"`
}

// Between reports whether the conversation joins users a and b, in
// either order.
func (c *Conversation) Between(a, b string) bool {
	return (c.BuyerID == a && c.SellerID == b) || (c.BuyerID == b && c.SellerID == a)
}
