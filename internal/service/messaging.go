package service

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/tmakarios/bookden/internal/errs"
	"github.com/tmakarios/bookden/internal/ids"
	"github.com/tmakarios/bookden/internal/model"
)

// ListingFlow is the slice of the market the messaging ledger drives:
// lookups when a conversation starts and status transitions requested
// from inside a conversation.
type ListingFlow interface {
	Get(id int64) (model.Listing, error)
	Transition(id int64, to model.ListingStatus) (model.Listing, error)
}

// MessagingService is an in-memory conversation/message ledger standing
// in for a real backend. Nothing here persists: conversation ids restart
// from 1 every session, a deliberate scope limit of the mock.
type MessagingService interface {
	// StartConversation opens (or reuses) the conversation between the
	// buyer and the listing's seller about the listing's book. A second
	// call for the same pair and book appends instead of creating.
	StartConversation(buyerID string, listingID int64, text string) (model.Conversation, error)
	// AddMessage appends a text message from a participant.
	AddMessage(convID int64, senderID, content string) (model.Message, error)
	// MarkMessagesSeen flips seen on every message not authored by the
	// viewer and recomputes the unread count.
	MarkMessagesSeen(convID int64, viewerID string) (model.Conversation, error)
	// UpdateBookStatus advances the linked listing's status and appends
	// a synthetic status-update message; reaching the terminal picked
	// state additionally appends a rating-request message.
	UpdateBookStatus(convID int64, to model.ListingStatus, actorID string) (model.Conversation, error)
	// Conversations lists the user's conversations, newest activity
	// first, with unread counts computed for that user as viewer.
	Conversations(userID string) []model.Conversation
	// Get returns one conversation.
	Get(convID int64) (model.Conversation, error)
}

type MessagingServiceImpl struct {
	mu     sync.Mutex
	market ListingFlow
	convs  []*model.Conversation
	ids    ids.Source
	now    func() time.Time
	log    *zap.Logger
}

// NewMessagingService constructs the ledger. src assigns conversation
// ids (pass ids.NewCounter(1) for the session-local sequence); now may
// be nil for the wall clock.
func NewMessagingService(market ListingFlow, src ids.Source, now func() time.Time, log *zap.Logger) *MessagingServiceImpl {
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &MessagingServiceImpl{market: market, ids: src, now: now, log: log}
}

// StartConversation deduplicates on the unordered user pair plus the
// book id before creating anything.
func (s *MessagingServiceImpl) StartConversation(buyerID string, listingID int64, text string) (model.Conversation, error) {
	if buyerID == "" || text == "" {
		return model.Conversation{}, errors.New("validation: empty buyer/message")
	}
	lst, err := s.market.Get(listingID)
	if err != nil {
		return model.Conversation{}, err
	}
	if lst.SellerID == buyerID {
		return model.Conversation{}, errors.New("validation: cannot contact own listing")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.convs {
		if c.Between(buyerID, lst.SellerID) && c.BookID == lst.BookID {
			s.appendLocked(c, buyerID, model.MessageText, text)
			return s.copyLocked(c, buyerID), nil
		}
	}

	c := &model.Conversation{
		ID:        s.ids.Next(),
		BuyerID:   buyerID,
		SellerID:  lst.SellerID,
		ListingID: lst.ID,
		BookID:    lst.BookID,
		Messages:  []model.Message{},
	}
	s.convs = append(s.convs, c)
	s.appendLocked(c, buyerID, model.MessageText, text)
	s.log.Info("conversation created",
		zap.Int64("conversation", c.ID),
		zap.Int64("listing", lst.ID),
	)
	return s.copyLocked(c, buyerID), nil
}

// AddMessage appends a participant's text message.
func (s *MessagingServiceImpl) AddMessage(convID int64, senderID, content string) (model.Message, error) {
	if content == "" {
		return model.Message{}, errors.New("validation: empty message")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, err := s.findLocked(convID)
	if err != nil {
		return model.Message{}, err
	}
	if senderID != c.BuyerID && senderID != c.SellerID {
		return model.Message{}, fmt.Errorf("validation: %s is not a participant", senderID)
	}
	return s.appendLocked(c, senderID, model.MessageText, content), nil
}

// MarkMessagesSeen marks the other party's messages seen for viewerID.
func (s *MessagingServiceImpl) MarkMessagesSeen(convID int64, viewerID string) (model.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, err := s.findLocked(convID)
	if err != nil {
		return model.Conversation{}, err
	}
	for i := range c.Messages {
		if c.Messages[i].SenderID != viewerID {
			c.Messages[i].Seen = true
		}
	}
	c.UnreadCount = unreadFor(c, viewerID)
	return s.copyLocked(c, viewerID), nil
}

// UpdateBookStatus drives the listing state machine from the chat.
func (s *MessagingServiceImpl) UpdateBookStatus(convID int64, to model.ListingStatus, actorID string) (model.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, err := s.findLocked(convID)
	if err != nil {
		return model.Conversation{}, err
	}
	if actorID != c.BuyerID && actorID != c.SellerID {
		return model.Conversation{}, fmt.Errorf("validation: %s is not a participant", actorID)
	}
	lst, err := s.market.Transition(c.ListingID, to)
	if err != nil {
		return model.Conversation{}, err
	}
	s.appendLocked(c, actorID, model.MessageStatusUpdate, fmt.Sprintf("Book marked as %s", lst.Status))
	if lst.Status == model.StatusPicked {
		// terminal state: prompt the buyer for a rating
		s.appendLocked(c, actorID, model.MessageRatingRequest, "How was the book? Leave a rating for this purchase.")
	}
	return s.copyLocked(c, actorID), nil
}

// Conversations lists the user's conversations, newest first.
func (s *MessagingServiceImpl) Conversations(userID string) []model.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Conversation
	for _, c := range s.convs {
		if c.BuyerID == userID || c.SellerID == userID {
			out = append(out, s.copyLocked(c, userID))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastMessageAt.After(out[j].LastMessageAt) })
	return out
}

// Get returns the conversation with unread counted for no viewer.
func (s *MessagingServiceImpl) Get(convID int64) (model.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, err := s.findLocked(convID)
	if err != nil {
		return model.Conversation{}, err
	}
	return s.copyLocked(c, ""), nil
}

func (s *MessagingServiceImpl) findLocked(convID int64) (*model.Conversation, error) {
	for _, c := range s.convs {
		if c.ID == convID {
			return c, nil
		}
	}
	return nil, fmt.Errorf("conversation %d: %w", convID, errs.ErrNotFound)
}

// appendLocked adds a message and refreshes the denormalized list-view
// fields. The unread count is recomputed for the recipient.
func (s *MessagingServiceImpl) appendLocked(c *model.Conversation, senderID string, typ model.MessageType, content string) model.Message {
	id, _ := uuid.NewV4()
	m := model.Message{
		ID:       id.String(),
		SenderID: senderID,
		Type:     typ,
		Content:  content,
		SentAt:   s.now(),
	}
	c.Messages = append(c.Messages, m)
	c.LastMessage = content
	c.LastMessageAt = m.SentAt
	c.UnreadCount = unreadFor(c, s.other(c, senderID))
	return m
}

func (s *MessagingServiceImpl) other(c *model.Conversation, userID string) string {
	if c.BuyerID == userID {
		return c.SellerID
	}
	return c.BuyerID
}

// unreadFor counts unseen messages not authored by the viewer.
func unreadFor(c *model.Conversation, viewerID string) int {
	n := 0
	for _, m := range c.Messages {
		if !m.Seen && m.SenderID != viewerID {
			n++
		}
	}
	return n
}

// copyLocked snapshots the conversation with the unread count computed
// for viewerID ("" keeps the stored count).
func (s *MessagingServiceImpl) copyLocked(c *model.Conversation, viewerID string) model.Conversation {
	out := *c
	out.Messages = make([]model.Message, len(c.Messages))
	copy(out.Messages, c.Messages)
	if viewerID != "" {
		out.UnreadCount = unreadFor(c, viewerID)
	}
	return out
}
