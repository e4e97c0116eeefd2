package services

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"

	"github.com/go-redis/redis/v8"
)

var bgContext = context.Background()

// BookingDraft carries form input between the booking form and the checkout
// page until the booking is submitted. It is a carry-over buffer, not an
// authoritative record; unset fields keep their zero defaults.
type BookingDraft struct {
	FullName        string  `json:"fullName"`
	Age             string  `json:"age"`
	Address         string  `json:"address"`
	Phone           string  `json:"phone"`
	Title           string  `json:"title"`
	Image           string  `json:"image"`
	CheckIn         string  `json:"checkIn"`
	CheckOut        string  `json:"checkOut"`
	NumOfPeople     string  `json:"numOfPeople"`
	PaymentMethod   string  `json:"paymentMethod"`
	SpecialRequests string  `json:"specialRequests"`
	TotalPrice      float64 `json:"totalPrice"`
}

// DraftStore persists one draft per user. Set merges the given partial JSON
// document into the stored draft; Clear resets every field to its default.
// Drafts have no expiry: they live until cleared or overwritten.
type DraftStore interface {
	Get(userID uint) (BookingDraft, error)
	Set(userID uint, partial json.RawMessage) (BookingDraft, error)
	Clear(userID uint) error
}

const draftKeyPrefix = "booking-storage:"

// RedisDraftStore keeps drafts in Redis so they survive navigation, reloads
// and server restarts.
type RedisDraftStore struct {
	client *redis.Client
}

func NewRedisDraftStore(client *redis.Client) *RedisDraftStore {
	return &RedisDraftStore{client: client}
}

func draftKey(userID uint) string {
	return draftKeyPrefix + strconv.FormatUint(uint64(userID), 10)
}

func (s *RedisDraftStore) Get(userID uint) (BookingDraft, error) {
	var draft BookingDraft
	val, err := s.client.Get(bgContext, draftKey(userID)).Result()
	if err == redis.Nil {
		return draft, nil
	}
	if err != nil {
		return draft, err
	}
	if err := json.Unmarshal([]byte(val), &draft); err != nil {
		return BookingDraft{}, err
	}
	return draft, nil
}

func (s *RedisDraftStore) Set(userID uint, partial json.RawMessage) (BookingDraft, error) {
	draft, err := s.Get(userID)
	if err != nil {
		return draft, err
	}
	if err := json.Unmarshal(partial, &draft); err != nil {
		return draft, err
	}
	data, err := json.Marshal(draft)
	if err != nil {
		return draft, err
	}
	if err := s.client.Set(bgContext, draftKey(userID), data, 0).Err(); err != nil {
		return draft, err
	}
	return draft, nil
}

func (s *RedisDraftStore) Clear(userID uint) error {
	return s.client.Del(bgContext, draftKey(userID)).Err()
}

// MemoryDraftStore is the in-process persistence port, used by tests and by
// deployments without Redis.
type MemoryDraftStore struct {
	mu     sync.Mutex
	drafts map[uint]BookingDraft
}

func NewMemoryDraftStore() *MemoryDraftStore {
	return &MemoryDraftStore{drafts: make(map[uint]BookingDraft)}
}

func (s *MemoryDraftStore) Get(userID uint) (BookingDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drafts[userID], nil
}

func (s *MemoryDraftStore) Set(userID uint, partial json.RawMessage) (BookingDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	draft := s.drafts[userID]
	if err := json.Unmarshal(partial, &draft); err != nil {
		return draft, err
	}
	s.drafts[userID] = draft
	return draft, nil
}

func (s *MemoryDraftStore) Clear(userID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, userID)
	return nil
}
