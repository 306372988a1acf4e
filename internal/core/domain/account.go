package domain

import (
	"time"

	"github.com/google/uuid"
)

// Account holds a user's spendable balance in kopecks. Balance is never negative.
type Account struct {
	ID         uuid.UUID `json:"id"`
	ExternalID string    `json:"external_id"`
	Balance    int64     `json:"balance"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CanAfford reports whether the balance covers amount.
func (a *Account) CanAfford(amount int64) bool {
	return amount >= 0 && a.Balance >= amount
}

// UserStats is derived, best-effort bookkeeping about an account's openings.
type UserStats struct {
	AccountID         uuid.UUID  `json:"account_id"`
	TotalOpened       int64      `json:"total_opened"`
	BestItemID        *uuid.UUID `json:"best_item_id,omitempty"`
	BestItemPrice     int64      `json:"best_item_price"`
	FavoriteCaseID    *uuid.UUID `json:"favorite_case_id,omitempty"`
	FavoriteCaseCount int64      `json:"favorite_case_count"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// RecordDrop updates the highest-value drop. Ties keep the earlier drop.
func (s *UserStats) RecordDrop(itemID uuid.UUID, price int64) bool {
	if s.BestItemID != nil && price <= s.BestItemPrice {
		return false
	}
	id := itemID
	s.BestItemID = &id
	s.BestItemPrice = price
	return true
}

// RecordCaseCount replaces the favorite case when caseCount beats the current one.
func (s *UserStats) RecordCaseCount(caseID uuid.UUID, caseCount int64) {
	if s.FavoriteCaseID != nil && *s.FavoriteCaseID == caseID {
		s.FavoriteCaseCount = caseCount
		return
	}
	if caseCount > s.FavoriteCaseCount {
		id := caseID
		s.FavoriteCaseID = &id
		s.FavoriteCaseCount = caseCount
	}
}
