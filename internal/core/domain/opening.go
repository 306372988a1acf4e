package domain

import (
	"time"

	"github.com/google/uuid"
)

// InventoryStatus represents the state of an owned item.
type InventoryStatus string

const (
	InventoryStatusOwned     InventoryStatus = "OWNED"
	InventoryStatusSold      InventoryStatus = "SOLD"
	InventoryStatusWithdrawn InventoryStatus = "WITHDRAWN"
)

// OpeningRecord is append-only history of one case opening.
type OpeningRecord struct {
	ID        uuid.UUID `json:"id"`
	AccountID uuid.UUID `json:"account_id"`
	CaseID    uuid.UUID `json:"case_id"`
	ItemID    uuid.UUID `json:"item_id"`
	ItemPrice int64     `json:"item_price"` // price at draw time
	CasePrice int64     `json:"case_price"`
	OpenedAt  time.Time `json:"opened_at"`
}

// InventoryEntry is an item held by an account.
type InventoryEntry struct {
	ID         uuid.UUID       `json:"id"`
	AccountID  uuid.UUID       `json:"account_id"`
	ItemID     uuid.UUID       `json:"item_id"`
	OpeningID  *uuid.UUID      `json:"opening_id,omitempty"`
	Status     InventoryStatus `json:"status"`
	AcquiredAt time.Time       `json:"acquired_at"`
}

// OpeningEvent is published to the live feed after a committed opening.
type OpeningEvent struct {
	OpeningID  uuid.UUID `json:"opening_id"`
	AccountID  uuid.UUID `json:"account_id"`
	CaseID     uuid.UUID `json:"case_id"`
	CaseName   string    `json:"case_name"`
	ItemID     uuid.UUID `json:"item_id"`
	ItemName   string    `json:"item_name"`
	ItemRarity Rarity    `json:"item_rarity"`
	ItemImage  string    `json:"item_image,omitempty"`
	ItemPrice  int64     `json:"item_price"`
	OpenedAt   time.Time `json:"opened_at"`
}
