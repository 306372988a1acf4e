package dto

// CreateDepositRequest is the request body for starting a deposit.
type CreateDepositRequest struct {
	Amount   int64  `json:"amount" binding:"required,gt=0"` // kopecks
	Currency string `json:"currency" binding:"omitempty,len=3"`
	Provider string `json:"provider" binding:"required,provider"`
}

// OpenCaseResponse is the response body of a case opening.
type OpenCaseResponse struct {
	Item       ItemResponse `json:"item"`
	NewBalance int64        `json:"new_balance"`
	OpeningID  string       `json:"opening_id"`
}

// ItemResponse is the public view of an item.
type ItemResponse struct {
	ID             string `json:"id"`
	MarketHashName string `json:"market_hash_name"`
	DisplayName    string `json:"display_name"`
	Rarity         string `json:"rarity"`
	Category       string `json:"category,omitempty"`
	ImageURL       string `json:"image_url,omitempty"`
	Price          int64  `json:"price"`
}

// BalanceResponse is the response for a balance query.
type BalanceResponse struct {
	Balance  int64  `json:"balance"`
	Currency string `json:"currency"`
}

// ExnodeWebhookRequest is the crypto gateway callback body.
type ExnodeWebhookRequest struct {
	TrackerID string `json:"tracker_id" binding:"required,max=128"`
}

// YooKassaWebhookRequest is the card gateway notification body.
type YooKassaWebhookRequest struct {
	Type   string                `json:"type"`
	Event  string                `json:"event" binding:"required"`
	Object YooKassaWebhookObject `json:"object"`
}

type YooKassaWebhookObject struct {
	ID       string            `json:"id" binding:"required,max=128"`
	Status   string            `json:"status" binding:"required"`
	Paid     bool              `json:"paid"`
	Metadata map[string]string `json:"metadata"`
}

// PreviewRequest is the request body for a probability preview.
type PreviewRequest struct {
	ItemNames []string        `json:"item_names" binding:"required,min=1,dive,required,max=256"`
	Algorithm string          `json:"algorithm" binding:"required,algorithm"`
	Options   *PreviewOptions `json:"options,omitempty"`
}

type PreviewOptions struct {
	MinChance *float64 `json:"min_chance,omitempty" binding:"omitempty,gte=0.01,lte=100"`
	MaxChance *float64 `json:"max_chance,omitempty" binding:"omitempty,gte=0.01,lte=100"`
}

// SetCaseItemsRequest replaces the item list of a case.
type SetCaseItemsRequest struct {
	Items []CaseItemRequest `json:"items" binding:"required,min=1,dive"`
}

type CaseItemRequest struct {
	MarketHashName string  `json:"market_hash_name" binding:"required,max=256"`
	ChancePercent  float64 `json:"chance_percent" binding:"required,gt=0,lte=100"`
}

// CatalogReloadResponse reports the catalog size after a reload.
type CatalogReloadResponse struct {
	Items int `json:"items"`
}
