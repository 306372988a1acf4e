package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Rarity is an ordered item tier used as a coarse probability bucket.
type Rarity string

const (
	RarityConsumer   Rarity = "CONSUMER"
	RarityIndustrial Rarity = "INDUSTRIAL"
	RarityMilSpec    Rarity = "MIL_SPEC"
	RarityRestricted Rarity = "RESTRICTED"
	RarityClassified Rarity = "CLASSIFIED"
	RarityCovert     Rarity = "COVERT"
	RarityKnife      Rarity = "KNIFE"
	RarityContraband Rarity = "CONTRABAND"
)

var rarityOrder = map[Rarity]int{
	RarityConsumer:   0,
	RarityIndustrial: 1,
	RarityMilSpec:    2,
	RarityRestricted: 3,
	RarityClassified: 4,
	RarityCovert:     5,
	RarityKnife:      6,
	RarityContraband: 7,
}

// Rank returns the tier position, lowest first. Unknown tiers rank -1.
func (r Rarity) Rank() int {
	if rank, ok := rarityOrder[r]; ok {
		return rank
	}
	return -1
}

var rarityBaseChances = map[Rarity]float64{
	RarityConsumer:   79.92,
	RarityIndustrial: 15.98,
	RarityMilSpec:    3.2,
	RarityRestricted: 0.64,
	RarityClassified: 0.13,
	RarityCovert:     0.026,
	RarityKnife:      0.026,
}

// FallbackBaseChance is used for tiers without an entry in the base table.
const FallbackBaseChance = 10.0

// BaseChance returns the share of a full case the tier gets before clamping.
func (r Rarity) BaseChance() float64 {
	if c, ok := rarityBaseChances[r]; ok {
		return c
	}
	return FallbackBaseChance
}

// Valid reports whether r is a known tier.
func (r Rarity) Valid() bool {
	return r.Rank() >= 0
}

// catalogRarityIDs maps upstream catalog rarity ids, including the
// alternative names some snapshots use, to tiers.
var catalogRarityIDs = map[string]Rarity{
	"rarity_consumer":   RarityConsumer,
	"rarity_common":     RarityConsumer,
	"rarity_industrial": RarityIndustrial,
	"rarity_uncommon":   RarityIndustrial,
	"rarity_milspec":    RarityMilSpec,
	"rarity_rare":       RarityMilSpec,
	"rarity_restricted": RarityRestricted,
	"rarity_mythical":   RarityRestricted,
	"rarity_classified": RarityClassified,
	"rarity_legendary":  RarityClassified,
	"rarity_covert":     RarityCovert,
	"rarity_ancient":    RarityCovert,
	"rarity_contraband": RarityContraband,
}

// RarityFromCatalogID maps a catalog rarity id to a tier, defaulting to CONSUMER.
// Weapon-specific ids ("rarity_ancient_weapon") resolve like their base id.
func RarityFromCatalogID(id string) Rarity {
	key := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(id)), "_weapon")
	if r, ok := catalogRarityIDs[key]; ok {
		return r
	}
	return RarityConsumer
}

// Item is a persisted virtual item that can be placed in cases.
type Item struct {
	ID             uuid.UUID `json:"id"`
	MarketHashName string    `json:"market_hash_name"`
	DisplayName    string    `json:"display_name"`
	Rarity         Rarity    `json:"rarity"`
	Category       string    `json:"category"`
	ImageURL       string    `json:"image_url"`
	Price          int64     `json:"price"` // kopecks
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CatalogItem is read-only item metadata from the product catalog.
// It has no price; prices come from the market price source.
type CatalogItem struct {
	ID             string `json:"id"`
	MarketHashName string `json:"market_hash_name"`
	Name           string `json:"name"`
	Category       string `json:"category"`
	Weapon         string `json:"weapon"`
	RarityID       string `json:"rarity_id"`
	ImageURL       string `json:"image_url"`
}

// KnifeCategory is the catalog category whose items rank as KNIFE regardless of rarity id.
const KnifeCategory = "Knives"

// Rarity returns the tier of the catalog item.
func (c *CatalogItem) Rarity() Rarity {
	if strings.EqualFold(c.Category, KnifeCategory) {
		return RarityKnife
	}
	return RarityFromCatalogID(c.RarityID)
}
