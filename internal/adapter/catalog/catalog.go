// Package catalog serves read-only item metadata from a JSON snapshot file.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync/atomic"

	"case-opening-platform/internal/core/domain"

	"github.com/rs/zerolog"
)

type snapshot struct {
	LastSync   string         `json:"lastSync"`
	TotalSkins int            `json:"totalSkins"`
	Skins      []snapshotSkin `json:"skins"`
}

type namedRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type snapshotSkin struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Weapon         namedRef `json:"weapon"`
	Category       namedRef `json:"category"`
	Rarity         namedRef `json:"rarity"`
	MarketHashName string   `json:"market_hash_name"`
	Image          string   `json:"image"`
}

type index struct {
	items      []domain.CatalogItem
	byID       map[string]int
	byName     map[string]int
	byCategory map[string][]int
	byRarity   map[domain.Rarity][]int
}

// Catalog implements ports.Catalog. Lookups read an immutable index that
// Reload replaces in a single pointer swap.
type Catalog struct {
	path string
	idx  atomic.Pointer[index]
	log  zerolog.Logger
}

// New creates an empty catalog backed by the snapshot at path. Call Load before use.
func New(path string, log zerolog.Logger) *Catalog {
	c := &Catalog{
		path: path,
		log:  log.With().Str("component", "catalog").Logger(),
	}
	c.idx.Store(buildIndex(nil))
	return c
}

// Load reads the snapshot and publishes its index.
func (c *Catalog) Load(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	raw, err := os.ReadFile(c.path)
	if err != nil {
		return fmt.Errorf("catalog: read snapshot: %w", err)
	}

	var snap snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return fmt.Errorf("catalog: decode snapshot: %w", err)
	}

	idx := buildIndex(snap.Skins)
	c.idx.Store(idx)

	ev := c.log.Info()
	if len(idx.items) == 0 {
		ev = c.log.Warn()
	}
	ev.Str("path", c.path).
		Str("last_sync", snap.LastSync).
		Int("items", len(idx.items)).
		Int("categories", len(idx.byCategory)).
		Int("rarities", len(idx.byRarity)).
		Msg("Catalog loaded")
	return nil
}

// Reload re-reads the snapshot. On failure the previous index stays in place.
func (c *Catalog) Reload(ctx context.Context) error {
	return c.Load(ctx)
}

func buildIndex(skins []snapshotSkin) *index {
	idx := &index{
		items:      make([]domain.CatalogItem, 0, len(skins)),
		byID:       make(map[string]int, len(skins)),
		byName:     make(map[string]int, len(skins)),
		byCategory: make(map[string][]int),
		byRarity:   make(map[domain.Rarity][]int),
	}

	for _, s := range skins {
		if s.MarketHashName == "" {
			continue
		}
		if _, dup := idx.byName[s.MarketHashName]; dup {
			continue
		}

		item := domain.CatalogItem{
			ID:             s.ID,
			MarketHashName: s.MarketHashName,
			Name:           s.Name,
			Category:       s.Category.Name,
			Weapon:         s.Weapon.Name,
			RarityID:       s.Rarity.ID,
			ImageURL:       s.Image,
		}
		if item.Name == "" {
			item.Name = item.MarketHashName
		}

		pos := len(idx.items)
		idx.items = append(idx.items, item)
		idx.byName[item.MarketHashName] = pos
		if item.ID != "" {
			idx.byID[item.ID] = pos
		}
		if item.Category != "" {
			idx.byCategory[item.Category] = append(idx.byCategory[item.Category], pos)
		}
		r := item.Rarity()
		idx.byRarity[r] = append(idx.byRarity[r], pos)
	}
	return idx
}

func (c *Catalog) ByID(id string) (*domain.CatalogItem, bool) {
	idx := c.idx.Load()
	pos, ok := idx.byID[id]
	if !ok {
		return nil, false
	}
	item := idx.items[pos]
	return &item, true
}

func (c *Catalog) ByName(marketHashName string) (*domain.CatalogItem, bool) {
	idx := c.idx.Load()
	pos, ok := idx.byName[marketHashName]
	if !ok {
		return nil, false
	}
	item := idx.items[pos]
	return &item, true
}

func (c *Catalog) ByCategory(category string) []domain.CatalogItem {
	idx := c.idx.Load()
	return idx.collect(idx.byCategory[category])
}

func (c *Catalog) ByRarity(rarity domain.Rarity) []domain.CatalogItem {
	idx := c.idx.Load()
	return idx.collect(idx.byRarity[rarity])
}

func (c *Catalog) Len() int {
	return len(c.idx.Load().items)
}

func (idx *index) collect(positions []int) []domain.CatalogItem {
	out := make([]domain.CatalogItem, len(positions))
	for i, pos := range positions {
		out[i] = idx.items[pos]
	}
	return out
}
