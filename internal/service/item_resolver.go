package service

import (
	"context"
	"fmt"

	"case-opening-platform/internal/core/domain"
	"case-opening-platform/internal/core/ports"

	"github.com/rs/zerolog"
)

// resolvedItem is an item name matched against the items table or the catalog.
type resolvedItem struct {
	Persisted *domain.Item // nil for catalog-only items
	Name      string
	Display   string
	Rarity    domain.Rarity
	Category  string
	ImageURL  string
	Price     int64
}

// toItem returns the persisted item or a new, unsaved item built from the catalog data.
func (r resolvedItem) toItem() domain.Item {
	if r.Persisted != nil {
		return *r.Persisted
	}
	return domain.Item{
		MarketHashName: r.Name,
		DisplayName:    r.Display,
		Rarity:         r.Rarity,
		Category:       r.Category,
		ImageURL:       r.ImageURL,
		Price:          r.Price,
	}
}

// itemResolver finds items by market hash name. Persisted items win over the
// catalog; catalog-only items are priced with one batched price lookup.
type itemResolver struct {
	itemRepo ports.ItemRepository
	catalog  ports.Catalog
	prices   ports.PriceSource
	log      zerolog.Logger
}

func (r *itemResolver) resolve(ctx context.Context, names []string) ([]resolvedItem, []ports.Warning, error) {
	persisted, err := r.itemRepo.GetByNames(ctx, names)
	if err != nil {
		return nil, nil, fmt.Errorf("load items: %w", err)
	}
	byName := make(map[string]*domain.Item, len(persisted))
	for i := range persisted {
		byName[persisted[i].MarketHashName] = &persisted[i]
	}

	var warnings []ports.Warning
	var needPrice []string
	fromCatalog := make(map[string]*domain.CatalogItem)
	for _, name := range names {
		if _, ok := byName[name]; ok {
			continue
		}
		cat, ok := r.catalog.ByName(name)
		if !ok {
			warnings = append(warnings, ports.Warning{
				Name:    name,
				Code:    ports.WarningNotFound,
				Message: "item not found in the items table or the catalog",
			})
			continue
		}
		fromCatalog[name] = cat
		needPrice = append(needPrice, name)
	}

	var prices map[string]int64
	priceFailure := "no market price available"
	if len(needPrice) > 0 {
		prices, err = r.prices.FetchPrices(ctx, needPrice)
		if err != nil {
			r.log.Warn().Err(err).Int("names", len(needPrice)).Msg("Price lookup failed")
			priceFailure = "market price lookup failed"
		}
	}

	missingPrice := make(map[string]bool)
	for _, name := range needPrice {
		if prices[name] <= 0 {
			missingPrice[name] = true
			warnings = append(warnings, ports.Warning{Name: name, Code: ports.WarningPriceError, Message: priceFailure})
		}
	}

	resolved := make([]resolvedItem, 0, len(names))
	for _, name := range names {
		if item, ok := byName[name]; ok {
			resolved = append(resolved, resolvedItem{
				Persisted: item,
				Name:      item.MarketHashName,
				Display:   item.DisplayName,
				Rarity:    item.Rarity,
				Category:  item.Category,
				ImageURL:  item.ImageURL,
				Price:     item.Price,
			})
			continue
		}
		cat, ok := fromCatalog[name]
		if !ok || missingPrice[name] {
			continue
		}
		resolved = append(resolved, resolvedItem{
			Name:     cat.MarketHashName,
			Display:  cat.Name,
			Rarity:   cat.Rarity(),
			Category: cat.Category,
			ImageURL: cat.ImageURL,
			Price:    prices[name],
		})
	}

	r.log.Debug().
		Int("requested", len(names)).
		Int("from_db", len(persisted)).
		Int("priced", len(needPrice)-len(missingPrice)).
		Int("warnings", len(warnings)).
		Msg("Items resolved")
	return resolved, warnings, nil
}
