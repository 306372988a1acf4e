package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"case-opening-platform/internal/core/domain"
	"case-opening-platform/internal/core/ports"
	"case-opening-platform/pkg/apperror"

	"github.com/rs/zerolog"
)

const (
	defaultMinChance = 0.1
	defaultMaxChance = 50.0
	maxPreviewItems  = 50
	// normalizeThreshold is how far the chance sum may drift from 100 before rescaling.
	normalizeThreshold = 0.1
)

var algorithmAliases = map[string]string{
	ports.AlgorithmPrice:    ports.AlgorithmPrice,
	"byprice":               ports.AlgorithmPrice,
	ports.AlgorithmRarity:   ports.AlgorithmRarity,
	"byraritytier":          ports.AlgorithmRarity,
	ports.AlgorithmCombined: ports.AlgorithmCombined,
}

// ProbabilityServiceImpl implements ports.ProbabilityService.
type ProbabilityServiceImpl struct {
	resolver *itemResolver
	log      zerolog.Logger
}

// NewProbabilityService creates a new ProbabilityServiceImpl.
func NewProbabilityService(
	itemRepo ports.ItemRepository,
	catalog ports.Catalog,
	prices ports.PriceSource,
	log zerolog.Logger,
) *ProbabilityServiceImpl {
	return &ProbabilityServiceImpl{
		resolver: &itemResolver{itemRepo: itemRepo, catalog: catalog, prices: prices, log: log},
		log:      log,
	}
}

// Calculate proposes a chance for every resolvable item. Unresolvable items are
// reported as warnings; the call fails only when nothing resolves.
func (s *ProbabilityServiceImpl) Calculate(ctx context.Context, req ports.CalculateRequest) (*ports.CalculateResult, error) {
	names := dedupeNames(req.Names)
	if len(names) == 0 {
		return nil, apperror.Validation("at least one item name is required")
	}
	if len(names) > maxPreviewItems {
		return nil, apperror.Validation(fmt.Sprintf("at most %d item names are allowed", maxPreviewItems))
	}

	algorithm, ok := algorithmAliases[strings.ToLower(req.Algorithm)]
	if !ok {
		return nil, apperror.Validation("algorithm must be one of price, rarity, combined")
	}

	minChance, maxChance := defaultMinChance, defaultMaxChance
	if req.MinChance != nil {
		minChance = *req.MinChance
	}
	if req.MaxChance != nil {
		maxChance = *req.MaxChance
	}
	if minChance < 0.01 || minChance > 100 || maxChance < 0.01 || maxChance > 100 {
		return nil, apperror.Validation("min_chance and max_chance must be between 0.01 and 100")
	}
	if minChance > maxChance {
		return nil, apperror.Validation("min_chance must not exceed max_chance")
	}

	resolved, warnings, err := s.resolver.resolve(ctx, names)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	if len(resolved) == 0 {
		return nil, apperror.Validation("none of the requested items could be resolved")
	}

	prices := make([]int64, len(resolved))
	rarities := make([]domain.Rarity, len(resolved))
	for i, r := range resolved {
		prices[i] = r.Price
		rarities[i] = r.Rarity
	}

	var chances []float64
	switch algorithm {
	case ports.AlgorithmPrice:
		chances = chancesByPrice(prices, minChance, maxChance)
	case ports.AlgorithmRarity:
		chances = chancesByRarity(rarities, minChance, maxChance)
	default:
		chances = chancesCombined(rarities, prices, minChance, maxChance)
	}
	chances = normalizeChances(chances)

	result := &ports.CalculateResult{
		Items:     make([]ports.CalculatedItem, len(resolved)),
		Algorithm: algorithm,
		Warnings:  warnings,
	}
	var total float64
	for i, r := range resolved {
		item := ports.CalculatedItem{
			MarketHashName: r.Name,
			DisplayName:    r.Display,
			Rarity:         r.Rarity,
			Price:          r.Price,
			ChancePercent:  chances[i],
		}
		if r.Persisted != nil {
			id := r.Persisted.ID
			item.ItemID = &id
		}
		result.Items[i] = item
		total += chances[i]
	}
	result.TotalChance = round2(total)
	if result.Warnings == nil {
		result.Warnings = []ports.Warning{}
	}

	s.log.Info().
		Str("algorithm", algorithm).
		Int("items", len(result.Items)).
		Int("warnings", len(warnings)).
		Float64("total_chance", result.TotalChance).
		Msg("Probabilities calculated")
	return result, nil
}

// chancesByPrice weights each item by 1/price.
func chancesByPrice(prices []int64, minChance, maxChance float64) []float64 {
	var totalWeight float64
	for _, p := range prices {
		totalWeight += 1 / float64(p)
	}

	out := make([]float64, len(prices))
	for i, p := range prices {
		out[i] = clampChance((1/float64(p))/totalWeight*100, minChance, maxChance)
	}
	return out
}

// chancesByRarity splits each tier's base chance equally among its members.
func chancesByRarity(rarities []domain.Rarity, minChance, maxChance float64) []float64 {
	members := make(map[domain.Rarity]int)
	for _, r := range rarities {
		members[r]++
	}

	out := make([]float64, len(rarities))
	for i, r := range rarities {
		out[i] = clampChance(r.BaseChance()/float64(members[r]), minChance, maxChance)
	}
	return out
}

// chancesCombined splits each tier's base chance among its members by 1/price.
func chancesCombined(rarities []domain.Rarity, prices []int64, minChance, maxChance float64) []float64 {
	tierWeight := make(map[domain.Rarity]float64)
	for i, r := range rarities {
		tierWeight[r] += 1 / float64(prices[i])
	}

	out := make([]float64, len(rarities))
	for i, r := range rarities {
		share := (1 / float64(prices[i])) / tierWeight[r]
		out[i] = clampChance(share*r.BaseChance(), minChance, maxChance)
	}
	return out
}

// normalizeChances rescales to 100 when the sum is off by normalizeThreshold or
// more. After rescaling, the rounding residue goes to the largest chance so the
// rounded values sum to exactly 100.
func normalizeChances(chances []float64) []float64 {
	var sum float64
	for _, c := range chances {
		sum += c
	}
	if sum <= 0 || math.Abs(sum-100) < normalizeThreshold {
		return chances
	}

	scale := 100 / sum
	out := make([]float64, len(chances))
	var scaled float64
	largest := 0
	for i, c := range chances {
		out[i] = round2(c * scale)
		scaled += out[i]
		if out[i] > out[largest] {
			largest = i
		}
	}
	if residue := round2(100 - scaled); residue != 0 {
		out[largest] = round2(out[largest] + residue)
	}
	return out
}

func clampChance(c, minChance, maxChance float64) float64 {
	return round2(math.Max(minChance, math.Min(maxChance, c)))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// dedupeNames trims names, drops blanks and keeps the first occurrence of each.
func dedupeNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
