// Package aggregate derives the distinct (type, category, subcategory)
// combination set from ledger records and groups it by type. Both derivation
// steps are memoized through the two-tier cache; the subcategory toggle is
// part of the combination cache key so the two toggle states never collide.
package aggregate

import (
	"context"
	"time"

	"dashgen/internal/cache"
	"dashgen/internal/core"
)

// Cache keys for the durable tier. GroupsKey is invalidated together with
// the combination keys by the orchestrator's InvalidateAll.
const (
	combinationsKeyWithSub    = "overview:combinations:sub"
	combinationsKeyWithoutSub = "overview:combinations:nosub"
	GroupsKey                 = "overview:groups"
)

// CombinationsKey returns the cache key for one toggle state.
func CombinationsKey(showSubCategories bool) string {
	if showSubCategories {
		return combinationsKeyWithSub
	}
	return combinationsKeyWithoutSub
}

// KnownCacheKeys enumerates every durable key this package writes.
func KnownCacheKeys() []string {
	return []string{combinationsKeyWithSub, combinationsKeyWithoutSub, GroupsKey}
}

type Aggregator struct {
	cache *cache.Store
	ttl   time.Duration
}

func New(store *cache.Store, ttl time.Duration) *Aggregator {
	return &Aggregator{cache: store, ttl: ttl}
}

// UniqueCombinations scans the records once and returns the deduplicated
// combination list in first-seen order. Rows with an empty category are
// skipped. When showSubCategories is false the subcategory collapses to the
// empty string before deduplication, so the rolled-up and detailed variants
// of a (type, category) pair are mutually exclusive in the output.
func (a *Aggregator) UniqueCombinations(ctx context.Context, records []core.LedgerRecord, showSubCategories bool) ([]core.CategoryCombination, error) {
	return cache.Get(ctx, a.cache, CombinationsKey(showSubCategories), a.ttl, func() ([]core.CategoryCombination, error) {
		return extract(records, showSubCategories), nil
	})
}

func extract(records []core.LedgerRecord, showSubCategories bool) []core.CategoryCombination {
	seen := make(map[string]int)
	out := make([]core.CategoryCombination, 0)
	for _, r := range records {
		if r.Category == "" {
			continue
		}
		combo := core.CategoryCombination{
			Type:     r.Type,
			Category: r.Category,
			Shared:   r.Shared,
		}
		if showSubCategories {
			combo.SubCategory = r.SubCategory
		}
		if idx, ok := seen[combo.Key()]; ok {
			// Identity is the triple; the shared flag accumulates.
			if combo.Shared {
				out[idx].Shared = true
			}
			continue
		}
		seen[combo.Key()] = len(out)
		out = append(out, combo)
	}
	return out
}

// GroupByType partitions the combinations by type, preserving both the
// first-seen type order and the intra-type order. Types absent from the
// configured section order still form groups; the layout stage just never
// renders them.
func (a *Aggregator) GroupByType(ctx context.Context, combinations []core.CategoryCombination) (core.GroupedCombinations, error) {
	return cache.Get(ctx, a.cache, GroupsKey, a.ttl, func() (core.GroupedCombinations, error) {
		return group(combinations), nil
	})
}

func group(combinations []core.CategoryCombination) core.GroupedCombinations {
	grouped := core.GroupedCombinations{
		ByType: make(map[string][]core.CategoryCombination),
	}
	for _, combo := range combinations {
		if _, ok := grouped.ByType[combo.Type]; !ok {
			grouped.Order = append(grouped.Order, combo.Type)
		}
		grouped.ByType[combo.Type] = append(grouped.ByType[combo.Type], combo)
	}
	return grouped
}
