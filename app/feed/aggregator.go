package feed

import (
	"sort"
	"time"

	"github.com/opencivi/bill-comb/app/legislation"
	"github.com/opencivi/bill-comb/app/locales"
)

// Aggregator merges per-tier bill data into one deduplicated, filtered,
// date-ordered list of feed entries. It is a pure transformation: the
// reference instant is passed in, and missing tier data means an empty
// list, never an error, so one jurisdiction's outage cannot break the
// composite feed.
type Aggregator struct {
	builder *Builder
}

func NewAggregator() *Aggregator {
	return &Aggregator{builder: NewBuilder()}
}

// Run composes the feed for a location. Steps, in fixed order: build
// entries per included tier, deduplicate by bill ID (first occurrence wins,
// in tier order), apply the default staleness filter, apply the callers'
// filters as an AND-chain, and stable-sort by effective update date
// descending.
func (a *Aggregator) Run(data map[locales.Tier]TierData, location string, extraFilters []Filter, now time.Time) ([]Entry, error) {
	var all []Entry
	for _, tier := range locales.TiersFor(location) {
		tierData := data[tier]
		entries, err := a.builder.Run(tierData.Bills, tierData.Annotations, tier)
		if err != nil {
			return nil, err
		}
		all = append(all, entries...)
	}

	all = dedupByID(all)

	filters := append([]Filter{StalenessFilter(now)}, extraFilters...)
	all = applyFilters(all, filters)

	sortByUpdatedAt(all)

	return all, nil
}

func dedupByID(entries []Entry) []Entry {
	seen := make(map[string]bool, len(entries))
	deduped := entries[:0]
	for _, entry := range entries {
		if seen[entry.Bill.ID] {
			continue
		}
		seen[entry.Bill.ID] = true
		deduped = append(deduped, entry)
	}
	return deduped
}

func applyFilters(entries []Entry, filters []Filter) []Entry {
	filtered := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		keep := true
		for _, filter := range filters {
			if !filter(entry) {
				keep = false
				break
			}
		}
		if keep {
			filtered = append(filtered, entry)
		}
	}
	return filtered
}

// sortByUpdatedAt orders entries most recently updated first. The sort is
// stable so equal dates keep their tier-priority order from composition.
func sortByUpdatedAt(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, _ := legislation.ParseDate(entries[i].Bill.EffectiveUpdatedAt())
		b, _ := legislation.ParseDate(entries[j].Bill.EffectiveUpdatedAt())
		return a.After(b)
	})
}
