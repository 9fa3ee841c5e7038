package feed

import (
	"testing"
	"time"

	"github.com/opencivi/bill-comb/app/legislation"
	"github.com/opencivi/bill-comb/app/locales"
)

var aggregatorNow = time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)

func bill(id, updatedAt string) legislation.Bill {
	return legislation.Bill{ID: id, Title: "Bill " + id, UpdatedAt: updatedAt}
}

func TestAggregatorComposesAllTiersForCity(t *testing.T) {
	aggregator := NewAggregator()

	data := map[locales.Tier]TierData{
		locales.TierMunicipal: {Bills: []legislation.Bill{bill("chi-1", "2026-06-01")}},
		locales.TierState:     {Bills: []legislation.Bill{bill("il-1", "2026-06-02")}},
		locales.TierNational:  {Bills: []legislation.Bill{bill("us-1", "2026-06-03")}},
	}

	entries, err := aggregator.Run(data, "Chicago, IL", nil, aggregatorNow)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if len(entries) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(entries))
	}
}

func TestAggregatorExcludesTiersOutsideLocation(t *testing.T) {
	aggregator := NewAggregator()

	data := map[locales.Tier]TierData{
		locales.TierMunicipal: {Bills: []legislation.Bill{bill("chi-1", "2026-06-01")}},
		locales.TierState:     {Bills: []legislation.Bill{bill("il-1", "2026-06-02")}},
		locales.TierNational:  {Bills: []legislation.Bill{bill("us-1", "2026-06-03")}},
	}

	entries, err := aggregator.Run(data, "Denver, CO", nil, aggregatorNow)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if len(entries) != 1 || entries[0].Bill.ID != "us-1" {
		t.Errorf("Expected only the national bill, got %+v", entries)
	}
}

func TestAggregatorMissingTierIsEmpty(t *testing.T) {
	aggregator := NewAggregator()

	data := map[locales.Tier]TierData{
		locales.TierNational: {Bills: []legislation.Bill{bill("us-1", "2026-06-03")}},
	}

	entries, err := aggregator.Run(data, "Chicago, IL", nil, aggregatorNow)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if len(entries) != 1 {
		t.Errorf("Expected missing tiers to contribute nothing, got %d entries", len(entries))
	}
}

func TestAggregatorDeduplicatesFirstWins(t *testing.T) {
	aggregator := NewAggregator()

	// Same ID in municipal and national. Municipal composes first and must
	// win.
	data := map[locales.Tier]TierData{
		locales.TierMunicipal: {Bills: []legislation.Bill{bill("dup-1", "2026-06-01")}},
		locales.TierNational:  {Bills: []legislation.Bill{bill("dup-1", "2026-06-03")}},
	}

	entries, err := aggregator.Run(data, "Chicago, IL", nil, aggregatorNow)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry after dedup, got %d", len(entries))
	}
	if entries[0].Tier != locales.TierMunicipal {
		t.Errorf("Expected municipal occurrence to win, got tier %q", entries[0].Tier)
	}
}

func TestAggregatorDropsStaleEntries(t *testing.T) {
	aggregator := NewAggregator()

	data := map[locales.Tier]TierData{
		locales.TierNational: {Bills: []legislation.Bill{
			bill("fresh", "2026-06-01"),
			bill("stale", "2025-01-01"),
			bill("undated", ""),
		}},
	}

	entries, err := aggregator.Run(data, "Denver, CO", nil, aggregatorNow)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if len(entries) != 1 || entries[0].Bill.ID != "fresh" {
		t.Errorf("Expected only the fresh bill, got %+v", entries)
	}
}

func TestAggregatorAppliesExtraFiltersAsANDChain(t *testing.T) {
	aggregator := NewAggregator()

	data := map[locales.Tier]TierData{
		locales.TierNational: {Bills: []legislation.Bill{
			bill("a", "2026-06-01"),
			bill("b", "2026-06-02"),
		}},
	}

	notA := func(e Entry) bool { return e.Bill.ID != "a" }
	notB := func(e Entry) bool { return e.Bill.ID != "b" }

	entries, err := aggregator.Run(data, "Denver, CO", []Filter{notA, notB}, aggregatorNow)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if len(entries) != 0 {
		t.Errorf("Expected AND-chain to drop everything, got %+v", entries)
	}
}

func TestAggregatorSortsByUpdatedAtDescending(t *testing.T) {
	aggregator := NewAggregator()

	data := map[locales.Tier]TierData{
		locales.TierNational: {Bills: []legislation.Bill{
			bill("old", "2026-05-01"),
			bill("new", "2026-06-10"),
			bill("mid", "2026-05-20"),
		}},
	}

	entries, err := aggregator.Run(data, "Denver, CO", nil, aggregatorNow)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	want := []string{"new", "mid", "old"}
	for i, id := range want {
		if entries[i].Bill.ID != id {
			t.Fatalf("Expected order %v, got %s at %d", want, entries[i].Bill.ID, i)
		}
	}
}

func TestAggregatorUnknownTierInLocationData(t *testing.T) {
	aggregator := NewAggregator()

	// Data keyed by an invalid tier is simply never consulted.
	data := map[locales.Tier]TierData{
		"county": {Bills: []legislation.Bill{bill("x", "2026-06-01")}},
	}

	entries, err := aggregator.Run(data, "Denver, CO", nil, aggregatorNow)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected no entries, got %+v", entries)
	}
}
