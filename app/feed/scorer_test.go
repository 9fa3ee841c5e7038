package feed

import (
	"math"
	"testing"
	"time"

	"github.com/opencivi/bill-comb/app/legislation"
	"github.com/opencivi/bill-comb/app/locales"
)

var scorerNow = time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestTagScore(t *testing.T) {
	scorer := NewScorer(DefaultWeights)

	// One match: 1*3/14.
	got := scorer.tagScore([]string{"Economy"}, []string{"Economy", "Transit"})
	if !almostEqual(got, 3.0/14.0) {
		t.Errorf("Expected %f, got %f", 3.0/14.0, got)
	}

	// Five matches: 15/14 caps at 1.
	userTags := []string{"Economy", "Transit", "Abortion", "Education", "Democracy"}
	got = scorer.tagScore(userTags, userTags)
	if !almostEqual(got, 1.0) {
		t.Errorf("Expected cap at 1, got %f", got)
	}

	// No entry tags scores zero even with preferences.
	if got := scorer.tagScore([]string{"Economy"}, nil); got != 0 {
		t.Errorf("Expected 0 for untagged entry, got %f", got)
	}
}

func TestTagScoreDefaultPreferences(t *testing.T) {
	scorer := NewScorer(DefaultWeights)

	// No declared preferences substitutes the default set, which includes
	// Climate Change.
	got := scorer.tagScore(nil, []string{"Climate Change"})
	if !almostEqual(got, 3.0/14.0) {
		t.Errorf("Expected default preferences to apply, got %f", got)
	}

	// Entry tags outside the default set score zero.
	if got := scorer.tagScore(nil, []string{"Transit"}); got != 0 {
		t.Errorf("Expected 0 for non-default tag, got %f", got)
	}
}

func TestFreshnessScore(t *testing.T) {
	scorer := NewScorer(DefaultWeights)

	// Updated today scores 1.
	entry := Entry{Bill: legislation.Bill{UpdatedAt: "2026-06-15"}}
	if got := scorer.freshnessScore(entry, scorerNow); !almostEqual(got, 1.0) {
		t.Errorf("Expected 1 for same-day update, got %f", got)
	}

	// 30 days old scores 1/e.
	entry = Entry{Bill: legislation.Bill{UpdatedAt: "2026-05-16"}}
	if got := scorer.freshnessScore(entry, scorerNow); !almostEqual(got, math.Exp(-1)) {
		t.Errorf("Expected %f, got %f", math.Exp(-1), got)
	}

	// Undated scores zero.
	entry = Entry{}
	if got := scorer.freshnessScore(entry, scorerNow); got != 0 {
		t.Errorf("Expected 0 for undated entry, got %f", got)
	}

	// Future dates clamp to 1 rather than exceeding it.
	entry = Entry{Bill: legislation.Bill{UpdatedAt: "2026-07-01"}}
	if got := scorer.freshnessScore(entry, scorerNow); !almostEqual(got, 1.0) {
		t.Errorf("Expected clamp to 1 for future date, got %f", got)
	}
}

func TestLevelScore(t *testing.T) {
	scorer := NewScorer(DefaultWeights)

	if got := scorer.levelScore(locales.TierNational); !almostEqual(got, 1.0) {
		t.Errorf("Expected national to score 1, got %f", got)
	}
	if got := scorer.levelScore(locales.TierState); !almostEqual(got, 0.75) {
		t.Errorf("Expected state to score 0.75, got %f", got)
	}
	if got := scorer.levelScore(locales.TierMunicipal); !almostEqual(got, 0.5) {
		t.Errorf("Expected municipal to score 0.5, got %f", got)
	}
}

func TestPopularityScore(t *testing.T) {
	scorer := NewScorer(DefaultWeights)

	sponsors := func(n int) []legislation.Sponsor {
		s := make([]legislation.Sponsor, n)
		for i := range s {
			s[i] = legislation.Sponsor{Name: "Sponsor"}
		}
		return s
	}

	// No sponsors scores zero.
	entry := Entry{Tier: locales.TierNational}
	if got := scorer.popularityScore(entry); got != 0 {
		t.Errorf("Expected 0 for no sponsors, got %f", got)
	}

	// National: sponsors over 535 seats.
	entry = Entry{
		Tier: locales.TierNational,
		Bill: legislation.Bill{Sponsors: sponsors(107)},
	}
	if got := scorer.popularityScore(entry); !almostEqual(got, 107.0/535.0) {
		t.Errorf("Expected %f, got %f", 107.0/535.0, got)
	}

	// State bill with matching source prefix: sponsors over 177 seats.
	entry = Entry{
		Tier: locales.TierState,
		Bill: legislation.Bill{SourceID: "IL-HB-200", Sponsors: sponsors(59)},
	}
	if got := scorer.popularityScore(entry); !almostEqual(got, 59.0/177.0) {
		t.Errorf("Expected %f, got %f", 59.0/177.0, got)
	}

	// Prefix mismatch falls back to min(n/10, 1).
	entry = Entry{
		Tier: locales.TierState,
		Bill: legislation.Bill{SourceID: "OH-HB-200", Sponsors: sponsors(5)},
	}
	if got := scorer.popularityScore(entry); !almostEqual(got, 0.5) {
		t.Errorf("Expected baseline 0.5, got %f", got)
	}

	// Unknown tier falls back to the baseline too.
	entry = Entry{
		Tier: "county",
		Bill: legislation.Bill{Sponsors: sponsors(20)},
	}
	if got := scorer.popularityScore(entry); !almostEqual(got, 1.0) {
		t.Errorf("Expected capped baseline 1, got %f", got)
	}
}

func TestScoreBounded(t *testing.T) {
	scorer := NewScorer(DefaultWeights)

	// A maximally relevant entry: every sub-score at 1.
	entry := Entry{
		Tier: locales.TierNational,
		Bill: legislation.Bill{
			ID:        "HR 1",
			UpdatedAt: "2026-06-15",
			Sponsors:  make([]legislation.Sponsor, 535),
		},
		Tags: []string{"2nd Amendment", "Abortion", "Climate Change", "Civil Rights", "LGBTQ Rights"},
	}

	score := scorer.Score(entry, Preferences{}, scorerNow)
	maxTotal := DefaultWeights.Tags + DefaultWeights.Popularity + DefaultWeights.Freshness +
		DefaultWeights.Level + DefaultWeights.BillType

	if score > maxTotal+1e-9 {
		t.Errorf("Score %f exceeds weight sum %f", score, maxTotal)
	}
	if !almostEqual(score, maxTotal) {
		t.Errorf("Expected maximal entry to score %f, got %f", maxTotal, score)
	}
}

func TestBillTypeWeightDisabled(t *testing.T) {
	if DefaultWeights.BillType != 0 {
		t.Errorf("Expected bill type weight to be disabled, got %f", DefaultWeights.BillType)
	}
}

func TestRankDescendingAndStable(t *testing.T) {
	scorer := NewScorer(DefaultWeights)

	high := Entry{
		Tier: locales.TierNational,
		Bill: legislation.Bill{ID: "high", UpdatedAt: "2026-06-15"},
		Tags: []string{"Climate Change"},
	}
	lowFirst := Entry{
		Tier: locales.TierMunicipal,
		Bill: legislation.Bill{ID: "low-first", UpdatedAt: "2026-06-15"},
		Tags: []string{"Transit"},
	}
	lowSecond := Entry{
		Tier: locales.TierMunicipal,
		Bill: legislation.Bill{ID: "low-second", UpdatedAt: "2026-06-15"},
		Tags: []string{"Transit"},
	}

	ranked := scorer.Rank([]Entry{lowFirst, lowSecond, high}, Preferences{Tags: []string{"Climate Change"}}, scorerNow)

	if ranked[0].Bill.ID != "high" {
		t.Errorf("Expected highest score first, got %s", ranked[0].Bill.ID)
	}
	// Equal scores keep input order.
	if ranked[1].Bill.ID != "low-first" || ranked[2].Bill.ID != "low-second" {
		t.Errorf("Expected stable order for ties, got %s then %s", ranked[1].Bill.ID, ranked[2].Bill.ID)
	}
}
