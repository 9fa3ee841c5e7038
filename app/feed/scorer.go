package feed

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/opencivi/bill-comb/app/legislation"
	"github.com/opencivi/bill-comb/app/locales"
	"github.com/opencivi/bill-comb/app/tags"
)

// Weights configures the relevance score. Each sub-score is normalized to
// [0,1], so the total is bounded by the sum of the weights, which must not
// exceed 1.
type Weights struct {
	Tags       float64
	Popularity float64
	Freshness  float64
	Level      float64
	BillType   float64
}

// DefaultWeights are the shipped scoring weights. BillType is disabled: it
// was giving municipal bills far too much weight.
var DefaultWeights = Weights{
	Tags:       0.4,
	Popularity: 0.2,
	Freshness:  0.1,
	Level:      0.1,
	BillType:   0.0,
}

// Scorer computes the multi-factor relevance score used to rank the feed.
type Scorer struct {
	weights Weights
}

func NewScorer(weights Weights) *Scorer {
	return &Scorer{weights: weights}
}

// Score returns the weighted relevance of one entry for the given
// preferences at the reference instant.
func (s *Scorer) Score(e Entry, prefs Preferences, now time.Time) float64 {
	return s.tagScore(prefs.Tags, e.Tags)*s.weights.Tags +
		s.freshnessScore(e, now)*s.weights.Freshness +
		s.levelScore(e.Tier)*s.weights.Level +
		s.popularityScore(e)*s.weights.Popularity +
		s.billTypeScore(e)*s.weights.BillType
}

// Rank returns the entries sorted by descending score. The sort is stable,
// preserving the aggregator's date-descending order on ties.
func (s *Scorer) Rank(entries []Entry, prefs Preferences, now time.Time) []Entry {
	type scored struct {
		entry Entry
		score float64
	}

	ranked := make([]scored, len(entries))
	for i, entry := range entries {
		ranked[i] = scored{entry: entry, score: s.Score(entry, prefs, now)}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	result := make([]Entry, len(ranked))
	for i, r := range ranked {
		result[i] = r.entry
	}

	return result
}

// tagScore is the fraction of preferred tags matched, boosted so three
// matches approach the maximum, capped at 1. Users with no declared
// preferences get the built-in default set.
func (s *Scorer) tagScore(userTags, entryTags []string) float64 {
	if len(entryTags) == 0 {
		return 0
	}
	if len(userTags) == 0 {
		userTags = tags.DefaultPreferences
	}

	matched := len(tags.Overlap(userTags, entryTags))
	boosted := float64(matched*3) / float64(len(tags.Allowed))

	return math.Min(boosted, 1)
}

// freshnessScore decays exponentially with age in days since the effective
// update date: exp(-age/30). Undated entries score zero.
func (s *Scorer) freshnessScore(e Entry, now time.Time) float64 {
	updated, ok := legislation.ParseDate(e.Bill.EffectiveUpdatedAt())
	if !ok {
		return 0
	}

	ageDays := now.Sub(updated).Hours() / 24
	if ageDays < 0 {
		ageDays = 0
	}

	return math.Exp(-ageDays / 30)
}

// levelScore normalizes the tier's priority by the maximum, so national
// bills always score 1.0 and municipal the lowest.
func (s *Scorer) levelScore(tier locales.Tier) float64 {
	return float64(locales.PriorityWeight(tier)) / float64(locales.MaxPriority())
}

// popularityScore is the sponsor count relative to the tier's total seats,
// capped at 1. Bills that cannot be attributed to the tier's own body, or
// tiers without a seat mapping, fall back to min(sponsors/10, 1).
func (s *Scorer) popularityScore(e Entry) float64 {
	sponsorCount := len(e.Bill.Sponsors)
	if sponsorCount == 0 {
		return 0
	}

	baseline := math.Min(float64(sponsorCount)/10, 1)

	cfg, ok := locales.Config(e.Tier)
	if !ok || cfg.Seats == 0 {
		return baseline
	}
	if cfg.SourcePrefix != "" && !strings.HasPrefix(e.Bill.SourceID, cfg.SourcePrefix) {
		return baseline
	}

	return math.Min(float64(sponsorCount)/float64(cfg.Seats), 1)
}

// billTypeScore is the binary 0/1 signal from the tier's bill-type
// predicate.
func (s *Scorer) billTypeScore(e Entry) float64 {
	cfg, ok := locales.Config(e.Tier)
	if !ok {
		return 0
	}
	return cfg.BillTypeScore(e.Bill.ID, e.Bill.Classification)
}
