package locales

import (
	"strings"
)

// Tier is the jurisdiction level of a bill.
type Tier string

const (
	TierMunicipal Tier = "municipal"
	TierState     Tier = "state"
	TierNational  Tier = "national"
)

// TierConfig holds the per-tier constants used by the feed pipeline and
// scorer. Keeping them in one lookup table keeps tier behavior data-driven
// instead of scattered across conditionals.
type TierConfig struct {
	// Priority increases with jurisdiction breadth and feeds the
	// jurisdiction-weight sub-score.
	Priority int
	// Seats is the total number of representatives in the tier's
	// legislative body, used to normalize sponsor-count popularity.
	Seats int
	// SourcePrefix identifies bills that actually originate from the
	// tier's body. Bills whose source_id lacks the prefix fall back to
	// the baseline popularity formula.
	SourcePrefix string
	// BillTypeScore is the binary bill-type sub-score predicate.
	BillTypeScore func(id, classification string) float64
}

var tierConfigs = map[Tier]TierConfig{
	TierNational: {
		Priority:     4,
		Seats:        535, // 100 senators + 435 representatives
		SourcePrefix: "",
		BillTypeScore: func(id, classification string) float64 {
			upper := strings.ToUpper(id)
			if strings.HasPrefix(upper, "HR ") || strings.HasPrefix(upper, "S ") {
				return 1.0
			}
			return 0.0
		},
	},
	TierState: {
		Priority:     3,
		Seats:        177, // 59 state senators + 118 state representatives
		SourcePrefix: "IL",
		// State bills never score on bill type. Known asymmetry with the
		// other tiers, kept as observed behavior.
		BillTypeScore: func(id, classification string) float64 {
			return 0.0
		},
	},
	TierMunicipal: {
		Priority:     2,
		Seats:        50, // city council seats
		SourcePrefix: "CHI",
		BillTypeScore: func(id, classification string) float64 {
			lower := strings.ToLower(classification)
			if lower == "bill" || lower == "ordinance" {
				return 1.0
			}
			return 0.0
		},
	},
}

// AllTiers returns the tiers in feed-composition order: narrowest first, so
// that first-occurrence-wins deduplication prefers the closest jurisdiction.
func AllTiers() []Tier {
	return []Tier{TierMunicipal, TierState, TierNational}
}

// IsValid reports whether tier is one of the fixed enumeration.
func IsValid(tier Tier) bool {
	_, ok := tierConfigs[tier]
	return ok
}

// Config returns the tier's configuration record.
func Config(tier Tier) (TierConfig, bool) {
	cfg, ok := tierConfigs[tier]
	return cfg, ok
}

// PriorityWeight returns the tier's jurisdiction priority. Unknown tiers
// score zero.
func PriorityWeight(tier Tier) int {
	return tierConfigs[tier].Priority
}

// SeatCount returns the total seat count of the tier's legislative body.
func SeatCount(tier Tier) int {
	return tierConfigs[tier].Seats
}

// MaxPriority returns the highest priority across all tiers.
func MaxPriority() int {
	max := 0
	for _, cfg := range tierConfigs {
		if cfg.Priority > max {
			max = cfg.Priority
		}
	}
	return max
}

var cityMarkers = []string{"Chicago, IL", "Chicago,IL", "Chicago, Illinois", "Chicago,Illinois"}

var stateMarkers = []string{", IL", ",IL"}

// IsCityLevel reports whether the location resolves to the municipal tier.
// Accepts both the canonical locale name and free-form addresses.
func IsCityLevel(location string) bool {
	return location == string(TierMunicipal) || containsAny(location, cityMarkers)
}

// IsStateLevel reports whether the location resolves to at least the state
// tier. A city-level location is implicitly state-level.
func IsStateLevel(location string) bool {
	return IsCityLevel(location) || location == string(TierState) || containsAny(location, stateMarkers)
}

// TiersFor returns the tiers included in the feed for a user location.
// Every location sees national legislation.
func TiersFor(location string) []Tier {
	switch {
	case IsCityLevel(location):
		return []Tier{TierMunicipal, TierState, TierNational}
	case IsStateLevel(location):
		return []Tier{TierState, TierNational}
	default:
		return []Tier{TierNational}
	}
}

// LocationLabel returns display text for a location: the place name and the
// jurisdiction levels its feed covers.
func LocationLabel(location string) (string, string) {
	switch {
	case IsCityLevel(location):
		return "Chicago", "Local, State, & National"
	case IsStateLevel(location):
		return "Illinois", "State & National"
	default:
		return "America", "National"
	}
}

func containsAny(s string, variations []string) bool {
	lower := strings.ToLower(s)
	for _, v := range variations {
		if strings.Contains(lower, strings.ToLower(v)) {
			return true
		}
	}
	return false
}
