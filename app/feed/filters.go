package feed

import (
	"strings"
	"time"

	"github.com/opencivi/bill-comb/app/legislation"
	"github.com/opencivi/bill-comb/app/locales"
	"github.com/opencivi/bill-comb/app/tags"
)

// StalenessFilter drops entries whose effective update date is older than
// six calendar months relative to the reference instant. Entries without a
// parseable date are dropped as well: a bill nobody can date is stale.
func StalenessFilter(now time.Time) Filter {
	cutoff := now.AddDate(0, -6, 0)
	return func(e Entry) bool {
		updated, ok := legislation.ParseDate(e.Bill.EffectiveUpdatedAt())
		if !ok {
			return false
		}
		return !updated.Before(cutoff)
	}
}

// MunicipalNoiseFilter suppresses routine municipal items: municipal
// entries survive only when the builder tagged them as a citywide ordinance
// or resolution. Entries from other tiers pass through untouched.
func MunicipalNoiseFilter() Filter {
	return func(e Entry) bool {
		if e.Tier != locales.TierMunicipal {
			return true
		}
		return IsImportantOrdinance(e.Bill) || IsCityResolution(e.Bill)
	}
}

// TagFilter keeps entries sharing at least one tag with the wanted set. An
// empty set keeps everything.
func TagFilter(want []string) Filter {
	return func(e Entry) bool {
		if len(want) == 0 {
			return true
		}
		return tags.HasOverlap(want, e.Tags)
	}
}

// SponsorFilter keeps entries sponsored by any of the named legislators,
// matched case-insensitively. An empty set keeps everything.
func SponsorFilter(names []string) Filter {
	return func(e Entry) bool {
		if len(names) == 0 {
			return true
		}
		for _, sponsor := range e.Bill.Sponsors {
			for _, name := range names {
				if strings.EqualFold(sponsor.Name, name) {
					return true
				}
			}
		}
		return false
	}
}
