package feed

import (
	"github.com/opencivi/bill-comb/app/legislation"
	"github.com/opencivi/bill-comb/app/locales"
)

// Entry is the unit of work of the feed pipeline: one bill merged with its
// AI annotation, resolved topic tags, and jurisdiction tier.
//
// Invariant: Tags is never empty. The builder appends the Other sentinel
// when no topic can be resolved.
type Entry struct {
	Bill       legislation.Bill       `json:"bill"`
	Annotation legislation.Annotation `json:"gpt"`
	Tags       []string               `json:"allTags"`
	Tier       locales.Tier           `json:"tier"`
}

// Preferences holds the user inputs that personalize a feed: the location
// that determines tier inclusion, and the preferred topic tags that drive
// the affinity sub-score.
type Preferences struct {
	Location string   `json:"location"`
	Tags     []string `json:"tags"`
}

// Filter is an inclusion predicate applied by the aggregation pipeline. An
// entry survives only if every filter in the chain returns true.
type Filter func(Entry) bool

// TierData bundles one tier's raw inputs: the bill list and the annotation
// lookup. Either may be empty when a source is unavailable.
type TierData struct {
	Bills       []legislation.Bill
	Annotations legislation.AnnotationSet
}
