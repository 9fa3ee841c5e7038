package feed

import (
	"fmt"
	"strings"

	"github.com/opencivi/bill-comb/app/legislation"
	"github.com/opencivi/bill-comb/app/locales"
	"github.com/opencivi/bill-comb/app/tags"
)

// Builder turns raw bills and their annotations into feed entries.
type Builder struct{}

func NewBuilder() *Builder {
	return &Builder{}
}

// Run builds one entry per bill for a single tier. A tier outside the fixed
// enumeration is a programmer error; everything else degrades to defaults.
func (b *Builder) Run(bills []legislation.Bill, annotations legislation.AnnotationSet, tier locales.Tier) ([]Entry, error) {
	if !locales.IsValid(tier) {
		return nil, fmt.Errorf("unknown tier: %q", tier)
	}

	entries := make([]Entry, 0, len(bills))
	for _, bill := range bills {
		entries = append(entries, b.buildEntry(bill, annotations, tier))
	}

	return entries, nil
}

func (b *Builder) buildEntry(bill legislation.Bill, annotations legislation.AnnotationSet, tier locales.Tier) Entry {
	annotation := annotations[bill.ID]

	aiTags := tags.Normalize(annotation.Tags)

	var synthetic []string
	if tier == locales.TierMunicipal {
		if IsImportantOrdinance(bill) {
			synthetic = append(synthetic, tags.MunicipalOrdinance)
		} else if IsCityResolution(bill) {
			synthetic = append(synthetic, tags.MunicipalResolution)
		}
	}

	// Synthetic tags first so display ordering favors them.
	allTags := make([]string, 0, len(synthetic)+len(aiTags))
	allTags = append(allTags, synthetic...)
	allTags = append(allTags, aiTags...)

	if len(allTags) == 0 {
		allTags = append(allTags, tags.Other)
	}

	return Entry{
		Bill: bill,
		Annotation: legislation.Annotation{
			Summary: annotation.Summary,
			Tags:    aiTags,
		},
		Tags: allTags,
		Tier: tier,
	}
}

// IsImportantOrdinance reports whether a municipal bill is a citywide
// ordinance worth surfacing: classified as an ordinance and tagged with
// both the citywide and municipal-code markers.
func IsImportantOrdinance(bill legislation.Bill) bool {
	return bill.Classification == "ordinance" &&
		hasTag(bill.Tags, "City Matters") &&
		hasTag(bill.Tags, "Municipal Code")
}

// IsCityResolution reports whether a municipal bill is a substantive
// resolution: classified as a resolution, not a council-rules item, and not
// a ceremonial occasion. The "birthday" substring check is a known fragile
// heuristic carried over from production data.
func IsCityResolution(bill legislation.Bill) bool {
	return bill.Classification == "resolution" &&
		!hasTag(bill.Tags, "City Council Rules") &&
		!strings.Contains(strings.ToLower(bill.Title), "birthday")
}

func hasTag(billTags []string, tag string) bool {
	for _, t := range billTags {
		if t == tag {
			return true
		}
	}
	return false
}
