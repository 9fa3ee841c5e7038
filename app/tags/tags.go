package tags

import (
	"strings"

	"github.com/opencivi/bill-comb/app/locales"
)

// Other is the sentinel for bills no topic could be resolved for. It is
// never a valid input tag: annotation providers sometimes echo it back, and
// it must be dropped before matching.
const Other = "Other"

// Municipal synthetic tags, derived from bill fields rather than AI output.
const (
	MunicipalOrdinance  = "City Wide Ordinance"
	MunicipalResolution = "City Wide Resolution"
)

// Allowed is the closed topic vocabulary AI tags are matched against.
var Allowed = []string{
	"Economy",
	"Education",
	"Democracy",
	"Health Care",
	"Public Safety",
	"Transit",
	"Abortion",
	"Immigration",
	"Foreign Policy",
	"Climate Change",
	"2nd Amendment",
	"Civil Rights",
	"LGBTQ Rights",
	"Trans Rights",
}

// MunicipalTags lists the synthetic city tags.
var MunicipalTags = []string{MunicipalOrdinance, MunicipalResolution}

// DefaultPreferences is the built-in preference set substituted when a user
// has declared no topic interests, so tag affinity is never starved.
var DefaultPreferences = []string{
	"2nd Amendment",
	"Abortion",
	"Climate Change",
	"Civil Rights",
	"LGBTQ Rights",
	"Trans Rights",
}

// Normalize maps raw annotation tags onto the closed topic vocabulary.
// Matching is case-insensitive and returns canonical casing; unmatched tags
// and the Other sentinel are dropped silently; duplicates collapse to the
// first occurrence. The caller is responsible for any fallback when nothing
// remains.
func Normalize(raw []string) []string {
	var normalized []string
	seen := make(map[string]bool)

	for _, tag := range raw {
		if strings.EqualFold(tag, Other) {
			continue
		}
		canonical, ok := match(tag)
		if !ok || seen[canonical] {
			continue
		}
		seen[canonical] = true
		normalized = append(normalized, canonical)
	}

	return normalized
}

// IsAllowed reports whether tag is in the topic vocabulary or is a
// municipal synthetic tag.
func IsAllowed(tag string) bool {
	if _, ok := match(tag); ok {
		return true
	}
	for _, t := range MunicipalTags {
		if strings.EqualFold(tag, t) {
			return true
		}
	}
	return false
}

// Overlap returns the tags present in both lists, preserving the order of
// the first list.
func Overlap(a, b []string) []string {
	var overlap []string
	for _, tag := range a {
		for _, other := range b {
			if tag == other {
				overlap = append(overlap, tag)
				break
			}
		}
	}
	return overlap
}

// HasOverlap reports whether the two lists share at least one tag.
func HasOverlap(a, b []string) bool {
	for _, tag := range a {
		for _, other := range b {
			if tag == other {
				return true
			}
		}
	}
	return false
}

// AvailableFor returns the tags a user at the given location can filter by.
// Municipal synthetic tags only apply to city-level locations.
func AvailableFor(location string) []string {
	var available []string
	if locales.IsCityLevel(location) {
		available = append(available, MunicipalTags...)
	}
	available = append(available, Allowed...)
	return available
}

func match(tag string) (string, bool) {
	for _, allowed := range Allowed {
		if strings.EqualFold(tag, allowed) {
			return allowed, true
		}
	}
	return "", false
}
