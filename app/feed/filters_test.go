package feed

import (
	"testing"
	"time"

	"github.com/opencivi/bill-comb/app/legislation"
	"github.com/opencivi/bill-comb/app/locales"
)

var filterNow = time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)

func TestStalenessFilter(t *testing.T) {
	filter := StalenessFilter(filterNow)

	tests := []struct {
		name      string
		updatedAt string
		want      bool
	}{
		{"fresh", "2026-06-01", true},
		{"exactly at cutoff", "2025-12-15", true},
		{"stale", "2025-12-14", false},
		{"very old", "2020-01-01", false},
		{"undated", "", false},
		{"unparseable", "last week", false},
	}

	for _, tt := range tests {
		entry := Entry{Bill: legislation.Bill{ID: "hb-1", UpdatedAt: tt.updatedAt}}
		if got := filter(entry); got != tt.want {
			t.Errorf("%s: StalenessFilter = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestStalenessFilterUsesStatusDateFallback(t *testing.T) {
	filter := StalenessFilter(filterNow)

	entry := Entry{Bill: legislation.Bill{ID: "hb-1", StatusDate: "2026-06-01"}}
	if !filter(entry) {
		t.Error("Expected statusDate fallback to keep fresh entry")
	}
}

func TestMunicipalNoiseFilter(t *testing.T) {
	filter := MunicipalNoiseFilter()

	important := Entry{
		Tier: locales.TierMunicipal,
		Bill: legislation.Bill{
			Classification: "ordinance",
			Tags:           []string{"City Matters", "Municipal Code"},
		},
	}
	if !filter(important) {
		t.Error("Expected citywide ordinance to survive")
	}

	routine := Entry{
		Tier: locales.TierMunicipal,
		Bill: legislation.Bill{Classification: "order", Title: "Sidewalk repair"},
	}
	if filter(routine) {
		t.Error("Expected routine municipal item to be dropped")
	}

	national := Entry{
		Tier: locales.TierNational,
		Bill: legislation.Bill{Classification: "order"},
	}
	if !filter(national) {
		t.Error("Expected non-municipal entries to pass through")
	}
}

func TestTagFilter(t *testing.T) {
	entry := Entry{Tags: []string{"Economy", "Transit"}}

	if !TagFilter([]string{"Transit"})(entry) {
		t.Error("Expected overlap to keep entry")
	}
	if TagFilter([]string{"Abortion"})(entry) {
		t.Error("Expected no overlap to drop entry")
	}
	if !TagFilter(nil)(entry) {
		t.Error("Expected empty filter set to keep everything")
	}
}

func TestSponsorFilter(t *testing.T) {
	entry := Entry{Bill: legislation.Bill{
		Sponsors: []legislation.Sponsor{{Name: "Ann Lee"}, {Name: "Bob Ray"}},
	}}

	if !SponsorFilter([]string{"ann lee"})(entry) {
		t.Error("Expected case-insensitive sponsor match")
	}
	if SponsorFilter([]string{"Cara Diaz"})(entry) {
		t.Error("Expected non-sponsor to drop entry")
	}
	if !SponsorFilter(nil)(entry) {
		t.Error("Expected empty filter set to keep everything")
	}
}
