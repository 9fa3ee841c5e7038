package tags

import (
	"testing"
)

func TestNormalizeCanonicalCasing(t *testing.T) {
	got := Normalize([]string{"climate change", "HEALTH CARE", "Transit"})

	want := []string{"Climate Change", "Health Care", "Transit"}
	if len(got) != len(want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Expected %v, got %v", want, got)
		}
	}
}

func TestNormalizeDropsOther(t *testing.T) {
	got := Normalize([]string{"Other", "Climate Change"})

	if len(got) != 1 || got[0] != "Climate Change" {
		t.Errorf("Expected [Climate Change], got %v", got)
	}

	got = Normalize([]string{"other"})
	if len(got) != 0 {
		t.Errorf("Expected empty result for lone Other, got %v", got)
	}
}

func TestNormalizeDropsUnknownTags(t *testing.T) {
	got := Normalize([]string{"Zoning", "Economy", "Parking Meters"})

	if len(got) != 1 || got[0] != "Economy" {
		t.Errorf("Expected [Economy], got %v", got)
	}
}

func TestNormalizeDeduplicates(t *testing.T) {
	got := Normalize([]string{"Economy", "economy", "ECONOMY", "Transit"})

	if len(got) != 2 || got[0] != "Economy" || got[1] != "Transit" {
		t.Errorf("Expected [Economy Transit], got %v", got)
	}
}

func TestNormalizeEmptyInput(t *testing.T) {
	if got := Normalize(nil); len(got) != 0 {
		t.Errorf("Expected empty result for nil input, got %v", got)
	}
}

func TestIsAllowed(t *testing.T) {
	tests := []struct {
		tag  string
		want bool
	}{
		{"Climate Change", true},
		{"climate change", true},
		{"City Wide Ordinance", true},
		{"City Wide Resolution", true},
		{"Other", false},
		{"Zoning", false},
	}

	for _, tt := range tests {
		if got := IsAllowed(tt.tag); got != tt.want {
			t.Errorf("IsAllowed(%q) = %v, want %v", tt.tag, got, tt.want)
		}
	}
}

func TestOverlap(t *testing.T) {
	got := Overlap([]string{"Economy", "Transit", "Abortion"}, []string{"Transit", "Economy"})

	if len(got) != 2 || got[0] != "Economy" || got[1] != "Transit" {
		t.Errorf("Expected [Economy Transit], got %v", got)
	}

	if HasOverlap([]string{"Economy"}, []string{"Transit"}) {
		t.Error("Expected no overlap between disjoint lists")
	}
	if !HasOverlap([]string{"Economy"}, []string{"Economy"}) {
		t.Error("Expected overlap for shared tag")
	}
}

func TestAvailableFor(t *testing.T) {
	city := AvailableFor("Chicago, IL")
	if city[0] != MunicipalOrdinance || city[1] != MunicipalResolution {
		t.Errorf("Expected municipal tags first for city location, got %v", city[:2])
	}
	if len(city) != len(MunicipalTags)+len(Allowed) {
		t.Errorf("Expected %d tags, got %d", len(MunicipalTags)+len(Allowed), len(city))
	}

	national := AvailableFor("Texas")
	if len(national) != len(Allowed) {
		t.Errorf("Expected only the topic vocabulary for non-city location, got %v", national)
	}
}
