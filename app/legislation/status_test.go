package legislation

import (
	"testing"

	"github.com/opencivi/bill-comb/app/locales"
)

func TestMapToReadableStatusMunicipal(t *testing.T) {
	tests := []struct {
		status   string
		wantName string
		wantType StatusType
	}{
		{"introduction", "Introduced", StatusInProgress},
		{"referral-committee", "In Committee", StatusInProgress},
		{"passage", "Passed", StatusPass},
		{"substitution", "Substituted", StatusInProgress},
		{"committee-passage-favorable", "Recommended By Committee", StatusInProgress},
		// Unknown kebab-case codes get title-cased.
		{"committee-referral", "Committee Referral", StatusInProgress},
	}

	for _, tt := range tests {
		got := MapToReadableStatus(locales.TierMunicipal, tt.status)
		if got.Name != tt.wantName || got.Type != tt.wantType {
			t.Errorf("MapToReadableStatus(municipal, %q) = %+v, want {%s %s}", tt.status, got, tt.wantName, tt.wantType)
		}
	}
}

func TestMapToReadableStatusState(t *testing.T) {
	got := MapToReadableStatus(locales.TierState, "Pass")
	if got.Name != "Became Law" || got.Type != StatusPass {
		t.Errorf("Expected Became Law/pass, got %+v", got)
	}

	got = MapToReadableStatus(locales.TierState, "Third Reading")
	if got.Name != "In Progress" || got.Type != StatusInProgress {
		t.Errorf("Expected In Progress fallback, got %+v", got)
	}
}

func TestMapToReadableStatusNational(t *testing.T) {
	tests := []struct {
		status   string
		wantName string
		wantType StatusType
	}{
		{"Engross", "Passed House", StatusInProgress},
		{"Enroll", "Awaiting Presidential Approval", StatusInProgress},
		{"Pass", "Became Law", StatusPass},
		{"Veto", "Veto", StatusInProgress},
	}

	for _, tt := range tests {
		got := MapToReadableStatus(locales.TierNational, tt.status)
		if got.Name != tt.wantName || got.Type != tt.wantType {
			t.Errorf("MapToReadableStatus(national, %q) = %+v, want {%s %s}", tt.status, got, tt.wantName, tt.wantType)
		}
	}
}
