package legislation

import (
	"encoding/json"
	"testing"
)

func TestEffectiveUpdatedAt(t *testing.T) {
	bill := Bill{UpdatedAt: "2026-03-01", StatusDate: "2026-01-15"}
	if got := bill.EffectiveUpdatedAt(); got != "2026-03-01" {
		t.Errorf("Expected updated_at to win, got %q", got)
	}

	bill = Bill{StatusDate: "2026-01-15"}
	if got := bill.EffectiveUpdatedAt(); got != "2026-01-15" {
		t.Errorf("Expected statusDate fallback, got %q", got)
	}

	bill = Bill{}
	if got := bill.EffectiveUpdatedAt(); got != "" {
		t.Errorf("Expected empty result for undated bill, got %q", got)
	}
}

func TestLastStatus(t *testing.T) {
	bill := Bill{Status: []string{"introduced", "passed"}}
	if got := bill.LastStatus(); got != "passed" {
		t.Errorf("Expected 'passed', got %q", got)
	}

	bill = Bill{}
	if got := bill.LastStatus(); got != "" {
		t.Errorf("Expected empty status, got %q", got)
	}
}

func TestToSummary(t *testing.T) {
	bill := Bill{
		ID:         "hb-1",
		Title:      "An Act",
		Status:     []string{"introduced"},
		StatusDate: "2026-01-15",
		Sponsors:   []Sponsor{{Name: "Ann Lee"}},
	}

	summary := bill.ToSummary()
	if summary.ID != "hb-1" || summary.StatusDate != "2026-01-15" {
		t.Errorf("Unexpected summary: %+v", summary)
	}
	if len(summary.Status) != 1 || len(summary.Sponsors) != 1 {
		t.Errorf("Expected status and sponsors carried over, got %+v", summary)
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		input string
		ok    bool
	}{
		{"2026-01-15", true},
		{"2026-01-15T10:30:00Z", true},
		{"2026-01-15 10:30:00", true},
		{"", false},
		{"not a date", false},
		{"01/15/2026", false},
	}

	for _, tt := range tests {
		_, ok := ParseDate(tt.input)
		if ok != tt.ok {
			t.Errorf("ParseDate(%q) ok = %v, want %v", tt.input, ok, tt.ok)
		}
	}
}

func TestBillJSONFieldNames(t *testing.T) {
	raw := `{
		"id": "O2024-123",
		"title": "An ordinance",
		"source_id": "CHI-O2024-123",
		"status": ["introduction"],
		"statusDate": "2026-01-15",
		"sponsors": [{"name": "Ann Lee", "role": "primary", "district": "5"}],
		"classification": "ordinance",
		"updated_at": "2026-02-01",
		"identifier": "O2024-123",
		"bill_summary": "Summary text"
	}`

	var bill Bill
	if err := json.Unmarshal([]byte(raw), &bill); err != nil {
		t.Fatal(err)
	}

	if bill.ID != "O2024-123" || bill.SourceID != "CHI-O2024-123" {
		t.Errorf("Unexpected identifiers: %+v", bill)
	}
	if bill.StatusDate != "2026-01-15" || bill.UpdatedAt != "2026-02-01" {
		t.Errorf("Unexpected dates: %+v", bill)
	}
	if len(bill.Sponsors) != 1 || bill.Sponsors[0].District != "5" {
		t.Errorf("Unexpected sponsors: %+v", bill.Sponsors)
	}
	if bill.BillSummary != "Summary text" {
		t.Errorf("Unexpected bill summary: %q", bill.BillSummary)
	}
}

func TestAnnotationJSONFieldNames(t *testing.T) {
	raw := `{"hb-1": {"gpt_summary": "A summary.", "gpt_tags": ["Economy"]}}`

	var set AnnotationSet
	if err := json.Unmarshal([]byte(raw), &set); err != nil {
		t.Fatal(err)
	}

	annotation, ok := set["hb-1"]
	if !ok {
		t.Fatal("Expected annotation for hb-1")
	}
	if annotation.Summary != "A summary." || len(annotation.Tags) != 1 {
		t.Errorf("Unexpected annotation: %+v", annotation)
	}

	// Missing entries are zero values, not errors.
	if missing := set["hb-2"]; missing.Summary != "" || missing.Tags != nil {
		t.Errorf("Expected zero annotation for missing bill, got %+v", missing)
	}
}
