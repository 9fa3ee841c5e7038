package legislation

import (
	"time"
)

// Sponsor identifies a legislator backing a bill. Municipal sources often
// omit role and district, so empty fields mean "unknown", not "empty".
type Sponsor struct {
	Name     string `json:"name"`
	Role     string `json:"role"`
	District string `json:"district"`
}

// Bill is the raw legislation record as delivered by a tier's data source.
// Field names match the upstream .legislation.json files.
type Bill struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Link           string    `json:"link,omitempty"`
	URL            string    `json:"url,omitempty"`
	SourceID       string    `json:"source_id,omitempty"`
	Status         []string  `json:"status"`
	StatusDate     string    `json:"statusDate"`
	Sponsors       []Sponsor `json:"sponsors"`
	Classification string    `json:"classification,omitempty"`
	Description    string    `json:"description,omitempty"`
	Tags           []string  `json:"tags,omitempty"`
	UpdatedAt      string    `json:"updated_at,omitempty"`
	Identifier     string    `json:"identifier,omitempty"`
	BillSummary    string    `json:"bill_summary,omitempty"`
}

// Annotation holds the AI-generated summary and topic tags for one bill.
// Field names match the upstream .gpt.json files.
type Annotation struct {
	Summary string   `json:"gpt_summary"`
	Tags    []string `json:"gpt_tags"`
}

// AnnotationSet maps bill ID to its annotation. A missing entry is an empty
// annotation, never an error.
type AnnotationSet map[string]Annotation

// Summary is the reduced projection of a Bill used for snapshot diffing.
type Summary struct {
	ID         string    `json:"id"`
	Status     []string  `json:"status,omitempty"`
	StatusDate string    `json:"statusDate,omitempty"`
	Sponsors   []Sponsor `json:"sponsors,omitempty"`
}

// EffectiveUpdatedAt returns the bill's last-updated date, falling back to
// the status date when the source does not report updated_at.
func (b Bill) EffectiveUpdatedAt() string {
	if b.UpdatedAt != "" {
		return b.UpdatedAt
	}
	return b.StatusDate
}

// LastStatus returns the most recent entry of the ordered status history.
func (b Bill) LastStatus() string {
	if len(b.Status) == 0 {
		return ""
	}
	return b.Status[len(b.Status)-1]
}

// ToSummary projects the bill down to the fields the snapshot differ compares.
func (b Bill) ToSummary() Summary {
	return Summary{
		ID:         b.ID,
		Status:     b.Status,
		StatusDate: b.StatusDate,
		Sponsors:   b.Sponsors,
	}
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// ParseDate parses the date formats seen in source data (plain dates and
// RFC3339 timestamps). Returns false for empty or unrecognized values.
func ParseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
