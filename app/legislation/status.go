package legislation

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/opencivi/bill-comb/app/locales"
)

// StatusType classifies a readable status for display purposes.
type StatusType string

const (
	StatusInProgress StatusType = "in-progress"
	StatusPass       StatusType = "pass"
	StatusFail       StatusType = "fail"
)

// ReadableStatus is the display form of a raw status code.
type ReadableStatus struct {
	Name string     `json:"name"`
	Type StatusType `json:"type"`
}

var titleCaser = cases.Title(language.AmericanEnglish)

var municipalStatuses = map[string]ReadableStatus{
	"introduction":                {Name: "Introduced", Type: StatusInProgress},
	"referral-committee":          {Name: "In Committee", Type: StatusInProgress},
	"passage":                     {Name: "Passed", Type: StatusPass},
	"substitution":                {Name: "Substituted", Type: StatusInProgress},
	"committee-passage-favorable": {Name: "Recommended By Committee", Type: StatusInProgress},
}

var nationalStatuses = map[string]ReadableStatus{
	"Engross": {Name: "Passed House", Type: StatusInProgress},
	"Enroll":  {Name: "Awaiting Presidential Approval", Type: StatusInProgress},
	"Pass":    {Name: "Became Law", Type: StatusPass},
}

// MapToReadableStatus converts a raw tier-specific status code into display
// text. Unknown codes fall back to the raw value as in-progress.
func MapToReadableStatus(tier locales.Tier, status string) ReadableStatus {
	switch tier {
	case locales.TierMunicipal:
		if readable, ok := municipalStatuses[status]; ok {
			return readable
		}
		// Municipal codes are kebab-case, e.g. "committee-referral".
		return ReadableStatus{
			Name: titleCaser.String(strings.Join(strings.Split(status, "-"), " ")),
			Type: StatusInProgress,
		}
	case locales.TierState:
		if status == "Pass" {
			return ReadableStatus{Name: "Became Law", Type: StatusPass}
		}
		return ReadableStatus{Name: "In Progress", Type: StatusInProgress}
	case locales.TierNational:
		if readable, ok := nationalStatuses[status]; ok {
			return readable
		}
	}
	return ReadableStatus{Name: status, Type: StatusInProgress}
}
