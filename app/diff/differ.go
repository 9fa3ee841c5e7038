package diff

import (
	"fmt"
	"slices"
	"sort"

	"github.com/opencivi/bill-comb/app/legislation"
)

// StatusChange records a change in a bill's ordered status history.
// Previous is null when the earlier snapshot carried no status at all.
type StatusChange struct {
	Previous []string `json:"previous"`
	New      []string `json:"new"`
}

// DateChange records a change in the status date.
type DateChange struct {
	Previous string `json:"previous"`
	New      string `json:"new"`
}

// SponsorChange records sponsors gained and lost between snapshots.
type SponsorChange struct {
	Added   []legislation.Sponsor `json:"added"`
	Removed []legislation.Sponsor `json:"removed"`
}

// Differences describes what changed for one bill. A bill present in only
// one snapshot has exactly Added or Removed set; a bill present in both has
// one or more of the remaining fields.
type Differences struct {
	Added      bool           `json:"added,omitempty"`
	Removed    bool           `json:"removed,omitempty"`
	Status     *StatusChange  `json:"status,omitempty"`
	StatusDate *DateChange    `json:"statusDate,omitempty"`
	Sponsors   *SponsorChange `json:"sponsors,omitempty"`
}

func (d Differences) isEmpty() bool {
	return !d.Added && !d.Removed && d.Status == nil && d.StatusDate == nil && d.Sponsors == nil
}

// Change is one bill's diff between two snapshots.
type Change struct {
	ID          string      `json:"id"`
	Differences Differences `json:"differences"`
}

// Differ computes structural changes between two bill snapshots.
type Differ struct{}

func NewDiffer() *Differ {
	return &Differ{}
}

// Run compares two snapshots by bill ID and returns one change record per
// removed, added, or modified bill. Output is deterministic regardless of
// input order: records are grouped removed, added, modified, each sorted by
// ID. Duplicate IDs within one side are a programmer error.
func (d *Differ) Run(previous, next []legislation.Summary) ([]Change, error) {
	prevByID, err := indexByID(previous)
	if err != nil {
		return nil, fmt.Errorf("previous snapshot: %w", err)
	}
	nextByID, err := indexByID(next)
	if err != nil {
		return nil, fmt.Errorf("next snapshot: %w", err)
	}

	changes := []Change{}

	for _, id := range sortedIDs(prevByID) {
		if _, ok := nextByID[id]; !ok {
			changes = append(changes, Change{ID: id, Differences: Differences{Removed: true}})
		}
	}

	for _, id := range sortedIDs(nextByID) {
		if _, ok := prevByID[id]; !ok {
			changes = append(changes, Change{ID: id, Differences: Differences{Added: true}})
		}
	}

	for _, id := range sortedIDs(prevByID) {
		newBill, ok := nextByID[id]
		if !ok {
			continue
		}
		differences := compare(prevByID[id], newBill)
		if !differences.isEmpty() {
			changes = append(changes, Change{ID: id, Differences: differences})
		}
	}

	return changes, nil
}

func compare(prev, next legislation.Summary) Differences {
	var differences Differences

	if prev.Status == nil && next.Status != nil {
		differences.Status = &StatusChange{Previous: nil, New: next.Status}
	} else if prev.Status != nil && next.Status != nil && !slices.Equal(prev.Status, next.Status) {
		differences.Status = &StatusChange{Previous: prev.Status, New: next.Status}
	}

	if next.StatusDate != "" && prev.StatusDate != next.StatusDate {
		differences.StatusDate = &DateChange{Previous: prev.StatusDate, New: next.StatusDate}
	}

	if prev.Sponsors == nil && next.Sponsors != nil {
		differences.Sponsors = &SponsorChange{Added: next.Sponsors, Removed: nil}
	} else if prev.Sponsors != nil && next.Sponsors != nil {
		added := missingFrom(next.Sponsors, prev.Sponsors)
		removed := missingFrom(prev.Sponsors, next.Sponsors)
		if len(added) > 0 || len(removed) > 0 {
			differences.Sponsors = &SponsorChange{Added: added, Removed: removed}
		}
	}

	return differences
}

// missingFrom returns the sponsors in list with no equal counterpart in
// other.
func missingFrom(list, other []legislation.Sponsor) []legislation.Sponsor {
	var missing []legislation.Sponsor
	for _, sponsor := range list {
		found := false
		for _, candidate := range other {
			if sponsorsEqual(sponsor, candidate) {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, sponsor)
		}
	}
	return missing
}

// sponsorsEqual treats an empty field on either side as "unknown, matches
// anything": some sources omit role and district, and their absence alone
// must not register as a sponsor change.
func sponsorsEqual(a, b legislation.Sponsor) bool {
	return fieldsMatch(a.Name, b.Name) &&
		fieldsMatch(a.Role, b.Role) &&
		fieldsMatch(a.District, b.District)
}

func fieldsMatch(a, b string) bool {
	return a == "" || b == "" || a == b
}

func indexByID(summaries []legislation.Summary) (map[string]legislation.Summary, error) {
	byID := make(map[string]legislation.Summary, len(summaries))
	for _, summary := range summaries {
		if summary.ID == "" {
			continue
		}
		if _, ok := byID[summary.ID]; ok {
			return nil, fmt.Errorf("duplicate bill id %q", summary.ID)
		}
		byID[summary.ID] = summary
	}
	return byID, nil
}

func sortedIDs(byID map[string]legislation.Summary) []string {
	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
