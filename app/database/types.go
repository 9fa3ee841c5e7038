package database

// StoredChange is one changes table row. Differences stays raw JSON so the
// API can pass it through without re-encoding.
type StoredChange struct {
	ID          int64
	Tier        string
	BillID      string
	Differences string
	DetectedAt  string
}

// BillForExtraction identifies a bill whose summary still needs to be
// fetched from its source page.
type BillForExtraction struct {
	Tier   string
	BillID string
	Link   string
}
