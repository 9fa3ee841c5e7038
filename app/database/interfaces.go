package database

import (
	"github.com/opencivi/bill-comb/app/diff"
	"github.com/opencivi/bill-comb/app/legislation"
)

type BillRepository interface {
	GetBills(tier string) ([]legislation.Bill, legislation.AnnotationSet, error)
	GetBillSummaries(tier string) ([]legislation.Summary, error)
	GetBillCount() (int, error)
	GetBillCountByTier(tier string) (int, error)

	UpsertBill(sourceName, tier string, bill legislation.Bill, annotation *legislation.Annotation) error
	UpdateBillSummary(tier, billID, summary string) error
	UpdateAnnotation(tier, billID string, annotation legislation.Annotation) error

	GetBillsForExtraction(sourceName string, limit int) ([]BillForExtraction, error)
	GetBillsMissingAnnotation(sourceName string, limit int) ([]legislation.Bill, error)
}

type SnapshotRepository interface {
	SaveSnapshot(tier string, summaries []legislation.Summary) error
	GetLatestSnapshot(tier string) ([]legislation.Summary, error)

	SaveChanges(tier string, changes []diff.Change) error
	GetRecentChanges(tier string, limit int) ([]StoredChange, error)
	GetChangeCount() (int, error)
}
