package database

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/opencivi/bill-comb/app/legislation"
)

var _ BillRepository = (*billRepository)(nil)

// billRepository handles database operations for bills
type billRepository struct {
	db *DB
}

// NewBillRepository creates a new bill repository
func NewBillRepository(db *DB) BillRepository {
	return &billRepository{db: db}
}

// UpsertBill inserts or updates a bill's payload and annotation. The bill ID
// and tier form the natural key; status date and update date are denormalized
// for indexed queries.
func (r *billRepository) UpsertBill(sourceName, tier string, bill legislation.Bill, annotation *legislation.Annotation) error {
	data, err := json.Marshal(bill)
	if err != nil {
		return fmt.Errorf("failed to marshal bill: %w", err)
	}

	var annotationData sql.NullString
	if annotation != nil {
		encoded, err := json.Marshal(annotation)
		if err != nil {
			return fmt.Errorf("failed to marshal annotation: %w", err)
		}
		annotationData = sql.NullString{String: string(encoded), Valid: true}
	}

	_, err = r.db.Exec(`
		INSERT INTO bills (tier, bill_id, source_name, data, annotation, status_date, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (tier, bill_id) DO UPDATE SET
			source_name = excluded.source_name,
			data = excluded.data,
			annotation = COALESCE(excluded.annotation, bills.annotation),
			status_date = excluded.status_date,
			updated_at = excluded.updated_at,
			fetched_at = datetime('now')
	`, tier, bill.ID, sourceName, string(data), annotationData, bill.StatusDate, bill.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to upsert bill: %w", err)
	}

	return nil
}

// GetBills returns all bills for a tier together with their annotations,
// keyed by bill ID.
func (r *billRepository) GetBills(tier string) ([]legislation.Bill, legislation.AnnotationSet, error) {
	rows, err := r.db.Query(`
		SELECT data, annotation
		FROM bills
		WHERE tier = ?
		ORDER BY bill_id
	`, tier)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query bills: %w", err)
	}
	defer rows.Close()

	var bills []legislation.Bill
	annotations := make(legislation.AnnotationSet)

	for rows.Next() {
		var data string
		var annotationData sql.NullString

		if err := rows.Scan(&data, &annotationData); err != nil {
			return nil, nil, fmt.Errorf("failed to scan bill: %w", err)
		}

		var bill legislation.Bill
		if err := json.Unmarshal([]byte(data), &bill); err != nil {
			return nil, nil, fmt.Errorf("failed to unmarshal bill: %w", err)
		}
		bills = append(bills, bill)

		if annotationData.Valid {
			var annotation legislation.Annotation
			if err := json.Unmarshal([]byte(annotationData.String), &annotation); err != nil {
				return nil, nil, fmt.Errorf("failed to unmarshal annotation: %w", err)
			}
			annotations[bill.ID] = annotation
		}
	}

	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to iterate bills: %w", err)
	}

	return bills, annotations, nil
}

// GetBillSummaries returns the change-detection summaries for all bills in a
// tier.
func (r *billRepository) GetBillSummaries(tier string) ([]legislation.Summary, error) {
	bills, _, err := r.GetBills(tier)
	if err != nil {
		return nil, err
	}

	summaries := make([]legislation.Summary, 0, len(bills))
	for _, bill := range bills {
		summaries = append(summaries, bill.ToSummary())
	}

	return summaries, nil
}

func (r *billRepository) GetBillCount() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM bills`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count bills: %w", err)
	}
	return count, nil
}

func (r *billRepository) GetBillCountByTier(tier string) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM bills WHERE tier = ?`, tier).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count bills: %w", err)
	}
	return count, nil
}

// UpdateBillSummary stores an extracted summary inside the bill payload.
func (r *billRepository) UpdateBillSummary(tier, billID, summary string) error {
	var data string
	err := r.db.QueryRow(`
		SELECT data FROM bills WHERE tier = ? AND bill_id = ?
	`, tier, billID).Scan(&data)
	if err == sql.ErrNoRows {
		return fmt.Errorf("bill not found: %s/%s", tier, billID)
	}
	if err != nil {
		return fmt.Errorf("failed to get bill: %w", err)
	}

	var bill legislation.Bill
	if err := json.Unmarshal([]byte(data), &bill); err != nil {
		return fmt.Errorf("failed to unmarshal bill: %w", err)
	}

	bill.BillSummary = summary

	updated, err := json.Marshal(bill)
	if err != nil {
		return fmt.Errorf("failed to marshal bill: %w", err)
	}

	_, err = r.db.Exec(`
		UPDATE bills SET data = ? WHERE tier = ? AND bill_id = ?
	`, string(updated), tier, billID)
	if err != nil {
		return fmt.Errorf("failed to update bill summary: %w", err)
	}

	return nil
}

// UpdateAnnotation stores a generated annotation for a bill.
func (r *billRepository) UpdateAnnotation(tier, billID string, annotation legislation.Annotation) error {
	encoded, err := json.Marshal(annotation)
	if err != nil {
		return fmt.Errorf("failed to marshal annotation: %w", err)
	}

	_, err = r.db.Exec(`
		UPDATE bills SET annotation = ? WHERE tier = ? AND bill_id = ?
	`, string(encoded), tier, billID)
	if err != nil {
		return fmt.Errorf("failed to update annotation: %w", err)
	}

	return nil
}

// GetBillsForExtraction returns bills from a source that have a link but no
// summary yet.
func (r *billRepository) GetBillsForExtraction(sourceName string, limit int) ([]BillForExtraction, error) {
	rows, err := r.db.Query(`
		SELECT tier, bill_id, json_extract(data, '$.link')
		FROM bills
		WHERE source_name = ?
			AND json_extract(data, '$.link') IS NOT NULL
			AND json_extract(data, '$.link') != ''
			AND (json_extract(data, '$.bill_summary') IS NULL OR json_extract(data, '$.bill_summary') = '')
		ORDER BY updated_at DESC
		LIMIT ?
	`, sourceName, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query bills for extraction: %w", err)
	}
	defer rows.Close()

	var bills []BillForExtraction
	for rows.Next() {
		var bill BillForExtraction
		if err := rows.Scan(&bill.Tier, &bill.BillID, &bill.Link); err != nil {
			return nil, fmt.Errorf("failed to scan bill for extraction: %w", err)
		}
		bills = append(bills, bill)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bills for extraction: %w", err)
	}

	return bills, nil
}

// GetBillsMissingAnnotation returns bills from a source with no stored
// annotation, most recently updated first.
func (r *billRepository) GetBillsMissingAnnotation(sourceName string, limit int) ([]legislation.Bill, error) {
	rows, err := r.db.Query(`
		SELECT data
		FROM bills
		WHERE source_name = ? AND annotation IS NULL
		ORDER BY updated_at DESC
		LIMIT ?
	`, sourceName, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query unannotated bills: %w", err)
	}
	defer rows.Close()

	var bills []legislation.Bill
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan bill: %w", err)
		}

		var bill legislation.Bill
		if err := json.Unmarshal([]byte(data), &bill); err != nil {
			return nil, fmt.Errorf("failed to unmarshal bill: %w", err)
		}
		bills = append(bills, bill)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate unannotated bills: %w", err)
	}

	return bills, nil
}
