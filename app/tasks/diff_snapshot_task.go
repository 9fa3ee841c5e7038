package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/opencivi/bill-comb/app/database"
	"github.com/opencivi/bill-comb/app/diff"
)

type DiffSnapshotTask struct {
	Task
	Tier         string
	differ       *diff.Differ
	billRepo     database.BillRepository
	snapshotRepo database.SnapshotRepository
}

func NewDiffSnapshotTask(sourceName, tier string, differ *diff.Differ, billRepo database.BillRepository, snapshotRepo database.SnapshotRepository) *DiffSnapshotTask {
	return &DiffSnapshotTask{
		Task:         NewTask(TaskTypeDiffSnapshot, sourceName),
		Tier:         tier,
		differ:       differ,
		billRepo:     billRepo,
		snapshotRepo: snapshotRepo,
	}
}

func (t *DiffSnapshotTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	current, err := t.billRepo.GetBillSummaries(t.Tier)
	if err != nil {
		return fmt.Errorf("failed to get current bill summaries: %w", err)
	}

	previous, err := t.snapshotRepo.GetLatestSnapshot(t.Tier)
	if err != nil {
		return fmt.Errorf("failed to get latest snapshot: %w", err)
	}

	// First run for a tier establishes the baseline without reporting the
	// whole corpus as added.
	if previous == nil {
		if err := t.snapshotRepo.SaveSnapshot(t.Tier, current); err != nil {
			return fmt.Errorf("failed to save baseline snapshot: %w", err)
		}

		slog.Info("Task completed",
			"type", t.GetType(),
			"tier", t.Tier,
			"duration", t.GetDuration(),
			"baseline", true,
			"bills", len(current))

		return nil
	}

	changes, err := t.differ.Run(previous, current)
	if err != nil {
		return fmt.Errorf("failed to diff snapshots: %w", err)
	}

	if len(changes) > 0 {
		if err := t.snapshotRepo.SaveChanges(t.Tier, changes); err != nil {
			return fmt.Errorf("failed to save changes: %w", err)
		}
	}

	if err := t.snapshotRepo.SaveSnapshot(t.Tier, current); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"tier", t.Tier,
		"duration", t.GetDuration(),
		"bills", len(current),
		"changes", len(changes))

	return nil
}
