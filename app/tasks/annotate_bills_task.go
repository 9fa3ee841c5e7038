package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/opencivi/bill-comb/app/ai"
	"github.com/opencivi/bill-comb/app/database"
	"github.com/opencivi/bill-comb/app/sources"
)

// maxAnnotationsPerRun bounds how many completions one task execution
// requests.
const maxAnnotationsPerRun = 10

type AnnotateBillsTask struct {
	Task
	SourceConfig *sources.Config
	annotator    *ai.Annotator
	billRepo     database.BillRepository
}

func NewAnnotateBillsTask(sourceName string, sourceConfig *sources.Config, annotator *ai.Annotator, billRepo database.BillRepository) *AnnotateBillsTask {
	return &AnnotateBillsTask{
		Task:         NewTask(TaskTypeAnnotateBills, sourceName),
		SourceConfig: sourceConfig,
		annotator:    annotator,
		billRepo:     billRepo,
	}
}

func (t *AnnotateBillsTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if !t.SourceConfig.Settings.Annotate {
		slog.Debug("Annotation disabled for source", "source", t.SourceName)
		return nil
	}

	if t.annotator == nil {
		slog.Debug("No annotator configured, skipping", "source", t.SourceName)
		return nil
	}

	bills, err := t.billRepo.GetBillsMissingAnnotation(t.SourceName, maxAnnotationsPerRun)
	if err != nil {
		return fmt.Errorf("failed to get unannotated bills: %w", err)
	}

	if len(bills) == 0 {
		slog.Debug("No bills need annotation", "source", t.SourceName)
		return nil
	}

	successCount := 0
	errorCount := 0

	for _, bill := range bills {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		annotation, err := t.annotator.Annotate(ctx, ai.BillText(bill))
		if err != nil {
			slog.Error("Failed to annotate bill", "bill_id", bill.ID, "error", err)
			errorCount++
			continue
		}

		if err := t.billRepo.UpdateAnnotation(t.SourceConfig.Tier, bill.ID, annotation); err != nil {
			slog.Error("Failed to store annotation", "bill_id", bill.ID, "error", err)
			errorCount++
			continue
		}
		successCount++
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"source", t.SourceName,
		"duration", t.GetDuration(),
		"success", successCount,
		"errors", errorCount)

	return nil
}
