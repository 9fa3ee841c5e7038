package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/opencivi/bill-comb/app/database"
	"github.com/opencivi/bill-comb/app/legislation"
	"github.com/opencivi/bill-comb/app/sources"
)

type RefreshSourceTask struct {
	Task
	SourceConfig *sources.Config
	httpClient   *http.Client
	billRepo     database.BillRepository
	userAgent    string
}

func NewRefreshSourceTask(sourceName string, sourceConfig *sources.Config, httpClient *http.Client, billRepo database.BillRepository, userAgent string) *RefreshSourceTask {
	return &RefreshSourceTask{
		Task:         NewTask(TaskTypeRefreshSource, sourceName),
		SourceConfig: sourceConfig,
		httpClient:   httpClient,
		billRepo:     billRepo,
		userAgent:    userAgent,
	}
}

func (t *RefreshSourceTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if !t.SourceConfig.Settings.Enabled {
		slog.Debug("Source disabled, skipping", "source", t.SourceName)
		return nil
	}

	bills, err := t.fetchBills(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch legislation: %w", err)
	}

	// Annotations are enrichment only. A broken annotations endpoint must
	// not block the bill refresh.
	annotations := legislation.AnnotationSet{}
	if t.SourceConfig.AnnotationsURL != "" {
		annotations, err = t.fetchAnnotations(ctx)
		if err != nil {
			slog.Warn("Failed to fetch annotations, continuing without", "source", t.SourceName, "error", err)
			annotations = legislation.AnnotationSet{}
		}
	}

	storedCount := 0
	skippedCount := 0

	for _, bill := range bills {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if bill.ID == "" {
			skippedCount++
			continue
		}

		var annotation *legislation.Annotation
		if a, ok := annotations[bill.ID]; ok {
			annotation = &a
		}

		if err := t.billRepo.UpsertBill(t.SourceName, t.SourceConfig.Tier, bill, annotation); err != nil {
			return fmt.Errorf("failed to store bill %s: %w", bill.ID, err)
		}
		storedCount++
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"source", t.SourceName,
		"duration", t.GetDuration(),
		"total", len(bills),
		"stored", storedCount,
		"skipped", skippedCount,
		"annotations", len(annotations))

	return nil
}

func (t *RefreshSourceTask) fetchBills(ctx context.Context) ([]legislation.Bill, error) {
	data, err := t.fetchJSON(ctx, t.SourceConfig.LegislationURL)
	if err != nil {
		return nil, err
	}

	var bills []legislation.Bill
	if err := json.Unmarshal(data, &bills); err != nil {
		return nil, fmt.Errorf("failed to parse legislation JSON: %w", err)
	}

	return bills, nil
}

func (t *RefreshSourceTask) fetchAnnotations(ctx context.Context) (legislation.AnnotationSet, error) {
	data, err := t.fetchJSON(ctx, t.SourceConfig.AnnotationsURL)
	if err != nil {
		return nil, err
	}

	var annotations legislation.AnnotationSet
	if err := json.Unmarshal(data, &annotations); err != nil {
		return nil, fmt.Errorf("failed to parse annotations JSON: %w", err)
	}

	return annotations, nil
}

func (t *RefreshSourceTask) fetchJSON(ctx context.Context, url string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, time.Duration(t.SourceConfig.Settings.Timeout)*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", t.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}
