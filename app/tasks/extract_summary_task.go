package tasks

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/opencivi/bill-comb/app/database"
	"github.com/opencivi/bill-comb/app/feed"
	"github.com/opencivi/bill-comb/app/sources"
)

// maxExtractionsPerRun bounds how many source pages one task execution
// fetches.
const maxExtractionsPerRun = 20

type ExtractSummaryTask struct {
	Task
	SourceConfig     *sources.Config
	httpClient       *http.Client
	summaryExtractor *feed.SummaryExtractor
	billRepo         database.BillRepository
	userAgent        string
}

func NewExtractSummaryTask(sourceName string, sourceConfig *sources.Config, httpClient *http.Client, summaryExtractor *feed.SummaryExtractor, billRepo database.BillRepository, userAgent string) *ExtractSummaryTask {
	return &ExtractSummaryTask{
		Task:             NewTask(TaskTypeExtractSummary, sourceName),
		SourceConfig:     sourceConfig,
		httpClient:       httpClient,
		summaryExtractor: summaryExtractor,
		billRepo:         billRepo,
		userAgent:        userAgent,
	}
}

func (t *ExtractSummaryTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if !t.SourceConfig.Settings.ExtractSummaries {
		slog.Debug("Summary extraction disabled for source", "source", t.SourceName)
		return nil
	}

	bills, err := t.billRepo.GetBillsForExtraction(t.SourceName, maxExtractionsPerRun)
	if err != nil {
		return fmt.Errorf("failed to get bills for summary extraction: %w", err)
	}

	if len(bills) == 0 {
		slog.Debug("No bills need summary extraction", "source", t.SourceName)
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

		if err := t.extractSummaryForBill(ctx, bill); err != nil {
			slog.Error("Failed to extract summary for bill", "bill_id", bill.BillID, "url", bill.Link, "error", err)
			errorCount++
		} else {
			successCount++
		}
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"source", t.SourceName,
		"duration", t.GetDuration(),
		"success", successCount,
		"errors", errorCount)

	return nil
}

func (t *ExtractSummaryTask) extractSummaryForBill(ctx context.Context, bill database.BillForExtraction) error {
	if bill.Link == "" {
		return fmt.Errorf("bill has no link")
	}

	data, err := t.fetchBillPage(ctx, bill.Link)
	if err != nil {
		return fmt.Errorf("failed to fetch bill page: %w", err)
	}

	summary, err := t.summaryExtractor.Run(data)
	if err != nil {
		return fmt.Errorf("failed to extract summary: %w", err)
	}

	if err := t.billRepo.UpdateBillSummary(bill.Tier, bill.BillID, summary); err != nil {
		return fmt.Errorf("failed to update bill summary: %w", err)
	}

	slog.Debug("Summary extracted successfully", "bill_id", bill.BillID, "url", bill.Link, "summary_length", len(summary))
	return nil
}

func (t *ExtractSummaryTask) fetchBillPage(ctx context.Context, url string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, time.Duration(t.SourceConfig.Settings.Timeout)*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", t.userAgent)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(strings.ToLower(contentType), "text/html") {
		return nil, fmt.Errorf("content type is not HTML: %s", contentType)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}
