package feed

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-shiori/go-readability"
)

// maxSummaryLength bounds extracted summaries so a full bill text page does
// not balloon the stored payload.
const maxSummaryLength = 4000

type SummaryExtractor struct{}

func NewSummaryExtractor() *SummaryExtractor {
	return &SummaryExtractor{}
}

// Run extracts the readable text of a bill's source page for use as its
// summary.
func (e *SummaryExtractor) Run(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("HTML data is empty")
	}

	article, err := readability.FromReader(strings.NewReader(string(data)), nil)
	if err != nil {
		return "", fmt.Errorf("failed to extract summary: %w", err)
	}

	text := strings.TrimSpace(article.TextContent)
	if text == "" {
		return "", fmt.Errorf("no text extracted from HTML data")
	}

	if len(text) > maxSummaryLength {
		text = text[:maxSummaryLength]
	}

	slog.Debug("Summary extracted successfully",
		"title", article.Title,
		"summary_length", len(text))

	return text, nil
}
