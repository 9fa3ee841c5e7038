package api

import (
	"net/http"

	"github.com/opencivi/bill-comb/app/database"
	"github.com/opencivi/bill-comb/app/feed"
	"github.com/opencivi/bill-comb/app/legislation"
	"github.com/opencivi/bill-comb/app/sources"
	"github.com/opencivi/bill-comb/app/tasks"
)

type Handler struct {
	billRepo     database.BillRepository
	snapshotRepo database.SnapshotRepository
	configCache  *sources.ConfigCache
	aggregator   *feed.Aggregator
	scorer       *feed.Scorer
	scheduler    tasks.TaskSchedulerInterface
	httpClient   *http.Client
}

// FeedEntry is one scored feed item as served to clients.
type FeedEntry struct {
	feed.Entry
	Score          float64                    `json:"score"`
	ReadableStatus legislation.ReadableStatus `json:"readable_status"`
}
