package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/opencivi/bill-comb/app/cfg"
	"github.com/opencivi/bill-comb/app/database"
	"github.com/opencivi/bill-comb/app/feed"
	"github.com/opencivi/bill-comb/app/legislation"
	"github.com/opencivi/bill-comb/app/locales"
	"github.com/opencivi/bill-comb/app/sources"
	"github.com/opencivi/bill-comb/app/tasks"
)

// DefaultLocation is assumed when a client does not declare one. It covers
// all three jurisdiction tiers.
const DefaultLocation = "Chicago, IL"

const defaultChangesLimit = 50

func NewHandler(configCache *sources.ConfigCache, billRepo database.BillRepository,
	snapshotRepo database.SnapshotRepository, aggregator *feed.Aggregator,
	scorer *feed.Scorer, scheduler tasks.TaskSchedulerInterface, httpClient *http.Client) *Handler {
	return &Handler{
		billRepo:     billRepo,
		snapshotRepo: snapshotRepo,
		configCache:  configCache,
		aggregator:   aggregator,
		scorer:       scorer,
		scheduler:    scheduler,
		httpClient:   httpClient,
	}
}

// GetFeed composes and scores the personalized feed. Query parameters:
// location, tags (comma separated), sponsors (comma separated).
func (h *Handler) GetFeed(c *gin.Context) {
	location := c.Query("location")
	if location == "" {
		location = DefaultLocation
	}

	prefs := feed.Preferences{
		Location: location,
		Tags:     splitParam(c.Query("tags")),
	}
	sponsors := splitParam(c.Query("sponsors"))

	data := make(map[locales.Tier]feed.TierData)
	for _, tier := range locales.TiersFor(location) {
		bills, annotations, err := h.billRepo.GetBills(string(tier))
		if err != nil {
			slog.Error("Database error", "operation", "get_bills", "tier", tier, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		data[tier] = feed.TierData{Bills: bills, Annotations: annotations}
	}

	now := time.Now().UTC()

	extraFilters := []feed.Filter{feed.MunicipalNoiseFilter()}
	if len(prefs.Tags) > 0 {
		extraFilters = append(extraFilters, feed.TagFilter(prefs.Tags))
	}
	if len(sponsors) > 0 {
		extraFilters = append(extraFilters, feed.SponsorFilter(sponsors))
	}

	entries, err := h.aggregator.Run(data, location, extraFilters, now)
	if err != nil {
		slog.Error("Feed composition error", "location", location, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Feed composition error"})
		return
	}

	ranked := h.scorer.Rank(entries, prefs, now)

	result := make([]FeedEntry, 0, len(ranked))
	for _, entry := range ranked {
		result = append(result, FeedEntry{
			Entry:          entry,
			Score:          h.scorer.Score(entry, prefs, now),
			ReadableStatus: legislation.MapToReadableStatus(entry.Tier, entry.Bill.LastStatus()),
		})
	}

	place, levels := locales.LocationLabel(location)

	c.JSON(http.StatusOK, gin.H{
		"location": place,
		"levels":   levels,
		"total":    len(result),
		"data":     result,
	})
}

// GetChanges returns recently detected legislative changes, optionally
// restricted to one tier.
func (h *Handler) GetChanges(c *gin.Context) {
	limit := defaultChangesLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
			return
		}
		limit = parsed
	}

	tier := c.Query("tier")
	if tier != "" && !locales.IsValid(locales.Tier(tier)) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tier parameter"})
		return
	}

	changes, err := h.snapshotRepo.GetRecentChanges(tier, limit)
	if err != nil {
		slog.Error("Database error", "operation", "get_changes", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	result := make([]map[string]interface{}, 0, len(changes))
	for _, change := range changes {
		result = append(result, map[string]interface{}{
			"id":          change.BillID,
			"tier":        change.Tier,
			"differences": json.RawMessage(change.Differences),
			"detected_at": change.DetectedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"changes": result,
		"total":   len(result),
	})
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if billCount, err := h.billRepo.GetBillCount(); err == nil {
		health["bills"] = billCount
	}

	health["loaded_configurations"] = h.configCache.GetConfigCount()

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	stats := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	tiers := make(map[string]interface{})
	for _, tier := range locales.AllTiers() {
		if count, err := h.billRepo.GetBillCountByTier(string(tier)); err == nil {
			tiers[string(tier)] = count
		}
	}
	stats["bills_by_tier"] = tiers

	if billCount, err := h.billRepo.GetBillCount(); err == nil {
		stats["bills_total"] = billCount
	}
	if changeCount, err := h.snapshotRepo.GetChangeCount(); err == nil {
		stats["changes_total"] = changeCount
	}
	stats["sources"] = h.configCache.GetConfigCount()

	c.JSON(http.StatusOK, stats)
}

func (h *Handler) APIListSources(c *gin.Context) {
	configs := h.configCache.GetConfigs()

	sourceList := make([]map[string]interface{}, 0, len(configs))

	for _, sourceConfig := range configs {
		sourceInfo := map[string]interface{}{
			"name":              sourceConfig.Name,
			"tier":              sourceConfig.Tier,
			"legislation_url":   sourceConfig.LegislationURL,
			"annotations_url":   sourceConfig.AnnotationsURL,
			"enabled":           sourceConfig.Settings.Enabled,
			"refresh_interval":  (time.Duration(sourceConfig.Settings.RefreshInterval) * time.Second).String(),
			"extract_summaries": sourceConfig.Settings.ExtractSummaries,
			"annotate":          sourceConfig.Settings.Annotate,
		}

		if count, err := h.billRepo.GetBillCountByTier(sourceConfig.Tier); err == nil {
			sourceInfo["bill_count"] = count
		}

		sourceList = append(sourceList, sourceInfo)
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"sources": sourceList,
		"total":   len(sourceList),
	})
}

func (h *Handler) APIRefreshSource(c *gin.Context) {
	name := c.Param("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing source name parameter"})
		return
	}

	sourceConfig, err := h.configCache.LoadConfig(name)
	if err != nil {
		slog.Error("Source configuration not found", "source", name, "error", err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Source configuration not found"})
		return
	}

	refreshTask := tasks.NewRefreshSourceTask(name, sourceConfig, h.httpClient, h.billRepo, cfg.Get().UserAgent)
	if err := h.scheduler.EnqueueTask(refreshTask); err != nil {
		slog.Error("Error enqueueing refresh task", "source", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to enqueue refresh task",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Configuration reloaded and refresh task enqueued successfully",
		"source": gin.H{
			"name": name,
			"tier": sourceConfig.Tier,
		},
		"tasks": []gin.H{
			{
				"id":   refreshTask.ID,
				"type": refreshTask.Type,
			},
		},
	})
}

func splitParam(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if value := strings.TrimSpace(part); value != "" {
			values = append(values, value)
		}
	}
	return values
}
