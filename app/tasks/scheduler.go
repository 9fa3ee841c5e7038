package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/opencivi/bill-comb/app/ai"
	"github.com/opencivi/bill-comb/app/cfg"
	"github.com/opencivi/bill-comb/app/database"
	"github.com/opencivi/bill-comb/app/diff"
	"github.com/opencivi/bill-comb/app/feed"
	"github.com/opencivi/bill-comb/app/sources"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

type Scheduler struct {
	billRepo         database.BillRepository
	snapshotRepo     database.SnapshotRepository
	configCache      *sources.ConfigCache
	httpClient       *http.Client
	differ           *diff.Differ
	summaryExtractor *feed.SummaryExtractor
	annotator        *ai.Annotator
	userAgent        string
	interval         time.Duration
	workerCount      int
	ctx              context.Context
	cancel           context.CancelFunc
	wg               sync.WaitGroup
	taskQueue        chan TaskInterface
	lastRefresh      map[string]time.Time
	lastRefreshMu    sync.Mutex
}

func NewScheduler(configCache *sources.ConfigCache, billRepo database.BillRepository,
	snapshotRepo database.SnapshotRepository, httpClient *http.Client, differ *diff.Differ,
	summaryExtractor *feed.SummaryExtractor, annotator *ai.Annotator) TaskSchedulerInterface {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := cfg.Get()

	return &Scheduler{
		billRepo:         billRepo,
		snapshotRepo:     snapshotRepo,
		configCache:      configCache,
		httpClient:       httpClient,
		differ:           differ,
		summaryExtractor: summaryExtractor,
		annotator:        annotator,
		userAgent:        cfg.UserAgent,
		interval:         time.Duration(cfg.SchedulerInterval) * time.Second,
		workerCount:      cfg.WorkerCount,
		ctx:              ctx,
		cancel:           cancel,
		taskQueue:        make(chan TaskInterface, 300),
		lastRefresh:      make(map[string]time.Time),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.enqueueSourceTasks(true)

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueSourceTasks(false)
			}
		}
	}()

}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	close(s.taskQueue)
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	select {
	case s.taskQueue <- task:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return fmt.Errorf("task queue is full")
	}
}

// enqueueSourceTasks queues the full pipeline for every enabled source due
// for a refresh: fetch, summary extraction, annotation, and the change
// detection pass for the source's tier. On startup every source is due.
func (s *Scheduler) enqueueSourceTasks(startup bool) {
	sourceConfigs := s.configCache.GetEnabledConfigs()
	if len(sourceConfigs) == 0 {
		slog.Debug("No enabled source configurations found")
		return
	}

	slog.Debug("Processing enabled source configurations for task scheduling", "count", len(sourceConfigs))

	now := time.Now().UTC()

	for _, sourceConfig := range sourceConfigs {
		if !startup && !s.isDue(sourceConfig, now) {
			slog.Debug("Source not due for refresh yet", "source", sourceConfig.Name)
			continue
		}

		refreshTask := NewRefreshSourceTask(sourceConfig.Name, sourceConfig, s.httpClient, s.billRepo, s.userAgent)
		if err := s.EnqueueTask(refreshTask); err != nil {
			slog.Warn("Failed to enqueue RefreshSourceTask", "source", sourceConfig.Name, "error", err)
			continue
		}

		s.markRefreshed(sourceConfig.Name, now)

		if sourceConfig.Settings.ExtractSummaries {
			extractTask := NewExtractSummaryTask(sourceConfig.Name, sourceConfig, s.httpClient, s.summaryExtractor, s.billRepo, s.userAgent)
			if err := s.EnqueueTask(extractTask); err != nil {
				slog.Warn("Failed to enqueue ExtractSummaryTask", "source", sourceConfig.Name, "error", err)
			}
		}

		if sourceConfig.Settings.Annotate {
			annotateTask := NewAnnotateBillsTask(sourceConfig.Name, sourceConfig, s.annotator, s.billRepo)
			if err := s.EnqueueTask(annotateTask); err != nil {
				slog.Warn("Failed to enqueue AnnotateBillsTask", "source", sourceConfig.Name, "error", err)
			}
		}

		diffTask := NewDiffSnapshotTask(sourceConfig.Name, sourceConfig.Tier, s.differ, s.billRepo, s.snapshotRepo)
		if err := s.EnqueueTask(diffTask); err != nil {
			slog.Warn("Failed to enqueue DiffSnapshotTask", "source", sourceConfig.Name, "error", err)
		}
	}
}

func (s *Scheduler) isDue(sourceConfig *sources.Config, now time.Time) bool {
	s.lastRefreshMu.Lock()
	defer s.lastRefreshMu.Unlock()

	last, ok := s.lastRefresh[sourceConfig.Name]
	if !ok {
		return true
	}
	return now.Sub(last) >= time.Duration(sourceConfig.Settings.RefreshInterval)*time.Second
}

func (s *Scheduler) markRefreshed(sourceName string, now time.Time) {
	s.lastRefreshMu.Lock()
	defer s.lastRefreshMu.Unlock()
	s.lastRefresh[sourceName] = now
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task, ok := <-s.taskQueue:
			if !ok {
				return
			}
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, 5*time.Minute)
	defer cancel()

	err := task.Execute(taskCtx)

	if err != nil {
		slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", err)

		if task.CanRetry() {
			task.IncrementRetryCount()
			retryDelay := time.Duration(1<<uint(task.GetRetryCount()-1)) * time.Second
			if retryDelay > 30*time.Second {
				retryDelay = 30 * time.Second
			}

			slog.Warn("Task retry scheduled", "type", string(task.GetType()), "source", task.GetSourceName(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", retryDelay.String())

			go func() {
				time.Sleep(retryDelay)
				select {
				case <-s.ctx.Done():
					slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
					return
				default:
					if retryErr := s.EnqueueTask(task); retryErr != nil {
						slog.Error("Failed to re-enqueue task for retry", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", retryErr)
					}
				}
			}()
		} else {
			slog.Error("Task failed after maximum retries", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "last_error", err)
		}
	}
}
