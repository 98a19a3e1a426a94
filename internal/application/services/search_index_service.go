package services

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/smartlocalbusiness/backend/internal/domain/entities"
	"github.com/smartlocalbusiness/backend/internal/domain/providers"
	"github.com/smartlocalbusiness/backend/internal/domain/repositories"
	apperrors "github.com/smartlocalbusiness/backend/pkg/errors"
)

const (
	// DefaultReindexSchedule runs a full reindex every 15 minutes
	DefaultReindexSchedule = "@every 15m"
	defaultReindexWorkers  = 4
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// ReindexStats summarizes one full reindex
type ReindexStats struct {
	Indexed  int64
	Failed   int64
	Duration time.Duration
}

// SearchIndexService keeps the external business index in line with the
// database: periodic full reindexes plus per-event upserts and deletes
type SearchIndexService struct {
	businesses repositories.BusinessRepository
	index      providers.BusinessSearchIndex
	eventBus   providers.EventBus
	workers    int
	schedule   string

	sched  *cron.Cron
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex // one reindex at a time
}

// NewSearchIndexService creates a new index maintainer. eventBus may be nil.
func NewSearchIndexService(
	businesses repositories.BusinessRepository,
	index providers.BusinessSearchIndex,
	eventBus providers.EventBus,
	workers int,
	schedule string,
) *SearchIndexService {
	if workers <= 0 {
		workers = defaultReindexWorkers
	}
	if schedule == "" {
		schedule = DefaultReindexSchedule
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &SearchIndexService{
		businesses: businesses,
		index:      index,
		eventBus:   eventBus,
		workers:    workers,
		schedule:   schedule,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Reindex ensures the collection exists and upserts every active business
func (s *SearchIndexService) Reindex(ctx context.Context) (*ReindexStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	if err := s.index.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure search schema: %w", err)
	}

	businesses, err := s.businesses.ListActive(ctx, repositories.BusinessFilter{})
	if err != nil {
		return nil, fmt.Errorf("list businesses for reindex: %w", err)
	}

	pool, err := ants.NewPool(s.workers)
	if err != nil {
		return nil, fmt.Errorf("create reindex pool: %w", err)
	}
	defer pool.Release()

	var (
		stats ReindexStats
		wg    sync.WaitGroup
	)
	for _, b := range businesses {
		dto := b.DTO()
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			if err := s.index.Upsert(ctx, dto); err != nil {
				atomic.AddInt64(&stats.Failed, 1)
				log.Warn().Err(err).Str("business_id", dto.ID).Msg("Failed to index business")
				return
			}
			atomic.AddInt64(&stats.Indexed, 1)
		})
		if submitErr != nil {
			wg.Done()
			atomic.AddInt64(&stats.Failed, 1)
			log.Warn().Err(submitErr).Str("business_id", dto.ID).Msg("Failed to schedule index task")
		}
	}
	wg.Wait()

	stats.Duration = time.Since(start)
	log.Info().
		Int64("indexed", stats.Indexed).
		Int64("failed", stats.Failed).
		Dur("duration", stats.Duration).
		Msg("Search reindex finished")
	return &stats, nil
}

// Start schedules periodic reindexes and subscribes to business events
func (s *SearchIndexService) Start() error {
	s.sched = cron.New(cron.WithParser(cronParser))
	if _, err := s.sched.AddFunc(s.schedule, func() {
		if _, err := s.Reindex(s.ctx); err != nil {
			log.Error().Err(err).Msg("Scheduled search reindex failed")
		}
	}); err != nil {
		return fmt.Errorf("invalid reindex schedule %q: %w", s.schedule, err)
	}

	if s.eventBus != nil {
		events, err := s.eventBus.Subscribe(s.ctx, providers.EventChannelBusinessUpdates)
		if err != nil {
			return fmt.Errorf("failed to subscribe to business updates: %w", err)
		}
		s.wg.Add(1)
		go s.processEvents(events)
	}

	s.sched.Start()
	log.Info().Str("schedule", s.schedule).Int("workers", s.workers).Msg("Search index service started")
	return nil
}

// Stop halts the scheduler and event listener, waiting for running jobs
func (s *SearchIndexService) Stop() {
	s.cancel()
	if s.sched != nil {
		<-s.sched.Stop().Done()
	}
	s.wg.Wait()
	log.Info().Msg("Search index service stopped")
}

func (s *SearchIndexService) processEvents(events <-chan *entities.BusinessEvent) {
	defer s.wg.Done()
	for {
		select {
		case <-s.ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if event == nil {
				continue
			}
			ctx, cancel := context.WithTimeout(s.ctx, 10*time.Second)
			if err := s.HandleEvent(ctx, event); err != nil {
				log.Warn().Err(err).
					Str("business_id", event.BusinessID).
					Str("event_type", string(event.EventType)).
					Msg("Failed to apply business event to search index")
			}
			cancel()
		}
	}
}

// HandleEvent applies one business change to the index. Inactive or
// missing businesses are removed.
func (s *SearchIndexService) HandleEvent(ctx context.Context, event *entities.BusinessEvent) error {
	if event.EventType == entities.BusinessEventDeleted {
		return s.index.Delete(ctx, event.BusinessID)
	}

	business, err := s.businesses.GetByID(ctx, event.BusinessID)
	if apperrors.IsNotFound(err) {
		return s.index.Delete(ctx, event.BusinessID)
	}
	if err != nil {
		return err
	}
	if !business.IsActive {
		return s.index.Delete(ctx, business.ID)
	}
	return s.index.Upsert(ctx, business.DTO())
}
