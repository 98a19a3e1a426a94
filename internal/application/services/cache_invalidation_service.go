package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/smartlocalbusiness/backend/internal/domain/entities"
	"github.com/smartlocalbusiness/backend/internal/domain/providers"
)

// CacheInvalidationService drops cached business reads when another
// service announces a change on the event bus
type CacheInvalidationService struct {
	cache    providers.CacheProvider
	eventBus providers.EventBus
	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewCacheInvalidationService creates a new cache invalidation service
func NewCacheInvalidationService(cache providers.CacheProvider, eventBus providers.EventBus) *CacheInvalidationService {
	ctx, cancel := context.WithCancel(context.Background())
	return &CacheInvalidationService{
		cache:    cache,
		eventBus: eventBus,
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
}

// Start begins listening for business events
func (s *CacheInvalidationService) Start() error {
	eventChan, err := s.eventBus.Subscribe(s.ctx, providers.EventChannelBusinessUpdates)
	if err != nil {
		return fmt.Errorf("failed to subscribe to business updates: %w", err)
	}

	go s.processEvents(eventChan)
	log.Info().Str("channel", providers.EventChannelBusinessUpdates).Msg("Cache invalidation service started")
	return nil
}

// Stop stops the listener and waits for it to exit
func (s *CacheInvalidationService) Stop() {
	s.cancel()
	<-s.done
	log.Info().Msg("Cache invalidation service stopped")
}

func (s *CacheInvalidationService) processEvents(eventChan <-chan *entities.BusinessEvent) {
	defer close(s.done)
	for {
		select {
		case <-s.ctx.Done():
			return
		case event, ok := <-eventChan:
			if !ok {
				return
			}
			if event == nil {
				continue
			}
			s.handleEvent(event)
		}
	}
}

func (s *CacheInvalidationService) handleEvent(event *entities.BusinessEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.InvalidateBusiness(ctx, event.BusinessID); err != nil {
		log.Warn().Err(err).
			Str("event_id", event.ID).
			Str("event_type", string(event.EventType)).
			Msg("Cache invalidation failed")
		return
	}
	log.Debug().
		Str("business_id", event.BusinessID).
		Str("event_type", string(event.EventType)).
		Msg("Invalidated business cache")
}

// InvalidateBusiness removes the cached read of one business
func (s *CacheInvalidationService) InvalidateBusiness(ctx context.Context, businessID string) error {
	if businessID == "" {
		return nil
	}
	if err := s.cache.Delete(ctx, BusinessCacheKey(businessID)); err != nil {
		return fmt.Errorf("failed to invalidate business cache: %w", err)
	}
	return nil
}
