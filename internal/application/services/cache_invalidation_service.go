package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/wellnessintake/backend/internal/domain/entities"
	"github.com/zatekoja/wellnessintake/backend/internal/domain/providers"
)

// CacheInvalidationService drops a stage's cached override whenever a change
// is announced on the event bus, so the next read refills it from Postgres
// even if the writer's own cache write failed. eventBus may be nil when only
// the Invalidate methods are used.
type CacheInvalidationService struct {
	cache    providers.CacheProvider
	eventBus providers.EventBus
	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}
	started  bool
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

// Start begins listening for override events
func (s *CacheInvalidationService) Start() error {
	if s.eventBus == nil {
		return fmt.Errorf("cache invalidation needs an event bus")
	}
	eventChan, err := s.eventBus.Subscribe(s.ctx, providers.EventChannelOverrideUpdates)
	if err != nil {
		return fmt.Errorf("failed to subscribe to override updates: %w", err)
	}

	s.started = true
	go s.processEvents(eventChan)
	log.Info().Str("channel", providers.EventChannelOverrideUpdates).Msg("cache invalidation service started")
	return nil
}

// Stop stops the listener and waits for it to exit
func (s *CacheInvalidationService) Stop() {
	s.cancel()
	if s.started {
		<-s.done
	}
	log.Info().Msg("cache invalidation service stopped")
}

func (s *CacheInvalidationService) processEvents(eventChan <-chan *entities.OverrideEvent) {
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

func (s *CacheInvalidationService) handleEvent(event *entities.OverrideEvent) {
	ctx, cancel := context.WithTimeout(s.ctx, 5*time.Second)
	defer cancel()

	if err := s.InvalidateOverride(ctx, event.StageID); err != nil {
		log.Warn().Err(err).
			Str("event_id", event.ID).
			Str("stage_id", event.StageID).
			Msg("failed to invalidate cached override")
		return
	}
	log.Debug().
		Str("event_id", event.ID).
		Str("stage_id", event.StageID).
		Str("event_type", string(event.EventType)).
		Msg("invalidated cached override")
}

// InvalidateOverride drops the cached override of one stage
func (s *CacheInvalidationService) InvalidateOverride(ctx context.Context, stageID string) error {
	if err := s.cache.Delete(ctx, providers.OverrideCacheKey(stageID)); err != nil {
		return fmt.Errorf("failed to invalidate override cache for %s: %w", stageID, err)
	}
	return nil
}

// InvalidateAll drops every cached override. The API calls it at startup,
// before warming, since rows may have changed while it was down.
func (s *CacheInvalidationService) InvalidateAll(ctx context.Context) error {
	pattern := providers.OverrideCachePattern()
	if err := s.cache.DeletePattern(ctx, pattern); err != nil {
		return fmt.Errorf("failed to invalidate pattern %s: %w", pattern, err)
	}
	log.Info().Str("pattern", pattern).Msg("invalidated override cache")
	return nil
}
