package database

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/zatekoja/wellnessintake/backend/internal/domain/entities"
	"github.com/zatekoja/wellnessintake/backend/internal/domain/providers"
	"github.com/zatekoja/wellnessintake/backend/internal/domain/repositories"
	"github.com/zatekoja/wellnessintake/backend/internal/infrastructure/observability"
)

const overrideCacheName = "prompt_overrides"

// CachedOverrideAdapter wraps an OverrideRepository with a read-through cache.
// Writes store the new row in the cache and, when an event bus is set,
// announce the change. A read only populates a key it holds a fill lease on,
// so a row read before a concurrent write never replaces the written one.
type CachedOverrideAdapter struct {
	adapter  repositories.OverrideRepository
	cache    providers.CacheProvider
	eventBus providers.EventBus
	metrics  *observability.Metrics
	ttl      int
}

// NewCachedOverrideAdapter creates a new cached override adapter. eventBus and
// metrics may be nil.
func NewCachedOverrideAdapter(
	adapter repositories.OverrideRepository,
	cache providers.CacheProvider,
	eventBus providers.EventBus,
	metrics *observability.Metrics,
	ttlSeconds int,
) repositories.OverrideRepository {
	return &CachedOverrideAdapter{
		adapter:  adapter,
		cache:    cache,
		eventBus: eventBus,
		metrics:  metrics,
		ttl:      ttlSeconds,
	}
}

// Get retrieves a stage override, caching misses as well as hits
func (a *CachedOverrideAdapter) Get(ctx context.Context, stageID string) (*entities.PromptOverride, error) {
	ctx = observability.WithStage(ctx, stageID)
	logger := observability.LoggerFromContext(ctx)
	key := providers.OverrideCacheKey(stageID)

	cached, err := a.cache.Get(ctx, key)
	switch {
	case err == nil && providers.IsFillLease(cached):
		// another reader is filling the key; read through without populating
		observability.RecordCacheMiss(ctx, a.metrics, overrideCacheName)
		return a.adapter.Get(ctx, stageID)
	case err == nil:
		var override *entities.PromptOverride
		if err := json.Unmarshal(cached, &override); err == nil {
			observability.RecordCacheHit(ctx, a.metrics, overrideCacheName)
			return override, nil
		}
		logger.Warn().Msg("discarding undecodable cached override")
		if err := a.cache.Delete(ctx, key); err != nil {
			logger.Warn().Err(err).Msg("failed to drop undecodable cached override")
		}
	case !errors.Is(err, providers.ErrCacheMiss):
		logger.Warn().Err(err).Msg("override cache read failed")
	}
	observability.RecordCacheMiss(ctx, a.metrics, overrideCacheName)

	lease := providers.NewFillLease()
	leased, err := a.cache.SetNX(ctx, key, lease, providers.FillLeaseSeconds)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to lease override cache key")
		leased = false
	}

	start := time.Now()
	override, err := a.adapter.Get(ctx, stageID)
	observability.RecordDBMetric(ctx, a.metrics, "override_get", time.Since(start))
	if err != nil {
		return nil, err
	}
	if !leased {
		return override, nil
	}

	data, err := json.Marshal(override)
	if err != nil {
		return override, nil
	}
	swapped, err := a.cache.CompareAndSwap(ctx, key, lease, data, a.ttl)
	switch {
	case err != nil:
		logger.Warn().Err(err).Msg("failed to cache override")
	case !swapped:
		logger.Debug().Msg("override changed while filling cache, keeping newer entry")
	}
	return override, nil
}

// ListAll is not cached
func (a *CachedOverrideAdapter) ListAll(ctx context.Context) ([]*entities.PromptOverride, error) {
	return a.adapter.ListAll(ctx)
}

// Upsert writes the row to the store and then to the cache
func (a *CachedOverrideAdapter) Upsert(ctx context.Context, stageID string, patch entities.OverridePatch) (*entities.PromptOverride, error) {
	override, err := a.adapter.Upsert(ctx, stageID, patch)
	if err != nil {
		return nil, err
	}
	a.writeThrough(ctx, stageID, override, entities.OverrideEventTypeUpdated)
	return override, nil
}

// Clear deletes the row and caches its absence
func (a *CachedOverrideAdapter) Clear(ctx context.Context, stageID string) error {
	if err := a.adapter.Clear(ctx, stageID); err != nil {
		return err
	}
	a.writeThrough(ctx, stageID, nil, entities.OverrideEventTypeCleared)
	return nil
}

func (a *CachedOverrideAdapter) writeThrough(ctx context.Context, stageID string, override *entities.PromptOverride, eventType entities.OverrideEventType) {
	ctx = observability.WithStage(ctx, stageID)
	logger := observability.LoggerFromContext(ctx)
	key := providers.OverrideCacheKey(stageID)

	data, err := json.Marshal(override)
	if err == nil {
		err = a.cache.Set(ctx, key, data, a.ttl)
	}
	if err != nil {
		logger.Warn().Err(err).Msg("failed to cache written override, dropping entry")
		if err := a.cache.Delete(ctx, key); err != nil {
			logger.Warn().Err(err).Msg("failed to drop cached override")
		}
	}

	if a.eventBus == nil {
		return
	}
	event := entities.NewOverrideEvent(stageID, eventType)
	if err := a.eventBus.Publish(ctx, providers.EventChannelOverrideUpdates, event); err != nil {
		logger.Warn().Err(err).Msg("failed to publish override event")
	}
}
