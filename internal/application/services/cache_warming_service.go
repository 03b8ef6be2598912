package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/wellnessintake/backend/internal/domain/catalog"
	"github.com/zatekoja/wellnessintake/backend/internal/domain/entities"
	"github.com/zatekoja/wellnessintake/backend/internal/domain/providers"
	"github.com/zatekoja/wellnessintake/backend/internal/domain/repositories"
)

// CacheWarmingService preloads the override cache so the first resolution of
// each stage does not hit Postgres
type CacheWarmingService struct {
	overrides  repositories.OverrideRepository
	cache      providers.CacheProvider
	ttlSeconds int
}

// NewCacheWarmingService creates a new cache warming service. overrides must
// be the uncached store.
func NewCacheWarmingService(
	overrides repositories.OverrideRepository,
	cache providers.CacheProvider,
	ttlSeconds int,
) *CacheWarmingService {
	return &CacheWarmingService{
		overrides:  overrides,
		cache:      cache,
		ttlSeconds: ttlSeconds,
	}
}

// WarmCache fills the override key of every known stage that is not cached
// yet. Stages without a row are cached as null, the same way a read-through
// miss is. Leases are taken before the store is read, so a write landing
// mid-warm keeps its entry.
func (s *CacheWarmingService) WarmCache(ctx context.Context) (int, error) {
	leases := make(map[string][]byte)
	for _, stageID := range knownStages() {
		lease := providers.NewFillLease()
		leased, err := s.cache.SetNX(ctx, providers.OverrideCacheKey(stageID), lease, providers.FillLeaseSeconds)
		if err != nil {
			return 0, fmt.Errorf("failed to lease override cache key for stage %s: %w", stageID, err)
		}
		if leased {
			leases[stageID] = lease
		}
	}
	if len(leases) == 0 {
		log.Debug().Msg("override cache already warm")
		return 0, nil
	}

	rows, err := s.overrides.ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list overrides: %w", err)
	}

	byStage := make(map[string]*entities.PromptOverride, len(rows))
	for _, row := range rows {
		byStage[row.StageID] = row
	}

	warmed := 0
	for _, stageID := range knownStages() {
		lease, ok := leases[stageID]
		if !ok {
			continue
		}
		data, err := json.Marshal(byStage[stageID])
		if err != nil {
			log.Warn().Err(err).Str("stage_id", stageID).Msg("failed to marshal override")
			continue
		}
		swapped, err := s.cache.CompareAndSwap(ctx, providers.OverrideCacheKey(stageID), lease, data, s.ttlSeconds)
		if err != nil {
			return warmed, fmt.Errorf("failed to cache override for stage %s: %w", stageID, err)
		}
		if swapped {
			warmed++
		}
	}

	log.Info().Int("stages", warmed).Int("overrides", len(rows)).Msg("override cache warmed")
	return warmed, nil
}

// StartPeriodicWarming warms once, then again on every tick until ctx is done.
// Later passes refill keys that expired since the previous one.
func (s *CacheWarmingService) StartPeriodicWarming(ctx context.Context, interval time.Duration) {
	if _, err := s.WarmCache(ctx); err != nil {
		log.Warn().Err(err).Msg("initial cache warming failed")
	}
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("stopping cache warming service")
				return
			case <-ticker.C:
				if _, err := s.WarmCache(ctx); err != nil {
					log.Warn().Err(err).Msg("periodic cache warming failed")
				}
			}
		}
	}()
	log.Info().Dur("interval", interval).Msg("started periodic cache warming")
}

func knownStages() []string {
	seen := make(map[string]struct{})
	var stages []string
	for _, name := range catalog.FormNames() {
		form, ok := catalog.GetDefaultForm(name)
		if !ok {
			continue
		}
		for _, stage := range form.Stages {
			if _, dup := seen[stage.ID]; dup {
				continue
			}
			seen[stage.ID] = struct{}{}
			stages = append(stages, stage.ID)
		}
	}
	return stages
}
