package harvest

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Sync harvests every site, up to Config.Concurrency at a time. Results are
// kept in the same order as sites regardless of completion order.
func (h *Harvester) Sync(ctx context.Context, sites []Site) *SyncResult {
	results := make([]*SiteResult, len(sites))
	errs := make([]error, len(sites))

	semaphore := make(chan struct{}, h.config.Concurrency)
	var wg sync.WaitGroup

sites:
	for i, site := range sites {
		select {
		case <-ctx.Done():
			for j := i; j < len(sites); j++ {
				errs[j] = ctx.Err()
			}
			break sites
		case semaphore <- struct{}{}: // Acquire semaphore
			wg.Add(1)
			go func(i int, s Site) {
				defer wg.Done()
				defer func() { <-semaphore }() // Release semaphore

				start := time.Now()
				result, err := h.HarvestSite(ctx, s)
				if err != nil {
					log.Error().Err(err).Str("site", s.Name).Str("url", s.URL).Msg("failed to harvest site")
				} else if d := time.Since(start); d > 5*time.Minute {
					log.Warn().Str("site", s.Name).Dur("duration", d).Msg("slow harvest")
				}
				results[i] = result
				errs[i] = err
			}(i, site)
		}
	}

	wg.Wait()

	summary := &SyncResult{Sites: []SiteResult{}}
	for i, site := range sites {
		if errs[i] != nil {
			summary.SitesFailed++
			summary.Errors = append(summary.Errors, SyncError{Site: site, Err: errs[i]})
			if results[i] != nil {
				// Cancelled mid-site: keep what was collected.
				summary.Sites = append(summary.Sites, *results[i])
				summary.ArticlesExtracted += len(results[i].Records)
			}
			continue
		}
		summary.SitesSynced++
		summary.Sites = append(summary.Sites, *results[i])
		summary.ArticlesExtracted += len(results[i].Records)
	}

	return summary
}

// Run syncs sites immediately and then every Config.Interval until Stop is
// called or ctx is cancelled.
func (h *Harvester) Run(ctx context.Context, sites []Site) error {
	log.Info().Int("sites", len(sites)).Dur("interval", h.config.Interval).Msg("harvester starting")

	h.logSync(h.Sync(ctx, sites))

	ticker := time.NewTicker(h.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("harvester stopping (context cancelled)")
			return ctx.Err()
		case <-h.stopChan:
			log.Info().Msg("harvester stopping")
			return nil
		case <-ticker.C:
			h.logSync(h.Sync(ctx, sites))
		}
	}
}

// Stop signals Run to return after the current pass.
func (h *Harvester) Stop() {
	h.stopOnce.Do(func() { close(h.stopChan) })
}

func (h *Harvester) logSync(result *SyncResult) {
	log.Info().
		Int("synced", result.SitesSynced).
		Int("failed", result.SitesFailed).
		Int("articles", result.ArticlesExtracted).
		Msg("sync completed")
}
