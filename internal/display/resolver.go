// Package display decides whether a storefront field is rendered. The whole
// precedence rule lives in Resolve: per-product override, then the global
// setting, then visible. Absence always fails open so merchandising
// information is shown rather than silently hidden.
package display

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mlmarketplace/storefront/internal/domain"
	"github.com/mlmarketplace/storefront/internal/port"
)

// Resolve returns the effective visibility of field for the given per-product
// overrides. An override present in the map wins verbatim, including false.
func Resolve(global domain.DisplaySettings, field string, overrides map[string]bool) bool {
	if overrides != nil {
		if v, ok := overrides[field]; ok {
			return v
		}
	}
	if v, ok := global[field]; ok {
		return v
	}
	return true
}

// Source fetches the global display settings once per session. Until the
// fetch lands (or if it fails) resolution runs against an empty map, which
// falls open to true for every field.
type Source struct {
	fetcher port.SettingsFetcher
	logger  *slog.Logger

	once sync.Once

	mu      sync.RWMutex
	global  domain.DisplaySettings
	loading bool
}

func NewSource(fetcher port.SettingsFetcher, logger *slog.Logger) *Source {
	if logger == nil {
		logger = slog.Default()
	}
	return &Source{
		fetcher: fetcher,
		logger:  logger,
		loading: true,
	}
}

// Load performs the one-shot fetch. Calling it again is a no-op; a failed
// fetch is logged, never surfaced, and leaves the fail-open defaults active.
func (s *Source) Load(ctx context.Context) {
	s.once.Do(func() {
		settings, err := s.fetcher.FetchDisplaySettings(ctx)

		s.mu.Lock()
		defer s.mu.Unlock()
		s.loading = false
		if err != nil {
			s.logger.Warn("fetching display settings failed, using defaults", "err", err)
			return
		}
		s.global = settings
	})
}

// Loading reports whether the initial fetch is still outstanding.
func (s *Source) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *Source) Resolve(field string, overrides map[string]bool) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Resolve(s.global, field, overrides)
}

// Settings returns a copy of the fetched global map.
func (s *Source) Settings() domain.DisplaySettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(domain.DisplaySettings, len(s.global))
	for k, v := range s.global {
		out[k] = v
	}
	return out
}
