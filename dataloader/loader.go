// Package dataloader retrieves, caches and combines Kennzahl time
// series. Fetches are cache-first; a failing fetch degrades to a
// deterministic demo dataset so callers always receive usable points.
package dataloader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/DigitalHumanitiesCraft/vetmed-wissensbilanz/cache"
	"github.com/DigitalHumanitiesCraft/vetmed-wissensbilanz/catalog"
	"github.com/DigitalHumanitiesCraft/vetmed-wissensbilanz/config"
	"github.com/DigitalHumanitiesCraft/vetmed-wissensbilanz/event"
	"github.com/DigitalHumanitiesCraft/vetmed-wissensbilanz/model"
	"github.com/DigitalHumanitiesCraft/vetmed-wissensbilanz/state"
)

// ErrUnknownKennzahl is returned when a requested metric code is not in
// the catalog. Unlike fetch failures this is not recovered: a missing
// catalog entry means a misconfigured caller.
var ErrUnknownKennzahl = errors.New("unknown kennzahl")

// LoadEvent is the payload of the data lifecycle topics.
type LoadEvent struct {
	Kennzahl string `json:"kennzahl"`
	Count    int    `json:"count,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Loader fetches and combines metric time series.
type Loader struct {
	mu           sync.Mutex
	basePath     string
	demoFallback bool
	warned       map[string]bool

	httpClient *http.Client
	cache      *cache.Cache
	store      *state.Store
	bus        *event.Bus
}

// NewLoader wires a loader to its collaborators. dataCache may be nil,
// which disables caching entirely (every call fetches).
func NewLoader(store *state.Store, bus *event.Bus, dataCache *cache.Cache, cfg config.DataConfig) *Loader {
	return &Loader{
		basePath:     cfg.BasePath,
		demoFallback: cfg.DemoFallback,
		warned:       make(map[string]bool),
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.FetchTimeout) * time.Second,
		},
		cache: dataCache,
		store: store,
		bus:   bus,
	}
}

// LoadMetric returns the full point set of one Kennzahl, cache-first.
// An unknown code fails with ErrUnknownKennzahl. A fetch or parse
// failure is recovered by generating demo data, which is cached like a
// real fetch so later calls neither re-fetch nor re-log.
func (l *Loader) LoadMetric(ctx context.Context, code string) ([]model.DataPoint, error) {
	if l.cache != nil {
		if points, ok := l.cache.GetPoints(code); ok {
			return points, nil
		}
	}

	kennzahl, ok := catalog.KennzahlByCode(code)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKennzahl, code)
	}

	l.publish(event.TopicDataLoading, LoadEvent{Kennzahl: code})

	points, err := l.fetch(ctx, kennzahl.Filename)
	if err != nil {
		l.publish(event.TopicDataError, LoadEvent{Kennzahl: code, Error: err.Error()})

		if !l.demoFallback {
			return nil, err
		}
		l.warnOnce(code, err)
		points = GenerateDemoPoints(code)
	}

	if l.cache != nil {
		l.cache.SetPoints(code, points)
	}

	l.publish(event.TopicDataLoaded, LoadEvent{Kennzahl: code, Count: len(points)})
	return points, nil
}

func (l *Loader) fetch(ctx context.Context, filename string) ([]model.DataPoint, error) {
	l.mu.Lock()
	url := l.basePath + filename
	l.mu.Unlock()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: HTTP %d", filename, resp.StatusCode)
	}

	var points []model.DataPoint
	if err := json.NewDecoder(resp.Body).Decode(&points); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", filename, err)
	}
	return points, nil
}

// warnOnce logs the fallback for a metric code a single time, so a
// permanently missing file does not spam the log on every reload.
func (l *Loader) warnOnce(code string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.warned[code] {
		return
	}
	l.warned[code] = true
	log.Warn().
		Str("kennzahl", code).
		Err(err).
		Msg("Data fetch failed, generating demo data")
}

func (l *Loader) publish(topic event.Topic, payload LoadEvent) {
	if l.bus != nil {
		l.bus.Publish(topic, payload)
	}
}

// LoadFiltered loads the selected metric and retains only the points
// matching the current filter state. The filtered set and its
// recomputed stats are stored as a side effect.
func (l *Loader) LoadFiltered(ctx context.Context) ([]model.DataPoint, error) {
	fs := l.store.FilterState()

	points, err := l.LoadMetric(ctx, fs.Kennzahl)
	if err != nil {
		return nil, err
	}

	filtered := filterPoints(points, fs)

	l.store.CalculateStats(filtered)
	l.store.Set(state.KeyFilteredData, filtered)
	return filtered, nil
}

// filterPoints applies the filter predicate: university membership
// (when the selection is non-empty), university type membership (when
// set), and the inclusive year range.
func filterPoints(points []model.DataPoint, fs model.FilterState) []model.DataPoint {
	unis := make(map[string]bool, len(fs.Universities))
	for _, u := range fs.Universities {
		unis[u] = true
	}
	types := make(map[string]bool, len(fs.UniTypes))
	for _, t := range fs.UniTypes {
		types[t] = true
	}

	filtered := make([]model.DataPoint, 0, len(points))
	for _, p := range points {
		if len(unis) > 0 && !unis[p.UniCode] {
			continue
		}
		if len(types) > 0 {
			uni, ok := catalog.UniversityByCode(p.UniCode)
			if !ok || !types[uni.Type] {
				continue
			}
		}
		if !fs.YearRange.Contains(p.Year) {
			continue
		}
		filtered = append(filtered, p)
	}
	return filtered
}

// DualResult is the outcome of a dual-metric load. Secondary and
// Merged are nil when no secondary Kennzahl is selected.
type DualResult struct {
	Primary   []model.DataPoint   `json:"primary"`
	Secondary []model.DataPoint   `json:"secondary"`
	Merged    []model.MergedPoint `json:"merged"`
}

// LoadDualFiltered loads the primary and, when selected, the secondary
// metric in parallel, applies the identical filter to both, and merges
// them into complete correlation pairs. Without a secondary selection
// it degrades to LoadFiltered semantics.
func (l *Loader) LoadDualFiltered(ctx context.Context) (*DualResult, error) {
	secondaryCode := l.store.GetString(state.KeySecondaryKennzahl)
	if secondaryCode == "" {
		primary, err := l.LoadFiltered(ctx)
		if err != nil {
			return nil, err
		}
		return &DualResult{Primary: primary}, nil
	}

	fs := l.store.FilterState()

	type outcome struct {
		points []model.DataPoint
		err    error
	}
	primaryCh := make(chan outcome, 1)
	secondaryCh := make(chan outcome, 1)

	go func() {
		pts, err := l.LoadMetric(ctx, fs.Kennzahl)
		primaryCh <- outcome{pts, err}
	}()
	go func() {
		pts, err := l.LoadMetric(ctx, secondaryCode)
		secondaryCh <- outcome{pts, err}
	}()

	p, s := <-primaryCh, <-secondaryCh
	if p.err != nil {
		return nil, p.err
	}
	if s.err != nil {
		return nil, s.err
	}

	primary := filterPoints(p.points, fs)
	secondary := filterPoints(s.points, fs)

	l.store.CalculateStats(primary)
	l.store.Set(state.KeyFilteredData, primary)

	return &DualResult{
		Primary:   primary,
		Secondary: secondary,
		Merged:    MergeForCorrelation(primary, secondary),
	}, nil
}

// ClearCache drops all cached metric data and re-arms the one-time
// fallback warnings.
func (l *Loader) ClearCache() {
	if l.cache != nil {
		l.cache.Clear()
	}
	l.mu.Lock()
	l.warned = make(map[string]bool)
	l.mu.Unlock()
}

// SetBasePath reconfigures the fetch root for metric JSON files.
func (l *Loader) SetBasePath(path string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.basePath = path
}
