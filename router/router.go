// Package router synchronizes a whitelisted subset of the application
// state with URL query parameters, making dashboard views shareable and
// bookmarkable. Loading validates every parameter against its domain
// and silently drops invalid values; writing elides parameters whose
// value equals the default, so a default view has a clean URL.
package router

import (
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/DigitalHumanitiesCraft/vetmed-wissensbilanz/catalog"
	"github.com/DigitalHumanitiesCraft/vetmed-wissensbilanz/event"
	"github.com/DigitalHumanitiesCraft/vetmed-wissensbilanz/model"
	"github.com/DigitalHumanitiesCraft/vetmed-wissensbilanz/state"
)

// Query parameter names.
const (
	paramPage     = "page"
	paramUnis     = "unis"
	paramKennzahl = "k"
	paramSecond   = "k2"
	paramComb     = "comb"
	paramFrom     = "von"
	paramTo       = "bis"
	paramTab      = "tab"
	paramViz      = "viz"
	paramTutorial = "tutorial"
)

// Router keeps state and URL in sync in both directions.
type Router struct {
	store   *state.Store
	bus     *event.Bus
	history History

	mu       sync.Mutex
	updating bool
}

// NewRouter wires a router to its collaborators. Call Init to load the
// initial URL and attach the bus subscriptions.
func NewRouter(store *state.Store, bus *event.Bus, history History) *Router {
	return &Router{store: store, bus: bus, history: history}
}

// Init reads the current URL into the state and registers the event
// subscriptions that write state changes back to the URL.
func (r *Router) Init() {
	r.LoadFromURL()

	onChange := func(interface{}) {
		if !r.isUpdating() {
			r.UpdateURL()
		}
	}
	r.bus.Subscribe(event.TopicFilterChange, onChange)
	r.bus.Subscribe(event.TopicFilterReset, onChange)
	r.bus.Subscribe(event.TopicTabChange, onChange)
	r.bus.Subscribe(event.TopicVizChange, onChange)
	r.bus.Subscribe(event.TopicPageChange, onChange)
	r.bus.Subscribe(event.TopicTutorialToggle, onChange)

	log.Info().Msg("Router initialized")
}

func (r *Router) isUpdating() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.updating
}

func (r *Router) setUpdating(v bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updating = v
}

// LoadFromURL applies the history's current query to the state. Invoke
// again on external navigation (the back/forward analog).
func (r *Router) LoadFromURL() {
	r.ApplyQuery(r.history.Query())
}

// ApplyQuery validates each parameter against its domain and applies
// the valid subset in one batch. Invalid or unknown values are logged
// and dropped, never applied; the state cannot end up invalid. The
// reentrancy flag suppresses the URL writes the batch would otherwise
// trigger through the bus subscriptions.
func (r *Router) ApplyQuery(params url.Values) {
	r.setUpdating(true)
	defer r.setUpdating(false)

	var updates []state.Update

	if page := params.Get(paramPage); page != "" {
		if contains(state.Pages, page) {
			updates = append(updates, state.Update{Key: state.KeyActivePage, Value: page})
		} else {
			dropped(paramPage, page)
		}
	}

	if unis := params.Get(paramUnis); unis != "" {
		var valid []string
		for _, code := range strings.Split(unis, ",") {
			code = strings.TrimSpace(code)
			if code == "" {
				continue
			}
			if catalog.IsUniversityCode(code) {
				valid = append(valid, code)
			} else {
				dropped(paramUnis, code)
			}
		}
		if len(valid) > 0 {
			updates = append(updates, state.Update{Key: state.KeySelectedUniversities, Value: valid})
		}
	}

	if k := params.Get(paramKennzahl); k != "" {
		if catalog.IsKennzahlCode(k) {
			updates = append(updates, state.Update{Key: state.KeySelectedKennzahl, Value: k})
		} else {
			dropped(paramKennzahl, k)
		}
	}

	if k2 := params.Get(paramSecond); k2 != "" {
		if catalog.IsKennzahlCode(k2) {
			updates = append(updates,
				state.Update{Key: state.KeySecondaryKennzahl, Value: k2},
				state.Update{Key: state.KeyDualMode, Value: true})
		} else {
			dropped(paramSecond, k2)
		}
	}

	if comb := params.Get(paramComb); comb != "" {
		if contains(state.CombinationTypes, comb) {
			updates = append(updates, state.Update{Key: state.KeyCombinationType, Value: comb})
		} else {
			dropped(paramComb, comb)
		}
	}

	if yr, ok := parseYearRange(params.Get(paramFrom), params.Get(paramTo)); ok {
		updates = append(updates, state.Update{Key: state.KeyYearRange, Value: yr})
	}

	if tab := params.Get(paramTab); tab != "" {
		if contains(state.Tabs, tab) {
			updates = append(updates, state.Update{Key: state.KeyActiveTab, Value: tab})
		} else {
			dropped(paramTab, tab)
		}
	}

	if viz := params.Get(paramViz); viz != "" {
		if contains(state.VizTypes, viz) {
			updates = append(updates, state.Update{Key: state.KeyVizType, Value: viz})
		} else {
			dropped(paramViz, viz)
		}
	}

	if section := params.Get(paramTutorial); section != "" {
		if contains(state.TutorialSections, section) {
			updates = append(updates,
				state.Update{Key: state.KeyTutorialMode, Value: true},
				state.Update{Key: state.KeyTutorialSection, Value: section})
		} else {
			dropped(paramTutorial, section)
		}
	}

	if len(updates) > 0 {
		r.store.Batch(updates)
	}
}

// parseYearRange accepts both bounds, clamps them into the valid years
// and forces start <= end by swapping. Non-numeric or missing bounds
// drop the pair entirely.
func parseYearRange(from, to string) (model.YearRange, bool) {
	if from == "" || to == "" {
		return model.YearRange{}, false
	}
	start, err1 := strconv.Atoi(from)
	end, err2 := strconv.Atoi(to)
	if err1 != nil || err2 != nil {
		dropped(paramFrom, from+"-"+to)
		return model.YearRange{}, false
	}

	start = clampYear(start)
	end = clampYear(end)
	if start > end {
		start, end = end, start
	}
	return model.YearRange{Start: start, End: end}, true
}

func clampYear(year int) int {
	if year < catalog.MinYear {
		return catalog.MinYear
	}
	if year > catalog.MaxYear {
		return catalog.MaxYear
	}
	return year
}

func dropped(param, value string) {
	log.Warn().
		Str("param", param).
		Str("value", value).
		Msg("Ignoring invalid URL parameter")
}

func contains(set []string, value string) bool {
	for _, s := range set {
		if s == value {
			return true
		}
	}
	return false
}

// UpdateURL serializes the relevant state into the query string,
// omitting every parameter whose value equals its default. The write
// is skipped when the resulting query matches the current one.
func (r *Router) UpdateURL() {
	params := url.Values{}

	if page := r.store.GetString(state.KeyActivePage); page != state.DefaultPage {
		params.Set(paramPage, page)
	}

	fs := r.store.FilterState()
	if len(fs.Universities) > 0 && !equalStrings(fs.Universities, state.DefaultUniversities) {
		params.Set(paramUnis, strings.Join(fs.Universities, ","))
	}
	if fs.Kennzahl != "" && fs.Kennzahl != state.DefaultKennzahl {
		params.Set(paramKennzahl, fs.Kennzahl)
	}
	if fs.YearRange != state.DefaultYearRange {
		params.Set(paramFrom, strconv.Itoa(fs.YearRange.Start))
		params.Set(paramTo, strconv.Itoa(fs.YearRange.End))
	}

	if k2 := r.store.GetString(state.KeySecondaryKennzahl); k2 != "" {
		params.Set(paramSecond, k2)
		if comb := r.store.GetString(state.KeyCombinationType); comb != "" {
			params.Set(paramComb, comb)
		}
	}

	tab := r.store.GetString(state.KeyActiveTab)
	if tab != state.DefaultTab {
		params.Set(paramTab, tab)
	}
	// The viz type only matters while the chart tab is visible.
	if tab == state.DefaultTab {
		if viz := r.store.GetString(state.KeyVizType); viz != state.DefaultVizType {
			params.Set(paramViz, viz)
		}
	}

	if r.store.GetBool(state.KeyTutorialMode) {
		if section := r.store.GetString(state.KeyTutorialSection); section != "" {
			params.Set(paramTutorial, section)
		}
	}

	if params.Encode() == r.history.Query().Encode() {
		return
	}
	r.history.Replace(params)
	log.Debug().Str("query", params.Encode()).Msg("URL updated")
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// ShareableURL forces a URL sync and returns the full current URL.
func (r *Router) ShareableURL() string {
	r.UpdateURL()
	return r.history.Location()
}
