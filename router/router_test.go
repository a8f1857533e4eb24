package router

import (
	"strings"
	"testing"

	"github.com/DigitalHumanitiesCraft/vetmed-wissensbilanz/event"
	"github.com/DigitalHumanitiesCraft/vetmed-wissensbilanz/model"
	"github.com/DigitalHumanitiesCraft/vetmed-wissensbilanz/state"
)

func newTestRouter(t *testing.T) (*Router, *state.Store, *MemoryHistory) {
	t.Helper()
	bus := event.NewBus()
	store := state.NewStore(bus, nil)
	history := NewMemoryHistory("http://localhost:8080/")
	r := NewRouter(store, bus, history)
	r.Init()
	return r, store, history
}

func TestLoadFromURL(t *testing.T) {
	t.Run("Valid_Parameters", func(t *testing.T) {
		r, store, history := newTestRouter(t)

		history.Navigate("unis=TU,TG&k=3-A-1&von=2019&bis=2022&tab=table&page=about")
		r.LoadFromURL()

		fs := store.FilterState()
		if !equalStrings(fs.Universities, []string{"TU", "TG"}) {
			t.Errorf("Universities = %v", fs.Universities)
		}
		if fs.Kennzahl != "3-A-1" {
			t.Errorf("Kennzahl = %s", fs.Kennzahl)
		}
		if fs.YearRange != (model.YearRange{Start: 2019, End: 2022}) {
			t.Errorf("YearRange = %+v", fs.YearRange)
		}
		if store.GetString(state.KeyActiveTab) != "table" {
			t.Errorf("ActiveTab = %s", store.GetString(state.KeyActiveTab))
		}
		if store.GetString(state.KeyActivePage) != "about" {
			t.Errorf("ActivePage = %s", store.GetString(state.KeyActivePage))
		}
	})

	t.Run("Invalid_Values_Dropped", func(t *testing.T) {
		r, store, history := newTestRouter(t)

		history.Navigate("unis=TU,ZZ&k=9-Z-9&tab=nonsense&viz=pie")
		r.LoadFromURL()

		fs := store.FilterState()
		// The one valid university survives, the bogus one is dropped.
		if !equalStrings(fs.Universities, []string{"TU"}) {
			t.Errorf("Universities = %v", fs.Universities)
		}
		// Unknown kennzahl and enum values leave the defaults alone.
		if fs.Kennzahl != state.DefaultKennzahl {
			t.Errorf("Kennzahl = %s, want default", fs.Kennzahl)
		}
		if store.GetString(state.KeyActiveTab) != state.DefaultTab {
			t.Errorf("ActiveTab = %s, want default", store.GetString(state.KeyActiveTab))
		}
		if store.GetString(state.KeyVizType) != state.DefaultVizType {
			t.Errorf("VizType = %s, want default", store.GetString(state.KeyVizType))
		}
	})

	t.Run("Year_Bounds_Clamped_And_Ordered", func(t *testing.T) {
		r, store, history := newTestRouter(t)

		history.Navigate("von=1990&bis=2050")
		r.LoadFromURL()
		if yr := store.FilterState().YearRange; yr != (model.YearRange{Start: 2019, End: 2030}) {
			t.Errorf("Clamped range = %+v", yr)
		}

		history.Navigate("von=2024&bis=2020")
		r.LoadFromURL()
		if yr := store.FilterState().YearRange; yr.Start > yr.End {
			t.Errorf("Start must not exceed end: %+v", yr)
		}
	})

	t.Run("Dual_Mode_Parameters", func(t *testing.T) {
		r, store, history := newTestRouter(t)

		history.Navigate("k2=2-A-2&comb=scatter")
		r.LoadFromURL()

		if store.GetString(state.KeySecondaryKennzahl) != "2-A-2" {
			t.Errorf("SecondaryKennzahl = %s", store.GetString(state.KeySecondaryKennzahl))
		}
		if !store.GetBool(state.KeyDualMode) {
			t.Error("Expected dual mode to be enabled by k2")
		}
		if store.GetString(state.KeyCombinationType) != "scatter" {
			t.Errorf("CombinationType = %s", store.GetString(state.KeyCombinationType))
		}
	})

	t.Run("Tutorial_Parameter", func(t *testing.T) {
		r, store, history := newTestRouter(t)

		history.Navigate("tutorial=viz")
		r.LoadFromURL()

		if !store.GetBool(state.KeyTutorialMode) {
			t.Error("Expected tutorial mode on")
		}
		if store.GetString(state.KeyTutorialSection) != "viz" {
			t.Errorf("TutorialSection = %s", store.GetString(state.KeyTutorialSection))
		}
	})
}

func TestUpdateURL(t *testing.T) {
	t.Run("Defaults_Produce_Empty_Query", func(t *testing.T) {
		r, _, history := newTestRouter(t)

		r.UpdateURL()
		if q := history.Query().Encode(); q != "" {
			t.Errorf("Expected empty query for default state, got %q", q)
		}
		if url := r.ShareableURL(); url != "http://localhost:8080/" {
			t.Errorf("ShareableURL = %s", url)
		}
	})

	t.Run("NonDefault_State_Serialized", func(t *testing.T) {
		_, store, history := newTestRouter(t)

		store.Batch([]state.Update{
			{Key: state.KeySelectedUniversities, Value: []string{"TU", "MW"}},
			{Key: state.KeySelectedKennzahl, Value: "4-A-2"},
			{Key: state.KeyYearRange, Value: model.YearRange{Start: 2019, End: 2023}},
			{Key: state.KeyActiveTab, Value: "report"},
		})

		q := history.Query()
		if q.Get("unis") != "TU,MW" || q.Get("k") != "4-A-2" {
			t.Errorf("Query = %s", q.Encode())
		}
		if q.Get("von") != "2019" || q.Get("bis") != "2023" {
			t.Errorf("Year params = %s/%s", q.Get("von"), q.Get("bis"))
		}
		if q.Get("tab") != "report" {
			t.Errorf("tab = %s", q.Get("tab"))
		}
	})

	t.Run("Viz_Only_On_Chart_Tab", func(t *testing.T) {
		_, store, history := newTestRouter(t)

		store.Set(state.KeyVizType, "heatmap")
		if history.Query().Get("viz") != "heatmap" {
			t.Errorf("Expected viz param on chart tab, got %q", history.Query().Encode())
		}

		store.Set(state.KeyActiveTab, "table")
		if history.Query().Get("viz") != "" {
			t.Errorf("Expected viz param dropped off the chart tab, got %q", history.Query().Encode())
		}
	})

	t.Run("Reentrancy_Guard", func(t *testing.T) {
		r, store, history := newTestRouter(t)

		// Loading a URL must not immediately rewrite it through the
		// filter-changed subscription.
		history.Navigate("k=2-A-5&von=2020&bis=2022")
		r.LoadFromURL()

		if store.FilterState().Kennzahl != "2-A-5" {
			t.Fatal("URL not applied")
		}
		if q := history.Query().Encode(); !strings.Contains(q, "k=2-A-5") {
			t.Errorf("Loaded query was clobbered: %q", q)
		}
	})
}

func TestRoundTrip(t *testing.T) {
	r1, store1, history1 := newTestRouter(t)

	store1.Batch([]state.Update{
		{Key: state.KeySelectedUniversities, Value: []string{"MW", "MG", "MK"}},
		{Key: state.KeySelectedKennzahl, Value: "2-A-6"},
		{Key: state.KeyYearRange, Value: model.YearRange{Start: 2020, End: 2023}},
		{Key: state.KeySecondaryKennzahl, Value: "1-A-2"},
		{Key: state.KeyDualMode, Value: true},
		{Key: state.KeyCombinationType, Value: "ratio"},
		{Key: state.KeyActiveTab, Value: "chart"},
		{Key: state.KeyVizType, Value: "ranking"},
	})
	r1.UpdateURL()

	// Feed the produced query into a fresh router/store pair.
	r2, store2, history2 := newTestRouter(t)
	history2.Navigate(history1.Query().Encode())
	r2.LoadFromURL()

	fs1, fs2 := store1.FilterState(), store2.FilterState()
	if !equalStrings(fs1.Universities, fs2.Universities) {
		t.Errorf("Universities: %v != %v", fs1.Universities, fs2.Universities)
	}
	if fs1.Kennzahl != fs2.Kennzahl || fs1.YearRange != fs2.YearRange {
		t.Errorf("Filter mismatch: %+v != %+v", fs1, fs2)
	}
	for _, key := range []state.Key{
		state.KeySecondaryKennzahl, state.KeyCombinationType,
		state.KeyActiveTab, state.KeyVizType,
	} {
		if store1.GetString(key) != store2.GetString(key) {
			t.Errorf("%s: %v != %v", key, store1.Get(key), store2.Get(key))
		}
	}
	if store2.GetBool(state.KeyDualMode) != true {
		t.Error("Dual mode lost in round trip")
	}
}
