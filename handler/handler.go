// Package handler exposes the dashboard core over HTTP. Every data
// endpoint accepts the same query parameters the shareable URLs carry;
// they are applied through the router before serving, so a pasted
// dashboard link and an API call resolve identically.
package handler

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/DigitalHumanitiesCraft/vetmed-wissensbilanz/cache"
	"github.com/DigitalHumanitiesCraft/vetmed-wissensbilanz/catalog"
	"github.com/DigitalHumanitiesCraft/vetmed-wissensbilanz/dataloader"
	"github.com/DigitalHumanitiesCraft/vetmed-wissensbilanz/model"
	"github.com/DigitalHumanitiesCraft/vetmed-wissensbilanz/report"
	"github.com/DigitalHumanitiesCraft/vetmed-wissensbilanz/router"
	"github.com/DigitalHumanitiesCraft/vetmed-wissensbilanz/state"
)

var ErrLLMUnavailable = errors.New("report generation not configured")

// DashboardHandler serves the dashboard API.
type DashboardHandler struct {
	store     *state.Store
	loader    *dataloader.Loader
	urlRouter *router.Router
	llm       *report.Client
	dataCache *cache.Cache
}

// NewDashboardHandler creates the handler with its collaborators.
// dataCache and llm may be nil; the corresponding endpoints degrade
// gracefully.
func NewDashboardHandler(store *state.Store, loader *dataloader.Loader, urlRouter *router.Router, llm *report.Client, dataCache *cache.Cache) *DashboardHandler {
	return &DashboardHandler{
		store:     store,
		loader:    loader,
		urlRouter: urlRouter,
		llm:       llm,
		dataCache: dataCache,
	}
}

// Register attaches all routes to the mux router.
func (h *DashboardHandler) Register(r *mux.Router) {
	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/cache/metrics", h.CacheMetrics).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/catalog/universities", h.ListUniversities).Methods("GET")
	api.HandleFunc("/catalog/kennzahlen", h.ListKennzahlen).Methods("GET")
	api.HandleFunc("/catalog/years", h.ListYears).Methods("GET")
	api.HandleFunc("/data", h.FilteredData).Methods("GET")
	api.HandleFunc("/data/grouped", h.GroupedData).Methods("GET")
	api.HandleFunc("/data/aggregated", h.AggregatedData).Methods("GET")
	api.HandleFunc("/data/dual", h.DualData).Methods("GET")
	api.HandleFunc("/filters/reset", h.ResetFilters).Methods("POST")
	api.HandleFunc("/share", h.ShareURL).Methods("GET")
	api.HandleFunc("/share/qr", h.ShareQR).Methods("GET")
	api.HandleFunc("/report", h.GenerateReport).Methods("POST")
}

// applyQuery routes request parameters through the URL synchronizer so
// the served view matches the requested one.
func (h *DashboardHandler) applyQuery(r *http.Request) {
	if len(r.URL.Query()) > 0 {
		h.urlRouter.ApplyQuery(r.URL.Query())
	}
}

// HealthCheck reports service liveness.
func (h *DashboardHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	SendJSONSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
}

// CacheMetrics returns the data cache performance snapshot.
func (h *DashboardHandler) CacheMetrics(w http.ResponseWriter, r *http.Request) {
	if h.dataCache == nil {
		SendJSONError(w, http.StatusNotFound, errors.New("cache disabled"), "")
		return
	}
	SendJSONSuccess(w, http.StatusOK, h.dataCache.GetMetricsSnapshot())
}

// ListUniversities returns the university catalog, optionally one type.
func (h *DashboardHandler) ListUniversities(w http.ResponseWriter, r *http.Request) {
	if t := r.URL.Query().Get("type"); t != "" {
		if !catalog.IsUniType(t) {
			SendJSONError(w, http.StatusBadRequest, errors.New("unknown university type"), t)
			return
		}
		SendJSONSuccess(w, http.StatusOK, catalog.UniversitiesByType(t))
		return
	}
	SendJSONSuccess(w, http.StatusOK, catalog.Universities)
}

// ListKennzahlen returns the Kennzahl catalog, optionally one category.
func (h *DashboardHandler) ListKennzahlen(w http.ResponseWriter, r *http.Request) {
	if c := r.URL.Query().Get("category"); c != "" {
		SendJSONSuccess(w, http.StatusOK, catalog.KennzahlenByCategory(c))
		return
	}
	SendJSONSuccess(w, http.StatusOK, catalog.Kennzahlen)
}

// ListYears returns the selectable reporting years.
func (h *DashboardHandler) ListYears(w http.ResponseWriter, r *http.Request) {
	SendJSONSuccess(w, http.StatusOK, catalog.AvailableYears())
}

// FilteredResponse bundles the filtered points with their stats.
type FilteredResponse struct {
	Filter model.FilterState `json:"filter"`
	Points []model.DataPoint `json:"points"`
	Stats  model.DataStats   `json:"stats"`
}

// FilteredData serves the filtered point set for the requested view.
func (h *DashboardHandler) FilteredData(w http.ResponseWriter, r *http.Request) {
	h.applyQuery(r)

	points, err := h.loader.LoadFiltered(r.Context())
	if err != nil {
		h.sendLoadError(w, err)
		return
	}

	stats, _ := h.store.Get(state.KeyDataStats).(model.DataStats)
	SendJSONSuccess(w, http.StatusOK, FilteredResponse{
		Filter: h.store.FilterState(),
		Points: points,
		Stats:  stats,
	})
}

// GroupedData serves the canonical per-university series.
func (h *DashboardHandler) GroupedData(w http.ResponseWriter, r *http.Request) {
	h.applyQuery(r)

	points, err := h.loader.LoadFiltered(r.Context())
	if err != nil {
		h.sendLoadError(w, err)
		return
	}
	SendJSONSuccess(w, http.StatusOK, dataloader.GroupByUniversity(points))
}

// AggregatedData serves per-year aggregates; agg selects sum, average
// or count (default sum).
func (h *DashboardHandler) AggregatedData(w http.ResponseWriter, r *http.Request) {
	mode := dataloader.AggregateMode(r.URL.Query().Get("agg"))
	switch mode {
	case dataloader.ModeSum, dataloader.ModeAverage, dataloader.ModeCount:
	case "":
		mode = dataloader.ModeSum
	default:
		SendJSONError(w, http.StatusBadRequest, errors.New("unknown aggregation mode"), string(mode))
		return
	}

	h.applyQuery(r)

	points, err := h.loader.LoadFiltered(r.Context())
	if err != nil {
		h.sendLoadError(w, err)
		return
	}
	SendJSONSuccess(w, http.StatusOK, dataloader.AggregateByYear(points, mode))
}

// DualResponse carries both filtered sets plus the derived views the
// dual visualizations consume.
type DualResponse struct {
	Primary     []model.DataPoint   `json:"primary"`
	Secondary   []model.DataPoint   `json:"secondary,omitempty"`
	Merged      []model.MergedPoint `json:"merged,omitempty"`
	Ratio       []model.RatioPoint  `json:"ratio,omitempty"`
	Correlation float64             `json:"correlation"`
}

// DualData serves the dual-metric combination for scatter, ratio and
// dual-axis views.
func (h *DashboardHandler) DualData(w http.ResponseWriter, r *http.Request) {
	h.applyQuery(r)

	result, err := h.loader.LoadDualFiltered(r.Context())
	if err != nil {
		h.sendLoadError(w, err)
		return
	}

	response := DualResponse{
		Primary:     result.Primary,
		Secondary:   result.Secondary,
		Merged:      result.Merged,
		Correlation: dataloader.Correlation(result.Merged),
	}
	if result.Secondary != nil {
		response.Ratio = dataloader.CalculateRatio(result.Primary, result.Secondary)
	}
	SendJSONSuccess(w, http.StatusOK, response)
}

// ResetFilters restores the default filter state.
func (h *DashboardHandler) ResetFilters(w http.ResponseWriter, r *http.Request) {
	h.store.ResetFilters()
	SendJSONSuccess(w, http.StatusOK, h.store.FilterState())
}

// ShareURL returns the shareable URL of the requested view.
func (h *DashboardHandler) ShareURL(w http.ResponseWriter, r *http.Request) {
	h.applyQuery(r)
	SendJSONSuccess(w, http.StatusOK, map[string]string{"url": h.urlRouter.ShareableURL()})
}

// ShareQR returns a QR code PNG encoding the shareable URL.
func (h *DashboardHandler) ShareQR(w http.ResponseWriter, r *http.Request) {
	h.applyQuery(r)

	png, err := qrcode.Encode(h.urlRouter.ShareableURL(), qrcode.Medium, 256)
	if err != nil {
		SendJSONError(w, http.StatusInternalServerError, err, "Failed to generate QR code")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// ReportResponse carries the generated narrative.
type ReportResponse struct {
	Template string `json:"template"`
	Content  string `json:"content"`
}

// GenerateReport builds the prompt for the requested view and asks the
// completion endpoint for a narrative.
func (h *DashboardHandler) GenerateReport(w http.ResponseWriter, r *http.Request) {
	if h.llm == nil || !h.llm.Configured() {
		SendJSONError(w, http.StatusServiceUnavailable, ErrLLMUnavailable, "")
		return
	}

	h.applyQuery(r)
	template := h.store.GetString(state.KeyReportTemplate)
	if t := r.URL.Query().Get("template"); t != "" {
		if !h.store.Set(state.KeyReportTemplate, t) {
			SendJSONError(w, http.StatusBadRequest, errors.New("unknown report template"), t)
			return
		}
		template = t
	}

	points, err := h.loader.LoadFiltered(r.Context())
	if err != nil {
		h.sendLoadError(w, err)
		return
	}

	stats, _ := h.store.Get(state.KeyDataStats).(model.DataStats)
	prompt := report.BuildPrompt(template, h.store.FilterState(), stats, dataloader.GroupByUniversity(points))

	content, err := h.llm.Complete(r.Context(), prompt)
	if err != nil {
		SendJSONError(w, http.StatusBadGateway, err, "Report generation failed")
		return
	}

	h.store.Set(state.KeyReportContent, content)
	SendJSONSuccess(w, http.StatusOK, ReportResponse{Template: template, Content: content})
}

// sendLoadError distinguishes the unknown-kennzahl programmer error
// from everything else; the fallback chain means other load errors are
// rare.
func (h *DashboardHandler) sendLoadError(w http.ResponseWriter, err error) {
	if errors.Is(err, dataloader.ErrUnknownKennzahl) {
		SendJSONError(w, http.StatusNotFound, err, "The selected kennzahl is not in the catalog")
		return
	}
	SendJSONError(w, http.StatusBadGateway, err, "Data could not be loaded")
}
