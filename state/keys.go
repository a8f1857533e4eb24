package state

import (
	"errors"
	"fmt"

	"github.com/DigitalHumanitiesCraft/vetmed-wissensbilanz/catalog"
	"github.com/DigitalHumanitiesCraft/vetmed-wissensbilanz/model"
)

// Key names one slot of the application state. The key set is fixed;
// Get on an unknown key returns nil rather than failing.
type Key string

const (
	// Filter state
	KeySelectedUniversities Key = "selectedUniversities"
	KeySelectedUniTypes     Key = "selectedUniTypes"
	KeyYearRange            Key = "yearRange"
	KeySelectedKennzahl     Key = "selectedKennzahl"

	// Dual mode
	KeySecondaryKennzahl Key = "secondaryKennzahl"
	KeyDualMode          Key = "dualMode"
	KeyCombinationType   Key = "combinationType"

	// UI state
	KeyActivePage  Key = "activePage"
	KeyActiveTab   Key = "activeTab"
	KeySidebarOpen Key = "sidebarOpen"
	KeyIsLoading   Key = "isLoading"

	// Data state
	KeyCurrentData  Key = "currentData"
	KeyFilteredData Key = "filteredData"
	KeyDataStats    Key = "dataStats"

	// Report state
	KeyReportTemplate Key = "reportTemplate"
	KeyReportContent  Key = "reportContent"
	KeyReportSources  Key = "reportSources"

	// Visualization state
	KeyVizType    Key = "vizType"
	KeyVizOptions Key = "vizOptions"

	// Tutorial state
	KeyTutorialMode    Key = "tutorialMode"
	KeyTutorialSection Key = "tutorialSection"
	KeyViewedLearnings Key = "viewedLearnings"
)

// Enumerated values for validated UI keys.
var (
	Pages            = []string{"dashboard", "promptotyping", "about"}
	Tabs             = []string{"chart", "table", "report"}
	VizTypes         = []string{"line", "smallMultiples", "heatmap", "ranking"}
	CombinationTypes = []string{"dualAxis", "ratio", "scatter"}
	ReportTemplates  = []string{"summary", "comparison", "trend", "anomaly"}
	TutorialSections = []string{"filters", "viz", "reports"}
)

// Filter defaults. A URL omits a parameter whose value matches these.
var (
	DefaultUniversities = []string{"UI"}
	DefaultKennzahl     = "1-A-1"
	DefaultYearRange    = model.YearRange{Start: 2021, End: 2024}
	DefaultPage         = "dashboard"
	DefaultTab          = "chart"
	DefaultVizType      = "line"
)

var (
	ErrNotStringList  = errors.New("value must be a string list")
	ErrNotBool        = errors.New("value must be a boolean")
	ErrInvalidRange   = errors.New("year range must satisfy start <= end within valid bounds")
	ErrUnknownCode    = errors.New("value is not a known catalog code")
	ErrNotEnumMember  = errors.New("value is not in the allowed set")
)

// Validator checks a candidate value for one key. A non-nil error
// rejects the write.
type Validator func(value interface{}) error

func stringListValidator(value interface{}) error {
	if _, ok := value.([]string); !ok {
		return ErrNotStringList
	}
	return nil
}

func boolValidator(value interface{}) error {
	if _, ok := value.(bool); !ok {
		return ErrNotBool
	}
	return nil
}

func yearRangeValidator(value interface{}) error {
	r, ok := value.(model.YearRange)
	if !ok {
		return ErrInvalidRange
	}
	if r.Start > r.End || r.Start < catalog.MinYear || r.End > catalog.MaxYear {
		return fmt.Errorf("%w: %d-%d", ErrInvalidRange, r.Start, r.End)
	}
	return nil
}

func kennzahlValidator(value interface{}) error {
	code, ok := value.(string)
	if !ok || code == "" || !catalog.IsKennzahlCode(code) {
		return fmt.Errorf("%w: %v", ErrUnknownCode, value)
	}
	return nil
}

// secondaryKennzahlValidator also accepts the empty string, which
// means "dual mode off".
func secondaryKennzahlValidator(value interface{}) error {
	code, ok := value.(string)
	if !ok {
		return fmt.Errorf("%w: %v", ErrUnknownCode, value)
	}
	if code == "" {
		return nil
	}
	if !catalog.IsKennzahlCode(code) {
		return fmt.Errorf("%w: %q", ErrUnknownCode, code)
	}
	return nil
}

func enumValidator(allowed []string, allowEmpty bool) Validator {
	return func(value interface{}) error {
		s, ok := value.(string)
		if !ok {
			return ErrNotEnumMember
		}
		if s == "" && allowEmpty {
			return nil
		}
		for _, a := range allowed {
			if s == a {
				return nil
			}
		}
		return fmt.Errorf("%w: %q", ErrNotEnumMember, s)
	}
}

// validators maps each validated key to its check. Keys absent here
// accept any value.
func defaultValidators() map[Key]Validator {
	return map[Key]Validator{
		KeySelectedUniversities: stringListValidator,
		KeySelectedUniTypes:     stringListValidator,
		KeyYearRange:            yearRangeValidator,
		KeySelectedKennzahl:     kennzahlValidator,
		KeySecondaryKennzahl:    secondaryKennzahlValidator,
		KeyDualMode:             boolValidator,
		KeyCombinationType:      enumValidator(CombinationTypes, true),
		KeyActivePage:           enumValidator(Pages, false),
		KeyActiveTab:            enumValidator(Tabs, false),
		KeyVizType:              enumValidator(VizTypes, false),
		KeySidebarOpen:          boolValidator,
		KeyIsLoading:            boolValidator,
		KeyTutorialMode:         boolValidator,
		KeyTutorialSection:      enumValidator(TutorialSections, true),
		KeyReportTemplate:       enumValidator(ReportTemplates, false),
		KeyViewedLearnings:      stringListValidator,
	}
}

// defaultState returns the initial value of every key.
func defaultState() map[Key]interface{} {
	return map[Key]interface{}{
		KeySelectedUniversities: append([]string(nil), DefaultUniversities...),
		KeySelectedUniTypes:     []string{},
		KeyYearRange:            DefaultYearRange,
		KeySelectedKennzahl:     DefaultKennzahl,

		KeySecondaryKennzahl: "",
		KeyDualMode:          false,
		KeyCombinationType:   "",

		KeyActivePage:  DefaultPage,
		KeyActiveTab:   DefaultTab,
		KeySidebarOpen: true,
		KeyIsLoading:   false,

		KeyCurrentData:  nil,
		KeyFilteredData: nil,
		KeyDataStats:    model.DataStats{},

		KeyReportTemplate: "comparison",
		KeyReportContent:  "",
		KeyReportSources:  []string{},

		KeyVizType:    DefaultVizType,
		KeyVizOptions: model.VizOptions{ShowAverage: false, RankingYear: 2024},

		KeyTutorialMode:    false,
		KeyTutorialSection: "",
		KeyViewedLearnings: []string{},
	}
}
