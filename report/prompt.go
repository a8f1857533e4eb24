package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/DigitalHumanitiesCraft/vetmed-wissensbilanz/catalog"
	"github.com/DigitalHumanitiesCraft/vetmed-wissensbilanz/dataloader"
	"github.com/DigitalHumanitiesCraft/vetmed-wissensbilanz/model"
)

// templateIntros map report templates to their framing instruction.
var templateIntros = map[string]string{
	"summary":    "Fasse die wichtigsten Befunde kompakt zusammen.",
	"comparison": "Vergleiche die ausgewählten Universitäten miteinander.",
	"trend":      "Beschreibe die zeitliche Entwicklung und auffällige Trends.",
	"anomaly":    "Identifiziere Ausreißer und ungewöhnliche Werte.",
}

// BuildPrompt renders the narrative-report prompt from the current
// filter scope, stats and grouped data.
func BuildPrompt(template string, fs model.FilterState, stats model.DataStats, grouped map[string]*dataloader.GroupedSeries) string {
	var b strings.Builder

	b.WriteString("Du bist Analyst für österreichische Universitätskennzahlen (Wissensbilanz).\n")
	if intro, ok := templateIntros[template]; ok {
		b.WriteString(intro)
		b.WriteString("\n\n")
	}

	unit := ""
	if k, ok := catalog.KennzahlByCode(fs.Kennzahl); ok {
		fmt.Fprintf(&b, "Kennzahl: %s (%s, Einheit: %s)\n", k.Name, k.Code, k.Unit)
		unit = k.Unit
	}
	fmt.Fprintf(&b, "Zeitraum: %d-%d\n", fs.YearRange.Start, fs.YearRange.End)
	fmt.Fprintf(&b, "Datenpunkte: %d, Mittelwert: %s, Trend: %.1f%%\n\n",
		stats.TotalPoints, catalog.FormatValue(model.Float(stats.Average), unit), stats.Trend)

	// Stable ordering so the same state always yields the same prompt.
	codes := make([]string, 0, len(grouped))
	for code := range grouped {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	for _, code := range codes {
		group := grouped[code]
		name := code
		if group.University != nil {
			name = group.University.ShortName
		}
		fmt.Fprintf(&b, "%s:", name)
		for _, yv := range group.Data {
			fmt.Fprintf(&b, " %d=%s", yv.Year, catalog.FormatValue(yv.Value, unit))
		}
		b.WriteString("\n")
	}

	b.WriteString("\nVerfasse den Bericht auf Deutsch in Markdown.")
	return b.String()
}
