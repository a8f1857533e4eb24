// Package catalog holds the static Wissensbilanz metadata: the 22
// Austrian public universities and the 21 indicator definitions
// (Kennzahlen) from the Wissensbilanz-Verordnung. The catalog is the
// single source of truth for code lookup and never changes at runtime.
package catalog

// University types.
const (
	TypeVoll    = "voll"    // Volluniversitäten
	TypeTech    = "tech"    // Technische Universitäten
	TypeMed     = "med"     // Medizinische Universitäten
	TypeKunst   = "kunst"   // Kunst-Universitäten
	TypeWeiterb = "weiterb" // Weiterbildungsuniversität
)

// Kennzahl categories.
const (
	CategoryPersonal    = "personal"
	CategoryStudierende = "studierende"
	CategoryForschung   = "forschung"
	CategoryFinanzen    = "finanzen"
)

// Valid year bounds for filter ranges. Data currently covers 2019-2023
// but the upper bound leaves headroom for future reporting years.
const (
	MinYear = 2019
	MaxYear = 2030
)

// AvailableYears lists every selectable reporting year in ascending
// order.
func AvailableYears() []int {
	years := make([]int, 0, MaxYear-MinYear+1)
	for y := MinYear; y <= MaxYear; y++ {
		years = append(years, y)
	}
	return years
}

// University is one catalog entry, keyed by its UniData code.
type University struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	ShortName string `json:"shortName"`
	Type      string `json:"type"`
}

// Kennzahl is one indicator definition. Filename names the JSON data
// file it is loaded from.
type Kennzahl struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Unit        string `json:"unit"`
	Description string `json:"description"`
	Filename    string `json:"filename"`
}

// Universities lists all 22 universities. Code schema follows the
// UniData Excel export (UI is VetMed Wien, not Innsbruck).
var Universities = []University{
	{Code: "UW", Name: "Universität Wien", ShortName: "Uni Wien", Type: TypeVoll},
	{Code: "UG", Name: "Universität Graz", ShortName: "Uni Graz", Type: TypeVoll},
	{Code: "UI", Name: "Universität für Veterinärmedizin Wien", ShortName: "VetMed", Type: TypeMed},
	{Code: "US", Name: "Universität Salzburg", ShortName: "Uni Salzburg", Type: TypeVoll},
	{Code: "UL", Name: "Universität Linz", ShortName: "JKU Linz", Type: TypeVoll},
	{Code: "UK", Name: "Universität Klagenfurt", ShortName: "AAU", Type: TypeVoll},

	{Code: "TU", Name: "TU Wien", ShortName: "TU Wien", Type: TypeTech},
	{Code: "TG", Name: "TU Graz", ShortName: "TU Graz", Type: TypeTech},
	{Code: "MB", Name: "Montanuniversität Leoben", ShortName: "MU Leoben", Type: TypeTech},

	{Code: "MW", Name: "Medizinische Universität Wien", ShortName: "Med Uni Wien", Type: TypeMed},
	{Code: "MG", Name: "Medizinische Universität Graz", ShortName: "Med Uni Graz", Type: TypeMed},
	{Code: "MK", Name: "Medizinische Universität Innsbruck", ShortName: "Med Uni IBK", Type: TypeMed},

	{Code: "AW", Name: "Akademie der bildenden Künste Wien", ShortName: "Akademie Wien", Type: TypeKunst},
	{Code: "AN", Name: "Universität für angewandte Kunst Wien", ShortName: "Angewandte", Type: TypeKunst},
	{Code: "MO", Name: "Universität für Musik und darstellende Kunst Wien", ShortName: "MDW", Type: TypeKunst},
	{Code: "MS", Name: "Universität Mozarteum Salzburg", ShortName: "Mozarteum", Type: TypeKunst},
	{Code: "KG", Name: "Universität für Musik und darstellende Kunst Graz", ShortName: "KUG", Type: TypeKunst},
	{Code: "KL", Name: "Kunstuniversität Linz", ShortName: "Kunst Uni Linz", Type: TypeKunst},
	{Code: "FI", Name: "Filmakademie Wien", ShortName: "Filmakademie", Type: TypeKunst},

	{Code: "BO", Name: "Universität für Bodenkultur Wien", ShortName: "BOKU", Type: TypeVoll},
	{Code: "WU", Name: "Wirtschaftsuniversität Wien", ShortName: "WU Wien", Type: TypeVoll},

	{Code: "DK", Name: "Universität für Weiterbildung Krems", ShortName: "Donau-Uni", Type: TypeWeiterb},
}

// Kennzahlen lists all 21 indicators.
var Kennzahlen = []Kennzahl{
	{Code: "1-A-1", Name: "Personal - Köpfe", Category: CategoryPersonal, Unit: "Köpfe", Description: "Gesamtpersonal nach Köpfen", Filename: "1-A-1_Personal_Koepfe.json"},
	{Code: "1-A-2", Name: "Personal - VZÄ", Category: CategoryPersonal, Unit: "VZÄ", Description: "Vollzeitäquivalente des Personals", Filename: "1-A-2_Personal_VZÄ.json"},
	{Code: "1-B-1", Name: "Berufungen", Category: CategoryPersonal, Unit: "Anzahl", Description: "Anzahl der Berufungen auf Professuren", Filename: "1-B-1_Berufungen.json"},
	{Code: "1-B-2", Name: "Frauenquote Professuren", Category: CategoryPersonal, Unit: "%", Description: "Frauenanteil bei Professuren", Filename: "1-B-2_Frauenquote.json"},

	{Code: "2-A-1", Name: "Studien - Begonnene", Category: CategoryStudierende, Unit: "Anzahl", Description: "Anzahl begonnener Studien", Filename: "2-A-1_Begonnene_Studien.json"},
	{Code: "2-A-2", Name: "Studierende insgesamt", Category: CategoryStudierende, Unit: "Köpfe", Description: "Gesamtzahl der Studierenden", Filename: "2-A-2_Studierende.json"},
	{Code: "2-A-3", Name: "Studienabschlüsse", Category: CategoryStudierende, Unit: "Anzahl", Description: "Anzahl der Studienabschlüsse", Filename: "2-A-3_Abschluesse.json"},
	{Code: "2-A-4", Name: "Studiendauer", Category: CategoryStudierende, Unit: "Semester", Description: "Durchschnittliche Studiendauer", Filename: "2-A-4_Studiendauer.json"},
	{Code: "2-A-5", Name: "Erfolgsquote", Category: CategoryStudierende, Unit: "%", Description: "Erfolgsquote ordentlicher Studien", Filename: "2-A-5_Erfolgsquote.json"},
	{Code: "2-A-6", Name: "Doktoratsabschlüsse", Category: CategoryStudierende, Unit: "Anzahl", Description: "Anzahl der Doktoratsabschlüsse", Filename: "2-A-6_Doktorate.json"},
	{Code: "2-A-8", Name: "Mobilitätsprogramme (Outgoing)", Category: CategoryStudierende, Unit: "Anzahl", Description: "Outgoing-Studierende in Mobilitätsprogrammen", Filename: "2-A-8_Mobilitaet_Out.json"},
	{Code: "2-A-9", Name: "Mobilitätsprogramme (Incoming)", Category: CategoryStudierende, Unit: "Anzahl", Description: "Incoming-Studierende in Mobilitätsprogrammen", Filename: "2-A-9_Mobilitaet_In.json"},

	{Code: "3-A-1", Name: "Publikationen", Category: CategoryForschung, Unit: "Anzahl", Description: "Anzahl wissenschaftlicher Publikationen", Filename: "3-A-1_Publikationen.json"},
	{Code: "3-A-2", Name: "Vorträge und Poster", Category: CategoryForschung, Unit: "Anzahl", Description: "Wissenschaftliche Vorträge und Posterpräsentationen", Filename: "3-A-2_Vortraege.json"},
	{Code: "3-B-1", Name: "Erlöse Forschungsprojekte", Category: CategoryForschung, Unit: "€", Description: "Erlöse aus F&E-Projekten", Filename: "3-B-1_FE_Erloese.json"},
	{Code: "3-B-2", Name: "Doktoratsstudierende (Betreuungsverhältnisse)", Category: CategoryForschung, Unit: "Anzahl", Description: "Betreuungsverhältnisse bei Doktoratsstudien", Filename: "3-B-2_Doktorat_Betreuung.json"},

	{Code: "4-A-1", Name: "Erlöse gesamt", Category: CategoryFinanzen, Unit: "€", Description: "Gesamterlöse der Universität", Filename: "4-A-1_Erloese_Gesamt.json"},
	{Code: "4-A-2", Name: "Drittmittelerlöse", Category: CategoryFinanzen, Unit: "€", Description: "Erlöse aus Drittmitteln", Filename: "4-A-2_Drittmittel.json"},
	{Code: "4-A-3", Name: "Investitionen", Category: CategoryFinanzen, Unit: "€", Description: "Investitionsausgaben", Filename: "4-A-3_Investitionen.json"},
	{Code: "4-A-4", Name: "Erlöse je Professur", Category: CategoryFinanzen, Unit: "€", Description: "Erlöse pro Professur", Filename: "4-A-4_Erloese_Prof.json"},
	{Code: "4-A-5", Name: "Erlöse je wissenschaftl. Personal", Category: CategoryFinanzen, Unit: "€", Description: "Erlöse pro wissenschaftlichem Personal", Filename: "4-A-5_Erloese_Wiss.json"},
}

var (
	uniByCode      = make(map[string]*University, len(Universities))
	kennzahlByCode = make(map[string]*Kennzahl, len(Kennzahlen))
)

func init() {
	for i := range Universities {
		uniByCode[Universities[i].Code] = &Universities[i]
	}
	for i := range Kennzahlen {
		kennzahlByCode[Kennzahlen[i].Code] = &Kennzahlen[i]
	}
}

// UniversityByCode looks up a university by its code.
// Returns (nil, false) for unknown codes.
func UniversityByCode(code string) (*University, bool) {
	u, ok := uniByCode[code]
	return u, ok
}

// KennzahlByCode looks up a Kennzahl by its code.
// Returns (nil, false) for unknown codes.
func KennzahlByCode(code string) (*Kennzahl, bool) {
	k, ok := kennzahlByCode[code]
	return k, ok
}

// IsUniversityCode reports whether code names a catalog university.
func IsUniversityCode(code string) bool {
	_, ok := uniByCode[code]
	return ok
}

// IsKennzahlCode reports whether code names a catalog Kennzahl.
func IsKennzahlCode(code string) bool {
	_, ok := kennzahlByCode[code]
	return ok
}

// IsUniType reports whether t is a known university type.
func IsUniType(t string) bool {
	switch t {
	case TypeVoll, TypeTech, TypeMed, TypeKunst, TypeWeiterb:
		return true
	}
	return false
}

// UniversitiesByType returns the universities of one type, in catalog order.
func UniversitiesByType(t string) []University {
	var out []University
	for _, u := range Universities {
		if u.Type == t {
			out = append(out, u)
		}
	}
	return out
}

// KennzahlenByCategory returns the Kennzahlen of one category, in catalog order.
func KennzahlenByCategory(category string) []Kennzahl {
	var out []Kennzahl
	for _, k := range Kennzahlen {
		if k.Category == category {
			out = append(out, k)
		}
	}
	return out
}
