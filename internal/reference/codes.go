package reference

import (
	"slices"
	"strings"
)

// Code is one row of the pediatric ICD-10 diagnosis table.
type Code struct {
	Condition          string `json:"condition"`
	ICD10              string `json:"icd10"`
	IMCIClassification string `json:"imci_classification"`
	Category           string `json:"category"`
	Frequency          string `json:"frequency"`
	Treatment          string `json:"treatment"`
	Complications      string `json:"complications"`
}

var codes = []Code{
	{"Malaria", "B54", "Fever in malaria endemic area", "Infectious", "Very Common",
		"Artemether-lumefantrine", "Severe malaria, cerebral malaria"},
	{"Pneumonia", "J18.9", "Fast breathing pneumonia / Severe pneumonia", "Respiratory", "Very Common",
		"Amoxicillin (outpatient) / Ampicillin + Gentamicin (severe)", "Pleural effusion, sepsis"},
	{"Diarrhea (Infectious)", "A09", "Diarrhea / Diarrhea with dehydration", "Gastrointestinal", "Very Common",
		"ORS, zinc supplementation", "Severe dehydration, shock"},
	{"Dehydration", "E86.0", "Some dehydration / Severe dehydration", "Metabolic", "Common",
		"ORS / IV fluids", "Hypovolemic shock"},
	{"Urinary Tract Infection", "N39.0", "Possible serious bacterial infection", "Genitourinary", "Common",
		"Trimethoprim-sulfamethoxazole", "Pyelonephritis, urosepsis"},
	{"Malnutrition (Severe)", "E43", "Severe acute malnutrition", "Nutritional", "Common",
		"Therapeutic feeding, RUTF", "Kwashiorkor, marasmus"},
	{"Anemia", "D64.9", "Anemia", "Hematologic", "Very Common",
		"Iron supplementation", "Severe anemia, heart failure"},
	{"Sepsis", "A41.9", "Very severe disease", "Infectious", "Less Common",
		"IV antibiotics, supportive care", "Septic shock, organ failure"},
	{"Meningitis", "G03.9", "Very severe disease", "Neurologic", "Less Common",
		"IV ceftriaxone", "Brain damage, death"},
	{"Skin Infection", "L08.9", "Skin condition", "Dermatologic", "Common",
		"Topical/oral antibiotics", "Cellulitis, abscess"},
}

// Codes returns the full ICD-10 table.
func Codes() []Code {
	return slices.Clone(codes)
}

// LookupCode returns the row with the given ICD-10 code.
func LookupCode(icd10 string) (Code, bool) {
	for _, c := range codes {
		if strings.EqualFold(c.ICD10, strings.TrimSpace(icd10)) {
			return c, true
		}
	}
	return Code{}, false
}

// Categories returns the distinct categories in sorted order.
func Categories() []string {
	var out []string
	for _, c := range codes {
		if !slices.Contains(out, c.Category) {
			out = append(out, c.Category)
		}
	}
	slices.Sort(out)
	return out
}

// SearchCodes returns rows whose condition, code or IMCI classification
// contains q, ignoring case.
func SearchCodes(q string) []Code {
	return FilterCodes(q, "")
}

// FilterCodesByCategory returns rows in the given category, ignoring case.
func FilterCodesByCategory(category string) []Code {
	return FilterCodes("", category)
}

// FilterCodes combines a text query with a category filter. Empty
// arguments do not filter.
func FilterCodes(q, category string) []Code {
	var out []Code
	for _, c := range codes {
		if category != "" && !equalFold(c.Category, category) {
			continue
		}
		if !matches(q, c.Condition, c.ICD10, c.IMCIClassification) {
			continue
		}
		out = append(out, c)
	}
	return out
}
