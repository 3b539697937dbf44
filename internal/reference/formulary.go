package reference

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

// Dose is a calculated dose for one child.
type Dose struct {
	Medication  string  `json:"medication"`
	Amount      float64 `json:"amount"`
	Unit        string  `json:"unit"`
	DosesPerDay int     `json:"doses_per_day,omitempty"`
	Daily       float64 `json:"daily,omitempty"`
	Text        string  `json:"text"`
}

// DoseError is returned when a child falls outside a medication's dosing
// range or a required input is missing.
type DoseError struct {
	Medication string
	Reason     string
}

func (e *DoseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Medication, e.Reason)
}

// DoseRule computes a dose from the child's weight and age.
type DoseRule interface {
	Calculate(name string, weightKg, ageMonths float64) (Dose, error)
}

// PerKgDaily is a daily mg/kg total divided into equal doses.
type PerKgDaily struct {
	MgPerKgDay  float64
	DosesPerDay int
	Component   string // e.g. "TMP" for a combination product
}

func (r PerKgDaily) Calculate(name string, weightKg, _ float64) (Dose, error) {
	if err := requireWeight(name, weightKg); err != nil {
		return Dose{}, err
	}
	daily := weightKg * r.MgPerKgDay
	per := daily / float64(r.DosesPerDay)
	unit := "mg"
	if r.Component != "" {
		unit = "mg " + r.Component
	}
	return Dose{
		Medication:  name,
		Amount:      math.Round(per),
		Unit:        unit,
		DosesPerDay: r.DosesPerDay,
		Daily:       math.Round(daily),
		Text:        fmt.Sprintf("%.0f%s per dose (%.0fmg/day total)", math.Round(per), unit, math.Round(daily)),
	}, nil
}

// PerKgDose is a fixed mg/kg amount given DosesPerDay times.
type PerKgDose struct {
	MgPerKg     float64
	DosesPerDay int
}

func (r PerKgDose) Calculate(name string, weightKg, _ float64) (Dose, error) {
	if err := requireWeight(name, weightKg); err != nil {
		return Dose{}, err
	}
	per := weightKg * r.MgPerKg
	daily := per * float64(r.DosesPerDay)
	return Dose{
		Medication:  name,
		Amount:      math.Round(per*10) / 10,
		Unit:        "mg",
		DosesPerDay: r.DosesPerDay,
		Daily:       math.Round(daily*10) / 10,
		Text:        fmt.Sprintf("%.1fmg per dose, %d times daily", per, r.DosesPerDay),
	}, nil
}

// WeightBand maps [MinKg, MaxKg) to a fixed amount.
type WeightBand struct {
	MinKg  float64
	MaxKg  float64
	Amount float64
}

// WeightBanded picks a fixed amount by weight band.
type WeightBanded struct {
	Bands       []WeightBand
	Unit        string
	DosesPerDay int
}

func (r WeightBanded) Calculate(name string, weightKg, _ float64) (Dose, error) {
	if err := requireWeight(name, weightKg); err != nil {
		return Dose{}, err
	}
	for _, b := range r.Bands {
		if weightKg >= b.MinKg && weightKg < b.MaxKg {
			return Dose{
				Medication:  name,
				Amount:      b.Amount,
				Unit:        r.Unit,
				DosesPerDay: r.DosesPerDay,
				Daily:       b.Amount * float64(r.DosesPerDay),
				Text:        fmt.Sprintf("%g %s per dose, %d times daily", b.Amount, r.Unit, r.DosesPerDay),
			}, nil
		}
	}
	return Dose{}, &DoseError{Medication: name, Reason: fmt.Sprintf("no weight band for %.1f kg", weightKg)}
}

// VolumePerKg is a fluid volume given over a period.
type VolumePerKg struct {
	MlPerKg float64
	Over    string
}

func (r VolumePerKg) Calculate(name string, weightKg, _ float64) (Dose, error) {
	if err := requireWeight(name, weightKg); err != nil {
		return Dose{}, err
	}
	ml := math.Round(weightKg * r.MlPerKg)
	return Dose{
		Medication: name,
		Amount:     ml,
		Unit:       "ml",
		Text:       fmt.Sprintf("%.0fml over %s", ml, r.Over),
	}, nil
}

// AgeBand maps [MinMonths, MaxMonths) to a fixed amount.
type AgeBand struct {
	MinMonths float64
	MaxMonths float64
	Amount    float64
}

// AgeBanded picks a fixed daily amount by age band.
type AgeBanded struct {
	Bands []AgeBand
	Unit  string
}

func (r AgeBanded) Calculate(name string, _, ageMonths float64) (Dose, error) {
	if ageMonths < 0 {
		return Dose{}, &DoseError{Medication: name, Reason: "age is required"}
	}
	for _, b := range r.Bands {
		if ageMonths >= b.MinMonths && ageMonths < b.MaxMonths {
			return Dose{
				Medication:  name,
				Amount:      b.Amount,
				Unit:        r.Unit,
				DosesPerDay: 1,
				Daily:       b.Amount,
				Text:        fmt.Sprintf("%g%s once daily", b.Amount, r.Unit),
			}, nil
		}
	}
	return Dose{}, &DoseError{Medication: name, Reason: fmt.Sprintf("no age band for %.0f months", ageMonths)}
}

func requireWeight(name string, weightKg float64) error {
	if weightKg <= 0 || math.IsNaN(weightKg) {
		return &DoseError{Medication: name, Reason: "weight must be positive"}
	}
	return nil
}

// Medication is one formulary entry.
type Medication struct {
	Name      string   `json:"name"`
	Dose      string   `json:"dose"`
	Route     string   `json:"route"`
	Frequency string   `json:"frequency"`
	Duration  string   `json:"duration"`
	Forms     []string `json:"forms"`
	Notes     string   `json:"notes"`
	Rule      DoseRule `json:"-"`
}

// Calculate computes this medication's dose for a child.
func (m Medication) Calculate(weightKg, ageMonths float64) (Dose, error) {
	if m.Rule == nil {
		return Dose{}, &DoseError{Medication: m.Name, Reason: "see dosing guidelines for specific calculation"}
	}
	return m.Rule.Calculate(m.Name, weightKg, ageMonths)
}

// Regimen is the standard treatment for a condition, with an optional
// escalation for severe presentations.
type Regimen struct {
	Key         string       `json:"key"`
	Condition   string       `json:"condition"`
	Medications []Medication `json:"medications"`
	Severe      []Medication `json:"severe,omitempty"`
}

var formulary = []Regimen{
	{
		Key:       "pneumonia",
		Condition: "Pneumonia (non-severe)",
		Medications: []Medication{{
			Name: "Amoxicillin (oral)", Dose: "25-50 mg/kg/day", Route: "PO", Frequency: "BID", Duration: "5 days",
			Forms: []string{"125mg/5ml suspension", "250mg capsules"},
			Notes: "First-line treatment for fast breathing pneumonia",
			Rule:  PerKgDaily{MgPerKgDay: 40, DosesPerDay: 2},
		}},
		Severe: []Medication{
			{
				Name: "Ampicillin", Dose: "50mg/kg QID", Route: "IV/IM", Frequency: "QID", Duration: "Until improvement, then oral",
				Forms: []string{"Injectable"},
				Notes: "For severe pneumonia with danger signs, given with gentamicin",
				Rule:  PerKgDose{MgPerKg: 50, DosesPerDay: 4},
			},
			{
				Name: "Gentamicin", Dose: "7.5mg/kg daily", Route: "IV/IM", Frequency: "Daily", Duration: "Until improvement, then oral",
				Forms: []string{"Injectable"},
				Notes: "For severe pneumonia with danger signs, given with ampicillin",
				Rule:  PerKgDose{MgPerKg: 7.5, DosesPerDay: 1},
			},
		},
	},
	{
		Key:       "malaria",
		Condition: "Uncomplicated Malaria",
		Medications: []Medication{{
			Name: "Artemether-Lumefantrine", Dose: "Based on weight bands", Route: "PO", Frequency: "BID", Duration: "3 days",
			Forms: []string{"20/120mg tablets"},
			Notes: "Weight-based dosing: 5-15kg (1 tab), 15-25kg (2 tabs), 25-35kg (3 tabs)",
			Rule: WeightBanded{Unit: "tab", DosesPerDay: 2, Bands: []WeightBand{
				{MinKg: 5, MaxKg: 15, Amount: 1},
				{MinKg: 15, MaxKg: 25, Amount: 2},
				{MinKg: 25, MaxKg: 35, Amount: 3},
			}},
		}},
	},
	{
		Key:       "diarrhea",
		Condition: "Diarrhea with Some Dehydration",
		Medications: []Medication{
			{
				Name: "ORS Solution", Dose: "75ml/kg over 4 hours", Route: "PO", Frequency: "Frequent small amounts", Duration: "Until rehydrated",
				Forms: []string{"ORS sachets"},
				Notes: "Continue breastfeeding, give additional ORS for ongoing losses",
				Rule:  VolumePerKg{MlPerKg: 75, Over: "4 hours"},
			},
			{
				Name: "Zinc Sulfate", Dose: "10mg (6-59mo) or 20mg (≥5years)", Route: "PO", Frequency: "Daily", Duration: "10-14 days",
				Forms: []string{"10mg tablets", "20mg tablets"},
				Notes: "Reduces duration and severity of diarrhea",
				Rule: AgeBanded{Unit: "mg", Bands: []AgeBand{
					{MinMonths: 0, MaxMonths: 60, Amount: 10},
					{MinMonths: 60, MaxMonths: math.Inf(1), Amount: 20},
				}},
			},
		},
	},
	{
		Key:       "uti",
		Condition: "Urinary Tract Infection",
		Medications: []Medication{{
			Name: "Trimethoprim-Sulfamethoxazole", Dose: "8mg/kg/day (TMP component)", Route: "PO", Frequency: "BID", Duration: "5-7 days",
			Forms: []string{"40/200mg tablets", "8/40mg per ml suspension"},
			Notes: "First-line for uncomplicated UTI",
			Rule:  PerKgDaily{MgPerKgDay: 8, DosesPerDay: 2, Component: "TMP"},
		}},
	},
}

// Formulary returns every regimen in display order.
func Formulary() []Regimen {
	return slices.Clone(formulary)
}

// LookupRegimen returns the regimen with the given key, ignoring case.
func LookupRegimen(key string) (Regimen, bool) {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, r := range formulary {
		if r.Key == key {
			return r, true
		}
	}
	return Regimen{}, false
}

// RegimenKeys returns the keys of every regimen.
func RegimenKeys() []string {
	keys := make([]string, len(formulary))
	for i, r := range formulary {
		keys[i] = r.Key
	}
	return keys
}

// CalculatedRegimen pairs a regimen with doses computed for one child.
// Errors for individual medications are reported per entry.
type CalculatedRegimen struct {
	Regimen Regimen        `json:"regimen"`
	Doses   []DoseOrReason `json:"doses"`
}

// DoseOrReason is a calculated dose, or why none could be given.
type DoseOrReason struct {
	Medication string `json:"medication"`
	Severe     bool   `json:"severe,omitempty"`
	Dose       *Dose  `json:"dose,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

// CalculateRegimen computes doses for every medication in the regimen,
// including the severe escalation.
func CalculateRegimen(r Regimen, weightKg, ageMonths float64) CalculatedRegimen {
	out := CalculatedRegimen{Regimen: r}
	add := func(m Medication, severe bool) {
		entry := DoseOrReason{Medication: m.Name, Severe: severe}
		d, err := m.Calculate(weightKg, ageMonths)
		if err != nil {
			entry.Reason = err.Error()
		} else {
			entry.Dose = &d
		}
		out.Doses = append(out.Doses, entry)
	}
	for _, m := range r.Medications {
		add(m, false)
	}
	for _, m := range r.Severe {
		add(m, true)
	}
	return out
}
