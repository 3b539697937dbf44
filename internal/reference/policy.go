package reference

// Policy constants shared by every surface. Values that differed between
// screens of the old web client are settled here once.
const (
	// MUAC cutoffs in cm. Values below the severe cutoff indicate severe
	// acute malnutrition; below the moderate cutoff, moderate.
	MUACSevereCutoff   = 11.5
	MUACModerateCutoff = 12.5

	// MUAC screening applies to ages in [MUACMinAgeMonths, MUACMaxAgeMonths).
	MUACMinAgeMonths = 6
	MUACMaxAgeMonths = 60

	// Urgency breakpoints on the accumulated risk score (inclusive).
	EmergencyScore = 10
	UrgentScore    = 6
	SameDayScore   = 3

	// Danger-sign thresholds for caller-supplied vitals.
	HighFeverCelsius       = 38.5 // temperature >= is a danger sign
	HypoxiaSpO2            = 90   // SpO2 < is a danger sign
	SevereTachypneaPerMin  = 60   // respiratory rate > is a danger sign
	FeverCelsius           = 37.5 // temperature >= needs fever assessment
	YoungInfantMaxAgeMonth = 2
)

// MUACApplies reports whether MUAC cutoffs are used at the given age.
func MUACApplies(ageMonths float64) bool {
	return ageMonths >= MUACMinAgeMonths && ageMonths < MUACMaxAgeMonths
}

// FastBreathingCutoff returns the respiratory rate (breaths/min) at or above
// which a child of the given age has fast breathing. ok is false outside
// the IMCI age range.
func FastBreathingCutoff(ageMonths float64) (perMin int, ok bool) {
	switch {
	case ageMonths < 0:
		return 0, false
	case ageMonths < YoungInfantMaxAgeMonth:
		return 60, true
	case ageMonths < 12:
		return 50, true
	case ageMonths < 60:
		return 40, true
	default:
		return 0, false
	}
}
