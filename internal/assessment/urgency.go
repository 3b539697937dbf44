package assessment

import (
	"encoding/json"
	"fmt"

	"github.com/abhisek/imci/internal/reference"
)

// Urgency is how soon the child must be seen. Tiers are ordered.
type Urgency int

const (
	UrgencyRoutine Urgency = iota
	UrgencySameDay
	UrgencyUrgent
	UrgencyEmergency
)

// UrgencyFor maps an accumulated risk score to its tier using the fixed
// reference breakpoints.
func UrgencyFor(score float64) Urgency {
	switch {
	case score >= reference.EmergencyScore:
		return UrgencyEmergency
	case score >= reference.UrgentScore:
		return UrgencyUrgent
	case score >= reference.SameDayScore:
		return UrgencySameDay
	default:
		return UrgencyRoutine
	}
}

func (u Urgency) String() string {
	switch u {
	case UrgencyRoutine:
		return "routine"
	case UrgencySameDay:
		return "same-day"
	case UrgencyUrgent:
		return "urgent"
	case UrgencyEmergency:
		return "emergency"
	default:
		return fmt.Sprintf("urgency(%d)", int(u))
	}
}

func (u Urgency) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.String())
}

func (u *Urgency) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for c := UrgencyRoutine; c <= UrgencyEmergency; c++ {
		if c.String() == s {
			*u = c
			return nil
		}
	}
	return fmt.Errorf("unknown urgency: %q", s)
}
