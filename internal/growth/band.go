package growth

import (
	"encoding/json"
	"fmt"
)

// Band is a named interval between two reference percentiles.
// Bands are ordered; a higher ordinal means a larger measured value.
type Band int

const (
	BandBelowP3  Band = iota // value < p3
	BandP3ToP15              // p3 <= value < p15
	BandP15ToP50             // p15 <= value < p50
	BandP50ToP85             // p50 <= value < p85
	BandP85ToP97             // p85 <= value < p97
	BandAboveP97             // value >= p97
)

// ClassifyPercentile places value into a band of the given percentile set.
// Intervals are half-open; a value equal to a boundary belongs to the
// higher band.
func ClassifyPercentile(value float64, p Percentiles) Band {
	switch {
	case value < p.P3:
		return BandBelowP3
	case value < p.P15:
		return BandP3ToP15
	case value < p.P50:
		return BandP15ToP50
	case value < p.P85:
		return BandP50ToP85
	case value < p.P97:
		return BandP85ToP97
	default:
		return BandAboveP97
	}
}

// String returns the machine name of the band.
func (b Band) String() string {
	switch b {
	case BandBelowP3:
		return "below-p3"
	case BandP3ToP15:
		return "p3-p15"
	case BandP15ToP50:
		return "p15-p50"
	case BandP50ToP85:
		return "p50-p85"
	case BandP85ToP97:
		return "p85-p97"
	case BandAboveP97:
		return "above-p97"
	default:
		return fmt.Sprintf("band(%d)", int(b))
	}
}

// Label returns the percentile range the way growth charts print it.
func (b Band) Label() string {
	switch b {
	case BandBelowP3:
		return "<3rd"
	case BandP3ToP15:
		return "3rd-15th"
	case BandP15ToP50:
		return "15th-50th"
	case BandP50ToP85:
		return "50th-85th"
	case BandP85ToP97:
		return "85th-97th"
	case BandAboveP97:
		return ">97th"
	default:
		return "?"
	}
}

func (b Band) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.String())
}

func (b *Band) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for c := BandBelowP3; c <= BandAboveP97; c++ {
		if c.String() == s {
			*b = c
			return nil
		}
	}
	return fmt.Errorf("unknown percentile band: %q", s)
}
