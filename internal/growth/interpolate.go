package growth

import (
	"math"
	"sort"
)

// Interpolate returns the reference percentiles at ageMonths.
//
// Ages outside the curve are clamped to the nearest endpoint; there is no
// extrapolation. At a control age the control point is returned unchanged.
// The curve must be non-empty and sorted; an empty curve yields zero values.
// A NaN age is treated as the first control age.
func Interpolate(curve Curve, ageMonths float64) Percentiles {
	if len(curve) == 0 {
		return Percentiles{}
	}

	first, last := curve[0], curve[len(curve)-1]
	if math.IsNaN(ageMonths) || ageMonths <= first.AgeMonths {
		return first.Percentiles
	}
	if ageMonths >= last.AgeMonths {
		return last.Percentiles
	}

	// Index of the first point strictly after ageMonths; 1 <= hi < len.
	hi := sort.Search(len(curve), func(i int) bool {
		return curve[i].AgeMonths > ageMonths
	})
	hi = min(max(hi, 1), len(curve)-1)
	lo := curve[hi-1]
	up := curve[hi]

	if lo.AgeMonths == ageMonths {
		return lo.Percentiles
	}
	span := up.AgeMonths - lo.AgeMonths
	if span == 0 {
		return lo.Percentiles
	}

	ratio := (ageMonths - lo.AgeMonths) / span
	return Percentiles{
		P3:  lerp(lo.P3, up.P3, ratio),
		P15: lerp(lo.P15, up.P15, ratio),
		P50: lerp(lo.P50, up.P50, ratio),
		P85: lerp(lo.P85, up.P85, ratio),
		P97: lerp(lo.P97, up.P97, ratio),
	}
}

func lerp(a, b, ratio float64) float64 {
	return a + (b-a)*ratio
}
