package reference

import (
	"slices"

	"github.com/abhisek/imci/internal/growth"
)

func cp(age, p3, p15, p50, p85, p97 float64) growth.ControlPoint {
	return growth.ControlPoint{
		AgeMonths:   age,
		Percentiles: growth.Percentiles{P3: p3, P15: p15, P50: p50, P85: p85, P97: p97},
	}
}

// WHO child growth standard control points, 0-60 months.
var curves = growth.CurveSet{
	growth.KindWeight: {
		cp(0, 2.1, 2.5, 3.3, 4.2, 5.1),
		cp(6, 6.0, 6.7, 7.9, 9.3, 10.9),
		cp(12, 7.7, 8.6, 10.2, 12.0, 14.1),
		cp(24, 9.7, 10.8, 12.9, 15.3, 18.1),
		cp(36, 11.3, 12.7, 15.1, 18.0, 21.5),
		cp(48, 12.7, 14.3, 17.1, 20.6, 24.9),
		cp(60, 14.1, 15.8, 19.0, 23.1, 28.0),
	},
	growth.KindHeight: {
		cp(0, 44.2, 46.1, 49.9, 53.7, 56.7),
		cp(6, 61.7, 63.3, 67.6, 71.9, 75.0),
		cp(12, 69.2, 71.0, 76.1, 81.2, 85.1),
		cp(24, 78.0, 80.0, 86.4, 92.9, 97.8),
		cp(36, 83.6, 85.7, 93.9, 102.1, 108.0),
		cp(48, 88.0, 90.2, 99.9, 109.9, 116.6),
		cp(60, 91.9, 94.1, 105.3, 116.8, 124.4),
	},
	// MUAC-for-age starts at 3 months.
	growth.KindMUAC: {
		cp(3, 12.0, 12.7, 13.8, 14.9, 15.6),
		cp(6, 12.6, 13.3, 14.4, 15.6, 16.3),
		cp(12, 13.0, 13.8, 15.0, 16.2, 17.0),
		cp(24, 13.3, 14.1, 15.3, 16.6, 17.4),
		cp(36, 13.5, 14.3, 15.6, 16.9, 17.8),
		cp(48, 13.7, 14.6, 15.9, 17.3, 18.2),
		cp(60, 13.9, 14.8, 16.2, 17.7, 18.7),
	},
}

// Curves returns a copy of the reference curve set.
func Curves() growth.CurveSet {
	out := make(growth.CurveSet, len(curves))
	for k, c := range curves {
		out[k] = slices.Clone(c)
	}
	return out
}

// Curve returns a copy of the reference curve for one measurement kind.
func Curve(kind growth.Kind) (growth.Curve, bool) {
	c, ok := curves[kind]
	if !ok {
		return nil, false
	}
	return slices.Clone(c), true
}
