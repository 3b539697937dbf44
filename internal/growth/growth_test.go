package growth

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
)

func testCurve() Curve {
	return Curve{
		{AgeMonths: 0, Percentiles: Percentiles{P3: 2.1, P15: 2.5, P50: 3.3, P85: 4.2, P97: 5.1}},
		{AgeMonths: 6, Percentiles: Percentiles{P3: 6.0, P15: 6.7, P50: 7.9, P85: 9.3, P97: 10.9}},
		{AgeMonths: 12, Percentiles: Percentiles{P3: 7.7, P15: 8.6, P50: 10.2, P85: 12.0, P97: 14.1}},
	}
}

func TestInterpolate_ClampsBelowFirstPoint(t *testing.T) {
	c := testCurve()
	for _, age := range []float64{-5, -0.1, 0} {
		got := Interpolate(c, age)
		if got != c[0].Percentiles {
			t.Errorf("Interpolate(%v) = %+v, want first point %+v", age, got, c[0].Percentiles)
		}
	}
}

func TestInterpolate_ClampsAboveLastPoint(t *testing.T) {
	c := testCurve()
	for _, age := range []float64{12, 12.5, 60, 1000} {
		got := Interpolate(c, age)
		if got != c[2].Percentiles {
			t.Errorf("Interpolate(%v) = %+v, want last point %+v", age, got, c[2].Percentiles)
		}
	}
}

func TestInterpolate_ExactControlAge(t *testing.T) {
	c := testCurve()
	got := Interpolate(c, 6)
	if got != c[1].Percentiles {
		t.Errorf("Interpolate(6) = %+v, want %+v", got, c[1].Percentiles)
	}
}

func TestInterpolate_Midpoint(t *testing.T) {
	c := testCurve()
	got := Interpolate(c, 9)

	want := Percentiles{
		P3:  (6.0 + 7.7) / 2,
		P15: (6.7 + 8.6) / 2,
		P50: (7.9 + 10.2) / 2,
		P85: (9.3 + 12.0) / 2,
		P97: (10.9 + 14.1) / 2,
	}
	const eps = 1e-9
	pairs := [][2]float64{
		{got.P3, want.P3}, {got.P15, want.P15}, {got.P50, want.P50},
		{got.P85, want.P85}, {got.P97, want.P97},
	}
	for i, p := range pairs {
		if d := p[0] - p[1]; d > eps || d < -eps {
			t.Errorf("field %d: got %v, want %v", i, p[0], p[1])
		}
	}
}

func TestInterpolate_DuplicateAgesReturnLowerPoint(t *testing.T) {
	c := Curve{
		{AgeMonths: 6, Percentiles: Percentiles{P3: 1, P15: 2, P50: 3, P85: 4, P97: 5}},
		{AgeMonths: 6, Percentiles: Percentiles{P3: 9, P15: 9, P50: 9, P85: 9, P97: 9}},
		{AgeMonths: 12, Percentiles: Percentiles{P3: 10, P15: 11, P50: 12, P85: 13, P97: 14}},
	}
	got := Interpolate(c, 6)
	if got.P3 != 1 && got.P3 != 9 {
		t.Fatalf("expected one of the duplicate points, got %+v", got)
	}
	mid := Interpolate(c, 9)
	if mid.P3 != 9.5 {
		t.Errorf("Interpolate(9).P3 = %v, want 9.5", mid.P3)
	}
}

func TestInterpolate_SinglePoint(t *testing.T) {
	c := Curve{{AgeMonths: 24, Percentiles: Percentiles{P3: 1, P15: 2, P50: 3, P85: 4, P97: 5}}}
	for _, age := range []float64{0, 24, 48} {
		if got := Interpolate(c, age); got != c[0].Percentiles {
			t.Errorf("Interpolate(%v) = %+v, want %+v", age, got, c[0].Percentiles)
		}
	}
}

func TestClassifyPercentile_Boundaries(t *testing.T) {
	p := Percentiles{P3: 10, P15: 20, P50: 30, P85: 40, P97: 50}
	tests := []struct {
		value float64
		want  Band
	}{
		{9.99, BandBelowP3},
		{10, BandP3ToP15},
		{19.9, BandP3ToP15},
		{20, BandP15ToP50},
		{30, BandP50ToP85},
		{40, BandP85ToP97},
		{49.9, BandP85ToP97},
		{50, BandAboveP97},
		{80, BandAboveP97},
	}
	for _, tt := range tests {
		if got := ClassifyPercentile(tt.value, p); got != tt.want {
			t.Errorf("ClassifyPercentile(%v) = %s, want %s", tt.value, got, tt.want)
		}
	}
}

func TestClassifyPercentile_Monotonic(t *testing.T) {
	p := Percentiles{P3: 10, P15: 20, P50: 30, P85: 40, P97: 50}
	prev := ClassifyPercentile(0, p)
	for v := 0.0; v <= 60; v += 0.25 {
		b := ClassifyPercentile(v, p)
		if b < prev {
			t.Fatalf("band decreased at %v: %s after %s", v, b, prev)
		}
		prev = b
	}
}

func TestBand_JSONRoundTrip(t *testing.T) {
	data, err := json.Marshal(BandP15ToP50)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `"p15-p50"` {
		t.Errorf("got %s", data)
	}
	var b Band
	if err := json.Unmarshal([]byte(`"bogus"`), &b); err == nil {
		t.Error("expected error for unknown band")
	}
}

func TestCurveValidate(t *testing.T) {
	if err := testCurve().Validate(); err != nil {
		t.Fatalf("valid curve rejected: %v", err)
	}

	if err := (Curve{}).Validate(); err == nil {
		t.Error("expected error for empty curve")
	}

	bad := Curve{
		{AgeMonths: 6, Percentiles: Percentiles{P3: 1, P15: 2, P50: 3, P85: 4, P97: 5}},
		{AgeMonths: 3, Percentiles: Percentiles{P3: 5, P15: 2, P50: 3, P85: 4, P97: 5}},
	}
	err := bad.Validate()
	if err == nil {
		t.Fatal("expected error for unordered curve")
	}
	if !strings.Contains(err.Error(), "not greater than previous") {
		t.Errorf("error should mention age ordering, got: %v", err)
	}
	if !strings.Contains(err.Error(), "percentiles out of order") {
		t.Errorf("error should mention percentile ordering, got: %v", err)
	}
}

func TestInterpolate_NaNAgeReturnsFirstPoint(t *testing.T) {
	c := testCurve()
	got := Interpolate(c, math.NaN())
	if got != c[0].Percentiles {
		t.Errorf("Interpolate(NaN) = %+v, want first point %+v", got, c[0].Percentiles)
	}
	if got := Interpolate(Curve{c[0], c[1]}, math.NaN()); got != c[0].Percentiles {
		t.Errorf("two-point curve: Interpolate(NaN) = %+v", got)
	}
	if got := Interpolate(c, math.Inf(1)); got != c[2].Percentiles {
		t.Errorf("Interpolate(+Inf) = %+v, want last point", got)
	}
}

func TestCurveValidate_NonFinite(t *testing.T) {
	tests := map[string]Curve{
		"nan age":        {{AgeMonths: math.NaN(), Percentiles: Percentiles{P3: 1, P15: 2, P50: 3, P85: 4, P97: 5}}},
		"nan percentile": {{AgeMonths: 0, Percentiles: Percentiles{P3: 1, P15: math.NaN(), P50: 3, P85: 4, P97: 5}}},
		"infinite p97":   {{AgeMonths: 0, Percentiles: Percentiles{P3: 1, P15: 2, P50: 3, P85: 4, P97: math.Inf(1)}}},
	}
	for name, c := range tests {
		err := c.Validate()
		if err == nil {
			t.Errorf("%s: expected error", name)
			continue
		}
		if !strings.Contains(err.Error(), "non-finite") {
			t.Errorf("%s: error should mention non-finite value, got: %v", name, err)
		}
	}
}

func TestClassify_RejectsInvalidMeasurement(t *testing.T) {
	curves := CurveSet{KindWeight: testCurve()}
	tests := []Measurement{
		{Kind: KindWeight, AgeMonths: math.NaN(), Value: 8},
		{Kind: KindWeight, AgeMonths: math.Inf(1), Value: 8},
		{Kind: KindWeight, AgeMonths: -1, Value: 8},
		{Kind: KindWeight, AgeMonths: 12, Value: math.NaN()},
		{Kind: KindWeight, AgeMonths: 12, Value: 0},
	}
	for _, m := range tests {
		_, err := Classify(curves, m)
		var invalid *InvalidMeasurementError
		if !errors.As(err, &invalid) {
			t.Errorf("Classify(%+v) error = %v, want InvalidMeasurementError", m, err)
		}
	}
}

func TestClassify_MissingCurve(t *testing.T) {
	_, err := Classify(CurveSet{KindWeight: testCurve()}, Measurement{Kind: KindMUAC, AgeMonths: 12, Value: 13})
	if err == nil {
		t.Fatal("expected error for missing curve")
	}
}

func TestClassify_Weight(t *testing.T) {
	r, err := Classify(CurveSet{KindWeight: testCurve()}, Measurement{Kind: KindWeight, AgeMonths: 6, Value: 5.5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Band != BandBelowP3 {
		t.Errorf("band = %s, want below-p3", r.Band)
	}
}

func TestParseKind(t *testing.T) {
	for in, want := range map[string]Kind{"Weight": KindWeight, "length": KindHeight, " MUAC ": KindMUAC} {
		got, err := ParseKind(in)
		if err != nil || got != want {
			t.Errorf("ParseKind(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseKind("bmi"); err == nil {
		t.Error("expected error for unknown kind")
	}
}
