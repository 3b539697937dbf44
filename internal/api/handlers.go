package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/abhisek/imci/internal/assessment"
	"github.com/abhisek/imci/internal/counsel"
	"github.com/abhisek/imci/internal/decision"
	"github.com/abhisek/imci/internal/growth"
	"github.com/abhisek/imci/internal/reference"
)

const maxBodyBytes = 1 << 20

func (s *server) health(w http.ResponseWriter, _ *http.Request) {
	advice := counsel.SourceStatic
	if s.counsel.ModelBacked() {
		advice = counsel.SourceModel
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"protocol": s.graph.Document().Version,
		"nodes":    s.graph.Len(),
		"counsel":  advice,
	})
}

func (s *server) protocol(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.graph.Document())
}

func (s *server) node(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	n, ok := s.graph.Node(id)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown node %q", id), nil)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

type assessmentRequest struct {
	Answers      []string             `json:"answers"`
	Measurements []growth.Measurement `json:"measurements,omitempty"`
	Vitals       *assessment.Vitals   `json:"vitals,omitempty"`
	Counsel      bool                 `json:"counsel,omitempty"`
	Role         string               `json:"role,omitempty"`
}

type assessmentResponse struct {
	SessionID      string                    `json:"session_id"`
	Trail          []decision.Step           `json:"trail"`
	Classification assessment.Classification `json:"classification"`
	Advice         *counsel.Advice           `json:"advice,omitempty"`
}

func (s *server) assess(w http.ResponseWriter, r *http.Request) {
	var req assessmentRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error(), nil)
		return
	}

	role := counsel.RoleCaregiver
	if req.Role != "" {
		parsed, err := counsel.ParseRole(req.Role)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error(), nil)
			return
		}
		role = parsed
	}

	// Each request walks its own session.
	sess, err := s.graph.Replay(req.Answers)
	if err != nil {
		writeAssessError(w, err)
		return
	}

	c, err := assessment.Evaluate(assessment.Input{
		Session:      sess,
		Measurements: req.Measurements,
		Curves:       s.curves,
		Vitals:       req.Vitals,
	})
	if err != nil {
		writeAssessError(w, err)
		return
	}

	resp := assessmentResponse{
		SessionID:      sess.ID,
		Trail:          sess.Trail(),
		Classification: c,
	}
	if req.Counsel {
		adv := s.counsel.Advise(r.Context(), c, role)
		resp.Advice = &adv
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeAssessError(w http.ResponseWriter, err error) {
	var (
		invalid    *decision.InvalidOptionError
		terminated *decision.SessionTerminatedError
		incomplete *assessment.IncompleteAssessmentError
		badMeas    *assessment.InvalidMeasurementError
		noCurve    *growth.ErrNoCurve
		badVital   *reference.ImplausibleVitalError
	)
	switch {
	case errors.As(err, &invalid):
		writeError(w, http.StatusUnprocessableEntity, err.Error(), map[string]any{
			"node_id": invalid.NodeID,
			"value":   invalid.Value,
			"valid":   invalid.Valid,
		})
	case errors.As(err, &incomplete):
		writeError(w, http.StatusUnprocessableEntity, err.Error(), map[string]any{
			"node_id": incomplete.NodeID,
			"steps":   incomplete.Steps,
		})
	case errors.As(err, &terminated):
		writeError(w, http.StatusUnprocessableEntity, err.Error(), map[string]any{
			"node_id": terminated.NodeID,
		})
	case errors.As(err, &badMeas), errors.As(err, &noCurve), errors.As(err, &badVital):
		writeError(w, http.StatusUnprocessableEntity, err.Error(), nil)
	default:
		writeError(w, http.StatusInternalServerError, "internal error", nil)
	}
}

type growthResponse struct {
	growth.Reading
	Label  string `json:"label"`
	Status string `json:"status,omitempty"`
}

func (s *server) growth(w http.ResponseWriter, r *http.Request) {
	kind, err := growth.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error(), nil)
		return
	}
	age, ok := floatParam(w, r, "age", true)
	if !ok {
		return
	}
	if age < 0 {
		writeError(w, http.StatusBadRequest, `query parameter "age" must not be negative`, nil)
		return
	}
	value, ok := floatParam(w, r, "value", false)
	if !ok {
		return
	}

	curve, found := s.curves[kind]
	if !found {
		writeError(w, http.StatusNotFound, (&growth.ErrNoCurve{Kind: kind}).Error(), nil)
		return
	}
	if !r.URL.Query().Has("value") {
		writeJSON(w, http.StatusOK, map[string]any{
			"kind":       kind,
			"age_months": age,
			"reference":  growth.Interpolate(curve, age),
		})
		return
	}

	m := growth.Measurement{Kind: kind, AgeMonths: age, Value: value}
	if err := m.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	reading, err := growth.Classify(s.curves, m)
	if err != nil {
		writeAssessError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, growthResponse{
		Reading: reading,
		Label:   reading.Band.Label(),
		Status:  assessment.GrowthStatus(reading),
	})
}

func (s *server) vitals(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	out := map[string]any{
		"thresholds": nonNil(reference.SearchVitals(q.Get("q"))),
		"ranges":     reference.VitalRanges(),
	}

	if name := q.Get("metric"); name != "" {
		m, err := reference.ParseMetric(name)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error(), nil)
			return
		}
		v, ok := floatParam(w, r, "value", true)
		if !ok {
			return
		}
		st, err := reference.VitalStatus(m, v)
		if err != nil {
			writeAssessError(w, err)
			return
		}
		out["reading"] = assessment.VitalReading{Metric: m, Value: v, Status: st}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *server) codes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	writeJSON(w, http.StatusOK, map[string]any{
		"codes":      nonNil(reference.FilterCodes(q.Get("q"), q.Get("category"))),
		"categories": reference.Categories(),
	})
}

func (s *server) formularyIndex(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, reference.Formulary())
}

func (s *server) formulary(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "condition")
	reg, ok := reference.LookupRegimen(key)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown condition %q", key),
			map[string]any{"conditions": reference.RegimenKeys()})
		return
	}
	if !r.URL.Query().Has("weight") && !r.URL.Query().Has("age") {
		writeJSON(w, http.StatusOK, reg)
		return
	}

	weight, ok := floatParam(w, r, "weight", false)
	if !ok {
		return
	}
	age, ok := floatParam(w, r, "age", false)
	if !ok {
		return
	}
	if age < 0 {
		writeError(w, http.StatusBadRequest, `query parameter "age" must not be negative`, nil)
		return
	}
	writeJSON(w, http.StatusOK, reference.CalculateRegimen(reg, weight, age))
}

// floatParam reads a finite numeric query parameter and writes a 400 when
// it is malformed, or missing and required.
func floatParam(w http.ResponseWriter, r *http.Request, name string, required bool) (float64, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		if required {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("query parameter %q is required", name), nil)
			return 0, false
		}
		return 0, true
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("query parameter %q must be a number", name), nil)
		return 0, false
	}
	return v, true
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
