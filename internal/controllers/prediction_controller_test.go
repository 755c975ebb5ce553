package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/AloysioLvy/CardioRiskAnalyzer/internal/features"
	"github.com/AloysioLvy/CardioRiskAnalyzer/internal/models"
	"github.com/AloysioLvy/CardioRiskAnalyzer/internal/predictor"
	"github.com/AloysioLvy/CardioRiskAnalyzer/internal/reference"
	"github.com/AloysioLvy/CardioRiskAnalyzer/internal/services"
)

type fixedPredictor struct {
	label predictor.Label
	err   error
	calls int
}

func (p *fixedPredictor) Predict(context.Context, []float64) (predictor.Label, error) {
	p.calls++
	return p.label, p.err
}

func newTestServer(t *testing.T, p predictor.Predictor) *echo.Echo {
	t.Helper()
	cols := reference.Columns{"bmi"}
	for _, band := range features.AgeRanges {
		cols = append(cols, features.AgeColumn(band))
	}
	a, err := services.NewArtifacts(p, cols)
	require.NoError(t, err)

	e, err := NewServer(services.NewPredictionService(a, zap.NewNop()), zap.NewNop())
	require.NoError(t, err)
	return e
}

const validJSON = `{
  "physical_health_days": 0,
  "mental_health_days": 0,
  "physical_activities": "Yes",
  "sleep_hours": 8,
  "had_stroke": "No",
  "had_asthma": "No",
  "had_copd": "No",
  "had_depressive_disorder": "No",
  "difficulty_concentrating": "No",
  "difficulty_walking": "No",
  "bmi": 22.5,
  "alcohol_drinkers": "No",
  "had_diabetes": "No",
  "age_range": "30 to 34",
  "received_vaccine": "TDAP",
  "smoking_status": "Never Smoked"
}`

func postJSON(e *echo.Echo, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestCreatePrediction_OK(t *testing.T) {
	e := newTestServer(t, &fixedPredictor{label: predictor.AtRisk})

	rec := postJSON(e, "/api/v1/predictions", validJSON)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res models.PredictionResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.True(t, res.AtRisk)
	assert.Equal(t, "You are at risk of heart disease.", res.Message)
	assert.Equal(t, rec.Header().Get(echo.HeaderXRequestID), res.RequestID)
	assert.Len(t, res.Features, 32)
}

func TestCreatePrediction_BadInput(t *testing.T) {
	p := &fixedPredictor{}
	e := newTestServer(t, p)

	cases := map[string]string{
		"malformed":    `{"bmi": `,
		"bmi text":     strings.Replace(validJSON, `"bmi": 22.5`, `"bmi": "obese"`, 1),
		"bmi high":     strings.Replace(validJSON, `"bmi": 22.5`, `"bmi": 90.01`, 1),
		"missing":      `{"bmi": 22.5}`,
		"bad yes/no":   strings.Replace(validJSON, `"had_stroke": "No"`, `"had_stroke": "Sometimes"`, 1),
		"sleep":        strings.Replace(validJSON, `"sleep_hours": 8`, `"sleep_hours": 30`, 1),
		"unknown band": strings.Replace(validJSON, `"30 to 34"`, `"30 to 35"`, 1),
		"vaccine":      strings.Replace(validJSON, `"TDAP"`, `"Flu"`, 1),
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := postJSON(e, "/api/v1/predictions", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			assert.Contains(t, rec.Body.String(), `"error"`)
		})
	}
	assert.Zero(t, p.calls)
}

func TestCreatePrediction_BMIBoundaryAccepted(t *testing.T) {
	e := newTestServer(t, &fixedPredictor{})
	for _, bmi := range []string{"10", "90", `"10.0"`} {
		body := strings.Replace(validJSON, `"bmi": 22.5`, `"bmi": `+bmi, 1)
		rec := postJSON(e, "/api/v1/predictions", body)
		assert.Equal(t, http.StatusOK, rec.Code, "bmi %s: %s", bmi, rec.Body.String())
	}
}

func TestCreatePrediction_PredictorDown(t *testing.T) {
	e := newTestServer(t, &fixedPredictor{err: errors.New("connection refused")})

	rec := postJSON(e, "/api/v1/predictions", validJSON)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error": "Failed to predict"}`, rec.Body.String())
}

func TestEncodeFeatures(t *testing.T) {
	p := &fixedPredictor{}
	e := newTestServer(t, p)

	rec := postJSON(e, "/api/v1/features", validJSON)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var fv models.FeatureVector
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fv))
	require.Len(t, fv.Values, 32)
	assert.Equal(t, "age_Age 30to34", fv.Names[13+2])
	assert.Equal(t, 1.0, fv.Values[13+2])
	assert.Equal(t, []float64{0, 0, 1, 1, 0, 0}, fv.Values[26:])
	assert.Zero(t, p.calls)
}

func TestGetOptionsAndHealth(t *testing.T) {
	e := newTestServer(t, &fixedPredictor{})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/options", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var opts models.FormOptions
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &opts))
	assert.Equal(t, features.AgeRanges, opts.AgeRanges)
	assert.Equal(t, features.VaccineOptions, opts.VaccineOptions)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "ok"}`, rec.Body.String())
}

func formValues() url.Values {
	v := url.Values{}
	v.Set("physical_health_days", "0")
	v.Set("mental_health_days", "0")
	v.Set("physical_activities", "Yes")
	v.Set("sleep_hours", "8")
	for _, f := range []string{"had_stroke", "had_asthma", "had_copd", "had_depressive_disorder",
		"difficulty_concentrating", "difficulty_walking", "alcohol_drinkers", "had_diabetes"} {
		v.Set(f, "No")
	}
	v.Set("bmi", "22.5")
	v.Set("age_range", "30 to 34")
	v.Set("received_vaccine", "TDAP")
	v.Set("smoking_status", "Never Smoked")
	return v
}

func postForm(e *echo.Echo, v url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(v.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestPage_ShowForm(t *testing.T) {
	e := newTestServer(t, &fixedPredictor{})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Parameter Selection")
	assert.Contains(t, rec.Body.String(), `<option value="80 or older">`)
	assert.NotContains(t, rec.Body.String(), "at risk of heart disease")
}

func TestPage_SubmitForm(t *testing.T) {
	e := newTestServer(t, &fixedPredictor{label: predictor.NotAtRisk})

	rec := postForm(e, formValues())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := rec.Body.String()
	assert.Contains(t, body, "You are not at risk of heart disease.")
	assert.Contains(t, body, "/static/healthy_heart.svg")
	assert.Contains(t, body, `<option value="30 to 34" selected>`)
}

func TestPage_SubmitFormInvalid(t *testing.T) {
	p := &fixedPredictor{label: predictor.AtRisk}
	e := newTestServer(t, p)

	v := formValues()
	v.Set("bmi", "9.5")
	rec := postForm(e, v)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "bmi")
	assert.NotContains(t, rec.Body.String(), "You are at risk")

	v = formValues()
	v.Del("smoking_status")
	rec = postForm(e, v)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "smoking_status is required")
	assert.Zero(t, p.calls)
}

func TestStaticImages(t *testing.T) {
	e := newTestServer(t, &fixedPredictor{})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/un_healthy.svg", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<svg")
}
