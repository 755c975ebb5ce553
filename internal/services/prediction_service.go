package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AloysioLvy/CardioRiskAnalyzer/internal/features"
	"github.com/AloysioLvy/CardioRiskAnalyzer/internal/models"
	"github.com/AloysioLvy/CardioRiskAnalyzer/internal/predictor"
)

// PredictionService defines the operations behind the risk form.
type PredictionService interface {
	// Predict encodes the answers and asks the model for a label.
	Predict(ctx context.Context, req *models.PredictionRequest) (*models.PredictionResult, error)
	// Encode only builds the feature vector.
	Encode(ctx context.Context, req *models.PredictionRequest) (*models.FeatureVector, error)
	Options() models.FormOptions
}

type outcome struct {
	message string
	color   string
	image   string
}

var outcomes = map[predictor.Label]outcome{
	predictor.AtRisk: {
		message: "You are at risk of heart disease.",
		color:   "red",
		image:   "/static/un_healthy.svg",
	},
	predictor.NotAtRisk: {
		message: "You are not at risk of heart disease.",
		color:   "#6EBB62",
		image:   "/static/healthy_heart.svg",
	},
}

// predictionService is the concrete implementation of PredictionService.
type predictionService struct {
	artifacts *Artifacts
	logger    *zap.Logger
}

// NewPredictionService returns a PredictionService backed by artifacts.
func NewPredictionService(artifacts *Artifacts, logger *zap.Logger) PredictionService {
	return &predictionService{artifacts: artifacts, logger: logger}
}

func (s *predictionService) Predict(ctx context.Context, req *models.PredictionRequest) (*models.PredictionResult, error) {
	requestID := RequestIDFrom(ctx)

	vec, err := s.encode(req)
	if err != nil {
		return nil, err
	}

	label, err := s.artifacts.Predictor.Predict(ctx, vec)
	if err != nil {
		s.logger.Error("prediction failed", zap.String("request_id", requestID), zap.Error(err))
		return nil, fmt.Errorf("predict: %w", err)
	}

	out, ok := outcomes[label]
	if !ok {
		return nil, fmt.Errorf("predict: unexpected label %d", label)
	}

	s.logger.Info("prediction served",
		zap.String("request_id", requestID),
		zap.Int("label", int(label)),
	)

	return &models.PredictionResult{
		RequestID: requestID,
		Label:     int(label),
		AtRisk:    label == predictor.AtRisk,
		Message:   out.message,
		Color:     out.color,
		Image:     out.image,
		Features:  vec,
	}, nil
}

func (s *predictionService) Encode(_ context.Context, req *models.PredictionRequest) (*models.FeatureVector, error) {
	vec, err := s.encode(req)
	if err != nil {
		return nil, err
	}
	return &models.FeatureVector{
		Names:  features.FeatureNames(s.artifacts.AgeColumns),
		Values: vec,
	}, nil
}

func (s *predictionService) encode(req *models.PredictionRequest) ([]float64, error) {
	fr, err := ToFeatures(req)
	if err != nil {
		return nil, err
	}
	return features.Encode(fr, s.artifacts.AgeColumns)
}

func (s *predictionService) Options() models.FormOptions {
	return models.FormOptions{
		YesNo:          []string{models.No, models.Yes},
		AgeRanges:      features.AgeRanges,
		VaccineOptions: features.VaccineOptions,
		SmokingOptions: features.SmokingOptions,
		Bounds: map[string]models.NumericBound{
			"physical_health_days": {Min: features.MinHealthDays, Max: features.MaxHealthDays, Step: 1},
			"mental_health_days":   {Min: features.MinHealthDays, Max: features.MaxHealthDays, Step: 1},
			"sleep_hours":          {Min: features.MinSleepHours, Max: features.MaxSleepHours, Step: 0.5},
			"bmi":                  {Min: features.MinBMI, Max: features.MaxBMI, Step: 0.1},
		},
	}
}

// ToFeatures converts submitted answers into an encoder request.
func ToFeatures(req *models.PredictionRequest) (features.Request, error) {
	if req == nil {
		return features.Request{}, fmt.Errorf("%w: empty request", features.ErrInvalidInput)
	}

	bmi, err := features.ParseBMI(req.BMI.String())
	if err != nil {
		return features.Request{}, err
	}

	fr := features.Request{
		PhysicalHealthDays: req.PhysicalHealthDays,
		MentalHealthDays:   req.MentalHealthDays,
		SleepHours:         req.SleepHours,
		BMI:                bmi,
		AgeRange:           req.AgeRange,
		ReceivedVaccine:    req.ReceivedVaccine,
		SmokingStatus:      req.SmokingStatus,
	}

	answers := []struct {
		name  string
		value string
		dst   *bool
	}{
		{"physical_activities", req.PhysicalActivities, &fr.PhysicalActivities},
		{"had_stroke", req.HadStroke, &fr.HadStroke},
		{"had_asthma", req.HadAsthma, &fr.HadAsthma},
		{"had_copd", req.HadCOPD, &fr.HadCOPD},
		{"had_depressive_disorder", req.HadDepressiveDisorder, &fr.HadDepressiveDisorder},
		{"difficulty_concentrating", req.DifficultyConcentrating, &fr.DifficultyConcentrating},
		{"difficulty_walking", req.DifficultyWalking, &fr.DifficultyWalking},
		{"alcohol_drinkers", req.AlcoholDrinkers, &fr.AlcoholDrinkers},
		{"had_diabetes", req.HadDiabetes, &fr.HadDiabetes},
	}
	for _, a := range answers {
		switch a.value {
		case models.Yes:
			*a.dst = true
		case models.No:
			*a.dst = false
		default:
			return features.Request{}, fmt.Errorf("%w: %s must be %q or %q, got %q", features.ErrInvalidInput, a.name, models.Yes, models.No, a.value)
		}
	}
	return fr, nil
}

type requestIDKey struct{}

// WithRequestID attaches the id the HTTP layer assigned to a request.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFrom returns the id attached to ctx, or a fresh one.
func RequestIDFrom(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
		return id
	}
	return uuid.NewString()
}
