package predictor

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

type remoteRequest struct {
	Instances [][]float64 `json:"instances"`
}

type remoteResponse struct {
	Predictions []int  `json:"predictions"`
	Error       string `json:"error,omitempty"`
}

// Remote asks an inference sidecar that serves the original serialized
// model. The sidecar answers POST /predict and GET /healthz.
type Remote struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

// NewRemote builds a client for the sidecar at baseURL. Requests are not
// retried.
func NewRemote(baseURL string, timeout time.Duration, logger *zap.Logger) *Remote {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Remote{
		httpClient: client,
		logger:     logger,
	}
}

// Ping checks the sidecar is up; called once at startup.
func (r *Remote) Ping(ctx context.Context) error {
	resp, err := r.httpClient.R().SetContext(ctx).Get("/healthz")
	if err != nil {
		return fmt.Errorf("inference service unreachable: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("inference service unhealthy: status %d", resp.StatusCode())
	}
	return nil
}

// Predict sends one instance and returns the single label it gets back.
func (r *Remote) Predict(ctx context.Context, vector []float64) (Label, error) {
	var out remoteResponse
	resp, err := r.httpClient.R().
		SetContext(ctx).
		SetBody(remoteRequest{Instances: [][]float64{vector}}).
		SetResult(&out).
		SetError(&out).
		Post("/predict")
	if err != nil {
		r.logger.Error("inference call failed", zap.Error(err))
		return 0, fmt.Errorf("call inference service: %w", err)
	}

	if resp.IsError() {
		r.logger.Error("inference service returned error",
			zap.Int("status_code", resp.StatusCode()),
			zap.String("msg", out.Error),
		)
		return 0, fmt.Errorf("inference service error: %s (status: %d)", out.Error, resp.StatusCode())
	}
	if len(out.Predictions) != 1 {
		return 0, fmt.Errorf("inference service returned %d predictions for 1 instance", len(out.Predictions))
	}
	return labelFrom(out.Predictions[0])
}
