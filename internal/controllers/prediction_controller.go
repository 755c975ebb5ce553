package controllers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/AloysioLvy/CardioRiskAnalyzer/internal/features"
	"github.com/AloysioLvy/CardioRiskAnalyzer/internal/models"
	"github.com/AloysioLvy/CardioRiskAnalyzer/internal/services"
)

// PredictionController exposes the prediction pipeline as a JSON API.
type PredictionController struct {
	svc services.PredictionService
}

// NewPredictionController returns a PredictionController backed by svc.
func NewPredictionController(svc services.PredictionService) *PredictionController {
	return &PredictionController{svc: svc}
}

// Register associa as rotas da API ao grupo (normalmente "/api/v1").
func (ctr *PredictionController) Register(g *echo.Group) {
	g.POST("/predictions", ctr.CreatePrediction)
	g.POST("/features", ctr.EncodeFeatures)
	g.GET("/options", ctr.GetOptions)
}

// CreatePrediction handles POST /predictions with a JSON
// models.PredictionRequest and answers with a models.PredictionResult.
func (ctr *PredictionController) CreatePrediction(c echo.Context) error {
	req := new(models.PredictionRequest)
	if msg := bindRequest(c, req); msg != "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": msg})
	}

	res, err := ctr.svc.Predict(requestContext(c), req)
	if err != nil {
		return serviceError(c, err, "Failed to predict")
	}
	return c.JSON(http.StatusOK, res)
}

// EncodeFeatures handles POST /features and returns the encoded vector
// without calling the model.
func (ctr *PredictionController) EncodeFeatures(c echo.Context) error {
	req := new(models.PredictionRequest)
	if msg := bindRequest(c, req); msg != "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": msg})
	}

	fv, err := ctr.svc.Encode(requestContext(c), req)
	if err != nil {
		return serviceError(c, err, "Failed to encode features")
	}
	return c.JSON(http.StatusOK, fv)
}

// GetOptions returns the choices and bounds of every form field.
func (ctr *PredictionController) GetOptions(c echo.Context) error {
	return c.JSON(http.StatusOK, ctr.svc.Options())
}

// bindRequest fills req and returns a client-facing message when the body
// is malformed or fails validation.
func bindRequest(c echo.Context, req *models.PredictionRequest) string {
	if err := c.Bind(req); err != nil {
		return "Invalid request body"
	}
	if err := c.Validate(req); err != nil {
		return strings.Join(validationMessages(err), "; ")
	}
	return ""
}

// requestContext carries the id set by the RequestID middleware into the
// service layer.
func requestContext(c echo.Context) context.Context {
	ctx := c.Request().Context()
	if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
		ctx = services.WithRequestID(ctx, id)
	}
	return ctx
}

func serviceError(c echo.Context, err error, msg string) error {
	if errors.Is(err, features.ErrInvalidInput) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": msg})
}
