package controllers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/AloysioLvy/CardioRiskAnalyzer/internal/features"
	"github.com/AloysioLvy/CardioRiskAnalyzer/internal/models"
	"github.com/AloysioLvy/CardioRiskAnalyzer/internal/services"
	"github.com/AloysioLvy/CardioRiskAnalyzer/internal/web"
)

// PageController serves the HTML form and renders the outcome of a
// submission on the same page.
type PageController struct {
	svc services.PredictionService
}

// NewPageController returns a PageController backed by svc.
func NewPageController(svc services.PredictionService) *PageController {
	return &PageController{svc: svc}
}

// Register mounts the page routes on g (normally the root group).
func (ctr *PageController) Register(g *echo.Group) {
	g.GET("/", ctr.ShowForm)
	g.POST("/predict", ctr.SubmitForm)
}

// ShowForm renders the blank parameter form.
func (ctr *PageController) ShowForm(c echo.Context) error {
	return c.Render(http.StatusOK, "index.html", web.NewPage(ctr.svc.Options(), nil, nil, nil))
}

// SubmitForm handles the Predict button. Invalid answers re-render the
// form with the problems listed; no prediction is attempted.
func (ctr *PageController) SubmitForm(c echo.Context) error {
	opts := ctr.svc.Options()

	req := new(models.PredictionRequest)
	if err := c.Bind(req); err != nil {
		return c.Render(http.StatusBadRequest, "index.html", web.NewPage(opts, nil, nil, []string{"Invalid form submission"}))
	}
	if err := c.Validate(req); err != nil {
		return c.Render(http.StatusBadRequest, "index.html", web.NewPage(opts, req, nil, validationMessages(err)))
	}

	res, err := ctr.svc.Predict(requestContext(c), req)
	if err != nil {
		if errors.Is(err, features.ErrInvalidInput) {
			return c.Render(http.StatusBadRequest, "index.html", web.NewPage(opts, req, nil, []string{err.Error()}))
		}
		return c.Render(http.StatusInternalServerError, "index.html", web.NewPage(opts, req, nil, []string{"Prediction is unavailable, please try again later."}))
	}

	return c.Render(http.StatusOK, "index.html", web.NewPage(opts, req, res, nil))
}
