// Package web holds the embedded page templates and outcome images.
package web

import (
	"embed"
	"html/template"
	"io"
	"io/fs"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/AloysioLvy/CardioRiskAnalyzer/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Renderer implements echo.Renderer over the embedded templates.
type Renderer struct {
	templates *template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	t, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{templates: t}, nil
}

// Render executes the named template with data.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}

// Static serves the outcome images under /static.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// Field is one input of the parameter panel.
type Field struct {
	Name    string
	Label   string
	Kind    string // "number" or "select"
	Min     string
	Max     string
	Step    string
	Value   string
	Options []string
}

// Page is the data behind index.html.
type Page struct {
	Title  string
	Fields []Field
	Result *models.PredictionResult
	Errors []string
}

// NewPage lays out the form with the values of form (nil for a blank
// form).
func NewPage(opts models.FormOptions, form *models.PredictionRequest, result *models.PredictionResult, errs []string) Page {
	if form == nil {
		form = &models.PredictionRequest{BMI: "10"}
	}

	number := func(name, label, value string) Field {
		b := opts.Bounds[name]
		return Field{
			Name:  name,
			Label: label,
			Kind:  "number",
			Min:   formatFloat(b.Min),
			Max:   formatFloat(b.Max),
			Step:  formatFloat(b.Step),
			Value: value,
		}
	}
	choice := func(name, label, value string, options []string) Field {
		if value == "" && len(options) > 0 {
			value = options[0]
		}
		return Field{Name: name, Label: label, Kind: "select", Value: value, Options: options}
	}

	return Page{
		Title: "CardioRisk Analyzer",
		Fields: []Field{
			number("physical_health_days", "Physical Health Days", strconv.Itoa(form.PhysicalHealthDays)),
			number("mental_health_days", "Mental Health Days", strconv.Itoa(form.MentalHealthDays)),
			choice("physical_activities", "Physical Activities", form.PhysicalActivities, opts.YesNo),
			number("sleep_hours", "Sleep Hours", formatFloat(form.SleepHours)),
			choice("had_stroke", "Had Stroke", form.HadStroke, opts.YesNo),
			choice("had_asthma", "Had Asthma", form.HadAsthma, opts.YesNo),
			choice("had_copd", "Had COPD", form.HadCOPD, opts.YesNo),
			choice("had_depressive_disorder", "Had Depressive Disorder", form.HadDepressiveDisorder, opts.YesNo),
			choice("difficulty_concentrating", "Difficulty Concentrating", form.DifficultyConcentrating, opts.YesNo),
			choice("difficulty_walking", "Difficulty Walking", form.DifficultyWalking, opts.YesNo),
			number("bmi", "BMI", form.BMI.String()),
			choice("alcohol_drinkers", "Alcohol Drinkers", form.AlcoholDrinkers, opts.YesNo),
			choice("had_diabetes", "Had Diabetes", form.HadDiabetes, opts.YesNo),
			choice("age_range", "Age Range", form.AgeRange, opts.AgeRanges),
			choice("received_vaccine", "Received Vaccine", form.ReceivedVaccine, opts.VaccineOptions),
			choice("smoking_status", "Smoking Status", form.SmokingStatus, opts.SmokingOptions),
		},
		Result: result,
		Errors: errs,
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
