package models

// PredictionResult is returned to the page and the JSON API.
type PredictionResult struct {
	RequestID string    `json:"request_id"`
	Label     int       `json:"label"`
	AtRisk    bool      `json:"at_risk"`
	Message   string    `json:"message"`
	Color     string    `json:"color"`
	Image     string    `json:"image"`
	Features  []float64 `json:"features,omitempty"`
}

// FeatureVector is an encoded request with the column name of every slot.
type FeatureVector struct {
	Names  []string  `json:"names"`
	Values []float64 `json:"values"`
}

// NumericBound describes the accepted range of a numeric field.
type NumericBound struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Step float64 `json:"step"`
}

// FormOptions lists the choices and bounds the form offers.
type FormOptions struct {
	YesNo          []string                `json:"yes_no"`
	AgeRanges      []string                `json:"age_ranges"`
	VaccineOptions []string                `json:"vaccine_options"`
	SmokingOptions []string                `json:"smoking_options"`
	Bounds         map[string]NumericBound `json:"bounds"`
}
