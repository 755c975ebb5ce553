package models

import "encoding/json"

// PredictionRequest is what the form (or a JSON client) submits. Yes/No
// answers arrive as the literal strings shown on the form.
type PredictionRequest struct {
	PhysicalHealthDays      int         `json:"physical_health_days" form:"physical_health_days" validate:"min=0,max=365"`
	MentalHealthDays        int         `json:"mental_health_days" form:"mental_health_days" validate:"min=0,max=365"`
	PhysicalActivities      string      `json:"physical_activities" form:"physical_activities" validate:"required,oneof=Yes No"`
	SleepHours              float64     `json:"sleep_hours" form:"sleep_hours" validate:"min=0,max=24"`
	HadStroke               string      `json:"had_stroke" form:"had_stroke" validate:"required,oneof=Yes No"`
	HadAsthma               string      `json:"had_asthma" form:"had_asthma" validate:"required,oneof=Yes No"`
	HadCOPD                 string      `json:"had_copd" form:"had_copd" validate:"required,oneof=Yes No"`
	HadDepressiveDisorder   string      `json:"had_depressive_disorder" form:"had_depressive_disorder" validate:"required,oneof=Yes No"`
	DifficultyConcentrating string      `json:"difficulty_concentrating" form:"difficulty_concentrating" validate:"required,oneof=Yes No"`
	DifficultyWalking       string      `json:"difficulty_walking" form:"difficulty_walking" validate:"required,oneof=Yes No"`
	BMI                     json.Number `json:"bmi" form:"bmi" validate:"required"`
	AlcoholDrinkers         string      `json:"alcohol_drinkers" form:"alcohol_drinkers" validate:"required,oneof=Yes No"`
	HadDiabetes             string      `json:"had_diabetes" form:"had_diabetes" validate:"required,oneof=Yes No"`
	AgeRange                string      `json:"age_range" form:"age_range" validate:"required"`
	ReceivedVaccine         string      `json:"received_vaccine" form:"received_vaccine" validate:"required"`
	SmokingStatus           string      `json:"smoking_status" form:"smoking_status" validate:"required"`
}

// Answer values accepted by the Yes/No fields.
const (
	Yes = "Yes"
	No  = "No"
)
