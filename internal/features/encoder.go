package features

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// ErrInvalidInput is returned when a request cannot be encoded.
var ErrInvalidInput = errors.New("invalid input")

// AgeColumnPrefix is the literal the training pipeline put in front of
// every age one-hot column.
const AgeColumnPrefix = "age_Age"

// Numeric bounds accepted by Encode (inclusive).
const (
	MinHealthDays = 0
	MaxHealthDays = 365
	MinSleepHours = 0.0
	MaxSleepHours = 24.0
	MinBMI        = 10.0
	MaxBMI        = 90.0
)

// Number of slots before and after the age block.
const (
	leadingSlots  = 13
	trailingSlots = 6
)

// AgeRanges lists the age bands in the order the form shows them.
var AgeRanges = []string{
	"18 to 24", "25 to 29", "30 to 34", "35 to 39", "40 to 44", "45 to 49", "50 to 54",
	"55 to 59", "60 to 64", "65 to 69", "70 to 74", "75 to 79", "80 or older",
}

// Vaccine answers, in the order of their one-hot slots.
const (
	VaccineTetanus     = "Tetanus"
	VaccineNotReceived = "Not Received"
	VaccineTDAP        = "TDAP"
)

var VaccineOptions = []string{VaccineTetanus, VaccineNotReceived, VaccineTDAP}

// Smoking answers, in the order of their one-hot slots.
const (
	SmokingNever   = "Never Smoked"
	SmokingCurrent = "Current Smoker"
	SmokingFormer  = "Former Smoker"
)

var SmokingOptions = []string{SmokingNever, SmokingCurrent, SmokingFormer}

var leadingNames = []string{
	"physicalhealthdays", "mentalhealthdays", "physicalactivities", "sleephours", "hadstroke",
	"hadasthma", "hadcopd", "haddepressivedisorder", "difficultyconcentrating",
	"difficultywalking", "bmi", "alcoholdrinkers", "had_diabetes",
}

var trailingNames = []string{
	"received_tetanus", "received_not", "received_tdap",
	"smoking_never_smoked", "smoking_current_smoker", "smoking_former_smoker",
}

// Request is one set of survey answers.
type Request struct {
	PhysicalHealthDays      int
	MentalHealthDays        int
	PhysicalActivities      bool
	SleepHours              float64
	HadStroke               bool
	HadAsthma               bool
	HadCOPD                 bool
	HadDepressiveDisorder   bool
	DifficultyConcentrating bool
	DifficultyWalking       bool
	BMI                     float64
	AlcoholDrinkers         bool
	HadDiabetes             bool
	AgeRange                string
	ReceivedVaccine         string
	SmokingStatus           string
}

// AgeColumn returns the reference column name for an age band,
// e.g. "30 to 34" -> "age_Age 30to34".
func AgeColumn(band string) string {
	return AgeColumnPrefix + " " + strings.ReplaceAll(band, " ", "")
}

// AgeColumns keeps the columns that belong to the age one-hot block,
// preserving their order.
func AgeColumns(columns []string) []string {
	var out []string
	for _, col := range columns {
		if strings.HasPrefix(col, AgeColumnPrefix) {
			out = append(out, col)
		}
	}
	return out
}

// VectorLen is the length of every vector Encode produces for the
// given number of age columns.
func VectorLen(ageColumns int) int {
	return leadingSlots + ageColumns + trailingSlots
}

// FeatureNames names every slot of the encoded vector.
func FeatureNames(ageColumns []string) []string {
	names := make([]string, 0, VectorLen(len(ageColumns)))
	names = append(names, leadingNames...)
	names = append(names, ageColumns...)
	names = append(names, trailingNames...)
	return names
}

// ParseBMI parses BMI text as submitted by a form.
func ParseBMI(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bmi %q is not a number", ErrInvalidInput, s)
	}
	return v, nil
}

// Encode builds the feature vector for req. ageColumns must be in the
// order the model was trained with.
func Encode(req Request, ageColumns []string) ([]float64, error) {
	if len(ageColumns) == 0 {
		return nil, fmt.Errorf("%w: no age reference columns", ErrInvalidInput)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	want := AgeColumn(req.AgeRange)
	ageSlot := slices.Index(ageColumns, want)
	if ageSlot < 0 {
		return nil, fmt.Errorf("%w: age range %q has no reference column %q", ErrInvalidInput, req.AgeRange, want)
	}

	vec := make([]float64, 0, VectorLen(len(ageColumns)))
	vec = append(vec,
		float64(req.PhysicalHealthDays),
		float64(req.MentalHealthDays),
		flag(req.PhysicalActivities),
		req.SleepHours,
		flag(req.HadStroke),
		flag(req.HadAsthma),
		flag(req.HadCOPD),
		flag(req.HadDepressiveDisorder),
		flag(req.DifficultyConcentrating),
		flag(req.DifficultyWalking),
		req.BMI,
		flag(req.AlcoholDrinkers),
		flag(req.HadDiabetes),
	)
	for i := range ageColumns {
		vec = append(vec, flag(i == ageSlot))
	}
	for _, v := range VaccineOptions {
		vec = append(vec, flag(req.ReceivedVaccine == v))
	}
	for _, s := range SmokingOptions {
		vec = append(vec, flag(req.SmokingStatus == s))
	}
	return vec, nil
}

// Validate checks ranges and categories without touching the reference
// columns.
func (r Request) Validate() error {
	if r.PhysicalHealthDays < MinHealthDays || r.PhysicalHealthDays > MaxHealthDays {
		return fmt.Errorf("%w: physical health days %d outside [%d, %d]", ErrInvalidInput, r.PhysicalHealthDays, MinHealthDays, MaxHealthDays)
	}
	if r.MentalHealthDays < MinHealthDays || r.MentalHealthDays > MaxHealthDays {
		return fmt.Errorf("%w: mental health days %d outside [%d, %d]", ErrInvalidInput, r.MentalHealthDays, MinHealthDays, MaxHealthDays)
	}
	if math.IsNaN(r.SleepHours) || r.SleepHours < MinSleepHours || r.SleepHours > MaxSleepHours {
		return fmt.Errorf("%w: sleep hours %v outside [%v, %v]", ErrInvalidInput, r.SleepHours, MinSleepHours, MaxSleepHours)
	}
	if math.IsNaN(r.BMI) || r.BMI < MinBMI || r.BMI > MaxBMI {
		return fmt.Errorf("%w: bmi %v outside [%v, %v]", ErrInvalidInput, r.BMI, MinBMI, MaxBMI)
	}
	if !slices.Contains(AgeRanges, r.AgeRange) {
		return fmt.Errorf("%w: unknown age range %q", ErrInvalidInput, r.AgeRange)
	}
	if !slices.Contains(VaccineOptions, r.ReceivedVaccine) {
		return fmt.Errorf("%w: unknown vaccine answer %q", ErrInvalidInput, r.ReceivedVaccine)
	}
	if !slices.Contains(SmokingOptions, r.SmokingStatus) {
		return fmt.Errorf("%w: unknown smoking status %q", ErrInvalidInput, r.SmokingStatus)
	}
	return nil
}

func flag(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
