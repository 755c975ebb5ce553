package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/AloysioLvy/CardioRiskAnalyzer/internal/config"
	"github.com/AloysioLvy/CardioRiskAnalyzer/internal/features"
	"github.com/AloysioLvy/CardioRiskAnalyzer/internal/logger"
	"github.com/AloysioLvy/CardioRiskAnalyzer/internal/models"
	"github.com/AloysioLvy/CardioRiskAnalyzer/internal/reference"
	"github.com/AloysioLvy/CardioRiskAnalyzer/internal/services"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "cardiorisk",
		Short:         "Heart disease risk prediction from survey answers",
		Long:          `Encodes survey answers into the model's feature vector and classifies them. Artifacts are located through the same environment variables as the server (MODEL_PATH, MODEL_URL, REFERENCE_DATA_PATH, DB_*).`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().Duration("timeout", 30*time.Second, "Timeout for loading artifacts and predicting")

	root.AddCommand(newColumnsCmd(), newEncodeCmd(), newPredictCmd())
	return root
}

func newColumnsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "columns",
		Short: "List the age one-hot columns of the reference dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()

			cols, err := loadColumns(ctx)
			if err != nil {
				return err
			}
			for _, c := range cols.AgeColumns() {
				fmt.Fprintln(cmd.OutOrStdout(), c)
			}
			return nil
		},
	}
}

func newEncodeCmd() *cobra.Command {
	req := defaultRequest()
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Print the feature vector for a set of answers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()

			cols, err := loadColumns(ctx)
			if err != nil {
				return err
			}
			fr, err := services.ToFeatures(req)
			if err != nil {
				return err
			}
			ages := cols.AgeColumns()
			vec, err := features.Encode(fr, ages)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(models.FeatureVector{Names: features.FeatureNames(ages), Values: vec})
			}
			names := features.FeatureNames(ages)
			for i, v := range vec {
				fmt.Fprintf(out, "%-28s %v\n", names[i], v)
			}
			return nil
		},
	}
	bindRequestFlags(cmd, req)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print names and values as JSON")
	return cmd
}

func newPredictCmd() *cobra.Command {
	req := defaultRequest()

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Classify a set of answers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			zl, err := logger.NewLogger(cfg.LogLevel, "console", "cardiorisk-cli")
			if err != nil {
				return err
			}
			defer zl.Sync()

			ctx, cancel := commandContext(cmd)
			defer cancel()

			artifacts, err := services.LoadArtifacts(ctx, cfg, zl)
			if err != nil {
				return fmt.Errorf("load artifacts: %w", err)
			}
			res, err := services.NewPredictionService(artifacts, zl).Predict(ctx, req)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Message)
			return nil
		},
	}
	bindRequestFlags(cmd, req)
	return cmd
}

// commandContext bounds a command by the --timeout flag.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	timeout, err := cmd.Flags().GetDuration("timeout")
	if err != nil || timeout <= 0 {
		return context.WithCancel(cmd.Context())
	}
	return context.WithTimeout(cmd.Context(), timeout)
}

func loadColumns(ctx context.Context) (reference.Columns, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return services.LoadColumns(ctx, cfg)
}

// defaultRequest mirrors the blank form: zeros, "No" everywhere and the
// first option of every list.
func defaultRequest() *models.PredictionRequest {
	return &models.PredictionRequest{
		PhysicalActivities:      models.No,
		HadStroke:               models.No,
		HadAsthma:               models.No,
		HadCOPD:                 models.No,
		HadDepressiveDisorder:   models.No,
		DifficultyConcentrating: models.No,
		DifficultyWalking:       models.No,
		BMI:                     "10",
		AlcoholDrinkers:         models.No,
		HadDiabetes:             models.No,
		AgeRange:                features.AgeRanges[0],
		ReceivedVaccine:         features.VaccineOptions[0],
		SmokingStatus:           features.SmokingOptions[0],
	}
}

func bindRequestFlags(cmd *cobra.Command, req *models.PredictionRequest) {
	f := cmd.Flags()
	f.IntVar(&req.PhysicalHealthDays, "physical-health-days", req.PhysicalHealthDays, "Days of poor physical health (0-365)")
	f.IntVar(&req.MentalHealthDays, "mental-health-days", req.MentalHealthDays, "Days of poor mental health (0-365)")
	f.Float64Var(&req.SleepHours, "sleep-hours", req.SleepHours, "Average sleep hours (0-24)")
	f.Var((*numberFlag)(&req.BMI), "bmi", "Body-mass index (10-90)")

	yesNo := []struct {
		name  string
		dst   *string
		usage string
	}{
		{"physical-activities", &req.PhysicalActivities, "Physical activity in the last month"},
		{"had-stroke", &req.HadStroke, "Ever had a stroke"},
		{"had-asthma", &req.HadAsthma, "Ever had asthma"},
		{"had-copd", &req.HadCOPD, "Ever had COPD"},
		{"had-depressive-disorder", &req.HadDepressiveDisorder, "Ever had a depressive disorder"},
		{"difficulty-concentrating", &req.DifficultyConcentrating, "Difficulty concentrating"},
		{"difficulty-walking", &req.DifficultyWalking, "Difficulty walking"},
		{"alcohol-drinkers", &req.AlcoholDrinkers, "Drinks alcohol"},
		{"had-diabetes", &req.HadDiabetes, "Ever had diabetes"},
	}
	for _, yn := range yesNo {
		f.StringVar(yn.dst, yn.name, *yn.dst, yn.usage+" (Yes/No)")
	}

	f.StringVar(&req.AgeRange, "age-range", req.AgeRange, "Age band: "+strings.Join(features.AgeRanges, ", "))
	f.StringVar(&req.ReceivedVaccine, "received-vaccine", req.ReceivedVaccine, "Vaccine: "+strings.Join(features.VaccineOptions, ", "))
	f.StringVar(&req.SmokingStatus, "smoking-status", req.SmokingStatus, "Smoking: "+strings.Join(features.SmokingOptions, ", "))
}

// numberFlag lets --bmi keep the raw text so that parse errors are
// reported by the encoder like they are for the form.
type numberFlag json.Number

func (n *numberFlag) String() string     { return string(*n) }
func (n *numberFlag) Set(s string) error { *n = numberFlag(s); return nil }
func (n *numberFlag) Type() string       { return "number" }
