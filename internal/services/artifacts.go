package services

import (
	"context"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/AloysioLvy/CardioRiskAnalyzer/internal/config"
	"github.com/AloysioLvy/CardioRiskAnalyzer/internal/database"
	"github.com/AloysioLvy/CardioRiskAnalyzer/internal/features"
	"github.com/AloysioLvy/CardioRiskAnalyzer/internal/predictor"
	"github.com/AloysioLvy/CardioRiskAnalyzer/internal/reference"
)

// Artifacts holds everything loaded once at startup. It is read-only after
// construction and shared by all requests.
type Artifacts struct {
	Predictor  predictor.Predictor
	Columns    reference.Columns
	AgeColumns []string
}

// NewArtifacts checks that the predictor and the reference columns agree
// on the vector layout.
func NewArtifacts(p predictor.Predictor, cols reference.Columns) (*Artifacts, error) {
	ages := cols.AgeColumns()
	if len(ages) == 0 {
		return nil, reference.ErrNoAgeColumns
	}

	if w, ok := p.(interface{ Width() int }); ok {
		if want := features.VectorLen(len(ages)); w.Width() != want {
			return nil, fmt.Errorf("%w: model expects %d features, reference data yields %d", predictor.ErrShape, w.Width(), want)
		}
	}
	if n, ok := p.(predictor.FeatureNamer); ok && len(n.FeatureNames()) > 0 {
		if want := features.FeatureNames(ages); !slices.Equal(n.FeatureNames(), want) {
			return nil, fmt.Errorf("model feature names do not match reference columns: model %v, reference %v", n.FeatureNames(), want)
		}
	}

	return &Artifacts{Predictor: p, Columns: cols, AgeColumns: ages}, nil
}

// LoadArtifacts reads the model and the reference dataset described by cfg.
func LoadArtifacts(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Artifacts, error) {
	p, err := loadPredictor(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	cols, err := LoadColumns(ctx, cfg)
	if err != nil {
		return nil, err
	}

	a, err := NewArtifacts(p, cols)
	if err != nil {
		return nil, err
	}

	logger.Info("artifacts loaded",
		zap.Int("reference_columns", len(a.Columns)),
		zap.Int("age_columns", len(a.AgeColumns)),
		zap.Int("vector_len", features.VectorLen(len(a.AgeColumns))),
	)
	return a, nil
}

func loadPredictor(ctx context.Context, cfg *config.Config, logger *zap.Logger) (predictor.Predictor, error) {
	if cfg.ModelURL != "" {
		remote := predictor.NewRemote(cfg.ModelURL, cfg.ModelTimeout, logger)
		if err := remote.Ping(ctx); err != nil {
			return nil, err
		}
		logger.Info("using inference service", zap.String("model_url", cfg.ModelURL))
		return remote, nil
	}

	forest, err := predictor.Load(cfg.ModelPath)
	if err != nil {
		return nil, err
	}
	logger.Info("model loaded",
		zap.String("model_path", cfg.ModelPath),
		zap.Int("trees", len(forest.Trees)),
		zap.Int("features", forest.Width()),
	)
	return forest, nil
}

// LoadColumns reads the reference header from a file or, when a database
// driver is configured, from the reference table.
func LoadColumns(ctx context.Context, cfg *config.Config) (reference.Columns, error) {
	if cfg.DBDriver == "" {
		return reference.LoadFile(cfg.ReferenceDataPath)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect reference database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	defer sqlDB.Close()

	return reference.LoadTable(ctx, db, cfg.ReferenceTable)
}
