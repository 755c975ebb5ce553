// Package predictor holds the binary heart-disease classifiers the
// service can be backed by.
package predictor

import (
	"context"
	"errors"
	"fmt"
)

// ErrShape is returned when a feature vector does not have the length the
// model was trained with.
var ErrShape = errors.New("feature vector shape mismatch")

// Label is the classifier output.
type Label int

const (
	NotAtRisk Label = 0
	AtRisk    Label = 1
)

func (l Label) Valid() bool {
	return l == NotAtRisk || l == AtRisk
}

// Predictor classifies one feature vector.
type Predictor interface {
	Predict(ctx context.Context, vector []float64) (Label, error)
}

// FeatureNamer is implemented by predictors whose artifact records the
// column names it was trained on.
type FeatureNamer interface {
	FeatureNames() []string
}

func labelFrom(v int) (Label, error) {
	l := Label(v)
	if !l.Valid() {
		return 0, fmt.Errorf("classifier returned unknown class %d", v)
	}
	return l, nil
}
