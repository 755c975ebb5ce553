package predictor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// leaf marks a node without children, as in scikit-learn's tree_ arrays.
const leaf = -1

// Tree is one fitted decision tree in scikit-learn's array layout: node i
// splits on Feature[i] at Threshold[i]; leaves carry the class counts (or
// fractions) in Value[i].
type Tree struct {
	ChildrenLeft  []int       `json:"children_left" yaml:"children_left"`
	ChildrenRight []int       `json:"children_right" yaml:"children_right"`
	Feature       []int       `json:"feature" yaml:"feature"`
	Threshold     []float64   `json:"threshold" yaml:"threshold"`
	Value         [][]float64 `json:"value" yaml:"value"`
}

// Forest is a random forest classifier exported from a
// RandomForestClassifier.
type Forest struct {
	Classes   []int    `json:"classes" yaml:"classes"`
	NFeatures int      `json:"n_features" yaml:"n_features"`
	Names     []string `json:"feature_names,omitempty" yaml:"feature_names,omitempty"`
	Trees     []Tree   `json:"trees" yaml:"trees"`

	width int
}

// Load reads a forest artifact; the decoder is chosen by extension
// (.json, .yaml, .yml).
func Load(path string) (*Forest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model artifact: %w", err)
	}

	f := new(Forest)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, f)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, f)
	default:
		return nil, fmt.Errorf("unsupported model artifact %q", path)
	}
	if err != nil {
		return nil, fmt.Errorf("decode model artifact %s: %w", path, err)
	}

	if err := f.init(); err != nil {
		return nil, fmt.Errorf("model artifact %s: %w", path, err)
	}
	return f, nil
}

// NewForest validates an in-memory forest.
func NewForest(classes []int, nFeatures int, trees []Tree) (*Forest, error) {
	f := &Forest{Classes: classes, NFeatures: nFeatures, Trees: trees}
	if err := f.init(); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *Forest) init() error {
	if len(f.Trees) == 0 {
		return errors.New("forest has no trees")
	}
	if len(f.Classes) == 0 {
		return errors.New("forest has no classes")
	}
	for _, c := range f.Classes {
		if _, err := labelFrom(c); err != nil {
			return err
		}
	}
	if f.NFeatures < 0 {
		return fmt.Errorf("negative n_features %d", f.NFeatures)
	}
	if len(f.Names) > 0 && f.NFeatures > 0 && len(f.Names) != f.NFeatures {
		return fmt.Errorf("%d feature names for %d features", len(f.Names), f.NFeatures)
	}

	// declared width: n_features, else the number of feature names, else
	// whatever the splits reach
	width := f.NFeatures
	if width == 0 {
		width = len(f.Names)
	}

	maxFeature := -1
	for ti := range f.Trees {
		m, err := f.Trees[ti].check(len(f.Classes), width)
		if err != nil {
			return fmt.Errorf("tree %d: %w", ti, err)
		}
		maxFeature = max(maxFeature, m)
	}

	if width == 0 {
		width = maxFeature + 1
	}
	f.width = width
	return nil
}

// check validates the node arrays and returns the highest feature index
// used by a split.
func (t *Tree) check(nClasses, nFeatures int) (int, error) {
	n := len(t.ChildrenLeft)
	if n == 0 {
		return 0, errors.New("empty tree")
	}
	if len(t.ChildrenRight) != n || len(t.Feature) != n || len(t.Threshold) != n || len(t.Value) != n {
		return 0, errors.New("node arrays differ in length")
	}

	maxFeature := -1
	for i := 0; i < n; i++ {
		l, r := t.ChildrenLeft[i], t.ChildrenRight[i]
		if l == leaf || r == leaf {
			if l != r {
				return 0, fmt.Errorf("node %d has a single child", i)
			}
			if len(t.Value[i]) != nClasses {
				return 0, fmt.Errorf("leaf %d has %d class values, want %d", i, len(t.Value[i]), nClasses)
			}
			continue
		}
		// children always come after their parent, so walks terminate
		if l <= i || l >= n || r <= i || r >= n {
			return 0, fmt.Errorf("node %d has out-of-range children (%d, %d)", i, l, r)
		}
		feat := t.Feature[i]
		if feat < 0 || (nFeatures > 0 && feat >= nFeatures) {
			return 0, fmt.Errorf("node %d splits on feature %d", i, feat)
		}
		maxFeature = max(maxFeature, feat)
	}
	return maxFeature, nil
}

func (t *Tree) leafFor(x []float64) []float64 {
	node := 0
	for t.ChildrenLeft[node] != leaf {
		if x[t.Feature[node]] <= t.Threshold[node] {
			node = t.ChildrenLeft[node]
		} else {
			node = t.ChildrenRight[node]
		}
	}
	return t.Value[node]
}

// Width is the vector length the forest expects.
func (f *Forest) Width() int {
	return f.width
}

// FeatureNames returns the training column names recorded in the
// artifact, or nil.
func (f *Forest) FeatureNames() []string {
	return f.Names
}

// Probabilities averages the normalized leaf distributions of all trees,
// one entry per class.
func (f *Forest) Probabilities(vector []float64) ([]float64, error) {
	if len(vector) != f.width {
		return nil, fmt.Errorf("%w: got %d values, model expects %d", ErrShape, len(vector), f.width)
	}

	proba := make([]float64, len(f.Classes))
	for ti := range f.Trees {
		value := f.Trees[ti].leafFor(vector)
		var total float64
		for _, v := range value {
			total += v
		}
		if total == 0 {
			continue
		}
		for c, v := range value {
			proba[c] += v / total
		}
	}
	for c := range proba {
		proba[c] /= float64(len(f.Trees))
	}
	return proba, nil
}

// Predict returns the class with the highest mean probability; ties go to
// the first class.
func (f *Forest) Predict(_ context.Context, vector []float64) (Label, error) {
	proba, err := f.Probabilities(vector)
	if err != nil {
		return 0, err
	}
	best := 0
	for c := 1; c < len(proba); c++ {
		if proba[c] > proba[best] {
			best = c
		}
	}
	return labelFrom(f.Classes[best])
}
