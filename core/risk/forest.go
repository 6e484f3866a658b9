package risk

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
)

const leafMarker = -2 // sklearn convention for leaf nodes

type (
	// tree is one decision tree in sklearn node-array form: node i splits on
	// Feature[i] at Threshold[i] (x <= t goes left), or is a leaf holding
	// per-class votes in Value[i] when Feature[i] == leafMarker.
	tree struct {
		Feature   []int       `json:"feature"`
		Threshold []float64   `json:"threshold"`
		Left      []int       `json:"children_left"`
		Right     []int       `json:"children_right"`
		Value     [][]float64 `json:"value"`
	}

	// Model is an opaque pre-trained classifier: a majority-vote forest over
	// a fixed-width numeric feature vector. It is never retrained here.
	Model struct {
		NumFeatures int    `json:"n_features"`
		NumClasses  int    `json:"n_classes"`
		Trees       []tree `json:"forest"`
	}

	// artifact is the on-disk JSON layout: the trained forest plus the
	// categorical vocabularies it was fitted with.
	artifact struct {
		Model
		Classes struct {
			FeeStatus           []string `json:"fee_status"`
			FinancialDifficulty []string `json:"financial_difficulty"`
			RiskLevel           []string `json:"risk_level"`
		} `json:"classes"`
	}
)

func (t *tree) validate(numClasses int) error {
	n := len(t.Feature)
	if len(t.Threshold) != n || len(t.Left) != n || len(t.Right) != n || len(t.Value) != n {
		return errors.New("inconsistent node array lengths")
	}
	for i := 0; i < n; i++ {
		if t.Feature[i] == leafMarker && len(t.Value[i]) != numClasses {
			return errors.Errorf("leaf %d holds %d class votes, want %d", i, len(t.Value[i]), numClasses)
		}
	}
	return nil
}

// eval walks the tree for one feature vector and returns the leaf votes.
func (t *tree) eval(features []float64) ([]float64, error) {
	node := 0
	for steps := 0; steps <= len(t.Feature); steps++ {
		if node < 0 || node >= len(t.Feature) {
			return nil, errors.Errorf("node index %d out of range", node)
		}
		f := t.Feature[node]
		if f == leafMarker {
			return t.Value[node], nil
		}
		if f < 0 || f >= len(features) {
			return nil, errors.Errorf("split feature %d out of range", f)
		}
		if features[f] <= t.Threshold[node] {
			node = t.Left[node]
		} else {
			node = t.Right[node]
		}
	}
	return nil, errors.New("tree walk did not reach a leaf")
}

// Predict runs the feature vector through every tree and returns the class
// code with the highest aggregate vote.
func (m *Model) Predict(features []float64) (int, error) {
	if len(features) != m.NumFeatures {
		return 0, errors.Errorf("got %d features, model takes %d", len(features), m.NumFeatures)
	}
	votes := make([]float64, m.NumClasses)
	for i := range m.Trees {
		leaf, err := m.Trees[i].eval(features)
		if err != nil {
			return 0, errors.Wrapf(err, "tree %d", i)
		}
		for c, v := range leaf {
			votes[c] += v
		}
	}
	best := 0
	for c := 1; c < len(votes); c++ {
		if votes[c] > votes[best] {
			best = c
		}
	}
	return best, nil
}

func (m *Model) validate() error {
	if m.NumFeatures <= 0 {
		return errors.New("model takes no features")
	}
	if m.NumClasses <= 0 {
		return errors.New("model predicts no classes")
	}
	if len(m.Trees) == 0 {
		return errors.New("model holds no trees")
	}
	for i := range m.Trees {
		if err := m.Trees[i].validate(m.NumClasses); err != nil {
			return errors.Wrapf(err, "tree %d", i)
		}
	}
	return nil
}

func loadArtifact(path string) (*artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading model artifact %s", path)
	}
	var art artifact
	if err = json.Unmarshal(data, &art); err != nil {
		return nil, errors.Wrapf(err, "parsing model artifact %s", path)
	}
	if err = art.Model.validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid model artifact %s", path)
	}
	return &art, nil
}
