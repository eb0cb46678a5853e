package prediction

import (
	"encoding/json"
	"fmt"
	"math"

	apperrors "github.com/priyadesai/airhealth/pkg/errors"
)

const CodeModelInvalid = "model_invalid"

// Tree is one regression tree in flattened array form: node i branches to
// Left[i] / Right[i], leaves are marked by Feature[i] == -1 and carry their
// output in Value[i].
type Tree struct {
	Feature   []int     `json:"feature"`
	Threshold []float64 `json:"threshold"`
	Left      []int     `json:"children_left"`
	Right     []int     `json:"children_right"`
	Value     []float64 `json:"value"`
}

// Model is a gradient-boosted tree ensemble exported to JSON. The prediction
// is BaseScore plus LearningRate times the sum of tree outputs.
type Model struct {
	ModelType    string   `json:"model_type"`
	Target       string   `json:"target"`
	BaseScore    float64  `json:"base_score"`
	LearningRate float64  `json:"learning_rate"`
	Features     []string `json:"features"`
	Trees        []Tree   `json:"trees"`
}

// DecodeModel parses and validates a JSON model export.
func DecodeModel(data []byte) (*Model, error) {
	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, apperrors.Wrap(CodeModelInvalid, "model export is not valid JSON", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks structural consistency so Predict can traverse without
// bounds checks failing mid-request.
func (m *Model) Validate() error {
	if len(m.Trees) == 0 {
		return apperrors.New(CodeModelInvalid, "model has no trees")
	}
	if m.LearningRate <= 0 {
		return apperrors.New(CodeModelInvalid, "model learning rate must be positive")
	}
	numFeatures := len(m.Features)
	for ti, tree := range m.Trees {
		n := len(tree.Feature)
		if n == 0 ||
			len(tree.Threshold) != n ||
			len(tree.Left) != n ||
			len(tree.Right) != n ||
			len(tree.Value) != n {
			return apperrors.New(CodeModelInvalid,
				fmt.Sprintf("tree %d has inconsistent node arrays", ti))
		}
		for i := 0; i < n; i++ {
			if tree.Feature[i] < 0 {
				continue
			}
			if numFeatures > 0 && tree.Feature[i] >= numFeatures {
				return apperrors.New(CodeModelInvalid,
					fmt.Sprintf("tree %d node %d references feature %d of %d", ti, i, tree.Feature[i], numFeatures))
			}
			if tree.Left[i] < 0 || tree.Left[i] >= n || tree.Right[i] < 0 || tree.Right[i] >= n {
				return apperrors.New(CodeModelInvalid,
					fmt.Sprintf("tree %d node %d has child out of range", ti, i))
			}
		}
	}
	return nil
}

// Predict scores a single feature vector. The vector must be ordered as
// m.Features; missing values should already be zero-filled by the caller.
func (m *Model) Predict(x []float64) float64 {
	sum := 0.0
	for i := range m.Trees {
		sum += m.Trees[i].score(x)
	}
	return m.BaseScore + m.LearningRate*sum
}

// PredictBatch scores many vectors at once.
func (m *Model) PredictBatch(rows [][]float64) []float64 {
	out := make([]float64, len(rows))
	for i, x := range rows {
		out[i] = m.Predict(x)
	}
	return out
}

func (t *Tree) score(x []float64) float64 {
	i := 0
	for t.Feature[i] >= 0 {
		v := 0.0
		if t.Feature[i] < len(x) {
			v = x[t.Feature[i]]
		}
		if math.IsNaN(v) {
			v = 0
		}
		if v <= t.Threshold[i] {
			i = t.Left[i]
		} else {
			i = t.Right[i]
		}
	}
	return t.Value[i]
}
