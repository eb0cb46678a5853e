package prediction

import (
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/priyadesai/airhealth/pkg/errors"
)

func stumpModel() *Model {
	// Single decision stump: pm25_lag_1h <= 30 lowers the score, above
	// raises it.
	return &Model{
		ModelType:    "gradient_boosting",
		Target:       "aqi",
		BaseScore:    50,
		LearningRate: 1.0,
		Features:     []string{"pm25_lag_1h", "temperature"},
		Trees: []Tree{{
			Feature:   []int{0, -1, -1},
			Threshold: []float64{30, 0, 0},
			Left:      []int{1, 0, 0},
			Right:     []int{2, 0, 0},
			Value:     []float64{0, -10, 20},
		}},
	}
}

func TestModelPredict(t *testing.T) {
	m := stumpModel()
	require.NoError(t, m.Validate())

	require.Equal(t, 40.0, m.Predict([]float64{20, 25}))
	require.Equal(t, 70.0, m.Predict([]float64{40, 25}))
	// Boundary goes left.
	require.Equal(t, 40.0, m.Predict([]float64{30, 25}))
}

func TestModelPredictAppliesLearningRate(t *testing.T) {
	m := stumpModel()
	m.LearningRate = 0.1
	m.Trees = append(m.Trees, m.Trees[0])

	// Two identical stumps at lr 0.1: 50 + 0.1*(20+20).
	require.InDelta(t, 54.0, m.Predict([]float64{40, 25}), 1e-9)
}

func TestModelPredictBatch(t *testing.T) {
	m := stumpModel()
	got := m.PredictBatch([][]float64{{20, 25}, {40, 25}})
	require.Equal(t, []float64{40, 70}, got)
}

func TestDecodeModelRoundTrip(t *testing.T) {
	payload := []byte(`{
		"model_type": "gradient_boosting",
		"target": "aqi",
		"base_score": 97.5,
		"learning_rate": 0.1,
		"features": ["aqi_lag_1h"],
		"trees": [{
			"feature": [0, -1, -1],
			"threshold": [100, 0, 0],
			"children_left": [1, 0, 0],
			"children_right": [2, 0, 0],
			"value": [0, -5, 5]
		}]
	}`)
	m, err := DecodeModel(payload)
	require.NoError(t, err)
	require.Len(t, m.Trees, 1)
	require.InDelta(t, 97.0, m.Predict([]float64{50}), 1e-9)
}

func TestDecodeModelRejectsGarbage(t *testing.T) {
	_, err := DecodeModel([]byte(`{"trees": "nope"`))
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, CodeModelInvalid))
}

func TestValidateRejectsInconsistentTrees(t *testing.T) {
	m := stumpModel()
	m.Trees[0].Value = m.Trees[0].Value[:2]
	err := m.Validate()
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, CodeModelInvalid))
}

func TestValidateRejectsFeatureOutOfRange(t *testing.T) {
	m := stumpModel()
	m.Trees[0].Feature[0] = 7
	err := m.Validate()
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, CodeModelInvalid))
}

func TestVectorizeZeroFillsMissing(t *testing.T) {
	features := []string{"a", "b", "c"}
	x := Vectorize(features, map[string]float64{"a": 1, "c": 3, "ignored": 9})
	require.Equal(t, []float64{1, 0, 3}, x)
}

func TestManifestSet(t *testing.T) {
	m, err := DecodeManifest([]byte(`{"comprehensive": ["a", "b"], "minimal": ["a"]}`))
	require.NoError(t, err)

	features, err := m.Set(DefaultFeatureSet)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, features)

	_, err = m.Set("missing")
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, CodeModelInvalid))
}
