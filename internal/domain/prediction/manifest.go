package prediction

import (
	"encoding/json"
	"fmt"

	apperrors "github.com/priyadesai/airhealth/pkg/errors"
)

// DefaultFeatureSet is the set the production model was trained on.
const DefaultFeatureSet = "comprehensive"

// Manifest maps feature set names to ordered feature lists. The order
// matters: it defines the position of each feature in the model input
// vector.
type Manifest map[string][]string

// DecodeManifest parses a feature_sets.json export.
func DecodeManifest(data []byte) (Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, apperrors.Wrap(CodeModelInvalid, "feature manifest is not valid JSON", err)
	}
	return m, nil
}

// Set returns the named feature list.
func (m Manifest) Set(name string) ([]string, error) {
	features, ok := m[name]
	if !ok || len(features) == 0 {
		return nil, apperrors.New(CodeModelInvalid,
			fmt.Sprintf("feature set %q not found in manifest", name))
	}
	return features, nil
}

// Vectorize maps named feature values onto the ordered vector for the given
// feature list. Missing features become zero, matching training-time
// imputation.
func Vectorize(features []string, values map[string]float64) []float64 {
	x := make([]float64, len(features))
	for i, name := range features {
		if v, ok := values[name]; ok {
			x[i] = v
		}
	}
	return x
}
