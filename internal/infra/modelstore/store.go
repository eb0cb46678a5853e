package modelstore

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/priyadesai/airhealth/internal/domain/prediction"
)

// Load reads the model export and feature manifest from disk and resolves
// the feature set the model expects.
func Load(modelPath, manifestPath, featureSet string, logger *slog.Logger) (*prediction.Model, []string, error) {
	modelData, err := os.ReadFile(modelPath)
	if err != nil {
		return nil, nil, fmt.Errorf("read model export: %w", err)
	}
	model, err := prediction.DecodeModel(modelData)
	if err != nil {
		return nil, nil, err
	}

	manifestData, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, nil, fmt.Errorf("read feature manifest: %w", err)
	}
	manifest, err := prediction.DecodeManifest(manifestData)
	if err != nil {
		return nil, nil, err
	}
	features, err := manifest.Set(featureSet)
	if err != nil {
		return nil, nil, err
	}

	// A model exported with its own feature list must agree with the
	// manifest, otherwise vectors would be silently misaligned.
	if len(model.Features) > 0 && len(model.Features) != len(features) {
		return nil, nil, fmt.Errorf("model expects %d features but set %q has %d",
			len(model.Features), featureSet, len(features))
	}

	logger.Info("model loaded",
		"path", modelPath,
		"trees", len(model.Trees),
		"feature_set", featureSet,
		"features", len(features))
	return model, features, nil
}
