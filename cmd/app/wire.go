//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/priyadesai/airhealth/internal/bootstrap"
	"github.com/priyadesai/airhealth/internal/domain/prediction"
	"github.com/priyadesai/airhealth/internal/infra/config"
	httpiface "github.com/priyadesai/airhealth/internal/interface/http"
	"github.com/priyadesai/airhealth/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideModelArtifacts,
		provideModel,
		provideFeatureList,
		providePredictionConfig,
		provideReadingSource,
		providePredictionCache,
		prediction.NewService,
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
