package core

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jo-hoe/pixscribe/internal/backend/database"
	"github.com/jo-hoe/pixscribe/internal/backend/upstream"
	"github.com/jo-hoe/pixscribe/internal/gallery"
)

// CoreService owns the long-lived dependencies shared by the HTTP routes.
type CoreService struct {
	config          *ServiceConfig
	databaseService database.DatabaseService
	generator       upstream.Generator
	gallery         *gallery.Store
}

func NewCoreService(config *ServiceConfig) (*CoreService, error) {
	databaseService, err := getDatabaseService(config)
	if err != nil {
		return nil, err
	}

	httpClient := &http.Client{Timeout: config.Upstream.Timeout}
	noLogo := config.Upstream.NoLogo == nil || *config.Upstream.NoLogo
	generator := upstream.NewPollinationsGenerator(
		httpClient,
		config.Upstream.BaseURL,
		config.Upstream.Width,
		config.Upstream.Height,
		noLogo,
	).WithToken(config.Upstream.Token)

	return &CoreService{
		config:          config,
		databaseService: databaseService,
		generator:       generator,
		gallery:         gallery.NewStore(databaseService, config.Gallery.Key),
	}, nil
}

// NewCoreServiceWith is used when the generator or database is provided by
// the caller, e.g. in tests.
func NewCoreServiceWith(config *ServiceConfig, databaseService database.DatabaseService, generator upstream.Generator) *CoreService {
	return &CoreService{
		config:          config,
		databaseService: databaseService,
		generator:       generator,
		gallery:         gallery.NewStore(databaseService, config.Gallery.Key),
	}
}

func (service *CoreService) Generator() upstream.Generator {
	return service.generator
}

func (service *CoreService) Gallery() *gallery.Store {
	return service.gallery
}

func (service *CoreService) Close() error {
	return service.databaseService.Close()
}

func getDatabaseService(config *ServiceConfig) (database.DatabaseService, error) {
	databaseService, err := database.NewDatabase(config.Gallery.Type, config.Gallery.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	slog.Info("database initialized successfully", "type", config.Gallery.Type, "key", config.Gallery.Key)
	return databaseService, nil
}
