package fusion

import (
	"datafusion/core/export"
	"datafusion/core/merge"
	"datafusion/core/reader"
	"datafusion/core/storage"
	"datafusion/core/transform"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates a new Fusion feature.
func NewFeature(r *reader.Reader, mergeCfg merge.Config, e *export.Exporter, reg *transform.Registry, archiver *storage.Archiver, logger *zap.Logger) *Feature {
	svc := NewService(r, mergeCfg, e, reg, archiver, logger)
	h := NewHandler(svc)
	return &Feature{service: svc, handler: h}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "fusion"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
