package container

import (
	"fmt"

	"hplusminus/adapters/api"
	"hplusminus/adapters/residuals"
	"hplusminus/app"
	"hplusminus/internal"
	"hplusminus/internal/calibration"
	"hplusminus/internal/config"
	"hplusminus/ports"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Calibration is loaded on first use and shared by every consumer
	Calibration *calibration.Lazy

	Residuals ports.ResidualSource
	Service   *app.EvaluationService
}

// New creates a new dependency injection container
func New(cfg *config.Config, logger *internal.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}

	c := &Container{
		Config:      cfg,
		Logger:      logger,
		Calibration: calibration.NewLazy(cfg.Calibration.Dir),
	}
	c.Residuals = residuals.NewDataReader().WithLogger(logger)
	c.Service = app.NewEvaluationService(c.Calibration).WithLogger(logger)

	logger.Debug("container initialized (calibration %s)", c.Calibration.Dir())
	return c, nil
}

// Server builds the HTTP API on top of the evaluation service
func (c *Container) Server() *api.Server {
	opts := api.DefaultOptions()
	opts.MaxConcurrent = c.Config.Server.MaxConcurrent
	return api.NewServerWithOptions(c.Service, c.Logger, opts)
}
