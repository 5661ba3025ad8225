package internal

import (
	"bitwise74/newsletter-api/config"
	"bitwise74/newsletter-api/internal/metrics"
	"bitwise74/newsletter-api/internal/service"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps is built once in main and handed to every handler
type Deps struct {
	Settings      *config.Settings
	DB            *gorm.DB
	Log           *zap.Logger
	Metrics       *metrics.Metrics
	Subscriptions *service.Subscriptions
}
