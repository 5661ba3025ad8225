package db

import (
	"bitwise74/newsletter-api/internal/model"
	"fmt"

	"gorm.io/gorm"
)

type migration struct {
	name string
	run  func(tx *gorm.DB) error
}

// Steps AutoMigrate can't express. Append only, never reorder or rename.
var migrations = []migration{
	{
		name: "0001_subscriptions_status_index",
		run: func(tx *gorm.DB) error {
			return tx.Exec("CREATE INDEX IF NOT EXISTS idx_subscriptions_status ON subscriptions (status)").Error
		},
	},
	{
		name: "0002_backfill_pending_status",
		run: func(tx *gorm.DB) error {
			return tx.Model(&model.Subscription{}).
				Where("status IS NULL OR status = ''").
				Update("status", model.StatusPendingConfirmation).
				Error
		},
	},
}

// Migrate brings the schema up to date: gorm creates or alters the
// tables, then every named migration not yet recorded in the migrations
// table runs inside its own transaction.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(&model.Subscription{}, &model.SubscriptionToken{}, &model.Migration{})
	if err != nil {
		return fmt.Errorf("failed to automigrate tables, %w", err)
	}

	for _, m := range migrations {
		var applied int64
		if err := db.Model(&model.Migration{}).Where("name = ?", m.name).Count(&applied).Error; err != nil {
			return fmt.Errorf("failed to check migration %s, %w", m.name, err)
		}

		if applied > 0 {
			continue
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := m.run(tx); err != nil {
				return err
			}

			return tx.Create(&model.Migration{Name: m.name}).Error
		})
		if err != nil {
			return fmt.Errorf("failed to apply migration %s, %w", m.name, err)
		}
	}

	return nil
}
