package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"github.com/rexe-automation/dispatch-notifier/internal/repository"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		createNotifiedDeliveriesTable(),
	})

	return m.Migrate()
}

func createNotifiedDeliveriesTable() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "000001_create_notified_deliveries",
		Migrate: func(tx *gorm.DB) error {
			if err := tx.AutoMigrate(&repository.NotifiedDeliveryModel{}); err != nil {
				return err
			}
			// The unique order-number index comes from the model tags; the
			// created_at index serves the newest-first dashboard listing.
			return tx.Exec(`CREATE INDEX IF NOT EXISTS idx_notified_deliveries_created_at ON notified_deliveries (created_at DESC)`).Error
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Migrator().DropTable(&repository.NotifiedDeliveryModel{})
		},
	}
}
