package models

import "gorm.io/gorm"

// MigrateDatabase runs AutoMigrate for every model. Called by cmd tools at
// startup.
func MigrateDatabase(db *gorm.DB) error {
	return db.AutoMigrate(
		&PricingTier{},
		&InvoiceFile{},
		&InvoiceRow{},
		&ProductPrice{},
		&Wallet{},
		&WalletTransaction{},
		&Coupon{},
	)
}
