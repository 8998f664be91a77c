// seed-pricing-tiers creates the default processing-fee tier table.
//
// Usage:
//
//	DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... go run ./cmd/seed-pricing-tiers
//
// Running it again is a no-op for tiers that already exist (matched by name).
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/digihesabyar/hesab_backend/config"
	"github.com/digihesabyar/hesab_backend/models"
	"gorm.io/gorm"
)

func intPtr(n int) *int { return &n }

var defaultTiers = []models.PricingTier{
	{Name: "پایه", MinRows: 1, MaxRows: intPtr(500), PricePerInvoice: 490000},
	{Name: "میانی", MinRows: 501, MaxRows: intPtr(1000), PricePerInvoice: 890000},
	{Name: "نامحدود", MinRows: 1001, MaxRows: nil, PricePerInvoice: 1290000},
}

func main() {
	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	if os.Getenv("REDIS_ADDRESS") != "" {
		config.ConnectRedisWithRetry()
	}
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}

	if err := models.MigrateDatabase(db); err != nil {
		fmt.Fprintf(os.Stderr, "failed to migrate: %v\n", err)
		os.Exit(1)
	}

	for _, tier := range defaultTiers {
		var existing models.PricingTier
		err := db.WithContext(ctx).Where("name = ?", tier.Name).First(&existing).Error
		if err == nil {
			fmt.Printf("tier %q already exists (min_rows=%d), skipping\n", tier.Name, existing.MinRows)
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			fmt.Fprintf(os.Stderr, "failed to lookup tier %q: %v\n", tier.Name, err)
			os.Exit(1)
		}
		if err := db.WithContext(ctx).Create(&tier).Error; err != nil {
			fmt.Fprintf(os.Stderr, "failed to create tier %q: %v\n", tier.Name, err)
			os.Exit(1)
		}
		fmt.Printf("created tier %q (min_rows=%d price=%d)\n", tier.Name, tier.MinRows, tier.PricePerInvoice)
	}

	if err := models.InvalidatePricingTierCache(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to drop tier cache: %v\n", err)
	}
}
