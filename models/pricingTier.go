package models

import (
	"context"
	"time"

	"github.com/digihesabyar/hesab_backend/config"
)

// PricingTier maps a reconciled row-count range to a flat processing fee.
// Ranges are managed by operators and must not overlap; MaxRows nil means
// unbounded.
type PricingTier struct {
	ID              int       `gorm:"primary_key" json:"id"`
	Name            string    `gorm:"size:100;not null" json:"name"`
	MinRows         int       `gorm:"not null" json:"min_rows"`
	MaxRows         *int      `json:"max_rows"`
	PricePerInvoice int64     `gorm:"not null" json:"price_per_invoice"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

const pricingTiersCacheKey = "pricingTiers"

// GetPricingTiers returns all tiers ordered by min_rows, redis-cached.
func GetPricingTiers(ctx context.Context) ([]*PricingTier, error) {
	var tiers []*PricingTier

	exists, err := config.GetRedisObject(pricingTiersCacheKey, &tiers)
	if err != nil {
		return nil, err
	}
	if exists {
		return tiers, nil
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Order("min_rows").Find(&tiers).Error; err != nil {
		return nil, err
	}
	if err := config.SetRedisObject(pricingTiersCacheKey, &tiers, time.Hour); err != nil {
		return nil, err
	}
	return tiers, nil
}

// InvalidatePricingTierCache drops the cached tier table after edits.
func InvalidatePricingTierCache() error {
	return config.RemoveRedisKey(pricingTiersCacheKey)
}

// PriceForRowCount resolves the flat processing fee for a reconciled invoice
// with rowCount rows. Zero when no tier matches.
func PriceForRowCount(ctx context.Context, rowCount int) (int64, error) {
	if rowCount <= 0 {
		return 0, nil
	}
	tiers, err := GetPricingTiers(ctx)
	if err != nil {
		return 0, err
	}
	return priceFromTiers(tiers, rowCount), nil
}

// priceFromTiers scans tiers ascending by min_rows; the first covering tier
// wins.
func priceFromTiers(tiers []*PricingTier, rowCount int) int64 {
	if rowCount <= 0 {
		return 0
	}
	for _, tier := range tiers {
		if tier.MinRows > rowCount {
			continue
		}
		if tier.MaxRows == nil || rowCount <= *tier.MaxRows {
			return tier.PricePerInvoice
		}
	}
	return 0
}
