package models

import (
	"context"
	"errors"
	"time"

	"github.com/digihesabyar/hesab_backend/config"
	"gorm.io/gorm"
)

// ProductPrice remembers the purchase cost of one DKPC per user, independent
// of any single invoice. One record per (user, dkpc).
type ProductPrice struct {
	ID            int       `gorm:"primary_key" json:"id"`
	UserId        int       `gorm:"uniqueIndex:idx_user_dkpc;not null" json:"user_id"`
	Dkpc          string    `gorm:"uniqueIndex:idx_user_dkpc;size:100;not null" json:"dkpc"`
	Title         string    `gorm:"size:500" json:"title"`
	PurchasePrice int64     `gorm:"default:0" json:"purchase_price"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// UpsertProductPrice creates or updates the remembered purchase price for a
// (user, dkpc) pair. An empty title leaves the stored title untouched.
func UpsertProductPrice(ctx context.Context, tx *gorm.DB, userId int, dkpc string, title string, purchasePrice int64) error {
	var existing ProductPrice
	err := tx.WithContext(ctx).Where("user_id = ? AND dkpc = ?", userId, dkpc).First(&existing).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		record := ProductPrice{
			UserId:        userId,
			Dkpc:          dkpc,
			Title:         title,
			PurchasePrice: purchasePrice,
		}
		return tx.WithContext(ctx).Create(&record).Error
	}

	updates := map[string]any{"purchase_price": purchasePrice}
	if title != "" {
		updates["title"] = title
	}
	return tx.WithContext(ctx).Model(&ProductPrice{}).Where("id = ?", existing.ID).Updates(updates).Error
}

// GetProductPrices returns the remembered prices of a user for the given
// DKPCs, keyed by dkpc. Used to pre-fill price submissions.
func GetProductPrices(ctx context.Context, userId int, dkpcs []string) (map[string]int64, error) {
	prices := make(map[string]int64, len(dkpcs))
	if len(dkpcs) == 0 {
		return prices, nil
	}

	var records []*ProductPrice
	db := config.GetDB()
	err := db.WithContext(ctx).Where("user_id = ? AND dkpc IN ?", userId, dkpcs).Find(&records).Error
	if err != nil {
		return nil, err
	}
	for _, record := range records {
		prices[record.Dkpc] = record.PurchasePrice
	}
	return prices, nil
}
