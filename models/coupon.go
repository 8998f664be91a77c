package models

import (
	"context"
	"errors"
	"time"

	"github.com/digihesabyar/hesab_backend/utils"
	"gorm.io/gorm"
)

// Coupon is a percentage discount on the invoice processing fee.
type Coupon struct {
	ID          int        `gorm:"primary_key" json:"id"`
	Code        string     `gorm:"uniqueIndex;size:50;not null" json:"code"`
	Description string     `gorm:"size:255" json:"description"`
	Percent     int        `gorm:"default:0" json:"percent"`
	IsActive    *bool      `gorm:"not null;default:true" json:"is_active"`
	ValidFrom   *time.Time `json:"valid_from"`
	ValidTo     *time.Time `json:"valid_to"`
	MaxUses     *int       `json:"max_uses"`
	UsedCount   int        `gorm:"default:0" json:"used_count"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

// IsValidNow reports whether the coupon can be redeemed at this moment.
func (c *Coupon) IsValidNow() bool {
	return c.isValidAt(time.Now())
}

func (c *Coupon) isValidAt(now time.Time) bool {
	if !utils.DereferencePtr(c.IsActive) {
		return false
	}
	if c.ValidFrom != nil && now.Before(*c.ValidFrom) {
		return false
	}
	if c.ValidTo != nil && now.After(*c.ValidTo) {
		return false
	}
	if c.MaxUses != nil && c.UsedCount >= *c.MaxUses {
		return false
	}
	return true
}

// DiscountedPrice applies the coupon percentage to a rial amount.
func (c *Coupon) DiscountedPrice(price int64) int64 {
	discounted := price - price*int64(c.Percent)/100
	if discounted < 0 {
		return 0
	}
	return discounted
}

func GetCouponByCode(ctx context.Context, tx *gorm.DB, code string) (*Coupon, error) {
	var coupon Coupon
	err := tx.WithContext(ctx).Where("code = ?", code).First(&coupon).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	return &coupon, nil
}
