package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/digihesabyar/hesab_backend/config"
	"github.com/digihesabyar/hesab_backend/utils"
	"github.com/bsm/redislock"
	"gorm.io/gorm"
)

// Wallet holds a user's prepaid balance for invoice processing fees.
type Wallet struct {
	ID        int       `gorm:"primary_key" json:"id"`
	UserId    int       `gorm:"uniqueIndex;not null" json:"user_id"`
	Balance   int64     `gorm:"default:0" json:"balance"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// WalletTransaction is the append-only debit/credit ledger of a wallet.
type WalletTransaction struct {
	ID          int                   `gorm:"primary_key" json:"id"`
	WalletId    int                   `gorm:"index;not null" json:"wallet_id"`
	InvoiceId   *int                  `gorm:"index" json:"invoice_id"`
	Type        WalletTransactionType `gorm:"size:10;not null" json:"type"`
	Amount      int64                 `gorm:"not null" json:"amount"`
	Description string                `gorm:"size:255" json:"description"`
	CreatedAt   time.Time             `gorm:"autoCreateTime" json:"created_at"`
}

// GetOrCreateWallet returns the user's wallet, creating an empty one on first
// use.
func GetOrCreateWallet(ctx context.Context, tx *gorm.DB, userId int) (*Wallet, error) {
	var wallet Wallet
	err := tx.WithContext(ctx).Where("user_id = ?", userId).First(&wallet).Error
	if err == nil {
		return &wallet, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	wallet = Wallet{UserId: userId, Balance: 0}
	if err := tx.WithContext(ctx).Create(&wallet).Error; err != nil {
		return nil, err
	}
	return &wallet, nil
}

// TopUpWallet credits the context user's wallet and records the transaction.
// Mock top-up without a payment gateway.
func TopUpWallet(ctx context.Context, amount int64, description string) (*Wallet, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId <= 0 {
		return nil, errors.New("user id is required")
	}
	if amount <= 0 {
		return nil, errors.New("top-up amount must be positive")
	}
	if description == "" {
		description = "شارژ کیف پول"
	}

	db := config.GetDB()
	var wallet *Wallet
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		wallet, err = GetOrCreateWallet(ctx, tx, userId)
		if err != nil {
			return err
		}
		if err := tx.WithContext(ctx).Model(&Wallet{}).Where("id = ?", wallet.ID).
			Update("balance", gorm.Expr("balance + ?", amount)).Error; err != nil {
			return err
		}
		record := WalletTransaction{
			WalletId:    wallet.ID,
			Type:        WalletTransactionTypeCredit,
			Amount:      amount,
			Description: description,
		}
		if err := tx.WithContext(ctx).Create(&record).Error; err != nil {
			return err
		}
		wallet.Balance += amount
		return nil
	})
	if err != nil {
		return nil, err
	}
	return wallet, nil
}

// PayInvoice debits the processing fee of an invoice from the context user's
// wallet, optionally applying a coupon code. The balance check is repeated
// inside the transaction as a conditional UPDATE, so two racing payments can
// never double-spend the same balance.
func PayInvoice(ctx context.Context, invoiceId int, couponCode string) (int64, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId <= 0 {
		return 0, errors.New("user id is required")
	}

	// Best-effort serialization per wallet; correctness does not depend on
	// the lock, only on the conditional debit below.
	if locker := config.GetRedisLock(); locker != nil {
		lockKey := fmt.Sprintf("walletPay:%d", userId)
		lock, err := locker.Obtain(ctx, lockKey, 30*time.Second, nil)
		if err == nil {
			defer func() {
				_ = lock.Release(ctx)
			}()
		} else if err != redislock.ErrNotObtained {
			config.LogError(config.GetLogger(), "wallet.go", "PayInvoice", "Obtain redis lock", userId, err)
		}
	}

	db := config.GetDB()
	var paid int64
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		paid, err = payInvoiceTx(ctx, tx, userId, invoiceId, couponCode)
		return err
	})
	if err != nil {
		return 0, err
	}
	return paid, nil
}

func payInvoiceTx(ctx context.Context, tx *gorm.DB, userId int, invoiceId int, couponCode string) (int64, error) {
	var invoice InvoiceFile
	err := tx.WithContext(ctx).Where("user_id = ? AND id = ?", userId, invoiceId).First(&invoice).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, utils.ErrorRecordNotFound
		}
		return 0, err
	}

	if invoice.IsPaid {
		return 0, errors.New("invoice is already paid")
	}
	price := invoice.ProcessingPrice
	if price <= 0 {
		return 0, errors.New("invoice has no processing price set")
	}

	var coupon *Coupon
	if couponCode != "" {
		coupon, err = GetCouponByCode(ctx, tx, couponCode)
		if err != nil {
			return 0, err
		}
		if !coupon.IsValidNow() {
			return 0, errors.New("coupon is not valid")
		}
		price = coupon.DiscountedPrice(price)
	}

	wallet, err := GetOrCreateWallet(ctx, tx, userId)
	if err != nil {
		return 0, err
	}

	// The second balance check happens here, atomically with the debit.
	result := tx.WithContext(ctx).Model(&Wallet{}).
		Where("id = ? AND balance >= ?", wallet.ID, price).
		Update("balance", gorm.Expr("balance - ?", price))
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, utils.ErrorInsufficientBalance
	}

	record := WalletTransaction{
		WalletId:    wallet.ID,
		InvoiceId:   &invoice.ID,
		Type:        WalletTransactionTypeDebit,
		Amount:      price,
		Description: fmt.Sprintf("پرداخت هزینه پردازش صورتحساب #%d", invoice.ID),
	}
	if err := tx.WithContext(ctx).Create(&record).Error; err != nil {
		return 0, err
	}

	updates := map[string]any{
		"is_paid":     true,
		"paid_amount": price,
	}
	if coupon != nil {
		updates["coupon_code"] = coupon.Code
		if err := tx.WithContext(ctx).Model(&Coupon{}).Where("id = ?", coupon.ID).
			Update("used_count", gorm.Expr("used_count + 1")).Error; err != nil {
			return 0, err
		}
	}
	if err := tx.WithContext(ctx).Model(&InvoiceFile{}).Where("id = ?", invoice.ID).
		Updates(updates).Error; err != nil {
		return 0, err
	}

	return price, nil
}
