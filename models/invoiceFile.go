package models

import (
	"context"
	"errors"
	"time"

	"github.com/digihesabyar/hesab_backend/config"
	"github.com/digihesabyar/hesab_backend/utils"
	"gorm.io/gorm"
)

// InvoiceFile is one uploaded marketplace statement workbook owned by a user.
// Its rows are replaced wholesale on every reconciliation run.
type InvoiceFile struct {
	ID              int           `gorm:"primary_key" json:"id"`
	UserId          int           `gorm:"index;not null" json:"user_id"`
	Title           string        `gorm:"size:255;not null" json:"title"`
	FilePath        string        `gorm:"size:500;not null" json:"file_path"`
	UploadedAt      time.Time     `gorm:"autoCreateTime" json:"uploaded_at"`
	RowCount        int           `gorm:"default:0" json:"row_count"`
	Status          InvoiceStatus `gorm:"size:20;default:'pending';not null" json:"status"`
	ErrorMessage    string        `gorm:"type:text" json:"error_message"`
	ProcessingPrice int64         `gorm:"default:0" json:"processing_price"`
	IsPaid          bool          `gorm:"default:false" json:"is_paid"`
	CouponCode      string        `gorm:"size:50" json:"coupon_code"`
	PaidAmount      int64         `gorm:"default:0" json:"paid_amount"`
	CreatedAt       time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}

func CreateInvoiceFile(ctx context.Context, title string, filePath string) (*InvoiceFile, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId <= 0 {
		return nil, errors.New("user id is required")
	}
	if title == "" {
		title = "صورتحساب دیجی‌کالا"
	}

	invoice := InvoiceFile{
		UserId:   userId,
		Title:    title,
		FilePath: filePath,
		Status:   InvoiceStatusPending,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&invoice).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

// GetInvoiceFile loads an invoice scoped to the context user.
func GetInvoiceFile(ctx context.Context, id int) (*InvoiceFile, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId <= 0 {
		return nil, errors.New("user id is required")
	}

	var invoice InvoiceFile
	db := config.GetDB()
	err := db.WithContext(ctx).Where("user_id = ? AND id = ?", userId, id).First(&invoice).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	return &invoice, nil
}
