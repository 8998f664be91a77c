package models

import (
	"context"
	"time"

	"github.com/digihesabyar/hesab_backend/config"
	"github.com/shopspring/decimal"
)

// InvoiceRow is one reconciled ledger line of an invoice, keyed by
// (sale_channel, order_id, dkpc). All rial amounts are signed integers.
type InvoiceRow struct {
	ID        int         `gorm:"primary_key" json:"id"`
	InvoiceId int         `gorm:"index;not null" json:"invoice_id"`
	Channel   SaleChannel `gorm:"column:sale_channel;size:10;not null" json:"sale_channel"`
	OrderId   string      `gorm:"size:100;not null" json:"order_id"`
	Dkpc      string      `gorm:"size:100;not null" json:"dkpc"`
	Title     string      `gorm:"size:500" json:"title"`

	SaleAmount    int64 `gorm:"default:0" json:"sale_amount"`
	PurchasePrice int64 `gorm:"default:0" json:"purchase_price"`

	CommissionAmount   int64 `gorm:"default:0" json:"commission_amount"`
	ShippingFee        int64 `gorm:"default:0" json:"shipping_fee"`
	ProcessingFee      int64 `gorm:"default:0" json:"processing_fee"`
	PlatformDevRevenue int64 `gorm:"default:0" json:"platform_dev_revenue"`
	TaxAmount          int64 `gorm:"default:0" json:"tax_amount"`

	Profit int64 `gorm:"default:0" json:"profit"`

	IsReturn bool `gorm:"default:false" json:"is_return"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// StatusText is the Persian sold/returned label used in exports.
func (r *InvoiceRow) StatusText() string {
	if r.IsReturn {
		return "مرجوعی"
	}
	return "فروش رفته"
}

// ProfitPercentStr renders profit as a percentage of the purchase price with
// one decimal place. Empty for returns and rows without a purchase price.
func (r *InvoiceRow) ProfitPercentStr() string {
	if r.IsReturn || r.PurchasePrice <= 0 {
		return ""
	}
	p := decimal.NewFromInt(r.Profit).
		Div(decimal.NewFromInt(r.PurchasePrice)).
		Mul(decimal.NewFromInt(100))
	return p.StringFixed(1)
}

// ExportRow projects the row into one export sheet row. Returns carry zeroed
// figures; only identity, title and the status label survive.
func (r *InvoiceRow) ExportRow() []interface{} {
	if r.IsReturn {
		return []interface{}{r.OrderId, r.Dkpc, r.Title, r.StatusText(), 0, 0, 0, 0, 0, 0, 0, 0, ""}
	}
	return []interface{}{
		r.OrderId,
		r.Dkpc,
		r.Title,
		r.StatusText(),
		r.SaleAmount,
		r.PurchasePrice,
		r.CommissionAmount,
		r.ShippingFee,
		r.ProcessingFee,
		r.PlatformDevRevenue,
		r.TaxAmount,
		r.Profit,
		r.ProfitPercentStr(),
	}
}

// GetInvoiceRows returns all rows of an invoice in a stable export order.
func GetInvoiceRows(ctx context.Context, invoiceId int) ([]*InvoiceRow, error) {
	var rows []*InvoiceRow
	db := config.GetDB()
	err := db.WithContext(ctx).
		Where("invoice_id = ?", invoiceId).
		Order("sale_channel, order_id, dkpc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
