package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/digihesabyar/hesab_backend/config"
	"github.com/digihesabyar/hesab_backend/models"
	"github.com/digihesabyar/hesab_backend/utils"
	"github.com/go-playground/validator/v10"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// MinPurchasePrice rejects typo-level purchase prices (rial).
const MinPurchasePrice = 1000

var validate = validator.New()

// PurchasePriceInput is one submitted (dkpc, purchase price) pair.
type PurchasePriceInput struct {
	Dkpc  string `validate:"required"`
	Title string
	Price int64 `validate:"gte=1000"`
}

// ApplyPurchasePrices stores submitted purchase prices (per user + dkpc),
// stamps them onto the invoice's rows and recomputes profit and tax for the
// whole invoice. Safe to call repeatedly as prices are edited.
func ApplyPurchasePrices(ctx context.Context, invoice *models.InvoiceFile, inputs []*PurchasePriceInput) error {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId <= 0 {
		return errors.New("user id is required")
	}

	for _, input := range inputs {
		if err := validate.Struct(input); err != nil {
			fields := utils.ProcessValidationErrors(err)
			return fmt.Errorf("invalid purchase price for %q: %v", input.Dkpc, fields)
		}
	}

	db := config.GetDB()
	return db.Transaction(func(tx *gorm.DB) error {
		for _, input := range inputs {
			if err := models.UpsertProductPrice(ctx, tx, userId, input.Dkpc, input.Title, input.Price); err != nil {
				return err
			}
			if err := tx.WithContext(ctx).Model(&models.InvoiceRow{}).
				Where("invoice_id = ? AND dkpc = ?", invoice.ID, input.Dkpc).
				Update("purchase_price", input.Price).Error; err != nil {
				return err
			}
		}
		return recalcProfitTx(ctx, tx, invoice.ID)
	})
}

// ImportPurchasePricesFromXlsx reads a price workbook (first sheet, columns
// resolved by "dkpc" / "price" substring) and applies it like a direct
// submission.
func ImportPurchasePricesFromXlsx(ctx context.Context, invoice *models.InvoiceFile, filePath string) error {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return fmt.Errorf("خواندن فایل اکسل قیمت‌ها با مشکل مواجه شد: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return errors.New("price workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return errors.New("price workbook is empty")
	}

	idxDkpc := findColumn(rows[0], []string{"dkpc"})
	idxPrice := findColumn(rows[0], []string{"price"})
	if idxDkpc < 0 || idxPrice < 0 {
		return errors.New("ستون‌های DKPC و price در فایل اکسل پیدا نشد")
	}

	var inputs []*PurchasePriceInput
	for _, row := range rows[1:] {
		dkpc := cellAt(row, idxDkpc)
		if dkpc == "" {
			continue
		}
		raw := cellAt(row, idxPrice)
		if strings.TrimSpace(raw) == "" {
			continue
		}
		price := NormalizeAmount(raw)
		if price < MinPurchasePrice {
			return fmt.Errorf("قیمت %s خیلی کوچک است", dkpc)
		}
		inputs = append(inputs, &PurchasePriceInput{Dkpc: dkpc, Price: price})
	}

	return ApplyPurchasePrices(ctx, invoice, inputs)
}

// RecalcProfit recomputes profit and tax for every row of an invoice.
// Idempotent over the same purchase prices.
func RecalcProfit(ctx context.Context, invoiceId int) error {
	db := config.GetDB()
	return db.Transaction(func(tx *gorm.DB) error {
		return recalcProfitTx(ctx, tx, invoiceId)
	})
}

func recalcProfitTx(ctx context.Context, tx *gorm.DB, invoiceId int) error {
	var rows []*models.InvoiceRow
	if err := tx.WithContext(ctx).Where("invoice_id = ?", invoiceId).Find(&rows).Error; err != nil {
		return err
	}

	for _, row := range rows {
		tax, profit := computeProfit(row.Channel, row.IsReturn, row.PurchasePrice,
			row.SaleAmount, row.CommissionAmount, row.ShippingFee, row.ProcessingFee, row.PlatformDevRevenue)

		if err := tx.WithContext(ctx).Model(&models.InvoiceRow{}).Where("id = ?", row.ID).
			Updates(map[string]any{
				"tax_amount": tax,
				"profit":     profit,
			}).Error; err != nil {
			return err
		}
		row.TaxAmount = tax
		row.Profit = profit
	}
	return nil
}

// computeProfit derives (tax, profit) for one ledger line.
//
// Returns and rows without a purchase price yield zero for both. Otherwise
// tax is 10% of commission plus processing, and the total cost is purchase +
// commission + shipping + processing + tax, plus the platform development
// revenue on the credit channel only.
func computeProfit(channel models.SaleChannel, isReturn bool, purchasePrice, saleAmount, commission, shipping, processing, platformDev int64) (tax int64, profit int64) {
	if isReturn || purchasePrice <= 0 {
		return 0, 0
	}

	tax = (commission + processing) / 10

	totalCost := purchasePrice + commission + shipping + processing + tax
	if channel == models.SaleChannelCredit {
		totalCost += platformDev
	}

	return tax, saleAmount - totalCost
}
