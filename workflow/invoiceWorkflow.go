package workflow

import (
	"context"
	"strings"

	"github.com/digihesabyar/hesab_backend/config"
	"github.com/digihesabyar/hesab_backend/models"
	"github.com/digihesabyar/hesab_backend/utils"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.opentelemetry.io/otel"
	"gorm.io/gorm"
)

var tracer = otel.Tracer("hesab-backend")

// ProcessInvoiceFile reconciles the statement workbook of an invoice into
// ledger rows, replacing any rows from a previous run atomically, and prices
// the invoice from the tier table.
//
// Row- and sheet-level problems are tolerated (they only show up in the
// returned log); anything else marks the invoice failed with the error text
// and commits no rows.
func ProcessInvoiceFile(ctx context.Context, invoice *models.InvoiceFile) (int, string, error) {
	ctx, span := tracer.Start(ctx, "ProcessInvoiceFile")
	defer span.End()

	correlationId, ok := utils.GetCorrelationIdFromContext(ctx)
	if !ok || correlationId == "" {
		correlationId = uuid.NewString()
		ctx = utils.SetCorrelationIdInContext(ctx, correlationId)
	}

	db := config.GetDB()
	logger := config.GetLogger()

	if err := db.WithContext(ctx).Model(&models.InvoiceFile{}).Where("id = ?", invoice.ID).
		Updates(map[string]any{
			"status":        models.InvoiceStatusProcessing,
			"error_message": "",
		}).Error; err != nil {
		return 0, "", err
	}
	invoice.Status = models.InvoiceStatusProcessing
	invoice.ErrorMessage = ""

	result, err := reconcileFile(invoice.FilePath)
	if err != nil {
		config.LogError(logger, "invoiceWorkflow.go", "ProcessInvoiceFile", "reconcile "+correlationId, invoice.ID, err)
		markInvoiceFailed(ctx, db, invoice, err)
		return 0, "خطا در پردازش فایل: " + err.Error(), err
	}

	price, err := models.PriceForRowCount(ctx, result.RowCount)
	if err != nil {
		config.LogError(logger, "invoiceWorkflow.go", "ProcessInvoiceFile", "price lookup "+correlationId, invoice.ID, err)
		markInvoiceFailed(ctx, db, invoice, err)
		return 0, "", err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.WithContext(ctx).Where("invoice_id = ?", invoice.ID).
			Delete(&models.InvoiceRow{}).Error; err != nil {
			return err
		}

		rows := make([]*models.InvoiceRow, 0, len(result.Lines))
		for _, line := range result.Lines {
			rows = append(rows, &models.InvoiceRow{
				InvoiceId:          invoice.ID,
				Channel:            line.Channel,
				OrderId:            line.OrderId,
				Dkpc:               line.Dkpc,
				Title:              line.Title,
				SaleAmount:         line.SaleAmount,
				CommissionAmount:   line.CommissionAmount,
				ShippingFee:        line.ShippingFee,
				ProcessingFee:      line.ProcessingFee,
				PlatformDevRevenue: line.PlatformDevRevenue,
				TaxAmount:          line.TaxAmount,
				IsReturn:           line.IsReturn,
			})
		}
		if len(rows) > 0 {
			if err := tx.WithContext(ctx).CreateInBatches(rows, 500).Error; err != nil {
				return err
			}
		}

		return tx.WithContext(ctx).Model(&models.InvoiceFile{}).Where("id = ?", invoice.ID).
			Updates(map[string]any{
				"row_count":        result.RowCount,
				"processing_price": price,
				"status":           models.InvoiceStatusDone,
			}).Error
	})
	if err != nil {
		config.LogError(logger, "invoiceWorkflow.go", "ProcessInvoiceFile", "replace rows "+correlationId, invoice.ID, err)
		markInvoiceFailed(ctx, db, invoice, err)
		return 0, "", err
	}

	invoice.RowCount = result.RowCount
	invoice.ProcessingPrice = price
	invoice.Status = models.InvoiceStatusDone

	return result.RowCount, strings.Join(result.Log, "\n"), nil
}

// reconcileFile opens the workbook, runs the merger and releases the file on
// every path.
func reconcileFile(filePath string) (*ReconcileResult, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ReconcileWorkbook(f), nil
}

func markInvoiceFailed(ctx context.Context, db *gorm.DB, invoice *models.InvoiceFile, cause error) {
	invoice.Status = models.InvoiceStatusError
	invoice.ErrorMessage = cause.Error()
	if err := db.WithContext(ctx).Model(&models.InvoiceFile{}).Where("id = ?", invoice.ID).
		Updates(map[string]any{
			"status":        models.InvoiceStatusError,
			"error_message": cause.Error(),
		}).Error; err != nil {
		config.LogError(config.GetLogger(), "invoiceWorkflow.go", "markInvoiceFailed", "update status", invoice.ID, err)
	}
}
