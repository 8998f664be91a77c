package workflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/digihesabyar/hesab_backend/models"
	"github.com/xuri/excelize/v2"
)

const (
	exportSheetCash    = "فروش نقدی"
	exportSheetCredit  = "فروش اعتباری"
	exportSheetSummary = "خلاصه"
	exportSheetDkpc    = "خلاصه DKPC"
)

var exportRowHeader = []interface{}{
	"شماره سفارش", "کد تنوع (DKPC)", "عنوان", "وضعیت",
	"فروش", "خرید", "کمیسیون", "هزینه ارسال", "هزینه پردازش",
	"درآمد توسعه پلتفرم", "مالیات", "سود/زیان", "درصد سود",
}

// ErrInvoiceNotPaid guards the export against unpaid invoices.
var ErrInvoiceNotPaid = errors.New("invoice processing fee has not been paid")

// ExportInvoiceWorkbook renders the profit/loss workbook of a paid invoice:
// a cash sheet, a credit sheet, a totals sheet and a per-DKPC summary sheet.
// Returns are listed with zeroed figures and excluded from every sum.
func ExportInvoiceWorkbook(ctx context.Context, invoice *models.InvoiceFile) (*excelize.File, error) {
	if !invoice.IsPaid {
		return nil, ErrInvoiceNotPaid
	}

	rows, err := models.GetInvoiceRows(ctx, invoice.ID)
	if err != nil {
		return nil, err
	}

	return buildExportWorkbook(rows)
}

type dkpcSummary struct {
	Dkpc   string
	Title  string
	Count  int
	Sale   int64
	Profit int64
}

func buildExportWorkbook(rows []*models.InvoiceRow) (*excelize.File, error) {
	f := excelize.NewFile()

	for _, name := range []string{exportSheetCash, exportSheetCredit, exportSheetSummary, exportSheetDkpc} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, err
		}
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	if err := f.SetSheetRow(exportSheetCash, "A1", &exportRowHeader); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(exportSheetCredit, "A1", &exportRowHeader); err != nil {
		return nil, err
	}

	var (
		totalSale        int64
		totalProfit      int64
		totalCommission  int64
		totalShipping    int64
		totalProcessing  int64
		totalPlatformDev int64
	)

	summaries := make(map[string]*dkpcSummary)
	var summaryOrder []*dkpcSummary

	cashRow, creditRow := 2, 2
	for _, r := range rows {
		sheet := exportSheetCash
		rowNo := &cashRow
		if r.Channel == models.SaleChannelCredit {
			sheet = exportSheetCredit
			rowNo = &creditRow
		}

		cell, err := excelize.CoordinatesToCellName(1, *rowNo)
		if err != nil {
			return nil, err
		}
		values := r.ExportRow()
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, err
		}
		*rowNo++

		// Returns appear in the listings only, never in totals.
		if r.IsReturn {
			continue
		}

		totalSale += r.SaleAmount
		totalProfit += r.Profit
		totalCommission += r.CommissionAmount
		totalShipping += r.ShippingFee
		totalProcessing += r.ProcessingFee
		totalPlatformDev += r.PlatformDevRevenue

		s, ok := summaries[r.Dkpc]
		if !ok {
			s = &dkpcSummary{Dkpc: r.Dkpc, Title: r.Title}
			summaries[r.Dkpc] = s
			summaryOrder = append(summaryOrder, s)
		}
		s.Count++
		s.Sale += r.SaleAmount
		s.Profit += r.Profit
	}

	summaryHeader := []interface{}{
		"جمع فروش", "جمع سود/زیان", "جمع کمیسیون", "جمع هزینه ارسال",
		"جمع هزینه پردازش", "جمع درآمد توسعه پلتفرم",
	}
	if err := f.SetSheetRow(exportSheetSummary, "A1", &summaryHeader); err != nil {
		return nil, err
	}
	summaryValues := []interface{}{
		totalSale, totalProfit, totalCommission, totalShipping, totalProcessing, totalPlatformDev,
	}
	if err := f.SetSheetRow(exportSheetSummary, "A2", &summaryValues); err != nil {
		return nil, err
	}

	dkpcHeader := []interface{}{"کد تنوع (DKPC)", "عنوان", "تعداد", "جمع فروش", "جمع سود/زیان"}
	if err := f.SetSheetRow(exportSheetDkpc, "A1", &dkpcHeader); err != nil {
		return nil, err
	}
	for i, s := range summaryOrder {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		values := []interface{}{s.Dkpc, s.Title, s.Count, s.Sale, s.Profit}
		if err := f.SetSheetRow(exportSheetDkpc, cell, &values); err != nil {
			return nil, err
		}
	}

	return f, nil
}

// ExportFilename is the download name for an invoice's workbook.
func ExportFilename(invoice *models.InvoiceFile) string {
	return fmt.Sprintf("invoice_%d.xlsx", invoice.ID)
}
