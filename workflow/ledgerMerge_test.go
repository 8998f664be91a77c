package workflow

import (
	"strings"
	"testing"

	"github.com/digihesabyar/hesab_backend/models"
	"github.com/xuri/excelize/v2"
)

var statementHeader = []interface{}{"شماره سفارش", "کد تنوع", "عنوان تنوع", "مبلغ نهایی"}

// buildWorkbook assembles an in-memory statement workbook. Each sheet gets the
// given rows written from A1 down.
func buildWorkbook(t *testing.T, sheets map[string][][]interface{}) *excelize.File {
	t.Helper()
	f := excelize.NewFile()
	for name, rows := range sheets {
		if _, err := f.NewSheet(name); err != nil {
			t.Fatalf("NewSheet(%s): %v", name, err)
		}
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			if err != nil {
				t.Fatalf("CoordinatesToCellName: %v", err)
			}
			if err := f.SetSheetRow(name, cell, &row); err != nil {
				t.Fatalf("SetSheetRow(%s, %s): %v", name, cell, err)
			}
		}
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		t.Fatalf("DeleteSheet: %v", err)
	}
	return f
}

func findLine(t *testing.T, result *ReconcileResult, channel models.SaleChannel, orderId, dkpc string) *LedgerLine {
	t.Helper()
	for _, line := range result.Lines {
		if line.Channel == channel && line.OrderId == orderId && line.Dkpc == dkpc {
			return line
		}
	}
	t.Fatalf("line (%s, %s, %s) not found among %d lines", channel, orderId, dkpc, len(result.Lines))
	return nil
}

func logContains(result *ReconcileResult, substr string) bool {
	for _, entry := range result.Log {
		if strings.Contains(entry, substr) {
			return true
		}
	}
	return false
}

func TestReconcileWorkbook_SaleWithReversedCommission(t *testing.T) {
	f := buildWorkbook(t, map[string][][]interface{}{
		"فروش": {
			statementHeader,
			{"100", "D1", "کالا یک", "1,234"},
		},
		"برگشت از کمیسیون فروش": {
			statementHeader,
			{"100", "D1", "", "100"},
		},
	})

	result := ReconcileWorkbook(f)
	if result.RowCount != 1 {
		t.Fatalf("expected 1 line, got %d", result.RowCount)
	}
	line := findLine(t, result, models.SaleChannelCash, "100", "D1")
	if line.IsReturn {
		t.Fatal("line must not be a return")
	}
	if line.SaleAmount != 1234 {
		t.Fatalf("expected sale 1234, got %d", line.SaleAmount)
	}
	if line.CommissionAmount != 0 {
		t.Fatalf("reversed commission must clamp to 0, got %d", line.CommissionAmount)
	}
	if line.TaxAmount != 0 {
		t.Fatalf("expected tax 0, got %d", line.TaxAmount)
	}
	if line.Title != "کالا یک" {
		t.Fatalf("unexpected title %q", line.Title)
	}
}

func TestReconcileWorkbook_Accumulation(t *testing.T) {
	f := buildWorkbook(t, map[string][][]interface{}{
		"فروش": {
			statementHeader,
			{"200", "D2", "کالا", "500"},
			{"200", "D2", "کالا دو", "700"},
		},
		"کمیسیون فروش": {
			statementHeader,
			{"200", "D2", "", "300"},
		},
		"هزینه پردازش": {
			statementHeader,
			{"200", "D2", "", "200"},
		},
	})

	result := ReconcileWorkbook(f)
	line := findLine(t, result, models.SaleChannelCash, "200", "D2")
	if line.SaleAmount != 1200 {
		t.Fatalf("expected accumulated sale 1200, got %d", line.SaleAmount)
	}
	if line.Title != "کالا دو" {
		t.Fatalf("last non-empty title must win, got %q", line.Title)
	}
	if line.TaxAmount != 50 {
		t.Fatalf("expected tax (300+200)/10 = 50, got %d", line.TaxAmount)
	}
}

func TestReconcileWorkbook_ReturnSticksEvenWithPositiveNet(t *testing.T) {
	f := buildWorkbook(t, map[string][][]interface{}{
		"فروش": {
			statementHeader,
			{"300", "D3", "کالا", "5000"},
		},
		"برگشت از فروش": {
			statementHeader,
			{"300", "D3", "", "1000"},
		},
	})

	result := ReconcileWorkbook(f)
	line := findLine(t, result, models.SaleChannelCash, "300", "D3")
	if !line.IsReturn {
		t.Fatal("any touch from a return sheet must flag the line as a return")
	}
	if line.SaleAmount != 0 || line.CommissionAmount != 0 || line.TaxAmount != 0 {
		t.Fatalf("return line must be zeroed, got %+v", line)
	}
}

func TestReconcileWorkbook_NetZeroBecomesReturn(t *testing.T) {
	f := buildWorkbook(t, map[string][][]interface{}{
		"فروش اعتباری": {
			statementHeader,
			{"400", "D4", "کالا", "1000"},
		},
		"برگشت از فروش اعتباری": {
			statementHeader,
			{"400", "D4", "", "-1000"},
		},
	})

	result := ReconcileWorkbook(f)
	line := findLine(t, result, models.SaleChannelCredit, "400", "D4")
	if !line.IsReturn {
		t.Fatal("a fully returned sale must be a return")
	}
	if line.SaleAmount != 0 {
		t.Fatalf("expected zero sale, got %d", line.SaleAmount)
	}
}

func TestReconcileWorkbook_CostOnlyLineBecomesReturn(t *testing.T) {
	f := buildWorkbook(t, map[string][][]interface{}{
		"کمیسیون فروش": {
			statementHeader,
			{"500", "D5", "", "900"},
		},
	})

	result := ReconcileWorkbook(f)
	line := findLine(t, result, models.SaleChannelCash, "500", "D5")
	if !line.IsReturn {
		t.Fatal("a line with no sale amount must finalize as a return")
	}
	if line.CommissionAmount != 0 {
		t.Fatalf("expected zeroed commission, got %d", line.CommissionAmount)
	}
}

func TestReconcileWorkbook_PlatformDevOnCredit(t *testing.T) {
	f := buildWorkbook(t, map[string][][]interface{}{
		"فروش اعتباری": {
			statementHeader,
			{"600", "D6", "کالا", "20000"},
		},
		"درآمد توسعه پلتفرم": {
			statementHeader,
			{"600", "D6", "", "۱۲۳٬۴۵۶"},
		},
		"برگشت از درآمد توسعه پلتفرم": {
			statementHeader,
			{"600", "D6", "", "3456"},
		},
	})

	result := ReconcileWorkbook(f)
	line := findLine(t, result, models.SaleChannelCredit, "600", "D6")
	if line.PlatformDevRevenue != 120000 {
		t.Fatalf("expected platform dev 120000, got %d", line.PlatformDevRevenue)
	}
}

func TestReconcileWorkbook_CustomerReturnCostAddsShipping(t *testing.T) {
	f := buildWorkbook(t, map[string][][]interface{}{
		"فروش": {
			statementHeader,
			{"700", "D7", "کالا", "10000"},
		},
		"هزینه برگشت از مشتری": {
			statementHeader,
			{"700", "D7", "", "500"},
		},
	})

	result := ReconcileWorkbook(f)
	line := findLine(t, result, models.SaleChannelCash, "700", "D7")
	if line.IsReturn {
		t.Fatal("customer return cost must not flag the line as a return")
	}
	if line.ShippingFee != 500 {
		t.Fatalf("expected shipping 500, got %d", line.ShippingFee)
	}
}

func TestReconcileWorkbook_SkipsRowsWithoutIdentity(t *testing.T) {
	f := buildWorkbook(t, map[string][][]interface{}{
		"فروش": {
			statementHeader,
			{"", "D8", "کالا", "1000"},
			{"800", "", "کالا", "1000"},
			{"800", "D8", "کالا", "1000"},
		},
	})

	result := ReconcileWorkbook(f)
	if result.RowCount != 1 {
		t.Fatalf("expected 1 line, got %d", result.RowCount)
	}
	line := findLine(t, result, models.SaleChannelCash, "800", "D8")
	if line.SaleAmount != 1000 {
		t.Fatalf("expected sale 1000, got %d", line.SaleAmount)
	}
}

func TestReconcileWorkbook_MissingSheetLogged(t *testing.T) {
	f := buildWorkbook(t, map[string][][]interface{}{
		"فروش": {
			statementHeader,
			{"900", "D9", "کالا", "1000"},
		},
	})

	result := ReconcileWorkbook(f)
	if !logContains(result, "فروش اعتباری") || !logContains(result, "پیدا نشد") {
		t.Fatalf("expected a skip entry for the missing sheet, log: %v", result.Log)
	}
	if result.RowCount != 1 {
		t.Fatalf("run must still succeed, got %d lines", result.RowCount)
	}
}

func TestReconcileWorkbook_HeaderProblemsLogged(t *testing.T) {
	f := buildWorkbook(t, map[string][][]interface{}{
		"فروش": {
			{"گزارش"},
			{"", "x"},
		},
		"کمیسیون فروش": {
			{"تاریخ", "توضیحات", "وضعیت"},
		},
	})

	result := ReconcileWorkbook(f)
	if !logContains(result, "هدر معتبر پیدا نشد") {
		t.Fatalf("expected a no-header entry, log: %v", result.Log)
	}
	if !logContains(result, "ستون‌های کلیدی") {
		t.Fatalf("expected a missing-columns entry, log: %v", result.Log)
	}
	if result.RowCount != 0 {
		t.Fatalf("expected no lines, got %d", result.RowCount)
	}
}
