package workflow

import (
	"testing"

	"github.com/digihesabyar/hesab_backend/models"
)

func TestComputeProfit_CashChannel(t *testing.T) {
	tax, profit := computeProfit(models.SaleChannelCash, false, 5000, 10000, 1000, 500, 500, 900)
	if tax != 150 {
		t.Fatalf("expected tax 150, got %d", tax)
	}
	// Platform dev revenue is ignored on the cash channel.
	if profit != 2850 {
		t.Fatalf("expected profit 2850, got %d", profit)
	}
}

func TestComputeProfit_CreditChannelIncludesPlatformDev(t *testing.T) {
	tax, profit := computeProfit(models.SaleChannelCredit, false, 5000, 10000, 1000, 500, 500, 300)
	if tax != 150 {
		t.Fatalf("expected tax 150, got %d", tax)
	}
	if profit != 2550 {
		t.Fatalf("expected profit 2550, got %d", profit)
	}
}

func TestComputeProfit_ZeroCases(t *testing.T) {
	if tax, profit := computeProfit(models.SaleChannelCash, true, 5000, 10000, 1000, 0, 0, 0); tax != 0 || profit != 0 {
		t.Fatalf("returns must yield (0, 0), got (%d, %d)", tax, profit)
	}
	if tax, profit := computeProfit(models.SaleChannelCash, false, 0, 10000, 1000, 0, 0, 0); tax != 0 || profit != 0 {
		t.Fatalf("rows without a purchase price must yield (0, 0), got (%d, %d)", tax, profit)
	}
}

func TestComputeProfit_Idempotent(t *testing.T) {
	tax1, profit1 := computeProfit(models.SaleChannelCredit, false, 7000, 12000, 800, 200, 400, 100)
	tax2, profit2 := computeProfit(models.SaleChannelCredit, false, 7000, 12000, 800, 200, 400, 100)
	if tax1 != tax2 || profit1 != profit2 {
		t.Fatalf("expected identical results, got (%d, %d) and (%d, %d)", tax1, profit1, tax2, profit2)
	}
}
