// export-invoice writes the profit/loss workbook of a paid invoice to disk.
//
// Usage:
//
//	go run ./cmd/export-invoice -user 1 -invoice 42 -out ./out/
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/digihesabyar/hesab_backend/config"
	"github.com/digihesabyar/hesab_backend/models"
	"github.com/digihesabyar/hesab_backend/utils"
	"github.com/digihesabyar/hesab_backend/workflow"
)

func main() {
	userId := flag.Int("user", 0, "owner user id")
	invoiceId := flag.Int("invoice", 0, "invoice id")
	outDir := flag.String("out", ".", "output directory")
	flag.Parse()

	if *userId <= 0 || *invoiceId <= 0 {
		fmt.Fprintln(os.Stderr, "usage: export-invoice -user <id> -invoice <id> [-out <dir>]")
		os.Exit(2)
	}

	config.ConnectDatabaseWithRetry()
	if config.GetDB() == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}

	ctx := utils.SetUserIdInContext(context.Background(), *userId)

	invoice, err := models.GetInvoiceFile(ctx, *invoiceId)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load invoice #%d: %v\n", *invoiceId, err)
		os.Exit(1)
	}

	f, err := workflow.ExportInvoiceWorkbook(ctx, invoice)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to export invoice #%d: %v\n", *invoiceId, err)
		os.Exit(1)
	}
	defer f.Close()

	outPath := filepath.Join(*outDir, workflow.ExportFilename(invoice))
	if err := f.SaveAs(outPath); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write %s: %v\n", outPath, err)
		os.Exit(1)
	}

	fmt.Printf("wrote %s (%d rows)\n", outPath, invoice.RowCount)
}
