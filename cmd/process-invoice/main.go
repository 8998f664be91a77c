// process-invoice registers a statement workbook for a user and runs the
// reconciliation, printing the per-sheet log and the resulting row count.
//
// Usage:
//
//	go run ./cmd/process-invoice -user 1 -file ./statement.xlsx -title "صورتحساب مرداد"
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/digihesabyar/hesab_backend/config"
	"github.com/digihesabyar/hesab_backend/models"
	"github.com/digihesabyar/hesab_backend/utils"
	"github.com/digihesabyar/hesab_backend/workflow"
)

func main() {
	userId := flag.Int("user", 0, "owner user id")
	filePath := flag.String("file", "", "path to the statement .xlsx")
	title := flag.String("title", "", "invoice title (optional)")
	flag.Parse()

	if *userId <= 0 || *filePath == "" {
		fmt.Fprintln(os.Stderr, "usage: process-invoice -user <id> -file <statement.xlsx> [-title <title>]")
		os.Exit(2)
	}
	if _, err := os.Stat(*filePath); err != nil {
		fmt.Fprintf(os.Stderr, "cannot read %s: %v\n", *filePath, err)
		os.Exit(2)
	}

	config.ConnectDatabaseWithRetry()
	if os.Getenv("REDIS_ADDRESS") != "" {
		config.ConnectRedisWithRetry()
	}
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}
	if err := models.MigrateDatabase(db); err != nil {
		fmt.Fprintf(os.Stderr, "failed to migrate: %v\n", err)
		os.Exit(1)
	}

	ctx := utils.SetUserIdInContext(context.Background(), *userId)

	invoice, err := models.CreateInvoiceFile(ctx, *title, *filePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create invoice: %v\n", err)
		os.Exit(1)
	}

	rowCount, log, err := workflow.ProcessInvoiceFile(ctx, invoice)
	if log != "" {
		fmt.Println(log)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "invoice #%d failed: %v\n", invoice.ID, err)
		os.Exit(1)
	}

	fmt.Printf("invoice #%d (%s): %d rows, processing price %d rial\n",
		invoice.ID, invoice.Status.Label(), rowCount, invoice.ProcessingPrice)
}
