package workflow

import (
	"fmt"

	"github.com/digihesabyar/hesab_backend/models"
	"github.com/xuri/excelize/v2"
)

// LedgerLine is one reconciled line keyed by (channel, order id, dkpc). All
// contributions from every sheet with the same identity accumulate here.
type LedgerLine struct {
	Channel models.SaleChannel
	OrderId string
	Dkpc    string
	Title   string

	SaleAmount         int64
	CommissionAmount   int64
	ShippingFee        int64
	ProcessingFee      int64
	PlatformDevRevenue int64
	TaxAmount          int64

	IsReturn bool
}

// ReconcileResult is the finalized outcome of one reconciliation run.
type ReconcileResult struct {
	Lines    []*LedgerLine
	Log      []string
	RowCount int
}

type costKind string

const (
	costKindCommission  costKind = "commission"
	costKindShipping    costKind = "shipping"
	costKindProcessing  costKind = "processing"
	costKindPlatformDev costKind = "platform_dev"
)

type salesSheetSpec struct {
	Name     string
	Channel  models.SaleChannel
	IsReturn bool
}

type costSheetSpec struct {
	Name     string
	Channel  models.SaleChannel
	Kind     costKind
	Reversal bool
}

// The fixed sheet vocabulary of a marketplace statement workbook. Sheets not
// listed here are ignored entirely; listed sheets missing from the workbook
// are skipped with a log entry.
var salesSheets = []salesSheetSpec{
	{Name: "فروش", Channel: models.SaleChannelCash},
	{Name: "برگشت از فروش", Channel: models.SaleChannelCash, IsReturn: true},
	{Name: "فروش اعتباری", Channel: models.SaleChannelCredit},
	{Name: "برگشت از فروش اعتباری", Channel: models.SaleChannelCredit, IsReturn: true},
}

var costSheets = []costSheetSpec{
	{Name: "کمیسیون فروش", Channel: models.SaleChannelCash, Kind: costKindCommission},
	{Name: "کمیسیون فروش اعتباری", Channel: models.SaleChannelCredit, Kind: costKindCommission},
	{Name: "برگشت از کمیسیون فروش", Channel: models.SaleChannelCash, Kind: costKindCommission, Reversal: true},
	{Name: "برگشت از کمیسیون فروش اعتباری", Channel: models.SaleChannelCredit, Kind: costKindCommission, Reversal: true},

	{Name: "هزینه ارسال", Channel: models.SaleChannelCash, Kind: costKindShipping},
	{Name: "هزینه ارسال اعتباری", Channel: models.SaleChannelCredit, Kind: costKindShipping},
	{Name: "برگشت از هزینه ارسال", Channel: models.SaleChannelCash, Kind: costKindShipping, Reversal: true},
	{Name: "برگشت از هزینه ارسال اعتباری", Channel: models.SaleChannelCredit, Kind: costKindShipping, Reversal: true},

	{Name: "هزینه پردازش", Channel: models.SaleChannelCash, Kind: costKindProcessing},
	{Name: "هزینه پردازش اعتباری", Channel: models.SaleChannelCredit, Kind: costKindProcessing},
	{Name: "برگشت از هزینه پردازش", Channel: models.SaleChannelCash, Kind: costKindProcessing, Reversal: true},
	{Name: "برگشت از هزینه پردازش اعتباری", Channel: models.SaleChannelCredit, Kind: costKindProcessing, Reversal: true},

	{Name: "درآمد توسعه پلتفرم", Channel: models.SaleChannelCredit, Kind: costKindPlatformDev},
	{Name: "برگشت از درآمد توسعه پلتفرم", Channel: models.SaleChannelCredit, Kind: costKindPlatformDev, Reversal: true},

	// Customer return cost is an extra fee on the sale line, deliberately not
	// a reversal.
	{Name: "هزینه برگشت از مشتری", Channel: models.SaleChannelCash, Kind: costKindShipping},
}

type lineKey struct {
	channel models.SaleChannel
	orderId string
	dkpc    string
}

type ledgerMerger struct {
	lines map[lineKey]*LedgerLine
	// order preserves first-seen insertion order of lines.
	order []*LedgerLine
	log   []string
}

func newLedgerMerger() *ledgerMerger {
	return &ledgerMerger{
		lines: make(map[lineKey]*LedgerLine),
	}
}

func (m *ledgerMerger) logf(format string, args ...interface{}) {
	m.log = append(m.log, fmt.Sprintf(format, args...))
}

func (m *ledgerMerger) getOrCreate(channel models.SaleChannel, orderId, dkpc string) *LedgerLine {
	key := lineKey{channel: channel, orderId: orderId, dkpc: dkpc}
	if line, ok := m.lines[key]; ok {
		return line
	}
	line := &LedgerLine{
		Channel: channel,
		OrderId: orderId,
		Dkpc:    dkpc,
	}
	m.lines[key] = line
	m.order = append(m.order, line)
	return line
}

// sheetRows loads a sheet and resolves its required columns. ok is false when
// the sheet must be skipped; a log entry has been written in that case.
func (m *ledgerMerger) sheetRows(f *excelize.File, sheetNames map[string]bool, name string) (rows [][]string, headers []string, dataStart int, ok bool) {
	if !sheetNames[name] {
		m.logf("شیت %s پیدا نشد؛ از آن عبور می‌کنیم.", name)
		return nil, nil, 0, false
	}
	rows, err := f.GetRows(name)
	if err != nil {
		m.logf("شیت %s: خواندن ردیف‌ها ممکن نشد (%v).", name, err)
		return nil, nil, 0, false
	}
	headers, dataStart = locateHeader(rows)
	if headers == nil {
		m.logf("شیت %s: هدر معتبر پیدا نشد.", name)
		return nil, nil, 0, false
	}
	return rows, headers, dataStart, true
}

func (m *ledgerMerger) readSalesSheet(f *excelize.File, sheetNames map[string]bool, spec salesSheetSpec) {
	rows, headers, dataStart, ok := m.sheetRows(f, sheetNames, spec.Name)
	if !ok {
		return
	}

	idxOrder := findColumn(headers, orderKeywords)
	idxDkpc := findColumn(headers, dkpcKeywords)
	idxTitle := findColumn(headers, titleKeywords)
	idxAmount := findColumn(headers, amountKeywords)

	if idxOrder < 0 || idxDkpc < 0 || idxAmount < 0 {
		m.logf("شیت %s: ستون‌های کلیدی (شماره سفارش/کد تنوع/مبلغ) پیدا نشد.", spec.Name)
		return
	}

	countRows := 0
	for _, row := range rows[dataStart:] {
		orderId := cellAt(row, idxOrder)
		dkpc := cellAt(row, idxDkpc)
		if orderId == "" || dkpc == "" {
			continue
		}

		amount := NormalizeAmount(cellAt(row, idxAmount))

		line := m.getOrCreate(spec.Channel, orderId, dkpc)
		if title := cellAt(row, idxTitle); title != "" {
			line.Title = title
		}

		if spec.IsReturn {
			// Return sheets flag the line and always push the sale amount
			// down, whatever sign the cell carried.
			line.IsReturn = true
			if amount < 0 {
				amount = -amount
			}
			line.SaleAmount -= amount
		} else {
			line.SaleAmount += amount
		}
		countRows++
	}

	m.logf("شیت %s: %d ردیف فروش/برگشتی خوانده شد.", spec.Name, countRows)
}

func (m *ledgerMerger) applyCostSheet(f *excelize.File, sheetNames map[string]bool, spec costSheetSpec) {
	rows, headers, dataStart, ok := m.sheetRows(f, sheetNames, spec.Name)
	if !ok {
		return
	}

	idxOrder := findColumn(headers, orderKeywords)
	idxDkpc := findColumn(headers, dkpcKeywords)
	idxAmount := findColumn(headers, amountKeywords)

	if idxOrder < 0 || idxDkpc < 0 || idxAmount < 0 {
		m.logf("شیت %s: ستون‌های کلیدی (شماره سفارش/کد تنوع/مبلغ) پیدا نشد.", spec.Name)
		return
	}

	countRows := 0
	for _, row := range rows[dataStart:] {
		orderId := cellAt(row, idxOrder)
		dkpc := cellAt(row, idxDkpc)
		if orderId == "" || dkpc == "" {
			continue
		}

		amount := NormalizeAmount(cellAt(row, idxAmount))
		if spec.Reversal {
			amount = -amount
		}

		// A cost row may arrive before (or without) any sale row for the
		// same identity; it then creates the line with a zero sale amount.
		line := m.getOrCreate(spec.Channel, orderId, dkpc)

		switch spec.Kind {
		case costKindCommission:
			line.CommissionAmount += amount
		case costKindShipping:
			line.ShippingFee += amount
		case costKindProcessing:
			line.ProcessingFee += amount
		case costKindPlatformDev:
			line.PlatformDevRevenue += amount
		}
		countRows++
	}

	m.logf("شیت %s: %d ردیف هزینه روی ردیف‌های فروش اعمال شد.", spec.Name, countRows)
}

// finalize classifies and cleans every accumulated line, once, after all
// sheets have been folded in. Order independent over the raw signed fields.
func (m *ledgerMerger) finalize() {
	for _, line := range m.order {
		if line.IsReturn || line.SaleAmount <= 0 {
			line.IsReturn = true
			line.SaleAmount = 0
			line.CommissionAmount = 0
			line.ShippingFee = 0
			line.ProcessingFee = 0
			line.PlatformDevRevenue = 0
			line.TaxAmount = 0
			continue
		}

		line.SaleAmount = clampNonNegative(line.SaleAmount)
		line.CommissionAmount = clampNonNegative(line.CommissionAmount)
		line.ShippingFee = clampNonNegative(line.ShippingFee)
		line.ProcessingFee = clampNonNegative(line.ProcessingFee)
		line.PlatformDevRevenue = clampNonNegative(line.PlatformDevRevenue)

		// Service tax: 10% of commission plus processing, on the stored
		// (clamped) values.
		line.TaxAmount = (line.CommissionAmount + line.ProcessingFee) / 10
	}
}

func clampNonNegative(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}

// ReconcileWorkbook folds the fixed sheet vocabulary of a statement workbook
// into one canonical ledger. Per-row problems are skipped silently; per-sheet
// problems are logged and skipped; the run itself always succeeds.
func ReconcileWorkbook(f *excelize.File) *ReconcileResult {
	m := newLedgerMerger()

	sheetNames := make(map[string]bool)
	for _, name := range f.GetSheetList() {
		sheetNames[name] = true
	}

	for _, spec := range salesSheets {
		m.readSalesSheet(f, sheetNames, spec)
	}
	for _, spec := range costSheets {
		m.applyCostSheet(f, sheetNames, spec)
	}

	m.finalize()

	return &ReconcileResult{
		Lines:    m.order,
		Log:      m.log,
		RowCount: len(m.order),
	}
}
