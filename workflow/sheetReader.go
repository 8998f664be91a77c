package workflow

import "strings"

// headerScanRows bounds the search for a header row.
const headerScanRows = 10

// Keyword tables for resolving semantic columns from loosely worded headers.
// Treated as configuration data; matching is case-insensitive substring.
var (
	orderKeywords  = []string{"شماره سفارش", "شناسه سفارش"}
	dkpcKeywords   = []string{"کد تنوع", "dkpc"}
	titleKeywords  = []string{"عنوان تنوع", "عنوان کالا"}
	amountKeywords = []string{"مبلغ نهایی", "مبلغ کل", "مبلغ"}
)

// locateHeader scans at most the first 10 rows for the first row with at
// least 3 non-empty cells and returns its trimmed cells plus the index of the
// first data row. A nil header means the sheet is unusable.
func locateHeader(rows [][]string) ([]string, int) {
	limit := len(rows)
	if limit > headerScanRows {
		limit = headerScanRows
	}
	for i := 0; i < limit; i++ {
		filled := 0
		for _, cell := range rows[i] {
			if strings.TrimSpace(cell) != "" {
				filled++
			}
		}
		if filled < 3 {
			continue
		}
		headers := make([]string, len(rows[i]))
		for j, cell := range rows[i] {
			headers[j] = strings.TrimSpace(cell)
		}
		return headers, i + 1
	}
	return nil, 0
}

// findColumn returns the index of the first header (left to right) whose
// lowercased text contains any of the keywords, or -1. Headers are scanned in
// order, all keywords checked per header.
func findColumn(headers []string, keywords []string) int {
	for idx, name := range headers {
		nameLower := strings.ToLower(strings.TrimSpace(name))
		for _, kw := range keywords {
			if strings.Contains(nameLower, strings.ToLower(kw)) {
				return idx
			}
		}
	}
	return -1
}

// cellAt reads a cell tolerant of the ragged rows excelize returns.
func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
