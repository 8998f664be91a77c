package workflow

import "testing"

func TestLocateHeader(t *testing.T) {
	rows := [][]string{
		{"گزارش فروش"},
		{"", ""},
		{"شماره سفارش", "کد تنوع", "مبلغ نهایی"},
		{"100", "D1", "5000"},
	}
	headers, dataStart := locateHeader(rows)
	if headers == nil {
		t.Fatal("expected a header row")
	}
	if dataStart != 3 {
		t.Fatalf("expected data to start at row 3, got %d", dataStart)
	}
	if headers[1] != "کد تنوع" {
		t.Fatalf("unexpected header cell: %q", headers[1])
	}
}

func TestLocateHeader_NotFound(t *testing.T) {
	rows := [][]string{
		{"گزارش"},
		{"", "x"},
	}
	if headers, _ := locateHeader(rows); headers != nil {
		t.Fatalf("expected no header, got %v", headers)
	}
}

func TestLocateHeader_ScanBound(t *testing.T) {
	rows := make([][]string, 0, 12)
	for i := 0; i < 11; i++ {
		rows = append(rows, []string{"x"})
	}
	rows = append(rows, []string{"شماره سفارش", "کد تنوع", "مبلغ نهایی"})
	if headers, _ := locateHeader(rows); headers != nil {
		t.Fatal("header past the scan window must not be found")
	}
}

func TestFindColumn_HeaderMajor(t *testing.T) {
	// The leftmost header matching any keyword wins, even when a later header
	// matches an earlier keyword.
	headers := []string{"تاریخ", "مبلغ کل", "مبلغ نهایی"}
	if got := findColumn(headers, amountKeywords); got != 1 {
		t.Fatalf("expected column 1, got %d", got)
	}
}

func TestFindColumn(t *testing.T) {
	headers := []string{"ردیف", "شماره سفارش دیجی‌کالا", "DKPC کالا", "عنوان تنوع"}
	cases := []struct {
		keywords []string
		expected int
	}{
		{orderKeywords, 1},
		{dkpcKeywords, 2},
		{titleKeywords, 3},
		{amountKeywords, -1},
	}
	for _, tc := range cases {
		if got := findColumn(headers, tc.keywords); got != tc.expected {
			t.Fatalf("findColumn(%v) expected %d, got %d", tc.keywords, tc.expected, got)
		}
	}
}

func TestCellAt(t *testing.T) {
	row := []string{"a", " b "}
	if got := cellAt(row, 1); got != "b" {
		t.Fatalf("expected trimmed cell, got %q", got)
	}
	if got := cellAt(row, 5); got != "" {
		t.Fatalf("expected empty cell past the row end, got %q", got)
	}
	if got := cellAt(row, -1); got != "" {
		t.Fatalf("expected empty cell for a missing column, got %q", got)
	}
}
