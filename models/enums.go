package models

// SaleChannel is the marketplace settlement channel of a statement row.
type SaleChannel string

const (
	SaleChannelCash   SaleChannel = "cash"
	SaleChannelCredit SaleChannel = "credit"
)

// Label returns the Persian display label of the channel.
func (c SaleChannel) Label() string {
	if c == SaleChannelCash {
		return "نقدی"
	}
	return "اعتباری"
}

type InvoiceStatus string

const (
	InvoiceStatusPending    InvoiceStatus = "pending"
	InvoiceStatusProcessing InvoiceStatus = "processing"
	InvoiceStatusDone       InvoiceStatus = "done"
	InvoiceStatusError      InvoiceStatus = "error"
)

func (s InvoiceStatus) Label() string {
	switch s {
	case InvoiceStatusPending:
		return "در صف پردازش"
	case InvoiceStatusProcessing:
		return "در حال پردازش"
	case InvoiceStatusDone:
		return "پردازش‌شده"
	case InvoiceStatusError:
		return "خطا در پردازش"
	}
	return string(s)
}

type WalletTransactionType string

const (
	WalletTransactionTypeCredit WalletTransactionType = "credit"
	WalletTransactionTypeDebit  WalletTransactionType = "debit"
)
