package constants

// Field keys for extracted invoice key-values. Stable strings: they are
// persisted in chunk metadata and consumed by search clients.
const (
	FieldInvoiceNumber  = "invoice_number"
	FieldInvoiceDate    = "invoice_date"
	FieldDueDate        = "due_date"
	FieldTotalAmount    = "total_amount"
	FieldSubtotalAmount = "subtotal_amount"
	FieldVATAmount      = "vat_amount"
	FieldCurrency       = "currency"
	FieldSupplierName   = "supplier_name"
	FieldCustomerName   = "customer_name"
)

// FieldKeys lists every key present in key_values, in output order.
var FieldKeys = []string{
	FieldInvoiceNumber,
	FieldInvoiceDate,
	FieldDueDate,
	FieldTotalAmount,
	FieldSubtotalAmount,
	FieldVATAmount,
	FieldCurrency,
	FieldSupplierName,
	FieldCustomerName,
}

// KnownCurrencies are matched as case-insensitive substrings, in this order.
var KnownCurrencies = []string{
	"SEK", "USD", "EUR", "GBP", "NOK", "DKK", "CHF", "JPY",
	"kr", "dkk", "nok", "usd", "eur", "$", "€",
}

// Detected language codes.
const (
	LangSwedish = "sv"
	LangEnglish = "en"
	LangUnknown = "unknown"
)

// Sampling strategies. Anything else is treated as linear.
const (
	StrategyLinear = "linear"
	StrategyRandom = "random"
)

// EmptyPagePlaceholder is stored instead of blank page text so page
// numbering stays contiguous and addressable. %d is the 1-based page number.
const EmptyPagePlaceholder = "[Empty page %d]"
