package invoice

const (
	StatusGenerated = "generated"
	StatusPartial   = "partial"

	WarningNegativeValue      = "negative_value"
	WarningNegativeGrandTotal = "negative_grand_total"
	WarningRowFailed          = "row_failed"
	WarningSummaryFailed      = "summary_failed"
	WarningSummaryMismatch    = "summary_mismatch"

	DefaultAggregateSubject = "aggregate"
	DefaultListLimit        = 50
)
