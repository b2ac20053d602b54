package invoice

import "context"

type StoreAPI interface {
	CreateInvoice(ctx context.Context, inv *Invoice) error
	ListInvoices(ctx context.Context, tenantID string, limit int) ([]InvoiceSummary, error)
	GetInvoice(ctx context.Context, tenantID, invoiceID string) (InvoiceSummary, error)
	CreateJobRun(ctx context.Context, tenantID, jobType string) (string, error)
	UpdateJobRun(ctx context.Context, runID, status string, detailsJSON []byte) error
}
