package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"staffinvoice/internal/domain/invoice"
	"staffinvoice/internal/platform/jobs"
)

type fileResult struct {
	File    string           `json:"file"`
	Invoice *invoice.Invoice `json:"invoice,omitempty"`
	Error   string           `json:"error,omitempty"`
	err     error
}

func runCmd(opts *options) *cobra.Command {
	var preview bool
	var strict bool
	var format string
	var places int

	c := &cobra.Command{
		Use:   "run <request-file>...",
		Short: "Generate invoices from request files (YAML or JSON)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.config()
			a, err := newApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			if !cmd.Flags().Changed("round") {
				places = cfg.RoundingPlaces
			}

			results := a.runFiles(cmd.Context(), args, preview)
			if err := printResults(cmd.OutOrStdout(), results, format, places); err != nil {
				return err
			}
			return resultsError(results, strict)
		},
	}

	c.Flags().BoolVar(&preview, "preview", false, "Do not persist invoices")
	c.Flags().BoolVar(&strict, "strict", false, "Exit non-zero when any employee row failed")
	c.Flags().StringVar(&format, "format", "pretty", "Output format: pretty|json")
	c.Flags().IntVar(&places, "round", 2, "Decimal places for output (defaults to ROUNDING_PLACES; -1 keeps exact values)")
	return c
}

// runFiles executes every request file as a job on the background queue.
func (a *app) runFiles(ctx context.Context, paths []string, preview bool) []fileResult {
	results := make([]fileResult, len(paths))
	a.jobs.Start(ctx)
	for i, path := range paths {
		i, path := i, path
		results[i].File = path
		req, err := loadRequest(path)
		if err != nil {
			results[i].err = err
			continue
		}
		if req.TenantID == "" {
			req.TenantID = a.cfg.TenantID
		}

		run := func(ctx context.Context) (any, error) {
			var inv *invoice.Invoice
			var err error
			if preview {
				inv, err = a.service.Preview(ctx, req)
			} else {
				inv, err = a.service.Generate(ctx, req)
			}
			results[i].Invoice, results[i].err = inv, err
			if err != nil {
				return map[string]any{"file": path}, err
			}
			return map[string]any{"file": path, "invoiceId": inv.ID, "rows": len(inv.Rows), "failed": inv.FailedCount(), "preview": preview}, nil
		}
		if !a.jobs.Enqueue(jobs.JobInvoiceRun, req.TenantID, run) {
			_, _ = a.jobs.RunNow(ctx, jobs.JobInvoiceRun, req.TenantID, run)
		}
	}
	a.jobs.Close()

	for i := range results {
		if results[i].Invoice == nil && results[i].err == nil {
			err := ctx.Err()
			if err == nil {
				err = errors.New("job did not run")
			}
			results[i].err = fmt.Errorf("request %s: %w", results[i].File, err)
		}
		if results[i].err != nil {
			results[i].Error = results[i].err.Error()
		}
	}
	return results
}

func resultsError(results []fileResult, strict bool) error {
	failedFiles, failedRows := 0, 0
	for _, result := range results {
		if result.err != nil {
			failedFiles++
			continue
		}
		failedRows += result.Invoice.FailedCount()
	}
	if failedFiles > 0 {
		return fmt.Errorf("%d of %d request(s) failed", failedFiles, len(results))
	}
	if strict && failedRows > 0 {
		return fmt.Errorf("%d employee row(s) failed", failedRows)
	}
	return nil
}

func printResults(w io.Writer, results []fileResult, format string, places int) error {
	if places >= 0 {
		for i := range results {
			if results[i].Invoice != nil {
				results[i].Invoice = invoice.Round(results[i].Invoice, int32(places))
			}
		}
	}
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	case "pretty", "":
		for _, result := range results {
			printPretty(w, result)
		}
		return nil
	default:
		return fmt.Errorf("unsupported format %q (expected pretty|json)", format)
	}
}

func printPretty(w io.Writer, result fileResult) {
	fmt.Fprintf(w, "File:     %s\n", result.File)
	if result.err != nil {
		fmt.Fprintf(w, "Error:    %s\n\n", result.Error)
		return
	}
	inv := result.Invoice
	fmt.Fprintf(w, "Invoice:  %s\n", inv.ID)
	fmt.Fprintf(w, "Template: %s v%d\n", inv.TemplateID, inv.TemplateVersion)
	fmt.Fprintf(w, "Status:   %s\n\n", inv.Status)

	header := []string{"Subject"}
	for _, column := range inv.Columns {
		name := column.Name
		if name == "" {
			name = column.ID
		}
		header = append(header, name)
	}
	table := newTable(w, header, tablewriter.ALIGN_RIGHT)
	for _, row := range inv.Rows {
		table.Append(rowCells(inv.Columns, row, row.Subject))
	}
	table.Append(rowCells(inv.Columns, invoice.Row{Values: inv.ColumnTotals}, "Column total"))
	table.Append(rowCells(inv.Columns, inv.Summary, "Aggregate"))
	table.Render()

	if len(inv.WarningCounts) > 0 {
		fmt.Fprintln(w)
		for _, key := range []string{
			invoice.WarningRowFailed, invoice.WarningNegativeValue, invoice.WarningNegativeGrandTotal,
			invoice.WarningSummaryFailed, invoice.WarningSummaryMismatch,
		} {
			if n := inv.WarningCounts[key]; n > 0 {
				fmt.Fprintf(w, "warning: %s x%d\n", key, n)
			}
		}
	}
	fmt.Fprintln(w)
}

func rowCells(columns []invoice.Column, row invoice.Row, label string) []string {
	cells := []string{label}
	if row.Failed() {
		return padCells(append(cells, "error: "+row.Error), len(columns)+1)
	}
	for _, column := range columns {
		value, ok := row.Values[column.ID]
		if !ok {
			value, ok = row.Totals[column.ID]
		}
		if !ok {
			cells = append(cells, "-")
			continue
		}
		cells = append(cells, value.String())
	}
	return cells
}
