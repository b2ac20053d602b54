package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"staffinvoice/internal/domain/invoice"
)

var errNoDatabase = errors.New("DATABASE_URL is not set; invoices are not persisted")

func listCmd(opts *options) *cobra.Command {
	var limit int
	var format string

	c := &cobra.Command{
		Use:   "list",
		Short: "List persisted invoices for the tenant",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := opts.config()
			if !cfg.PersistenceEnabled() {
				return errNoDatabase
			}
			a, err := newApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			summaries, err := a.service.ListInvoices(cmd.Context(), cfg.TenantID, limit)
			if err != nil {
				return err
			}
			return printSummaries(cmd.OutOrStdout(), summaries, format)
		},
	}

	c.Flags().IntVarP(&limit, "limit", "n", invoice.DefaultListLimit, "Maximum number of invoices")
	c.Flags().StringVar(&format, "format", "pretty", "Output format: pretty|json")
	return c
}

func showCmd(opts *options) *cobra.Command {
	var format string

	c := &cobra.Command{
		Use:   "show <invoice-id>",
		Short: "Show one persisted invoice",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.config()
			if !cfg.PersistenceEnabled() {
				return errNoDatabase
			}
			a, err := newApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			summary, err := a.service.GetInvoice(cmd.Context(), cfg.TenantID, args[0])
			if err != nil {
				return err
			}
			return printSummaries(cmd.OutOrStdout(), []invoice.InvoiceSummary{summary}, format)
		},
	}

	c.Flags().StringVar(&format, "format", "pretty", "Output format: pretty|json")
	return c
}

func printSummaries(w io.Writer, summaries []invoice.InvoiceSummary, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(summaries)
	case "pretty", "":
		table := newTable(w, []string{"ID", "TEMPLATE", "STATUS", "ROWS", "FAILED", "GRAND TOTAL", "COST TO CLIENT", "CREATED"}, tablewriter.ALIGN_LEFT)
		for _, s := range summaries {
			table.Append([]string{
				s.ID,
				fmt.Sprintf("%s v%d", s.TemplateID, s.TemplateVersion),
				s.Status,
				strconv.Itoa(s.RowCount),
				strconv.Itoa(s.FailedCount),
				nullString(s.GrandTotal.Valid, s.GrandTotal.Decimal.StringFixed(2)),
				nullString(s.CostToClient.Valid, s.CostToClient.Decimal.StringFixed(2)),
				s.CreatedAt.Format(time.RFC3339),
			})
		}
		table.Render()
		return nil
	default:
		return fmt.Errorf("unsupported format %q (expected pretty|json)", format)
	}
}

func nullString(valid bool, value string) string {
	if !valid {
		return "-"
	}
	return value
}
