package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"staffinvoice/internal/domain/invoice"
	"staffinvoice/internal/domain/lineitem"
	"staffinvoice/internal/platform/logging"
)

func validateCmd(opts *options) *cobra.Command {
	c := &cobra.Command{
		Use:   "validate <request-file>",
		Short: "Resolve a template against its catalog without evaluating it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.config()
			req, err := loadRequest(args[0])
			if err != nil {
				return err
			}
			if req.TenantID == "" {
				req.TenantID = cfg.TenantID
			}

			svc := invoice.NewService(nil, nil, invoice.NewPlanCache(1), logging.New(cfg))
			plan, err := svc.Validate(req.TenantID, req.Template, req.Catalog)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "OK")
			fmt.Fprintf(out, "order: %s\n", strings.Join(plan.Order(), " -> "))
			printPlan(out, plan)
			return nil
		},
	}
	return c
}

// printPlan lists line items in evaluation order with their effective
// category; section totals show the items they sum.
func printPlan(w io.Writer, plan *lineitem.Plan) {
	table := newTable(w, []string{"ID", "KIND", "CATEGORY", "INPUTS"}, tablewriter.ALIGN_LEFT)
	for _, id := range plan.Order() {
		item, ok := plan.Item(id)
		if !ok {
			continue
		}
		inputs := item.Formula.Operands()
		if section, isSection := item.Formula.(lineitem.SectionTotal); isSection {
			inputs = plan.Members(section.Section)
		}
		category := string(plan.Category(id))
		if category == "" {
			category = "-"
		}
		table.Append([]string{id, string(item.Formula.Kind()), category, strings.Join(inputs, ", ")})
	}
	table.Render()
}
