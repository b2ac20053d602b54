package cli

import (
	"io"

	"github.com/olekukonko/tablewriter"
)

func newTable(w io.Writer, header []string, alignment int) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	table.SetHeaderLine(false)
	table.SetColumnSeparator("")
	table.SetCenterSeparator("")
	table.SetRowSeparator("")
	table.SetAlignment(alignment)
	table.SetHeaderAlignment(alignment)
	return table
}

// padCells fills a short row to width; rows must match the header length.
func padCells(cells []string, width int) []string {
	for len(cells) < width {
		cells = append(cells, "")
	}
	return cells
}
