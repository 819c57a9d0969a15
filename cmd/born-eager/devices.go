package main

import (
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List the devices of the simulated cluster",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDevices(cmd.OutOrStdout(), newCluster(settings, logger))
	},
}

func runDevices(w io.Writer, c *cluster) error {
	data := [][]string{{c.settings.LocalDevice.String(), c.role(c.settings.LocalDevice)}}
	for _, d := range c.settings.RemoteDevices {
		data = append(data, []string{d.String(), c.role(d)})
	}

	table := newTable(w, "DEVICE", "ROLE")
	table.AppendBulk(data)
	table.Render()
	return nil
}

// newTable returns a borderless left-aligned table.
func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	return table
}
