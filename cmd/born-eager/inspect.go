package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/born-ml/eager/internal/handle"
	"github.com/born-ml/eager/internal/status"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Create handles on every device and print their metadata",
	Long: `Inspect creates a local handle, one handle per simulated device and
a pending handle whose producer never finishes, then prints what each
handle reports. Metadata of the pending handle is unavailable.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInspect(cmd.OutOrStdout(), newCluster(settings, logger))
	},
}

func runInspect(w io.Writer, c *cluster) error {
	work, err := c.populate()
	if err != nil {
		return err
	}
	defer work.Release()

	var data [][]string
	for _, nh := range work.Handles {
		s := handle.Describe(nh.Handle)
		data = append(data, []string{
			nh.Name,
			s.Kind,
			s.DType.String(),
			formatShape(s.Shape),
			formatCount(s),
			orUnknown(s.Device),
			orUnknown(s.Backing),
			strconv.FormatBool(s.Valid),
			strconv.FormatBool(s.Mirroring),
			status.CodeOf(s.Err).String(),
		})
	}

	table := newTable(w, "NAME", "KIND", "DTYPE", "SHAPE", "ELEMENTS", "DEVICE", "BACKING", "VALID", "MIRRORING", "STATUS")
	table.AppendBulk(data)
	table.Render()
	return nil
}

func formatShape(shape []int64) string {
	if shape == nil {
		return "?"
	}
	return fmt.Sprint(shape)
}

func formatCount(s handle.Summary) string {
	if s.Shape == nil {
		return "?"
	}
	return strconv.FormatInt(s.NumElements, 10)
}

func orUnknown(s string) string {
	if s == "" {
		return "?"
	}
	return s
}
