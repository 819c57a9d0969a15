package main

import (
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/born-ml/eager/internal/envconfig"
)

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Print the BORN_* environment variables",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEnv(cmd.OutOrStdout())
	},
}

func runEnv(w io.Writer) error {
	vars := envconfig.AsMap()
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	slices.Sort(names)

	data := make([][]string, 0, len(names))
	for _, name := range names {
		v := vars[name]
		data = append(data, []string{v.Name, fmt.Sprint(v.Value), v.Description})
	}

	table := newTable(w, "NAME", "VALUE", "DESCRIPTION")
	table.AppendBulk(data)
	table.Render()
	return nil
}
