package main

import (
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/didilebossducode/lettre-motivation-ai/internal/marker"
)

var markersCmd = &cobra.Command{
	Use:   "markers",
	Short: "List the markers a template can use",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.Header("Marker", "Label", "Color")
		for _, e := range marker.Entries() {
			if err := table.Append([]string{e.Marker.String(), e.Label, e.Color}); err != nil {
				return err
			}
		}
		return table.Render()
	},
}
