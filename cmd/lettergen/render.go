package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/didilebossducode/lettre-motivation-ai/internal/atomicfile"
	"github.com/didilebossducode/lettre-motivation-ai/internal/marker"
)

var (
	renderSets   []string
	renderOutput string
)

var renderCmd = &cobra.Command{
	Use:   "render TEMPLATE",
	Short: "Replace [[key]] placeholders in a plain text template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read template: %w", err)
		}
		values, err := parseSets(renderSets)
		if err != nil {
			return err
		}
		out := marker.ReplacePlain(string(raw), values)

		for _, key := range marker.PlainKeys(out) {
			log.Warn("placeholder left unfilled", "key", key)
		}
		if renderOutput == "" {
			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		}
		return atomicfile.Write(renderOutput, []byte(out), 0o644)
	},
}

func init() {
	renderCmd.Flags().StringArrayVar(&renderSets, "set", nil, "Placeholder value as key=value (repeatable)")
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "Output file (default: stdout)")
}
