package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/didilebossducode/lettre-motivation-ai/internal/atomicfile"
	"github.com/didilebossducode/lettre-motivation-ai/internal/fill"
)

var (
	fillSets   []string
	fillOutput string
)

var fillCmd = &cobra.Command{
	Use:   "fill TEMPLATE.docx",
	Short: "Replace [[key]] placeholders inside a Word document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		values, err := parseSets(fillSets)
		if err != nil {
			return err
		}
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		info, err := f.Stat()
		if err != nil {
			return err
		}

		data, n, err := fill.Template(f, info.Size(), values)
		if err != nil {
			return fmt.Errorf("fill %s: %w", args[0], err)
		}
		if err := atomicfile.Write(fillOutput, data, 0o644); err != nil {
			return err
		}
		log.Info("document filled", "path", fillOutput, "replacements", n)
		return nil
	},
}

func init() {
	fillCmd.Flags().StringArrayVar(&fillSets, "set", nil, "Placeholder value as key=value (repeatable)")
	fillCmd.Flags().StringVarP(&fillOutput, "output", "o", "", "Output file")
	_ = fillCmd.MarkFlagRequired("output")
}
