package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/didilebossducode/lettre-motivation-ai/internal/atomicfile"
	"github.com/didilebossducode/lettre-motivation-ai/internal/export"
)

var (
	letterType   string
	letterOutput string
)

var letterCmd = &cobra.Command{
	Use:   "letter REQUEST",
	Short: "Build a formal letter from a YAML or JSON request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read request: %w", err)
		}
		// JSON is valid YAML, so one decoder reads both.
		var l export.Letter
		if err := yaml.Unmarshal(raw, &l); err != nil {
			return fmt.Errorf("parse request %s: %w", args[0], err)
		}
		if letterType != "" {
			l.Format = letterType
		}
		format, err := l.Validate()
		if err != nil {
			return err
		}

		now := time.Now()
		data, err := renderLayout(cmd.Context(), export.BuildLetter(l, now), format)
		if err != nil {
			return err
		}
		out := letterOutput
		if out == "" {
			out = export.DownloadName(format, now)
		}
		if err := atomicfile.Write(out, data, 0o644); err != nil {
			return err
		}
		log.Info("letter written", "path", out, "company", l.Company)
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	letterCmd.Flags().StringVarP(&letterType, "type", "t", "", "Output type: docx or pdf (overrides the request)")
	letterCmd.Flags().StringVarP(&letterOutput, "output", "o", "", "Output file (default: lettre_motivation_<date>.<type>)")
}
