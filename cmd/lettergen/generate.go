package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/didilebossducode/lettre-motivation-ai/internal/atomicfile"
	"github.com/didilebossducode/lettre-motivation-ai/internal/session"
)

var (
	generateSession string
	generateType    string
	generateOutput  string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the letter of a saved session",
	Long: `generate substitutes the markers of a saved session's template and
exports the result. Without -o the file goes to the session's save folder,
or the current directory, under its generated name.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := generateSession
		if path == "" {
			path = cfg.SessionPath()
		}
		snap, err := (session.FileStore{Path: path}).Load(cmd.Context())
		if err != nil {
			return fmt.Errorf("load session: %w", err)
		}
		if _, skipped, err := snap.Document(); err == nil && len(skipped) > 0 {
			log.Warn("unknown tags skipped", "tags", skipped)
		}

		format, err := formatFor(generateType, generateOutput)
		if err != nil {
			return err
		}
		layout, err := snap.Layout(time.Now())
		if err != nil {
			return err
		}
		data, err := renderLayout(cmd.Context(), layout, format)
		if err != nil {
			return err
		}

		out := generateOutput
		if out == "" {
			wd, err := os.Getwd()
			if err != nil {
				return err
			}
			out = snap.OutputPath(wd, cfg.Author, format)
		}
		if err := atomicfile.Write(out, data, 0o644); err != nil {
			return err
		}
		log.Info("letter generated", "path", out, "bytes", len(data))
		fmt.Fprintln(cmd.OutOrStdout(), filepath.Clean(out))
		return nil
	},
}

func init() {
	generateCmd.Flags().StringVar(&generateSession, "session", "", "Session file (default: the data dir session)")
	generateCmd.Flags().StringVarP(&generateType, "type", "t", "", "Output type: docx or pdf (default: guess from filename)")
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "", "Output file")
}
