package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/didilebossducode/lettre-motivation-ai/internal/config"
	"github.com/didilebossducode/lettre-motivation-ai/internal/convert"
	"github.com/didilebossducode/lettre-motivation-ai/internal/export"
)

var (
	configFile string
	verbose    bool

	cfg config.Config
	log *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "lettergen",
	Short: "Generate cover letters from marked templates",
	Long: `lettergen fills cover letter templates and exports them to DOCX or PDF.

Example usage:
  lettergen render modele.txt --set company=Acme --set position=stagiaire
  lettergen generate -t pdf
  lettergen letter demande.yaml -o lettre.docx
  lettergen fill modele.docx --set company=Acme -o lettre.docx
  lettergen templates list`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

		var err error
		if configFile != "" {
			cfg, err = config.LoadFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return err
		}
		return cfg.Validate()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "YAML configuration file (default: $LETTRE_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug messages")

	rootCmd.AddCommand(renderCmd, generateCmd, letterCmd, fillCmd, templatesCmd, markersCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// parseSets turns repeated --set key=value flags into a map.
func parseSets(sets []string) (map[string]string, error) {
	values := make(map[string]string, len(sets))
	for _, s := range sets {
		k, v, ok := strings.Cut(s, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("invalid --set %q, expected key=value", s)
		}
		values[strings.TrimSpace(k)] = v
	}
	return values, nil
}

// formatFor picks the export format from the flag, then the output name.
func formatFor(flag, output string) (export.Format, error) {
	if flag != "" {
		return export.ParseFormat(flag)
	}
	if strings.HasSuffix(strings.ToLower(output), ".pdf") {
		return export.FormatPDF, nil
	}
	return export.FormatDOCX, nil
}

// renderLayout writes layout as DOCX and converts it with soffice for PDF.
func renderLayout(ctx context.Context, layout *export.Layout, f export.Format) ([]byte, error) {
	data, err := export.DOCXBytes(layout)
	if err != nil {
		return nil, fmt.Errorf("write docx: %w", err)
	}
	if f != export.FormatPDF {
		return data, nil
	}
	conv := convert.NewSoffice(cfg.SofficeBinary, cfg.ConvertTimeout, log)
	return conv.ToPDF(ctx, data)
}
