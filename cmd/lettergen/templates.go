package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/didilebossducode/lettre-motivation-ai/internal/canned"
)

var templateBodyFile string

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "Manage canned paragraphs",
}

// openTemplates opens the configured collection. An unreadable store falls
// back to the defaults with a warning.
func openTemplates() (*canned.Repository, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		return nil, err
	}
	repo, err := canned.Open(canned.FileStore{Path: cfg.TemplatesPath()})
	if err != nil {
		if !warnPersistence(err) {
			return nil, err
		}
	}
	return repo, nil
}

// warnPersistence logs a store failure, which leaves memory changed, and
// reports whether err was one.
func warnPersistence(err error) bool {
	var pe *canned.PersistenceError
	if errors.As(err, &pe) {
		log.Warn("template store write failed", "error", pe)
		return true
	}
	return false
}

// mutate runs a change and treats a persistence failure as a warning.
func mutate(err error) error {
	if err == nil || warnPersistence(err) {
		return nil
	}
	return err
}

func bodyArg(args []string, i int) (string, error) {
	if templateBodyFile != "" {
		raw, err := os.ReadFile(templateBodyFile)
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}
	if len(args) <= i {
		return "", errors.New("body is required (argument or --file)")
	}
	return args[i], nil
}

func printEntries(cmd *cobra.Command, entries []canned.Entry) error {
	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.Header("Name", "Body")
	for _, e := range entries {
		body := strings.ReplaceAll(e.Body, "\n", " ")
		if r := []rune(body); len(r) > 60 {
			body = string(r[:57]) + "..."
		}
		if err := table.Append([]string{e.Name, body}); err != nil {
			return err
		}
	}
	return table.Render()
}

var templatesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List canned paragraphs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := openTemplates()
		if err != nil {
			return err
		}
		return printEntries(cmd, repo.List())
	},
}

var templatesSearchCmd = &cobra.Command{
	Use:   "search QUERY",
	Short: "Fuzzy search canned paragraph names",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := openTemplates()
		if err != nil {
			return err
		}
		return printEntries(cmd, repo.Search(args[0]))
	},
}

var templatesAddCmd = &cobra.Command{
	Use:   "add NAME [BODY]",
	Short: "Add a canned paragraph",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := bodyArg(args, 1)
		if err != nil {
			return err
		}
		repo, err := openTemplates()
		if err != nil {
			return err
		}
		return mutate(repo.Add(args[0], body))
	},
}

var templatesEditCmd = &cobra.Command{
	Use:   "edit NAME [BODY]",
	Short: "Replace a canned paragraph's body",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := bodyArg(args, 1)
		if err != nil {
			return err
		}
		repo, err := openTemplates()
		if err != nil {
			return err
		}
		return mutate(repo.Edit(args[0], body))
	},
}

var templatesRenameCmd = &cobra.Command{
	Use:   "rename OLD NEW",
	Short: "Rename a canned paragraph",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := openTemplates()
		if err != nil {
			return err
		}
		return mutate(repo.Rename(args[0], args[1]))
	},
}

var templatesDeleteCmd = &cobra.Command{
	Use:   "delete NAME",
	Short: "Delete a canned paragraph",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := openTemplates()
		if err != nil {
			return err
		}
		return mutate(repo.Delete(args[0]))
	},
}

var templatesImportCmd = &cobra.Command{
	Use:   "import FILE.csv",
	Short: "Add canned paragraphs from name,body CSV rows",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		repo, err := openTemplates()
		if err != nil {
			return err
		}

		added, err := repo.ImportCSV(f)
		if err != nil && len(added) == 0 {
			return err
		}
		for _, rowErr := range canned.RowErrors(err) {
			log.Warn("row skipped", "error", rowErr)
		}
		warnPersistence(err)
		fmt.Fprintf(cmd.OutOrStdout(), "%d template(s) imported\n", len(added))
		return nil
	},
}

func init() {
	templatesAddCmd.Flags().StringVarP(&templateBodyFile, "file", "f", "", "Read the body from a file")
	templatesEditCmd.Flags().StringVarP(&templateBodyFile, "file", "f", "", "Read the body from a file")

	templatesCmd.AddCommand(templatesListCmd, templatesSearchCmd, templatesAddCmd,
		templatesEditCmd, templatesRenameCmd, templatesDeleteCmd, templatesImportCmd)
}
