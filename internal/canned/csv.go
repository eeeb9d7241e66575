package canned

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/multierr"
)

// ImportCSV adds one entry per "name,body" row of r. A leading "name,body"
// header row is skipped. Rows that cannot be added are reported in the
// returned error (one per row, see multierr.Errors) while the others are
// still added; the collection is persisted once at the end.
func (r *Repository) ImportCSV(src io.Reader) ([]string, error) {
	reader := csv.NewReader(src)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) > 0 && isHeader(records[0]) {
		records = records[1:]
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var (
		added []string
		errs  error
	)
	for i, row := range records {
		line := i + 1
		if len(row) < 2 {
			errs = multierr.Append(errs, fmt.Errorf("row %d: expected name and body, got %d fields", line, len(row)))
			continue
		}
		name := Normalize(row[0])
		if name == "" {
			errs = multierr.Append(errs, fmt.Errorf("row %d: %w", line, ErrEmptyName))
			continue
		}
		if _, ok := r.entries[name]; ok {
			errs = multierr.Append(errs, fmt.Errorf("row %d: %w", line, &DuplicateNameError{Name: name}))
			continue
		}
		r.entries[name] = strings.Join(row[1:], ",")
		added = append(added, name)
	}

	if len(added) > 0 {
		errs = multierr.Append(errs, r.persist())
	}
	return added, errs
}

func isHeader(row []string) bool {
	return len(row) >= 2 &&
		strings.EqualFold(strings.TrimSpace(row[0]), "name") &&
		strings.EqualFold(strings.TrimSpace(row[1]), "body")
}

// RowErrors splits an ImportCSV error into its per-row parts.
func RowErrors(err error) []error {
	if err == nil {
		return nil
	}
	var pe *PersistenceError
	var out []error
	for _, e := range multierr.Errors(err) {
		if !errors.As(e, &pe) {
			out = append(out, e)
		}
	}
	return out
}
