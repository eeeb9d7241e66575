package export

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedFormat is returned for output formats other than docx and pdf.
var ErrUnsupportedFormat = errors.New("Format non supporté")

// MissingFieldError lists required fields that were empty, in check order.
type MissingFieldError struct {
	Fields []string
}

func (e *MissingFieldError) Error() string {
	if len(e.Fields) == 1 {
		return fmt.Sprintf("Le champ %s est requis", e.Fields[0])
	}
	return fmt.Sprintf("Les champs %s sont requis", strings.Join(e.Fields, ", "))
}

// CheckRequired returns a *MissingFieldError naming every key of names
// whose value in get is blank, or nil.
func CheckRequired(names []string, get func(string) string) error {
	var missing []string
	for _, n := range names {
		if strings.TrimSpace(get(n)) == "" {
			missing = append(missing, n)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &MissingFieldError{Fields: missing}
}
