package export

import (
	"strings"
	"time"

	"github.com/gosimple/slug"
)

// Filename returns the saved name of a generated letter,
// "stage_<author>_lettre de motivation_<company>.docx", with author and
// company reduced to filesystem-safe slugs.
func Filename(author, company string, f Format) string {
	if f == "" {
		f = FormatDOCX
	}
	return "stage_" + part(author) + "_lettre de motivation_" + part(company) + "." + string(f)
}

// DownloadName returns "lettre_motivation_YYYY-MM-DD.<format>".
func DownloadName(f Format, now time.Time) string {
	return "lettre_motivation_" + now.Format("2006-01-02") + "." + string(f)
}

func part(s string) string {
	if p := slug.Make(strings.TrimSpace(s)); p != "" {
		return p
	}
	return "inconnu"
}
