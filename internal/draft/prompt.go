package draft

import (
	"fmt"
	"strings"

	"github.com/didilebossducode/lettre-motivation-ai/internal/marker"
)

// Request carries the form fields a draft is built from.
type Request struct {
	Template        string `json:"template"`
	Company         string `json:"company"`
	Position        string `json:"position"`
	Duration        string `json:"duration"`
	StartDate       string `json:"start_date"`
	CustomParagraph string `json:"custom_paragraph"`
}

// Values returns the [[key]] replacements for the request. The custom
// paragraph answers to both custom_paragraph and custom.
func (r Request) Values() map[string]string {
	return map[string]string{
		"company":          r.Company,
		"position":         r.Position,
		"duration":         r.Duration,
		"start_date":       r.StartDate,
		"custom_paragraph": r.CustomParagraph,
		"custom":           r.CustomParagraph,
	}
}

const defaultPrompt = `En tant qu'expert en rédaction de lettres de motivation, génère une lettre de motivation professionnelle et persuasive pour le poste de %s chez %s.

Informations supplémentaires :
- Type de contrat : %s
- Date de début : %s
- Paragraphe personnalisé : %s

La lettre doit être formelle, bien structurée et mettre en avant les compétences et la motivation du candidat.
Utilise le paragraphe personnalisé pour adapter la lettre au poste et à l'entreprise.
N'inclus pas la mise en page (date, adresse, etc.) dans la réponse.`

// BuildPrompt fills the request's template with its values. A blank
// template, or one that is blank once filled, gives the default prompt.
func BuildPrompt(r Request) string {
	prompt := marker.ReplacePlain(r.Template, r.Values())
	if strings.TrimSpace(prompt) != "" {
		return prompt
	}
	return fmt.Sprintf(defaultPrompt, r.Position, r.Company, r.Duration, r.StartDate, r.CustomParagraph)
}
