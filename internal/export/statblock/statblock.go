// Package statblock renders an encounter as printable stat-block cards.
package statblock

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf/v2"

	"github.com/KirkDiggler/encounter-forge/internal/entities"
	"github.com/KirkDiggler/encounter-forge/internal/errors"
)

const (
	margin     = 36.0
	lineHeight = 13.0
	cardGap    = 12.0
)

// Render lays out one card per enemy on A4 pages. Only core fonts are used,
// so text outside cp1252 is not rendered faithfully.
func Render(encounter *entities.Encounter) ([]byte, error) {
	if encounter == nil {
		return nil, errors.InvalidArgument("encounter is required")
	}

	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(encounter.Title, true)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, pageH := pdf.GetPageSize()
	width := pageW - 2*margin

	pdf.SetTextColor(80, 20, 20)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(width, 24, tr(encounter.Title), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "I", 10)
	pdf.SetTextColor(60, 60, 60)
	pdf.CellFormat(width, 14, tr(subtitle(encounter)), "", 1, "L", false, 0, "")
	pdf.Ln(cardGap)

	for _, enemy := range encounter.Enemies {
		if pdf.GetY()+cardHeight(enemy) > pageH-margin {
			pdf.AddPage()
		}
		drawCard(pdf, tr, enemy, width)
	}

	if err := pdf.Error(); err != nil {
		return nil, errors.Wrap(err, "failed to lay out stat blocks")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, errors.Wrap(err, "failed to write stat block pdf")
	}
	return buf.Bytes(), nil
}

func subtitle(encounter *entities.Encounter) string {
	return fmt.Sprintf("%s - %s - %d creature(s)",
		encounter.EnemyType, encounter.Difficulty, len(encounter.Enemies))
}

func cardHeight(enemy entities.Enemy) float64 {
	lines := 4 + len(enemy.Abilities) + len(enemy.SpecialActions)
	return float64(lines)*lineHeight + cardGap + 8
}

func drawCard(pdf *gofpdf.Fpdf, tr func(string) string, enemy entities.Enemy, width float64) {
	top := pdf.GetY()

	pdf.SetTextColor(80, 20, 20)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(width, 16, tr(enemy.Name), "", 1, "L", false, 0, "")

	pdf.SetDrawColor(150, 40, 40)
	pdf.Line(margin, pdf.GetY(), margin+width, pdf.GetY())
	pdf.Ln(3)

	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(width, lineHeight,
		fmt.Sprintf("Armor Class %d    Hit Points %d    Speed %d ft.", enemy.ArmorClass, enemy.HitPoints, enemy.Speed),
		"", 1, "L", false, 0, "")

	section(pdf, tr, "Abilities", enemy.Abilities, width)
	section(pdf, tr, "Special Actions", enemy.SpecialActions, width)

	pdf.SetDrawColor(200, 200, 200)
	pdf.Rect(margin-4, top-4, width+8, pdf.GetY()-top+8, "D")
	pdf.Ln(cardGap)
}

func section(pdf *gofpdf.Fpdf, tr func(string) string, heading string, items []string, width float64) {
	if len(items) == 0 {
		return
	}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(width, lineHeight, heading, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	for _, item := range items {
		pdf.MultiCell(width, lineHeight, tr("- "+item), "", "L", false)
	}
}
