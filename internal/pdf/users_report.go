package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"userdesk/internal/models"
)

// Generator строит PDF-отчёты; интерфейс нужен для моков в тестах.
type Generator interface {
	UsersReport(users []*models.User, generatedAt time.Time) ([]byte, error)
}

// ReportGenerator renders admin reports. With an empty FontPath the core
// Helvetica font is used and text goes through the cp1252 translator.
type ReportGenerator struct {
	FontPath string // путь до TTF, например "assets/fonts/DejaVuSans.ttf"
	fontName string
}

func NewReportGenerator(fontPath string) *ReportGenerator {
	name := "Helvetica"
	if fontPath != "" {
		name = "DejaVu"
	}
	return &ReportGenerator{FontPath: fontPath, fontName: name}
}

var columns = []struct {
	title string
	width float64
	align string
}{
	{"ID", 15, "R"},
	{"Name", 45, "L"},
	{"Email", 65, "L"},
	{"Role", 20, "C"},
	{"Status", 25, "C"},
}

func (g *ReportGenerator) UsersReport(users []*models.User, generatedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Users", false)
	pdf.SetAuthor("userdesk", false)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)

	tr := func(s string) string { return s }
	if g.FontPath != "" {
		pdf.AddUTF8Font(g.fontName, "", g.FontPath)
		pdf.AddUTF8Font(g.fontName, "B", g.FontPath)
	} else {
		tr = pdf.UnicodeTranslatorFromDescriptor("")
	}
	pdf.AddPage()

	// ===== Заголовок
	pdf.SetFont(g.fontName, "B", 16)
	pdf.CellFormat(0, 10, "Users", "", 1, "C", false, 0, "")
	pdf.SetFont(g.fontName, "", 10)
	sub := fmt.Sprintf("%d total, generated %s", len(users), generatedAt.UTC().Format("02.01.2006 15:04 MST"))
	pdf.CellFormat(0, 6, sub, "", 1, "C", false, 0, "")
	g.hr(pdf)

	// ===== Таблица
	pdf.SetFont(g.fontName, "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for _, c := range columns {
		pdf.CellFormat(c.width, 7, c.title, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont(g.fontName, "", 9)
	for _, u := range users {
		cells := []string{fmt.Sprintf("%d", u.ID), u.Name, u.Email, u.Role, u.Status}
		for i, c := range columns {
			pdf.CellFormat(c.width, 6, tr(truncate(cells[i], c.width)), "1", 0, c.align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render users report: %w", err)
	}
	return buf.Bytes(), nil
}

func (g *ReportGenerator) hr(pdf *gofpdf.Fpdf) {
	y := pdf.GetY() + 1.5
	pdf.SetLineWidth(0.2)
	pdf.Line(20, y, 190, y)
	pdf.SetY(y + 2)
}

// roughly two characters per millimetre at 9pt
func truncate(s string, width float64) string {
	limit := int(width * 0.5)
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-1]) + "…"
}
