package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/phpdave11/gofpdf"
)

// Statement describes a printable earnings statement: a titled table of the
// rows currently held by a list view, plus a totals line.
type Statement struct {
	Title    string
	Partner  string
	Period   string
	Columns  []string
	Rows     [][]string
	TotalRow []string
}

// ToPDFFile renders the statement and writes it into exportPath, returning
// the full path.
func (s Statement) ToPDFFile(exportPath string) (string, error) {
	if err := os.MkdirAll(exportPath, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle(s.Title, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, s.Title)
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Partner : %s", s.Partner))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Period  : %s", s.Period))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Issued  : %s", time.Now().Format("2006-01-02 15:04")))
	pdf.Ln(10)

	colWidth := 270.0 / float64(len(s.Columns))

	pdf.SetFont("Helvetica", "B", 10)
	for _, col := range s.Columns {
		pdf.CellFormat(colWidth, 7, col, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(7)

	pdf.SetFont("Helvetica", "", 10)
	for _, row := range s.Rows {
		for i := 0; i < len(s.Columns); i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			pdf.CellFormat(colWidth, 6, cell, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(6)
	}

	if len(s.TotalRow) > 0 {
		pdf.SetFont("Helvetica", "B", 10)
		for i := 0; i < len(s.Columns); i++ {
			cell := ""
			if i < len(s.TotalRow) {
				cell = s.TotalRow[i]
			}
			pdf.CellFormat(colWidth, 7, cell, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(10)
	}

	pdf.SetFont("Helvetica", "I", 9)
	pdf.MultiCell(0, 5, "Figures are reported by the platform and may lag live activity. Contact partner support for discrepancies.", "", "", false)

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	filePath := filepath.Join(exportPath, fmt.Sprintf("statement_%s.pdf", timestamp))

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("failed to write statement PDF: %w", err)
	}
	return filePath, nil
}
