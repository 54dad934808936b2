package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// Document is a printable invoice-like page: a letterhead, an addressee
// block, a table and a closing summary.
type Document struct {
	Issuer    string
	Title     string
	Reference []string
	Addressee []string
	Table     Dataset
	Widths    []float64
	Summary   [][2]string
}

// PDFExporter renders documents with gofpdf core fonts.
type PDFExporter struct{}

func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render lays out doc on A4 portrait pages.
func (e *PDFExporter) Render(doc Document) ([]byte, error) {
	if len(doc.Table.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}
	widths := doc.Widths
	if len(widths) != len(doc.Table.Headers) {
		widths = make([]float64, len(doc.Table.Headers))
		for i := range widths {
			widths[i] = 190.0 / float64(len(widths))
		}
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	if doc.Issuer != "" {
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(0, 8, tr(doc.Issuer), "", 1, "L", false, 0, "")
	}

	if len(doc.Addressee) > 0 {
		pdf.SetFont("Arial", "", 10)
		pdf.SetX(120)
		for _, line := range doc.Addressee {
			pdf.SetX(120)
			pdf.CellFormat(80, 5, tr(line), "", 1, "L", false, 0, "")
		}
		pdf.Ln(6)
	}

	if doc.Title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, tr(doc.Title), "", 1, "L", false, 0, "")
	}
	pdf.SetFont("Arial", "", 9)
	for _, line := range doc.Reference {
		pdf.CellFormat(0, 5, tr(line), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 10)
	for i, header := range doc.Table.Headers {
		pdf.CellFormat(widths[i], 8, tr(header), "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	last := len(doc.Table.Headers) - 1
	for _, row := range doc.Table.Rows {
		for i, header := range doc.Table.Headers {
			align := "L"
			if i == last {
				align = "R"
			}
			pdf.CellFormat(widths[i], 7, tr(row[header]), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	if len(doc.Summary) > 0 {
		pdf.Ln(3)
		labelWidth := 190.0 - widths[last]
		for i, line := range doc.Summary {
			style := ""
			if i == len(doc.Summary)-1 {
				style = "B"
			}
			pdf.SetFont("Arial", style, 10)
			pdf.CellFormat(labelWidth, 7, tr(line[0]), "", 0, "R", false, 0, "")
			pdf.CellFormat(widths[last], 7, tr(line[1]), "", 1, "R", false, 0, "")
		}
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
