package certificate

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// PDFRenderer draws a single A4 certificate page: border, header, student
// name, course title, date and signature line, serial in the footer.
type PDFRenderer struct{}

func NewPDFRenderer() *PDFRenderer { return &PDFRenderer{} }

func (r *PDFRenderer) Render(rec Record) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	w, h := pdf.GetPageSize()

	// Border
	pdf.SetLineWidth(1.4)
	pdf.Rect(10, 10, w-20, h-20, "D")

	// Header
	pdf.SetFont("Helvetica", "B", 30)
	pdf.SetY(40)
	pdf.CellFormat(0, 14, "CERTIFICATE OF COMPLETION", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 16)
	pdf.Ln(6)
	pdf.CellFormat(0, 8, "This is proudly presented to", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "B", 22)
	pdf.Ln(6)
	pdf.CellFormat(0, 10, rec.StudentName, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 16)
	pdf.Ln(6)
	pdf.CellFormat(0, 8, "for successfully completing the course", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Ln(4)
	pdf.CellFormat(0, 9, fmt.Sprintf("%q", rec.CourseTitle), "", 1, "C", false, 0, "")

	// Date and signature
	pdf.SetFont("Helvetica", "", 12)
	pdf.SetY(h - 60)
	pdf.SetX(20)
	pdf.CellFormat(0, 6, "Date: "+rec.IssuedAt.Format("January 2, 2006"), "", 1, "L", false, 0, "")
	pdf.SetX(20)
	pdf.CellFormat(w-40, 6, "Platform Signature: _______________", "", 1, "R", false, 0, "")

	// Footer with the verification serial
	pdf.SetFont("Helvetica", "I", 10)
	pdf.SetY(h - 30)
	pdf.CellFormat(0, 5, "This certificate is generated electronically by the platform.", "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 5, "Serial: "+rec.Serial, "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
