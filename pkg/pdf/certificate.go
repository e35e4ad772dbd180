package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// CertificateData carries everything printed on a course certificate.
type CertificateData struct {
	StudentName string
	Profession  string
	CourseTitle string
	Hours       int
	IssueDate   time.Time
}

// RenderCertificate produces the certificate PDF as a byte slice ready for
// upload to file storage.
func RenderCertificate(data CertificateData) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	// Core fonts use cp1252; accented Portuguese text must go through the
	// translator or it renders as mojibake.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 28)
	pdf.CellFormat(0, 30, tr("Certificado de Conclusão"), "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 14)
	pdf.CellFormat(0, 10, tr("Certificamos que"), "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "B", 20)
	pdf.CellFormat(0, 14, tr(data.StudentName), "", 1, "C", false, 0, "")

	if data.Profession != "" {
		pdf.SetFont("Arial", "I", 12)
		pdf.CellFormat(0, 8, tr(data.Profession), "", 1, "C", false, 0, "")
	}

	pdf.SetFont("Arial", "", 14)
	pdf.CellFormat(0, 12, tr("concluiu o curso"), "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(0, 12, tr(data.CourseTitle), "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 12)
	body := fmt.Sprintf("com carga horária de %d horas, emitido em %s.",
		data.Hours, data.IssueDate.Format("02/01/2006"))
	pdf.CellFormat(0, 12, tr(body), "", 1, "C", false, 0, "")

	pdf.Ln(16)
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 8, tr("Associação Pro"), "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render certificate pdf: %w", err)
	}
	return buf.Bytes(), nil
}
