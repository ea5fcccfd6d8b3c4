package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// Certificate carries the fields printed on a course completion certificate.
type Certificate struct {
	StudentName string
	CourseName  string
	Instructor  string
	HoursTotal  int
	Label       string
	IssuedOn    string
}

// CertificateExporter renders completion certificates as PDF documents.
type CertificateExporter struct{}

// NewCertificateExporter constructs a certificate exporter.
func NewCertificateExporter() *CertificateExporter {
	return &CertificateExporter{}
}

// Render produces the PDF bytes for one certificate.
func (e *CertificateExporter) Render(cert Certificate) ([]byte, error) {
	if cert.StudentName == "" || cert.CourseName == "" {
		return nil, fmt.Errorf("certificate requires student and course names")
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(20, 30, 20)
	pdf.AddPage()

	translate := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Arial", "B", 28)
	pdf.CellFormat(0, 18, translate("CERTIFICADO"), "", 1, "C", false, 0, "")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 13)
	pdf.MultiCell(0, 8, translate(fmt.Sprintf(
		"Certificamos que %s concluiu o curso de %s, ministrado por %s, com carga horária de %dh.",
		cert.StudentName, cert.CourseName, cert.Instructor, cert.HoursTotal,
	)), "", "C", false)
	pdf.Ln(10)

	if cert.IssuedOn != "" {
		pdf.SetFont("Arial", "I", 11)
		pdf.CellFormat(0, 8, translate("Emitido em "+cert.IssuedOn), "", 1, "C", false, 0, "")
	}

	if cert.Label != "" {
		pdf.SetFont("Arial", "", 8)
		pdf.SetY(-25)
		pdf.CellFormat(0, 6, cert.Label, "", 1, "R", false, 0, "")
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render certificate pdf: %w", err)
	}
	return buf.Bytes(), nil
}
