package pdfexport

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"

	notifytemplate "case-flow-backend/lib/notify-template"
	"case-flow-backend/models"
	caseapimodels "case-flow-backend/models/api/caseapi"
)

// GenerateCaseCard renders a one-page case summary with the full status
// history. Core fonts only, so non-latin field values are not supported here.
func GenerateCaseCard(view caseapimodels.CaseView) (pdfFile []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("GenerateCaseCard panic recover: %v", r)
		}
	}()
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, fmt.Sprintf("Case %s", view.RefNo), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Status: %s", notifytemplate.StatusLabel(models.BaseLang, view.Status)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Created: %s by %s", view.CreatedAt.Format("2006-01-02"), view.CreatorName), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	writeField(pdf, "Client", view.ClientName)
	writeField(pdf, "Product", view.ProductName)
	writeField(pdf, "Quantity", fmt.Sprintf("%d", view.Quantity))
	if view.TargetPrice > 0 {
		writeField(pdf, "Target price", fmt.Sprintf("%.2f %s", view.TargetPrice, view.Currency))
	}
	if view.BomFolderLink != "" {
		writeField(pdf, "BOM folder", view.BomFolderLink)
	}
	if view.Details != "" {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(0, 6, "Details", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 5, view.Details, "", "L", false)
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "History", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(40, 6, "When", "B", 0, "L", false, 0, "")
	pdf.CellFormat(50, 6, "Status", "B", 0, "L", false, 0, "")
	pdf.CellFormat(45, 6, "Actor", "B", 0, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Comment", "B", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	for _, ev := range view.Events {
		pdf.CellFormat(40, 6, ev.EventAt.Format("2006-01-02 15:04"), "", 0, "L", false, 0, "")
		pdf.CellFormat(50, 6, notifytemplate.StatusLabel(models.BaseLang, ev.Status), "", 0, "L", false, 0, "")
		pdf.CellFormat(45, 6, ev.ActorName, "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, ev.Comment, "", 1, "L", false, 0, "")
	}
	if pdf.Error() != nil {
		return nil, pdf.Error()
	}

	buf := new(bytes.Buffer)
	if err = pdf.Output(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeField(pdf *fpdf.Fpdf, label, value string) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(35, 6, label, "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, value, "", 1, "L", false, 0, "")
}
