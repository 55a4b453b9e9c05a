package xlsexport

import (
	"bytes"
	"fmt"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	notifytemplate "case-flow-backend/lib/notify-template"
	"case-flow-backend/models"
	caseapimodels "case-flow-backend/models/api/caseapi"
)

type Provider interface {
	ExportCaseList(list []caseapimodels.CaseView) (*bytes.Buffer, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{}
}

type impl struct{}

var caseHeaders = []string{"Ref No", "Client", "Product", "Quantity", "Target Price", "Status", "Creator", "Created", "Last Event"}

func (i impl) ExportCaseList(list []caseapimodels.CaseView) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Error("failed to close xlsx file")
		}
	}()
	sheet := "Sheet1"
	row := 0
	row, err := writeHeader(f, sheet, row, caseHeaders)
	if err != nil {
		return nil, errors.Wrap(err, "failed to write xlsx header")
	}
	if len(list) != 0 {
		row, err = writeCaseData(f, sheet, list, row)
		if err != nil {
			return nil, errors.Wrap(err, "failed to write xlsx data rows")
		}
	}
	f.SetSheetName(sheet, "Cases")
	return f.WriteToBuffer()
}

func writeCaseData(f *excelize.File, sheet string, list []caseapimodels.CaseView, row int) (int, error) {
	if err := applyDataCellStyle(f, sheet, 1, row+1, len(caseHeaders), len(list)+1); err != nil {
		return row, err
	}
	for _, item := range list {
		row++
		// "Ref No"
		col := 1
		if err := writeColumn(f, sheet, col, row, item.RefNo); err != nil {
			return row, err
		}

		// "Client"
		col++
		if err := writeColumn(f, sheet, col, row, item.ClientName); err != nil {
			return row, err
		}

		// "Product"
		col++
		if err := writeColumn(f, sheet, col, row, item.ProductName); err != nil {
			return row, err
		}

		// "Quantity"
		col++
		if err := writeColumn(f, sheet, col, row, item.Quantity); err != nil {
			return row, err
		}

		// "Target Price"
		col++
		if item.TargetPrice > 0 {
			price := fmt.Sprintf("%.2f %s", item.TargetPrice, item.Currency)
			if err := writeColumn(f, sheet, col, row, price); err != nil {
				return row, err
			}
		}

		// "Status"
		col++
		if err := writeColumn(f, sheet, col, row, notifytemplate.StatusLabel(models.BaseLang, item.Status)); err != nil {
			return row, err
		}

		// "Creator"
		col++
		if err := writeColumn(f, sheet, col, row, item.CreatorName); err != nil {
			return row, err
		}

		// "Created"
		col++
		if !item.CreatedAt.IsZero() {
			if err := writeColumn(f, sheet, col, row, item.CreatedAt.Format("2006-01-02")); err != nil {
				return row, err
			}
		}

		// "Last Event"
		col++
		if len(item.Events) > 0 {
			last := item.Events[len(item.Events)-1]
			if err := writeColumn(f, sheet, col, row, last.EventAt.Format("2006-01-02 15:04")); err != nil {
				return row, err
			}
		}
	}
	return row, nil
}
