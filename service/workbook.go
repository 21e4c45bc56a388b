package service

import (
	"errors"
	"fmt"
	"os"

	"github.com/AAK-MBU/MBU-Egenbefordring/model"
	"github.com/xuri/excelize/v2"
)

// Column names in the OS2Forms expense export.
const (
	colCPR            = "cpr_nr"
	colCPRSecondary   = "cpr_nr_paaanden"
	colChildName      = "barnets_navn"
	colAmount         = "beloeb_i_alt"
	colAmendedAmount  = "aendret_beloeb_i_alt"
	colSchoolList     = "skoleliste"
	colSchoolFreeText = "skriv_dit_barns_skole_eller_dagtilbud"
	colUUID           = "uuid"
	colApproved       = "godkendt"
	colApprovedBy     = "godkendt_af"
	colComment        = "evt_kommentar"
	colAttachments    = "attachments"
	colDateEntries    = "test"
)

// LoadRows reads the first sheet of the spreadsheet into typed rows. The
// header row decides which cell lands in which field; unknown columns are
// ignored so the writer-managed status columns survive a reload.
func LoadRows(path string) ([]model.RawRow, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", path, model.ErrFileNotFound)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook %s has no sheets", path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("workbook %s has no header row", path)
	}

	header := rows[0]
	result := make([]model.RawRow, 0, len(rows)-1)
	for _, cells := range rows[1:] {
		var row model.RawRow
		for i, name := range header {
			value := ""
			if i < len(cells) {
				value = cells[i]
			}
			setField(&row, name, value)
		}
		result = append(result, row)
	}
	return result, nil
}

func setField(row *model.RawRow, column, value string) {
	switch column {
	case colCPR:
		row.CPR = value
	case colCPRSecondary:
		row.CPRSecondary = value
	case colChildName:
		row.ChildName = value
	case colAmount:
		row.Amount = value
	case colAmendedAmount:
		row.AmendedAmount = value
	case colSchoolList:
		row.SchoolList = value
	case colSchoolFreeText:
		row.SchoolFreeText = value
	case colUUID:
		row.UUID = value
	case colApproved:
		row.Approved = value
	case colApprovedBy:
		row.ApprovedBy = value
	case colComment:
		row.Comment = value
	case colAttachments:
		row.Attachments = value
	case colDateEntries:
		row.DateEntries = value
	}
}
