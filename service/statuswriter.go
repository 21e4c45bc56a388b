package service

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/AAK-MBU/MBU-Egenbefordring/model"
	"github.com/xuri/excelize/v2"
)

// Writer-managed status columns and the marker written into them.
const (
	colBehandletFejl = "behandlet_fejl"
	colBehandletOk   = "behandlet_ok"
	statusMark       = "x"
)

// StatusWriter mutates the originating spreadsheet after a queue element
// has been processed.
type StatusWriter struct {
	workDir string
}

func NewStatusWriter(workDir string) *StatusWriter {
	return &StatusWriter{workDir: workDir}
}

// RecordOutcome marks the row whose uuid matches with exactly one of the
// two status flags and clears the other, so a retry can flip an earlier
// failure to success. The workbook is replaced atomically.
func (w *StatusWriter) RecordOutcome(formID, filename string, failed bool) error {
	path := filepath.Join(w.workDir, filename)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%s: %w", filename, model.ErrFileNotFound)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return fmt.Errorf("workbook %s has no sheets", filename)
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("workbook %s has no header row", filename)
	}

	header := rows[0]
	uuidCol, fejlCol, okCol := -1, -1, -1
	for i, name := range header {
		switch name {
		case colUUID:
			uuidCol = i
		case colBehandletFejl:
			fejlCol = i
		case colBehandletOk:
			okCol = i
		}
	}
	if uuidCol == -1 {
		return fmt.Errorf("workbook %s has no uuid column", filename)
	}

	// Ensure both status columns exist as text columns.
	next := len(header)
	if fejlCol == -1 {
		fejlCol = next
		next++
		if err := setCell(f, sheet, fejlCol, 0, colBehandletFejl); err != nil {
			return err
		}
	}
	if okCol == -1 {
		okCol = next
		if err := setCell(f, sheet, okCol, 0, colBehandletOk); err != nil {
			return err
		}
	}

	markCol, clearCol := okCol, fejlCol
	if failed {
		markCol, clearCol = fejlCol, okCol
	}

	for i := 1; i < len(rows); i++ {
		if uuidCol >= len(rows[i]) || rows[i][uuidCol] != formID {
			continue
		}
		if err := setCell(f, sheet, markCol, i, statusMark); err != nil {
			return err
		}
		if err := setCell(f, sheet, clearCol, i, ""); err != nil {
			return err
		}
	}

	return saveAtomic(f, path)
}

func setCell(f *excelize.File, sheet string, col, row int, value string) error {
	cell, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}
	if err := f.SetCellStr(sheet, cell, value); err != nil {
		return fmt.Errorf("set cell %s: %w", cell, err)
	}
	return nil
}

// saveAtomic writes to a temp file and renames it over the original so a
// crash mid-write cannot leave a half-written workbook behind.
func saveAtomic(f *excelize.File, path string) error {
	tmp := path + ".tmp"
	if err := f.SaveAs(tmp); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace workbook: %w", err)
	}
	return nil
}
