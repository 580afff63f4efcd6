package spreadsheet

import (
	"fmt"
	"os"
	"path/filepath"

	"balance_exporter/internal/app/port"
	"balance_exporter/internal/domain/entity"

	"github.com/xuri/excelize/v2"
)

const defaultSheetName = "Sheet1"

// XLSXWriter implements port.ReportWriter by writing a single-sheet workbook.
type XLSXWriter struct {
	path      string
	sheetName string
	logger    port.Logger
}

// NewXLSXWriter creates a writer for path. An existing file at path is replaced.
func NewXLSXWriter(path, sheetName string, logger port.Logger) *XLSXWriter {
	return &XLSXWriter{
		path:      path,
		sheetName: sheetName,
		logger:    logger,
	}
}

// Write stores the header row followed by one row per wallet. The workbook is written
// to a temporary file next to the target and renamed into place, so readers never
// observe a partially written report.
func (w *XLSXWriter) Write(table *entity.ResultTable) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(defaultSheetName, w.sheetName); err != nil {
		return fmt.Errorf("rename sheet to %q: %w", w.sheetName, err)
	}

	for i, record := range table.Records() {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(record))
		for j, v := range record {
			values[j] = v
		}
		if err := f.SetSheetRow(w.sheetName, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if err := w.saveAtomically(f); err != nil {
		return err
	}
	w.logger.Info("Spreadsheet saved", "path", w.path, "sheet", w.sheetName, "rows", len(table.Rows))
	return nil
}

func (w *XLSXWriter) saveAtomically(f *excelize.File) error {
	dir := filepath.Dir(w.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(w.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if err := f.Write(tmp); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("encode workbook: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, w.path); err != nil {
		return fmt.Errorf("move report into place at %s: %w", w.path, err)
	}
	committed = true
	return nil
}
