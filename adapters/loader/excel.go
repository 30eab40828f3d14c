package loader

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"vizboard/domain/table"
)

// readExcel parses the first worksheet of an xlsx stream. Formatted
// cell text is what excelize returns, so the usual coercion rules
// decide each cell's kind.
func (l *Loader) readExcel(r io.Reader) (*table.Dataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return table.NewDataset(nil, nil), nil
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}

	l.logger.Debug("[Loader] Workbook sheet %q has %d rows", sheet, len(rows))
	return l.rowsToDataset(rows)
}
