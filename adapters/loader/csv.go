package loader

import (
	"encoding/csv"
	"fmt"
	"io"

	"vizboard/domain/table"
)

// readCSV parses comma-separated rows. Ragged rows are tolerated; the
// header analysis decides whether the first row names the columns.
func (l *Loader) readCSV(r io.Reader) (*table.Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing csv: %w", err)
	}
	return l.rowsToDataset(rows)
}
