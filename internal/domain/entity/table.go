package entity

import "fmt"

// WalletColumnHeader labels the first column of the report.
const WalletColumnHeader = "Wallet Address"

// ResultRow is the report line of one wallet.
type ResultRow struct {
	Wallet WalletAddress
	Cells  []BalanceCell
}

// ResultTable is the full report. Every row has len(Headers)-1 cells.
type ResultTable struct {
	Headers []string
	Rows    []ResultRow
}

// NewResultTable creates an empty table with the given column layout.
func NewResultTable(headers []string) *ResultTable {
	return &ResultTable{Headers: headers}
}

// Width is the number of balance cells expected in every row.
func (t *ResultTable) Width() int {
	return len(t.Headers) - 1
}

// AppendRow adds a row, rejecting rows that would break the rectangular layout.
func (t *ResultTable) AppendRow(row ResultRow) error {
	if len(row.Cells) != t.Width() {
		return fmt.Errorf("row for wallet %s has %d cells, table expects %d", row.Wallet, len(row.Cells), t.Width())
	}
	t.Rows = append(t.Rows, row)
	return nil
}

// Records flattens the table into text records: the header first, then one record per wallet.
func (t *ResultTable) Records() [][]string {
	records := make([][]string, 0, len(t.Rows)+1)
	records = append(records, append([]string(nil), t.Headers...))
	for _, row := range t.Rows {
		record := make([]string, 0, len(row.Cells)+1)
		record = append(record, row.Wallet.String())
		for _, cell := range row.Cells {
			record = append(record, cell.String())
		}
		records = append(records, record)
	}
	return records
}

// FailedCells counts the cells whose query failed.
func (t *ResultTable) FailedCells() int {
	failed := 0
	for _, row := range t.Rows {
		for _, cell := range row.Cells {
			if cell.Failed() {
				failed++
			}
		}
	}
	return failed
}
