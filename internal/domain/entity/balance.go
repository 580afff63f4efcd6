package entity

// FallbackBalance is written in place of any balance that could not be fetched.
const FallbackBalance = "RPC Error"

// BalanceCell is the outcome of a single balance query.
type BalanceCell struct {
	Amount string
	Err    error
}

// AmountCell returns a successful cell holding a formatted amount.
func AmountCell(amount string) BalanceCell {
	return BalanceCell{Amount: amount}
}

// FailedCell returns a cell for a query that did not succeed.
func FailedCell(err error) BalanceCell {
	return BalanceCell{Err: err}
}

// Failed reports whether the query behind the cell failed.
func (c BalanceCell) Failed() bool {
	return c.Err != nil
}

// String renders the cell for the report. Every failure renders as FallbackBalance.
func (c BalanceCell) String() string {
	if c.Err != nil {
		return FallbackBalance
	}
	return c.Amount
}
