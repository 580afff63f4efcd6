package utils

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// EtherDecimals is the scaling used for native coins and ERC-20 tokens in reports.
const EtherDecimals int32 = 18

// FormatBigInt converts a base-unit amount into plain decimal text,
// considering the given number of decimals.
// Example: amount=1500000000000000000, decimals=18 => "1.5"
// Trailing zeros are trimmed and the result never uses scientific notation.
func FormatBigInt(amount *big.Int, decimals int32) string {
	if amount == nil {
		return "0"
	}
	return decimal.NewFromBigInt(amount, -decimals).String()
}

// FromWei formats a base-unit amount with the 18-decimal ether convention.
func FromWei(amount *big.Int) string {
	return FormatBigInt(amount, EtherDecimals)
}
