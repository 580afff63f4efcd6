package entity

import "regexp"

var walletAddressPattern = regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`)

// WalletAddress is a 0x-prefixed, 40 hex digit account address kept exactly as it was read.
type WalletAddress string

// IsValidWalletAddress reports whether s is a well-formed wallet address.
func IsValidWalletAddress(s string) bool {
	return walletAddressPattern.MatchString(s)
}

func (w WalletAddress) String() string {
	return string(w)
}
