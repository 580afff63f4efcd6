package port

import (
	"context"
	"math/big"

	"balance_exporter/internal/domain/entity"
)

// NetworkProvider defines the interface for fetching the networks to query.
type NetworkProvider interface {
	GetNetworks() ([]entity.NetworkDescriptor, error)
}

// BlockchainClient defines the read operations used against one network endpoint.
type BlockchainClient interface {
	// GetNativeBalance fetches the native currency balance (e.g., ETH, BNB) for a wallet, in base units.
	GetNativeBalance(ctx context.Context, walletAddress string) (*big.Int, error)

	// GetTokenBalance calls balanceOf(walletAddress) on the token contract, in base units.
	GetTokenBalance(ctx context.Context, tokenAddress string, walletAddress string) (*big.Int, error)
}

// BlockchainClientProvider defines the interface for providing blockchain clients.
type BlockchainClientProvider interface {
	GetClient(network entity.NetworkDescriptor) (BlockchainClient, error)
	Close()
}
