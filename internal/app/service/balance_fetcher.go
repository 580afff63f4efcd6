package service

import (
	"context"
	"time"

	"balance_exporter/internal/app/port"
	"balance_exporter/internal/domain/entity"
	"balance_exporter/internal/pkg/metrics"
	"balance_exporter/internal/pkg/utils"
)

// BalanceFetcher queries the cells of one (wallet, network) pair.
type BalanceFetcher struct {
	clientProvider port.BlockchainClientProvider
	recorder       port.QueryRecorder
	logger         port.Logger
	now            func() time.Time
}

// NewBalanceFetcher creates a BalanceFetcher. recorder may be nil.
func NewBalanceFetcher(cp port.BlockchainClientProvider, recorder port.QueryRecorder, l port.Logger) *BalanceFetcher {
	return &BalanceFetcher{
		clientProvider: cp,
		recorder:       recorder,
		logger:         l,
		now:            time.Now,
	}
}

// FetchRow returns 1+len(network.Tokens) cells: the native balance followed by one
// balance per token in declaration order. Queries run one after another and a failed
// query only fails its own cell.
func (f *BalanceFetcher) FetchRow(ctx context.Context, wallet entity.WalletAddress, network entity.NetworkDescriptor) []entity.BalanceCell {
	cells := make([]entity.BalanceCell, 0, network.CellCount())

	client, err := f.clientProvider.GetClient(network)
	if err != nil {
		f.logger.Warn("No client for network, marking all cells as failed",
			"network", network.Name, "wallet", wallet, "error", err)
		for i := 0; i < network.CellCount(); i++ {
			cells = append(cells, entity.FailedCell(err))
		}
		return cells
	}

	cells = append(cells, f.nativeCell(ctx, client, wallet, network))
	for _, token := range network.Tokens {
		cells = append(cells, f.tokenCell(ctx, client, wallet, network, token))
	}
	return cells
}

func (f *BalanceFetcher) nativeCell(ctx context.Context, client port.BlockchainClient, wallet entity.WalletAddress, network entity.NetworkDescriptor) entity.BalanceCell {
	start := f.now()
	balance, err := client.GetNativeBalance(ctx, wallet.String())
	f.observe(network.Name, metrics.KindNative, start, err)
	if err != nil {
		f.logger.Warn("Native balance query failed", "network", network.Name, "wallet", wallet, "error", err)
		return entity.FailedCell(err)
	}
	return entity.AmountCell(utils.FromWei(balance))
}

func (f *BalanceFetcher) tokenCell(ctx context.Context, client port.BlockchainClient, wallet entity.WalletAddress, network entity.NetworkDescriptor, token string) entity.BalanceCell {
	start := f.now()
	balance, err := client.GetTokenBalance(ctx, token, wallet.String())
	f.observe(network.Name, metrics.KindToken, start, err)
	if err != nil {
		f.logger.Warn("Token balance query failed", "network", network.Name, "wallet", wallet, "token", token, "error", err)
		return entity.FailedCell(err)
	}
	return entity.AmountCell(utils.FromWei(balance))
}

func (f *BalanceFetcher) observe(network, kind string, start time.Time, err error) {
	if f.recorder == nil {
		return
	}
	f.recorder.ObserveQuery(network, kind, f.now().Sub(start), err)
}
