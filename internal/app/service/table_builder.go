package service

import (
	"context"
	"fmt"

	"balance_exporter/internal/app/port"
	"balance_exporter/internal/domain/entity"
)

// HeaderFormat selects how token columns are labelled.
type HeaderFormat int

const (
	// HeaderToken labels a token column with the token identifier only.
	HeaderToken HeaderFormat = iota
	// HeaderNetworkToken prefixes the token identifier with the network name.
	HeaderNetworkToken
)

// RowFetcher produces the cells of one (wallet, network) pair.
type RowFetcher interface {
	FetchRow(ctx context.Context, wallet entity.WalletAddress, network entity.NetworkDescriptor) []entity.BalanceCell
}

// BalanceTableBuilder walks wallets × networks × tokens sequentially and assembles the report.
type BalanceTableBuilder struct {
	fetcher      RowFetcher
	throttler    port.Throttler
	headerFormat HeaderFormat
	logger       port.Logger
}

// NewBalanceTableBuilder creates a BalanceTableBuilder.
func NewBalanceTableBuilder(fetcher RowFetcher, throttler port.Throttler, headerFormat HeaderFormat, l port.Logger) *BalanceTableBuilder {
	return &BalanceTableBuilder{
		fetcher:      fetcher,
		throttler:    throttler,
		headerFormat: headerFormat,
		logger:       l,
	}
}

// Headers returns the column labels for the given networks.
func (b *BalanceTableBuilder) Headers(networks []entity.NetworkDescriptor) []string {
	headers := []string{entity.WalletColumnHeader}
	for _, network := range networks {
		headers = append(headers, network.Name+" Native")
		for _, token := range network.Tokens {
			if b.headerFormat == HeaderNetworkToken {
				headers = append(headers, network.Name+" "+token)
				continue
			}
			headers = append(headers, token)
		}
	}
	return headers
}

// Build queries every wallet on every network in declaration order, pausing after each
// network (including the last one of each wallet). It only fails if ctx is cancelled
// or a fetcher returns a row that does not fit the header layout.
func (b *BalanceTableBuilder) Build(ctx context.Context, wallets []entity.WalletAddress, networks []entity.NetworkDescriptor) (*entity.ResultTable, error) {
	table := entity.NewResultTable(b.Headers(networks))

	for i, wallet := range wallets {
		row := entity.ResultRow{
			Wallet: wallet,
			Cells:  make([]entity.BalanceCell, 0, table.Width()),
		}
		for _, network := range networks {
			cells := b.fetcher.FetchRow(ctx, wallet, network)
			if len(cells) != network.CellCount() {
				return nil, fmt.Errorf("network %s returned %d cells for wallet %s, expected %d",
					network.Name, len(cells), wallet, network.CellCount())
			}
			row.Cells = append(row.Cells, cells...)

			if err := b.throttler.Pause(ctx); err != nil {
				return nil, fmt.Errorf("throttle pause interrupted: %w", err)
			}
		}
		if err := table.AppendRow(row); err != nil {
			return nil, err
		}
		b.logger.Info("Wallet processed", "wallet", wallet, "index", i+1, "total", len(wallets))
	}
	return table, nil
}
