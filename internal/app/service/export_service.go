package service

import (
	"context"
	"fmt"
	"time"

	"balance_exporter/internal/app/port"
)

// ReportRecorder is notified after a report is written.
type ReportRecorder interface {
	MarkReportWritten(rows int, at time.Time)
}

// ExportService loads the inputs, builds the balance table and writes the report.
type ExportService struct {
	walletProvider  port.WalletProvider
	networkProvider port.NetworkProvider
	builder         *BalanceTableBuilder
	writer          port.ReportWriter
	recorder        ReportRecorder
	logger          port.Logger
}

// NewExportService creates a new ExportService. recorder may be nil.
func NewExportService(
	wp port.WalletProvider,
	np port.NetworkProvider,
	builder *BalanceTableBuilder,
	writer port.ReportWriter,
	recorder ReportRecorder,
	l port.Logger,
) *ExportService {
	return &ExportService{
		walletProvider:  wp,
		networkProvider: np,
		builder:         builder,
		writer:          writer,
		recorder:        recorder,
		logger:          l,
	}
}

// Run performs one export. It reports whether a file was written. Empty wallet or
// network lists end the run early without a file and without an error.
func (s *ExportService) Run(ctx context.Context) (bool, error) {
	wallets, err := s.walletProvider.GetWallets()
	if err != nil {
		return false, fmt.Errorf("failed to load wallets: %w", err)
	}
	networks, err := s.networkProvider.GetNetworks()
	if err != nil {
		return false, fmt.Errorf("failed to load networks: %w", err)
	}

	if len(wallets) == 0 || len(networks) == 0 {
		s.logger.Warn("No wallets or networks to process", "wallets", len(wallets), "networks", len(networks))
		return false, nil
	}

	s.logger.Info("Collecting balances", "wallets", len(wallets), "networks", len(networks))
	table, err := s.builder.Build(ctx, wallets, networks)
	if err != nil {
		return false, fmt.Errorf("failed to build balance table: %w", err)
	}

	if err := s.writer.Write(table); err != nil {
		return false, fmt.Errorf("failed to write report: %w", err)
	}
	if s.recorder != nil {
		s.recorder.MarkReportWritten(len(table.Rows), time.Now())
	}

	s.logger.Info("Report written", "rows", len(table.Rows), "columns", len(table.Headers), "failed_cells", table.FailedCells())
	return true, nil
}
