package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"balance_exporter/internal/app/service"
	"balance_exporter/internal/infrastructure/configloader"
	clientprovider "balance_exporter/internal/infrastructure/network/client"
	"balance_exporter/internal/infrastructure/networkloader"
	"balance_exporter/internal/infrastructure/spreadsheet"
	"balance_exporter/internal/infrastructure/walletloader"
	"balance_exporter/internal/pkg/logger"
	"balance_exporter/internal/pkg/metrics"
)

const defaultConfigPath = "config/config.yml"

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = defaultConfigPath
	}

	cfg, cfgErr := configloader.Load(cfgPath)
	if cfgErr != nil {
		cfg = configloader.Default()
	}

	zapLogger, err := logger.Init(cfg.Logging.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL: Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer zapLogger.Sync()
	logger.OnFatal(func() { _ = zapLogger.Sync() })

	switch {
	case cfgErr == nil:
		logger.Info("Configuration loaded", "path", cfgPath)
	case errors.Is(cfgErr, fs.ErrNotExist):
		logger.Info("Config file not found, using built-in defaults", "path", cfgPath)
	default:
		logger.Fatal("Failed to load configuration", "path", cfgPath, "error", cfgErr)
	}

	logger.Info("Balance export started, wait for the run to finish")

	appLogger := logger.NewSlogAdapter()
	collector := metrics.NewCollector()

	clientProvider := clientprovider.NewEVMClientProvider(clientprovider.ProviderOptions{
		RPCCallTimeout: time.Duration(cfg.RpcClient.CallTimeoutSeconds) * time.Second,
		RateLimit:      cfg.RpcClient.RateLimit,
		BurstLimit:     cfg.RpcClient.BurstLimit,
	}, appLogger)
	defer clientProvider.Close()

	headerFormat := service.HeaderToken
	if cfg.Output.TokenHeaderFormat == configloader.TokenHeaderNetworkToken {
		headerFormat = service.HeaderNetworkToken
	}

	builder := service.NewBalanceTableBuilder(
		service.NewBalanceFetcher(clientProvider, collector, appLogger),
		service.NewThrottleGate(cfg.Throttle.MinDelaySeconds, cfg.Throttle.MaxDelaySeconds),
		headerFormat,
		appLogger,
	)

	exportService := service.NewExportService(
		walletloader.NewWalletFileLoader(cfg.Input.WalletsFile, appLogger),
		networkloader.NewNetworkFileLoader(cfg.Input.NetworksFile, appLogger),
		builder,
		spreadsheet.NewXLSXWriter(cfg.Output.File, cfg.Output.SheetName, appLogger),
		collector,
		appLogger,
	)

	written, err := exportService.Run(context.Background())
	if err != nil {
		clientProvider.Close()
		logger.Fatal("Balance export failed", "error", err)
	}

	if cfg.Metrics.PushgatewayURL != "" {
		if err := collector.Push(cfg.Metrics.PushgatewayURL, cfg.Metrics.JobName); err != nil {
			logger.Warn("Failed to push metrics", "error", err)
		}
	}

	if written {
		logger.Info("Balances written", "path", cfg.Output.File)
	}
}

