package walletloader

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"balance_exporter/internal/app/port"
	"balance_exporter/internal/domain/entity"
)

const maxLineLength = 1024 * 1024

// WalletFileLoader implements the port.WalletProvider interface by loading wallets from a file.
type WalletFileLoader struct {
	filePath string
	logger   port.Logger
}

// NewWalletFileLoader creates a new WalletFileLoader.
func NewWalletFileLoader(filePath string, logger port.Logger) *WalletFileLoader {
	return &WalletFileLoader{
		filePath: filePath,
		logger:   logger,
	}
}

// GetWallets reads wallet addresses from the configured file path.
func (l *WalletFileLoader) GetWallets() ([]entity.WalletAddress, error) {
	file, err := os.Open(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open wallet file %s: %w", l.filePath, err)
	}
	defer file.Close()

	wallets, err := ParseWallets(file, func(lineNum int, line string) {
		l.logger.Debug("Skipping invalid wallet address format", "file", l.filePath, "line_number", lineNum, "address", line)
	})
	if err != nil {
		return nil, fmt.Errorf("error scanning wallet file %s: %w", l.filePath, err)
	}

	l.logger.Info("Wallets loaded successfully from file", "count", len(wallets), "path", l.filePath)
	return wallets, nil
}

// ParseWallets reads one address per line. Blank lines are ignored and lines that are not
// well-formed addresses are reported to skipped (which may be nil) and dropped.
// Order and duplicates are kept.
func ParseWallets(r io.Reader, skipped func(lineNum int, line string)) ([]entity.WalletAddress, error) {
	var wallets []entity.WalletAddress
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !entity.IsValidWalletAddress(line) {
			if skipped != nil {
				skipped(lineNum, line)
			}
			continue
		}
		wallets = append(wallets, entity.WalletAddress(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return wallets, nil
}
