package networkloader

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"balance_exporter/internal/app/port"
	"balance_exporter/internal/domain/entity"
)

const (
	fieldSeparator = "|"
	tokenSeparator = ","
	maxLineLength  = 1024 * 1024
)

// NetworkFileLoader implements port.NetworkProvider over a pipe-delimited text file.
type NetworkFileLoader struct {
	filePath string
	logger   port.Logger
}

// NewNetworkFileLoader creates a new NetworkFileLoader.
func NewNetworkFileLoader(filePath string, logger port.Logger) *NetworkFileLoader {
	return &NetworkFileLoader{
		filePath: filePath,
		logger:   logger,
	}
}

// GetNetworks reads network descriptors from the configured file path.
func (l *NetworkFileLoader) GetNetworks() ([]entity.NetworkDescriptor, error) {
	file, err := os.Open(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open network file %s: %w", l.filePath, err)
	}
	defer file.Close()

	networks, err := ParseNetworks(file)
	if err != nil {
		return nil, fmt.Errorf("error scanning network file %s: %w", l.filePath, err)
	}

	for _, n := range networks {
		l.logger.Debug("Network loaded", "name", n.Name, "endpoint", n.Endpoint, "tokens", len(n.Tokens))
	}
	l.logger.Info("Networks loaded successfully from file", "count", len(networks), "path", l.filePath)
	return networks, nil
}

// ParseNetworks reads lines of the form name|endpoint|token1,token2,...
// The token segment is optional. Nothing beyond the line shape is validated here;
// bad endpoints or token addresses surface later as failed balance cells.
func ParseNetworks(r io.Reader) ([]entity.NetworkDescriptor, error) {
	var networks []entity.NetworkDescriptor
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		networks = append(networks, parseLine(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return networks, nil
}

func parseLine(line string) entity.NetworkDescriptor {
	fields := strings.Split(line, fieldSeparator)
	network := entity.NetworkDescriptor{
		Name:   strings.TrimSpace(fields[0]),
		Tokens: []string{},
	}
	if len(fields) > 1 {
		network.Endpoint = strings.TrimSpace(fields[1])
	}
	if len(fields) > 2 {
		network.Tokens = parseTokens(fields[2])
	}
	return network
}

func parseTokens(field string) []string {
	field = strings.TrimSpace(field)
	if field == "" {
		return []string{}
	}
	parts := strings.Split(field, tokenSeparator)
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		tokens = append(tokens, strings.TrimSpace(p))
	}
	return tokens
}
