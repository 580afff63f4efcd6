package client

import (
	"context"
	"fmt"
	"time"

	"balance_exporter/internal/app/port"
	"balance_exporter/internal/domain/entity"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

const defaultProviderConnectionTimeout = 10 * time.Second

// ProviderOptions configures the clients handed out by the provider.
type ProviderOptions struct {
	ConnectionTimeout time.Duration
	RPCCallTimeout    time.Duration
	RateLimit         float64 // requests per second per endpoint, 0 disables limiting
	BurstLimit        int
}

// EVMClientProvider implements the port.BlockchainClientProvider interface.
// Clients are dialed once per endpoint and reused; balances themselves are never cached.
type EVMClientProvider struct {
	clients *cache.Cache
	logger  port.Logger
	opts    ProviderOptions
}

// NewEVMClientProvider creates a new EVMClientProvider.
func NewEVMClientProvider(opts ProviderOptions, logger port.Logger) *EVMClientProvider {
	if opts.ConnectionTimeout <= 0 {
		opts.ConnectionTimeout = defaultProviderConnectionTimeout
	}
	if opts.BurstLimit <= 0 {
		opts.BurstLimit = 1
	}
	return &EVMClientProvider{
		clients: cache.New(cache.NoExpiration, 0),
		logger:  logger,
		opts:    opts,
	}
}

// GetClient retrieves a blockchain client for the network's endpoint.
func (p *EVMClientProvider) GetClient(network entity.NetworkDescriptor) (port.BlockchainClient, error) {
	if cached, ok := p.clients.Get(network.Endpoint); ok {
		return cached.(*EVMClient), nil
	}

	p.logger.Debug("Creating new EVM client", "network", network.Name, "endpoint", network.Endpoint)
	ctx, cancel := context.WithTimeout(context.Background(), p.opts.ConnectionTimeout)
	defer cancel()

	newClient, err := NewEVMClient(ctx, network.Endpoint, p.opts.RPCCallTimeout, p.newLimiter())
	if err != nil {
		p.logger.Error("Failed to create EVM client", "network", network.Name, "error", err)
		return nil, fmt.Errorf("failed to create EVM client for %s: %w", network.Name, err)
	}

	p.clients.Set(network.Endpoint, newClient, cache.NoExpiration)
	return newClient, nil
}

func (p *EVMClientProvider) newLimiter() *rate.Limiter {
	if p.opts.RateLimit <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(p.opts.RateLimit), p.opts.BurstLimit)
}

// Close closes every dialed client.
func (p *EVMClientProvider) Close() {
	for endpoint, item := range p.clients.Items() {
		if c, ok := item.Object.(*EVMClient); ok {
			c.Close()
		}
		p.clients.Delete(endpoint)
	}
}
