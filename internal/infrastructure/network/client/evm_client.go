package client

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"golang.org/x/time/rate"
)

// ErrInvalidAddress is returned for wallet or token addresses that are not 20-byte hex strings.
var ErrInvalidAddress = errors.New("invalid address")

// ERC20 ABI minimal part for balanceOf
const erc20ABI = `[{"constant":true,"inputs":[{"name":"_owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"balance","type":"uint256"}],"payable":false,"stateMutability":"view","type":"function"}]`

const balanceOfMethod = "balanceOf"

var (
	parsedERC20ABI  abi.ABI
	parsedERC20Once sync.Once
)

func initParsedERC20ABI() {
	parsedERC20Once.Do(func() {
		var err error
		parsedERC20ABI, err = abi.JSON(strings.NewReader(erc20ABI))
		if err != nil {
			panic(fmt.Sprintf("failed to parse ERC20 ABI: %v", err))
		}
		if _, ok := parsedERC20ABI.Methods[balanceOfMethod]; !ok {
			panic("balanceOf method not found in parsed ERC20 ABI")
		}
	})
}

// EVMClient implements the port.BlockchainClient interface for one EVM-compatible endpoint.
type EVMClient struct {
	ethClient      *ethclient.Client
	endpoint       string
	rpcCallTimeout time.Duration // zero leaves the deadline to the transport
	limiter        *rate.Limiter // nil when rate limiting is disabled
}

// NewEVMClient dials the endpoint. For HTTP endpoints no request is sent until the first call.
func NewEVMClient(ctx context.Context, endpoint string, rpcCallTimeout time.Duration, limiter *rate.Limiter) (*EVMClient, error) {
	initParsedERC20ABI()
	if strings.TrimSpace(endpoint) == "" {
		return nil, errors.New("empty RPC endpoint")
	}

	ethClient, err := ethclient.DialContext(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC %s: %w", endpoint, err)
	}
	return &EVMClient{
		ethClient:      ethClient,
		endpoint:       endpoint,
		rpcCallTimeout: rpcCallTimeout,
		limiter:        limiter,
	}, nil
}

// Endpoint returns the RPC endpoint this client talks to.
func (c *EVMClient) Endpoint() string {
	return c.endpoint
}

// Close releases the underlying RPC connection.
func (c *EVMClient) Close() {
	c.ethClient.Close()
}

func (c *EVMClient) callContext(ctx context.Context) (context.Context, context.CancelFunc, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, nil, fmt.Errorf("rate limiter wait: %w", err)
		}
	}
	if c.rpcCallTimeout > 0 {
		callCtx, cancel := context.WithTimeout(ctx, c.rpcCallTimeout)
		return callCtx, cancel, nil
	}
	return ctx, func() {}, nil
}

func parseAddress(kind, address string) (common.Address, error) {
	hasPrefix := strings.HasPrefix(address, "0x") || strings.HasPrefix(address, "0X")
	if !hasPrefix || !common.IsHexAddress(address) {
		return common.Address{}, fmt.Errorf("%w: %s %q", ErrInvalidAddress, kind, address)
	}
	return common.HexToAddress(address), nil
}

// GetNativeBalance returns eth_getBalance for the wallet at the latest block.
func (c *EVMClient) GetNativeBalance(ctx context.Context, walletAddress string) (*big.Int, error) {
	wallet, err := parseAddress("wallet", walletAddress)
	if err != nil {
		return nil, err
	}

	callCtx, cancel, err := c.callContext(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	balance, err := c.ethClient.BalanceAt(callCtx, wallet, nil)
	if err != nil {
		return nil, fmt.Errorf("eth_getBalance for %s: %w", walletAddress, err)
	}
	return balance, nil
}

// GetTokenBalance calls balanceOf(wallet) on a contract handle bound to tokenAddress.
// A fresh handle is bound for every call.
func (c *EVMClient) GetTokenBalance(ctx context.Context, tokenAddress string, walletAddress string) (*big.Int, error) {
	token, err := parseAddress("token", tokenAddress)
	if err != nil {
		return nil, err
	}
	wallet, err := parseAddress("wallet", walletAddress)
	if err != nil {
		return nil, err
	}

	callCtx, cancel, err := c.callContext(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	contract := bind.NewBoundContract(token, parsedERC20ABI, c.ethClient, nil, nil)
	var out []interface{}
	if err := contract.Call(&bind.CallOpts{Context: callCtx}, &out, balanceOfMethod, wallet); err != nil {
		return nil, fmt.Errorf("balanceOf(%s) on token %s: %w", walletAddress, tokenAddress, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("balanceOf unpack returned no data for token %s", tokenAddress)
	}
	balance, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("failed to assert unpacked balanceOf result to *big.Int for token %s. Got: %T", tokenAddress, out[0])
	}
	return balance, nil
}
