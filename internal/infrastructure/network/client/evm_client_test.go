package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"balance_exporter/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testWallet      = "0x52908400098527886E0F7030069857D2E4169EE7"
	testToken       = "0xdAC17F958D2ee523a2206206994597C13D831ec7"
	revertingToken  = "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"
	oneAndHalfEther = "1500000000000000000"
)

type rpcRequest struct {
	ID     json.RawMessage   `json:"id"`
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

// stubNode answers eth_getBalance and eth_call the way an EVM node would.
type stubNode struct {
	mu      sync.Mutex
	methods []string
	balance *big.Int
	tokens  map[string]*big.Int // lowercase token address -> balance
}

func (n *stubNode) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req rpcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	n.mu.Lock()
	n.methods = append(n.methods, req.Method)
	n.mu.Unlock()

	resp := rpcResponse{JSONRPC: "2.0", ID: req.ID}
	switch req.Method {
	case "eth_getBalance":
		resp.Result = fmt.Sprintf("0x%x", n.balance)
	case "eth_call":
		var call struct {
			To string `json:"to"`
		}
		_ = json.Unmarshal(req.Params[0], &call)
		balance, ok := n.tokens[strings.ToLower(call.To)]
		if !ok {
			resp.Error = &rpcError{Code: 3, Message: "execution reverted"}
			break
		}
		resp.Result = fmt.Sprintf("0x%064x", balance)
	default:
		resp.Error = &rpcError{Code: -32601, Message: "method not found"}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func newStubNode(t *testing.T) (*stubNode, string) {
	t.Helper()
	balance, _ := new(big.Int).SetString(oneAndHalfEther, 10)
	node := &stubNode{
		balance: balance,
		tokens:  map[string]*big.Int{strings.ToLower(testToken): big.NewInt(2500000)},
	}
	srv := httptest.NewServer(node)
	t.Cleanup(srv.Close)
	return node, srv.URL
}

func newTestClient(t *testing.T, endpoint string) *EVMClient {
	t.Helper()
	c, err := NewEVMClient(context.Background(), endpoint, 5*time.Second, nil)
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func TestEVMClientGetNativeBalance(t *testing.T) {
	node, url := newStubNode(t)
	c := newTestClient(t, url)

	balance, err := c.GetNativeBalance(context.Background(), testWallet)
	require.NoError(t, err)
	assert.Equal(t, oneAndHalfEther, balance.String())
	assert.Equal(t, []string{"eth_getBalance"}, node.methods)
}

func TestEVMClientGetTokenBalance(t *testing.T) {
	node, url := newStubNode(t)
	c := newTestClient(t, url)

	balance, err := c.GetTokenBalance(context.Background(), testToken, testWallet)
	require.NoError(t, err)
	assert.Equal(t, int64(2500000), balance.Int64())
	assert.Equal(t, []string{"eth_call"}, node.methods)
}

func TestEVMClientGetTokenBalanceRevert(t *testing.T) {
	_, url := newStubNode(t)
	c := newTestClient(t, url)

	_, err := c.GetTokenBalance(context.Background(), revertingToken, testWallet)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "execution reverted")
}

func TestEVMClientRejectsMalformedTokenAddress(t *testing.T) {
	node, url := newStubNode(t)
	c := newTestClient(t, url)

	for _, token := range []string{"", "USDT", "dAC17F958D2ee523a2206206994597C13D831ec7", "0x1234"} {
		_, err := c.GetTokenBalance(context.Background(), token, testWallet)
		require.Error(t, err, token)
		assert.True(t, errors.Is(err, ErrInvalidAddress), token)
	}
	assert.Empty(t, node.methods)
}

func TestEVMClientTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)
	c := newTestClient(t, srv.URL)

	_, err := c.GetNativeBalance(context.Background(), testWallet)
	assert.Error(t, err)
}

func TestNewEVMClientRejectsEmptyEndpoint(t *testing.T) {
	_, err := NewEVMClient(context.Background(), "  ", 0, nil)
	assert.Error(t, err)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

func TestEVMClientProviderReusesClientPerEndpoint(t *testing.T) {
	_, url := newStubNode(t)
	p := NewEVMClientProvider(ProviderOptions{RateLimit: 100, BurstLimit: 5}, nopLogger{})
	defer p.Close()

	first, err := p.GetClient(entity.NetworkDescriptor{Name: "Eth", Endpoint: url})
	require.NoError(t, err)
	second, err := p.GetClient(entity.NetworkDescriptor{Name: "Eth again", Endpoint: url})
	require.NoError(t, err)
	assert.Same(t, first, second)

	balance, err := second.GetNativeBalance(context.Background(), testWallet)
	require.NoError(t, err)
	assert.Equal(t, oneAndHalfEther, balance.String())
}

func TestEVMClientProviderDialFailure(t *testing.T) {
	p := NewEVMClientProvider(ProviderOptions{}, nopLogger{})
	defer p.Close()

	_, err := p.GetClient(entity.NetworkDescriptor{Name: "Broken", Endpoint: "unknown-scheme://nowhere"})
	assert.Error(t, err)
	_, err = p.GetClient(entity.NetworkDescriptor{Name: "Empty"})
	assert.Error(t, err)
}
