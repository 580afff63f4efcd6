package service

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"balance_exporter/internal/app/port"
	"balance_exporter/internal/domain/entity"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

var errRPC = errors.New("rpc unavailable")

// callLog records every remote call and pause in the order it happened.
type callLog struct {
	events []string
}

func (l *callLog) add(format string, args ...any) {
	l.events = append(l.events, fmt.Sprintf(format, args...))
}

type fakeClient struct {
	network string
	log     *callLog
	native  map[string]*big.Int            // wallet -> balance, missing means failure
	tokens  map[string]map[string]*big.Int // token -> wallet -> balance, missing means failure
}

func (c *fakeClient) GetNativeBalance(_ context.Context, wallet string) (*big.Int, error) {
	c.log.add("native(%s,%s)", c.network, wallet)
	if v, ok := c.native[wallet]; ok {
		return v, nil
	}
	return nil, errRPC
}

func (c *fakeClient) GetTokenBalance(_ context.Context, token string, wallet string) (*big.Int, error) {
	c.log.add("token(%s,%s,%s)", c.network, token, wallet)
	if v, ok := c.tokens[token][wallet]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("balanceOf on %s: %w", token, errRPC)
}

type fakeProvider struct {
	clients map[string]*fakeClient // endpoint -> client, missing means dial failure
	closed  bool
}

func (p *fakeProvider) GetClient(network entity.NetworkDescriptor) (port.BlockchainClient, error) {
	if c, ok := p.clients[network.Endpoint]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("dial %s: %w", network.Endpoint, errRPC)
}

func (p *fakeProvider) Close() { p.closed = true }

type fakeThrottler struct {
	log    *callLog
	pauses int
	err    error
}

func (t *fakeThrottler) Pause(context.Context) error {
	t.pauses++
	if t.log != nil {
		t.log.add("pause")
	}
	return t.err
}

type fakeRecorder struct {
	ok, failed int
}

func (r *fakeRecorder) ObserveQuery(_ string, _ string, _ time.Duration, err error) {
	if err != nil {
		r.failed++
		return
	}
	r.ok++
}

func wei(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("bad number " + s)
	}
	return v
}
