package wallet

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

const (
	ConnectFailedMessage = "Failed to connect wallet"
	SwitchFailedMessage  = "Failed to switch network"
)

// ErrNotConfigured is returned by Connect when no provider URL is set.
var ErrNotConfigured = errors.New("no wallet provider configured")

// ErrNotConnected is returned by calls that need an open connection.
var ErrNotConnected = errors.New("wallet not connected")

// State is a read-only snapshot of the wallet connection.
type State struct {
	Connected bool
	Address   string
	ChainID   uint64
}

// Network is the display name of the current chain.
func (s State) Network() string {
	if !s.Connected {
		return ""
	}
	return NetworkName(s.ChainID)
}

// OnSupportedNetwork reports whether the wallet sits on a Base chain.
func (s State) OnSupportedNetwork() bool {
	return s.Connected && Supported(s.ChainID)
}

type Options struct {
	RPCURL    string
	ProjectID string
	Address   string
	Logger    *zap.Logger
}

type Provider struct {
	opts   Options
	logger *zap.Logger

	mu  sync.Mutex
	rpc *RPC
}

func NewProvider(opts Options) *Provider {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{opts: opts, logger: logger.Named("wallet")}
}

// Configured reports whether Connect has anything to dial.
func (p *Provider) Configured() bool {
	return p.opts.RPCURL != ""
}

// Connect opens the provider connection and reads the current chain.
func (p *Provider) Connect(ctx context.Context) (State, error) {
	if !p.Configured() {
		return State{}, ErrNotConfigured
	}
	if p.opts.Address != "" && !ValidAddress(p.opts.Address) {
		return State{}, fmt.Errorf("invalid wallet address %q", p.opts.Address)
	}

	rpc, err := Dial(ctx, p.opts.RPCURL, p.opts.ProjectID)
	if err != nil {
		p.logger.Warn("wallet connect failed", zap.Error(err))
		return State{}, err
	}

	p.mu.Lock()
	prev := p.rpc
	p.rpc = rpc
	p.mu.Unlock()
	if prev != nil {
		_ = prev.Close()
	}

	state, err := p.Refresh(ctx)
	if err != nil {
		p.Disconnect()
		return State{}, err
	}
	p.logger.Info("wallet connected",
		zap.String("address", ShortAddress(state.Address)),
		zap.Uint64("chain_id", state.ChainID))
	return state, nil
}

// Refresh re-reads the chain id over the open connection.
func (p *Provider) Refresh(ctx context.Context) (State, error) {
	rpc := p.conn()
	if rpc == nil {
		return State{}, ErrNotConnected
	}

	var raw string
	if err := rpc.Call(ctx, "eth_chainId", nil, &raw); err != nil {
		return State{}, err
	}
	id, err := parseChainID(raw)
	if err != nil {
		return State{}, err
	}
	return State{Connected: true, Address: p.opts.Address, ChainID: id}, nil
}

// SwitchChain asks the provider to move to chainID and returns the new state.
func (p *Provider) SwitchChain(ctx context.Context, chainID uint64) (State, error) {
	rpc := p.conn()
	if rpc == nil {
		return State{}, ErrNotConnected
	}

	params := []map[string]string{{"chainId": formatChainID(chainID)}}
	if err := rpc.Call(ctx, "wallet_switchEthereumChain", params, nil); err != nil {
		p.logger.Warn("chain switch failed", zap.Uint64("chain_id", chainID), zap.Error(err))
		return State{}, err
	}
	return p.Refresh(ctx)
}

// Disconnect closes the connection without waiting for calls in flight, which
// fail with ErrClosed. It is safe to call when not connected.
func (p *Provider) Disconnect() {
	p.mu.Lock()
	rpc := p.rpc
	p.rpc = nil
	p.mu.Unlock()
	if rpc != nil {
		_ = rpc.Close()
	}
}

func (p *Provider) conn() *RPC {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rpc
}

// ErrorMessage turns err into text for the wallet panel, falling back to
// fallback when err carries nothing useful.
func ErrorMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var rpcErr *RPCError
	if errors.As(err, &rpcErr) && rpcErr.Message != "" {
		return rpcErr.Message
	}
	if errors.Is(err, ErrNotConfigured) {
		return ErrNotConfigured.Error()
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}
