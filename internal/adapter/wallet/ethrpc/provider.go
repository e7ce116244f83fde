// Package ethrpc implements the wallet provider capability against an
// Ethereum JSON-RPC endpoint (a local node or a dev chain with unlocked
// accounts).
package ethrpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/mintmind/internal/adapter/wallet"
)

const codeMethodNotFound = -32601

// Provider is a wallet.Provider backed by an rpc.Client. Nodes do not push
// account or chain switches, so Watch polls for them.
type Provider struct {
	client *rpc.Client
	flags  wallet.Flags
	clock  clockwork.Clock
	log    *slog.Logger

	mu       sync.Mutex
	handlers map[string][]func(json.RawMessage)
	accounts []string
	chainID  string
	primed   bool
}

// Dial connects to the endpoint at url.
func Dial(ctx context.Context, url string, flags wallet.Flags, logger *slog.Logger) (*Provider, error) {
	client, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("ethrpc: dial %s: %w", url, err)
	}
	return New(client, flags, clockwork.NewRealClock(), logger), nil
}

// New wraps an existing client.
func New(client *rpc.Client, flags wallet.Flags, clock clockwork.Clock, logger *slog.Logger) *Provider {
	return &Provider{
		client:   client,
		flags:    flags,
		clock:    clock,
		log:      logger.With("adapter", "ethrpc"),
		handlers: make(map[string][]func(json.RawMessage)),
	}
}

// FlagsFor maps a configured wallet flavor to capability flags.
func FlagsFor(flavor string) wallet.Flags {
	switch flavor {
	case "metamask":
		return wallet.Flags{IsMetaMask: true}
	case "coinbase":
		return wallet.Flags{IsCoinbaseWallet: true}
	case "brave":
		return wallet.Flags{IsBraveWallet: true}
	case "rabby":
		return wallet.Flags{IsRabby: true}
	case "trust":
		return wallet.Flags{IsTrustWallet: true}
	default:
		return wallet.Flags{}
	}
}

// Request implements wallet.Provider.
func (p *Provider) Request(ctx context.Context, result any, method string, params ...any) error {
	switch method {
	case "wallet_revokePermissions":
		// A node holds no per-site permissions.
		return nil
	case "eth_requestAccounts":
		err := p.client.CallContext(ctx, result, method, params...)
		var rpcErr rpc.Error
		if errors.As(err, &rpcErr) && rpcErr.ErrorCode() == codeMethodNotFound {
			return p.client.CallContext(ctx, result, "eth_accounts")
		}
		return err
	default:
		return p.client.CallContext(ctx, result, method, params...)
	}
}

// Subscribe implements wallet.Provider.
func (p *Provider) Subscribe(event string, handler func(json.RawMessage)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handlers[event] = append(p.handlers[event], handler)
}

// Flags implements wallet.Provider.
func (p *Provider) Flags() wallet.Flags {
	return p.flags
}

// Close closes the underlying client.
func (p *Provider) Close() {
	p.client.Close()
}

// Watch polls the node every interval and emits accountsChanged and
// chainChanged when the answers change. The first poll only records the
// baseline. It returns when ctx is done.
func (p *Provider) Watch(ctx context.Context, interval time.Duration) error {
	ticker := p.clock.NewTicker(interval)
	defer ticker.Stop()

	p.Poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.Chan():
			p.Poll(ctx)
		}
	}
}

// Poll performs one watch round.
func (p *Provider) Poll(ctx context.Context) {
	var accounts []string
	if err := p.client.CallContext(ctx, &accounts, "eth_accounts"); err != nil {
		p.log.DebugContext(ctx, "poll accounts", slog.String("error", err.Error()))
		return
	}
	if accounts == nil {
		accounts = []string{}
	}
	var chainID string
	if err := p.client.CallContext(ctx, &chainID, "eth_chainId"); err != nil {
		p.log.DebugContext(ctx, "poll chain id", slog.String("error", err.Error()))
		return
	}

	p.mu.Lock()
	primed := p.primed
	accountsChanged := primed && !slices.Equal(p.accounts, accounts)
	chainChanged := primed && p.chainID != chainID
	p.accounts, p.chainID, p.primed = accounts, chainID, true
	p.mu.Unlock()

	if accountsChanged {
		p.emit(wallet.EventAccountsChanged, accounts)
	}
	if chainChanged {
		p.emit(wallet.EventChainChanged, chainID)
	}
}

func (p *Provider) emit(event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		p.log.Error("encode event", slog.String("event", event), slog.String("error", err.Error()))
		return
	}

	p.mu.Lock()
	handlers := slices.Clone(p.handlers[event])
	p.mu.Unlock()

	p.log.Info("wallet event", slog.String("event", event))
	for _, h := range handlers {
		h(data)
	}
}
