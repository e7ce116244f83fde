// Package wallet connects to an injected Ethereum wallet provider and
// exposes the small surface the application needs: connect, disconnect,
// accounts, balance and change notifications.
package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/heartmarshall/mintmind/internal/domain"
)

// Provider events.
const (
	EventAccountsChanged = "accountsChanged"
	EventChainChanged    = "chainChanged"
)

// EIP-1193 provider error codes.
const (
	codeUserRejected   = 4001
	codeRequestPending = -32002
)

// Provider is the wallet capability, modelled on an EIP-1193 provider.
type Provider interface {
	// Request performs a JSON-RPC call and decodes the answer into result.
	// result may be nil when the answer is not needed.
	Request(ctx context.Context, result any, method string, params ...any) error
	// Subscribe registers handler for a provider event.
	Subscribe(event string, handler func(json.RawMessage))
	// Flags describes the wallet implementation behind the provider.
	Flags() Flags
}

// Flags are the capability flags a wallet advertises about itself.
type Flags struct {
	IsMetaMask       bool
	IsCoinbaseWallet bool
	IsBraveWallet    bool
	IsRabby          bool
	IsTrustWallet    bool
}

// Connector wraps a Provider. A nil Provider means no wallet is installed.
type Connector struct {
	provider   Provider
	connecting atomic.Bool
	log        *slog.Logger
}

// NewConnector creates a Connector over p, which may be nil.
func NewConnector(p Provider, logger *slog.Logger) *Connector {
	return &Connector{
		provider: p,
		log:      logger.With("adapter", "wallet"),
	}
}

// IsAvailable reports whether a wallet provider is present.
func (c *Connector) IsAvailable() bool {
	return c.provider != nil
}

// Connect requests account access and returns the first account with its
// balance. A failed balance lookup is not an error: the balance is "0".
func (c *Connector) Connect(ctx context.Context) (domain.WalletAccount, error) {
	if c.provider == nil {
		return domain.WalletAccount{}, domain.ErrNoWalletDetected
	}
	if !c.connecting.CompareAndSwap(false, true) {
		return domain.WalletAccount{}, domain.ErrRequestPending
	}
	defer c.connecting.Store(false)

	var accounts []string
	if err := c.provider.Request(ctx, &accounts, "eth_requestAccounts"); err != nil {
		c.log.ErrorContext(ctx, "connect wallet", slog.String("error", err.Error()))
		return domain.WalletAccount{}, mapError(err)
	}
	if len(accounts) == 0 {
		return domain.WalletAccount{}, fmt.Errorf("wallet: %w: no accounts found", domain.ErrConnectionFailed)
	}

	address := accounts[0]
	return domain.WalletAccount{Address: address, Balance: c.Balance(ctx, address)}, nil
}

// Disconnect asks the wallet to revoke the account permission. It never fails.
func (c *Connector) Disconnect(ctx context.Context) {
	if c.provider == nil {
		return
	}
	params := map[string]any{"eth_accounts": map[string]any{}}
	if err := c.provider.Request(ctx, nil, "wallet_revokePermissions", params); err != nil {
		c.log.WarnContext(ctx, "disconnect wallet", slog.String("error", err.Error()))
	}
}

// GetAccounts returns the currently exposed accounts, or an empty slice when
// there is no provider or the call fails.
func (c *Connector) GetAccounts(ctx context.Context) []string {
	if c.provider == nil {
		return []string{}
	}
	var accounts []string
	if err := c.provider.Request(ctx, &accounts, "eth_accounts"); err != nil {
		c.log.WarnContext(ctx, "get accounts", slog.String("error", err.Error()))
		return []string{}
	}
	if accounts == nil {
		return []string{}
	}
	return accounts
}

// Balance returns the ether balance of address as a decimal string, or "0"
// when it cannot be read.
func (c *Connector) Balance(ctx context.Context, address string) string {
	if c.provider == nil {
		return "0"
	}
	var wei hexutil.Big
	if err := c.provider.Request(ctx, &wei, "eth_getBalance", address, "latest"); err != nil {
		c.log.WarnContext(ctx, "get balance", slog.String("address", address), slog.String("error", err.Error()))
		return "0"
	}
	return FormatEther(wei.ToInt())
}

// OnAccountsChanged registers fn for account switches. An empty slice means
// the wallet no longer exposes any account.
func (c *Connector) OnAccountsChanged(fn func(accounts []string)) {
	if c.provider == nil {
		return
	}
	c.provider.Subscribe(EventAccountsChanged, func(raw json.RawMessage) {
		var accounts []string
		if err := json.Unmarshal(raw, &accounts); err != nil {
			c.log.Warn("decode accountsChanged", slog.String("error", err.Error()))
			return
		}
		if accounts == nil {
			accounts = []string{}
		}
		fn(accounts)
	})
}

// OnChainChanged registers fn for network switches.
func (c *Connector) OnChainChanged(fn func(chainID string)) {
	if c.provider == nil {
		return
	}
	c.provider.Subscribe(EventChainChanged, func(raw json.RawMessage) {
		var chainID string
		if err := json.Unmarshal(raw, &chainID); err != nil {
			c.log.Warn("decode chainChanged", slog.String("error", err.Error()))
			return
		}
		fn(chainID)
	})
}

// ProviderName names the wallet behind the provider for display.
func (c *Connector) ProviderName() string {
	if c.provider == nil {
		return "Unknown"
	}
	f := c.provider.Flags()
	switch {
	case f.IsBraveWallet:
		return "Brave Wallet"
	case f.IsMetaMask:
		return "MetaMask"
	case f.IsCoinbaseWallet:
		return "Coinbase Wallet"
	case f.IsRabby:
		return "Rabby"
	case f.IsTrustWallet:
		return "Trust Wallet"
	default:
		return "Web3 Wallet"
	}
}

// mapError translates provider error codes into domain errors.
func mapError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("wallet: %w: %w", domain.ErrConnectionFailed, err)
	}
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		switch rpcErr.ErrorCode() {
		case codeUserRejected:
			return fmt.Errorf("wallet: %w", domain.ErrUserRejected)
		case codeRequestPending:
			return fmt.Errorf("wallet: %w", domain.ErrRequestPending)
		}
	}
	return fmt.Errorf("wallet: %w: %w", domain.ErrConnectionFailed, err)
}
