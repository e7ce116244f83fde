package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math/big"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/mintmind/internal/domain"
)

// codedError mimics a JSON-RPC error carrying a provider code.
type codedError struct {
	code int
	msg  string
}

func (e codedError) Error() string  { return e.msg }
func (e codedError) ErrorCode() int { return e.code }

type call struct {
	Method string
	Params []any
}

// fakeProvider answers requests from a table and records handlers.
type fakeProvider struct {
	mu       sync.Mutex
	answers  map[string]any
	errs     map[string]error
	block    chan struct{}
	calls    []call
	handlers map[string][]func(json.RawMessage)
	flags    Flags
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		answers:  map[string]any{},
		errs:     map[string]error{},
		handlers: map[string][]func(json.RawMessage){},
	}
}

func (p *fakeProvider) Request(ctx context.Context, result any, method string, params ...any) error {
	p.mu.Lock()
	p.calls = append(p.calls, call{Method: method, Params: params})
	answer, err, block := p.answers[method], p.errs[method], p.block
	p.mu.Unlock()

	if block != nil && method == "eth_requestAccounts" {
		select {
		case <-block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if err != nil {
		return err
	}
	if result == nil || answer == nil {
		return nil
	}
	data, err := json.Marshal(answer)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, result)
}

func (p *fakeProvider) Subscribe(event string, handler func(json.RawMessage)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handlers[event] = append(p.handlers[event], handler)
}

func (p *fakeProvider) Flags() Flags { return p.flags }

func (p *fakeProvider) emit(t *testing.T, event string, payload any) {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	p.mu.Lock()
	hs := append([]func(json.RawMessage){}, p.handlers[event]...)
	p.mu.Unlock()
	for _, h := range hs {
		h(data)
	}
}

func (p *fakeProvider) methods() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.calls))
	for _, c := range p.calls {
		out = append(out, c.Method)
	}
	return out
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const addr = "0xAbC1234567890abcdef1234567890ABCDEF12345"

func TestConnect_Success(t *testing.T) {
	t.Parallel()

	p := newFakeProvider()
	p.answers["eth_requestAccounts"] = []string{addr}
	p.answers["eth_getBalance"] = "0x14d1120d7b160000" // 1.5 ether

	acc, err := NewConnector(p, discardLogger()).Connect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.WalletAccount{Address: addr, Balance: "1.5"}, acc)
	assert.Equal(t, []string{"eth_requestAccounts", "eth_getBalance"}, p.methods())
	assert.Equal(t, []any{addr, "latest"}, p.calls[1].Params)
}

func TestConnect_BalanceFailureIsNonFatal(t *testing.T) {
	t.Parallel()

	p := newFakeProvider()
	p.answers["eth_requestAccounts"] = []string{addr}
	p.errs["eth_getBalance"] = errors.New("node down")

	acc, err := NewConnector(p, discardLogger()).Connect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, addr, acc.Address)
	assert.Equal(t, "0", acc.Balance)
}

func TestConnect_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		err     error
		answer  any
		wantErr error
	}{
		{"user rejected", codedError{4001, "User rejected the request."}, nil, domain.ErrUserRejected},
		{"pending", codedError{-32002, "Request already pending"}, nil, domain.ErrRequestPending},
		{"other code", codedError{-32603, "internal"}, nil, domain.ErrConnectionFailed},
		{"plain error", errors.New("boom"), nil, domain.ErrConnectionFailed},
		{"no accounts", nil, []string{}, domain.ErrConnectionFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := newFakeProvider()
			if tt.err != nil {
				p.errs["eth_requestAccounts"] = tt.err
			}
			p.answers["eth_requestAccounts"] = tt.answer

			_, err := NewConnector(p, discardLogger()).Connect(context.Background())
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestConnect_NoProvider(t *testing.T) {
	t.Parallel()

	c := NewConnector(nil, discardLogger())
	assert.False(t, c.IsAvailable())

	_, err := c.Connect(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoWalletDetected)
	assert.Equal(t, []string{}, c.GetAccounts(context.Background()))
	assert.Equal(t, "Unknown", c.ProviderName())
	c.Disconnect(context.Background())
}

func TestConnect_ConcurrentRequestIsPending(t *testing.T) {
	t.Parallel()

	p := newFakeProvider()
	p.answers["eth_requestAccounts"] = []string{addr}
	p.block = make(chan struct{})
	c := NewConnector(p, discardLogger())

	first := make(chan error, 1)
	go func() {
		_, err := c.Connect(context.Background())
		first <- err
	}()

	require.Eventually(t, func() bool { return len(p.methods()) == 1 }, timeout, tick)

	_, err := c.Connect(context.Background())
	assert.ErrorIs(t, err, domain.ErrRequestPending)

	close(p.block)
	assert.NoError(t, <-first)
}

func TestDisconnect_SwallowsErrors(t *testing.T) {
	t.Parallel()

	p := newFakeProvider()
	p.errs["wallet_revokePermissions"] = errors.New("unsupported")

	NewConnector(p, discardLogger()).Disconnect(context.Background())

	require.Len(t, p.calls, 1)
	assert.Equal(t, "wallet_revokePermissions", p.calls[0].Method)
	assert.Equal(t, []any{map[string]any{"eth_accounts": map[string]any{}}}, p.calls[0].Params)
}

func TestGetAccounts(t *testing.T) {
	t.Parallel()

	p := newFakeProvider()
	c := NewConnector(p, discardLogger())

	assert.Equal(t, []string{}, c.GetAccounts(context.Background()))

	p.answers["eth_accounts"] = []string{addr}
	assert.Equal(t, []string{addr}, c.GetAccounts(context.Background()))

	p.errs["eth_accounts"] = errors.New("boom")
	assert.Equal(t, []string{}, c.GetAccounts(context.Background()))
}

func TestListeners(t *testing.T) {
	t.Parallel()

	p := newFakeProvider()
	c := NewConnector(p, discardLogger())

	var gotAccounts []string
	var gotChain string
	c.OnAccountsChanged(func(a []string) { gotAccounts = a })
	c.OnChainChanged(func(id string) { gotChain = id })

	p.emit(t, EventAccountsChanged, []string{"0x1"})
	p.emit(t, EventChainChanged, "0xaa36a7")
	assert.Equal(t, []string{"0x1"}, gotAccounts)
	assert.Equal(t, "0xaa36a7", gotChain)

	p.emit(t, EventAccountsChanged, nil)
	assert.Equal(t, []string{}, gotAccounts)
}

func TestProviderName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		flags Flags
		want  string
	}{
		{Flags{IsMetaMask: true, IsBraveWallet: true}, "Brave Wallet"},
		{Flags{IsMetaMask: true}, "MetaMask"},
		{Flags{IsCoinbaseWallet: true}, "Coinbase Wallet"},
		{Flags{IsRabby: true}, "Rabby"},
		{Flags{IsTrustWallet: true}, "Trust Wallet"},
		{Flags{}, "Web3 Wallet"},
	}
	for _, tt := range tests {
		p := newFakeProvider()
		p.flags = tt.flags
		assert.Equal(t, tt.want, NewConnector(p, discardLogger()).ProviderName())
	}
}

func TestFormatAddress(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", FormatAddress(""))
	assert.Equal(t, "0xAbC1...2345", FormatAddress(addr))
	assert.Equal(t, "0x1234...5678", FormatAddress("0x12345678"))
	assert.Equal(t, "0x1...0x1", FormatAddress("0x1"))

	got := FormatAddress("0xé€€€€€€€€ñ")
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, "0xé€€€...€€€ñ", got)
}

func TestFormatEther(t *testing.T) {
	t.Parallel()

	wei := func(s string) *big.Int {
		v, ok := new(big.Int).SetString(s, 10)
		require.True(t, ok)
		return v
	}

	assert.Equal(t, "0.0", FormatEther(big.NewInt(0)))
	assert.Equal(t, "1.0", FormatEther(wei("1000000000000000000")))
	assert.Equal(t, "1.5", FormatEther(wei("1500000000000000000")))
	assert.Equal(t, "0.000000000000000001", FormatEther(big.NewInt(1)))
	assert.Equal(t, "12345.000000000000000678", FormatEther(wei("12345000000000000000678")))
	assert.Equal(t, "0.0", FormatEther(nil))
}

const (
	timeout = 2 * time.Second
	tick    = 5 * time.Millisecond
)
