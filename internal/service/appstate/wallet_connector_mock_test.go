package appstate

import (
	"context"
	"sync"

	"github.com/heartmarshall/mintmind/internal/domain"
)

var _ walletConnector = &walletConnectorMock{}

type walletConnectorMock struct {
	ConnectFunc           func(ctx context.Context) (domain.WalletAccount, error)
	DisconnectFunc        func(ctx context.Context)
	BalanceFunc           func(ctx context.Context, address string) string
	OnAccountsChangedFunc func(fn func(accounts []string))
	OnChainChangedFunc    func(fn func(chainID string))

	calls struct {
		Connect []struct {
			Ctx context.Context
		}
		Disconnect []struct {
			Ctx context.Context
		}
		Balance []struct {
			Ctx     context.Context
			Address string
		}
		OnAccountsChanged []struct {
			Fn func(accounts []string)
		}
		OnChainChanged []struct {
			Fn func(chainID string)
		}
	}
	lockConnect           sync.RWMutex
	lockDisconnect        sync.RWMutex
	lockBalance           sync.RWMutex
	lockOnAccountsChanged sync.RWMutex
	lockOnChainChanged    sync.RWMutex
}

func (mock *walletConnectorMock) Connect(ctx context.Context) (domain.WalletAccount, error) {
	if mock.ConnectFunc == nil {
		panic("walletConnectorMock.ConnectFunc: method is nil but walletConnector.Connect was just called")
	}
	callInfo := struct {
		Ctx context.Context
	}{Ctx: ctx}
	mock.lockConnect.Lock()
	mock.calls.Connect = append(mock.calls.Connect, callInfo)
	mock.lockConnect.Unlock()
	return mock.ConnectFunc(ctx)
}

func (mock *walletConnectorMock) ConnectCalls() []struct {
	Ctx context.Context
} {
	mock.lockConnect.RLock()
	calls := mock.calls.Connect
	mock.lockConnect.RUnlock()
	return calls
}

func (mock *walletConnectorMock) Disconnect(ctx context.Context) {
	if mock.DisconnectFunc == nil {
		panic("walletConnectorMock.DisconnectFunc: method is nil but walletConnector.Disconnect was just called")
	}
	callInfo := struct {
		Ctx context.Context
	}{Ctx: ctx}
	mock.lockDisconnect.Lock()
	mock.calls.Disconnect = append(mock.calls.Disconnect, callInfo)
	mock.lockDisconnect.Unlock()
	mock.DisconnectFunc(ctx)
}

func (mock *walletConnectorMock) DisconnectCalls() []struct {
	Ctx context.Context
} {
	mock.lockDisconnect.RLock()
	calls := mock.calls.Disconnect
	mock.lockDisconnect.RUnlock()
	return calls
}

func (mock *walletConnectorMock) Balance(ctx context.Context, address string) string {
	if mock.BalanceFunc == nil {
		panic("walletConnectorMock.BalanceFunc: method is nil but walletConnector.Balance was just called")
	}
	callInfo := struct {
		Ctx     context.Context
		Address string
	}{Ctx: ctx, Address: address}
	mock.lockBalance.Lock()
	mock.calls.Balance = append(mock.calls.Balance, callInfo)
	mock.lockBalance.Unlock()
	return mock.BalanceFunc(ctx, address)
}

func (mock *walletConnectorMock) BalanceCalls() []struct {
	Ctx     context.Context
	Address string
} {
	mock.lockBalance.RLock()
	calls := mock.calls.Balance
	mock.lockBalance.RUnlock()
	return calls
}

func (mock *walletConnectorMock) OnAccountsChanged(fn func(accounts []string)) {
	if mock.OnAccountsChangedFunc == nil {
		panic("walletConnectorMock.OnAccountsChangedFunc: method is nil but walletConnector.OnAccountsChanged was just called")
	}
	callInfo := struct {
		Fn func(accounts []string)
	}{Fn: fn}
	mock.lockOnAccountsChanged.Lock()
	mock.calls.OnAccountsChanged = append(mock.calls.OnAccountsChanged, callInfo)
	mock.lockOnAccountsChanged.Unlock()
	mock.OnAccountsChangedFunc(fn)
}

func (mock *walletConnectorMock) OnAccountsChangedCalls() []struct {
	Fn func(accounts []string)
} {
	mock.lockOnAccountsChanged.RLock()
	calls := mock.calls.OnAccountsChanged
	mock.lockOnAccountsChanged.RUnlock()
	return calls
}

func (mock *walletConnectorMock) OnChainChanged(fn func(chainID string)) {
	if mock.OnChainChangedFunc == nil {
		panic("walletConnectorMock.OnChainChangedFunc: method is nil but walletConnector.OnChainChanged was just called")
	}
	callInfo := struct {
		Fn func(chainID string)
	}{Fn: fn}
	mock.lockOnChainChanged.Lock()
	mock.calls.OnChainChanged = append(mock.calls.OnChainChanged, callInfo)
	mock.lockOnChainChanged.Unlock()
	mock.OnChainChangedFunc(fn)
}

func (mock *walletConnectorMock) OnChainChangedCalls() []struct {
	Fn func(chainID string)
} {
	mock.lockOnChainChanged.RLock()
	calls := mock.calls.OnChainChanged
	mock.lockOnChainChanged.RUnlock()
	return calls
}
