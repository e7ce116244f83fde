package appstate

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/heartmarshall/mintmind/internal/domain"
)

// ConnectWallet connects the wallet and loads the assets stored for its
// address. The address is kept lower-cased.
func (s *Store) ConnectWallet(ctx context.Context) (domain.WalletAccount, error) {
	s.update(func(st *State) {
		st.IsConnectingWallet = true
		st.Error = ""
	})

	account, err := s.wallet.Connect(ctx)
	if err != nil {
		s.update(func(st *State) {
			st.IsConnectingWallet = false
			st.Error = WalletMessage(err)
		})
		s.log.WarnContext(ctx, "wallet connection failed", "error", err)
		return domain.WalletAccount{}, err
	}

	account.Address = strings.ToLower(account.Address)
	assets := s.assets.Load(ctx, account.Address)

	s.update(func(st *State) {
		st.IsConnectingWallet = false
		st.WalletAddress = account.Address
		st.WalletBalance = account.Balance
		st.Assets = assets
	})
	s.log.InfoContext(ctx, "wallet connected", "address", account.Address, "assets", len(assets))

	s.listenOnce.Do(func() {
		s.wallet.OnAccountsChanged(s.handleAccountsChanged)
		s.wallet.OnChainChanged(s.handleChainChanged)
	})
	return account, nil
}

// DisconnectWallet forgets the connected account. Persisted assets are left
// untouched.
func (s *Store) DisconnectWallet(ctx context.Context) {
	s.wallet.Disconnect(ctx)
	s.update(func(st *State) {
		st.WalletAddress = ""
		st.WalletBalance = ""
		st.Assets = []domain.IPAsset{}
	})
	s.log.InfoContext(ctx, "wallet disconnected")
}

func (s *Store) connectedAddress() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.WalletAddress
}

func (s *Store) handleAccountsChanged(accounts []string) {
	ctx := context.Background()
	current := s.connectedAddress()
	if current == "" {
		return
	}
	if len(accounts) == 0 {
		s.DisconnectWallet(ctx)
		return
	}

	next := strings.ToLower(accounts[0])
	if next == current {
		return
	}
	assets := s.assets.Load(ctx, next)
	balance := s.wallet.Balance(ctx, next)
	s.update(func(st *State) {
		st.WalletAddress = next
		st.WalletBalance = balance
		st.Assets = assets
	})
	s.log.InfoContext(ctx, "wallet account switched", "address", next, "assets", len(assets))
}

func (s *Store) handleChainChanged(chainID string) {
	ctx := context.Background()
	address := s.connectedAddress()
	if address == "" {
		return
	}
	balance := s.wallet.Balance(ctx, address)
	s.update(func(st *State) {
		if st.WalletAddress == address {
			st.WalletBalance = balance
		}
	})
	s.log.DebugContext(ctx, "wallet chain changed", "chain_id", chainID)
}

// WalletMessage is the user-facing text for a wallet connection failure.
// Wallet errors are shown verbatim.
func WalletMessage(err error) string {
	for _, sentinel := range []error{
		domain.ErrNoWalletDetected,
		domain.ErrUserRejected,
		domain.ErrRequestPending,
		domain.ErrConnectionFailed,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return domain.ErrConnectionFailed.Error()
}

func slogKind(k domain.ContentKind) slog.Attr {
	return slog.String("kind", k.String())
}
