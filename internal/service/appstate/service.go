// Package appstate owns the application state: the current generation, the
// registered assets of the connected wallet, in-flight flags and the theme.
// All mutations go through Store methods; observers get snapshots.
package appstate

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/mintmind/internal/config"
	"github.com/heartmarshall/mintmind/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type generator interface {
	Generate(ctx context.Context, prompt string, kind domain.ContentKind, opts domain.GenerationOptions) (*domain.GenerationResult, error)
}

type registrar interface {
	Register(ctx context.Context, meta domain.IPMetadata) (domain.RegistrationOutcome, error)
}

type walletConnector interface {
	Connect(ctx context.Context) (domain.WalletAccount, error)
	Disconnect(ctx context.Context)
	Balance(ctx context.Context, address string) string
	OnAccountsChanged(fn func(accounts []string))
	OnChainChanged(fn func(chainID string))
}

type assetRepo interface {
	Save(ctx context.Context, address string, assets []domain.IPAsset)
	Load(ctx context.Context, address string) []domain.IPAsset
}

type themeRepo interface {
	Theme(ctx context.Context) domain.Theme
	SetTheme(ctx context.Context, theme domain.Theme)
}

// ---------------------------------------------------------------------------
// State
// ---------------------------------------------------------------------------

// RegistrationStatus is the outcome of the last registration attempt.
type RegistrationStatus string

const (
	StatusIdle    RegistrationStatus = "idle"
	StatusSuccess RegistrationStatus = "success"
	StatusError   RegistrationStatus = "error"
)

// State is a snapshot of the application state. Assets are newest first.
type State struct {
	Assets             []domain.IPAsset         `json:"assets"`
	CurrentGeneration  *domain.GenerationResult `json:"currentGeneration"`
	IsGenerating       bool                     `json:"isGenerating"`
	IsRegistering      bool                     `json:"isRegistering"`
	IsConnectingWallet bool                     `json:"isConnectingWallet"`
	AutoRegister       bool                     `json:"autoRegister"`
	WalletAddress      string                   `json:"walletAddress"`
	WalletBalance      string                   `json:"walletBalance"`
	Theme              domain.Theme             `json:"theme"`
	Error              string                   `json:"error,omitempty"`
	RegistrationStatus RegistrationStatus       `json:"registrationStatus"`
}

func (st State) clone() State {
	out := st
	out.Assets = slices.Clone(st.Assets)
	if out.Assets == nil {
		out.Assets = []domain.IPAsset{}
	}
	if st.CurrentGeneration != nil {
		g := *st.CurrentGeneration
		out.CurrentGeneration = &g
	}
	return out
}

// ---------------------------------------------------------------------------
// Store
// ---------------------------------------------------------------------------

// Store is the single application state container. The in-flight flags are
// advisory: Store never rejects a call because another one is running.
type Store struct {
	log       *slog.Logger
	generator generator
	registrar registrar
	wallet    walletConnector
	assets    assetRepo
	settings  themeRepo
	clock     clockwork.Clock
	cfg       config.AppConfig

	mu    sync.Mutex
	state State
	// genSeq identifies the current generation; the display timer only
	// clears the generation it was started for.
	genSeq     uint64
	clearTimer clockwork.Timer
	subs       map[uint64]func(State)
	nextSub    uint64

	listenOnce sync.Once
}

// New creates a Store. The theme is seeded from settings.
func New(
	logger *slog.Logger,
	gen generator,
	reg registrar,
	wallet walletConnector,
	assets assetRepo,
	settings themeRepo,
	clock clockwork.Clock,
	cfg config.AppConfig,
) *Store {
	return &Store{
		log:       logger.With("service", "appstate"),
		generator: gen,
		registrar: reg,
		wallet:    wallet,
		assets:    assets,
		settings:  settings,
		clock:     clock,
		cfg:       cfg,
		state: State{
			Assets:             []domain.IPAsset{},
			AutoRegister:       cfg.AutoRegister,
			Theme:              settings.Theme(context.Background()),
			RegistrationStatus: StatusIdle,
		},
		subs: make(map[uint64]func(State)),
	}
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Subscribe registers fn to receive a snapshot after every mutation. fn runs
// on the mutating goroutine and must not call back into Store synchronously.
// The returned function unsubscribes.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// Close stops the pending display timer, if any.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopTimerLocked()
}

// update applies fn under the lock and notifies subscribers afterwards.
func (s *Store) update(fn func(st *State)) {
	s.mu.Lock()
	fn(&s.state)
	snap := s.state.clone()
	subs := slices.Collect(maps.Values(s.subs))
	s.mu.Unlock()

	for _, sub := range subs {
		sub(snap)
	}
}

func (s *Store) stopTimerLocked() {
	if s.clearTimer != nil {
		s.clearTimer.Stop()
		s.clearTimer = nil
	}
}
