package rest

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/mintmind/internal/domain"
	"github.com/heartmarshall/mintmind/internal/service/appstate"
	"github.com/heartmarshall/mintmind/internal/transport/middleware"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type appState interface {
	Snapshot() appstate.State
	Subscribe(fn func(appstate.State)) func()
	Generate(ctx context.Context, input appstate.GenerateInput) (*appstate.GenerateResult, error)
	Register(ctx context.Context, input appstate.RegisterInput) (*domain.IPAsset, error)
	ClearCurrentGeneration()
	ClearError()
	SetAutoRegister(on bool)
	ConnectWallet(ctx context.Context) (domain.WalletAccount, error)
	DisconnectWallet(ctx context.Context)
	ToggleTheme(ctx context.Context) domain.Theme
	SetTheme(ctx context.Context, theme domain.Theme) error
	Stats() appstate.Stats
	Assets(kind domain.ContentKind) []domain.IPAsset
}

type walletInfo interface {
	IsAvailable() bool
	ProviderName() string
}

type registry interface {
	GetAsset(ctx context.Context, assetID string) (*domain.RegistryRecord, error)
	ListAssets(ctx context.Context, owner string) ([]domain.RegistryRecord, error)
}

// defaultHeartbeat keeps idle event streams alive through proxies.
const defaultHeartbeat = 15 * time.Second

// Handler serves the application API consumed by the web client. It plays
// the presentation role: in-flight operations are rejected with 409 here,
// the state store itself never rejects.
type Handler struct {
	state     appState
	wallet    walletInfo
	registry  registry
	clock     clockwork.Clock
	log       *slog.Logger
	heartbeat time.Duration

	// closed ends every open state stream.
	closed    chan struct{}
	closeOnce sync.Once
}

// NewHandler creates a Handler.
func NewHandler(logger *slog.Logger, state appState, wallet walletInfo, reg registry, clock clockwork.Clock) *Handler {
	return &Handler{
		state:     state,
		wallet:    wallet,
		registry:  reg,
		clock:     clock,
		log:       logger.With("handler", "api"),
		heartbeat: defaultHeartbeat,
		closed:    make(chan struct{}),
	}
}

// CloseStreams ends open state streams and rejects new ones. Streams never
// finish on their own, so the server calls this when shutdown starts.
func (h *Handler) CloseStreams() {
	h.closeOnce.Do(func() { close(h.closed) })
}

// Mount mounts the API routes on mux. limited wraps the slow mock-backed
// routes (generate, register, wallet connect).
func (h *Handler) Mount(mux *http.ServeMux, limited middleware.Middleware) {
	mux.HandleFunc("GET /api/state", h.GetState)
	mux.HandleFunc("GET /api/state/stream", h.StreamState)

	mux.Handle("POST /api/generate", limited.Wrap(h.Generate))
	mux.Handle("POST /api/register", limited.Wrap(h.RegisterAsset))
	mux.HandleFunc("POST /api/generation/clear", h.ClearGeneration)
	mux.HandleFunc("POST /api/error/clear", h.ClearError)

	mux.HandleFunc("GET /api/wallet", h.GetWallet)
	mux.Handle("POST /api/wallet/connect", limited.Wrap(h.ConnectWallet))
	mux.HandleFunc("POST /api/wallet/disconnect", h.DisconnectWallet)

	mux.HandleFunc("GET /api/assets", h.ListAssets)
	mux.HandleFunc("GET /api/assets/stats", h.AssetStats)
	mux.HandleFunc("GET /api/registry/assets", h.ListRegistryAssets)
	mux.HandleFunc("GET /api/registry/assets/{id}", h.GetRegistryAsset)

	mux.HandleFunc("GET /api/settings", h.GetSettings)
	mux.HandleFunc("PUT /api/settings", h.UpdateSettings)
	mux.HandleFunc("POST /api/settings/theme/toggle", h.ToggleTheme)
}

// GetState returns the full state snapshot.
func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.state.Snapshot())
}
