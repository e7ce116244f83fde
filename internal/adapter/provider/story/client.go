// Package story is the IP registration client. Only the mock backend is
// implemented; the real Story Protocol integration answers ErrNotImplemented.
package story

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/mintmind/internal/config"
	"github.com/heartmarshall/mintmind/internal/domain"
	"github.com/heartmarshall/mintmind/internal/provider"
)

// MockFailureMessage is the error text of an injected registration failure.
const MockFailureMessage = "Mock registration failed: Network error"

const (
	assetIDPrefix = "story-asset-"
	maxTokenID    = 10000

	getAssetDelay   = 500 * time.Millisecond
	listAssetsDelay = 800 * time.Millisecond
)

var errNotImplemented = fmt.Errorf("story: %w: Story Protocol API integration not fully implemented, set USE_MOCK=true", domain.ErrNotImplemented)

// Client registers generated content as IP assets.
type Client struct {
	cfg   config.RegistrationConfig
	clock clockwork.Clock
	rnd   provider.Rand
	log   *slog.Logger
}

// NewClient creates a Client on the real clock and the process-wide random source.
func NewClient(cfg config.RegistrationConfig, logger *slog.Logger) *Client {
	return NewClientWithClock(cfg, logger, clockwork.NewRealClock(), provider.DefaultRand())
}

// NewClientWithClock creates a Client with explicit time and randomness (for testing).
func NewClientWithClock(cfg config.RegistrationConfig, logger *slog.Logger, clock clockwork.Clock, rnd provider.Rand) *Client {
	return &Client{
		cfg:   cfg,
		clock: clock,
		rnd:   rnd,
		log:   logger.With("adapter", "story"),
	}
}

// Register submits meta to the registry. A business failure is reported in
// the outcome with a nil error; the error return is reserved for invalid
// input, cancellation and the unimplemented real backend.
func (c *Client) Register(ctx context.Context, meta domain.IPMetadata) (domain.RegistrationOutcome, error) {
	if err := meta.Validate(); err != nil {
		return domain.RegistrationOutcome{}, fmt.Errorf("story: %w", err)
	}
	if !c.cfg.UsesMock() {
		return domain.RegistrationOutcome{}, errNotImplemented
	}

	c.log.InfoContext(ctx, "mock registration",
		slog.String("title", meta.Title),
		slog.String("content_type", meta.ContentType.String()),
		slog.String("creator", meta.Creator),
		slog.String("model", meta.Model),
	)

	if err := provider.Wait(ctx, c.clock, c.rnd, c.cfg.DelayMin, c.cfg.DelayMax); err != nil {
		return domain.RegistrationOutcome{}, fmt.Errorf("story: %w", err)
	}

	if c.rnd.Float64() > 1-c.cfg.FailureRate {
		c.log.WarnContext(ctx, "mock registration failed", slog.String("title", meta.Title))
		return domain.RegistrationFailed(MockFailureMessage), nil
	}

	return c.fabricate(meta), nil
}

// fabricate builds plausible on-chain identifiers for a mock registration.
func (c *Client) fabricate(meta domain.IPMetadata) domain.RegistrationOutcome {
	assetID := assetIDPrefix + uuid.NewString()

	payload, _ := json.Marshal(meta)
	txHash := crypto.Keccak256Hash(payload, []byte(assetID))
	ipID := common.BytesToAddress(crypto.Keccak256([]byte(assetID)))

	return domain.RegistrationSucceeded(
		assetID,
		txHash.Hex(),
		ipID.Hex(),
		strconv.Itoa(c.rnd.IntN(maxTokenID)),
	)
}

// GetAsset looks up a registered asset.
func (c *Client) GetAsset(ctx context.Context, assetID string) (*domain.RegistryRecord, error) {
	if assetID == "" {
		return nil, fmt.Errorf("story: %w", domain.NewValidationError("assetId", "required"))
	}
	if !c.cfg.UsesMock() {
		return nil, errNotImplemented
	}

	if err := provider.Wait(ctx, c.clock, c.rnd, getAssetDelay, getAssetDelay); err != nil {
		return nil, fmt.Errorf("story: %w", err)
	}

	return &domain.RegistryRecord{
		AssetID:      assetID,
		Title:        "Mock IP Asset",
		Description:  "This is a mock IP asset for development",
		ContentType:  domain.KindText.String(),
		Status:       "registered",
		RegisteredAt: c.clock.Now().UTC(),
	}, nil
}

// ListAssets lists the assets registered by owner. The mock registry is always empty.
func (c *Client) ListAssets(ctx context.Context, owner string) ([]domain.RegistryRecord, error) {
	if !c.cfg.UsesMock() {
		return nil, errNotImplemented
	}

	if err := provider.Wait(ctx, c.clock, c.rnd, listAssetsDelay, listAssetsDelay); err != nil {
		return nil, fmt.Errorf("story: %w", err)
	}

	c.log.DebugContext(ctx, "mock list assets", slog.String("owner", owner))
	return []domain.RegistryRecord{}, nil
}
