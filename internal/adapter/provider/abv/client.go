// Package abv is the content generation client. Only the mock backend is
// implemented; the real ABV.dev integration answers ErrNotImplemented.
package abv

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/mintmind/internal/config"
	"github.com/heartmarshall/mintmind/internal/domain"
	"github.com/heartmarshall/mintmind/internal/provider"
)

// Default models per kind.
const (
	DefaultTextModel  = "gpt-4-turbo"
	DefaultImageModel = "dall-e-3"
	DefaultVideoModel = "sora-v1"
)

const maxSeed = 1 << 31

var textTemplates = []string{
	`A brief story based on "%s": In a world where technology and nature coexist, a lone explorer discovers an ancient secret that could change everything. The journey begins at dawn, with nothing but hope and determination guiding the way.`,
	`Regarding "%s": Once upon a time, in a digital realm far from our own, there existed a place where ideas took physical form. Every thought, every dream, became tangible. This is the story of how one person learned to navigate this extraordinary landscape.`,
	`Inspired by "%s": The future is not written in stone, but in the choices we make today. As the sun sets on one era, another begins to rise. What will we create? What legacy will we leave? These questions echo through time.`,
}

var imageURLs = []string{
	"https://images.unsplash.com/photo-1506744038136-46273834b3fb?w=800",
	"https://images.unsplash.com/photo-1469474968028-56623f02e42e?w=800",
	"https://images.unsplash.com/photo-1518791841217-8f162f1e1131?w=800",
}

const videoURL = "https://www.w3schools.com/html/mov_bbb.mp4"

// Client generates text, image and video content for a prompt.
type Client struct {
	cfg   config.GenerationConfig
	clock clockwork.Clock
	rnd   provider.Rand
	log   *slog.Logger
}

// NewClient creates a Client on the real clock and the process-wide random source.
func NewClient(cfg config.GenerationConfig, logger *slog.Logger) *Client {
	return NewClientWithClock(cfg, logger, clockwork.NewRealClock(), provider.DefaultRand())
}

// NewClientWithClock creates a Client with explicit time and randomness (for testing).
func NewClientWithClock(cfg config.GenerationConfig, logger *slog.Logger, clock clockwork.Clock, rnd provider.Rand) *Client {
	return &Client{
		cfg:   cfg,
		clock: clock,
		rnd:   rnd,
		log:   logger.With("adapter", "abv"),
	}
}

// Generate produces content of the requested kind for prompt.
func (c *Client) Generate(ctx context.Context, prompt string, kind domain.ContentKind, opts domain.GenerationOptions) (*domain.GenerationResult, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("abv: %w: %q", domain.ErrUnsupportedKind, kind)
	}
	if strings.TrimSpace(prompt) == "" {
		return nil, fmt.Errorf("abv: %w", domain.NewValidationError("prompt", "required"))
	}

	if !c.cfg.UsesMock() {
		return nil, fmt.Errorf("abv: %w: ABV.dev API integration not yet implemented, set USE_MOCK=true", domain.ErrNotImplemented)
	}

	c.log.DebugContext(ctx, "mock generation", slog.String("kind", kind.String()), slog.Int("prompt_len", len(prompt)))

	if err := provider.Wait(ctx, c.clock, c.rnd, c.cfg.DelayMin, c.cfg.DelayMax); err != nil {
		return nil, fmt.Errorf("abv: %w", err)
	}

	seed := int64(c.rnd.IntN(maxSeed))
	if opts.Seed != nil {
		seed = *opts.Seed
	}

	var content domain.Content
	switch kind {
	case domain.KindText:
		content = domain.TextContent{Text: fmt.Sprintf(textTemplates[c.rnd.IntN(len(textTemplates))], prompt)}
	case domain.KindImage:
		content = domain.ImageContent{
			Caption: "Image generated: " + prompt,
			URL:     imageURLs[c.rnd.IntN(len(imageURLs))],
		}
	case domain.KindVideo:
		content = domain.VideoContent{Caption: "Video generated: " + prompt, URL: videoURL}
	}

	return &domain.GenerationResult{
		Content: content,
		Metadata: domain.GenerationMetadata{
			Model:       modelFor(kind, opts.Model),
			Seed:        seed,
			GeneratedAt: c.clock.Now().UTC(),
			Prompt:      prompt,
		},
	}, nil
}

// GenerateText is Generate for KindText.
func (c *Client) GenerateText(ctx context.Context, prompt string, opts domain.GenerationOptions) (*domain.GenerationResult, error) {
	return c.Generate(ctx, prompt, domain.KindText, opts)
}

// GenerateImage is Generate for KindImage.
func (c *Client) GenerateImage(ctx context.Context, prompt string, opts domain.GenerationOptions) (*domain.GenerationResult, error) {
	return c.Generate(ctx, prompt, domain.KindImage, opts)
}

// GenerateVideo is Generate for KindVideo.
func (c *Client) GenerateVideo(ctx context.Context, prompt string, opts domain.GenerationOptions) (*domain.GenerationResult, error) {
	return c.Generate(ctx, prompt, domain.KindVideo, opts)
}

func modelFor(kind domain.ContentKind, requested string) string {
	if requested != "" {
		return requested
	}
	switch kind {
	case domain.KindImage:
		return DefaultImageModel
	case domain.KindVideo:
		return DefaultVideoModel
	default:
		return DefaultTextModel
	}
}
