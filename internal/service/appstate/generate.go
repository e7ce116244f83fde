package appstate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/heartmarshall/mintmind/internal/domain"
)

const (
	autoTitlePromptRunes = 30
	descriptionRunes     = 200
)

// GenerateInput is the input for Generate.
type GenerateInput struct {
	Prompt  string
	Kind    domain.ContentKind
	Options domain.GenerationOptions
}

// GenerateResult is the output of Generate. Asset is set when auto-register
// succeeded; RegistrationErr is set when it was attempted and failed.
type GenerateResult struct {
	Generation      *domain.GenerationResult
	Asset           *domain.IPAsset
	RegistrationErr error
}

// RegisterInput is the input for Register. Blank fields get defaults derived
// from the current generation.
type RegisterInput struct {
	Title       string
	Description string
}

// Generate produces new content and makes it the current generation. With
// auto-register on, the content is registered right away; a registration
// failure is reported in the result and in State.Error, not as an error.
func (s *Store) Generate(ctx context.Context, input GenerateInput) (*GenerateResult, error) {
	if !input.Kind.IsValid() {
		return nil, fmt.Errorf("appstate.Generate: %w: %q", domain.ErrUnsupportedKind, input.Kind)
	}

	s.update(func(st *State) {
		st.IsGenerating = true
		st.Error = ""
		st.RegistrationStatus = StatusIdle
	})

	gen, err := s.generator.Generate(ctx, input.Prompt, input.Kind, input.Options)
	if err != nil {
		s.update(func(st *State) {
			st.CurrentGeneration = nil
			st.IsGenerating = false
			st.Error = GenerationMessage(err)
		})
		s.log.WarnContext(ctx, "generation failed", slogKind(input.Kind), "error", err)
		return nil, fmt.Errorf("appstate.Generate: %w", err)
	}

	var autoRegister bool
	s.update(func(st *State) {
		st.CurrentGeneration = gen
		st.IsGenerating = false
		s.genSeq++
		s.stopTimerLocked()
		autoRegister = st.AutoRegister
	})
	s.log.InfoContext(ctx, "content generated", slogKind(input.Kind), "model", gen.Metadata.Model)

	result := &GenerateResult{Generation: gen}
	if !autoRegister {
		return result, nil
	}

	asset, regErr := s.Register(ctx, RegisterInput{
		Title:       autoTitle(input.Kind, input.Prompt),
		Description: input.Prompt,
	})
	if regErr != nil {
		result.RegistrationErr = regErr
		return result, nil
	}
	result.Asset = asset
	return result, nil
}

// Register registers the current generation as an IP asset. On success the
// asset is prepended to the collection, persisted for the connected wallet
// and the generation is cleared after the display window.
func (s *Store) Register(ctx context.Context, input RegisterInput) (*domain.IPAsset, error) {
	var (
		gen *domain.GenerationResult
		seq uint64
	)
	s.mu.Lock()
	if s.state.CurrentGeneration != nil {
		g := *s.state.CurrentGeneration
		gen = &g
	}
	seq = s.genSeq
	s.mu.Unlock()

	if gen == nil {
		return nil, fmt.Errorf("appstate.Register: %w", domain.NewValidationError("generation", "nothing to register"))
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		title = "Generated " + gen.Kind().String()
	}
	description := strings.TrimSpace(input.Description)
	if description == "" {
		description = truncateRunes(gen.Content.Summary(), descriptionRunes)
	}

	seed := gen.Metadata.Seed
	meta := domain.IPMetadata{
		Title:          title,
		Description:    description,
		Creator:        s.cfg.Creator,
		ContentType:    gen.Kind(),
		ContentURL:     gen.Content.MediaURL(),
		OriginalPrompt: gen.Metadata.Prompt,
		Model:          gen.Metadata.Model,
		GeneratedAt:    gen.Metadata.GeneratedAt,
		Seed:           &seed,
	}

	s.update(func(st *State) {
		st.IsRegistering = true
		st.Error = ""
	})

	outcome, err := s.registrar.Register(ctx, meta)
	if err == nil {
		err = outcome.Err()
	}
	var asset domain.IPAsset
	if err == nil {
		asset, err = domain.NewIPAsset(gen, outcome, title, description, s.clock.Now())
	}
	if err != nil {
		s.update(func(st *State) {
			st.IsRegistering = false
			st.Error = RegistrationMessage(err)
			st.RegistrationStatus = StatusError
		})
		s.log.WarnContext(ctx, "registration failed", slogKind(gen.Kind()), "error", err)
		if !errors.Is(err, domain.ErrRegistrationFailed) {
			err = fmt.Errorf("%w: %w", domain.ErrRegistrationFailed, err)
		}
		return nil, fmt.Errorf("appstate.Register: %w", err)
	}

	var (
		address string
		assets  []domain.IPAsset
	)
	s.update(func(st *State) {
		st.Assets = domain.PrependAsset(st.Assets, asset)
		st.IsRegistering = false
		st.RegistrationStatus = StatusSuccess
		s.scheduleClearLocked(seq)
		address = st.WalletAddress
		assets = st.Assets
	})
	s.log.InfoContext(ctx, "asset registered", "asset_id", asset.ID, slogKind(asset.Kind()))

	if address != "" {
		s.assets.Save(ctx, address, assets)
	}
	return &asset, nil
}

// ClearCurrentGeneration drops the current generation ("start over").
func (s *Store) ClearCurrentGeneration() {
	s.update(func(st *State) {
		s.genSeq++
		s.stopTimerLocked()
		st.CurrentGeneration = nil
		st.RegistrationStatus = StatusIdle
		st.Error = ""
	})
}

// ClearError dismisses the current error message.
func (s *Store) ClearError() {
	s.update(func(st *State) { st.Error = "" })
}

// SetAutoRegister toggles automatic registration after generation.
func (s *Store) SetAutoRegister(on bool) {
	s.update(func(st *State) { st.AutoRegister = on })
}

// scheduleClearLocked arms the display timer for generation seq. A newer
// generation or an explicit clear makes the timer a no-op.
func (s *Store) scheduleClearLocked(seq uint64) {
	s.stopTimerLocked()
	s.clearTimer = s.clock.AfterFunc(s.cfg.DisplayWindow, func() {
		s.update(func(st *State) {
			if s.genSeq != seq {
				return
			}
			st.CurrentGeneration = nil
			st.RegistrationStatus = StatusIdle
		})
	})
}

func autoTitle(kind domain.ContentKind, prompt string) string {
	return kind.Title() + " - " + truncateRunes(prompt, autoTitlePromptRunes)
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// GenerationMessage is the user-facing text for a generation failure.
func GenerationMessage(err error) string {
	var verr *domain.ValidationError
	switch {
	case errors.Is(err, domain.ErrNotImplemented):
		return unwrapMessage(err)
	case errors.As(err, &verr) && len(verr.Errors) > 0:
		return verr.Errors[0].Field + ": " + verr.Errors[0].Message
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "Generation cancelled"
	default:
		return "Generation failed"
	}
}

// RegistrationMessage is the user-facing text for a registration failure.
func RegistrationMessage(err error) string {
	var rerr *domain.RegistrationError
	switch {
	case errors.As(err, &rerr) && rerr.Message != "":
		return rerr.Message
	case errors.Is(err, domain.ErrNotImplemented):
		return unwrapMessage(err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "Registration cancelled"
	default:
		return "Registration failed"
	}
}

// unwrapMessage strips the "pkg: " prefixes adapters put in front of the
// user guidance.
func unwrapMessage(err error) string {
	msg := err.Error()
	if i := strings.LastIndex(msg, domain.ErrNotImplemented.Error()+": "); i >= 0 {
		return msg[i+len(domain.ErrNotImplemented.Error())+2:]
	}
	return msg
}
