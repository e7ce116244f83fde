package appstate

import (
	"context"
	"sync"

	"github.com/heartmarshall/mintmind/internal/domain"
)

var _ generator = &generatorMock{}

type generatorMock struct {
	GenerateFunc func(ctx context.Context, prompt string, kind domain.ContentKind, opts domain.GenerationOptions) (*domain.GenerationResult, error)

	calls struct {
		Generate []struct {
			Ctx    context.Context
			Prompt string
			Kind   domain.ContentKind
			Opts   domain.GenerationOptions
		}
	}
	lockGenerate sync.RWMutex
}

func (mock *generatorMock) Generate(ctx context.Context, prompt string, kind domain.ContentKind, opts domain.GenerationOptions) (*domain.GenerationResult, error) {
	if mock.GenerateFunc == nil {
		panic("generatorMock.GenerateFunc: method is nil but generator.Generate was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		Prompt string
		Kind   domain.ContentKind
		Opts   domain.GenerationOptions
	}{Ctx: ctx, Prompt: prompt, Kind: kind, Opts: opts}
	mock.lockGenerate.Lock()
	mock.calls.Generate = append(mock.calls.Generate, callInfo)
	mock.lockGenerate.Unlock()
	return mock.GenerateFunc(ctx, prompt, kind, opts)
}

func (mock *generatorMock) GenerateCalls() []struct {
	Ctx    context.Context
	Prompt string
	Kind   domain.ContentKind
	Opts   domain.GenerationOptions
} {
	mock.lockGenerate.RLock()
	calls := mock.calls.Generate
	mock.lockGenerate.RUnlock()
	return calls
}
