package appstate

import (
	"context"
	"sync"

	"github.com/heartmarshall/mintmind/internal/domain"
)

var _ registrar = &registrarMock{}

type registrarMock struct {
	RegisterFunc func(ctx context.Context, meta domain.IPMetadata) (domain.RegistrationOutcome, error)

	calls struct {
		Register []struct {
			Ctx  context.Context
			Meta domain.IPMetadata
		}
	}
	lockRegister sync.RWMutex
}

func (mock *registrarMock) Register(ctx context.Context, meta domain.IPMetadata) (domain.RegistrationOutcome, error) {
	if mock.RegisterFunc == nil {
		panic("registrarMock.RegisterFunc: method is nil but registrar.Register was just called")
	}
	callInfo := struct {
		Ctx  context.Context
		Meta domain.IPMetadata
	}{Ctx: ctx, Meta: meta}
	mock.lockRegister.Lock()
	mock.calls.Register = append(mock.calls.Register, callInfo)
	mock.lockRegister.Unlock()
	return mock.RegisterFunc(ctx, meta)
}

func (mock *registrarMock) RegisterCalls() []struct {
	Ctx  context.Context
	Meta domain.IPMetadata
} {
	mock.lockRegister.RLock()
	calls := mock.calls.Register
	mock.lockRegister.RUnlock()
	return calls
}
