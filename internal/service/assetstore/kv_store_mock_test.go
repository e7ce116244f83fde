package assetstore

import (
	"context"
	"sync"
)

var _ kvStore = &kvStoreMock{}

type kvStoreMock struct {
	GetFunc    func(ctx context.Context, key string) (string, bool, error)
	SetFunc    func(ctx context.Context, key string, value string) error
	DeleteFunc func(ctx context.Context, key string) error
	KeysFunc   func(ctx context.Context, prefix string) ([]string, error)

	calls struct {
		Get []struct {
			Ctx context.Context
			Key string
		}
		Set []struct {
			Ctx   context.Context
			Key   string
			Value string
		}
		Delete []struct {
			Ctx context.Context
			Key string
		}
		Keys []struct {
			Ctx    context.Context
			Prefix string
		}
	}
	lockGet    sync.RWMutex
	lockSet    sync.RWMutex
	lockDelete sync.RWMutex
	lockKeys   sync.RWMutex
}

func (mock *kvStoreMock) Get(ctx context.Context, key string) (string, bool, error) {
	if mock.GetFunc == nil {
		panic("kvStoreMock.GetFunc: method is nil but kvStore.Get was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Key string
	}{Ctx: ctx, Key: key}
	mock.lockGet.Lock()
	mock.calls.Get = append(mock.calls.Get, callInfo)
	mock.lockGet.Unlock()
	return mock.GetFunc(ctx, key)
}

func (mock *kvStoreMock) GetCalls() []struct {
	Ctx context.Context
	Key string
} {
	mock.lockGet.RLock()
	calls := mock.calls.Get
	mock.lockGet.RUnlock()
	return calls
}

func (mock *kvStoreMock) Set(ctx context.Context, key string, value string) error {
	if mock.SetFunc == nil {
		panic("kvStoreMock.SetFunc: method is nil but kvStore.Set was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Key   string
		Value string
	}{Ctx: ctx, Key: key, Value: value}
	mock.lockSet.Lock()
	mock.calls.Set = append(mock.calls.Set, callInfo)
	mock.lockSet.Unlock()
	return mock.SetFunc(ctx, key, value)
}

func (mock *kvStoreMock) SetCalls() []struct {
	Ctx   context.Context
	Key   string
	Value string
} {
	mock.lockSet.RLock()
	calls := mock.calls.Set
	mock.lockSet.RUnlock()
	return calls
}

func (mock *kvStoreMock) Delete(ctx context.Context, key string) error {
	if mock.DeleteFunc == nil {
		panic("kvStoreMock.DeleteFunc: method is nil but kvStore.Delete was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Key string
	}{Ctx: ctx, Key: key}
	mock.lockDelete.Lock()
	mock.calls.Delete = append(mock.calls.Delete, callInfo)
	mock.lockDelete.Unlock()
	return mock.DeleteFunc(ctx, key)
}

func (mock *kvStoreMock) DeleteCalls() []struct {
	Ctx context.Context
	Key string
} {
	mock.lockDelete.RLock()
	calls := mock.calls.Delete
	mock.lockDelete.RUnlock()
	return calls
}

func (mock *kvStoreMock) Keys(ctx context.Context, prefix string) ([]string, error) {
	if mock.KeysFunc == nil {
		panic("kvStoreMock.KeysFunc: method is nil but kvStore.Keys was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		Prefix string
	}{Ctx: ctx, Prefix: prefix}
	mock.lockKeys.Lock()
	mock.calls.Keys = append(mock.calls.Keys, callInfo)
	mock.lockKeys.Unlock()
	return mock.KeysFunc(ctx, prefix)
}

func (mock *kvStoreMock) KeysCalls() []struct {
	Ctx    context.Context
	Prefix string
} {
	mock.lockKeys.RLock()
	calls := mock.calls.Keys
	mock.lockKeys.RUnlock()
	return calls
}
