package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"vector-pai/application/ports"
	"vector-pai/domain/entities"
)

// MockItemStore is a mock implementation of ports.ItemStore
type MockItemStore struct {
	mock.Mock
}

func (m *MockItemStore) Create(ctx context.Context, item interface{}) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemStore) Get(ctx context.Context, key entities.Key, out interface{}) error {
	args := m.Called(ctx, key, out)
	return args.Error(0)
}

func (m *MockItemStore) Update(ctx context.Context, key entities.Key, changes entities.Changes, out interface{}) error {
	args := m.Called(ctx, key, changes, out)
	return args.Error(0)
}

func (m *MockItemStore) Delete(ctx context.Context, key entities.Key, out interface{}) error {
	args := m.Called(ctx, key, out)
	return args.Error(0)
}

func (m *MockItemStore) Query(ctx context.Context, q ports.Query, out interface{}) (string, error) {
	args := m.Called(ctx, q, out)
	return args.String(0), args.Error(1)
}

func (m *MockItemStore) Scan(ctx context.Context, s ports.ScanQuery, out interface{}) (string, error) {
	args := m.Called(ctx, s, out)
	return args.String(0), args.Error(1)
}

// AssertUntouched fails t if any store method was called
func (m *MockItemStore) AssertUntouched(t mock.TestingT) bool {
	for _, call := range m.Calls {
		t.Errorf("unexpected store call: %s", call.Method)
	}
	return len(m.Calls) == 0
}

var _ ports.ItemStore = (*MockItemStore)(nil)
