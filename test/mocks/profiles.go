package mocks

import (
	"context"

	"github.com/Yulian302/lfusys-services-connections/auth/types"
	"github.com/stretchr/testify/mock"
)

type MockProfileStore struct {
	mock.Mock
}

func (m *MockProfileStore) ResetMock() {
	m.ExpectedCalls = nil
	m.Calls = nil
}

func (m *MockProfileStore) UserExists(ctx context.Context, userID string) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockProfileStore) SaveConnection(ctx context.Context, rec types.ConnectionRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockProfileStore) GetConnection(ctx context.Context, userID string) (*types.ConnectionRecord, error) {
	args := m.Called(ctx, userID)
	rec, _ := args.Get(0).(*types.ConnectionRecord)
	return rec, args.Error(1)
}

func (m *MockProfileStore) Disconnect(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockProfileStore) IsReady(ctx context.Context) error {
	return nil
}

func (m *MockProfileStore) Name() string {
	return "MockProfileStore"
}
