package mocks

import (
	"context"
	"net/url"

	"github.com/Yulian302/lfusys-services-connections/auth/oauth"
	"github.com/stretchr/testify/mock"
)

type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) ResetMock() {
	m.ExpectedCalls = nil
	m.Calls = nil
}

func (m *MockProvider) Name() string {
	return "linkedin"
}

func (m *MockProvider) AuthCodeURL(state string) string {
	q := url.Values{}
	q.Set("response_type", "code")
	q.Set("state", state)
	return "https://www.linkedin.com/oauth/v2/authorization?" + q.Encode()
}

func (m *MockProvider) ExchangeCode(ctx context.Context, code string) (oauth.TokenResult, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(oauth.TokenResult), args.Error(1)
}

func (m *MockProvider) GetProfile(ctx context.Context, accessToken string) (oauth.Profile, error) {
	args := m.Called(ctx, accessToken)
	return args.Get(0).(oauth.Profile), args.Error(1)
}
