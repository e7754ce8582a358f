package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/avelin/estate-notify/internal/core/domain"
)

// MockSideEffectExecutor is a mock implementation of ports.SideEffectExecutor
type MockSideEffectExecutor struct {
	mock.Mock
	ExecutorName string
}

func NewMockSideEffectExecutor(name string) *MockSideEffectExecutor {
	return &MockSideEffectExecutor{ExecutorName: name}
}

func (m *MockSideEffectExecutor) Name() string {
	return m.ExecutorName
}

func (m *MockSideEffectExecutor) Execute(ctx context.Context, n domain.Notification, policy domain.NotificationPolicy) error {
	args := m.Called(ctx, n, policy)
	return args.Error(0)
}

// MockStatsClient is a mock implementation of ports.StatsClient
type MockStatsClient struct {
	mock.Mock
}

func NewMockStatsClient() *MockStatsClient {
	return &MockStatsClient{}
}

func (m *MockStatsClient) FetchStats(ctx context.Context) *domain.StreamStats {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*domain.StreamStats)
}

func (m *MockStatsClient) SendTestEvent(ctx context.Context, message string) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

// MockPermissionGate is a mock implementation of ports.PermissionGate
type MockPermissionGate struct {
	mock.Mock
}

func NewMockPermissionGate() *MockPermissionGate {
	return &MockPermissionGate{}
}

func (m *MockPermissionGate) Granted() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockPermissionGate) RequestPermission() bool {
	args := m.Called()
	return args.Bool(0)
}

// MockTransport is a mock implementation of ports.Transport
type MockTransport struct {
	mock.Mock
	FrameCh chan []byte
	StateCh chan domain.ConnectionState
}

func NewMockTransport() *MockTransport {
	return &MockTransport{
		FrameCh: make(chan []byte, 16),
		StateCh: make(chan domain.ConnectionState, 16),
	}
}

func (m *MockTransport) Connect() {
	m.Called()
}

func (m *MockTransport) Disconnect() {
	m.Called()
}

func (m *MockTransport) Frames() <-chan []byte {
	return m.FrameCh
}

func (m *MockTransport) States() <-chan domain.ConnectionState {
	return m.StateCh
}

func (m *MockTransport) State() domain.ConnectionState {
	args := m.Called()
	return args.Get(0).(domain.ConnectionState)
}
