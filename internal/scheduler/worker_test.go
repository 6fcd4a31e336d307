package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/revloop/revloop/internal/auth"
	billingdomain "github.com/revloop/revloop/internal/billing/domain"
	"github.com/revloop/revloop/internal/config"
	userdomain "github.com/revloop/revloop/internal/user/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type mockBilling struct {
	mock.Mock
}

func (m *mockBilling) Subscribe(ctx context.Context, req billingdomain.SubscribeRequest) (*billingdomain.SubscribeResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billingdomain.SubscribeResponse), args.Error(1)
}

func (m *mockBilling) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	args := m.Called(ctx, payload, signature)
	return args.Error(0)
}

func (m *mockBilling) ExpireOverdue(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type mockAuth struct {
	mock.Mock
}

func (m *mockAuth) Login(ctx context.Context, email, password string) (*auth.LoginResult, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.LoginResult), args.Error(1)
}

func (m *mockAuth) Authenticate(ctx context.Context, token string) (*userdomain.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userdomain.User), args.Error(1)
}

func (m *mockAuth) Logout(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *mockAuth) DeleteExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func newSweepWorker(billing billingdomain.Service, authSvc auth.Service) *Worker {
	return NewWorker(Params{
		Log:     zap.NewNop(),
		Cfg:     config.Config{SweepIntervalHours: 24},
		Billing: billing,
		Auth:    authSvc,
	})
}

func TestRunOnce(t *testing.T) {
	billing := &mockBilling{}
	authSvc := &mockAuth{}
	billing.On("ExpireOverdue", mock.Anything).Return(2, nil).Once()
	authSvc.On("DeleteExpired", mock.Anything).Return(int64(3), nil).Once()

	w := newSweepWorker(billing, authSvc)
	assert.NoError(t, w.RunOnce(context.Background()))

	billing.AssertExpectations(t)
	authSvc.AssertExpectations(t)
}

func TestRunOnceBillingFailureShortCircuits(t *testing.T) {
	billing := &mockBilling{}
	authSvc := &mockAuth{}
	billing.On("ExpireOverdue", mock.Anything).Return(0, errors.New("db down")).Once()

	w := newSweepWorker(billing, authSvc)
	assert.Error(t, w.RunOnce(context.Background()))

	// The session sweep never runs when expiry fails.
	authSvc.AssertNotCalled(t, "DeleteExpired")
}

func TestNewWorkerDefaultsInterval(t *testing.T) {
	w := NewWorker(Params{
		Log:     zap.NewNop(),
		Cfg:     config.Config{},
		Billing: &mockBilling{},
		Auth:    &mockAuth{},
	})
	assert.Equal(t, "24h0m0s", w.interval.String())
}
