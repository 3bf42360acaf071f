package order

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetByMerchantReference(ctx context.Context, merchantReference string) (*Order, error) {
	args := m.Called(ctx, merchantReference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Order), args.Error(1)
}

func (m *MockRepository) SetPaymentState(ctx context.Context, merchantReference string, state PaymentState, pspReference string) (bool, error) {
	args := m.Called(ctx, merchantReference, state, pspReference)
	return args.Bool(0), args.Error(1)
}

func orderInState(state PaymentState) *Order {
	return &Order{
		ID:                1,
		MerchantReference: "order-1",
		PaymentState:      state,
		TotalAmount:       15000,
		Currency:          "EUR",
	}
}

func TestService_MarkAuthorized(t *testing.T) {
	ctx := context.Background()

	t.Run("Transition", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetByMerchantReference", mock.Anything, "order-1").Return(orderInState(PaymentStatePending), nil)
		repo.On("SetPaymentState", mock.Anything, "order-1", PaymentStateAuthorized, "X1").Return(true, nil)

		err := NewService(repo).MarkAuthorized(ctx, "order-1", "X1")
		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("AlreadyAuthorizedIsNoOp", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetByMerchantReference", mock.Anything, "order-1").Return(orderInState(PaymentStateAuthorized), nil)

		err := NewService(repo).MarkAuthorized(ctx, "order-1", "X1")
		assert.NoError(t, err)
		repo.AssertNotCalled(t, "SetPaymentState")
	})

	t.Run("LostRaceIsNoOp", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetByMerchantReference", mock.Anything, "order-1").Return(orderInState(PaymentStatePending), nil)
		repo.On("SetPaymentState", mock.Anything, "order-1", PaymentStateAuthorized, "X1").Return(false, nil)

		err := NewService(repo).MarkAuthorized(ctx, "order-1", "X1")
		assert.NoError(t, err)
	})

	t.Run("OrderNotFound", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetByMerchantReference", mock.Anything, "missing").Return(nil, ErrOrderNotFound)

		err := NewService(repo).MarkAuthorized(ctx, "missing", "X1")
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}

func TestService_Transitions(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name   string
		call   func(s Service) error
		target PaymentState
	}{
		{"AuthorizationFailed", func(s Service) error { return s.MarkAuthorizationFailed(ctx, "order-1", "X1") }, PaymentStateFailed},
		{"Captured", func(s Service) error { return s.MarkCaptured(ctx, "order-1", "X1") }, PaymentStateCaptured},
		{"Refunded", func(s Service) error { return s.MarkRefunded(ctx, "order-1", "X1") }, PaymentStateRefunded},
		{"Canceled", func(s Service) error { return s.MarkCanceled(ctx, "order-1", "X1") }, PaymentStateCanceled},
		{"ChargedBack", func(s Service) error { return s.MarkChargedBack(ctx, "order-1", "X1") }, PaymentStateChargedBack},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := new(MockRepository)
			repo.On("GetByMerchantReference", mock.Anything, "order-1").Return(orderInState(PaymentStatePending), nil)
			repo.On("SetPaymentState", mock.Anything, "order-1", tc.target, "X1").Return(true, nil)

			err := tc.call(NewService(repo))
			assert.NoError(t, err)
			repo.AssertExpectations(t)
		})
	}
}

func TestService_MarkRefundFailed(t *testing.T) {
	ctx := context.Background()

	t.Run("RevertsRefundedToCaptured", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetByMerchantReference", mock.Anything, "order-1").Return(orderInState(PaymentStateRefunded), nil)
		repo.On("SetPaymentState", mock.Anything, "order-1", PaymentStateCaptured, "X1").Return(true, nil)

		err := NewService(repo).MarkRefundFailed(ctx, "order-1", "X1")
		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("NotRefundedIsNoOp", func(t *testing.T) {
		for _, state := range []PaymentState{PaymentStatePending, PaymentStateAuthorized, PaymentStateCaptured, PaymentStateCanceled} {
			repo := new(MockRepository)
			repo.On("GetByMerchantReference", mock.Anything, "order-1").Return(orderInState(state), nil)

			err := NewService(repo).MarkRefundFailed(ctx, "order-1", "X1")
			require.NoError(t, err, "state %s", state)
			repo.AssertNotCalled(t, "SetPaymentState")
		}
	})

	t.Run("RepoError", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetByMerchantReference", mock.Anything, "order-1").Return(nil, errors.New("db down"))

		err := NewService(repo).MarkRefundFailed(ctx, "order-1", "X1")
		assert.Error(t, err)
	})
}
