package slotservice

import (
	"context"
	"errors"
	"testing"

	"github.com/GlebRadaev/fulfillment/internal/apperr"
	"github.com/GlebRadaev/fulfillment/internal/domain"
	"github.com/GlebRadaev/fulfillment/pkg/keylock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"
)

type mocks struct {
	repo     *MockRepo
	orders   *MockOrderFinder
	notifier *MockNotifier
}

func NewMock(t *testing.T) (*Service, mocks) {
	ctrl := gomock.NewController(t)
	m := mocks{
		repo:     NewMockRepo(ctrl),
		orders:   NewMockOrderFinder(ctrl),
		notifier: NewMockNotifier(ctrl),
	}
	return New(m.repo, m.orders, m.notifier, keylock.New(), 3), m
}

var worker = domain.Actor{UserID: 7, Role: domain.RoleWorker}

func TestClaim(t *testing.T) {
	paid := &domain.Order{ID: 1, BuyerID: 2, Status: domain.StatusPaid}

	tests := []struct {
		name        string
		actor       domain.Actor
		prepareMock func(m mocks)
		wantErr     error
		anyErr      bool
	}{
		{
			name:  "Free slot",
			actor: worker,
			prepareMock: func(m mocks) {
				m.orders.EXPECT().FindByID(gomock.Any(), 1).Return(paid, nil)
				m.repo.EXPECT().Find(gomock.Any(), 1, 7).Return(nil, nil)
				m.repo.EXPECT().Add(gomock.Any(), gomock.Any(), 3).Return(true, nil)
				m.notifier.EXPECT().Notify(gomock.Any(), gomock.Cond(func(n domain.Notification) bool {
					return n.Kind == domain.NotifyWorkerJoined && n.RecipientID == 2 && n.WorkerID == 7
				})).Return(nil)
			},
		},
		{
			name:  "Notification failure does not fail the claim",
			actor: worker,
			prepareMock: func(m mocks) {
				m.orders.EXPECT().FindByID(gomock.Any(), 1).Return(paid, nil)
				m.repo.EXPECT().Find(gomock.Any(), 1, 7).Return(nil, nil)
				m.repo.EXPECT().Add(gomock.Any(), gomock.Any(), 3).Return(true, nil)
				m.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Return(errors.New("broker down"))
			},
		},
		{
			name:        "Buyer cannot claim",
			actor:       domain.Actor{UserID: 2, Role: domain.RoleBuyer},
			prepareMock: func(m mocks) {},
			wantErr:     apperr.ErrUnauthorized,
		},
		{
			name:  "Unknown order",
			actor: worker,
			prepareMock: func(m mocks) {
				m.orders.EXPECT().FindByID(gomock.Any(), 1).Return(nil, nil)
			},
			wantErr: apperr.ErrNotFound,
		},
		{
			name:  "Order not paid yet",
			actor: worker,
			prepareMock: func(m mocks) {
				m.orders.EXPECT().FindByID(gomock.Any(), 1).Return(&domain.Order{ID: 1, Status: domain.StatusPendingVerification}, nil)
			},
			wantErr: apperr.ErrInvalidState,
		},
		{
			name:  "Order already done",
			actor: worker,
			prepareMock: func(m mocks) {
				m.orders.EXPECT().FindByID(gomock.Any(), 1).Return(&domain.Order{ID: 1, Status: domain.StatusDone}, nil)
			},
			wantErr: apperr.ErrInvalidState,
		},
		{
			name:  "Already claimed",
			actor: worker,
			prepareMock: func(m mocks) {
				m.orders.EXPECT().FindByID(gomock.Any(), 1).Return(paid, nil)
				m.repo.EXPECT().Find(gomock.Any(), 1, 7).Return(&domain.Assignment{OrderID: 1, WorkerID: 7}, nil)
			},
			wantErr: apperr.ErrAlreadyClaimed,
		},
		{
			name:  "Slots exhausted",
			actor: worker,
			prepareMock: func(m mocks) {
				m.orders.EXPECT().FindByID(gomock.Any(), 1).Return(paid, nil)
				m.repo.EXPECT().Find(gomock.Any(), 1, 7).Return(nil, nil).Times(2)
				m.repo.EXPECT().Add(gomock.Any(), gomock.Any(), 3).Return(false, nil)
			},
			wantErr: apperr.ErrSlotsExhausted,
		},
		{
			name:  "Same pair inserted concurrently",
			actor: worker,
			prepareMock: func(m mocks) {
				m.orders.EXPECT().FindByID(gomock.Any(), 1).Return(paid, nil)
				gomock.InOrder(
					m.repo.EXPECT().Find(gomock.Any(), 1, 7).Return(nil, nil),
					m.repo.EXPECT().Add(gomock.Any(), gomock.Any(), 3).Return(false, nil),
					m.repo.EXPECT().Find(gomock.Any(), 1, 7).Return(&domain.Assignment{OrderID: 1, WorkerID: 7}, nil),
				)
			},
			wantErr: apperr.ErrAlreadyClaimed,
		},
		{
			name:  "Store error",
			actor: worker,
			prepareMock: func(m mocks) {
				m.orders.EXPECT().FindByID(gomock.Any(), 1).Return(paid, nil)
				m.repo.EXPECT().Find(gomock.Any(), 1, 7).Return(nil, nil)
				m.repo.EXPECT().Add(gomock.Any(), gomock.Any(), 3).Return(false, errors.New("database error"))
			},
			anyErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, m := NewMock(t)
			tt.prepareMock(m)

			a, err := service.Claim(context.Background(), 1, tt.actor)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, a)
			case tt.anyErr:
				assert.Error(t, err)
			default:
				require.NoError(t, err)
				assert.Equal(t, 1, a.OrderID)
				assert.Equal(t, 7, a.WorkerID)
				assert.False(t, a.JoinedAt.IsZero())
			}
		})
	}
}

func TestRelease(t *testing.T) {
	tests := []struct {
		name        string
		prepareMock func(m mocks)
		wantErr     error
	}{
		{
			name: "Assigned worker leaves",
			prepareMock: func(m mocks) {
				m.orders.EXPECT().FindByID(gomock.Any(), 1).Return(&domain.Order{ID: 1, Status: domain.StatusInProgress}, nil)
				m.repo.EXPECT().Delete(gomock.Any(), 1, 7).Return(true, nil)
			},
		},
		{
			name: "Not assigned",
			prepareMock: func(m mocks) {
				m.orders.EXPECT().FindByID(gomock.Any(), 1).Return(&domain.Order{ID: 1, Status: domain.StatusPaid}, nil)
				m.repo.EXPECT().Delete(gomock.Any(), 1, 7).Return(false, nil)
			},
			wantErr: apperr.ErrNotAssigned,
		},
		{
			name: "Completed order keeps its workers",
			prepareMock: func(m mocks) {
				m.orders.EXPECT().FindByID(gomock.Any(), 1).Return(&domain.Order{ID: 1, Status: domain.StatusDone}, nil)
			},
			wantErr: apperr.ErrInvalidState,
		},
		{
			name: "Unknown order",
			prepareMock: func(m mocks) {
				m.orders.EXPECT().FindByID(gomock.Any(), 1).Return(nil, nil)
			},
			wantErr: apperr.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, m := NewMock(t)
			tt.prepareMock(m)

			err := service.Release(context.Background(), 1, worker)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestIsAssigned(t *testing.T) {
	service, m := NewMock(t)
	m.repo.EXPECT().Find(gomock.Any(), 1, 7).Return(&domain.Assignment{OrderID: 1, WorkerID: 7}, nil)
	m.repo.EXPECT().Find(gomock.Any(), 1, 8).Return(nil, nil)

	ok, err := service.IsAssigned(context.Background(), 1, 7)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = service.IsAssigned(context.Background(), 1, 8)
	require.NoError(t, err)
	assert.False(t, ok)
}
