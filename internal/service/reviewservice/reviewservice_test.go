package reviewservice

import (
	"context"
	"errors"
	"testing"

	"github.com/GlebRadaev/fulfillment/internal/apperr"
	"github.com/GlebRadaev/fulfillment/internal/domain"
	"github.com/GlebRadaev/fulfillment/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"
)

type mocks struct {
	repo        *MockRepo
	orders      *MockOrderFinder
	assignments *MockAssignments
	sessions    *MockSessions
	notifier    *MockNotifier
}

func NewMock(t *testing.T) (*Service, mocks) {
	ctrl := gomock.NewController(t)
	m := mocks{
		repo:        NewMockRepo(ctrl),
		orders:      NewMockOrderFinder(ctrl),
		assignments: NewMockAssignments(ctrl),
		sessions:    NewMockSessions(ctrl),
		notifier:    NewMockNotifier(ctrl),
	}
	return New(m.repo, m.orders, m.assignments, m.sessions, m.notifier), m
}

var (
	doneOrder = &domain.Order{ID: 1, BuyerID: 2, Status: domain.StatusDone}
	twoWorker = []domain.Assignment{{OrderID: 1, WorkerID: 7}, {OrderID: 1, WorkerID: 8}}
)

func TestOpen(t *testing.T) {
	t.Run("Prompts for the first worker", func(t *testing.T) {
		service, m := NewMock(t)
		m.assignments.EXPECT().ListByOrder(gomock.Any(), 1).Return(twoWorker, nil)
		m.repo.EXPECT().ListByOrder(gomock.Any(), 1).Return(nil, nil)
		m.sessions.EXPECT().Get(gomock.Any(), 2).Return(session.Idle, nil)
		m.sessions.EXPECT().Set(gomock.Any(), 2, session.State{Kind: session.KindAwaitingReview, OrderID: 1, WorkerID: 7}).Return(nil)
		m.notifier.EXPECT().Notify(gomock.Any(), gomock.Cond(func(n domain.Notification) bool {
			return n.Kind == domain.NotifyReviewRequested && n.RecipientID == 2 && n.WorkerID == 7
		})).Return(nil)

		require.NoError(t, service.Open(context.Background(), doneOrder))
	})

	t.Run("Question already open", func(t *testing.T) {
		service, m := NewMock(t)
		m.assignments.EXPECT().ListByOrder(gomock.Any(), 1).Return(twoWorker, nil)
		m.repo.EXPECT().ListByOrder(gomock.Any(), 1).Return(nil, nil)
		m.sessions.EXPECT().Get(gomock.Any(), 2).Return(session.State{Kind: session.KindAwaitingReview, OrderID: 1, WorkerID: 7}, nil)

		require.NoError(t, service.Open(context.Background(), doneOrder))
	})

	t.Run("Session unreadable", func(t *testing.T) {
		service, m := NewMock(t)
		m.assignments.EXPECT().ListByOrder(gomock.Any(), 1).Return(twoWorker, nil)
		m.repo.EXPECT().ListByOrder(gomock.Any(), 1).Return([]domain.Review{{WorkerID: 7}}, nil)
		m.sessions.EXPECT().Get(gomock.Any(), 2).Return(session.State{}, errors.New("redis down"))
		m.sessions.EXPECT().Set(gomock.Any(), 2, session.State{Kind: session.KindAwaitingReview, OrderID: 1, WorkerID: 8}).Return(nil)
		m.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Return(nil)

		require.NoError(t, service.Open(context.Background(), doneOrder))
	})

	t.Run("Nothing to review", func(t *testing.T) {
		service, m := NewMock(t)
		m.assignments.EXPECT().ListByOrder(gomock.Any(), 1).Return(nil, nil)
		m.repo.EXPECT().ListByOrder(gomock.Any(), 1).Return(nil, nil)

		require.NoError(t, service.Open(context.Background(), doneOrder))
	})
}

func TestRecordReview(t *testing.T) {
	tests := []struct {
		name        string
		buyerID     int
		workerID    int
		rating      int
		prepareMock func(m mocks)
		wantErr     error
	}{
		{
			name:     "First review prompts the next worker",
			buyerID:  2,
			workerID: 7,
			rating:   5,
			prepareMock: func(m mocks) {
				m.orders.EXPECT().FindByID(gomock.Any(), 1).Return(doneOrder, nil)
				m.assignments.EXPECT().ListByOrder(gomock.Any(), 1).Return(twoWorker, nil).Times(2)
				m.repo.EXPECT().Find(gomock.Any(), 1, 7).Return(nil, nil)
				m.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
				m.repo.EXPECT().ListByOrder(gomock.Any(), 1).Return([]domain.Review{{OrderID: 1, WorkerID: 7}}, nil)
				m.sessions.EXPECT().Set(gomock.Any(), 2, session.State{Kind: session.KindAwaitingReview, OrderID: 1, WorkerID: 8}).Return(nil)
				m.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name:     "Last review closes the session",
			buyerID:  2,
			workerID: 8,
			rating:   4,
			prepareMock: func(m mocks) {
				m.orders.EXPECT().FindByID(gomock.Any(), 1).Return(doneOrder, nil)
				m.assignments.EXPECT().ListByOrder(gomock.Any(), 1).Return(twoWorker, nil).Times(2)
				m.repo.EXPECT().Find(gomock.Any(), 1, 8).Return(nil, nil)
				m.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
				m.repo.EXPECT().ListByOrder(gomock.Any(), 1).Return([]domain.Review{{WorkerID: 7}, {WorkerID: 8}}, nil)
				m.sessions.EXPECT().Clear(gomock.Any(), 2).Return(nil)
				m.notifier.EXPECT().Notify(gomock.Any(), gomock.Cond(func(n domain.Notification) bool {
					return n.Kind == domain.NotifyReviewsClosed
				})).Return(nil)
			},
		},
		{
			name:     "Order not done",
			buyerID:  2,
			workerID: 7,
			rating:   5,
			prepareMock: func(m mocks) {
				m.orders.EXPECT().FindByID(gomock.Any(), 1).Return(&domain.Order{ID: 1, BuyerID: 2, Status: domain.StatusDelivering}, nil)
			},
			wantErr: apperr.ErrInvalidState,
		},
		{
			name:     "Someone else's order",
			buyerID:  3,
			workerID: 7,
			rating:   5,
			prepareMock: func(m mocks) {
				m.orders.EXPECT().FindByID(gomock.Any(), 1).Return(doneOrder, nil)
			},
			wantErr: apperr.ErrUnauthorized,
		},
		{
			name:     "Worker was not on the order",
			buyerID:  2,
			workerID: 9,
			rating:   5,
			prepareMock: func(m mocks) {
				m.orders.EXPECT().FindByID(gomock.Any(), 1).Return(doneOrder, nil)
				m.assignments.EXPECT().ListByOrder(gomock.Any(), 1).Return(twoWorker, nil)
			},
			wantErr: apperr.ErrNotAssigned,
		},
		{
			name:     "Rating out of range",
			buyerID:  2,
			workerID: 7,
			rating:   6,
			prepareMock: func(m mocks) {
				m.orders.EXPECT().FindByID(gomock.Any(), 1).Return(doneOrder, nil)
				m.assignments.EXPECT().ListByOrder(gomock.Any(), 1).Return(twoWorker, nil)
			},
			wantErr: apperr.ErrInvalidArgument,
		},
		{
			name:     "Already reviewed",
			buyerID:  2,
			workerID: 7,
			rating:   3,
			prepareMock: func(m mocks) {
				m.orders.EXPECT().FindByID(gomock.Any(), 1).Return(doneOrder, nil)
				m.assignments.EXPECT().ListByOrder(gomock.Any(), 1).Return(twoWorker, nil)
				m.repo.EXPECT().Find(gomock.Any(), 1, 7).Return(&domain.Review{OrderID: 1, WorkerID: 7}, nil)
			},
			wantErr: apperr.ErrAlreadyReviewed,
		},
		{
			name:     "Store reports duplicate",
			buyerID:  2,
			workerID: 7,
			rating:   3,
			prepareMock: func(m mocks) {
				m.orders.EXPECT().FindByID(gomock.Any(), 1).Return(doneOrder, nil)
				m.assignments.EXPECT().ListByOrder(gomock.Any(), 1).Return(twoWorker, nil)
				m.repo.EXPECT().Find(gomock.Any(), 1, 7).Return(nil, nil)
				m.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(apperr.ErrAlreadyReviewed)
			},
			wantErr: apperr.ErrAlreadyReviewed,
		},
		{
			name:     "Unknown order",
			buyerID:  2,
			workerID: 7,
			rating:   3,
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

			review, err := service.RecordReview(context.Background(), 1, tt.buyerID, tt.workerID, tt.rating, " thanks ")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, review)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.rating, review.Rating)
			assert.Equal(t, "thanks", review.Text)
		})
	}
}

func TestNext(t *testing.T) {
	t.Run("Returns the first unrated worker", func(t *testing.T) {
		service, m := NewMock(t)
		m.orders.EXPECT().FindByID(gomock.Any(), 1).Return(doneOrder, nil)
		m.assignments.EXPECT().ListByOrder(gomock.Any(), 1).Return(twoWorker, nil)
		m.repo.EXPECT().ListByOrder(gomock.Any(), 1).Return([]domain.Review{{WorkerID: 7}}, nil)

		next, err := service.Next(context.Background(), 1, domain.Actor{UserID: 2, Role: domain.RoleBuyer})
		require.NoError(t, err)
		require.NotNil(t, next)
		assert.Equal(t, 8, next.WorkerID)
	})

	t.Run("Other buyer", func(t *testing.T) {
		service, m := NewMock(t)
		m.orders.EXPECT().FindByID(gomock.Any(), 1).Return(doneOrder, nil)

		_, err := service.Next(context.Background(), 1, domain.Actor{UserID: 3, Role: domain.RoleBuyer})
		assert.ErrorIs(t, err, apperr.ErrUnauthorized)
	})

	t.Run("Store error", func(t *testing.T) {
		service, m := NewMock(t)
		m.orders.EXPECT().FindByID(gomock.Any(), 1).Return(doneOrder, nil)
		m.assignments.EXPECT().ListByOrder(gomock.Any(), 1).Return(nil, errors.New("database error"))

		_, err := service.Next(context.Background(), 1, domain.Actor{UserID: 2, Role: domain.RoleBuyer})
		assert.Error(t, err)
	})
}

func TestProductReviews(t *testing.T) {
	t.Run("Returns reviews of the product", func(t *testing.T) {
		service, m := NewMock(t)
		m.repo.EXPECT().ListByProduct(gomock.Any(), 4, 20).Return([]domain.Review{{ID: 3, OrderID: 1, Rating: 5}}, nil)

		reviews, err := service.ProductReviews(context.Background(), 4)
		require.NoError(t, err)
		require.Len(t, reviews, 1)
		assert.Equal(t, 3, reviews[0].ID)
	})

	t.Run("Store error", func(t *testing.T) {
		service, m := NewMock(t)
		m.repo.EXPECT().ListByProduct(gomock.Any(), 4, 20).Return(nil, errors.New("database error"))

		_, err := service.ProductReviews(context.Background(), 4)
		assert.Error(t, err)
	})
}

func TestLatestReviews(t *testing.T) {
	service, m := NewMock(t)
	m.repo.EXPECT().ListRecent(gomock.Any(), 30).Return([]domain.Review{{ID: 9}, {ID: 8}}, nil)

	reviews, err := service.LatestReviews(context.Background())
	require.NoError(t, err)
	assert.Len(t, reviews, 2)
}
