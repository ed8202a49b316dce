package payoutrepo

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/GlebRadaev/fulfillment/internal/domain"
	"github.com/GlebRadaev/fulfillment/internal/pg"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface, *pg.MockTXManager) {
	ctrl := gomock.NewController(t)
	mockTxManager := pg.NewMockTXManager(ctrl)

	mockDB, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockDB.Close)

	return New(mockDB, mockTxManager), mockDB, mockTxManager
}

func TestRepository_FindByOrder(t *testing.T) {
	now := time.Now()
	amount := decimal.NewFromInt(105)
	query := regexp.QuoteMeta(`SELECT id, order_id, worker_id, amount, created_at FROM payouts WHERE order_id = $1 ORDER BY worker_id ASC`)

	tests := []struct {
		name      string
		mockSetup func(mock pgxmock.PgxPoolIface)
		expectErr bool
		result    []domain.Payout
	}{
		{
			name: "Payouts exist",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(query).WithArgs(1).WillReturnRows(
					pgxmock.NewRows([]string{"id", "order_id", "worker_id", "amount", "created_at"}).
						AddRow(1, 1, 2, amount, now).
						AddRow(2, 1, 3, amount, now),
				)
			},
			result: []domain.Payout{
				{ID: 1, OrderID: 1, WorkerID: 2, Amount: amount, CreatedAt: now},
				{ID: 2, OrderID: 1, WorkerID: 3, Amount: amount, CreatedAt: now},
			},
		},
		{
			name: "No payouts",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(query).WithArgs(1).
					WillReturnRows(pgxmock.NewRows([]string{"id", "order_id", "worker_id", "amount", "created_at"}))
			},
		},
		{
			name: "Database error",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(query).WithArgs(1).WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, _ := NewMock(t)
			tt.mockSetup(mock)

			result, err := repo.FindByOrder(context.Background(), 1)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.result, result)
		})
	}
}

func TestRepository_CreateBatch(t *testing.T) {
	now := time.Now()
	amount := decimal.NewFromInt(105)
	query := regexp.QuoteMeta(`INSERT INTO payouts (order_id, worker_id, amount, created_at) VALUES ($1, $2, $3, $4) ON CONFLICT (order_id, worker_id) DO NOTHING`)
	payouts := []domain.Payout{
		{OrderID: 1, WorkerID: 2, Amount: amount, CreatedAt: now},
		{OrderID: 1, WorkerID: 3, Amount: amount, CreatedAt: now},
	}

	tests := []struct {
		name      string
		mockSetup func(mock pgxmock.PgxPoolIface)
		expectErr bool
	}{
		{
			name: "All rows inserted",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(query).WithArgs(1, 2, amount, now).WillReturnResult(pgxmock.NewResult("INSERT", 1))
				mock.ExpectExec(query).WithArgs(1, 3, amount, now).WillReturnResult(pgxmock.NewResult("INSERT", 1))
			},
		},
		{
			name: "Second insert fails",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(query).WithArgs(1, 2, amount, now).WillReturnResult(pgxmock.NewResult("INSERT", 1))
				mock.ExpectExec(query).WithArgs(1, 3, amount, now).WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, tx := NewMock(t)
			tx.EXPECT().Begin(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, fn pg.TransactionalFn) error {
				tt.mockSetup(mock)
				return fn(ctx)
			})

			err := repo.CreateBatch(context.Background(), payouts)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
