package orderrepo

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/GlebRadaev/fulfillment/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var orderCols = []string{
	"id", "buyer_id", "product_id", "price", "status", "payment_ref", "evidence_ref",
	"created_at", "started_at", "completed_at", "reconcile_attempts", "payment_checked",
}

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	mockDB, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockDB.Close)
	return New(mockDB), mockDB
}

func TestRepository_Create(t *testing.T) {
	now := time.Now()
	price := decimal.NewFromInt(300)
	query := regexp.QuoteMeta(`INSERT INTO orders (buyer_id, product_id, price, status, payment_ref, created_at) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`)

	tests := []struct {
		name      string
		mockSetup func(mock pgxmock.PgxPoolIface)
		expectErr bool
		wantID    int
	}{
		{
			name: "Order saved",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(query).
					WithArgs(1, 2, price, domain.StatusAwaitingEvidence, "ref-1", now).
					WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(10))
			},
			wantID: 10,
		},
		{
			name: "Database error",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(query).
					WithArgs(1, 2, price, domain.StatusAwaitingEvidence, "ref-1", now).
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := NewMock(t)
			tt.mockSetup(mock)

			order := &domain.Order{
				BuyerID:    1,
				ProductID:  2,
				Price:      price,
				Status:     domain.StatusAwaitingEvidence,
				PaymentRef: "ref-1",
				CreatedAt:  now,
			}
			err := repo.Create(context.Background(), order)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantID, order.ID)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_FindByID(t *testing.T) {
	now := time.Now()
	started := now.Add(time.Minute)
	price := decimal.NewFromInt(300)
	query := regexp.QuoteMeta(`FROM orders WHERE id = $1`)

	tests := []struct {
		name      string
		mockSetup func(mock pgxmock.PgxPoolIface)
		expectErr bool
		result    *domain.Order
	}{
		{
			name: "Order exists",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows(orderCols).
					AddRow(5, 1, 2, price, domain.StatusInProgress, "ref-5", "receipt", now, &started, nil, 3, true)
				mock.ExpectQuery(query).WithArgs(5).WillReturnRows(rows)
			},
			result: &domain.Order{
				ID: 5, BuyerID: 1, ProductID: 2, Price: price, Status: domain.StatusInProgress,
				PaymentRef: "ref-5", EvidenceRef: "receipt", CreatedAt: now, StartedAt: &started,
				ReconcileAttempts: 3, PaymentChecked: true,
			},
		},
		{
			name: "Order does not exist",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(query).WithArgs(5).WillReturnError(pgx.ErrNoRows)
			},
		},
		{
			name: "Database error",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(query).WithArgs(5).WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := NewMock(t)
			tt.mockSetup(mock)

			result, err := repo.FindByID(context.Background(), 5)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.result, result)
		})
	}
}

func TestRepository_FindByBuyer(t *testing.T) {
	now := time.Now()
	price := decimal.NewFromInt(100)
	query := regexp.QuoteMeta(`FROM orders WHERE buyer_id = $1 ORDER BY created_at DESC LIMIT 50`)

	tests := []struct {
		name      string
		mockSetup func(mock pgxmock.PgxPoolIface)
		expectErr bool
		result    []domain.Order
	}{
		{
			name: "Orders found",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows(orderCols).
					AddRow(1, 7, 2, price, domain.StatusPaid, "ref-1", "", now, nil, nil, 0, true).
					AddRow(2, 7, 3, price, domain.StatusAwaitingEvidence, "ref-2", "", now, nil, nil, 0, false)
				mock.ExpectQuery(query).WithArgs(7).WillReturnRows(rows)
			},
			result: []domain.Order{
				{ID: 1, BuyerID: 7, ProductID: 2, Price: price, Status: domain.StatusPaid, PaymentRef: "ref-1", CreatedAt: now, PaymentChecked: true},
				{ID: 2, BuyerID: 7, ProductID: 3, Price: price, Status: domain.StatusAwaitingEvidence, PaymentRef: "ref-2", CreatedAt: now},
			},
		},
		{
			name: "Database error",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(query).WithArgs(7).WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
		{
			name: "Scan row error",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows(orderCols).
					AddRow(1, 7, 2, "invalid_value", domain.StatusPaid, "ref-1", "", now, nil, nil, 0, true)
				mock.ExpectQuery(query).WithArgs(7).WillReturnRows(rows)
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := NewMock(t)
			tt.mockSetup(mock)

			result, err := repo.FindByBuyer(context.Background(), 7)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.result, result)
			}
		})
	}
}

func TestRepository_FindAll(t *testing.T) {
	now := time.Now()
	price := decimal.NewFromInt(100)
	query := regexp.QuoteMeta(`FROM orders ORDER BY id DESC LIMIT $1`)

	tests := []struct {
		name      string
		mockSetup func(mock pgxmock.PgxPoolIface)
		expectErr bool
		result    []domain.Order
	}{
		{
			name: "Orders of all buyers",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows(orderCols).
					AddRow(9, 4, 2, price, domain.StatusDone, "ref-9", "receipt", now, nil, nil, 0, false).
					AddRow(8, 7, 2, price, domain.StatusRejected, "ref-8", "", now, nil, nil, 3, true)
				mock.ExpectQuery(query).WithArgs(100).WillReturnRows(rows)
			},
			result: []domain.Order{
				{ID: 9, BuyerID: 4, ProductID: 2, Price: price, Status: domain.StatusDone, PaymentRef: "ref-9", EvidenceRef: "receipt", CreatedAt: now},
				{ID: 8, BuyerID: 7, ProductID: 2, Price: price, Status: domain.StatusRejected, PaymentRef: "ref-8", CreatedAt: now, ReconcileAttempts: 3, PaymentChecked: true},
			},
		},
		{
			name: "Database error",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(query).WithArgs(100).WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := NewMock(t)
			tt.mockSetup(mock)

			result, err := repo.FindAll(context.Background(), 100)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.result, result)
			}
		})
	}
}

func TestRepository_FindForReconciliation(t *testing.T) {
	now := time.Now()
	price := decimal.NewFromInt(100)
	query := regexp.QuoteMeta(`WHERE status IN ('awaiting_payment_evidence', 'pending_verification') AND NOT payment_checked ORDER BY created_at ASC LIMIT $1`)

	repo, mock := NewMock(t)
	rows := pgxmock.NewRows(orderCols).
		AddRow(1, 7, 2, price, domain.StatusPendingVerification, "ref-1", "receipt", now, nil, nil, 4, false)
	mock.ExpectQuery(query).WithArgs(10).WillReturnRows(rows)

	result, err := repo.FindForReconciliation(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, 4, result[0].ReconcileAttempts)
	assert.Equal(t, domain.StatusPendingVerification, result[0].Status)
}

func TestRepository_Update(t *testing.T) {
	now := time.Now()
	query := regexp.QuoteMeta(`UPDATE orders SET status = $1, evidence_ref = $2, started_at = $3, completed_at = $4, reconcile_attempts = $5, payment_checked = $6 WHERE id = $7 AND status = $8`)
	order := &domain.Order{ID: 3, Status: domain.StatusInProgress, StartedAt: &now, PaymentChecked: true}

	tests := []struct {
		name      string
		mockSetup func(mock pgxmock.PgxPoolIface)
		expectErr bool
		updated   bool
	}{
		{
			name: "Status unchanged since read",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(query).
					WithArgs(domain.StatusInProgress, "", &now, (*time.Time)(nil), 0, true, 3, domain.StatusPaid).
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
			},
			updated: true,
		},
		{
			name: "Status changed concurrently",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(query).
					WithArgs(domain.StatusInProgress, "", &now, (*time.Time)(nil), 0, true, 3, domain.StatusPaid).
					WillReturnResult(pgxmock.NewResult("UPDATE", 0))
			},
		},
		{
			name: "Database error",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(query).
					WithArgs(domain.StatusInProgress, "", &now, (*time.Time)(nil), 0, true, 3, domain.StatusPaid).
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := NewMock(t)
			tt.mockSetup(mock)

			updated, err := repo.Update(context.Background(), order, domain.StatusPaid)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.updated, updated)
		})
	}
}
