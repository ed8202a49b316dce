package statsrepo

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/GlebRadaev/fulfillment/internal/domain"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_Collect(t *testing.T) {
	revenue := decimal.RequireFromString("1250.50")
	query := regexp.QuoteMeta(`(SELECT COUNT(*) FROM users)`)

	tests := []struct {
		name      string
		mockSetup func(mock pgxmock.PgxPoolIface)
		expectErr bool
		result    *domain.Stats
	}{
		{
			name: "Stats collected",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(query).WillReturnRows(
					pgxmock.NewRows([]string{"users", "products", "orders", "paid", "done", "revenue"}).
						AddRow(10, 3, 7, 2, 3, revenue),
				)
			},
			result: &domain.Stats{Users: 10, Products: 3, Orders: 7, Paid: 2, Done: 3, Revenue: revenue},
		},
		{
			name: "Database error",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(query).WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockDB, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mockDB.Close()
			tt.mockSetup(mockDB)

			result, err := New(mockDB).Collect(context.Background())
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.result, result)
		})
	}
}
