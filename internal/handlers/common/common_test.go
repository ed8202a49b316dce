package common

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/GlebRadaev/fulfillment/internal/apperr"
	"github.com/GlebRadaev/fulfillment/internal/domain"
	"github.com/GlebRadaev/fulfillment/pkg/auth"
	"github.com/GlebRadaev/fulfillment/pkg/utils"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActor(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := context.WithValue(req.Context(), auth.UserIDKey, 5)
	ctx = context.WithValue(ctx, auth.RoleKey, "worker")

	assert.Equal(t, domain.Actor{UserID: 5, Role: domain.RoleWorker}, Actor(req.WithContext(ctx)))
	assert.Equal(t, domain.Actor{}, Actor(req))
}

func TestIDParam(t *testing.T) {
	tests := []struct {
		value   string
		want    int
		wantErr bool
	}{
		{"12", 12, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.value)
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			id, err := IDParam(req, "id")
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrBadID)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.want, id)
			}
		})
	}
}

func TestRespondWithServiceError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    string
		wantMessage string
	}{
		{
			name:        "Domain error is shown",
			err:         fmt.Errorf("claim order 3: %w", apperr.ErrSlotsExhausted),
			wantStatus:  http.StatusUnprocessableEntity,
			wantCode:    "slots_exhausted",
			wantMessage: "claim order 3: no free worker slots",
		},
		{
			name:        "Internal error is hidden",
			err:         errors.New("pq: connection reset"),
			wantStatus:  http.StatusInternalServerError,
			wantCode:    "internal",
			wantMessage: "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			RespondWithServiceError(rr, tt.err)

			var resp utils.Response
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantCode, resp.Code)
			assert.Equal(t, tt.wantMessage, resp.Message)
		})
	}
}

func TestFormatTime(t *testing.T) {
	ts := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-05-01T10:00:00Z", FormatTime(&ts))
	assert.Equal(t, "", FormatTime(nil))
}

func TestReviewResponseCarriesOrder(t *testing.T) {
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	resp := ReviewResponse(&domain.Review{ID: 3, OrderID: 12, WorkerID: 7, Rating: 4, CreatedAt: created})

	assert.Equal(t, 12, resp.OrderID)
	assert.Equal(t, 7, resp.WorkerID)
	assert.Equal(t, "2024-05-01T10:00:00Z", resp.CreatedAt)
}

func TestOrderResponseOmitsUnsetTimes(t *testing.T) {
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	resp := OrderResponse(&domain.Order{ID: 10, Status: domain.StatusPaid, CreatedAt: created})

	assert.Equal(t, "paid", resp.Status)
	assert.Empty(t, resp.StartedAt)
	assert.Empty(t, resp.CompletedAt)
}
