package payment

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/GlebRadaev/fulfillment/internal/apperr"
	"github.com/GlebRadaev/fulfillment/internal/domain"
	"github.com/GlebRadaev/fulfillment/pkg/clients"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

const statusURL = "http://localhost:8081/api/payment/ref-1/status"

func TestOracle_StatusOf(t *testing.T) {
	tests := []struct {
		name        string
		prepareMock func(client *clients.MockHTTPClientI)
		want        domain.PaymentStatus
		wantErr     bool
	}{
		{
			name: "Paid",
			prepareMock: func(client *clients.MockHTTPClientI) {
				client.EXPECT().Get(gomock.Any(), statusURL, gomock.Nil()).Return(http.StatusOK, []byte(`{"status":"paid"}`), nil, nil)
			},
			want: domain.PaymentPaid,
		},
		{
			name: "Failed in upper case",
			prepareMock: func(client *clients.MockHTTPClientI) {
				client.EXPECT().Get(gomock.Any(), statusURL, gomock.Nil()).Return(http.StatusOK, []byte(`{"status":"FAILED"}`), nil, nil)
			},
			want: domain.PaymentFailed,
		},
		{
			name: "Pending",
			prepareMock: func(client *clients.MockHTTPClientI) {
				client.EXPECT().Get(gomock.Any(), statusURL, gomock.Nil()).Return(http.StatusOK, []byte(`{"status":"pending"}`), nil, nil)
			},
			want: domain.PaymentPending,
		},
		{
			name: "Unrecognized status",
			prepareMock: func(client *clients.MockHTTPClientI) {
				client.EXPECT().Get(gomock.Any(), statusURL, gomock.Nil()).Return(http.StatusOK, []byte(`{"status":"refunded"}`), nil, nil)
			},
			want: domain.PaymentUnknown,
		},
		{
			name: "Payment not known yet",
			prepareMock: func(client *clients.MockHTTPClientI) {
				client.EXPECT().Get(gomock.Any(), statusURL, gomock.Nil()).Return(http.StatusNotFound, nil, nil, nil)
			},
			want: domain.PaymentUnknown,
		},
		{
			name: "Network error",
			prepareMock: func(client *clients.MockHTTPClientI) {
				client.EXPECT().Get(gomock.Any(), statusURL, gomock.Nil()).Return(0, nil, nil, errors.New("connection refused"))
			},
			want:    domain.PaymentUnknown,
			wantErr: true,
		},
		{
			name: "Server error",
			prepareMock: func(client *clients.MockHTTPClientI) {
				client.EXPECT().Get(gomock.Any(), statusURL, gomock.Nil()).Return(http.StatusInternalServerError, nil, nil, nil)
			},
			want:    domain.PaymentUnknown,
			wantErr: true,
		},
		{
			name: "Malformed body",
			prepareMock: func(client *clients.MockHTTPClientI) {
				client.EXPECT().Get(gomock.Any(), statusURL, gomock.Nil()).Return(http.StatusOK, []byte(`{invalid json}`), nil, nil)
			},
			want:    domain.PaymentUnknown,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			client := clients.NewMockHTTPClientI(ctrl)
			tt.prepareMock(client)

			oracle := New("http://localhost:8081/", client)
			status, err := oracle.StatusOf(context.Background(), "ref-1")
			assert.Equal(t, tt.want, status)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperr.ErrOracleUnavailable)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestOracle_StatusOfOverHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/payment/3f2a/status", r.URL.Path)
		_, _ = w.Write([]byte(`{"status":"paid"}`))
	}))
	defer srv.Close()

	status, err := New(srv.URL, clients.NewHTTPClient()).StatusOf(context.Background(), "3f2a")
	assert.NoError(t, err)
	assert.Equal(t, domain.PaymentPaid, status)
}
