// Package payment asks the external payment service what happened to a payment.
package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/GlebRadaev/fulfillment/internal/apperr"
	"github.com/GlebRadaev/fulfillment/internal/domain"
	"github.com/GlebRadaev/fulfillment/pkg/clients"
	"go.uber.org/zap"
)

type Response struct {
	Status string `json:"status"`
}

type Oracle struct {
	url    string
	client clients.HTTPClientI
}

func New(address string, client clients.HTTPClientI) *Oracle {
	return &Oracle{
		url:    strings.TrimRight(address, "/"),
		client: client,
	}
}

// StatusOf never fails with anything but PaymentUnknown: transport errors, unexpected codes and
// malformed bodies come back as unknown together with ErrOracleUnavailable.
func (o *Oracle) StatusOf(ctx context.Context, ref string) (domain.PaymentStatus, error) {
	statusCode, respBody, _, err := o.client.Get(ctx, o.url+"/api/payment/"+url.PathEscape(ref)+"/status", nil)
	if err != nil {
		return domain.PaymentUnknown, fmt.Errorf("poll payment %s: %w: %w", ref, apperr.ErrOracleUnavailable, err)
	}

	switch statusCode {
	case http.StatusOK:
	case http.StatusNoContent, http.StatusNotFound:
		return domain.PaymentUnknown, nil
	default:
		zap.L().Warn("Unexpected status code from payment oracle", zap.Int("status", statusCode), zap.String("ref", ref))
		return domain.PaymentUnknown, fmt.Errorf("poll payment %s: status code %d: %w", ref, statusCode, apperr.ErrOracleUnavailable)
	}

	var response Response
	if err := json.Unmarshal(respBody, &response); err != nil {
		return domain.PaymentUnknown, fmt.Errorf("poll payment %s: parse response: %w: %w", ref, apperr.ErrOracleUnavailable, err)
	}
	return domain.ParsePaymentStatus(strings.ToLower(response.Status)), nil
}
