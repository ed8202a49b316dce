// Package common holds what every handler needs: the caller, path ids and error responses.
package common

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/GlebRadaev/fulfillment/internal/apperr"
	"github.com/GlebRadaev/fulfillment/internal/domain"
	"github.com/GlebRadaev/fulfillment/pkg/auth"
	"github.com/GlebRadaev/fulfillment/pkg/utils"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

var ErrBadID = errors.New("invalid id")

// Actor returns the caller stored by auth.Middleware.
func Actor(r *http.Request) domain.Actor {
	userID, role, _ := auth.FromContext(r.Context())
	return domain.Actor{UserID: userID, Role: domain.Role(role)}
}

func IDParam(r *http.Request, name string) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || id <= 0 {
		return 0, ErrBadID
	}
	return id, nil
}

// RespondWithServiceError maps a service error to its status code. Internal errors are logged
// and hidden from the client.
func RespondWithServiceError(w http.ResponseWriter, err error) {
	status := apperr.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		zap.L().Error("request failed", zap.Error(err))
		utils.RespondWithCode(w, status, apperr.Kind(err), "Internal server error")
		return
	}
	utils.RespondWithCode(w, status, apperr.Kind(err), err.Error())
}

func FormatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
