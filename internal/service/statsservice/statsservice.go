package statsservice

import (
	"context"

	"github.com/GlebRadaev/fulfillment/internal/apperr"
	"github.com/GlebRadaev/fulfillment/internal/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Repo interface {
	Collect(ctx context.Context) (*domain.Stats, error)
}

type Service struct {
	repo Repo
}

func New(repo Repo) *Service {
	return &Service{
		repo: repo,
	}
}

// GetStats returns platform totals. The average check is revenue divided by the number of
// confirmed orders.
func (s *Service) GetStats(ctx context.Context, actor domain.Actor) (*domain.Stats, error) {
	if !actor.IsAdmin() {
		return nil, apperr.ErrUnauthorized
	}
	st, err := s.repo.Collect(ctx)
	if err != nil {
		zap.L().Error("failed to collect stats", zap.Error(err))
		return nil, err
	}
	st.AvgCheck = decimal.Zero
	if confirmed := st.Paid + st.Done; confirmed > 0 {
		st.AvgCheck = st.Revenue.Div(decimal.NewFromInt(int64(confirmed))).Round(2)
	}
	return st, nil
}
