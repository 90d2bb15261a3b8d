package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/kyros/internal/platform/domain"
	"github.com/aussiebroadwan/kyros/internal/platform/store/drivers/sqlite/gen"
)

type exchangesRepo struct{ q *gen.Queries }

func (r *exchangesRepo) RecordExchange(ctx context.Context, e domain.TokenExchange) error {
	createdAt := e.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	err := r.q.CreateTokenExchange(ctx, gen.CreateTokenExchangeParams{
		ID:               e.ID,
		UserID:           e.UserID,
		TenantID:         e.TenantID,
		Outcome:          e.Outcome,
		Role:             mapStringNull(e.Role),
		TokenFingerprint: mapStringNull(e.TokenFingerprint),
		CreatedAt:        createdAt.Unix(),
	})
	if err != nil {
		return mapConstraint(err)
	}
	return nil
}

func (r *exchangesRepo) ListExchangesByUser(ctx context.Context, userID string, limit int) ([]domain.TokenExchange, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.q.ListTokenExchangesByUser(ctx, gen.ListTokenExchangesByUserParams{
		UserID: userID,
		Limit:  int64(limit),
	})
	if err != nil {
		return nil, err
	}

	out := make([]domain.TokenExchange, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapTokenExchange(row))
	}
	return out, nil
}

func (r *exchangesRepo) DeleteExchangesBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return r.q.DeleteTokenExchangesBefore(ctx, cutoff.Unix())
}
