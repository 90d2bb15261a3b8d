package sqlite

import (
	"context"

	"github.com/aussiebroadwan/kyros/internal/platform/domain"
	"github.com/aussiebroadwan/kyros/internal/platform/store/drivers/sqlite/gen"
)

type dashboardsRepo struct{ q *gen.Queries }

func (r *dashboardsRepo) ListTenantDashboards(ctx context.Context, tenantID string) ([]domain.Dashboard, error) {
	rows, err := r.q.ListTenantDashboards(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Dashboard, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapDashboard(row))
	}
	return out, nil
}
