package sqlite

import (
	"context"

	"github.com/aussiebroadwan/kyros/internal/platform/domain"
	"github.com/aussiebroadwan/kyros/internal/platform/store/drivers/sqlite/gen"
)

type tenantsRepo struct{ q *gen.Queries }

func (r *tenantsRepo) GetTenantByID(ctx context.Context, id string) (domain.Tenant, error) {
	row, err := r.q.GetTenantByID(ctx, id)
	if err != nil {
		return domain.Tenant{}, mapNotFound(err)
	}
	return mapTenant(row), nil
}

func (r *tenantsRepo) CreateTenant(ctx context.Context, t domain.Tenant) error {
	err := r.q.CreateTenant(ctx, gen.CreateTenantParams{
		ID:         t.ID,
		Name:       t.Name,
		Slug:       t.Slug,
		IsActive:   t.IsActive,
		ConfigJson: configString(t.Config),
	})
	if err != nil {
		return mapConstraint(err)
	}
	return nil
}

func (r *tenantsRepo) CountTenants(ctx context.Context) (int64, error) {
	return r.q.CountTenants(ctx)
}
