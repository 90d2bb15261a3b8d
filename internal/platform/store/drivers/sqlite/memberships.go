package sqlite

import (
	"context"
	"fmt"

	"github.com/aussiebroadwan/kyros/internal/platform/domain"
	"github.com/aussiebroadwan/kyros/internal/platform/store/drivers/sqlite/gen"
	"github.com/aussiebroadwan/kyros/pkg/jwtx"
)

type membershipsRepo struct{ q *gen.Queries }

func (r *membershipsRepo) RoleOf(ctx context.Context, userID, tenantID string) (jwtx.Role, error) {
	raw, err := r.q.GetUserTenantRole(ctx, gen.GetUserTenantRoleParams{
		UserID:   userID,
		TenantID: tenantID,
	})
	if err != nil {
		return "", mapNotFound(err)
	}

	// Never mint a role the codec would reject.
	role, err := jwtx.ParseRole(raw)
	if err != nil {
		return "", fmt.Errorf("stored role for %s in %s: %w", userID, tenantID, err)
	}
	return role, nil
}

func (r *membershipsRepo) ListActiveTenantIDs(ctx context.Context, userID string) ([]string, error) {
	ids, err := r.q.ListActiveTenantIDsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

func (r *membershipsRepo) ListActiveMemberships(ctx context.Context, userID string) ([]domain.TenantMembership, error) {
	rows, err := r.q.ListActiveMembershipsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]domain.TenantMembership, 0, len(rows))
	for _, row := range rows {
		role, err := jwtx.ParseRole(row.Role)
		if err != nil {
			return nil, fmt.Errorf("stored role for %s in %s: %w", userID, row.ID, err)
		}
		out = append(out, domain.TenantMembership{
			Tenant: mapTenant(gen.Tenant{
				ID:         row.ID,
				Name:       row.Name,
				Slug:       row.Slug,
				IsActive:   row.IsActive,
				ConfigJson: row.ConfigJson,
				CreatedAt:  row.CreatedAt,
			}),
			Role: role,
		})
	}
	return out, nil
}

func (r *membershipsRepo) SetRole(ctx context.Context, userID, tenantID string, role jwtx.Role) error {
	err := r.q.UpsertUserTenantRole(ctx, gen.UpsertUserTenantRoleParams{
		UserID:   userID,
		TenantID: tenantID,
		Role:     role.String(),
	})
	if err != nil {
		return mapConstraint(err)
	}
	return nil
}

func (r *membershipsRepo) RemoveMembership(ctx context.Context, userID, tenantID string) error {
	return r.q.DeleteUserTenant(ctx, gen.DeleteUserTenantParams{
		UserID:   userID,
		TenantID: tenantID,
	})
}
