package service

import (
	"context"
	"fmt"

	"github.com/aussiebroadwan/aupwu/internal/union/domain"
	"github.com/aussiebroadwan/aupwu/internal/union/store"
)

// ReportService builds read-only summaries over users, members and
// committees.
type ReportService struct {
	Store store.Store
}

// reportRoles is the display order of the per-role user counts.
var reportRoles = []domain.Role{domain.RoleAdmin, domain.RoleOfficer, domain.RoleMember}

// Demographics reads every count inside one transaction so the figures agree
// with each other.
func (s *ReportService) Demographics(ctx context.Context) (domain.Demographics, error) {
	var d domain.Demographics
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		byRole, err := tx.Users().CountUsersByRole(ctx)
		if err != nil {
			return fmt.Errorf("count users by role: %w", err)
		}
		for _, role := range reportRoles {
			d.Roles = append(d.Roles, domain.RoleCount{Role: role, Count: byRole[role]})
		}

		if d.Members, err = tx.Members().MemberStats(ctx); err != nil {
			return fmt.Errorf("member stats: %w", err)
		}
		if d.Committees, err = tx.Committees().CountCommittees(ctx); err != nil {
			return fmt.Errorf("count committees: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.Demographics{}, err
	}
	return d, nil
}
