package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/academy-schedule-api/internal/models"
)

// AcademyMemberRepository resolves a user's roles inside an academy.
type AcademyMemberRepository struct {
	db *sqlx.DB
}

// NewAcademyMemberRepository builds the repository.
func NewAcademyMemberRepository(db *sqlx.DB) *AcademyMemberRepository {
	return &AcademyMemberRepository{db: db}
}

// Roles lists the roles userID holds in academyID; empty when not a member.
func (r *AcademyMemberRepository) Roles(ctx context.Context, academyID, userID string) ([]models.AcademyRole, error) {
	const query = `SELECT role FROM academy_members WHERE academy_id = $1 AND user_id = $2 ORDER BY role`
	var roles []models.AcademyRole
	if err := r.db.SelectContext(ctx, &roles, query, academyID, userID); err != nil {
		return nil, fmt.Errorf("list academy roles: %w", err)
	}
	return roles, nil
}
