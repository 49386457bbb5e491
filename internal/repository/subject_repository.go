package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/academy-schedule-api/internal/models"
)

// SubjectRepository reads subjects for naming courses.
type SubjectRepository struct {
	db *sqlx.DB
}

// NewSubjectRepository builds the repository.
func NewSubjectRepository(db *sqlx.DB) *SubjectRepository {
	return &SubjectRepository{db: db}
}

// FindByID loads a subject of an academy. Returns sql.ErrNoRows when absent.
func (r *SubjectRepository) FindByID(ctx context.Context, academyID, id string) (*models.Subject, error) {
	const query = `SELECT id, academy_id, name FROM subjects WHERE academy_id = $1 AND id = $2`
	var subject models.Subject
	if err := r.db.GetContext(ctx, &subject, query, academyID, id); err != nil {
		return nil, err
	}
	return &subject, nil
}
