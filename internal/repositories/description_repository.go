package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"userdesk/internal/models"
)

type DescriptionRepository interface {
	Create(ctx context.Context, d *models.Description) error
	List(ctx context.Context, limit, offset int) ([]*models.Description, error)
}

type descriptionRepository struct {
	DB *sql.DB
}

func NewDescriptionRepository(db *sql.DB) DescriptionRepository {
	return &descriptionRepository{DB: db}
}

func (r *descriptionRepository) Create(ctx context.Context, d *models.Description) error {
	const q = `
		INSERT INTO descriptions (name, email, description, is_checked)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	err := r.DB.QueryRowContext(ctx, q, d.Name, d.Email, d.Description, d.IsChecked).
		Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("description create: %w", err)
	}
	return nil
}

func (r *descriptionRepository) List(ctx context.Context, limit, offset int) ([]*models.Description, error) {
	const q = `
		SELECT id, name, email, description, is_checked, created_at, updated_at
		FROM descriptions
		ORDER BY id DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.DB.QueryContext(ctx, q, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("description list: %w", err)
	}
	defer rows.Close()

	var res []*models.Description
	for rows.Next() {
		d := &models.Description{}
		if err := rows.Scan(&d.ID, &d.Name, &d.Email, &d.Description, &d.IsChecked, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("description scan: %w", err)
		}
		res = append(res, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("description list: %w", err)
	}
	return res, nil
}
