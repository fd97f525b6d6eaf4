package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/abdularham/clinic-api/internal/model"
	"github.com/abdularham/clinic-api/internal/repository"
)

func (r *adminRepository) Create(ctx context.Context, admin *model.Admin) error {
	// ON CONFLICT closes the check-then-insert race: a concurrent create
	// with the same email resolves to ErrDuplicateEmail instead of a
	// second row or a driver error.
	query := `
		INSERT INTO admins (email, name, password, created_by)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO NOTHING
		RETURNING id
	`
	err := r.db.QueryRowxContext(ctx, query,
		admin.Email,
		admin.Name,
		admin.PasswordHash,
		admin.CreatedBy,
	).Scan(&admin.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrDuplicateEmail
	}
	if err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}
	return nil
}

func (r *adminRepository) Get(ctx context.Context, id int64) (*model.Admin, error) {
	query := `SELECT id, email, name, password, created_by FROM admins WHERE id = $1`

	var admin model.Admin
	err := r.db.GetContext(ctx, &admin, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}
	return &admin, nil
}

func (r *adminRepository) GetByEmail(ctx context.Context, email string) (*model.Admin, error) {
	query := `SELECT id, email, name, password, created_by FROM admins WHERE email = $1`

	var admin model.Admin
	err := r.db.GetContext(ctx, &admin, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get admin by email: %w", err)
	}
	return &admin, nil
}

func (r *adminRepository) List(ctx context.Context) ([]*model.Admin, error) {
	query := `SELECT id, email, name, password, created_by FROM admins ORDER BY id`

	var admins []*model.Admin
	if err := r.db.SelectContext(ctx, &admins, query); err != nil {
		return nil, fmt.Errorf("failed to list admins: %w", err)
	}
	return admins, nil
}
