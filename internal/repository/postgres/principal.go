package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/abdularham/clinic-api/internal/model"
	"github.com/abdularham/clinic-api/internal/repository"
)

func (r *principalRepository) Create(ctx context.Context, p *model.Principal) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (email, name, password, created_by, deleted)
		VALUES ($1, $2, $3, $4, FALSE)
		ON CONFLICT (email) DO NOTHING
		RETURNING id
	`, r.table)

	err := r.db.QueryRowxContext(ctx, query,
		p.Email,
		p.Name,
		p.PasswordHash,
		p.CreatedBy,
	).Scan(&p.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrDuplicateEmail
	}
	if err != nil {
		return fmt.Errorf("failed to create %s row: %w", r.table, err)
	}
	return nil
}

func (r *principalRepository) Get(ctx context.Context, id int64) (*model.Principal, error) {
	query := fmt.Sprintf(`SELECT id, email, name, password, created_by, deleted FROM %s WHERE id = $1`, r.table)

	var p model.Principal
	err := r.db.GetContext(ctx, &p, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s row: %w", r.table, err)
	}
	return &p, nil
}

func (r *principalRepository) GetByEmail(ctx context.Context, email string) (*model.Principal, error) {
	query := fmt.Sprintf(`SELECT id, email, name, password, created_by, deleted FROM %s WHERE email = $1`, r.table)

	var p model.Principal
	err := r.db.GetContext(ctx, &p, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s row by email: %w", r.table, err)
	}
	return &p, nil
}

func (r *principalRepository) List(ctx context.Context) ([]*model.Principal, error) {
	query := fmt.Sprintf(`SELECT id, email, name, password, created_by, deleted FROM %s ORDER BY id`, r.table)

	var rows []*model.Principal
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", r.table, err)
	}
	return rows, nil
}

func (r *principalRepository) MarkDeleted(ctx context.Context, id int64) error {
	return r.setDeleted(ctx, id, true)
}

func (r *principalRepository) Reactivate(ctx context.Context, id int64) error {
	return r.setDeleted(ctx, id, false)
}

func (r *principalRepository) setDeleted(ctx context.Context, id int64, deleted bool) error {
	query := fmt.Sprintf(`UPDATE %s SET deleted = $1 WHERE id = $2`, r.table)

	result, err := r.db.ExecContext(ctx, query, deleted, id)
	if err != nil {
		return fmt.Errorf("failed to update %s deletion flag: %w", r.table, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}
