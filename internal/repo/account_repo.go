package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shaiso/Cadence/internal/domain"
)

// AccountRepo — репозиторий для работы с workspace_accounts.
type AccountRepo struct {
	pool *pgxpool.Pool
}

// NewAccountRepo создаёт новый AccountRepo.
func NewAccountRepo(pool *pgxpool.Pool) *AccountRepo {
	return &AccountRepo{pool: pool}
}

// GetByID возвращает аккаунт по идентификатору провайдера.
func (r *AccountRepo) GetByID(ctx context.Context, id string) (*domain.WorkspaceAccount, error) {
	query := `
		SELECT id, workspace_id, name, daily_limit, created_at
		FROM workspace_accounts
		WHERE id = $1
	`
	var a domain.WorkspaceAccount
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&a.ID,
		&a.WorkspaceID,
		&a.Name,
		&a.DailyLimit,
		&a.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan account: %w", err)
	}
	return &a, nil
}

// List возвращает все аккаунты workspace.
func (r *AccountRepo) List(ctx context.Context) ([]domain.WorkspaceAccount, error) {
	query := `
		SELECT id, workspace_id, name, daily_limit, created_at
		FROM workspace_accounts
		ORDER BY created_at ASC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []domain.WorkspaceAccount
	for rows.Next() {
		var a domain.WorkspaceAccount
		if err := rows.Scan(&a.ID, &a.WorkspaceID, &a.Name, &a.DailyLimit, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}
