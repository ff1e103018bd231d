package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shaiso/Cadence/internal/domain"
)

// CampaignRepo — репозиторий для работы с campaigns.
type CampaignRepo struct {
	pool *pgxpool.Pool
}

// NewCampaignRepo создаёт новый CampaignRepo.
func NewCampaignRepo(pool *pgxpool.Pool) *CampaignRepo {
	return &CampaignRepo{pool: pool}
}

const campaignColumns = `
	id, workspace_id, name, account_id, status, auto_execute,
	settings, templates, created_at, updated_at
`

// Create создаёт новую кампанию.
func (r *CampaignRepo) Create(ctx context.Context, c *domain.Campaign) error {
	settingsJSON, err := json.Marshal(c.Settings)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	templatesJSON, err := json.Marshal(c.Templates)
	if err != nil {
		return fmt.Errorf("marshal templates: %w", err)
	}

	query := `
		INSERT INTO campaigns (id, workspace_id, name, account_id, status, auto_execute,
		                       settings, templates, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err = r.pool.Exec(ctx, query,
		c.ID,
		c.WorkspaceID,
		c.Name,
		c.AccountID,
		c.Status,
		c.AutoExecute,
		settingsJSON,
		templatesJSON,
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert campaign: %w", err)
	}
	return nil
}

// GetByID возвращает кампанию по ID.
func (r *CampaignRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE id = $1`
	return r.scanCampaign(r.pool.QueryRow(ctx, query, id))
}

// ListExecutable возвращает кампании, подлежащие автоматической обработке:
// active/scheduled с auto_execute=true. Порядок — по created_at, чтобы
// старые кампании не голодали.
func (r *CampaignRepo) ListExecutable(ctx context.Context) ([]domain.Campaign, error) {
	query := `
		SELECT ` + campaignColumns + `
		FROM campaigns
		WHERE status IN ('active', 'scheduled') AND auto_execute = true
		ORDER BY created_at ASC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list executable campaigns: %w", err)
	}
	defer rows.Close()

	var campaigns []domain.Campaign
	for rows.Next() {
		c, err := r.scanCampaignFromRows(rows)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, *c)
	}
	return campaigns, rows.Err()
}

// List возвращает кампании workspace.
func (r *CampaignRepo) List(ctx context.Context, workspaceID *uuid.UUID, limit, offset int) ([]domain.Campaign, error) {
	query := `
		SELECT ` + campaignColumns + `
		FROM campaigns
		WHERE ($1::uuid IS NULL OR workspace_id = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query, nullUUID(workspaceID), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	defer rows.Close()

	var campaigns []domain.Campaign
	for rows.Next() {
		c, err := r.scanCampaignFromRows(rows)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, *c)
	}
	return campaigns, rows.Err()
}

// UpdateStatus обновляет статус кампании.
func (r *CampaignRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.CampaignStatus) error {
	query := `UPDATE campaigns SET status = $2, updated_at = now() WHERE id = $1`
	result, err := r.pool.Exec(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("update campaign status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// scanCampaign сканирует одну строку в Campaign.
func (r *CampaignRepo) scanCampaign(row pgx.Row) (*domain.Campaign, error) {
	var c domain.Campaign
	var settingsJSON, templatesJSON []byte

	err := row.Scan(
		&c.ID,
		&c.WorkspaceID,
		&c.Name,
		&c.AccountID,
		&c.Status,
		&c.AutoExecute,
		&settingsJSON,
		&templatesJSON,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan campaign: %w", err)
	}

	if err := unmarshalCampaignJSON(&c, settingsJSON, templatesJSON); err != nil {
		return nil, err
	}
	return &c, nil
}

// scanCampaignFromRows сканирует строку из rows в Campaign.
func (r *CampaignRepo) scanCampaignFromRows(rows pgx.Rows) (*domain.Campaign, error) {
	var c domain.Campaign
	var settingsJSON, templatesJSON []byte

	err := rows.Scan(
		&c.ID,
		&c.WorkspaceID,
		&c.Name,
		&c.AccountID,
		&c.Status,
		&c.AutoExecute,
		&settingsJSON,
		&templatesJSON,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scan campaign: %w", err)
	}

	if err := unmarshalCampaignJSON(&c, settingsJSON, templatesJSON); err != nil {
		return nil, err
	}
	return &c, nil
}

func unmarshalCampaignJSON(c *domain.Campaign, settingsJSON, templatesJSON []byte) error {
	if settingsJSON != nil {
		if err := json.Unmarshal(settingsJSON, &c.Settings); err != nil {
			return fmt.Errorf("unmarshal settings: %w", err)
		}
	}
	if templatesJSON != nil {
		if err := json.Unmarshal(templatesJSON, &c.Templates); err != nil {
			return fmt.Errorf("unmarshal templates: %w", err)
		}
	}
	return nil
}

// nullString возвращает nil для пустой строки (для NULL в БД).
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// nullUUID возвращает nil для пустого UUID.
func nullUUID(id *uuid.UUID) *uuid.UUID {
	if id == nil || *id == uuid.Nil {
		return nil
	}
	return id
}
