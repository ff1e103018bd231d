package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shaiso/Cadence/internal/domain"
)

// ProspectRepo — репозиторий для работы с campaign_prospects.
type ProspectRepo struct {
	pool *pgxpool.Pool
}

// NewProspectRepo создаёт новый ProspectRepo.
func NewProspectRepo(pool *pgxpool.Pool) *ProspectRepo {
	return &ProspectRepo{pool: pool}
}

const prospectColumns = `
	id, campaign_id, first_name, last_name, company_name, title, profile_url,
	provider_id, status, contacted_at, last_action_at, notes, created_at, updated_at
`

// Create создаёт prospect.
func (r *ProspectRepo) Create(ctx context.Context, p *domain.Prospect) error {
	query := `
		INSERT INTO campaign_prospects (id, campaign_id, first_name, last_name,
		                                company_name, title, profile_url, provider_id,
		                                status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.pool.Exec(ctx, query,
		p.ID,
		p.CampaignID,
		p.FirstName,
		p.LastName,
		nullString(p.CompanyName),
		nullString(p.Title),
		p.ProfileURL,
		nullString(p.ProviderID),
		p.Status,
		nullString(p.Notes),
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert prospect: %w", err)
	}
	return nil
}

// GetByID возвращает prospect по ID.
func (r *ProspectRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Prospect, error) {
	query := `SELECT ` + prospectColumns + ` FROM campaign_prospects WHERE id = $1`
	return r.scanProspect(r.pool.QueryRow(ctx, query, id))
}

// ListByCampaign возвращает prospects кампании.
func (r *ProspectRepo) ListByCampaign(ctx context.Context, campaignID uuid.UUID, limit, offset int) ([]domain.Prospect, error) {
	query := `
		SELECT ` + prospectColumns + `
		FROM campaign_prospects
		WHERE campaign_id = $1
		ORDER BY created_at ASC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query, campaignID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list prospects: %w", err)
	}
	defer rows.Close()

	var prospects []domain.Prospect
	for rows.Next() {
		p, err := r.scanProspectFromRows(rows)
		if err != nil {
			return nil, err
		}
		prospects = append(prospects, *p)
	}
	return prospects, rows.Err()
}

// Advance фиксирует успешную отправку: каденция, contacted_at для
// первого контакта, last_action_at.
func (r *ProspectRepo) Advance(ctx context.Context, id uuid.UUID, m domain.MessageType, at time.Time) error {
	query := `
		UPDATE campaign_prospects
		SET status = $2,
		    contacted_at = CASE WHEN contacted_at IS NULL AND $3 THEN $4 ELSE contacted_at END,
		    last_action_at = $4,
		    updated_at = now()
		WHERE id = $1
	`
	result, err := r.pool.Exec(ctx, query,
		id,
		m.ProspectStatusAfterSend(),
		m == domain.MessageTypeConnectionRequest,
		at,
	)
	if err != nil {
		return fmt.Errorf("advance prospect: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetProviderID кэширует canonical id провайдера на prospect'е,
// чтобы следующие шаги каденции пропускали резолв.
func (r *ProspectRepo) SetProviderID(ctx context.Context, id uuid.UUID, providerID string) error {
	query := `
		UPDATE campaign_prospects
		SET provider_id = $2, updated_at = now()
		WHERE id = $1
	`
	result, err := r.pool.Exec(ctx, query, id, providerID)
	if err != nil {
		return fmt.Errorf("set prospect provider id: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateStatus обновляет статус каденции с заметкой.
func (r *ProspectRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ProspectStatus, notes string) error {
	query := `
		UPDATE campaign_prospects
		SET status = $2, notes = $3, updated_at = now()
		WHERE id = $1
	`
	result, err := r.pool.Exec(ctx, query, id, status, nullString(notes))
	if err != nil {
		return fmt.Errorf("update prospect status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// scanProspect сканирует одну строку в Prospect.
func (r *ProspectRepo) scanProspect(row pgx.Row) (*domain.Prospect, error) {
	var p domain.Prospect
	var companyName, title, providerID, notes *string

	err := row.Scan(
		&p.ID,
		&p.CampaignID,
		&p.FirstName,
		&p.LastName,
		&companyName,
		&title,
		&p.ProfileURL,
		&providerID,
		&p.Status,
		&p.ContactedAt,
		&p.LastActionAt,
		&notes,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan prospect: %w", err)
	}

	applyProspectNulls(&p, companyName, title, providerID, notes)
	return &p, nil
}

// scanProspectFromRows сканирует строку из rows в Prospect.
func (r *ProspectRepo) scanProspectFromRows(rows pgx.Rows) (*domain.Prospect, error) {
	var p domain.Prospect
	var companyName, title, providerID, notes *string

	err := rows.Scan(
		&p.ID,
		&p.CampaignID,
		&p.FirstName,
		&p.LastName,
		&companyName,
		&title,
		&p.ProfileURL,
		&providerID,
		&p.Status,
		&p.ContactedAt,
		&p.LastActionAt,
		&notes,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scan prospect: %w", err)
	}

	applyProspectNulls(&p, companyName, title, providerID, notes)
	return &p, nil
}

func applyProspectNulls(p *domain.Prospect, companyName, title, providerID, notes *string) {
	if companyName != nil {
		p.CompanyName = *companyName
	}
	if title != nil {
		p.Title = *title
	}
	if providerID != nil {
		p.ProviderID = *providerID
	}
	if notes != nil {
		p.Notes = *notes
	}
}
