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

// QueueRepo — репозиторий для работы с send_queue.
//
// Корректность конкурентной обработки держится на условных UPDATE:
// Claim и Release проверяют текущий статус в WHERE, никаких блокировок
// на уровне приложения нет.
type QueueRepo struct {
	pool *pgxpool.Pool
}

// NewQueueRepo создаёт новый QueueRepo.
func NewQueueRepo(pool *pgxpool.Pool) *QueueRepo {
	return &QueueRepo{pool: pool}
}

const queueColumns = `
	id, campaign_id, prospect_id, account_id, message_type, message, target_id,
	scheduled_for, status, attempts, sent_at, error_message, created_at, updated_at
`

// Create создаёт элемент очереди.
func (r *QueueRepo) Create(ctx context.Context, item *domain.SendQueueItem) error {
	query := `
		INSERT INTO send_queue (id, campaign_id, prospect_id, account_id, message_type,
		                        message, target_id, scheduled_for, status, attempts,
		                        created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.pool.Exec(ctx, query,
		item.ID,
		item.CampaignID,
		item.ProspectID,
		item.AccountID,
		item.MessageType,
		item.Message,
		item.TargetID,
		item.ScheduledFor,
		item.Status,
		item.Attempts,
		item.CreatedAt,
		item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert queue item: %w", err)
	}
	return nil
}

// GetByID возвращает элемент очереди по ID.
func (r *QueueRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.SendQueueItem, error) {
	query := `SELECT ` + queueColumns + ` FROM send_queue WHERE id = $1`
	return r.scanItem(r.pool.QueryRow(ctx, query, id))
}

// ListDue возвращает pending элементы кампании с подошедшим scheduled_for,
// по возрастанию scheduled_for, ограниченной пачкой.
func (r *QueueRepo) ListDue(ctx context.Context, campaignID uuid.UUID, now time.Time, limit int) ([]domain.SendQueueItem, error) {
	query := `
		SELECT ` + queueColumns + `
		FROM send_queue
		WHERE campaign_id = $1 AND status = 'pending' AND scheduled_for <= $2
		ORDER BY scheduled_for ASC
		LIMIT $3
	`
	rows, err := r.pool.Query(ctx, query, campaignID, now, limit)
	if err != nil {
		return nil, fmt.Errorf("list due items: %w", err)
	}
	defer rows.Close()

	var items []domain.SendQueueItem
	for rows.Next() {
		item, err := r.scanItemFromRows(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// Claim атомарно захватывает pending элемент: pending → processing.
//
// Ноль затронутых строк означает, что элемент уже захвачен другим
// процессом или ушёл из pending — возвращается ErrClaimLost, вызывающий
// код молча пропускает такой элемент.
func (r *QueueRepo) Claim(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE send_queue
		SET status = 'processing', updated_at = now()
		WHERE id = $1 AND status = 'pending'
	`
	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("claim queue item: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrClaimLost
	}
	return nil
}

// Release возвращает захваченный элемент в pending (компенсация
// неудачной публикации). Захваченная, но не доставленная задача
// не должна потеряться.
func (r *QueueRepo) Release(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE send_queue
		SET status = 'pending', updated_at = now()
		WHERE id = $1 AND status = 'processing'
	`
	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("release queue item: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrInvalidState
	}
	return nil
}

// ReleaseForRetry возвращает элемент в pending после transient-ошибки
// доставки: инкрементирует attempts, записывает текст ошибки и сдвигает
// scheduled_for на время следующей попытки.
func (r *QueueRepo) ReleaseForRetry(ctx context.Context, id uuid.UUID, errMsg string, nextAttempt time.Time) error {
	query := `
		UPDATE send_queue
		SET status = 'pending', attempts = attempts + 1, error_message = $2,
		    scheduled_for = $3, updated_at = now()
		WHERE id = $1 AND status = 'processing'
	`
	result, err := r.pool.Exec(ctx, query, id, errMsg, nextAttempt)
	if err != nil {
		return fmt.Errorf("release queue item for retry: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrInvalidState
	}
	return nil
}

// MarkSent переводит processing элемент в терминальный sent.
func (r *QueueRepo) MarkSent(ctx context.Context, id uuid.UUID, sentAt time.Time) error {
	query := `
		UPDATE send_queue
		SET status = 'sent', sent_at = $2, error_message = NULL, updated_at = now()
		WHERE id = $1 AND status = 'processing'
	`
	result, err := r.pool.Exec(ctx, query, id, sentAt)
	if err != nil {
		return fmt.Errorf("mark queue item sent: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrInvalidState
	}
	return nil
}

// MarkFailed переводит processing элемент в терминальный failed.
func (r *QueueRepo) MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error {
	query := `
		UPDATE send_queue
		SET status = 'failed', error_message = $2, updated_at = now()
		WHERE id = $1 AND status = 'processing'
	`
	result, err := r.pool.Exec(ctx, query, id, errMsg)
	if err != nil {
		return fmt.Errorf("mark queue item failed: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrInvalidState
	}
	return nil
}

// LastSentAt возвращает время последней успешной отправки аккаунта.
// Используется rate spacer'ом. ErrNotFound — отправок ещё не было.
func (r *QueueRepo) LastSentAt(ctx context.Context, accountID string) (time.Time, error) {
	query := `
		SELECT sent_at FROM send_queue
		WHERE account_id = $1 AND status = 'sent' AND sent_at IS NOT NULL
		ORDER BY sent_at DESC
		LIMIT 1
	`
	var sentAt time.Time
	err := r.pool.QueryRow(ctx, query, accountID).Scan(&sentAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return time.Time{}, ErrNotFound
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("last sent at: %w", err)
	}
	return sentAt, nil
}

// CountSentSince возвращает число успешных отправок аккаунта начиная
// с момента since. Используется для дневного лимита.
func (r *QueueRepo) CountSentSince(ctx context.Context, accountID string, since time.Time) (int, error) {
	query := `
		SELECT count(*) FROM send_queue
		WHERE account_id = $1 AND status = 'sent' AND sent_at >= $2
	`
	var n int
	if err := r.pool.QueryRow(ctx, query, accountID, since).Scan(&n); err != nil {
		return 0, fmt.Errorf("count sent since: %w", err)
	}
	return n, nil
}

// ListStaleProcessing возвращает элементы, застрявшие в processing
// дольше допустимого (захвачены, но не доведены до терминального
// статуса — например, из-за гибели worker'а). Их возвращают в pending
// компенсирующим Release.
func (r *QueueRepo) ListStaleProcessing(ctx context.Context, olderThan time.Time, limit int) ([]domain.SendQueueItem, error) {
	query := `
		SELECT ` + queueColumns + `
		FROM send_queue
		WHERE status = 'processing' AND updated_at < $1
		ORDER BY updated_at ASC
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, olderThan, limit)
	if err != nil {
		return nil, fmt.Errorf("list stale processing items: %w", err)
	}
	defer rows.Close()

	var items []domain.SendQueueItem
	for rows.Next() {
		item, err := r.scanItemFromRows(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// ListByCampaign возвращает элементы очереди кампании.
func (r *QueueRepo) ListByCampaign(ctx context.Context, campaignID uuid.UUID, status domain.QueueStatus, limit, offset int) ([]domain.SendQueueItem, error) {
	query := `
		SELECT ` + queueColumns + `
		FROM send_queue
		WHERE campaign_id = $1
		  AND ($2::text IS NULL OR status = $2)
		ORDER BY scheduled_for ASC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.pool.Query(ctx, query, campaignID, nullString(string(status)), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list queue items: %w", err)
	}
	defer rows.Close()

	var items []domain.SendQueueItem
	for rows.Next() {
		item, err := r.scanItemFromRows(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// CountByStatus возвращает количество элементов кампании по статусам.
func (r *QueueRepo) CountByStatus(ctx context.Context, campaignID uuid.UUID) (map[domain.QueueStatus]int, error) {
	query := `
		SELECT status, count(*)
		FROM send_queue
		WHERE campaign_id = $1
		GROUP BY status
	`
	rows, err := r.pool.Query(ctx, query, campaignID)
	if err != nil {
		return nil, fmt.Errorf("count queue items: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.QueueStatus]int)
	for rows.Next() {
		var status domain.QueueStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// scanItem сканирует одну строку в SendQueueItem.
func (r *QueueRepo) scanItem(row pgx.Row) (*domain.SendQueueItem, error) {
	var item domain.SendQueueItem
	var errorMessage *string

	err := row.Scan(
		&item.ID,
		&item.CampaignID,
		&item.ProspectID,
		&item.AccountID,
		&item.MessageType,
		&item.Message,
		&item.TargetID,
		&item.ScheduledFor,
		&item.Status,
		&item.Attempts,
		&item.SentAt,
		&errorMessage,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan queue item: %w", err)
	}

	if errorMessage != nil {
		item.ErrorMessage = *errorMessage
	}
	return &item, nil
}

// scanItemFromRows сканирует строку из rows в SendQueueItem.
func (r *QueueRepo) scanItemFromRows(rows pgx.Rows) (*domain.SendQueueItem, error) {
	var item domain.SendQueueItem
	var errorMessage *string

	err := rows.Scan(
		&item.ID,
		&item.CampaignID,
		&item.ProspectID,
		&item.AccountID,
		&item.MessageType,
		&item.Message,
		&item.TargetID,
		&item.ScheduledFor,
		&item.Status,
		&item.Attempts,
		&item.SentAt,
		&errorMessage,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scan queue item: %w", err)
	}

	if errorMessage != nil {
		item.ErrorMessage = *errorMessage
	}
	return &item, nil
}
