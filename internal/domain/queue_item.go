package domain

import (
	"time"

	"github.com/google/uuid"
)

// SendQueueItem — задание на отправку одного сообщения.
//
// Создаётся либо при постановке кампании в очередь (connection request),
// либо sequence advancer'ом после успешной отправки предыдущего шага.
// Уничтожается только переходом в терминальный статус; pending/processing
// строки не удаляются.
type SendQueueItem struct {
	// ID — уникальный идентификатор элемента очереди.
	ID uuid.UUID `json:"id"`

	// CampaignID — ссылка на кампанию.
	CampaignID uuid.UUID `json:"campaign_id"`

	// ProspectID — ссылка на prospect.
	ProspectID uuid.UUID `json:"prospect_id"`

	// AccountID — внешний аккаунт-отправитель (денормализован из кампании
	// для rate spacing без join'а).
	AccountID string `json:"account_id"`

	// MessageType — шаг каденции.
	MessageType MessageType `json:"message_type"`

	// Message — отрендеренный текст сообщения.
	Message string `json:"message"`

	// TargetID — идентификатор получателя: canonical provider id,
	// либо URL/vanity профиля до резолва.
	TargetID string `json:"target_id"`

	// ScheduledFor — не отправлять раньше этого времени.
	// Рекомендация, не гарантия: policy проверяется ещё раз при claim.
	ScheduledFor time.Time `json:"scheduled_for"`

	// Status — статус элемента.
	Status QueueStatus `json:"status"`

	// Attempts — количество попыток доставки (растёт при transient retry).
	Attempts int `json:"attempts"`

	// SentAt — время успешной отправки.
	SentAt *time.Time `json:"sent_at,omitempty"`

	// ErrorMessage — текст последней ошибки доставки.
	ErrorMessage string `json:"error_message,omitempty"`

	// CreatedAt — время создания.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt — время последнего обновления.
	UpdatedAt time.Time `json:"updated_at"`
}

// IsDue проверяет, подошло ли время отправки.
func (i *SendQueueItem) IsDue(now time.Time) bool {
	return !i.ScheduledFor.After(now)
}

// MarkSent переводит элемент в статус sent.
func (i *SendQueueItem) MarkSent(at time.Time) {
	i.Status = QueueStatusSent
	i.SentAt = &at
	i.UpdatedAt = at
}

// MarkFailed переводит элемент в терминальный статус failed.
func (i *SendQueueItem) MarkFailed(errMsg string) {
	now := time.Now()
	i.Status = QueueStatusFailed
	i.ErrorMessage = errMsg
	i.UpdatedAt = now
}
