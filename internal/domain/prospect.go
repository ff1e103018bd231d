package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// providerIDPrefix — префикс canonical идентификатора у провайдера.
// Значения без этого префикса считаются URL/vanity и требуют резолва.
const providerIDPrefix = "ACo"

// Prospect — получатель в рамках одной кампании.
//
// Prospect привязан к кампании; один и тот же человек в двух кампаниях —
// две разные строки. Каденция prospect'а зеркалит очередь отправки.
type Prospect struct {
	// ID — уникальный идентификатор prospect'а.
	ID uuid.UUID `json:"id"`

	// CampaignID — ссылка на кампанию.
	CampaignID uuid.UUID `json:"campaign_id"`

	// FirstName, LastName — имя для персонализации шаблонов.
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`

	// CompanyName, Title — данные для персонализации.
	CompanyName string `json:"company_name,omitempty"`
	Title       string `json:"title,omitempty"`

	// ProfileURL — URL профиля в сети (источник vanity при резолве).
	ProfileURL string `json:"profile_url"`

	// ProviderID — закэшированный canonical id у провайдера.
	// Заполняется один раз после первого успешного резолва.
	ProviderID string `json:"provider_id,omitempty"`

	// Status — позиция в каденции.
	Status ProspectStatus `json:"status"`

	// ContactedAt — время первого контакта (connection request).
	ContactedAt *time.Time `json:"contacted_at,omitempty"`

	// LastActionAt — время последнего действия по prospect'у.
	LastActionAt *time.Time `json:"last_action_at,omitempty"`

	// Notes — операторская заметка (причина терминального статуса и т.п.).
	Notes string `json:"notes,omitempty"`

	// CreatedAt — время создания.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt — время последнего обновления.
	UpdatedAt time.Time `json:"updated_at"`
}

// HasCanonicalID возвращает true, если canonical id уже известен.
func (p *Prospect) HasCanonicalID() bool {
	return IsCanonicalID(p.ProviderID)
}

// IsCanonicalID проверяет, является ли значение canonical идентификатором
// провайдера, а не URL/vanity строкой.
func IsCanonicalID(s string) bool {
	return strings.HasPrefix(s, providerIDPrefix)
}

// Advance продвигает каденцию после успешной отправки сообщения.
// Для connection request дополнительно ставится ContactedAt.
func (p *Prospect) Advance(m MessageType, at time.Time) {
	p.Status = m.ProspectStatusAfterSend()
	if m == MessageTypeConnectionRequest && p.ContactedAt == nil {
		p.ContactedAt = &at
	}
	p.LastActionAt = &at
	p.UpdatedAt = at
}

// MarkCompleted отмечает каденцию завершённой (все шаги отправлены).
func (p *Prospect) MarkCompleted() {
	now := time.Now()
	p.Status = ProspectStatusCompleted
	p.UpdatedAt = now
}

// MarkFailed терминально завершает каденцию с причиной.
func (p *Prospect) MarkFailed(reason string) {
	now := time.Now()
	p.Status = ProspectStatusFailed
	p.Notes = reason
	p.UpdatedAt = now
}
