package domain

import (
	"time"

	"github.com/google/uuid"
)

// DefaultDailyLimit — дневной лимит отправок аккаунта по умолчанию.
// Соответствует лимиту connection request'ов бесплатного тарифа сети.
const DefaultDailyLimit = 20

// WorkspaceAccount — внешний аккаунт-отправитель, подключённый к workspace.
//
// Ключ — идентификатор аккаунта у messaging-провайдера. По аккаунту
// ведётся учёт rate spacing и дневного лимита.
type WorkspaceAccount struct {
	// ID — идентификатор аккаунта у провайдера.
	ID string `json:"id"`

	// WorkspaceID — ссылка на workspace-владельца.
	WorkspaceID uuid.UUID `json:"workspace_id"`

	// Name — имя аккаунта для оператора.
	Name string `json:"name"`

	// DailyLimit — максимум отправок в сутки. 0 — дефолт.
	DailyLimit int `json:"daily_limit"`

	// CreatedAt — время подключения.
	CreatedAt time.Time `json:"created_at"`
}

// EffectiveDailyLimit возвращает действующий дневной лимит.
func (a *WorkspaceAccount) EffectiveDailyLimit() int {
	if a.DailyLimit > 0 {
		return a.DailyLimit
	}
	return DefaultDailyLimit
}

// DayStart возвращает начало текущих суток в указанной timezone.
// Используется для подсчёта sent-today.
func DayStart(now time.Time, loc *time.Location) time.Time {
	local := now.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}
