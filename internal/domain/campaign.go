package domain

import (
	"time"

	"github.com/google/uuid"
)

// Campaign — outreach-кампания внутри workspace.
//
// Кампания владеет набором prospects, шаблонами сообщений и настройками
// расписания. Планировщик сканирует только executable кампании
// (active/scheduled) с auto_execute=true.
type Campaign struct {
	// ID — уникальный идентификатор кампании.
	ID uuid.UUID `json:"id"`

	// WorkspaceID — ссылка на workspace-владельца.
	WorkspaceID uuid.UUID `json:"workspace_id"`

	// Name — имя кампании для оператора.
	Name string `json:"name"`

	// AccountID — внешний аккаунт, от имени которого идёт рассылка.
	// Используется для rate spacing и дневных лимитов.
	AccountID string `json:"account_id"`

	// Status — статус жизненного цикла.
	Status CampaignStatus `json:"status"`

	// AutoExecute — разрешение на автоматическую рассылку.
	// false — кампания видна планировщику, но не обрабатывается.
	AutoExecute bool `json:"auto_execute"`

	// Settings — настройки расписания (timezone, рабочие часы, выходные).
	Settings ScheduleSettings `json:"settings"`

	// Templates — шаблоны сообщений по шагам каденции.
	Templates MessageTemplates `json:"templates"`

	// CreatedAt — время создания.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt — время последнего обновления.
	UpdatedAt time.Time `json:"updated_at"`
}

// ScheduleSettings — настройки расписания кампании (JSONB поле campaigns.settings).
//
// Все поля опциональны; отсутствующие значения заменяются дефолтами
// на стороне policy: UTC, 08:00–18:00, выходные и праздники пропускаются,
// страна US.
type ScheduleSettings struct {
	// Timezone — IANA timezone кампании (например, "Europe/Berlin").
	Timezone string `json:"timezone,omitempty"`

	// WorkingHoursStart — час начала отправки (локальное время, включительно).
	WorkingHoursStart *int `json:"working_hours_start,omitempty"`

	// WorkingHoursEnd — час окончания отправки (локальное время, исключительно).
	WorkingHoursEnd *int `json:"working_hours_end,omitempty"`

	// SkipWeekends — не отправлять в выходные.
	SkipWeekends *bool `json:"skip_weekends,omitempty"`

	// SkipHolidays — не отправлять в государственные праздники.
	SkipHolidays *bool `json:"skip_holidays,omitempty"`

	// CountryCode — ISO-код страны для календаря праздников и набора
	// выходных дней (в части Ближнего Востока выходные — пятница/суббота).
	CountryCode string `json:"country_code,omitempty"`
}

// Pause приостанавливает кампанию.
func (c *Campaign) Pause() {
	c.Status = CampaignStatusPaused
	c.UpdatedAt = time.Now()
}

// Resume возобновляет приостановленную кампанию.
func (c *Campaign) Resume() {
	c.Status = CampaignStatusActive
	c.UpdatedAt = time.Now()
}

// MarkCompleted отмечает кампанию завершённой.
func (c *Campaign) MarkCompleted() {
	c.Status = CampaignStatusCompleted
	c.UpdatedAt = time.Now()
}
