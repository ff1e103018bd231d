package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/shaiso/Cadence/internal/domain"
)

// Campaign DTOs

// CreateCampaignRequest — запрос на создание кампании.
type CreateCampaignRequest struct {
	WorkspaceID uuid.UUID               `json:"workspace_id"`
	Name        string                  `json:"name"`
	AccountID   string                  `json:"account_id"`
	AutoExecute bool                    `json:"auto_execute"`
	Settings    domain.ScheduleSettings `json:"settings"`
	Templates   domain.MessageTemplates `json:"templates"`
}

// CampaignResponse — ответ с кампанией.
type CampaignResponse struct {
	ID          uuid.UUID               `json:"id"`
	WorkspaceID uuid.UUID               `json:"workspace_id"`
	Name        string                  `json:"name"`
	AccountID   string                  `json:"account_id"`
	Status      string                  `json:"status"`
	AutoExecute bool                    `json:"auto_execute"`
	Settings    domain.ScheduleSettings `json:"settings"`
	Templates   domain.MessageTemplates `json:"templates"`
	CreatedAt   time.Time               `json:"created_at"`
	UpdatedAt   time.Time               `json:"updated_at"`
}

// CampaignFromDomain конвертирует domain.Campaign в CampaignResponse.
func CampaignFromDomain(c domain.Campaign) CampaignResponse {
	return CampaignResponse{
		ID:          c.ID,
		WorkspaceID: c.WorkspaceID,
		Name:        c.Name,
		AccountID:   c.AccountID,
		Status:      string(c.Status),
		AutoExecute: c.AutoExecute,
		Settings:    c.Settings,
		Templates:   c.Templates,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// Prospect DTOs

// AddProspectRequest — один prospect в запросе на добавление.
type AddProspectRequest struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	CompanyName string `json:"company_name,omitempty"`
	Title       string `json:"title,omitempty"`
	ProfileURL  string `json:"profile_url"`
}

// AddProspectsRequest — запрос на добавление prospects в кампанию.
type AddProspectsRequest struct {
	Prospects []AddProspectRequest `json:"prospects"`
}

// ProspectResponse — ответ с prospect.
type ProspectResponse struct {
	ID           uuid.UUID  `json:"id"`
	CampaignID   uuid.UUID  `json:"campaign_id"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	CompanyName  string     `json:"company_name,omitempty"`
	Title        string     `json:"title,omitempty"`
	ProfileURL   string     `json:"profile_url"`
	ProviderID   string     `json:"provider_id,omitempty"`
	Status       string     `json:"status"`
	ContactedAt  *time.Time `json:"contacted_at,omitempty"`
	LastActionAt *time.Time `json:"last_action_at,omitempty"`
	Notes        string     `json:"notes,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// ProspectFromDomain конвертирует domain.Prospect в ProspectResponse.
func ProspectFromDomain(p domain.Prospect) ProspectResponse {
	return ProspectResponse{
		ID:           p.ID,
		CampaignID:   p.CampaignID,
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		CompanyName:  p.CompanyName,
		Title:        p.Title,
		ProfileURL:   p.ProfileURL,
		ProviderID:   p.ProviderID,
		Status:       string(p.Status),
		ContactedAt:  p.ContactedAt,
		LastActionAt: p.LastActionAt,
		Notes:        p.Notes,
		CreatedAt:    p.CreatedAt,
	}
}

// Queue DTOs

// QueueItemResponse — ответ с элементом очереди.
type QueueItemResponse struct {
	ID           uuid.UUID  `json:"id"`
	CampaignID   uuid.UUID  `json:"campaign_id"`
	ProspectID   uuid.UUID  `json:"prospect_id"`
	AccountID    string     `json:"account_id"`
	MessageType  string     `json:"message_type"`
	Message      string     `json:"message"`
	TargetID     string     `json:"target_id"`
	ScheduledFor time.Time  `json:"scheduled_for"`
	Status       string     `json:"status"`
	Attempts     int        `json:"attempts"`
	SentAt       *time.Time `json:"sent_at,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// QueueItemFromDomain конвертирует domain.SendQueueItem в QueueItemResponse.
func QueueItemFromDomain(i domain.SendQueueItem) QueueItemResponse {
	return QueueItemResponse{
		ID:           i.ID,
		CampaignID:   i.CampaignID,
		ProspectID:   i.ProspectID,
		AccountID:    i.AccountID,
		MessageType:  string(i.MessageType),
		Message:      i.Message,
		TargetID:     i.TargetID,
		ScheduledFor: i.ScheduledFor,
		Status:       string(i.Status),
		Attempts:     i.Attempts,
		SentAt:       i.SentAt,
		ErrorMessage: i.ErrorMessage,
		CreatedAt:    i.CreatedAt,
	}
}

// QueueStatsResponse — счётчики очереди кампании по статусам.
type QueueStatsResponse struct {
	Pending    int `json:"pending"`
	Processing int `json:"processing"`
	Sent       int `json:"sent"`
	Failed     int `json:"failed"`
}

// QueueStatsFromCounts конвертирует счётчики репозитория в ответ.
func QueueStatsFromCounts(counts map[domain.QueueStatus]int) QueueStatsResponse {
	return QueueStatsResponse{
		Pending:    counts[domain.QueueStatusPending],
		Processing: counts[domain.QueueStatusProcessing],
		Sent:       counts[domain.QueueStatusSent],
		Failed:     counts[domain.QueueStatusFailed],
	}
}

// Account DTOs

// AccountResponse — ответ с аккаунтом workspace.
type AccountResponse struct {
	ProviderID  string    `json:"id"`
	WorkspaceID uuid.UUID `json:"workspace_id"`
	Name        string    `json:"name"`
	DailyLimit  int       `json:"daily_limit"`
	CreatedAt   time.Time `json:"created_at"`
}

// AccountFromDomain конвертирует domain.WorkspaceAccount в AccountResponse.
func AccountFromDomain(a domain.WorkspaceAccount) AccountResponse {
	return AccountResponse{
		ProviderID:  a.ID,
		WorkspaceID: a.WorkspaceID,
		Name:        a.Name,
		DailyLimit:  a.EffectiveDailyLimit(),
		CreatedAt:   a.CreatedAt,
	}
}
