package domain

import "fmt"

// CampaignStatus — статус жизненного цикла кампании.
//
// Жизненный цикл:
//
//	draft → scheduled → active → completed
//	                  ↘ paused ↗
type CampaignStatus string

const (
	// CampaignStatusDraft — кампания создана, но не готова к запуску.
	CampaignStatusDraft CampaignStatus = "draft"

	// CampaignStatusScheduled — кампания ожидает начала рассылки.
	CampaignStatusScheduled CampaignStatus = "scheduled"

	// CampaignStatusActive — кампания рассылается.
	CampaignStatusActive CampaignStatus = "active"

	// CampaignStatusPaused — кампания приостановлена оператором.
	CampaignStatusPaused CampaignStatus = "paused"

	// CampaignStatusCompleted — все prospects обработаны.
	CampaignStatusCompleted CampaignStatus = "completed"
)

// IsExecutable возвращает true, если планировщик должен сканировать кампанию.
// Paused/draft/completed кампании не сканируются.
func (s CampaignStatus) IsExecutable() bool {
	return s == CampaignStatusActive || s == CampaignStatusScheduled
}

// ParseCampaignStatus парсит строку в CampaignStatus.
// Неизвестные значения — ошибка: строки из БД не пропускаются "как есть".
func ParseCampaignStatus(s string) (CampaignStatus, error) {
	switch CampaignStatus(s) {
	case CampaignStatusDraft, CampaignStatusScheduled, CampaignStatusActive,
		CampaignStatusPaused, CampaignStatusCompleted:
		return CampaignStatus(s), nil
	default:
		return "", fmt.Errorf("unknown campaign status %q", s)
	}
}

// QueueStatus — статус элемента очереди отправки.
//
// Переходы строго монотонные:
//
//	pending → processing → sent
//	                     ↘ failed
//	processing → pending (только компенсация: публикация не удалась
//	или transient-ошибка доставки с оставшимися попытками)
//
// Элемент, достигший sent, никогда не возвращается в pending.
type QueueStatus string

const (
	// QueueStatusPending — элемент ожидает своего scheduled_for.
	QueueStatusPending QueueStatus = "pending"

	// QueueStatusProcessing — элемент захвачен планировщиком (claim).
	QueueStatusProcessing QueueStatus = "processing"

	// QueueStatusSent — сообщение доставлено провайдеру.
	QueueStatusSent QueueStatus = "sent"

	// QueueStatusFailed — доставка окончательно не удалась.
	QueueStatusFailed QueueStatus = "failed"
)

// IsTerminal возвращает true, если статус финальный.
func (s QueueStatus) IsTerminal() bool {
	return s == QueueStatusSent || s == QueueStatusFailed
}

// CanTransition проверяет допустимость перехода статусов.
func (s QueueStatus) CanTransition(to QueueStatus) bool {
	switch s {
	case QueueStatusPending:
		return to == QueueStatusProcessing
	case QueueStatusProcessing:
		return to == QueueStatusSent || to == QueueStatusFailed || to == QueueStatusPending
	default:
		// sent/failed — терминальные
		return false
	}
}

// ParseQueueStatus парсит строку в QueueStatus.
func ParseQueueStatus(s string) (QueueStatus, error) {
	switch QueueStatus(s) {
	case QueueStatusPending, QueueStatusProcessing, QueueStatusSent, QueueStatusFailed:
		return QueueStatus(s), nil
	default:
		return "", fmt.Errorf("unknown queue status %q", s)
	}
}

// ProspectStatus — позиция prospect'а в каденции.
//
// Зеркалит очередь отправки: каждый успешный send продвигает prospect
// на следующий шаг. replied выставляется внешним детектором ответов
// и останавливает каденцию.
type ProspectStatus string

const (
	ProspectStatusNotContacted        ProspectStatus = "not_contacted"
	ProspectStatusConnectionRequested ProspectStatus = "connection_requested"
	ProspectStatusFollowUp1           ProspectStatus = "follow_up_1"
	ProspectStatusFollowUp2           ProspectStatus = "follow_up_2"
	ProspectStatusFollowUp3           ProspectStatus = "follow_up_3"
	ProspectStatusFollowUp4           ProspectStatus = "follow_up_4"
	ProspectStatusGoodbyeSent         ProspectStatus = "goodbye_sent"
	ProspectStatusCompleted           ProspectStatus = "completed"
	ProspectStatusReplied             ProspectStatus = "replied"
	ProspectStatusFailed              ProspectStatus = "failed"
)

// IsTerminal возвращает true, если каденция для prospect'а закончена.
func (s ProspectStatus) IsTerminal() bool {
	switch s {
	case ProspectStatusCompleted, ProspectStatusReplied, ProspectStatusFailed:
		return true
	default:
		return false
	}
}

// ParseProspectStatus парсит строку в ProspectStatus.
func ParseProspectStatus(s string) (ProspectStatus, error) {
	switch ProspectStatus(s) {
	case ProspectStatusNotContacted, ProspectStatusConnectionRequested,
		ProspectStatusFollowUp1, ProspectStatusFollowUp2, ProspectStatusFollowUp3,
		ProspectStatusFollowUp4, ProspectStatusGoodbyeSent,
		ProspectStatusCompleted, ProspectStatusReplied, ProspectStatusFailed:
		return ProspectStatus(s), nil
	default:
		return "", fmt.Errorf("unknown prospect status %q", s)
	}
}
