package sequence

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shaiso/Cadence/internal/domain"
	"github.com/shaiso/Cadence/internal/policy"
)

// delayRange — диапазон задержки перед шагом каденции, в днях.
// Диапазоны расширяются с каждым шагом и выбираются независимо
// для каждого prospect'а, чтобы избежать равномерной бот-сигнатуры.
type delayRange struct {
	minDays int
	maxDays int
}

var stepDelays = map[domain.MessageType]delayRange{
	domain.MessageTypeFollowUp1: {2, 4},
	domain.MessageTypeFollowUp2: {3, 6},
	domain.MessageTypeFollowUp3: {4, 7},
	domain.MessageTypeFollowUp4: {5, 8},
	domain.MessageTypeGoodbye:   {6, 10},
}

// QueueStore — запись новых элементов очереди.
type QueueStore interface {
	Create(ctx context.Context, item *domain.SendQueueItem) error
}

// ProspectStore — обновление статуса каденции.
type ProspectStore interface {
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ProspectStatus, notes string) error
}

// Advancer планирует следующий шаг каденции после успешной отправки.
type Advancer struct {
	queue     QueueStore
	prospects ProspectStore
	logger    *slog.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// Config — конфигурация Advancer.
type Config struct {
	Queue     QueueStore
	Prospects ProspectStore
	Logger    *slog.Logger

	// Rand — источник случайности (для тестов). По умолчанию —
	// отдельный генератор с time-based seed.
	Rand *rand.Rand
}

// New создаёт новый Advancer.
func New(cfg Config) *Advancer {
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Advancer{
		queue:     cfg.Queue,
		prospects: cfg.Prospects,
		logger:    logger,
		rng:       rng,
	}
}

// Advance создаёт следующий элемент очереди после успешной отправки item.
//
// Шаги с пустым шаблоном пропускаются. Если шагов не осталось, каденция
// prospect'а отмечается завершённой. Вычисленный scheduled_for —
// рекомендация: policy проверяется ещё раз при claim.
func (a *Advancer) Advance(ctx context.Context, campaign *domain.Campaign, prospect *domain.Prospect, item *domain.SendQueueItem, now time.Time) error {
	next, tmpl, ok := nextStepWithTemplate(item.MessageType, campaign.Templates)
	if !ok {
		a.logger.Info("cadence finished",
			"campaign_id", campaign.ID,
			"prospect_id", prospect.ID,
			"last_step", item.MessageType,
		)
		return a.prospects.UpdateStatus(ctx, prospect.ID, domain.ProspectStatusCompleted, "")
	}

	scheduledFor := a.scheduleTime(campaign.Settings, next, now)

	target := prospect.ProfileURL
	if prospect.HasCanonicalID() {
		target = prospect.ProviderID
	}

	nextItem := &domain.SendQueueItem{
		ID:           uuid.New(),
		CampaignID:   campaign.ID,
		ProspectID:   prospect.ID,
		AccountID:    campaign.AccountID,
		MessageType:  next,
		Message:      domain.RenderTemplate(tmpl, prospect),
		TargetID:     target,
		ScheduledFor: scheduledFor,
		Status:       domain.QueueStatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := a.queue.Create(ctx, nextItem); err != nil {
		return fmt.Errorf("create next queue item: %w", err)
	}

	a.logger.Info("next cadence step scheduled",
		"campaign_id", campaign.ID,
		"prospect_id", prospect.ID,
		"message_type", next,
		"scheduled_for", scheduledFor,
	)
	return nil
}

// scheduleTime выбирает случайную задержку в диапазоне шага и сдвигает
// результат в ближайшее открытое окно расписания.
func (a *Advancer) scheduleTime(settings domain.ScheduleSettings, step domain.MessageType, now time.Time) time.Time {
	r, ok := stepDelays[step]
	if !ok {
		r = delayRange{2, 4}
	}

	// Непрерывный выбор с точностью до минуты: разброс внутри дня,
	// чтобы шаги разных prospects не падали на одно и то же время
	spreadMinutes := (r.maxDays - r.minDays) * 24 * 60

	a.mu.Lock()
	extra := a.rng.Intn(spreadMinutes + 1)
	a.mu.Unlock()

	delay := time.Duration(r.minDays)*24*time.Hour + time.Duration(extra)*time.Minute
	return policy.NextOpen(settings, now.Add(delay))
}

// nextStepWithTemplate возвращает следующий шаг каденции с непустым
// шаблоном, пропуская незаполненные.
func nextStepWithTemplate(after domain.MessageType, templates domain.MessageTemplates) (domain.MessageType, string, bool) {
	step := after
	for {
		next, ok := step.Next()
		if !ok {
			return "", "", false
		}
		if tmpl := templates.ForType(next); tmpl != "" {
			return next, tmpl, true
		}
		step = next
	}
}
