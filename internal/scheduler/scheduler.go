package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shaiso/Cadence/internal/domain"
	"github.com/shaiso/Cadence/internal/mq"
	"github.com/shaiso/Cadence/internal/policy"
	"github.com/shaiso/Cadence/internal/repo"
	"github.com/shaiso/Cadence/internal/telemetry"
)

// Default configuration values.
const (
	// DefaultMinSpacing — минимальный интервал между отправками
	// одного аккаунта. Основной механизм backpressure.
	DefaultMinSpacing = 20 * time.Minute

	// DefaultBatchSize — элементов очереди за кампанию за один тик.
	DefaultBatchSize = 10
)

// CampaignStore — доступ к кампаниям.
type CampaignStore interface {
	ListExecutable(ctx context.Context) ([]domain.Campaign, error)
}

// QueueStore — доступ к очереди отправки.
type QueueStore interface {
	ListDue(ctx context.Context, campaignID uuid.UUID, now time.Time, limit int) ([]domain.SendQueueItem, error)
	Claim(ctx context.Context, id uuid.UUID) error
	Release(ctx context.Context, id uuid.UUID) error
	LastSentAt(ctx context.Context, accountID string) (time.Time, error)
	CountSentSince(ctx context.Context, accountID string, since time.Time) (int, error)
}

// AccountStore — доступ к аккаунтам-отправителям.
type AccountStore interface {
	GetByID(ctx context.Context, id string) (*domain.WorkspaceAccount, error)
}

// Dispatcher передаёт захваченный элемент на доставку: публикация
// в RabbitMQ либо синхронный вызов worker'а в inline-режиме.
type Dispatcher interface {
	Dispatch(ctx context.Context, payload mq.SendTaskPayload) error
}

// DispatcherFunc адаптирует функцию доставки к интерфейсу Dispatcher.
type DispatcherFunc func(ctx context.Context, payload mq.SendTaskPayload) error

func (f DispatcherFunc) Dispatch(ctx context.Context, payload mq.SendTaskPayload) error {
	return f(ctx, payload)
}

// Scheduler — планировщик отправок.
//
// Один тик: executable кампании → policy → due элементы → spacing →
// атомарный claim → dispatch. Ошибки одной кампании или элемента
// не блокируют обработку остальных.
//
// Несколько экземпляров могут работать параллельно без координации:
// корректность обеспечивает атомарный claim на стороне БД.
type Scheduler struct {
	campaigns  CampaignStore
	queue      QueueStore
	accounts   AccountStore
	dispatcher Dispatcher
	logger     *slog.Logger

	minSpacing time.Duration
	batchSize  int
}

// Config — конфигурация Scheduler.
type Config struct {
	Campaigns  CampaignStore
	Queue      QueueStore
	Accounts   AccountStore
	Dispatcher Dispatcher
	Logger     *slog.Logger

	MinSpacing time.Duration // default: 20m
	BatchSize  int           // default: 10
}

// New создаёт новый Scheduler.
func New(cfg Config) *Scheduler {
	minSpacing := cfg.MinSpacing
	if minSpacing <= 0 {
		minSpacing = DefaultMinSpacing
	}
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Scheduler{
		campaigns:  cfg.Campaigns,
		queue:      cfg.Queue,
		accounts:   cfg.Accounts,
		dispatcher: cfg.Dispatcher,
		logger:     logger,
		minSpacing: minSpacing,
		batchSize:  batchSize,
	}
}

// accountState — состояние аккаунта в пределах одного тика.
// Spacing и дневной лимит считаются один раз и кэшируются:
// после первого dispatch аккаунт до конца тика закрыт.
type accountState struct {
	blocked bool
	reason  string
}

// Tick выполняет один проход планировщика.
//
// 1. Находит executable кампании (active/scheduled, auto_execute)
// 2. Для каждой проверяет eligibility policy
// 3. Забирает due элементы и захватывает их через атомарный claim
// 4. Передаёт захваченные элементы dispatcher'у
//
// Ошибки одной кампании не блокируют обработку остальных.
func (s *Scheduler) Tick(ctx context.Context) error {
	now := time.Now()

	campaigns, err := s.campaigns.ListExecutable(ctx)
	if err != nil {
		return fmt.Errorf("list executable campaigns: %w", err)
	}

	if len(campaigns) == 0 {
		return nil
	}

	s.logger.Debug("found executable campaigns", "count", len(campaigns))

	// Состояние аккаунтов разделяется между кампаниями одного тика:
	// spacing действует на аккаунт, а не на кампанию
	accounts := make(map[string]*accountState)

	var processed, dispatched int
	for i := range campaigns {
		c := &campaigns[i]

		n, err := s.processCampaign(ctx, c, now, accounts)
		if err != nil {
			s.logger.Error("failed to process campaign",
				"campaign_id", c.ID,
				"campaign_name", c.Name,
				"error", err,
			)
			continue
		}

		processed++
		dispatched += n
	}

	s.logger.Info("scheduler tick completed",
		"campaigns", len(campaigns),
		"processed", processed,
		"dispatched", dispatched,
	)

	return nil
}

// processCampaign обрабатывает одну кампанию.
// Возвращает количество отправленных на доставку элементов.
func (s *Scheduler) processCampaign(ctx context.Context, c *domain.Campaign, now time.Time, accounts map[string]*accountState) (int, error) {
	logger := telemetry.WithCampaignID(s.logger, c.ID.String())

	// 1. Eligibility policy: выходные, праздники, рабочие часы
	if d := policy.Evaluate(c.Settings, now); !d.Allowed {
		logger.Debug("campaign blocked by schedule policy", "reason", d.Reason)
		telemetry.PolicyBlocksTotal.WithLabelValues(d.Code).Inc()
		return 0, nil
	}

	// 2. Due элементы, по возрастанию scheduled_for
	items, err := s.queue.ListDue(ctx, c.ID, now, s.batchSize)
	if err != nil {
		return 0, fmt.Errorf("list due items: %w", err)
	}
	if len(items) == 0 {
		return 0, nil
	}

	dispatched := 0
	for i := range items {
		item := &items[i]

		// 3. Rate spacing и дневной лимит аккаунта. Закрытый аккаунт
		// закрыт до конца тика — остальные элементы не захватываются
		// вовсе и дождутся следующего цикла
		state, err := s.accountGate(ctx, item.AccountID, now, accounts)
		if err != nil {
			return dispatched, err
		}
		if state.blocked {
			logger.Debug("account closed for this cycle",
				"account_id", item.AccountID,
				"reason", state.reason,
			)
			telemetry.SpacingDeferralsTotal.Inc()
			continue
		}

		// 4. Атомарный claim: pending → processing
		if err := s.queue.Claim(ctx, item.ID); err != nil {
			if errors.Is(err, repo.ErrClaimLost) {
				// Элемент забрал параллельный экземпляр — штатная
				// ситуация, молча пропускаем
				telemetry.ClaimsTotal.WithLabelValues("lost").Inc()
				continue
			}
			return dispatched, fmt.Errorf("claim item %s: %w", item.ID, err)
		}
		telemetry.ClaimsTotal.WithLabelValues("claimed").Inc()

		// 5. Dispatch с компенсацией: неудачная публикация возвращает
		// элемент в pending, задача не теряется
		payload := mq.SendTaskPayload{
			QueueItemID: item.ID,
			CampaignID:  item.CampaignID,
			ProspectID:  item.ProspectID,
			AccountID:   item.AccountID,
			MessageType: item.MessageType,
			Message:     item.Message,
			TargetID:    item.TargetID,
		}
		if err := s.dispatcher.Dispatch(ctx, payload); err != nil {
			telemetry.PublishFailuresTotal.Inc()
			logger.Error("dispatch failed, releasing claim",
				"queue_item_id", item.ID,
				"error", err,
			)
			if relErr := s.queue.Release(ctx, item.ID); relErr != nil {
				logger.Error("failed to release claimed item",
					"queue_item_id", item.ID,
					"error", relErr,
				)
			}
			continue
		}

		dispatched++
		logger.Info("item dispatched",
			"queue_item_id", item.ID,
			"message_type", item.MessageType,
			"account_id", item.AccountID,
		)

		// Аккаунт отправил в этом тике — закрываем до следующего
		state.blocked = true
		state.reason = "dispatched this cycle"
	}

	return dispatched, nil
}

// accountGate возвращает состояние аккаунта в текущем тике, вычисляя
// его при первом обращении: spacing по последней отправке и дневной лимит.
func (s *Scheduler) accountGate(ctx context.Context, accountID string, now time.Time, accounts map[string]*accountState) (*accountState, error) {
	if state, ok := accounts[accountID]; ok {
		return state, nil
	}

	state := &accountState{}
	accounts[accountID] = state

	// Spacing: последняя успешная отправка ближе minSpacing — аккаунт закрыт
	lastSent, err := s.queue.LastSentAt(ctx, accountID)
	switch {
	case errors.Is(err, repo.ErrNotFound):
		// Отправок ещё не было
	case err != nil:
		return nil, fmt.Errorf("last sent at for %s: %w", accountID, err)
	case now.Sub(lastSent) < s.minSpacing:
		state.blocked = true
		state.reason = fmt.Sprintf("spacing: last send %s ago", now.Sub(lastSent).Round(time.Second))
		return state, nil
	}

	// Дневной лимит
	limit := domain.DefaultDailyLimit
	if s.accounts != nil {
		account, err := s.accounts.GetByID(ctx, accountID)
		switch {
		case errors.Is(err, repo.ErrNotFound):
			// Неизвестный аккаунт — действует дефолтный лимит
		case err != nil:
			return nil, fmt.Errorf("get account %s: %w", accountID, err)
		default:
			limit = account.EffectiveDailyLimit()
		}
	}

	sentToday, err := s.queue.CountSentSince(ctx, accountID, domain.DayStart(now, time.UTC))
	if err != nil {
		return nil, fmt.Errorf("count sent today for %s: %w", accountID, err)
	}
	if sentToday >= limit {
		state.blocked = true
		state.reason = fmt.Sprintf("daily limit reached: %d/%d", sentToday, limit)
	}

	return state, nil
}
