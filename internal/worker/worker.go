package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shaiso/Cadence/internal/domain"
	"github.com/shaiso/Cadence/internal/mq"
	"github.com/shaiso/Cadence/internal/provider"
	"github.com/shaiso/Cadence/internal/sequence"
)

// Default configuration values.
const (
	// MaxAttempts — фиксированный потолок попыток доставки.
	// После него transient ошибка становится терминальной.
	MaxAttempts = 3

	// retryDelay — сдвиг scheduled_for перед следующей попыткой.
	retryDelay = 30 * time.Minute

	defaultPollInterval = time.Minute
	defaultStaleAfter   = 15 * time.Minute
	defaultBatchSize    = 50
	defaultPrefetch     = 5
)

// QueueStore — доступ воркера к очереди отправки.
type QueueStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.SendQueueItem, error)
	MarkSent(ctx context.Context, id uuid.UUID, sentAt time.Time) error
	MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error
	ReleaseForRetry(ctx context.Context, id uuid.UUID, errMsg string, nextAttempt time.Time) error
	Release(ctx context.Context, id uuid.UUID) error
	ListStaleProcessing(ctx context.Context, olderThan time.Time, limit int) ([]domain.SendQueueItem, error)
}

// ProspectStore — доступ воркера к prospects.
type ProspectStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Prospect, error)
	SetProviderID(ctx context.Context, id uuid.UUID, providerID string) error
	Advance(ctx context.Context, id uuid.UUID, m domain.MessageType, at time.Time) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ProspectStatus, notes string) error
}

// CampaignStore — доступ воркера к кампаниям (для sequence advancer).
type CampaignStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Campaign, error)
}

// Provider — вызовы внешнего messaging-провайдера.
type Provider interface {
	GetProfileByProviderID(ctx context.Context, accountID, providerID string) (*provider.Profile, error)
	GetProfileByVanity(ctx context.Context, accountID, vanity string) (*provider.Profile, error)
	SendInvitation(ctx context.Context, accountID, providerID, message string) error
	SendMessage(ctx context.Context, accountID, attendeeProviderID, text string) error
}

// Advancer планирует следующий шаг каденции после успешной отправки.
type Advancer interface {
	Advance(ctx context.Context, campaign *domain.Campaign, prospect *domain.Prospect, item *domain.SendQueueItem, now time.Time) error
}

// Worker выполняет доставку сообщений.
//
// Worker — stateless компонент, который:
//   - Получает задания из очереди RabbitMQ (event-driven)
//   - Периодически возвращает застрявшие processing элементы в pending
//     (polling fallback: захваченная задача не застревает навсегда)
//   - Резолвит canonical id получателя с кэшированием на prospect'е
//   - Классифицирует ошибки доставки на permanent и transient
//   - После успеха продвигает каденцию prospect'а и планирует
//     следующий шаг
//
// Workers масштабируются горизонтально — несколько экземпляров
// могут потреблять из одной очереди.
type Worker struct {
	queue     QueueStore
	prospects ProspectStore
	campaigns CampaignStore
	provider  Provider
	advancer  Advancer

	conn     *mq.Connection
	consumer *mq.Consumer

	pollInterval time.Duration
	staleAfter   time.Duration
	batchSize    int

	logger     *slog.Logger
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
}

// Config — конфигурация Worker.
type Config struct {
	Queue     QueueStore
	Prospects ProspectStore
	Campaigns CampaignStore
	Provider  Provider

	// Advancer (опционально; если nil — собирается из Queue/Prospects).
	Advancer Advancer

	// Conn — соединение с RabbitMQ. nil — только polling fallback
	// (inline-режим, доставку вызывает scheduler напрямую).
	Conn *mq.Connection

	PollInterval time.Duration // интервал polling (default: 1m)
	StaleAfter   time.Duration // допустимое время в processing (default: 15m)
	BatchSize    int           // элементов за один poll (default: 50)

	Logger *slog.Logger
}

// New создаёт новый Worker.
func New(cfg Config) *Worker {
	pollInterval := cfg.PollInterval
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}
	staleAfter := cfg.StaleAfter
	if staleAfter <= 0 {
		staleAfter = defaultStaleAfter
	}
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	advancer := cfg.Advancer
	if advancer == nil {
		if qs, ok := cfg.Queue.(sequence.QueueStore); ok {
			advancer = sequence.New(sequence.Config{
				Queue:     qs,
				Prospects: cfg.Prospects,
				Logger:    logger,
			})
		}
	}

	return &Worker{
		queue:        cfg.Queue,
		prospects:    cfg.Prospects,
		campaigns:    cfg.Campaigns,
		provider:     cfg.Provider,
		advancer:     advancer,
		conn:         cfg.Conn,
		pollInterval: pollInterval,
		staleAfter:   staleAfter,
		batchSize:    batchSize,
		logger:       logger,
	}
}

// Start запускает Worker.
//
// Запускает:
//   - Consumer для sends.dispatch (если настроено MQ соединение)
//   - Polling горутину, возвращающую застрявшие processing элементы
func (w *Worker) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	w.cancelFunc = cancel

	w.logger.Info("starting worker",
		"poll_interval", w.pollInterval,
		"stale_after", w.staleAfter,
	)

	if w.conn != nil {
		w.consumer = mq.NewConsumer(w.conn, w.logger, mq.ConsumerConfig{
			Queue:    string(mq.QueueSendsDispatch),
			Handler:  w.handleSendTask,
			Prefetch: defaultPrefetch,
		})

		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			if err := w.consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				w.logger.Error("send task consumer error", "error", err)
			}
		}()
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.pollLoop(ctx)
	}()

	w.logger.Info("worker started")
	return nil
}

// Stop останавливает Worker.
func (w *Worker) Stop() {
	w.logger.Info("stopping worker...")

	if w.cancelFunc != nil {
		w.cancelFunc()
	}
	if w.consumer != nil {
		w.consumer.Stop()
	}

	w.wg.Wait()
	w.logger.Info("worker stopped")
}

// pollLoop периодически возвращает застрявшие processing элементы
// в pending: processing всегда либо доводится до терминального статуса,
// либо компенсируется.
func (w *Worker) pollLoop(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.releaseStale(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.releaseStale(ctx)
		}
	}
}

// releaseStale возвращает в pending элементы, зависшие в processing.
func (w *Worker) releaseStale(ctx context.Context) {
	olderThan := time.Now().Add(-w.staleAfter)

	items, err := w.queue.ListStaleProcessing(ctx, olderThan, w.batchSize)
	if err != nil {
		w.logger.Error("failed to list stale processing items", "error", err)
		return
	}

	for i := range items {
		item := &items[i]
		if err := w.queue.Release(ctx, item.ID); err != nil {
			w.logger.Error("failed to release stale item",
				"queue_item_id", item.ID,
				"error", err,
			)
			continue
		}
		w.logger.Warn("released stale processing item",
			"queue_item_id", item.ID,
			"message_type", item.MessageType,
		)
	}
}

// handleSendTask обрабатывает задание доставки из очереди sends.dispatch.
func (w *Worker) handleSendTask(ctx context.Context, delivery *mq.Delivery) error {
	payload, err := mq.ParsePayload[mq.SendTaskPayload](&delivery.Message)
	if err != nil {
		w.logger.Error("failed to parse send.task payload", "error", err)
		return err
	}

	w.logger.Debug("received send.task event",
		"queue_item_id", payload.QueueItemID,
		"message_type", payload.MessageType,
	)

	if err := w.Deliver(ctx, payload); err != nil {
		// Ожидаемые ситуации — ack без повторной доставки
		if errors.Is(err, ErrItemNotFound) || errors.Is(err, ErrItemNotProcessing) {
			w.logger.Debug("send task skipped",
				"queue_item_id", payload.QueueItemID,
				"reason", err,
			)
			return nil
		}
		w.logger.Error("failed to deliver",
			"queue_item_id", payload.QueueItemID,
			"error", err,
		)
		return err
	}

	return nil
}
