// Cadence Scheduler — планировщик отправок.
//
// Scheduler:
//   - Сканирует executable кампании по cron-каденции (SCHED_CRON)
//   - Проверяет policy расписания (timezone, рабочие часы, выходные)
//   - Применяет rate spacing и дневные лимиты аккаунтов
//   - Атомарно захватывает due элементы очереди и публикует задания
//     доставки в RabbitMQ; без брокера доставляет inline встроенным
//     worker'ом
//
// Несколько экземпляров координируются advisory lock'ом PostgreSQL:
// тики выполняет только лидер, остальные ждут освобождения lock'а.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shaiso/Cadence/internal/mq"
	"github.com/shaiso/Cadence/internal/provider"
	"github.com/shaiso/Cadence/internal/repo"
	"github.com/shaiso/Cadence/internal/scheduler"
	"github.com/shaiso/Cadence/internal/telemetry"
	"github.com/shaiso/Cadence/internal/worker"
)

// schedLockKey — ключ advisory lock для выбора лидера.
const schedLockKey int64 = 524287

// mqDispatcher публикует захваченные элементы в RabbitMQ.
type mqDispatcher struct {
	publisher *mq.Publisher
}

func (d *mqDispatcher) Dispatch(ctx context.Context, payload mq.SendTaskPayload) error {
	return d.publisher.PublishSendTask(ctx, payload)
}

func main() {
	// Инициализируем structured logging
	logger := telemetry.SetupLogger()
	logger.Info("starting cadence-scheduler")

	// graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// DB pool
	pool, err := repo.NewPool(ctx)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("database connected")

	campaignRepo := repo.NewCampaignRepo(pool)
	prospectRepo := repo.NewProspectRepo(pool)
	queueRepo := repo.NewQueueRepo(pool)
	accountRepo := repo.NewAccountRepo(pool)

	// RabbitMQ. Без брокера переходим в inline-режим: доставку
	// выполняет встроенный worker синхронно внутри тика.
	mqURL := os.Getenv("RABBITMQ_URL")
	if mqURL == "" {
		mqURL = mq.DefaultURL()
	}

	var dispatcher scheduler.Dispatcher
	if mqConn, err := mq.NewConnection(mqURL, logger); err != nil {
		logger.Warn("RabbitMQ unavailable, falling back to inline delivery", "error", err)

		w := worker.New(worker.Config{
			Queue:     queueRepo,
			Prospects: prospectRepo,
			Campaigns: campaignRepo,
			Provider:  provider.NewClientFromEnv(logger),
			Logger:    logger,
		})
		if err := w.Start(ctx); err != nil {
			logger.Error("failed to start inline worker", "error", err)
			os.Exit(1)
		}
		defer w.Stop()

		dispatcher = scheduler.DispatcherFunc(w.Deliver)
	} else {
		defer mqConn.Close()
		logger.Info("RabbitMQ connected")

		if err := mq.SetupTopology(ctx, mqConn); err != nil {
			logger.Error("failed to setup topology", "error", err)
			os.Exit(1)
		}
		dispatcher = &mqDispatcher{publisher: mq.NewPublisher(mqConn, logger)}
	}

	sched := scheduler.New(scheduler.Config{
		Campaigns:  campaignRepo,
		Queue:      queueRepo,
		Accounts:   accountRepo,
		Dispatcher: dispatcher,
		Logger:     logger,
	})

	schedule, err := scheduler.SweepSchedule()
	if err != nil {
		logger.Error("invalid sweep schedule", "error", err)
		os.Exit(1)
	}

	// HTTP mux: /healthz + /metrics
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	port := ":8081"
	if v := os.Getenv("SCHED_PORT"); v != "" {
		port = ":" + v
	}

	go func() {
		logger.Info("listening", "addr", port)
		if err := http.ListenAndServe(port, mux); err != nil {
			logger.Error("http server error", "error", err)
			cancel()
		}
	}()

	// Выбор лидера: тики выполняет только держатель advisory lock
	go func() {
		defer cancel()

		if !acquireLeadership(ctx, pool, logger) {
			return
		}
		defer func() {
			_, _ = pool.Exec(context.Background(), "select pg_advisory_unlock($1)", schedLockKey)
		}()

		logger.Info("leadership acquired, starting sweep loop")
		if err := sched.Run(ctx, schedule); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("scheduler loop failed", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("cadence-scheduler stopped")
}

// acquireLeadership блокируется до получения advisory lock либо отмены
// контекста. Возвращает true, если lock получен.
func acquireLeadership(ctx context.Context, pool *pgxpool.Pool, logger *slog.Logger) bool {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		var acquired bool
		if err := pool.QueryRow(ctx, "select pg_try_advisory_lock($1)", schedLockKey).Scan(&acquired); err != nil {
			logger.Warn("advisory lock attempt failed", "error", err)
		} else if acquired {
			return true
		}

		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
		}
	}
}
