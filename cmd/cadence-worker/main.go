// Cadence Worker — доставляет сообщения из очереди отправки.
//
// Worker:
//   - Получает задания send.task из RabbitMQ
//   - Резолвит получателя в canonical id провайдера
//   - Доставляет сообщение через внешний API (invite или chat)
//   - Классифицирует ошибки на permanent и transient, ведёт retry
//   - После успеха продвигает каденцию prospect'а
//
// Workers масштабируются горизонтально. При недоступном RabbitMQ
// процесс работает в polling-only режиме: возвращает застрявшие
// processing элементы в pending, доставку выполняют другие экземпляры.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shaiso/Cadence/internal/mq"
	"github.com/shaiso/Cadence/internal/provider"
	"github.com/shaiso/Cadence/internal/repo"
	"github.com/shaiso/Cadence/internal/telemetry"
	"github.com/shaiso/Cadence/internal/worker"
)

func main() {
	// Инициализируем structured logging
	logger := telemetry.SetupLogger()
	logger.Info("starting cadence-worker")

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

	// Репозитории
	queueRepo := repo.NewQueueRepo(pool)
	prospectRepo := repo.NewProspectRepo(pool)
	campaignRepo := repo.NewCampaignRepo(pool)

	// RabbitMQ
	var mqConn *mq.Connection
	mqURL := os.Getenv("RABBITMQ_URL")
	if mqURL == "" {
		mqURL = mq.DefaultURL()
	}

	mqConn, err = mq.NewConnection(mqURL, logger)
	if err != nil {
		logger.Warn("RabbitMQ not available, running in polling-only mode", "error", err)
		mqConn = nil
	} else {
		defer mqConn.Close()
		logger.Info("RabbitMQ connected")

		if err := mq.SetupTopology(ctx, mqConn); err != nil {
			logger.Warn("failed to setup topology", "error", err)
		}
	}

	// Создаём worker
	w := worker.New(worker.Config{
		Queue:     queueRepo,
		Prospects: prospectRepo,
		Campaigns: campaignRepo,
		Provider:  provider.NewClientFromEnv(logger),
		Conn:      mqConn,
		Logger:    logger,
	})

	if err := w.Start(ctx); err != nil {
		logger.Error("failed to start worker", "error", err)
		os.Exit(1)
	}

	// HTTP mux: /healthz + /metrics
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	port := ":8082"
	if v := os.Getenv("WORKER_PORT"); v != "" {
		port = ":" + v
	}

	go func() {
		logger.Info("listening", "addr", port)
		if err := http.ListenAndServe(port, mux); err != nil {
			logger.Error("http server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()

	w.Stop()
	logger.Info("cadence-worker stopped")
}
