package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus метрики scheduler и worker.
// Экспортируются на /metrics каждого сервиса.
var (
	// ClaimsTotal — попытки захвата элементов очереди.
	// result: claimed | lost
	ClaimsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cadence_queue_claims_total",
		Help: "Queue item claim attempts by result",
	}, []string{"result"})

	// SendsTotal — результаты доставки сообщений.
	// result: sent | failed_permanent | failed_transient
	SendsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cadence_sends_total",
		Help: "Message delivery outcomes",
	}, []string{"result"})

	// PolicyBlocksTotal — кампании, пропущенные по расписанию.
	// reason: weekend | holiday | working_hours
	PolicyBlocksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cadence_policy_blocks_total",
		Help: "Campaigns skipped by schedule policy",
	}, []string{"reason"})

	// SpacingDeferralsTotal — элементы, отложенные rate spacer'ом.
	SpacingDeferralsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cadence_spacing_deferrals_total",
		Help: "Queue items deferred by the per-account spacing rule",
	})

	// PublishFailuresTotal — неудачные публикации с компенсацией.
	PublishFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cadence_publish_failures_total",
		Help: "Dispatch publish failures compensated by releasing the claim",
	})
)
