package api

import (
	"log/slog"

	"github.com/shaiso/Cadence/internal/repo"
)

// Handler — главный обработчик API с зависимостями.
type Handler struct {
	campaignRepo *repo.CampaignRepo
	prospectRepo *repo.ProspectRepo
	queueRepo    *repo.QueueRepo
	accountRepo  *repo.AccountRepo
	logger       *slog.Logger
}

// Config — конфигурация для создания Handler.
type Config struct {
	CampaignRepo *repo.CampaignRepo
	ProspectRepo *repo.ProspectRepo
	QueueRepo    *repo.QueueRepo
	AccountRepo  *repo.AccountRepo
	Logger       *slog.Logger
}

// NewHandler создаёт новый Handler.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		campaignRepo: cfg.CampaignRepo,
		prospectRepo: cfg.ProspectRepo,
		queueRepo:    cfg.QueueRepo,
		accountRepo:  cfg.AccountRepo,
		logger:       cfg.Logger,
	}
}
