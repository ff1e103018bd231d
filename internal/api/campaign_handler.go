package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shaiso/Cadence/internal/domain"
)

// ListCampaigns возвращает список кампаний.
// GET /api/v1/campaigns?workspace_id=...&limit=...&offset=...
func (h *Handler) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	var workspaceID *uuid.UUID
	if s := r.URL.Query().Get("workspace_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			BadRequest(w, "invalid workspace_id")
			return
		}
		workspaceID = &id
	}

	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)

	campaigns, err := h.campaignRepo.List(r.Context(), workspaceID, limit, offset)
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	result := make([]CampaignResponse, len(campaigns))
	for i, c := range campaigns {
		result[i] = CampaignFromDomain(c)
	}

	List(w, result, len(result))
}

// CreateCampaign создаёт новую кампанию в статусе draft.
// POST /api/v1/campaigns
func (h *Handler) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	var req CreateCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	if req.Name == "" {
		BadRequest(w, "name is required")
		return
	}
	if req.AccountID == "" {
		BadRequest(w, "account_id is required")
		return
	}
	if req.Templates.ConnectionRequest == "" {
		BadRequest(w, "templates.connection_request is required")
		return
	}

	now := time.Now()
	campaign := &domain.Campaign{
		ID:          uuid.New(),
		WorkspaceID: req.WorkspaceID,
		Name:        req.Name,
		AccountID:   req.AccountID,
		Status:      domain.CampaignStatusDraft,
		AutoExecute: req.AutoExecute,
		Settings:    req.Settings,
		Templates:   req.Templates,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.campaignRepo.Create(r.Context(), campaign); err != nil {
		InternalError(w, h.logger, err)
		return
	}

	Created(w, CampaignFromDomain(*campaign))
}

// GetCampaign возвращает кампанию по ID.
// GET /api/v1/campaigns/{id}
func (h *Handler) GetCampaign(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid campaign id")
		return
	}

	campaign, err := h.campaignRepo.GetByID(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "campaign not found") {
		return
	}

	Success(w, CampaignFromDomain(*campaign))
}

// PauseCampaign приостанавливает кампанию: планировщик перестаёт
// сканировать её очередь. Уже захваченные элементы доставляются.
// POST /api/v1/campaigns/{id}/pause
func (h *Handler) PauseCampaign(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid campaign id")
		return
	}

	campaign, err := h.campaignRepo.GetByID(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "campaign not found") {
		return
	}

	if !campaign.Status.IsExecutable() {
		InvalidState(w, "only active or scheduled campaigns can be paused")
		return
	}

	campaign.Pause()
	if err := h.campaignRepo.UpdateStatus(r.Context(), id, campaign.Status); err != nil {
		InternalError(w, h.logger, err)
		return
	}

	Success(w, CampaignFromDomain(*campaign))
}

// ResumeCampaign возобновляет приостановленную кампанию.
// POST /api/v1/campaigns/{id}/resume
func (h *Handler) ResumeCampaign(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid campaign id")
		return
	}

	campaign, err := h.campaignRepo.GetByID(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "campaign not found") {
		return
	}

	if campaign.Status != domain.CampaignStatusPaused && campaign.Status != domain.CampaignStatusDraft {
		InvalidState(w, "only paused or draft campaigns can be resumed")
		return
	}

	campaign.Resume()
	if err := h.campaignRepo.UpdateStatus(r.Context(), id, campaign.Status); err != nil {
		InternalError(w, h.logger, err)
		return
	}

	Success(w, CampaignFromDomain(*campaign))
}

// queryInt парсит целочисленный query параметр с дефолтом.
func queryInt(r *http.Request, name string, def int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return def
	}
	return n
}
