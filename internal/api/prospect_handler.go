package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shaiso/Cadence/internal/domain"
)

// ListProspects возвращает prospects кампании.
// GET /api/v1/campaigns/{id}/prospects?limit=...&offset=...
func (h *Handler) ListProspects(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid campaign id")
		return
	}

	limit := queryInt(r, "limit", 100)
	offset := queryInt(r, "offset", 0)

	prospects, err := h.prospectRepo.ListByCampaign(r.Context(), id, limit, offset)
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	result := make([]ProspectResponse, len(prospects))
	for i, p := range prospects {
		result[i] = ProspectFromDomain(p)
	}

	List(w, result, len(result))
}

// AddProspects добавляет prospects в кампанию и ставит для каждого
// первый элемент очереди (connection request) с отрендеренным шаблоном.
// POST /api/v1/campaigns/{id}/prospects
func (h *Handler) AddProspects(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid campaign id")
		return
	}

	var req AddProspectsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}
	if len(req.Prospects) == 0 {
		BadRequest(w, "prospects are required")
		return
	}
	for _, p := range req.Prospects {
		if p.FirstName == "" || p.ProfileURL == "" {
			BadRequest(w, "first_name and profile_url are required for every prospect")
			return
		}
	}

	campaign, err := h.campaignRepo.GetByID(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "campaign not found") {
		return
	}

	now := time.Now()
	result := make([]ProspectResponse, 0, len(req.Prospects))

	for _, pr := range req.Prospects {
		prospect := &domain.Prospect{
			ID:          uuid.New(),
			CampaignID:  campaign.ID,
			FirstName:   pr.FirstName,
			LastName:    pr.LastName,
			CompanyName: pr.CompanyName,
			Title:       pr.Title,
			ProfileURL:  pr.ProfileURL,
			Status:      domain.ProspectStatusNotContacted,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := h.prospectRepo.Create(r.Context(), prospect); err != nil {
			InternalError(w, h.logger, err)
			return
		}

		item := &domain.SendQueueItem{
			ID:           uuid.New(),
			CampaignID:   campaign.ID,
			ProspectID:   prospect.ID,
			AccountID:    campaign.AccountID,
			MessageType:  domain.MessageTypeConnectionRequest,
			Message:      domain.RenderTemplate(campaign.Templates.ConnectionRequest, prospect),
			TargetID:     prospect.ProfileURL,
			ScheduledFor: now,
			Status:       domain.QueueStatusPending,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := h.queueRepo.Create(r.Context(), item); err != nil {
			InternalError(w, h.logger, err)
			return
		}

		result = append(result, ProspectFromDomain(*prospect))
	}

	Created(w, result)
}
