package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shaiso/Cadence/internal/domain"
)

// ListQueueItems возвращает элементы очереди кампании.
// GET /api/v1/campaigns/{id}/queue?status=...&limit=...&offset=...
func (h *Handler) ListQueueItems(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid campaign id")
		return
	}

	var status domain.QueueStatus
	if s := r.URL.Query().Get("status"); s != "" {
		status, err = domain.ParseQueueStatus(s)
		if err != nil {
			BadRequest(w, "invalid status filter")
			return
		}
	}

	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)

	items, err := h.queueRepo.ListByCampaign(r.Context(), id, status, limit, offset)
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	result := make([]QueueItemResponse, len(items))
	for i, item := range items {
		result[i] = QueueItemFromDomain(item)
	}

	List(w, result, len(result))
}

// QueueStats возвращает счётчики очереди кампании по статусам.
// GET /api/v1/campaigns/{id}/queue/stats
func (h *Handler) QueueStats(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid campaign id")
		return
	}

	// Проверяем, что кампания существует
	_, err = h.campaignRepo.GetByID(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "campaign not found") {
		return
	}

	counts, err := h.queueRepo.CountByStatus(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	Success(w, QueueStatsFromCounts(counts))
}
