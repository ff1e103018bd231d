package api

import (
	"net/http"
)

// RegisterRoutes регистрирует все маршруты API.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Middleware chain
	chain := Chain(
		Recovery(h.logger),
		Logging(h.logger),
	)

	// Campaigns
	mux.Handle("GET /api/v1/campaigns", chain(http.HandlerFunc(h.ListCampaigns)))
	mux.Handle("POST /api/v1/campaigns", chain(http.HandlerFunc(h.CreateCampaign)))
	mux.Handle("GET /api/v1/campaigns/{id}", chain(http.HandlerFunc(h.GetCampaign)))
	mux.Handle("POST /api/v1/campaigns/{id}/pause", chain(http.HandlerFunc(h.PauseCampaign)))
	mux.Handle("POST /api/v1/campaigns/{id}/resume", chain(http.HandlerFunc(h.ResumeCampaign)))

	// Queue
	mux.Handle("GET /api/v1/campaigns/{id}/queue", chain(http.HandlerFunc(h.ListQueueItems)))
	mux.Handle("GET /api/v1/campaigns/{id}/queue/stats", chain(http.HandlerFunc(h.QueueStats)))

	// Prospects
	mux.Handle("GET /api/v1/campaigns/{id}/prospects", chain(http.HandlerFunc(h.ListProspects)))
	mux.Handle("POST /api/v1/campaigns/{id}/prospects", chain(http.HandlerFunc(h.AddProspects)))

	// Accounts
	mux.Handle("GET /api/v1/accounts", chain(http.HandlerFunc(h.ListAccounts)))
	mux.Handle("GET /api/v1/accounts/{id}", chain(http.HandlerFunc(h.GetAccount)))
}
