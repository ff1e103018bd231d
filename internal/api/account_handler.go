package api

import (
	"net/http"
)

// ListAccounts возвращает аккаунты workspace.
// GET /api/v1/accounts
func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accountRepo.List(r.Context())
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	result := make([]AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}

	List(w, result, len(result))
}

// GetAccount возвращает аккаунт по идентификатору провайдера.
// GET /api/v1/accounts/{id}
func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		BadRequest(w, "account id is required")
		return
	}

	account, err := h.accountRepo.GetByID(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "account not found") {
		return
	}

	Success(w, AccountFromDomain(*account))
}
