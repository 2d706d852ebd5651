package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/segyhp/loan-engine/internal/domain"
	customError "github.com/segyhp/loan-engine/pkg/errors"
	"github.com/segyhp/loan-engine/pkg/response"
)

// LedgerHandler serves savings, sale payments, the chart of accounts and the journal.
type LedgerHandler struct {
	savings  SavingsService
	sales    SaleService
	accounts AccountService
	ledger   LedgerService
}

func NewLedgerHandler(savings SavingsService, sales SaleService, accounts AccountService, ledger LedgerService) *LedgerHandler {
	return &LedgerHandler{savings: savings, sales: sales, accounts: accounts, ledger: ledger}
}

func (h *LedgerHandler) Register(api *mux.Router) {
	api.HandleFunc("/savings/deposits", h.Deposit).Methods(http.MethodPost)
	api.HandleFunc("/savings/withdrawals", h.Withdraw).Methods(http.MethodPost)
	api.HandleFunc("/customers/{customerId}/savings", h.GetSaving).Methods(http.MethodGet)

	api.HandleFunc("/sales/payments", h.PostSalePayment).Methods(http.MethodPost)

	api.HandleFunc("/accounts", h.CreateAccount).Methods(http.MethodPost)
	api.HandleFunc("/accounts", h.ListAccounts).Methods(http.MethodGet)
	api.HandleFunc("/accounts/{accountId}", h.GetAccount).Methods(http.MethodGet)
	api.HandleFunc("/accounts/{accountId}/active", h.SetAccountActive).Methods(http.MethodPut)
	api.HandleFunc("/account-mapping", h.GetMapping).Methods(http.MethodGet)
	api.HandleFunc("/account-mapping", h.CreateMapping).Methods(http.MethodPost)
	api.HandleFunc("/account-mapping", h.UpdateMapping).Methods(http.MethodPut)

	api.HandleFunc("/journal-entries/{entryId}", h.GetJournalEntry).Methods(http.MethodGet)
	api.HandleFunc("/transactions/{transactionId}/journal-entries", h.ListJournalEntries).Methods(http.MethodGet)
	api.HandleFunc("/ledger/audit", h.AuditLedger).Methods(http.MethodGet)
}

func (h *LedgerHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	var req domain.SavingsRequest
	if err := decodeJSON(r, &req); err != nil {
		response.FromError(w, err)
		return
	}

	result, err := h.savings.Deposit(r.Context(), &req)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, result)
}

func (h *LedgerHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	var req domain.SavingsRequest
	if err := decodeJSON(r, &req); err != nil {
		response.FromError(w, err)
		return
	}

	result, err := h.savings.Withdraw(r.Context(), &req)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, result)
}

func (h *LedgerHandler) GetSaving(w http.ResponseWriter, r *http.Request) {
	customerID, err := pathID(r, "customerId")
	if err != nil {
		response.FromError(w, err)
		return
	}

	saving, err := h.savings.GetSaving(r.Context(), customerID)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, saving)
}

func (h *LedgerHandler) PostSalePayment(w http.ResponseWriter, r *http.Request) {
	var req domain.SalePaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		response.FromError(w, err)
		return
	}

	result, err := h.sales.PostSalePayment(r.Context(), &req)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, result)
}

func (h *LedgerHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		response.FromError(w, err)
		return
	}

	account, err := h.accounts.CreateAccount(r.Context(), &req)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, account)
}

// ListAccounts returns every account, or only active ones with ?active=true.
func (h *LedgerHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	activeOnly := false
	if raw := r.URL.Query().Get("active"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			response.FromError(w, fmt.Errorf("%w: active must be true or false", customError.ErrMalformedRequest))
			return
		}
		activeOnly = parsed
	}

	accounts, err := h.accounts.ListAccounts(r.Context(), activeOnly)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, accounts)
}

func (h *LedgerHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "accountId")
	if err != nil {
		response.FromError(w, err)
		return
	}

	account, err := h.accounts.GetAccount(r.Context(), id)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, account)
}

type activeRequest struct {
	IsActive *bool `json:"is_active"`
}

func (h *LedgerHandler) SetAccountActive(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "accountId")
	if err != nil {
		response.FromError(w, err)
		return
	}

	var req activeRequest
	if err := decodeJSON(r, &req); err != nil {
		response.FromError(w, err)
		return
	}
	if req.IsActive == nil {
		response.FromError(w, customError.ValidationFields(map[string]string{"is_active": "is required"}))
		return
	}

	account, err := h.accounts.SetAccountActive(r.Context(), id, *req.IsActive)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, account)
}

func (h *LedgerHandler) GetMapping(w http.ResponseWriter, r *http.Request) {
	mapping, err := h.accounts.GetMapping(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, mapping)
}

func (h *LedgerHandler) CreateMapping(w http.ResponseWriter, r *http.Request) {
	var req domain.MappingRequest
	if err := decodeJSON(r, &req); err != nil {
		response.FromError(w, err)
		return
	}

	mapping, err := h.accounts.CreateMapping(r.Context(), &req)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, mapping)
}

func (h *LedgerHandler) UpdateMapping(w http.ResponseWriter, r *http.Request) {
	var req domain.MappingRequest
	if err := decodeJSON(r, &req); err != nil {
		response.FromError(w, err)
		return
	}

	mapping, err := h.accounts.UpdateMapping(r.Context(), &req)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, mapping)
}

func (h *LedgerHandler) GetJournalEntry(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "entryId")
	if err != nil {
		response.FromError(w, err)
		return
	}

	entry, err := h.ledger.GetJournalEntry(r.Context(), id)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, entry)
}

func (h *LedgerHandler) ListJournalEntries(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "transactionId")
	if err != nil {
		response.FromError(w, err)
		return
	}

	entries, err := h.ledger.ListJournalEntriesByTransaction(r.Context(), id)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, entries)
}

func (h *LedgerHandler) AuditLedger(w http.ResponseWriter, r *http.Request) {
	audit, err := h.ledger.AuditLedger(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, audit)
}
