package handler

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/segyhp/loan-engine/internal/domain"
	"github.com/segyhp/loan-engine/pkg/response"
)

type LoanHandler struct {
	service LoanService
}

func NewLoanHandler(service LoanService) *LoanHandler {
	return &LoanHandler{service: service}
}

// Register mounts the loan routes on api.
func (h *LoanHandler) Register(api *mux.Router) {
	api.HandleFunc("/loans", h.CreateLoan).Methods(http.MethodPost)
	api.HandleFunc("/loans/{loanId}", h.GetLoan).Methods(http.MethodGet)
	api.HandleFunc("/loans/{loanId}/next", h.Next).Methods(http.MethodPost)
	api.HandleFunc("/loans/{loanId}/back", h.Back).Methods(http.MethodPost)
	api.HandleFunc("/loans/{loanId}/approve", h.Approve).Methods(http.MethodPost)
	api.HandleFunc("/loans/{loanId}/disburse", h.Disburse).Methods(http.MethodPost)
	api.HandleFunc("/loans/{loanId}/repayments", h.Repay).Methods(http.MethodPost)
	api.HandleFunc("/loans/{loanId}/outstanding", h.GetOutstanding).Methods(http.MethodGet)
	api.HandleFunc("/loans/{loanId}/approvals", h.ListApprovals).Methods(http.MethodGet)
}

// CreateLoan accepts JSON, or multipart with the JSON in "payload" and the
// form in "application_form".
func (h *LoanHandler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateLoanRequest

	if isMultipart(r) {
		defer releaseForm(r)
		if err := decodeMultipart(r, &req); err != nil {
			response.FromError(w, err)
			return
		}
		form, err := formDocument(r, "application_form")
		if err != nil {
			response.FromError(w, err)
			return
		}
		req.ApplicationForm = form
	} else if err := decodeJSON(r, &req); err != nil {
		response.FromError(w, err)
		return
	}

	loan, err := h.service.CreateLoan(r.Context(), &req)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, loan)
}

// Next accepts the same payload shapes as CreateLoan. Collateral for the i-th
// guarantor is read from the "collateral_<i>" file field.
func (h *LoanHandler) Next(w http.ResponseWriter, r *http.Request) {
	loanID, err := pathID(r, "loanId")
	if err != nil {
		response.FromError(w, err)
		return
	}

	var req domain.NextRequest
	if isMultipart(r) {
		defer releaseForm(r)
		if err := decodeMultipart(r, &req); err != nil {
			response.FromError(w, err)
			return
		}
		if req.ApplicationForm, err = formDocument(r, "application_form"); err != nil {
			response.FromError(w, err)
			return
		}
		for i := range req.Guarantors {
			if req.Guarantors[i].Collateral, err = formDocument(r, fmt.Sprintf("collateral_%d", i)); err != nil {
				response.FromError(w, err)
				return
			}
		}
	} else if err := decodeBody(r.Body, &req, true); err != nil {
		response.FromError(w, err)
		return
	}

	loan, err := h.service.Next(r.Context(), loanID, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, loan)
}

func (h *LoanHandler) Back(w http.ResponseWriter, r *http.Request) {
	loanID, err := pathID(r, "loanId")
	if err != nil {
		response.FromError(w, err)
		return
	}

	loan, err := h.service.Back(r.Context(), loanID)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, loan)
}

func (h *LoanHandler) Approve(w http.ResponseWriter, r *http.Request) {
	loanID, err := pathID(r, "loanId")
	if err != nil {
		response.FromError(w, err)
		return
	}

	var req domain.ApproveRequest
	if err := decodeBody(r.Body, &req, true); err != nil {
		response.FromError(w, err)
		return
	}

	loan, err := h.service.Approve(r.Context(), loanID, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, loan)
}

func (h *LoanHandler) Disburse(w http.ResponseWriter, r *http.Request) {
	loanID, err := pathID(r, "loanId")
	if err != nil {
		response.FromError(w, err)
		return
	}

	var req domain.DisburseRequest
	if err := decodeJSON(r, &req); err != nil {
		response.FromError(w, err)
		return
	}

	result, err := h.service.Disburse(r.Context(), loanID, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *LoanHandler) Repay(w http.ResponseWriter, r *http.Request) {
	loanID, err := pathID(r, "loanId")
	if err != nil {
		response.FromError(w, err)
		return
	}

	var req domain.RepaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		response.FromError(w, err)
		return
	}

	result, err := h.service.Repay(r.Context(), loanID, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, result)
}

func (h *LoanHandler) GetLoan(w http.ResponseWriter, r *http.Request) {
	loanID, err := pathID(r, "loanId")
	if err != nil {
		response.FromError(w, err)
		return
	}

	details, err := h.service.GetLoan(r.Context(), loanID)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, details)
}

func (h *LoanHandler) GetOutstanding(w http.ResponseWriter, r *http.Request) {
	loanID, err := pathID(r, "loanId")
	if err != nil {
		response.FromError(w, err)
		return
	}

	outstanding, err := h.service.GetOutstanding(r.Context(), loanID)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, outstanding)
}

func (h *LoanHandler) ListApprovals(w http.ResponseWriter, r *http.Request) {
	loanID, err := pathID(r, "loanId")
	if err != nil {
		response.FromError(w, err)
		return
	}

	approvals, err := h.service.ListApprovals(r.Context(), loanID)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, approvals)
}
