package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/loan-engine/internal/domain"
	"github.com/segyhp/loan-engine/internal/mocks"
	"github.com/segyhp/loan-engine/internal/service"
	customError "github.com/segyhp/loan-engine/pkg/errors"
	"github.com/segyhp/loan-engine/pkg/response"
)

func newLoanRouter(svc *mocks.MockLoanService) *mux.Router {
	router := mux.NewRouter()
	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(UserIDMiddleware)
	NewLoanHandler(svc).Register(api)
	return router
}

func serve(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(UserIDHeader, "42")
	return req
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) response.ErrorResponse {
	t.Helper()
	var body response.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// actorIs matches a context carrying the given user id.
func actorIs(id int64) interface{} {
	return mock.MatchedBy(func(ctx context.Context) bool {
		got, err := service.ActorFromContext(ctx)
		return err == nil && got == id
	})
}

func TestLoanHandler_CreateLoan(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMock      func(*mocks.MockLoanService)
		expectedStatus int
		expectedCode   string
	}{
		{
			name: "created",
			body: `{"customer_id":7,"loan_type":1,"loan_amount":"100000","loan_duration":12,"interest_rate":"20","facilitybranch_id":3}`,
			setupMock: func(svc *mocks.MockLoanService) {
				svc.On("CreateLoan", actorIs(42), mock.MatchedBy(func(req *domain.CreateLoanRequest) bool {
					return req.CustomerID == 7 && req.LoanAmount.Equal(decimal.NewFromInt(100000)) && req.ApplicationForm == nil
				})).Return(&domain.Loan{ID: 1, CustomerID: 7, Stage: domain.StageApplication}, nil).Once()
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "malformed json",
			body:           `{"customer_id":`,
			setupMock:      func(*mocks.MockLoanService) {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   customError.ErrMalformedRequest.Error(),
		},
		{
			name:           "unknown field",
			body:           `{"customer":7}`,
			setupMock:      func(*mocks.MockLoanService) {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   customError.ErrMalformedRequest.Error(),
		},
		{
			name: "customer already has a loan",
			body: `{"customer_id":7,"loan_type":1,"loan_amount":"100000","loan_duration":12,"interest_rate":"20","facilitybranch_id":3}`,
			setupMock: func(svc *mocks.MockLoanService) {
				svc.On("CreateLoan", mock.Anything, mock.Anything).
					Return(nil, customError.Conflict("customer 7 already has an active loan", customError.ErrActiveLoanExists)).Once()
			},
			expectedStatus: http.StatusConflict,
			expectedCode:   customError.ErrCodeConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mocks.MockLoanService{}
			tt.setupMock(svc)

			w := serve(newLoanRouter(svc), jsonRequest(http.MethodPost, "/api/v1/loans", tt.body))

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedCode != "" {
				assert.Equal(t, tt.expectedCode, decodeError(t, w).Error)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestLoanHandler_CreateLoan_Multipart(t *testing.T) {
	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	require.NoError(t, form.WriteField("payload",
		`{"customer_id":7,"loan_type":1,"loan_amount":"5000","loan_duration":6,"interest_rate":"10","facilitybranch_id":3}`))
	part, err := form.CreateFormFile("application_form", "form.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.7"))
	require.NoError(t, err)
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/loans", &body)
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set(UserIDHeader, "42")

	svc := &mocks.MockLoanService{}
	svc.On("CreateLoan", mock.Anything, mock.MatchedBy(func(r *domain.CreateLoanRequest) bool {
		return r.ApplicationForm != nil &&
			r.ApplicationForm.FileName == "form.pdf" &&
			string(r.ApplicationForm.Data) == "%PDF-1.7" &&
			r.LoanDuration == 6
	})).Return(&domain.Loan{ID: 2}, nil).Once()

	w := serve(newLoanRouter(svc), req)

	assert.Equal(t, http.StatusCreated, w.Code)
	svc.AssertExpectations(t)
}

func TestLoanHandler_NextWithCollateral(t *testing.T) {
	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	require.NoError(t, form.WriteField("payload", `{"guarantors":[{"guarantor_id":8},{"guarantor_id":9}]}`))
	part, err := form.CreateFormFile("collateral_1", "deed.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("deed"))
	require.NoError(t, err)
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/loans/5/next", &body)
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set(UserIDHeader, "42")

	svc := &mocks.MockLoanService{}
	svc.On("Next", mock.Anything, int64(5), mock.MatchedBy(func(r *domain.NextRequest) bool {
		return len(r.Guarantors) == 2 &&
			r.Guarantors[0].Collateral == nil &&
			r.Guarantors[1].Collateral != nil &&
			r.Guarantors[1].Collateral.FileName == "deed.pdf"
	})).Return(&domain.Loan{ID: 5, Stage: domain.StageSubmitted}, nil).Once()

	w := serve(newLoanRouter(svc), req)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestLoanHandler_MultipartTempFilesRemoved(t *testing.T) {
	large := bytes.Repeat([]byte("x"), maxFormMemory+1)

	tests := []struct {
		name    string
		path    string
		payload string
		field   string
		expect  func(svc *mocks.MockLoanService)
	}{
		{
			name:    "create loan",
			path:    "/api/v1/loans",
			payload: `{"customer_id":7,"loan_type":1,"loan_amount":"5000","loan_duration":6,"interest_rate":"10","facilitybranch_id":3}`,
			field:   "application_form",
			expect: func(svc *mocks.MockLoanService) {
				svc.On("CreateLoan", mock.Anything, mock.MatchedBy(func(r *domain.CreateLoanRequest) bool {
					return r.ApplicationForm != nil && len(r.ApplicationForm.Data) == len(large)
				})).Return(&domain.Loan{ID: 2}, nil).Once()
			},
		},
		{
			name:    "next",
			path:    "/api/v1/loans/5/next",
			payload: `{"guarantors":[{"guarantor_id":8}]}`,
			field:   "collateral_0",
			expect: func(svc *mocks.MockLoanService) {
				svc.On("Next", mock.Anything, int64(5), mock.MatchedBy(func(r *domain.NextRequest) bool {
					return len(r.Guarantors) == 1 && r.Guarantors[0].Collateral != nil &&
						len(r.Guarantors[0].Collateral.Data) == len(large)
				})).Return(&domain.Loan{ID: 5}, nil).Once()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spill := t.TempDir()
			t.Setenv("TMPDIR", spill)

			var body bytes.Buffer
			form := multipart.NewWriter(&body)
			require.NoError(t, form.WriteField("payload", tt.payload))
			part, err := form.CreateFormFile(tt.field, "scan.pdf")
			require.NoError(t, err)
			_, err = part.Write(large)
			require.NoError(t, err)
			require.NoError(t, form.Close())

			req := httptest.NewRequest(http.MethodPost, tt.path, &body)
			req.Header.Set("Content-Type", form.FormDataContentType())
			req.Header.Set(UserIDHeader, "42")

			svc := &mocks.MockLoanService{}
			tt.expect(svc)

			w := serve(newLoanRouter(svc), req)

			require.Less(t, w.Code, 300)
			svc.AssertExpectations(t)
			left, err := os.ReadDir(spill)
			require.NoError(t, err)
			assert.Empty(t, left)
		})
	}
}

func TestLoanHandler_NextWithoutBody(t *testing.T) {
	svc := &mocks.MockLoanService{}
	svc.On("Next", mock.Anything, int64(5), &domain.NextRequest{}).
		Return(&domain.Loan{ID: 5, Stage: domain.StageDocumentation}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/loans/5/next", nil)
	req.Header.Set(UserIDHeader, "42")
	w := serve(newLoanRouter(svc), req)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestLoanHandler_Approve_ErrorMapping(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
		expectedMsg    string
	}{
		{"wrong stage", customError.WrapInvalidStage(5, 7, "approve"), http.StatusConflict, customError.ErrCodeInvalidStage, "Cannot approve loan 5 at stage 7"},
		{"missing approval", customError.WrapApprovalNotFound(5, 4), http.StatusInternalServerError, customError.ErrCodeApprovalMissing, "operation failed, please retry"},
		{"unknown loan", customError.WrapLoanNotFound(5), http.StatusNotFound, customError.ErrCodeNotFound, "Loan with ID 5 not found"},
		{"no actor", customError.ErrUnauthenticatedRequest, http.StatusUnauthorized, customError.ErrUnauthenticatedRequest.Error(), customError.ErrUnauthenticatedRequest.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mocks.MockLoanService{}
			svc.On("Approve", mock.Anything, int64(5), &domain.ApproveRequest{Remarks: "looks fine"}).Return(nil, tt.err).Once()

			w := serve(newLoanRouter(svc), jsonRequest(http.MethodPost, "/api/v1/loans/5/approve", `{"remarks":"looks fine"}`))

			assert.Equal(t, tt.expectedStatus, w.Code)
			body := decodeError(t, w)
			assert.Equal(t, tt.expectedCode, body.Error)
			assert.Equal(t, tt.expectedMsg, body.Message)
		})
	}
}

func TestLoanHandler_Repay(t *testing.T) {
	svc := &mocks.MockLoanService{}
	svc.On("Repay", actorIs(42), int64(5), mock.MatchedBy(func(r *domain.RepaymentRequest) bool {
		return r.Amount.Equal(decimal.NewFromInt(50000)) && r.PaymentTypeID == 1
	})).Return(&domain.RepaymentResult{
		Repayment: &domain.Repayment{BalanceAfter: decimal.NewFromInt(70000)},
		Allocation: domain.RepaymentAllocation{
			InterestDue:      decimal.NewFromInt(20000),
			PrincipalPayment: decimal.NewFromInt(30000),
		},
	}, nil).Once()

	w := serve(newLoanRouter(svc), jsonRequest(http.MethodPost, "/api/v1/loans/5/repayments", `{"amount":"50000","payment_type_id":1}`))

	assert.Equal(t, http.StatusCreated, w.Code)
	var body struct {
		Data domain.RepaymentResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Data.Allocation.InterestDue.Equal(decimal.NewFromInt(20000)))
	assert.True(t, body.Data.Repayment.BalanceAfter.Equal(decimal.NewFromInt(70000)))
}

func TestLoanHandler_Repay_ExceedsBalance(t *testing.T) {
	svc := &mocks.MockLoanService{}
	svc.On("Repay", mock.Anything, int64(5), mock.Anything).
		Return(nil, customError.WrapAmountExceedsBalance("150000.00", "120000.00")).Once()

	w := serve(newLoanRouter(svc), jsonRequest(http.MethodPost, "/api/v1/loans/5/repayments", `{"amount":"150000","payment_type_id":1}`))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, customError.ErrCodeAmountExceedsBalance, decodeError(t, w).Error)
}

func TestLoanHandler_InvalidPathID(t *testing.T) {
	svc := &mocks.MockLoanService{}

	w := serve(newLoanRouter(svc), jsonRequest(http.MethodGet, "/api/v1/loans/abc/outstanding", ""))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "GetOutstanding", mock.Anything, mock.Anything)
}

func TestLoanHandler_GetOutstanding(t *testing.T) {
	svc := &mocks.MockLoanService{}
	svc.On("GetOutstanding", mock.Anything, int64(9)).
		Return(&domain.OutstandingResponse{LoanID: 9, Outstanding: decimal.NewFromInt(70000)}, nil).Once()

	w := serve(newLoanRouter(svc), jsonRequest(http.MethodGet, "/api/v1/loans/9/outstanding", ""))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"outstanding":"70000"`)
}

func TestUserIDMiddleware(t *testing.T) {
	svc := &mocks.MockLoanService{}
	svc.On("Back", mock.MatchedBy(func(ctx context.Context) bool {
		_, err := service.ActorFromContext(ctx)
		return err != nil
	}), int64(3)).Return(nil, customError.ErrUnauthenticatedRequest).Once()
	router := newLoanRouter(svc)

	anonymous := httptest.NewRequest(http.MethodPost, "/api/v1/loans/3/back", nil)
	assert.Equal(t, http.StatusUnauthorized, serve(router, anonymous).Code)

	bad := httptest.NewRequest(http.MethodPost, "/api/v1/loans/3/back", nil)
	bad.Header.Set(UserIDHeader, "-4")
	assert.Equal(t, http.StatusBadRequest, serve(router, bad).Code)

	svc.AssertExpectations(t)
}
