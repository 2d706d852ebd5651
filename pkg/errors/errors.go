package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a business error for propagation and transport mapping.
type Kind string

const (
	KindValidation         Kind = "validation"
	KindPreconditionFailed Kind = "precondition_failed"
	KindNotFound           Kind = "not_found"
	KindConflict           Kind = "conflict"
	KindConsistency        Kind = "consistency"
	KindStorage            Kind = "storage"
	KindInternal           Kind = "internal"
)

// Domain errors
var (
	ErrLoanNotFound           = errors.New("loan not found")
	ErrApprovalNotFound       = errors.New("pending approval not found")
	ErrMappingNotFound        = errors.New("chart of account mapping not found")
	ErrMappingAlreadyExists   = errors.New("chart of account mapping already exists")
	ErrAccountNotFound        = errors.New("account not found")
	ErrAccountInactive        = errors.New("account is inactive")
	ErrDuplicateAccountCode   = errors.New("account code already exists")
	ErrPaymentTypeNotFound    = errors.New("payment type not found")
	ErrCustomerNotFound       = errors.New("customer not found")
	ErrSavingNotFound         = errors.New("saving not found")
	ErrJournalEntryNotFound   = errors.New("journal entry not found")
	ErrInvalidAmount          = errors.New("invalid amount")
	ErrAmountExceedsBalance   = errors.New("amount exceeds outstanding balance")
	ErrInsufficientSavings    = errors.New("insufficient savings balance")
	ErrInvalidStage           = errors.New("operation not allowed at current stage")
	ErrActiveLoanExists       = errors.New("customer already has an active loan")
	ErrJournalUnbalanced      = errors.New("journal entry does not balance")
	ErrJournalLineInvalid     = errors.New("journal entry line is invalid")
	ErrFileStorage            = errors.New("file storage failed")
	ErrNoGuarantors           = errors.New("at least one guarantor is required")
	ErrMalformedRequest       = errors.New("malformed request")
	ErrUnauthenticatedRequest = errors.New("missing authenticated user")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Kind    Kind
	Code    string
	Message string
	Fields  map[string]string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(kind Kind, code, message string, err error) *BusinessError {
	return &BusinessError{
		Kind:    kind,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeValidation           = "VALIDATION_FAILED"
	ErrCodeInvalidAmount        = "INVALID_AMOUNT"
	ErrCodeAmountExceedsBalance = "AMOUNT_EXCEEDS_BALANCE"
	ErrCodeInsufficientSavings  = "INSUFFICIENT_SAVINGS"
	ErrCodeInvalidStage         = "INVALID_STAGE"
	ErrCodeNotFound             = "NOT_FOUND"
	ErrCodeConflict             = "CONFLICT"
	ErrCodeApprovalMissing      = "APPROVAL_MISSING"
	ErrCodeMappingMissing       = "MAPPING_MISSING"
	ErrCodeJournalUnbalanced    = "JOURNAL_UNBALANCED"
	ErrCodeFileStorage          = "FILE_STORAGE_ERROR"
	ErrCodeDatabaseError        = "DATABASE_ERROR"
	ErrCodeCacheError           = "CACHE_ERROR"
)

func Validation(message string, err error) *BusinessError {
	return NewBusinessError(KindValidation, ErrCodeValidation, message, err)
}

// ValidationFields builds a validation error carrying per-field messages.
func ValidationFields(fields map[string]string) *BusinessError {
	e := NewBusinessError(KindValidation, ErrCodeValidation, "request validation failed", nil)
	e.Fields = fields
	return e
}

func PreconditionFailed(message string) *BusinessError {
	return NewBusinessError(KindPreconditionFailed, ErrCodeInvalidStage, message, ErrInvalidStage)
}

func NotFound(message string, err error) *BusinessError {
	return NewBusinessError(KindNotFound, ErrCodeNotFound, message, err)
}

func Conflict(message string, err error) *BusinessError {
	return NewBusinessError(KindConflict, ErrCodeConflict, message, err)
}

func Consistency(code, message string, err error) *BusinessError {
	return NewBusinessError(KindConsistency, code, message, err)
}

func Storage(message string, err error) *BusinessError {
	return NewBusinessError(KindStorage, ErrCodeFileStorage, message, errors.Join(ErrFileStorage, err))
}

// Wrap common errors with business context
func WrapLoanNotFound(loanID int64) *BusinessError {
	return NotFound(fmt.Sprintf("Loan with ID %d not found", loanID), ErrLoanNotFound)
}

func WrapApprovalNotFound(loanID int64, stage int) *BusinessError {
	return Consistency(
		ErrCodeApprovalMissing,
		fmt.Sprintf("No pending approval for loan %d at stage %d", loanID, stage),
		ErrApprovalNotFound,
	)
}

func WrapMappingMissing(err error) *BusinessError {
	return Consistency(ErrCodeMappingMissing, "chart of account mapping is not configured", errors.Join(ErrMappingNotFound, err))
}

func WrapInvalidStage(loanID int64, stage int, operation string) *BusinessError {
	return PreconditionFailed(fmt.Sprintf("Cannot %s loan %d at stage %d", operation, loanID, stage))
}

func WrapAmountExceedsBalance(amount, outstanding string) *BusinessError {
	return NewBusinessError(
		KindValidation,
		ErrCodeAmountExceedsBalance,
		fmt.Sprintf("Amount %s exceeds outstanding balance %s", amount, outstanding),
		ErrAmountExceedsBalance,
	)
}

func WrapInsufficientSavings(amount, balance string) *BusinessError {
	return NewBusinessError(
		KindValidation,
		ErrCodeInsufficientSavings,
		fmt.Sprintf("Withdrawal %s exceeds savings balance %s", amount, balance),
		ErrInsufficientSavings,
	)
}

func WrapInvalidAmount(amount string) *BusinessError {
	return NewBusinessError(
		KindValidation,
		ErrCodeInvalidAmount,
		fmt.Sprintf("Invalid amount: %s", amount),
		ErrInvalidAmount,
	)
}

func WrapJournalUnbalanced(debits, credits string) *BusinessError {
	return Consistency(
		ErrCodeJournalUnbalanced,
		fmt.Sprintf("debits %s do not equal credits %s", debits, credits),
		ErrJournalUnbalanced,
	)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		KindInternal,
		ErrCodeDatabaseError,
		"database operation failed",
		err,
	)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(
		KindInternal,
		ErrCodeCacheError,
		"Cache operation failed",
		err,
	)
}

// KindOf reports the kind of err. Errors that are not business errors are internal.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Kind
	}
	return KindInternal
}

// IsKind reports whether err is a business error of the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// HTTPStatus maps an error to the status code returned to API callers.
func HTTPStatus(err error) int {
	if errors.Is(err, ErrMalformedRequest) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrUnauthenticatedRequest) {
		return http.StatusUnauthorized
	}
	switch KindOf(err) {
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindNotFound:
		return http.StatusNotFound
	case KindPreconditionFailed, KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage is the message safe to show to an API caller. Consistency,
// storage and internal failures collapse to a generic retry message.
func PublicMessage(err error) string {
	var be *BusinessError
	if !errors.As(err, &be) {
		return "operation failed, please retry"
	}
	switch be.Kind {
	case KindConsistency, KindStorage, KindInternal:
		return "operation failed, please retry"
	}
	return be.Message
}
