package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for propagation decisions.
type Kind string

const (
	KindValidation     Kind = "VALIDATION"
	KindNotFound       Kind = "NOT_FOUND"
	KindInactive       Kind = "INACTIVE"
	KindExternal       Kind = "EXTERNAL_SERVICE"
	KindIdempotentNoOp Kind = "IDEMPOTENT_NOOP"
	KindAuth           Kind = "AUTH"
	KindRateLimit      Kind = "RATE_LIMIT"
	KindInternal       Kind = "INTERNAL"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	Kind       Kind   `json:"-"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches AppErrors by code, so sentinel values work with errors.Is.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// New creates a new AppError.
func New(code string, kind Kind, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Kind:       kind,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, kind Kind, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Kind:       kind,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// KindOf returns the Kind of err, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// IsKind reports whether err is an AppError of the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// ErrAlreadyProcessed is returned when a reconciliation hits an entry that was
// already finalized. It is a success signal, not a failure.
var ErrAlreadyProcessed = New("IDEM_001", KindIdempotentNoOp, "Already processed", http.StatusOK)

// ---- Validation (VAL) ----

// Validation returns a VAL_001 validation error.
func Validation(message string) *AppError {
	return New("VAL_001", KindValidation, message, http.StatusBadRequest)
}

func ErrInvalidAmount() *AppError {
	return New("VAL_003", KindValidation, "Invalid amount", http.StatusBadRequest)
}

func ErrChanceSumOutOfTolerance(sum float64) *AppError {
	return New("VAL_002", KindValidation, fmt.Sprintf("Chance sum %.4f is not within 0.01 of 100", sum), http.StatusBadRequest)
}

func ErrInsufficientFunds() *AppError {
	return New("PAY_001", KindValidation, "Insufficient balance", http.StatusPaymentRequired)
}

func ErrAmountBelowMinimum(minimum int64) *AppError {
	return New("PAY_002", KindValidation, fmt.Sprintf("Amount is below the provider minimum of %d", minimum), http.StatusBadRequest)
}

// ---- Resources (RES) ----

func ErrNotFound(entity string) *AppError {
	return New("RES_001", KindNotFound, fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

func ErrInactive(entity string) *AppError {
	return New("RES_002", KindInactive, fmt.Sprintf("%s is not active", entity), http.StatusConflict)
}

// ---- External services (EXT) ----

func ErrExternalService(service string, err error) *AppError {
	return Wrap("EXT_001", KindExternal, fmt.Sprintf("%s is unavailable", service), http.StatusBadGateway, err)
}

// ---- Authentication (AUTH) ----

func ErrInvalidToken() *AppError {
	return New("AUTH_001", KindAuth, "Invalid or expired token", http.StatusUnauthorized)
}

func ErrForbidden() *AppError {
	return New("AUTH_002", KindAuth, "Insufficient permissions", http.StatusForbidden)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", KindRateLimit, "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", KindInternal, "Internal server error", http.StatusInternalServerError, err)
}

// ErrIntegrity signals a broken balance invariant. It must be alerted on, never corrected.
func ErrIntegrity(err error) *AppError {
	return Wrap("SYS_002", KindInternal, "Integrity fault", http.StatusInternalServerError, err)
}
