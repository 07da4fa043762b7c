package apperrors

import (
	"errors"
	"fmt"
	"net/http"

	"gorm.io/gorm"
)

// Code classifies the recoverable failure modes of the system. Every code
// maps to a user-facing message and an HTTP status; none is process-fatal.
type Code string

const (
	CodeValidation         Code = "VALIDATION_ERROR"
	CodeInvalidCredentials Code = "INVALID_CREDENTIALS"
	CodeAccountInactive    Code = "ACCOUNT_INACTIVE"
	CodeInsufficientRole   Code = "INSUFFICIENT_ROLE"
	CodeTenantMismatch     Code = "TENANT_MISMATCH"
	CodeTokenNotFound      Code = "TOKEN_NOT_FOUND"
	CodeTokenExpired       Code = "TOKEN_EXPIRED"
	CodeTokenAlreadyUsed   Code = "TOKEN_ALREADY_USED"
	CodeContractInUse      Code = "CONTRACT_IN_USE"
	CodeInvalidTableName   Code = "INVALID_TABLE_NAME"
	CodeDeliveryFailed     Code = "DELIVERY_FAILED"
	CodeNotFound           Code = "NOT_FOUND"
	CodeInternal           Code = "INTERNAL_ERROR"
)

var statusByCode = map[Code]int{
	CodeValidation:         http.StatusBadRequest,
	CodeInvalidCredentials: http.StatusUnauthorized,
	CodeAccountInactive:    http.StatusForbidden,
	CodeInsufficientRole:   http.StatusForbidden,
	CodeTenantMismatch:     http.StatusForbidden,
	CodeTokenNotFound:      http.StatusNotFound,
	CodeTokenExpired:       http.StatusGone,
	CodeTokenAlreadyUsed:   http.StatusConflict,
	CodeContractInUse:      http.StatusConflict,
	CodeInvalidTableName:   http.StatusBadRequest,
	CodeDeliveryFailed:     http.StatusBadGateway,
	CodeNotFound:           http.StatusNotFound,
	CodeInternal:           http.StatusInternalServerError,
}

type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// Is lets predeclared errors act as sentinels: two *Errors match when their
// codes match, so errors.Is(err, ErrTokenExpired) works on wrapped copies.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

func New(code Code, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func Wrap(code Code, msg string, cause error) *Error {
	return &Error{Code: code, Message: msg, cause: cause}
}

var (
	ErrInvalidCredentials = New(CodeInvalidCredentials, "invalid email or password")
	ErrAccountInactive    = New(CodeAccountInactive, "account is inactive")
	ErrInsufficientRole   = New(CodeInsufficientRole, "administrator role required")
	ErrTenantMismatch     = New(CodeTenantMismatch, "record belongs to another client")
	ErrTokenNotFound      = New(CodeTokenNotFound, "token not found")
	ErrTokenExpired       = New(CodeTokenExpired, "token has expired")
	ErrTokenAlreadyUsed   = New(CodeTokenAlreadyUsed, "invitation already used")
	ErrContractInUse      = New(CodeContractInUse, "contract is referenced by general data entries")
	ErrInvalidTableName   = New(CodeInvalidTableName, "table name is not auditable")
	ErrNotFound           = New(CodeNotFound, "record not found")
)

// CodeOf extracts the classification of err, defaulting to INTERNAL_ERROR.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// StatusOf maps err to the HTTP status of its code.
func StatusOf(err error) int {
	if s, ok := statusByCode[CodeOf(err)]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// FromDB translates storage-layer faults into the taxonomy. Duplicate-key
// violations slipping past a uniqueness pre-check (two concurrent creates)
// surface as the same VALIDATION_ERROR shape as the pre-check itself.
func FromDB(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return Wrap(CodeValidation, "value already taken", err)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return Wrap(CodeNotFound, "record not found", err)
	default:
		return err
	}
}
