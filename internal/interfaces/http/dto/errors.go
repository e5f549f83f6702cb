package dto

import (
	"net/http"
	"strings"
)

// API error codes returned in ErrorInfo.Code
const (
	ErrCodeInternal = "ERR_INTERNAL"

	// request shape
	ErrCodeValidation   = "ERR_VALIDATION"
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON  = "ERR_INVALID_JSON"

	// identity
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeForbidden    = "ERR_FORBIDDEN"
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
	ErrCodeRateLimited  = "ERR_RATE_LIMITED"

	// records
	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
	ErrCodeLocked              = "ERR_LOCKED"

	// reconciliation rules
	ErrCodeInvalidState    = "ERR_INVALID_STATE"
	ErrCodeBusinessRule    = "ERR_BUSINESS_RULE"
	ErrCodeLeaseOverlap    = "ERR_LEASE_OVERLAP"
	ErrCodeUnbalancedEntry = "ERR_UNBALANCED_ENTRY"
	ErrCodeAccountInactive = "ERR_ACCOUNT_INACTIVE"
)

// ErrorCodeHTTPStatus is the status each API error code is answered with.
// Rule violations are 422; collisions with other writers are 409.
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeRateLimited:  http.StatusTooManyRequests,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,
	ErrCodeLocked:              http.StatusConflict,
	ErrCodeLeaseOverlap:        http.StatusConflict,

	ErrCodeInvalidState:    http.StatusUnprocessableEntity,
	ErrCodeBusinessRule:    http.StatusUnprocessableEntity,
	ErrCodeUnbalancedEntry: http.StatusUnprocessableEntity,
	ErrCodeAccountInactive: http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the status for an API error code, 500 when unknown
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping holds the domain codes that need an explicit API
// code. NormalizeErrorCode covers the *_NOT_FOUND, ALREADY_* and INVALID_*
// families by pattern.
var DomainErrorCodeMapping = map[string]string{
	"ALREADY_EXISTS":       ErrCodeAlreadyExists,
	"EMPTY_ENTRY":          ErrCodeBusinessRule,
	"UNBALANCED_ENTRY":     ErrCodeUnbalancedEntry,
	"ACCOUNT_INACTIVE":     ErrCodeAccountInactive,
	"LEASE_OVERLAP":        ErrCodeLeaseOverlap,
	"UNAUTHORIZED":         ErrCodeUnauthorized,
	"FORBIDDEN":            ErrCodeForbidden,
	"CONCURRENCY_CONFLICT": ErrCodeConcurrencyConflict,
	"LOCK_NOT_ACQUIRED":    ErrCodeLocked,
	"UNKNOWN_ENTITY_TYPE":  ErrCodeInvalidInput,
}

// NormalizeErrorCode converts a domain error code to its API code. Codes
// already in API form and unknown codes are returned unchanged.
func NormalizeErrorCode(code string) string {
	if apiCode, ok := DomainErrorCodeMapping[code]; ok {
		return apiCode
	}
	switch {
	case strings.HasPrefix(code, "ERR_"):
		return code
	case code == "NOT_FOUND" || strings.HasSuffix(code, "_NOT_FOUND"):
		return ErrCodeNotFound
	case code == "INVALID_STATE" || strings.HasPrefix(code, "ALREADY_"):
		return ErrCodeInvalidState
	case strings.HasPrefix(code, "INVALID_"):
		return ErrCodeInvalidInput
	}
	return code
}
