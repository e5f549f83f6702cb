package handler

import "github.com/rukibhamz/erpsolution-sub000/internal/interfaces/http/dto"

// APIResponse represents a generic API response for OpenAPI documentation
// @Description Standard API response wrapper with typed data field
type APIResponse[T any] struct {
	Success bool           `json:"success"`
	Data    T              `json:"data,omitempty"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
}

// ErrorResponse represents an error API response for OpenAPI documentation
// @Description Standard error response
type ErrorResponse struct {
	Success bool           `json:"success" example:"false"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
}

// TransactionResult documents a transaction workflow result
// @Description Workflow result carrying the transaction on success
type TransactionResult struct {
	Success  bool                     `json:"success"`
	Value    *dto.TransactionResponse `json:"value,omitempty"`
	Errors   []string                 `json:"errors"`
	Warnings []string                 `json:"warnings"`
}

// JournalEntryResult documents a journal entry workflow result
// @Description Workflow result carrying the journal entry on success
type JournalEntryResult struct {
	Success  bool                      `json:"success"`
	Value    *dto.JournalEntryResponse `json:"value,omitempty"`
	Errors   []string                  `json:"errors"`
	Warnings []string                  `json:"warnings"`
}

// LeaseResult documents a lease workflow result
// @Description Workflow result carrying the lease and its property on success
type LeaseResult struct {
	Success  bool                           `json:"success"`
	Value    *dto.LeaseWithPropertyResponse `json:"value,omitempty"`
	Errors   []string                       `json:"errors"`
	Warnings []string                       `json:"warnings"`
}

// ValidationResult documents a lease validation result
// @Description Validation result; success=false lists the violated rules
type ValidationResult struct {
	Success  bool     `json:"success"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}
