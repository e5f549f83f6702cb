package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/rukibhamz/erpsolution-sub000/internal/domain/ledger"
	"github.com/rukibhamz/erpsolution-sub000/internal/domain/property"
	"github.com/rukibhamz/erpsolution-sub000/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// RunAuditRequest is the body of POST /audit
type RunAuditRequest struct {
	DryRun bool `json:"dry_run" example:"false"`
}

// ListQuery holds the paging, sorting and search parameters of list endpoints
type ListQuery struct {
	Page     int    `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100" example:"20"`
	OrderBy  string `form:"order_by" binding:"omitempty,max=50" example:"code"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc" example:"asc"`
	Search   string `form:"search" binding:"max=100"`
}

func (q ListQuery) filter() shared.Filter {
	return shared.Filter{
		Page:     q.Page,
		PageSize: q.PageSize,
		OrderBy:  q.OrderBy,
		OrderDir: q.OrderDir,
		Search:   q.Search,
		Equals:   make(map[string]any),
	}
}

// PropertyListQuery is the query of GET /properties
type PropertyListQuery struct {
	ListQuery
	Status   string `form:"status" binding:"omitempty,oneof=available occupied maintenance unavailable"`
	IsActive *bool  `form:"is_active"`
}

// Filter converts the query to a repository filter
func (q PropertyListQuery) Filter() shared.Filter {
	f := q.ListQuery.filter()
	if q.Status != "" {
		f.Equals["status"] = q.Status
	}
	if q.IsActive != nil {
		f.Equals["is_active"] = *q.IsActive
	}
	return f
}

// AccountListQuery is the query of GET /accounts
type AccountListQuery struct {
	ListQuery
	AccountType string `form:"account_type" binding:"omitempty,oneof=asset liability equity revenue income expense"`
	IsActive    *bool  `form:"is_active"`
}

// Filter converts the query to a repository filter. "income" is stored as revenue.
func (q AccountListQuery) Filter() shared.Filter {
	f := q.ListQuery.filter()
	if q.AccountType != "" {
		if t, err := ledger.ParseAccountType(q.AccountType); err == nil {
			f.Equals["account_type"] = string(t)
		}
	}
	if q.IsActive != nil {
		f.Equals["is_active"] = *q.IsActive
	}
	return f
}

// LeaseRequest is the body of POST /leases and POST /leases/validate
type LeaseRequest struct {
	PropertyID      string          `json:"property_id" binding:"required,uuid" example:"5f0c9a64-8a53-4a39-9a3c-0d2d3b1f0e11"`
	LesseeName      string          `json:"lessee_name" binding:"required,notblank,max=200" example:"Ada Obi"`
	StartDate       time.Time       `json:"start_date" binding:"required" example:"2024-04-01T00:00:00Z"`
	EndDate         time.Time       `json:"end_date" binding:"required" example:"2025-03-31T00:00:00Z"`
	MonthlyRent     decimal.Decimal `json:"monthly_rent" binding:"money" swaggertype:"string" example:"1500.00"`
	SecurityDeposit decimal.Decimal `json:"security_deposit" binding:"money" swaggertype:"string" example:"3000.00"`
	Notes           string          `json:"notes" binding:"max=2000"`
}

// ReasonRequest carries the optional reason for reject, cancel and terminate
type ReasonRequest struct {
	Reason string `json:"reason" binding:"max=500" example:"Duplicate entry"`
}

// ResultResponse renders a workflow result: business-rule failures are in
// Errors with success=false, never an HTTP error.
type ResultResponse struct {
	Success  bool     `json:"success"`
	Value    any      `json:"value,omitempty"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// NewResultResponse converts a workflow result, mapping its value with fn.
// fn is only called for successful results.
func NewResultResponse[V any](r *shared.Result[V], fn func(V) any) ResultResponse {
	resp := ResultResponse{
		Success:  r.Success(),
		Errors:   r.Errors,
		Warnings: r.Warnings,
	}
	if resp.Errors == nil {
		resp.Errors = []string{}
	}
	if resp.Warnings == nil {
		resp.Warnings = []string{}
	}
	if r.Success() && fn != nil {
		resp.Value = fn(r.Value)
	}
	return resp
}

// PropertyResponse is the API view of a property
type PropertyResponse struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	IsActive  bool      `json:"is_active"`
	BaseRent  string    `json:"base_rent"`
	Version   int       `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToPropertyResponse maps a property; nil maps to nil
func ToPropertyResponse(p *property.Property) *PropertyResponse {
	if p == nil {
		return nil
	}
	return &PropertyResponse{
		ID:        p.ID,
		Code:      p.Code,
		Name:      p.Name,
		Status:    string(p.Status),
		IsActive:  p.IsActive,
		BaseRent:  p.BaseRent.StringFixed(2),
		Version:   p.Version,
		UpdatedAt: p.UpdatedAt,
	}
}

// PropertyStateResponse is a property listing row
type PropertyStateResponse struct {
	*PropertyResponse
	// StatusConsistent is false when the status disagrees with lease state
	StatusConsistent bool `json:"status_consistent"`
}

// AccountBalanceResponse is an account listing row with a read-only recompute
type AccountBalanceResponse struct {
	ID                uuid.UUID `json:"id"`
	Code              string    `json:"code"`
	Name              string    `json:"name"`
	AccountType       string    `json:"account_type"`
	IsActive          bool      `json:"is_active"`
	OpeningBalance    string    `json:"opening_balance"`
	CurrentBalance    string    `json:"current_balance"`
	RecomputedBalance string    `json:"recomputed_balance"`
	Drifted           bool      `json:"drifted"`
	Version           int       `json:"version"`
}

// ToAccountBalanceResponse maps an account together with its recomputed balance
func ToAccountBalanceResponse(a *ledger.Account, recomputed decimal.Decimal, drifted bool) *AccountBalanceResponse {
	return &AccountBalanceResponse{
		ID:                a.ID,
		Code:              a.Code,
		Name:              a.Name,
		AccountType:       string(a.AccountType),
		IsActive:          a.IsActive,
		OpeningBalance:    a.OpeningBalance.StringFixed(2),
		CurrentBalance:    a.CurrentBalance.StringFixed(2),
		RecomputedBalance: recomputed.StringFixed(2),
		Drifted:           drifted,
		Version:           a.Version,
	}
}

// LeaseResponse is the API view of a lease
type LeaseResponse struct {
	ID              uuid.UUID  `json:"id"`
	PropertyID      uuid.UUID  `json:"property_id"`
	LesseeName      string     `json:"lessee_name"`
	Status          string     `json:"status"`
	StartDate       time.Time  `json:"start_date"`
	EndDate         time.Time  `json:"end_date"`
	MonthlyRent     string     `json:"monthly_rent"`
	SecurityDeposit string     `json:"security_deposit"`
	Notes           string     `json:"notes,omitempty"`
	ExpiredAt       *time.Time `json:"expired_at,omitempty"`
	TerminatedAt    *time.Time `json:"terminated_at,omitempty"`
	Version         int        `json:"version"`
}

// ToLeaseResponse maps a lease; nil maps to nil
func ToLeaseResponse(l *property.Lease) *LeaseResponse {
	if l == nil {
		return nil
	}
	return &LeaseResponse{
		ID:              l.ID,
		PropertyID:      l.PropertyID,
		LesseeName:      l.LesseeName,
		Status:          string(l.Status),
		StartDate:       l.StartDate,
		EndDate:         l.EndDate,
		MonthlyRent:     l.MonthlyRent.StringFixed(2),
		SecurityDeposit: l.SecurityDeposit.StringFixed(2),
		Notes:           l.Notes,
		ExpiredAt:       l.ExpiredAt,
		TerminatedAt:    l.TerminatedAt,
		Version:         l.Version,
	}
}

// LeaseWithPropertyResponse is returned by lease create and terminate
type LeaseWithPropertyResponse struct {
	Lease    *LeaseResponse    `json:"lease"`
	Property *PropertyResponse `json:"property,omitempty"`
}

// ApprovalResponse holds the approval audit columns
type ApprovalResponse struct {
	ApprovedBy  *uuid.UUID `json:"approved_by,omitempty"`
	ApprovedAt  *time.Time `json:"approved_at,omitempty"`
	RejectedBy  *uuid.UUID `json:"rejected_by,omitempty"`
	RejectedAt  *time.Time `json:"rejected_at,omitempty"`
	CancelledBy *uuid.UUID `json:"cancelled_by,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
}

func toApprovalResponse(a ledger.Approval) ApprovalResponse {
	return ApprovalResponse{
		ApprovedBy:  a.ApprovedBy,
		ApprovedAt:  a.ApprovedAt,
		RejectedBy:  a.RejectedBy,
		RejectedAt:  a.RejectedAt,
		CancelledBy: a.CancelledBy,
		CancelledAt: a.CancelledAt,
	}
}

// TransactionResponse is the API view of a transaction
type TransactionResponse struct {
	ApprovalResponse
	ID              uuid.UUID  `json:"id"`
	AccountID       uuid.UUID  `json:"account_id"`
	ToAccountID     *uuid.UUID `json:"to_account_id,omitempty"`
	Type            string     `json:"transaction_type"`
	Amount          string     `json:"amount"`
	TransactionDate time.Time  `json:"transaction_date"`
	Description     string     `json:"description,omitempty"`
	Reference       string     `json:"reference,omitempty"`
	Status          string     `json:"status"`
	Notes           string     `json:"notes,omitempty"`
	Version         int        `json:"version"`
}

// ToTransactionResponse maps a transaction; nil maps to nil
func ToTransactionResponse(t *ledger.Transaction) *TransactionResponse {
	if t == nil {
		return nil
	}
	return &TransactionResponse{
		ApprovalResponse: toApprovalResponse(t.Approval),
		ID:               t.ID,
		AccountID:        t.AccountID,
		ToAccountID:      t.ToAccountID,
		Type:             string(t.Type),
		Amount:           t.Amount.StringFixed(2),
		TransactionDate:  t.TransactionDate,
		Description:      t.Description,
		Reference:        t.Reference,
		Status:           string(t.Status),
		Notes:            t.Notes,
		Version:          t.Version,
	}
}

// JournalEntryItemResponse is one debit/credit line
type JournalEntryItemResponse struct {
	AccountID uuid.UUID `json:"account_id"`
	Debit     string    `json:"debit"`
	Credit    string    `json:"credit"`
	Memo      string    `json:"memo,omitempty"`
}

// JournalEntryResponse is the API view of a journal entry
type JournalEntryResponse struct {
	ApprovalResponse
	ID          uuid.UUID                  `json:"id"`
	EntryNumber string                     `json:"entry_number"`
	EntryDate   time.Time                  `json:"entry_date"`
	Description string                     `json:"description,omitempty"`
	Status      string                     `json:"status"`
	TotalDebit  string                     `json:"total_debit"`
	TotalCredit string                     `json:"total_credit"`
	Items       []JournalEntryItemResponse `json:"items"`
	Version     int                        `json:"version"`
}

// ToJournalEntryResponse maps a journal entry; nil maps to nil
func ToJournalEntryResponse(j *ledger.JournalEntry) *JournalEntryResponse {
	if j == nil {
		return nil
	}
	items := make([]JournalEntryItemResponse, len(j.Items))
	for i, it := range j.Items {
		items[i] = JournalEntryItemResponse{
			AccountID: it.AccountID,
			Debit:     it.Debit.StringFixed(2),
			Credit:    it.Credit.StringFixed(2),
			Memo:      it.Memo,
		}
	}
	return &JournalEntryResponse{
		ApprovalResponse: toApprovalResponse(j.Approval),
		ID:               j.ID,
		EntryNumber:      j.EntryNumber,
		EntryDate:        j.EntryDate,
		Description:      j.Description,
		Status:           string(j.Status),
		TotalDebit:       j.TotalDebit().StringFixed(2),
		TotalCredit:      j.TotalCredit().StringFixed(2),
		Items:            items,
		Version:          j.Version,
	}
}
