package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rukibhamz/erpsolution-sub000/internal/application/audit"
	leaseapp "github.com/rukibhamz/erpsolution-sub000/internal/application/lease"
	ledgerapp "github.com/rukibhamz/erpsolution-sub000/internal/application/ledger"
	"github.com/rukibhamz/erpsolution-sub000/internal/domain/ledger"
	"github.com/rukibhamz/erpsolution-sub000/internal/domain/shared"
	"github.com/rukibhamz/erpsolution-sub000/internal/interfaces/http/dto"
)

// AuditHeaderRunID carries the audit run ID next to the unchanged report body
const AuditHeaderRunID = "X-Audit-Run-ID"

// LeaseService is the lease side of the reconciliation core
type LeaseService interface {
	ValidateNewLease(ctx context.Context, c leaseapp.LeaseCandidate) (*shared.Result[struct{}], error)
	CreateLease(ctx context.Context, c leaseapp.LeaseCandidate) (*shared.Result[*leaseapp.LeaseResult], error)
	TerminateLease(ctx context.Context, leaseID uuid.UUID, reason string) (*shared.Result[*leaseapp.LeaseResult], error)
	ExpireOverdueLeases(ctx context.Context) (*leaseapp.ExpiryResult, error)
	SyncPropertyStatus(ctx context.Context, propertyID uuid.UUID) (*leaseapp.SyncOutcome, error)
	FixPropertyStatusInconsistencies(ctx context.Context) (*leaseapp.FixResult, error)
	ListProperties(ctx context.Context, filter shared.Filter) (*shared.Page[leaseapp.PropertyState], error)
}

// LedgerService recomputes stored account balances
type LedgerService interface {
	RecomputeBalance(ctx context.Context, accountID uuid.UUID) (*ledgerapp.BalanceOutcome, error)
	RecomputeAll(ctx context.Context) (*ledgerapp.RecomputeAllResult, error)
	ListAccounts(ctx context.Context, filter shared.Filter) (*shared.Page[ledgerapp.AccountBalance], error)
}

// ApprovalService drives transaction and journal entry state changes
type ApprovalService interface {
	ApproveTransaction(ctx context.Context, id, approverID uuid.UUID) (*shared.Result[*ledger.Transaction], error)
	RejectTransaction(ctx context.Context, id, rejectorID uuid.UUID, reason string) (*shared.Result[*ledger.Transaction], error)
	CancelTransaction(ctx context.Context, id, cancellerID uuid.UUID, reason string) (*shared.Result[*ledger.Transaction], error)
	ApproveJournalEntry(ctx context.Context, id, approverID uuid.UUID) (*shared.Result[*ledger.JournalEntry], error)
	RejectJournalEntry(ctx context.Context, id, rejectorID uuid.UUID, reason string) (*shared.Result[*ledger.JournalEntry], error)
	CancelJournalEntry(ctx context.Context, id, cancellerID uuid.UUID, reason string) (*shared.Result[*ledger.JournalEntry], error)
}

// AuditService runs the integrity audit
type AuditService interface {
	Run(ctx context.Context, opts audit.RunOptions) (*audit.Report, error)
}

// ReconciliationHandler exposes the reconciliation operations over HTTP.
// Capability checks for lease, status and audit routes happen in middleware;
// approval routes are authorized by the workflow itself.
type ReconciliationHandler struct {
	BaseHandler
	leases    LeaseService
	ledger    LedgerService
	approvals ApprovalService
	auditor   AuditService
}

// NewReconciliationHandler creates a new ReconciliationHandler
func NewReconciliationHandler(leases LeaseService, ledger LedgerService, approvals ApprovalService, auditor AuditService) *ReconciliationHandler {
	return &ReconciliationHandler{
		leases:    leases,
		ledger:    ledger,
		approvals: approvals,
		auditor:   auditor,
	}
}

// result renders a workflow result. Failed results answer 422 with the same
// body shape so clients read errors and warnings the same way.
func (h *ReconciliationHandler) result(c *gin.Context, okStatus int, rr dto.ResultResponse) {
	status := okStatus
	if !rr.Success {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, dto.Response{Success: rr.Success, Data: rr})
}

func transactionValue(t *ledger.Transaction) any { return dto.ToTransactionResponse(t) }
func journalEntryValue(j *ledger.JournalEntry) any { return dto.ToJournalEntryResponse(j) }
func leaseValue(r *leaseapp.LeaseResult) any {
	if r == nil {
		return nil
	}
	return &dto.LeaseWithPropertyResponse{
		Lease:    dto.ToLeaseResponse(r.Lease),
		Property: dto.ToPropertyResponse(r.Property),
	}
}

func toCandidate(req dto.LeaseRequest) leaseapp.LeaseCandidate {
	// property_id is validated as a UUID by binding.
	propertyID, _ := uuid.Parse(req.PropertyID)
	return leaseapp.LeaseCandidate{
		PropertyID:      propertyID,
		LesseeName:      req.LesseeName,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		MonthlyRent:     req.MonthlyRent,
		SecurityDeposit: req.SecurityDeposit,
		Notes:           req.Notes,
	}
}

// RunAudit godoc
// @ID           runIntegrityAudit
// @Summary      Run the integrity audit
// @Description  Runs every integrity check and fixes what can be fixed. With dry_run the fixable findings are only reported.
// @Tags         reconciliation
// @Accept       json
// @Produce      json
// @Param        request body dto.RunAuditRequest false "Audit options"
// @Success      200 {object} APIResponse[audit.Report]
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reconciliation/audit [post]
func (h *ReconciliationHandler) RunAudit(c *gin.Context) {
	var req dto.RunAuditRequest
	if !h.BindJSON(c, &req, true) {
		return
	}
	report, err := h.auditor.Run(c.Request.Context(), audit.RunOptions{DryRun: req.DryRun})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Header(AuditHeaderRunID, report.RunID.String())
	h.Success(c, report)
}

// ExpireLeases godoc
// @ID           expireOverdueLeases
// @Summary      Expire overdue leases
// @Description  Moves every active lease whose end date has passed to expired and frees its property when no other lease holds it.
// @Tags         reconciliation
// @Produce      json
// @Success      200 {object} APIResponse[lease.ExpiryResult]
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reconciliation/leases/expire [post]
func (h *ReconciliationHandler) ExpireLeases(c *gin.Context) {
	res, err := h.leases.ExpireOverdueLeases(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, res)
}

// FixPropertyStatus godoc
// @ID           fixPropertyStatus
// @Summary      Fix property status inconsistencies
// @Description  Re-derives the status of every property from its active leases.
// @Tags         reconciliation
// @Produce      json
// @Success      200 {object} APIResponse[lease.FixResult]
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reconciliation/properties/fix-status [post]
func (h *ReconciliationHandler) FixPropertyStatus(c *gin.Context) {
	res, err := h.leases.FixPropertyStatusInconsistencies(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, res)
}

// SyncPropertyStatus godoc
// @ID           syncPropertyStatus
// @Summary      Sync one property's status
// @Description  Re-derives the status of one property from its active leases.
// @Tags         reconciliation
// @Produce      json
// @Param        id path string true "Property ID" format(uuid)
// @Success      200 {object} APIResponse[lease.SyncOutcome]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reconciliation/properties/{id}/sync-status [post]
func (h *ReconciliationHandler) SyncPropertyStatus(c *gin.Context) {
	id, ok := h.PathID(c)
	if !ok {
		return
	}
	outcome, err := h.leases.SyncPropertyStatus(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, outcome)
}

// ValidateLease godoc
// @ID           validateLease
// @Summary      Validate a lease candidate
// @Description  Checks a lease candidate against the lease rules without writing anything.
// @Tags         reconciliation
// @Accept       json
// @Produce      json
// @Param        request body dto.LeaseRequest true "Lease candidate"
// @Success      200 {object} APIResponse[ValidationResult]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} APIResponse[ValidationResult]
// @Security     BearerAuth
// @Router       /reconciliation/leases/validate [post]
func (h *ReconciliationHandler) ValidateLease(c *gin.Context) {
	var req dto.LeaseRequest
	if !h.BindJSON(c, &req, false) {
		return
	}
	res, err := h.leases.ValidateNewLease(c.Request.Context(), toCandidate(req))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.result(c, http.StatusOK, dto.NewResultResponse(res, nil))
}

// CreateLease godoc
// @ID           createLease
// @Summary      Create a lease
// @Description  Validates and creates a lease, marking its property occupied when the lease is current.
// @Tags         reconciliation
// @Accept       json
// @Produce      json
// @Param        request body dto.LeaseRequest true "Lease candidate"
// @Success      201 {object} APIResponse[LeaseResult]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} APIResponse[LeaseResult]
// @Security     BearerAuth
// @Router       /reconciliation/leases [post]
func (h *ReconciliationHandler) CreateLease(c *gin.Context) {
	var req dto.LeaseRequest
	if !h.BindJSON(c, &req, false) {
		return
	}
	res, err := h.leases.CreateLease(c.Request.Context(), toCandidate(req))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.result(c, http.StatusCreated, dto.NewResultResponse(res, leaseValue))
}

// TerminateLease godoc
// @ID           terminateLease
// @Summary      Terminate a lease
// @Description  Terminates an active lease and frees its property when no other lease holds it.
// @Tags         reconciliation
// @Accept       json
// @Produce      json
// @Param        id path string true "Lease ID" format(uuid)
// @Param        request body dto.ReasonRequest false "Termination reason"
// @Success      200 {object} APIResponse[LeaseResult]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} APIResponse[LeaseResult]
// @Security     BearerAuth
// @Router       /reconciliation/leases/{id}/terminate [post]
func (h *ReconciliationHandler) TerminateLease(c *gin.Context) {
	id, ok := h.PathID(c)
	if !ok {
		return
	}
	var req dto.ReasonRequest
	if !h.BindJSON(c, &req, true) {
		return
	}
	res, err := h.leases.TerminateLease(c.Request.Context(), id, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.result(c, http.StatusOK, dto.NewResultResponse(res, leaseValue))
}

// ListProperties godoc
// @ID           listProperties
// @Summary      List properties
// @Description  Lists properties with a flag telling whether each status agrees with lease state. Nothing is corrected.
// @Tags         reconciliation
// @Produce      json
// @Param        status query string false "Property status" Enums(available, occupied, maintenance, unavailable)
// @Param        is_active query bool false "Active flag"
// @Param        search query string false "Code or name contains"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Order by field" default(created_at)
// @Param        order_dir query string false "Order direction" Enums(asc, desc) default(desc)
// @Success      200 {object} APIResponse[[]dto.PropertyStateResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reconciliation/properties [get]
func (h *ReconciliationHandler) ListProperties(c *gin.Context) {
	var query dto.PropertyListQuery
	if !h.BindQuery(c, &query) {
		return
	}
	page, err := h.leases.ListProperties(c.Request.Context(), query.Filter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	SuccessPage(c, shared.MapPage(*page, func(s leaseapp.PropertyState) *dto.PropertyStateResponse {
		return &dto.PropertyStateResponse{
			PropertyResponse: dto.ToPropertyResponse(&s.Property),
			StatusConsistent: s.Consistent,
		}
	}))
}

// ListAccounts godoc
// @ID           listAccounts
// @Summary      List accounts
// @Description  Lists accounts next to the balance recomputed from approved history. Nothing is written.
// @Tags         reconciliation
// @Produce      json
// @Param        account_type query string false "Account type" Enums(asset, liability, equity, revenue, income, expense)
// @Param        is_active query bool false "Active flag"
// @Param        search query string false "Code or name contains"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Order by field" default(created_at)
// @Param        order_dir query string false "Order direction" Enums(asc, desc) default(desc)
// @Success      200 {object} APIResponse[[]dto.AccountBalanceResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reconciliation/accounts [get]
func (h *ReconciliationHandler) ListAccounts(c *gin.Context) {
	var query dto.AccountListQuery
	if !h.BindQuery(c, &query) {
		return
	}
	page, err := h.ledger.ListAccounts(c.Request.Context(), query.Filter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	SuccessPage(c, shared.MapPage(*page, func(a ledgerapp.AccountBalance) *dto.AccountBalanceResponse {
		return dto.ToAccountBalanceResponse(&a.Account, a.Balance.Recomputed, a.Balance.Drifted)
	}))
}

// RecomputeBalance godoc
// @ID           recomputeAccountBalance
// @Summary      Recompute an account balance
// @Description  Recomputes the stored balance of one account from its opening balance and approved transactions.
// @Tags         reconciliation
// @Produce      json
// @Param        id path string true "Account ID" format(uuid)
// @Success      200 {object} APIResponse[ledger.BalanceOutcome]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reconciliation/accounts/{id}/recompute [post]
func (h *ReconciliationHandler) RecomputeBalance(c *gin.Context) {
	id, ok := h.PathID(c)
	if !ok {
		return
	}
	outcome, err := h.ledger.RecomputeBalance(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, outcome)
}

// RecomputeAllBalances godoc
// @ID           recomputeAllBalances
// @Summary      Recompute every account balance
// @Description  Recomputes every account; per-account failures are listed, not fatal.
// @Tags         reconciliation
// @Produce      json
// @Success      200 {object} APIResponse[ledger.RecomputeAllResult]
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reconciliation/accounts/recompute [post]
func (h *ReconciliationHandler) RecomputeAllBalances(c *gin.Context) {
	res, err := h.ledger.RecomputeAll(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, res)
}

// ApproveTransaction godoc
// @ID           approveTransaction
// @Summary      Approve a transaction
// @Description  Approves a pending transaction and recomputes the balances it touches. Denials and rule violations come back as a failed result.
// @Tags         reconciliation
// @Produce      json
// @Param        id path string true "Transaction ID" format(uuid)
// @Success      200 {object} APIResponse[TransactionResult]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} APIResponse[TransactionResult]
// @Security     BearerAuth
// @Router       /reconciliation/transactions/{id}/approve [post]
func (h *ReconciliationHandler) ApproveTransaction(c *gin.Context) {
	id, actor, ok := h.workflowIDs(c)
	if !ok {
		return
	}
	res, err := h.approvals.ApproveTransaction(c.Request.Context(), id, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.result(c, http.StatusOK, dto.NewResultResponse(res, transactionValue))
}

// RejectTransaction godoc
// @ID           rejectTransaction
// @Summary      Reject a transaction
// @Tags         reconciliation
// @Accept       json
// @Produce      json
// @Param        id path string true "Transaction ID" format(uuid)
// @Param        request body dto.ReasonRequest false "Rejection reason"
// @Success      200 {object} APIResponse[TransactionResult]
// @Failure      422 {object} APIResponse[TransactionResult]
// @Security     BearerAuth
// @Router       /reconciliation/transactions/{id}/reject [post]
func (h *ReconciliationHandler) RejectTransaction(c *gin.Context) {
	h.closeTransaction(c, h.approvals.RejectTransaction)
}

// CancelTransaction godoc
// @ID           cancelTransaction
// @Summary      Cancel a transaction
// @Tags         reconciliation
// @Accept       json
// @Produce      json
// @Param        id path string true "Transaction ID" format(uuid)
// @Param        request body dto.ReasonRequest false "Cancellation reason"
// @Success      200 {object} APIResponse[TransactionResult]
// @Failure      422 {object} APIResponse[TransactionResult]
// @Security     BearerAuth
// @Router       /reconciliation/transactions/{id}/cancel [post]
func (h *ReconciliationHandler) CancelTransaction(c *gin.Context) {
	h.closeTransaction(c, h.approvals.CancelTransaction)
}

type closeFunc[T any] func(ctx context.Context, id, actorID uuid.UUID, reason string) (*shared.Result[T], error)

func (h *ReconciliationHandler) closeTransaction(c *gin.Context, fn closeFunc[*ledger.Transaction]) {
	id, actor, ok := h.workflowIDs(c)
	if !ok {
		return
	}
	var req dto.ReasonRequest
	if !h.BindJSON(c, &req, true) {
		return
	}
	res, err := fn(c.Request.Context(), id, actor, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.result(c, http.StatusOK, dto.NewResultResponse(res, transactionValue))
}

// ApproveJournalEntry godoc
// @ID           approveJournalEntry
// @Summary      Approve a journal entry
// @Description  Approves a balanced pending journal entry. Unbalanced entries and inactive accounts come back as a failed result.
// @Tags         reconciliation
// @Produce      json
// @Param        id path string true "Journal entry ID" format(uuid)
// @Success      200 {object} APIResponse[JournalEntryResult]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} APIResponse[JournalEntryResult]
// @Security     BearerAuth
// @Router       /reconciliation/journal-entries/{id}/approve [post]
func (h *ReconciliationHandler) ApproveJournalEntry(c *gin.Context) {
	id, actor, ok := h.workflowIDs(c)
	if !ok {
		return
	}
	res, err := h.approvals.ApproveJournalEntry(c.Request.Context(), id, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.result(c, http.StatusOK, dto.NewResultResponse(res, journalEntryValue))
}

// RejectJournalEntry godoc
// @ID           rejectJournalEntry
// @Summary      Reject a journal entry
// @Tags         reconciliation
// @Accept       json
// @Produce      json
// @Param        id path string true "Journal entry ID" format(uuid)
// @Param        request body dto.ReasonRequest false "Rejection reason"
// @Success      200 {object} APIResponse[JournalEntryResult]
// @Failure      422 {object} APIResponse[JournalEntryResult]
// @Security     BearerAuth
// @Router       /reconciliation/journal-entries/{id}/reject [post]
func (h *ReconciliationHandler) RejectJournalEntry(c *gin.Context) {
	h.closeJournalEntry(c, h.approvals.RejectJournalEntry)
}

// CancelJournalEntry godoc
// @ID           cancelJournalEntry
// @Summary      Cancel a journal entry
// @Tags         reconciliation
// @Accept       json
// @Produce      json
// @Param        id path string true "Journal entry ID" format(uuid)
// @Param        request body dto.ReasonRequest false "Cancellation reason"
// @Success      200 {object} APIResponse[JournalEntryResult]
// @Failure      422 {object} APIResponse[JournalEntryResult]
// @Security     BearerAuth
// @Router       /reconciliation/journal-entries/{id}/cancel [post]
func (h *ReconciliationHandler) CancelJournalEntry(c *gin.Context) {
	h.closeJournalEntry(c, h.approvals.CancelJournalEntry)
}

func (h *ReconciliationHandler) closeJournalEntry(c *gin.Context, fn closeFunc[*ledger.JournalEntry]) {
	id, actor, ok := h.workflowIDs(c)
	if !ok {
		return
	}
	var req dto.ReasonRequest
	if !h.BindJSON(c, &req, true) {
		return
	}
	res, err := fn(c.Request.Context(), id, actor, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.result(c, http.StatusOK, dto.NewResultResponse(res, journalEntryValue))
}

func (h *ReconciliationHandler) workflowIDs(c *gin.Context) (id, actor uuid.UUID, ok bool) {
	if id, ok = h.PathID(c); !ok {
		return
	}
	actor, ok = h.ActorUUID(c)
	return
}
