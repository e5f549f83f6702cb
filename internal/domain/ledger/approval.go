package ledger

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rukibhamz/erpsolution-sub000/internal/domain/shared"
)

// ApprovalStatus is the state of a transaction or journal entry in the
// approval workflow: pending -> {approved, rejected, cancelled}
type ApprovalStatus string

const (
	ApprovalStatusPending   ApprovalStatus = "pending"
	ApprovalStatusApproved  ApprovalStatus = "approved"
	ApprovalStatusRejected  ApprovalStatus = "rejected"
	ApprovalStatusCancelled ApprovalStatus = "cancelled"
)

// IsValid checks if the status is a known value
func (s ApprovalStatus) IsValid() bool {
	switch s {
	case ApprovalStatusPending, ApprovalStatusApproved, ApprovalStatusRejected, ApprovalStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation
func (s ApprovalStatus) String() string {
	return string(s)
}

// Approval records who moved a record out of pending and when
type Approval struct {
	ApprovedBy  *uuid.UUID
	ApprovedAt  *time.Time
	RejectedBy  *uuid.UUID
	RejectedAt  *time.Time
	CancelledBy *uuid.UUID
	CancelledAt *time.Time
}

// approvalAction is one of the three workflow transitions
type approvalAction string

const (
	actionApprove approvalAction = "approve"
	actionReject  approvalAction = "reject"
	actionCancel  approvalAction = "cancel"
)

// checkTransition returns the error for leaving status via action, or nil.
// kind names the record ("Transaction", "Journal entry") in messages.
func checkTransition(kind string, status ApprovalStatus, action approvalAction) error {
	switch status {
	case ApprovalStatusPending:
		return nil
	case ApprovalStatusApproved:
		if action == actionApprove {
			return shared.NewDomainError("ALREADY_APPROVED", kind+" is already approved")
		}
		return shared.Errorf("INVALID_STATE", "Cannot %s an approved %s", action, strings.ToLower(kind))
	case ApprovalStatusRejected:
		return shared.NewDomainError("ALREADY_REJECTED", kind+" is already rejected")
	case ApprovalStatusCancelled:
		return shared.NewDomainError("ALREADY_CANCELLED", kind+" is already cancelled")
	}
	return shared.Errorf("INVALID_STATE", "Cannot %s %s in %s status", action, strings.ToLower(kind), status)
}

// appendNote adds line to a free-text notes field
func appendNote(notes, line string) string {
	if notes == "" {
		return line
	}
	return notes + "\n" + line
}
