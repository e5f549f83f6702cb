package shared

import "context"

// Capability names an action guarded by the authorization collaborator.
type Capability string

const (
	CapabilityApproveTransactions   Capability = "approve-transactions"
	CapabilityApproveJournalEntries Capability = "approve-journal-entries"
	CapabilityManageLeases          Capability = "manage-leases"
	CapabilityRunAudit              Capability = "run-integrity-audit"
)

// Authorizer answers whether an actor holds a capability.
type Authorizer interface {
	Can(ctx context.Context, actorID string, capability Capability) (bool, error)
}

// AllowAll grants every capability. Only for trusted internal callers.
type AllowAll struct{}

// Can implements Authorizer
func (AllowAll) Can(context.Context, string, Capability) (bool, error) { return true, nil }
