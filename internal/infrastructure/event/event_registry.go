package event

import (
	"github.com/rukibhamz/erpsolution-sub000/internal/application/audit"
	"github.com/rukibhamz/erpsolution-sub000/internal/domain/ledger"
	"github.com/rukibhamz/erpsolution-sub000/internal/domain/property"
)

// RegisterAllEvents registers every event the reconciliation services raise,
// so stored activity payloads can be decoded back into typed events.
func RegisterAllEvents(s *EventSerializer) {
	Register[property.PropertyStatusCorrectedEvent](s, property.EventTypePropertyStatusCorrected)
	Register[property.LeaseCreatedEvent](s, property.EventTypeLeaseCreated)
	Register[property.LeaseExpiredEvent](s, property.EventTypeLeaseExpired)
	Register[property.LeaseTerminatedEvent](s, property.EventTypeLeaseTerminated)

	Register[ledger.AccountBalanceCorrectedEvent](s, ledger.EventTypeAccountBalanceCorrected)
	Register[ledger.TransactionApprovedEvent](s, ledger.EventTypeTransactionApproved)
	Register[ledger.TransactionRejectedEvent](s, ledger.EventTypeTransactionRejected)
	Register[ledger.TransactionCancelledEvent](s, ledger.EventTypeTransactionCancelled)
	Register[ledger.JournalEntryApprovedEvent](s, ledger.EventTypeJournalEntryApproved)

	Register[audit.AuditCompletedEvent](s, audit.EventTypeAuditCompleted)
}
