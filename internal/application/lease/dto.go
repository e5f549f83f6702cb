package lease

import (
	"time"

	"github.com/google/uuid"
	"github.com/rukibhamz/erpsolution-sub000/internal/domain/property"
	"github.com/shopspring/decimal"
)

// LeaseCandidate is the input for lease validation and creation
type LeaseCandidate struct {
	PropertyID      uuid.UUID
	LesseeName      string
	StartDate       time.Time
	EndDate         time.Time
	MonthlyRent     decimal.Decimal
	SecurityDeposit decimal.Decimal
	Notes           string
}

// SyncOutcome describes what SyncPropertyStatus did to one property
type SyncOutcome struct {
	PropertyID     uuid.UUID               `json:"property_id"`
	PropertyCode   string                  `json:"property_code"`
	PreviousStatus property.PropertyStatus `json:"previous_status"`
	CurrentStatus  property.PropertyStatus `json:"current_status"`
	Changed        bool                    `json:"changed"`
}

// Description renders the outcome as a report line
func (o SyncOutcome) Description() string {
	return "Property " + o.PropertyCode + " (" + o.PropertyID.String() + ") status corrected from " +
		string(o.PreviousStatus) + " to " + string(o.CurrentStatus)
}

// ExpiryResult lists leases expired by one sweep and per-lease failures
type ExpiryResult struct {
	Expired []uuid.UUID `json:"expired"`
	Errors  []string    `json:"errors"`
}

// FixResult summarizes a property status sweep
type FixResult struct {
	Checked int      `json:"checked"`
	Fixed   []string `json:"fixed"`
	Errors  []string `json:"errors"`
}

// LeaseResult is the value carried by lease workflow results
type LeaseResult struct {
	Lease    *property.Lease
	Property *property.Property
}

// PropertyState pairs a property with whether its status matches lease state
type PropertyState struct {
	Property   property.Property
	Consistent bool
}
