package router

import (
	"github.com/rukibhamz/erpsolution-sub000/internal/domain/shared"
	"github.com/rukibhamz/erpsolution-sub000/internal/interfaces/http/handler"
	"github.com/rukibhamz/erpsolution-sub000/internal/interfaces/http/middleware"
)

// NewReconciliationRoutes builds the /reconciliation group. Lease, status,
// balance and audit routes check capabilities here; approval routes leave
// it to the approval workflow, which reports a denial as a failed result.
func NewReconciliationRoutes(h *handler.ReconciliationHandler, caps middleware.CapabilityConfig) *DomainGroup {
	manageLeases := middleware.RequireCapability(caps, shared.CapabilityManageLeases)
	runAudit := middleware.RequireCapability(caps, shared.CapabilityRunAudit)

	g := NewDomainGroup("reconciliation", "/reconciliation")
	g.POST("/audit", runAudit, h.RunAudit)

	g.Group("leases", "/leases").
		POST("", manageLeases, h.CreateLease).
		POST("/validate", manageLeases, h.ValidateLease).
		POST("/expire", manageLeases, h.ExpireLeases).
		POST("/:id/terminate", manageLeases, h.TerminateLease)

	g.Group("properties", "/properties").
		GET("", manageLeases, h.ListProperties).
		POST("/fix-status", runAudit, h.FixPropertyStatus).
		POST("/:id/sync-status", manageLeases, h.SyncPropertyStatus)

	g.Group("accounts", "/accounts").
		GET("", runAudit, h.ListAccounts).
		POST("/recompute", runAudit, h.RecomputeAllBalances).
		POST("/:id/recompute", runAudit, h.RecomputeBalance)

	g.Group("transactions", "/transactions").
		POST("/:id/approve", h.ApproveTransaction).
		POST("/:id/reject", h.RejectTransaction).
		POST("/:id/cancel", h.CancelTransaction)

	g.Group("journal-entries", "/journal-entries").
		POST("/:id/approve", h.ApproveJournalEntry).
		POST("/:id/reject", h.RejectJournalEntry).
		POST("/:id/cancel", h.CancelJournalEntry)

	return g
}

// NewActivityRoutes builds the /activity group. Reading the trail needs the
// audit capability.
func NewActivityRoutes(h *handler.ActivityHandler, caps middleware.CapabilityConfig) *DomainGroup {
	return NewDomainGroup("activity", "/activity").
		GET("/:entity_type/:id", middleware.RequireCapability(caps, shared.CapabilityRunAudit), h.EntityHistory)
}

// NewSystemRoutes builds the /system group
func NewSystemRoutes(h *handler.SystemHandler) *DomainGroup {
	return NewDomainGroup("system", "/system").
		GET("/info", h.GetSystemInfo)
}
