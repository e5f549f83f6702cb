package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/rukibhamz/erpsolution-sub000/internal/application/audit"
	leaseapp "github.com/rukibhamz/erpsolution-sub000/internal/application/lease"
	ledgerapp "github.com/rukibhamz/erpsolution-sub000/internal/application/ledger"
	"github.com/rukibhamz/erpsolution-sub000/internal/domain/ledger"
	"github.com/rukibhamz/erpsolution-sub000/internal/domain/shared"
	"github.com/rukibhamz/erpsolution-sub000/internal/infrastructure/auth"
	"github.com/rukibhamz/erpsolution-sub000/internal/infrastructure/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	color.NoColor = true
}

type mockLeases struct{ mock.Mock }

func (m *mockLeases) ExpireOverdueLeases(ctx context.Context) (*leaseapp.ExpiryResult, error) {
	args := m.Called(ctx)
	res, _ := args.Get(0).(*leaseapp.ExpiryResult)
	return res, args.Error(1)
}

func (m *mockLeases) FixPropertyStatusInconsistencies(ctx context.Context) (*leaseapp.FixResult, error) {
	args := m.Called(ctx)
	res, _ := args.Get(0).(*leaseapp.FixResult)
	return res, args.Error(1)
}

func (m *mockLeases) TerminateLease(ctx context.Context, id uuid.UUID, reason string) (*shared.Result[*leaseapp.LeaseResult], error) {
	args := m.Called(ctx, id, reason)
	res, _ := args.Get(0).(*shared.Result[*leaseapp.LeaseResult])
	return res, args.Error(1)
}

type mockLedger struct{ mock.Mock }

func (m *mockLedger) RecomputeBalance(ctx context.Context, id uuid.UUID) (*ledgerapp.BalanceOutcome, error) {
	args := m.Called(ctx, id)
	res, _ := args.Get(0).(*ledgerapp.BalanceOutcome)
	return res, args.Error(1)
}

func (m *mockLedger) RecomputeAll(ctx context.Context) (*ledgerapp.RecomputeAllResult, error) {
	args := m.Called(ctx)
	res, _ := args.Get(0).(*ledgerapp.RecomputeAllResult)
	return res, args.Error(1)
}

type mockApprovals struct{ mock.Mock }

func (m *mockApprovals) ApproveTransaction(ctx context.Context, id, actor uuid.UUID) (*shared.Result[*ledger.Transaction], error) {
	args := m.Called(ctx, id, actor)
	res, _ := args.Get(0).(*shared.Result[*ledger.Transaction])
	return res, args.Error(1)
}

func (m *mockApprovals) RejectTransaction(ctx context.Context, id, actor uuid.UUID, reason string) (*shared.Result[*ledger.Transaction], error) {
	args := m.Called(ctx, id, actor, reason)
	res, _ := args.Get(0).(*shared.Result[*ledger.Transaction])
	return res, args.Error(1)
}

type mockAuditor struct{ mock.Mock }

func (m *mockAuditor) Run(ctx context.Context, opts audit.RunOptions) (*audit.Report, error) {
	args := m.Called(ctx, opts)
	res, _ := args.Get(0).(*audit.Report)
	return res, args.Error(1)
}

type fixture struct {
	env       *env
	out       *bytes.Buffer
	leases    *mockLeases
	ledger    *mockLedger
	approvals *mockApprovals
	auditor   *mockAuditor
}

const (
	systemActor = "6f1d6a4e-3b8e-4d7e-9f59-2f3b2d1c0a11"
	clerkActor  = "clerk"
)

func newFixture(t *testing.T, format string) *fixture {
	t.Helper()
	var buf bytes.Buffer
	out, err := newPrinter(&buf, format)
	require.NoError(t, err)

	f := &fixture{
		out:       &buf,
		leases:    new(mockLeases),
		ledger:    new(mockLedger),
		approvals: new(mockApprovals),
		auditor:   new(mockAuditor),
	}
	f.env = &env{
		leases:    f.leases,
		ledger:    f.ledger,
		approvals: f.approvals,
		auditor:   f.auditor,
		tokens: auth.NewJWTService(config.JWTConfig{
			Secret:                "test-secret-key-with-enough-length",
			AccessTokenExpiration: time.Hour,
			Issuer:                "reconcile-test",
		}),
		authz: auth.NewStaticAuthorizer(config.AuthorizationConfig{
			Grants:      map[string][]string{clerkActor: {string(shared.CapabilityManageLeases)}},
			SystemActor: systemActor,
		}),
		actor: systemActor,
		out:   out,
	}
	t.Cleanup(func() {
		f.leases.AssertExpectations(t)
		f.ledger.AssertExpectations(t)
		f.approvals.AssertExpectations(t)
		f.auditor.AssertExpectations(t)
	})
	return f
}

func TestExecute_UnknownCommand(t *testing.T) {
	f := newFixture(t, formatTable)

	err := execute(context.Background(), f.env, "drop-tables", nil)

	assert.ErrorIs(t, err, errUsage)
}

func TestExecute_CapabilityChecked(t *testing.T) {
	f := newFixture(t, formatTable)
	f.env.actor = clerkActor

	err := execute(context.Background(), f.env, "audit", nil)

	assert.ErrorIs(t, err, errForbidden)
	f.auditor.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
}

func TestAudit(t *testing.T) {
	report := &audit.Report{
		Summary: audit.Summary{TotalIssues: 2, TotalFixed: 1, Timestamp: "2026-01-02 03:04:05"},
		Details: map[string]shared.CheckResult{
			"properties": {Issues: []string{"P-1 occupied without active lease"}, Fixed: []string{"P-1 set to available"}},
			"leases":     {Issues: []string{"L-9 overlaps L-7"}, Fixed: []string{}},
		},
		DryRun: true,
	}

	t.Run("table", func(t *testing.T) {
		f := newFixture(t, formatTable)
		f.auditor.On("Run", mock.Anything, audit.RunOptions{DryRun: true}).Return(report, nil)

		require.NoError(t, execute(context.Background(), f.env, "audit", []string{"-dry-run"}))

		out := f.out.String()
		assert.Contains(t, out, "dry run")
		assert.Contains(t, out, "! P-1 occupied without active lease")
		assert.Contains(t, out, "+ P-1 set to available")
		assert.Regexp(t, `total\s+2\s+1`, out)
	})

	t.Run("json keeps the report shape", func(t *testing.T) {
		f := newFixture(t, formatJSON)
		f.auditor.On("Run", mock.Anything, audit.RunOptions{}).Return(report, nil)

		require.NoError(t, execute(context.Background(), f.env, "audit", nil))

		var got map[string]any
		require.NoError(t, json.Unmarshal(f.out.Bytes(), &got))
		assert.ElementsMatch(t, []string{"summary", "details"}, keys(got))
		summary := got["summary"].(map[string]any)
		assert.EqualValues(t, 2, summary["total_issues"])
		assert.EqualValues(t, 1, summary["total_fixed"])
	})

	t.Run("bad flag", func(t *testing.T) {
		f := newFixture(t, formatTable)
		err := execute(context.Background(), f.env, "audit", []string{"-fix-everything"})
		assert.ErrorIs(t, err, errUsage)
	})
}

func TestExpireLeases(t *testing.T) {
	f := newFixture(t, formatTable)
	f.env.actor = clerkActor
	expired := uuid.New()
	f.leases.On("ExpireOverdueLeases", mock.Anything).
		Return(&leaseapp.ExpiryResult{Expired: []uuid.UUID{expired}, Errors: []string{"lease x: locked"}}, nil)

	require.NoError(t, execute(context.Background(), f.env, "expire-leases", nil))

	assert.Contains(t, f.out.String(), expired.String())
	assert.Contains(t, f.out.String(), "error: lease x: locked")
}

func TestFixPropertyStatus(t *testing.T) {
	f := newFixture(t, formatTable)
	f.leases.On("FixPropertyStatusInconsistencies", mock.Anything).
		Return(&leaseapp.FixResult{Checked: 3, Fixed: []string{"P-2: occupied -> available"}}, nil)

	require.NoError(t, execute(context.Background(), f.env, "fix-property-status", nil))

	assert.Contains(t, f.out.String(), "checked 3 properties, fixed 1")
}

func TestApproveTransaction(t *testing.T) {
	id := uuid.New()
	actor := uuid.MustParse(systemActor)

	t.Run("success", func(t *testing.T) {
		f := newFixture(t, formatTable)
		tx := &ledger.Transaction{AccountID: uuid.New(), Amount: decimal.NewFromInt(250), Status: ledger.ApprovalStatusApproved}
		tx.ID = id
		res := shared.NewResult[*ledger.Transaction]()
		res.Value = tx
		res.AddWarning("possible duplicate transaction")
		f.approvals.On("ApproveTransaction", mock.Anything, id, actor).Return(res, nil)

		require.NoError(t, execute(context.Background(), f.env, "approve-transaction", []string{id.String()}))

		out := f.out.String()
		assert.Contains(t, out, "OK")
		assert.Contains(t, out, "warning: possible duplicate transaction")
		assert.Contains(t, out, "250.00")
	})

	t.Run("business rule failure", func(t *testing.T) {
		f := newFixture(t, formatJSON)
		f.approvals.On("ApproveTransaction", mock.Anything, id, actor).
			Return(shared.Fail[*ledger.Transaction]("Transaction is already approved"), nil)

		err := execute(context.Background(), f.env, "approve-transaction", []string{id.String()})

		assert.ErrorIs(t, err, errFailed)
		assert.Contains(t, f.out.String(), "already approved")
		assert.Contains(t, f.out.String(), `"success": false`)
	})

	t.Run("missing id", func(t *testing.T) {
		f := newFixture(t, formatTable)
		err := execute(context.Background(), f.env, "approve-transaction", nil)
		assert.ErrorIs(t, err, errUsage)
	})

	t.Run("non uuid actor", func(t *testing.T) {
		f := newFixture(t, formatTable)
		f.env.actor = clerkActor
		err := execute(context.Background(), f.env, "approve-transaction", []string{id.String()})
		assert.ErrorIs(t, err, errUsage)
	})
}

func TestRejectTransaction(t *testing.T) {
	f := newFixture(t, formatTable)
	id := uuid.New()
	f.approvals.On("RejectTransaction", mock.Anything, id, uuid.MustParse(systemActor), "duplicate").
		Return(shared.Fail[*ledger.Transaction]("Cannot reject an approved transaction"), nil)

	err := execute(context.Background(), f.env, "reject-transaction", []string{"-reason", "duplicate", id.String()})

	assert.ErrorIs(t, err, errFailed)
	assert.Contains(t, f.out.String(), "FAILED")
}

func TestTerminateLease(t *testing.T) {
	f := newFixture(t, formatTable)
	id := uuid.New()
	f.leases.On("TerminateLease", mock.Anything, id, "tenant left").
		Return(shared.Fail[*leaseapp.LeaseResult]("Only active leases can be terminated"), nil)

	err := execute(context.Background(), f.env, "terminate-lease", []string{"-reason", "tenant left", id.String()})

	assert.ErrorIs(t, err, errFailed)
	assert.Contains(t, f.out.String(), "Only active leases can be terminated")
}

func TestRecomputeBalances(t *testing.T) {
	t.Run("all accounts", func(t *testing.T) {
		f := newFixture(t, formatTable)
		f.ledger.On("RecomputeAll", mock.Anything).Return(&ledgerapp.RecomputeAllResult{
			Outcomes: []ledgerapp.BalanceOutcome{
				{AccountCode: "1000", Previous: decimal.NewFromInt(100), Recomputed: decimal.NewFromInt(150), Drifted: true, Corrected: true},
				{AccountCode: "2000", Previous: decimal.NewFromInt(5), Recomputed: decimal.NewFromInt(5)},
			},
		}, nil)

		require.NoError(t, execute(context.Background(), f.env, "recompute-balances", nil))

		out := f.out.String()
		assert.Regexp(t, `1000\s+100\.00\s+150\.00\s+corrected`, out)
		assert.Regexp(t, `2000\s+5\.00\s+5\.00\s+ok`, out)
	})

	t.Run("one account", func(t *testing.T) {
		f := newFixture(t, formatTable)
		id := uuid.New()
		f.ledger.On("RecomputeBalance", mock.Anything, id).
			Return(&ledgerapp.BalanceOutcome{AccountID: id, AccountCode: "1100"}, nil)

		require.NoError(t, execute(context.Background(), f.env, "recompute-balances", []string{id.String()}))
		assert.Contains(t, f.out.String(), "1100")
	})

	t.Run("infrastructure error propagates", func(t *testing.T) {
		f := newFixture(t, formatTable)
		f.ledger.On("RecomputeAll", mock.Anything).Return(nil, errors.New("connection reset"))

		err := execute(context.Background(), f.env, "recompute-balances", nil)
		assert.EqualError(t, err, "connection reset")
	})
}

func TestIssueToken(t *testing.T) {
	f := newFixture(t, formatJSON)

	require.NoError(t, execute(context.Background(), f.env, "issue-token",
		[]string{"-subject", "approver-1", "-capabilities", "approve-transactions, manage-leases"}))

	var token auth.IssuedToken
	require.NoError(t, json.Unmarshal(f.out.Bytes(), &token))
	assert.NotEmpty(t, token.Token)
	assert.NotEmpty(t, token.TokenID)

	err := execute(context.Background(), f.env, "issue-token", nil)
	assert.ErrorIs(t, err, errUsage)
}

func TestNewPrinter_RejectsUnknownFormat(t *testing.T) {
	_, err := newPrinter(&bytes.Buffer{}, "yaml")
	assert.Error(t, err)
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
