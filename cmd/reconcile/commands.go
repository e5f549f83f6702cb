package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/rukibhamz/erpsolution-sub000/internal/application/audit"
	leaseapp "github.com/rukibhamz/erpsolution-sub000/internal/application/lease"
	ledgerapp "github.com/rukibhamz/erpsolution-sub000/internal/application/ledger"
	"github.com/rukibhamz/erpsolution-sub000/internal/domain/ledger"
	"github.com/rukibhamz/erpsolution-sub000/internal/domain/shared"
	"github.com/rukibhamz/erpsolution-sub000/internal/infrastructure/auth"
	"github.com/rukibhamz/erpsolution-sub000/internal/interfaces/http/dto"
)

var (
	errUsage     = errors.New("usage")
	errForbidden = errors.New("forbidden")
	// errFailed marks a workflow result that carried errors; the result
	// itself has already been printed.
	errFailed = errors.New("operation failed")
)

type leaseService interface {
	ExpireOverdueLeases(ctx context.Context) (*leaseapp.ExpiryResult, error)
	FixPropertyStatusInconsistencies(ctx context.Context) (*leaseapp.FixResult, error)
	TerminateLease(ctx context.Context, leaseID uuid.UUID, reason string) (*shared.Result[*leaseapp.LeaseResult], error)
}

type ledgerService interface {
	RecomputeBalance(ctx context.Context, accountID uuid.UUID) (*ledgerapp.BalanceOutcome, error)
	RecomputeAll(ctx context.Context) (*ledgerapp.RecomputeAllResult, error)
}

type approvalService interface {
	ApproveTransaction(ctx context.Context, id, approverID uuid.UUID) (*shared.Result[*ledger.Transaction], error)
	RejectTransaction(ctx context.Context, id, rejectorID uuid.UUID, reason string) (*shared.Result[*ledger.Transaction], error)
}

type auditService interface {
	Run(ctx context.Context, opts audit.RunOptions) (*audit.Report, error)
}

type tokenIssuer interface {
	Issue(actorID string, capabilities []shared.Capability) (*auth.IssuedToken, error)
}

// env is what a command runs against
type env struct {
	leases    leaseService
	ledger    ledgerService
	approvals approvalService
	auditor   auditService
	tokens    tokenIssuer
	authz     shared.Authorizer
	actor     string
	out       *printer
}

type command struct {
	name  string
	usage string
	// capability is checked against the acting caller before run; empty
	// means the service authorizes the call itself.
	capability shared.Capability
	run        func(ctx context.Context, e *env, args []string) error
}

var commands = []command{
	{
		name:       "audit",
		usage:      "audit [-dry-run]",
		capability: shared.CapabilityRunAudit,
		run:        runAudit,
	},
	{
		name:       "expire-leases",
		usage:      "expire-leases",
		capability: shared.CapabilityManageLeases,
		run: func(ctx context.Context, e *env, _ []string) error {
			res, err := e.leases.ExpireOverdueLeases(ctx)
			if err != nil {
				return err
			}
			return e.out.print(res)
		},
	},
	{
		name:       "fix-property-status",
		usage:      "fix-property-status",
		capability: shared.CapabilityRunAudit,
		run: func(ctx context.Context, e *env, _ []string) error {
			res, err := e.leases.FixPropertyStatusInconsistencies(ctx)
			if err != nil {
				return err
			}
			return e.out.print(res)
		},
	},
	{
		name:  "approve-transaction",
		usage: "approve-transaction <transaction-id>",
		run:   runApproveTransaction,
	},
	{
		name:  "reject-transaction",
		usage: "reject-transaction [-reason text] <transaction-id>",
		run:   runRejectTransaction,
	},
	{
		name:       "terminate-lease",
		usage:      "terminate-lease [-reason text] <lease-id>",
		capability: shared.CapabilityManageLeases,
		run:        runTerminateLease,
	},
	{
		name:       "recompute-balances",
		usage:      "recompute-balances [account-id]",
		capability: shared.CapabilityRunAudit,
		run:        runRecomputeBalances,
	},
	{
		name:  "issue-token",
		usage: "issue-token -subject <actor-id> [-capabilities a,b]",
		run:   runIssueToken,
	},
}

func findCommand(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

func execute(ctx context.Context, e *env, name string, args []string) error {
	cmd, ok := findCommand(name)
	if !ok {
		return fmt.Errorf("%w: unknown command %q", errUsage, name)
	}
	if cmd.capability != "" {
		allowed, err := e.authz.Can(ctx, e.actor, cmd.capability)
		if err != nil {
			return fmt.Errorf("authorize %s: %w", name, err)
		}
		if !allowed {
			return fmt.Errorf("%w: actor %q lacks %s", errForbidden, e.actor, cmd.capability)
		}
	}
	return cmd.run(ctx, e, args)
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func runAudit(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet("audit")
	dryRun := fs.Bool("dry-run", false, "report fixable findings without writing")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	report, err := e.auditor.Run(ctx, audit.RunOptions{DryRun: *dryRun})
	if err != nil {
		return err
	}
	return e.out.print(report)
}

func runApproveTransaction(ctx context.Context, e *env, args []string) error {
	id, err := singleID(args)
	if err != nil {
		return err
	}
	actor, err := e.actorUUID()
	if err != nil {
		return err
	}
	res, err := e.approvals.ApproveTransaction(ctx, id, actor)
	if err != nil {
		return err
	}
	return e.printResult(dto.NewResultResponse(res, transactionValue))
}

func runRejectTransaction(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet("reject-transaction")
	reason := fs.String("reason", "", "reason appended to the transaction notes")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	id, err := singleID(fs.Args())
	if err != nil {
		return err
	}
	actor, err := e.actorUUID()
	if err != nil {
		return err
	}
	res, err := e.approvals.RejectTransaction(ctx, id, actor, *reason)
	if err != nil {
		return err
	}
	return e.printResult(dto.NewResultResponse(res, transactionValue))
}

func runTerminateLease(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet("terminate-lease")
	reason := fs.String("reason", "", "reason appended to the lease notes")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	id, err := singleID(fs.Args())
	if err != nil {
		return err
	}
	res, err := e.leases.TerminateLease(ctx, id, *reason)
	if err != nil {
		return err
	}
	return e.printResult(dto.NewResultResponse(res, leaseValue))
}

func runRecomputeBalances(ctx context.Context, e *env, args []string) error {
	if len(args) == 0 {
		res, err := e.ledger.RecomputeAll(ctx)
		if err != nil {
			return err
		}
		return e.out.print(res)
	}
	id, err := singleID(args)
	if err != nil {
		return err
	}
	res, err := e.ledger.RecomputeBalance(ctx, id)
	if err != nil {
		return err
	}
	return e.out.print(res)
}

func runIssueToken(_ context.Context, e *env, args []string) error {
	fs := newFlagSet("issue-token")
	subject := fs.String("subject", "", "actor ID the token is issued to")
	caps := fs.String("capabilities", "", "comma separated capabilities")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if *subject == "" {
		return fmt.Errorf("%w: -subject is required", errUsage)
	}

	var capabilities []shared.Capability
	for _, c := range strings.Split(*caps, ",") {
		if c = strings.TrimSpace(c); c != "" {
			capabilities = append(capabilities, shared.Capability(c))
		}
	}
	token, err := e.tokens.Issue(*subject, capabilities)
	if err != nil {
		return err
	}
	return e.out.print(token)
}

func (e *env) actorUUID() (uuid.UUID, error) {
	id, err := uuid.Parse(e.actor)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: approval commands need a UUID actor, got %q", errUsage, e.actor)
	}
	return id, nil
}

func (e *env) printResult(r dto.ResultResponse) error {
	if err := e.out.print(r); err != nil {
		return err
	}
	if !r.Success {
		return errFailed
	}
	return nil
}

func singleID(args []string) (uuid.UUID, error) {
	if len(args) != 1 {
		return uuid.Nil, fmt.Errorf("%w: expected exactly one ID", errUsage)
	}
	id, err := uuid.Parse(args[0])
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid ID %q", errUsage, args[0])
	}
	return id, nil
}

func transactionValue(t *ledger.Transaction) any { return dto.ToTransactionResponse(t) }

func leaseValue(r *leaseapp.LeaseResult) any {
	if r == nil {
		return nil
	}
	return &dto.LeaseWithPropertyResponse{
		Lease:    dto.ToLeaseResponse(r.Lease),
		Property: dto.ToPropertyResponse(r.Property),
	}
}
