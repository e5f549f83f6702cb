package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/rukibhamz/erpsolution-sub000/internal/application/audit"
	leaseapp "github.com/rukibhamz/erpsolution-sub000/internal/application/lease"
	ledgerapp "github.com/rukibhamz/erpsolution-sub000/internal/application/ledger"
	"github.com/rukibhamz/erpsolution-sub000/internal/infrastructure/auth"
	"github.com/rukibhamz/erpsolution-sub000/internal/interfaces/http/dto"
)

const (
	formatTable = "table"
	formatJSON  = "json"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow, color.Bold)
	red    = color.New(color.FgRed)
	bold   = color.New(color.Bold)
)

// printer renders command results as aligned tables or indented JSON
type printer struct {
	w      io.Writer
	format string
}

func newPrinter(w io.Writer, format string) (*printer, error) {
	switch format {
	case formatTable, formatJSON:
		return &printer{w: w, format: format}, nil
	default:
		return nil, fmt.Errorf("unknown format %q (want table or json)", format)
	}
}

func (p *printer) print(v any) error {
	if p.format == formatJSON {
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}

	switch out := v.(type) {
	case *audit.Report:
		p.report(out)
	case *leaseapp.ExpiryResult:
		p.expiry(out)
	case *leaseapp.FixResult:
		p.fix(out)
	case *ledgerapp.BalanceOutcome:
		p.balances([]ledgerapp.BalanceOutcome{*out}, nil)
	case *ledgerapp.RecomputeAllResult:
		p.balances(out.Outcomes, out.Errors)
	case dto.ResultResponse:
		p.result(out)
	case *auth.IssuedToken:
		p.table([]string{"TOKEN ID", "EXPIRES AT"}, [][]string{{out.TokenID, out.ExpiresAt.Format("2006-01-02 15:04:05 MST")}})
		fmt.Fprintln(p.w, out.Token)
	default:
		return fmt.Errorf("no table layout for %T", v)
	}
	return nil
}

func (p *printer) report(r *audit.Report) {
	bold.Fprintf(p.w, "Integrity audit %s\n", r.Summary.Timestamp)
	if r.DryRun {
		yellow.Fprintln(p.w, "dry run: nothing was written")
	}

	domains := make([]string, 0, len(r.Details))
	for d := range r.Details {
		domains = append(domains, d)
	}
	sort.Strings(domains)

	rows := make([][]string, 0, len(domains))
	for _, d := range domains {
		res := r.Details[d]
		rows = append(rows, []string{d, fmt.Sprint(len(res.Issues)), fmt.Sprint(len(res.Fixed))})
	}
	rows = append(rows, []string{"total", fmt.Sprint(r.Summary.TotalIssues), fmt.Sprint(r.Summary.TotalFixed)})
	p.table([]string{"DOMAIN", "ISSUES", "FIXED"}, rows)

	for _, d := range domains {
		res := r.Details[d]
		if len(res.Issues) == 0 && len(res.Fixed) == 0 {
			continue
		}
		fmt.Fprintf(p.w, "\n%s\n", d)
		for _, issue := range res.Issues {
			yellow.Fprintf(p.w, "  ! %s\n", issue)
		}
		for _, fixed := range res.Fixed {
			green.Fprintf(p.w, "  + %s\n", fixed)
		}
	}
	if r.ArchiveLocation != "" {
		fmt.Fprintf(p.w, "\narchived to %s\n", r.ArchiveLocation)
	}
}

func (p *printer) expiry(r *leaseapp.ExpiryResult) {
	rows := make([][]string, 0, len(r.Expired))
	for _, id := range r.Expired {
		rows = append(rows, []string{id.String(), "expired"})
	}
	p.table([]string{"LEASE", "STATUS"}, rows)
	p.errors(r.Errors)
}

func (p *printer) fix(r *leaseapp.FixResult) {
	fmt.Fprintf(p.w, "checked %d properties, fixed %d\n", r.Checked, len(r.Fixed))
	for _, f := range r.Fixed {
		green.Fprintf(p.w, "  + %s\n", f)
	}
	p.errors(r.Errors)
}

func (p *printer) balances(outcomes []ledgerapp.BalanceOutcome, errs []string) {
	rows := make([][]string, 0, len(outcomes))
	for _, o := range outcomes {
		state := "ok"
		switch {
		case o.Corrected:
			state = "corrected"
		case o.Drifted:
			state = "drifted"
		}
		rows = append(rows, []string{o.AccountCode, o.Previous.StringFixed(2), o.Recomputed.StringFixed(2), state})
	}
	p.table([]string{"ACCOUNT", "PREVIOUS", "RECOMPUTED", "STATE"}, rows)
	p.errors(errs)
}

func (p *printer) result(r dto.ResultResponse) {
	if r.Success {
		green.Fprintln(p.w, "OK")
	} else {
		red.Fprintln(p.w, "FAILED")
	}
	for _, e := range r.Errors {
		red.Fprintf(p.w, "  error: %s\n", e)
	}
	for _, w := range r.Warnings {
		yellow.Fprintf(p.w, "  warning: %s\n", w)
	}

	switch v := r.Value.(type) {
	case *dto.TransactionResponse:
		p.table([]string{"TRANSACTION", "ACCOUNT", "AMOUNT", "STATUS"},
			[][]string{{v.ID.String(), v.AccountID.String(), v.Amount, v.Status}})
	case *dto.LeaseWithPropertyResponse:
		if v.Lease == nil {
			return
		}
		row := []string{v.Lease.ID.String(), v.Lease.Status, "", ""}
		if v.Property != nil {
			row[2], row[3] = v.Property.Code, v.Property.Status
		}
		p.table([]string{"LEASE", "STATUS", "PROPERTY", "PROPERTY STATUS"}, [][]string{row})
	}
}

func (p *printer) errors(errs []string) {
	for _, e := range errs {
		red.Fprintf(p.w, "  error: %s\n", e)
	}
}

func (p *printer) table(header []string, rows [][]string) {
	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	_ = tw.Flush()
}
