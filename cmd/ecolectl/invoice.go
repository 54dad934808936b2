package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/DrExperiment/ecole-peg-sub000/internal/controller"
	"github.com/DrExperiment/ecole-peg-sub000/internal/domain"
	"github.com/DrExperiment/ecole-peg-sub000/internal/dto"
)

func runInvoice(ctx context.Context, env *environment, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: ecolectl invoice create|list|pdf [flags]")
	}
	switch args[0] {
	case "create":
		return runInvoiceCreate(ctx, env, args[1:])
	case "list":
		return runInvoiceList(ctx, env, args[1:])
	case "pdf":
		return runInvoicePDF(ctx, env, args[1:])
	}
	return fmt.Errorf("unknown invoice action %q", args[0])
}

// lineItems collects repeated -line "description=amount" flags.
type lineItems []domain.LineItem

func (l *lineItems) String() string { return fmt.Sprint(len(*l)) }

func (l *lineItems) Set(raw string) error {
	desc, amountRaw, ok := strings.Cut(raw, "=")
	if !ok {
		return fmt.Errorf("line %q: expected description=amount", raw)
	}
	amount, err := domain.ParseMoney(strings.TrimSpace(amountRaw))
	if err != nil {
		return fmt.Errorf("line %q: %w", raw, err)
	}
	*l = append(*l, domain.LineItem{Description: strings.TrimSpace(desc), Amount: amount})
	return nil
}

func runInvoiceCreate(ctx context.Context, env *environment, args []string) error {
	fs := flag.NewFlagSet("invoice create", flag.ContinueOnError)
	enrollmentID := fs.String("enrollment", "", "enrollment id")
	lessonID := fs.String("lesson", "", "private lesson id")
	due := fs.String("due", "", "due date yyyy-MM-dd")
	var lines lineItems
	fs.Var(&lines, "line", `line item "description=amount", repeatable`)
	if err := fs.Parse(args); err != nil {
		return err
	}

	req := dto.CreateInvoiceRequest{LineItems: lines}
	if *enrollmentID != "" {
		req.EnrollmentID = enrollmentID
	}
	if *lessonID != "" {
		req.PrivateLessonID = lessonID
	}
	if *due != "" {
		d, err := domain.ParseDate(*due)
		if err != nil {
			return fmt.Errorf("due: %w", err)
		}
		req.DueDate = &d
	}

	form := controller.NewInvoiceForm(env.api, env.logger)
	if err := form.Validate(req); err != nil {
		return err
	}
	if err := authenticate(ctx, env); err != nil {
		return err
	}
	invoice, err := form.Submit(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(env.out, "invoice %s (no. %d) created, total %s\n",
		invoice.ID, invoice.Number, form.Total(lines).Format(env.cfg.Billing.Currency))
	return nil
}

func runInvoiceList(ctx context.Context, env *environment, args []string) error {
	fs := flag.NewFlagSet("invoice list", flag.ContinueOnError)
	status := fs.String("status", "", "paid or unpaid, all when empty")
	page := fs.Int("page", 1, "page number")
	limit := fs.Int("limit", 20, "page size")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := authenticate(ctx, env); err != nil {
		return err
	}
	invoices, pagination, err := env.api.ListInvoices(ctx, *status, *page, *limit)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(env.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "no.\tstudent\tissued\ttotal\tremaining\tstatus\tid")
	for _, inv := range invoices {
		fmt.Fprintf(tw, "%d\t%s %s\t%s\t%s\t%s\t%s\t%s\n", inv.Number, inv.StudentFirstName, inv.StudentLastName,
			inv.IssuedOn, inv.Total, inv.Remaining, inv.Status, inv.ID)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if pagination != nil {
		fmt.Fprintf(env.out, "page %d, %d invoices in total\n", pagination.Page, pagination.TotalCount)
	}
	return nil
}

func runInvoicePDF(ctx context.Context, env *environment, args []string) error {
	fs := flag.NewFlagSet("invoice pdf", flag.ContinueOnError)
	id := fs.String("invoice", "", "invoice id")
	out := fs.String("out", "", "output file, defaults to invoice-<id>.pdf")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return errors.New("-invoice is required")
	}
	path := *out
	if path == "" {
		path = "invoice-" + *id + ".pdf"
	}
	if err := authenticate(ctx, env); err != nil {
		return err
	}
	payload, err := env.api.InvoicePDF(ctx, *id)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	fmt.Fprintf(env.out, "wrote %s\n", path)
	return nil
}
