package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/DrExperiment/ecole-peg-sub000/internal/controller"
	"github.com/DrExperiment/ecole-peg-sub000/internal/domain"
)

func runPay(ctx context.Context, env *environment, args []string) error {
	fs := flag.NewFlagSet("pay", flag.ContinueOnError)
	invoiceID := fs.String("invoice", "", "invoice id")
	amountRaw := fs.String("amount", "", "amount, e.g. 50.00")
	channel := fs.String("channel", string(domain.ChannelPersonal), "PERSONAL, BPA, CAF, HOSPICE or OTHER")
	method := fs.String("method", "", "CASH, TRANSFER, CARD or PHONE (personal payments only)")
	paidOn := fs.String("date", "", "payment date yyyy-MM-dd, defaults to today")
	if err := fs.Parse(args); err != nil {
		return err
	}

	amount, err := domain.ParseMoney(*amountRaw)
	if err != nil {
		return fmt.Errorf("amount: %w", err)
	}
	in := controller.PaymentInput{
		InvoiceID: *invoiceID,
		Amount:    amount,
		Channel:   domain.PaymentChannel(strings.ToUpper(*channel)),
	}
	if *method != "" {
		m := domain.PaymentMethod(strings.ToUpper(*method))
		in.Method = &m
	}
	if *paidOn != "" {
		d, err := domain.ParseDate(*paidOn)
		if err != nil {
			return fmt.Errorf("date: %w", err)
		}
		in.PaidOn = &d
	}

	if err := authenticate(ctx, env); err != nil {
		return err
	}
	result, err := controller.NewPaymentForm(env.api, env.logger).Submit(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(env.out, "payment %s recorded, remaining %s\n",
		result.Payment.ID, result.Remaining.Format(env.cfg.Billing.Currency))
	return nil
}
