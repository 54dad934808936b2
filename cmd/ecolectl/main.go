// Command ecolectl runs the front-desk flows against the API from a terminal.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/DrExperiment/ecole-peg-sub000/pkg/client"
	"github.com/DrExperiment/ecole-peg-sub000/pkg/config"
)

const usage = `usage: ecolectl <command> [flags]

commands:
  hash-password      print a bcrypt hash for ADMIN_PASSWORD_HASH
  status             report whether the API accepts the admin password
  pay                record a payment against an invoice
  enrollment-status  change an enrollment and re-derive its status
  attendance         show, toggle and export an attendance sheet
  invoice            create, list or download invoices
  session            create a course session
  lesson             create a private lesson
`

type command func(ctx context.Context, env *environment, args []string) error

var commands = map[string]command{
	"hash-password":     runHashPassword,
	"status":            runStatus,
	"pay":               runPay,
	"enrollment-status": runEnrollmentStatus,
	"attendance":        runAttendance,
	"invoice":           runInvoice,
	"session":           runSession,
	"lesson":            runLesson,
}

// environment carries what every subcommand shares.
type environment struct {
	cfg    *config.Config
	logger *zap.Logger
	out    io.Writer
	api    *client.Client
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	cmd, ok := commands[os.Args[1]]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", os.Args[1], usage)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env, err := newEnvironment()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer env.logger.Sync() //nolint:errcheck

	if err := cmd(ctx, env, os.Args[2:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newEnvironment() (*environment, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger := zap.NewNop()
	if os.Getenv("ECOLECTL_DEBUG") != "" {
		if logger, err = zap.NewDevelopment(); err != nil {
			return nil, err
		}
	}
	api, err := client.New(client.Config{BaseURL: cfg.Client.BaseURL, Timeout: cfg.Client.Timeout})
	if err != nil {
		return nil, err
	}
	return &environment{cfg: cfg, logger: logger, out: os.Stdout, api: api}, nil
}

// readPassword takes ECOLE_ADMIN_PASSWORD when set, else prompts without echo.
func readPassword(prompt string) (string, error) {
	if pw := os.Getenv("ECOLE_ADMIN_PASSWORD"); pw != "" {
		return pw, nil
	}
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("no terminal to read the password from; set ECOLE_ADMIN_PASSWORD")
	}
	fmt.Fprint(os.Stderr, prompt)
	raw, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(raw), nil
}
