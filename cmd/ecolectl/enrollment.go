package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/DrExperiment/ecole-peg-sub000/internal/controller"
	"github.com/DrExperiment/ecole-peg-sub000/internal/domain"
)

func runEnrollmentStatus(ctx context.Context, env *environment, args []string) error {
	fs := flag.NewFlagSet("enrollment-status", flag.ContinueOnError)
	studentID := fs.String("student", "", "student id")
	enrollmentID := fs.String("enrollment", "", "enrollment id")
	sessionID := fs.String("session", "", "move the enrollment to this session")
	registered := fs.String("registered", "", "registration date yyyy-MM-dd")
	exit := fs.String("exit", "", "exit date yyyy-MM-dd")
	reason := fs.String("reason", "", "exit reason")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *studentID == "" || *enrollmentID == "" {
		return fmt.Errorf("-student and -enrollment are required")
	}

	if err := authenticate(ctx, env); err != nil {
		return err
	}
	editor := controller.NewEnrollmentEditor(env.api, env.logger)
	changes, err := editor.Load(ctx, *studentID, *enrollmentID)
	if err != nil {
		return err
	}
	before := changes.Status

	if *sessionID != "" {
		changes.SessionID = *sessionID
	}
	if *registered != "" {
		d, err := domain.ParseDate(*registered)
		if err != nil {
			return fmt.Errorf("registered: %w", err)
		}
		changes.RegisteredOn = d
	}
	if *exit != "" {
		d, err := domain.ParseDate(*exit)
		if err != nil {
			return fmt.Errorf("exit: %w", err)
		}
		changes.ExitDate = &d
	}
	if *reason != "" {
		changes.ExitReason = reason
	}

	saved, err := editor.Save(ctx, *studentID, *enrollmentID, changes)
	if err != nil {
		return err
	}
	fmt.Fprintf(env.out, "enrollment %s: %s -> %s\n", saved.ID, before, saved.Status)
	return nil
}
