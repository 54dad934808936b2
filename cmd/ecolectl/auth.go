package main

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/DrExperiment/ecole-peg-sub000/internal/controller"
	"github.com/DrExperiment/ecole-peg-sub000/internal/service"
)

func runHashPassword(_ context.Context, env *environment, args []string) error {
	fs := flag.NewFlagSet("hash-password", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	password, err := readPassword("New admin password: ")
	if err != nil {
		return err
	}
	confirm, err := readPassword("Repeat password: ")
	if err != nil {
		return err
	}
	if password != confirm {
		return errors.New("passwords do not match")
	}
	hash, err := service.HashPassword(password)
	if err != nil {
		return err
	}
	fmt.Fprintln(env.out, hash)
	return nil
}

func runStatus(ctx context.Context, env *environment, args []string) error {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	login := fs.Bool("login", false, "log in before reporting")
	if err := fs.Parse(args); err != nil {
		return err
	}

	provider, err := controller.NewAuthProvider(ctx, env.api, env.logger)
	if err != nil {
		return err
	}
	if *login && !provider.IsAuthenticated() {
		password, err := readPassword("Admin password: ")
		if err != nil {
			return err
		}
		if err := provider.Login(ctx, password); err != nil {
			return err
		}
	}
	fmt.Fprintf(env.out, "api: %s\nauthenticated: %t\n", env.cfg.Client.BaseURL, provider.IsAuthenticated())
	return nil
}

// authenticate opens a session for the commands that need one.
func authenticate(ctx context.Context, env *environment) error {
	provider, err := controller.NewAuthProvider(ctx, env.api, env.logger)
	if err != nil {
		return err
	}
	if provider.IsAuthenticated() {
		return nil
	}
	password, err := readPassword("Admin password: ")
	if err != nil {
		return err
	}
	return provider.Login(ctx, password)
}
