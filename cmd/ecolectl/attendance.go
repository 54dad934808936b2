package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/DrExperiment/ecole-peg-sub000/internal/controller"
)

func runAttendance(ctx context.Context, env *environment, args []string) error {
	fs := flag.NewFlagSet("attendance", flag.ContinueOnError)
	sheetID := fs.String("sheet", "", "attendance sheet id")
	toggles := fs.String("toggle", "", "comma separated student:day pairs to flip")
	export := fs.String("export", "", "write the CSV export to this file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *sheetID == "" {
		return fmt.Errorf("-sheet is required")
	}
	flips, err := parseToggles(*toggles)
	if err != nil {
		return err
	}

	if err := authenticate(ctx, env); err != nil {
		return err
	}
	editor := controller.NewAttendanceEditor(env.api, env.logger)
	if err := editor.Load(ctx, *sheetID); err != nil {
		return err
	}

	if len(flips) > 0 {
		for _, f := range flips {
			if !editor.Toggle(f.student, f.day) {
				fmt.Fprintf(os.Stderr, "no record for %s on day %d, skipped\n", f.student, f.day)
			}
		}
		if err := editor.Save(ctx); err != nil {
			return err
		}
	}

	sheet := editor.Sheet()
	tw := tabwriter.NewWriter(env.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "%02d/%d\tpresent\n", sheet.Month, sheet.Year)
	for _, student := range sheet.Students() {
		fmt.Fprintf(tw, "%s\t%d\n", student, editor.TotalPresent(student))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if *export != "" {
		payload, err := env.api.ExportAttendance(ctx, *sheetID)
		if err != nil {
			return err
		}
		if err := os.WriteFile(*export, payload, 0o644); err != nil {
			return fmt.Errorf("write export: %w", err)
		}
		fmt.Fprintf(env.out, "exported to %s\n", *export)
	}
	return nil
}

type toggle struct {
	student string
	day     int
}

func parseToggles(raw string) ([]toggle, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var out []toggle
	for _, part := range strings.Split(raw, ",") {
		student, dayRaw, ok := strings.Cut(strings.TrimSpace(part), ":")
		if !ok {
			return nil, fmt.Errorf("toggle %q: expected student:day", part)
		}
		day, err := strconv.Atoi(dayRaw)
		if err != nil || day < 1 || day > 31 {
			return nil, fmt.Errorf("toggle %q: bad day", part)
		}
		out = append(out, toggle{student: student, day: day})
	}
	return out, nil
}
