package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/DrExperiment/ecole-peg-sub000/internal/controller"
)

func runSession(ctx context.Context, env *environment, args []string) error {
	if len(args) == 0 || args[0] != "create" {
		return errors.New("usage: ecolectl session create [flags]")
	}
	fs := flag.NewFlagSet("session create", flag.ContinueOnError)
	var in controller.SessionInput
	fs.StringVar(&in.CourseID, "course", "", "course id")
	fs.StringVar(&in.TeacherID, "teacher", "", "teacher id")
	fs.StringVar(&in.StartDate, "start", "", "start date yyyy-MM-dd")
	fs.StringVar(&in.EndDate, "end", "", "end date yyyy-MM-dd")
	fs.StringVar(&in.Period, "period", "", "MORNING or EVENING")
	fs.StringVar(&in.SessionsPerMonth, "per-month", "", "sessions per month")
	fs.StringVar(&in.Capacity, "capacity", "", "seats")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	form := controller.NewSessionForm(env.api, env.logger)
	if _, err := form.Payload(in); err != nil {
		return err
	}
	if err := authenticate(ctx, env); err != nil {
		return err
	}
	session, err := form.Submit(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(env.out, "session %s created (%s, %s to %s, %s)\n",
		session.ID, session.CourseName, session.StartDate, session.EndDate, session.Status)
	return nil
}

func runLesson(ctx context.Context, env *environment, args []string) error {
	if len(args) == 0 || args[0] != "create" {
		return errors.New("usage: ecolectl lesson create [flags]")
	}
	fs := flag.NewFlagSet("lesson create", flag.ContinueOnError)
	var in controller.PrivateLessonInput
	fs.StringVar(&in.LessonDate, "date", "", "lesson date yyyy-MM-dd")
	fs.StringVar(&in.StartTime, "start", "", "start time HH:MM")
	fs.StringVar(&in.EndTime, "end", "", "end time HH:MM")
	fs.StringVar(&in.Fee, "fee", "", "fee, e.g. 60.00")
	fs.StringVar(&in.Place, "place", "SCHOOL", "SCHOOL or HOME")
	fs.StringVar(&in.TeacherID, "teacher", "", "teacher id")
	students := fs.String("students", "", "comma separated student ids")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	in.StudentIDs = strings.Split(*students, ",")

	form := controller.NewPrivateLessonForm(env.api, env.logger)
	if _, err := form.Payload(in); err != nil {
		return err
	}
	if err := authenticate(ctx, env); err != nil {
		return err
	}
	lesson, err := form.Submit(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(env.out, "private lesson %s created on %s %s-%s\n", lesson.ID, lesson.LessonDate, lesson.StartTime, lesson.EndTime)
	return nil
}
