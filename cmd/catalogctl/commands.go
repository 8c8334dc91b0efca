package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"rocksolid/climbing-trainer/internal/api"
	"rocksolid/climbing-trainer/internal/domain"
	"rocksolid/climbing-trainer/internal/service"
	"rocksolid/climbing-trainer/internal/week"
)

// Context is passed to every command's Run.
type Context struct {
	Ctx      context.Context
	Services api.Services
	Out      io.Writer
}

// catalogFile is the seed file layout:
//
//	exercises:
//	  - name: Hangboard Repeaters
//	    difficulty: Intermediate
//	    category: Finger / Grip
//	    sets: 3
//	    reps: "6-8"
type catalogFile struct {
	Exercises []service.ExerciseInput `yaml:"exercises"`
}

// tutorialFile maps exercise names to tutorial texts.
type tutorialFile struct {
	Tutorials []struct {
		Name     string `yaml:"name"`
		Tutorial string `yaml:"tutorial"`
	} `yaml:"tutorials"`
}

func readYAML(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

type SeedCmd struct {
	File string `help:"Catalog YAML file." type:"existingfile" required:""`
}

func (c *SeedCmd) Run(ctx *Context) error {
	var f catalogFile
	if err := readYAML(c.File, &f); err != nil {
		return err
	}
	if len(f.Exercises) == 0 {
		return fmt.Errorf("%s contains no exercises", c.File)
	}
	for i, in := range f.Exercises {
		if _, err := ctx.Services.Exercise.UpsertExercise(ctx.Ctx, in); err != nil {
			return fmt.Errorf("exercise #%d (%q): %w", i+1, in.Name, err)
		}
	}
	fmt.Fprintf(ctx.Out, "Upserted %d exercises.\n", len(f.Exercises))
	return nil
}

type TutorialsCmd struct {
	File string `help:"Tutorials YAML file." type:"existingfile" required:""`
}

func (c *TutorialsCmd) Run(ctx *Context) error {
	var f tutorialFile
	if err := readYAML(c.File, &f); err != nil {
		return err
	}
	var missing []string
	updated := 0
	for _, t := range f.Tutorials {
		err := ctx.Services.Exercise.SetTutorial(ctx.Ctx, t.Name, t.Tutorial)
		switch {
		case err == nil:
			updated++
		case errors.Is(err, service.ErrExerciseNotFound):
			missing = append(missing, t.Name)
		default:
			return fmt.Errorf("tutorial %q: %w", t.Name, err)
		}
	}
	fmt.Fprintf(ctx.Out, "Updated %d tutorials.\n", updated)
	if len(missing) > 0 {
		fmt.Fprintf(ctx.Out, "Not in catalog: %s\n", strings.Join(missing, ", "))
	}
	return nil
}

type PlanCmd struct {
	User string `help:"User ID." required:""`
}

func (c *PlanCmd) Run(ctx *Context) error {
	plan, err := ctx.Services.Plan.GenerateWeeklyPlan(ctx.Ctx, c.User)
	if err != nil {
		return err
	}
	printPlan(ctx.Out, plan)
	return nil
}

func printPlan(out io.Writer, plan *domain.Plan) {
	fmt.Fprintf(out, "Week of %s\n", plan.WeekStart)
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, day := range week.TrainingDays {
		for i, item := range plan.Days[day] {
			label := ""
			if i == 0 {
				label = day
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", label, item.Name, item.Sets, item.Reps)
		}
	}
	w.Flush()
}

type CountersCmd struct {
	User string `help:"User ID." required:""`
}

func (c *CountersCmd) Run(ctx *Context) error {
	counters, err := ctx.Services.Progress.ComputeCounters(ctx.Ctx, c.User)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(ctx.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "week\t%s\n", counters.WeekStart)
	fmt.Fprintf(w, "sessions\t%d\n", counters.TotalSessions)
	fmt.Fprintf(w, "exercises done\t%d\n", counters.TotalCompletedExercises)
	fmt.Fprintf(w, "this week\t%d\n", counters.ThisWeekExercises)
	fmt.Fprintf(w, "goal progress\t%d\n", counters.GoalProgressSessions)
	for _, a := range counters.Achievements {
		state := "locked"
		if a.Unlocked {
			state = "unlocked"
		}
		fmt.Fprintf(w, "%s\t%s\n", a.Title, state)
	}
	return w.Flush()
}

type CreateAdminCmd struct {
	Name     string `help:"Display name." required:""`
	Email    string `help:"Login email." required:""`
	Password string `help:"Initial password." required:"" env:"ROCKSOLID_ADMIN_PASSWORD"`
}

func (c *CreateAdminCmd) Run(ctx *Context) error {
	user, err := ctx.Services.Auth.Register(ctx.Ctx, c.Name, c.Email, c.Password, domain.RoleAdmin)
	if err != nil {
		return err
	}
	fmt.Fprintf(ctx.Out, "Created admin %s (%s)\n", user.Email, user.ID.Hex())
	return nil
}
