// Command gatectl manages cohorts out of band: creating them, rotating the
// team passphrase and choosing the single active one.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/aussiebroadwan/cohortgate/internal/gate/app"
	"github.com/aussiebroadwan/cohortgate/internal/gate/service"
	"github.com/aussiebroadwan/cohortgate/pkg/cryptox"
	"github.com/aussiebroadwan/cohortgate/pkg/slogx"
	"github.com/spf13/pflag"
)

const usage = `gatectl manages cohorts for the cohort gate.

It reads the same GATE_STORE_* and GATE_PEPPER_FILE settings as the server.

Usage:
  gatectl cohort create --name NAME --passphrase PASS [--activate]
  gatectl cohort activate --id ID
  gatectl cohort passphrase --id ID --passphrase PASS
  gatectl cohort list
`

var errUsage = errors.New("invalid usage")

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprint(stdout, usage)
		return nil
	}
	if args[0] != "cohort" || len(args) < 2 {
		return errUsage
	}

	cfg, err := app.LoadConfig()
	if err != nil {
		return err
	}
	cryptox.SetPepperPath(cfg.PepperFile)

	logger := slogx.New(slogx.Config{
		Service: "gatectl",
		Version: app.BuildVersion,
		Env:     cfg.Env,
		Level:   "warn",
		Format:  "text",
		Output:  stderr,
	})

	st, err := app.OpenStore(ctx, cfg.Store, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	cohorts := &service.CohortService{Store: st}
	ctx = slogx.WithAttrs(slogx.WithContext(ctx, logger), "command", "cohort "+args[1])

	switch args[1] {
	case "create":
		return cohortCreate(ctx, cohorts, args[2:], stdout)
	case "activate":
		return cohortActivate(ctx, cohorts, args[2:], stdout)
	case "passphrase":
		return cohortPassphrase(ctx, cohorts, args[2:], stdout)
	case "list":
		return cohortList(ctx, cohorts, stdout)
	default:
		return errUsage
	}
}

func cohortCreate(ctx context.Context, cohorts *service.CohortService, args []string, stdout io.Writer) error {
	var name, passphrase string
	var activate bool

	flagSet := pflag.NewFlagSet("cohort create", pflag.ContinueOnError)
	flagSet.StringVar(&name, "name", "", "cohort name")
	flagSet.StringVar(&passphrase, "passphrase", "", "team passphrase shared with students")
	flagSet.BoolVar(&activate, "activate", false, "make this the active cohort")
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	c, err := cohorts.CreateCohort(ctx, name, passphrase, activate)
	if err != nil {
		return err
	}

	state := "inactive"
	if c.IsActive {
		state = "active"
	}
	fmt.Fprintf(stdout, "created cohort %s (%s, %s)\n", c.ID, c.Name, state)
	return nil
}

func cohortActivate(ctx context.Context, cohorts *service.CohortService, args []string, stdout io.Writer) error {
	var id string

	flagSet := pflag.NewFlagSet("cohort activate", pflag.ContinueOnError)
	flagSet.StringVar(&id, "id", "", "cohort id")
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if id == "" {
		return fmt.Errorf("%w: --id is required", errUsage)
	}

	if err := cohorts.ActivateCohort(ctx, id); err != nil {
		if service.IsNotFound(err) {
			return fmt.Errorf("cohort %s not found", id)
		}
		return err
	}
	fmt.Fprintf(stdout, "activated cohort %s\n", id)
	return nil
}

func cohortPassphrase(ctx context.Context, cohorts *service.CohortService, args []string, stdout io.Writer) error {
	var id, passphrase string

	flagSet := pflag.NewFlagSet("cohort passphrase", pflag.ContinueOnError)
	flagSet.StringVar(&id, "id", "", "cohort id")
	flagSet.StringVar(&passphrase, "passphrase", "", "new team passphrase")
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if id == "" {
		return fmt.Errorf("%w: --id is required", errUsage)
	}

	if err := cohorts.SetPassphrase(ctx, id, passphrase); err != nil {
		if service.IsNotFound(err) {
			return fmt.Errorf("cohort %s not found", id)
		}
		return err
	}
	fmt.Fprintf(stdout, "updated passphrase for cohort %s\n", id)
	return nil
}

func cohortList(ctx context.Context, cohorts *service.CohortService, stdout io.Writer) error {
	all, err := cohorts.ListCohorts(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tACTIVE\tCREATED")
	for _, c := range all {
		active := ""
		if c.IsActive {
			active = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.ID, c.Name, active, c.CreatedAt.Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}
