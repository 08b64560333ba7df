package cmd

import (
	"fmt"

	"github.com/logrusorgru/aurora"
	"github.com/urfave/cli/v2"

	"github.com/corefs/testbed/pkg/docker"
	hc "github.com/corefs/testbed/pkg/healthcheck"
	"github.com/corefs/testbed/pkg/inventory"
	"github.com/corefs/testbed/pkg/logging"
)

var HealthcheckCommand = cli.Command{
	Name:   "healthcheck",
	Usage:  "checks, and optionally heals, the preconditions for running suites against the cluster",
	Action: healthcheckCommand,
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "fix",
			Usage: "attempt to fix failing preconditions",
		},
	},
}

func healthcheckCommand(c *cli.Context) error {
	ctx := ProcessContext()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	inv, err := loadInventory(cfg)
	if err != nil {
		return err
	}

	// a docker client is only needed for container checks; without one the
	// container checks degrade to endpoint dials.
	cli, err := docker.NewClient(cfg.Cluster.DockerEndpoint)
	if err != nil {
		logging.S().Warnf("docker unavailable; container checks will be skipped: %s", err)
		cli = nil
	}

	h := new(hc.Helper)

	for _, s := range inv.Services() {
		s := s
		if cli != nil {
			if name, ok := s.Attr("container_name"); ok {
				h.Enlist("container "+s.Name,
					hc.ContainerRunningChecker(ctx, logging.S(), cli, name),
					hc.ContainerStartFixer(ctx, logging.S(), cli, name))
			}
		}

		// storage nodes expose their data endpoint; gateways expose theirs.
		if s.Kind() == inventory.KindStorageNode {
			if ep, ok := s.Attr("endpoint_data0"); ok {
				h.Enlist("endpoint "+s.Name, hc.DialableChecker("tcp", ep), nil)
			}
		}
	}

	p := newProvisioner(cfg)
	suites, err := p.Suites()
	if err != nil {
		return err
	}
	for _, suite := range suites {
		suite := suite
		h.Enlist("venv "+suite,
			hc.SuiteUpToDateChecker(p, suite),
			hc.SuiteEnsureFixer(ctx, p, suite))
	}

	report, err := h.RunChecks(ctx, c.Bool("fix"))
	if err != nil {
		return err
	}

	printReport(report)

	if !report.ChecksSucceeded() && !c.Bool("fix") {
		return fmt.Errorf("healthcheck found problems; re-run with --fix to attempt repairs")
	}
	if c.Bool("fix") && !report.FixesSucceeded() {
		return fmt.Errorf("some fixes failed; see report above")
	}
	return nil
}

func printReport(r *hc.Report) {
	fmt.Println(aurora.Bold("Checks:"))
	for _, item := range r.Checks {
		fmt.Printf("- %s; status: %s; message: %s\n", item.Name, colorStatus(item.Status), item.Message)
	}
	if len(r.Fixes) == 0 {
		return
	}
	fmt.Println(aurora.Bold("Fixes:"))
	for _, item := range r.Fixes {
		fmt.Printf("- %s; status: %s; message: %s\n", item.Name, colorStatus(item.Status), item.Message)
	}
}

func colorStatus(s hc.Status) aurora.Value {
	switch s {
	case hc.StatusOK:
		return aurora.Green(string(s))
	case hc.StatusFailed:
		return aurora.Red(string(s))
	case hc.StatusAborted:
		return aurora.BrightRed(string(s))
	default:
		return aurora.Gray(8, string(s))
	}
}
