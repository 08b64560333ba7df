package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/corefs/testbed/pkg/venv"
)

var VenvCommand = cli.Command{
	Name:  "venv",
	Usage: "manage per-suite virtual environments",
	Subcommands: cli.Commands{
		&cli.Command{
			Name:  "ensure",
			Usage: "provision a suite environment (no-op when already current)",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "suite",
					Aliases: []string{"s"},
					Usage:   "`NAME` of the suite to provision",
				},
				&cli.BoolFlag{
					Name:  "all",
					Usage: "provision every discovered suite",
				},
			},
			Action: venvEnsureCommand,
		},
		&cli.Command{
			Name:   "list",
			Usage:  "enumerate discovered suites and their provisioning state",
			Action: venvListCommand,
		},
		&cli.Command{
			Name:  "clean",
			Usage: "remove a suite environment",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "suite",
					Aliases:  []string{"s"},
					Usage:    "`NAME` of the suite to clean",
					Required: true,
				},
			},
			Action: venvCleanCommand,
		},
		&cli.Command{
			Name:  "new",
			Usage: "scaffold the sources of a new suite from the template",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "suite",
					Aliases:  []string{"s"},
					Usage:    "`NAME` of the suite to create",
					Required: true,
				},
			},
			Action: venvNewCommand,
		},
	},
}

func venvEnsureCommand(c *cli.Context) error {
	ctx := ProcessContext()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	suite := c.String("suite")
	all := c.Bool("all")
	if (suite == "") == !all {
		return fmt.Errorf("pass exactly one of --suite or --all")
	}

	// make sure the shared keyword library is in place before any suite
	// installs it.
	if cfg.Keywords.RepoURL != "" {
		_, err := venv.EnsureKeywords(ctx, venv.KeywordsOpts{
			RepoURL: cfg.Keywords.RepoURL,
			Ref:     cfg.Keywords.Ref,
			Dir:     cfg.Dirs().Keywords(),
		})
		if err != nil {
			return err
		}
	}

	p := newProvisioner(cfg)
	if all {
		return p.EnsureAll(ctx)
	}
	return p.Ensure(ctx, suite)
}

func venvListCommand(c *cli.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	p := newProvisioner(cfg)
	suites, err := p.Suites()
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 1, 1, 2, ' ', 0)
	defer tw.Flush()

	_, _ = fmt.Fprintln(tw, "SUITE\tSTATE\tTARGET")
	for _, s := range suites {
		state := "stale"
		if ok, err := p.UpToDate(s); err != nil {
			state = "error: " + err.Error()
		} else if ok {
			state = "ready"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", s, state, p.TargetDir(s))
	}
	return nil
}

func venvCleanCommand(c *cli.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	p := newProvisioner(cfg)
	suite := c.String("suite")
	if err := p.Clean(suite); err != nil {
		return err
	}
	fmt.Printf("environment of suite %s removed.\n", suite)
	return nil
}

func venvNewCommand(c *cli.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	p := newProvisioner(cfg)
	dir, err := p.Scaffold(c.String("suite"))
	if err != nil {
		return err
	}
	fmt.Printf("new suite created under: %s\n", dir)
	return nil
}
