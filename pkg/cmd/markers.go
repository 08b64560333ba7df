package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/corefs/testbed/pkg/markers"
)

var MarkersCommand = cli.Command{
	Name:  "markers",
	Usage: "inspect the marker registry used for test selection",
	Subcommands: cli.Commands{
		&cli.Command{
			Name:   "list",
			Usage:  "enumerate all registered markers with their descriptions",
			Action: markersListCommand,
		},
		&cli.Command{
			Name:   "lint",
			Usage:  "validate the marker registry file",
			Action: markersLintCommand,
		},
		&cli.Command{
			Name:  "match",
			Usage: "evaluate a selection expression against a set of markers",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "expr",
					Aliases:  []string{"e"},
					Usage:    "selection `EXPRESSION`, e.g. 'sanity and not load'",
					Required: true,
				},
				&cli.StringSliceFlag{
					Name:    "tag",
					Aliases: []string{"t"},
					Usage:   "marker `NAME` carried by the hypothetical test case; repeatable",
				},
			},
			Action: markersMatchCommand,
		},
	},
}

func loadRegistry() (*markers.Registry, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return markers.LoadFile(cfg.Markers.RegistryPath)
}

func markersListCommand(c *cli.Context) error {
	r, err := loadRegistry()
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 1, 1, 2, ' ', 0)
	defer tw.Flush()

	for _, m := range r.Markers() {
		_, _ = fmt.Fprintf(tw, "%s\t%s\n", m.Name, m.Description)
	}
	return nil
}

func markersLintCommand(c *cli.Context) error {
	r, err := loadRegistry()
	if err != nil {
		return err
	}
	fmt.Printf("registry ok: %d markers\n", r.Len())
	return nil
}

func markersMatchCommand(c *cli.Context) error {
	r, err := loadRegistry()
	if err != nil {
		return err
	}

	expr, err := r.Compile(c.String("expr"))
	if err != nil {
		return err
	}

	set := make(map[string]bool)
	for _, t := range c.StringSlice("tag") {
		if !r.Has(t) {
			return fmt.Errorf("tag %q is not a registered marker", t)
		}
		set[t] = true
	}

	if expr.Match(set) {
		fmt.Printf("selected: a case tagged [%s] matches %q\n", strings.Join(c.StringSlice("tag"), ", "), expr)
	} else {
		fmt.Printf("not selected: a case tagged [%s] does not match %q\n", strings.Join(c.StringSlice("tag"), ", "), expr)
	}
	return nil
}
