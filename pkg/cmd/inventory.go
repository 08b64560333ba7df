package cmd

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/corefs/testbed/pkg/inventory"
)

var InventoryCommand = cli.Command{
	Name:  "inventory",
	Usage: "inspect the hosting inventory of the cluster under test",
	Subcommands: cli.Commands{
		&cli.Command{
			Name:   "list",
			Usage:  "enumerate the hosts of the deployment",
			Action: inventoryListCommand,
		},
		&cli.Command{
			Name:   "services",
			Usage:  "enumerate all services with their kind and endpoint",
			Action: inventoryServicesCommand,
		},
		&cli.Command{
			Name:  "show",
			Usage: "print the attributes of a single service",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "service",
					Aliases:  []string{"s"},
					Usage:    "`NAME` of the service",
					Required: true,
				},
			},
			Action: inventoryShowCommand,
		},
		&cli.Command{
			Name:   "validate",
			Usage:  "check the inventory for structural problems",
			Action: inventoryValidateCommand,
		},
	},
}

func inventoryListCommand(c *cli.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	inv, err := loadInventory(cfg)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 1, 1, 2, ' ', 0)
	defer tw.Flush()

	_, _ = fmt.Fprintln(tw, "ADDRESS\tPLUGIN\tSERVICES\tCLIS")
	for _, h := range inv.Hosts {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%d\t%d\n", h.Address, h.Plugin, len(h.Services), len(h.CLIs))
	}
	return nil
}

func inventoryServicesCommand(c *cli.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	inv, err := loadInventory(cfg)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 1, 1, 2, ' ', 0)
	defer tw.Flush()

	_, _ = fmt.Fprintln(tw, "NAME\tKIND\tENDPOINT\tCONTAINER")
	for _, s := range inv.Services() {
		endpoint := s.AttrOr("endpoint_data0", s.AttrOr("endpoint", s.AttrOr("endpoint_internal0", "-")))
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			s.Name, s.Kind(), endpoint, s.AttrOr("container_name", "-"))
	}
	return nil
}

func inventoryShowCommand(c *cli.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	inv, err := loadInventory(cfg)
	if err != nil {
		return err
	}

	name := c.String("service")
	s, h, ok := inv.Service(name)
	if !ok {
		return fmt.Errorf("no service named %s in inventory", name)
	}

	fmt.Printf("service %s (%s) on %s\n", s.Name, s.Kind(), h.Address)

	keys := make([]string, 0, len(s.Attributes))
	for k := range s.Attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	tw := tabwriter.NewWriter(os.Stdout, 1, 1, 2, ' ', 0)
	defer tw.Flush()
	for _, k := range keys {
		_, _ = fmt.Fprintf(tw, "%s\t%s\n", k, s.Attributes[k])
	}
	return nil
}

func inventoryValidateCommand(c *cli.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// LoadWithOverride validates the merged document.
	inv, err := inventory.LoadWithOverride(cfg.Cluster.InventoryPath, cfg.Cluster.InventoryOverridePath)
	if err != nil {
		return err
	}

	fmt.Printf("inventory ok: %d hosts, %d services\n", len(inv.Hosts), len(inv.Services()))
	return nil
}
