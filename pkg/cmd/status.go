package cmd

import (
	"fmt"
	"net"
	"os"
	"text/tabwriter"
	"time"

	"github.com/docker/docker/api/types"
	"github.com/docker/go-connections/nat"
	"github.com/dustin/go-humanize"
	"github.com/logrusorgru/aurora"
	"github.com/urfave/cli/v2"

	"github.com/corefs/testbed/pkg/cluster"
	"github.com/corefs/testbed/pkg/docker"
	"github.com/corefs/testbed/pkg/logging"
)

var StatusCommand = cli.Command{
	Name:   "status",
	Usage:  "show the storage nodes of the cluster and their container state",
	Action: statusCommand,
}

func statusCommand(c *cli.Context) error {
	ctx := ProcessContext()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	inv, err := loadInventory(cfg)
	if err != nil {
		return err
	}

	cli, err := docker.NewClient(cfg.Cluster.DockerEndpoint)
	if err != nil {
		logging.S().Warnf("docker unavailable; container state will read as unknown: %s", err)
		cli = nil
	}

	cl := cluster.New(inv, cli)
	nodes, err := cl.StorageNodes()
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 1, 1, 2, ' ', 0)
	defer tw.Flush()

	_, _ = fmt.Fprintln(tw, "NODE\tENDPOINT\tBINDING\tLOCODE\tSTATE\tUP")
	for _, n := range nodes {
		state, up, binding := "unknown", "-", "-"
		if cli != nil {
			cj, err := docker.CheckContainer(ctx, logging.S(), cli, n.ContainerName)
			switch {
			case err != nil:
				state = "error"
			case cj == nil:
				state = "absent"
			case cj.State.Running:
				state = aurora.Green("running").String()
				if t, err := time.Parse(time.RFC3339Nano, cj.State.StartedAt); err == nil {
					up = humanize.Time(t)
				}
				binding = hostBinding(cj, n.Endpoint)
			default:
				state = aurora.Red(cj.State.Status).String()
			}
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", n.Name, n.Endpoint, binding, n.UNLocode, state, up)
	}
	return nil
}

// hostBinding resolves where the node's data port is published on the docker
// host, for deployments that reach containers through port mappings rather
// than the devenv DNS names.
func hostBinding(cj *types.ContainerJSON, endpoint string) string {
	_, port, err := net.SplitHostPort(endpoint)
	if err != nil {
		return "-"
	}
	if addr, ok := docker.HostPort(cj, nat.Port(port+"/tcp")); ok {
		return addr
	}
	return "-"
}
