// Package cluster is the client-side controller for a deployed storage
// network. It binds the hosting inventory to the docker backend, giving
// fixture code a typed view of storage nodes and gateways, node selection for
// placement-sensitive scenarios, and container-level control for failover
// scenarios.
package cluster

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	dockercli "github.com/docker/docker/client"
	"go.uber.org/zap"

	"github.com/corefs/testbed/pkg/docker"
	"github.com/corefs/testbed/pkg/inventory"
	"github.com/corefs/testbed/pkg/logging"
)

// Node is the resolved view of a storage node service.
type Node struct {
	Name            string
	ContainerName   string
	Endpoint        string
	ControlEndpoint string
	WalletPath      string
	WalletPassword  string
	UNLocode        string
}

// Cluster wraps an inventory and, for container-managed hosts, a docker
// client.
type Cluster struct {
	inv *inventory.Inventory
	cli *dockercli.Client
	log *zap.SugaredLogger
}

// New builds a controller over the given inventory. The docker client may be
// nil; node stop/start then return an error.
func New(inv *inventory.Inventory, cli *dockercli.Client) *Cluster {
	return &Cluster{inv: inv, cli: cli, log: logging.S()}
}

// Inventory exposes the underlying inventory.
func (c *Cluster) Inventory() *inventory.Inventory {
	return c.inv
}

// StorageNodes returns the resolved storage nodes, in inventory order.
func (c *Cluster) StorageNodes() ([]Node, error) {
	var nodes []Node
	for _, s := range c.inv.Services() {
		if s.Kind() != inventory.KindStorageNode {
			continue
		}
		var attrs inventory.StorageNodeAttrs
		if err := s.DecodeAttrs(&attrs); err != nil {
			return nil, err
		}
		nodes = append(nodes, Node{
			Name:            s.Name,
			ContainerName:   attrs.ContainerName,
			Endpoint:        attrs.Endpoint,
			ControlEndpoint: attrs.ControlEndpoint,
			WalletPath:      attrs.WalletPath,
			WalletPassword:  attrs.WalletPassword,
			UNLocode:        attrs.UNLocode,
		})
	}
	return nodes, nil
}

// Node returns the resolved storage node with the given service name.
func (c *Cluster) Node(name string) (Node, error) {
	nodes, err := c.StorageNodes()
	if err != nil {
		return Node{}, err
	}
	for _, n := range nodes {
		if n.Name == name {
			return n, nil
		}
	}
	return Node{}, fmt.Errorf("no storage node named %s in inventory", name)
}

// PickNodes selects n distinct storage nodes at random. Placement-sensitive
// scenarios use this to settle on, say, a session-token node, a container
// node and a bystander.
func (c *Cluster) PickNodes(n int) ([]Node, error) {
	nodes, err := c.StorageNodes()
	if err != nil {
		return nil, err
	}
	if n > len(nodes) {
		return nil, fmt.Errorf("cannot pick %d nodes from a %d-node cluster", n, len(nodes))
	}
	rand.Shuffle(len(nodes), func(i, j int) {
		nodes[i], nodes[j] = nodes[j], nodes[i]
	})
	return nodes[:n], nil
}

// StopNode stops the node's container, taking it out of the netmap for
// failover scenarios. Only valid for container-managed hosts.
func (c *Cluster) StopNode(ctx context.Context, name string, timeout time.Duration) error {
	n, err := c.Node(name)
	if err != nil {
		return err
	}
	if c.cli == nil {
		return fmt.Errorf("no docker backend configured; cannot stop %s", name)
	}
	return docker.StopContainer(ctx, c.log, c.cli, n.ContainerName, timeout)
}

// StartNode brings a stopped node's container back.
func (c *Cluster) StartNode(ctx context.Context, name string) error {
	n, err := c.Node(name)
	if err != nil {
		return err
	}
	if c.cli == nil {
		return fmt.Errorf("no docker backend configured; cannot start %s", name)
	}
	return docker.StartContainer(ctx, c.log, c.cli, n.ContainerName)
}

// ExecInNode runs a command inside the node's container, e.g. driving the
// node's control CLI for maintenance scenarios. A non-zero exit code is an
// error carrying the command output.
func (c *Cluster) ExecInNode(ctx context.Context, name string, cmd ...string) (string, error) {
	n, err := c.Node(name)
	if err != nil {
		return "", err
	}
	if c.cli == nil {
		return "", fmt.Errorf("no docker backend configured; cannot exec in %s", name)
	}

	out, code, err := docker.ExecInContainer(ctx, c.log, c.cli, n.ContainerName, cmd...)
	if err != nil {
		return out, err
	}
	if code != 0 {
		return out, fmt.Errorf("command %v in node %s exited with code %d: %s", cmd, name, code, out)
	}
	return out, nil
}
