// Package docker wraps the docker client operations needed to manage the
// containers of a locally deployed cluster: inspecting service containers,
// and stopping/starting them for failover scenarios.
package docker

import (
	"bytes"
	"context"
	"time"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/docker/go-connections/nat"
	"go.uber.org/zap"
)

// NewClient creates a docker client. A non-empty host overrides the
// environment (DOCKER_HOST et al), which remains the fallback.
func NewClient(host string) (*client.Client, error) {
	opts := []client.Opt{client.FromEnv, client.WithAPIVersionNegotiation()}
	if host != "" {
		opts = append(opts, client.WithHost(host))
	}
	return client.NewClientWithOpts(opts...)
}

// CheckContainer looks up a container by name. It returns nil when no such
// container exists.
func CheckContainer(ctx context.Context, log *zap.SugaredLogger, cli *client.Client, name string) (*types.ContainerJSON, error) {
	log = log.With("container_name", name)
	log.Debugf("checking state of container")

	containers, err := cli.ContainerList(ctx, types.ContainerListOptions{
		All:     true,
		Filters: filters.NewArgs(filters.Arg("name", name)),
	})
	if err != nil {
		return nil, err
	}
	if len(containers) == 0 {
		log.Debugf("container not found")
		return nil, nil
	}

	c, err := cli.ContainerInspect(ctx, containers[0].ID)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// StartContainer starts a stopped container by name. Starting a running
// container is a no-op.
func StartContainer(ctx context.Context, log *zap.SugaredLogger, cli *client.Client, name string) error {
	c, err := CheckContainer(ctx, log, cli, name)
	if err != nil {
		return err
	}
	if c == nil {
		return ErrNotFound(name)
	}
	if c.State.Running {
		log.Debugw("container already running", "container_name", name)
		return nil
	}

	log.Infow("starting container", "container_name", name, "id", c.ID)
	return cli.ContainerStart(ctx, c.ID, types.ContainerStartOptions{})
}

// StopContainer stops a running container by name, waiting up to timeout for
// it to exit before it is killed.
func StopContainer(ctx context.Context, log *zap.SugaredLogger, cli *client.Client, name string, timeout time.Duration) error {
	c, err := CheckContainer(ctx, log, cli, name)
	if err != nil {
		return err
	}
	if c == nil {
		return ErrNotFound(name)
	}

	log.Infow("stopping container", "container_name", name, "id", c.ID)
	return cli.ContainerStop(ctx, c.ID, &timeout)
}

// ExecInContainer runs a command inside a running container and waits for it
// to finish. It returns the combined output and the command's exit code.
func ExecInContainer(ctx context.Context, log *zap.SugaredLogger, cli *client.Client, name string, cmd ...string) (string, int, error) {
	c, err := CheckContainer(ctx, log, cli, name)
	if err != nil {
		return "", 0, err
	}
	if c == nil {
		return "", 0, ErrNotFound(name)
	}

	log.Debugw("executing command in container", "container_name", name, "cmd", cmd)

	exec, err := cli.ContainerExecCreate(ctx, c.ID, types.ExecConfig{
		Cmd:          cmd,
		AttachStdout: true,
		AttachStderr: true,
	})
	if err != nil {
		return "", 0, err
	}

	resp, err := cli.ContainerExecAttach(ctx, exec.ID, types.ExecStartCheck{})
	if err != nil {
		return "", 0, err
	}
	defer resp.Close()

	// stdout and stderr are multiplexed over the hijacked connection.
	var buf bytes.Buffer
	if _, err := stdcopy.StdCopy(&buf, &buf, resp.Reader); err != nil {
		return "", 0, err
	}

	inspect, err := cli.ContainerExecInspect(ctx, exec.ID)
	if err != nil {
		return buf.String(), 0, err
	}
	return buf.String(), inspect.ExitCode, nil
}

// HostPort resolves the host binding of a container port, e.g. "8080/tcp".
func HostPort(c *types.ContainerJSON, port nat.Port) (string, bool) {
	if c.NetworkSettings == nil {
		return "", false
	}
	bindings, ok := c.NetworkSettings.Ports[port]
	if !ok || len(bindings) == 0 {
		return "", false
	}
	b := bindings[0]
	return b.HostIP + ":" + b.HostPort, true
}
