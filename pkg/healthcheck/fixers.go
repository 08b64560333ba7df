package healthcheck

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/exec"
	"time"

	dockercli "github.com/docker/docker/client"
	"go.uber.org/zap"

	"github.com/corefs/testbed/pkg/docker"
	"github.com/corefs/testbed/pkg/venv"
)

// ContainerStartFixer returns a Fixer which starts the named container.
func ContainerStartFixer(ctx context.Context, log *zap.SugaredLogger, cli *dockercli.Client, name string) Fixer {
	return func() (string, error) {
		if err := docker.StartContainer(ctx, log, cli, name); err != nil {
			return "failed to start container.", err
		}
		return "container started.", nil
	}
}

// CommandStartFixer returns a Fixer which starts an executable with the given
// parameters. Cancelling the passed context will stop the executable.
func CommandStartFixer(ctx context.Context, cmd string, args ...string) Fixer {
	return func() (string, error) {
		c := exec.CommandContext(ctx, cmd, args...)
		if err := c.Start(); err != nil {
			return "command did not start successfully.", err
		}
		return "command started successfully.", nil
	}
}

// DirExistsFixer returns a Fixer which creates a directory and any parent
// directories as appropriate.
func DirExistsFixer(path string) Fixer {
	return func() (string, error) {
		if err := os.MkdirAll(path, os.ModePerm); err != nil {
			return "directory not created successfully.", err
		}
		return "directory created successfully.", nil
	}
}

// SuiteEnsureFixer returns a Fixer which provisions the suite's environment.
func SuiteEnsureFixer(ctx context.Context, p *venv.Provisioner, suite string) Fixer {
	return func() (string, error) {
		if err := p.Ensure(ctx, suite); err != nil {
			return "failed to provision suite environment.", err
		}
		return "suite environment provisioned.", nil
	}
}

// WaitDialableFixer returns a Fixer which waits up to timeout for an address
// to become dialable. Useful after starting a container whose service takes a
// moment to bind.
func WaitDialableFixer(protocol, address string, timeout time.Duration) Fixer {
	return func() (string, error) {
		deadline := time.Now().Add(timeout)
		for time.Now().Before(deadline) {
			conn, err := net.DialTimeout(protocol, address, time.Second)
			if err == nil {
				_ = conn.Close()
				return "address became dialable.", nil
			}
			time.Sleep(time.Second)
		}
		return "address did not become dialable.", fmt.Errorf("timed out waiting for %s", address)
	}
}

// And returns a Fixer which runs the given Fixers in order. If any of them
// encounters an error, no further action is taken and the error is returned.
// Use when a set of multiple fixes should be executed to mitigate a single
// failed Checker.
func And(fixers ...Fixer) Fixer {
	return func() (string, error) {
		for _, fxr := range fixers {
			msg, err := fxr()
			if err != nil {
				return msg, err
			}
		}
		return "all fixes applied.", nil
	}
}

// Or returns a Fixer which runs the given Fixers until one succeeds. An error
// is returned only if all of them fail. Use when any of several fixes could
// mitigate a failed Checker.
func Or(fixers ...Fixer) Fixer {
	return func() (string, error) {
		for _, fxr := range fixers {
			msg, err := fxr()
			if err == nil {
				return msg, nil
			}
		}
		return "all fixes failed.", fmt.Errorf("all fixes failed")
	}
}
