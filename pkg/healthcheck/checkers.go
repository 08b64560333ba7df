package healthcheck

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"

	dockercli "github.com/docker/docker/client"
	"go.uber.org/zap"

	"github.com/corefs/testbed/pkg/docker"
	"github.com/corefs/testbed/pkg/venv"
)

// DialableChecker returns a Checker which tells us whether an address is
// dialable. For TCP sockets, a false return could mean the network is
// unreachable, or that the remote socket is closed. For UDP sockets, being
// connectionless, it may return a false positive if the network is reachable.
func DialableChecker(protocol, address string) Checker {
	return func() (bool, string, error) {
		conn, err := net.DialTimeout(protocol, address, 5*time.Second)
		if err != nil {
			return false, fmt.Sprintf("address %s not dialable.", address), nil
		}
		_ = conn.Close()
		return true, fmt.Sprintf("address %s is dialable.", address), nil
	}
}

// ContainerRunningChecker returns a Checker which verifies that the named
// container exists and is running.
func ContainerRunningChecker(ctx context.Context, log *zap.SugaredLogger, cli *dockercli.Client, name string) Checker {
	return func() (bool, string, error) {
		c, err := docker.CheckContainer(ctx, log, cli, name)
		if err != nil {
			return false, "failed to query container.", err
		}
		if c == nil {
			return false, "container does not exist.", nil
		}
		if !c.State.Running {
			return false, "container exists but is not running.", nil
		}
		return true, "container is running.", nil
	}
}

// DirExistsChecker returns a Checker which checks whether a directory exists.
// Aside from ErrNotExist, which is the error we expect to handle, any file
// permission or I/O errors will be returned to the caller.
func DirExistsChecker(path string) Checker {
	return func() (bool, string, error) {
		fi, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				return false, "directory does not exist. can recreate.", nil
			}
			return false, "filesystem error. cannot recreate.", err
		}
		if fi.IsDir() {
			return true, "directory already exists.", nil
		}
		return false, "expected directory. found regular file. please fix manually.", fmt.Errorf("not a directory")
	}
}

// FileExistsChecker returns a Checker which checks whether a regular file
// exists at path.
func FileExistsChecker(path string) Checker {
	return func() (bool, string, error) {
		fi, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				return false, "file does not exist.", nil
			}
			return false, "filesystem error.", err
		}
		if fi.Mode().IsRegular() {
			return true, "file exists.", nil
		}
		return false, "path exists but is not a regular file.", fmt.Errorf("not a regular file")
	}
}

// SymlinkChecker returns a Checker which verifies that path is a symbolic
// link pointing at dest.
func SymlinkChecker(path, dest string) Checker {
	return func() (bool, string, error) {
		cur, err := os.Readlink(path)
		if err != nil {
			if os.IsNotExist(err) {
				return false, "symlink does not exist.", nil
			}
			return false, "path is not a symlink.", nil
		}
		if cur != dest {
			return false, fmt.Sprintf("symlink points at %s, expected %s.", cur, dest), nil
		}
		return true, "symlink is in place.", nil
	}
}

// SuiteUpToDateChecker returns a Checker which verifies that a suite's
// environment is provisioned and current with respect to its requirements.
func SuiteUpToDateChecker(p *venv.Provisioner, suite string) Checker {
	return func() (bool, string, error) {
		ok, err := p.UpToDate(suite)
		if err != nil {
			return false, "failed to inspect suite environment.", err
		}
		if !ok {
			return false, "suite environment is missing or stale.", nil
		}
		return true, "suite environment is up to date.", nil
	}
}
