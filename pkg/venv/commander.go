package venv

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// Commander runs external commands on behalf of the provisioner. It exists so
// tests can substitute the python/pip invocations with a fake.
type Commander interface {
	// Run executes name with args, with dir as the working directory, and
	// waits for completion. A non-nil error means the command did not exit
	// cleanly.
	Run(ctx context.Context, dir, name string, args ...string) error
}

// ExecCommander is the real Commander, backed by os/exec. Combined output is
// logged at debug level, and attached to the error on failure.
type ExecCommander struct {
	Log *zap.SugaredLogger
}

func (e *ExecCommander) Run(ctx context.Context, dir, name string, args ...string) error {
	log := e.Log.With("cmd", name, "args", strings.Join(args, " "))
	log.Debugf("running command")

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	out, err := cmd.CombinedOutput()
	if len(out) > 0 {
		log.Debugf("command output:\n%s", out)
	}
	if err != nil {
		return fmt.Errorf("%s %s failed: %w; output: %s", name, strings.Join(args, " "), err, strings.TrimSpace(string(out)))
	}
	return nil
}
