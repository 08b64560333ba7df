package cmd

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/corefs/testbed/pkg/config"
	"github.com/corefs/testbed/pkg/inventory"
	"github.com/corefs/testbed/pkg/venv"
)

var (
	processCtx  context.Context
	processOnce sync.Once
)

// ProcessContext returns a context that is cancelled when the process
// receives SIGINT or SIGTERM.
func ProcessContext() context.Context {
	processOnce.Do(func() {
		var cancel context.CancelFunc
		processCtx, cancel = context.WithCancel(context.Background())

		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-ch
			cancel()
		}()
	})
	return processCtx
}

func loadConfig() (*config.EnvConfig, error) {
	cfg := new(config.EnvConfig)
	if err := cfg.Load(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadInventory(cfg *config.EnvConfig) (*inventory.Inventory, error) {
	return inventory.LoadWithOverride(cfg.Cluster.InventoryPath, cfg.Cluster.InventoryOverridePath)
}

func newProvisioner(cfg *config.EnvConfig) *venv.Provisioner {
	var kwReq string
	if cfg.Keywords.RepoURL != "" {
		// the keywords checkout only gates rebuilds when it is present;
		// `venv ensure` clones it on demand.
		kwReq = filepath.Join(cfg.Dirs().Keywords(), "requirements.txt")
	}
	return venv.New(venv.Opts{
		Base:                 cfg.Dirs().Home(),
		Interpreter:          cfg.Python.Interpreter,
		PipVersion:           cfg.Python.PipVersion,
		KeywordsRequirements: kwReq,
	})
}
