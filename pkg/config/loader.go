package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/corefs/testbed/pkg/logging"
)

const (
	EnvTestbedHomeDir = "TESTBED_HOME"

	DefaultInterpreter = "python3"
	DefaultPipVersion  = "21.3.1"
)

func (e *EnvConfig) Load() error {
	// apply fallbacks.
	e.Python.Interpreter = DefaultInterpreter
	e.Python.PipVersion = DefaultPipVersion
	e.Payload.SimpleSize = "1kb"
	e.Payload.ComplexSize = "2mb"

	// calculate home directory; use env var, or fall back to $HOME/testbed
	// otherwise.
	var home string
	if v, ok := os.LookupEnv(EnvTestbedHomeDir); ok {
		// we have an env var.
		home = v
	} else {
		// fallback to $HOME/testbed.
		v, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to obtain user home dir: %w", err)
		}
		home = filepath.Join(v, "testbed")
	}

	switch fi, err := os.Stat(home); {
	case os.IsNotExist(err):
		logging.S().Infof("creating home directory at %s", home)
		if err := os.MkdirAll(home, 0777); err != nil {
			return fmt.Errorf("failed to create home directory at %s: %w", home, err)
		}
	case err != nil:
		return fmt.Errorf("failed to stat home path %s: %w", home, err)
	case !fi.IsDir():
		return fmt.Errorf("home path is not a directory %s", home)
	default:
		logging.S().Debugf("using home directory: %s", home)
	}

	// ensure home and children directories exist.
	e.dirs = Directories{home}
	for _, d := range []string{
		e.dirs.Home(),
		e.dirs.Suites(),
		e.dirs.Outputs(),
	} {
		if err := ensureDir(d); err != nil {
			return fmt.Errorf("failed to check/create directory %s: %w", d, err)
		}
	}

	// parse the .env.toml file, if it exists.
	f := filepath.Join(e.dirs.Home(), ".env.toml")
	if _, err := os.Stat(f); err == nil {
		// try to load the optional .env.toml file
		_, err = toml.DecodeFile(f, e)
		if err != nil {
			return fmt.Errorf("found .env.toml at %s, but failed to parse: %w", f, err)
		}
		logging.S().Debugf(".env.toml loaded from: %s", f)
	} else {
		logging.S().Debugf("no .env.toml found at %s; running with defaults", f)
	}

	// default the inventory and marker registry paths relative to home.
	if e.Cluster.InventoryPath == "" {
		e.Cluster.InventoryPath = filepath.Join(home, "hosting.yaml")
	}
	if e.Markers.RegistryPath == "" {
		e.Markers.RegistryPath = filepath.Join(home, "pytest.ini")
	}
	return nil
}

// ensureDir checks whether the specified path is a directory, and if not it
// attempts to create it.
func ensureDir(path string) error {
	fi, err := os.Stat(path)
	if err != nil {
		// We need to create the directory.
		return os.MkdirAll(path, os.ModePerm)
	}

	if !fi.IsDir() {
		return fmt.Errorf("path %s exists, and it is not a directory", path)
	}
	return nil
}
