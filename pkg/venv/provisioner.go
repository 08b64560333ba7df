// Package venv provisions the isolated python environments that integration
// test suites run in. Each suite owns a requirements file and an environment
// script under venv/<suite>/; provisioning materializes venv.<suite>/ next to
// it, exactly once, gated on the requirements file's modification time.
package venv

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/mattn/go-zglob"
	"github.com/rs/xid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/corefs/testbed/pkg/logging"
)

const (
	requirementsFile = "requirements.txt"
	environmentFile  = "environment.sh"
)

// Opts configures a Provisioner.
type Opts struct {
	// Base is the directory containing the venv/<suite> sources. Targets are
	// created here as venv.<suite>.
	Base string

	// Interpreter is the python executable used to create environments.
	Interpreter string

	// PipVersion is the pip version pinned into every environment.
	PipVersion string

	// KeywordsRequirements optionally points at the shared keyword-library
	// requirements file, installed into every suite environment after the
	// suite's own requirements.
	KeywordsRequirements string

	// Commander runs the external commands. Defaults to ExecCommander.
	Commander Commander
}

// Provisioner builds per-suite virtual environments. Suites are independent:
// each target touches only its own directory, so distinct suites may be
// provisioned concurrently.
type Provisioner struct {
	base        string
	interpreter string
	pipVersion  string
	keywordsReq string
	cmd         Commander
	log         *zap.SugaredLogger
}

func New(opts Opts) *Provisioner {
	log := logging.S()
	cmd := opts.Commander
	if cmd == nil {
		cmd = &ExecCommander{Log: log}
	}
	return &Provisioner{
		base:        opts.Base,
		interpreter: opts.Interpreter,
		pipVersion:  opts.PipVersion,
		keywordsReq: opts.KeywordsRequirements,
		cmd:         cmd,
		log:         log,
	}
}

// SuiteDir returns the source directory of a suite.
func (p *Provisioner) SuiteDir(suite string) string {
	return filepath.Join(p.base, "venv", suite)
}

// TargetDir returns the environment directory of a suite.
func (p *Provisioner) TargetDir(suite string) string {
	return filepath.Join(p.base, "venv."+suite)
}

// Suites discovers the provisionable suites by globbing for requirements
// files under venv/.
func (p *Provisioner) Suites() ([]string, error) {
	matches, err := zglob.Glob(filepath.Join(p.base, "venv", "*", requirementsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to discover suites under %s: %w", p.base, err)
	}

	var suites []string
	for _, m := range matches {
		suites = append(suites, filepath.Base(filepath.Dir(m)))
	}
	sort.Strings(suites)
	return suites, nil
}

// UpToDate reports whether the suite's environment exists and is newer than
// its inputs, i.e. whether Ensure would be a no-op.
func (p *Provisioner) UpToDate(suite string) (bool, error) {
	activate := filepath.Join(p.TargetDir(suite), "bin", "activate")

	afi, err := os.Stat(activate)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}

	inputs := []string{filepath.Join(p.SuiteDir(suite), requirementsFile)}
	if p.keywordsReq != "" {
		inputs = append(inputs, p.keywordsReq)
	}
	for _, in := range inputs {
		rfi, err := os.Stat(in)
		if err != nil {
			if os.IsNotExist(err) {
				// a missing input can't prove the target current.
				return false, nil
			}
			return false, fmt.Errorf("failed to stat %s: %w", in, err)
		}
		if rfi.ModTime().After(afi.ModTime()) {
			return false, nil
		}
	}

	// the one-time activate patch and the environment symlink are part of
	// the target; a half-built environment is not up to date.
	if patched, err := IsPatched(activate); err != nil || !patched {
		return false, err
	}
	if _, err := os.Lstat(filepath.Join(p.TargetDir(suite), "bin", environmentFile)); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Ensure builds the suite's environment if it is missing or stale. The target
// is all-or-nothing: any failed step removes the partially-built directory so
// a rerun starts clean. Re-running against a current environment is a no-op.
func (p *Provisioner) Ensure(ctx context.Context, suite string) error {
	log := p.log.With("suite", suite, "run_id", xid.New().String())

	req := filepath.Join(p.SuiteDir(suite), requirementsFile)
	if _, err := os.Stat(req); err != nil {
		return fmt.Errorf("suite %s has no requirements file: %w", suite, err)
	}

	ok, err := p.UpToDate(suite)
	if err != nil {
		return err
	}
	if ok {
		log.Debugf("environment is up to date; skipping")
		return nil
	}

	target := p.TargetDir(suite)
	log.Infof("provisioning environment at %s", target)

	// stale or partial targets are rebuilt from scratch.
	if err := os.RemoveAll(target); err != nil {
		return fmt.Errorf("failed to remove stale environment %s: %w", target, err)
	}

	if err := p.build(ctx, suite, req, target); err != nil {
		if rmErr := os.RemoveAll(target); rmErr != nil {
			log.Warnf("failed to clean up partial environment %s: %s", target, rmErr)
		}
		return err
	}

	log.Infof("environment ready at %s", target)
	return nil
}

func (p *Provisioner) build(ctx context.Context, suite, req, target string) error {
	if err := p.cmd.Run(ctx, p.base, p.interpreter, "-m", "venv", "--prompt", "("+suite+")", target); err != nil {
		return fmt.Errorf("failed to create venv for suite %s: %w", suite, err)
	}

	pip := filepath.Join(target, "bin", "pip")
	if err := p.cmd.Run(ctx, p.base, pip, "install", "-U", "pip=="+p.pipVersion); err != nil {
		return fmt.Errorf("failed to pin pip for suite %s: %w", suite, err)
	}
	if err := p.cmd.Run(ctx, p.base, pip, "install", "-Ur", req); err != nil {
		return fmt.Errorf("failed to install requirements for suite %s: %w", suite, err)
	}
	if p.keywordsReq != "" {
		if err := p.cmd.Run(ctx, p.base, pip, "install", "-Ur", p.keywordsReq); err != nil {
			return fmt.Errorf("failed to install keyword library for suite %s: %w", suite, err)
		}
	}

	activate := filepath.Join(target, "bin", "activate")
	modified, err := ApplyPatch(activate)
	if err != nil {
		return err
	}
	if modified {
		p.log.Debugw("activation script patched", "suite", suite)
	}

	return p.linkEnvironment(suite, target)
}

// linkEnvironment symlinks bin/environment.sh to the suite's source
// environment script, relative to the target so the tree stays relocatable.
func (p *Provisioner) linkEnvironment(suite, target string) error {
	link := filepath.Join(target, "bin", environmentFile)
	dest := filepath.Join("..", "..", "venv", suite, environmentFile)

	if cur, err := os.Readlink(link); err == nil {
		if cur == dest {
			return nil
		}
		if err := os.Remove(link); err != nil {
			return fmt.Errorf("failed to replace environment link for suite %s: %w", suite, err)
		}
	}

	if err := os.Symlink(dest, link); err != nil {
		return fmt.Errorf("failed to link environment script for suite %s: %w", suite, err)
	}
	return nil
}

// EnsureAll provisions every discovered suite. Suites build concurrently;
// the first failure cancels the rest.
func (p *Provisioner) EnsureAll(ctx context.Context) error {
	suites, err := p.Suites()
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, suite := range suites {
		suite := suite
		g.Go(func() error {
			return p.Ensure(ctx, suite)
		})
	}
	return g.Wait()
}

// Clean removes the suite's environment directory.
func (p *Provisioner) Clean(suite string) error {
	return os.RemoveAll(p.TargetDir(suite))
}
