package venv

import (
	"fmt"
	"os"
	"path/filepath"

	cp "github.com/otiai10/copy"
)

// templateDir is the suite used as a template by Scaffold. It is skipped by
// suite discovery because it carries no requirements file until copied.
const templateDir = "_template"

// Scaffold creates the source directory for a new suite by copying the
// template suite. It refuses to overwrite an existing suite.
func (p *Provisioner) Scaffold(suite string) (string, error) {
	src := p.SuiteDir(templateDir)
	dst := p.SuiteDir(suite)

	if _, err := os.Stat(dst); err == nil {
		return "", fmt.Errorf("suite %s already exists at %s", suite, dst)
	}
	if _, err := os.Stat(src); err != nil {
		return "", fmt.Errorf("no suite template at %s: %w", src, err)
	}

	if err := cp.Copy(src, dst); err != nil {
		return "", fmt.Errorf("failed to scaffold suite %s: %w", suite, err)
	}

	// the template ships requirements.txt.in to stay invisible to discovery.
	in := filepath.Join(dst, requirementsFile+".in")
	if _, err := os.Stat(in); err == nil {
		if err := os.Rename(in, filepath.Join(dst, requirementsFile)); err != nil {
			return "", fmt.Errorf("failed to finalize suite %s: %w", suite, err)
		}
	}
	return dst, nil
}
