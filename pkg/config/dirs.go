package config

import "path/filepath"

// Directories computes the paths of the testbed home directory tree. All
// directories are rooted at the home dir, which is resolved by Load.
type Directories struct {
	home string
}

// Home returns the testbed home directory.
func (d Directories) Home() string {
	return d.home
}

// Suites returns the directory holding per-suite sources: requirements files
// and environment scripts, laid out as venv/<suite>/.
func (d Directories) Suites() string {
	return filepath.Join(d.home, "venv")
}

// Suite returns the source directory of a single suite.
func (d Directories) Suite(suite string) string {
	return filepath.Join(d.Suites(), suite)
}

// Venv returns the target directory of a suite's virtual environment,
// laid out as venv.<suite>/ next to the suite sources.
func (d Directories) Venv(suite string) string {
	return filepath.Join(d.home, "venv."+suite)
}

// Keywords returns the directory of the shared keyword-library checkout.
func (d Directories) Keywords() string {
	return filepath.Join(d.home, "keywords")
}

// Outputs returns the directory where commands leave their artifacts
// (payload spool files, reports).
func (d Directories) Outputs() string {
	return filepath.Join(d.home, "outputs")
}
