package venv

import (
	"fmt"
	"os"
	"strings"
)

// The activation script is a generated artifact, and the deployment needs it
// to load the suite's environment variables whenever the venv is activated.
// We append a marked block instead of shipping a patch file; detection of an
// already-patched script replaces the classic reverse-dry-run probe: before
// mutating, check whether undoing the mutation would succeed, and only apply
// it when it would not.
const (
	patchBegin = "# >>> testbed environment >>>"
	patchEnd   = "# <<< testbed environment <<<"
)

var patchBlock = strings.Join([]string{
	"",
	patchBegin,
	`if [ -f "${VIRTUAL_ENV}/bin/environment.sh" ] ; then`,
	`    . "${VIRTUAL_ENV}/bin/environment.sh"`,
	"fi",
	patchEnd,
	"",
}, "\n")

// IsPatched reports whether the activation script at path already carries the
// environment block.
func IsPatched(path string) (bool, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("failed to read activation script at %s: %w", path, err)
	}
	return strings.Contains(string(raw), patchBegin), nil
}

// ApplyPatch appends the environment block to the activation script at path,
// unless it is already present. It returns whether the script was modified.
// Applying twice yields the same file content as applying once.
func ApplyPatch(path string) (bool, error) {
	patched, err := IsPatched(path)
	if err != nil {
		return false, err
	}
	if patched {
		return false, nil
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0)
	if err != nil {
		return false, fmt.Errorf("failed to open activation script at %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.WriteString(patchBlock); err != nil {
		return false, fmt.Errorf("failed to patch activation script at %s: %w", path, err)
	}
	return true, nil
}
