package healthcheck

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func passing() Checker {
	return func() (bool, string, error) { return true, "fine", nil }
}

func failing() Checker {
	return func() (bool, string, error) { return false, "broken", nil }
}

func aborting() Checker {
	return func() (bool, string, error) { return false, "", errors.New("check blew up") }
}

func TestRunChecksWithoutFix(t *testing.T) {
	var fixed bool

	h := new(Helper)
	h.Enlist("ok", passing(), nil)
	h.Enlist("bad", failing(), func() (string, error) {
		fixed = true
		return "", nil
	})

	report, err := h.RunChecks(context.Background(), false)
	require.NoError(t, err)

	require.False(t, fixed, "fixer must not run when fix is disabled")
	require.Len(t, report.Checks, 2)
	require.Equal(t, StatusOK, report.Checks[0].Status)
	require.Equal(t, StatusFailed, report.Checks[1].Status)
	require.False(t, report.ChecksSucceeded())
}

func TestRunChecksWithFix(t *testing.T) {
	h := new(Helper)
	h.Enlist("ok", passing(), func() (string, error) {
		t.Fatal("fixer for passing check must not run")
		return "", nil
	})
	h.Enlist("bad", failing(), func() (string, error) {
		return "repaired", nil
	})
	h.Enlist("bad-unfixable", failing(), func() (string, error) {
		return "", errors.New("cannot repair")
	})

	report, err := h.RunChecks(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, report.Fixes, 3)

	require.Equal(t, StatusOmitted, report.Fixes[0].Status)
	require.Equal(t, StatusOK, report.Fixes[1].Status)
	require.Equal(t, "repaired", report.Fixes[1].Message)
	require.Equal(t, StatusFailed, report.Fixes[2].Status)
	require.False(t, report.FixesSucceeded())
}

func TestAbortedCheckOmitsFix(t *testing.T) {
	var fixed bool

	h := new(Helper)
	h.Enlist("exploding", aborting(), func() (string, error) {
		fixed = true
		return "", nil
	})

	report, err := h.RunChecks(context.Background(), true)
	require.NoError(t, err)

	require.False(t, fixed, "fixer must not run for an aborted check")
	require.Equal(t, StatusAborted, report.Checks[0].Status)
	require.Equal(t, StatusOmitted, report.Fixes[0].Status)
}

func TestFailingCheckWithoutFixerIsOmitted(t *testing.T) {
	h := new(Helper)
	h.Enlist("bad", failing(), nil)

	report, err := h.RunChecks(context.Background(), true)
	require.NoError(t, err)
	require.Equal(t, StatusOmitted, report.Fixes[0].Status)
}

func TestRunChecksHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	h := new(Helper)
	h.Enlist("ok", passing(), nil)

	_, err := h.RunChecks(ctx, false)
	require.Error(t, err)
}

func TestDirExistsCheckerAndFixer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subdir")

	ok, _, err := DirExistsChecker(path)()
	require.NoError(t, err)
	require.False(t, ok)

	_, err = DirExistsFixer(path)()
	require.NoError(t, err)

	ok, _, err = DirExistsChecker(path)()
	require.NoError(t, err)
	require.True(t, ok)
}

func TestFileExistsChecker(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f")

	ok, _, err := FileExistsChecker(path)()
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	ok, _, err = FileExistsChecker(path)()
	require.NoError(t, err)
	require.True(t, ok)

	// a directory is not a regular file.
	_, _, err = FileExistsChecker(dir)()
	require.Error(t, err)
}

func TestSymlinkChecker(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "target")
	link := filepath.Join(dir, "link")

	require.NoError(t, os.WriteFile(target, []byte("x"), 0644))

	ok, _, err := SymlinkChecker(link, "target")()
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, os.Symlink("target", link))

	ok, _, err = SymlinkChecker(link, "target")()
	require.NoError(t, err)
	require.True(t, ok)

	ok, msg, err := SymlinkChecker(link, "elsewhere")()
	require.NoError(t, err)
	require.False(t, ok)
	require.Contains(t, msg, "target")
}

func TestAndOrCombinators(t *testing.T) {
	good := func() (string, error) { return "good", nil }
	bad := func() (string, error) { return "bad", errors.New("nope") }

	_, err := And(good, bad)()
	require.Error(t, err)

	_, err = And(good, good)()
	require.NoError(t, err)

	_, err = Or(bad, good)()
	require.NoError(t, err)

	_, err = Or(bad, bad)()
	require.Error(t, err)
}
