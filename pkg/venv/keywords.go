package venv

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	giturls "github.com/whilp/git-urls"

	"github.com/corefs/testbed/pkg/logging"
)

// KeywordsOpts configures the shared keyword-library checkout that every
// suite installs in addition to its own requirements.
type KeywordsOpts struct {
	// RepoURL is the git remote of the keyword library. Any scheme supported
	// by git is acceptable.
	RepoURL string

	// Ref is the branch or tag to check out. Empty means the remote default.
	Ref string

	// Dir is the local checkout directory.
	Dir string
}

// EnsureKeywords makes sure the shared keyword-library checkout exists at
// opts.Dir, cloning it when missing, and returns the path to its requirements
// file. An existing checkout is left as-is; updating it is the operator's
// call, since suite environments are rebuilt when the checkout changes.
func EnsureKeywords(ctx context.Context, opts KeywordsOpts) (string, error) {
	if _, err := giturls.Parse(opts.RepoURL); err != nil {
		return "", fmt.Errorf("keyword library remote %q is not a valid git URL: %w", opts.RepoURL, err)
	}

	reqs := filepath.Join(opts.Dir, requirementsFile)

	if _, err := git.PlainOpen(opts.Dir); err == nil {
		logging.S().Debugf("keyword library checkout found at %s", opts.Dir)
		return reqs, nil
	}

	logging.S().Infof("cloning keyword library %s -> %s", opts.RepoURL, opts.Dir)

	cloneOpts := git.CloneOptions{
		URL:      opts.RepoURL,
		Progress: os.Stderr,
	}
	if opts.Ref != "" {
		cloneOpts.ReferenceName = plumbing.NewBranchReferenceName(opts.Ref)
		cloneOpts.SingleBranch = true
	}

	if _, err := git.PlainCloneContext(ctx, opts.Dir, false, &cloneOpts); err != nil {
		return "", fmt.Errorf("failed to clone keyword library from %s: %w", opts.RepoURL, err)
	}
	return reqs, nil
}
