// Package healthcheck verifies, and optionally repairs, the preconditions
// for running integration suites against a deployment: service endpoints
// dialable, service containers up, suite environments provisioned.
package healthcheck

import (
	"context"
	"strings"
)

// Checker is a function that checks whether a precondition is met. It returns
// whether the check succeeded, an optional message to present to the user,
// and error in case the check logic itself failed.
//
//	(true, *, nil)      => StatusOK
//	(false, *, nil)     => StatusFailed
//	(false, *, not-nil) => StatusAborted
//	checker doesn't run => StatusOmitted
type Checker func() (ok bool, msg string, err error)

// Fixer is a function that will be called to attempt to fix a failing check.
// It returns an optional message to present to the user, and error in case
// the fix failed.
type Fixer func() (msg string, err error)

// Status is the outcome of a single check or fix.
type Status string

const (
	// StatusOK indicates success in a check or a fix.
	StatusOK = Status("ok")
	// StatusFailed indicates the outcome of a check or an attempted fix was
	// negative.
	StatusFailed = Status("failed")
	// StatusAborted indicates an internal error during the execution of a
	// check or a fix.
	StatusAborted = Status("aborted")
	// StatusOmitted indicates that a check or a fix was not carried out due
	// to previous errors.
	StatusOmitted = Status("omitted")
)

// Item conveys the result of a single check or fix in a Report.
type Item struct {
	// Name is a short name describing this item.
	Name string
	// Status is the status of this check/fix.
	Status Status
	// Message optionally contains any human-readable messages to be
	// presented to the user.
	Message string
}

// Report is the aggregate outcome of a healthcheck run.
type Report struct {
	// Checks enumerates the outcomes of the health checks.
	Checks []Item

	// Fixes enumerates the outcomes of the fixes applied during repair, if
	// a repair was requested.
	Fixes []Item
}

// FixesSucceeded returns true if all attempted fixes succeeded.
func (r *Report) FixesSucceeded() bool {
	for _, f := range r.Fixes {
		if f.Status == StatusFailed || f.Status == StatusAborted {
			return false
		}
	}
	return true
}

// ChecksSucceeded returns true if all checks passed.
func (r *Report) ChecksSucceeded() bool {
	for _, c := range r.Checks {
		if c.Status != StatusOK {
			return false
		}
	}
	return true
}

func (r *Report) String() string {
	var sb strings.Builder
	sb.WriteString("Checks:\n")
	for _, c := range r.Checks {
		sb.WriteString("- " + c.Name + "; status: " + string(c.Status) + "; message: " + c.Message + "\n")
	}
	sb.WriteString("Fixes:\n")
	for _, f := range r.Fixes {
		sb.WriteString("- " + f.Name + "; status: " + string(f.Status) + "; message: " + f.Message + "\n")
	}
	return sb.String()
}

type item struct {
	name    string
	checker Checker
	fixer   Fixer
}

// Helper runs each enlisted check, and optionally its fix, sequentially, in
// the order they were Enlist()'ed. Checkers and fixers are typically
// closures; see the constructors in this package.
type Helper struct {
	items []*item
}

// Enlist registers a named check with its fix action. A nil fixer means the
// check has no automated remedy.
func (h *Helper) Enlist(name string, c Checker, f Fixer) {
	h.items = append(h.items, &item{name, c, f})
}

// RunChecks executes all enlisted checks. When fix is true, the fixer of
// every failing check is attempted; a fix is recorded as omitted when its
// check passed, aborted, or when fixing was not requested.
func (h *Helper) RunChecks(ctx context.Context, fix bool) (*Report, error) {
	report := new(Report)

	for _, li := range h.items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		check := Item{Name: li.name}

		ok, msg, err := li.checker()
		switch {
		case err != nil:
			check.Status = StatusAborted
			check.Message = msg + "; error: " + err.Error()
			report.Checks = append(report.Checks, check)

			// the check itself broke; a fix would operate on unknown state.
			if fix {
				report.Fixes = append(report.Fixes, Item{Name: li.name, Status: StatusOmitted})
			}

		case ok:
			check.Status = StatusOK
			check.Message = msg
			report.Checks = append(report.Checks, check)

			if fix {
				report.Fixes = append(report.Fixes, Item{Name: li.name, Status: StatusOmitted})
			}

		default:
			check.Status = StatusFailed
			check.Message = msg
			report.Checks = append(report.Checks, check)

			if !fix {
				continue
			}
			if li.fixer == nil {
				report.Fixes = append(report.Fixes, Item{Name: li.name, Status: StatusOmitted, Message: "no fix available"})
				continue
			}

			msg, err := li.fixer()
			f := Item{Name: li.name, Status: StatusOK, Message: msg}
			if err != nil {
				f.Status = StatusFailed
				f.Message = msg + "; error: " + err.Error()
			}
			report.Fixes = append(report.Fixes, f)
		}
	}
	return report, nil
}
