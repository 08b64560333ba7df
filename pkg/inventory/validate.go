package inventory

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"
)

var validate = validator.New()

// Validate checks the structural invariants of the inventory: required
// fields, service names unique within a host, CLI names unique across the
// document. Attribute keys are consumer-defined and deliberately not checked.
func (inv *Inventory) Validate() error {
	var merr *multierror.Error

	if err := validate.Struct(inv); err != nil {
		merr = multierror.Append(merr, err)
	}

	clis := make(map[string]string) // cli name -> host address
	for _, h := range inv.Hosts {
		seen := make(map[string]struct{}, len(h.Services))
		for _, s := range h.Services {
			if _, dup := seen[s.Name]; dup {
				merr = multierror.Append(merr,
					fmt.Errorf("host %s declares service %q more than once", h.Address, s.Name))
				continue
			}
			seen[s.Name] = struct{}{}
		}

		for _, c := range h.CLIs {
			if prev, dup := clis[c.Name]; dup {
				merr = multierror.Append(merr,
					fmt.Errorf("cli %q declared on both %s and %s", c.Name, prev, h.Address))
				continue
			}
			clis[c.Name] = h.Address
		}
	}

	return merr.ErrorOrNil()
}
