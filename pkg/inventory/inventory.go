// Package inventory models the hosting inventory: the YAML document that
// describes the deployment under test as a set of hosts, each exposing named
// services (storage nodes, gateways, chain nodes, name servers) and CLI
// tools. Fixture code queries the inventory to obtain connection parameters
// for constructing clients against the live cluster.
package inventory

import (
	"strings"
)

// Inventory is the root of the hosting document.
type Inventory struct {
	Hosts []Host `yaml:"hosts" validate:"required,gt=0,dive"`
}

// Host is a machine or container-managed endpoint in the test topology.
type Host struct {
	// Address is the address fixture code dials to reach the host.
	Address string `yaml:"address" validate:"required"`

	// Plugin names the backend that manages the host's services, e.g.
	// "docker" for a containerized deployment.
	Plugin string `yaml:"plugin_name" validate:"required"`

	// Attributes carries host-scoped settings. Keys are consumer-defined.
	Attributes map[string]string `yaml:"attributes"`

	// Services enumerates the software components running on this host.
	Services []Service `yaml:"services" validate:"dive"`

	// CLIs enumerates the command-line tools available for driving the
	// host's services.
	CLIs []CLI `yaml:"clis" validate:"dive"`
}

// Service is a named component described by connection attributes. Attribute
// sets vary by service kind; consumers must tolerate absent keys.
type Service struct {
	Name       string            `yaml:"name" validate:"required"`
	Attributes map[string]string `yaml:"attributes"`
}

// CLI is a command-line tool bundled with the deployment.
type CLI struct {
	Name     string `yaml:"name" validate:"required"`
	ExecPath string `yaml:"exec_path" validate:"required"`
}

// Attr returns the value of an attribute. Absent keys are not an error; the
// second return value reports presence.
func (s Service) Attr(key string) (string, bool) {
	v, ok := s.Attributes[key]
	return v, ok
}

// AttrOr returns the value of an attribute, or def if it is absent.
func (s Service) AttrOr(key, def string) string {
	if v, ok := s.Attributes[key]; ok {
		return v
	}
	return def
}

// Host returns the host with the given address.
func (inv *Inventory) Host(address string) (*Host, bool) {
	for i := range inv.Hosts {
		if inv.Hosts[i].Address == address {
			return &inv.Hosts[i], true
		}
	}
	return nil, false
}

// Service returns the service with the given name, searching all hosts, and
// the host it runs on.
func (inv *Inventory) Service(name string) (*Service, *Host, bool) {
	for i := range inv.Hosts {
		h := &inv.Hosts[i]
		for j := range h.Services {
			if h.Services[j].Name == name {
				return &h.Services[j], h, true
			}
		}
	}
	return nil, nil, false
}

// ServicesByPrefix returns all services whose name starts with the given
// prefix, across all hosts, in declaration order.
func (inv *Inventory) ServicesByPrefix(prefix string) []Service {
	var out []Service
	for _, h := range inv.Hosts {
		for _, s := range h.Services {
			if strings.HasPrefix(s.Name, prefix) {
				out = append(out, s)
			}
		}
	}
	return out
}

// Services returns all services across all hosts, in declaration order.
func (inv *Inventory) Services() []Service {
	var out []Service
	for _, h := range inv.Hosts {
		out = append(out, h.Services...)
	}
	return out
}

// CLI returns the CLI tool with the given name, searching all hosts.
func (inv *Inventory) CLI(name string) (*CLI, bool) {
	for i := range inv.Hosts {
		h := &inv.Hosts[i]
		for j := range h.CLIs {
			if h.CLIs[j].Name == name {
				return &h.CLIs[j], true
			}
		}
	}
	return nil, false
}
