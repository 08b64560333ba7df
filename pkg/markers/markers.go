// Package markers loads the marker registry that suite runners use to select
// test cases. The registry lives in the runner configuration file, as a
// multiline `markers` value under the [pytest] section, one
// `name: description` entry per line.
package markers

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/ini.v1"
)

const (
	// Section is the configuration section holding the registry.
	Section = "pytest"

	// Key is the key holding the marker entries.
	Key = "markers"
)

// Marker is a tag attachable to a test case for selection and grouping.
type Marker struct {
	Name        string
	Description string
}

// Registry is the fixed, ordered enumeration of markers known to the suites.
// It is immutable after load.
type Registry struct {
	markers []Marker
	index   map[string]int
}

// LoadFile reads a marker registry from the runner configuration file at path.
func LoadFile(path string) (*Registry, error) {
	f, err := ini.LoadSources(ini.LoadOptions{AllowPythonMultilineValues: true}, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read marker registry at %s: %w", path, err)
	}
	return fromFile(f)
}

// Parse reads a marker registry from raw configuration bytes.
func Parse(src []byte) (*Registry, error) {
	f, err := ini.LoadSources(ini.LoadOptions{AllowPythonMultilineValues: true}, src)
	if err != nil {
		return nil, fmt.Errorf("failed to parse marker registry: %w", err)
	}
	return fromFile(f)
}

func fromFile(f *ini.File) (*Registry, error) {
	sec := f.Section(Section)
	if !sec.HasKey(Key) {
		return nil, fmt.Errorf("registry has no %q key under [%s]", Key, Section)
	}

	r := &Registry{index: make(map[string]int)}

	var merr *multierror.Error
	for _, line := range strings.Split(sec.Key(Key).String(), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		name, desc, found := strings.Cut(line, ":")
		if !found {
			merr = multierror.Append(merr, fmt.Errorf("marker entry %q is not of the form name: description", line))
			continue
		}
		name = strings.TrimSpace(name)
		if name == "" {
			merr = multierror.Append(merr, fmt.Errorf("marker entry %q has an empty name", line))
			continue
		}
		if _, ok := r.index[name]; ok {
			merr = multierror.Append(merr, fmt.Errorf("marker %q declared twice", name))
			continue
		}

		r.index[name] = len(r.markers)
		r.markers = append(r.markers, Marker{Name: name, Description: strings.TrimSpace(desc)})
	}

	if err := merr.ErrorOrNil(); err != nil {
		return nil, err
	}
	return r, nil
}

// Markers returns the registered markers in declaration order.
func (r *Registry) Markers() []Marker {
	out := make([]Marker, len(r.markers))
	copy(out, r.markers)
	return out
}

// Names returns the sorted names of all registered markers.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.markers))
	for _, m := range r.markers {
		out = append(out, m.Name)
	}
	sort.Strings(out)
	return out
}

// Lookup returns the marker with the given name.
func (r *Registry) Lookup(name string) (Marker, bool) {
	i, ok := r.index[name]
	if !ok {
		return Marker{}, false
	}
	return r.markers[i], true
}

// Has reports whether a marker with the given name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.index[name]
	return ok
}

// Len returns the number of registered markers.
func (r *Registry) Len() int {
	return len(r.markers)
}
