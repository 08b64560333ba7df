package inventory

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func loadTestInventory(t *testing.T) *Inventory {
	t.Helper()
	inv, err := Load(filepath.Join("testdata", "hosting.yaml"))
	require.NoError(t, err)
	return inv
}

func TestLoadInventory(t *testing.T) {
	inv := loadTestInventory(t)

	require.Len(t, inv.Hosts, 1)

	h, ok := inv.Host("localhost")
	require.True(t, ok)
	require.Equal(t, "docker", h.Plugin)
	require.Len(t, h.Services, 10)

	_, ok = inv.Host("unknown.host")
	require.False(t, ok)
}

func TestServiceLookup(t *testing.T) {
	inv := loadTestInventory(t)

	s, h, ok := inv.Service("s02")
	require.True(t, ok)
	require.Equal(t, "localhost", h.Address)
	require.Equal(t, "s02.corefs.devenv:8080", s.AttrOr("endpoint_data0", ""))

	_, _, ok = inv.Service("s99")
	require.False(t, ok)
}

func TestServicesByPrefix(t *testing.T) {
	inv := loadTestInventory(t)

	storage := inv.ServicesByPrefix("s0")
	require.Len(t, storage, 4)

	gates := inv.ServicesByPrefix("s3-gate")
	require.Len(t, gates, 1)
}

func TestAbsentAttributesAreNotAnError(t *testing.T) {
	inv := loadTestInventory(t)

	// the HTTP gate carries no wallet; consumers must get a clean miss,
	// not a failure.
	s, _, ok := inv.Service("http-gate01")
	require.True(t, ok)

	_, present := s.Attr("wallet_path")
	require.False(t, present)
	require.Equal(t, "fallback", s.AttrOr("wallet_path", "fallback"))

	var attrs HTTPGateAttrs
	require.NoError(t, s.DecodeAttrs(&attrs))
	require.Equal(t, "http://http.corefs.devenv", attrs.Endpoint)
}

func TestCLILookup(t *testing.T) {
	inv := loadTestInventory(t)

	cli, ok := inv.CLI("corefs-adm")
	require.True(t, ok)
	require.Equal(t, "corefs-adm", cli.ExecPath)

	_, ok = inv.CLI("no-such-tool")
	require.False(t, ok)
}

func TestValidateRejectsDuplicateServiceNames(t *testing.T) {
	_, err := Parse([]byte(`
hosts:
  - address: localhost
    plugin_name: docker
    services:
      - name: s01
        attributes: {container_name: s01}
      - name: s01
        attributes: {container_name: s01-copy}
`))
	require.Error(t, err)
	require.Contains(t, err.Error(), "more than once")
}

func TestValidateRejectsMissingFields(t *testing.T) {
	// host without an address.
	_, err := Parse([]byte(`
hosts:
  - plugin_name: docker
    services:
      - name: s01
`))
	require.Error(t, err)

	// empty document.
	_, err = Parse([]byte(`{}`))
	require.Error(t, err)
}

func TestValidateRejectsDuplicateCLIs(t *testing.T) {
	_, err := Parse([]byte(`
hosts:
  - address: host-a
    plugin_name: docker
    clis:
      - {name: corefs-cli, exec_path: /usr/bin/corefs-cli}
  - address: host-b
    plugin_name: docker
    clis:
      - {name: corefs-cli, exec_path: /usr/local/bin/corefs-cli}
`))
	require.Error(t, err)
	require.Contains(t, err.Error(), "corefs-cli")
}

func TestLoadWithOverride(t *testing.T) {
	dir := t.TempDir()
	override := filepath.Join(dir, "override.yaml")

	src := `
hosts:
  - address: 10.0.0.5
    plugin_name: docker
    services:
      - name: s01
        attributes:
          container_name: s01
          endpoint_data0: 10.0.0.5:8080
`
	require.NoError(t, os.WriteFile(override, []byte(src), 0644))

	inv, err := LoadWithOverride(filepath.Join("testdata", "hosting.yaml"), override)
	require.NoError(t, err)

	// the override replaces the host list wholesale.
	require.Len(t, inv.Hosts, 1)
	require.Equal(t, "10.0.0.5", inv.Hosts[0].Address)

	// a missing override file leaves the base untouched.
	inv, err = LoadWithOverride(filepath.Join("testdata", "hosting.yaml"), filepath.Join(dir, "absent.yaml"))
	require.NoError(t, err)
	require.Equal(t, "localhost", inv.Hosts[0].Address)
}

func TestServiceKindInference(t *testing.T) {
	tests := map[string]Kind{
		"s01":           KindStorageNode,
		"s3-gate01":     KindS3Gate,
		"http-gate01":   KindHTTPGate,
		"morph-chain01": KindMorphChain,
		"main-chain01":  KindMainChain,
		"ir01":          KindInnerRing,
		"coredns01":     KindNameServer,
		"weird":         KindUnknown,
	}
	for name, want := range tests {
		require.Equal(t, want, ServiceKind(name), name)
	}
}
