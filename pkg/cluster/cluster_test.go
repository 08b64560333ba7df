package cluster

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/corefs/testbed/pkg/inventory"
)

var hostingSrc = []byte(`
hosts:
  - address: localhost
    plugin_name: docker
    services:
      - name: s01
        attributes:
          container_name: s01
          wallet_path: wallets/wallet01.json
          wallet_password: ""
          endpoint_data0: s01.corefs.devenv:8080
          control_endpoint: s01.corefs.devenv:8081
          un_locode: "RU MOW"
      - name: s02
        attributes:
          container_name: s02
          wallet_path: wallets/wallet02.json
          wallet_password: ""
          endpoint_data0: s02.corefs.devenv:8080
          control_endpoint: s02.corefs.devenv:8081
          un_locode: "RU LED"
      - name: s03
        attributes:
          container_name: s03
          endpoint_data0: s03.corefs.devenv:8080
          control_endpoint: s03.corefs.devenv:8081
          un_locode: "SE STO"
      - name: http-gate01
        attributes:
          container_name: http_gate
          endpoint: http://http.corefs.devenv
`)

func newTestCluster(t *testing.T) *Cluster {
	t.Helper()
	inv, err := inventory.Parse(hostingSrc)
	require.NoError(t, err)
	return New(inv, nil)
}

func TestStorageNodes(t *testing.T) {
	c := newTestCluster(t)

	nodes, err := c.StorageNodes()
	require.NoError(t, err)
	require.Len(t, nodes, 3, "gateways must not be listed as storage nodes")

	require.Equal(t, "s01", nodes[0].Name)
	require.Equal(t, "s01.corefs.devenv:8080", nodes[0].Endpoint)
	require.Equal(t, "s01.corefs.devenv:8081", nodes[0].ControlEndpoint)
	require.Equal(t, "RU MOW", nodes[0].UNLocode)
}

func TestNodeLookup(t *testing.T) {
	c := newTestCluster(t)

	n, err := c.Node("s02")
	require.NoError(t, err)
	require.Equal(t, "wallets/wallet02.json", n.WalletPath)

	_, err = c.Node("s99")
	require.Error(t, err)
}

func TestPickNodes(t *testing.T) {
	c := newTestCluster(t)

	picked, err := c.PickNodes(3)
	require.NoError(t, err)
	require.Len(t, picked, 3)

	seen := make(map[string]bool)
	for _, n := range picked {
		require.False(t, seen[n.Name], "picked nodes must be distinct")
		seen[n.Name] = true
	}

	_, err = c.PickNodes(4)
	require.Error(t, err)
}

func TestStopNodeWithoutBackend(t *testing.T) {
	c := newTestCluster(t)

	err := c.StopNode(context.Background(), "s01", 30*time.Second)
	require.Error(t, err)
	require.Contains(t, err.Error(), "docker backend")

	err = c.StartNode(context.Background(), "s01")
	require.Error(t, err)
}

func TestExecInNodeWithoutBackend(t *testing.T) {
	c := newTestCluster(t)

	_, err := c.ExecInNode(context.Background(), "s01", "corefs-cli", "control", "healthcheck")
	require.Error(t, err)
	require.Contains(t, err.Error(), "docker backend")

	// an unknown node fails on lookup, before touching the backend.
	_, err = c.ExecInNode(context.Background(), "s99", "true")
	require.Error(t, err)
	require.Contains(t, err.Error(), "no storage node")
}

func TestParseSizes(t *testing.T) {
	sizes, err := ParseSizes("1kb", "2mb")
	require.NoError(t, err)
	require.EqualValues(t, 1024, sizes.Simple)
	require.EqualValues(t, 2*1024*1024, sizes.Complex)

	_, err = ParseSizes("huge", "2mb")
	require.Error(t, err)

	_, err = ParseSizes("0", "2mb")
	require.Error(t, err)
}

func TestSpoolPayload(t *testing.T) {
	dir := t.TempDir()

	path, err := SpoolPayload(dir, 2048)
	require.NoError(t, err)

	fi, err := os.Stat(path)
	require.NoError(t, err)
	require.EqualValues(t, 2048, fi.Size())

	// two payloads must not collide.
	other, err := SpoolPayload(dir, 16)
	require.NoError(t, err)
	require.NotEqual(t, path, other)
}
