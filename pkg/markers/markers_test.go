package markers

import (
	"testing"

	"github.com/stretchr/testify/require"
)

var registrySrc = []byte(`
[pytest]
log_format = %(asctime)s [%(levelname)4.4s] %(message)s
markers =
    sanity: test runs in sanity testsuite
    smoke: test runs in smoke testsuite
    grpc_api: standard gRPC API tests
    http_gate: HTTP gateway tests
    s3_gate: S3 gateway tests
    curl: tests for HTTP gate with curl utility
    long: long tests group
    sanity2: updated sanity tests
    failover: tests for system recovery after a failure
    failover_panic: tests for system recovery after panic
    failover_network: tests for network failure
    add_nodes: add nodes to cluster
    check_binaries: check binaries versions
    payments: tests for payment associated operations
    load: performance tests
    acl: All tests for ACL
    acl_basic: Basic ACL tests
    acl_extended: Extended ACL tests
    acl_bearer: ACL with bearer token tests
    storage_group: Storage group tests
    container: tests for container creation
    node_mgmt: test for storage node management
    session_token: tests for session token
    static_session: tests for static session
`)

func TestParseRegistry(t *testing.T) {
	r, err := Parse(registrySrc)
	require.NoError(t, err)
	require.Equal(t, 24, r.Len())

	m, ok := r.Lookup("failover")
	require.True(t, ok)
	require.Equal(t, "tests for system recovery after a failure", m.Description)

	require.True(t, r.Has("acl_bearer"))
	require.False(t, r.Has("nonexistent"))

	_, ok = r.Lookup("nonexistent")
	require.False(t, ok)
}

func TestMarkersPreserveDeclarationOrder(t *testing.T) {
	r, err := Parse(registrySrc)
	require.NoError(t, err)

	ms := r.Markers()
	require.Equal(t, "sanity", ms[0].Name)
	require.Equal(t, "smoke", ms[1].Name)
	require.Equal(t, "static_session", ms[len(ms)-1].Name)
}

func TestParseRejectsMalformedEntries(t *testing.T) {
	_, err := Parse([]byte(`
[pytest]
markers =
    sanity: ok
    entry without separator
`))
	require.Error(t, err)
	require.Contains(t, err.Error(), "name: description")
}

func TestParseRejectsDuplicateNames(t *testing.T) {
	_, err := Parse([]byte(`
[pytest]
markers =
    sanity: one
    sanity: two
`))
	require.Error(t, err)
	require.Contains(t, err.Error(), "declared twice")
}

func TestParseRejectsEmptyName(t *testing.T) {
	_, err := Parse([]byte(`
[pytest]
markers =
    : description without a name
`))
	require.Error(t, err)
}

func TestParseRequiresMarkersKey(t *testing.T) {
	_, err := Parse([]byte("[pytest]\nlog_cli = true\n"))
	require.Error(t, err)
}
