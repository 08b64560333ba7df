package docker

import (
	"testing"

	"github.com/docker/docker/api/types"
	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/require"
)

func TestHostPort(t *testing.T) {
	c := &types.ContainerJSON{
		NetworkSettings: &types.NetworkSettings{
			NetworkSettingsBase: types.NetworkSettingsBase{
				Ports: nat.PortMap{
					"8080/tcp": []nat.PortBinding{
						{HostIP: "127.0.0.1", HostPort: "32768"},
					},
					"9090/tcp": nil,
				},
			},
		},
	}

	addr, ok := HostPort(c, "8080/tcp")
	require.True(t, ok)
	require.Equal(t, "127.0.0.1:32768", addr)

	// an exposed port without a binding resolves to nothing.
	_, ok = HostPort(c, "9090/tcp")
	require.False(t, ok)

	_, ok = HostPort(c, "7070/tcp")
	require.False(t, ok)

	_, ok = HostPort(&types.ContainerJSON{}, "8080/tcp")
	require.False(t, ok)
}
