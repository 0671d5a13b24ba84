package rtc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Livecast/internal/config"
)

func TestICEServersDefault(t *testing.T) {
	servers, err := ICEServers(config.ICEConfig{})
	require.NoError(t, err)
	assert.Equal(t, DefaultICEServers(), servers)
}

func TestICEServersConfigured(t *testing.T) {
	servers, err := ICEServers(config.ICEConfig{Servers: []config.ICEServer{
		{URLs: []string{"stun:stun.example.com:3478"}},
		{URLs: []string{"turn:turn.example.com:3478"}, Username: "u", Credential: "p"},
	}})
	require.NoError(t, err)
	require.Len(t, servers, 2)
	assert.Equal(t, "u", servers[1].Username)
	assert.Equal(t, "p", servers[1].Credential)
}

func TestICEServersRejectsTurnWithoutCredentials(t *testing.T) {
	_, err := ICEServers(config.ICEConfig{Servers: []config.ICEServer{
		{URLs: []string{"turn:turn.example.com:3478"}},
	}})
	assert.Error(t, err)
}

func TestICEServersRejectsBadURL(t *testing.T) {
	_, err := ICEServers(config.ICEConfig{Servers: []config.ICEServer{
		{URLs: []string{"http://not-ice"}},
	}})
	assert.Error(t, err)
}
