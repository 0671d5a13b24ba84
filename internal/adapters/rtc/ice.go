// Package rtc holds the WebRTC settings handed to browsers. Media flows
// peer to peer; the server only relays negotiation.
package rtc

import (
	"fmt"

	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Livecast/internal/config"
)

func DefaultICEServers() []webrtc.ICEServer {
	return []webrtc.ICEServer{
		{URLs: []string{"stun:stun.l.google.com:19302"}},
	}
}

// ICEServers converts configured servers and checks them by building a
// throwaway peer connection, which rejects bad URLs and TURN entries
// without credentials.
func ICEServers(cfg config.ICEConfig) ([]webrtc.ICEServer, error) {
	if len(cfg.Servers) == 0 {
		return DefaultICEServers(), nil
	}
	servers := make([]webrtc.ICEServer, 0, len(cfg.Servers))
	for _, s := range cfg.Servers {
		server := webrtc.ICEServer{URLs: s.URLs, Username: s.Username}
		if s.Credential != "" {
			server.Credential = s.Credential
		}
		servers = append(servers, server)
	}

	pc, err := webrtc.NewPeerConnection(webrtc.Configuration{ICEServers: servers})
	if err != nil {
		return nil, fmt.Errorf("invalid ice servers: %w", err)
	}
	if err := pc.Close(); err != nil {
		log.Warn().Err(err).Str("module", "rtc").Msg("close probe peer connection")
	}
	return servers, nil
}
