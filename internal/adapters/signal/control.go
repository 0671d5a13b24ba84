package signal

import "github.com/dkeye/Livecast/internal/core"

func (ctl *SignalWSController) handlePing(sid core.SessionID) {
	ctl.Orch.Pong(sid)
}
