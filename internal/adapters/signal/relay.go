package signal

import (
	"github.com/dkeye/Livecast/internal/core"
	"github.com/dkeye/Livecast/internal/domain"
)

func (ctl *SignalWSController) handleRelay(sid core.SessionID, data []byte) {
	req, err := decode[SignalRequest](data)
	if err != nil {
		ctl.reject(sid, domain.MsgTypeSignal, err)
		return
	}
	ctl.Orch.Relay(sid, req.target(), domain.SignalKind(req.Kind), req.Payload)
}
