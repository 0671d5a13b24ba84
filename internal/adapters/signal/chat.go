package signal

import (
	"github.com/dkeye/Livecast/internal/core"
	"github.com/dkeye/Livecast/internal/domain"
	"github.com/rs/zerolog/log"
)

func (ctl *SignalWSController) handleChat(sid core.SessionID, data []byte) {
	req, err := decode[ChatRequest](data)
	if err != nil {
		ctl.reject(sid, domain.MsgTypeChatMessage, err)
		return
	}
	text, err := req.Trimmed(ctl.opts.ChatMaxLength)
	if err != nil {
		ctl.reject(sid, domain.MsgTypeChatMessage, err)
		return
	}
	if !ctl.chat.Allow(sid) {
		log.Warn().Str("module", "signal").Str("sid", string(sid)).Msg("chat rate limited")
		ctl.Orch.SendError(sid, domain.ErrCodeRateLimited, "too many chat messages")
		return
	}
	ctl.Orch.SendChat(sid, text)
}
