package errorsx

// ReasonCode is a short machine-readable error reason.
type ReasonCode string

const (
	ReasonUnknown ReasonCode = "unknown"

	ReasonSessionStart ReasonCode = "session_start"
	ReasonSessionEnd   ReasonCode = "session_end"
	ReasonChatSend     ReasonCode = "chat_send"
	ReasonNoActiveCall ReasonCode = "no_active_call"

	ReasonTTSSynthesize  ReasonCode = "tts_synthesize"
	ReasonTTSPlayback    ReasonCode = "tts_playback"
	ReasonTTSUnavailable ReasonCode = "tts_unavailable"

	ReasonRecogConnect ReasonCode = "recog_connect"
	ReasonRecogCapture ReasonCode = "recog_capture"

	ReasonRateLimit ReasonCode = "rate_limit"
)
