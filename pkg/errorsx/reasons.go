package errorsx

// ReasonCode is a short machine-readable error reason.
type ReasonCode string

const (
	ReasonUnknown ReasonCode = "unknown"

	// Session-fatal: a transport could not be established or died.
	ReasonTransportUnavailable ReasonCode = "transport_unavailable"
	ReasonBackendUnavailable   ReasonCode = "backend_unavailable"
	ReasonTransportSend        ReasonCode = "transport_send"
	ReasonBackendSend          ReasonCode = "backend_send"

	// Message-scoped: logged, dropped, session continues.
	ReasonProtocolViolation ReasonCode = "protocol_violation"
	ReasonStaleReference    ReasonCode = "stale_reference"
	ReasonClassifierFailure ReasonCode = "classifier_failure"

	ReasonTransportInvalidSignature ReasonCode = "webhook_invalid_signature"
	ReasonSTTConnect                ReasonCode = "stt_connect"
	ReasonSTTSend                   ReasonCode = "stt_send"
)

// Fatal reports whether a reason terminates the call session.
func (r ReasonCode) Fatal() bool {
	switch r {
	case ReasonTransportUnavailable, ReasonBackendUnavailable:
		return true
	default:
		return false
	}
}
