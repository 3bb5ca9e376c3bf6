// Package backend defines the boundary to the hosted conversational speech
// model. Implementations own the realtime transport and surface backend
// activity as a typed event stream; consuming that stream is the only way
// to observe the backend.
package backend

import (
	"context"

	"github.com/vaanihq/vaani/pkg/persona"
)

// Opener establishes backend sessions.
type Opener interface {
	// Open dials the backend and applies the initial persona. It fails
	// with a backend_unavailable reason when the transport cannot be
	// established or is rejected.
	Open(ctx context.Context, p persona.Persona) (Session, error)
}

// Session is one live connection to the speech backend.
type Session interface {
	// SendAudio forwards one caller audio chunk, already in the backend's
	// expected encoding. No backpressure is exposed beyond the transport's
	// own flow control.
	SendAudio(chunk []byte) error

	// Reconfigure swaps the persona while preserving the rest of the
	// session configuration. Re-sending the current persona is a no-op.
	Reconfigure(p persona.Persona) error

	// Truncate tells the backend the utterance is cut off at offsetMS of
	// audio, discarding any generated-but-unsent continuation.
	Truncate(itemID string, offsetMS int64) error

	// Events returns the backend event stream. The channel closes when
	// the transport closes.
	Events() <-chan Event

	Close() error
}

// Event is one typed backend event.
type Event interface {
	backendEvent()
}

// AudioDelta carries one chunk of synthesized audio for an utterance.
type AudioDelta struct {
	ItemID  string
	Payload []byte
}

// UtteranceStarted signals the backend began generating a spoken response.
type UtteranceStarted struct {
	ItemID string
}

// UtteranceDone signals the backend finished generating an utterance.
type UtteranceDone struct {
	ItemID string
}

// TranscriptItem reports conversation text attributed to a role.
type TranscriptItem struct {
	Role string
	Text string
}

// SpeechStarted reports the backend's voice-activity detector heard the
// caller start talking.
type SpeechStarted struct{}

// ErrorEvent surfaces a backend-reported error. The session decides
// whether it is fatal.
type ErrorEvent struct {
	Code    string
	Message string
}

func (AudioDelta) backendEvent()       {}
func (UtteranceStarted) backendEvent() {}
func (UtteranceDone) backendEvent()    {}
func (TranscriptItem) backendEvent()   {}
func (SpeechStarted) backendEvent()    {}
func (ErrorEvent) backendEvent()       {}
