package mock

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vaanihq/vaani/pkg/frames"
)

// Transport is an in-memory transport for local testing and integration.
// It implements the transports.Transport interface without any network dependency.
type Transport struct {
	recvCh chan frames.Frame
	sentCh chan frames.Frame
	closed atomic.Bool
	mu     sync.Mutex
}

func New() *Transport {
	return &Transport{
		recvCh: make(chan frames.Frame, 256),
		sentCh: make(chan frames.Frame, 256),
	}
}

func (t *Transport) Name() string { return "mock" }

func (t *Transport) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	go func() {
		<-ctx.Done()
		_ = t.Stop()
	}()
	return nil
}

func (t *Transport) Stop() error {
	if t.closed.CompareAndSwap(false, true) {
		t.mu.Lock()
		close(t.recvCh)
		close(t.sentCh)
		t.mu.Unlock()
	}
	return nil
}

func (t *Transport) Recv() <-chan frames.Frame { return t.recvCh }

func (t *Transport) Send(f frames.Frame) error {
	if t.closed.Load() {
		return nil
	}
	select {
	case t.sentCh <- f:
	default:
	}
	return nil
}

// Push injects an inbound frame into the transport.
func (t *Transport) Push(f frames.Frame) {
	if t.closed.Load() {
		return
	}
	select {
	case t.recvCh <- f:
	default:
	}
}

// Sent exposes outbound frames for inspection.
func (t *Transport) Sent() <-chan frames.Frame { return t.sentCh }

// PushStreamStart injects the system frame a real transport emits when a
// caller's media stream opens.
func (t *Transport) PushStreamStart(streamID, callSID string) {
	meta := map[string]string{frames.MetaCallSID: callSID}
	t.Push(frames.NewSystemFrame(streamID, time.Now().UnixNano(), frames.SystemStreamStart, meta))
}

// PushMedia injects one caller audio chunk stamped with the media clock.
func (t *Transport) PushMedia(streamID string, clockMS int64, payload []byte) {
	meta := map[string]string{frames.MetaTimestampMS: strconv.FormatInt(clockMS, 10)}
	t.Push(frames.NewAudioFrame(streamID, time.Now().UnixNano(), payload, 8000, 1, meta))
}

// PushMarkAck injects a playback acknowledgment for a previously sent mark.
func (t *Transport) PushMarkAck(streamID, name string) {
	meta := map[string]string{frames.MetaMarkName: name}
	t.Push(frames.NewControlFrame(streamID, time.Now().UnixNano(), frames.ControlMarkAck, meta))
}

// PushCallEnd injects the end-of-call system frame.
func (t *Transport) PushCallEnd(streamID, reason string) {
	meta := map[string]string{frames.MetaCallEndReason: reason}
	t.Push(frames.NewSystemFrame(streamID, time.Now().UnixNano(), frames.SystemCallEnd, meta))
}
