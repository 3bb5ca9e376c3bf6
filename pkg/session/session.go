// Package session implements the per-call state machine that bridges the
// caller transport and the speech backend: steady-state audio relay in
// both directions, playback tracking via mark acknowledgments, barge-in
// truncation, and transcript-driven language switching.
package session

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vaanihq/vaani/pkg/backend"
	"github.com/vaanihq/vaani/pkg/errorsx"
	"github.com/vaanihq/vaani/pkg/frames"
	"github.com/vaanihq/vaani/pkg/langdetect"
	"github.com/vaanihq/vaani/pkg/logging"
	"github.com/vaanihq/vaani/pkg/persona"
	"github.com/vaanihq/vaani/pkg/stt"
)

type State string

const (
	StateIdle      State = "idle"
	StateStreaming State = "streaming"
	StateClosed    State = "closed"
)

const markToken = "responsePart"

// CallerPort is the outbound half of the caller transport a session needs.
type CallerPort interface {
	Send(frames.Frame) error
}

type Config struct {
	StreamID string
	CallSID  string
	TraceID  string
	Caller   CallerPort
	Opener   backend.Opener
	Personas *persona.Registry
	// DefaultLanguage seeds the session before any classification; empty
	// falls back to the classifier's baseline.
	DefaultLanguage langdetect.Language
	Tap             stt.StreamingSTT
	Logger          *slog.Logger
}

// Session coordinates one call. Two goroutines drive it for its whole
// lifetime: one consuming caller frames, one consuming backend events.
// Shared fields are guarded by mu; each is written by a single goroutine
// except the mark queue, which has its own lock.
type Session struct {
	cfg     Config
	backend backend.Session
	logger  *slog.Logger

	callerCh chan frames.Frame
	done     chan struct{}
	closed   atomic.Bool
	wg       sync.WaitGroup

	mu                sync.Mutex
	state             State
	mediaClockMS      int64
	activeUtteranceID string
	playbackAnchorMS  int64
	currentLanguage   langdetect.Language

	marks markQueue
}

func New(cfg Config) *Session {
	base := cfg.Logger
	if base == nil {
		base = slog.Default()
	}
	logger := logging.NewCallLogger(logging.NewComponentLogger(base, "session"), cfg.StreamID, cfg.CallSID, cfg.TraceID)
	lang := cfg.DefaultLanguage
	if lang == "" {
		lang = langdetect.Default
	}
	return &Session{
		cfg:             cfg,
		logger:          logger,
		callerCh:        make(chan frames.Frame, 512),
		done:            make(chan struct{}),
		state:           StateIdle,
		currentLanguage: lang,
	}
}

// Start opens the backend session with the default persona and launches
// the two relay goroutines. The session tears itself down when either
// side disconnects; Done is closed once teardown completes.
func (s *Session) Start(ctx context.Context) error {
	p := s.cfg.Personas.Lookup(s.currentLanguage)
	bs, err := s.cfg.Opener.Open(ctx, p)
	if err != nil {
		s.closed.Store(true)
		close(s.done)
		s.mu.Lock()
		s.state = StateClosed
		s.mu.Unlock()
		return errorsx.Wrap(err, errorsx.ReasonBackendUnavailable)
	}
	s.backend = bs

	if s.cfg.Tap != nil {
		if err := s.cfg.Tap.Start(ctx); err != nil {
			s.logger.Warn("stt_tap_disabled",
				"reason_code", string(errorsx.Reason(err)),
				"error", err.Error())
			s.cfg.Tap = nil
		}
	}

	s.wg.Add(2)
	go s.callerLoop()
	go s.backendLoop()
	if s.cfg.Tap != nil {
		s.wg.Add(1)
		go s.tapLoop()
	}
	s.logger.Info("session_started", "language", string(s.currentLanguage))
	return nil
}

// HandleFrame feeds one inbound caller frame into the session. It never
// blocks; frames arriving faster than the session can relay are dropped.
func (s *Session) HandleFrame(f frames.Frame) {
	if s.closed.Load() {
		return
	}
	select {
	case s.callerCh <- f:
	default:
		s.logger.Warn("caller_frame_dropped")
	}
}

func (s *Session) Done() <-chan struct{} { return s.done }

func (s *Session) Close() error {
	s.teardown("closed")
	s.wg.Wait()
	return nil
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Language() langdetect.Language {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentLanguage
}

func (s *Session) PendingMarks() int { return s.marks.len() }

func (s *Session) callerLoop() {
	defer s.wg.Done()
	for {
		select {
		case <-s.done:
			return
		case f := <-s.callerCh:
			if !s.handleCallerFrame(f) {
				return
			}
		}
	}
}

func (s *Session) handleCallerFrame(f frames.Frame) bool {
	switch f.Kind() {
	case frames.KindSystem:
		sys := f.(frames.SystemFrame)
		switch sys.Name() {
		case frames.SystemStreamStart:
			s.onStreamStart()
		case frames.SystemCallEnd:
			s.logger.Info("call_ended",
				"reason", sys.Meta()[frames.MetaCallEndReason])
			s.teardown("caller_disconnect")
			return false
		}
	case frames.KindAudio:
		s.onCallerAudio(f.(frames.AudioFrame))
	case frames.KindControl:
		cf := f.(frames.ControlFrame)
		switch cf.Code() {
		case frames.ControlMarkAck:
			if _, ok := s.marks.pop(); !ok {
				s.logger.Debug("mark_ack_without_pending",
					"reason_code", string(errorsx.ReasonStaleReference))
			}
		case frames.ControlDTMF:
			s.logger.Info("dtmf_received", "digit", cf.Meta()[frames.MetaDTMFDigit])
		}
	}
	return true
}

func (s *Session) onStreamStart() {
	s.mu.Lock()
	s.state = StateStreaming
	s.mediaClockMS = 0
	s.activeUtteranceID = ""
	s.playbackAnchorMS = 0
	s.mu.Unlock()
	s.marks.clear()
	s.logger.Info("stream_started")
}

func (s *Session) onCallerAudio(af frames.AudioFrame) {
	s.mu.Lock()
	if s.state != StateStreaming {
		s.mu.Unlock()
		return
	}
	if v := af.Meta()[frames.MetaTimestampMS]; v != "" {
		if ms, err := strconv.ParseInt(v, 10, 64); err == nil {
			s.mediaClockMS = ms
		}
	}
	s.mu.Unlock()

	if err := s.backend.SendAudio(af.RawPayload()); err != nil {
		s.logger.Error("backend_send_failed",
			"reason_code", string(errorsx.Reason(err)),
			"error", err.Error())
		s.teardown("backend_send_failed")
		return
	}
	if s.cfg.Tap != nil {
		if err := s.cfg.Tap.SendAudio(af); err != nil {
			s.logger.Debug("stt_tap_send_failed", "error", err.Error())
		}
	}
}

func (s *Session) backendLoop() {
	defer s.wg.Done()
	events := s.backend.Events()
	for {
		select {
		case <-s.done:
			return
		case e, ok := <-events:
			if !ok {
				s.logger.Info("backend_stream_closed")
				s.teardown("backend_disconnect")
				return
			}
			s.handleBackendEvent(e)
		}
	}
}

func (s *Session) handleBackendEvent(e backend.Event) {
	switch evt := e.(type) {
	case backend.AudioDelta:
		s.onAudioDelta(evt)
	case backend.SpeechStarted:
		s.onSpeechStarted()
	case backend.TranscriptItem:
		if evt.Role == "user" {
			s.maybeSwitchLanguage(evt.Text)
		}
	case backend.UtteranceStarted:
		s.logger.Debug("utterance_started", "utterance_id", evt.ItemID)
	case backend.UtteranceDone:
		// Generation finishing does not mean playback finished; the
		// anchor and mark queue keep tracking until the next utterance
		// or a barge-in resets them.
		s.logger.Debug("utterance_done", "utterance_id", evt.ItemID)
	case backend.ErrorEvent:
		s.logger.Error("backend_error", "code", evt.Code, "message", evt.Message)
	}
}

func (s *Session) onAudioDelta(evt backend.AudioDelta) {
	s.mu.Lock()
	if s.state != StateStreaming {
		s.mu.Unlock()
		return
	}
	streamID := s.cfg.StreamID
	if s.activeUtteranceID == "" && evt.ItemID != "" {
		s.activeUtteranceID = evt.ItemID
		s.playbackAnchorMS = s.mediaClockMS
		s.logger.Debug("utterance_anchor_set",
			"utterance_id", evt.ItemID,
			"anchor_ms", s.playbackAnchorMS)
	}
	s.mu.Unlock()

	meta := s.frameMeta()
	af := frames.NewAudioFrame(streamID, time.Now().UnixNano(), evt.Payload, 8000, 1, meta)
	if err := s.cfg.Caller.Send(af); err != nil {
		s.logger.Warn("caller_send_failed",
			"reason_code", string(errorsx.Reason(err)),
			"error", err.Error())
		return
	}

	markMeta := s.frameMeta()
	markMeta[frames.MetaMarkName] = markToken
	mark := frames.NewControlFrame(streamID, time.Now().UnixNano(), frames.ControlMark, markMeta)
	// Push before sending so an ack racing the send always finds its
	// token; a failed send takes the token back.
	s.marks.push(markToken)
	if err := s.cfg.Caller.Send(mark); err != nil {
		s.marks.dropLast()
		s.logger.Warn("caller_mark_failed", "error", err.Error())
	}
}

// onSpeechStarted runs the barge-in protocol: estimate how much of the
// active utterance the caller has heard using the caller media clock,
// truncate the backend's unplayed tail, flush caller-side buffers and
// reset playback state.
func (s *Session) onSpeechStarted() {
	s.mu.Lock()
	if s.activeUtteranceID == "" {
		s.mu.Unlock()
		return
	}
	utteranceID := s.activeUtteranceID
	elapsed := s.mediaClockMS - s.playbackAnchorMS
	if elapsed < 0 {
		elapsed = 0
	}
	s.activeUtteranceID = ""
	s.playbackAnchorMS = 0
	streamID := s.cfg.StreamID
	s.mu.Unlock()

	s.logger.Info("barge_in",
		"utterance_id", utteranceID,
		"elapsed_ms", elapsed,
		"pending_marks", s.marks.len())

	if s.marks.len() > 0 {
		if err := s.backend.Truncate(utteranceID, elapsed); err != nil {
			s.logger.Warn("truncate_failed",
				"reason_code", string(errorsx.Reason(err)),
				"error", err.Error())
		}
	}

	clearFrame := frames.NewControlFrame(streamID, time.Now().UnixNano(), frames.ControlClear, s.frameMeta())
	if err := s.cfg.Caller.Send(clearFrame); err != nil {
		s.logger.Warn("caller_clear_failed", "error", err.Error())
	}
	s.marks.clear()
}

func (s *Session) maybeSwitchLanguage(text string) {
	lang := langdetect.Detect(text)
	s.mu.Lock()
	if lang == s.currentLanguage {
		s.mu.Unlock()
		return
	}
	prev := s.currentLanguage
	s.currentLanguage = lang
	s.mu.Unlock()

	p := s.cfg.Personas.Lookup(lang)
	s.logger.Info("language_switch",
		"from", string(prev),
		"to", string(lang))
	if err := s.backend.Reconfigure(p); err != nil {
		s.logger.Warn("reconfigure_failed",
			"reason_code", string(errorsx.Reason(err)),
			"error", err.Error())
	}
}

func (s *Session) tapLoop() {
	defer s.wg.Done()
	results := s.cfg.Tap.Results()
	for {
		select {
		case <-s.done:
			return
		case f, ok := <-results:
			if !ok {
				return
			}
			tf, isText := f.(frames.TextFrame)
			if !isText || tf.Meta()[frames.MetaIsFinal] != "true" {
				continue
			}
			s.maybeSwitchLanguage(tf.Text())
		}
	}
}

func (s *Session) teardown(reason string) {
	if !s.closed.CompareAndSwap(false, true) {
		return
	}
	s.mu.Lock()
	s.state = StateClosed
	s.mu.Unlock()
	if s.backend != nil {
		_ = s.backend.Close()
	}
	if s.cfg.Tap != nil {
		_ = s.cfg.Tap.Close()
	}
	close(s.done)
	s.logger.Info("session_closed", "reason", reason)
}

func (s *Session) frameMeta() map[string]string {
	meta := map[string]string{}
	if s.cfg.CallSID != "" {
		meta[frames.MetaCallSID] = s.cfg.CallSID
	}
	if s.cfg.TraceID != "" {
		meta[frames.MetaTraceID] = s.cfg.TraceID
	}
	return meta
}
