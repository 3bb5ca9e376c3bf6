// Package vaani wires configuration, the caller transport, the speech
// backend and per-call sessions into a runnable voice assistant.
package vaani

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/vaanihq/vaani/pkg/backend"
	"github.com/vaanihq/vaani/pkg/backend/openairt"
	"github.com/vaanihq/vaani/pkg/configutil"
	"github.com/vaanihq/vaani/pkg/frames"
	"github.com/vaanihq/vaani/pkg/langdetect"
	"github.com/vaanihq/vaani/pkg/logging"
	"github.com/vaanihq/vaani/pkg/persona"
	"github.com/vaanihq/vaani/pkg/session"
	"github.com/vaanihq/vaani/pkg/stt"
	"github.com/vaanihq/vaani/pkg/stt/deepgram"
	"github.com/vaanihq/vaani/pkg/transports"
	"github.com/vaanihq/vaani/pkg/transports/twilio"
)

type Engine struct {
	cfg         Config
	transport   transports.Transport
	opener      backend.Opener
	personas    *persona.Registry
	defaultLang langdetect.Language
	logger      *slog.Logger

	mu       sync.Mutex
	sessions map[string]*session.Session

	cancel context.CancelFunc
}

// EngineOptions lets callers substitute the transport or backend opener,
// mainly for tests. Zero values fall back to config-driven construction.
type EngineOptions struct {
	Config    Config
	Transport transports.Transport
	Opener    backend.Opener
}

func NewEngine(opts EngineOptions) (*Engine, error) {
	cfg := opts.Config
	SetDefaultLogger(cfg.LogLevel)

	personas := persona.NewRegistry()
	for lang, text := range cfg.Languages.Prompts {
		p := persona.Persona{Language: langdetect.Language(strings.ToLower(lang)), Instructions: text}
		if err := personas.Register(p); err != nil {
			return nil, fmt.Errorf("languages.prompts.%s: %w", lang, err)
		}
	}

	defaultLang := langdetect.Default
	if v := strings.TrimSpace(cfg.Languages.Default); v != "" {
		defaultLang = langdetect.Language(strings.ToLower(v))
		known := false
		for _, l := range personas.Languages() {
			if l == defaultLang {
				known = true
				break
			}
		}
		if !known {
			return nil, fmt.Errorf("languages.default: no persona registered for %q", v)
		}
	}

	transport := opts.Transport
	if transport == nil {
		t, err := buildTransport(cfg.Transport)
		if err != nil {
			return nil, err
		}
		transport = t
	}

	opener := opts.Opener
	if opener == nil {
		opener = openairt.New(openairt.Config{
			APIKey:      cfg.Backend.APIKey,
			Model:       cfg.Backend.Model,
			Voice:       cfg.Backend.Voice,
			Temperature: cfg.Backend.Temperature,
			URL:         cfg.Backend.URL,
		})
	}

	return &Engine{
		cfg:         cfg,
		transport:   transport,
		opener:      opener,
		personas:    personas,
		defaultLang: defaultLang,
		logger:      logging.NewComponentLogger(slog.Default(), "engine"),
		sessions:    make(map[string]*session.Session),
	}, nil
}

func buildTransport(cfg TransportConfig) (transports.Transport, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "twilio":
		schema := configutil.Schema{
			Required: []string{"account_sid", "auth_token"},
			Optional: []string{
				"server_addr", "public_url", "voice_path", "ws_path",
				"status_callback_path", "voice_greeting", "voice_prompt",
				"allow_any_origin", "allowed_origins",
			},
		}
		if err := configutil.ValidateSettings(cfg.Settings, schema); err != nil {
			return nil, fmt.Errorf("transport.settings: %w", err)
		}
		var tc twilio.Config
		if err := configutil.DecodeSettings(cfg.Settings, &tc); err != nil {
			return nil, fmt.Errorf("transport.settings: %w", err)
		}
		return twilio.New(tc), nil
	default:
		return nil, fmt.Errorf("unknown transport provider %q", cfg.Provider)
	}
}

// Run starts the transport and routes inbound frames to per-call
// sessions until ctx is canceled or the transport closes.
func (e *Engine) Run(ctx context.Context) error {
	ctx, e.cancel = context.WithCancel(ctx)
	defer e.cancel()

	if err := e.transport.Start(ctx); err != nil {
		return err
	}
	if rr, ok := e.transport.(transports.ReadyReporter); ok {
		args := []any{"transport", e.transport.Name()}
		for k, v := range rr.ReadyFields() {
			args = append(args, k, v)
		}
		e.logger.Info("engine_ready", args...)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case f, ok := <-e.transport.Recv():
			if !ok {
				return nil
			}
			e.route(ctx, f)
		}
	}
}

func (e *Engine) route(ctx context.Context, f frames.Frame) {
	streamID := f.Meta()[frames.MetaStreamID]
	if streamID == "" {
		return
	}

	if sys, ok := f.(frames.SystemFrame); ok && sys.Name() == frames.SystemStreamStart {
		e.startSession(ctx, streamID, sys)
		return
	}

	e.mu.Lock()
	s := e.sessions[streamID]
	e.mu.Unlock()
	if s == nil {
		return
	}
	s.HandleFrame(f)

	if sys, ok := f.(frames.SystemFrame); ok && sys.Name() == frames.SystemCallEnd {
		e.dropSession(streamID)
	}
}

func (e *Engine) startSession(ctx context.Context, streamID string, sys frames.SystemFrame) {
	meta := sys.Meta()
	var tap stt.StreamingSTT
	if e.cfg.STT.Enabled {
		tap = deepgram.New(deepgram.Config{
			APIKey:   e.cfg.STT.APIKey,
			Model:    e.cfg.STT.Model,
			Interim:  e.cfg.STT.Interim,
			StreamID: streamID,
			CallSID:  meta[frames.MetaCallSID],
			TraceID:  meta[frames.MetaTraceID],
		})
	}

	s := session.New(session.Config{
		StreamID:        streamID,
		CallSID:         meta[frames.MetaCallSID],
		TraceID:         meta[frames.MetaTraceID],
		Caller:          e.transport,
		Opener:          e.opener,
		Personas:        e.personas,
		DefaultLanguage: e.defaultLang,
		Tap:             tap,
	})
	if err := s.Start(ctx); err != nil {
		e.logger.Error("session_start_failed",
			"stream_id", streamID,
			"error", err.Error())
		return
	}

	e.mu.Lock()
	old := e.sessions[streamID]
	e.sessions[streamID] = s
	e.mu.Unlock()
	if old != nil {
		_ = old.Close()
	}

	// The session learns its own stream identity from the same frame.
	s.HandleFrame(sys)

	go func() {
		<-s.Done()
		e.dropSession(streamID)
	}()
}

func (e *Engine) dropSession(streamID string) {
	e.mu.Lock()
	s := e.sessions[streamID]
	delete(e.sessions, streamID)
	e.mu.Unlock()
	if s != nil {
		_ = s.Close()
		if sc, ok := e.transport.(transports.StreamCloser); ok {
			_ = sc.CloseStream(streamID)
		}
	}
}

// Drain closes all live sessions and stops the transport. Used by the
// lifecycle runner on shutdown.
func (e *Engine) Drain() error {
	if e.cancel != nil {
		e.cancel()
	}
	e.mu.Lock()
	live := make([]*session.Session, 0, len(e.sessions))
	for _, s := range e.sessions {
		live = append(live, s)
	}
	e.sessions = make(map[string]*session.Session)
	e.mu.Unlock()
	for _, s := range live {
		_ = s.Close()
	}
	return e.transport.Stop()
}

// ActiveSessions reports the number of live call sessions.
func (e *Engine) ActiveSessions() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.sessions)
}

// Transport exposes the caller transport, e.g. for outbound dialing.
func (e *Engine) Transport() transports.Transport { return e.transport }

// SetDefaultLogger installs the process-wide structured logger.
func SetDefaultLogger(level string) {
	lvl := slog.LevelInfo
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}
	slog.SetDefault(logging.InitLogger(lvl))
}
