// Package openairt implements the backend session boundary against the
// OpenAI Realtime API over WebSocket.
package openairt

import (
	"context"
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vaanihq/vaani/pkg/backend"
	"github.com/vaanihq/vaani/pkg/errorsx"
	"github.com/vaanihq/vaani/pkg/logging"
	"github.com/vaanihq/vaani/pkg/persona"
)

const defaultURL = "wss://api.openai.com/v1/realtime"

// Backend event types worth surfacing at info level even when no handler
// reacts to them.
var defaultLogEventTypes = []string{
	"error", "response.content.done", "rate_limits.updated",
	"response.done", "input_audio_buffer.committed",
	"input_audio_buffer.speech_stopped", "input_audio_buffer.speech_started",
	"session.created", "session.updated",
}

type Config struct {
	APIKey            string   `mapstructure:"api_key"`
	Model             string   `mapstructure:"model"`
	Voice             string   `mapstructure:"voice"`
	Temperature       float64  `mapstructure:"temperature"`
	URL               string   `mapstructure:"url"`
	InputAudioFormat  string   `mapstructure:"input_audio_format"`
	OutputAudioFormat string   `mapstructure:"output_audio_format"`
	LogEventTypes     []string `mapstructure:"log_event_types"`
	PingInterval      time.Duration
}

func (c Config) withDefaults() Config {
	if c.URL == "" {
		c.URL = defaultURL
	}
	if c.Model == "" {
		c.Model = "gpt-4o-realtime-preview-2024-10-01"
	}
	if c.Voice == "" {
		c.Voice = "alloy"
	}
	if c.Temperature == 0 {
		c.Temperature = 0.7
	}
	if c.InputAudioFormat == "" {
		c.InputAudioFormat = "g711_ulaw"
	}
	if c.OutputAudioFormat == "" {
		c.OutputAudioFormat = "g711_ulaw"
	}
	if len(c.LogEventTypes) == 0 {
		c.LogEventTypes = defaultLogEventTypes
	}
	if c.PingInterval == 0 {
		c.PingInterval = 20 * time.Second
	}
	return c
}

// Client opens realtime sessions. It is safe for concurrent use; each call
// owns one session.
type Client struct {
	cfg Config
}

func New(cfg Config) *Client {
	return &Client{cfg: cfg.withDefaults()}
}

// Open dials the realtime endpoint and applies the initial persona.
func (c *Client) Open(ctx context.Context, p persona.Persona) (backend.Session, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	url := c.cfg.URL
	if !strings.Contains(url, "model=") {
		sep := "?"
		if strings.Contains(url, "?") {
			sep = "&"
		}
		url += sep + "model=" + c.cfg.Model
	}
	header := http.Header{}
	if c.cfg.APIKey != "" {
		header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}
	header.Set("OpenAI-Beta", "realtime=v1")

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, header)
	if err != nil {
		return nil, errorsx.Wrap(err, errorsx.ReasonBackendUnavailable)
	}

	s := &session{
		cfg:      c.cfg,
		conn:     conn,
		events:   make(chan backend.Event, 64),
		done:     make(chan struct{}),
		log:      logging.NewComponentLogger(slog.Default(), "backend"),
		logTypes: make(map[string]struct{}, len(c.cfg.LogEventTypes)),
	}
	for _, t := range c.cfg.LogEventTypes {
		s.logTypes[t] = struct{}{}
	}

	if err := s.sendUpdate(p); err != nil {
		_ = conn.Close()
		return nil, errorsx.Wrap(err, errorsx.ReasonBackendUnavailable)
	}
	s.instructions = p.Instructions

	go s.readLoop()
	go s.keepalive()
	return s, nil
}

type session struct {
	cfg  Config
	conn *websocket.Conn

	writeMu sync.Mutex
	events  chan backend.Event
	done    chan struct{}
	closed  atomic.Bool

	mu           sync.Mutex
	instructions string

	log      *slog.Logger
	logTypes map[string]struct{}
}

func (s *session) Events() <-chan backend.Event { return s.events }

func (s *session) SendAudio(chunk []byte) error {
	if len(chunk) == 0 {
		return nil
	}
	msg := audioAppendMsg{
		Type:  "input_audio_buffer.append",
		Audio: base64.StdEncoding.EncodeToString(chunk),
	}
	return errorsx.Wrap(s.writeJSON(msg), errorsx.ReasonBackendSend)
}

func (s *session) Reconfigure(p persona.Persona) error {
	s.mu.Lock()
	same := s.instructions == p.Instructions
	if !same {
		s.instructions = p.Instructions
	}
	s.mu.Unlock()
	if same {
		return nil
	}
	s.log.Info("backend_reconfigure", "language", string(p.Language))
	return errorsx.Wrap(s.sendUpdate(p), errorsx.ReasonBackendSend)
}

func (s *session) Truncate(itemID string, offsetMS int64) error {
	msg := truncateMsg{
		Type:         "conversation.item.truncate",
		ItemID:       itemID,
		ContentIndex: 0,
		AudioEndMS:   offsetMS,
	}
	return errorsx.Wrap(s.writeJSON(msg), errorsx.ReasonBackendSend)
}

func (s *session) Close() error {
	if s.closed.CompareAndSwap(false, true) {
		close(s.done)
		return s.conn.Close()
	}
	return nil
}

func (s *session) sendUpdate(p persona.Persona) error {
	msg := sessionUpdateMsg{
		Type: "session.update",
		Session: sessionConfig{
			TurnDetection:     turnDetection{Type: "server_vad"},
			InputAudioFormat:  s.cfg.InputAudioFormat,
			OutputAudioFormat: s.cfg.OutputAudioFormat,
			Voice:             s.cfg.Voice,
			Instructions:      p.Instructions,
			Modalities:        []string{"text", "audio"},
			Temperature:       s.cfg.Temperature,
		},
	}
	return s.writeJSON(msg)
}

func (s *session) writeJSON(v any) error {
	if s.closed.Load() {
		return errors.New("backend session closed")
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.conn.WriteJSON(v)
}

func (s *session) readLoop() {
	defer close(s.events)
	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			if !s.closed.Load() {
				s.log.Info("backend_stream_ended", "error", err.Error())
			}
			return
		}
		typ, evts, err := parseServerEvent(raw)
		if err != nil {
			// Malformed message: drop it, keep the session alive.
			s.log.Warn("backend_event_dropped",
				"reason_code", string(errorsx.ReasonProtocolViolation),
				"error", err.Error())
			continue
		}
		if _, ok := s.logTypes[typ]; ok {
			s.log.Info("backend_event", "type", typ)
		}
		for _, e := range evts {
			select {
			case s.events <- e:
			case <-s.done:
				return
			}
		}
	}
}

func (s *session) keepalive() {
	ticker := time.NewTicker(s.cfg.PingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.writeMu.Lock()
			err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(10*time.Second))
			s.writeMu.Unlock()
			if err != nil {
				return
			}
		}
	}
}

var _ backend.Opener = (*Client)(nil)
var _ backend.Session = (*session)(nil)
