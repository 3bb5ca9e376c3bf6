package vaani

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/vaanihq/vaani/pkg/backend"
	"github.com/vaanihq/vaani/pkg/langdetect"
	"github.com/vaanihq/vaani/pkg/persona"
	"github.com/vaanihq/vaani/pkg/transports/mock"
)

type stubBackend struct {
	mu     sync.Mutex
	events chan backend.Event
	closed bool
}

func (s *stubBackend) SendAudio([]byte) error            { return nil }
func (s *stubBackend) Reconfigure(persona.Persona) error { return nil }
func (s *stubBackend) Truncate(string, int64) error      { return nil }
func (s *stubBackend) Events() <-chan backend.Event      { return s.events }

func (s *stubBackend) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.events)
	}
	return nil
}

type stubOpener struct {
	mu     sync.Mutex
	opened int
	langs  []langdetect.Language
}

func (s *stubOpener) Open(ctx context.Context, p persona.Persona) (backend.Session, error) {
	s.mu.Lock()
	s.opened++
	s.langs = append(s.langs, p.Language)
	s.mu.Unlock()
	return &stubBackend{events: make(chan backend.Event, 8)}, nil
}

func (s *stubOpener) openCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opened
}

func (s *stubOpener) lastLanguage() langdetect.Language {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.langs) == 0 {
		return ""
	}
	return s.langs[len(s.langs)-1]
}

func runEngine(t *testing.T) (*Engine, *mock.Transport, *stubOpener) {
	t.Helper()
	return runEngineWithConfig(t, Config{LogLevel: "error"})
}

func runEngineWithConfig(t *testing.T, cfg Config) (*Engine, *mock.Transport, *stubOpener) {
	t.Helper()
	tr := mock.New()
	opener := &stubOpener{}
	engine, err := NewEngine(EngineOptions{
		Config:    cfg,
		Transport: tr,
		Opener:    opener,
	})
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = engine.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return engine, tr, opener
}

func waitForSessions(t *testing.T, engine *Engine, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if engine.ActiveSessions() == n {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("active sessions = %d, want %d", engine.ActiveSessions(), n)
}

func TestEngineStartsSessionPerStream(t *testing.T) {
	engine, tr, opener := runEngine(t)

	tr.PushStreamStart("MZ1", "CA1")
	waitForSessions(t, engine, 1)
	if opener.openCount() != 1 {
		t.Fatalf("open count = %d, want 1", opener.openCount())
	}

	tr.PushStreamStart("MZ2", "CA2")
	waitForSessions(t, engine, 2)
	if opener.openCount() != 2 {
		t.Fatalf("open count = %d, want 2", opener.openCount())
	}
}

func TestEngineDropsSessionOnCallEnd(t *testing.T) {
	engine, tr, _ := runEngine(t)

	tr.PushStreamStart("MZ1", "CA1")
	waitForSessions(t, engine, 1)

	tr.PushCallEnd("MZ1", "completed")
	waitForSessions(t, engine, 0)
}

func TestEngineIgnoresFramesForUnknownStream(t *testing.T) {
	engine, tr, opener := runEngine(t)

	tr.PushMedia("MZ9", 100, []byte{0xff})
	time.Sleep(50 * time.Millisecond)
	if engine.ActiveSessions() != 0 {
		t.Fatal("session created for bare media frame")
	}
	if opener.openCount() != 0 {
		t.Fatal("backend opened without stream start")
	}
}

func TestEngineDrainClosesEverything(t *testing.T) {
	engine, tr, _ := runEngine(t)

	tr.PushStreamStart("MZ1", "CA1")
	waitForSessions(t, engine, 1)

	if err := engine.Drain(); err != nil {
		t.Fatalf("Drain: %v", err)
	}
	if engine.ActiveSessions() != 0 {
		t.Fatalf("sessions remain after drain")
	}
}

func TestEngineUsesConfiguredDefaultLanguage(t *testing.T) {
	engine, tr, opener := runEngineWithConfig(t, Config{
		LogLevel:  "error",
		Languages: LanguageConfig{Default: "hindi"},
	})

	tr.PushStreamStart("MZ1", "CA1")
	waitForSessions(t, engine, 1)
	if got := opener.lastLanguage(); got != langdetect.Hindi {
		t.Fatalf("backend opened with %q persona, want hindi", got)
	}
}

func TestNewEngineRejectsUnknownDefaultLanguage(t *testing.T) {
	_, err := NewEngine(EngineOptions{
		Config:    Config{Languages: LanguageConfig{Default: "klingon"}},
		Transport: mock.New(),
		Opener:    &stubOpener{},
	})
	if err == nil {
		t.Fatal("expected error for default language without a persona")
	}
}

func TestBuildTransportValidatesSettings(t *testing.T) {
	_, err := buildTransport(TransportConfig{
		Provider: "twilio",
		Settings: map[string]any{"account_sid": "AC1"},
	})
	if err == nil {
		t.Fatal("expected error for missing auth_token")
	}

	tr, err := buildTransport(TransportConfig{
		Provider: "twilio",
		Settings: map[string]any{"account_sid": "AC1", "auth_token": "tok"},
	})
	if err != nil {
		t.Fatalf("buildTransport: %v", err)
	}
	if tr.Name() != "twilio" {
		t.Fatalf("transport name = %q", tr.Name())
	}

	if _, err := buildTransport(TransportConfig{Provider: "smoke-signals"}); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}
