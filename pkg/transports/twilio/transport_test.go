package twilio

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vaanihq/vaani/pkg/frames"
)

func TestSendClearControl(t *testing.T) {
	tr := New(Config{})
	sess := &session{sendCh: make(chan []byte, 1)}
	tr.mu.Lock()
	tr.sessions["stream-1"] = sess
	tr.mu.Unlock()

	cf := frames.NewControlFrame("stream-1", time.Now().UnixNano(), frames.ControlClear, map[string]string{})
	if err := tr.Send(cf); err != nil {
		t.Fatalf("send error: %v", err)
	}

	select {
	case msg := <-sess.sendCh:
		var payload map[string]any
		if err := json.Unmarshal(msg, &payload); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if evt, _ := payload["event"].(string); evt != "clear" {
			t.Fatalf("expected clear event, got %q", evt)
		}
		if sid, _ := payload["streamSid"].(string); sid != "stream-1" {
			t.Fatalf("expected streamSid stream-1, got %q", sid)
		}
	default:
		t.Fatalf("expected clear event to be enqueued")
	}
}

func TestSendMarkControl(t *testing.T) {
	tr := New(Config{})
	sess := &session{sendCh: make(chan []byte, 1)}
	tr.mu.Lock()
	tr.sessions["stream-1"] = sess
	tr.mu.Unlock()

	meta := map[string]string{frames.MetaMarkName: "responsePart"}
	cf := frames.NewControlFrame("stream-1", time.Now().UnixNano(), frames.ControlMark, meta)
	if err := tr.Send(cf); err != nil {
		t.Fatalf("send error: %v", err)
	}

	select {
	case msg := <-sess.sendCh:
		var payload map[string]any
		if err := json.Unmarshal(msg, &payload); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if evt, _ := payload["event"].(string); evt != "mark" {
			t.Fatalf("expected mark event, got %q", evt)
		}
		mark, _ := payload["mark"].(map[string]any)
		if name, _ := mark["name"].(string); name != "responsePart" {
			t.Fatalf("expected mark name responsePart, got %q", name)
		}
	default:
		t.Fatalf("expected mark event to be enqueued")
	}
}

func TestSendAudioEncodesMedia(t *testing.T) {
	tr := New(Config{})
	sess := &session{sendCh: make(chan []byte, 1)}
	tr.mu.Lock()
	tr.sessions["stream-1"] = sess
	tr.mu.Unlock()

	raw := []byte{0x7f, 0xff, 0x00}
	af := frames.NewAudioFrame("stream-1", time.Now().UnixNano(), raw, 8000, 1, nil)
	if err := tr.Send(af); err != nil {
		t.Fatalf("send error: %v", err)
	}

	select {
	case msg := <-sess.sendCh:
		var payload map[string]any
		if err := json.Unmarshal(msg, &payload); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if evt, _ := payload["event"].(string); evt != "media" {
			t.Fatalf("expected media event, got %q", evt)
		}
		media, _ := payload["media"].(map[string]any)
		decoded, err := base64.StdEncoding.DecodeString(media["payload"].(string))
		if err != nil {
			t.Fatalf("payload not base64: %v", err)
		}
		if string(decoded) != string(raw) {
			t.Fatalf("payload mismatch: %x", decoded)
		}
	default:
		t.Fatalf("expected media event to be enqueued")
	}
}

func TestEnqueueAfterClose(t *testing.T) {
	sess := &session{sendCh: make(chan []byte, 1)}
	if err := sess.close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	// Must drop silently, not panic on the closed channel.
	if err := sess.enqueue(map[string]any{"event": "clear", "streamSid": "stream-1"}); err != nil {
		t.Fatalf("enqueue after close: %v", err)
	}
	if err := sess.close(); err != nil {
		t.Fatalf("double close: %v", err)
	}
}

func TestCloseStreamUnknown(t *testing.T) {
	tr := New(Config{})
	if err := tr.CloseStream("no-such-stream"); err != nil {
		t.Fatalf("close unknown stream: %v", err)
	}
}

func TestSendAudioUnknownStream(t *testing.T) {
	tr := New(Config{})
	af := frames.NewAudioFrame("no-such-stream", time.Now().UnixNano(), []byte{1}, 8000, 1, nil)
	if err := tr.Send(af); err == nil {
		t.Fatal("expected error for unknown stream")
	}
}

func TestMediaStreamLifecycle(t *testing.T) {
	tr := New(Config{})
	srv := httptest.NewServer(tr)
	defer srv.Close()

	wsAddr := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsAddr, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	send := func(v string) {
		t.Helper()
		if err := conn.WriteMessage(websocket.TextMessage, []byte(v)); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	recv := func() frames.Frame {
		t.Helper()
		select {
		case f := <-tr.Recv():
			return f
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for frame")
			return nil
		}
	}

	send(`{"event":"connected"}`)
	send(`{"event":"start","start":{"streamSid":"MZ1","callSid":"CA123","from":"+15550100"}}`)

	sys, ok := recv().(frames.SystemFrame)
	if !ok || sys.Name() != frames.SystemStreamStart {
		t.Fatalf("expected stream_start, got %#v", sys)
	}
	meta := sys.Meta()
	if meta[frames.MetaCallSID] != "CA123" || meta[frames.MetaStreamID] != "MZ1" {
		t.Fatalf("start meta = %v", meta)
	}
	if meta[frames.MetaTraceID] == "" {
		t.Fatal("expected trace id on stream_start")
	}

	payload := base64.StdEncoding.EncodeToString([]byte{0xff, 0xfe})
	send(`{"event":"media","media":{"timestamp":"1234","payload":"` + payload + `"}}`)

	af, ok := recv().(frames.AudioFrame)
	if !ok {
		t.Fatalf("expected audio frame")
	}
	if af.Meta()[frames.MetaTimestampMS] != "1234" {
		t.Fatalf("expected media clock 1234, got %q", af.Meta()[frames.MetaTimestampMS])
	}
	if string(af.RawPayload()) != string([]byte{0xff, 0xfe}) {
		t.Fatalf("payload mismatch: %x", af.RawPayload())
	}

	// Numeric timestamps must be accepted too.
	send(`{"event":"media","media":{"timestamp":2345,"payload":"` + payload + `"}}`)
	af2, ok := recv().(frames.AudioFrame)
	if !ok {
		t.Fatalf("expected audio frame for numeric timestamp")
	}
	if af2.Meta()[frames.MetaTimestampMS] != "2345" {
		t.Fatalf("expected media clock 2345, got %q", af2.Meta()[frames.MetaTimestampMS])
	}

	send(`{"event":"mark","mark":{"name":"responsePart"}}`)
	cf, ok := recv().(frames.ControlFrame)
	if !ok || cf.Code() != frames.ControlMarkAck {
		t.Fatalf("expected mark ack, got %#v", cf)
	}
	if cf.Meta()[frames.MetaMarkName] != "responsePart" {
		t.Fatalf("mark meta = %v", cf.Meta())
	}

	send(`{"event":"stop","stop":{}}`)
	end, ok := recv().(frames.SystemFrame)
	if !ok || end.Name() != frames.SystemCallEnd {
		t.Fatalf("expected call_end, got %#v", end)
	}
	if end.Meta()[frames.MetaCallEndReason] != "completed" {
		t.Fatalf("end reason = %q", end.Meta()[frames.MetaCallEndReason])
	}
}

func TestHandleVoiceTwiml(t *testing.T) {
	tr := New(Config{PublicURL: "https://example.com"})
	req := httptest.NewRequest(http.MethodPost, "https://example.com/voice", nil)
	w := httptest.NewRecorder()
	tr.handleVoice(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, `<Connect><Stream url="wss://example.com/ws"/></Connect>`) {
		t.Fatalf("missing stream element: %s", body)
	}
	if !strings.Contains(body, "<Say>") || !strings.Contains(body, `<Pause length="1"/>`) {
		t.Fatalf("missing greeting elements: %s", body)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/xml" {
		t.Fatalf("content type = %q", ct)
	}
}

func TestHandleVoiceSignatureValidation(t *testing.T) {
	cfg := Config{AuthToken: "token", PublicURL: "https://example.com", VoicePath: "/voice"}
	tr := New(cfg)

	form := url.Values{}
	form.Set("CallSid", "CA123")
	form.Set("From", "+123")
	body := form.Encode()

	req := httptest.NewRequest(http.MethodPost, "https://example.com/voice", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	params := map[string]string{"CallSid": "CA123", "From": "+123"}
	sig := computeSignature(cfg.AuthToken, tr.requestURL(req), params)
	req.Header.Set("X-Twilio-Signature", sig)

	w := httptest.NewRecorder()
	tr.handleVoice(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	reqInvalid := httptest.NewRequest(http.MethodPost, "https://example.com/voice", strings.NewReader(body))
	reqInvalid.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	reqInvalid.Header.Set("X-Twilio-Signature", "invalid")
	wInvalid := httptest.NewRecorder()
	tr.handleVoice(wInvalid, reqInvalid)
	if wInvalid.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", wInvalid.Code)
	}
}

func TestHandleStatusCallbackMapping(t *testing.T) {
	cfg := Config{AuthToken: "token", PublicURL: "https://example.com", StatusCallbackPath: "/status"}
	tr := New(cfg)
	streamID := "stream-1"
	callSID := "CA123"

	tr.mu.Lock()
	tr.callStreams[callSID] = streamID
	tr.callSIDs[streamID] = callSID
	tr.mu.Unlock()

	form := url.Values{}
	form.Set("CallSid", callSID)
	form.Set("CallStatus", "completed")
	body := form.Encode()

	req := httptest.NewRequest(http.MethodPost, "https://example.com/status", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	params := map[string]string{"CallSid": callSID, "CallStatus": "completed"}
	sig := computeSignature(cfg.AuthToken, tr.requestURL(req), params)
	req.Header.Set("X-Twilio-Signature", sig)

	w := httptest.NewRecorder()
	tr.handleStatusCallback(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	select {
	case frame := <-tr.Recv():
		sys, ok := frame.(frames.SystemFrame)
		if !ok {
			t.Fatalf("expected SystemFrame, got %T", frame)
		}
		if sys.Name() != frames.SystemCallEnd {
			t.Fatalf("expected call_end event, got %q", sys.Name())
		}
		meta := sys.Meta()
		if meta[frames.MetaCallEndReason] != "completed" {
			t.Fatalf("expected call_end_reason completed, got %q", meta[frames.MetaCallEndReason])
		}
		if meta[frames.MetaCallSID] != callSID {
			t.Fatalf("expected call_sid %q, got %q", callSID, meta[frames.MetaCallSID])
		}
	case <-time.After(1 * time.Second):
		t.Fatalf("expected call_end frame")
	}
}

func TestNormalizeCallEndReason(t *testing.T) {
	tests := map[string]string{
		"completed":   "completed",
		"Hangup":      "completed",
		"busy":        "busy",
		"no-answer":   "no_answer",
		"failed":      "failed",
		"in-progress": "",
		"":            "",
		"weird":       "unknown",
	}
	for in, want := range tests {
		if got := normalizeCallEndReason(in); got != want {
			t.Errorf("normalizeCallEndReason(%q) = %q, want %q", in, got, want)
		}
	}
}

func computeSignature(authToken, url string, params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	base := url
	for _, k := range keys {
		base += k + params[k]
	}
	mac := hmac.New(sha1.New, []byte(authToken))
	_, _ = mac.Write([]byte(base))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
