package openairt

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/vaanihq/vaani/pkg/backend"
)

// Outbound message types.

type sessionUpdateMsg struct {
	Type    string        `json:"type"`
	Session sessionConfig `json:"session"`
}

type sessionConfig struct {
	TurnDetection     turnDetection `json:"turn_detection"`
	InputAudioFormat  string        `json:"input_audio_format"`
	OutputAudioFormat string        `json:"output_audio_format"`
	Voice             string        `json:"voice"`
	Instructions      string        `json:"instructions"`
	Modalities        []string      `json:"modalities"`
	Temperature       float64       `json:"temperature"`
}

type turnDetection struct {
	Type string `json:"type"`
}

type audioAppendMsg struct {
	Type  string `json:"type"`
	Audio string `json:"audio"`
}

type truncateMsg struct {
	Type         string `json:"type"`
	ItemID       string `json:"item_id"`
	ContentIndex int    `json:"content_index"`
	AudioEndMS   int64  `json:"audio_end_ms"`
}

// Inbound message envelope. Fields cover every event type the bridge
// reacts to; anything else is classified by Type only.

type serverEvent struct {
	Type   string            `json:"type"`
	Delta  string            `json:"delta"`
	ItemID string            `json:"item_id"`
	Item   *conversationItem `json:"item"`
	Error  *apiError         `json:"error"`
}

type conversationItem struct {
	ID      string        `json:"id"`
	Role    string        `json:"role"`
	Content []itemContent `json:"content"`
}

type itemContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// parseServerEvent maps one wire message to zero or more typed events.
// Unknown or irrelevant types yield no events and no error; a malformed
// payload yields an error the caller treats as a protocol violation.
func parseServerEvent(raw []byte) (string, []backend.Event, error) {
	var evt serverEvent
	if err := json.Unmarshal(raw, &evt); err != nil {
		return "", nil, fmt.Errorf("decode backend event: %w", err)
	}
	if evt.Type == "" {
		return "", nil, fmt.Errorf("backend event missing type")
	}

	switch evt.Type {
	case "response.audio.delta":
		if evt.Delta == "" {
			return evt.Type, nil, nil
		}
		payload, err := base64.StdEncoding.DecodeString(evt.Delta)
		if err != nil {
			return evt.Type, nil, fmt.Errorf("decode audio delta: %w", err)
		}
		return evt.Type, []backend.Event{backend.AudioDelta{ItemID: evt.ItemID, Payload: payload}}, nil

	case "input_audio_buffer.speech_started":
		return evt.Type, []backend.Event{backend.SpeechStarted{}}, nil

	case "response.output_item.added":
		if evt.Item == nil {
			return evt.Type, nil, nil
		}
		return evt.Type, []backend.Event{backend.UtteranceStarted{ItemID: evt.Item.ID}}, nil

	case "response.audio.done":
		return evt.Type, []backend.Event{backend.UtteranceDone{ItemID: evt.ItemID}}, nil

	case "conversation.item.created":
		if evt.Item == nil || evt.Item.Role != "user" {
			return evt.Type, nil, nil
		}
		var out []backend.Event
		for _, c := range evt.Item.Content {
			if c.Type == "input_text" && c.Text != "" {
				out = append(out, backend.TranscriptItem{Role: evt.Item.Role, Text: c.Text})
			}
		}
		return evt.Type, out, nil

	case "error":
		e := backend.ErrorEvent{}
		if evt.Error != nil {
			e.Code = evt.Error.Code
			e.Message = evt.Error.Message
		}
		return evt.Type, []backend.Event{e}, nil
	}

	return evt.Type, nil, nil
}
