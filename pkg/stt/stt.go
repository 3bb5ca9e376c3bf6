// Package stt defines the optional caller-side transcription boundary.
// A tap receives raw caller audio and emits transcript text frames that
// feed language detection alongside the backend's own transcripts.
package stt

import (
	"context"

	"github.com/vaanihq/vaani/pkg/frames"
)

type StreamingSTT interface {
	Name() string
	Start(ctx context.Context) error
	Close() error
	SendAudio(frame frames.AudioFrame) error
	Results() <-chan frames.Frame
}
