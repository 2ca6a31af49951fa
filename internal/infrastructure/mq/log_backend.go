package mq

import (
	"context"

	"github.com/google/uuid"

	"ecosprout/pkg/logger"
)

// LogBackend writes events to the application log instead of a broker.
type LogBackend struct{}

func NewLogBackend() *LogBackend {
	return &LogBackend{}
}

func (LogBackend) Publish(_ context.Context, channel string, data []byte, _ map[string]string) (string, error) {
	logger.Info("event %s: %s", channel, data)
	return uuid.NewString(), nil
}

func (LogBackend) Close() error { return nil }
