package mq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingBackend struct {
	channel string
	data    []byte
	attrs   map[string]string
	err     error
}

func (r *recordingBackend) Publish(_ context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	r.channel, r.data, r.attrs = channel, data, attrs
	return "msg-1", r.err
}

func (r *recordingBackend) Close() error { return nil }

func TestPublisher_Publish(t *testing.T) {
	backend := &recordingBackend{}
	p := NewPublisher(backend, "ecosprout.")

	err := p.Publish(context.Background(), EventUserVerified, map[string]string{"userId": "u1"})
	require.NoError(t, err)

	assert.Equal(t, "ecosprout.user.verified", backend.channel)
	assert.Equal(t, EventUserVerified, backend.attrs["type"])

	var env struct {
		ID      string            `json:"id"`
		Type    string            `json:"type"`
		Payload map[string]string `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(backend.data, &env))
	assert.NotEmpty(t, env.ID)
	assert.Equal(t, EventUserVerified, env.Type)
	assert.Equal(t, "u1", env.Payload["userId"])
	assert.Equal(t, env.ID, backend.attrs["eventId"])
}

func TestPublisher_BackendError(t *testing.T) {
	p := NewPublisher(&recordingBackend{err: errors.New("broker down")}, "")

	err := p.Publish(context.Background(), EventItemCreated, nil)
	assert.ErrorContains(t, err, "broker down")
}

func TestTopicName(t *testing.T) {
	assert.Equal(t, "ecosprout-transaction-completed", topicName("ecosprout.transaction.completed"))
}
