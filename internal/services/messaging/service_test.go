package messaging

import (
	"testing"
	"time"

	"janken-relay-go/internal/config"
	"janken-relay-go/internal/models"
)

func TestNewServiceUnreachable(t *testing.T) {
	cfg := &config.Config{
		WorkerID:           "relay-test",
		NatsURL:            "nats://127.0.0.1:1",
		NatsConnectTimeout: 200 * time.Millisecond,
		NatsReconnectWait:  10 * time.Millisecond,
		NatsMaxReconnects:  0,
		PredictionsSubject: "gestures.predictions",
	}

	if _, err := NewService(cfg); err == nil {
		t.Fatal("NewService() error = nil for an unreachable server")
	}
}

func TestIsConnectedWithoutConnection(t *testing.T) {
	var s Service
	if s.IsConnected() {
		t.Error("IsConnected() = true with no connection")
	}
}

func TestEncodePrediction(t *testing.T) {
	ts := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	data, err := encodePrediction(models.PredictionEvent{ClientID: "alice", Gesture: "rock", Timestamp: ts})
	if err != nil {
		t.Fatalf("encodePrediction() error = %v", err)
	}
	want := `{"client_id":"alice","gesture":"rock","timestamp":"2026-10-16T12:00:00Z"}`
	if string(data) != want {
		t.Errorf("encodePrediction() = %s, want %s", data, want)
	}

	if _, err := encodePrediction(models.PredictionEvent{ClientID: "alice"}); err == nil {
		t.Error("encodePrediction() accepted an event without a gesture")
	}
}
