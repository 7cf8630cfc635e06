package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"janken-relay-go/internal/config"
	"janken-relay-go/internal/features"
	"janken-relay-go/internal/models"
	"janken-relay-go/internal/relay"
	"janken-relay-go/internal/services"
	"janken-relay-go/internal/services/gesture"
	"janken-relay-go/internal/services/publisher/mjpeg"
)

type textFrame string

func (textFrame) Width() int   { return 2 }
func (textFrame) Height() int  { return 2 }
func (textFrame) Close() error { return nil }

type textCodec struct{}

func (textCodec) Decode(data []byte) (models.Frame, error) {
	if string(data) == "bad" {
		return nil, fmt.Errorf("%w: not an image", models.ErrFrameDecode)
	}
	return textFrame(data), nil
}

func (textCodec) Encode(frame models.Frame) ([]byte, error) {
	return []byte("jpeg:" + string(frame.(textFrame))), nil
}

// prefixDetector sees a hand in every payload starting with "hand".
type prefixDetector struct{}

func (prefixDetector) DetectHands(_ context.Context, frame models.Frame) (models.Frame, *models.HandLandmarks, error) {
	label := string(frame.(textFrame))
	if !strings.HasPrefix(label, "hand") {
		return frame, nil, nil
	}
	hand := &models.HandLandmarks{Handedness: "Right", Score: 0.9}
	for i := range hand.Points {
		hand.Points[i] = models.Landmark{X: float64(i) / 20, Y: 0.5}
	}
	return frame, hand, nil
}

type constClassifier string

func (c constClassifier) Classify(context.Context, models.AngleVector) (string, error) {
	return string(c), nil
}

func newTestServer(t *testing.T) (*Server, *relay.Registry) {
	t.Helper()

	cfg := &config.Config{
		Version:        "test",
		Environment:    "test",
		WorkerID:       "relay-test",
		Host:           "127.0.0.1",
		Port:           8000,
		MaxQueueSize:   1,
		FrameTimeout:   20 * time.Millisecond,
		MaxRetries:     2,
		RetryDelay:     10 * time.Millisecond,
		WSPushInterval: 5 * time.Millisecond,
		SwaggerHost:    "localhost:8000",
	}

	registry := relay.NewRegistry()
	recognizer := gesture.NewRecognizer(textCodec{}, prefixDetector{}, constClassifier("rock"), features.AnglesFromLandmarks)
	container := &services.ServiceContainer{
		Config:     cfg,
		Registry:   registry,
		Recognizer: recognizer,
		Streamer: gesture.NewStreamer(registry, recognizer, nil, gesture.StreamConfig{
			FrameTimeout: cfg.FrameTimeout,
			MaxRetries:   cfg.MaxRetries,
			RetryDelay:   cfg.RetryDelay,
		}),
	}
	return NewServer(cfg, container), registry
}

func do(s *Server, method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeResult(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

func imageForm(t *testing.T, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("image", "frame.jpg")
	if err != nil {
		t.Fatal(err)
	}
	fw.Write(data)
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func TestResultUnknownClient(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(s, http.MethodGet, "/result/nobody", nil, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if got := decodeResult(t, rec)["error"]; got != "client id not found" {
		t.Errorf("error = %v", got)
	}
}

func TestIngestThenResultWithoutPrediction(t *testing.T) {
	s, registry := newTestServer(t)

	rec := do(s, http.MethodPost, "/frames/alice", strings.NewReader("frame-1"), "image/jpeg")
	if rec.Code != http.StatusOK {
		t.Fatalf("ingest status = %d, body %s", rec.Code, rec.Body.String())
	}
	if got := decodeResult(t, rec)["status"]; got != "success" {
		t.Errorf("ingest status field = %v", got)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}

	rec = do(s, http.MethodGet, "/result/alice", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("result status = %d", rec.Code)
	}
	out := decodeResult(t, rec)
	if out["clientId"] != "alice" {
		t.Errorf("clientId = %v", out["clientId"])
	}
	if v, ok := out["latestPrediction"]; !ok || v != nil {
		t.Errorf("latestPrediction = %v (present %v), want null", v, ok)
	}

	ch, ok := registry.Lookup("alice")
	if !ok {
		t.Fatal("channel not created by ingest")
	}
	if st := ch.Stats(); !st.Pending || st.FramesPushed != 1 {
		t.Errorf("channel stats = %+v", st)
	}
}

func TestIngestMultipartReplacesPending(t *testing.T) {
	s, registry := newTestServer(t)

	for _, frame := range []string{"old", "new"} {
		body, ct := imageForm(t, []byte(frame))
		if rec := do(s, http.MethodPost, "/frames/bob", body, ct); rec.Code != http.StatusOK {
			t.Fatalf("ingest %s status = %d, body %s", frame, rec.Code, rec.Body.String())
		}
	}

	ch, _ := registry.Lookup("bob")
	got, err := ch.Pop(context.Background(), 10*time.Millisecond)
	if err != nil || string(got) != "new" {
		t.Errorf("Pop() = %q, %v, want new", got, err)
	}
}

func TestIngestEmptyBody(t *testing.T) {
	s, registry := newTestServer(t)

	rec := do(s, http.MethodPost, "/frames/carol", strings.NewReader(""), "image/jpeg")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if registry.Len() != 0 {
		t.Error("empty upload created a channel")
	}
}

func TestStreamUnknownClient(t *testing.T) {
	s, _ := newTestServer(t)

	start := time.Now()
	rec := do(s, http.MethodGet, "/stream/ghost", nil, "")
	elapsed := time.Since(start)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); strings.HasPrefix(ct, "multipart/") {
		t.Errorf("Content-Type = %q on a failed stream", ct)
	}
	if elapsed < 20*time.Millisecond || elapsed > 500*time.Millisecond {
		t.Errorf("404 after %v, want about 20ms", elapsed)
	}
}

func TestStreamAndResult(t *testing.T) {
	s, registry := newTestServer(t)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/frames/alice", "image/jpeg", strings.NewReader("hand-open"))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/stream/alice", nil)
	stream, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer stream.Body.Close()

	if stream.StatusCode != http.StatusOK || stream.Header.Get("Content-Type") != mjpeg.ContentType {
		t.Fatalf("stream status = %d, content type %q", stream.StatusCode, stream.Header.Get("Content-Type"))
	}

	parts := multipart.NewReader(stream.Body, mjpeg.Boundary)
	part, err := parts.NextPart()
	if err != nil {
		t.Fatalf("NextPart() error = %v", err)
	}
	if ct := part.Header.Get("Content-Type"); ct != "image/jpeg" {
		t.Errorf("part Content-Type = %q", ct)
	}
	data, _ := io.ReadAll(part)
	if string(data) != "jpeg:hand-open" {
		t.Errorf("first part = %q, want jpeg:hand-open", data)
	}

	rec := do(s, http.MethodGet, "/result/alice", nil, "")
	if got := decodeResult(t, rec)["latestPrediction"]; got != "rock" {
		t.Errorf("latestPrediction = %v, want rock", got)
	}

	cancel()
	deadline := time.Now().Add(time.Second)
	for registry.Len() > 0 {
		if time.Now().After(deadline) {
			t.Fatal("channel not removed after the stream disconnected")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestProcessImage(t *testing.T) {
	s, registry := newTestServer(t)

	body, ct := imageForm(t, []byte("hand-fist"))
	rec := do(s, http.MethodPost, "/process_image", body, ct)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var out struct {
		Gesture   string            `json:"gesture"`
		Landmarks []models.Landmark `json:"landmarks"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.Gesture != "rock" || len(out.Landmarks) != models.NumLandmarks {
		t.Errorf("response = %+v", out)
	}

	body, ct = imageForm(t, []byte("empty-room"))
	rec = do(s, http.MethodPost, "/process_image", body, ct)
	got := decodeResult(t, rec)
	if got["gesture"] != models.NoHandDetected || got["landmarks"] != nil {
		t.Errorf("no-hand response = %v", got)
	}

	body, ct = imageForm(t, []byte("bad"))
	if rec := do(s, http.MethodPost, "/process_image", body, ct); rec.Code != http.StatusBadRequest {
		t.Errorf("undecodable image status = %d, want 400", rec.Code)
	}

	if registry.Len() != 0 {
		t.Error("process_image touched the registry")
	}
}

func TestClientsAndHealth(t *testing.T) {
	s, registry := newTestServer(t)
	registry.GetOrCreate("zed")
	a, _ := registry.GetOrCreate("amy")
	a.SetPrediction("paper")

	rec := do(s, http.MethodGet, "/clients", nil, "")
	var clients struct {
		Count   int                  `json:"count"`
		Clients []relay.ChannelStats `json:"clients"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &clients); err != nil {
		t.Fatal(err)
	}
	if clients.Count != 2 || clients.Clients[0].ClientID != "amy" || *clients.Clients[0].LatestPrediction != "paper" {
		t.Errorf("clients = %+v", clients)
	}

	rec = do(s, http.MethodGet, "/health", nil, "")
	health := decodeResult(t, rec)
	if rec.Code != http.StatusOK || health["status"] != "healthy" || health["active_clients"] != float64(2) {
		t.Errorf("health = %d %v", rec.Code, health)
	}
}

func TestCORSPreflight(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(s, http.MethodOptions, "/frames/alice", nil, "")
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing Access-Control-Allow-Origin")
	}
}

func TestWebsocketIngestAndPush(t *testing.T) {
	s, registry := newTestServer(t)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/dana"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	if err := conn.WriteMessage(websocket.BinaryMessage, []byte("hand-ws")); err != nil {
		t.Fatal(err)
	}

	var ch *relay.Channel
	deadline := time.Now().Add(time.Second)
	for {
		var ok bool
		if ch, ok = registry.Lookup("dana"); ok {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("websocket frame did not create a channel")
		}
		time.Sleep(5 * time.Millisecond)
	}

	ch.SetPrediction("scissors")
	conn.SetReadDeadline(time.Now().Add(time.Second))
	var msg struct {
		ClientID         string  `json:"clientId"`
		LatestPrediction *string `json:"latestPrediction"`
	}
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if msg.ClientID != "dana" || msg.LatestPrediction == nil || *msg.LatestPrediction != "scissors" {
		t.Errorf("pushed %+v", msg)
	}

	frame, err := ch.Pop(context.Background(), 10*time.Millisecond)
	if err != nil && !errors.Is(err, relay.ErrFrameTimeout) {
		t.Fatal(err)
	}
	if string(frame) != "hand-ws" {
		t.Errorf("Pop() = %q, want hand-ws", frame)
	}
}

func TestShutdownEndsStreamsAndRefusesIngest(t *testing.T) {
	s, registry := newTestServer(t)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/frames/erin", "image/jpeg", strings.NewReader("frame-1"))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	stream, err := http.Get(ts.URL + "/stream/erin")
	if err != nil {
		t.Fatal(err)
	}
	defer stream.Body.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}

	streamDone := make(chan struct{})
	go func() {
		io.Copy(io.Discard, stream.Body)
		close(streamDone)
	}()
	select {
	case <-streamDone:
	case <-time.After(time.Second):
		t.Fatal("stream still open after Shutdown")
	}

	rec := do(s, http.MethodPost, "/frames/frank", strings.NewReader("frame-2"), "image/jpeg")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("ingest after Shutdown status = %d, want 503", rec.Code)
	}
	if registry.Len() != 0 {
		t.Errorf("Len() = %d after Shutdown, want 0", registry.Len())
	}
}

func TestWebsocketDisconnectRemovesOwnedChannel(t *testing.T) {
	s, registry := newTestServer(t)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/gina"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	if err := conn.WriteMessage(websocket.BinaryMessage, []byte("frame-ws")); err != nil {
		t.Fatal(err)
	}

	waitFor(t, func() bool { _, ok := registry.Lookup("gina"); return ok })
	conn.Close()
	waitFor(t, func() bool { _, ok := registry.Lookup("gina"); return !ok })
}

func TestWebsocketDisconnectKeepsStreamedChannel(t *testing.T) {
	s, registry := newTestServer(t)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/hank"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	if err := conn.WriteMessage(websocket.BinaryMessage, []byte("hand-ws")); err != nil {
		t.Fatal(err)
	}
	waitFor(t, func() bool { _, ok := registry.Lookup("hank"); return ok })
	ch, _ := registry.Lookup("hank")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/stream/hank", nil)
	stream, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer stream.Body.Close()
	waitFor(t, func() bool { return ch.Consumers() == 1 })

	conn.Close()
	time.Sleep(50 * time.Millisecond)
	if got, ok := registry.Lookup("hank"); !ok || got != ch {
		t.Error("websocket disconnect removed a channel a stream was consuming")
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met within 1s")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
